package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultClientConfig()

	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 100, config.MaxIdleConns)
	assert.Equal(t, 10, config.MaxIdleConnsPerHost)
	assert.Equal(t, 90*time.Second, config.IdleConnTimeout)
	assert.False(t, config.DisableKeepAlives)
	assert.Nil(t, config.Transport)
	assert.Nil(t, config.CheckRedirect)
}

func TestWithTimeout(t *testing.T) {
	config := DefaultClientConfig()
	option := WithTimeout(5 * time.Second)

	option(&config)

	assert.Equal(t, 5*time.Second, config.Timeout)
	// Other fields should remain unchanged
	assert.Equal(t, 100, config.MaxIdleConns)
}

func TestWithMaxIdleConns(t *testing.T) {
	config := DefaultClientConfig()
	option := WithMaxIdleConns(50)

	option(&config)

	assert.Equal(t, 50, config.MaxIdleConns)
	// Other fields should remain unchanged
	assert.Equal(t, 30*time.Second, config.Timeout)
}

func TestWithMaxIdleConnsPerHost(t *testing.T) {
	config := DefaultClientConfig()
	option := WithMaxIdleConnsPerHost(5)

	option(&config)

	assert.Equal(t, 5, config.MaxIdleConnsPerHost)
	assert.Equal(t, 100, config.MaxIdleConns)
}

func TestWithIdleConnTimeout(t *testing.T) {
	config := DefaultClientConfig()
	option := WithIdleConnTimeout(60 * time.Second)

	option(&config)

	assert.Equal(t, 60*time.Second, config.IdleConnTimeout)
	assert.Equal(t, 30*time.Second, config.Timeout)
}

func TestWithoutKeepAlives(t *testing.T) {
	config := DefaultClientConfig()
	option := WithoutKeepAlives()

	assert.False(t, config.DisableKeepAlives) // Initially false

	option(&config)

	assert.True(t, config.DisableKeepAlives)
}

func TestWithTransport(t *testing.T) {
	config := DefaultClientConfig()
	customTransport := &http.Transport{
		MaxIdleConns: 200,
	}
	option := WithTransport(customTransport)

	option(&config)

	assert.Equal(t, customTransport, config.Transport)
}

func TestWithCheckRedirect(t *testing.T) {
	config := DefaultClientConfig()
	customRedirectFunc := func(req *http.Request, via []*http.Request) error {
		return nil
	}
	option := WithCheckRedirect(customRedirectFunc)

	option(&config)

	assert.NotNil(t, config.CheckRedirect)
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(WithTimeout(2 * time.Second))

	require.NotNil(t, client)
	assert.Equal(t, 2*time.Second, client.Timeout)
	assert.NotNil(t, client.Transport)
}

func TestNewHTTPClientWithTimeout(t *testing.T) {
	client := NewHTTPClientWithTimeout(7 * time.Second)

	require.NotNil(t, client)
	assert.Equal(t, 7*time.Second, client.Timeout)
}

func TestWithoutRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("followed"))
	}))
	defer target.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	client := NewHTTPClient(WithoutRedirects())

	resp, err := client.Get(redirecting.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	// The redirect response itself is returned, not the target's body
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "followed")
}
