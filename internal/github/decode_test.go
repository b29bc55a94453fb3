package github

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commit-relay/internal/common/errors"
)

const prPayload = `{
	"action": "opened",
	"number": 42,
	"pull_request": {
		"html_url": "https://github.com/acme/demo/pull/42",
		"title": "Add retry logic",
		"base": {"ref": "main"},
		"head": {"ref": "feature/retry"}
	},
	"repository": {"name": "demo"},
	"sender": {"login": "alice"}
}`

const pushPayload = `{
	"ref": "refs/heads/main",
	"forced": true,
	"compare": "https://github.com/acme/demo/compare/ab12...cd34",
	"commits": [
		{"id": "abcdef1234567890", "message": "Fix bug\nLonger description", "author": {"username": "alice"}},
		{"id": "1234567890abcdef", "message": "Tidy docs", "author": {"username": "bob"}}
	],
	"repository": {"name": "demo"},
	"sender": {"login": "alice"}
}`

// formBody wraps a JSON document the way GitHub form-encodes hooks.
func formBody(payload string) []byte {
	return []byte(url.Values{"payload": {payload}}.Encode())
}

func TestParsePayload_FormEncoded(t *testing.T) {
	event, err := ParsePayload(ContentTypeForm, formBody(prPayload))
	require.NoError(t, err)

	assert.Equal(t, "opened", event.Action)
	assert.Equal(t, 42, event.Number)
	assert.Equal(t, "demo", event.Repository.Name)
	assert.Equal(t, "alice", event.Sender.Login)

	require.NotNil(t, event.PullRequest)
	assert.Equal(t, "https://github.com/acme/demo/pull/42", event.PullRequest.HTMLURL)
	assert.Equal(t, "Add retry logic", event.PullRequest.Title)
	assert.Equal(t, "main", event.PullRequest.Base.Ref)
	assert.Equal(t, "feature/retry", event.PullRequest.Head.Ref)
}

func TestParsePayload_FormWithCharset(t *testing.T) {
	event, err := ParsePayload("application/x-www-form-urlencoded; charset=utf-8", formBody(prPayload))
	require.NoError(t, err)
	assert.Equal(t, "demo", event.Repository.Name)
}

func TestParsePayload_RawJSON(t *testing.T) {
	event, err := ParsePayload("application/json; charset=utf-8", []byte(pushPayload))
	require.NoError(t, err)

	assert.Equal(t, "refs/heads/main", event.Ref)
	assert.True(t, event.Forced)
	assert.Equal(t, "https://github.com/acme/demo/compare/ab12...cd34", event.Compare)

	require.Len(t, event.Commits, 2)
	assert.Equal(t, "abcdef1234567890", event.Commits[0].ID)
	assert.Equal(t, "Fix bug\nLonger description", event.Commits[0].Message)
	assert.Equal(t, "alice", event.Commits[0].Author.Username)
	assert.Equal(t, "bob", event.Commits[1].Author.Username)

	assert.Nil(t, event.PullRequest)
}

func TestParsePayload_MissingContentType(t *testing.T) {
	// Clients that omit the header get the primary form treatment.
	event, err := ParsePayload("", formBody(prPayload))
	require.NoError(t, err)
	assert.Equal(t, "demo", event.Repository.Name)
}

func TestParsePayload_Errors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		unsupported bool
	}{
		{
			name:        "unsupported media type",
			contentType: "text/plain",
			body:        []byte(prPayload),
			unsupported: true,
		},
		{
			name:        "multipart not accepted",
			contentType: "multipart/form-data; boundary=x",
			body:        formBody(prPayload),
			unsupported: true,
		},
		{
			name:        "garbage content type header",
			contentType: ";;;",
			body:        formBody(prPayload),
			unsupported: true,
		},
		{
			name:        "malformed form escape",
			contentType: ContentTypeForm,
			body:        []byte("payload=%zz"),
		},
		{
			name:        "missing payload field",
			contentType: ContentTypeForm,
			body:        []byte("other=value"),
		},
		{
			name:        "duplicated payload field",
			contentType: ContentTypeForm,
			body:        append(append([]byte(nil), formBody(prPayload)...), []byte("&payload=%7B%7D")...),
		},
		{
			name:        "payload field is not JSON",
			contentType: ContentTypeForm,
			body:        []byte("payload=not-json"),
		},
		{
			name:        "raw body is not JSON",
			contentType: ContentTypeJSON,
			body:        []byte("not-json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParsePayload(tt.contentType, tt.body)

			require.Error(t, err)
			assert.Nil(t, event)
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

			if tt.unsupported {
				assert.ErrorIs(t, err, ErrUnsupportedContentType)
			} else {
				assert.NotErrorIs(t, err, ErrUnsupportedContentType)
			}
		})
	}
}
