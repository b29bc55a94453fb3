package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(99), "UNKNOWN"}, // Invalid level
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestDefaultLogConfig(t *testing.T) {
	config := DefaultLogConfig()

	assert.Equal(t, InfoLevel, config.Level)
	assert.Nil(t, config.Output) // Default config uses nil (stdout)
	assert.Equal(t, time.RFC3339, config.TimeFormat)
	assert.Equal(t, "", config.Prefix)
}

func TestLogger_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	tests := []struct {
		name     string
		logFunc  func()
		contains []string
	}{
		{
			name: "debug log",
			logFunc: func() {
				logger.Debug("debug message", Field{"key", "value"})
			},
			contains: []string{"DEBUG", "debug message", "value"},
		},
		{
			name: "info log",
			logFunc: func() {
				logger.Info("info message", Field{"count", 42})
			},
			contains: []string{"INFO", "info message", "42"},
		},
		{
			name: "warn log",
			logFunc: func() {
				logger.Warn("warning message", Field{"flag", true})
			},
			contains: []string{"WARN", "warning message", "true"},
		},
		{
			name: "error log",
			logFunc: func() {
				err := errors.New("test error")
				logger.Error("error message", err, Field{"code", 500})
			},
			contains: []string{"ERROR", "error message", "test error", "500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()

			output := buf.String()
			for _, contains := range tt.contains {
				assert.Contains(t, output, contains)
			}
		})
	}
}

func TestLogger_LogFiltering(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  WarnLevel, // Only WARN and ERROR should be logged
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	// These should not be logged
	logger.Debug("debug message")
	logger.Info("info message")

	// These should be logged
	logger.Warn("warn message")
	logger.Error("error message", errors.New("test error"))

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	enrichedLogger := logger.WithFields(
		String("component", "irc"),
		String("channel", "#dev"),
	)

	enrichedLogger.Info("joined", Int("attempt", 1))

	output := buf.String()
	assert.Contains(t, output, "irc")
	assert.Contains(t, output, "#dev")
	assert.Contains(t, output, "joined")
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	ctx := context.Background()
	ctx = context.WithValue(ctx, "delivery_id", "d-123")
	ctx = context.WithValue(ctx, "event_type", "push")

	contextLogger := logger.WithContext(ctx)
	contextLogger.Info("context message")

	output := buf.String()
	assert.Contains(t, output, "d-123")
	assert.Contains(t, output, "push")
}

func TestLogger_WithContext_MissingValues(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), "other_key", "other_value")

	contextLogger := logger.WithContext(ctx)
	contextLogger.Info("context message")

	output := buf.String()
	assert.Contains(t, output, "context message")
	assert.NotContains(t, output, "other_value")
}

func TestLogger_FieldConstructors(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	logger.Info("field types test",
		String("repo", "demo"),
		Int("commits", 3),
		Bool("forced", true),
		Duration("elapsed", 1500*time.Millisecond),
		Strings("channels", []string{"#dev", "#ops"}),
		Err(errors.New("test error")),
		Any("payload", map[string]string{"branch": "main"}),
	)

	output := buf.String()
	assert.Contains(t, output, "demo")
	assert.Contains(t, output, "3")
	assert.Contains(t, output, "true")
	assert.Contains(t, output, "#ops")
	assert.Contains(t, output, "test error")
	assert.Contains(t, output, "main")
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	std := StdLogger(logger)
	require.NotNil(t, std)
	std.Println("bridged message")

	assert.Contains(t, buf.String(), "bridged message")
}

func TestStdLogger_NonZap(t *testing.T) {
	// A non-zap Logger still yields a usable *log.Logger
	assert.NotNil(t, StdLogger(nil))
}

func TestGlobalLogger(t *testing.T) {
	originalLogger := GetGlobalLogger()
	defer SetGlobalLogger(originalLogger)

	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	testLogger, err := NewZapLogger(config)
	require.NoError(t, err)
	SetGlobalLogger(testLogger)

	assert.Equal(t, testLogger, GetGlobalLogger())

	Debug("debug from global")
	Info("info from global")
	Warn("warn from global")
	Error("error from global", errors.New("global error"))

	output := buf.String()
	assert.Contains(t, output, "debug from global")
	assert.Contains(t, output, "info from global")
	assert.Contains(t, output, "warn from global")
	assert.Contains(t, output, "error from global")
	assert.Contains(t, output, "global error")
}

func TestLogger_ChainedWithFields(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	enrichedLogger := logger.
		WithFields(String("service", "commit-relay")).
		WithFields(String("component", "router"))

	enrichedLogger.Info("chained fields test")

	output := buf.String()
	assert.Contains(t, output, "commit-relay")
	assert.Contains(t, output, "router")
}

func TestLogger_Concurrency(t *testing.T) {
	var buf bytes.Buffer
	config := LogConfig{
		Level:  DebugLevel,
		Output: &buf,
	}

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	const numGoroutines = 10
	const numLogs = 5

	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			enrichedLogger := logger.WithFields(Int("goroutine", id))
			for j := 0; j < numLogs; j++ {
				enrichedLogger.Info("concurrent message", Int("iteration", j))
			}
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	output := buf.String()
	assert.NotEmpty(t, output)
	assert.Contains(t, output, "concurrent message")
}

func BenchmarkLogger_Info(b *testing.B) {
	logger, err := NewZapLogger(LogConfig{
		Level:  InfoLevel,
		Output: &bytes.Buffer{},
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", Int("iteration", i))
	}
}
