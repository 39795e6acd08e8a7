package logging

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := stdout
	stdout = buf
	t.Cleanup(func() { stdout = prev })
	return buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Enable)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.False(t, cfg.File.Enable)
	assert.Equal(t, "logs", cfg.File.Director)
	assert.Equal(t, "logger", cfg.ConfigPrefix())
}

func TestConfigTransportLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"dpanic", zapcore.DPanicLevel},
		{"panic", zapcore.PanicLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{Level: tt.level}
			assert.Equal(t, tt.expected, cfg.TransportLevel())
		})
	}
}

func TestNewLogger_JSONToStdout(t *testing.T) {
	buf := captureStdout(t)

	cfg := DefaultConfig()
	cfg.Format = "json"
	logger := NewLogger(cfg)
	logger.Info("hello", zap.String("key", "value"))
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, `"message":"hello"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.NotContains(t, out, "hidden")
}

func TestNewLogger_DisabledIsNop(t *testing.T) {
	buf := captureStdout(t)

	cfg := DefaultConfig()
	cfg.Enable = false
	NewLogger(cfg).Error("nothing")

	assert.Empty(t, buf.String())
}

func TestNewLogger_FileOutput(t *testing.T) {
	t.Cleanup(func() { _ = CloseAllWriters() })

	cfg := DefaultConfig()
	cfg.Enable = false
	cfg.File.Enable = true
	cfg.File.Director = t.TempDir()

	logger := NewLogger(cfg)
	logger.Warn("to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(filepath.Join(cfg.File.Director, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestLoggerChildren(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Named("runtime").With(zap.String("plugin", "web")).Info("built")
	logger.With(zap.Error(os.ErrNotExist)).Warn("missing file")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "runtime", entries[0].LoggerName)
	assert.Equal(t, "web", entries[0].ContextMap()["plugin"])
	assert.Equal(t, "missing file", entries[1].Message)
	assert.Contains(t, entries[1].ContextMap()["error"], "not exist")
}

func TestGlobalLogger(t *testing.T) {
	prev := Global()
	t.Cleanup(func() { SetGlobal(prev) })

	core, logs := observer.New(zapcore.InfoLevel)
	SetGlobal(FromZap(zap.New(core)))

	Info("global info")
	Warn("global warn")
	Debug("dropped")

	assert.Equal(t, 2, logs.Len())
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	ctx := SetTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", GetTraceID(ctx))
	WithContext(logger, ctx).Info("traced")

	ctx = ToContext(ctx, logger)
	assert.Same(t, logger, FromContext(ctx))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["trace_id"])
}

func TestHTTPMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	handler := HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/pot", fields["path"])
	assert.Equal(t, int64(len("short and stout")), fields["bytes"])
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	handler := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ToContext(req.Context(), logger))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.True(t, strings.Contains(logs.All()[0].Message, "panic"))
}
