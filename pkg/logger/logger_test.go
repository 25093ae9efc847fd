package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiesession/pkg/logger"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("level filters", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("static attrs", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("session")))
		log.Info("x")
		assert.Equal(t, "session", decode(t, buf)["component"])
	})
}

func TestWithContextValue(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextValue("request_id", ctxKey{}))

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.InfoContext(ctx, "with id")
	assert.Equal(t, "req-1", decode(t, buf)["request_id"])

	buf.Reset()
	log.With("k", "v").InfoContext(context.Background(), "without id")
	entry := decode(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.Equal(t, "v", entry["k"])
}

func TestWithEnvironment(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithEnvironment("prod", "svc"), logger.WithOutput(buf))
	log.Debug("hidden")
	log.Info("shown")
	entry := decode(t, buf)
	assert.Equal(t, "svc", entry["service"])
	assert.Equal(t, "prod", entry["env"])

	buf.Reset()
	dev := logger.New(logger.WithEnvironment("", "svc"), logger.WithOutput(buf))
	dev.Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "env=development")
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	log.Error("nothing happens")
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "boom", logger.Error(errors.New("boom")).Value.Any().(error).Error())
	assert.Equal(t, int64(2), logger.KeyIndex(2).Value.Int64())
	assert.Equal(t, "key_index", logger.KeyIndex(2).Key)
	assert.Equal(t, "restored", logger.Outcome("restored").Value.String())
	assert.Equal(t, "decrypt", logger.Label("decrypt").Value.String())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, int64(10), logger.Size(10).Value.Int64())
	assert.Equal(t, "sid", logger.Cookie("sid").Value.String())
}
