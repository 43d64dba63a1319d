package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"listings-service/internal/core/port"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.WithFields(port.Fields{"component": "test"}).
		Error("Something failed", errors.New("boom"), port.Fields{"listing_id": 42})

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "Something failed", rec["msg"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, float64(42), rec["listing_id"])
	assert.Equal(t, "boom", rec["error"])
}

func TestSlogAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Info("hidden", nil)
	logger.Debug("hidden too", nil)
	assert.Zero(t, buf.Len())

	logger.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "": slog.LevelInfo,
		"warn": slog.LevelWarn, "warning": slog.LevelWarn, " error ": slog.LevelError,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, got)
}

type fakePoster struct {
	tags    []string
	records []map[string]interface{}
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.records = append(f.records, message.(map[string]interface{}))
	return nil
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &fakePoster{}
	adapter, err := NewFluentLoggerAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)

	logger := adapter.WithFields(port.Fields{"service_name": "listings"})
	logger.Debug("dropped", nil)
	logger.Info("kept", port.Fields{"k": "v"})
	logger.Error("failed", errors.New("smtp down"), nil)

	require.Equal(t, []string{"info", "error"}, poster.tags)
	assert.Equal(t, "kept", poster.records[0]["message"])
	assert.Equal(t, "listings", poster.records[0]["service_name"])
	assert.Equal(t, "v", poster.records[0]["k"])
	assert.Equal(t, "smtp down", poster.records[1]["error"])
	assert.NotEmpty(t, poster.records[1]["timestamp"])

	_, err = NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestMultiLoggerAdapter_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	multi, err := NewMultiLoggerAdapter(
		NewSlogAdapter(SlogConfig{Writer: &a}),
		NewSlogAdapter(SlogConfig{Writer: &b}),
	)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"trace_id": "abc"}).Info("hello", nil)
	assert.Contains(t, a.String(), "trace_id=abc")
	assert.Contains(t, b.String(), "hello")

	_, err = NewMultiLoggerAdapter()
	assert.Error(t, err)
}
