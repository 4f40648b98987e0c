package logger_adapter

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

type recordedPost struct {
	tag  string
	data port.Fields
}

type fakePoster struct {
	mu    sync.Mutex
	posts []recordedPost
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, recordedPost{tag: tag, data: message.(port.Fields)})
	return nil
}

func TestSlogAdapterWritesFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug})

	logger.WithFields(port.Fields{"component": "test"}).
		Error("request failed", errors.New("boom"), port.Fields{"status_code": 502})

	out := buf.String()
	assert.Contains(t, out, "request failed")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "status_code=502")
	assert.Contains(t, out, "boom")
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Debug("hidden", nil)
	logger.Info("hidden too", nil)
	assert.Empty(t, buf.String())

	logger.Warn("visible", nil)
	assert.Contains(t, buf.String(), "visible")
}

func TestFluentAdapterFiltersAndMerges(t *testing.T) {
	poster := &fakePoster{}
	logger := newFluentLoggerAdapter(poster, slog.LevelInfo).WithFields(port.Fields{"service_name": "dashboard"})

	logger.Debug("skipped", nil)
	logger.Error("failed", errors.New("boom"), port.Fields{"resource": "units"})

	require.Len(t, poster.posts, 1)
	post := poster.posts[0]
	assert.Equal(t, "error", post.tag)
	assert.Equal(t, "dashboard", post.data["service_name"])
	assert.Equal(t, "units", post.data["resource"])
	assert.Equal(t, "boom", post.data["error"])
	assert.Equal(t, "failed", post.data["message"])
}

func TestMultiLoggerFansOut(t *testing.T) {
	first, second := &fakePoster{}, &fakePoster{}
	multi, err := NewMultiloggerAdapter(
		newFluentLoggerAdapter(first, slog.LevelDebug),
		newFluentLoggerAdapter(second, slog.LevelDebug),
	)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"trace_id": "t-1"}).Info("hello", nil)

	require.Len(t, first.posts, 1)
	require.Len(t, second.posts, 1)
	assert.Equal(t, "t-1", second.posts[0].data["trace_id"])

	_, err = NewMultiloggerAdapter()
	assert.Error(t, err)
}

func TestMultiLoggerSkipsMissingSinks(t *testing.T) {
	poster := &fakePoster{}
	only := newFluentLoggerAdapter(poster, slog.LevelDebug)

	logger, err := NewMultiloggerAdapter(nil, only)
	require.NoError(t, err)
	assert.Same(t, only, logger)

	_, err = NewMultiloggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
