package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/venvcache/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewWithWriter(buf), buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("some message")

	g := goldie.New(t)
	g.Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_InfoWithArgs(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("restoring virtual environment from cache", "key", "abc123", "entries", 2)

	assert.Equal(t, "restoring virtual environment from cache key=abc123 entries=2\n", buf.String())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("some warning")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Debug(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("computing hash", "path", "a.txt")
	assert.Empty(t, buf.String(), "debug records are hidden unless verbose")

	lg.SetVerbose(true)
	lg.Debug("computing hash", "path", "a.txt")

	g := goldie.New(t)
	g.Assert(t, "debug_verbose", buf.Bytes())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("computing hash", "path", "a.txt")
	assert.Empty(t, buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String(), "Expected no output for nil error")
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(zerr.Wrap(errors.New("underlying cause"), "wrapped message"))

	g := goldie.New(t)
	g.Assert(t, "error_chain_zerr_two", buf.Bytes())
}

func TestLogger_Error_Joined(t *testing.T) {
	lg, buf := newTestLogger(t)

	cause := zerr.With(zerr.Wrap(errors.New("resource temporarily unavailable"), "failed to lock"), "path", "/cache.lock")
	lg.Error(errors.Join(zerr.New("failed to acquire cache lock"), cause))

	g := goldie.New(t)
	g.Assert(t, "error_joined", buf.Bytes())
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := errors.New("connection refused")
	lg.Error(fmt.Errorf("failed to connect: %w", inner))

	assert.Equal(t, "✗ Error: failed to connect: connection refused\n", buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	err := zerr.With(zerr.Wrap(errors.New("disk full"), "failed to write cache store"), "path", "/cache")
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"failed to write cache store: disk full"`)
	assert.Contains(t, out, `"path":"/cache"`)
	assert.NotContains(t, out, "✗")

	buf.Reset()
	lg.Warn("no cache found", "path", "/cache")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"msg":"no cache found"`)
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("error in pretty mode"))
	pretty := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Error(errors.New("error in json mode"))
	jsonOut := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Error(errors.New("error back in pretty mode"))
	back := buf.String()

	assert.Contains(t, pretty, "✗")
	assert.Contains(t, jsonOut, `"error"`)
	assert.NotContains(t, jsonOut, "✗")
	assert.Contains(t, back, "✗")
}

func TestLogger_SetOutput(t *testing.T) {
	lg, first := newTestLogger(t)
	lg.SetVerbose(true)

	second := &bytes.Buffer{}
	lg.SetOutput(second)
	lg.Debug("moved")

	assert.Empty(t, first.String())
	assert.Equal(t, "○ moved\n", second.String(), "verbosity survives an output change")

	require.NotPanics(t, func() { lg.SetOutput(nil) })
}

func TestLogger_New(t *testing.T) {
	require.NotNil(t, logger.New())
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(4)
		go func() { defer wg.Done(); lg.Info("concurrent info") }()
		go func() { defer wg.Done(); lg.Warn("concurrent warn") }()
		go func() { defer wg.Done(); lg.Error(errors.New("concurrent error")) }()
		go func() { defer wg.Done(); lg.SetJSON(false) }()
	}
	wg.Wait()
}
