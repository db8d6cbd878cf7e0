// ABOUTME: Tests for the console slog handler
// ABOUTME: Covers level gating, attr rendering, and group prefixes

package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsoleLogger(t *testing.T, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	t.Helper()

	// Color escapes would make substring assertions brittle
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return slog.New(newConsoleHandler(&buf, level)), &buf
}

func TestConsoleHandler_RendersMessageAndAttrs(t *testing.T) {
	logger, buf := newTestConsoleLogger(t, slog.LevelInfo)

	logger.Info("client connected", "connection_id", "conn-1")

	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "client connected")
	assert.Contains(t, line, "connection_id=conn-1")
}

func TestConsoleHandler_LevelGating(t *testing.T) {
	logger, buf := newTestConsoleLogger(t, slog.LevelWarn)

	logger.Info("suppressed")
	logger.Warn("kept")

	line := buf.String()
	assert.NotContains(t, line, "suppressed")
	assert.Contains(t, line, "kept")
}

func TestConsoleHandler_WithAttrsCarriesThrough(t *testing.T) {
	logger, buf := newTestConsoleLogger(t, slog.LevelDebug)

	logger.With("component", "store").Debug("appended turns", "count", 2)

	line := buf.String()
	assert.Contains(t, line, "component=store")
	assert.Contains(t, line, "count=2")
}

func TestConsoleHandler_GroupPrefixesKeys(t *testing.T) {
	logger, buf := newTestConsoleLogger(t, slog.LevelInfo)

	logger.WithGroup("provider").Info("completion finished", "model", "test-model")

	assert.Contains(t, buf.String(), "provider.model=test-model")
}

func TestConsoleHandler_EnabledRespectsLevel(t *testing.T) {
	h := newConsoleHandler(&bytes.Buffer{}, slog.LevelError)

	require.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
