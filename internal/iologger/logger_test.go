package iologger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keepDefaultLogger restores the process-wide slog default after
// the test, Init replaces it.
func keepDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestDestWriter_StandardStreams(t *testing.T) {
	tests := []struct {
		dest     string
		expected *os.File
	}{
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
		// Unrecognized names fall back to stderr rather than
		// silencing logging.
		{"syslog", os.Stderr},
		{"", os.Stderr},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			w, err := destWriter(t.TempDir(), tt.dest, false)
			require.NoError(t, err)
			assert.Same(t, tt.expected, w)
		})
	}
}

func TestDestWriter_FileTruncatesWithoutAppend(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "guilddb.log")

	err := os.WriteFile(logPath, []byte("stale entry\n"), 0644)
	require.NoError(t, err)

	w, err := destWriter(dir, "file", false)
	require.NoError(t, err)
	w.(*os.File).Close()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Empty(t, content, "append=false should start the file fresh")
}

func TestDestWriter_FileKeepsContentWithAppend(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "guilddb.log")

	err := os.WriteFile(logPath, []byte("bootstrap entry\n"), 0644)
	require.NoError(t, err)

	w, err := destWriter(dir, "file", true)
	require.NoError(t, err)
	_, err = w.Write([]byte("later entry\n"))
	require.NoError(t, err)
	w.(*os.File).Close()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "bootstrap entry")
	assert.Contains(t, string(content), "later entry")
}

func TestDestWriter_UnwritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "nested")

	_, err := destWriter(dir, "file", false)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "cannot open log file")
}

func TestInit_JSONFormat(t *testing.T) {
	keepDefaultLogger(t)
	dir := t.TempDir()

	cfg := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	require.NoError(t, Init(dir, cfg, false))

	slog.Info("probe message", "key", "value")

	content, err := os.ReadFile(filepath.Join(dir, "guilddb.log"))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(content, &entry),
		"Output should be valid JSON")
	assert.Equal(t, "probe message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestInit_TextFormats(t *testing.T) {
	// tint renders as text until a tint handler is wired in.
	for _, format := range []string{"text", "tint"} {
		t.Run(format, func(t *testing.T) {
			keepDefaultLogger(t)
			dir := t.TempDir()

			cfg := config.LogConfig{
				Format:      format,
				Level:       "info",
				Destination: "file",
			}
			require.NoError(t, Init(dir, cfg, false))

			slog.Info("probe message", "key", "value")

			content, err := os.ReadFile(
				filepath.Join(dir, "guilddb.log"))
			require.NoError(t, err)
			assert.Contains(t, string(content), "level=INFO")
			assert.Contains(t, string(content), "key=value")
		})
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	keepDefaultLogger(t)
	dir := t.TempDir()

	cfg := config.LogConfig{
		Format:      "text",
		Level:       "warn",
		Destination: "file",
	}
	require.NoError(t, Init(dir, cfg, false))

	slog.Info("hidden info")
	slog.Warn("visible warning")

	content, err := os.ReadFile(filepath.Join(dir, "guilddb.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden info")
	assert.Contains(t, string(content), "visible warning")
}

// TestInit_ReconfigureAppends covers the bootstrap flow: logging
// starts with defaults, then a second Init with the loaded
// configuration must not erase the bootstrap entries.
func TestInit_ReconfigureAppends(t *testing.T) {
	keepDefaultLogger(t)
	dir := t.TempDir()

	boot := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	require.NoError(t, Init(dir, boot, false))
	slog.Info("bootstrap entry")

	loaded := config.LogConfig{
		Format:      "text",
		Level:       "debug",
		Destination: "file",
	}
	require.NoError(t, Init(dir, loaded, true))
	slog.Debug("configured entry")

	content, err := os.ReadFile(filepath.Join(dir, "guilddb.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "bootstrap entry")
	assert.Contains(t, string(content), "configured entry")
}
