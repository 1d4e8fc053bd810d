// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/permaguild/guilddb/pkg/config"
)

// Init installs the global slog logger. With the "file" destination the
// log goes to guilddb.log inside logDir; append false starts the file
// fresh, append true keeps earlier entries, so a reconfigure after
// bootstrap does not erase the bootstrap lines.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	writer, err := destWriter(logDir, cfg.Destination, append)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	case "tint":
		// TODO: Use github.com/lmittmann/tint if desired
		handler = slog.NewTextHandler(writer, opts)
	default:
		// json, and anything unrecognized
		handler = slog.NewJSONHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// destWriter resolves the destination name to a writer. Unrecognized
// names fall back to stderr so a typo in the configuration never
// silences logging.
func destWriter(logDir, dest string, append bool) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "file":
		logPath := filepath.Join(logDir, "guilddb.log")
		flags := os.O_CREATE | os.O_WRONLY
		if append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		file, err := os.OpenFile(logPath, flags, 0644)
		if err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		return file, nil
	default:
		return os.Stderr, nil
	}
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
