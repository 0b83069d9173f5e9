package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func Setup(logLevel string, logFile string) *slog.Logger {
	var logWriter io.Writer = os.Stdout
	var handlerOptions = &slog.HandlerOptions{Level: getLogLevel(logLevel)}

	if logFile != "" && logFile != "stdout" {
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 -- path is provided via config.
		if err != nil {
			slog.Error("failed to open log file, logging to stdout", "file", logFile, "error", err)
		} else {
			logWriter = file
		}
	}

	logger := slog.New(slog.NewTextHandler(logWriter, handlerOptions))
	slog.SetDefault(logger)
	return logger
}

func getLogLevel(logLevel string) slog.Level {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return level
}
