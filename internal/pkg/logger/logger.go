package logger

import (
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New builds the application zap logger with the given level string.
// Invalid or empty levels default to info.
func New(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}

// SetSlogDefault bridges the zap logger into the standard slog default, so
// libraries logging via slog end up in the same sink.
func SetSlogDefault(l *zap.Logger) {
	handler := zapslog.NewHandler(l.Core())
	slog.SetDefault(slog.New(handler))
}
