// Package logger builds the zap loggers used by the server and the
// command line tools, and carries request and job fields through contexts.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contentgen/backend/internal/infrastructure/config"
)

const (
	isoTimeFormat   = "2006-01-02T15:04:05.000Z07:00"
	shortTimeFormat = "15:04:05"
)

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
	Fields     []zap.Field
}

// New builds a logger from cfg. Errors and above carry a stack trace.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = isoTimeFormat
	}
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg), sink, parseLevel(cfg.Level))
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(cfg.Fields...),
	), nil
}

// ForServer builds the API server logger. Production always logs JSON.
// Every entry carries the app name and environment.
func ForServer(logCfg config.LogConfig, app config.AppConfig) (*zap.Logger, error) {
	format := logCfg.Format
	if app.IsProduction() {
		format = "json"
	}
	return New(Config{
		Level:  logCfg.Level,
		Format: format,
		Output: logCfg.Output,
		Fields: []zap.Field{zap.String("app", app.Name), zap.String("env", app.Env)},
	})
}

// ForCLI builds a terse console logger on stderr so that command output on
// stdout stays clean
func ForCLI(level string) (*zap.Logger, error) {
	return New(Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: shortTimeFormat,
	})
}

func parseLevel(level string) zapcore.Level {
	if strings.EqualFold(level, "warning") {
		return zapcore.WarnLevel
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func newEncoder(cfg Config) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if strings.EqualFold(cfg.Format, "console") {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", output, err)
	}
	return zapcore.AddSync(file), nil
}

// Named returns a child logger for a component, or a no-op logger when
// base is nil
func Named(base *zap.Logger, name string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(name)
}

// Sync flushes buffered entries. Syncing a terminal fails on some
// platforms, so those errors are dropped.
func Sync(l *zap.Logger) error {
	if l == nil {
		return nil
	}
	err := l.Sync()
	if err != nil && strings.Contains(err.Error(), "inappropriate ioctl") {
		return nil
	}
	return err
}
