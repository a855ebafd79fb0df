package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogExporter forwards zap entries to an OpenTelemetry logger provider
type LogExporter struct {
	sdk    *sdklog.LoggerProvider
	name   string
	logger *zap.Logger
}

// NewLogExporter builds the log provider. Records are batched to the OTLP
// collector when cfg.Enabled and cfg.ExportLogs are both set; extra
// processors are always attached. With neither, the exporter is inert and
// Attach returns the base logger unchanged.
func NewLogExporter(ctx context.Context, cfg Config, logger *zap.Logger, processors ...sdklog.Processor) (*LogExporter, error) {
	le := &LogExporter{name: cfg.ServiceName, logger: logger}

	exportOTLP := cfg.Enabled && cfg.ExportLogs
	if exportOTLP {
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		}
		exporter, err := otlploggrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
		}
		processors = append(processors, sdklog.NewBatchProcessor(exporter))
	}
	if len(processors) == 0 {
		return le, nil
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	opts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, p := range processors {
		opts = append(opts, sdklog.WithProcessor(p))
	}
	le.sdk = sdklog.NewLoggerProvider(opts...)

	if exportOTLP {
		global.SetLoggerProvider(le.sdk)
		logger.Info("Logs exported over OTLP",
			zap.String("collector_endpoint", cfg.CollectorEndpoint),
		)
	}
	return le, nil
}

// IsEnabled reports whether log records leave the process
func (le *LogExporter) IsEnabled() bool {
	return le.sdk != nil
}

// Attach returns base teed into the log provider. The bridge never emits
// below the level base itself is enabled for.
func (le *LogExporter) Attach(base *zap.Logger) *zap.Logger {
	if le.sdk == nil {
		return base
	}
	minLevel := zapcore.LevelOf(base.Core())
	bridge := otelzap.NewCore(le.name, otelzap.WithLoggerProvider(le.sdk))
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, &levelFilterCore{Core: bridge, minLevel: minLevel})
	}))
}

// Shutdown flushes buffered records
func (le *LogExporter) Shutdown(ctx context.Context) error {
	if le.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := le.sdk.Shutdown(ctx); err != nil {
		le.logger.Error("Error shutting down logger provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}

type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
