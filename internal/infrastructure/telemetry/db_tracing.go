package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "contentgen:query_start"

// DBTracingConfig controls the gorm tracing plugin
type DBTracingConfig struct {
	DBSystem string
	// SlowQuery marks statements at or above this duration; zero disables it
	SlowQuery time.Duration
	// IncludeVariables keeps bound values in db.statement; development only
	IncludeVariables bool
}

// DefaultDBTracingConfig returns the settings for driver ("sqlite" or "postgres")
func DefaultDBTracingConfig(driver string) DBTracingConfig {
	system := "postgresql"
	if driver == "sqlite" {
		system = "sqlite"
	}
	return DBTracingConfig{
		DBSystem:  system,
		SlowQuery: 200 * time.Millisecond,
	}
}

// DBTracingPlugin installs otelgorm plus a slow query detector that adds a
// span event and counts the statement per table.
type DBTracingPlugin struct {
	config      DBTracingConfig
	logger      *zap.Logger
	slowQueries *Counter
}

// NewDBTracingPlugin builds the plugin. A nil meter skips the slow query counter.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger, meter metric.Meter) (*DBTracingPlugin, error) {
	p := &DBTracingPlugin{config: cfg, logger: logger}
	if meter != nil {
		c, err := NewCounter(meter, "contentgen.db.slow_queries",
			"Statements slower than the configured threshold", "{statement}")
		if err != nil {
			return nil, err
		}
		p.slowQueries = c
	}
	return p, nil
}

// callbackRegistrar matches the value returned by gorm's Before/After builders
type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Register installs otelgorm and the timing callbacks on db
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	hooks := []struct {
		name string
		hook callbackRegistrar
		fn   func(*gorm.DB)
	}{
		{"before_create", cb.Create().Before("gorm:create"), p.start},
		{"before_query", cb.Query().Before("gorm:query"), p.start},
		{"before_update", cb.Update().Before("gorm:update"), p.start},
		{"before_delete", cb.Delete().Before("gorm:delete"), p.start},
		{"before_row", cb.Row().Before("gorm:row"), p.start},
		{"before_raw", cb.Raw().Before("gorm:raw"), p.start},
		{"after_create", cb.Create().After("gorm:create").Before("otel:after:create"), p.finish},
		{"after_query", cb.Query().After("gorm:query").Before("otel:after:query"), p.finish},
		{"after_update", cb.Update().After("gorm:update").Before("otel:after:update"), p.finish},
		{"after_delete", cb.Delete().After("gorm:delete").Before("otel:after:delete"), p.finish},
		{"after_row", cb.Row().After("gorm:row").Before("otel:after:row"), p.finish},
		{"after_raw", cb.Raw().After("gorm:raw").Before("otel:after:raw"), p.finish},
	}
	var errs []error
	for _, h := range hooks {
		errs = append(errs, h.hook.Register("contentgen:"+h.name, h.fn))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.config.DBSystem),
		zap.Duration("slow_query", p.config.SlowQuery),
		zap.Bool("include_variables", p.config.IncludeVariables),
	)
	return nil
}

func (p *DBTracingPlugin) start(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (p *DBTracingPlugin) finish(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() && db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}

	if p.config.SlowQuery <= 0 {
		return
	}
	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	started, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(started)
	if elapsed < p.config.SlowQuery {
		return
	}

	table := db.Statement.Table
	span.AddEvent("slow_query", trace.WithAttributes(
		attribute.String("db.sql.table", table),
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", p.config.SlowQuery.Milliseconds()),
	))
	if p.slowQueries != nil {
		p.slowQueries.Inc(ctx, AttrTable.String(table))
	}
}
