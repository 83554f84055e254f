package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type registerFunc func(name string, fn func(*gorm.DB)) error

// hookPoint is one GORM processor with its before and after registration
type hookPoint struct {
	op     string
	before registerFunc
	after  registerFunc
}

func hookPoints(db *gorm.DB) []hookPoint {
	cb := db.Callback()
	return []hookPoint{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
}

// registerHooks installs before/after callbacks named "{prefix}:before_{op}"
// and "{prefix}:after_{op}" on every processor
func registerHooks(db *gorm.DB, prefix string, before func(*gorm.DB), after func(db *gorm.DB, op string)) error {
	for _, hp := range hookPoints(db) {
		op := hp.op
		if err := hp.before(fmt.Sprintf("%s:before_%s", prefix, op), before); err != nil {
			return err
		}
		if err := hp.after(fmt.Sprintf("%s:after_%s", prefix, op), func(db *gorm.DB) { after(db, op) }); err != nil {
			return err
		}
	}
	return nil
}

type startTimeKey string

func markStart(key startTimeKey) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, key, time.Now())
		}
	}
}

func elapsedSince(ctx context.Context, key startTimeKey) (time.Duration, bool) {
	start, ok := ctx.Value(key).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

const tracingStartKey startTimeKey = "db_tracing_start"

// DBTracingConfig configures query spans
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in db.statement; development only
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingPlugin wraps otelgorm and adds rows affected, table, error status
// and a slow query event to each query span
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a DBTracingPlugin. A zero SlowQueryThresh means 200ms.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs otelgorm and the enrichment callbacks on db
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	if err := registerHooks(db, "storefront_trace", markStart(tracingStartKey), p.annotate); err != nil {
		return fmt.Errorf("register tracing callbacks: %w", err)
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) annotate(db *gorm.DB, _ string) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
	if elapsed, ok := elapsedSince(ctx, tracingStartKey); ok && elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
