package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled            bool
	DBName             string
	LogFullSQL         bool          // include bound variables in db.statement
	SlowQueryThreshold time.Duration // Default: 200ms
}

// DefaultDBTracingConfig returns the database tracing defaults.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		DBName:             "bilemo",
		SlowQueryThreshold: 200 * time.Millisecond,
	}
}

type queryStartKey struct{}

type gormRegister interface {
	Register(name string, fn func(*gorm.DB)) error
}

// InstrumentDB registers otelgorm on db plus a callback pair that flags slow statements.
func InstrumentDB(db *gorm.DB, cfg DBTracingConfig, tp trace.TracerProvider, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if tp != nil {
		opts = append(opts, otelgorm.WithTracerProvider(tp))
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm: %w", err)
	}

	s := &slowQueryHook{threshold: cfg.SlowQueryThreshold, logger: logger}
	cb := db.Callback()
	hooks := []struct {
		callback gormRegister
		fn       func(*gorm.DB)
		name     string
	}{
		{cb.Create().Before("gorm:create"), s.before, "before_create"},
		{cb.Create().After("gorm:create").Before("otel:after:create"), s.after, "after_create"},
		{cb.Query().Before("gorm:query"), s.before, "before_query"},
		{cb.Query().After("gorm:query").Before("otel:after:select"), s.after, "after_query"},
		{cb.Update().Before("gorm:update"), s.before, "before_update"},
		{cb.Update().After("gorm:update").Before("otel:after:update"), s.after, "after_update"},
		{cb.Delete().Before("gorm:delete"), s.before, "before_delete"},
		{cb.Delete().After("gorm:delete").Before("otel:after:delete"), s.after, "after_delete"},
		{cb.Row().Before("gorm:row"), s.before, "before_row"},
		{cb.Row().After("gorm:row").Before("otel:after:row"), s.after, "after_row"},
		{cb.Raw().Before("gorm:raw"), s.before, "before_raw"},
		{cb.Raw().After("gorm:raw").Before("otel:after:raw"), s.after, "after_raw"},
	}

	var result *multierror.Error
	for _, h := range hooks {
		if err := h.callback.Register("bilemo_timing:"+h.name, h.fn); err != nil {
			result = multierror.Append(result, fmt.Errorf("register %s: %w", h.name, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return nil
}

type slowQueryHook struct {
	threshold time.Duration
	logger    *zap.Logger
}

func (s *slowQueryHook) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (s *slowQueryHook) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	started, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(started)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		// a missing row is an answer, not a failure
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}

	if elapsed <= s.threshold {
		return
	}
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
	s.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", s.threshold),
	)
}
