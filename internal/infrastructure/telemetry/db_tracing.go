package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// DBTracingOptions configures SQL spans
type DBTracingOptions struct {
	DBName          string
	IncludeSQLVars  bool // bind variables in db.statement; never in production
	SlowQueryThresh time.Duration
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin and a pair of callbacks that
// tag spans with the table, affected rows and a slow_query marker.
func RegisterDBTracing(db *gorm.DB, opts DBTracingOptions) error {
	pluginOpts := []otelgorm.Option{otelgorm.WithDBName(opts.DBName)}
	if !opts.IncludeSQLVars {
		pluginOpts = append(pluginOpts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(pluginOpts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, opts.SlowQueryThresh) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("pf:trace_start_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("pf:trace_end_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("pf:trace_start_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("pf:trace_end_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("pf:trace_start_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("pf:trace_end_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("pf:trace_start_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("pf:trace_end_delete", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("pf:trace_start_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("pf:trace_end_raw", after)
}

func annotateSpan(tx *gorm.DB, slowThreshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok || slowThreshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
