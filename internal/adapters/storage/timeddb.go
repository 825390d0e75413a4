package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"courtlink/internal/adapters/http/perf"
)

// DB is the database interface used by all stores. Both *sqlx.DB and *TimedDB satisfy it.
type DB interface {
	sqlx.ExtContext
}

var _ DB = (*sqlx.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sqlx.DB to log slow queries and optionally record to a collector.
type TimedDB struct {
	db        *sqlx.DB
	collector *perf.Collector
	threshold float64
}

var _ DB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation. slowQueryMs <= 0 selects DefaultSlowQueryMs.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector
func NewTimedDB(db *sqlx.DB, collector *perf.Collector, slowQueryMs int) *TimedDB {
	if slowQueryMs <= 0 {
		slowQueryMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowQueryMs),
	}
}

// Unwrap returns the underlying *sqlx.DB (needed for schema setup and pool config).
func (t *TimedDB) Unwrap() *sqlx.DB {
	return t.db
}

func (t *TimedDB) logQuery(op string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       op,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// DriverName implements sqlx.ExtContext.
func (t *TimedDB) DriverName() string { return t.db.DriverName() }

// Rebind implements sqlx.ExtContext.
func (t *TimedDB) Rebind(query string) string { return t.db.Rebind(query) }

// BindNamed implements sqlx.ExtContext.
func (t *TimedDB) BindNamed(query string, arg any) (string, []any, error) {
	return t.db.BindNamed(query, arg)
}

// ExecContext wraps sqlx.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("ExecContext", start)
	return result, err
}

// QueryContext wraps sqlx.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("QueryContext", start)
	return rows, err
}

// QueryxContext wraps sqlx.DB.QueryxContext with timing.
func (t *TimedDB) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryxContext(ctx, query, args...)
	t.logQuery("QueryxContext", start)
	return rows, err
}

// QueryRowxContext wraps sqlx.DB.QueryRowxContext with timing.
func (t *TimedDB) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	start := time.Now()
	row := t.db.QueryRowxContext(ctx, query, args...)
	t.logQuery("QueryRowxContext", start)
	return row
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}
