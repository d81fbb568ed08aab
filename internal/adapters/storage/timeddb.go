package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Querier is the statement surface shared by a connection and a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is a transaction opened through SQLDB.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

// SQLDB is the database interface used by all stores.
// Queries are written with ? placeholders; the implementation rebinds them per dialect.
type SQLDB interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

// QueryObserver receives the duration of every statement, e.g. a metrics histogram.
type QueryObserver interface {
	ObserveQuery(op string, d time.Duration)
}

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

var slowQueryMs int64
var slowQueryOnce sync.Once

// getSlowQueryThreshold returns the slow-query threshold in milliseconds.
func getSlowQueryThreshold() float64 {
	slowQueryOnce.Do(func() {
		ms := DefaultSlowQueryMs
		if v := os.Getenv("CONGREGA_SLOW_QUERY_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		atomic.StoreInt64(&slowQueryMs, int64(ms))
	})
	return float64(atomic.LoadInt64(&slowQueryMs))
}

// TimedDB wraps a *sql.DB to rebind placeholders, log slow queries and
// report durations to an optional observer.
type TimedDB struct {
	db        *sql.DB
	dialect   Dialect
	observer  QueryObserver
	threshold float64
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with dialect rebinding and timing instrumentation.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and reports to observer (may be nil)
func NewTimedDB(db *sql.DB, dialect Dialect, observer QueryObserver) *TimedDB {
	return &TimedDB{
		db:        db,
		dialect:   dialect,
		observer:  observer,
		threshold: getSlowQueryThreshold(),
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// Dialect returns the engine the wrapper rebinds for.
func (t *TimedDB) Dialect() Dialect {
	return t.dialect
}

// logQuery logs and optionally observes a query timing.
func (t *TimedDB) logQuery(op string, start time.Time) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		slog.Warn("slow_query",
			"op", op,
			"duration_ms", durationMs,
		)
	} else {
		slog.Debug("query",
			"op", op,
			"duration_ms", durationMs,
		)
	}

	if t.observer != nil {
		t.observer.ObserveQuery(op, elapsed)
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, Rebind(t.dialect, query), args...)
	t.logQuery("exec", start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, Rebind(t.dialect, query), args...)
	t.logQuery("query", start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, Rebind(t.dialect, query), args...)
	t.logQuery("query_row", start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing. Statements on the returned Tx
// are rebound and timed the same way.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.logQuery("begin", start)
	if err != nil {
		return nil, err
	}
	return &timedTx{tx: tx, parent: t}, nil
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// PingContext verifies the database connection.
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

type timedTx struct {
	tx     *sql.Tx
	parent *TimedDB
}

func (x *timedTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := x.tx.ExecContext(ctx, Rebind(x.parent.dialect, query), args...)
	x.parent.logQuery("tx_exec", start)
	return result, err
}

func (x *timedTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := x.tx.QueryContext(ctx, Rebind(x.parent.dialect, query), args...)
	x.parent.logQuery("tx_query", start)
	return rows, err
}

func (x *timedTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := x.tx.QueryRowContext(ctx, Rebind(x.parent.dialect, query), args...)
	x.parent.logQuery("tx_query_row", start)
	return row
}

func (x *timedTx) Commit() error {
	start := time.Now()
	err := x.tx.Commit()
	x.parent.logQuery("commit", start)
	return err
}

func (x *timedTx) Rollback() error {
	return x.tx.Rollback()
}
