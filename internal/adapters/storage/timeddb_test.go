package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// countingObserver records every observed op.
type countingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (c *countingObserver) ObserveQuery(op string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op)
}

func (c *countingObserver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestTimedDB_ExecContext verifies ExecContext reports timing.
func TestTimedDB_ExecContext(t *testing.T) {
	obs := &countingObserver{}
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, obs)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if obs.count() != 1 {
		t.Errorf("observed = %d, want 1", obs.count())
	}
}

// TestTimedDB_QueryContext verifies QueryContext reports timing.
func TestTimedDB_QueryContext(t *testing.T) {
	obs := &countingObserver{}
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, obs)
	ctx := context.Background()

	tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")

	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
	if obs.count() != 2 {
		t.Errorf("observed = %d, want 2", obs.count())
	}
}

// TestTimedDB_QueryRowContext verifies single-row reads pass through.
func TestTimedDB_QueryRowContext(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, nil)
	ctx := context.Background()

	tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}
}

// TestTimedDB_BeginTx verifies statements inside a transaction are timed and committed.
func TestTimedDB_BeginTx(t *testing.T) {
	obs := &countingObserver{}
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, obs)
	ctx := context.Background()

	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("tx exec: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var n int
	tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM test").Scan(&n)
	if n != 1 {
		t.Errorf("rows after commit = %d, want 1", n)
	}
	// begin + exec + commit + count
	if obs.count() != 4 {
		t.Errorf("observed = %d, want 4", obs.count())
	}
}

// TestTimedDB_RollbackDiscards verifies a rolled back transaction leaves no rows.
func TestTimedDB_RollbackDiscards(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, nil)
	ctx := context.Background()

	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var n int
	tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM test").Scan(&n)
	if n != 0 {
		t.Errorf("rows after rollback = %d, want 0", n)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned unchanged and still timed.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	obs := &countingObserver{}
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, obs)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO nonexistent_table VALUES (?)", 1); err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	if _, err := tdb.QueryContext(ctx, "SELECT * FROM nonexistent_table"); err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	var val string
	err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "missing").Scan(&val)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if obs.count() != 3 {
		t.Errorf("observed = %d, want 3", obs.count())
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context returns an error.
func TestTimedDB_CancelledContext(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

// TestTimedDB_RawDB verifies RawDB returns the original *sql.DB.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, DialectSQLite, nil)
	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
	if tdb.Dialect() != DialectSQLite {
		t.Errorf("Dialect() = %q, want sqlite", tdb.Dialect())
	}
}

// TestTimedDB_ConcurrentMixedOps verifies no races under concurrent reads and writes.
func TestTimedDB_ConcurrentMixedOps(t *testing.T) {
	obs := &countingObserver{}
	tdb := NewTimedDB(openTimedTestDB(t), DialectSQLite, obs)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", string(rune('a'+i)), "v")
		}(i)
		go func() {
			defer wg.Done()
			var n int
			tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM test").Scan(&n)
		}()
	}
	wg.Wait()

	if obs.count() != 20 {
		t.Errorf("observed = %d, want 20", obs.count())
	}
}
