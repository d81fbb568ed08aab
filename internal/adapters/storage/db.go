package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned (wrapped) by stores when no row matches an id.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned (wrapped) by stores when a write clashes with
// another stored record.
var ErrConflict = errors.New("conflito com registro existente")

// Dialect identifies the SQL engine behind a connection.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor infers the dialect from a database URL.
// postgres:// and postgresql:// URLs select PostgreSQL, anything else is a SQLite path.
func DialectFor(url string) Dialect {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the database named by url.
// PRE: url is a SQLite path (or ":memory:") or a postgres:// URL
// POST: Returns an open, pinged connection and its dialect
func Open(url string) (*sql.DB, Dialect, error) {
	dialect := DialectFor(url)
	switch dialect {
	case DialectPostgres:
		db, err := sql.Open("pgx", url)
		if err != nil {
			return nil, "", fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxIdleTime(5 * time.Minute)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, "", fmt.Errorf("ping postgres: %w", err)
		}
		return db, dialect, nil
	default:
		path := strings.TrimPrefix(url, "sqlite://")
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, "", fmt.Errorf("open sqlite: %w", err)
		}
		if err := configureSQLite(db, path); err != nil {
			db.Close()
			return nil, "", err
		}
		return db, dialect, nil
	}
}

// configureSQLite enables WAL and foreign keys on file databases.
// In-memory databases are pinned to one connection so every query sees the same data.
func configureSQLite(db *sql.DB, path string) error {
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// Rebind rewrites ? placeholders into the dialect's bind syntax.
// Question marks inside single-quoted literals are left alone.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsAlreadyExists reports whether err is a "relation already exists" failure.
// Both SQLite and PostgreSQL phrase it this way.
func IsAlreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}
