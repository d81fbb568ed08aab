package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// migration is one forward-only schema step.
type migration struct {
	version    int
	name       string
	statements []string
}

// migrations are applied in order; never edit an entry once released.
var migrations = []migration{
	{
		version: 1,
		name:    "core_tables",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS congregations (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				address TEXT NOT NULL,
				city TEXT NOT NULL,
				state TEXT NOT NULL,
				phone TEXT,
				responsible TEXT NOT NULL,
				capacity INTEGER,
				status TEXT NOT NULL DEFAULT 'ativa',
				sunday_morning_service TEXT,
				sunday_evening_service TEXT,
				wednesday_service TEXT,
				youth_meeting_day TEXT,
				youth_meeting_time TEXT,
				minors_meeting_day TEXT,
				minors_meeting_time TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS ministry_members (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				role TEXT NOT NULL,
				main_congregation_id TEXT NOT NULL,
				ordination_date TEXT NOT NULL,
				ordained_by TEXT NOT NULL,
				phone TEXT,
				email TEXT,
				notes TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS ministry_member_congregations (
				member_id TEXT NOT NULL,
				congregation_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				PRIMARY KEY (member_id, congregation_id)
			)`,
			`CREATE TABLE IF NOT EXISTS musicians (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT,
				phone TEXT,
				instrument TEXT NOT NULL,
				congregation_id TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'ativo',
				start_date TEXT,
				notes TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS events (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				type TEXT NOT NULL,
				date TEXT NOT NULL,
				time TEXT NOT NULL,
				congregation_id TEXT NOT NULL,
				description TEXT,
				expected_attendees INTEGER,
				is_recurring INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS accounts (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL,
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_ministry_members_main ON ministry_members (main_congregation_id)`,
			`CREATE INDEX IF NOT EXISTS idx_musicians_congregation ON musicians (congregation_id)`,
			`CREATE INDEX IF NOT EXISTS idx_events_congregation ON events (congregation_id)`,
			`CREATE INDEX IF NOT EXISTS idx_events_date ON events (date)`,
		},
	},
	{
		version: 2,
		name:    "collection_reinforcements",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS collection_reinforcements (
				id TEXT PRIMARY KEY,
				congregation_name TEXT NOT NULL,
				event_type TEXT NOT NULL,
				date TEXT NOT NULL,
				time TEXT NOT NULL,
				objective TEXT NOT NULL,
				goal BIGINT NOT NULL,
				collected BIGINT NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'agendado',
				notes TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_reinforcements_one_active
				ON collection_reinforcements (congregation_name)
				WHERE status IN ('agendado', 'em_andamento')`,
		},
	},
	{
		version: 3,
		name:    "generated_reports",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS generated_reports (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				kind TEXT NOT NULL,
				archive_key TEXT NOT NULL,
				size_bytes BIGINT NOT NULL DEFAULT 0,
				generated_by TEXT,
				created_at TEXT NOT NULL
			)`,
		},
	},
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaStatements returns every schema statement in application order.
// Used by the seed CLI's tolerant schema loop.
func SchemaStatements() []string {
	var out []string
	for _, m := range migrations {
		out = append(out, m.statements...)
	}
	return out
}

const createSchemaVersion = `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// SchemaVersion returns the highest applied migration, or 0 on a fresh database.
// PRE: db is a valid connection of the given dialect
// POST: Returns version >= 0
func SchemaVersion(db *sql.DB, d Dialect) (int, error) {
	var exists int
	probe := "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'"
	if d == DialectPostgres {
		probe = "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'schema_version'"
	}
	if err := db.QueryRow(probe).Scan(&exists); err != nil {
		return 0, fmt.Errorf("probe schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every pending migration, each inside its own transaction.
// PRE: db is a valid connection of the given dialect
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, d Dialect) error {
	if _, err := db.Exec(createSchemaVersion); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	current, err := SchemaVersion(db, d)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, d, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_event", "event", "migration_applied", "version", m.version, "name", m.name)
	}
	return nil
}

func applyMigration(db *sql.DB, d Dialect, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	insert := Rebind(d, "INSERT INTO schema_version (version, applied_at) VALUES (?, ?)")
	if _, err := tx.Exec(insert, m.version, FormatTime(time.Now())); err != nil {
		return err
	}
	return tx.Commit()
}
