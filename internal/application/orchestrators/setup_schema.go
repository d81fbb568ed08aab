package orchestrators

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"congrega/internal/adapters/storage"
)

// SchemaExecer runs one schema statement.
type SchemaExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SetupSchemaDeps holds dependencies for SetupSchema.
type SetupSchemaDeps struct {
	DB SchemaExecer
	// Statements defaults to storage.SchemaStatements().
	Statements []string
}

// SetupSchemaResult counts the outcome of each statement.
type SetupSchemaResult struct {
	Succeeded int
	Warnings  int
	Failed    int
}

// ExecuteSetupSchema applies the schema one statement at a time.
// "already exists" errors are warnings; other errors are logged and counted.
// The loop never stops early.
func ExecuteSetupSchema(ctx context.Context, deps SetupSchemaDeps) SetupSchemaResult {
	statements := deps.Statements
	if statements == nil {
		statements = storage.SchemaStatements()
	}
	var res SetupSchemaResult
	for i, stmt := range statements {
		desc := describeStatement(stmt)
		_, err := deps.DB.ExecContext(ctx, stmt)
		switch {
		case err == nil:
			res.Succeeded++
			slog.Info("schema_event", "event", "statement_applied", "n", i+1, "of", len(statements), "statement", desc)
		case storage.IsAlreadyExists(err):
			res.Warnings++
			slog.Warn("schema_event", "event", "statement_skipped", "n", i+1, "statement", desc, "reason", err.Error())
		default:
			res.Failed++
			slog.Error("schema_event", "event", "statement_failed", "n", i+1, "statement", desc, "error", err)
		}
	}
	slog.Info("schema_event", "event", "schema_setup_done", "succeeded", res.Succeeded, "warnings", res.Warnings, "failed", res.Failed)
	return res
}

// describeStatement renders "CREATE TABLE congregations" style labels for logs.
func describeStatement(stmt string) string {
	fields := strings.Fields(stmt)
	var out []string
	for _, f := range fields {
		upper := strings.ToUpper(f)
		if upper == "IF" || upper == "NOT" || upper == "EXISTS" {
			continue
		}
		out = append(out, f)
		want := 3
		if len(out) > 1 && strings.EqualFold(out[1], "UNIQUE") {
			want = 4
		}
		if len(out) == want {
			break
		}
	}
	return strings.TrimSuffix(strings.Join(out, " "), "(")
}
