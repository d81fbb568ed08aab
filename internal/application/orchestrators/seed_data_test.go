package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	congregationStore "congrega/internal/adapters/storage/congregation"
	ministryStore "congrega/internal/adapters/storage/ministry"
	"congrega/internal/adapters/storage/storagetest"
	"congrega/internal/domain/ministry"
)

func seedDeps(t *testing.T) (SeedDeps, *congregationStore.SQLStore, *ministryStore.SQLStore) {
	t.Helper()
	db := storagetest.Open(t)
	cs := congregationStore.NewSQLStore(db)
	ms := ministryStore.NewSQLStore(db)
	return SeedDeps{CongregationStore: cs, MemberStore: ms}, cs, ms
}

// TestExecuteSeedMinistry_RequiresCongregation tests the empty-database guard.
func TestExecuteSeedMinistry_RequiresCongregation(t *testing.T) {
	deps, _, _ := seedDeps(t)
	_, err := ExecuteSeedMinistry(context.Background(), SeedMinistryInput{Role: ministry.RoleElder}, deps)
	if !errors.Is(err, ErrNoCongregation) {
		t.Fatalf("expected ErrNoCongregation, got %v", err)
	}
}

// TestExecuteSeedAll tests the full seed and that re-running duplicates.
func TestExecuteSeedAll(t *testing.T) {
	deps, cs, ms := seedDeps(t)
	ctx := context.Background()

	res, err := ExecuteSeedAll(ctx, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Congregations.Inserted != 6 || res.Elders.Inserted != 7 || res.Deacons.Inserted != 6 {
		t.Fatalf("unexpected counts %+v", res)
	}

	members, err := ms.List(ctx, ministryStore.ListFilter{CongregationID: res.Congregations.IDs[0]})
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 13 {
		t.Errorf("expected 13 members on the main congregation, got %d", len(members))
	}
	for _, m := range members {
		if m.OrdainedBy != "A definir" {
			t.Errorf("%s: expected placeholder ordainer, got %q", m.Name, m.OrdainedBy)
		}
	}

	if _, err := ExecuteSeedCongregations(ctx, deps); err != nil {
		t.Fatalf("second run: %v", err)
	}
	all, err := cs.List(ctx, congregationStore.ListFilter{})
	if err != nil {
		t.Fatalf("list congregations: %v", err)
	}
	if len(all) != 12 {
		t.Errorf("expected duplicates after re-run (12), got %d", len(all))
	}
}

// TestSeedNames tests the embedded lists.
func TestSeedNames(t *testing.T) {
	elders, err := SeedNames(ministry.RoleElder)
	if err != nil || len(elders) != 7 || elders[0] != "Silvano Silva Domingues" {
		t.Errorf("unexpected elders %v (%v)", elders, err)
	}
	if _, err := SeedNames(ministry.RoleCooperator); err == nil {
		t.Error("expected error for role without seed list")
	}
}

// scriptedExecer fails statements listed in errs.
type scriptedExecer struct {
	errs  map[int]error
	calls int
}

func (s *scriptedExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	s.calls++
	return nil, s.errs[s.calls]
}

// TestExecuteSetupSchema_TolerantLoop tests warnings, failures and that the loop never stops.
func TestExecuteSetupSchema_TolerantLoop(t *testing.T) {
	db := &scriptedExecer{errs: map[int]error{
		2: errors.New(`relation "congregations" already exists`),
		3: errors.New("syntax error near WHERE"),
	}}
	res := ExecuteSetupSchema(context.Background(), SetupSchemaDeps{
		DB:         db,
		Statements: []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (x INT)", "CREATE INDEX c ON a (x)", "CREATE TABLE d (x INT)"},
	})
	if db.calls != 4 {
		t.Errorf("expected all 4 statements attempted, got %d", db.calls)
	}
	if res.Succeeded != 2 || res.Warnings != 1 || res.Failed != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

// TestExecuteSetupSchema_Idempotent tests the real schema applies twice without errors.
func TestExecuteSetupSchema_Idempotent(t *testing.T) {
	db := storagetest.Open(t)
	for i := 0; i < 2; i++ {
		res := ExecuteSetupSchema(context.Background(), SetupSchemaDeps{DB: db})
		if res.Failed != 0 {
			t.Fatalf("run %d: unexpected failures %+v", i, res)
		}
	}
}

func TestDescribeStatement(t *testing.T) {
	tests := map[string]string{
		"CREATE TABLE IF NOT EXISTS congregations (\n id TEXT)":       "CREATE TABLE congregations",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_one ON t (x)":          "CREATE UNIQUE INDEX idx_one",
		"CREATE INDEX IF NOT EXISTS idx_events_date ON events (date)": "CREATE INDEX idx_events_date",
	}
	for stmt, want := range tests {
		if got := describeStatement(stmt); got != want {
			t.Errorf("describeStatement(%q) = %q, want %q", stmt, got, want)
		}
	}
}
