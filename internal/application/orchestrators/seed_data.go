package orchestrators

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	congregationStore "congrega/internal/adapters/storage/congregation"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/ministry"
)

//go:embed seeddata/*.yaml
var seedFiles embed.FS

// placeholder is written where the seed lists carry no value yet.
const placeholder = "A definir"

// seedDefaultOrdination is the ordination date recorded for seeded members.
var seedDefaultOrdination = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// ErrNoCongregation is returned when ministry members are seeded before any congregation exists.
var ErrNoCongregation = errors.New("no congregation found: create a congregation first")

type seedCongregation struct {
	Name  string `yaml:"name"`
	City  string `yaml:"city"`
	State string `yaml:"state"`
}

// CongregationStoreForSeed defines the store interface needed by the seed orchestrators.
type CongregationStoreForSeed interface {
	Save(ctx context.Context, c congregation.Congregation) error
	List(ctx context.Context, filter congregationStore.ListFilter) ([]congregation.Congregation, error)
}

// MemberStoreForSeed defines the store interface needed by SeedMinistry.
type MemberStoreForSeed interface {
	Save(ctx context.Context, m ministry.Member) error
}

// SeedDeps holds dependencies for the seed orchestrators.
type SeedDeps struct {
	CongregationStore CongregationStoreForSeed
	MemberStore       MemberStoreForSeed
}

// SeedResult counts inserted and failed records.
type SeedResult struct {
	Inserted int
	Failed   int
	// IDs of inserted records, in seed order.
	IDs []string
}

func loadSeedCongregations() ([]seedCongregation, error) {
	raw, err := seedFiles.ReadFile("seeddata/congregations.yaml")
	if err != nil {
		return nil, err
	}
	var list []seedCongregation
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse congregations seed: %w", err)
	}
	return list, nil
}

// SeedNames returns the seeded member names of role, in seed order.
func SeedNames(role string) ([]string, error) {
	raw, err := seedFiles.ReadFile("seeddata/ministry.yaml")
	if err != nil {
		return nil, err
	}
	var byRole map[string][]string
	if err := yaml.Unmarshal(raw, &byRole); err != nil {
		return nil, fmt.Errorf("parse ministry seed: %w", err)
	}
	names, ok := byRole[role]
	if !ok {
		return nil, fmt.Errorf("no seed list for role %q", role)
	}
	return names, nil
}

// ExecuteSeedCongregations inserts the fixed congregation list.
// Re-running inserts duplicates. A failed insert is logged and counted; the loop continues.
func ExecuteSeedCongregations(ctx context.Context, deps SeedDeps) (SeedResult, error) {
	list, err := loadSeedCongregations()
	if err != nil {
		return SeedResult{}, err
	}
	var res SeedResult
	for _, s := range list {
		now := time.Now().UTC()
		c := congregation.Congregation{
			ID:          uuid.New().String(),
			Name:        s.Name,
			Address:     placeholder,
			City:        s.City,
			State:       s.State,
			Responsible: placeholder,
			Status:      congregation.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := c.Validate(); err != nil {
			res.Failed++
			slog.Error("seed_event", "event", "congregation_failed", "name", s.Name, "error", err)
			continue
		}
		if err := deps.CongregationStore.Save(ctx, c); err != nil {
			res.Failed++
			slog.Error("seed_event", "event", "congregation_failed", "name", s.Name, "error", err)
			continue
		}
		res.Inserted++
		res.IDs = append(res.IDs, c.ID)
		slog.Info("seed_event", "event", "congregation_inserted", "name", s.Name)
	}
	slog.Info("seed_event", "event", "congregations_seeded", "count", res.Inserted, "failed", res.Failed)
	return res, nil
}

// SeedMinistryInput carries input for SeedMinistry.
type SeedMinistryInput struct {
	Role string
	// MainCongregationID is used when set; otherwise the first listed congregation is.
	MainCongregationID string
}

// ExecuteSeedMinistry inserts the fixed member list of input.Role.
// PRE: at least one congregation exists
// POST: every inserted member has the chosen main congregation and a placeholder ordainer
func ExecuteSeedMinistry(ctx context.Context, input SeedMinistryInput, deps SeedDeps) (SeedResult, error) {
	if !ministry.IsValidRole(input.Role) {
		return SeedResult{}, ministry.ErrInvalidRole
	}
	names, err := SeedNames(input.Role)
	if err != nil {
		return SeedResult{}, err
	}

	mainID := input.MainCongregationID
	if mainID == "" {
		list, err := deps.CongregationStore.List(ctx, congregationStore.ListFilter{Limit: 1})
		if err != nil {
			return SeedResult{}, fmt.Errorf("look up congregation: %w", err)
		}
		if len(list) == 0 {
			return SeedResult{}, ErrNoCongregation
		}
		mainID = list[0].ID
		slog.Info("seed_event", "event", "main_congregation_chosen", "name", list[0].Name, "id", mainID)
	}

	var res SeedResult
	for _, name := range names {
		now := time.Now().UTC()
		m := ministry.Member{
			ID:                 uuid.New().String(),
			Name:               name,
			Role:               input.Role,
			MainCongregationID: mainID,
			OrdinationDate:     seedDefaultOrdination,
			OrdainedBy:         placeholder,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := deps.MemberStore.Save(ctx, m); err != nil {
			res.Failed++
			slog.Error("seed_event", "event", "member_failed", "name", name, "role", input.Role, "error", err)
			continue
		}
		res.Inserted++
		res.IDs = append(res.IDs, m.ID)
	}
	slog.Info("seed_event", "event", "ministry_seeded", "role", input.Role, "count", res.Inserted, "failed", res.Failed)
	return res, nil
}

// SeedAllResult summarises ExecuteSeedAll.
type SeedAllResult struct {
	Congregations SeedResult
	Elders        SeedResult
	Deacons       SeedResult
}

// ExecuteSeedAll seeds congregations, then elders and deacons attached to the
// first congregation inserted by this run.
// Returns ErrNoCongregation when no congregation could be inserted.
func ExecuteSeedAll(ctx context.Context, deps SeedDeps) (SeedAllResult, error) {
	var out SeedAllResult
	var err error
	out.Congregations, err = ExecuteSeedCongregations(ctx, deps)
	if err != nil {
		return out, err
	}
	if len(out.Congregations.IDs) == 0 {
		return out, ErrNoCongregation
	}
	mainID := out.Congregations.IDs[0]

	out.Elders, err = ExecuteSeedMinistry(ctx, SeedMinistryInput{Role: ministry.RoleElder, MainCongregationID: mainID}, deps)
	if err != nil {
		return out, err
	}
	out.Deacons, err = ExecuteSeedMinistry(ctx, SeedMinistryInput{Role: ministry.RoleDeacon, MainCongregationID: mainID}, deps)
	return out, err
}
