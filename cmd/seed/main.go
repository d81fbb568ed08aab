// Command seed applies the schema and loads the fixed congregation and
// ministry lists into the database named by CONGREGA_DATABASE_URL.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"congrega/internal/adapters/storage"
	congregationStore "congrega/internal/adapters/storage/congregation"
	ministryStore "congrega/internal/adapters/storage/ministry"
	"congrega/internal/application/orchestrators"
	"congrega/internal/config"
	"congrega/internal/domain/ministry"
)

func main() {
	cfg := config.Load()
	root := newRootCmd(cfg, os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", diagnose(err))
		os.Exit(1)
	}
}

// diagnose turns the errors a user can fix into instructions.
func diagnose(err error) string {
	switch {
	case errors.Is(err, config.ErrMissingDatabaseURL):
		return "CONGREGA_DATABASE_URL is not set; add it to .env or pass --database-url"
	case errors.Is(err, orchestrators.ErrNoCongregation):
		return "no congregation found; run `seed congregations` first"
	}
	return err.Error()
}

// seedEnv is the opened database shared by every subcommand.
type seedEnv struct {
	db   *storage.TimedDB
	deps orchestrators.SeedDeps
}

func newRootCmd(cfg config.Config, out io.Writer) *cobra.Command {
	var env seedEnv
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Apply the schema and load seed data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DatabaseURL == "" {
				return config.ErrMissingDatabaseURL
			}
			db, dialect, err := storage.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			env.db = storage.NewTimedDB(db, dialect, nil)
			env.deps = orchestrators.SeedDeps{
				CongregationStore: congregationStore.NewSQLStore(env.db),
				MemberStore:       ministryStore.NewSQLStore(env.db),
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if env.db == nil {
				return nil
			}
			return env.db.Close()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "database URL (overrides CONGREGA_DATABASE_URL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "schema",
			Short: "Apply every schema statement, tolerating existing objects",
			RunE: func(cmd *cobra.Command, _ []string) error {
				res := orchestrators.ExecuteSetupSchema(cmd.Context(), orchestrators.SetupSchemaDeps{DB: env.db})
				fmt.Fprintf(cmd.OutOrStdout(), "schema: %d applied, %d already present, %d failed\n", res.Succeeded, res.Warnings, res.Failed)
				if res.Failed > 0 {
					return fmt.Errorf("%d schema statements failed", res.Failed)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "congregations",
			Short: "Insert the fixed congregation list",
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := orchestrators.ExecuteSeedCongregations(cmd.Context(), env.deps)
				if err != nil {
					return err
				}
				report(cmd.OutOrStdout(), "congregations", res)
				return nil
			},
		},
		ministryCmd("elders", "Insert the fixed elder list", ministry.RoleElder, &env),
		ministryCmd("deacons", "Insert the fixed deacon list", ministry.RoleDeacon, &env),
		&cobra.Command{
			Use:   "all",
			Short: "Seed congregations, then elders and deacons of the first one",
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := orchestrators.ExecuteSeedAll(cmd.Context(), env.deps)
				report(cmd.OutOrStdout(), "congregations", res.Congregations)
				report(cmd.OutOrStdout(), "elders", res.Elders)
				report(cmd.OutOrStdout(), "deacons", res.Deacons)
				return err
			},
		},
	)
	return root
}

func ministryCmd(use, short, role string, env *seedEnv) *cobra.Command {
	var congregationID string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := orchestrators.ExecuteSeedMinistry(cmd.Context(), orchestrators.SeedMinistryInput{
				Role:               role,
				MainCongregationID: congregationID,
			}, env.deps)
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), use, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&congregationID, "congregation", "", "main congregation id (default: first listed)")
	return cmd
}

func report(w io.Writer, what string, res orchestrators.SeedResult) {
	fmt.Fprintf(w, "%s: %d inserted, %d failed\n", what, res.Inserted, res.Failed)
}
