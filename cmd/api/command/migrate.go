package command

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/bnb/internal/config"
	"github.com/pkordes/bnb/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate up|down|status",
	Short: "Apply, roll back, or list the embedded schema migrations",
	Long: `Apply, roll back, or list the SQL migrations embedded in the binary.
  up      applies every pending migration
  down    rolls back the most recent migration
  status  prints each migration with its applied state`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(config.NeedDatabase)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	ctx := cmd.Context()
	switch args[0] {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		for _, res := range results {
			logger.Info("migration applied", "version", res.Source.Version, "path", res.Source.Path, "duration", res.Duration)
		}
		if len(results) == 0 {
			logger.Info("no pending migrations")
		}
	case "down":
		res, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info("migration rolled back", "version", res.Source.Version, "path", res.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, st := range statuses {
			applied := "pending"
			if st.State == goose.StateApplied {
				applied = st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%05d  %-40s  %s\n", st.Source.Version, st.Source.Path, applied)
		}
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down, or status)", args[0])
	}
	return nil
}
