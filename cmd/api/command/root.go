// Package command provides the root and sub-commands of the bnb-api binary.
//
//	bnb-api                     # start the HTTP server
//	bnb-api serve               # same as above
//	bnb-api migrate up|down|status
//	bnb-api token --user <uuid> [--ttl 24h]
//
// Every command reads its configuration from the environment (and an
// optional .env file) through config.LoadFor, checking only the variables
// it uses: migrate needs DATABASE_URL, token needs JWT_SECRET.
package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/bnb/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "bnb-api",
	Short: "Spot listing and booking API",
	Long: `Spot listing and booking API.
Hosts list spots, guests book date ranges on them and leave reviews.
Running the binary without a sub-command starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs rootCmd, which parses CLI arguments and flags and runs the
// most specific command. A failed command exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

// loadConfig loads the configuration a command needs and builds the JSON
// logger every command writes through.
func loadConfig(need config.Need) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFor(need)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config.LoadFor: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
