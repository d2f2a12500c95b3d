package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/bnb/internal/config"
	"github.com/pkordes/bnb/internal/middleware"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for a user ID",
	Long: `Print a bearer token signed with JWT_SECRET for the given user ID.
Useful for local development and smoke tests; user accounts are
managed outside this service.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user ID (UUID) to embed as the token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(tokenUser)
	if err != nil {
		return fmt.Errorf("--user must be a UUID: %w", err)
	}

	cfg, _, err := loadConfig(config.NeedJWTSecret)
	if err != nil {
		return err
	}

	token, err := middleware.IssueToken([]byte(cfg.JWTSecret), userID, tokenTTL)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
