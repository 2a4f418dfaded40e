package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/habitrack/habit-admin/internal/daemon"
	"github.com/habitrack/habit-admin/internal/db"
)

// EnvSeedPassword sets the seeded password instead of a random one.
const EnvSeedPassword = "HABIT_ADMIN_SEED_PASSWORD"

var (
	seedUsername string
	seedEmail    string
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().StringVar(&seedUsername, "username", "admin", "local admin username")
	seedCmd.Flags().StringVar(&seedEmail, "email", "", "local admin email")

	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed-admin",
	Short:   "Create or reset the local super admin",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		if sqlDB, dbErr := conn.DB(); dbErr == nil {
			defer sqlDB.Close() //nolint:errcheck
		}

		given := os.Getenv(EnvSeedPassword)

		password, err := daemon.SeedAdmin(cmd.Context(), conn, seedUsername, seedEmail, given)
		if err != nil {
			return err
		}

		if given != "" {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "admin %q reset\n", seedUsername)

			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "admin %q password: %s\n", seedUsername, password)

		return err
	},
}
