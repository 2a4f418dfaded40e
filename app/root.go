// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/habitrack/habit-admin/internal/config"
	"github.com/habitrack/habit-admin/internal/logger"
)

var (
	configPath string // directory holding main.toml
	devMode    bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "habit-admin",
		Short: "HabitAdmin is the back-office service of the habit tracking app",
		Long: `HabitAdmin is the back-office service of the habit tracking app.
It serves the admin API for users, staff, challenges, announcements,
subscription plans and app settings, and creates challenges on schedule.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "directory containing main.toml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

// loadConfig reads the configuration and starts the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
