package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/daemon"
)

var (
	scheduled bool
	topic     string
)

func init() { //nolint: gochecknoinits
	generateCmd.Flags().BoolVar(&scheduled, "scheduled", false,
		"respect auto_challenge_enabled, as the cron endpoint does")
	generateCmd.Flags().StringVar(&topic, "topic", "", "topic handed to the challenge generator")

	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Create one challenge now",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := daemon.Build(cmd.Context(), &cfg)
		if err != nil {
			return err
		}
		defer c.Notifier.Close() //nolint:errcheck

		trigger := autochallenge.TriggerManual
		if scheduled {
			trigger = autochallenge.TriggerScheduled
		}

		res, err := c.Policy.Run(cmd.Context(), autochallenge.Request{Trigger: trigger, Topic: topic})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		switch res.Outcome {
		case autochallenge.OutcomeDisabled:
			_, err = fmt.Fprintln(out, "auto challenge generation is disabled")
		default:
			_, err = fmt.Fprintf(out, "created %q (%s to %s)\n",
				res.Title, res.Challenge.StartDate, res.Challenge.EndDate)
		}

		return err
	},
}
