package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/services"
)

var settingsFlags struct {
	enable          bool
	disable         bool
	maxReadAttempts int
	intervalMinutes int
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the transfer settings",
	RunE:  runSettings,
}

func init() {
	f := settingsCmd.Flags()
	f.BoolVar(&settingsFlags.enable, "enable", false, "Enable the periodic transfer")
	f.BoolVar(&settingsFlags.disable, "disable", false, "Disable the periodic transfer")
	f.IntVar(&settingsFlags.maxReadAttempts, "max-read-attempts", 0, "Evict staged rows read more than this many times")
	f.IntVar(&settingsFlags.intervalMinutes, "interval-minutes", 0, "Minutes between two passes of serve")
	settingsCmd.MarkFlagsMutuallyExclusive("enable", "disable")
}

func runSettings(cmd *cobra.Command, _ []string) error {
	return withDB(func(db *gorm.DB) error {
		svc := services.NewSettingsService(db)
		settings, err := svc.GetSettings(cmd.Context())
		if err != nil {
			return err
		}

		f := cmd.Flags()
		changed := false
		if settingsFlags.enable || settingsFlags.disable {
			settings.Enabled = settingsFlags.enable
			changed = true
		}
		if f.Changed("max-read-attempts") {
			if settingsFlags.maxReadAttempts < 1 {
				return errors.New("--max-read-attempts must be at least 1")
			}
			settings.MaxReadAttempts = settingsFlags.maxReadAttempts
			changed = true
		}
		if f.Changed("interval-minutes") {
			if settingsFlags.intervalMinutes < 1 {
				return errors.New("--interval-minutes must be at least 1")
			}
			settings.IntervalMinutes = settingsFlags.intervalMinutes
			changed = true
		}
		if changed {
			if err := svc.UpdateSettings(cmd.Context(), settings); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Enabled:           %t\n", settings.Enabled)
		fmt.Fprintf(out, "Max read attempts: %d\n", settings.MaxReadAttempts)
		fmt.Fprintf(out, "Interval:          %d min\n", settings.IntervalMinutes)
		return nil
	})
}
