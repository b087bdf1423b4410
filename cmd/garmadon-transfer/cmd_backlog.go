package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/jobs"
	"github.com/drelephant/garmadon-transfer/internal/services"
	"github.com/drelephant/garmadon-transfer/internal/staging"
)

var backlogFlags struct {
	limit  int
	margin int
}

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Show staged heuristic results per application",
	Long: `Lists the applications that still have staged heuristic results, most read first.
Applications within --margin read attempts of eviction are highlighted.`,
	RunE: runBacklog,
}

func init() {
	f := backlogCmd.Flags()
	f.IntVar(&backlogFlags.limit, "limit", 50, "Maximum number of applications to show, 0 for all")
	f.IntVar(&backlogFlags.margin, "margin", 3, "Highlight applications this many read attempts from eviction")
}

func runBacklog(cmd *cobra.Command, _ []string) error {
	return withDB(func(db *gorm.DB) error {
		reader, err := staging.NewReader(db)
		if err != nil {
			return err
		}
		settings, err := services.NewSettingsService(db).GetSettings(cmd.Context())
		if err != nil {
			return err
		}
		entries, err := reader.Backlog(cmd.Context())
		if err != nil {
			return err
		}
		printBacklog(cmd.OutOrStdout(), entries, settings, backlogFlags.limit, backlogFlags.margin)
		return nil
	})
}

func printBacklog(out io.Writer, entries []staging.BacklogEntry, settings *database.TransferSettings, limit, margin int) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Staging is empty")
		return
	}

	atRisk := color.New(color.FgRed, color.Bold)
	pending := color.New(color.FgYellow)

	fmt.Fprintf(out, "%-40s %8s %8s %12s\n", "APPLICATION", "STAGED", "READY", "READ TIMES")
	for i, e := range entries {
		if limit > 0 && i >= limit {
			fmt.Fprintf(out, "... %d more\n", len(entries)-limit)
			break
		}
		line := fmt.Sprintf("%-40s %8d %8d %9d/%-2d", e.AppResultID, e.StagedRows, e.ReadyRows, e.MaxReadTimes, settings.MaxReadAttempts)
		switch {
		case jobs.NearEviction(e, settings, margin):
			atRisk.Fprintln(out, line)
		case e.ReadyRows < e.StagedRows:
			pending.Fprintln(out, line)
		default:
			fmt.Fprintln(out, line)
		}
	}
}
