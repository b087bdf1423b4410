package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/services"
	"github.com/drelephant/garmadon-transfer/internal/transfer"
	"github.com/drelephant/garmadon-transfer/internal/utils"
)

var runFlags struct {
	appID string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one transfer pass and exit",
	Long: `Merges every application with ready staged heuristic results, then counts a read
attempt for the staged rows left over and evicts the exhausted ones.
The exit code is non-zero when any application failed to merge.

With --app only that application is merged and no read attempt is counted.`,
	RunE: runTransfer,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.appID, "app", "", "Merge a single application id")
}

func runTransfer(cmd *cobra.Command, _ []string) error {
	return withDB(func(db *gorm.DB) error {
		tr, err := transfer.NewFromDB(db)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if runFlags.appID != "" {
			result := tr.MergeOne(cmd.Context(), runFlags.appID)
			printMergeResult(out, result)
			if result.Status == transfer.StatusFailed {
				return transfer.MergeError{AppID: result.AppID, Err: result.Err}
			}
			if result.Status == transfer.StatusMerged {
				total, err := services.NewAppResultService(db).CountHeuristicResults(cmd.Context(), result.AppID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s now has %s heuristic results\n", result.AppID, utils.FormatNumber(int(total)))
			}
			return nil
		}

		report, err := tr.TransferAll(cmd.Context())
		if report != nil {
			printReport(out, report)
		}
		return err
	})
}

func printMergeResult(out io.Writer, r transfer.MergeResult) {
	fmt.Fprintf(out, "%s: %s", r.AppID, r.Status)
	switch r.Status {
	case transfer.StatusMerged:
		fmt.Fprintf(out, " (%d heuristics, severity %s -> %s)", r.Heuristics, r.SeverityBefore, r.SeverityAfter)
	case transfer.StatusSkipped:
		fmt.Fprintf(out, " (%s)", r.Reason)
	case transfer.StatusFailed:
		fmt.Fprintf(out, " (%v)", r.Err)
	}
	fmt.Fprintln(out)
}

func printReport(out io.Writer, r *transfer.Report) {
	fmt.Fprintf(out, "Run:          %s\n", r.RunID)
	fmt.Fprintf(out, "Candidates:   %s\n", utils.FormatNumber(r.Candidates))
	fmt.Fprintf(out, "Merged:       %s\n", utils.FormatNumber(r.Merged))
	fmt.Fprintf(out, "Skipped:      %s\n", utils.FormatNumber(r.Skipped))
	fmt.Fprintf(out, "Failed:       %s\n", utils.FormatNumber(r.Failed))
	if r.NotAttempted > 0 {
		fmt.Fprintf(out, "Not attempted: %s\n", utils.FormatNumber(r.NotAttempted))
	}
	fmt.Fprintf(out, "Read counted: %s\n", utils.FormatNumber(int(r.Incremented)))
	fmt.Fprintf(out, "Evicted:      %s\n", utils.FormatNumber(len(r.Evicted)))
	fmt.Fprintf(out, "Duration:     %s\n", utils.FormatDuration(r.Duration()))
	for _, res := range r.Results {
		if res.Status != transfer.StatusMerged {
			fmt.Fprint(out, "  ")
			printMergeResult(out, res)
		}
	}
}
