// garmadon-transfer moves the heuristic results staged by the Garmadon agent
// into the Dr. Elephant result tables.
//
// Usage:
//
//	garmadon-transfer run [--app=<application id>]
//	garmadon-transfer serve
//	garmadon-transfer backlog [--limit=<n>]
//	garmadon-transfer settings [--enable|--disable] [--max-read-attempts=<n>] [--interval-minutes=<n>]
//	garmadon-transfer migrate [--staging]
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/drelephant/garmadon-transfer/internal/config"
	"github.com/drelephant/garmadon-transfer/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// cfg is loaded before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "garmadon-transfer",
	Short: "Transfer Garmadon staged heuristic results into Dr. Elephant",
	Long: "garmadon-transfer merges the heuristic results staged by the Garmadon agent into\n" +
		"the primary Dr. Elephant result tables and evicts staged rows that never became ready.",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backlogCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.Version = version
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	// Load .env file if it exists (ignore error if file doesn't exist)
	envErr := godotenv.Load()

	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(c.LogLevel, c.LogFormat, cmd.ErrOrStderr())
	if envErr != nil {
		logrus.WithError(envErr).Debug("No .env file loaded")
	}

	cfg = c
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
