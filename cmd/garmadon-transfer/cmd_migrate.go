package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
)

var migrateFlags struct {
	staging bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the result and settings tables",
	Long: `Creates the Dr. Elephant result tables and the transfer_settings table when missing.
The staging tables belong to the Garmadon agent and are only created with --staging,
for local runs.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateFlags.staging, "staging", false, "Also create the staging tables")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withDB(func(db *gorm.DB) error {
		if err := database.AutoMigrate(db.WithContext(cmd.Context()), migrateFlags.staging); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
		return nil
	})
}
