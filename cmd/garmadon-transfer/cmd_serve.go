package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/jobs"
	"github.com/drelephant/garmadon-transfer/internal/services"
	"github.com/drelephant/garmadon-transfer/internal/staging"
	"github.com/drelephant/garmadon-transfer/internal/transfer"
)

var serveFlags struct {
	migrate bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run transfer passes periodically until interrupted",
	Long: `Runs a transfer pass immediately and then every interval_minutes of the
transfer_settings row. Disabling the transfer in the settings pauses the passes
without stopping the process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.migrate, "migrate", false, "Create missing primary and settings tables before starting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withDB(func(db *gorm.DB) error {
		if serveFlags.migrate {
			if err := database.AutoMigrate(db, false); err != nil {
				return err
			}
		}

		tr, err := transfer.NewFromDB(db)
		if err != nil {
			return err
		}
		settings := services.NewSettingsService(db)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.BacklogCheckMinutes > 0 {
			reader, err := staging.NewReader(db)
			if err != nil {
				return err
			}
			monitor := jobs.NewBacklogMonitor(reader, settings)
			go monitor.Start(ctx, time.Duration(cfg.BacklogCheckMinutes)*time.Minute)
		}

		logrus.WithField("version", version).Info("Starting garmadon-transfer")
		jobs.NewTransferJob(tr, settings).Start(ctx)

		if ctx.Err() != nil && cmd.Context().Err() == nil {
			logrus.Info("Received shutdown signal, shutdown complete")
		}
		return nil
	})
}
