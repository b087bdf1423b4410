package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/logging"
	"github.com/drelephant/garmadon-transfer/internal/transfer"
	"github.com/drelephant/garmadon-transfer/internal/utils"
)

// Transferrer runs one staged heuristic transfer pass
type Transferrer interface {
	TransferAll(ctx context.Context) (*transfer.Report, error)
}

// SettingsProvider returns the current transfer settings
type SettingsProvider interface {
	GetSettings(ctx context.Context) (*database.TransferSettings, error)
}

// TransferJob periodically moves ready staged heuristic results into the primary store
type TransferJob struct {
	transferrer Transferrer
	settings    SettingsProvider
	logger      *logrus.Entry

	// unit scales IntervalMinutes; a minute outside of tests
	unit time.Duration
}

// NewTransferJob creates a new transfer job
func NewTransferJob(transferrer Transferrer, settings SettingsProvider) *TransferJob {
	return &TransferJob{
		transferrer: transferrer,
		settings:    settings,
		logger:      logging.New("transfer-job"),
		unit:        time.Minute,
	}
}

// Run executes one pass unless the transfer is disabled.
// It returns a nil report when the pass was skipped.
func (j *TransferJob) Run(ctx context.Context) (*transfer.Report, error) {
	settings, err := j.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if !settings.Enabled {
		j.logger.Info("Staged heuristic transfer is disabled, skipping")
		return nil, nil
	}

	return j.transferrer.TransferAll(ctx)
}

// Start runs a pass immediately and then on every tick until ctx is done.
// The interval is re-read from the settings after each pass.
func (j *TransferJob) Start(ctx context.Context) {
	settings, err := j.settings.GetSettings(ctx)
	if err != nil {
		j.logger.WithError(err).Warn("Failed to get transfer settings, using default interval")
		settings = database.NewDefaultTransferSettings()
	}

	interval := j.interval(settings)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.runOnce(ctx)
	for {
		select {
		case <-ticker.C:
			j.runOnce(ctx)

			// Refresh interval from settings (in case it changed)
			newSettings, err := j.settings.GetSettings(ctx)
			if err == nil && newSettings.IntervalMinutes != settings.IntervalMinutes {
				settings = newSettings
				interval = j.interval(settings)
				ticker.Reset(interval)
				j.logger.WithField("interval_minutes", settings.IntervalMinutes).Info("Transfer interval updated")
			}

		case <-ctx.Done():
			j.logger.Info("Transfer job stopped")
			return
		}
	}
}

func (j *TransferJob) runOnce(ctx context.Context) {
	report, err := j.Run(ctx)
	if err != nil {
		j.logger.WithError(err).Error("Transfer job error")
	}
	if report == nil {
		return
	}
	if report.Merged > 0 || report.Failed > 0 || len(report.Evicted) > 0 {
		j.logger.WithFields(logrus.Fields{
			"run_id":   report.RunID,
			"merged":   report.Merged,
			"failed":   report.Failed,
			"evicted":  len(report.Evicted),
			"duration": utils.FormatDuration(report.Duration()),
		}).Info("Transfer job pass completed")
	}
}

func (j *TransferJob) interval(settings *database.TransferSettings) time.Duration {
	minutes := settings.IntervalMinutes
	if minutes <= 0 {
		minutes = database.NewDefaultTransferSettings().IntervalMinutes
	}
	return time.Duration(minutes) * j.unit
}
