package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/staging"
)

// BacklogReader returns the per-application staging backlog
type BacklogReader interface {
	Backlog(ctx context.Context) ([]staging.BacklogEntry, error)
}

// BacklogMonitor warns about applications whose staged rows are close to eviction
type BacklogMonitor struct {
	reader   BacklogReader
	settings SettingsProvider
	// Margin is how many read attempts before eviction an application is reported
	Margin int
}

// NewBacklogMonitor creates a new backlog monitor
func NewBacklogMonitor(reader BacklogReader, settings SettingsProvider) *BacklogMonitor {
	return &BacklogMonitor{reader: reader, settings: settings, Margin: 3}
}

// Check returns the applications within Margin read attempts of eviction
func (m *BacklogMonitor) Check(ctx context.Context) ([]staging.BacklogEntry, error) {
	settings, err := m.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := m.reader.Backlog(ctx)
	if err != nil {
		return nil, err
	}

	var atRisk []staging.BacklogEntry
	for _, e := range entries {
		if NearEviction(e, settings, m.Margin) {
			atRisk = append(atRisk, e)
			logrus.WithFields(logrus.Fields{
				"app_id":     e.AppResultID,
				"staged":     e.StagedRows,
				"ready":      e.ReadyRows,
				"read_times": e.MaxReadTimes,
				"max":        settings.MaxReadAttempts,
			}).Warn("Staged heuristic results close to eviction")
		}
	}
	return atRisk, nil
}

// NearEviction reports whether e is within margin read attempts of eviction
func NearEviction(e staging.BacklogEntry, settings *database.TransferSettings, margin int) bool {
	return e.MaxReadTimes+margin >= settings.MaxReadAttempts
}

// Start begins the periodic monitoring
func (m *BacklogMonitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.Check(ctx); err != nil {
				logrus.WithError(err).Error("Backlog monitor error")
			}
		case <-ctx.Done():
			logrus.Info("Backlog monitor stopped")
			return
		}
	}
}
