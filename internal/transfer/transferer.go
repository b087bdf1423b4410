package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/logging"
	"github.com/drelephant/garmadon-transfer/internal/services"
	"github.com/drelephant/garmadon-transfer/internal/staging"
)

// Transferer moves ready staged heuristic results into the primary result store
type Transferer struct {
	reader     StagingReader
	results    ResultRepository
	settings   SettingsProvider
	tx         TxRunner
	aggregator *Aggregator
	logger     *logrus.Entry
	now        func() time.Time
}

// New creates a Transferer from its collaborators
func New(reader StagingReader, results ResultRepository, settings SettingsProvider, tx TxRunner, logger *logrus.Entry) *Transferer {
	if logger == nil {
		logger = logging.New("transfer")
	}
	return &Transferer{
		reader:     reader,
		results:    results,
		settings:   settings,
		tx:         tx,
		aggregator: NewAggregator(logger),
		logger:     logger,
		now:        time.Now,
	}
}

// NewFromDB wires a Transferer on a single database handle
func NewFromDB(db *gorm.DB) (*Transferer, error) {
	reader, err := staging.NewReader(db)
	if err != nil {
		return nil, err
	}
	return New(
		reader,
		services.NewAppResultService(db),
		services.NewSettingsService(db),
		NewGormTxRunner(db),
		logging.New("transfer"),
	), nil
}

// TransferAll runs one pass: every application with ready staged rows is merged
// on its own, then the read attempts of the rows observed by the pass are
// counted and the exhausted ones evicted. A failing application never stops
// the pass; all failures are returned together alongside the report.
func (t *Transferer) TransferAll(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: t.now(),
	}
	log := t.logger.WithField("run_id", report.RunID)
	defer func() { report.FinishedAt = t.now() }()

	settings, err := t.settings.GetSettings(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load transfer settings: %w", err)
	}

	watermark, err := t.reader.Watermark(ctx)
	if err != nil {
		return report, err
	}

	candidates, err := t.reader.ListReadyApplications(ctx)
	if err != nil {
		return report, err
	}
	report.Candidates = len(candidates)
	log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"watermark":  watermark,
	}).Info("Starting staged heuristic transfer")

	var result *multierror.Error
	for i, appID := range candidates {
		if ctx.Err() != nil {
			report.NotAttempted = len(candidates) - i
			break
		}
		merge := t.MergeOne(ctx, appID)
		report.add(merge)
		if merge.Status == StatusFailed {
			result = multierror.Append(result, MergeError{AppID: appID, Err: merge.Err})
		}
	}

	if err := ctx.Err(); err != nil {
		// rows left unattempted must not lose a read attempt
		log.WithField("not_attempted", report.NotAttempted).Warn("Transfer interrupted, sweep skipped")
		result = multierror.Append(result, err)
		return report, result.ErrorOrNil()
	}

	sweep, err := t.reader.Sweep(ctx, watermark, settings.MaxReadAttempts)
	if err != nil {
		result = multierror.Append(result, SweepError{Err: err})
	} else {
		report.Incremented = sweep.Incremented
		report.Evicted = sweep.Evicted
	}

	log.WithFields(logrus.Fields{
		"merged":      report.Merged,
		"skipped":     report.Skipped,
		"failed":      report.Failed,
		"incremented": report.Incremented,
		"evicted":     len(report.Evicted),
	}).Info("Staged heuristic transfer finished")

	return report, result.ErrorOrNil()
}

// MergeOne merges the ready staged rows of one application in a single
// transaction. On failure the transaction is rolled back, the staged rows stay
// for a later pass and the result carries the cause.
func (t *Transferer) MergeOne(ctx context.Context, appID string) MergeResult {
	log := t.logger.WithField("app_id", appID)
	result := MergeResult{AppID: appID}

	app, err := t.results.Find(ctx, appID)
	if errors.Is(err, services.ErrAppResultNotFound) {
		log.Info("No primary result yet, leaving staged results in place")
		result.Status = StatusSkipped
		result.Reason = "primary result not found"
		result.Err = fmt.Errorf("%w: %s", ErrPrimaryNotFound, appID)
		return result
	}
	if err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to load primary result: %w", err)
		log.WithError(result.Err).Error("Merge failed")
		return result
	}

	result.SeverityBefore = app.Severity
	priorChildren := len(app.HeuristicResults)

	err = t.tx.InTransaction(ctx, func(stores Stores) error {
		merged, err := t.aggregator.Aggregate(ctx, stores.Staged, appID, app)
		if err != nil {
			return err
		}
		result.Heuristics = merged
		if merged == 0 {
			return nil
		}
		if err := stores.Results.Save(ctx, app); err != nil {
			return fmt.Errorf("failed to save primary result: %w", err)
		}
		return nil
	})
	if err != nil {
		app.Severity = result.SeverityBefore
		app.HeuristicResults = app.HeuristicResults[:priorChildren]
		result.Status = StatusFailed
		result.Heuristics = 0
		result.SeverityAfter = result.SeverityBefore
		result.Err = err
		log.WithError(err).Error("Merge failed, staged results kept for a later pass")
		return result
	}

	result.SeverityAfter = app.Severity
	if result.Heuristics == 0 {
		result.Status = StatusSkipped
		result.Reason = "no ready staged results"
		return result
	}

	result.Status = StatusMerged
	log.WithFields(logrus.Fields{
		"heuristics":      result.Heuristics,
		"severity_before": result.SeverityBefore.String(),
		"severity_after":  result.SeverityAfter.String(),
	}).Info("Merged staged heuristic results")
	return result
}

var (
	_ SettingsProvider = (*services.SettingsService)(nil)
	_ ResultRepository = (*services.AppResultService)(nil)
	_ StagedRepository = (*staging.Repository)(nil)
	_ StagingReader    = (*staging.Reader)(nil)
)
