package transfer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/logging"
	"github.com/drelephant/garmadon-transfer/internal/utils"
)

// Aggregator folds the staged rows of one application into its primary result
type Aggregator struct {
	logger *logrus.Entry
}

// NewAggregator creates a new aggregator
func NewAggregator(logger *logrus.Entry) *Aggregator {
	if logger == nil {
		logger = logging.New("aggregator")
	}
	return &Aggregator{logger: logger}
}

// Aggregate appends every ready staged heuristic result of appID, with its details,
// to app and raises app's severity to the worst one seen. Staged details are
// deleted right after their parent is converted; the staged results themselves
// are deleted in one statement at the end. It returns the number of merged rows.
//
// Aggregate must run inside the caller's transaction: on error nothing it did
// to the stores may be kept, and app is left partially modified.
func (a *Aggregator) Aggregate(ctx context.Context, staged StagedRepository, appID string, app *database.AppResult) (int, error) {
	rows, err := staged.ListResults(ctx, appID)
	if err != nil {
		return 0, fmt.Errorf("failed to list staged results: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	worst := app.Severity
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		merged, err := a.convert(ctx, staged, row)
		if err != nil {
			return 0, err
		}
		app.HeuristicResults = append(app.HeuristicResults, merged)
		worst = database.WorseOf(worst, merged.Severity)

		if _, err := staged.DeleteDetails(ctx, row.ID); err != nil {
			return 0, fmt.Errorf("failed to delete staged details of %d: %w", row.ID, err)
		}
		ids = append(ids, row.ID)
	}

	app.Severity = worst

	deleted, err := staged.DeleteResults(ctx, appID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete staged results: %w", err)
	}
	if deleted != int64(len(ids)) {
		return 0, fmt.Errorf("%w: deleted %d of %d rows", ErrStagedRowsChanged, deleted, len(ids))
	}
	return len(rows), nil
}

func (a *Aggregator) convert(ctx context.Context, staged StagedRepository, row database.StagedHeuristicResult) (database.AppHeuristicResult, error) {
	sourceID := strconv.FormatUint(uint64(row.ID), 10)

	severity, err := database.SeverityByValue(row.Severity)
	if err != nil {
		return database.AppHeuristicResult{}, fmt.Errorf("staged result %d: %w", row.ID, err)
	}

	merged := database.AppHeuristicResult{
		AppResultID:    row.AppResultID,
		HeuristicClass: utils.TruncateField(row.HeuristicClass, database.HeuristicClassLimit, sourceID),
		HeuristicName:  utils.TruncateField(row.HeuristicName, database.HeuristicNameLimit, sourceID),
		Severity:       severity,
		Score:          row.Score,
	}

	details, err := staged.ListDetails(ctx, row.ID)
	if err != nil {
		return database.AppHeuristicResult{}, fmt.Errorf("failed to list staged details of %d: %w", row.ID, err)
	}
	// Details are keyed by (result, name): the last value staged for a name wins.
	byName := make(map[string]int, len(details))
	for _, d := range details {
		detail := database.AppHeuristicResultDetail{
			Name:    utils.TruncateField(d.Name, database.DetailNameLimit, sourceID),
			Value:   utils.TruncateField(d.Value, database.DetailValueLimit, sourceID),
			Details: utils.TruncateFieldBytes(d.Details, database.DetailDetailsLimit, sourceID),
		}
		if i, ok := byName[detail.Name]; ok {
			a.logger.WithFields(logrus.Fields{
				"staged_id":     row.ID,
				"detail_name":   detail.Name,
				"dropped_value": merged.Details[i].Value,
				"kept_value":    detail.Value,
			}).Warn("Duplicate staged detail name, keeping the last value")
			merged.Details[i] = detail
			continue
		}
		byName[detail.Name] = len(merged.Details)
		merged.Details = append(merged.Details, detail)
	}

	a.logger.WithFields(logrus.Fields{
		"staged_id": row.ID,
		"app_id":    row.AppResultID,
		"severity":  severity.String(),
		"details":   len(merged.Details),
	}).Debug("Converted staged heuristic result")
	return merged, nil
}
