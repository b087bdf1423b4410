package transfer

import (
	"time"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/staging"
)

// Status is the outcome of one application merge
type Status string

const (
	StatusMerged  Status = "merged"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// MergeResult describes what MergeOne did for one application
type MergeResult struct {
	AppID          string
	Status         Status
	Heuristics     int
	SeverityBefore database.Severity
	SeverityAfter  database.Severity
	Reason         string
	Err            error
}

// Report summarizes one TransferAll pass
type Report struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Candidates   int
	Merged       int
	Skipped      int
	Failed       int
	NotAttempted int
	Results      []MergeResult
	Incremented  int64
	Evicted      []staging.EvictedRow
}

// Duration returns how long the pass took
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) add(result MergeResult) {
	r.Results = append(r.Results, result)
	switch result.Status {
	case StatusMerged:
		r.Merged++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}
