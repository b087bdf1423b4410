package transfer

import (
	"context"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/staging"
)

// StagedRepository reads and deletes staged rows. Within a merge it is bound
// to the merge transaction.
type StagedRepository interface {
	ListResults(ctx context.Context, appID string) ([]database.StagedHeuristicResult, error)
	ListDetails(ctx context.Context, resultID uint) ([]database.StagedHeuristicResultDetail, error)
	DeleteDetails(ctx context.Context, resultID uint) (int64, error)
	DeleteResults(ctx context.Context, appID string, ids []uint) (int64, error)
}

// ResultRepository loads and persists primary app results
type ResultRepository interface {
	Find(ctx context.Context, id string) (*database.AppResult, error)
	Save(ctx context.Context, app *database.AppResult) error
}

// StagingReader runs the pass-level staging queries
type StagingReader interface {
	Watermark(ctx context.Context) (uint, error)
	ListReadyApplications(ctx context.Context) ([]string, error)
	Sweep(ctx context.Context, watermark uint, maxReadAttempts int) (*staging.SweepResult, error)
}

// SettingsProvider returns the current transfer settings
type SettingsProvider interface {
	GetSettings(ctx context.Context) (*database.TransferSettings, error)
}

// Stores are the repositories available inside one merge transaction
type Stores struct {
	Results ResultRepository
	Staged  StagedRepository
}

// TxRunner runs fn in a single transaction. The transaction is committed when
// fn returns nil and rolled back otherwise.
type TxRunner interface {
	InTransaction(ctx context.Context, fn func(Stores) error) error
}
