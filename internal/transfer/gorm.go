package transfer

import (
	"context"

	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/services"
	"github.com/drelephant/garmadon-transfer/internal/staging"
)

// GormTxRunner opens merge transactions on a gorm handle
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a TxRunner over db
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// InTransaction binds both repositories to one gorm transaction
func (r *GormTxRunner) InTransaction(ctx context.Context, fn func(Stores) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Stores{
			Results: services.NewAppResultService(tx),
			Staged:  staging.NewRepository(tx),
		})
	})
}
