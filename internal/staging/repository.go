package staging

import (
	"context"

	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
)

// Repository gives row-level access to the staging tables. It is bound to
// whatever handle it is built with, so a Repository built from a transaction
// reads and deletes inside that transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a staging repository over db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListResults returns the ready staged heuristic results of an application in id order
func (r *Repository) ListResults(ctx context.Context, appID string) ([]database.StagedHeuristicResult, error) {
	var rows []database.StagedHeuristicResult
	err := r.db.WithContext(ctx).
		Where("yarn_app_result_id = ? AND ready = ?", appID, true).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListDetails returns the staged details of one staged heuristic result
func (r *Repository) ListDetails(ctx context.Context, resultID uint) ([]database.StagedHeuristicResultDetail, error) {
	var details []database.StagedHeuristicResultDetail
	err := r.db.WithContext(ctx).
		Where("yarn_app_heuristic_result_id = ?", resultID).
		Order("id ASC").
		Find(&details).Error
	return details, err
}

// DeleteDetails removes the staged details of one staged heuristic result
func (r *Repository) DeleteDetails(ctx context.Context, resultID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("yarn_app_heuristic_result_id = ?", resultID).
		Delete(&database.StagedHeuristicResultDetail{})
	return result.RowsAffected, result.Error
}

// DeleteResults removes the given staged heuristic results of an application in one statement
// and returns how many rows were actually deleted.
func (r *Repository) DeleteResults(ctx context.Context, appID string, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("yarn_app_result_id = ? AND id IN ?", appID, ids).
		Delete(&database.StagedHeuristicResult{})
	return result.RowsAffected, result.Error
}
