package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
)

// ErrAppResultNotFound is returned when no primary result exists for an application
var ErrAppResultNotFound = errors.New("app result not found")

// AppResultService reads and saves the primary application results
type AppResultService struct {
	db *gorm.DB
}

// NewAppResultService creates a new app result service
func NewAppResultService(db *gorm.DB) *AppResultService {
	return &AppResultService{db: db}
}

// Find returns the primary result of an application without its heuristic results.
// Children appended to the returned value are inserted by Save.
func (s *AppResultService) Find(ctx context.Context, id string) (*database.AppResult, error) {
	var app database.AppResult
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAppResultNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Save persists the app result together with its heuristic results and their details
func (s *AppResultService) Save(ctx context.Context, app *database.AppResult) error {
	return s.db.WithContext(ctx).Save(app).Error
}

// CountHeuristicResults returns how many heuristic results are attached to an application
func (s *AppResultService) CountHeuristicResults(ctx context.Context, id string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&database.AppHeuristicResult{}).
		Where("yarn_app_result_id = ?", id).
		Count(&count).Error
	return count, err
}
