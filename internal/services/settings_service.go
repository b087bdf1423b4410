package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
)

// SettingsService exposes the transfer settings singleton
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetSettings returns transfer settings (creates defaults if not exists)
func (s *SettingsService) GetSettings(ctx context.Context) (*database.TransferSettings, error) {
	return database.GetOrCreateTransferSettings(s.db.WithContext(ctx))
}

// UpdateSettings updates transfer settings
func (s *SettingsService) UpdateSettings(ctx context.Context, settings *database.TransferSettings) error {
	return database.UpdateTransferSettings(s.db.WithContext(ctx), settings)
}
