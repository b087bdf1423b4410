package database

import "time"

// TransferSettings controls the staged heuristic transfer job
type TransferSettings struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Enabled         bool      `gorm:"default:true" json:"enabled"`
	MaxReadAttempts int       `gorm:"default:16" json:"max_read_attempts"` // staged rows are evicted once read_times exceeds this
	IntervalMinutes int       `gorm:"default:5" json:"interval_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (TransferSettings) TableName() string {
	return "transfer_settings"
}

// NewDefaultTransferSettings returns settings with default values
func NewDefaultTransferSettings() *TransferSettings {
	return &TransferSettings{
		Enabled:         true,
		MaxReadAttempts: 16,
		IntervalMinutes: 5,
	}
}
