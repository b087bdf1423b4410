package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferSettings_TableName(t *testing.T) {
	ts := TransferSettings{}
	if ts.TableName() != "transfer_settings" {
		t.Errorf("expected table name 'transfer_settings', got '%s'", ts.TableName())
	}
}

func TestTransferSettings_Defaults(t *testing.T) {
	ts := NewDefaultTransferSettings()

	if !ts.Enabled {
		t.Error("expected Enabled to be true by default")
	}
	if ts.MaxReadAttempts != 16 {
		t.Errorf("expected MaxReadAttempts 16, got %d", ts.MaxReadAttempts)
	}
	if ts.IntervalMinutes != 5 {
		t.Errorf("expected IntervalMinutes 5, got %d", ts.IntervalMinutes)
	}
}

func TestGetOrCreateTransferSettings_CreatesOnce(t *testing.T) {
	db := setupTestDB(t)

	first, err := GetOrCreateTransferSettings(db)
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	assert.Equal(t, 16, first.MaxReadAttempts)

	second, err := GetOrCreateTransferSettings(db)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&TransferSettings{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpdateTransferSettings(t *testing.T) {
	db := setupTestDB(t)

	settings, err := GetOrCreateTransferSettings(db)
	require.NoError(t, err)

	settings.MaxReadAttempts = 3
	settings.IntervalMinutes = 1
	require.NoError(t, UpdateTransferSettings(db, settings))

	reloaded, err := GetOrCreateTransferSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.MaxReadAttempts)
	assert.Equal(t, 1, reloaded.IntervalMinutes)
}
