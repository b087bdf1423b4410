// Package testhelpers provides reusable testing utilities for the transfer pipeline.
//
// This package contains:
// - An in-memory SQLite database with the primary and staging tables
// - Builders for staged heuristic results and app results
// - Staging table probes used by assertions
package testhelpers

import (
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/drelephant/garmadon-transfer/internal/database"
)

// ========================================
// Database Helpers
// ========================================

// SetupTestDB creates an in-memory SQLite database with every table migrated.
// The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.DriverSQLite, ":memory:", database.NewLogger(logger.Silent))
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := database.AutoMigrate(db, true); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CountStagedRows returns how many staged heuristic results exist for an application
func CountStagedRows(t *testing.T, db *gorm.DB, appID string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&database.StagedHeuristicResult{}).
		Where("yarn_app_result_id = ?", appID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count staged rows: %v", err)
	}
	return count
}

// CountStagedDetails returns how many staged details reference the given staged result
func CountStagedDetails(t *testing.T, db *gorm.DB, resultID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&database.StagedHeuristicResultDetail{}).
		Where("yarn_app_heuristic_result_id = ?", resultID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count staged details: %v", err)
	}
	return count
}

// CountOrphanDetails returns how many staged details reference a missing staged result
func CountOrphanDetails(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	err := db.Model(&database.StagedHeuristicResultDetail{}).
		Where("yarn_app_heuristic_result_id NOT IN (?)",
			db.Model(&database.StagedHeuristicResult{}).Select("id")).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count orphan details: %v", err)
	}
	return count
}

// MaxReadTimes returns the highest read attempt counter of an application's staged rows
func MaxReadTimes(t *testing.T, db *gorm.DB, appID string) int {
	t.Helper()
	var readTimes int
	if err := db.Model(&database.StagedHeuristicResult{}).
		Select("COALESCE(MAX(read_times), 0)").
		Where("yarn_app_result_id = ?", appID).Scan(&readTimes).Error; err != nil {
		t.Fatalf("failed to read max read_times: %v", err)
	}
	return readTimes
}

// LoadAppResult reloads an app result with its heuristic results and details
func LoadAppResult(t *testing.T, db *gorm.DB, appID string) database.AppResult {
	t.Helper()
	var app database.AppResult
	if err := db.Preload("HeuristicResults", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).Preload("HeuristicResults.Details").First(&app, "id = ?", appID).Error; err != nil {
		t.Fatalf("failed to load app result %s: %v", appID, err)
	}
	return app
}

// ========================================
// Timing Helpers
// ========================================

// MustCompleteWithin fails the test if the function takes longer than the timeout
func MustCompleteWithin(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(timeout):
		t.Fatalf("function did not complete within %v", timeout)
	}
}
