// Package testhelpers provides additional data builders for testing
package testhelpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
)

// ========================================
// Staged Result Builder
// ========================================

// StagedResultBuilder builds staged heuristic results and their details
type StagedResultBuilder struct {
	result  database.StagedHeuristicResult
	details []database.StagedHeuristicResultDetail
}

// NewStagedResultBuilder creates a new staged result builder with defaults
func NewStagedResultBuilder() *StagedResultBuilder {
	return &StagedResultBuilder{
		result: database.StagedHeuristicResult{
			AppResultID:    "application_1458194917883_1453361",
			HeuristicClass: "com.criteo.garmadon.heuristics.GcHeuristic",
			HeuristicName:  "moderate",
			Severity:       int(database.SeverityModerate),
			Score:          10,
			Ready:          true,
		},
	}
}

// WithID sets the staged row ID
func (b *StagedResultBuilder) WithID(id uint) *StagedResultBuilder {
	b.result.ID = id
	return b
}

// ForApp sets the owning application
func (b *StagedResultBuilder) ForApp(appID string) *StagedResultBuilder {
	b.result.AppResultID = appID
	return b
}

// WithClass sets the heuristic class name
func (b *StagedResultBuilder) WithClass(class string) *StagedResultBuilder {
	b.result.HeuristicClass = class
	return b
}

// WithName sets the heuristic display name
func (b *StagedResultBuilder) WithName(name string) *StagedResultBuilder {
	b.result.HeuristicName = name
	return b
}

// WithSeverity sets the severity
func (b *StagedResultBuilder) WithSeverity(severity database.Severity) *StagedResultBuilder {
	b.result.Severity = int(severity)
	return b
}

// WithRawSeverity sets the stored severity ordinal, valid or not
func (b *StagedResultBuilder) WithRawSeverity(ordinal int) *StagedResultBuilder {
	b.result.Severity = ordinal
	return b
}

// WithScore sets the score
func (b *StagedResultBuilder) WithScore(score int) *StagedResultBuilder {
	b.result.Score = score
	return b
}

// NotReady clears the readiness flag
func (b *StagedResultBuilder) NotReady() *StagedResultBuilder {
	b.result.Ready = false
	return b
}

// WithReadTimes sets the read attempt counter
func (b *StagedResultBuilder) WithReadTimes(n int) *StagedResultBuilder {
	b.result.ReadTimes = n
	return b
}

// WithDetail adds a staged detail
func (b *StagedResultBuilder) WithDetail(name, value, details string) *StagedResultBuilder {
	b.details = append(b.details, database.StagedHeuristicResultDetail{
		Name:    name,
		Value:   value,
		Details: details,
	})
	return b
}

// Build returns the constructed staged result and its details
func (b *StagedResultBuilder) Build() (database.StagedHeuristicResult, []database.StagedHeuristicResultDetail) {
	details := make([]database.StagedHeuristicResultDetail, len(b.details))
	copy(details, b.details)
	return b.result, details
}

// Insert writes the staged result and its details to db and returns the stored row
func (b *StagedResultBuilder) Insert(t *testing.T, db *gorm.DB) database.StagedHeuristicResult {
	t.Helper()
	result, details := b.Build()
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("failed to insert staged result: %v", err)
	}
	for i := range details {
		details[i].HeuristicResultID = result.ID
		if err := db.Create(&details[i]).Error; err != nil {
			t.Fatalf("failed to insert staged detail: %v", err)
		}
	}
	return result
}

// ========================================
// App Result Builder
// ========================================

// AppResultBuilder builds AppResult instances for testing
type AppResultBuilder struct {
	app database.AppResult
}

// NewAppResultBuilder creates a new app result builder with defaults
func NewAppResultBuilder() *AppResultBuilder {
	return &AppResultBuilder{
		app: database.AppResult{
			ID:        "application_1458194917883_1453361",
			Name:      "test-job",
			Username:  "drelephant",
			QueueName: "default",
			JobType:   "Spark",
			Severity:  database.SeverityNone,
		},
	}
}

// WithID sets the application ID
func (b *AppResultBuilder) WithID(id string) *AppResultBuilder {
	b.app.ID = id
	return b
}

// WithName sets the job name
func (b *AppResultBuilder) WithName(name string) *AppResultBuilder {
	b.app.Name = name
	return b
}

// WithSeverity sets the current severity
func (b *AppResultBuilder) WithSeverity(severity database.Severity) *AppResultBuilder {
	b.app.Severity = severity
	return b
}

// WithHeuristic attaches an existing heuristic result
func (b *AppResultBuilder) WithHeuristic(h database.AppHeuristicResult) *AppResultBuilder {
	b.app.HeuristicResults = append(b.app.HeuristicResults, h)
	return b
}

// Build returns the constructed app result
func (b *AppResultBuilder) Build() database.AppResult {
	return b.app
}

// Insert writes the app result (and attached heuristics) to db
func (b *AppResultBuilder) Insert(t *testing.T, db *gorm.DB) database.AppResult {
	t.Helper()
	app := b.Build()
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("failed to insert app result: %v", err)
	}
	return app
}
