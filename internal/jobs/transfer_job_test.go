package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/services"
	"github.com/drelephant/garmadon-transfer/internal/testhelpers"
	"github.com/drelephant/garmadon-transfer/internal/transfer"
)

type countingTransferrer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingTransferrer) TransferAll(context.Context) (*transfer.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return &transfer.Report{RunID: "run", Merged: 1}, c.err
}

func (c *countingTransferrer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestTransferJob_SkipsWhenDisabled(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	settingsSvc := services.NewSettingsService(db)
	ctx := context.Background()

	// Disable the transfer
	settings, err := settingsSvc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings.Enabled = false
	if err := settingsSvc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	transferrer := &countingTransferrer{}
	job := NewTransferJob(transferrer, settingsSvc)

	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report != nil {
		t.Errorf("expected no report when disabled, got %+v", report)
	}
	if transferrer.Calls() != 0 {
		t.Errorf("expected no transfer when disabled, got %d", transferrer.Calls())
	}
}

func TestTransferJob_RunsWhenEnabled(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	transferrer := &countingTransferrer{}
	job := NewTransferJob(transferrer, services.NewSettingsService(db))

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil || report.Merged != 1 {
		t.Errorf("expected the transfer report, got %+v", report)
	}
}

func TestTransferJob_RunsRealTransfer(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	tr, err := transfer.NewFromDB(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job := NewTransferJob(tr, services.NewSettingsService(db))

	testhelpers.NewAppResultBuilder().WithID("app-1").Insert(t, db)
	testhelpers.NewStagedResultBuilder().ForApp("app-1").WithSeverity(database.SeveritySevere).Insert(t, db)

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Merged != 1 {
		t.Errorf("expected 1 merged application, got %d", report.Merged)
	}
	if got := testhelpers.CountStagedRows(t, db, "app-1"); got != 0 {
		t.Errorf("expected staging to be empty, got %d rows", got)
	}
}

func TestTransferJob_StartTicksUntilCanceled(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	transferrer := &countingTransferrer{err: errors.New("pass failed")}
	job := NewTransferJob(transferrer, services.NewSettingsService(db))
	job.unit = 10 * time.Millisecond // 5 units with default settings

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for transferrer.Calls() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	testhelpers.MustCompleteWithin(t, time.Second, func() { <-done })
	if transferrer.Calls() < 3 {
		t.Errorf("expected at least 3 passes (errors must not stop the job), got %d", transferrer.Calls())
	}
}

func TestTransferJob_Interval(t *testing.T) {
	job := NewTransferJob(&countingTransferrer{}, nil)

	if got := job.interval(&database.TransferSettings{IntervalMinutes: 2}); got != 2*time.Minute {
		t.Errorf("expected 2m, got %v", got)
	}
	if got := job.interval(&database.TransferSettings{IntervalMinutes: 0}); got != 5*time.Minute {
		t.Errorf("expected the default of 5m, got %v", got)
	}
}
