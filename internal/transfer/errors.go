package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrPrimaryNotFound is reported when a staged application has no primary result yet
	ErrPrimaryNotFound = errors.New("primary result not found")

	// ErrStagedRowsChanged is returned when fewer staged rows were deleted than were merged,
	// meaning another process merged or evicted them concurrently
	ErrStagedRowsChanged = errors.New("staged rows changed during merge")
)

// MergeError implements "error", for the description see Error.
type MergeError struct {
	AppID string
	Err   error
}

func (err MergeError) Error() string {
	return fmt.Sprintf("unable to merge staged results of application '%s': %v", err.AppID, err.Err)
}

func (err MergeError) Unwrap() error {
	return err.Err
}

// SweepError implements "error", for the description see Error.
type SweepError struct {
	Err error
}

func (err SweepError) Error() string {
	return fmt.Sprintf("unable to sweep staged results: %v", err.Err)
}

func (err SweepError) Unwrap() error {
	return err.Err
}
