package database

import (
	"errors"
	"fmt"
)

// Severity is the ordered diagnostic level of a heuristic result.
// It is stored as its ordinal in the severity columns.
type Severity int

const (
	SeverityNone     Severity = 0
	SeverityLow      Severity = 1
	SeverityModerate Severity = 2
	SeveritySevere   Severity = 3
	SeverityCritical Severity = 4
)

// ErrUnknownSeverity is returned for ordinals and names outside the known range
var ErrUnknownSeverity = errors.New("unknown severity")

var severityNames = map[Severity]string{
	SeverityNone:     "NONE",
	SeverityLow:      "LOW",
	SeverityModerate: "MODERATE",
	SeveritySevere:   "SEVERE",
	SeverityCritical: "CRITICAL",
}

// SeverityByValue converts a stored ordinal into a Severity
func SeverityByValue(value int) (Severity, error) {
	s := Severity(value)
	if !s.IsValid() {
		return SeverityNone, fmt.Errorf("%w: ordinal %d", ErrUnknownSeverity, value)
	}
	return s, nil
}

// WorseOf returns the more severe of a and b
func WorseOf(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// IsValid reports whether s is one of the defined levels
func (s Severity) IsValid() bool {
	_, ok := severityNames[s]
	return ok
}

func (s Severity) String() string {
	if n, ok := severityNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}
