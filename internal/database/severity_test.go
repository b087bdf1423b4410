package database

import (
	"errors"
	"testing"
)

func TestSeverityByValue(t *testing.T) {
	tests := []struct {
		value   int
		want    Severity
		wantErr bool
	}{
		{0, SeverityNone, false},
		{1, SeverityLow, false},
		{2, SeverityModerate, false},
		{3, SeveritySevere, false},
		{4, SeverityCritical, false},
		{5, SeverityNone, true},
		{-1, SeverityNone, true},
	}

	for _, tt := range tests {
		got, err := SeverityByValue(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("SeverityByValue(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownSeverity) {
			t.Errorf("SeverityByValue(%d) error should wrap ErrUnknownSeverity, got %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("SeverityByValue(%d) = %s; want %s", tt.value, got, tt.want)
		}
	}
}

func TestWorseOf(t *testing.T) {
	all := []Severity{SeverityNone, SeverityLow, SeverityModerate, SeveritySevere, SeverityCritical}

	for _, a := range all {
		for _, b := range all {
			got := WorseOf(a, b)
			if got < a || got < b {
				t.Errorf("WorseOf(%s, %s) = %s is less severe than an input", a, b, got)
			}
			if got != a && got != b {
				t.Errorf("WorseOf(%s, %s) = %s is not one of the inputs", a, b, got)
			}
			if got != WorseOf(b, a) {
				t.Errorf("WorseOf(%s, %s) is not symmetric", a, b)
			}
		}
	}
}

func TestSeverity_String(t *testing.T) {
	if SeverityCritical.String() != "CRITICAL" {
		t.Errorf("expected CRITICAL, got %s", SeverityCritical.String())
	}
	if Severity(9).String() != "Severity(9)" {
		t.Errorf("expected Severity(9), got %s", Severity(9).String())
	}
	if Severity(9).IsValid() {
		t.Error("expected Severity(9) to be invalid")
	}
}
