package services

import (
	"errors"
	"testing"
	"time"

	"unijournal_go/config"
	"unijournal_go/models"
)

func TestMergeAutomated(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		exp      string
	}{
		{name: "manual present survives detection", existing: models.StatusPresent, incoming: models.StatusAutoDetected, exp: models.StatusPresent},
		{name: "fingerprint overwrites face scan", existing: models.StatusAutoDetected, incoming: models.StatusFingerprintDetected, exp: models.StatusFingerprintDetected},
		{name: "face scan overwrites fingerprint", existing: models.StatusFingerprintDetected, incoming: models.StatusAutoDetected, exp: models.StatusAutoDetected},
		{name: "absent is overwritten", existing: models.StatusAbsent, incoming: models.StatusAutoDetected, exp: models.StatusAutoDetected},
		{name: "excused is overwritten", existing: models.StatusExcused, incoming: models.StatusFingerprintDetected, exp: models.StatusFingerprintDetected},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := mergeAutomated(tc.existing, tc.incoming); got != tc.exp {
				t.Fatalf("expected %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestScanOutcome(t *testing.T) {
	record := func(status string) *models.StudentRecord {
		return &models.StudentRecord{Status: status}
	}

	tests := []struct {
		name       string
		existing   *models.StudentRecord
		recognized bool
		expStatus  string
		expWrite   bool
	}{
		{name: "recognized with no record", existing: nil, recognized: true, expStatus: models.StatusAutoDetected, expWrite: true},
		{name: "recognized over absent", existing: record(models.StatusAbsent), recognized: true, expStatus: models.StatusAutoDetected, expWrite: true},
		{name: "recognized over excused", existing: record(models.StatusExcused), recognized: true, expStatus: models.StatusAutoDetected, expWrite: true},
		{name: "recognized over manual present", existing: record(models.StatusPresent), recognized: true, expStatus: models.StatusPresent, expWrite: false},
		{name: "recognized over prior face scan", existing: record(models.StatusAutoDetected), recognized: true, expStatus: models.StatusAutoDetected, expWrite: false},
		{name: "recognized over fingerprint record", existing: record(models.StatusFingerprintDetected), recognized: true, expStatus: models.StatusAutoDetected, expWrite: true},
		{name: "unrecognized with no record", existing: nil, recognized: false, expStatus: models.StatusAbsent, expWrite: true},
		{name: "unrecognized with excused record", existing: record(models.StatusExcused), recognized: false, expStatus: models.StatusExcused, expWrite: false},
		{name: "unrecognized with present record", existing: record(models.StatusPresent), recognized: false, expStatus: models.StatusPresent, expWrite: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			status, write := scanOutcome(tc.existing, tc.recognized)
			if status != tc.expStatus || write != tc.expWrite {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.expStatus, tc.expWrite, status, write)
			}
		})
	}
}

func TestEditWindowOpen(t *testing.T) {
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		instance models.ScheduleInstance
		exp      bool
	}{
		{name: "yesterday open", instance: models.ScheduleInstance{Date: date(2025, 9, 9)}, exp: true},
		{name: "today closed", instance: models.ScheduleInstance{Date: date(2025, 9, 10)}, exp: false},
		{name: "tomorrow closed", instance: models.ScheduleInstance{Date: date(2025, 9, 11)}, exp: false},
		{name: "cancelled past lesson closed", instance: models.ScheduleInstance{Date: date(2025, 9, 9), IsCancelled: true}, exp: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := editWindowOpen(&tc.instance, now); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestDetectorWindowOpen(t *testing.T) {
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		instance models.ScheduleInstance
		exp      bool
	}{
		{name: "today open", instance: models.ScheduleInstance{Date: date(2025, 9, 10)}, exp: true},
		{name: "yesterday open", instance: models.ScheduleInstance{Date: date(2025, 9, 9)}, exp: true},
		{name: "tomorrow closed", instance: models.ScheduleInstance{Date: date(2025, 9, 11)}, exp: false},
		{name: "cancelled today closed", instance: models.ScheduleInstance{Date: date(2025, 9, 10), IsCancelled: true}, exp: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := detectorWindowOpen(&tc.instance, now); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestValidateManualInput(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{GradeMin: 2, GradeMax: 5}
	defer func() { config.AppConfig = prev }()

	grade := func(v int) *int { return &v }

	if err := validateManualInput(models.StatusPresent, grade(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateManualInput(models.StatusExcused, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := validateManualInput(models.StatusAutoDetected, nil)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("status validation must not classify as not found")
	}

	err = validateManualInput(models.StatusPresent, grade(6))
	if !errors.Is(err, ErrInvalidGrade) {
		t.Fatalf("expected ErrInvalidGrade, got %v", err)
	}
}

func TestValidManualStatus(t *testing.T) {
	valid := []string{models.StatusPresent, models.StatusAbsent, models.StatusExcused}
	for _, s := range valid {
		if !validManualStatus(s) {
			t.Fatalf("expected %q to be a valid manual status", s)
		}
	}
	invalid := []string{models.StatusAutoDetected, models.StatusFingerprintDetected, "late", ""}
	for _, s := range invalid {
		if validManualStatus(s) {
			t.Fatalf("expected %q to be rejected for manual entry", s)
		}
	}
}

func TestValidGrade(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{GradeMin: 2, GradeMax: 5}
	defer func() { config.AppConfig = prev }()

	grade := func(v int) *int { return &v }

	tests := []struct {
		name  string
		grade *int
		exp   bool
	}{
		{name: "nil grade is allowed", grade: nil, exp: true},
		{name: "lower bound", grade: grade(2), exp: true},
		{name: "upper bound", grade: grade(5), exp: true},
		{name: "below scale", grade: grade(1), exp: false},
		{name: "above scale", grade: grade(6), exp: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := validGrade(tc.grade); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}
