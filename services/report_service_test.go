package services

import (
	"testing"

	"unijournal_go/models"
)

func TestRound2(t *testing.T) {
	if got := round2(0.666666); got != 0.67 {
		t.Fatalf("expected 0.67, got %v", got)
	}
	if got := round2(0.125); got != 0.13 {
		t.Fatalf("expected 0.13, got %v", got)
	}
	if got := round2(1.0); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
}

func TestComputeReport(t *testing.T) {
	grade := func(v int) *int { return &v }

	students := []models.Student{
		{FullName: "First"},
		{FullName: "Second"},
	}
	students[0].ID = 1
	students[1].ID = 2

	records := []models.StudentRecord{
		{StudentID: 1, Status: models.StatusPresent, Grade: grade(5)},
		{StudentID: 1, Status: models.StatusAutoDetected},
		{StudentID: 1, Status: models.StatusAbsent, Grade: grade(3)},
		{StudentID: 2, Status: models.StatusExcused},
	}

	rows, overallRate, overallAvg := computeReport(students, 4, records)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Attended != 2 || first.Absent != 1 || first.Excused != 0 || first.Missing != 1 {
		t.Fatalf("first row counts wrong: %+v", first)
	}
	if first.AttendanceRate != 0.5 {
		t.Fatalf("expected first attendance rate 0.5, got %v", first.AttendanceRate)
	}
	if first.AverageGrade == nil || *first.AverageGrade != 4.0 {
		t.Fatalf("expected first average grade 4.0, got %v", first.AverageGrade)
	}

	second := rows[1]
	if second.Attended != 0 || second.Excused != 1 || second.Missing != 3 {
		t.Fatalf("second row counts wrong: %+v", second)
	}
	if second.AverageGrade != nil {
		t.Fatalf("expected no average grade for ungraded student, got %v", *second.AverageGrade)
	}

	// 2 attended out of 4 occurrences across 2 students.
	if overallRate != 0.25 {
		t.Fatalf("expected overall rate 0.25, got %v", overallRate)
	}
	if overallAvg == nil || *overallAvg != 4.0 {
		t.Fatalf("expected overall average 4.0, got %v", overallAvg)
	}
}

func TestComputeReportZeroOccurrences(t *testing.T) {
	students := []models.Student{{FullName: "Only"}}
	students[0].ID = 7

	rows, overallRate, overallAvg := computeReport(students, 0, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].AttendanceRate != 0 {
		t.Fatalf("expected zero rate with no occurrences, got %v", rows[0].AttendanceRate)
	}
	if rows[0].Missing != 0 {
		t.Fatalf("expected zero missing with no occurrences, got %d", rows[0].Missing)
	}
	if overallRate != 0 {
		t.Fatalf("expected zero overall rate, got %v", overallRate)
	}
	if overallAvg != nil {
		t.Fatalf("expected nil overall average, got %v", *overallAvg)
	}
}

func TestComputeReportMissingNeverNegative(t *testing.T) {
	students := []models.Student{{FullName: "Transfer"}}
	students[0].ID = 3

	// More records than occurrences can happen right after a template is
	// trimmed; missing must clamp at zero.
	records := []models.StudentRecord{
		{StudentID: 3, Status: models.StatusPresent},
		{StudentID: 3, Status: models.StatusPresent},
	}
	rows, _, _ := computeReport(students, 1, records)
	if rows[0].Missing != 0 {
		t.Fatalf("expected missing clamped to 0, got %d", rows[0].Missing)
	}
}
