package controllers

import (
	"strings"
	"testing"

	"unijournal_go/services"
)

func TestReportCSV(t *testing.T) {
	avg := 4.5
	report := &services.GroupReport{
		Occurrences: 8,
		Students: []services.StudentReport{
			{FullName: "Plain Name", Attended: 6, AttendanceRate: 0.75, AverageGrade: &avg},
			{FullName: `Anna "Ann" Lee, Jr.`, Attended: 8, AttendanceRate: 1},
		},
	}

	body, err := reportCSV(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "student,attended,occurrences,attendance_rate,average_grade" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "Plain Name,6,8,0.75,4.50" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	// Embedded quotes must be doubled and the field quoted, not
	// backslash-escaped.
	if lines[2] != `"Anna ""Ann"" Lee, Jr.",8,8,1.00,` {
		t.Fatalf("unexpected quoted row: %q", lines[2])
	}
	if strings.Contains(body, `\"`) {
		t.Fatalf("backslash escaping leaked into CSV: %q", body)
	}
}
