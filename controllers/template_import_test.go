package controllers

import (
	"testing"

	"unijournal_go/models"
)

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		exp   string
	}{
		{name: "already normalized", input: "09:00", exp: "09:00"},
		{name: "single digit hour", input: "9:00", exp: "09:00"},
		{name: "with seconds", input: "09:00:00", exp: "09:00"},
		{name: "whitespace", input: " 10:45 ", exp: "10:45"},
		{name: "no colon passes through", input: "morning", exp: "morning"},
		{name: "non-numeric hour passes through", input: "ab:00", exp: "ab:00"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeClock(tc.input); got != tc.exp {
				t.Fatalf("expected %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestSplitGroupList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		exp   []string
	}{
		{name: "empty", input: "", exp: nil},
		{name: "single group", input: "CS-101", exp: []string{"CS-101"}},
		{name: "comma separated", input: "CS-101, CS-102", exp: []string{"CS-101", "CS-102"}},
		{name: "semicolon separated", input: "CS-101; CS-102", exp: []string{"CS-101", "CS-102"}},
		{name: "duplicates removed case insensitively", input: "CS-101, cs-101, CS-102", exp: []string{"CS-101", "CS-102"}},
		{name: "blank entries dropped", input: "CS-101,, ,CS-102", exp: []string{"CS-101", "CS-102"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := splitGroupList(tc.input)
			if len(got) != len(tc.exp) {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
			for i := range got {
				if got[i] != tc.exp[i] {
					t.Fatalf("expected %v, got %v", tc.exp, got)
				}
			}
		})
	}
}

func TestBuildTimetableColumnIndex(t *testing.T) {
	header := []string{"Subject", "Lecturer", "Group", "Room", "Type", "Weekday", "Start", "End", "Parity"}
	col := buildTimetableColumnIndex(header)

	expect := map[string]int{
		"discipline":  0,
		"teacher":     1,
		"groups":      2,
		"classroom":   3,
		"lesson type": 4,
		"day":         5,
		"time start":  6,
		"time end":    7,
		"week type":   8,
	}
	for key, idx := range expect {
		got, ok := col[key]
		if !ok {
			t.Fatalf("missing alias %q", key)
		}
		if got != idx {
			t.Fatalf("alias %q: expected column %d, got %d", key, idx, got)
		}
	}
}

func TestParseTimetableRow(t *testing.T) {
	header := []string{"Discipline", "Teacher", "Groups", "Classroom", "Lesson Type", "Day", "Time Start", "Time End", "Week Type"}
	col := buildTimetableColumnIndex(header)

	row := []string{"Physics", "A. S. Petrov", "CS-101, CS-102", "204", "Lecture", "Monday", "9:00", "10:30", ""}
	parsed, err := parseTimetableRow(row, col, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.DayOfWeek != models.Monday {
		t.Fatalf("expected Monday, got %d", parsed.DayOfWeek)
	}
	if parsed.TimeStart != "09:00" || parsed.TimeEnd != "10:30" {
		t.Fatalf("expected normalized times, got %s and %s", parsed.TimeStart, parsed.TimeEnd)
	}
	if parsed.WeekType != models.WeekBoth {
		t.Fatalf("expected week type to default to both, got %q", parsed.WeekType)
	}
	if parsed.LessonType != models.LessonLecture {
		t.Fatalf("expected lecture, got %q", parsed.LessonType)
	}
	if len(parsed.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", parsed.Groups)
	}

	bad := []struct {
		name string
		row  []string
	}{
		{name: "sunday rejected", row: []string{"Physics", "Petrov", "CS-101", "204", "lecture", "Sunday", "09:00", "10:30", "both"}},
		{name: "unknown lesson type", row: []string{"Physics", "Petrov", "CS-101", "204", "workshop", "Monday", "09:00", "10:30", "both"}},
		{name: "start not before end", row: []string{"Physics", "Petrov", "CS-101", "204", "lecture", "Monday", "10:30", "09:00", "both"}},
		{name: "missing groups", row: []string{"Physics", "Petrov", "", "204", "lecture", "Monday", "09:00", "10:30", "both"}},
		{name: "missing teacher", row: []string{"Physics", "", "CS-101", "204", "lecture", "Monday", "09:00", "10:30", "both"}},
	}
	for _, tc := range bad {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseTimetableRow(tc.row, col, 3); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
