package services

import (
	"testing"
	"time"

	"unijournal_go/models"
)

func TestParseHourMinute(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expHour   int
		expMinute int
	}{
		{name: "plain HH:MM", input: "08:30", expHour: 8, expMinute: 30},
		{name: "HH:MM:SS", input: "09:15:00", expHour: 9, expMinute: 15},
		{name: "surrounding whitespace", input: " 10:45 ", expHour: 10, expMinute: 45},
		{name: "iso datetime", input: "2025-09-01T13:30:00Z", expHour: 13, expMinute: 30},
		{name: "mysql datetime", input: "2025-09-01 14:00:00", expHour: 14, expMinute: 0},
		{name: "midnight", input: "00:00", expHour: 0, expMinute: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			hour, minute, err := parseHourMinute(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hour != tc.expHour || minute != tc.expMinute {
				t.Fatalf("expected %02d:%02d, got %02d:%02d", tc.expHour, tc.expMinute, hour, minute)
			}
		})
	}
}

func TestParseHourMinuteInvalid(t *testing.T) {
	invalid := []string{"", "lesson", "25:00", "12:99"}
	for _, input := range invalid {
		if _, _, err := parseHourMinute(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestTimeOnDate(t *testing.T) {
	day := date(2025, 9, 3)
	got, err := timeOnDate("10:45", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := time.Date(2025, 9, 3, 10, 45, 0, 0, time.UTC)
	if !got.Equal(exp) {
		t.Fatalf("expected %s, got %s", exp, got)
	}
}

func TestWithinAdmissionWindow(t *testing.T) {
	// Lesson 09:00 to 10:30; the window opens at 08:45.
	at := func(h, m int) time.Time {
		return time.Date(2025, 9, 3, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		at   time.Time
		exp  bool
	}{
		{name: "well before window", at: at(8, 30), exp: false},
		{name: "window opens", at: at(8, 45), exp: true},
		{name: "lesson start", at: at(9, 0), exp: true},
		{name: "mid lesson", at: at(9, 50), exp: true},
		{name: "lesson end", at: at(10, 30), exp: true},
		{name: "after lesson end", at: at(10, 31), exp: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := withinAdmissionWindow("09:00", "10:30", tc.at); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestBeforeAdmissionWindow(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 9, 3, h, m, 0, 0, time.UTC)
	}

	if !beforeAdmissionWindow("09:00", at(8, 30)) {
		t.Fatalf("08:30 should be before the 08:45 window opening")
	}
	if !beforeAdmissionWindow("09:00", at(8, 45)) {
		t.Fatalf("08:45 is the opening moment and still counts as before")
	}
	if beforeAdmissionWindow("09:00", at(8, 46)) {
		t.Fatalf("08:46 is inside the window")
	}
	if beforeAdmissionWindow("bad", at(8, 0)) {
		t.Fatalf("unparseable start time should not report before")
	}
}

func TestPickActiveInstance(t *testing.T) {
	at := time.Date(2025, 9, 3, 9, 10, 0, 0, time.UTC)

	instances := []models.ScheduleInstance{
		{
			IsCancelled: true,
			Template:    models.ScheduleTemplate{TimeStart: "09:00", TimeEnd: "10:30"},
		},
		{
			IsCancelled: false,
			Template:    models.ScheduleTemplate{TimeStart: "09:00", TimeEnd: "10:30"},
		},
		{
			IsCancelled: false,
			Template:    models.ScheduleTemplate{TimeStart: "10:45", TimeEnd: "12:15"},
		},
	}

	got := pickActiveInstance(instances, at)
	if got == nil {
		t.Fatalf("expected an active instance")
	}
	if got != &instances[1] {
		t.Fatalf("expected the first non-cancelled running instance")
	}

	// Outside every window nothing is active.
	late := time.Date(2025, 9, 3, 13, 0, 0, 0, time.UTC)
	if pickActiveInstance(instances, late) != nil {
		t.Fatalf("expected no active instance at %s", late)
	}
}
