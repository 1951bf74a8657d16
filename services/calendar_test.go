package services

import (
	"testing"
	"time"

	"unijournal_go/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdayIndex(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		exp  int
	}{
		{name: "monday", day: date(2025, 9, 1), exp: 0},
		{name: "wednesday", day: date(2025, 9, 3), exp: 2},
		{name: "saturday", day: date(2025, 9, 6), exp: 5},
		{name: "sunday", day: date(2025, 9, 7), exp: 6},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekdayIndex(tc.day); got != tc.exp {
				t.Fatalf("expected %d, got %d", tc.exp, got)
			}
		})
	}
}

func TestWeekIndex(t *testing.T) {
	start := date(2025, 9, 1) // Monday

	tests := []struct {
		name string
		day  time.Time
		exp  int
	}{
		{name: "semester start", day: date(2025, 9, 1), exp: 0},
		{name: "first sunday", day: date(2025, 9, 7), exp: 0},
		{name: "second monday", day: date(2025, 9, 8), exp: 1},
		{name: "third week", day: date(2025, 9, 17), exp: 2},
		{name: "day before start", day: date(2025, 8, 31), exp: -1},
		{name: "week before start", day: date(2025, 8, 25), exp: -1},
		{name: "two weeks before start", day: date(2025, 8, 18), exp: -2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekIndex(tc.day, start); got != tc.exp {
				t.Fatalf("expected %d, got %d", tc.exp, got)
			}
		})
	}
}

func TestWeekParity(t *testing.T) {
	if WeekParity(0) != models.WeekEven {
		t.Fatalf("week 0 should be even")
	}
	if WeekParity(1) != models.WeekOdd {
		t.Fatalf("week 1 should be odd")
	}
	if WeekParity(4) != models.WeekEven {
		t.Fatalf("week 4 should be even")
	}
}

func TestMatchesWeekType(t *testing.T) {
	tests := []struct {
		name     string
		weekType string
		week     int
		exp      bool
	}{
		{name: "both matches even week", weekType: models.WeekBoth, week: 0, exp: true},
		{name: "both matches odd week", weekType: models.WeekBoth, week: 3, exp: true},
		{name: "even matches week 0", weekType: models.WeekEven, week: 0, exp: true},
		{name: "even rejects week 1", weekType: models.WeekEven, week: 1, exp: false},
		{name: "odd matches week 1", weekType: models.WeekOdd, week: 1, exp: true},
		{name: "odd rejects week 2", weekType: models.WeekOdd, week: 2, exp: false},
		{name: "unknown type never matches", weekType: "fortnightly", week: 0, exp: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesWeekType(tc.weekType, tc.week); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestIsValidLessonTime(t *testing.T) {
	valid := []string{"09:00", "00:00", "23:59"}
	for _, v := range valid {
		if !IsValidLessonTime(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	invalid := []string{"24:00", "9am", "", "12:60"}
	for _, v := range invalid {
		if IsValidLessonTime(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}
