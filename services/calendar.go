package services

import (
	"time"

	"unijournal_go/models"
)

// DateOnly truncates a timestamp to its calendar date. Dates are kept in
// UTC at midnight so week arithmetic is immune to DST shifts.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// IsValidLessonTime reports whether a template time field is a proper
// "HH:MM" value.
func IsValidLessonTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}

// WeekdayIndex converts Go's Sunday-based weekday to the Monday=0..Sunday=6
// convention stored on schedule templates.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekIndex returns the zero-based semester week number of date. Dates
// before the semester start yield negative indices.
func WeekIndex(date, semesterStart time.Time) int {
	days := int(DateOnly(date).Sub(DateOnly(semesterStart)).Hours() / 24)
	if days < 0 {
		return (days - 6) / 7
	}
	return days / 7
}

// WeekParity classifies a week index as even or odd.
func WeekParity(weekIndex int) string {
	if weekIndex%2 == 0 {
		return models.WeekEven
	}
	return models.WeekOdd
}

// MatchesWeekType reports whether a template's week type applies to the
// given semester week. "both" matches every week.
func MatchesWeekType(weekType string, weekIndex int) bool {
	switch weekType {
	case models.WeekBoth:
		return true
	case models.WeekEven, models.WeekOdd:
		return weekType == WeekParity(weekIndex)
	}
	return false
}
