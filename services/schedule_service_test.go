package services

import (
	"testing"
	"time"

	"unijournal_go/models"
)

func TestTemplateDatesInRange(t *testing.T) {
	// Semester starts Monday 2025-09-01, so week 0 (even) runs through
	// 2025-09-07 and week 1 (odd) through 2025-09-14.
	start := date(2025, 9, 1)

	tests := []struct {
		name string
		tpl  models.ScheduleTemplate
		from time.Time
		to   time.Time
		exp  []time.Time
	}{
		{
			name: "weekly monday over four weeks",
			tpl:  models.ScheduleTemplate{DayOfWeek: models.Monday, WeekType: models.WeekBoth},
			from: date(2025, 9, 1),
			to:   date(2025, 9, 28),
			exp:  []time.Time{date(2025, 9, 1), date(2025, 9, 8), date(2025, 9, 15), date(2025, 9, 22)},
		},
		{
			name: "even weeks only",
			tpl:  models.ScheduleTemplate{DayOfWeek: models.Tuesday, WeekType: models.WeekEven},
			from: date(2025, 9, 1),
			to:   date(2025, 9, 28),
			exp:  []time.Time{date(2025, 9, 2), date(2025, 9, 16)},
		},
		{
			name: "odd weeks only",
			tpl:  models.ScheduleTemplate{DayOfWeek: models.Tuesday, WeekType: models.WeekOdd},
			from: date(2025, 9, 1),
			to:   date(2025, 9, 28),
			exp:  []time.Time{date(2025, 9, 9), date(2025, 9, 23)},
		},
		{
			name: "range endpoints are inclusive",
			tpl:  models.ScheduleTemplate{DayOfWeek: models.Monday, WeekType: models.WeekBoth},
			from: date(2025, 9, 8),
			to:   date(2025, 9, 15),
			exp:  []time.Time{date(2025, 9, 8), date(2025, 9, 15)},
		},
		{
			name: "no matching weekday in range",
			tpl:  models.ScheduleTemplate{DayOfWeek: models.Friday, WeekType: models.WeekBoth},
			from: date(2025, 9, 1),
			to:   date(2025, 9, 4),
			exp:  nil,
		},
		{
			name: "time of day on from is truncated",
			tpl:  models.ScheduleTemplate{DayOfWeek: models.Monday, WeekType: models.WeekBoth},
			from: time.Date(2025, 9, 1, 18, 30, 0, 0, time.UTC),
			to:   date(2025, 9, 1),
			exp:  []time.Time{date(2025, 9, 1)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := templateDatesInRange(tc.tpl, start, tc.from, tc.to)
			if len(got) != len(tc.exp) {
				t.Fatalf("expected %d dates, got %d (%v)", len(tc.exp), len(got), got)
			}
			for i := range got {
				if !got[i].Equal(tc.exp[i]) {
					t.Fatalf("date %d: expected %s, got %s", i, tc.exp[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
				}
			}
		})
	}
}
