package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"unijournal_go/database"
	"unijournal_go/models"
)

// Students may check in up to this long before the scheduled start.
const admissionWindow = 15 * time.Minute

func parseHourMinute(value string) (int, int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, fmt.Errorf("time value cannot be empty")
	}

	layout := "15:04"
	if colonCount := strings.Count(value, ":"); colonCount >= 2 {
		layout = "15:04:05"
	}

	if t, err := time.Parse(layout, value); err == nil {
		return t.Hour(), t.Minute(), nil
	} else {
		fallbackLayouts := []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			"2006-01-02 15:04",
			"2006-01-02T15:04",
		}

		for _, layout := range fallbackLayouts {
			if parsed, altErr := time.Parse(layout, value); altErr == nil {
				return parsed.Hour(), parsed.Minute(), nil
			}
		}

		timePattern := regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`)
		if match := timePattern.FindString(value); match != "" && match != value {
			return parseHourMinute(match)
		}

		return 0, 0, fmt.Errorf("invalid time format %q: %w", value, err)
	}
}

// timeOnDate combines a template "HH:MM" string with a calendar date.
func timeOnDate(hhmm string, date time.Time) (time.Time, error) {
	hour, minute, err := parseHourMinute(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// withinAdmissionWindow reports whether at falls inside
// [start - admissionWindow, end] of a lesson held on at's date.
func withinAdmissionWindow(timeStart, timeEnd string, at time.Time) bool {
	start, err := timeOnDate(timeStart, at)
	if err != nil {
		return false
	}
	end, err := timeOnDate(timeEnd, at)
	if err != nil {
		return false
	}
	opens := start.Add(-admissionWindow)
	return !at.Before(opens) && !at.After(end)
}

// beforeAdmissionWindow reports whether the lesson's admission window has
// not yet opened at the given moment.
func beforeAdmissionWindow(timeStart string, at time.Time) bool {
	start, err := timeOnDate(timeStart, at)
	if err != nil {
		return false
	}
	return !at.After(start.Add(-admissionWindow))
}

// pickActiveInstance returns the first of today's instances (ordered by
// template start time) whose admission window contains at. Instances must
// have their templates preloaded.
func pickActiveInstance(instances []models.ScheduleInstance, at time.Time) *models.ScheduleInstance {
	for i := range instances {
		inst := &instances[i]
		if inst.IsCancelled {
			continue
		}
		if withinAdmissionWindow(inst.Template.TimeStart, inst.Template.TimeEnd, at) {
			return inst
		}
	}
	return nil
}

// FindCurrentOrNextLesson locates the lesson a check-in at the given room
// and moment should count against:
//
//  1. an instance already running in the room (within its admission
//     window), or failing that
//  2. the next upcoming lesson in the room today whose admission window
//     has not yet opened, provided its instance exists and is not
//     cancelled.
//
// A nil result with nil error means no admission window is open; that is
// a valid outcome, not a failure. Sundays never hold lessons. The locator
// never mutates state.
func FindCurrentOrNextLesson(classroom string, at time.Time) (*models.ScheduleInstance, error) {
	today := DateOnly(at)
	weekday := WeekdayIndex(at)

	if weekday == models.Sunday {
		return nil, nil
	}

	semester, err := GetActiveSemester()
	if err != nil {
		return nil, err
	}
	weekIndex := WeekIndex(today, semester.StartDate)

	// Branch 1: an instance scheduled in this room today, by its own
	// classroom override or inherited from its template.
	var instances []models.ScheduleInstance
	err = database.DB.
		Joins("JOIN schedule_templates ON schedule_templates.id = schedule_instances.template_id").
		Where("schedule_instances.date = ? AND schedule_instances.is_cancelled = ?", today, false).
		Where("schedule_instances.classroom = ? OR ((schedule_instances.classroom = '' OR schedule_instances.classroom IS NULL) AND schedule_templates.classroom = ?)", classroom, classroom).
		Order("schedule_templates.time_start ASC").
		Preload("Template").
		Preload("Template.Discipline").
		Preload("Template.Teacher").
		Preload("Template.Groups").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}

	if active := pickActiveInstance(instances, at); active != nil {
		return active, nil
	}

	// Branch 2: the next lesson in this room today, in start-time order.
	var templates []models.ScheduleTemplate
	err = database.DB.
		Where("classroom = ? AND day_of_week = ?", classroom, weekday).
		Where("week_type = ? OR week_type = ?", models.WeekBoth, WeekParity(weekIndex)).
		Order("time_start ASC").
		Preload("Groups").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}

	for i := range templates {
		tpl := &templates[i]
		if !beforeAdmissionWindow(tpl.TimeStart, at) {
			continue
		}

		var instance models.ScheduleInstance
		err := database.DB.
			Where("template_id = ? AND date = ?", tpl.ID, today).
			Preload("Template").
			Preload("Template.Discipline").
			Preload("Template.Teacher").
			Preload("Template.Groups").
			First(&instance).Error
		if err != nil {
			continue
		}
		if instance.IsCancelled {
			continue
		}
		return &instance, nil
	}

	return nil, nil
}
