package services

import (
	"errors"
	"fmt"
	"time"

	"unijournal_go/database"
	"unijournal_go/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// templateDatesInRange expands one template's recurrence rule over the
// closed range [from, to]: every date whose weekday and semester-week
// parity match the template. Pure; the caller handles persistence.
func templateDatesInRange(tpl models.ScheduleTemplate, semesterStart, from, to time.Time) []time.Time {
	var dates []time.Time
	current := DateOnly(from)
	last := DateOnly(to)

	for !current.After(last) {
		if WeekdayIndex(current) == tpl.DayOfWeek && MatchesWeekType(tpl.WeekType, WeekIndex(current, semesterStart)) {
			dates = append(dates, current)
		}
		current = current.AddDate(0, 0, 1)
	}

	return dates
}

// GenerateInstances expands every template of the semester into concrete
// dated instances over [from, to], both inclusive. Existing instances are
// left untouched, including cancellation state and per-date overrides, so
// repeated calls over overlapping ranges are idempotent. Returns the
// number of newly created instances.
func GenerateInstances(semester *models.Semester, from, to time.Time) (int, error) {
	if DateOnly(from).After(DateOnly(to)) {
		return 0, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var templates []models.ScheduleTemplate
	if err := database.DB.Where("semester_id = ?", semester.ID).Find(&templates).Error; err != nil {
		return 0, err
	}

	created := 0
	for _, tpl := range templates {
		for _, date := range templateDatesInRange(tpl, semester.StartDate, from, to) {
			instance := models.ScheduleInstance{
				TemplateID:  tpl.ID,
				SemesterID:  semester.ID,
				Date:        date,
				IsCancelled: false,
			}
			// Concurrent generators racing on the same range collide on
			// the (template_id, date) unique index; the loser's insert
			// becomes a no-op instead of a duplicate.
			res := database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&instance)
			if res.Error != nil {
				if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
					continue
				}
				return created, res.Error
			}
			created += int(res.RowsAffected)
		}
	}

	logrus.WithFields(logrus.Fields{
		"semester_id": semester.ID,
		"from":        from.Format("2006-01-02"),
		"to":          to.Format("2006-01-02"),
		"created":     created,
	}).Info("Generated schedule instances")

	return created, nil
}

// GenerateForActiveSemester generates instances from today through the
// active semester's end date. Used by the admin endpoint and the daily
// scheduler.
func GenerateForActiveSemester() (int, error) {
	semester, err := GetActiveSemester()
	if err != nil {
		return 0, err
	}

	today := DateOnly(time.Now())
	if today.After(DateOnly(semester.EndDate)) {
		return 0, nil
	}
	from := today
	if DateOnly(semester.StartDate).After(from) {
		from = DateOnly(semester.StartDate)
	}

	return GenerateInstances(semester, from, semester.EndDate)
}

// RegenerateFutureInstances drops every instance of the semester dated
// today or later and rebuilds them from the current templates. Past
// instances are never touched: they may already carry student records, so
// the deletion predicate is bounded to today-or-later before anything runs.
func RegenerateFutureInstances(semester *models.Semester) (int, error) {
	today := DateOnly(time.Now())

	err := database.DB.Unscoped().
		Where("semester_id = ? AND date >= ?", semester.ID, today).
		Delete(&models.ScheduleInstance{}).Error
	if err != nil {
		return 0, err
	}

	if today.After(DateOnly(semester.EndDate)) {
		return 0, nil
	}
	from := today
	if DateOnly(semester.StartDate).After(from) {
		from = DateOnly(semester.StartDate)
	}

	return GenerateInstances(semester, from, semester.EndDate)
}

// GetActiveSemester returns the single semester flagged active.
func GetActiveSemester() (*models.Semester, error) {
	var semester models.Semester
	if err := database.DB.Where("is_active = ?", true).First(&semester).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSemester
		}
		return nil, err
	}
	return &semester, nil
}
