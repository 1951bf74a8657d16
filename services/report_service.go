package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"unijournal_go/database"
	"unijournal_go/models"

	"gorm.io/gorm"
)

// StudentReport is one student's row of an attendance/grade report.
// Missing counts occurrences no source ever recorded; it is tracked
// separately from absences because "not yet marked" is not "absent".
type StudentReport struct {
	StudentID      uint     `json:"student_id"`
	FullName       string   `json:"full_name"`
	Attended       int      `json:"attended"`
	Absent         int      `json:"absent"`
	Excused        int      `json:"excused"`
	Missing        int      `json:"missing"`
	AttendanceRate float64  `json:"attendance_rate"`
	AverageGrade   *float64 `json:"average_grade"`
}

// GroupReport aggregates one group's journal over a date range.
type GroupReport struct {
	GroupID        uint            `json:"group_id"`
	GroupName      string          `json:"group_name"`
	DisciplineID   *uint           `json:"discipline_id,omitempty"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	Occurrences    int             `json:"occurrences"`
	Students       []StudentReport `json:"students"`
	AttendanceRate float64         `json:"attendance_rate"`
	AverageGrade   *float64        `json:"average_grade"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// computeReport builds per-student rows and group totals from a roster,
// the number of held occurrences and the records covering them. Pure;
// zero occurrences yield a zero rate and a nil average, never NaN.
func computeReport(students []models.Student, occurrences int, records []models.StudentRecord) ([]StudentReport, float64, *float64) {
	byStudent := make(map[uint][]models.StudentRecord)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	rows := make([]StudentReport, 0, len(students))
	totalAttended := 0
	gradeSum := 0
	gradeCount := 0

	for _, student := range students {
		row := StudentReport{StudentID: student.ID, FullName: student.FullName}
		sum := 0
		count := 0
		for _, r := range byStudent[student.ID] {
			switch {
			case models.IsPresentEquivalent(r.Status):
				row.Attended++
			case r.Status == models.StatusAbsent:
				row.Absent++
			case r.Status == models.StatusExcused:
				row.Excused++
			}
			if r.Grade != nil {
				sum += *r.Grade
				count++
			}
		}
		row.Missing = occurrences - row.Attended - row.Absent - row.Excused
		if row.Missing < 0 {
			row.Missing = 0
		}
		if occurrences > 0 {
			row.AttendanceRate = round2(float64(row.Attended) / float64(occurrences))
		}
		if count > 0 {
			avg := round2(float64(sum) / float64(count))
			row.AverageGrade = &avg
		}
		totalAttended += row.Attended
		gradeSum += sum
		gradeCount += count
		rows = append(rows, row)
	}

	var overallRate float64
	if occurrences > 0 && len(students) > 0 {
		overallRate = round2(float64(totalAttended) / float64(occurrences*len(students)))
	}
	var overallAvg *float64
	if gradeCount > 0 {
		avg := round2(float64(gradeSum) / float64(gradeCount))
		overallAvg = &avg
	}

	return rows, overallRate, overallAvg
}

// AggregateReport builds the attendance/grade report for one group over
// [from, to], both inclusive, optionally narrowed to one discipline.
// Only non-cancelled instances of templates teaching the group count as
// occurrences.
func AggregateReport(groupID uint, from, to time.Time, disciplineID *uint) (*GroupReport, error) {
	if DateOnly(from).After(DateOnly(to)) {
		return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var group models.Group
	if err := database.DB.Preload("Students").First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
		}
		return nil, err
	}

	query := database.DB.Model(&models.ScheduleInstance{}).
		Joins("JOIN schedule_templates ON schedule_templates.id = schedule_instances.template_id").
		Joins("JOIN template_groups ON template_groups.schedule_template_id = schedule_templates.id").
		Where("template_groups.group_id = ?", groupID).
		Where("schedule_instances.date BETWEEN ? AND ?", DateOnly(from), DateOnly(to)).
		Where("schedule_instances.is_cancelled = ?", false)
	if disciplineID != nil {
		query = query.Where("schedule_templates.discipline_id = ?", *disciplineID)
	}

	var instanceIDs []uint
	if err := query.Pluck("schedule_instances.id", &instanceIDs).Error; err != nil {
		return nil, err
	}

	var records []models.StudentRecord
	if len(instanceIDs) > 0 {
		if err := database.DB.Where("schedule_instance_id IN ?", instanceIDs).Find(&records).Error; err != nil {
			return nil, err
		}
	}

	rows, overallRate, overallAvg := computeReport(group.Students, len(instanceIDs), records)

	return &GroupReport{
		GroupID:        group.ID,
		GroupName:      group.Name,
		DisciplineID:   disciplineID,
		From:           DateOnly(from).Format("2006-01-02"),
		To:             DateOnly(to).Format("2006-01-02"),
		Occurrences:    len(instanceIDs),
		Students:       rows,
		AttendanceRate: overallRate,
		AverageGrade:   overallAvg,
	}, nil
}
