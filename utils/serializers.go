package utils

import (
	"time"

	"unijournal_go/models"
)

// Compact representations used across APIs
type UserShort struct {
	ID       uint   `json:"id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

type GroupShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DisciplineShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TemplateDTO struct {
	ID         uint            `json:"id"`
	SemesterID uint            `json:"semester_id"`
	Discipline DisciplineShort `json:"discipline"`
	Teacher    UserShort       `json:"teacher"`
	Classroom  string          `json:"classroom"`
	LessonType string          `json:"lesson_type"`
	DayOfWeek  int             `json:"day_of_week"`
	TimeStart  string          `json:"time_start"`
	TimeEnd    string          `json:"time_end"`
	WeekType   string          `json:"week_type"`
	IsStream   bool            `json:"is_stream"`
	Groups     []GroupShort    `json:"groups"`
}

// InstanceDTO flattens one dated lesson with its overrides resolved: the
// classroom and teacher shown are the effective ones, and can_edit
// reflects the grading window (date strictly past, not cancelled).
type InstanceDTO struct {
	ID          uint            `json:"id"`
	TemplateID  uint            `json:"template_id"`
	Date        string          `json:"date"`
	TimeStart   string          `json:"time_start"`
	TimeEnd     string          `json:"time_end"`
	Discipline  DisciplineShort `json:"discipline"`
	LessonType  string          `json:"lesson_type"`
	Classroom   string          `json:"classroom"`
	Teacher     UserShort       `json:"teacher"`
	Groups      []GroupShort    `json:"groups"`
	WeekType    string          `json:"week_type"`
	IsCancelled bool            `json:"is_cancelled"`
	CanEdit     bool            `json:"can_edit"`
}

type RecordDTO struct {
	ID                 uint      `json:"id,omitempty"`
	StudentID          uint      `json:"student_id"`
	StudentName        string    `json:"student_name"`
	ScheduleInstanceID uint      `json:"schedule_instance_id"`
	Status             string    `json:"status,omitempty"`
	Grade              *int      `json:"grade,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}

type NotificationDTO struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    uint       `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

func ToUserShort(u models.User) UserShort {
	return UserShort{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

func ToGroupShorts(groups []models.Group) []GroupShort {
	out := make([]GroupShort, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupShort{ID: g.ID, Name: g.Name})
	}
	return out
}

// ToTemplateDTO maps a template. Caller preloads Discipline, Teacher, Groups.
func ToTemplateDTO(t models.ScheduleTemplate) TemplateDTO {
	return TemplateDTO{
		ID:         t.ID,
		SemesterID: t.SemesterID,
		Discipline: DisciplineShort{ID: t.Discipline.ID, Name: t.Discipline.Name},
		Teacher:    ToUserShort(t.Teacher),
		Classroom:  t.Classroom,
		LessonType: t.LessonType,
		DayOfWeek:  t.DayOfWeek,
		TimeStart:  t.TimeStart,
		TimeEnd:    t.TimeEnd,
		WeekType:   t.WeekType,
		IsStream:   t.IsStream,
		Groups:     ToGroupShorts(t.Groups),
	}
}

// ToInstanceDTO maps an instance with overrides resolved. Caller preloads
// Template, Template.Discipline, Template.Teacher, Template.Groups and,
// when a teacher override is set, Teacher.
func ToInstanceDTO(i models.ScheduleInstance) InstanceDTO {
	teacher := ToUserShort(i.Template.Teacher)
	if i.TeacherID != nil && i.Teacher != nil {
		teacher = ToUserShort(*i.Teacher)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	date := time.Date(i.Date.Year(), i.Date.Month(), i.Date.Day(), 0, 0, 0, 0, time.UTC)

	return InstanceDTO{
		ID:          i.ID,
		TemplateID:  i.TemplateID,
		Date:        date.Format("2006-01-02"),
		TimeStart:   i.Template.TimeStart,
		TimeEnd:     i.Template.TimeEnd,
		Discipline:  DisciplineShort{ID: i.Template.Discipline.ID, Name: i.Template.Discipline.Name},
		LessonType:  i.Template.LessonType,
		Classroom:   i.EffectiveClassroom(),
		Teacher:     teacher,
		Groups:      ToGroupShorts(i.Template.Groups),
		WeekType:    i.Template.WeekType,
		IsCancelled: i.IsCancelled,
		CanEdit:     !i.IsCancelled && date.Before(today),
	}
}

// ToRecordDTO maps a record. Caller preloads Student.
func ToRecordDTO(r models.StudentRecord) RecordDTO {
	return RecordDTO{
		ID:                 r.ID,
		StudentID:          r.StudentID,
		StudentName:        r.Student.FullName,
		ScheduleInstanceID: r.ScheduleInstanceID,
		Status:             r.Status,
		Grade:              r.Grade,
		UpdatedAt:          r.UpdatedAt,
	}
}

func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
	}
}
