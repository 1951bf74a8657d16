package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// Record statuses. Manual entry writes present/absent/excused; the
// scan services write auto_detected/fingerprint_detected.
const (
	StatusPresent             = "present"
	StatusAbsent              = "absent"
	StatusExcused             = "excused"
	StatusAutoDetected        = "auto_detected"
	StatusFingerprintDetected = "fingerprint_detected"
)

// Week types for bi-weekly alternation
const (
	WeekEven = "even"
	WeekOdd  = "odd"
	WeekBoth = "both"
)

// Lesson types
const (
	LessonLecture = "lecture"
	LessonSeminar = "seminar"
	LessonLab     = "lab"
)

// Weekday indices stored on templates: Monday=0 .. Sunday=6.
// Sunday is reserved as non-instructional.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// IsPresentEquivalent reports whether a record status counts as attended,
// regardless of which source produced it.
func IsPresentEquivalent(status string) bool {
	switch status {
	case StatusPresent, StatusAutoDetected, StatusFingerprintDetected:
		return true
	}
	return false
}

// User model (administrators and teachers)
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	FullName string `json:"full_name" gorm:"size:200;not null"`
	Role     string `json:"role" gorm:"size:50;not null;default:'teacher';type:enum('admin','teacher')"` // admin, teacher

	// Relationships
	Disciplines []TeacherDiscipline `json:"disciplines,omitempty" gorm:"foreignKey:TeacherID"`
}

// Student model
type Student struct {
	BaseModel
	FullName string `json:"full_name" gorm:"size:200;not null;index"`
	GroupID  uint   `json:"group_id" gorm:"not null;index"`
	// Identification material captured by the external detectors. The
	// journal only stores it; matching happens outside this service.
	FaceEncoding        JSON   `json:"face_encoding,omitempty" gorm:"type:json"`
	FacePhotoURL        string `json:"face_photo_url,omitempty" gorm:"size:500"`
	FingerprintTemplate string `json:"fingerprint_template,omitempty" gorm:"type:text"`

	// Relationships
	Group   Group           `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Records []StudentRecord `json:"records,omitempty" gorm:"foreignKey:StudentID"`
}

// Group model (academic student group)
type Group struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`

	// Relationships
	Students  []Student          `json:"students,omitempty" gorm:"foreignKey:GroupID"`
	Templates []ScheduleTemplate `json:"templates,omitempty" gorm:"many2many:template_groups"`
}

// Discipline model
type Discipline struct {
	BaseModel
	Name string `json:"name" gorm:"size:255;not null;uniqueIndex"`

	// Relationships
	Templates []ScheduleTemplate  `json:"templates,omitempty" gorm:"foreignKey:DisciplineID"`
	Teachers  []TeacherDiscipline `json:"teachers,omitempty" gorm:"foreignKey:DisciplineID"`
}

// TeacherDiscipline links teachers to the disciplines they give
type TeacherDiscipline struct {
	BaseModel
	TeacherID    uint `json:"teacher_id" gorm:"not null;index"`
	DisciplineID uint `json:"discipline_id" gorm:"not null;index"`

	// Relationships
	Teacher    User       `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Discipline Discipline `json:"discipline,omitempty" gorm:"foreignKey:DisciplineID"`
}

// Semester model. At most one semester is active at a time; activating
// one deactivates the rest.
type Semester struct {
	BaseModel
	Name      string    `json:"name" gorm:"size:100;not null"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:false;index"`

	// Relationships
	Templates []ScheduleTemplate `json:"templates,omitempty" gorm:"foreignKey:SemesterID"`
	Instances []ScheduleInstance `json:"instances,omitempty" gorm:"foreignKey:SemesterID"`
}

// ScheduleTemplate is a recurring weekly lesson definition. Its weekday,
// times and week type form the recurrence rule expanded by the instance
// generator.
type ScheduleTemplate struct {
	BaseModel
	SemesterID   uint   `json:"semester_id" gorm:"not null;index"`
	DisciplineID uint   `json:"discipline_id" gorm:"not null;index"`
	TeacherID    uint   `json:"teacher_id" gorm:"not null;index"`
	Classroom    string `json:"classroom" gorm:"size:50;not null;index"`
	LessonType   string `json:"lesson_type" gorm:"size:50;not null;type:enum('lecture','seminar','lab')"`
	DayOfWeek    int    `json:"day_of_week" gorm:"not null"`       // Monday=0 .. Sunday=6
	TimeStart    string `json:"time_start" gorm:"size:5;not null"` // "HH:MM"
	TimeEnd      string `json:"time_end" gorm:"size:5;not null"`
	WeekType     string `json:"week_type" gorm:"size:10;not null;default:'both';type:enum('even','odd','both')"`
	IsStream     bool   `json:"is_stream" gorm:"default:false"`

	// Relationships
	Semester   Semester           `json:"semester,omitempty" gorm:"foreignKey:SemesterID"`
	Discipline Discipline         `json:"discipline,omitempty" gorm:"foreignKey:DisciplineID"`
	Teacher    User               `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Groups     []Group            `json:"groups,omitempty" gorm:"many2many:template_groups"`
	Instances  []ScheduleInstance `json:"instances,omitempty" gorm:"foreignKey:TemplateID"`
}

// ScheduleInstance is one concrete dated meeting of a template. The
// (template_id, date) pair is unique so repeated generation over
// overlapping ranges cannot duplicate lessons.
type ScheduleInstance struct {
	BaseModel
	TemplateID uint      `json:"template_id" gorm:"not null;uniqueIndex:idx_template_date"`
	SemesterID uint      `json:"semester_id" gorm:"not null;index"`
	Date       time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_template_date;index"`
	// Per-date overrides; when empty/nil the template values apply.
	Classroom   string `json:"classroom,omitempty" gorm:"size:50"`
	TeacherID   *uint  `json:"teacher_id,omitempty"`
	IsCancelled bool   `json:"is_cancelled" gorm:"default:false"`

	// Relationships
	Template ScheduleTemplate `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
	Semester Semester         `json:"semester,omitempty" gorm:"foreignKey:SemesterID"`
	Teacher  *User            `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Records  []StudentRecord  `json:"records,omitempty" gorm:"foreignKey:ScheduleInstanceID"`
}

// EffectiveClassroom returns the instance override if set, else the
// template classroom. Template must be preloaded.
func (si *ScheduleInstance) EffectiveClassroom() string {
	if si.Classroom != "" {
		return si.Classroom
	}
	return si.Template.Classroom
}

// EffectiveTeacherID returns the overriding teacher if set, else the
// template's teacher.
func (si *ScheduleInstance) EffectiveTeacherID() uint {
	if si.TeacherID != nil {
		return *si.TeacherID
	}
	return si.Template.TeacherID
}

// StudentRecord is one student's attendance/grade outcome for one
// instance. The (student_id, schedule_instance_id) pair is unique; a
// missing row means "not yet marked", which is distinct from absent.
type StudentRecord struct {
	BaseModel
	StudentID          uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_student_instance"`
	ScheduleInstanceID uint   `json:"schedule_instance_id" gorm:"not null;uniqueIndex:idx_student_instance"`
	Status             string `json:"status" gorm:"size:50;not null;type:enum('present','absent','excused','auto_detected','fingerprint_detected')"`
	Grade              *int   `json:"grade,omitempty"`

	// Relationships
	Student          Student          `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	ScheduleInstance ScheduleInstance `json:"schedule_instance,omitempty" gorm:"foreignKey:ScheduleInstanceID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
