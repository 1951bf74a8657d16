package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"unijournal_go/database"
	"unijournal_go/models"
	"unijournal_go/services/notifications"
)

// NotificationScheduler produces the journal's automatic notifications:
// upcoming-lesson reminders, morning schedule digests and unmarked-lesson
// alerts for teachers.
type NotificationScheduler struct {
	db *gorm.DB
}

func NewNotificationScheduler() *NotificationScheduler {
	return &NotificationScheduler{
		db: database.DB,
	}
}

// CheckUpcomingLessons notifies teachers about lessons starting soon.
// Called every 15 minutes by the schedule manager.
func (ns *NotificationScheduler) CheckUpcomingLessons() {
	now := time.Now()
	today := DateOnly(now)

	notificationTimes := []struct {
		minutes int
		label   string
	}{
		{30, "30 minutes"},
		{60, "1 hour"},
	}

	var instances []models.ScheduleInstance
	err := ns.db.Where("date = ? AND is_cancelled = ?", today, false).
		Preload("Template").
		Preload("Template.Discipline").
		Find(&instances).Error
	if err != nil {
		fmt.Printf("Error checking upcoming lessons: %v\n", err)
		return
	}

	svc := notifications.NewService()

	for _, notifTime := range notificationTimes {
		targetTime := now.Add(time.Duration(notifTime.minutes) * time.Minute)
		startRange := targetTime.Add(-5 * time.Minute)
		endRange := targetTime.Add(5 * time.Minute)

		for i := range instances {
			instance := &instances[i]
			start, err := timeOnDate(instance.Template.TimeStart, now)
			if err != nil || start.Before(startRange) || start.After(endRange) {
				continue
			}
			if ns.hasReminderBeenSent(instance.EffectiveTeacherID(), instance.ID, notifTime.minutes) {
				continue
			}

			message := fmt.Sprintf("Your %s lesson in %s (%s) starts in %s at %s",
				instance.Template.Discipline.Name,
				instance.EffectiveClassroom(),
				instance.Template.LessonType,
				notifTime.label,
				instance.Template.TimeStart)
			n := notifications.Queued("Upcoming Lesson", message, "info")
			if err := svc.EnqueueOrCreate([]uint{instance.EffectiveTeacherID()}, n); err != nil {
				fmt.Printf("Error creating reminder for instance %d: %v\n", instance.ID, err)
			}
		}
	}
}

// hasReminderBeenSent guards against duplicate reminders when the ticker
// fires more than once inside the ±5 minute match window.
func (ns *NotificationScheduler) hasReminderBeenSent(teacherID, instanceID uint, minutes int) bool {
	var count int64
	err := ns.db.Model(&models.Notification{}).
		Where("user_id = ? AND message LIKE ? AND created_at > ?",
			teacherID,
			fmt.Sprintf("%%starts in %d minutes%%", minutes),
			time.Now().Add(-2*time.Hour)).
		Count(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}

// SendDailyScheduleReminder sends each teacher a digest of today's
// lessons. Called by the morning cron job.
func (ns *NotificationScheduler) SendDailyScheduleReminder() {
	today := DateOnly(time.Now())

	var instances []models.ScheduleInstance
	err := ns.db.Where("date = ? AND is_cancelled = ?", today, false).
		Preload("Template").
		Preload("Template.Discipline").
		Find(&instances).Error
	if err != nil {
		fmt.Printf("Error fetching today's lessons: %v\n", err)
		return
	}
	if len(instances) == 0 {
		return
	}

	byTeacher := make(map[uint][]models.ScheduleInstance)
	for _, instance := range instances {
		teacherID := instance.EffectiveTeacherID()
		byTeacher[teacherID] = append(byTeacher[teacherID], instance)
	}

	svc := notifications.NewService()
	for teacherID, lessons := range byTeacher {
		message := "Today's lessons:\n"
		for _, lesson := range lessons {
			message += fmt.Sprintf("- %s (%s) at %s in %s\n",
				lesson.Template.Discipline.Name,
				lesson.Template.LessonType,
				lesson.Template.TimeStart,
				lesson.EffectiveClassroom())
		}
		n := notifications.Queued("Daily Schedule", message, "info")
		if err := svc.EnqueueOrCreate([]uint{teacherID}, n); err != nil {
			fmt.Printf("Error creating daily reminder for teacher %d: %v\n", teacherID, err)
		}
	}
}

// CheckUnmarkedLessons alerts teachers about past lessons with no records
// at all: the lesson happened but nobody was marked. Looks one day back
// so the alert fires once the edit window opens.
func (ns *NotificationScheduler) CheckUnmarkedLessons() {
	yesterday := DateOnly(time.Now()).AddDate(0, 0, -1)

	var instances []models.ScheduleInstance
	err := ns.db.
		Where("date = ? AND is_cancelled = ?", yesterday, false).
		Where("NOT EXISTS (SELECT 1 FROM student_records WHERE student_records.schedule_instance_id = schedule_instances.id)").
		Preload("Template").
		Preload("Template.Discipline").
		Find(&instances).Error
	if err != nil {
		fmt.Printf("Error checking unmarked lessons: %v\n", err)
		return
	}

	svc := notifications.NewService()
	for _, instance := range instances {
		message := fmt.Sprintf("Lesson %s (%s) on %s has no attendance records",
			instance.Template.Discipline.Name,
			instance.Template.LessonType,
			instance.Date.Format("2006-01-02"))
		n := notifications.Queued("Unmarked Lesson", message, "warning")
		if err := svc.EnqueueOrCreate([]uint{instance.EffectiveTeacherID()}, n); err != nil {
			fmt.Printf("Error creating unmarked-lesson alert for instance %d: %v\n", instance.ID, err)
		}
	}
}
