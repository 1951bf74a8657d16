package services

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScheduleManager owns the background jobs of the journal: nightly
// instance generation, morning schedule digests, upcoming-lesson
// reminders and unmarked-lesson alerts.
type ScheduleManager struct {
	cron                  *cron.Cron
	notificationScheduler *NotificationScheduler
}

func NewScheduleManager() *ScheduleManager {
	return &ScheduleManager{
		cron:                  cron.New(),
		notificationScheduler: NewNotificationScheduler(),
	}
}

// Start registers and launches all scheduled jobs.
func (sm *ScheduleManager) Start() {
	fmt.Println("Starting schedule manager...")

	// Nightly top-up keeps instances materialized through the semester
	// end even when templates were added during the day.
	sm.mustAdd("0 2 * * *", func() {
		created, err := GenerateForActiveSemester()
		if err != nil {
			if errors.Is(err, ErrNoActiveSemester) {
				return
			}
			logrus.WithError(err).Error("Nightly instance generation failed")
			return
		}
		if created > 0 {
			logrus.WithField("created", created).Info("Nightly instance generation completed")
		}
	})

	sm.mustAdd("0 7 * * *", sm.notificationScheduler.SendDailyScheduleReminder)

	sm.mustAdd("*/15 * * * *", sm.notificationScheduler.CheckUpcomingLessons)

	sm.mustAdd("0 9 * * *", sm.notificationScheduler.CheckUnmarkedLessons)

	sm.cron.Start()
	fmt.Println("All schedulers started successfully")
}

// Stop halts the cron runner; running jobs finish.
func (sm *ScheduleManager) Stop() {
	sm.cron.Stop()
}

func (sm *ScheduleManager) mustAdd(spec string, job func()) {
	if _, err := sm.cron.AddFunc(spec, job); err != nil {
		logrus.WithError(err).Fatalf("Invalid cron spec %q", spec)
	}
}
