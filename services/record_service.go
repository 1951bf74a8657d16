package services

import (
	"errors"
	"fmt"
	"time"

	"unijournal_go/config"
	"unijournal_go/database"
	"unijournal_go/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record sources. Manual entry comes from the journal UI; the other two
// come from the detector endpoints.
const (
	SourceManual      = "manual"
	SourceFaceScan    = "face_scan"
	SourceFingerprint = "fingerprint"
)

// RecordActor identifies who is writing a record and through which source.
type RecordActor struct {
	UserID uint
	Role   string
	Source string
}

// ScanResult summarizes one face-scan reconciliation pass.
type ScanResult struct {
	InstanceID    uint   `json:"instance_id"`
	TotalFaces    int    `json:"total_faces"`
	RosterSize    int    `json:"roster_size"`
	MarkedPresent int    `json:"marked_present"`
	MarkedAbsent  int    `json:"marked_absent"`
	Unmatched     []uint `json:"unmatched_student_ids,omitempty"`
}

// mergeAutomated applies the no-downgrade rule for detector writes: only
// a manually confirmed present survives. Everything else, earlier
// detections and excused included, is replaced by the incoming detection,
// so the record always names the most recent identification source.
func mergeAutomated(existing, incoming string) string {
	if existing == models.StatusPresent {
		return existing
	}
	return incoming
}

// scanOutcome decides what a face scan writes for one roster student.
// The returned write flag is false when the record must be left alone.
func scanOutcome(existing *models.StudentRecord, recognized bool) (string, bool) {
	if recognized {
		if existing == nil {
			return models.StatusAutoDetected, true
		}
		merged := mergeAutomated(existing.Status, models.StatusAutoDetected)
		return merged, merged != existing.Status
	}
	// Unrecognized students are marked absent only when nothing has been
	// recorded yet; a prior mark from any source stands.
	if existing == nil {
		return models.StatusAbsent, true
	}
	return existing.Status, false
}

// editWindowOpen reports whether an instance accepts manual writes: its
// date must be strictly in the past and the lesson not cancelled.
func editWindowOpen(instance *models.ScheduleInstance, now time.Time) bool {
	if instance.IsCancelled {
		return false
	}
	return DateOnly(instance.Date).Before(DateOnly(now))
}

// detectorWindowOpen reports whether an instance accepts detector writes:
// not cancelled and not dated in the future. Detections arrive while the
// lesson runs, so today is allowed, but a scanner must not pre-fill
// records for a lesson not yet held.
func detectorWindowOpen(instance *models.ScheduleInstance, now time.Time) bool {
	if instance.IsCancelled {
		return false
	}
	return !DateOnly(instance.Date).After(DateOnly(now))
}

func validManualStatus(status string) bool {
	switch status {
	case models.StatusPresent, models.StatusAbsent, models.StatusExcused:
		return true
	}
	return false
}

// validateManualInput checks the status and grade of a manual write.
func validateManualInput(status string, grade *int) error {
	if !validManualStatus(status) {
		return fmt.Errorf("%w: status %q", ErrInvalidStatus, status)
	}
	if !validGrade(grade) {
		return fmt.Errorf("%w: grade %d outside %d..%d", ErrInvalidGrade, *grade, config.AppConfig.GradeMin, config.AppConfig.GradeMax)
	}
	return nil
}

func validGrade(grade *int) bool {
	if grade == nil {
		return true
	}
	return *grade >= config.AppConfig.GradeMin && *grade <= config.AppConfig.GradeMax
}

func loadInstanceWithRoster(db *gorm.DB, instanceID uint) (*models.ScheduleInstance, error) {
	var instance models.ScheduleInstance
	err := db.Preload("Template").Preload("Template.Groups").First(&instance, instanceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: schedule instance %d", ErrNotFound, instanceID)
		}
		return nil, err
	}
	return &instance, nil
}

// onRoster reports whether a student's group is taught by the instance's
// template. Template groups must be preloaded.
func onRoster(instance *models.ScheduleInstance, student *models.Student) bool {
	for _, g := range instance.Template.Groups {
		if g.ID == student.GroupID {
			return true
		}
	}
	return false
}

// UpsertRecord creates or updates one student's record for one instance.
//
// Manual writes carry the full authority of the journal: they replace
// whatever any source wrote before, status and grade alike. They are
// gated by the edit window (lesson date strictly past, not cancelled),
// by teacher ownership and by the grading scale.
//
// Detector writes (face scan, fingerprint) touch status only and never
// overwrite a manually confirmed present. They are accepted while the
// lesson is running, so the manual edit window does not apply, but a
// lesson dated in the future rejects them.
func UpsertRecord(studentID, instanceID uint, status string, grade *int, actor RecordActor) (*models.StudentRecord, error) {
	instance, err := loadInstanceWithRoster(database.DB, instanceID)
	if err != nil {
		return nil, err
	}

	manual := actor.Source == SourceManual
	if manual {
		if !editWindowOpen(instance, time.Now()) {
			return nil, fmt.Errorf("%w: lesson on %s", ErrEditWindowClosed, instance.Date.Format("2006-01-02"))
		}
		if actor.Role == models.RoleTeacher && instance.EffectiveTeacherID() != actor.UserID {
			return nil, fmt.Errorf("%w: lesson belongs to another teacher", ErrForbidden)
		}
		if err := validateManualInput(status, grade); err != nil {
			return nil, err
		}
	} else {
		if !detectorWindowOpen(instance, time.Now()) {
			return nil, fmt.Errorf("%w: lesson is cancelled or not yet held", ErrEditWindowClosed)
		}
	}

	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %d", ErrNotFound, studentID)
		}
		return nil, err
	}
	if !onRoster(instance, &student) {
		return nil, fmt.Errorf("%w: student %d is not on this lesson's roster", ErrNotFound, studentID)
	}

	var record models.StudentRecord
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ? AND schedule_instance_id = ?", studentID, instanceID).
			First(&record).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = models.StudentRecord{
				StudentID:          studentID,
				ScheduleInstanceID: instanceID,
				Status:             status,
			}
			if manual {
				record.Grade = grade
			}
			// A concurrent writer may create the row between our lookup
			// and insert; the unique index turns that into a retryable
			// duplicate instead of a second row.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
				return err
			}
			if record.ID == 0 {
				return ErrConflict
			}
			return nil
		case err != nil:
			return err
		}

		if manual {
			record.Status = status
			record.Grade = grade
		} else {
			record.Status = mergeAutomated(record.Status, status)
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"student_id":  studentID,
		"instance_id": instanceID,
		"status":      record.Status,
		"source":      actor.Source,
		"actor_id":    actor.UserID,
	}).Info("Student record upserted")

	return &record, nil
}

// ReconcileScan folds one face-scan result into the journal: recognized
// roster students become auto_detected, roster students with no record at
// all become absent, and everything else is left as-is. Recognized IDs
// that are not on the roster are reported back, not recorded.
func ReconcileScan(instanceID uint, recognizedIDs []uint, totalFaces int) (*ScanResult, error) {
	instance, err := loadInstanceWithRoster(database.DB, instanceID)
	if err != nil {
		return nil, err
	}
	if !detectorWindowOpen(instance, time.Now()) {
		return nil, fmt.Errorf("%w: lesson is cancelled or not yet held", ErrEditWindowClosed)
	}

	groupIDs := make([]uint, 0, len(instance.Template.Groups))
	for _, g := range instance.Template.Groups {
		groupIDs = append(groupIDs, g.ID)
	}

	var roster []models.Student
	if len(groupIDs) > 0 {
		if err := database.DB.Where("group_id IN ?", groupIDs).Find(&roster).Error; err != nil {
			return nil, err
		}
	}

	recognized := make(map[uint]bool, len(recognizedIDs))
	for _, id := range recognizedIDs {
		recognized[id] = true
	}

	result := &ScanResult{
		InstanceID: instanceID,
		TotalFaces: totalFaces,
		RosterSize: len(roster),
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.StudentRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("schedule_instance_id = ?", instanceID).
			Find(&existing).Error
		if err != nil {
			return err
		}
		byStudent := make(map[uint]*models.StudentRecord, len(existing))
		for i := range existing {
			byStudent[existing[i].StudentID] = &existing[i]
		}

		for _, student := range roster {
			current := byStudent[student.ID]
			status, write := scanOutcome(current, recognized[student.ID])
			if write {
				if current == nil {
					record := models.StudentRecord{
						StudentID:          student.ID,
						ScheduleInstanceID: instanceID,
						Status:             status,
					}
					if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
						return err
					}
				} else {
					current.Status = status
					if err := tx.Save(current).Error; err != nil {
						return err
					}
				}
			}
			if models.IsPresentEquivalent(status) {
				result.MarkedPresent++
			} else if status == models.StatusAbsent {
				result.MarkedAbsent++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rosterIDs := make(map[uint]bool, len(roster))
	for _, s := range roster {
		rosterIDs[s.ID] = true
	}
	for _, id := range recognizedIDs {
		if !rosterIDs[id] {
			result.Unmatched = append(result.Unmatched, id)
		}
	}

	logrus.WithFields(logrus.Fields{
		"instance_id":    instanceID,
		"total_faces":    totalFaces,
		"roster_size":    result.RosterSize,
		"marked_present": result.MarkedPresent,
		"marked_absent":  result.MarkedAbsent,
		"unmatched":      len(result.Unmatched),
	}).Info("Face scan reconciled")

	return result, nil
}

// MarkFingerprintAttendance records one fingerprint identification against
// the lesson currently open in the scanner's classroom.
func MarkFingerprintAttendance(studentID uint, instance *models.ScheduleInstance) (*models.StudentRecord, error) {
	actor := RecordActor{Source: SourceFingerprint}
	return UpsertRecord(studentID, instance.ID, models.StatusFingerprintDetected, nil, actor)
}
