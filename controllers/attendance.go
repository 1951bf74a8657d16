package controllers

import (
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/services"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AttendanceController serves the detector endpoints: the face scanner
// in each classroom and the fingerprint terminals at the entrances.
type AttendanceController struct{}

// LocateLesson tells a scanner which lesson a check-in in its room
// should count against right now. A 200 with a null lesson means no
// admission window is open; the scanner idles.
func (ac *AttendanceController) LocateLesson(c *fiber.Ctx) error {
	classroom := c.Query("classroom")
	if classroom == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "classroom is required"})
	}

	instance, err := services.FindCurrentOrNextLesson(classroom, services.NowUTC())
	if err != nil {
		return serviceError(c, err)
	}
	if instance == nil {
		return c.JSON(fiber.Map{"lesson": nil})
	}

	studentIDs := rosterStudentIDs(instance)

	return c.JSON(fiber.Map{
		"lesson":      utils.ToInstanceDTO(*instance),
		"student_ids": studentIDs,
	})
}

// FaceScan reconciles one camera pass against the lesson roster. The
// recognizer sends the student IDs it matched plus the raw face count;
// the journal marks recognized students attended and untouched roster
// members absent, then reports what it could not match.
func (ac *AttendanceController) FaceScan(c *fiber.Ctx) error {
	var req struct {
		ScheduleInstanceID uint   `json:"schedule_instance_id"`
		Classroom          string `json:"classroom"`
		RecognizedIDs      []uint `json:"recognized_student_ids"`
		TotalFaces         int    `json:"total_faces"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TotalFaces < len(req.RecognizedIDs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "total_faces cannot be less than recognized count"})
	}

	instanceID := req.ScheduleInstanceID
	if instanceID == 0 {
		if req.Classroom == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "schedule_instance_id or classroom is required"})
		}
		instance, err := services.FindCurrentOrNextLesson(req.Classroom, services.NowUTC())
		if err != nil {
			return serviceError(c, err)
		}
		if instance == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No lesson is accepting check-ins in this classroom"})
		}
		instanceID = instance.ID
	}

	result, err := services.ReconcileScan(instanceID, req.RecognizedIDs, req.TotalFaces)
	if err != nil {
		return serviceError(c, err)
	}

	logrus.WithFields(logrus.Fields{
		"instance_id":    result.InstanceID,
		"total_faces":    result.TotalFaces,
		"marked_present": result.MarkedPresent,
		"marked_absent":  result.MarkedAbsent,
	}).Info("Face scan reconciled")

	middleware.LogActivity(c, "SCAN", "schedule_instances", result.InstanceID, fiber.Map{
		"source":         services.SourceFaceScan,
		"total_faces":    result.TotalFaces,
		"marked_present": result.MarkedPresent,
	})

	return c.JSON(fiber.Map{"result": result})
}

// FingerprintCheckIn marks one student attended from a fingerprint
// terminal. The terminal identifies the student itself and sends the
// room it guards; the journal locates the lesson.
func (ac *AttendanceController) FingerprintCheckIn(c *fiber.Ctx) error {
	var req struct {
		StudentID          uint   `json:"student_id"`
		ScheduleInstanceID uint   `json:"schedule_instance_id"`
		Classroom          string `json:"classroom"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.StudentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "student_id is required"})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	if student.FingerprintTemplate == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Student has no fingerprint enrollment"})
	}

	var instance *models.ScheduleInstance
	if req.ScheduleInstanceID != 0 {
		var loaded models.ScheduleInstance
		err := database.DB.Preload("Template").Preload("Template.Groups").
			First(&loaded, req.ScheduleInstanceID).Error
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
		}
		instance = &loaded
	} else {
		if req.Classroom == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "schedule_instance_id or classroom is required"})
		}
		located, err := services.FindCurrentOrNextLesson(req.Classroom, services.NowUTC())
		if err != nil {
			return serviceError(c, err)
		}
		if located == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No lesson is accepting check-ins in this classroom"})
		}
		instance = located
	}

	record, err := services.MarkFingerprintAttendance(req.StudentID, instance)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "SCAN", "student_records", record.ID, fiber.Map{
		"source":               services.SourceFingerprint,
		"student_id":           record.StudentID,
		"schedule_instance_id": record.ScheduleInstanceID,
	})

	database.DB.Preload("Student").First(record, record.ID)

	return c.JSON(fiber.Map{
		"record": utils.ToRecordDTO(*record),
		"lesson": utils.ToInstanceDTO(*instance),
	})
}

func rosterStudentIDs(instance *models.ScheduleInstance) []uint {
	groupIDs := make([]uint, 0, len(instance.Template.Groups))
	for _, g := range instance.Template.Groups {
		groupIDs = append(groupIDs, g.ID)
	}
	var ids []uint
	if len(groupIDs) > 0 {
		database.DB.Model(&models.Student{}).Where("group_id IN ?", groupIDs).Pluck("id", &ids)
	}
	return ids
}
