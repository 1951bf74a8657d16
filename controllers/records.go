package controllers

import (
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/services"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type RecordController struct{}

// UpsertRecord writes one student's attendance and grade for a lesson.
// Teachers may only mark their own lessons; admins may mark any. The
// write is rejected while the lesson's grading window is closed.
func (rc *RecordController) UpsertRecord(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return err
	}

	var req struct {
		StudentID          uint   `json:"student_id" validate:"required"`
		ScheduleInstanceID uint   `json:"schedule_instance_id" validate:"required"`
		Status             string `json:"status" validate:"required"`
		Grade              *int   `json:"grade"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.StudentID == 0 || req.ScheduleInstanceID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "student_id and schedule_instance_id are required"})
	}
	switch req.Status {
	case models.StatusPresent, models.StatusAbsent, models.StatusExcused:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be present, absent or excused"})
	}

	actor := services.RecordActor{
		UserID: claims.UserID,
		Role:   claims.Role,
		Source: services.SourceManual,
	}

	record, err := services.UpsertRecord(req.StudentID, req.ScheduleInstanceID, req.Status, req.Grade, actor)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPSERT", "student_records", record.ID, fiber.Map{
		"student_id":           record.StudentID,
		"schedule_instance_id": record.ScheduleInstanceID,
		"status":               record.Status,
	})

	database.DB.Preload("Student").First(record, record.ID)

	return c.JSON(fiber.Map{"record": utils.ToRecordDTO(*record)})
}

// GetRecords lists the stored records for one lesson. Unlike the roster
// view this returns only rows that exist; students never marked are
// omitted.
func (rc *RecordController) GetRecords(c *fiber.Ctx) error {
	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var instance models.ScheduleInstance
	if err := database.DB.First(&instance, instanceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	var records []models.StudentRecord
	err = database.DB.Where("schedule_instance_id = ?", instanceID).
		Preload("Student").
		Joins("JOIN students ON students.id = student_records.student_id").
		Order("students.full_name ASC").
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch records"})
	}

	out := make([]utils.RecordDTO, 0, len(records))
	for i := range records {
		out = append(out, utils.ToRecordDTO(records[i]))
	}

	return c.JSON(fiber.Map{"records": out})
}

// GetStudentRecords lists one student's records, optionally scoped to a
// discipline or date range. Used by the per-student journal page.
func (rc *RecordController) GetStudentRecords(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	query := database.DB.Where("student_id = ?", studentID).
		Preload("Student").
		Preload("ScheduleInstance").
		Preload("ScheduleInstance.Template").
		Preload("ScheduleInstance.Template.Discipline").
		Joins("JOIN schedule_instances ON schedule_instances.id = student_records.schedule_instance_id").
		Order("schedule_instances.date ASC")

	if disciplineID := c.Query("discipline_id"); disciplineID != "" {
		query = query.
			Joins("JOIN schedule_templates ON schedule_templates.id = schedule_instances.template_id").
			Where("schedule_templates.discipline_id = ?", disciplineID)
	}
	if from := c.Query("from"); from != "" {
		fromDate, err := parseDateQuery(c, "from", services.NowUTC())
		if err != nil {
			return err
		}
		query = query.Where("schedule_instances.date >= ?", services.DateOnly(fromDate))
	}
	if to := c.Query("to"); to != "" {
		toDate, err := parseDateQuery(c, "to", services.NowUTC())
		if err != nil {
			return err
		}
		query = query.Where("schedule_instances.date <= ?", services.DateOnly(toDate))
	}

	var records []models.StudentRecord
	if err := query.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch records"})
	}

	out := make([]utils.RecordDTO, 0, len(records))
	for i := range records {
		out = append(out, utils.ToRecordDTO(records[i]))
	}

	return c.JSON(fiber.Map{"student": student.FullName, "records": out})
}
