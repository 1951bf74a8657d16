package controllers

import (
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/services"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ScheduleController struct{}

// GetInstances lists dated lessons. Defaults to the current week.
func (sc *ScheduleController) GetInstances(c *fiber.Ctx) error {
	now := services.NowUTC()
	weekStart := services.DateOnly(now).AddDate(0, 0, -services.WeekdayIndex(now))

	from, err := parseDateQuery(c, "from", weekStart)
	if err != nil {
		return err
	}
	to, err := parseDateQuery(c, "to", weekStart.AddDate(0, 0, 6))
	if err != nil {
		return err
	}
	if from.After(to) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must not be after to"})
	}

	query := database.DB.
		Joins("JOIN schedule_templates ON schedule_templates.id = schedule_instances.template_id").
		Where("schedule_instances.date BETWEEN ? AND ?", services.DateOnly(from), services.DateOnly(to)).
		Preload("Template").
		Preload("Template.Discipline").
		Preload("Template.Teacher").
		Preload("Template.Groups").
		Preload("Teacher").
		Order("schedule_instances.date ASC, schedule_templates.time_start ASC")

	if teacherID := c.Query("teacher_id"); teacherID != "" {
		query = query.Where("COALESCE(schedule_instances.teacher_id, schedule_templates.teacher_id) = ?", teacherID)
	}
	if disciplineID := c.Query("discipline_id"); disciplineID != "" {
		query = query.Where("schedule_templates.discipline_id = ?", disciplineID)
	}
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Joins("JOIN template_groups tg ON tg.schedule_template_id = schedule_templates.id").
			Where("tg.group_id = ?", groupID)
	}
	if c.Query("include_cancelled") != "true" {
		query = query.Where("schedule_instances.is_cancelled = ?", false)
	}

	var instances []models.ScheduleInstance
	if err := query.Find(&instances).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch schedule"})
	}

	out := make([]utils.InstanceDTO, 0, len(instances))
	for i := range instances {
		out = append(out, utils.ToInstanceDTO(instances[i]))
	}

	return c.JSON(fiber.Map{"instances": out})
}

// GetInstance returns one lesson with its full roster. Students without
// a record yet appear with an empty status, which the journal renders as
// "not marked".
func (sc *ScheduleController) GetInstance(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var instance models.ScheduleInstance
	err = database.DB.
		Preload("Template").
		Preload("Template.Discipline").
		Preload("Template.Teacher").
		Preload("Template.Groups").
		Preload("Teacher").
		First(&instance, id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	groupIDs := make([]uint, 0, len(instance.Template.Groups))
	for _, g := range instance.Template.Groups {
		groupIDs = append(groupIDs, g.ID)
	}

	var students []models.Student
	if len(groupIDs) > 0 {
		database.DB.Where("group_id IN ?", groupIDs).Order("full_name ASC").Find(&students)
	}

	var records []models.StudentRecord
	database.DB.Where("schedule_instance_id = ?", id).Find(&records)
	byStudent := make(map[uint]*models.StudentRecord, len(records))
	for i := range records {
		byStudent[records[i].StudentID] = &records[i]
	}

	roster := make([]utils.RecordDTO, 0, len(students))
	for i := range students {
		entry := utils.RecordDTO{
			StudentID:          students[i].ID,
			StudentName:        students[i].FullName,
			ScheduleInstanceID: instance.ID,
		}
		if rec, ok := byStudent[students[i].ID]; ok {
			entry.ID = rec.ID
			entry.Status = rec.Status
			entry.Grade = rec.Grade
			entry.UpdatedAt = rec.UpdatedAt
		}
		roster = append(roster, entry)
	}

	return c.JSON(fiber.Map{
		"instance": utils.ToInstanceDTO(instance),
		"roster":   roster,
	})
}

// CancelInstance marks a lesson cancelled (admin only). Existing records
// are kept but the lesson drops out of reports and the grading window
// stays closed.
func (sc *ScheduleController) CancelInstance(c *fiber.Ctx) error {
	return sc.setCancelled(c, true, "Lesson cancelled")
}

// RestoreInstance reverts a cancellation (admin only)
func (sc *ScheduleController) RestoreInstance(c *fiber.Ctx) error {
	return sc.setCancelled(c, false, "Lesson restored")
}

func (sc *ScheduleController) setCancelled(c *fiber.Ctx, cancelled bool, message string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var instance models.ScheduleInstance
	if err := database.DB.First(&instance, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	if err := database.DB.Model(&instance).Update("is_cancelled", cancelled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update lesson"})
	}

	middleware.LogActivity(c, "UPDATE", "schedule_instances", id, fiber.Map{"is_cancelled": cancelled})

	return c.JSON(fiber.Map{"message": message})
}

// OverrideInstance sets a per-date classroom or substitute teacher
// (admin only). An empty classroom or zero teacher_id clears the
// override back to the template value.
func (sc *ScheduleController) OverrideInstance(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var instance models.ScheduleInstance
	if err := database.DB.Preload("Template").First(&instance, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	var req struct {
		Classroom *string `json:"classroom"`
		TeacherID *uint   `json:"teacher_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.Classroom != nil {
		updates["classroom"] = *req.Classroom
	}
	if req.TeacherID != nil {
		if *req.TeacherID == 0 {
			updates["teacher_id"] = nil
		} else {
			var teacher models.User
			if err := database.DB.Where("role = ?", models.RoleTeacher).First(&teacher, *req.TeacherID).Error; err != nil {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Substitute teacher not found"})
			}
			updates["teacher_id"] = *req.TeacherID
		}
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to override"})
	}

	if err := database.DB.Model(&instance).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply override"})
	}

	middleware.LogActivity(c, "UPDATE", "schedule_instances", id, updates)

	database.DB.
		Preload("Template").
		Preload("Template.Discipline").
		Preload("Template.Teacher").
		Preload("Template.Groups").
		Preload("Teacher").
		First(&instance, id)

	return c.JSON(fiber.Map{"instance": utils.ToInstanceDTO(instance)})
}

// Generate expands the active semester's templates into dated instances
// (admin only). An optional from/to range limits the expansion; the
// default covers the whole semester. Existing dates are left untouched.
func (sc *ScheduleController) Generate(c *fiber.Ctx) error {
	semester, err := services.GetActiveSemester()
	if err != nil {
		return serviceError(c, err)
	}

	from, err := parseDateQuery(c, "from", semester.StartDate)
	if err != nil {
		return err
	}
	to, err := parseDateQuery(c, "to", semester.EndDate)
	if err != nil {
		return err
	}

	created, err := services.GenerateInstances(semester, from, to)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "GENERATE", "schedule_instances", semester.ID, fiber.Map{
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"created": created,
	})

	return c.JSON(fiber.Map{"message": "Schedule generated", "instances_created": created})
}

// RegenerateFuture re-expands templates from tomorrow to the semester
// end (admin only). Used after timetable edits mid-semester; past
// lessons and their records are never touched.
func (sc *ScheduleController) RegenerateFuture(c *fiber.Ctx) error {
	semester, err := services.GetActiveSemester()
	if err != nil {
		return serviceError(c, err)
	}

	created, err := services.RegenerateFutureInstances(semester)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "GENERATE", "schedule_instances", semester.ID, fiber.Map{
		"mode":    "future",
		"created": created,
	})

	return c.JSON(fiber.Map{"message": "Future schedule regenerated", "instances_created": created})
}
