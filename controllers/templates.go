package controllers

import (
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/services"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TemplateController struct{}

type templateRequest struct {
	DisciplineID uint   `json:"discipline_id" validate:"required"`
	TeacherID    uint   `json:"teacher_id" validate:"required"`
	GroupIDs     []uint `json:"group_ids" validate:"required"`
	Classroom    string `json:"classroom" validate:"required"`
	LessonType   string `json:"lesson_type" validate:"required"`
	DayOfWeek    *int   `json:"day_of_week" validate:"required"`
	TimeStart    string `json:"time_start" validate:"required"`
	TimeEnd      string `json:"time_end" validate:"required"`
	WeekType     string `json:"week_type"`
	IsStream     bool   `json:"is_stream"`
}

func validateTemplateRequest(req *templateRequest) error {
	if req.DisciplineID == 0 || req.TeacherID == 0 || len(req.GroupIDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "discipline_id, teacher_id and group_ids are required")
	}
	if req.Classroom == "" {
		return fiber.NewError(fiber.StatusBadRequest, "classroom is required")
	}
	if !utils.IsValidLessonType(req.LessonType) {
		return fiber.NewError(fiber.StatusBadRequest, "lesson_type must be lecture, seminar or lab")
	}
	if req.DayOfWeek == nil || *req.DayOfWeek < models.Monday || *req.DayOfWeek > models.Saturday {
		return fiber.NewError(fiber.StatusBadRequest, "day_of_week must be 0 (Monday) through 5 (Saturday)")
	}
	if req.WeekType == "" {
		req.WeekType = models.WeekBoth
	}
	if !utils.IsValidWeekType(req.WeekType) {
		return fiber.NewError(fiber.StatusBadRequest, "week_type must be even, odd or both")
	}
	if !services.IsValidLessonTime(req.TimeStart) || !services.IsValidLessonTime(req.TimeEnd) {
		return fiber.NewError(fiber.StatusBadRequest, "time_start and time_end must be HH:MM")
	}
	if req.TimeStart >= req.TimeEnd {
		return fiber.NewError(fiber.StatusBadRequest, "time_start must be before time_end")
	}
	return nil
}

func loadTemplateGroups(ids []uint) ([]models.Group, error) {
	var groups []models.Group
	if err := database.DB.Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, err
	}
	if len(groups) != len(ids) {
		return nil, fiber.NewError(fiber.StatusNotFound, "One or more groups not found")
	}
	return groups, nil
}

// GetTemplates returns schedule templates with optional filters
func (tc *TemplateController) GetTemplates(c *fiber.Ctx) error {
	var templates []models.ScheduleTemplate
	query := database.DB.
		Preload("Discipline").Preload("Teacher").Preload("Groups").
		Order("day_of_week ASC, time_start ASC")

	if semesterID := c.Query("semester_id"); semesterID != "" {
		query = query.Where("semester_id = ?", semesterID)
	} else {
		semester, err := services.GetActiveSemester()
		if err != nil {
			return serviceError(c, err)
		}
		query = query.Where("semester_id = ?", semester.ID)
	}
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		query = query.Where("teacher_id = ?", teacherID)
	}
	if disciplineID := c.Query("discipline_id"); disciplineID != "" {
		query = query.Where("discipline_id = ?", disciplineID)
	}
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Joins("JOIN template_groups tg ON tg.schedule_template_id = schedule_templates.id").
			Where("tg.group_id = ?", groupID)
	}

	if err := query.Find(&templates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch templates"})
	}

	out := make([]utils.TemplateDTO, 0, len(templates))
	for i := range templates {
		out = append(out, utils.ToTemplateDTO(templates[i]))
	}

	return c.JSON(fiber.Map{"templates": out})
}

// GetTemplate returns one template
func (tc *TemplateController) GetTemplate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var template models.ScheduleTemplate
	err = database.DB.
		Preload("Discipline").Preload("Teacher").Preload("Groups").Preload("Semester").
		First(&template, id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	return c.JSON(fiber.Map{"template": utils.ToTemplateDTO(template)})
}

// CreateTemplate adds a weekly lesson to the active semester (admin only)
func (tc *TemplateController) CreateTemplate(c *fiber.Ctx) error {
	semester, err := services.GetActiveSemester()
	if err != nil {
		return serviceError(c, err)
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateTemplateRequest(&req); err != nil {
		return err
	}

	var teacher models.User
	if err := database.DB.Where("role = ?", models.RoleTeacher).First(&teacher, req.TeacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}
	var discipline models.Discipline
	if err := database.DB.First(&discipline, req.DisciplineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
	}
	groups, err := loadTemplateGroups(req.GroupIDs)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return fe
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load groups"})
	}

	template := models.ScheduleTemplate{
		SemesterID:   semester.ID,
		DisciplineID: req.DisciplineID,
		TeacherID:    req.TeacherID,
		Classroom:    req.Classroom,
		LessonType:   req.LessonType,
		DayOfWeek:    *req.DayOfWeek,
		TimeStart:    req.TimeStart,
		TimeEnd:      req.TimeEnd,
		WeekType:     req.WeekType,
		IsStream:     req.IsStream,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&template).Error; err != nil {
			return err
		}
		return tx.Model(&template).Association("Groups").Replace(groups)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create template"})
	}

	middleware.LogActivity(c, "CREATE", "schedule_templates", template.ID, fiber.Map{
		"discipline_id": template.DisciplineID,
		"day_of_week":   template.DayOfWeek,
		"time_start":    template.TimeStart,
	})

	database.DB.Preload("Discipline").Preload("Teacher").Preload("Groups").First(&template, template.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": utils.ToTemplateDTO(template)})
}

// UpdateTemplate edits a template. Already generated instances keep
// their dates; future ones pick the change up on regeneration. (admin
// only)
func (tc *TemplateController) UpdateTemplate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var template models.ScheduleTemplate
	if err := database.DB.First(&template, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateTemplateRequest(&req); err != nil {
		return err
	}

	groups, err := loadTemplateGroups(req.GroupIDs)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return fe
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load groups"})
	}

	template.DisciplineID = req.DisciplineID
	template.TeacherID = req.TeacherID
	template.Classroom = req.Classroom
	template.LessonType = req.LessonType
	template.DayOfWeek = *req.DayOfWeek
	template.TimeStart = req.TimeStart
	template.TimeEnd = req.TimeEnd
	template.WeekType = req.WeekType
	template.IsStream = req.IsStream

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&template).Error; err != nil {
			return err
		}
		return tx.Model(&template).Association("Groups").Replace(groups)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update template"})
	}

	middleware.LogActivity(c, "UPDATE", "schedule_templates", template.ID, fiber.Map{
		"day_of_week": template.DayOfWeek,
		"time_start":  template.TimeStart,
	})

	database.DB.Preload("Discipline").Preload("Teacher").Preload("Groups").First(&template, template.ID)

	return c.JSON(fiber.Map{"template": utils.ToTemplateDTO(template)})
}

// DeleteTemplate removes a template along with its future instances.
// Past instances and their records are kept for reporting. (admin only)
func (tc *TemplateController) DeleteTemplate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var template models.ScheduleTemplate
	if err := database.DB.First(&template, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	today := services.DateOnly(services.NowUTC())
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ? AND date >= ?", id, today).
			Delete(&models.ScheduleInstance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&template).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete template"})
	}

	middleware.LogActivity(c, "DELETE", "schedule_templates", id, nil)

	return c.JSON(fiber.Map{"message": "Template deleted"})
}
