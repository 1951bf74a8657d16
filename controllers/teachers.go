package controllers

import (
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type TeacherController struct{}

// GetTeachers returns all teacher accounts with their disciplines
func (tc *TeacherController) GetTeachers(c *fiber.Ctx) error {
	var teachers []models.User
	query := database.DB.Where("role = ?", models.RoleTeacher).
		Preload("Disciplines").Preload("Disciplines.Discipline").
		Order("full_name ASC")

	if search := c.Query("search"); search != "" {
		query = query.Where("full_name LIKE ?", "%"+search+"%")
	}

	if err := query.Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch teachers"})
	}

	out := make([]fiber.Map, 0, len(teachers))
	for i := range teachers {
		out = append(out, fiber.Map{
			"teacher":     utils.ToUserShort(teachers[i]),
			"disciplines": teachers[i].Disciplines,
		})
	}

	return c.JSON(fiber.Map{"teachers": out})
}

// GetTeacher returns one teacher with disciplines and templates
func (tc *TeacherController) GetTeacher(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var teacher models.User
	err = database.DB.Where("role = ?", models.RoleTeacher).
		Preload("Disciplines").Preload("Disciplines.Discipline").
		First(&teacher, id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}

	var templates []models.ScheduleTemplate
	database.DB.Where("teacher_id = ?", id).
		Preload("Discipline").Preload("Groups").
		Find(&templates)

	return c.JSON(fiber.Map{
		"teacher":     utils.ToUserShort(teacher),
		"disciplines": teacher.Disciplines,
		"templates":   templates,
	})
}

// AssignDiscipline links a teacher to a discipline (admin only)
func (tc *TeacherController) AssignDiscipline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var teacher models.User
	if err := database.DB.Where("role = ?", models.RoleTeacher).First(&teacher, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}

	var req struct {
		DisciplineID uint `json:"discipline_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil || req.DisciplineID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "discipline_id is required"})
	}

	var discipline models.Discipline
	if err := database.DB.First(&discipline, req.DisciplineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
	}

	var existing int64
	database.DB.Model(&models.TeacherDiscipline{}).
		Where("teacher_id = ? AND discipline_id = ?", id, req.DisciplineID).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Teacher already assigned to this discipline"})
	}

	link := models.TeacherDiscipline{TeacherID: id, DisciplineID: req.DisciplineID}
	if err := database.DB.Create(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to assign discipline"})
	}

	middleware.LogActivity(c, "CREATE", "teacher_disciplines", link.ID, fiber.Map{
		"teacher_id":    id,
		"discipline_id": req.DisciplineID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"assignment": link})
}

// UnassignDiscipline removes a teacher-discipline link (admin only)
func (tc *TeacherController) UnassignDiscipline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	disciplineID, err := parseIDParam(c, "discipline_id")
	if err != nil {
		return err
	}

	var link models.TeacherDiscipline
	err = database.DB.Where("teacher_id = ? AND discipline_id = ?", id, disciplineID).First(&link).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assignment not found"})
	}

	if err := database.DB.Delete(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove assignment"})
	}

	middleware.LogActivity(c, "DELETE", "teacher_disciplines", link.ID, fiber.Map{
		"teacher_id":    id,
		"discipline_id": disciplineID,
	})

	return c.JSON(fiber.Map{"message": "Assignment removed"})
}
