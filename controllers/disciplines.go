package controllers

import (
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"

	"github.com/gofiber/fiber/v2"
)

type DisciplineController struct{}

// GetDisciplines returns all disciplines
func (dc *DisciplineController) GetDisciplines(c *fiber.Ctx) error {
	var disciplines []models.Discipline
	query := database.DB.Order("name ASC")

	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Find(&disciplines).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch disciplines"})
	}

	return c.JSON(fiber.Map{"disciplines": disciplines})
}

// GetDiscipline returns one discipline with its teachers
func (dc *DisciplineController) GetDiscipline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var discipline models.Discipline
	if err := database.DB.Preload("Teachers").Preload("Teachers.Teacher").First(&discipline, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
	}

	return c.JSON(fiber.Map{"discipline": discipline})
}

// CreateDiscipline creates a new discipline (admin only)
func (dc *DisciplineController) CreateDiscipline(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	discipline := models.Discipline{Name: req.Name}
	if err := database.DB.Create(&discipline).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Discipline already exists"})
	}

	middleware.LogActivity(c, "CREATE", "disciplines", discipline.ID, fiber.Map{"name": discipline.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"discipline": discipline})
}

// UpdateDiscipline renames a discipline (admin only)
func (dc *DisciplineController) UpdateDiscipline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var discipline models.Discipline
	if err := database.DB.First(&discipline, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
	}

	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := database.DB.Model(&discipline).Update("name", req.Name).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Discipline name already in use"})
	}

	middleware.LogActivity(c, "UPDATE", "disciplines", discipline.ID, fiber.Map{"name": req.Name})

	return c.JSON(fiber.Map{"discipline": discipline})
}

// DeleteDiscipline deletes a discipline not referenced by any template
// (admin only)
func (dc *DisciplineController) DeleteDiscipline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var discipline models.Discipline
	if err := database.DB.First(&discipline, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
	}

	var templateCount int64
	database.DB.Model(&models.ScheduleTemplate{}).Where("discipline_id = ?", id).Count(&templateCount)
	if templateCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Discipline is still used by schedule templates"})
	}

	if err := database.DB.Delete(&discipline).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete discipline"})
	}

	middleware.LogActivity(c, "DELETE", "disciplines", id, nil)

	return c.JSON(fiber.Map{"message": "Discipline deleted"})
}
