package controllers

import (
	"time"
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SemesterController struct{}

type semesterRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" validate:"required"`
	IsActive  bool   `json:"is_active"`
}

func parseSemesterDates(req *semesterRequest) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start_date must not be after end_date")
	}
	return start, end, nil
}

// GetSemesters returns all semesters
func (sc *SemesterController) GetSemesters(c *fiber.Ctx) error {
	var semesters []models.Semester
	if err := database.DB.Order("start_date DESC").Find(&semesters).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch semesters"})
	}
	return c.JSON(fiber.Map{"semesters": semesters})
}

// GetActiveSemester returns the currently active semester
func (sc *SemesterController) GetActiveSemester(c *fiber.Ctx) error {
	semester, err := services.GetActiveSemester()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"semester": semester})
}

// CreateSemester creates a new semester (admin only)
func (sc *SemesterController) CreateSemester(c *fiber.Ctx) error {
	var req semesterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	start, end, err := parseSemesterDates(&req)
	if err != nil {
		return err
	}

	semester := models.Semester{
		Name:      req.Name,
		StartDate: services.DateOnly(start),
		EndDate:   services.DateOnly(end),
		IsActive:  false,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsActive {
			if err := tx.Model(&models.Semester{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
				return err
			}
			semester.IsActive = true
		}
		return tx.Create(&semester).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create semester"})
	}

	middleware.LogActivity(c, "CREATE", "semesters", semester.ID, fiber.Map{"name": semester.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"semester": semester})
}

// UpdateSemester updates a semester (admin only)
func (sc *SemesterController) UpdateSemester(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var semester models.Semester
	if err := database.DB.First(&semester, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Semester not found"})
	}

	var req semesterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	start, end, err := parseSemesterDates(&req)
	if err != nil {
		return err
	}

	semester.Name = req.Name
	semester.StartDate = services.DateOnly(start)
	semester.EndDate = services.DateOnly(end)
	if err := database.DB.Save(&semester).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update semester"})
	}

	middleware.LogActivity(c, "UPDATE", "semesters", semester.ID, fiber.Map{"name": semester.Name})

	return c.JSON(fiber.Map{"semester": semester})
}

// ActivateSemester flags one semester active and deactivates the rest
// (admin only)
func (sc *SemesterController) ActivateSemester(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var semester models.Semester
	if err := database.DB.First(&semester, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Semester not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Semester{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&semester).Update("is_active", true).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to activate semester"})
	}

	middleware.LogActivity(c, "UPDATE", "semesters", semester.ID, fiber.Map{"action": "activate"})

	return c.JSON(fiber.Map{"message": "Semester activated", "semester": semester})
}

// DeleteSemester deletes a semester that has no templates or instances
// (admin only)
func (sc *SemesterController) DeleteSemester(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var semester models.Semester
	if err := database.DB.First(&semester, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Semester not found"})
	}

	var templateCount int64
	database.DB.Model(&models.ScheduleTemplate{}).Where("semester_id = ?", id).Count(&templateCount)
	if templateCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Semester still has schedule templates"})
	}

	if err := database.DB.Delete(&semester).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete semester"})
	}

	middleware.LogActivity(c, "DELETE", "semesters", id, nil)

	return c.JSON(fiber.Map{"message": "Semester deleted"})
}
