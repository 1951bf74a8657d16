package controllers

import (
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"

	"github.com/gofiber/fiber/v2"
)

type GroupController struct{}

// GetGroups returns all groups
func (gc *GroupController) GetGroups(c *fiber.Ctx) error {
	var groups []models.Group
	query := database.DB.Order("name ASC")

	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch groups"})
	}

	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroup returns one group with its students
func (gc *GroupController) GetGroup(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var group models.Group
	if err := database.DB.Preload("Students").First(&group, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	return c.JSON(fiber.Map{"group": group})
}

// CreateGroup creates a new group (admin only)
func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	group := models.Group{Name: req.Name}
	if err := database.DB.Create(&group).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Group already exists"})
	}

	middleware.LogActivity(c, "CREATE", "groups", group.ID, fiber.Map{"name": group.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"group": group})
}

// UpdateGroup renames a group (admin only)
func (gc *GroupController) UpdateGroup(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var group models.Group
	if err := database.DB.First(&group, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := database.DB.Model(&group).Update("name", req.Name).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Group name already in use"})
	}

	middleware.LogActivity(c, "UPDATE", "groups", group.ID, fiber.Map{"name": req.Name})

	return c.JSON(fiber.Map{"group": group})
}

// DeleteGroup deletes an empty group not referenced by any template
// (admin only)
func (gc *GroupController) DeleteGroup(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var group models.Group
	if err := database.DB.First(&group, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	var studentCount int64
	database.DB.Model(&models.Student{}).Where("group_id = ?", id).Count(&studentCount)
	if studentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Group still has students"})
	}

	var templateCount int64
	database.DB.Table("template_groups").Where("group_id = ?", id).Count(&templateCount)
	if templateCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Group is still assigned to schedule templates"})
	}

	if err := database.DB.Delete(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete group"})
	}

	middleware.LogActivity(c, "DELETE", "groups", id, nil)

	return c.JSON(fiber.Map{"message": "Group deleted"})
}
