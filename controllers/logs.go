package controllers

import (
	"io"
	"strconv"

	"unijournal_go/database"
	"unijournal_go/models"
	"unijournal_go/services"

	"github.com/gofiber/fiber/v2"
)

type LogController struct{}

// GetLogs lists activity logs (admin only). Filterable by user,
// resource and action.
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	query := database.DB.Model(&models.ActivityLog{}).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var logs []models.ActivityLog
	if err := query.Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch logs"})
	}

	return c.JSON(fiber.Map{"logs": logs})
}

// GetArchives lists completed log archives (admin only)
func (lc *LogController) GetArchives(c *fiber.Ctx) error {
	archives, err := services.NewLogArchiveService().GetArchivedLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch archives"})
	}
	return c.JSON(fiber.Map{"archives": archives})
}

// DownloadArchive streams an archived log ZIP from storage (admin only)
func (lc *LogController) DownloadArchive(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	reader, fileName, err := services.NewLogArchiveService().DownloadArchivedLogs(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Archive not found"})
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read archive"})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(data)
}

// TriggerArchive runs log archiving on demand (admin only). days must be
// at least 7; the service enforces the floor as well.
func (lc *LogController) TriggerArchive(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	if days < 7 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "days must be at least 7"})
	}

	las := services.NewLogArchiveService()
	if err := las.FlushCachedLogsToDatabase(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := las.ArchiveOldLogs(days); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Log archiving completed"})
}
