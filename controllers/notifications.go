package controllers

import (
	"strconv"
	"time"

	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

// GetNotifications returns the current user's notifications, newest
// first. ?unread=true narrows to unread ones.
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	query := database.DB.Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if c.Query("unread") == "true" {
		query = query.Where("`read` = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	var unreadCount int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", claims.UserID, false).
		Count(&unreadCount)

	out := make([]utils.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		out = append(out, utils.ToNotificationDTO(notifications[i]))
	}

	return c.JSON(fiber.Map{"notifications": out, "unread_count": unreadCount})
}

// MarkAsRead marks one notification read
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", id, claims.UserID).First(&notification).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	if !notification.Read {
		now := time.Now()
		err = database.DB.Model(&notification).Updates(map[string]interface{}{
			"read":    true,
			"read_at": now,
		}).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notification"})
		}
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the user read
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return err
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", claims.UserID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notifications"})
	}

	return c.JSON(fiber.Map{"message": "All notifications marked as read", "updated": result.RowsAffected})
}
