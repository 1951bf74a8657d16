package controllers

import (
	"encoding/json"
	"strings"
	"unijournal_go/config"
	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/storage"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type StudentController struct{}

// GetStudents returns students, optionally filtered by group
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	var students []models.Student
	query := database.DB.Preload("Group").Order("full_name ASC")

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("full_name LIKE ?", "%"+search+"%")
	}

	if err := query.Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	return c.JSON(fiber.Map{"students": students})
}

// GetStudent returns one student
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.Preload("Group").First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	return c.JSON(fiber.Map{"student": student})
}

// CreateStudent creates a new student (admin only)
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"full_name" validate:"required"`
		GroupID  uint   `json:"group_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FullName == "" || req.GroupID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name and group_id are required"})
	}

	var group models.Group
	if err := database.DB.First(&group, req.GroupID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	student := models.Student{
		FullName: utils.SanitizeString(req.FullName),
		GroupID:  req.GroupID,
	}
	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student"})
	}

	middleware.LogActivity(c, "CREATE", "students", student.ID, fiber.Map{"full_name": student.FullName})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"student": student})
}

// UpdateStudent updates a student's name or group (admin only)
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	var req struct {
		FullName string `json:"full_name"`
		GroupID  uint   `json:"group_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = utils.SanitizeString(req.FullName)
	}
	if req.GroupID != 0 {
		var group models.Group
		if err := database.DB.First(&group, req.GroupID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		updates["group_id"] = req.GroupID
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&student).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
		}
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updates)

	return c.JSON(fiber.Map{"student": student})
}

// DeleteStudent removes a student and their records (admin only)
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete student"})
	}

	middleware.LogActivity(c, "DELETE", "students", id, fiber.Map{"full_name": student.FullName})

	return c.JSON(fiber.Map{"message": "Student deleted"})
}

// EnrollFace stores a student's face encoding and reference photo. The
// encoding comes from the external recognizer; the photo goes to S3.
func (sc *StudentController) EnrollFace(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	encodingRaw := c.FormValue("encoding")
	if encodingRaw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "encoding is required"})
	}
	var encoding []float64
	if err := json.Unmarshal([]byte(encodingRaw), &encoding); err != nil || len(encoding) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "encoding must be a non-empty JSON array of numbers"})
	}

	updates := map[string]interface{}{
		"face_encoding": models.JSON(encodingRaw),
	}

	if fileHeader, err := c.FormFile("photo"); err == nil {
		allowed := strings.Split(config.AppConfig.AllowedExtensions, ",")
		if !utils.IsValidFileExtension(fileHeader.Filename, allowed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported photo format"})
		}
		if fileHeader.Size > config.AppConfig.MaxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo exceeds maximum file size"})
		}

		storageService, err := storage.NewStorageService()
		if err != nil {
			logrus.WithError(err).Error("Failed to initialise storage service")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Storage unavailable"})
		}
		url, err := storageService.UploadFile(fileHeader, "faces", student.ID)
		if err != nil {
			logrus.WithError(err).Error("Failed to upload face photo")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
		}
		updates["face_photo_url"] = url
	}

	if err := database.DB.Model(&student).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save face enrollment"})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"action": "face_enroll"})

	return c.JSON(fiber.Map{"message": "Face enrolled", "student": student})
}

// EnrollFingerprint stores a fingerprint template captured by the
// scanner hardware
func (sc *StudentController) EnrollFingerprint(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	var req struct {
		Template string `json:"template" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Template == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "template is required"})
	}

	if err := database.DB.Model(&student).Update("fingerprint_template", req.Template).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save fingerprint template"})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"action": "fingerprint_enroll"})

	return c.JSON(fiber.Map{"message": "Fingerprint enrolled"})
}

// DeleteFingerprint clears a student's fingerprint template
func (sc *StudentController) DeleteFingerprint(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	if err := database.DB.Model(&student).Update("fingerprint_template", "").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove fingerprint template"})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, fiber.Map{"action": "fingerprint_unenroll"})

	return c.JSON(fiber.Map{"message": "Fingerprint enrollment removed"})
}

// DeleteFace removes a student's face enrollment
func (sc *StudentController) DeleteFace(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	if student.FacePhotoURL != "" {
		if storageService, err := storage.NewStorageService(); err == nil {
			if err := storageService.DeleteFile(student.FacePhotoURL); err != nil {
				logrus.WithError(err).Warn("Failed to delete face photo from storage")
			}
		}
	}

	err = database.DB.Model(&student).Updates(map[string]interface{}{
		"face_encoding":  nil,
		"face_photo_url": "",
	}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove face enrollment"})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, fiber.Map{"action": "face_unenroll"})

	return c.JSON(fiber.Map{"message": "Face enrollment removed"})
}
