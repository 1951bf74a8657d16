package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"unijournal_go/models"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleTeacher
}

// IsValidRecordStatus checks if an attendance status is valid
func IsValidRecordStatus(status string) bool {
	switch status {
	case models.StatusPresent, models.StatusAbsent, models.StatusExcused,
		models.StatusAutoDetected, models.StatusFingerprintDetected:
		return true
	}
	return false
}

// IsValidWeekType checks if a template week type is valid
func IsValidWeekType(weekType string) bool {
	switch weekType {
	case models.WeekEven, models.WeekOdd, models.WeekBoth:
		return true
	}
	return false
}

// IsValidLessonType checks if a lesson type is valid
func IsValidLessonType(lessonType string) bool {
	switch lessonType {
	case models.LessonLecture, models.LessonSeminar, models.LessonLab:
		return true
	}
	return false
}

// IsValidFileExtension checks if file extension is allowed
func IsValidFileExtension(filename string, allowedExtensions []string) bool {
	if filename == "" {
		return false
	}

	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return false
	}

	ext := strings.ToLower(parts[len(parts)-1])

	for _, allowedExt := range allowedExtensions {
		if ext == strings.ToLower(allowedExt) {
			return true
		}
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return input
}
