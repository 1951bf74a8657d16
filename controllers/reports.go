package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"unijournal_go/database"
	"unijournal_go/models"
	"unijournal_go/services"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct{}

// GetGroupReport aggregates attendance and grades for one group over a
// date range, optionally narrowed to a single discipline. The range
// defaults to the active semester.
func (rc *ReportController) GetGroupReport(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var group models.Group
	if err := database.DB.First(&group, groupID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

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

	var disciplineID *uint
	if raw := c.Query("discipline_id"); raw != "" {
		var discipline models.Discipline
		if err := database.DB.Where("id = ?", raw).First(&discipline).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
		}
		disciplineID = &discipline.ID
	}

	report, err := services.AggregateReport(groupID, from, to, disciplineID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"report": report})
}

// GetGroupReportCSV renders the same aggregation as a CSV download for
// the dean's office.
func (rc *ReportController) GetGroupReportCSV(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var group models.Group
	if err := database.DB.First(&group, groupID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

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

	var disciplineID *uint
	if raw := c.Query("discipline_id"); raw != "" {
		var discipline models.Discipline
		if err := database.DB.Where("id = ?", raw).First(&discipline).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
		}
		disciplineID = &discipline.ID
	}

	report, err := services.AggregateReport(groupID, from, to, disciplineID)
	if err != nil {
		return serviceError(c, err)
	}

	body, err := reportCSV(report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render report"})
	}

	filename := fmt.Sprintf("report_%s_%s_%s.csv",
		group.Name, from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendString(body)
}

// reportCSV renders the aggregation rows for download.
func reportCSV(report *services.GroupReport) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"student", "attended", "occurrences", "attendance_rate", "average_grade"}); err != nil {
		return "", err
	}
	for _, row := range report.Students {
		avg := ""
		if row.AverageGrade != nil {
			avg = strconv.FormatFloat(*row.AverageGrade, 'f', 2, 64)
		}
		record := []string{
			row.FullName,
			strconv.Itoa(row.Attended),
			strconv.Itoa(report.Occurrences),
			strconv.FormatFloat(row.AttendanceRate, 'f', 2, 64),
			avg,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
