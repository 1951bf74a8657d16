package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"unijournal_go/database"
	"unijournal_go/middleware"
	"unijournal_go/models"
	"unijournal_go/services"
	"unijournal_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// TemplateImportController loads a semester's weekly grid from a CSV or
// XLSX export of the faculty timetable.
type TemplateImportController struct{}

type templateImportRow struct {
	RowNumber  int
	Discipline string
	Teacher    string
	Groups     []string
	Classroom  string
	LessonType string
	DayOfWeek  int
	TimeStart  string
	TimeEnd    string
	WeekType   string
}

type templateImportStats struct {
	TotalRows          int      `json:"total_rows"`
	TemplatesCreated   int      `json:"templates_created"`
	TemplatesSkipped   int      `json:"templates_skipped"`
	DisciplinesCreated int      `json:"disciplines_created"`
	GroupsCreated      int      `json:"groups_created"`
	MissingTeachers    []string `json:"missing_teachers"`
}

var importDayNames = map[string]int{
	"monday": models.Monday, "mon": models.Monday, "0": models.Monday,
	"tuesday": models.Tuesday, "tue": models.Tuesday, "1": models.Tuesday,
	"wednesday": models.Wednesday, "wed": models.Wednesday, "2": models.Wednesday,
	"thursday": models.Thursday, "thu": models.Thursday, "3": models.Thursday,
	"friday": models.Friday, "fri": models.Friday, "4": models.Friday,
	"saturday": models.Saturday, "sat": models.Saturday, "5": models.Saturday,
}

// Import parses the uploaded timetable and creates templates for the
// active semester. Rows identical to an existing template are skipped,
// so re-uploading a corrected file is safe.
func (tic *TemplateImportController) Import(c *fiber.Ctx) error {
	semester, err := services.GetActiveSemester()
	if err != nil {
		return serviceError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
	}
	defer file.Close()

	filename := strings.ToLower(fileHeader.Filename)
	var rows [][]string
	var parseErr error

	switch {
	case strings.HasSuffix(filename, ".csv"):
		rows, parseErr = readCSVRows(file)
	case strings.HasSuffix(filename, ".xlsx"), strings.HasSuffix(filename, ".xls"):
		tmpDir, _ := os.MkdirTemp("", "ujtimetable-")
		tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeUploadName(fileHeader.Filename)))
		if err := c.SaveFile(fileHeader, tmp); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to buffer upload"})
		}
		rows, parseErr = readXLSXRows(tmp)
		_ = os.Remove(tmp)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type (csv, xlsx)"})
	}
	if parseErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": parseErr.Error()})
	}
	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}

	colIndex := buildTimetableColumnIndex(rows[0])
	required := []string{"discipline", "teacher", "groups", "classroom", "lesson type", "day", "time start", "time end"}
	for _, key := range required {
		if _, ok := colIndex[key]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("missing column: %s", key)})
		}
	}

	parsedRows := make([]templateImportRow, 0, len(rows)-1)
	var parseErrors []string
	for i := 1; i < len(rows); i++ {
		raw := rows[i]
		if isEmptyRow(raw) {
			continue
		}
		r, err := parseTimetableRow(raw, colIndex, i+1)
		if err != nil {
			parseErrors = append(parseErrors, err.Error())
			continue
		}
		parsedRows = append(parsedRows, r)
	}

	if len(parsedRows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no valid data rows found", "parse_errors": parseErrors})
	}

	stats := &templateImportStats{TotalRows: len(parsedRows)}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range parsedRows {
			if err := importTemplateRow(tx, semester, row, stats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "stats": stats})
	}

	middleware.LogActivity(c, "IMPORT", "schedule_templates", semester.ID, fiber.Map{
		"file_name":         fileHeader.Filename,
		"templates_created": stats.TemplatesCreated,
	})

	response := fiber.Map{
		"success":             true,
		"file_name":           fileHeader.Filename,
		"total_rows":          stats.TotalRows,
		"templates_created":   stats.TemplatesCreated,
		"templates_skipped":   stats.TemplatesSkipped,
		"disciplines_created": stats.DisciplinesCreated,
		"groups_created":      stats.GroupsCreated,
		"missing_teachers":    stats.MissingTeachers,
		"parse_errors":        parseErrors,
	}
	if len(stats.MissingTeachers) > 0 {
		response["has_unmatched"] = true
	}

	return c.JSON(response)
}

// --- Parsing helpers ---

func buildTimetableColumnIndex(header []string) map[string]int {
	col := map[string]int{}
	for idx, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		col[key] = idx
		switch key {
		case "subject", "course":
			col["discipline"] = idx
		case "lecturer", "instructor":
			col["teacher"] = idx
		case "group", "student groups":
			col["groups"] = idx
		case "room", "auditorium":
			col["classroom"] = idx
		case "type":
			col["lesson type"] = idx
		case "weekday", "day of week":
			col["day"] = idx
		case "start", "time_start":
			col["time start"] = idx
		case "end", "time_end":
			col["time end"] = idx
		case "week", "parity", "week_type":
			col["week type"] = idx
		}
	}
	return col
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func cellValue(row []string, col map[string]int, key string) string {
	if idx, ok := col[key]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseTimetableRow(row []string, col map[string]int, rowNum int) (templateImportRow, error) {
	dayRaw := strings.ToLower(cellValue(row, col, "day"))
	day, ok := importDayNames[dayRaw]
	if !ok {
		return templateImportRow{}, fmt.Errorf("row %d: unknown weekday %q", rowNum, dayRaw)
	}

	lessonType := strings.ToLower(cellValue(row, col, "lesson type"))
	if !utils.IsValidLessonType(lessonType) {
		return templateImportRow{}, fmt.Errorf("row %d: lesson type must be lecture, seminar or lab", rowNum)
	}

	weekType := strings.ToLower(cellValue(row, col, "week type"))
	if weekType == "" {
		weekType = models.WeekBoth
	}
	if !utils.IsValidWeekType(weekType) {
		return templateImportRow{}, fmt.Errorf("row %d: week type must be even, odd or both", rowNum)
	}

	timeStart := normalizeClock(cellValue(row, col, "time start"))
	timeEnd := normalizeClock(cellValue(row, col, "time end"))
	if !services.IsValidLessonTime(timeStart) || !services.IsValidLessonTime(timeEnd) {
		return templateImportRow{}, fmt.Errorf("row %d: times must be HH:MM", rowNum)
	}
	if timeStart >= timeEnd {
		return templateImportRow{}, fmt.Errorf("row %d: time start must be before time end", rowNum)
	}

	groups := splitGroupList(cellValue(row, col, "groups"))
	if len(groups) == 0 {
		return templateImportRow{}, fmt.Errorf("row %d: missing groups", rowNum)
	}

	parsed := templateImportRow{
		RowNumber:  rowNum,
		Discipline: cellValue(row, col, "discipline"),
		Teacher:    cellValue(row, col, "teacher"),
		Groups:     groups,
		Classroom:  cellValue(row, col, "classroom"),
		LessonType: lessonType,
		DayOfWeek:  day,
		TimeStart:  timeStart,
		TimeEnd:    timeEnd,
		WeekType:   weekType,
	}
	if parsed.Discipline == "" || parsed.Teacher == "" || parsed.Classroom == "" {
		return templateImportRow{}, fmt.Errorf("row %d: discipline, teacher and classroom are required", rowNum)
	}
	return parsed, nil
}

// normalizeClock pads single-digit hours and strips seconds, so "9:00"
// and "09:00:00" both become "09:00".
func normalizeClock(value string) string {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return value
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return value
	}
	minutes := parts[1]
	if len(minutes) > 2 {
		minutes = minutes[:2]
	}
	return fmt.Sprintf("%02d:%s", hour, minutes)
}

func splitGroupList(raw string) []string {
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, ";", ",")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// --- Processing ---

func importTemplateRow(tx *gorm.DB, semester *models.Semester, row templateImportRow, stats *templateImportStats) error {
	teacher, err := findTeacherByName(tx, row.Teacher)
	if err != nil {
		stats.MissingTeachers = appendUniqueName(stats.MissingTeachers, row.Teacher)
		return nil
	}

	discipline, created, err := findOrCreateDiscipline(tx, row.Discipline)
	if err != nil {
		return fmt.Errorf("row %d: %w", row.RowNumber, err)
	}
	if created {
		stats.DisciplinesCreated++
	}

	groups := make([]models.Group, 0, len(row.Groups))
	for _, name := range row.Groups {
		group, created, err := findOrCreateGroupByName(tx, name)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.RowNumber, err)
		}
		if created {
			stats.GroupsCreated++
		}
		groups = append(groups, *group)
	}

	var existing int64
	err = tx.Model(&models.ScheduleTemplate{}).
		Where("semester_id = ? AND discipline_id = ? AND teacher_id = ? AND day_of_week = ? AND time_start = ? AND week_type = ?",
			semester.ID, discipline.ID, teacher.ID, row.DayOfWeek, row.TimeStart, row.WeekType).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		stats.TemplatesSkipped++
		return nil
	}

	template := models.ScheduleTemplate{
		SemesterID:   semester.ID,
		DisciplineID: discipline.ID,
		TeacherID:    teacher.ID,
		Classroom:    row.Classroom,
		LessonType:   row.LessonType,
		DayOfWeek:    row.DayOfWeek,
		TimeStart:    row.TimeStart,
		TimeEnd:      row.TimeEnd,
		WeekType:     row.WeekType,
		IsStream:     len(groups) > 1,
	}
	if err := tx.Create(&template).Error; err != nil {
		return err
	}
	if err := tx.Model(&template).Association("Groups").Replace(groups); err != nil {
		return err
	}
	stats.TemplatesCreated++
	return nil
}

func findTeacherByName(tx *gorm.DB, name string) (*models.User, error) {
	name = strings.Join(strings.Fields(name), " ")
	var teacher models.User
	err := tx.Where("role = ? AND (full_name = ? OR username = ?)", models.RoleTeacher, name, name).
		First(&teacher).Error
	if err == nil {
		return &teacher, nil
	}
	err = tx.Where("role = ? AND full_name LIKE ?", models.RoleTeacher, "%"+name+"%").
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func findOrCreateDiscipline(tx *gorm.DB, name string) (*models.Discipline, bool, error) {
	var discipline models.Discipline
	err := tx.Where("name = ?", name).First(&discipline).Error
	if err == nil {
		return &discipline, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}
	discipline = models.Discipline{Name: name}
	if err := tx.Create(&discipline).Error; err != nil {
		return nil, false, err
	}
	return &discipline, true, nil
}

func findOrCreateGroupByName(tx *gorm.DB, name string) (*models.Group, bool, error) {
	var group models.Group
	err := tx.Where("name = ?", name).First(&group).Error
	if err == nil {
		return &group, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}
	group = models.Group{Name: name}
	if err := tx.Create(&group).Error; err != nil {
		return nil, false, err
	}
	return &group, true, nil
}

func appendUniqueName(slice []string, value string) []string {
	if value == "" {
		return slice
	}
	for _, v := range slice {
		if strings.EqualFold(v, value) {
			return slice
		}
	}
	return append(slice, value)
}

// --- File readers ---

func readCSVRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sht := f.GetSheetName(0)
	if sht == "" {
		sht = "Sheet1"
	}
	return f.GetRows(sht)
}

func sanitizeUploadName(name string) string {
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	return name
}
