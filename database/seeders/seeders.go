package seeders

import (
	"fmt"
	"log"
	"time"

	"unijournal_go/database"
	"unijournal_go/models"
	"unijournal_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedDisciplines()
	SeedGroups()
	SeedStudents()
	SeedSemester()
	SeedTemplates()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds an administrator and a few teachers
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	adminPassword, _ := utils.HashPassword("admin123")
	teacherPassword, _ := utils.HashPassword("teacher123")

	users := []models.User{
		{Username: "admin", Password: adminPassword, FullName: "Administrator", Role: models.RoleAdmin},
		{Username: "ivanova", Password: teacherPassword, FullName: "E. V. Ivanova", Role: models.RoleTeacher},
		{Username: "petrov", Password: teacherPassword, FullName: "A. S. Petrov", Role: models.RoleTeacher},
		{Username: "sidorova", Password: teacherPassword, FullName: "M. K. Sidorova", Role: models.RoleTeacher},
	}
	if err := database.DB.Create(&users).Error; err != nil {
		log.Printf("Failed to seed users: %v", err)
		return
	}

	log.Printf("Seeded %d users", len(users))
}

// SeedDisciplines seeds the disciplines and teacher assignments
func SeedDisciplines() {
	var count int64
	database.DB.Model(&models.Discipline{}).Count(&count)
	if count > 0 {
		log.Println("Disciplines already seeded, skipping...")
		return
	}

	disciplines := []models.Discipline{
		{Name: "Mathematical Analysis"},
		{Name: "Linear Algebra"},
		{Name: "Programming Fundamentals"},
		{Name: "Physics"},
	}
	if err := database.DB.Create(&disciplines).Error; err != nil {
		log.Printf("Failed to seed disciplines: %v", err)
		return
	}

	var teachers []models.User
	database.DB.Where("role = ?", models.RoleTeacher).Order("id ASC").Find(&teachers)
	links := make([]models.TeacherDiscipline, 0, len(disciplines))
	for i, d := range disciplines {
		if len(teachers) == 0 {
			break
		}
		links = append(links, models.TeacherDiscipline{
			TeacherID:    teachers[i%len(teachers)].ID,
			DisciplineID: d.ID,
		})
	}
	if len(links) > 0 {
		database.DB.Create(&links)
	}

	log.Printf("Seeded %d disciplines", len(disciplines))
}

// SeedGroups seeds the academic groups
func SeedGroups() {
	var count int64
	database.DB.Model(&models.Group{}).Count(&count)
	if count > 0 {
		log.Println("Groups already seeded, skipping...")
		return
	}

	groups := []models.Group{
		{Name: "CS-101"},
		{Name: "CS-102"},
		{Name: "MATH-201"},
	}
	if err := database.DB.Create(&groups).Error; err != nil {
		log.Printf("Failed to seed groups: %v", err)
		return
	}

	log.Printf("Seeded %d groups", len(groups))
}

// SeedStudents seeds a small roster for each group
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	var groups []models.Group
	database.DB.Order("id ASC").Find(&groups)
	if len(groups) == 0 {
		return
	}

	students := make([]models.Student, 0, len(groups)*5)
	for _, g := range groups {
		for i := 1; i <= 5; i++ {
			students = append(students, models.Student{
				FullName: fmt.Sprintf("%s Student %02d", g.Name, i),
				GroupID:  g.ID,
			})
		}
	}
	if err := database.DB.Create(&students).Error; err != nil {
		log.Printf("Failed to seed students: %v", err)
		return
	}

	log.Printf("Seeded %d students", len(students))
}

// SeedSemester seeds one active semester around the current date
func SeedSemester() {
	var count int64
	database.DB.Model(&models.Semester{}).Count(&count)
	if count > 0 {
		log.Println("Semesters already seeded, skipping...")
		return
	}

	now := time.Now().UTC()
	// Semesters start on a Monday so week parity lines up with the
	// academic calendar.
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}
	start = start.AddDate(0, 0, -28)

	semester := models.Semester{
		Name:      fmt.Sprintf("Semester %d", now.Year()),
		StartDate: start,
		EndDate:   start.AddDate(0, 4, 0),
		IsActive:  true,
	}
	if err := database.DB.Create(&semester).Error; err != nil {
		log.Printf("Failed to seed semester: %v", err)
		return
	}

	log.Printf("Seeded active semester %q starting %s", semester.Name, start.Format("2006-01-02"))
}

// SeedTemplates seeds a weekly grid covering both parities and a stream
// lecture shared by two groups
func SeedTemplates() {
	var count int64
	database.DB.Model(&models.ScheduleTemplate{}).Count(&count)
	if count > 0 {
		log.Println("Templates already seeded, skipping...")
		return
	}

	var semester models.Semester
	if err := database.DB.Where("is_active = ?", true).First(&semester).Error; err != nil {
		return
	}
	var disciplines []models.Discipline
	database.DB.Order("id ASC").Find(&disciplines)
	var teachers []models.User
	database.DB.Where("role = ?", models.RoleTeacher).Order("id ASC").Find(&teachers)
	var groups []models.Group
	database.DB.Order("id ASC").Find(&groups)
	if len(disciplines) < 3 || len(teachers) < 2 || len(groups) < 2 {
		return
	}

	templates := []struct {
		tpl    models.ScheduleTemplate
		groups []models.Group
	}{
		{
			tpl: models.ScheduleTemplate{
				SemesterID: semester.ID, DisciplineID: disciplines[0].ID, TeacherID: teachers[0].ID,
				Classroom: "101", LessonType: models.LessonLecture, DayOfWeek: models.Monday,
				TimeStart: "09:00", TimeEnd: "10:30", WeekType: models.WeekBoth, IsStream: true,
			},
			groups: []models.Group{groups[0], groups[1]},
		},
		{
			tpl: models.ScheduleTemplate{
				SemesterID: semester.ID, DisciplineID: disciplines[1].ID, TeacherID: teachers[1].ID,
				Classroom: "204", LessonType: models.LessonSeminar, DayOfWeek: models.Tuesday,
				TimeStart: "10:45", TimeEnd: "12:15", WeekType: models.WeekEven,
			},
			groups: []models.Group{groups[0]},
		},
		{
			tpl: models.ScheduleTemplate{
				SemesterID: semester.ID, DisciplineID: disciplines[2].ID, TeacherID: teachers[1].ID,
				Classroom: "204", LessonType: models.LessonLab, DayOfWeek: models.Tuesday,
				TimeStart: "10:45", TimeEnd: "12:15", WeekType: models.WeekOdd,
			},
			groups: []models.Group{groups[0]},
		},
	}

	for _, entry := range templates {
		tpl := entry.tpl
		if err := database.DB.Create(&tpl).Error; err != nil {
			log.Printf("Failed to seed template: %v", err)
			continue
		}
		if err := database.DB.Model(&tpl).Association("Groups").Replace(entry.groups); err != nil {
			log.Printf("Failed to link template groups: %v", err)
		}
	}

	log.Printf("Seeded %d schedule templates", len(templates))
}
