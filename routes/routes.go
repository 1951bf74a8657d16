package routes

import (
	"unijournal_go/controllers"
	"unijournal_go/middleware"
	"unijournal_go/services"
	"unijournal_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	teacherController := &controllers.TeacherController{}
	studentController := &controllers.StudentController{}
	groupController := &controllers.GroupController{}
	disciplineController := &controllers.DisciplineController{}
	semesterController := &controllers.SemesterController{}
	templateController := &controllers.TemplateController{}
	templateImportController := &controllers.TemplateImportController{}
	scheduleController := &controllers.ScheduleController{}
	recordController := &controllers.RecordController{}
	attendanceController := &controllers.AttendanceController{}
	reportController := &controllers.ReportController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController(services.NewHealthService("Academic Journal API", "1.0.0"))
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	// Health endpoint (no authentication)
	api.Get("/health", healthController.GetHealthStatus)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management routes (admin)
	users := protected.Group("/users", middleware.RequireAdmin())
	users.Get("/", userController.GetUsers)
	users.Get("/:id", userController.GetUser)
	users.Post("/", authController.Register)
	users.Put("/:id", userController.UpdateUser)
	users.Put("/:id/password", userController.ResetPassword)
	users.Delete("/:id", userController.DeleteUser)

	// Teacher routes
	teachers := protected.Group("/teachers")
	teachers.Get("/", teacherController.GetTeachers)
	teachers.Get("/:id", teacherController.GetTeacher)
	teachers.Post("/:id/disciplines", middleware.RequireAdmin(), teacherController.AssignDiscipline)
	teachers.Delete("/:id/disciplines/:discipline_id", middleware.RequireAdmin(), teacherController.UnassignDiscipline)

	// Group routes
	groups := protected.Group("/groups")
	groups.Get("/", groupController.GetGroups)
	groups.Get("/:id", groupController.GetGroup)
	groups.Post("/", middleware.RequireAdmin(), groupController.CreateGroup)
	groups.Put("/:id", middleware.RequireAdmin(), groupController.UpdateGroup)
	groups.Delete("/:id", middleware.RequireAdmin(), groupController.DeleteGroup)
	groups.Get("/:id/report", reportController.GetGroupReport)
	groups.Get("/:id/report/csv", reportController.GetGroupReportCSV)

	// Discipline routes
	disciplines := protected.Group("/disciplines")
	disciplines.Get("/", disciplineController.GetDisciplines)
	disciplines.Get("/:id", disciplineController.GetDiscipline)
	disciplines.Post("/", middleware.RequireAdmin(), disciplineController.CreateDiscipline)
	disciplines.Put("/:id", middleware.RequireAdmin(), disciplineController.UpdateDiscipline)
	disciplines.Delete("/:id", middleware.RequireAdmin(), disciplineController.DeleteDiscipline)

	// Student routes
	students := protected.Group("/students")
	students.Get("/", studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Post("/", middleware.RequireAdmin(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireAdmin(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireAdmin(), studentController.DeleteStudent)
	students.Get("/:id/records", recordController.GetStudentRecords)
	students.Post("/:id/face", middleware.RequireAdmin(), studentController.EnrollFace)
	students.Delete("/:id/face", middleware.RequireAdmin(), studentController.DeleteFace)
	students.Post("/:id/fingerprint", middleware.RequireAdmin(), studentController.EnrollFingerprint)
	students.Delete("/:id/fingerprint", middleware.RequireAdmin(), studentController.DeleteFingerprint)

	// Semester routes
	semesters := protected.Group("/semesters")
	semesters.Get("/", semesterController.GetSemesters)
	semesters.Get("/active", semesterController.GetActiveSemester)
	semesters.Post("/", middleware.RequireAdmin(), semesterController.CreateSemester)
	semesters.Put("/:id", middleware.RequireAdmin(), semesterController.UpdateSemester)
	semesters.Patch("/:id/activate", middleware.RequireAdmin(), semesterController.ActivateSemester)
	semesters.Delete("/:id", middleware.RequireAdmin(), semesterController.DeleteSemester)

	// Template routes
	templates := protected.Group("/templates")
	templates.Get("/", templateController.GetTemplates)
	templates.Get("/:id", templateController.GetTemplate)
	templates.Post("/", middleware.RequireAdmin(), templateController.CreateTemplate)
	templates.Put("/:id", middleware.RequireAdmin(), templateController.UpdateTemplate)
	templates.Delete("/:id", middleware.RequireAdmin(), templateController.DeleteTemplate)
	templates.Post("/import", middleware.RequireAdmin(), templateImportController.Import)

	// Schedule routes (dated instances)
	schedules := protected.Group("/schedules")
	schedules.Get("/", scheduleController.GetInstances)
	schedules.Post("/generate", middleware.RequireAdmin(), scheduleController.Generate)
	schedules.Post("/regenerate-future", middleware.RequireAdmin(), scheduleController.RegenerateFuture)
	schedules.Get("/:id", scheduleController.GetInstance)
	schedules.Get("/:id/records", recordController.GetRecords)
	schedules.Patch("/:id/cancel", middleware.RequireAdmin(), scheduleController.CancelInstance)
	schedules.Patch("/:id/restore", middleware.RequireAdmin(), scheduleController.RestoreInstance)
	schedules.Patch("/:id/override", middleware.RequireAdmin(), scheduleController.OverrideInstance)

	// Journal record routes
	records := protected.Group("/records")
	records.Post("/", middleware.RequireTeacherOrAdmin(), recordController.UpsertRecord)

	// Detector routes. Scanner devices authenticate with service accounts.
	attendance := protected.Group("/attendance")
	attendance.Get("/locate", attendanceController.LocateLesson)
	attendance.Post("/face-scan", attendanceController.FaceScan)
	attendance.Post("/fingerprint", attendanceController.FingerprintCheckIn)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)

	// Log routes (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)
	logs.Post("/archive", logController.TriggerArchive)

	// WebSocket routes
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)

	// WebSocket connection endpoint - use websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}
