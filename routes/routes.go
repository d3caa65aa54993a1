package routes

import (
	"os"

	"github.com/labstack/echo/v4"

	"github.com/todaysfinds/tkd-car/handlers"
	"github.com/todaysfinds/tkd-car/middlewares"
)

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(e *echo.Echo) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler()
	std := handlers.NewStudentHandler()
	sch := handlers.NewScheduleHandler()
	att := handlers.NewAttendanceHandler()
	abs := handlers.NewAbsenceHandler()
	loc := handlers.NewLocationHandler()
	ct := handlers.NewContactHandler()

	e.GET("/health", handlers.Health)

	// ===== Public Auth =====
	e.POST("/admin/login", auth.StaffLogin)
	e.POST("/auth/staff/login", auth.StaffLogin)

	// ===== Driver board (the in-car tablet has no login) =====
	e.GET("/schedule/board", sch.Board)
	e.POST("/attendance/toggle", att.Toggle)
	e.GET("/attendance/daily", att.Daily)

	// Quick call + parent contact, used from the same tablet
	e.POST("/contact/parent", ct.ContactParent)
	e.POST("/contact/message", ct.SendMessageTemplate)
	e.POST("/quick-call/dial", ct.QuickCall)
	e.GET("/quick-call/numbers", ct.ListQuickCallNumbers)

	// ===== Parent absence form (public link sent to parents) =====
	e.POST("/parent/absence", abs.Submit)
	e.GET("/parent/absence/active", abs.ActiveOnDate)

	// ===== Protected groups =====
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}
	authMW := middlewares.RequireAuth(secret)

	// ===== Admin routes =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))

	admin.GET("/students", std.List)
	admin.GET("/students/:id", std.Get)
	admin.POST("/students", std.Create)
	admin.PUT("/students/:id", std.Update)
	admin.DELETE("/students/:id", std.Delete)
	admin.POST("/students/check-name", std.CheckDuplicateName)
	admin.PUT("/students/:id/contact-settings", std.UpdateContactSettings)

	admin.POST("/schedule/entries", sch.AddEntry)
	admin.POST("/schedule/entries/bulk", sch.AddEntriesBulk)
	admin.DELETE("/schedule/entries", sch.RemoveEntry)
	admin.POST("/schedule/slots", sch.CreateSlot)
	admin.PUT("/schedule/locations/rename", sch.RenameLocation)
	admin.DELETE("/schedule/locations", sch.DeleteLocation)
	admin.POST("/schedule/cleanup-duplicates", sch.CleanupDuplicates)

	admin.GET("/attendance", att.List)

	admin.GET("/absence-requests", abs.List)
	admin.GET("/absence-requests/pending-count", abs.PendingCount)
	admin.POST("/absence-requests/:id/approve", abs.Approve)
	admin.POST("/absence-requests/:id/reject", abs.Reject)

	admin.GET("/locations", loc.List)
	admin.POST("/locations", loc.Add)
	admin.DELETE("/locations/:name", loc.Delete)
	admin.PUT("/locations/:name", loc.Rename)
	admin.GET("/locations/groups", loc.Groups)

	admin.POST("/quick-call/numbers", ct.CreateQuickCallNumber)
	admin.PUT("/quick-call/numbers/:id", ct.UpdateQuickCallNumber)
	admin.DELETE("/quick-call/numbers/:id", ct.DeleteQuickCallNumber)

	admin.GET("/kakao-settings", ct.GetKakaoSettings)
	admin.PUT("/kakao-settings", ct.UpdateKakaoSettings)
}
