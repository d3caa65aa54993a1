package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/todaysfinds/tkd-car/database"
	"github.com/todaysfinds/tkd-car/models"
	"github.com/todaysfinds/tkd-car/services"
)

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler { return &AttendanceHandler{} }

// POST /attendance/toggle  { student_id, date, channel, status }
// Creates the day's record lazily (both channels pending) before applying
// the transition; requesting the current status undoes it back to pending.
func (h *AttendanceHandler) Toggle(c echo.Context) error {
	var req struct {
		StudentID uint   `json:"student_id"`
		Date      string `json:"date"`
		Channel   string `json:"channel"`
		Status    string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.StudentID == 0 || req.Date == "" || req.Status == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	if !validDate(req.Date) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}
	if req.Channel == "" {
		req.Channel = string(services.ChannelPickup)
	}
	if !services.ValidChannel(req.Channel) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_CHANNEL"})
	}

	var st models.Student
	if err := database.DB.First(&st, "id = ?", req.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	var rec models.AttendanceRecord
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND date = ?", req.StudentID, req.Date).First(&rec).Error
		if err == gorm.ErrRecordNotFound {
			rec = services.NewAttendanceRecord(req.StudentID, req.Date)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		services.ApplyToggle(&rec, services.Channel(req.Channel), req.Status)
		return tx.Save(&rec).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "TOGGLE_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"student_id":     rec.StudentID,
		"date":           rec.Date,
		"pickup_status":  rec.PickupStatus,
		"dropoff_status": rec.DropoffStatus,
	})
}

// GET /attendance?start=YYYY-MM-DD&end=YYYY-MM-DD&student_id=&statuses=
func (h *AttendanceHandler) List(c echo.Context) error {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	studentID := strings.TrimSpace(c.QueryParam("student_id"))
	statuses := strings.TrimSpace(c.QueryParam("statuses"))

	tx := database.DB.Model(&models.AttendanceRecord{})
	if start != "" && end != "" {
		tx = tx.Where("date >= ? AND date <= ?", start, end)
	}
	if studentID != "" {
		tx = tx.Where("student_id = ?", studentID)
	}
	if statuses != "" {
		if parts := splitCSV(statuses); len(parts) > 0 {
			tx = tx.Where("pickup_status IN ? OR dropoff_status IN ?", parts, parts)
		}
	}

	var rows []models.AttendanceRecord
	if err := tx.Order("date ASC, student_id ASC, id ASC").Find(&rows).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusOK, []models.AttendanceRecord{})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /attendance/daily?date=YYYY-MM-DD
// One day's records, overlaid with approved absence requests: students with
// an approved exemption that covers the date show up in "absences" with the
// affected channel, even if no attendance row exists yet.
func (h *AttendanceHandler) Daily(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = today()
	}
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}

	var rows []models.AttendanceRecord
	if err := database.DB.Where("date = ?", date).
		Order("student_id ASC").Find(&rows).Error; err != nil && err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	var reqs []models.AbsenceRequest
	if err := database.DB.
		Where("status = ?", models.RequestApproved).
		Where("start_date <= ?", date).
		Where("(end_date = '' AND start_date = ?) OR end_date >= ?", date, date).
		Find(&reqs).Error; err != nil && err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	absences := make([]map[string]any, 0, len(reqs))
	for _, r := range reqs {
		if !services.ExcludedOnDate(r, date) {
			continue
		}
		channels := []string{string(services.ChannelPickup), string(services.ChannelDropoff)}
		switch r.Type {
		case models.RequestPickupSkip:
			channels = []string{string(services.ChannelPickup)}
		case models.RequestDropoffSkip:
			channels = []string{string(services.ChannelDropoff)}
		}
		absences = append(absences, map[string]any{
			"request_id": r.ID,
			"student_id": r.StudentID,
			"type":       r.Type,
			"channels":   channels,
			"reason":     r.Reason,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":     date,
		"rows":     rows,
		"absences": absences,
	})
}
