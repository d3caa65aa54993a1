package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/todaysfinds/tkd-car/database"
	"github.com/todaysfinds/tkd-car/models"
	"github.com/todaysfinds/tkd-car/services"
)

type AbsenceHandler struct{}

func NewAbsenceHandler() *AbsenceHandler { return &AbsenceHandler{} }

type absencePayload struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=absence pickup_skip dropoff_skip"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"max=100"`
	Memo      string `json:"memo" validate:"max=500"`
}

// POST /parent/absence — parent-facing, no auth (matches the paper form it
// replaced). Requests start pending; staff decide later.
func (h *AbsenceHandler) Submit(c echo.Context) error {
	var p absencePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	if p.EndDate != "" && p.EndDate < p.StartDate {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE_RANGE"})
	}

	var st models.Student
	if err := database.DB.First(&st, "id = ?", p.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	req := models.AbsenceRequest{
		StudentID: p.StudentID,
		Type:      p.Type,
		Reason:    strings.TrimSpace(p.Reason),
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Memo:      strings.TrimSpace(p.Memo),
		Status:    models.RequestPending,
	}
	if err := database.DB.Create(&req).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, req)
}

// GET /parent/absence/active?student_id=&date=
// Whether the student still rides on the given day. An approved request
// covering the date excludes them (active=false). Validity is evaluated at
// read time, nothing is ever auto-expired.
func (h *AbsenceHandler) ActiveOnDate(c echo.Context) error {
	studentID := atoiOr(c.QueryParam("student_id"), 0)
	if studentID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = today()
	}
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}

	var reqs []models.AbsenceRequest
	if err := database.DB.
		Where("student_id = ? AND status = ?", studentID, models.RequestApproved).
		Find(&reqs).Error; err != nil && err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	for _, r := range reqs {
		if services.ExcludedOnDate(r, date) {
			return c.JSON(http.StatusOK, map[string]any{
				"active":     false,
				"request_id": r.ID,
				"type":       r.Type,
				"date":       date,
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"active": true, "date": date})
}

// GET /admin/absence-requests?status=&type=&student_id=&from=&to=&q=&page=&size=
func (h *AbsenceHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	typ := strings.TrimSpace(c.QueryParam("type"))
	studentID := strings.TrimSpace(c.QueryParam("student_id"))
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	q := strings.TrimSpace(c.QueryParam("q"))

	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 10)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	tx := database.DB.Model(&models.AbsenceRequest{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if typ != "" {
		tx = tx.Where("type = ?", typ)
	}
	if studentID != "" {
		tx = tx.Where("student_id = ?", studentID)
	}
	if from != "" && to != "" {
		// range overlap: start <= to AND (end or start) >= from
		tx = tx.Where("start_date <= ? AND (CASE WHEN end_date = '' THEN start_date ELSE end_date END) >= ?", to, from)
	}
	if q != "" {
		tx = tx.Where("reason ILIKE ?", "%"+q+"%")
	}

	var rows []models.AbsenceRequest
	offset := (page - 1) * size
	if err := tx.Order("created_at DESC, id DESC").Offset(offset).Limit(size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/absence-requests/pending-count
func (h *AbsenceHandler) PendingCount(c echo.Context) error {
	var n int64
	if err := database.DB.Model(&models.AbsenceRequest{}).
		Where("status = ?", models.RequestPending).Count(&n).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"count": n})
}

type decisionReq struct {
	RejectReason string `json:"reject_reason"`
}

// POST /admin/absence-requests/:id/approve
func (h *AbsenceHandler) Approve(c echo.Context) error {
	return h.decide(c, models.RequestApproved, decisionReq{})
}

// POST /admin/absence-requests/:id/reject — a reason is mandatory
func (h *AbsenceHandler) Reject(c echo.Context) error {
	var body decisionReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	return h.decide(c, models.RequestRejected, body)
}

func (h *AbsenceHandler) decide(c echo.Context, status string, body decisionReq) error {
	var row models.AbsenceRequest
	if err := database.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	if status == models.RequestRejected && strings.TrimSpace(body.RejectReason) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "REJECT_REASON_REQUIRED"})
	}

	now := time.Now()
	updates := map[string]any{
		"status":     status,
		"decided_at": &now,
	}
	if uid, ok := getUserID(c); ok && uid > 0 {
		updates["decided_by"] = uid
	}
	if status == models.RequestRejected {
		updates["reject_reason"] = strings.TrimSpace(body.RejectReason)
	} else {
		updates["reject_reason"] = ""
	}

	if err := database.DB.Model(&models.AbsenceRequest{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "status": status})
}

// user_id comes from the JWT middleware when the route is authenticated
func getUserID(c echo.Context) (uint, bool) {
	switch v := c.Get("user_id").(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	default:
		return 0, false
	}
}
