package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/todaysfinds/tkd-car/database"
	"github.com/todaysfinds/tkd-car/models"
	"github.com/todaysfinds/tkd-car/services"
)

type ContactHandler struct{}

func NewContactHandler() *ContactHandler { return &ContactHandler{} }

func loadKakaoSettings() *models.KakaoSettings {
	var s models.KakaoSettings
	if err := database.DB.First(&s).Error; err != nil {
		return nil
	}
	return &s
}

// POST /contact/parent  { student_id, channel, message, message_type }
// channel phone → ordered call options; kakao → templated (simulated) send;
// both → the student's stored preference picks.
func (h *ContactHandler) ContactParent(c echo.Context) error {
	var req struct {
		StudentID   uint   `json:"student_id"`
		Channel     string `json:"channel"`
		Message     string `json:"message"`
		MessageType string `json:"message_type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.Channel == "" {
		req.Channel = "phone"
	}
	if req.MessageType == "" {
		req.MessageType = services.MessagePickup
	}

	var st models.Student
	if err := database.DB.First(&st, "id = ?", req.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	if !st.AllowContact {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "CONTACT_NOT_ALLOWED"})
	}

	pref := st.ContactPreference
	if pref == "" {
		pref = "phone"
	}

	if req.Channel == "kakao" || (req.Channel == "both" && strings.Contains(pref, "kakao")) {
		message := req.Message
		if req.MessageType != services.MessageCustom {
			message = services.MessageFor(st, req.MessageType)
		}
		res := services.SendKakao(st, message, loadKakaoSettings(), time.Now())
		return c.JSON(http.StatusOK, res)
	}

	contacts, err := services.ResolveContacts(st)
	if err != nil {
		if errors.Is(err, services.ErrNoContact) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NO_CONTACT_AVAILABLE"})
		}
		return c.JSON(http.StatusForbidden, map[string]any{"error": "CONTACT_NOT_ALLOWED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"action":            "call",
		"student_name":      st.Name,
		"contacts":          contacts,
		"preferred_contact": pref,
	})
}

// POST /contact/message  { student_id, message_type, custom_message }
func (h *ContactHandler) SendMessageTemplate(c echo.Context) error {
	var req struct {
		StudentID     uint   `json:"student_id"`
		MessageType   string `json:"message_type"`
		CustomMessage string `json:"custom_message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.MessageType == "" {
		req.MessageType = services.MessagePickup
	}

	var st models.Student
	if err := database.DB.First(&st, "id = ?", req.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	if !st.AllowContact {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "CONTACT_NOT_ALLOWED"})
	}

	message := services.MessageFor(st, req.MessageType)
	if req.MessageType == services.MessageCustom && req.CustomMessage != "" {
		message = req.CustomMessage
	}

	res := services.SendKakao(st, message, loadKakaoSettings(), time.Now())
	return c.JSON(http.StatusOK, res)
}

// POST /quick-call/dial  { category, location, number }
func (h *ContactHandler) QuickCall(c echo.Context) error {
	var req struct {
		Category string `json:"category"`
		Location string `json:"location"`
		Number   string `json:"number"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	if n := strings.TrimSpace(req.Number); n != "" {
		// direct dial, nothing to look up
		return c.JSON(http.StatusOK, map[string]any{
			"action":   "call",
			"tel_link": "tel:" + n,
			"display":  n,
		})
	}

	tx := database.DB.Model(&models.QuickCallNumber{}).Where("is_active = ?", true)
	if req.Category != "" {
		tx = tx.Where("category = ?", req.Category)
	}
	if req.Location != "" && req.Category == "location" {
		tx = tx.Where("location = ?", req.Location)
	}

	var numbers []models.QuickCallNumber
	if err := tx.Order("priority DESC, name ASC").Find(&numbers).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	if len(numbers) == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NO_NUMBERS"})
	}
	if len(numbers) == 1 {
		n := numbers[0]
		return c.JSON(http.StatusOK, map[string]any{
			"action":      "call",
			"tel_link":    "tel:" + n.PhoneNumber,
			"display":     n.Name + " (" + n.PhoneNumber + ")",
			"description": n.Description,
		})
	}

	options := make([]map[string]any, 0, len(numbers))
	for _, n := range numbers {
		options = append(options, map[string]any{
			"id":           n.ID,
			"name":         n.Name,
			"phone_number": n.PhoneNumber,
			"description":  n.Description,
			"tel_link":     "tel:" + n.PhoneNumber,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"action": "select", "options": options})
}

// GET /quick-call/numbers?category=&location=
// grouped by category for the driver UI
func (h *ContactHandler) ListQuickCallNumbers(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	location := strings.TrimSpace(c.QueryParam("location"))

	tx := database.DB.Model(&models.QuickCallNumber{}).Where("is_active = ?", true)
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if location != "" {
		tx = tx.Where("location = ? OR category IN ?", location, []string{"school", "daycare", "emergency"})
	}

	var numbers []models.QuickCallNumber
	if err := tx.Order("priority DESC, name ASC").Find(&numbers).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	grouped := map[string][]models.QuickCallNumber{}
	for _, n := range numbers {
		grouped[n.Category] = append(grouped[n.Category], n)
	}
	return c.JSON(http.StatusOK, map[string]any{"numbers": grouped})
}

type quickCallPayload struct {
	Category    string `json:"category" validate:"required,oneof=school daycare emergency location custom"`
	Name        string `json:"name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Location    string `json:"location" validate:"max=100"`
	Description string `json:"description" validate:"max=200"`
	Priority    int    `json:"priority"`
	IsActive    *bool  `json:"is_active"`
}

// POST /quick-call/numbers
func (h *ContactHandler) CreateQuickCallNumber(c echo.Context) error {
	var p quickCallPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}

	n := models.QuickCallNumber{
		Category:    p.Category,
		Name:        strings.TrimSpace(p.Name),
		PhoneNumber: strings.TrimSpace(p.PhoneNumber),
		Location:    strings.TrimSpace(p.Location),
		Description: strings.TrimSpace(p.Description),
		Priority:    p.Priority,
		IsActive:    true,
	}
	if p.IsActive != nil {
		n.IsActive = *p.IsActive
	}
	if err := database.DB.Create(&n).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, n)
}

// PUT /quick-call/numbers/:id
func (h *ContactHandler) UpdateQuickCallNumber(c echo.Context) error {
	var n models.QuickCallNumber
	if err := database.DB.First(&n, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	var p quickCallPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}

	n.Category = p.Category
	n.Name = strings.TrimSpace(p.Name)
	n.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	n.Location = strings.TrimSpace(p.Location)
	n.Description = strings.TrimSpace(p.Description)
	n.Priority = p.Priority
	if p.IsActive != nil {
		n.IsActive = *p.IsActive
	}
	if err := database.DB.Save(&n).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, n)
}

// DELETE /quick-call/numbers/:id
func (h *ContactHandler) DeleteQuickCallNumber(c echo.Context) error {
	res := database.DB.Delete(&models.QuickCallNumber{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /admin/kakao-settings — the singleton row, created on first read
func (h *ContactHandler) GetKakaoSettings(c echo.Context) error {
	var s models.KakaoSettings
	if err := database.DB.First(&s).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, s)
}

// PUT /admin/kakao-settings
func (h *ContactHandler) UpdateKakaoSettings(c echo.Context) error {
	var req struct {
		BusinessID *string `json:"business_id"`
		APIKey     *string `json:"api_key"`
		TemplateID *string `json:"template_id"`
		SenderKey  *string `json:"sender_key"`
		IsActive   *bool   `json:"is_active"`
		TestMode   *bool   `json:"test_mode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	var s models.KakaoSettings
	if err := database.DB.First(&s).Error; err != nil && err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	if req.BusinessID != nil {
		s.BusinessID = *req.BusinessID
	}
	if req.APIKey != nil {
		s.APIKey = *req.APIKey
	}
	if req.TemplateID != nil {
		s.TemplateID = *req.TemplateID
	}
	if req.SenderKey != nil {
		s.SenderKey = *req.SenderKey
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if req.TestMode != nil {
		s.TestMode = *req.TestMode
	}

	if err := database.DB.Save(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
