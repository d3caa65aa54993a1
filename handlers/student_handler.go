package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/todaysfinds/tkd-car/database"
	"github.com/todaysfinds/tkd-car/models"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

// ===== Validation rules =====
var (
	stuRePhone = regexp.MustCompile(`^[0-9\-\s]+$`)
	stuReYear  = regexp.MustCompile(`^[0-9]{4}$`)
)

type studentPayload struct {
	Name              string `json:"name"`
	Grade             string `json:"grade"` // birth year
	Phone             string `json:"phone"`
	Phone2            string `json:"phone_2"`
	EmergencyContact  string `json:"emergency_contact"`
	PickupLocation    string `json:"pickup_location"`
	SessionPart       int    `json:"session_part"`
	IsPrivateCar      bool   `json:"is_private_car"`
	AllowContact      *bool  `json:"allow_contact"`
	ContactPreference string `json:"contact_preference"`
	Memo              string `json:"memo"`
}

func (p *studentPayload) normalize() {
	trim := func(s string) string { return strings.TrimSpace(s) }
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Grade = trim(p.Grade)
	p.Phone = trim(p.Phone)
	p.Phone2 = trim(p.Phone2)
	p.EmergencyContact = trim(p.EmergencyContact)
	p.PickupLocation = trim(p.PickupLocation)
	p.ContactPreference = trim(p.ContactPreference)
	p.Memo = trim(p.Memo)
}

func validateStudent(p *studentPayload) map[string]string {
	errs := map[string]string{}

	n := utf8.RuneCountInString(p.Name)
	if n < 2 || n > 10 {
		errs["name"] = "이름은 2~10글자여야 합니다"
	}
	if p.Grade != "" && !stuReYear.MatchString(p.Grade) {
		errs["grade"] = "출생년도는 4자리 숫자여야 합니다"
	}
	for field, v := range map[string]string{
		"phone":             p.Phone,
		"phone_2":           p.Phone2,
		"emergency_contact": p.EmergencyContact,
	} {
		if v != "" && !stuRePhone.MatchString(v) {
			errs[field] = "올바른 전화번호 형식이 아닙니다"
		}
	}
	if p.SessionPart != 0 && (p.SessionPart < 1 || p.SessionPart > 5) {
		errs["session_part"] = "부는 1부~5부 중에서 선택해야 합니다"
	}
	if p.ContactPreference != "" {
		switch p.ContactPreference {
		case "phone", "kakao", "both":
		default:
			errs["contact_preference"] = "연락 방식은 phone/kakao/both 중 하나여야 합니다"
		}
	}
	if utf8.RuneCountInString(p.PickupLocation) > 50 {
		errs["pickup_location"] = "장소명은 50글자 이하여야 합니다"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ===== Handlers =====

// GET /admin/students?q=&page=&size=
func (h *StudentHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	page := atoiOr(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size := atoiOr(c.QueryParam("size"), 50)
	if size < 1 || size > 200 {
		size = 50
	}

	tx := database.DB.Model(&models.Student{})
	if q != "" {
		tx = tx.Where("name ILIKE ? OR pickup_location ILIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	var items []models.Student
	if err := tx.Order("name ASC, id ASC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  items,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

// GET /admin/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /admin/students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	var dup models.Student
	if err := database.DB.Where("name = ?", p.Name).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":   "DUPLICATE_NAME",
			"message": fmt.Sprintf("\"%s\" 학생이 이미 존재합니다. 구분을 위해 다른 이름을 사용해주세요.", p.Name),
		})
	}

	s := models.Student{
		Name:              p.Name,
		Grade:             p.Grade,
		Phone:             p.Phone,
		Phone2:            p.Phone2,
		EmergencyContact:  p.EmergencyContact,
		PickupLocation:    p.PickupLocation,
		SessionPart:       p.SessionPart,
		IsPrivateCar:      p.IsPrivateCar,
		AllowContact:      true,
		ContactPreference: "phone",
		Memo:              p.Memo,
	}
	if s.SessionPart == 0 {
		s.SessionPart = 1
	}
	if p.AllowContact != nil {
		s.AllowContact = *p.AllowContact
	}
	if p.ContactPreference != "" {
		s.ContactPreference = p.ContactPreference
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /admin/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	var existing models.Student
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	var dup models.Student
	if err := database.DB.Where("name = ? AND id <> ?", p.Name, existing.ID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE_NAME"})
	}

	existing.Name = p.Name
	existing.Grade = p.Grade
	existing.Phone = p.Phone
	existing.Phone2 = p.Phone2
	existing.EmergencyContact = p.EmergencyContact
	existing.PickupLocation = p.PickupLocation
	if p.SessionPart != 0 {
		existing.SessionPart = p.SessionPart
	}
	existing.IsPrivateCar = p.IsPrivateCar
	if p.AllowContact != nil {
		existing.AllowContact = *p.AllowContact
	}
	if p.ContactPreference != "" {
		existing.ContactPreference = p.ContactPreference
	}
	existing.Memo = p.Memo

	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

// POST /admin/students/check-name  { name, exclude_id }
func (h *StudentHandler) CheckDuplicateName(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		ExcludeID uint   `json:"exclude_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}

	tx := database.DB.Model(&models.Student{}).Where("name = ?", name)
	if req.ExcludeID != 0 {
		tx = tx.Where("id <> ?", req.ExcludeID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"duplicate": n > 0})
}

// PUT /admin/students/:id/contact-settings
func (h *StudentHandler) UpdateContactSettings(c echo.Context) error {
	var existing models.Student
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var req struct {
		Phone             string `json:"phone"`
		Phone2            string `json:"phone_2"`
		EmergencyContact  string `json:"emergency_contact"`
		AllowContact      *bool  `json:"allow_contact"`
		ContactPreference string `json:"contact_preference"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	for _, v := range []string{req.Phone, req.Phone2, req.EmergencyContact} {
		if v != "" && !stuRePhone.MatchString(strings.TrimSpace(v)) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "VALIDATION_ERROR"})
		}
	}

	existing.Phone = strings.TrimSpace(req.Phone)
	existing.Phone2 = strings.TrimSpace(req.Phone2)
	existing.EmergencyContact = strings.TrimSpace(req.EmergencyContact)
	if req.AllowContact != nil {
		existing.AllowContact = *req.AllowContact
	}
	if req.ContactPreference != "" {
		existing.ContactPreference = strings.TrimSpace(req.ContactPreference)
	}
	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /admin/students/:id
// Removes the student plus every dependent row (attendance, requests,
// schedule entries) in one transaction, so a failure leaves everything.
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}

	var s models.Student
	if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	deleted := map[string]int64{}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("student_id = ?", id).Delete(&models.AttendanceRecord{})
		if res.Error != nil {
			return res.Error
		}
		deleted["attendance"] = res.RowsAffected

		res = tx.Where("student_id = ?", id).Delete(&models.AbsenceRequest{})
		if res.Error != nil {
			return res.Error
		}
		deleted["requests"] = res.RowsAffected

		res = tx.Where("student_id = ?", id).Delete(&models.ScheduleEntry{})
		if res.Error != nil {
			return res.Error
		}
		deleted["schedules"] = res.RowsAffected

		return tx.Delete(&s).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DELETE_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"deleted_student": s.Name,
		"deleted_counts":  deleted,
	})
}
