package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/todaysfinds/tkd-car/models"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestValidateStudent(t *testing.T) {
	ok := func() *studentPayload {
		return &studentPayload{
			Name:        "김민준",
			Grade:       "2015",
			Phone:       "010-1234-5678",
			SessionPart: 2,
		}
	}

	p := ok()
	p.normalize()
	assert.Nil(t, validateStudent(p))

	p = ok()
	p.Name = "김"
	assert.Contains(t, validateStudent(p), "name")

	p = ok()
	p.Grade = "15"
	assert.Contains(t, validateStudent(p), "grade")

	p = ok()
	p.Phone = "abc"
	assert.Contains(t, validateStudent(p), "phone")

	p = ok()
	p.SessionPart = 9
	assert.Contains(t, validateStudent(p), "session_part")

	p = ok()
	p.ContactPreference = "sms"
	assert.Contains(t, validateStudent(p), "contact_preference")
}

func TestStudentPayloadNormalize(t *testing.T) {
	p := &studentPayload{Name: "  김  민준 ", Phone: " 010-1111-2222 "}
	p.normalize()
	assert.Equal(t, "김 민준", p.Name)
	assert.Equal(t, "010-1111-2222", p.Phone)
}

func TestEntryPayloadCheck(t *testing.T) {
	day := 0
	p := &entryPayload{StudentID: 1, DayOfWeek: &day, Category: models.CategoryPickup, Location: "호수마을"}
	assert.Empty(t, p.check())

	p = &entryPayload{StudentID: 1, DayOfWeek: &day, Category: models.CategoryPickup}
	assert.Equal(t, "MISSING_LOCATION", p.check())

	// care defaults: group 1, dojo location
	p = &entryPayload{StudentID: 1, DayOfWeek: &day, Category: models.CategoryCare}
	assert.Empty(t, p.check())
	assert.Equal(t, 1, p.CareGroup)
	assert.Equal(t, "도장", p.Location)

	// national never carries a care group
	p = &entryPayload{StudentID: 1, DayOfWeek: &day, Category: models.CategoryNational, CareGroup: 2}
	assert.Empty(t, p.check())
	assert.Equal(t, 0, p.CareGroup)

	p = &entryPayload{StudentID: 1, Category: models.CategoryPickup, Location: "x"}
	assert.Equal(t, "INVALID_DAY", p.check())

	bad := 7
	p = &entryPayload{StudentID: 1, DayOfWeek: &bad, Category: models.CategoryPickup, Location: "x"}
	assert.Equal(t, "INVALID_DAY", p.check())

	p = &entryPayload{StudentID: 1, DayOfWeek: &day, Category: "lunch", Location: "x"}
	assert.Equal(t, "INVALID_CATEGORY", p.check())
}

func TestLegacySlotCode(t *testing.T) {
	cat, group, ok := legacySlotCode(6)
	assert.True(t, ok)
	assert.Equal(t, models.CategoryCare, cat)
	assert.Equal(t, 1, group)

	cat, group, ok = legacySlotCode(9)
	assert.True(t, ok)
	assert.Equal(t, models.CategoryCare, cat)
	assert.Equal(t, 3, group)

	cat, _, ok = legacySlotCode(7)
	assert.True(t, ok)
	assert.Equal(t, models.CategoryNational, cat)

	_, _, ok = legacySlotCode(3)
	assert.False(t, ok)
}

func TestScopeCategories(t *testing.T) {
	assert.Equal(t, []string{models.CategoryCare}, scopeCategories(models.CategoryCare))
	assert.Equal(t, []string{models.CategoryNational}, scopeCategories(models.CategoryNational))
	assert.Equal(t, []string{models.CategoryPickup, models.CategoryDropoff}, scopeCategories(""))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 7, atoiOr("7", 1))
	assert.Equal(t, 1, atoiOr("", 1))
	assert.Equal(t, 1, atoiOr("x", 1))

	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, b ,"))
	assert.Empty(t, splitCSV(""))

	assert.True(t, validDate("2026-08-29"))
	assert.False(t, validDate("2026-13-01"))
	assert.False(t, validDate("today"))
}

func TestAbsenceSubmitValidation(t *testing.T) {
	e := newTestEcho()
	h := NewAbsenceHandler()

	// unknown type is rejected before any lookup happens
	body := `{"student_id":1,"type":"vacation","start_date":"2026-09-01"}`
	req := httptest.NewRequest(http.MethodPost, "/parent/absence", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Submit(e.NewContext(req, rec))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	// end before start
	body = `{"student_id":1,"type":"absence","start_date":"2026-09-10","end_date":"2026-09-01"}`
	req = httptest.NewRequest(http.MethodPost, "/parent/absence", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()

	err = h.Submit(e.NewContext(req, rec))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_DATE_RANGE")
}

func TestGlobalLocationRenameBlocked(t *testing.T) {
	e := newTestEcho()
	h := NewLocationHandler()

	req := httptest.NewRequest(http.MethodPut, "/admin/locations/호수마을", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("호수마을")

	assert.NoError(t, h.Rename(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "GLOBAL_RENAME_BLOCKED")
}
