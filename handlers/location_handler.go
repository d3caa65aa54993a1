package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/todaysfinds/tkd-car/database"
	"github.com/todaysfinds/tkd-car/models"
)

type LocationHandler struct{}

func NewLocationHandler() *LocationHandler { return &LocationHandler{} }

// GET /locations — union of the registry, student home stops and every
// stop already referenced by a schedule entry, sorted.
func (h *LocationHandler) List(c echo.Context) error {
	seen := map[string]bool{}

	var registered []models.Location
	if err := database.DB.Where("is_active = ?", true).Find(&registered).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	for _, l := range registered {
		seen[l.Name] = true
	}

	var homes []string
	if err := database.DB.Model(&models.Student{}).
		Distinct("pickup_location").
		Where("pickup_location IS NOT NULL AND pickup_location <> ''").
		Pluck("pickup_location", &homes).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	for _, name := range homes {
		seen[name] = true
	}

	var used []string
	if err := database.DB.Model(&models.ScheduleEntry{}).
		Distinct("location").
		Where("location <> ''").
		Pluck("location", &used).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	for _, name := range used {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return c.JSON(http.StatusOK, map[string]any{"locations": names})
}

// POST /locations  { name }
func (h *LocationHandler) Add(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS", "message": "정류장 이름을 입력해주세요."})
	}
	if len([]rune(name)) > 50 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": "정류장 이름은 50자 이내로 입력해주세요."})
	}

	var existing models.Location
	err := database.DB.Where("name = ?", name).First(&existing).Error
	if err == nil {
		if existing.IsActive {
			return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE_LOCATION"})
		}
		existing.IsActive = true
		if err := database.DB.Save(&existing).Error; err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, existing)
	}
	if err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	var count int64
	if err := database.DB.Model(&models.Student{}).Where("pickup_location = ?", name).Count(&count).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE_LOCATION"})
	}

	loc := models.Location{Name: name, IsActive: true}
	if err := database.DB.Create(&loc).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, loc)
}

// DELETE /locations/:name — deactivates the registry row and clears the
// home stop from students that use it. Schedule entries keep their copy.
func (h *LocationHandler) Delete(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var cleared int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Location{}).
			Where("name = ?", name).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Student{}).
			Where("pickup_location = ?", name).
			Update("pickup_location", "")
		if res.Error != nil {
			return res.Error
		}
		cleared = res.RowsAffected
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "cleared_students": cleared})
}

// PUT /locations/:name — global renames were retired in favor of the
// per-day schedule rename; the route stays so old clients get a clear answer.
func (h *LocationHandler) Rename(c echo.Context) error {
	return c.JSON(http.StatusConflict, map[string]any{
		"error":   "GLOBAL_RENAME_BLOCKED",
		"message": "전체 이름 변경은 지원하지 않습니다. 요일별 스케줄에서 변경해주세요.",
	})
}

// GET /locations/groups — students grouped by home stop
func (h *LocationHandler) Groups(c echo.Context) error {
	var students []models.Student
	if err := database.DB.Order("name ASC").Find(&students).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	groups := map[string][]models.Student{}
	for _, st := range students {
		key := st.PickupLocation
		if key == "" {
			key = "미지정"
		}
		groups[key] = append(groups[key], st)
	}
	return c.JSON(http.StatusOK, map[string]any{"groups": groups})
}
