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

type ScheduleHandler struct{}

func NewScheduleHandler() *ScheduleHandler { return &ScheduleHandler{} }

var dayNames = []string{"월", "화", "수", "목", "금", "토", "일"}

// currentDay maps time.Weekday (Sunday=0) onto the board's Monday=0 scheme.
func currentDay() int {
	return (int(time.Now().Weekday()) + 6) % 7
}

// legacySlotCode translates the old UI's session-part aliases for the
// special tracks (6/8/9 = care groups A/B/C, 7 = national) into the tagged
// category model. Regular parts pass through untouched.
func legacySlotCode(sessionPart int) (category string, careGroup int, ok bool) {
	switch sessionPart {
	case 6:
		return models.CategoryCare, 1, true
	case 8:
		return models.CategoryCare, 2, true
	case 9:
		return models.CategoryCare, 3, true
	case 7:
		return models.CategoryNational, 0, true
	}
	return "", 0, false
}

// GET /schedule/board?day=
func (h *ScheduleHandler) Board(c echo.Context) error {
	dayParam := strings.TrimSpace(c.QueryParam("day"))

	entryTx := database.DB.Model(&models.ScheduleEntry{})
	slotTx := database.DB.Model(&models.ScheduleSlot{})
	if dayParam != "" {
		day := atoiOr(dayParam, -1)
		if day < 0 || day > 6 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DAY"})
		}
		entryTx = entryTx.Where("day_of_week = ?", day)
		slotTx = slotTx.Where("day_of_week = ?", day)
	}

	var entries []models.ScheduleEntry
	if err := entryTx.Order("day_of_week ASC, id ASC").Find(&entries).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var slots []models.ScheduleSlot
	if err := slotTx.Find(&slots).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	ids := make([]uint, 0, len(entries))
	seen := map[uint]bool{}
	for _, e := range entries {
		if !seen[e.StudentID] {
			seen[e.StudentID] = true
			ids = append(ids, e.StudentID)
		}
	}
	students := map[uint]models.Student{}
	if len(ids) > 0 {
		var rows []models.Student
		if err := database.DB.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
		}
		for _, s := range rows {
			students[s.ID] = s
		}
	}

	pairs := make([]services.BoardRow, 0, len(entries))
	for _, e := range entries {
		st, ok := students[e.StudentID]
		if !ok {
			// orphaned entry; bucket it with a bare student so the row
			// stays visible instead of vanishing
			st = models.Student{ID: e.StudentID}
		}
		pairs = append(pairs, services.BoardRow{Student: st, Entry: e})
	}

	board := services.BuildBoard(pairs, slots)
	if dayParam != "" {
		day := atoiOr(dayParam, -1)
		return c.JSON(http.StatusOK, map[string]any{
			"day":       day,
			"day_name":  dayNames[day],
			"board":     services.DayBoard(board, day),
			"day_names": dayNames,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"board":       board,
		"current_day": currentDay(),
		"day_names":   dayNames,
	})
}

type entryPayload struct {
	StudentID uint   `json:"student_id"`
	DayOfWeek *int   `json:"day_of_week"`
	Category  string `json:"category"`
	CareGroup int    `json:"care_group"`
	Location  string `json:"location"`
}

func (p *entryPayload) check() string {
	if p.DayOfWeek == nil || *p.DayOfWeek < 0 || *p.DayOfWeek > 6 {
		return "INVALID_DAY"
	}
	if !models.ValidCategory(p.Category) {
		return "INVALID_CATEGORY"
	}
	p.Location = strings.TrimSpace(p.Location)
	switch p.Category {
	case models.CategoryCare:
		if p.CareGroup < 1 || p.CareGroup > 3 {
			p.CareGroup = 1
		}
		if p.Location == "" {
			p.Location = "도장"
		}
	case models.CategoryNational:
		p.CareGroup = 0
		if p.Location == "" {
			p.Location = "도장"
		}
	default:
		p.CareGroup = 0
		if p.Location == "" {
			return "MISSING_LOCATION"
		}
	}
	return ""
}

// POST /schedule/entries
func (h *ScheduleHandler) AddEntry(c echo.Context) error {
	var p entryPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if p.StudentID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}
	if msg := p.check(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	var st models.Student
	if err := database.DB.First(&st, "id = ?", p.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
	}

	var dup int64
	database.DB.Model(&models.ScheduleEntry{}).
		Where("student_id = ? AND day_of_week = ? AND category = ? AND care_group = ? AND location = ?",
			p.StudentID, *p.DayOfWeek, p.Category, p.CareGroup, p.Location).
		Count(&dup)
	if dup > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE_ENTRY"})
	}

	e := models.ScheduleEntry{
		StudentID: p.StudentID,
		DayOfWeek: *p.DayOfWeek,
		Category:  p.Category,
		CareGroup: p.CareGroup,
		Location:  p.Location,
	}
	if err := database.DB.Create(&e).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, e)
}

// POST /schedule/entries/bulk  { student_ids, day_of_week, category, care_group, location }
func (h *ScheduleHandler) AddEntriesBulk(c echo.Context) error {
	var req struct {
		StudentIDs []uint `json:"student_ids"`
		entryPayload
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if len(req.StudentIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}
	if msg := req.check(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	var added []map[string]any
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, sid := range req.StudentIDs {
			var st models.Student
			if err := tx.First(&st, "id = ?", sid).Error; err != nil {
				continue // unknown ids are skipped, the rest still go in
			}
			var dup int64
			tx.Model(&models.ScheduleEntry{}).
				Where("student_id = ? AND day_of_week = ? AND category = ? AND care_group = ? AND location = ?",
					sid, *req.DayOfWeek, req.Category, req.CareGroup, req.Location).
				Count(&dup)
			if dup > 0 {
				continue
			}
			e := models.ScheduleEntry{
				StudentID: sid,
				DayOfWeek: *req.DayOfWeek,
				Category:  req.Category,
				CareGroup: req.CareGroup,
				Location:  req.Location,
			}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
			added = append(added, map[string]any{"id": sid, "name": st.Name})
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "BULK_ADD_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"added": len(added), "added_students": added})
}

// DELETE /schedule/entries  { student_id, day_of_week, category, care_group, location }
func (h *ScheduleHandler) RemoveEntry(c echo.Context) error {
	var p entryPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if p.StudentID == 0 || p.DayOfWeek == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}

	var st models.Student
	if err := database.DB.First(&st, "id = ?", p.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
	}

	// exact bucket first
	var target models.ScheduleEntry
	err := database.DB.Where(
		"student_id = ? AND day_of_week = ? AND category = ? AND location = ?",
		p.StudentID, *p.DayOfWeek, p.Category, strings.TrimSpace(p.Location),
	).First(&target).Error
	if err == gorm.ErrRecordNotFound {
		// tolerate stale location labels from the board: fall back to a
		// partial match within the same day/category
		var candidates []models.ScheduleEntry
		database.DB.Where("student_id = ? AND day_of_week = ? AND category = ?",
			p.StudentID, *p.DayOfWeek, p.Category).Find(&candidates)
		loc := strings.TrimSpace(p.Location)
		for _, cand := range candidates {
			if cand.Location != "" && loc != "" &&
				(strings.Contains(cand.Location, loc) || strings.Contains(loc, cand.Location)) {
				target = cand
				err = nil
				break
			}
		}
	}
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "ENTRY_NOT_FOUND"})
	}

	if err := database.DB.Delete(&target).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DELETE_FAILED"})
	}

	var remaining int64
	database.DB.Model(&models.ScheduleEntry{}).
		Where("day_of_week = ? AND category = ? AND location = ?", target.DayOfWeek, target.Category, target.Location).
		Count(&remaining)

	// Removing the last student never removes the location itself; the
	// bucket simply goes empty (and stays visible only if a slot exists).
	return c.JSON(http.StatusOK, map[string]any{
		"removed_student":    st.Name,
		"location":           target.Location,
		"remaining_students": remaining,
		"keep_location":      true,
	})
}

// POST /schedule/slots  — create an explicit empty location bucket
func (h *ScheduleHandler) CreateSlot(c echo.Context) error {
	var req struct {
		DayOfWeek   *int   `json:"day_of_week"`
		SessionPart int    `json:"session_part"`
		Category    string `json:"category"`
		CareGroup   int    `json:"care_group"`
		Location    string `json:"location"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DAY"})
	}
	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_LOCATION"})
	}

	// old clients send the special tracks as session-part codes
	if cat, group, ok := legacySlotCode(req.SessionPart); ok {
		req.Category, req.CareGroup, req.SessionPart = cat, group, 0
	}
	if req.Category == "" {
		req.Category = models.CategoryPickup
	}
	if !models.ValidCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_CATEGORY"})
	}
	switch req.Category {
	case models.CategoryCare:
		if req.CareGroup < 1 || req.CareGroup > 3 {
			req.CareGroup = 1
		}
		req.SessionPart = 0
	case models.CategoryNational:
		req.CareGroup = 0
		req.SessionPart = 0
	default:
		req.CareGroup = 0
		if req.SessionPart < 1 || req.SessionPart > 5 {
			req.SessionPart = 1
		}
	}

	var existing int64
	database.DB.Model(&models.ScheduleSlot{}).
		Where("day_of_week = ? AND session_part = ? AND category = ? AND care_group = ? AND location = ?",
			*req.DayOfWeek, req.SessionPart, req.Category, req.CareGroup, req.Location).
		Count(&existing)
	if existing > 0 {
		return c.JSON(http.StatusOK, map[string]any{"location": req.Location, "existing": true})
	}

	slot := models.ScheduleSlot{
		DayOfWeek:   *req.DayOfWeek,
		SessionPart: req.SessionPart,
		Category:    req.Category,
		CareGroup:   req.CareGroup,
		Location:    req.Location,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"location": slot.Location, "slot_id": slot.ID})
}

// scopeCategories expands a rename/delete scope into schedule categories.
func scopeCategories(scope string) []string {
	switch scope {
	case models.CategoryCare:
		return []string{models.CategoryCare}
	case models.CategoryNational:
		return []string{models.CategoryNational}
	default: // regular transport legs
		return []string{models.CategoryPickup, models.CategoryDropoff}
	}
}

// PUT /schedule/locations/rename  { day_of_week, scope, old_location, new_location }
// Renames one day's bucket only. Global renames across all days are a
// different, deliberately blocked operation (see LocationHandler).
func (h *ScheduleHandler) RenameLocation(c echo.Context) error {
	var req struct {
		DayOfWeek   *int   `json:"day_of_week"`
		Scope       string `json:"scope"`
		OldLocation string `json:"old_location"`
		NewLocation string `json:"new_location"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if req.DayOfWeek == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DAY"})
	}
	oldLoc := strings.TrimSpace(req.OldLocation)
	newLoc := strings.TrimSpace(req.NewLocation)
	if oldLoc == "" || newLoc == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}
	cats := scopeCategories(req.Scope)

	var entriesUpdated, slotsUpdated int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ScheduleEntry{}).
			Where("day_of_week = ? AND category IN ? AND location = ?", *req.DayOfWeek, cats, oldLoc).
			Update("location", newLoc)
		if res.Error != nil {
			return res.Error
		}
		entriesUpdated = res.RowsAffected

		res = tx.Model(&models.ScheduleSlot{}).
			Where("day_of_week = ? AND category IN ? AND location = ?", *req.DayOfWeek, cats, oldLoc).
			Update("location", newLoc)
		if res.Error != nil {
			return res.Error
		}
		slotsUpdated = res.RowsAffected
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RENAME_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"updated_entries": entriesUpdated,
		"updated_slots":   slotsUpdated,
		"day_affected":    *req.DayOfWeek,
	})
}

// DELETE /schedule/locations  { day_of_week, scope, location }
// Removes one day's bucket: its entries and slots. The Location registry
// row is untouched so other days keep working.
func (h *ScheduleHandler) DeleteLocation(c echo.Context) error {
	var req struct {
		DayOfWeek *int   `json:"day_of_week"`
		Scope     string `json:"scope"`
		Location  string `json:"location"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if req.DayOfWeek == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DAY"})
	}
	loc := strings.TrimSpace(req.Location)
	if loc == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}
	cats := scopeCategories(req.Scope)

	var names []string
	database.DB.Model(&models.ScheduleEntry{}).
		Select("students.name").
		Joins("JOIN students ON students.id = schedule_entries.student_id").
		Where("schedule_entries.day_of_week = ? AND schedule_entries.category IN ? AND schedule_entries.location = ?",
			*req.DayOfWeek, cats, loc).
		Scan(&names)

	var deletedEntries int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("day_of_week = ? AND category IN ? AND location = ?", *req.DayOfWeek, cats, loc).
			Delete(&models.ScheduleEntry{})
		if res.Error != nil {
			return res.Error
		}
		deletedEntries = res.RowsAffected

		return tx.Where("day_of_week = ? AND category IN ? AND location = ?", *req.DayOfWeek, cats, loc).
			Delete(&models.ScheduleSlot{}).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DELETE_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"deleted_entries": deletedEntries,
		"student_names":   names,
		"day_affected":    *req.DayOfWeek,
	})
}

// POST /schedule/cleanup-duplicates  { day_of_week, category, location }
// Deduplicates a bucket: one entry per student survives.
func (h *ScheduleHandler) CleanupDuplicates(c echo.Context) error {
	var req struct {
		DayOfWeek *int   `json:"day_of_week"`
		Category  string `json:"category"`
		Location  string `json:"location"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if req.DayOfWeek == nil || strings.TrimSpace(req.Location) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}
	if req.Category == "" {
		req.Category = models.CategoryPickup
	}

	var rows []models.ScheduleEntry
	if err := database.DB.
		Where("day_of_week = ? AND category = ? AND location = ?", *req.DayOfWeek, req.Category, strings.TrimSpace(req.Location)).
		Order("id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	keep := map[uint]bool{}
	var extra []uint
	for _, r := range rows {
		if keep[r.StudentID] {
			extra = append(extra, r.ID)
			continue
		}
		keep[r.StudentID] = true
	}

	if len(extra) > 0 {
		if err := database.DB.Delete(&models.ScheduleEntry{}, extra).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DELETE_FAILED"})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"removed_count": len(extra)})
}
