package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/todaysfinds/tkd-car/models"
)

// Session keys used by the board in addition to the numeric parts "1".."5".
const (
	SessionNational = "national"

	// Care/national buckets have no pickup/dropoff split; their rows live
	// under this single category key.
	CategoryUnified = "students"
)

// BoardRow pairs a student with one of their schedule entries.
type BoardRow struct {
	Student models.Student       `json:"student"`
	Entry   models.ScheduleEntry `json:"entry"`
}

// Board is the aggregated weekly view:
// day → session key → category → location → rows.
// Rows are sorted by student name so the same input always produces the same
// structure; map keys sort on JSON marshal, making serialized output
// deterministic too.
type Board map[int]map[string]map[string]map[string][]BoardRow

// BuildBoard groups flat (student, entry) pairs, then overlays empty slots.
// A slot only materializes an empty bucket when no real student occupies the
// same (day, session, category, location); it never contributes row data.
//
// Malformed rows are bucketed best-effort rather than rejected: a missing
// entry location falls back to the student's home stop, then to a
// per-student unassigned label, and an out-of-range session part defaults
// to 1. Nothing is ever dropped from the view.
func BuildBoard(pairs []BoardRow, slots []models.ScheduleSlot) Board {
	b := Board{}

	for _, p := range pairs {
		day := p.Entry.DayOfWeek
		session := sessionKey(p.Student, p.Entry)
		category := categoryKey(p.Entry.Category)
		location := rowLocation(p.Student, p.Entry)
		bucket := b.ensure(day, session, category, location)
		b[day][session][category][location] = append(bucket, p)
	}

	for day := range b {
		for _, categories := range b[day] {
			for _, locations := range categories {
				for loc := range locations {
					sortRows(locations[loc])
				}
			}
		}
	}

	for _, s := range slots {
		day := s.DayOfWeek
		session := slotSessionKey(s)
		category := categoryKey(s.Category)
		if rows, ok := b.lookup(day, session, category, s.Location); ok && len(rows) > 0 {
			continue
		}
		b.ensure(day, session, category, s.Location)
	}

	return b
}

// DayBoard narrows a board to a single day. Missing days yield an empty map,
// not nil, so callers can serialize it directly.
func DayBoard(b Board, day int) map[string]map[string]map[string][]BoardRow {
	if d, ok := b[day]; ok {
		return d
	}
	return map[string]map[string]map[string][]BoardRow{}
}

func (b Board) ensure(day int, session, category, location string) []BoardRow {
	if _, ok := b[day]; !ok {
		b[day] = map[string]map[string]map[string][]BoardRow{}
	}
	if _, ok := b[day][session]; !ok {
		b[day][session] = map[string]map[string][]BoardRow{}
	}
	if _, ok := b[day][session][category]; !ok {
		b[day][session][category] = map[string][]BoardRow{}
	}
	if _, ok := b[day][session][category][location]; !ok {
		b[day][session][category][location] = make([]BoardRow, 0)
	}
	return b[day][session][category][location]
}

func (b Board) lookup(day int, session, category, location string) ([]BoardRow, bool) {
	if _, ok := b[day]; !ok {
		return nil, false
	}
	if _, ok := b[day][session]; !ok {
		return nil, false
	}
	if _, ok := b[day][session][category]; !ok {
		return nil, false
	}
	rows, ok := b[day][session][category][location]
	return rows, ok
}

func sessionKey(st models.Student, e models.ScheduleEntry) string {
	switch e.Category {
	case models.CategoryCare:
		return careKey(e.CareGroup)
	case models.CategoryNational:
		return SessionNational
	default:
		part := st.SessionPart
		if part < 1 || part > 5 {
			part = 1
		}
		return strconv.Itoa(part)
	}
}

func slotSessionKey(s models.ScheduleSlot) string {
	switch s.Category {
	case models.CategoryCare:
		return careKey(s.CareGroup)
	case models.CategoryNational:
		return SessionNational
	default:
		part := s.SessionPart
		if part < 1 || part > 5 {
			part = 1
		}
		return strconv.Itoa(part)
	}
}

func careKey(group int) string {
	if group < 1 || group > 3 {
		group = 1
	}
	return "care" + strconv.Itoa(group)
}

func categoryKey(category string) string {
	switch category {
	case models.CategoryCare, models.CategoryNational:
		return CategoryUnified
	default:
		return category
	}
}

// rowLocation resolves the display stop: the entry's own stop wins, then the
// student's home stop, then a per-student unassigned label so the student
// still shows up somewhere.
func rowLocation(st models.Student, e models.ScheduleEntry) string {
	if e.Location != "" {
		return e.Location
	}
	if st.PickupLocation != "" {
		return st.PickupLocation
	}
	return fmt.Sprintf("미정_%d", st.ID)
}

func sortRows(rows []BoardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Student.Name != rows[j].Student.Name {
			return rows[i].Student.Name < rows[j].Student.Name
		}
		return rows[i].Student.ID < rows[j].Student.ID
	})
}
