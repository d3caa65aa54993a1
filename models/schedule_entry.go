package models

import "time"

// Schedule categories. The two special tracks (care system, national
// training) have no pickup/dropoff direction; their sub-slot lives in
// CareGroup instead of a "<location>_careN" suffix on the location name.
const (
	CategoryPickup   = "pickup"
	CategoryDropoff  = "dropoff"
	CategoryCare     = "care_system"
	CategoryNational = "national_training"
)

// ValidCategory reports whether s is one of the four schedule categories.
func ValidCategory(s string) bool {
	switch s {
	case CategoryPickup, CategoryDropoff, CategoryCare, CategoryNational:
		return true
	}
	return false
}

// ScheduleEntry is one recurring weekly assignment of a student to a stop.
// At most one entry per (student, day, category, care group, location).
type ScheduleEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"student_id" gorm:"not null;index;uniqueIndex:uniq_entry_bucket"`
	DayOfWeek int       `json:"day_of_week" gorm:"not null;uniqueIndex:uniq_entry_bucket"` // 0=Mon .. 6=Sun
	Category  string    `json:"category" gorm:"size:30;not null;uniqueIndex:uniq_entry_bucket"`
	CareGroup int       `json:"care_group" gorm:"default:0;uniqueIndex:uniq_entry_bucket"` // 1..3, care_system only
	Location  string    `json:"location" gorm:"size:100;uniqueIndex:uniq_entry_bucket"`
	CreatedAt time.Time `json:"created_at"`
}
