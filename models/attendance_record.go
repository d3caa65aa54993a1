package models

import "time"

// Attendance statuses. parent_pickup / dojo_pickup are manual overrides set
// directly by staff; the toggle endpoint only cycles the first three.
const (
	StatusPending      = "pending"
	StatusBoarded      = "boarded" // pickup channel confirmed
	StatusDropped      = "dropped" // dropoff channel confirmed
	StatusAbsent       = "absent"
	StatusParentPickup = "parent_pickup"
	StatusDojoPickup   = "dojo_pickup"
)

// AttendanceRecord holds one day of shuttle state for one student. Pickup
// and dropoff are independent channels on the same row. Rows are created
// lazily on the first status change, never pre-created for future dates.
type AttendanceRecord struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	StudentID     uint   `json:"student_id" gorm:"not null;uniqueIndex:uniq_attendance_day"`
	Date          string `json:"date" gorm:"size:10;not null;uniqueIndex:uniq_attendance_day"` // YYYY-MM-DD
	PickupStatus  string `json:"pickup_status" gorm:"size:20;not null;default:pending"`
	DropoffStatus string `json:"dropoff_status" gorm:"size:20;not null;default:pending"`
	Notes         string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
