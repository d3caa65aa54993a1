package models

import "time"

const (
	RequestAbsence     = "absence"
	RequestPickupSkip  = "pickup_skip"
	RequestDropoffSkip = "dropoff_skip"

	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AbsenceRequest is a parent-submitted exemption for a date range. Requests
// never expire on their own; whether one applies to a given day is computed
// at read time against the stored range.
type AbsenceRequest struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID uint   `json:"student_id" gorm:"index;not null"`
	Type      string `json:"type" gorm:"size:20;not null"` // absence | pickup_skip | dropoff_skip
	Reason    string `json:"reason" gorm:"size:100"`
	StartDate string `json:"start_date" gorm:"size:10;not null"` // YYYY-MM-DD
	EndDate   string `json:"end_date" gorm:"size:10"`            // empty = single day
	Memo      string `json:"memo" gorm:"type:text"`
	Status    string `json:"status" gorm:"size:20;not null;default:pending"`

	DecidedAt    *time.Time `json:"decided_at"`
	DecidedBy    *uint      `json:"decided_by"` // user id of the approving staff member
	RejectReason string     `json:"reject_reason" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
