package models

import "time"

// ScheduleSlot keeps an otherwise-empty location visible on the weekly board.
// It replaces the old placeholder-student trick: a slot carries no student
// data and never appears as a rider.
type ScheduleSlot struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DayOfWeek   int       `json:"day_of_week" gorm:"not null;uniqueIndex:uniq_slot_bucket"`
	SessionPart int       `json:"session_part" gorm:"default:1;uniqueIndex:uniq_slot_bucket"` // 1..5, pickup/dropoff only
	Category    string    `json:"category" gorm:"size:30;not null;uniqueIndex:uniq_slot_bucket"`
	CareGroup   int       `json:"care_group" gorm:"default:0;uniqueIndex:uniq_slot_bucket"`
	Location    string    `json:"location" gorm:"size:100;not null;uniqueIndex:uniq_slot_bucket"`
	CreatedAt   time.Time `json:"created_at"`
}
