package models

import "time"

// Student is a shuttle rider. Name is unique; the board no longer relies on
// sentinel placeholder rows, so every Student here is a real child.
type Student struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	Name             string `json:"name" gorm:"size:20;uniqueIndex;not null"`
	Grade            string `json:"grade" gorm:"size:20"` // birth year, stored as text
	Phone            string `json:"phone" gorm:"size:20"`
	Phone2           string `json:"phone_2" gorm:"size:20"`
	EmergencyContact string `json:"emergency_contact" gorm:"size:20"`
	PickupLocation   string `json:"pickup_location" gorm:"size:100"` // home stop, fallback for schedule rows
	SessionPart      int    `json:"session_part" gorm:"default:1"`  // 1..5
	IsPrivateCar     bool   `json:"is_private_car" gorm:"default:false"`

	AllowContact      bool   `json:"allow_contact" gorm:"default:true"`
	ContactPreference string `json:"contact_preference" gorm:"size:20;default:phone"` // phone | kakao | both
	Memo              string `json:"memo" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
