package models

import "time"

// QuickCallNumber is a speed-dial entry for the driver UI.
type QuickCallNumber struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Category    string    `json:"category" gorm:"size:50;not null"` // school | daycare | emergency | location | custom
	Name        string    `json:"name" gorm:"size:100;not null"`
	PhoneNumber string    `json:"phone_number" gorm:"size:20;not null"`
	Location    string    `json:"location" gorm:"size:100"` // stop name, for the location category
	Description string    `json:"description" gorm:"size:200"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	Priority    int       `json:"priority" gorm:"default:0"` // higher first
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
