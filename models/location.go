package models

import "time"

// Location is a registered stop. Schedule entries may reference stops that
// were never registered here; the registry only feeds pickers and quick-call
// grouping. Deactivated instead of deleted so old boards keep resolving.
type Location struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"size:200"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
