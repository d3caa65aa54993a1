package models

import "time"

// KakaoSettings is the single business-account row for the messaging
// channel. With no active row, sends run in simulation mode.
type KakaoSettings struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BusinessID string    `json:"business_id" gorm:"size:100"`
	APIKey     string    `json:"-" gorm:"size:200"`
	TemplateID string    `json:"template_id" gorm:"size:100"`
	SenderKey  string    `json:"-" gorm:"size:100"`
	IsActive   bool      `json:"is_active" gorm:"default:false"`
	TestMode   bool      `json:"test_mode" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
