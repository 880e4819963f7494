package models

import "time"

type Conversation struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	CustomerID   uint  `gorm:"not null;index" json:"customer_id"`
	StaffID      uint  `gorm:"not null;index" json:"staff_id"`
	RestaurantID *uint `gorm:"index" json:"restaurant_id,omitempty"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint   `gorm:"not null;index" json:"sender_id"`
	RecipientID    uint   `gorm:"not null;index" json:"recipient_id"`
	Body           string `gorm:"type:text;not null" json:"body"`
	IsRead         bool   `gorm:"not null;default:false" json:"is_read"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
