package models

import "time"

type Payment struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"not null;index" json:"order_id"`
	UserID       uint    `gorm:"not null;index" json:"user_id"`
	RestaurantID uint    `gorm:"not null;index" json:"restaurant_id"`
	Amount       float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method       string  `gorm:"type:varchar(50);not null" json:"method"`
	Status       string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
