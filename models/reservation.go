package models

import "time"

type Reservation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	TableID      *uint     `gorm:"index" json:"table_id,omitempty"`
	PartySize    int       `gorm:"not null;default:2" json:"party_size"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReservedFor  time.Time `gorm:"not null" json:"reserved_for"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
