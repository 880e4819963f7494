package models

import "time"

type Organization struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Restaurant struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Status         string  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	IsOpen         bool    `gorm:"not null;default:true" json:"is_open"`
	OpeningHours   *string `gorm:"type:varchar(100)" json:"opening_hours,omitempty"`
	OrganizationID *uint   `gorm:"index" json:"organization_id,omitempty"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
