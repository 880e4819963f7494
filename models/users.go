package models

import "time"

type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Email          string  `gorm:"type:varchar(255);unique;not null" json:"email"`
	Role           string  `gorm:"type:varchar(50);not null;index" json:"role"`
	AvatarURL      *string `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	Status         string  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	RestaurantID   *uint   `gorm:"index" json:"restaurant_id,omitempty"`
	OrganizationID *uint   `gorm:"index" json:"organization_id,omitempty"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
