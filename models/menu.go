package models

import "time"

type MenuCategory struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type MenuItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RestaurantID uint    `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   uint    `gorm:"not null;index" json:"category_id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Description  string  `gorm:"type:text" json:"description"`
	Price        float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable  bool    `gorm:"not null;default:true" json:"is_available"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
