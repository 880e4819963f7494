package models

import "time"

type InventoryItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RestaurantID uint    `gorm:"not null;index" json:"restaurant_id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Unit         string  `gorm:"type:varchar(50)" json:"unit"`
	CurrentStock float64 `gorm:"not null;default:0" json:"current_stock"`
	MinimumStock float64 `gorm:"not null;default:0" json:"minimum_stock"`
	SupplierID   *uint   `gorm:"index" json:"supplier_id,omitempty"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
