package models

import "time"

type Table struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	TableNumber  string `gorm:"type:varchar(50);not null" json:"table_number"`
	Status       string `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableOrder -> pesanan yang diikat ke meja (dine-in), bukan ke akun user.
type TableOrder struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TableID   uint   `gorm:"not null;index" json:"table_id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	Status    string `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
