package models

import "time"

type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	TableID      *uint     `gorm:"index" json:"table_id,omitempty"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount  float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"not null;index" json:"order_id"`
	MenuItemID uint    `gorm:"not null" json:"menu_item_id"`
	Quantity   int     `gorm:"not null;default:1" json:"quantity"`
	Price      float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
