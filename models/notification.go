package models

import (
	"time"

	"gorm.io/datatypes"
)

// Priority levels
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Status values
const (
	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
)

// NotificationTypes adalah enum tertutup jenis notifikasi di seluruh platform.
var NotificationTypes = []string{
	"order_created",
	"order_updated",
	"order_ready",
	"order_delivered",
	"order_cancelled",
	"payment_received",
	"payment_failed",
	"refund_issued",
	"reservation_created",
	"reservation_confirmed",
	"reservation_cancelled",
	"reservation_reminder",
	"table_ready",
	"low_stock",
	"out_of_stock",
	"inventory_restocked",
	"supplier_order_placed",
	"supplier_order_received",
	"new_message",
	"staff_shift_reminder",
	"staff_assigned",
	"menu_item_added",
	"menu_item_updated",
	"price_changed",
	"promotion_started",
	"promotion_ending",
	"review_received",
	"system_announcement",
	"account_update",
	"security_alert",
}

func IsValidNotificationType(t string) bool {
	for _, v := range NotificationTypes {
		if v == t {
			return true
		}
	}
	return false
}

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusUnread, StatusRead, StatusArchived:
		return true
	}
	return false
}

type Notification struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       uint              `gorm:"not null;index" json:"user_id"`
	Title        string            `gorm:"type:varchar(200);not null" json:"title"`
	Message      string            `gorm:"type:text;not null" json:"message"`
	Type         string            `gorm:"type:varchar(50);not null;index" json:"type"`
	Priority     string            `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status       string            `gorm:"type:varchar(20);not null;default:'unread';index" json:"status"`
	RelatedID    *uint             `json:"related_id,omitempty"`
	RelatedType  *string           `gorm:"type:varchar(50)" json:"related_type,omitempty"`
	ActionURL    *string           `gorm:"type:varchar(500)" json:"action_url,omitempty"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty"`
	RestaurantID *uint             `gorm:"index" json:"restaurant_id,omitempty"`
	OrgID        *uint             `gorm:"column:organization_id;index" json:"organization_id,omitempty"`
	ScheduledAt  *time.Time        `json:"scheduled_at,omitempty"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	ReadAt       *time.Time        `json:"read_at,omitempty"`
}

// NotificationPreference -> satu baris per user, upsert semantics.
type NotificationPreference struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	EmailEnabled    bool           `gorm:"not null;default:true" json:"email_enabled"`
	PushEnabled     bool           `gorm:"not null;default:true" json:"push_enabled"`
	SMSEnabled      bool           `gorm:"not null;default:false" json:"sms_enabled"`
	Types           datatypes.JSON `json:"types,omitempty"`
	QuietHoursStart *string        `gorm:"type:varchar(5)" json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *string        `gorm:"type:varchar(5)" json:"quiet_hours_end,omitempty"`
	Timezone        string         `gorm:"type:varchar(50);default:'UTC'" json:"timezone"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
