package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-realtime/models"
)

// ErrNotificationNotFound dipakai untuk baris yang tidak ada ATAU bukan milik
// pemanggil; keduanya sengaja tidak dibedakan.
var ErrNotificationNotFound = errors.New("notification not found")

// Bulk actions
const (
	BulkMarkRead   = "mark_read"
	BulkMarkUnread = "mark_unread"
	BulkArchive    = "archive"
	BulkDelete     = "delete"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

type CreateNotificationInput struct {
	UserID         uint
	Title          string
	Message        string
	Type           string
	Priority       string
	RelatedID      *uint
	RelatedType    *string
	ActionURL      *string
	Metadata       map[string]interface{}
	RestaurantID   *uint
	OrganizationID *uint
	ScheduledAt    *time.Time
	ExpiresAt      *time.Time
}

// Create menyimpan satu notifikasi. Emisi new_notification terjadi lewat
// change feed (insert baris), bukan dari sini, supaya notifikasi yang dibuat
// lewat jalur manapun tetap sampai ke client.
func (ns *NotificationService) Create(input CreateNotificationInput) (*models.Notification, error) {
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	notif := models.Notification{
		UserID:       input.UserID,
		Title:        input.Title,
		Message:      input.Message,
		Type:         input.Type,
		Priority:     priority,
		Status:       models.StatusUnread,
		RelatedID:    input.RelatedID,
		RelatedType:  input.RelatedType,
		ActionURL:    input.ActionURL,
		RestaurantID: input.RestaurantID,
		OrgID:        input.OrganizationID,
		ScheduledAt:  input.ScheduledAt,
		ExpiresAt:    input.ExpiresAt,
	}
	if input.Metadata != nil {
		notif.Metadata = datatypes.JSONMap(input.Metadata)
	}

	if err := ns.DB.Create(&notif).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &notif, nil
}

// GetForUser mengambil satu notifikasi milik user; baris orang lain
// diperlakukan sama dengan baris yang tidak ada.
func (ns *NotificationService) GetForUser(id, userID uint) (*models.Notification, error) {
	var notif models.Notification
	err := ns.DB.Where("id = ? AND user_id = ?", id, userID).First(&notif).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

type ListFilter struct {
	Type      string
	Status    string
	Priority  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"priority":   "priority",
	"type":       "type",
}

// List mengembalikan notifikasi user dengan filter, pagination, dan sorting.
func (ns *NotificationService) List(userID uint, filter ListFilter) ([]models.Notification, int64, error) {
	query := ns.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var notifs []models.Notification
	err := query.
		Order(fmt.Sprintf("%s %s", column, order)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifs).Error
	if err != nil {
		return nil, 0, err
	}

	return notifs, total, nil
}

type UpdateNotificationInput struct {
	Status *string
	ReadAt *time.Time
}

// Update mengubah status/read_at satu notifikasi milik user.
func (ns *NotificationService) Update(id, userID uint, input UpdateNotificationInput) (*models.Notification, error) {
	notif, err := ns.GetForUser(id, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Status != nil {
		updates["status"] = *input.Status
		if *input.Status == models.StatusRead && notif.ReadAt == nil && input.ReadAt == nil {
			now := time.Now().UTC()
			updates["read_at"] = &now
		}
	}
	if input.ReadAt != nil {
		updates["read_at"] = input.ReadAt
	}
	if len(updates) == 0 {
		return notif, nil
	}

	if err := ns.DB.Model(notif).Updates(updates).Error; err != nil {
		return nil, err
	}
	return ns.GetForUser(id, userID)
}

// Delete menghapus permanen satu notifikasi milik user.
func (ns *NotificationService) Delete(id, userID uint) error {
	result := ns.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAsRead menandai satu notifikasi sebagai terbaca.
func (ns *NotificationService) MarkAsRead(id, userID uint) (*models.Notification, error) {
	status := models.StatusRead
	return ns.Update(id, userID, UpdateNotificationInput{Status: &status})
}

// MarkAllAsRead menandai semua notifikasi unread user; mengembalikan jumlah
// baris yang berubah.
func (ns *NotificationService) MarkAllAsRead(userID uint) (int64, error) {
	now := time.Now().UTC()
	result := ns.DB.Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.StatusUnread).
		Updates(map[string]interface{}{"status": models.StatusRead, "read_at": &now})
	return result.RowsAffected, result.Error
}

// UnreadCount menghitung notifikasi unread user.
func (ns *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := ns.DB.Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.StatusUnread).
		Count(&count).Error
	return count, err
}

// BulkAction menjalankan satu aksi atas daftar id, dibatasi milik user.
func (ns *NotificationService) BulkAction(userID uint, ids []uint, action string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := ns.DB.Transaction(func(tx *gorm.DB) error {
		scope := tx.Model(&models.Notification{}).
			Where("user_id = ? AND id IN ?", userID, ids)

		var result *gorm.DB
		switch action {
		case BulkMarkRead:
			now := time.Now().UTC()
			result = scope.Updates(map[string]interface{}{"status": models.StatusRead, "read_at": &now})
		case BulkMarkUnread:
			result = scope.Updates(map[string]interface{}{"status": models.StatusUnread, "read_at": nil})
		case BulkArchive:
			result = scope.Update("status", models.StatusArchived)
		case BulkDelete:
			result = tx.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Notification{})
		default:
			return fmt.Errorf("unknown bulk action: %s", action)
		}

		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

type BroadcastInput struct {
	Title           string
	Message         string
	Type            string
	Priority        string
	ActionURL       *string
	Metadata        map[string]interface{}
	UserIDs         []uint
	UserRoles       []string
	RestaurantIDs   []uint
	OrganizationIDs []uint
}

// Broadcast melakukan fan-out: satu baris notifikasi per user target.
// Target adalah gabungan user eksplisit, user per role, staff restoran,
// dan anggota organisasi. Pemeriksaan role pemanggil ada di controller,
// sebelum efek samping apapun.
func (ns *NotificationService) Broadcast(input BroadcastInput) (int, error) {
	targets := make(map[uint]struct{})

	collect := func(query *gorm.DB) error {
		var ids []uint
		if err := query.Pluck("id", &ids).Error; err != nil {
			return err
		}
		for _, id := range ids {
			targets[id] = struct{}{}
		}
		return nil
	}

	if len(input.UserIDs) > 0 {
		if err := collect(ns.DB.Model(&models.User{}).Where("id IN ?", input.UserIDs)); err != nil {
			return 0, err
		}
	}
	if len(input.UserRoles) > 0 {
		if err := collect(ns.DB.Model(&models.User{}).Where("role IN ?", input.UserRoles)); err != nil {
			return 0, err
		}
	}
	if len(input.RestaurantIDs) > 0 {
		if err := collect(ns.DB.Model(&models.User{}).Where("restaurant_id IN ?", input.RestaurantIDs)); err != nil {
			return 0, err
		}
	}
	if len(input.OrganizationIDs) > 0 {
		if err := collect(ns.DB.Model(&models.User{}).Where("organization_id IN ?", input.OrganizationIDs)); err != nil {
			return 0, err
		}
	}

	if len(targets) == 0 {
		return 0, nil
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	rows := make([]models.Notification, 0, len(targets))
	for userID := range targets {
		notif := models.Notification{
			UserID:    userID,
			Title:     input.Title,
			Message:   input.Message,
			Type:      input.Type,
			Priority:  priority,
			Status:    models.StatusUnread,
			ActionURL: input.ActionURL,
		}
		if input.Metadata != nil {
			notif.Metadata = datatypes.JSONMap(input.Metadata)
		}
		rows = append(rows, notif)
	}

	if err := ns.DB.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to broadcast notifications: %w", err)
	}
	return len(rows), nil
}

type PreferencesInput struct {
	EmailEnabled    *bool
	PushEnabled     *bool
	SMSEnabled      *bool
	Types           datatypes.JSON
	QuietHoursStart *string
	QuietHoursEnd   *string
	Timezone        *string
}

// GetPreferences mengembalikan preferensi user, membuat baris default bila
// belum ada.
func (ns *NotificationService) GetPreferences(userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := ns.DB.Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = models.NotificationPreference{
			UserID:       userID,
			EmailEnabled: true,
			PushEnabled:  true,
			Timezone:     "UTC",
		}
		if err := ns.DB.Create(&pref).Error; err != nil {
			return nil, err
		}
		return &pref, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// UpdatePreferences melakukan upsert preferensi user.
func (ns *NotificationService) UpdatePreferences(userID uint, input PreferencesInput) (*models.NotificationPreference, error) {
	pref, err := ns.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	if input.EmailEnabled != nil {
		pref.EmailEnabled = *input.EmailEnabled
	}
	if input.PushEnabled != nil {
		pref.PushEnabled = *input.PushEnabled
	}
	if input.SMSEnabled != nil {
		pref.SMSEnabled = *input.SMSEnabled
	}
	if input.Types != nil {
		pref.Types = input.Types
	}
	if input.QuietHoursStart != nil {
		pref.QuietHoursStart = input.QuietHoursStart
	}
	if input.QuietHoursEnd != nil {
		pref.QuietHoursEnd = input.QuietHoursEnd
	}
	if input.Timezone != nil {
		pref.Timezone = *input.Timezone
	}

	if err := ns.DB.Save(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}
