package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/yeremiapane/restaurant-realtime/models"
	"github.com/yeremiapane/restaurant-realtime/services"
	"github.com/yeremiapane/restaurant-realtime/utils"
)

var quietHoursPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type NotificationController struct {
	Service *services.NotificationService
}

func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func currentRole(c *gin.Context) string {
	v, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := v.(string)
	return role
}

// CreateNotification -> POST /notifications
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type reqBody struct {
		UserID         uint                   `json:"user_id" binding:"required"`
		Title          string                 `json:"title" binding:"required"`
		Message        string                 `json:"message" binding:"required"`
		Type           string                 `json:"type" binding:"required"`
		Priority       string                 `json:"priority"`
		RelatedID      *uint                  `json:"related_id"`
		RelatedType    *string                `json:"related_type"`
		ActionURL      *string                `json:"action_url"`
		Metadata       map[string]interface{} `json:"metadata"`
		RestaurantID   *uint                  `json:"restaurant_id"`
		OrganizationID *uint                  `json:"organization_id"`
		ScheduledAt    *time.Time             `json:"scheduled_at"`
		ExpiresAt      *time.Time             `json:"expires_at"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var fieldErrs []utils.FieldError
	if !models.IsValidNotificationType(body.Type) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "type", Message: "unknown notification type"})
	}
	if body.Priority != "" && !models.IsValidPriority(body.Priority) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "priority", Message: "priority must be low, medium, high or urgent"})
	}
	if len(fieldErrs) > 0 {
		utils.RespondValidationError(c, "Validation failed", fieldErrs)
		return
	}

	notif, err := nc.Service.Create(services.CreateNotificationInput{
		UserID:         body.UserID,
		Title:          body.Title,
		Message:        body.Message,
		Type:           body.Type,
		Priority:       body.Priority,
		RelatedID:      body.RelatedID,
		RelatedType:    body.RelatedType,
		ActionURL:      body.ActionURL,
		Metadata:       body.Metadata,
		RestaurantID:   body.RestaurantID,
		OrganizationID: body.OrganizationID,
		ScheduledAt:    body.ScheduledAt,
		ExpiresAt:      body.ExpiresAt,
	})
	if err != nil {
		utils.ErrorLogger.Printf("Error creating notification: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to create notification"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// ListNotifications -> GET /notifications (milik user saat ini)
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var fieldErrs []utils.FieldError
	filter := services.ListFilter{
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		SortBy:   c.DefaultQuery("sort_by", "created_at"),
	}

	if filter.Type != "" && !models.IsValidNotificationType(filter.Type) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "type", Message: "unknown notification type"})
	}
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "status", Message: "status must be unread, read or archived"})
	}
	if filter.Priority != "" && !models.IsValidPriority(filter.Priority) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "priority", Message: "priority must be low, medium, high or urgent"})
	}

	switch filter.SortBy {
	case "created_at", "priority", "type":
	default:
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "sort_by", Message: "sort_by must be created_at, priority or type"})
	}
	filter.SortOrder = c.DefaultQuery("sort_order", "desc")
	if filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "sort_order", Message: "sort_order must be asc or desc"})
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "page", Message: "page must be a positive integer"})
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "limit", Message: "limit must be between 1 and 100"})
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fieldErrs = append(fieldErrs, utils.FieldError{Field: "start_date", Message: "start_date must be an ISO-8601 timestamp"})
		} else {
			filter.StartDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fieldErrs = append(fieldErrs, utils.FieldError{Field: "end_date", Message: "end_date must be an ISO-8601 timestamp"})
		} else {
			filter.EndDate = &t
		}
	}

	if len(fieldErrs) > 0 {
		utils.RespondValidationError(c, "Validation failed", fieldErrs)
		return
	}

	filter.Page = page
	filter.Limit = limit

	notifs, total, err := nc.Service.List(userID, filter)
	if err != nil {
		utils.ErrorLogger.Printf("Error listing notifications: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to list notifications"))
		return
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications", gin.H{
		"notifications": notifs,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// GetUnreadCount -> GET /notifications/unread-count
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	count, err := nc.Service.UnreadCount(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to count notifications"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"count": count})
}

// GetNotificationByID -> GET /notifications/:notif_id
func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("notif_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	notif, err := nc.Service.GetForUser(uint(id), userID)
	if errors.Is(err, services.ErrNotificationNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch notification"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification detail", notif)
}

// UpdateNotification -> PUT /notifications/:notif_id
// Patch terbatas pada status dan read_at; field lain ditolak.
func (nc *NotificationController) UpdateNotification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("notif_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var fieldErrs []utils.FieldError
	var input services.UpdateNotificationInput

	for key, value := range raw {
		switch key {
		case "status":
			var status string
			if err := json.Unmarshal(value, &status); err != nil || !models.IsValidStatus(status) {
				fieldErrs = append(fieldErrs, utils.FieldError{Field: "status", Message: "status must be unread, read or archived"})
				continue
			}
			input.Status = &status
		case "read_at":
			var readAt time.Time
			if err := json.Unmarshal(value, &readAt); err != nil {
				fieldErrs = append(fieldErrs, utils.FieldError{Field: "read_at", Message: "read_at must be an ISO-8601 timestamp"})
				continue
			}
			input.ReadAt = &readAt
		default:
			fieldErrs = append(fieldErrs, utils.FieldError{Field: key, Message: "field is not updatable"})
		}
	}

	if len(fieldErrs) > 0 {
		utils.RespondValidationError(c, "Validation failed", fieldErrs)
		return
	}

	notif, err := nc.Service.Update(uint(id), userID, input)
	if errors.Is(err, services.ErrNotificationNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update notification"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification updated", notif)
}

// DeleteNotification -> DELETE /notifications/:notif_id
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("notif_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	err = nc.Service.Delete(uint(id), userID)
	if errors.Is(err, services.ErrNotificationNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to delete notification"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}

// MarkAsRead -> PATCH /notifications/:notif_id/read
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("notif_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	notif, err := nc.Service.MarkAsRead(uint(id), userID)
	if errors.Is(err, services.ErrNotificationNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update notification"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// MarkAllAsRead -> PATCH /notifications/read-all
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	count, err := nc.Service.MarkAllAsRead(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to mark notifications as read"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{"count": count})
}

// BulkAction -> POST /notifications/bulk
func (nc *NotificationController) BulkAction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	type reqBody struct {
		NotificationIDs []uint `json:"notification_ids" binding:"required,min=1"`
		Action          string `json:"action" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch body.Action {
	case services.BulkMarkRead, services.BulkMarkUnread, services.BulkArchive, services.BulkDelete:
	default:
		utils.RespondValidationError(c, "Validation failed", []utils.FieldError{
			{Field: "action", Message: "action must be mark_read, mark_unread, archive or delete"},
		})
		return
	}

	affected, err := nc.Service.BulkAction(userID, body.NotificationIDs, body.Action)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to apply bulk action"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bulk action applied", gin.H{"affected_count": affected})
}

// Broadcast -> POST /notifications/broadcast (admin/super_admin saja)
func (nc *NotificationController) Broadcast(c *gin.Context) {
	role := currentRole(c)
	if role != "admin" && role != "super_admin" {
		utils.RespondError(c, http.StatusForbidden, errors.New("broadcast requires admin role"))
		return
	}

	type reqBody struct {
		Title           string                 `json:"title" binding:"required"`
		Message         string                 `json:"message" binding:"required"`
		Type            string                 `json:"type" binding:"required"`
		Priority        string                 `json:"priority"`
		ActionURL       *string                `json:"action_url"`
		Metadata        map[string]interface{} `json:"metadata"`
		UserIDs         []uint                 `json:"user_ids"`
		UserRoles       []string               `json:"user_roles"`
		RestaurantIDs   []uint                 `json:"restaurant_ids"`
		OrganizationIDs []uint                 `json:"organization_ids"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var fieldErrs []utils.FieldError
	if !models.IsValidNotificationType(body.Type) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "type", Message: "unknown notification type"})
	}
	if body.Priority != "" && !models.IsValidPriority(body.Priority) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "priority", Message: "priority must be low, medium, high or urgent"})
	}
	if len(body.UserIDs) == 0 && len(body.UserRoles) == 0 && len(body.RestaurantIDs) == 0 && len(body.OrganizationIDs) == 0 {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "user_ids", Message: "at least one target is required"})
	}
	if len(fieldErrs) > 0 {
		utils.RespondValidationError(c, "Validation failed", fieldErrs)
		return
	}

	count, err := nc.Service.Broadcast(services.BroadcastInput{
		Title:           body.Title,
		Message:         body.Message,
		Type:            body.Type,
		Priority:        body.Priority,
		ActionURL:       body.ActionURL,
		Metadata:        body.Metadata,
		UserIDs:         body.UserIDs,
		UserRoles:       body.UserRoles,
		RestaurantIDs:   body.RestaurantIDs,
		OrganizationIDs: body.OrganizationIDs,
	})
	if err != nil {
		utils.ErrorLogger.Printf("Error broadcasting notification: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to broadcast notification"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Notification broadcast", gin.H{"recipients_count": count})
}

// GetPreferences -> GET /notifications/preferences
func (nc *NotificationController) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	pref, err := nc.Service.GetPreferences(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch preferences"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification preferences", pref)
}

// UpdatePreferences -> PUT /notifications/preferences (upsert)
func (nc *NotificationController) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	type reqBody struct {
		EmailEnabled    *bool    `json:"email_enabled"`
		PushEnabled     *bool    `json:"push_enabled"`
		SMSEnabled      *bool    `json:"sms_enabled"`
		Types           []string `json:"types"`
		QuietHoursStart *string  `json:"quiet_hours_start"`
		QuietHoursEnd   *string  `json:"quiet_hours_end"`
		Timezone        *string  `json:"timezone"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var fieldErrs []utils.FieldError
	if body.QuietHoursStart != nil && !quietHoursPattern.MatchString(*body.QuietHoursStart) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "quiet_hours_start", Message: "must be HH:MM in 24-hour format"})
	}
	if body.QuietHoursEnd != nil && !quietHoursPattern.MatchString(*body.QuietHoursEnd) {
		fieldErrs = append(fieldErrs, utils.FieldError{Field: "quiet_hours_end", Message: "must be HH:MM in 24-hour format"})
	}
	for _, t := range body.Types {
		if !models.IsValidNotificationType(t) {
			fieldErrs = append(fieldErrs, utils.FieldError{Field: "types", Message: "unknown notification type: " + t})
		}
	}
	if len(fieldErrs) > 0 {
		utils.RespondValidationError(c, "Validation failed", fieldErrs)
		return
	}

	input := services.PreferencesInput{
		EmailEnabled:    body.EmailEnabled,
		PushEnabled:     body.PushEnabled,
		SMSEnabled:      body.SMSEnabled,
		QuietHoursStart: body.QuietHoursStart,
		QuietHoursEnd:   body.QuietHoursEnd,
		Timezone:        body.Timezone,
	}
	if body.Types != nil {
		raw, err := json.Marshal(body.Types)
		if err == nil {
			input.Types = datatypes.JSON(raw)
		}
	}

	pref, err := nc.Service.UpdatePreferences(userID, input)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update preferences"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification preferences updated", pref)
}
