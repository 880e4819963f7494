package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-realtime/controllers"
	"github.com/yeremiapane/restaurant-realtime/models"
	"github.com/yeremiapane/restaurant-realtime/services"
	"github.com/yeremiapane/restaurant-realtime/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	dsn := fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Notification{}, &models.NotificationPreference{})
	require.NoError(t, err)
	return db
}

// stubAuth meniru AuthMiddleware tanpa token sungguhan.
func stubAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupTestRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	nc := controllers.NewNotificationController(services.NewNotificationService(db))

	authed := r.Group("/", stubAuth(userID, role))
	{
		authed.POST("/notifications", nc.CreateNotification)
		authed.GET("/notifications", nc.ListNotifications)
		authed.GET("/notifications/unread-count", nc.GetUnreadCount)
		authed.PATCH("/notifications/read-all", nc.MarkAllAsRead)
		authed.POST("/notifications/bulk", nc.BulkAction)
		authed.POST("/notifications/broadcast", nc.Broadcast)
		authed.GET("/notifications/preferences", nc.GetPreferences)
		authed.PUT("/notifications/preferences", nc.UpdatePreferences)
		authed.GET("/notifications/:notif_id", nc.GetNotificationByID)
		authed.PUT("/notifications/:notif_id", nc.UpdateNotification)
		authed.DELETE("/notifications/:notif_id", nc.DeleteNotification)
		authed.PATCH("/notifications/:notif_id/read", nc.MarkAsRead)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateNotificationEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db, 1, "staff")

	w := doJSON(t, r, http.MethodPost, "/notifications", gin.H{
		"user_id": 1,
		"title":   "Order ready",
		"message": "Order #42 is ready",
		"type":    "order_ready",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "medium", data["priority"])
	assert.Equal(t, "unread", data["status"])
}

func TestCreateNotificationValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db, 1, "staff")

	// field wajib hilang
	w := doJSON(t, r, http.MethodPost, "/notifications", gin.H{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// tipe tidak dikenal
	w = doJSON(t, r, http.MethodPost, "/notifications", gin.H{
		"user_id": 1, "title": "t", "message": "m", "type": "not_a_type",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["errors"])
}

func TestListNotificationsPagination(t *testing.T) {
	db := setupTestDB(t)
	ns := services.NewNotificationService(db)
	for i := 0; i < 30; i++ {
		_, err := ns.Create(services.CreateNotificationInput{
			UserID: 1, Title: fmt.Sprintf("n%d", i), Message: "m", Type: "system_announcement",
		})
		require.NoError(t, err)
	}
	// milik user lain, tidak boleh ikut
	_, err := ns.Create(services.CreateNotificationInput{
		UserID: 2, Title: "other", Message: "m", Type: "system_announcement",
	})
	require.NoError(t, err)

	r := setupTestRouter(db, 1, "staff")

	w := doJSON(t, r, http.MethodGet, "/notifications?page=2&limit=20", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	notifs := data["notifications"].([]interface{})
	assert.Len(t, notifs, 10)

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(30), pagination["total"])
	assert.Equal(t, float64(2), pagination["total_pages"])
}

func TestListNotificationsBadQuery(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db, 1, "staff")

	for _, path := range []string{
		"/notifications?limit=500",
		"/notifications?page=0",
		"/notifications?status=bogus",
		"/notifications?sort_by=secret_column",
		"/notifications?start_date=yesterday",
	} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGetNotificationNotFound(t *testing.T) {
	db := setupTestDB(t)
	ns := services.NewNotificationService(db)
	notif, err := ns.Create(services.CreateNotificationInput{
		UserID: 2, Title: "t", Message: "m", Type: "new_message",
	})
	require.NoError(t, err)

	// user 1 tidak boleh melihat milik user 2; respons sama dengan id fiktif
	r := setupTestRouter(db, 1, "staff")

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/notifications/%d", notif.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/notifications/99999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateNotificationRejectsUnknownFields(t *testing.T) {
	db := setupTestDB(t)
	ns := services.NewNotificationService(db)
	notif, err := ns.Create(services.CreateNotificationInput{
		UserID: 1, Title: "t", Message: "m", Type: "new_message",
	})
	require.NoError(t, err)

	r := setupTestRouter(db, 1, "staff")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/notifications/%d", notif.ID), gin.H{
		"title": "hacked",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/notifications/%d", notif.ID), gin.H{
		"status": "read",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "read", data["status"])
	assert.NotNil(t, data["read_at"])
}

func TestMarkAsReadAndReadAll(t *testing.T) {
	db := setupTestDB(t)
	ns := services.NewNotificationService(db)
	first, err := ns.Create(services.CreateNotificationInput{
		UserID: 1, Title: "a", Message: "m", Type: "new_message",
	})
	require.NoError(t, err)
	_, err = ns.Create(services.CreateNotificationInput{
		UserID: 1, Title: "b", Message: "m", Type: "new_message",
	})
	require.NoError(t, err)

	r := setupTestRouter(db, 1, "staff")

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", first.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/notifications/read-all", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	w = doJSON(t, r, http.MethodGet, "/notifications/unread-count", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])
}

func TestDeleteNotificationEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ns := services.NewNotificationService(db)
	notif, err := ns.Create(services.CreateNotificationInput{
		UserID: 1, Title: "t", Message: "m", Type: "new_message",
	})
	require.NoError(t, err)

	r := setupTestRouter(db, 1, "staff")

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/notifications/%d", notif.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/notifications/%d", notif.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkActionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	ns := services.NewNotificationService(db)
	var ids []uint
	for i := 0; i < 3; i++ {
		n, err := ns.Create(services.CreateNotificationInput{
			UserID: 1, Title: "t", Message: "m", Type: "new_message",
		})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	r := setupTestRouter(db, 1, "staff")

	w := doJSON(t, r, http.MethodPost, "/notifications/bulk", gin.H{
		"notification_ids": ids,
		"action":           "archive",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["affected_count"])

	w = doJSON(t, r, http.MethodPost, "/notifications/bulk", gin.H{
		"notification_ids": ids,
		"action":           "detonate",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/notifications/bulk", gin.H{
		"notification_ids": []uint{},
		"action":           "archive",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBroadcastRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	rest := uint(1)
	users := []models.User{
		{Name: "a", Email: "a@b.test", Role: "chef", RestaurantID: &rest},
		{Name: "b", Email: "b@b.test", Role: "staff", RestaurantID: &rest},
	}
	require.NoError(t, db.Create(&users).Error)

	payload := gin.H{
		"title":          "Maintenance",
		"message":        "Tonight at 02:00",
		"type":           "system_announcement",
		"restaurant_ids": []uint{rest},
	}

	// customer ditolak sebelum efek samping apapun
	r := setupTestRouter(db, 5, "customer")
	w := doJSON(t, r, http.MethodPost, "/notifications/broadcast", payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var rows int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)

	// admin boleh
	r = setupTestRouter(db, 6, "admin")
	w = doJSON(t, r, http.MethodPost, "/notifications/broadcast", payload)
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["recipients_count"])
}

func TestBroadcastValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db, 1, "admin")

	// tanpa target
	w := doJSON(t, r, http.MethodPost, "/notifications/broadcast", gin.H{
		"title": "t", "message": "m", "type": "system_announcement",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferencesEndpoints(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db, 1, "staff")

	// default dibuat saat pertama kali diambil
	w := doJSON(t, r, http.MethodGet, "/notifications/preferences", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["email_enabled"])

	// jam tenang harus HH:MM
	w = doJSON(t, r, http.MethodPut, "/notifications/preferences", gin.H{
		"quiet_hours_start": "25:99",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/notifications/preferences", gin.H{
		"quiet_hours_start": "22:00",
		"quiet_hours_end":   "07:00",
		"push_enabled":      false,
		"types":             []string{"order_created", "low_stock"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "22:00", data["quiet_hours_start"])
	assert.Equal(t, false, data["push_enabled"])
}
