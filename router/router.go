package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-realtime/controllers"
	"github.com/yeremiapane/restaurant-realtime/middlewares"
	"github.com/yeremiapane/restaurant-realtime/realtime"
	"github.com/yeremiapane/restaurant-realtime/services"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Rate limiter global per IP (50 req/detik)
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	notifService := services.NewNotificationService(db)
	notifCtrl := controllers.NewNotificationController(notifService)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// WebSocket endpoint; token via query string
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", controllers.WSHandler(hub))
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	// NOTIFICATIONS
	auth.POST("/notifications", notifCtrl.CreateNotification)
	auth.GET("/notifications", notifCtrl.ListNotifications)
	auth.GET("/notifications/unread-count", notifCtrl.GetUnreadCount)
	auth.GET("/notifications/preferences", notifCtrl.GetPreferences)
	auth.PUT("/notifications/preferences", notifCtrl.UpdatePreferences)
	auth.PATCH("/notifications/read-all", notifCtrl.MarkAllAsRead)
	auth.POST("/notifications/bulk", notifCtrl.BulkAction)

	broadcast := auth.Group("/notifications")
	broadcast.Use(middlewares.RequireRoles("admin", "super_admin"))
	broadcast.Use(middlewares.NewStrictRateLimiter())
	{
		broadcast.POST("/broadcast", notifCtrl.Broadcast)
	}

	auth.GET("/notifications/:notif_id", notifCtrl.GetNotificationByID)
	auth.PUT("/notifications/:notif_id", notifCtrl.UpdateNotification)
	auth.DELETE("/notifications/:notif_id", notifCtrl.DeleteNotification)
	auth.PATCH("/notifications/:notif_id/read", notifCtrl.MarkAsRead)

	return r
}
