package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-realtime/realtime"
	"github.com/yeremiapane/restaurant-realtime/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler -> endpoint WebSocket. Client masuk room user miliknya otomatis;
// room lain di-join lewat frame {"action":"join","room":"..."}.
func WSHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		role, _ := c.Get("role")
		roleStr, _ := role.(string)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.ErrorLogger.Printf("Error upgrading websocket: %v", err)
			return
		}

		client := realtime.NewClient(hub, conn, userID.(uint), roleStr)
		utils.InfoLogger.Printf("Websocket client %s connected (user %d, role %s)", client.ID, client.UserID, client.Role)
		client.Start()
	}
}
