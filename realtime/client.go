package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-realtime/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 256
)

// clientFrame adalah frame kontrol dari client: join/leave room.
type clientFrame struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

type Client struct {
	ID     string
	UserID uint
	Role   string

	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint, role string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Start mendaftarkan client, auto-join room user miliknya, dan menjalankan
// pump baca/tulis. Blocking sampai koneksi putus.
func (c *Client) Start() {
	c.hub.Register(c)
	c.hub.Join(c, UserTopic(fmt.Sprintf("%d", c.UserID)).Room())

	go c.writePump()
	c.readPump()
}

func (c *Client) queue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		// Client lambat: drop message, jangan blokir dispatch
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Dropping message for slow client %s (user %d)", c.ID, c.UserID)
		}
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				if utils.ErrorLogger != nil {
					utils.ErrorLogger.Printf("ws read error (client %s): %v", c.ID, err)
				}
			}
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		switch frame.Action {
		case "join":
			if frame.Room != "" {
				c.hub.Join(c, frame.Room)
			}
		case "leave":
			if frame.Room != "" {
				c.hub.Leave(c, frame.Room)
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
