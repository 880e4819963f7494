package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-realtime/utils"
)

// Message adalah amplop payload yang dikirim ke client.
type Message struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub menampung semua client websocket beserta keanggotaan room-nya.
// Keanggotaan room dimiliki transport; core hanya menghasilkan
// (Topic, Emission) dan tidak pernah menyentuh map ini langsung.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register menambahkan connection ke set client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Unregister melepaskan connection dan keanggotaan room-nya.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	c.closeSend()
}

func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// EmitGlobal menyiarkan event ke semua client.
func (h *Hub) EmitGlobal(event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	payload, err := marshalMessage(event, data)
	if err != nil {
		return
	}
	for c := range h.clients {
		c.queue(payload)
	}
}

// EmitToRoom menyiarkan event hanya ke anggota room.
func (h *Hub) EmitToRoom(room, event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok || len(members) == 0 {
		return
	}
	payload, err := marshalMessage(event, data)
	if err != nil {
		return
	}
	for c := range members {
		c.queue(payload)
	}
}

// Emit mengirim satu Emission: global bila topic kosong, selain itu ke room.
func (h *Hub) Emit(e Emission) {
	if e.Topic.IsGlobal() {
		h.EmitGlobal(e.Event, e.Data)
		return
	}
	h.EmitToRoom(e.Topic.Room(), e.Event, e.Data)
}

// ClientCount mengembalikan jumlah client terkoneksi.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// RoomSize mengembalikan jumlah anggota satu room.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func marshalMessage(event string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(Message{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error marshaling message for event %s: %v", event, err)
		}
		return nil, err
	}
	return payload, nil
}
