package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/yeremiapane/restaurant-realtime/utils"
)

// DefaultSchema adalah schema database yang diawasi.
const DefaultSchema = "public"

// WatchedTables adalah daftar tetap tabel yang di-subscribe saat startup.
var WatchedTables = []string{
	"users",
	"restaurants",
	"organizations",
	"tables",
	"table_orders",
	"orders",
	"order_items",
	"menu_items",
	"menu_categories",
	"inventory_items",
	"suppliers",
	"purchase_orders",
	"reservations",
	"payments",
	"transactions",
	"notifications",
	"notification_preferences",
	"conversations",
	"messages",
	"customers",
	"staff_members",
	"shifts",
	"reviews",
	"blogs",
	"blog_posts",
	"promotions",
	"loyalty_points",
	"carts",
	"cart_items",
	"cleaning_logs",
}

// rawChangePayload adalah bentuk mentah message dari publisher CDC.
type rawChangePayload struct {
	EventType string                 `json:"eventType"`
	New       map[string]interface{} `json:"new"`
	Old       map[string]interface{} `json:"old"`
}

// Subscriber memegang registry langganan per tabel dan meneruskan setiap
// perubahan ke Dispatcher. Registry dan flag inisialisasi dijaga satu mutex
// supaya startAll tidak balapan dengan eviction dari error callback.
type Subscriber struct {
	conn       FeedConn
	dispatcher *Dispatcher

	mu          sync.Mutex
	subs        map[string]FeedSubscription
	initialized bool
}

func NewSubscriber(conn FeedConn, dispatcher *Dispatcher) *Subscriber {
	s := &Subscriber{
		conn:       conn,
		dispatcher: dispatcher,
		subs:       make(map[string]FeedSubscription),
	}
	if conn != nil {
		conn.SetErrorHandler(s.handleChannelError)
	}
	return s
}

func channelName(schema, table string) string {
	return fmt.Sprintf("dbchange.%s.%s", schema, table)
}

// Subscribe membuka langganan untuk satu tabel pada schema default.
// Idempotent: pemanggilan kedua mengembalikan handle yang sama.
// Mengembalikan nil bila koneksi feed belum siap.
func (s *Subscriber) Subscribe(table string) FeedSubscription {
	return s.SubscribeSchema(DefaultSchema, table)
}

func (s *Subscriber) SubscribeSchema(schema, table string) FeedSubscription {
	if s.conn == nil || !s.conn.IsConnected() {
		utils.ErrorLogger.Printf("Cannot subscribe to %s: change feed connection not available", table)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribeLocked(schema, table)
}

func (s *Subscriber) subscribeLocked(schema, table string) FeedSubscription {
	subject := channelName(schema, table)
	if existing, ok := s.subs[subject]; ok {
		return existing
	}

	sub, err := s.conn.Subscribe(subject, func(data []byte) {
		s.handleRaw(table, data)
	})
	if err != nil {
		utils.ErrorLogger.Printf("Error subscribing to %s: %v", subject, err)
		return nil
	}

	s.subs[subject] = sub
	utils.InfoLogger.Printf("Subscribed to changes on %s.%s", schema, table)
	return sub
}

// handleRaw menormalkan payload mentah dan meneruskannya ke dispatcher.
func (s *Subscriber) handleRaw(table string, data []byte) {
	var payload rawChangePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		utils.ErrorLogger.Printf("Error parsing change payload for %s: %v", table, err)
		return
	}

	switch payload.EventType {
	case "INSERT", "UPDATE", "DELETE":
	default:
		utils.ErrorLogger.Printf("Unknown event type %q on table %s", payload.EventType, table)
		return
	}

	if payload.New == nil && payload.Old == nil {
		utils.ErrorLogger.Printf("Change payload for %s carries no record, skipping", table)
		return
	}

	s.dispatcher.Dispatch(table, payload.EventType, payload.New, payload.Old)
}

// handleChannelError meng-evict entri registry sehingga Subscribe berikutnya
// boleh mencoba lagi. Reconnect level koneksi ditangani NATS sendiri.
func (s *Subscriber) handleChannelError(subject string, err error) {
	utils.ErrorLogger.Printf("Channel error on %s: %v", subject, err)
	if subject == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[subject]; ok {
		_ = sub.Unsubscribe()
		delete(s.subs, subject)
		utils.InfoLogger.Printf("Removed subscription for %s after channel error", subject)
	}
}

// SubscribeToAllTables membuka langganan untuk seluruh WatchedTables.
// Idempotent: no-op bila sudah terinisialisasi.
func (s *Subscriber) SubscribeToAllTables() {
	if s.conn == nil || !s.conn.IsConnected() {
		utils.ErrorLogger.Printf("Cannot start table subscriptions: change feed connection not available")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		utils.InfoLogger.Printf("Table subscriptions already initialized, skipping")
		return
	}

	for _, table := range WatchedTables {
		s.subscribeLocked(DefaultSchema, table)
	}
	s.initialized = true
	utils.InfoLogger.Printf("Subscribed to %d tables", len(s.subs))
}

// UnsubscribeFromAllTables menutup semua langganan dan mereset flag.
func (s *Subscriber) UnsubscribeFromAllTables() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for subject, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			utils.ErrorLogger.Printf("Error unsubscribing from %s: %v", subject, err)
		}
		delete(s.subs, subject)
	}
	s.initialized = false
	utils.InfoLogger.Printf("Unsubscribed from all tables")
}

// Unsubscribe menutup langganan satu tabel pada schema default.
func (s *Subscriber) Unsubscribe(table string) {
	subject := channelName(DefaultSchema, table)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[subject]; ok {
		if err := sub.Unsubscribe(); err != nil {
			utils.ErrorLogger.Printf("Error unsubscribing from %s: %v", subject, err)
		}
		delete(s.subs, subject)
		utils.InfoLogger.Printf("Unsubscribed from %s", subject)
	}
}

// SubscriptionCount mengembalikan jumlah langganan aktif.
func (s *Subscriber) SubscriptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// IsInitialized melaporkan apakah SubscribeToAllTables sudah berjalan.
func (s *Subscriber) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
