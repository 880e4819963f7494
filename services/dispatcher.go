package services

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-realtime/models"
	"github.com/yeremiapane/restaurant-realtime/realtime"
	"github.com/yeremiapane/restaurant-realtime/utils"
)

// Emitter adalah sink emisi event. Di produksi diimplementasikan oleh
// realtime.Hub; test memakai fake.
type Emitter interface {
	EmitGlobal(event string, data interface{})
	EmitToRoom(room string, event string, data interface{})
}

// TableHandler menghasilkan emisi spesifik-domain untuk satu jenis tabel.
// Emisi global generik sudah terjadi sebelum Handle dipanggil.
type TableHandler interface {
	Handle(event models.ChangeEvent) []realtime.Emission
}

// GlobalPayload adalah payload emisi global ${table}_${eventtype}.
type GlobalPayload struct {
	EventType string                 `json:"eventType"`
	Table     string                 `json:"table"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Dispatcher menerima ChangeEvent ternormalisasi dan meneruskannya ke
// emitter: satu emisi global selalu, lalu emisi room hasil handler.
type Dispatcher struct {
	emitter  Emitter
	handlers map[string]TableHandler
	generic  TableHandler
}

func NewDispatcher(emitter Emitter) *Dispatcher {
	return &Dispatcher{
		emitter: emitter,
		generic: genericHandler{},
		handlers: map[string]TableHandler{
			"notifications":   notificationsHandler{},
			"users":           usersHandler{},
			"orders":          ordersHandler{},
			"menu_items":      menuItemsHandler{},
			"restaurants":     restaurantsHandler{},
			"inventory_items": inventoryItemsHandler{},
			"messages":        messagesHandler{},
			"reservations":    reservationsHandler{},
			"payments":        paymentsHandler{},
		},
	}
}

// Dispatch memproses satu perubahan baris. Emisi global selalu terjadi,
// apapun hasil handler per-tabel.
func (d *Dispatcher) Dispatch(table, eventType string, newRecord, oldRecord map[string]interface{}) {
	event := models.ChangeEvent{
		Table:     table,
		EventType: eventType,
		NewRecord: newRecord,
		OldRecord: oldRecord,
		Timestamp: time.Now().UTC(),
	}

	d.emitter.EmitGlobal(
		fmt.Sprintf("%s_%s", table, strings.ToLower(eventType)),
		GlobalPayload{
			EventType: eventType,
			Table:     table,
			Data:      event.Record(),
			Timestamp: event.Timestamp,
		},
	)

	handler, ok := d.handlers[table]
	if !ok {
		handler = d.generic
	}

	for _, e := range d.safeHandle(handler, event) {
		if e.Topic.IsGlobal() {
			d.emitter.EmitGlobal(e.Event, e.Data)
		} else {
			d.emitter.EmitToRoom(e.Topic.Room(), e.Event, e.Data)
		}
	}
}

// safeHandle memastikan handler yang bermasalah tidak menghentikan proses:
// emisi global sudah terjadi, kegagalan routing hanya dicatat.
func (d *Dispatcher) safeHandle(h TableHandler, event models.ChangeEvent) (out []realtime.Emission) {
	defer func() {
		if r := recover(); r != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("Recovered from dispatch handler panic (table %s): %v", event.Table, r)
			}
			out = nil
		}
	}()
	return h.Handle(event)
}

// genericHandler merutekan berdasarkan field foreign-key yang dikenal.
// Dipakai untuk semua tabel tanpa handler khusus.
type genericHandler struct{}

func (genericHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	rec := event.Record()
	if rec == nil {
		return nil
	}

	eventName := singular(event.Table) + "_change"
	var out []realtime.Emission

	switch {
	case event.Table == "conversations":
		// Dua partisipan, dua room user
		if id, ok := recordID(rec, "customer_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: eventName, Data: rec})
		}
		if id, ok := recordID(rec, "staff_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: eventName, Data: rec})
		}
	case event.Table == "table_orders":
		if id, ok := recordID(rec, "table_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.TableTopic(id), Event: eventName, Data: rec})
		}
	default:
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: eventName, Data: rec})
		} else if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: eventName, Data: rec})
		} else if id, ok := recordID(rec, "organization_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.OrganizationTopic(id), Event: eventName, Data: rec})
		}
	}

	return out
}

func singular(table string) string {
	if strings.HasSuffix(table, "ies") {
		return strings.TrimSuffix(table, "ies") + "y"
	}
	return strings.TrimSuffix(table, "s")
}

// recordID membaca field id dari record dan memformatnya sebagai string.
func recordID(rec map[string]interface{}, field string) (string, bool) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", false
	}
	switch n := v.(type) {
	case string:
		if n == "" {
			return "", false
		}
		return n, true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	default:
		return fmt.Sprintf("%v", n), true
	}
}

// changedFields mengembalikan daftar key level atas yang nilainya berbeda
// antara record lama dan baru.
func changedFields(oldRecord, newRecord map[string]interface{}) []string {
	var changed []string
	seen := make(map[string]bool)

	for key, newVal := range newRecord {
		seen[key] = true
		oldVal, ok := oldRecord[key]
		if !ok || !reflect.DeepEqual(oldVal, newVal) {
			changed = append(changed, key)
		}
	}
	for key := range oldRecord {
		if !seen[key] {
			changed = append(changed, key)
		}
	}
	return changed
}

func fieldChanged(event models.ChangeEvent, field string) bool {
	for _, f := range changedFields(event.OldRecord, event.NewRecord) {
		if f == field {
			return true
		}
	}
	return false
}

func anyFieldChanged(event models.ChangeEvent, fields ...string) bool {
	changed := changedFields(event.OldRecord, event.NewRecord)
	for _, f := range fields {
		for _, c := range changed {
			if f == c {
				return true
			}
		}
	}
	return false
}

// numField membaca field numerik dari record.
func numField(rec map[string]interface{}, field string) (float64, bool) {
	v, ok := rec[field]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func strField(rec map[string]interface{}, field string) (string, bool) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
