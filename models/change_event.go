package models

import "time"

// Event types yang dikirim oleh change feed
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent adalah bentuk ternormalisasi dari satu notifikasi perubahan
// baris. NewRecord nil hanya untuk DELETE, OldRecord nil hanya untuk INSERT.
type ChangeEvent struct {
	Table     string                 `json:"table"`
	EventType string                 `json:"eventType"`
	NewRecord map[string]interface{} `json:"newRecord"`
	OldRecord map[string]interface{} `json:"oldRecord"`
	Timestamp time.Time              `json:"timestamp"`
}

// Record mengembalikan data utama event: record baru, atau record lama
// untuk DELETE.
func (e ChangeEvent) Record() map[string]interface{} {
	if e.NewRecord != nil {
		return e.NewRecord
	}
	return e.OldRecord
}
