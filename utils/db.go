package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	dbMu sync.RWMutex
	db   *gorm.DB
)

// InitDB menyimpan handle gorm proses. Pemanggilan setelah handle terisi
// diabaikan; handle pertama yang menang.
func InitDB(database *gorm.DB) {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db == nil {
		db = database
	}
}

// GetDB mengembalikan handle yang disimpan InitDB; nil bila belum init.
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}
