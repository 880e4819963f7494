package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config menampung seluruh konfigurasi proses yang dibaca dari environment.
type Config struct {
	Port              string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	NATSUrl           string
	NATSMaxReconnect  int
	NATSReconnectWait time.Duration
	JWTSecret         string
}

func Load() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBUser:            getEnv("DB_USER", "root"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBName:            getEnv("DB_NAME", "restaurant_realtime"),
		NATSUrl:           getEnv("NATS_URL", "nats://127.0.0.1:4222"),
		NATSMaxReconnect:  getEnvInt("NATS_MAX_RECONNECT", 60),
		NATSReconnectWait: time.Duration(getEnvInt("NATS_RECONNECT_WAIT_MS", 2000)) * time.Millisecond,
		JWTSecret:         getEnv("JWT_SECRET", ""),
	}
	return cfg
}

// DSN membentuk DSN MySQL dari bagian-bagian konfigurasi.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
