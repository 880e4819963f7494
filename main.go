package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-realtime/config"
	"github.com/yeremiapane/restaurant-realtime/models"
	"github.com/yeremiapane/restaurant-realtime/realtime"
	"github.com/yeremiapane/restaurant-realtime/router"
	"github.com/yeremiapane/restaurant-realtime/services"
	"github.com/yeremiapane/restaurant-realtime/utils"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Transport hub untuk client UI
	hub := realtime.NewHub()

	// Dispatcher + change feed subscriber
	dispatcher := services.NewDispatcher(hub)

	feed, err := services.ConnectFeed(cfg.NATSUrl, cfg.NATSMaxReconnect, cfg.NATSReconnectWait)
	if err != nil {
		utils.ErrorLogger.Printf("Change feed unavailable, realtime events disabled: %v", err)
	}

	subscriber := services.NewSubscriber(feed, dispatcher)
	subscriber.SubscribeToAllTables()

	r := router.SetupRouter(utils.GetDB(), hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown: tutup langganan dulu supaya tidak ada dispatch baru
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down...")

	subscriber.UnsubscribeFromAllTables()
	if feed != nil {
		feed.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Forced shutdown: %v", err)
	}
	utils.InfoLogger.Println("Server stopped")
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Restaurant{},
		&models.Table{},
		&models.TableOrder{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryItem{},
		&models.Reservation{},
		&models.Conversation{},
		&models.Message{},
		&models.Payment{},
		&models.Notification{},
		&models.NotificationPreference{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
