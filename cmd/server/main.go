package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibhutichou/UrbanMind/internal/config"
	"github.com/vibhutichou/UrbanMind/internal/database"
	"github.com/vibhutichou/UrbanMind/internal/handler"
	"github.com/vibhutichou/UrbanMind/internal/middleware"
	"github.com/vibhutichou/UrbanMind/internal/repository"
	"github.com/vibhutichou/UrbanMind/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	chatRepo := repository.NewChatRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	notifySvc := service.NewNotificationService(cfg.NotificationURL)
	registry := service.NewRoomRegistry()
	chatSvc := service.NewChatService(chatRepo, roomRepo, registry, notifySvc)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// WebSocket (token checked inside the upgrade gate)
	wsH := handler.NewWSHandler(registry, chatSvc, authSvc, cfg.SendBufferSize, cfg.ReadTimeoutSeconds)
	app.Get("/ws/chat", wsH.Upgrade)

	// JWT-protected API
	v1 := app.Group("/api/v1", middleware.Auth(authSvc))

	chatH := handler.NewChatHandler(chatSvc, chatRepo, roomRepo)
	rooms := v1.Group("/rooms")
	rooms.Post("/", middleware.RateLimit(30, time.Minute), chatH.CreateRoom)
	rooms.Get("/", chatH.ListRooms)
	rooms.Get("/:id", chatH.GetRoom)
	rooms.Get("/:id/messages", chatH.GetMessages)
	rooms.Post("/:id/messages", chatH.PostMessage)
	rooms.Post("/:id/read", chatH.MarkRead)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("UrbanMind chat backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	log.Println("Server stopped")
}
