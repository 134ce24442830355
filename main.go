package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"food-delivery-admin/chat"
	"food-delivery-admin/config"
	"food-delivery-admin/functions"
	"food-delivery-admin/handlers"
	"food-delivery-admin/logger"
	"food-delivery-admin/models"
	"food-delivery-admin/pages"
	"food-delivery-admin/routes"
	"food-delivery-admin/session"
	"food-delivery-admin/store"
	"food-delivery-admin/upload"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Initialize the document store
	backend, closeStore, err := openBackend(ctx, cfg)
	if err != nil {
		log.Error("Failed to open document store", logger.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	// 4. Services
	sessions := session.NewManager(
		store.Open[models.Operator](backend, models.CollOperators, store.Unordered),
		cfg.JWTSecret, log.With(logger.String("component", "session")))
	if err := sessions.EnsureOperator(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("Failed to seed operator", logger.Error(err))
		os.Exit(1)
	}
	sessions.OnChange(func(e session.Event) {
		log.Debug("session changed", logger.String("kind", string(e.Kind)), logger.String("email", e.Email))
	})

	bucket, err := upload.NewLocalBucket(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Error("Failed to prepare upload dir", logger.Error(err))
		os.Exit(1)
	}

	pusher, closePusher := newPusher(cfg, log)
	defer closePusher()

	users := store.Open[models.User](backend, models.CollUsers, store.NewestFirst)
	orders := store.Open[models.Order](backend, models.CollOrders, store.NewestFirst)
	notifications := store.Open[models.Notification](backend, models.CollNotifications, store.NewestFirst)

	env := pages.Env{Log: log}
	p := handlers.Pages{
		Addresses:     pages.NewAddresses(store.Open[models.Address](backend, models.CollAddresses, store.NewestFirst), env),
		Cards:         pages.NewCards(store.Open[models.Card](backend, models.CollCards, store.NewestFirst), env),
		Categories:    pages.NewCategories(store.Open[models.Category](backend, models.CollCategories, store.BySortOrder), bucket, env),
		Banners:       pages.NewBanners(store.Open[models.Banner](backend, models.CollBanners, store.BySortOrder), env),
		FreeFood:      pages.NewFreeFood(store.Open[models.FreeFoodRequest](backend, models.CollFreeFoodRequests, store.NewestFirst), env),
		Help:          pages.NewHelp(store.Open[models.HelpRequest](backend, models.CollHelpRequests, store.NewestFirst), env),
		Orders:        pages.NewOrders(orders, users, cfg.DeliveryFee, env),
		Users:         pages.NewUsers(users, env),
		Notifications: pages.NewNotifications(notifications, env),
	}

	chatLog := log.With(logger.String("component", "chat"))
	chats := chat.NewController(
		store.NewLive(store.Open[models.ChatStatus](backend, models.CollChatStatus, store.NewestFirst), chatLog),
		store.NewLive(store.Open[models.ChatMessage](backend, models.CollChatMessages, store.ByTimestamp), chatLog),
		orders, chatLog, chat.WithTimeout(cfg.ChatTimeout))
	if err := chats.Open(ctx); err != nil {
		log.Error("Failed to open chats", logger.Error(err))
		os.Exit(1)
	}
	defer chats.Close()

	fns := functions.NewService(users, notifications, pusher, log.With(logger.String("component", "functions")))

	// 5. Chat inactivity sweeper
	sweeper := chat.NewSweeper(chats, cfg.ChatSweepInterval, chat.RealTicker, chatLog)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(ctx)
	}()

	// 6. HTTP server
	r := gin.Default()

	// CORS middleware for the console front end
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	r.MaxMultipartMemory = 2 * upload.MaxSize

	r.GET("/health", handlers.Health(cfg.ServiceName))
	r.Static("/media", cfg.UploadDir)

	h := handlers.New(sessions, p, chats, fns, log.With(logger.String("component", "http")))
	routes.SetupRoutes(r, h, sessions)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
	go func() {
		log.Info("🚀 Server running", logger.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", logger.Error(err))
			stop()
		}
	}()

	// 7. Graceful Shutdown
	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", logger.Error(err))
	}
	<-sweepDone
}

func openBackend(ctx context.Context, cfg config.Config) (store.Backend, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := config.InitMongo(ctx, cfg)
		if err != nil {
			return store.Backend{}, nil, err
		}
		return store.Backend{Mongo: db}, func() { disconnect(client) }, nil
	case config.DriverSQLite:
		db, err := config.InitDB(cfg)
		if err != nil {
			return store.Backend{}, nil, err
		}
		return store.Backend{Gorm: db}, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	}
	return store.Backend{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}

func newPusher(cfg config.Config, log logger.ILogger) (functions.Pusher, func()) {
	if cfg.AMQPURL == "" {
		log.Warning("AMQP_URL not set, pushes are only logged")
		return functions.NewLogPusher(log), func() {}
	}
	conn, err := functions.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.Error("Failed to connect to rabbitmq, pushes are only logged", logger.Error(err))
		return functions.NewLogPusher(log), func() {}
	}
	return functions.NewAMQPPusher(conn), func() { _ = conn.Close() }
}
