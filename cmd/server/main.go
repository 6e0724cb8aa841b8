package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YANGYUNJIK/my-app/internal/config"
	"github.com/YANGYUNJIK/my-app/internal/events"
	"github.com/YANGYUNJIK/my-app/internal/handlers"
	"github.com/YANGYUNJIK/my-app/internal/repository"
	"github.com/YANGYUNJIK/my-app/internal/service"
	"github.com/YANGYUNJIK/my-app/internal/storage"
	"github.com/YANGYUNJIK/my-app/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting snack ordering api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.LogLevel,
	)

	// Image assets
	assets := storage.NewAssetStore(cfg.Assets.UploadDir, cfg.Assets.DefaultImage)
	if err := assets.EnsureDefault(); err != nil {
		log.Error("failed to prepare upload directory", "dir", cfg.Assets.UploadDir, "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	var (
		itemRepo  repository.ItemRepository
		orderRepo repository.OrderRepository
		client    *mongo.Client
	)
	checks := map[string]handlers.HealthCheck{}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		itemRepo = repository.NewInMemoryItemRepository()
		orderRepo = repository.NewInMemoryOrderRepository()
	default:
		timeout := time.Duration(cfg.Storage.ConnectTimeout) * time.Second
		client, err = repository.ConnectMongo(context.Background(), cfg.Storage.MongoURI, timeout)
		if err != nil {
			log.Error("failed to connect to mongodb", "error", err)
			os.Exit(1)
		}

		db := client.Database(cfg.Storage.MongoDatabase)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err = repository.EnsureIndexes(ctx, db)
		cancel()
		if err != nil {
			log.Error("failed to create mongodb indexes", "error", err)
			os.Exit(1)
		}

		log.Info("connected to mongodb", "database", cfg.Storage.MongoDatabase)
		itemRepo = repository.NewMongoItemRepository(db)
		orderRepo = repository.NewMongoOrderRepository(db)
		checks["mongodb"] = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
	}

	// Change events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.AMQPURL != "" {
		conn, ch, err := events.Connect(cfg.Events.AMQPURL, cfg.Events.Exchange, log)
		if err != nil {
			log.Error("failed to set up rabbitmq", "error", err)
			os.Exit(1)
		}
		defer conn.Close()
		defer ch.Close()

		log.Info("publishing change events", "exchange", cfg.Events.Exchange)
		publisher = events.NewRabbitPublisher(ch, cfg.Events.Exchange)
		checks["rabbitmq"] = func(context.Context) error {
			if conn.IsClosed() {
				return fmt.Errorf("connection closed")
			}
			return nil
		}
	}

	// Initialize services
	itemService := service.NewItemService(itemRepo, assets, publisher, log)
	orderService := service.NewOrderService(orderRepo, publisher, log)

	r := handlers.NewRouter(handlers.RouterDeps{
		Config:       cfg,
		Items:        itemService,
		Orders:       orderService,
		HealthChecks: checks,
		Logger:       log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server failed to start", "error", err)
		exitCode = 1
	}

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		exitCode = 1
	}

	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			log.Error("failed to disconnect from mongodb", "error", err)
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	log.Info("server stopped gracefully")
}
