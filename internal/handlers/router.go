package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/YANGYUNJIK/my-app/internal/config"
	"github.com/YANGYUNJIK/my-app/internal/metrics"
	"github.com/YANGYUNJIK/my-app/internal/middleware"
	"github.com/YANGYUNJIK/my-app/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps groups everything the HTTP surface needs
type RouterDeps struct {
	Config       *config.Config
	Items        *service.ItemService
	Orders       *service.OrderService
	HealthChecks map[string]HealthCheck
	Logger       *slog.Logger
}

// NewRouter builds the chi router with middleware and all routes
func NewRouter(deps RouterDeps) http.Handler {
	cfg := deps.Config
	log := deps.Logger

	healthHandler := NewHealthHandler(log, deps.HealthChecks)
	authHandler := NewAuthHandler(cfg.Auth.AdminPassword, log)
	itemHandler := NewItemHandler(deps.Items, cfg.Assets.PublicBaseURL, log)
	orderHandler := NewOrderHandler(deps.Orders, log)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware)
	}
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.RequestSize(cfg.Server.MaxBodyBytes))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.AdminPasswordHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Post("/auth/login", authHandler.Login)

	// Student-facing routes
	r.Get("/items", itemHandler.ListItems)
	r.Get("/items/{id}", itemHandler.GetItem)
	r.Post("/order", orderHandler.CreateOrder)
	r.Get("/orders", orderHandler.ListOrders)
	r.Get("/orders/{id}", orderHandler.GetOrder)
	r.Patch("/orders/{id}", orderHandler.UpdateQuantity)
	r.Delete("/orders/{id}", orderHandler.DeleteOrder)

	// Teacher-facing routes
	r.Group(func(r chi.Router) {
		if cfg.Auth.RequireAdmin {
			r.Use(middleware.AdminPassword(cfg.Auth))
		}
		r.Post("/items", itemHandler.CreateItem)
		r.Patch("/items/{id}", itemHandler.UpdateItem)
		r.Delete("/items/{id}", itemHandler.DeleteItem)
		r.Patch("/order/{id}", orderHandler.UpdateStatus)
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", assetFileServer(cfg.Assets.UploadDir)))

	return r
}

// assetFileServer serves files from dir without directory listings or dotfiles
func assetFileServer(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || strings.HasSuffix(name, "/") || strings.HasPrefix(name, ".") || strings.Contains(name, "/.") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
