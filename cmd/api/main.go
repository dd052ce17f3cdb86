package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/database"
	"ops-portal/internal/handler"
	"ops-portal/internal/middleware"
	"ops-portal/internal/repository"
	"ops-portal/internal/service"
	"ops-portal/pkg/scheduler"
)

func main() {
	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	// Load .env if present, then configuration from the environment
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database and run migrations
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to redis when configured; without it the portal runs uncached
	var c *cache.Cache
	if cfg.Redis.URL != "" {
		c, err = cache.New(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer c.Close()
	} else {
		log.Warn("REDIS_URL not set, caching disabled")
	}

	// Initialize repositories
	repos := repository.NewRepository(db)

	// Initialize services
	services := service.NewService(service.Dependencies{
		Repos:  repos,
		Logger: log,
		Config: cfg,
		Cache:  c,
	})

	// Initialize handlers
	handlers := handler.NewHandler(handler.Dependencies{
		Services: services,
		Logger:   log,
		Config:   cfg,
	})

	// Initialize router
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.LogMiddleware(log))

	// Payment endpoints
	api.HandleFunc("/payments", handlers.Payment.Create).Methods(http.MethodPost)
	api.HandleFunc("/payments", handlers.Payment.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/payments/export", handlers.Payment.Export).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}", handlers.Payment.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}", handlers.Payment.Update).Methods(http.MethodPut)
	api.HandleFunc("/payments/{id}", handlers.Payment.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/payments/{id}/status", handlers.Payment.UpdateStatus).Methods(http.MethodPut)
	api.HandleFunc("/payments/{id}/schedule", handlers.Payment.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/amount-due", handlers.Payment.GetAmountDue).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/documents", handlers.Payment.AddDocument).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}/documents", handlers.Payment.GetDocuments).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/documents/{docID}/replace", handlers.Payment.ReplaceDocument).Methods(http.MethodPost)

	// Task endpoints
	api.HandleFunc("/tasks", handlers.Task.Create).Methods(http.MethodPost)
	api.HandleFunc("/tasks", handlers.Task.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", handlers.Task.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", handlers.Task.Update).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", handlers.Task.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/status", handlers.Task.UpdateStatus).Methods(http.MethodPut)

	// Asset endpoints
	api.HandleFunc("/assets", handlers.Asset.Create).Methods(http.MethodPost)
	api.HandleFunc("/assets", handlers.Asset.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/assets/export", handlers.Asset.Export).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", handlers.Asset.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", handlers.Asset.Update).Methods(http.MethodPut)
	api.HandleFunc("/assets/{id}", handlers.Asset.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/assets/{id}/assign", handlers.Asset.Assign).Methods(http.MethodPut)

	// Staff endpoints
	api.HandleFunc("/staff", handlers.Staff.Create).Methods(http.MethodPost)
	api.HandleFunc("/staff", handlers.Staff.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/staff/{id}", handlers.Staff.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/staff/{id}", handlers.Staff.Update).Methods(http.MethodPut)
	api.HandleFunc("/staff/{id}", handlers.Staff.Deactivate).Methods(http.MethodDelete)
	api.HandleFunc("/staff/{id}/activate", handlers.Staff.Activate).Methods(http.MethodPut)

	// Notification endpoints
	api.HandleFunc("/notifications", handlers.Notification.Create).Methods(http.MethodPost)
	api.HandleFunc("/notifications", handlers.Notification.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", handlers.Notification.CountUnread).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", handlers.Notification.MarkAllRead).Methods(http.MethodPut)
	api.HandleFunc("/notifications/{id}/read", handlers.Notification.MarkRead).Methods(http.MethodPut)

	// Dashboard, rates and digest endpoints
	api.HandleFunc("/dashboard", handlers.Dashboard.Overview).Methods(http.MethodGet)
	api.HandleFunc("/rates", handlers.Dashboard.Rates).Methods(http.MethodGet)
	api.HandleFunc("/digest/preview", handlers.Digest.Preview).Methods(http.MethodGet)
	api.HandleFunc("/digest/send", handlers.Digest.Send).Methods(http.MethodPost)

	// Start the background jobs: daily payment reminders, hourly digest check
	jobs := scheduler.NewScheduler(log,
		scheduler.Job{
			Name:     "payment-reminders",
			Interval: time.Hour * 24,
			Run:      services.Notification.SendDueReminders,
		},
		scheduler.Job{
			Name:     "weekly-digest",
			Interval: time.Hour,
			Run:      services.Digest.RunIfDue,
		},
	)
	jobs.Start()
	defer jobs.Stop()

	// Configure and start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	go func() {
		log.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server gracefully stopped")
}
