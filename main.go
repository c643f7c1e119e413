package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	h "github.com/InnoTechCollege/StripeExample/internal/http"
	"github.com/InnoTechCollege/StripeExample/internal/payments"
	"github.com/InnoTechCollege/StripeExample/internal/repository"
	"github.com/InnoTechCollege/StripeExample/internal/service"
	"github.com/InnoTechCollege/StripeExample/pkg/metrics"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	AllowedOrigins []string

	StripeSecretKey     string
	StripeWebhookSecret string
	AllowedCountries    []string
	SuccessURL          string
	CancelURL           string
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "5000"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8080")),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		AllowedCountries:    splitList(getEnv("ALLOWED_COUNTRIES", "US,CA")),
		SuccessURL:          getEnv("SUCCESS_URL", "http://localhost:8080/#/success"),
		CancelURL:           getEnv("CANCEL_URL", "http://localhost:8080/#/failure"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	log.Println("checkout backend starting...")

	cfg := loadConfig()
	if cfg.StripeSecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}

	// Database setup
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "shop")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./internal/repository/migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	sessionCreator := payments.NewStripeSessionCreator(payments.Config{
		APIKey:           cfg.StripeSecretKey,
		AllowedCountries: cfg.AllowedCountries,
		SuccessURL:       cfg.SuccessURL,
		CancelURL:        cfg.CancelURL,
	})

	checkoutService := service.NewCheckoutService(repo, sessionCreator)
	webhookService := service.NewWebhookService(repo)

	itemsHandler := h.NewItemsHandler(repo, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout)
	webhookHandler := h.NewWebhookHandler(webhookService, cfg.StripeWebhookSecret, cfg.RequestTimeout)

	serverMetrics := metrics.NewServerMetrics("checkout")

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MetricsMiddleware(serverMetrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Stripe-Signature"},
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/items", itemsHandler.List)
		r.Post("/checkout", checkoutHandler.Create)
		r.Post("/webhook", webhookHandler.Handle)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Checkout backend listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
