package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/prospectlab/prospect/internal/background"
	"github.com/prospectlab/prospect/internal/config"
	"github.com/prospectlab/prospect/internal/database"
	"github.com/prospectlab/prospect/internal/gateway"
	"github.com/prospectlab/prospect/internal/handlers"
	middlewareCustom "github.com/prospectlab/prospect/internal/middleware"
	"github.com/prospectlab/prospect/internal/repositories"
	"github.com/prospectlab/prospect/internal/routes"
	"github.com/prospectlab/prospect/internal/search"
	"github.com/prospectlab/prospect/internal/services"
	"github.com/prospectlab/prospect/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Apply pending migrations before opening the pool
	if err := runMigrations(cfg.Database.DSN()); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Redis-backed preference store
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := store.NewRedisClient(startupCtx, cfg.Redis.URL)
	if err != nil {
		startupCancel()
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	sessionStore := store.NewSessionStore(redisClient)
	sessions := search.NewManager(sessionStore, logger)

	// Remote data gateway
	gatewayClient := gateway.New(cfg.Gateway.Endpoint, cfg.Gateway.Timeout, logger)

	// Initialize repositories
	historyRepo := repositories.NewHistoryRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// AWS SES mail sender
	mailSender, err := services.NewSESMailSender(startupCtx, cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
	startupCancel()
	if err != nil {
		logger.Error("failed to initialize mail sender", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	searchService := services.NewSearchService(gatewayClient, historyRepo, sessions, logger)
	unlockService := services.NewUnlockService(gatewayClient, sessions, logger)
	historyService := services.NewHistoryService(historyRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	mailService := services.NewMailService(gatewayClient, mailSender, logger)
	suggestService := services.NewSuggestService(gatewayClient, logger)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	unlockHandler := handlers.NewUnlockHandler(unlockService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	userHandler := handlers.NewUserHandler(userService)
	mailHandler := handlers.NewMailHandler(mailService)
	suggestHandler := handlers.NewSuggestHandler(suggestService)

	// Session janitor
	janitor := background.NewJanitor(sessions, logger, cfg.Session.IdleTTL, cfg.Session.CleanupInterval)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(2 * cfg.Gateway.Timeout))

	// Register routes
	routes.RegisterRoutes(router, searchHandler, unlockHandler, historyHandler, userHandler, mailHandler, suggestHandler, cfg.Auth.SessionSecret, logger)

	// Health check with database and redis
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","redis":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up","redis":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.Gateway.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start janitor
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()

	go janitor.Start(janitorCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	janitorCancel()
	janitor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// runMigrations applies pending goose migrations using the database/sql
// driver.
func runMigrations(dsn string) error {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
