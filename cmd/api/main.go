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

	"github.com/finze/finze-backend/internal/config"
	"github.com/finze/finze-backend/internal/handler"
	"github.com/finze/finze-backend/internal/insights"
	"github.com/finze/finze-backend/internal/middleware"
	"github.com/finze/finze-backend/internal/repository/postgres"
	"github.com/finze/finze-backend/internal/service"
	"github.com/finze/finze-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server exited")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info().Msg("Database migrations applied")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info().Msg("Connected to database")

	engine, err := insights.NewEngine(cfg.Engine)
	if err != nil {
		return err
	}

	// Repositories
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)

	// Services publish entity events to connected clients
	hub := websocket.NewHub()
	transactionService := service.NewTransactionService(transactionRepo)
	transactionService.SetEventPublisher(hub)
	budgetService := service.NewBudgetService(budgetRepo)
	budgetService.SetEventPublisher(hub)
	insightService := service.NewInsightService(engine, transactionRepo, budgetRepo)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	e := newEcho(cfg)
	handler.RegisterRoutes(e, rateLimiter,
		handler.NewHealthHandler(pool, hub),
		handler.NewCategoryHandler(service.NewCategoryService()),
		handler.NewTransactionHandler(transactionService),
		handler.NewBudgetHandler(budgetService),
		handler.NewInsightHandler(insightService),
		handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.CloseAll()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

// newEcho builds the Echo instance with the global middleware chain
func newEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())

	return e
}
