package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/FACorreiaa/pickmybite/app/db"
	"github.com/FACorreiaa/pickmybite/app/logger"
	appMiddleware "github.com/FACorreiaa/pickmybite/app/middleware"
	"github.com/FACorreiaa/pickmybite/app/observability/metrics"
	"github.com/FACorreiaa/pickmybite/app/tracer"
	"github.com/FACorreiaa/pickmybite/config"
	"github.com/FACorreiaa/pickmybite/internal/api/auth"
	"github.com/FACorreiaa/pickmybite/internal/api/history"
	"github.com/FACorreiaa/pickmybite/internal/api/photo"
	"github.com/FACorreiaa/pickmybite/internal/api/recommend"
	"github.com/FACorreiaa/pickmybite/internal/router"
)

func setupLogger() *slog.Logger {
	var handler slog.Handler
	env := os.Getenv("APP_ENV")

	switch env {
	case "production":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default: // development
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	log := setupLogger()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if err := appMiddleware.InitJWTSecret(); err != nil {
		log.Error("Failed to initialize JWT secret", slog.Any("error", err))
		os.Exit(1)
	}

	tracer.InitTracingAndMetrics(":" + cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, log)
	if err != nil {
		log.Error("Failed to build database config", slog.Any("error", err))
		os.Exit(1)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, log); err != nil {
		log.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, log)
	if err != nil {
		log.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	ctx := context.Background()
	if !database.WaitForDB(ctx, pool, log) {
		log.Error("Database is unreachable, exiting")
		os.Exit(1)
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Warn("GOOGLE_API_KEY is not set, place lookups will fail")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Wiring ---
	authRepo := auth.NewRepository(pool, log)
	authService := auth.NewServiceImpl(authRepo, log)
	authHandler := auth.NewHandler(authService, log)

	historyRepo := history.NewRepository(pool, log)
	historyService := history.NewServiceImpl(historyRepo, log)
	historyHandler := history.NewHandler(historyService, log)

	cacheRepo := recommend.NewCacheRepo(pool, cfg.Cache.LocalTTL, log)
	placesClient := recommend.NewPlacesClient(
		cfg.GooglePlaces.BaseURL,
		apiKey,
		cfg.GooglePlaces.MaxResults,
		cfg.GooglePlaces.Timeout,
		log,
	)
	recommendService := recommend.NewServiceImpl(cacheRepo, placesClient, historyService, rng, log)
	recommendHandler := recommend.NewHandler(recommendService, log)

	photoHandler := photo.NewHandler(cfg.GooglePlaces.BaseURL, apiKey, cfg.GooglePlaces.Timeout, log)

	apiRouter := router.SetupRouter(&router.Config{
		AuthHandler:      authHandler,
		HistoryHandler:   historyHandler,
		RecommendHandler: recommendHandler,
		PhotoHandler:     photoHandler,

		AuthenticateMiddleware:      appMiddleware.Authenticate,
		MaybeAuthenticateMiddleware: appMiddleware.MaybeAuthenticate,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.StructuredLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Compress(5))
	r.Mount("/", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      r,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", slog.Any("error", err))
	}
	log.Info("Server exited")
}
