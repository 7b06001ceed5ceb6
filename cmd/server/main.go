// FULA - scripted financial advisor session server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/fula/internal/api"
	"github.com/ashureev/fula/internal/config"
	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/identity"
	"github.com/ashureev/fula/internal/live"
	"github.com/ashureev/fula/internal/middleware"
	"github.com/ashureev/fula/internal/resolve"
	"github.com/ashureev/fula/internal/retention"
	"github.com/ashureev/fula/internal/session"
	"github.com/ashureev/fula/internal/store"
	"github.com/ashureev/fula/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped successfully")
}

func run(cfg *config.Config) error {
	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	catalog, err := content.Open(cfg.ContentDir)
	if err != nil {
		return err
	}
	slog.Info("Content loaded", "personas", len(catalog.Personas()), "scenarios", len(catalog.Scenarios()), "dir", cfg.ContentDir)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		return err
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	// Initialize services.
	resolver := resolve.New(catalog)
	sessions := session.NewService(repo, resolver)
	hub := live.NewHub(repo, sessions, cfg.AllowedOrigins, cfg.IsDevelopment())
	defer hub.Close()

	sweeper := retention.NewWorker(repo, cfg.SessionTTL, cfg.RetentionInterval, hub.CloseDevice, sessions.Forget)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes.
	api.NewHealthHandler(repo).RegisterHealth(r)

	// Every other route carries an anonymous device identity.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))
		api.NewHandler(resolver, sessions).RegisterRoutes(r)
		r.Get("/ws/session", hub.ServeHTTP)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Websocket connections are long-lived, so there is no WriteTimeout.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Wait for shutdown signal or a failed server.
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down gracefully...")

		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
