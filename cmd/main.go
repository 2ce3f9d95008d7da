// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/config"
	"github.com/Shivanand-hulikatti/club-booking/internal/database"
	"github.com/Shivanand-hulikatti/club-booking/internal/events"
	"github.com/Shivanand-hulikatti/club-booking/internal/handler"
	"github.com/Shivanand-hulikatti/club-booking/internal/repository"
	"github.com/Shivanand-hulikatti/club-booking/internal/service"
	"github.com/Shivanand-hulikatti/club-booking/internal/session"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.Session.Secret == config.DefaultSessionSecret && !cfg.IsDev() {
		logger.Warn("using the default session secret outside development")
	}

	// ── 1. Data provider ─────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// ── 2. Sessions ──────────────────────────────────────────────────────
	sessOpts := session.Options{TTL: cfg.Session.TTL, Secure: cfg.Session.CookieSecure}
	var sessions session.Store
	switch cfg.Session.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)
		sessions = session.NewRedisStore(rdb, sessOpts)
	default:
		sessions = session.NewCookieStore(cfg.Session.Secret, sessOpts)
	}

	// ── 3. Booking events ────────────────────────────────────────────────
	publisher, err := events.New(cfg.Events.Driver, cfg.Events.NATSURL, cfg.Events.AMQPURL)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close publisher", "error", err)
		}
	}()
	logger.Info("booking events", "driver", cfg.Events.Driver)

	// ── 4. Wire up layers ────────────────────────────────────────────────
	clubSvc := service.NewClubService(store, publisher, logger)
	clubHandler := handler.NewClubHandler(clubSvc, sessions, logger)

	var csrfKey []byte
	if cfg.CSRFKey != "" {
		csrfKey = []byte(cfg.CSRFKey)
	}
	router := handler.NewRouter(clubHandler, handler.RouterOptions{
		CSRFKey:     csrfKey,
		Secure:      cfg.Session.CookieSecure,
		CORSOrigins: cfg.CORSOrigins,
	})

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openStore builds the configured data provider. The returned func releases
// its resources.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	clubs, comps, seedErr := repository.LoadSeedFiles(cfg.ClubsFile, cfg.CompetitionsFile, cfg.Location)
	if seedErr != nil && cfg.StoreDriver == "memory" {
		return nil, nil, fmt.Errorf("seed data: %w", seedErr)
	}

	if cfg.StoreDriver != "postgres" {
		logger.Info("using in-memory store", "clubs", len(clubs), "competitions", len(comps))
		return repository.NewMemoryStore(clubs, comps), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	logger.Info("connected to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.DBName)

	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	pg := repository.NewPostgresStore(pool)
	if seedErr != nil {
		logger.Warn("seed files not loaded, skipping import", "error", seedErr)
	} else {
		imported, err := pg.Import(ctx, clubs, comps)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("import seed data: %w", err)
		}
		logger.Info("seed import", "imported", imported)
	}
	return pg, pool.Close, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
