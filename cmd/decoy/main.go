package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/snarelabs/decoy/internal/api"
	"github.com/snarelabs/decoy/internal/callback"
	"github.com/snarelabs/decoy/internal/config"
	"github.com/snarelabs/decoy/internal/engine"
	"github.com/snarelabs/decoy/internal/events"
	"github.com/snarelabs/decoy/internal/session"
)

func main() {
	// Optional .env for local development; plain env vars apply otherwise.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("decoy starting", "port", cfg.Port)

	ctx := context.Background()

	// Session store: Postgres when configured, in-process otherwise.
	var sessions session.Store
	if cfg.DatabaseURL != "" {
		pg, err := session.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare database schema", "error", err)
			os.Exit(1)
		}
		sessions = pg
		slog.Info("postgres session store ready")
	} else {
		sessions = session.NewMemory()
		slog.Warn("using in-memory session store — sessions do not survive restarts")
	}
	defer sessions.Close()

	// Event publisher (optional — the decoy works without a broker).
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		p, err := events.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		publisher = p
		defer publisher.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — intel events disabled")
	}

	// Report callback (optional).
	var cb *callback.Client
	if cfg.CallbackURL != "" {
		cb = callback.NewClient(cfg.CallbackURL, cfg.APIKey, slog.Default())
		slog.Info("report callback ready", "url", cfg.CallbackURL)
	} else {
		slog.Warn("callback not configured — final reports served over HTTP only")
	}

	if cfg.APIKey == "" {
		slog.Warn("DECOY_API_KEY is empty — POST endpoints are unauthenticated")
	}

	eng := engine.New(sessions, publisher, slog.Default())

	srv := api.NewServer(cfg.Port, cfg.APIKey, cfg.AllowedOrigins, eng, cb, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("decoy ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
