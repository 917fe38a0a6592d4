package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/application/social"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/config"
	redisCache "github.com/baechuer/real-time-ressys/services/social-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/infrastructure/memory"
	rabbitpub "github.com/baechuer/real-time-ressys/services/social-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/security"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/router"
)

const shutdownTimeout = 8 * time.Second

// sysClock implements social.Clock using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB
	Store  social.Store

	Cache     *redisCache.Cache
	Publisher *rabbitpub.Publisher
}

func main() {
	// config first: it loads .env, which may set the log settings
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}
	initLogging(os.Stdout, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DurableBackend() {
		u, _ := url.Parse(cfg.DatabaseURL)
		zlog.Info().
			Str("db_user", u.User.Username()).
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Msg("db config loaded")

		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("db open failed")
		}
		defer db.Close()

		if cfg.DBAutoMigrate {
			if err := postgres.New(db).EnsureSchema(ctx); err != nil {
				zlog.Fatal().Err(err).Msg("db schema bootstrap failed")
			}
		}
	} else {
		zlog.Warn().Msg("DATABASE_URL empty: using in-memory store, state is lost on restart")
	}

	app := NewApp(cfg, db)
	defer app.Close()

	if cfg.WebhookSecret == "" {
		zlog.Error().Str("provider", cfg.WebhookProvider).Msg("WEBHOOK_SECRET empty: webhooks will answer 503")
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().
			Str("env", cfg.AppEnv).
			Str("addr", cfg.HTTPAddr).
			Str("backend", app.Store.Backend()).
			Str("provider", cfg.WebhookProvider).
			Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zlog.Fatal().Err(err).Msg("server crashed")
		}
	case <-ctx.Done():
		zlog.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func initLogging(w io.Writer, cfg *config.Config) {
	logger.Setup(w, cfg.LogLevel, cfg.LogFormat)
}

// NewApp wires the service. A nil db selects the in-memory store.
func NewApp(cfg *config.Config, db *sql.DB) *App {
	// 1) Infrastructure
	var store social.Store
	if db != nil {
		store = postgres.New(db)
	} else {
		store = memory.New(cfg.MemoryActivityCap)
	}

	var cache social.Cache
	var rc *redisCache.Cache
	if cfg.RedisURL != "" {
		c, err := redisCache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable: snapshot cache disabled")
		} else {
			rc = c
			cache = c
			zlog.Info().Dur("ttl", cfg.SnapshotCacheTTL).Msg("snapshot cache ready")
		}
	}

	var rabbit *rabbitpub.Publisher
	var pub social.EventPublisher = social.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Error().Err(err).Msg("rabbit publisher init failed: activity events will not be published")
		} else {
			rabbit = p
			pub = p
			zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
		}
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: activity events will not be published")
	}

	// 2) Application
	svc := social.New(store, sysClock{}, pub, cache, cfg.ActivityReadLimit, cfg.SnapshotCacheTTL)

	// 3) Transport
	wh := handlers.NewWebhooksHandler(
		svc,
		cfg.WebhookProvider,
		security.NewSharedSecretVerifier(cfg.WebhookSecret),
		audit.New(logger.Logger),
		cfg.WebhookMaxBytes,
	)
	sh := handlers.NewSocialHandler(svc)
	z := handlers.NewHealthHandler(svc)

	// 4) Router
	httpHandler := router.New(wh, sh, z)

	// 5) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Store:     store,
		Cache:     rc,
		Publisher: rabbit,
	}
}

// Close releases the optional clients. The DB handle is owned by main.
func (a *App) Close() {
	if a.Publisher != nil {
		_ = a.Publisher.Close()
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
}
