package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/andreasstove999/storefront-backend/internal/cache"
	"github.com/andreasstove999/storefront-backend/internal/cart"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
	"github.com/andreasstove999/storefront-backend/internal/config"
	"github.com/andreasstove999/storefront-backend/internal/db"
	"github.com/andreasstove999/storefront-backend/internal/events"
	"github.com/andreasstove999/storefront-backend/internal/httpapi"
	"github.com/andreasstove999/storefront-backend/internal/logging"
	"github.com/andreasstove999/storefront-backend/internal/order"
	"github.com/andreasstove999/storefront-backend/internal/ratelimit"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logging.NewLogger("migrate")); err != nil {
			logger.Fatal().Err(err).Msg("db migrate")
		}
	}
	if cfg.SeedOnStart {
		if err := db.Seed(ctx, pool, logging.NewLogger("seed")); err != nil {
			logger.Fatal().Err(err).Msg("db seed")
		}
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connect")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")

	store := cache.NewStore(rdb, cfg.CacheTTL, logging.NewLogger("cache"))
	limiter := ratelimit.New(rdb, cfg.RateLimitWindow, cfg.RateLimitMax)

	// --- Repositories & services ---
	catalogRepo := catalog.NewPostgresRepository(pool)
	cartRepo := cart.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)

	cachedCatalog := httpapi.NewCachedCatalog(catalogRepo, store, cfg.CacheTTL)
	if err := cachedCatalog.Warm(ctx); err != nil {
		logger.Warn().Err(err).Msg("product cache warm-up failed")
	}
	cartSvc := cart.NewService(cartRepo, cachedCatalog)
	orderSvc := order.NewService(catalogRepo, orderRepo, cartRepo)

	// --- AMQP (optional) ---
	var publisher httpapi.OrderEventsPublisher
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("amqp connect")
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatal().Err(err).Msg("amqp publisher")
		}
		defer pub.Close()
		publisher = pub
		logger.Info().Msg("order event publishing enabled")
	}

	// --- HTTP ---
	h := &httpapi.Handler{
		Products: cachedCatalog,
		Catalog:  catalogRepo,
		Cart:     cartSvc,
		CartRepo: cartRepo,
		Orders:   orderRepo,
		Checkout: orderSvc,
		Events:   publisher,
		Reset: func(ctx context.Context) error {
			return db.Reset(ctx, pool, logging.NewLogger("seed"))
		},
		Log: logging.NewLogger("http"),
	}
	router := httpapi.NewRouter(h, limiter, logging.NewLogger("http"))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("fatal error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	cancel()

	logger.Info().Msg("shutdown complete")
}
