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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/cache"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/ratelimit"
	"github.com/Skotchmaster/storefront/pkg/notify"
	"github.com/Skotchmaster/storefront/pkg/paypal"
	"github.com/Skotchmaster/storefront/pkg/search"
)

type integrations struct {
	redis    *redis.Client
	index    *search.Client
	producer *events.Producer
}

// connect brings up the optional backends in parallel. A backend that is
// configured but unreachable aborts startup.
func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*integrations, error) {
	out := &integrations{}
	g, gctx := errgroup.WithContext(ctx)

	if cfg.RedisAddr != "" {
		out.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		g.Go(func() error {
			if err := out.redis.Ping(gctx).Err(); err != nil {
				return fmt.Errorf("redis ping: %w", err)
			}
			log.Info("redis connected", "addr", cfg.RedisAddr)
			return nil
		})
	}

	if cfg.ESURL != "" {
		g.Go(func() error {
			c, err := search.NewClient(search.Config{
				URL:      cfg.ESURL,
				User:     cfg.ESUser,
				Password: cfg.ESPassword,
				Index:    cfg.ESIndex,
			})
			if err != nil {
				return err
			}
			if err := c.Ping(gctx); err != nil {
				return err
			}
			out.index = c
			log.Info("elasticsearch connected", "url", cfg.ESURL, "index", cfg.ESIndex)
			return nil
		})
	}

	if len(cfg.KafkaBrokers) > 0 {
		out.producer = events.NewProducer(cfg.KafkaBrokers)
		log.Info("kafka producer ready", "brokers", cfg.KafkaBrokers)
	}

	return out, g.Wait()
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	cfg.MustValidate()

	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Error("db init error", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		cancel()
		log.Error("db migrate error", "error", err)
		os.Exit(1)
	}
	ext, err := connect(initCtx, cfg, log)
	cancel()
	if err != nil {
		log.Error("integration init error", "error", err)
		os.Exit(1)
	}

	Repo := &repo.GormRepo{DB: gdb}

	var (
		productCache cache.Cache      = cache.Nop{}
		publisher    events.Publisher = events.Nop{}
		notifier     notify.Notifier  = notify.Nop{}
		limiterStore redis.Cmdable
		index        service.ProductIndex
	)
	if ext.redis != nil {
		productCache = cache.NewRedis(ext.redis, cfg.CacheTTL)
		limiterStore = ext.redis
	}
	if ext.index != nil {
		index = ext.index
	}
	if ext.producer != nil {
		publisher = ext.producer
	}
	if cfg.SendGridKey != "" && cfg.NotifyTo != "" {
		notifier = notify.NewSendGrid(cfg.SendGridKey, cfg.NotifyFrom, cfg.NotifyTo)
	}

	catalogService := &service.CatalogService{Repo: Repo, Cache: productCache, Index: index, Events: publisher}
	orderService := &service.OrderService{Repo: Repo, Catalog: catalogService, Events: publisher, Notifier: notifier}
	payPal := paypal.NewClient(cfg.PayPalURL, cfg.PayPalClientID, cfg.PayPalClientSecret)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(log))
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	e.Use(ratelimit.New(limiterStore, ratelimit.Config{Limit: cfg.RatePerMinute, Window: time.Minute}))

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: catalogService},
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: Repo, Events: publisher}},
		OrderHandler:    &httpserver.OrderHTTP{Svc: orderService},
		DiscountHandler: &httpserver.DiscountHTTP{Svc: &service.DiscountService{Repo: Repo}},
		AddressHandler:  &httpserver.AddressHTTP{Svc: &service.AddressService{Repo: Repo}},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: Repo}},
		PaymentHandler:  &httpserver.PaymentHTTP{Svc: &service.PaymentService{Provider: payPal}},
		JWTSecret:       cfg.JWTSecret,
		Ready:           func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("echo start: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	if ext.producer != nil {
		if err := ext.producer.Close(); err != nil {
			log.Warn("kafka close", "error", err)
		}
	}
	if ext.redis != nil {
		_ = ext.redis.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
