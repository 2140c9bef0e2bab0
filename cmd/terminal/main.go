package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rl1809/savdo-pos/internal/adapter/connectivity"
	"github.com/rl1809/savdo-pos/internal/adapter/handler"
	"github.com/rl1809/savdo-pos/internal/adapter/notify"
	"github.com/rl1809/savdo-pos/internal/adapter/printer"
	"github.com/rl1809/savdo-pos/internal/adapter/storage"
	"github.com/rl1809/savdo-pos/internal/config"
	"github.com/rl1809/savdo-pos/internal/core/domain"
	"github.com/rl1809/savdo-pos/internal/core/service"
	"github.com/rl1809/savdo-pos/internal/port"
)

func main() {
	configPath := flag.String("config", "terminal.yaml", "path to config file")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local durable store: the terminal must come up even with no network.
	local, err := storage.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open local store")
	}
	defer local.Close()

	// Backend MySQL. An unreachable backend is not fatal; the terminal
	// starts offline and the monitor picks up the restore.
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure mysql")
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	startOnline := db.PingContext(pingCtx) == nil
	pingCancel()
	if startOnline {
		logger.Info().Msg("connected to backend mysql")
	} else {
		logger.Warn().Msg("backend unreachable, starting in offline mode")
	}

	// Redis idempotency guard, optional.
	var guard port.IdempotencyGuard
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, relying on database-level dedup only")
	} else {
		guard = storage.NewRedisAdapter(rdb)
		logger.Info().Msg("connected to redis")
	}

	backend := storage.NewMySQLAdapter(db, guard)

	monitor := connectivity.NewMonitor(db.PingContext, cfg.ProbeInterval, logger)
	monitor.SetOnline(startOnline)

	notifiers := notify.Multi{notify.NewToastNotifier(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		kn := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.StoreName, logger)
		defer kn.Close()
		notifiers = append(notifiers, kn)
	}

	var catalog domain.Catalog
	if startOnline {
		catalog, err = backend.ListProducts(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("catalog load failed, starting with empty catalog")
		}
	}

	session := service.NewCartSession(catalog)
	checkoutSvc := service.NewCheckoutService(
		session, backend, local, monitor, local, notifiers,
		printer.NewTextPrinter(os.Stdout),
		service.StoreInfo{Name: cfg.StoreName, Address: cfg.StoreAddress},
		logger,
	)
	syncSvc := service.NewSyncService(local, backend, monitor, session, notifiers, logger)
	authSvc := service.NewAuthService(backend, []byte(cfg.JWTSecret), logger)

	monitor.Start(ctx)
	go syncSvc.Run(ctx)

	// Rehydrate: anything buffered before the last shutdown drains as soon
	// as we are online.
	if pending, err := local.Len(ctx); err == nil && pending > 0 {
		logger.Info().Int("pending", pending).Msg("rehydrated pending queue")
		if startOnline {
			go func() {
				if err := syncSvc.Drain(ctx); err != nil {
					logger.Error().Err(err).Msg("startup drain failed")
				}
			}()
		}
	}

	httpHandler := handler.NewHTTPHandler(authSvc, session, checkoutSvc, local, local, monitor)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Routes(),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)

	cancel()
	logger.Info().Msg("terminal stopped")
}
