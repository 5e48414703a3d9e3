package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/web3-frozen/todo-board/internal/cache"
	"github.com/web3-frozen/todo-board/internal/config"
	"github.com/web3-frozen/todo-board/internal/handler"
	"github.com/web3-frozen/todo-board/internal/queue"
	"github.com/web3-frozen/todo-board/internal/store"
)

func main() {
	configFile := flag.String("config", "", "path to a TOML config file (default $TODO_CONFIG)")
	flag.Parse()

	cfg, err := config.LoadServer(*configFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	s, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer s.Close()
	logger.Info("store ready", "driver", cfg.DBDriver)

	// Redis (optional, degrades gracefully)
	var rc *cache.RedisCache
	if cfg.RedisURL != "" {
		rc, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
		} else {
			defer rc.Close()
			logger.Info("redis connected")
		}
	}

	// Kafka (optional, degrades gracefully)
	var kp *queue.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		kp = queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kp.Close()
		logger.Info("kafka producer initialized", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	todoHandler := handler.NewTodoHandler(s, rc, kp, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(todoHandler, s, logger, cfg.CORSOrigin),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Server) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	case config.DriverSQLite:
		lite, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := lite.Migrate(ctx); err != nil {
			lite.Close()
			return nil, err
		}
		return lite, nil
	}
	return store.NewMemoryStore(), nil
}
