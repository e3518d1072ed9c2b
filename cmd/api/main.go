package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crm/internal/config"
	"crm/internal/database"
	"crm/internal/pkg/cache"
	"crm/internal/pkg/events"
	"crm/internal/pkg/logger"
	"crm/internal/pkg/reporting"
	"crm/internal/server"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.SentryDSN != "" {
		if err := reporting.Init(cfg.SentryDSN, cfg.AppEnv, version); err != nil {
			logrus.WithError(err).Warn("sentry disabled")
			cfg.SentryDSN = ""
		} else {
			defer reporting.Flush(2 * time.Second)
		}
	}

	// Schema must be in place before the listener opens.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()
	dsn := cfg.DB.DSN()
	if err := database.EnsureDatabase(initCtx, dsn); err != nil {
		logrus.Fatalf("ensure database: %v", err)
	}
	db, err := database.Connect(dsn, database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		logrus.Fatalf("DB connection failed: %v", err)
	}
	if err := database.InitSchema(initCtx, db); err != nil {
		logrus.Fatalf("schema init failed: %v", err)
	}

	leadCache := newCache(initCtx, cfg)
	publisher := newPublisher(initCtx, cfg)

	router := server.NewRouter(db, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		CacheTTL:       cfg.Redis.TTL,
		Cache:          leadCache,
		Events:         publisher,
		Sentry:         cfg.SentryDSN != "",
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		logrus.WithField("signal", sig.String()).Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("shutdown error")
		}
		close(done)
	}()

	logrus.WithField("addr", srv.Addr).Info("CRM API listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("listen: %v", err)
	}
	<-done

	if err := publisher.Close(); err != nil {
		logrus.WithError(err).Warn("close event publisher")
	}
	if err := leadCache.Close(); err != nil {
		logrus.WithError(err).Warn("close cache")
	}
	if err := database.Close(db); err != nil {
		logrus.WithError(err).Warn("close database")
	}
	logrus.Info("server stopped")
}

func newCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.Redis.Addr == "" {
		return cache.Nop{}
	}
	c, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logrus.WithError(err).Warn("lead cache disabled")
		return cache.Nop{}
	}
	logrus.WithField("addr", cfg.Redis.Addr).Info("lead cache enabled")
	return c
}

func newPublisher(ctx context.Context, cfg *config.Config) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.Nop{}
	}
	p, err := events.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		logrus.WithError(err).Warn("event publishing disabled")
		return events.Nop{}
	}
	logrus.WithField("topic", cfg.Kafka.Topic).Info("event publishing enabled")
	return p
}
