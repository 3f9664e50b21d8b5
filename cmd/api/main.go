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

	"casino-backend/internal/config"
	"casino-backend/internal/games"
	"casino-backend/internal/handlers"
	"casino-backend/internal/services"
)

const (
	shutdownTimeout    = 10 * time.Second
	staleSweepInterval = 5 * time.Minute
	staleSessionAge    = 30 * time.Minute
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open store")
	}
	defer store.Close()

	log := logrus.StandardLogger()

	feed := handlers.NewFeedHub(log)
	go feed.Run(ctx)

	casino := services.NewCasino(store, games.DefaultSource(), cfg.StartingBalance)
	casino.SetBroadcaster(feed)
	casino.SetLogger(log)

	go sweepStaleSessions(ctx, casino)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handlers.NewRouter(handlers.RouterDeps{
			Casino: casino,
			Store:  store,
			Feed:   feed,
			Config: cfg,
			Log:    log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Port,
			"backend": store.Name(),
			"env":     cfg.Env,
		}).Info("Server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}

func sweepStaleSessions(ctx context.Context, casino *services.Casino) {
	ticker := time.NewTicker(staleSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := casino.SettleStale(ctx, staleSessionAge); err != nil {
				logrus.WithError(err).Warn("Stale session sweep failed")
			}
		}
	}
}

func openStore(ctx context.Context, cfg *config.Config) (services.Store, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logrus.Warn("Using in-memory store, data is lost on restart")
		return services.NewMemoryStore(), nil
	}
	return services.NewRedisStore(ctx, cfg)
}
