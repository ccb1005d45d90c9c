// Command graderd runs the bet grading daemon: it polls for pending
// bets, grades them against live game snapshots, and publishes the
// results.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/oddslab/gradebook/pkg/grade"
	"github.com/oddslab/gradebook/pkg/metrics"
	"github.com/oddslab/gradebook/pkg/provider/espn"
	"github.com/oddslab/gradebook/pkg/sport"
	"github.com/oddslab/gradebook/pkg/store"
	"github.com/oddslab/gradebook/pkg/stream"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger.Info().Msg(">> starting graderd")

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := sport.NewRegistry()
	if cfg.ProfilePath != "" {
		if err := registry.LoadFile(cfg.ProfilePath); err != nil {
			logger.Fatal().Err(err).Str("path", cfg.ProfilePath).Msg("failed to load sport profiles")
		}
		logger.Info().Strs("sports", registry.Keys()).Msg("sport profiles loaded")
	}
	engine := grade.NewEngine(registry)

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	cache := store.NewSnapshotCache(redisClient)

	providerOpts := []espn.ClientOption{
		espn.WithRateLimit(cfg.ESPN.RateLimit, cfg.ESPN.Burst),
	}
	if cfg.ESPN.BaseURL != "" {
		providerOpts = append(providerOpts, espn.WithBaseURL(cfg.ESPN.BaseURL))
	}
	provider := espn.NewClient(providerOpts...)

	m := metrics.New()

	hub := stream.NewHub(logger)
	go hub.Run()

	grader := NewGrader(logger, cfg.PollInterval, engine, db, cache, provider, hub, m)
	go grader.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info().Msg(">> stopping graderd")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
