package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medreminder-api/internal/bootstrap"
	"github.com/jwalitptl/medreminder-api/internal/config"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/service/notification"
	"github.com/jwalitptl/medreminder-api/internal/worker"
	"github.com/jwalitptl/medreminder-api/pkg/metrics"
)

const healthPort = 8081

func setupHealthCheck(store repository.Store) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", healthPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health check server failed")
		}
	}()
	return srv
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := bootstrap.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := bootstrap.OpenStore(connectCtx, cfg.Database, logger)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open store")
	}
	defer store.Close(context.Background())

	m := metrics.NewMetrics(prometheus.DefaultRegisterer, "medreminder")

	dispatcher, closeDispatcher, err := bootstrap.NewDispatcher(ctx, cfg.Redis, logger, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer closeDispatcher()

	reminders, err := worker.NewReminderWorker(worker.ReminderConfig{
		Schedule: cfg.Reminder.Schedule,
		Location: cfg.Reminder.Location(),
		Workers:  cfg.Reminder.Workers,
	}, store.Patients(), notification.NewService(store, dispatcher, logger), m, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize reminder scheduler")
	}

	health := setupHealthCheck(store)
	defer health.Close()

	if err := reminders.Start(ctx); err != nil {
		log.Error().Err(err).Msg("reminder scheduler stopped with error")
	}
	log.Info().Msg("worker exited")
}
