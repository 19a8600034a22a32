package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medreminder-api/internal/bootstrap"
	"github.com/jwalitptl/medreminder-api/internal/config"
	"github.com/jwalitptl/medreminder-api/internal/handler"
	authHandler "github.com/jwalitptl/medreminder-api/internal/handler/auth"
	medicationHandler "github.com/jwalitptl/medreminder-api/internal/handler/medication"
	notificationHandler "github.com/jwalitptl/medreminder-api/internal/handler/notification"
	patientHandler "github.com/jwalitptl/medreminder-api/internal/handler/patient"
	prescriptionHandler "github.com/jwalitptl/medreminder-api/internal/handler/prescription"
	userHandler "github.com/jwalitptl/medreminder-api/internal/handler/user"
	"github.com/jwalitptl/medreminder-api/internal/middleware"
	"github.com/jwalitptl/medreminder-api/internal/router"
	authService "github.com/jwalitptl/medreminder-api/internal/service/auth"
	"github.com/jwalitptl/medreminder-api/internal/service/integrity"
	medicationService "github.com/jwalitptl/medreminder-api/internal/service/medication"
	notificationService "github.com/jwalitptl/medreminder-api/internal/service/notification"
	patientService "github.com/jwalitptl/medreminder-api/internal/service/patient"
	prescriptionService "github.com/jwalitptl/medreminder-api/internal/service/prescription"
	userService "github.com/jwalitptl/medreminder-api/internal/service/user"
	"github.com/jwalitptl/medreminder-api/internal/worker"
	"github.com/jwalitptl/medreminder-api/pkg/auth"
	"github.com/jwalitptl/medreminder-api/pkg/metrics"
	"github.com/jwalitptl/medreminder-api/pkg/security"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := bootstrap.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
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

	jwtSvc, err := auth.NewJWTService(auth.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiry(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize credential service")
	}

	// Initialize services
	walker := integrity.NewWalker(m)
	authSvc := authService.NewService(store, jwtSvc, security.NewBcryptHasher(cfg.Security.BcryptCost), logger)
	patientSvc := patientService.NewService(store, walker, logger)
	prescriptionSvc := prescriptionService.NewService(store, walker, logger)
	medicationSvc := medicationService.NewService(store, logger)
	notificationSvc := notificationService.NewService(store, dispatcher, logger)
	userSvc := userService.NewService(store, walker, logger)

	// Setup router
	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		router.Handlers{
			Health:       handler.NewHandler(store, prometheus.DefaultGatherer),
			Auth:         authHandler.NewHandler(authSvc),
			User:         userHandler.NewHandler(userSvc),
			Patient:      patientHandler.NewHandler(patientSvc, prescriptionSvc),
			Prescription: prescriptionHandler.NewHandler(prescriptionSvc),
			Medication:   medicationHandler.NewHandler(medicationSvc),
			Notification: notificationHandler.NewHandler(notificationSvc),
		},
		router.RouterConfig{
			Timeout:        cfg.Server.Timeout(),
			AllowedOrigins: cfg.Security.AllowedOrigins,
			RateLimit:      cfg.RateLimit,
			Registerer:     prometheus.DefaultRegisterer,
		},
	)

	var wg sync.WaitGroup
	if cfg.Reminder.Enabled {
		reminders, err := worker.NewReminderWorker(worker.ReminderConfig{
			Schedule: cfg.Reminder.Schedule,
			Location: cfg.Reminder.Location(),
			Workers:  cfg.Reminder.Workers,
		}, store.Patients(), notificationSvc, m, logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize reminder scheduler")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reminders.Start(ctx); err != nil {
				log.Error().Err(err).Msg("reminder scheduler stopped with error")
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	wg.Wait()

	log.Info().Msg("server exited")
}
