package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
	"github.com/jwalitptl/medreminder-api/pkg/metrics"
	"github.com/jwalitptl/medreminder-api/pkg/worker"
)

// Reminder delivers one reminder notification to a patient.
type Reminder interface {
	Remind(ctx context.Context, patient *model.Patient) (*model.Notification, error)
}

// RunSummary counts the outcome of one reminder run.
type RunSummary struct {
	Total  int
	Sent   int
	Failed int
}

type ReminderConfig struct {
	Schedule string
	Location *time.Location
	Workers  int
}

// ReminderWorker sends the daily medication reminder to every patient.
type ReminderWorker struct {
	patients repository.PatientRepository
	reminder Reminder
	pool     *worker.Pool
	metrics  *metrics.Metrics
	logger   *logger.Logger
	cfg      ReminderConfig
}

func NewReminderWorker(cfg ReminderConfig, patients repository.PatientRepository, reminder Reminder, m *metrics.Metrics, log *logger.Logger) (*ReminderWorker, error) {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &ReminderWorker{
		patients: patients,
		reminder: reminder,
		pool:     worker.NewPool(cfg.Workers),
		metrics:  m,
		logger:   log.WithFields(map[string]interface{}{"component": "reminder"}),
		cfg:      cfg,
	}, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a run in progress.
func (w *ReminderWorker) Start(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(w.cfg.Location),
		cron.WithLogger(w.logger),
		cron.WithChain(cron.Recover(w.logger), cron.SkipIfStillRunning(w.logger)),
	)

	if _, err := c.AddFunc(w.cfg.Schedule, func() {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.Error(err, "reminder run failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	c.Start()
	w.logger.Info("reminder scheduler started", "schedule", w.cfg.Schedule, "timezone", w.cfg.Location.String())

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("reminder scheduler stopped")
	return nil
}

// RunOnce reminds every patient. A failure for one patient is logged and
// counted; only a failure to list patients fails the run.
func (w *ReminderWorker) RunOnce(ctx context.Context) (RunSummary, error) {
	timer := prometheus.NewTimer(w.metrics.ReminderRunDuration)
	defer timer.ObserveDuration()

	patients, err := w.patients.List(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to list patients: %w", err)
	}

	var sent, failed int64
	runErr := w.pool.Run(ctx, len(patients), func(ctx context.Context, i int) {
		p := patients[i]
		n, err := w.reminder.Remind(ctx, p)
		if n != nil {
			w.metrics.RemindersCreated.Inc()
		}
		if err != nil {
			atomic.AddInt64(&failed, 1)
			w.metrics.RemindersFailed.Inc()
			w.logger.Error(err, "reminder failed", "patient_id", p.ID.String())
			return
		}
		atomic.AddInt64(&sent, 1)
		w.metrics.RemindersSent.Inc()
	})

	summary := RunSummary{
		Total:  len(patients),
		Sent:   int(sent),
		Failed: int(failed),
	}
	w.logger.Info("reminder run finished", "total", summary.Total, "sent", summary.Sent, "failed", summary.Failed)
	return summary, runErr
}
