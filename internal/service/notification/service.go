package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/service/integrity"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
)

type Service struct {
	store      repository.Store
	dispatcher Dispatcher
	logger     *logger.Logger
	now        func() time.Time
}

func NewService(store repository.Store, dispatcher Dispatcher, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Send notifies the patient with req.PatientDUI on behalf of a doctor.
func (s *Service) Send(ctx context.Context, caller model.Identity, req *model.SendNotificationRequest) (*model.Notification, error) {
	if err := integrity.CheckDUI("patientDui", req.PatientDUI); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if err := integrity.CheckPresentNotBlank(
		integrity.Field{Name: "title", Value: &title},
		integrity.Field{Name: "message", Value: &message},
	); err != nil {
		return nil, err
	}
	if err := integrity.RequireDoctor(caller); err != nil {
		return nil, err
	}

	patient, err := s.store.Patients().GetByDUI(ctx, req.PatientDUI)
	if err != nil {
		return nil, integrity.StoreError(err, "patient")
	}
	return s.deliver(ctx, patient, title, message)
}

// Remind sends the daily medication reminder to one patient.
func (s *Service) Remind(ctx context.Context, patient *model.Patient) (*model.Notification, error) {
	return s.deliver(ctx, patient, model.ReminderTitle, model.ReminderMessage)
}

// deliver stores a pending notification, dispatches it and marks it sent.
// A failed dispatch leaves the notification pending.
func (s *Service) deliver(ctx context.Context, patient *model.Patient, title, message string) (*model.Notification, error) {
	now := s.now()
	n := &model.Notification{
		PatientID: patient.ID,
		Title:     title,
		Message:   message,
		Date:      now,
		Status:    model.NotificationStatusPending,
	}
	n.Touch(now)

	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return nil, integrity.StoreError(err, "notification")
	}

	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		return n, fmt.Errorf("failed to dispatch notification %s: %w", n.ID, err)
	}

	if err := s.store.Notifications().UpdateStatus(ctx, n.ID, model.NotificationStatusSent); err != nil {
		return n, integrity.StoreError(err, "notification")
	}
	n.Status = model.NotificationStatusSent
	return n, nil
}
