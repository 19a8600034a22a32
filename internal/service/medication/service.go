package medication

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/service/integrity"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
)

type Service struct {
	store  repository.Store
	logger *logger.Logger
	now    func() time.Time
}

func NewService(store repository.Store, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Confirm records that the patient took or missed a dose of one of their prescriptions.
func (s *Service) Confirm(ctx context.Context, caller model.Identity, req *model.ConfirmMedicationRequest) (*model.MedicationConfirmation, error) {
	if err := integrity.CheckDUI("patientDui", req.PatientDUI); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.InvalidInput("validation failed", apperrors.FieldError{Field: "status", Message: "must be one of: taken missed"})
	}
	prescriptionID, err := uuid.Parse(req.PrescriptionID)
	if err != nil {
		return nil, apperrors.InvalidInput("validation failed", apperrors.FieldError{Field: "prescriptionId", Message: "must be a valid UUID"})
	}
	if err := integrity.CanAccessDUI(caller, req.PatientDUI); err != nil {
		return nil, err
	}

	confirmation := &model.MedicationConfirmation{
		PrescriptionID: prescriptionID,
		Status:         req.Status,
		Notes:          strings.TrimSpace(req.Notes),
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		patient, err := tx.Patients().GetByDUI(ctx, req.PatientDUI)
		if err != nil {
			return integrity.StoreError(err, "patient")
		}
		rx, err := tx.Prescriptions().Get(ctx, prescriptionID)
		if err != nil {
			return integrity.StoreError(err, "prescription")
		}
		if rx.PatientID != patient.ID {
			return apperrors.NotFound("prescription")
		}

		now := s.now()
		confirmation.PatientID = patient.ID
		confirmation.Date = now
		confirmation.Touch(now)
		return integrity.StoreError(tx.Confirmations().Create(ctx, confirmation), "confirmation")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("medication confirmed",
		"prescription_id", prescriptionID.String(),
		"status", string(confirmation.Status),
	)
	return confirmation, nil
}

// ListConfirmations returns the confirmations of one prescription; patients see only their own.
func (s *Service) ListConfirmations(ctx context.Context, caller model.Identity, prescriptionID uuid.UUID) ([]*model.MedicationConfirmation, error) {
	rx, err := s.store.Prescriptions().Get(ctx, prescriptionID)
	if err != nil {
		return nil, integrity.StoreError(err, "prescription")
	}

	// Another patient's prescription reads the same as a missing one.
	if !caller.IsDoctor() {
		patient, err := s.store.Patients().Get(ctx, rx.PatientID)
		if err != nil {
			return nil, integrity.StoreError(err, "prescription")
		}
		if integrity.CanAccessDUI(caller, patient.DUI) != nil {
			return nil, apperrors.NotFound("prescription")
		}
	}

	list, err := s.store.Confirmations().ListByPrescription(ctx, prescriptionID)
	if err != nil {
		return nil, integrity.StoreError(err, "confirmation")
	}
	return list, nil
}
