package prescription

import (
	"context"
	"errors"
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
	walker *integrity.Walker
	logger *logger.Logger
}

func NewService(store repository.Store, walker *integrity.Walker, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		walker: walker,
		logger: log,
	}
}

// Create prescribes for the patient with patientDUI, signed by the calling doctor.
func (s *Service) Create(ctx context.Context, caller model.Identity, patientDUI string, req *model.CreatePrescriptionRequest) (*model.PrescriptionView, error) {
	if err := integrity.CheckDUI("patientDui", patientDUI); err != nil {
		return nil, err
	}
	if req.PatientDUI != "" && req.PatientDUI != patientDUI {
		return nil, apperrors.InvalidInput("validation failed", apperrors.FieldError{Field: "patientDui", Message: "must match the patient in the path"})
	}

	rx := &model.Prescription{
		DoctorID:       caller.UserID,
		MedicationName: strings.TrimSpace(req.MedicationName),
		Dosage:         strings.TrimSpace(req.Dosage),
		Frequency:      strings.TrimSpace(req.Frequency),
		Duration:       strings.TrimSpace(req.Duration),
		Notes:          strings.TrimSpace(req.Notes),
	}
	if err := integrity.CheckPresentNotBlank(
		integrity.Field{Name: "medicationName", Value: &rx.MedicationName},
		integrity.Field{Name: "dosage", Value: &rx.Dosage},
		integrity.Field{Name: "frequency", Value: &rx.Frequency},
		integrity.Field{Name: "duration", Value: &rx.Duration},
	); err != nil {
		return nil, err
	}
	if err := integrity.RequireDoctor(caller); err != nil {
		return nil, err
	}

	var view *model.PrescriptionView
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		patient, err := tx.Patients().GetByDUI(ctx, patientDUI)
		if err != nil {
			return integrity.StoreError(err, "patient")
		}
		doctor, err := tx.Users().Get(ctx, caller.UserID)
		if err != nil {
			return integrity.StoreError(err, "doctor")
		}

		rx.PatientID = patient.ID
		rx.Touch(time.Now().UTC())
		if err := tx.Prescriptions().Create(ctx, rx); err != nil {
			return integrity.StoreError(err, "prescription")
		}
		view = &model.PrescriptionView{Prescription: *rx, DoctorName: doctor.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prescription created", "prescription_id", rx.ID.String(), "patient_id", rx.PatientID.String())
	return view, nil
}

// ListByPatient returns the patient's prescriptions with doctor names resolved.
func (s *Service) ListByPatient(ctx context.Context, caller model.Identity, patientDUI string) ([]*model.PrescriptionView, error) {
	if err := integrity.CheckDUI("patientDui", patientDUI); err != nil {
		return nil, err
	}
	if err := integrity.CanAccessDUI(caller, patientDUI); err != nil {
		return nil, err
	}

	patient, err := s.store.Patients().GetByDUI(ctx, patientDUI)
	if err != nil {
		return nil, integrity.StoreError(err, "patient")
	}
	list, err := s.store.Prescriptions().ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, integrity.StoreError(err, "prescription")
	}

	names := make(map[uuid.UUID]string)
	views := make([]*model.PrescriptionView, 0, len(list))
	for _, rx := range list {
		name, ok := names[rx.DoctorID]
		if !ok {
			doctor, err := s.store.Users().Get(ctx, rx.DoctorID)
			switch {
			case err == nil:
				name = doctor.Name
			case !errors.Is(err, repository.ErrNotFound):
				return nil, integrity.StoreError(err, "doctor")
			}
			names[rx.DoctorID] = name
		}
		views = append(views, &model.PrescriptionView{Prescription: *rx, DoctorName: name})
	}
	return views, nil
}

// Update applies a partial update; notes may be cleared, other fields may not.
func (s *Service) Update(ctx context.Context, caller model.Identity, id uuid.UUID, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	if err := integrity.RequireDoctor(caller); err != nil {
		return nil, err
	}
	if err := integrity.CheckPresentNotBlank(
		integrity.Field{Name: "medicationName", Value: req.MedicationName},
		integrity.Field{Name: "dosage", Value: req.Dosage},
		integrity.Field{Name: "frequency", Value: req.Frequency},
		integrity.Field{Name: "duration", Value: req.Duration},
	); err != nil {
		return nil, err
	}

	var rx *model.Prescription
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		rx, err = tx.Prescriptions().Get(ctx, id)
		if err != nil {
			return integrity.StoreError(err, "prescription")
		}

		set(&rx.MedicationName, req.MedicationName)
		set(&rx.Dosage, req.Dosage)
		set(&rx.Frequency, req.Frequency)
		set(&rx.Duration, req.Duration)
		set(&rx.Notes, req.Notes)
		rx.Touch(time.Now().UTC())
		return integrity.StoreError(tx.Prescriptions().Update(ctx, rx), "prescription")
	})
	if err != nil {
		return nil, err
	}
	return rx, nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// Delete removes the prescription and its confirmations.
func (s *Service) Delete(ctx context.Context, caller model.Identity, id uuid.UUID) (model.RemovalReport, error) {
	if err := integrity.RequireDoctor(caller); err != nil {
		return model.RemovalReport{}, err
	}

	var report model.RemovalReport
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Prescriptions().Get(ctx, id); err != nil {
			return integrity.StoreError(err, "prescription")
		}
		var err error
		report, err = s.walker.Delete(ctx, tx, repository.KindPrescription, id)
		return integrity.StoreError(err, "prescription")
	})
	if err != nil {
		return model.RemovalReport{}, err
	}

	s.logger.Info("prescription deleted", "prescription_id", id.String(), "confirmations", report.Confirmations)
	return report, nil
}
