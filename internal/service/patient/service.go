package patient

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

func (s *Service) Create(ctx context.Context, caller model.Identity, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := integrity.CheckDUI("dui", req.DUI); err != nil {
		return nil, err
	}
	if err := integrity.RequireDoctor(caller); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperrors.InvalidInput("validation failed", apperrors.FieldError{Field: "userId", Message: "must be a valid UUID"})
	}
	if req.Age == nil || *req.Age < 0 {
		return nil, apperrors.InvalidInput("validation failed", apperrors.FieldError{Field: "age", Message: "must be 0 or greater"})
	}
	name := strings.TrimSpace(req.Name)
	contactName := strings.TrimSpace(req.EmergencyContact.Name)
	contactPhone := strings.TrimSpace(req.EmergencyContact.Phone)
	if err := integrity.CheckPresentNotBlank(
		integrity.Field{Name: "name", Value: &name},
		integrity.Field{Name: "emergencyContact.name", Value: &contactName},
		integrity.Field{Name: "emergencyContact.phone", Value: &contactPhone},
	); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		UserID: userID,
		Name:   name,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Age:    *req.Age,
		DUI:    req.DUI,
		EmergencyContact: model.EmergencyContact{
			Name:  contactName,
			Phone: contactPhone,
		},
	}
	patient.Touch(time.Now().UTC())

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := integrity.CheckNewPatient(ctx, tx, patient.UserID, patient.DUI); err != nil {
			return err
		}
		return integrity.StoreError(tx.Patients().Create(ctx, patient), "patient")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("patient created", "patient_id", patient.ID.String(), "doctor_id", caller.UserID.String())
	return patient, nil
}

// Get returns the patient with dui; patients may only read their own record.
func (s *Service) Get(ctx context.Context, caller model.Identity, dui string) (*model.Patient, error) {
	if err := integrity.CheckDUI("dui", dui); err != nil {
		return nil, err
	}
	if err := integrity.CanAccessDUI(caller, dui); err != nil {
		return nil, err
	}

	patient, err := s.store.Patients().GetByDUI(ctx, dui)
	if err != nil {
		return nil, integrity.StoreError(err, "patient")
	}
	return patient, nil
}

// Update applies a partial update. The dui and owning user never change.
func (s *Service) Update(ctx context.Context, caller model.Identity, dui string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if err := integrity.CheckDUI("dui", dui); err != nil {
		return nil, err
	}
	if err := integrity.RequireDoctor(caller); err != nil {
		return nil, err
	}

	fields := []integrity.Field{{Name: "name", Value: req.Name}}
	if req.EmergencyContact != nil {
		fields = append(fields,
			integrity.Field{Name: "emergencyContact.name", Value: req.EmergencyContact.Name},
			integrity.Field{Name: "emergencyContact.phone", Value: req.EmergencyContact.Phone},
		)
	}
	if err := integrity.CheckPresentNotBlank(fields...); err != nil {
		return nil, err
	}
	if req.Age != nil && *req.Age < 0 {
		return nil, apperrors.InvalidInput("validation failed", apperrors.FieldError{Field: "age", Message: "must be 0 or greater"})
	}

	var patient *model.Patient
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		patient, err = tx.Patients().GetByDUI(ctx, dui)
		if err != nil {
			return integrity.StoreError(err, "patient")
		}

		applyPatch(patient, req)
		patient.Touch(time.Now().UTC())
		return integrity.StoreError(tx.Patients().Update(ctx, patient), "patient")
	})
	if err != nil {
		return nil, err
	}
	return patient, nil
}

func applyPatch(p *model.Patient, req *model.UpdatePatientRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if ec := req.EmergencyContact; ec != nil {
		if ec.Name != nil {
			p.EmergencyContact.Name = strings.TrimSpace(*ec.Name)
		}
		if ec.Phone != nil {
			p.EmergencyContact.Phone = strings.TrimSpace(*ec.Phone)
		}
	}
}

// Delete removes the patient and everything recorded under it.
func (s *Service) Delete(ctx context.Context, caller model.Identity, dui string) (model.RemovalReport, error) {
	if err := integrity.CheckDUI("dui", dui); err != nil {
		return model.RemovalReport{}, err
	}
	if err := integrity.RequireDoctor(caller); err != nil {
		return model.RemovalReport{}, err
	}

	var (
		report    model.RemovalReport
		patientID uuid.UUID
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		patient, err := tx.Patients().GetByDUI(ctx, dui)
		if err != nil {
			return integrity.StoreError(err, "patient")
		}
		patientID = patient.ID
		report, err = s.walker.Delete(ctx, tx, repository.KindPatient, patient.ID)
		return integrity.StoreError(err, "patient")
	})
	if err != nil {
		return model.RemovalReport{}, err
	}

	s.logger.Info("patient deleted",
		"patient_id", patientID.String(),
		"prescriptions", report.Prescriptions,
		"confirmations", report.Confirmations,
		"notifications", report.Notifications,
	)
	return report, nil
}
