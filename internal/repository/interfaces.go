package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Kind names a record collection.
type Kind string

const (
	KindUser         Kind = "users"
	KindPatient      Kind = "patients"
	KindPrescription Kind = "prescriptions"
	KindConfirmation Kind = "confirmations"
	KindNotification Kind = "notifications"
)

// Reference fields a child record uses to point at its parent.
const (
	RefUser         = "user"
	RefDoctor       = "doctor"
	RefPatient      = "patient"
	RefPrescription = "prescription"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByDUI(ctx context.Context, dui string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByDUI(ctx context.Context, dui string) (*model.Patient, error)
		GetByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		Update(ctx context.Context, prescription *model.Prescription) error
	}

	ConfirmationRepository interface {
		Create(ctx context.Context, confirmation *model.MedicationConfirmation) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicationConfirmation, error)
		ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*model.MedicationConfirmation, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Notification, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus) error
	}

	// Cascader is the kind-addressed surface the integrity engine walks.
	// DeleteRecord reports false, not an error, when the record is already gone.
	Cascader interface {
		ReferencingIDs(ctx context.Context, kind Kind, ref string, parentID uuid.UUID) ([]uuid.UUID, error)
		DeleteRecord(ctx context.Context, kind Kind, id uuid.UUID) (bool, error)
	}

	Store interface {
		Cascader
		Users() UserRepository
		Patients() PatientRepository
		Prescriptions() PrescriptionRepository
		Confirmations() ConfirmationRepository
		Notifications() NotificationRepository

		// WithTx runs fn against a view of the store bound to one unit of work.
		// Nested calls on the view reuse the enclosing unit.
		WithTx(ctx context.Context, fn func(tx Store) error) error
		Ping(ctx context.Context) error
		Close(ctx context.Context) error
	}
)
