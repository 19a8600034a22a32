package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	if err := r.s.insert(ctx, repository.KindUser, newUserDoc(user)); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r userRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getBy(ctx, "_id", id.String())
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r userRepo) GetByDUI(ctx context.Context, dui string) (*model.User, error) {
	return r.getBy(ctx, "dui", dui)
}

func (r userRepo) getBy(ctx context.Context, field, value string) (*model.User, error) {
	var doc userDoc
	if err := r.s.findOne(ctx, repository.KindUser, bson.M{field: value}, &doc); err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", field, err)
	}
	return doc.toModel(), nil
}

func (r userRepo) Update(ctx context.Context, user *model.User) error {
	err := r.s.updateOne(ctx, repository.KindUser, user.ID, bson.M{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"dui":           user.DUI,
		"updated_at":    user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

type patientRepo struct{ s *Store }

func (r patientRepo) Create(ctx context.Context, p *model.Patient) error {
	if err := r.s.insert(ctx, repository.KindPatient, newPatientDoc(p)); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r patientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return r.getBy(ctx, "_id", id.String())
}

func (r patientRepo) GetByDUI(ctx context.Context, dui string) (*model.Patient, error) {
	return r.getBy(ctx, "dui", dui)
}

func (r patientRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	return r.getBy(ctx, "user_id", userID.String())
}

func (r patientRepo) getBy(ctx context.Context, field, value string) (*model.Patient, error) {
	var doc patientDoc
	if err := r.s.findOne(ctx, repository.KindPatient, bson.M{field: value}, &doc); err != nil {
		return nil, fmt.Errorf("failed to get patient by %s: %w", field, err)
	}
	return doc.toModel(), nil
}

func (r patientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	var docs []patientDoc
	if err := r.s.findMany(ctx, repository.KindPatient, bson.M{}, "created_at", &docs); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	out := make([]*model.Patient, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r patientRepo) Update(ctx context.Context, p *model.Patient) error {
	err := r.s.updateOne(ctx, repository.KindPatient, p.ID, bson.M{
		"name":                    p.Name,
		"email":                   p.Email,
		"age":                     p.Age,
		"emergency_contact.name":  p.EmergencyContact.Name,
		"emergency_contact.phone": p.EmergencyContact.Phone,
		"updated_at":              p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

type prescriptionRepo struct{ s *Store }

func (r prescriptionRepo) Create(ctx context.Context, p *model.Prescription) error {
	if err := r.s.insert(ctx, repository.KindPrescription, newPrescriptionDoc(p)); err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r prescriptionRepo) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var doc prescriptionDoc
	if err := r.s.findOne(ctx, repository.KindPrescription, bson.M{"_id": id.String()}, &doc); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return doc.toModel(), nil
}

func (r prescriptionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	var docs []prescriptionDoc
	filter := bson.M{"patient_id": patientID.String()}
	if err := r.s.findMany(ctx, repository.KindPrescription, filter, "created_at", &docs); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	out := make([]*model.Prescription, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r prescriptionRepo) Update(ctx context.Context, p *model.Prescription) error {
	err := r.s.updateOne(ctx, repository.KindPrescription, p.ID, bson.M{
		"medication_name": p.MedicationName,
		"dosage":          p.Dosage,
		"frequency":       p.Frequency,
		"duration":        p.Duration,
		"notes":           p.Notes,
		"updated_at":      p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return nil
}

type confirmationRepo struct{ s *Store }

func (r confirmationRepo) Create(ctx context.Context, c *model.MedicationConfirmation) error {
	if err := r.s.insert(ctx, repository.KindConfirmation, newConfirmationDoc(c)); err != nil {
		return fmt.Errorf("failed to create confirmation: %w", err)
	}
	return nil
}

func (r confirmationRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicationConfirmation, error) {
	var doc confirmationDoc
	if err := r.s.findOne(ctx, repository.KindConfirmation, bson.M{"_id": id.String()}, &doc); err != nil {
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return doc.toModel(), nil
}

func (r confirmationRepo) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*model.MedicationConfirmation, error) {
	var docs []confirmationDoc
	filter := bson.M{"prescription_id": prescriptionID.String()}
	if err := r.s.findMany(ctx, repository.KindConfirmation, filter, "date", &docs); err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	out := make([]*model.MedicationConfirmation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if err := r.s.insert(ctx, repository.KindNotification, newNotificationDoc(n)); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r notificationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var doc notificationDoc
	if err := r.s.findOne(ctx, repository.KindNotification, bson.M{"_id": id.String()}, &doc); err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return doc.toModel(), nil
}

func (r notificationRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Notification, error) {
	var docs []notificationDoc
	filter := bson.M{"patient_id": patientID.String()}
	if err := r.s.findMany(ctx, repository.KindNotification, filter, "date", &docs); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]*model.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r notificationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus) error {
	err := r.s.updateOne(ctx, repository.KindNotification, id, bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	return nil
}
