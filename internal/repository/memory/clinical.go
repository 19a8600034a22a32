package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

type prescriptionRepo struct{ s *Store }

func (r prescriptionRepo) Create(ctx context.Context, p *model.Prescription) error {
	return r.s.write("prescriptions.create", func(t *tables) error {
		if _, ok := t.prescriptions[p.ID]; ok {
			return repository.ErrDuplicate
		}
		t.prescriptions[p.ID] = *p
		return nil
	})
}

func (r prescriptionRepo) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var found *model.Prescription
	err := r.s.read("prescriptions.get", func(t *tables) error {
		p, ok := t.prescriptions[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = &p
		return nil
	})
	return found, err
}

func (r prescriptionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	var out []*model.Prescription
	err := r.s.read("prescriptions.list_by_patient", func(t *tables) error {
		for _, p := range t.prescriptions {
			if p.PatientID == patientID {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r prescriptionRepo) Update(ctx context.Context, p *model.Prescription) error {
	return r.s.write("prescriptions.update", func(t *tables) error {
		if _, ok := t.prescriptions[p.ID]; !ok {
			return repository.ErrNotFound
		}
		t.prescriptions[p.ID] = *p
		return nil
	})
}

type confirmationRepo struct{ s *Store }

func (r confirmationRepo) Create(ctx context.Context, c *model.MedicationConfirmation) error {
	return r.s.write("confirmations.create", func(t *tables) error {
		if _, ok := t.confirmations[c.ID]; ok {
			return repository.ErrDuplicate
		}
		t.confirmations[c.ID] = *c
		return nil
	})
}

func (r confirmationRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicationConfirmation, error) {
	var found *model.MedicationConfirmation
	err := r.s.read("confirmations.get", func(t *tables) error {
		c, ok := t.confirmations[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = &c
		return nil
	})
	return found, err
}

func (r confirmationRepo) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*model.MedicationConfirmation, error) {
	var out []*model.MedicationConfirmation
	err := r.s.read("confirmations.list_by_prescription", func(t *tables) error {
		for _, c := range t.confirmations {
			if c.PrescriptionID == prescriptionID {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, err
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.s.write("notifications.create", func(t *tables) error {
		if _, ok := t.notifications[n.ID]; ok {
			return repository.ErrDuplicate
		}
		t.notifications[n.ID] = *n
		return nil
	})
}

func (r notificationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var found *model.Notification
	err := r.s.read("notifications.get", func(t *tables) error {
		n, ok := t.notifications[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = &n
		return nil
	})
	return found, err
}

func (r notificationRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Notification, error) {
	var out []*model.Notification
	err := r.s.read("notifications.list_by_patient", func(t *tables) error {
		for _, n := range t.notifications {
			if n.PatientID == patientID {
				n := n
				out = append(out, &n)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, err
}

func (r notificationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus) error {
	return r.s.write("notifications.update_status", func(t *tables) error {
		n, ok := t.notifications[id]
		if !ok {
			return repository.ErrNotFound
		}
		n.Status = status
		n.UpdatedAt = time.Now().UTC()
		t.notifications[id] = n
		return nil
	})
}
