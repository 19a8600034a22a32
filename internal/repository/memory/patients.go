package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

type patientRepo struct{ s *Store }

func (r patientRepo) Create(ctx context.Context, patient *model.Patient) error {
	return r.s.write("patients.create", func(t *tables) error {
		if _, ok := t.patients[patient.ID]; ok {
			return repository.ErrDuplicate
		}
		for _, p := range t.patients {
			if p.DUI == patient.DUI || p.UserID == patient.UserID {
				return repository.ErrDuplicate
			}
		}
		t.patients[patient.ID] = *patient
		return nil
	})
}

func (r patientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return r.find("patients.get", func(p model.Patient) bool { return p.ID == id })
}

func (r patientRepo) GetByDUI(ctx context.Context, dui string) (*model.Patient, error) {
	return r.find("patients.get_by_dui", func(p model.Patient) bool { return p.DUI == dui })
}

func (r patientRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	return r.find("patients.get_by_user", func(p model.Patient) bool { return p.UserID == userID })
}

func (r patientRepo) find(op string, match func(model.Patient) bool) (*model.Patient, error) {
	var found *model.Patient
	err := r.s.read(op, func(t *tables) error {
		for _, p := range t.patients {
			if match(p) {
				p := p
				found = &p
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r patientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	var out []*model.Patient
	err := r.s.read("patients.list", func(t *tables) error {
		for _, p := range t.patients {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r patientRepo) Update(ctx context.Context, patient *model.Patient) error {
	return r.s.write("patients.update", func(t *tables) error {
		if _, ok := t.patients[patient.ID]; !ok {
			return repository.ErrNotFound
		}
		for id, p := range t.patients {
			if id != patient.ID && (p.DUI == patient.DUI || p.UserID == patient.UserID) {
				return repository.ErrDuplicate
			}
		}
		t.patients[patient.ID] = *patient
		return nil
	})
}
