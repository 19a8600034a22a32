package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	return r.s.write("users.create", func(t *tables) error {
		if _, ok := t.users[user.ID]; ok {
			return repository.ErrDuplicate
		}
		for _, u := range t.users {
			if u.Email == user.Email || u.DUI == user.DUI {
				return repository.ErrDuplicate
			}
		}
		t.users[user.ID] = *user
		return nil
	})
}

func (r userRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.find("users.get", func(u model.User) bool { return u.ID == id })
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find("users.get_by_email", func(u model.User) bool { return u.Email == email })
}

func (r userRepo) GetByDUI(ctx context.Context, dui string) (*model.User, error) {
	return r.find("users.get_by_dui", func(u model.User) bool { return u.DUI == dui })
}

func (r userRepo) find(op string, match func(model.User) bool) (*model.User, error) {
	var found *model.User
	err := r.s.read(op, func(t *tables) error {
		for _, u := range t.users {
			if match(u) {
				u := u
				found = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r userRepo) Update(ctx context.Context, user *model.User) error {
	return r.s.write("users.update", func(t *tables) error {
		if _, ok := t.users[user.ID]; !ok {
			return repository.ErrNotFound
		}
		for id, u := range t.users {
			if id != user.ID && (u.Email == user.Email || u.DUI == user.DUI) {
				return repository.ErrDuplicate
			}
		}
		t.users[user.ID] = *user
		return nil
	})
}
