package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medreminder-api/internal/model"
)

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	DUI          string    `db:"dui"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toModel() *model.User {
	return &model.User{
		Base:         model.Base{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         model.Role(r.Role),
		DUI:          r.DUI,
	}
}

const userColumns = `id, name, email, password_hash, role, dui, created_at, updated_at`

type userRepo struct {
	q sqlx.ExtContext
}

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.DUI,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapErr(err))
	}
	return nil
}

func (r userRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r userRepo) GetByDUI(ctx context.Context, dui string) (*model.User, error) {
	return r.getBy(ctx, "dui", dui)
}

// getBy is only called with literal column names.
func (r userRepo) getBy(ctx context.Context, column string, value interface{}) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	var row userRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, value); err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, mapErr(err))
	}
	return row.toModel(), nil
}

func (r userRepo) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			name = $1,
			email = $2,
			password_hash = $3,
			role = $4,
			dui = $5,
			updated_at = $6
		WHERE id = $7
	`
	res, err := r.q.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.DUI,
		user.UpdatedAt,
		user.ID,
	)
	if err := expectOne(res, err); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
