package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medreminder-api/internal/model"
)

type patientRow struct {
	ID                    uuid.UUID `db:"id"`
	UserID                uuid.UUID `db:"user_id"`
	Name                  string    `db:"name"`
	Email                 string    `db:"email"`
	Age                   int       `db:"age"`
	DUI                   string    `db:"dui"`
	EmergencyContactName  string    `db:"emergency_contact_name"`
	EmergencyContactPhone string    `db:"emergency_contact_phone"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func (r patientRow) toModel() *model.Patient {
	return &model.Patient{
		Base:   model.Base{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		UserID: r.UserID,
		Name:   r.Name,
		Email:  r.Email,
		Age:    r.Age,
		DUI:    r.DUI,
		EmergencyContact: model.EmergencyContact{
			Name:  r.EmergencyContactName,
			Phone: r.EmergencyContactPhone,
		},
	}
}

const patientColumns = `id, user_id, name, email, age, dui, emergency_contact_name, emergency_contact_phone, created_at, updated_at`

type patientRepo struct {
	q sqlx.ExtContext
}

func (r patientRepo) Create(ctx context.Context, p *model.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Email,
		p.Age,
		p.DUI,
		p.EmergencyContact.Name,
		p.EmergencyContact.Phone,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", mapErr(err))
	}
	return nil
}

func (r patientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return r.getBy(ctx, "id", id)
}

func (r patientRepo) GetByDUI(ctx context.Context, dui string) (*model.Patient, error) {
	return r.getBy(ctx, "dui", dui)
}

func (r patientRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r patientRepo) getBy(ctx context.Context, column string, value interface{}) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE ` + column + ` = $1`

	var row patientRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, value); err != nil {
		return nil, fmt.Errorf("failed to get patient by %s: %w", column, mapErr(err))
	}
	return row.toModel(), nil
}

func (r patientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	var rows []patientRow
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", mapErr(err))
	}

	patients := make([]*model.Patient, 0, len(rows))
	for _, row := range rows {
		patients = append(patients, row.toModel())
	}
	return patients, nil
}

func (r patientRepo) Update(ctx context.Context, p *model.Patient) error {
	query := `
		UPDATE patients SET
			name = $1,
			email = $2,
			age = $3,
			emergency_contact_name = $4,
			emergency_contact_phone = $5,
			updated_at = $6
		WHERE id = $7
	`
	res, err := r.q.ExecContext(ctx, query,
		p.Name,
		p.Email,
		p.Age,
		p.EmergencyContact.Name,
		p.EmergencyContact.Phone,
		p.UpdatedAt,
		p.ID,
	)
	if err := expectOne(res, err); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}
