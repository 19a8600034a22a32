package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medreminder-api/internal/model"
)

type prescriptionRow struct {
	ID             uuid.UUID `db:"id"`
	PatientID      uuid.UUID `db:"patient_id"`
	DoctorID       uuid.UUID `db:"doctor_id"`
	MedicationName string    `db:"medication_name"`
	Dosage         string    `db:"dosage"`
	Frequency      string    `db:"frequency"`
	Duration       string    `db:"duration"`
	Notes          string    `db:"notes"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r prescriptionRow) toModel() *model.Prescription {
	return &model.Prescription{
		Base:           model.Base{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		PatientID:      r.PatientID,
		DoctorID:       r.DoctorID,
		MedicationName: r.MedicationName,
		Dosage:         r.Dosage,
		Frequency:      r.Frequency,
		Duration:       r.Duration,
		Notes:          r.Notes,
	}
}

const prescriptionColumns = `id, patient_id, doctor_id, medication_name, dosage, frequency, duration, notes, created_at, updated_at`

type prescriptionRepo struct {
	q sqlx.ExtContext
}

func (r prescriptionRepo) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (` + prescriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.PatientID, p.DoctorID,
		p.MedicationName, p.Dosage, p.Frequency, p.Duration, p.Notes,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", mapErr(err))
	}
	return nil
}

func (r prescriptionRepo) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var row prescriptionRow
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", mapErr(err))
	}
	return row.toModel(), nil
}

func (r prescriptionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	var rows []prescriptionRow
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE patient_id = $1 ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", mapErr(err))
	}

	out := make([]*model.Prescription, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r prescriptionRepo) Update(ctx context.Context, p *model.Prescription) error {
	query := `
		UPDATE prescriptions SET
			medication_name = $1,
			dosage = $2,
			frequency = $3,
			duration = $4,
			notes = $5,
			updated_at = $6
		WHERE id = $7
	`
	res, err := r.q.ExecContext(ctx, query,
		p.MedicationName, p.Dosage, p.Frequency, p.Duration, p.Notes,
		p.UpdatedAt, p.ID,
	)
	if err := expectOne(res, err); err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return nil
}

type confirmationRow struct {
	ID             uuid.UUID `db:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id"`
	PatientID      uuid.UUID `db:"patient_id"`
	Date           time.Time `db:"date"`
	Status         string    `db:"status"`
	Notes          string    `db:"notes"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r confirmationRow) toModel() *model.MedicationConfirmation {
	return &model.MedicationConfirmation{
		Base:           model.Base{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		PrescriptionID: r.PrescriptionID,
		PatientID:      r.PatientID,
		Date:           r.Date,
		Status:         model.ConfirmationStatus(r.Status),
		Notes:          r.Notes,
	}
}

const confirmationColumns = `id, prescription_id, patient_id, date, status, notes, created_at, updated_at`

type confirmationRepo struct {
	q sqlx.ExtContext
}

func (r confirmationRepo) Create(ctx context.Context, c *model.MedicationConfirmation) error {
	query := `
		INSERT INTO medication_confirmations (` + confirmationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		c.ID, c.PrescriptionID, c.PatientID, c.Date, string(c.Status), c.Notes,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create confirmation: %w", mapErr(err))
	}
	return nil
}

func (r confirmationRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicationConfirmation, error) {
	var row confirmationRow
	query := `SELECT ` + confirmationColumns + ` FROM medication_confirmations WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get confirmation: %w", mapErr(err))
	}
	return row.toModel(), nil
}

func (r confirmationRepo) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*model.MedicationConfirmation, error) {
	var rows []confirmationRow
	query := `SELECT ` + confirmationColumns + ` FROM medication_confirmations WHERE prescription_id = $1 ORDER BY date`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, prescriptionID); err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", mapErr(err))
	}

	out := make([]*model.MedicationConfirmation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

type notificationRow struct {
	ID        uuid.UUID `db:"id"`
	PatientID uuid.UUID `db:"patient_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Date      time.Time `db:"date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r notificationRow) toModel() *model.Notification {
	return &model.Notification{
		Base:      model.Base{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		PatientID: r.PatientID,
		Title:     r.Title,
		Message:   r.Message,
		Date:      r.Date,
		Status:    model.NotificationStatus(r.Status),
	}
}

const notificationColumns = `id, patient_id, title, message, date, status, created_at, updated_at`

type notificationRepo struct {
	q sqlx.ExtContext
}

func (r notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		n.ID, n.PatientID, n.Title, n.Message, n.Date, string(n.Status),
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", mapErr(err))
	}
	return nil
}

func (r notificationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var row notificationRow
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", mapErr(err))
	}
	return row.toModel(), nil
}

func (r notificationRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Notification, error) {
	var rows []notificationRow
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE patient_id = $1 ORDER BY date`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", mapErr(err))
	}

	out := make([]*model.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r notificationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE notifications SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err := expectOne(res, err); err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	return nil
}
