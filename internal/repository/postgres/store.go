package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medreminder-api/internal/repository"
)

// Store is the PostgreSQL implementation of repository.Store. A Store returned to a
// WithTx callback runs every statement on that transaction.
type Store struct {
	db *sqlx.DB
	q  sqlx.ExtContext
	tx *sqlx.Tx
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.withTx(ctx, func(tx *Store) error { return fn(tx) })
}

func (s *Store) withTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{db: s.db, q: tx, tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s.q} }
func (s *Store) Patients() repository.PatientRepository           { return patientRepo{s.q} }
func (s *Store) Prescriptions() repository.PrescriptionRepository { return prescriptionRepo{s.q} }
func (s *Store) Confirmations() repository.ConfirmationRepository { return confirmationRepo{s.q} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s.q} }

var tables = map[repository.Kind]string{
	repository.KindUser:         "users",
	repository.KindPatient:      "patients",
	repository.KindPrescription: "prescriptions",
	repository.KindConfirmation: "medication_confirmations",
	repository.KindNotification: "notifications",
}

// refColumns whitelists the reference columns per table; nothing else reaches the SQL text.
var refColumns = map[repository.Kind]map[string]string{
	repository.KindPatient: {
		repository.RefUser: "user_id",
	},
	repository.KindPrescription: {
		repository.RefPatient: "patient_id",
		repository.RefDoctor:  "doctor_id",
	},
	repository.KindConfirmation: {
		repository.RefPatient:      "patient_id",
		repository.RefPrescription: "prescription_id",
	},
	repository.KindNotification: {
		repository.RefPatient: "patient_id",
	},
}

func (s *Store) ReferencingIDs(ctx context.Context, kind repository.Kind, ref string, parentID uuid.UUID) ([]uuid.UUID, error) {
	column, ok := refColumns[kind][ref]
	if !ok {
		return nil, fmt.Errorf("unknown reference %s.%s", kind, ref)
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1 ORDER BY created_at`, tables[kind], column)

	var ids []uuid.UUID
	if err := sqlx.SelectContext(ctx, s.q, &ids, query, parentID); err != nil {
		return nil, fmt.Errorf("failed to list %s by %s: %w", kind, ref, err)
	}
	return ids, nil
}

func (s *Store) DeleteRecord(ctx context.Context, kind repository.Kind, id uuid.UUID) (bool, error) {
	table, ok := tables[kind]
	if !ok {
		return false, fmt.Errorf("unknown kind %s", kind)
	}

	res, err := s.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, mapErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
