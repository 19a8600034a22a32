package postgres

import (
	"context"
	"fmt"
)

// Foreign keys deliberately carry no ON DELETE CASCADE: the integrity engine removes
// children first, and the constraints reject any order that would orphan a row.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('doctor', 'patient')),
		dui           TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_dui_key UNIQUE (dui)
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id                      UUID PRIMARY KEY,
		user_id                 UUID NOT NULL REFERENCES users (id),
		name                    TEXT NOT NULL,
		email                   TEXT NOT NULL DEFAULT '',
		age                     INTEGER NOT NULL CHECK (age >= 0),
		dui                     TEXT NOT NULL,
		emergency_contact_name  TEXT NOT NULL,
		emergency_contact_phone TEXT NOT NULL,
		created_at              TIMESTAMPTZ NOT NULL,
		updated_at              TIMESTAMPTZ NOT NULL,
		CONSTRAINT patients_dui_key UNIQUE (dui),
		CONSTRAINT patients_user_id_key UNIQUE (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
		id              UUID PRIMARY KEY,
		patient_id      UUID NOT NULL REFERENCES patients (id),
		doctor_id       UUID NOT NULL REFERENCES users (id),
		medication_name TEXT NOT NULL,
		dosage          TEXT NOT NULL,
		frequency       TEXT NOT NULL,
		duration        TEXT NOT NULL,
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS prescriptions_patient_id_idx ON prescriptions (patient_id)`,
	`CREATE INDEX IF NOT EXISTS prescriptions_doctor_id_idx ON prescriptions (doctor_id)`,
	`CREATE TABLE IF NOT EXISTS medication_confirmations (
		id              UUID PRIMARY KEY,
		prescription_id UUID NOT NULL REFERENCES prescriptions (id),
		patient_id      UUID NOT NULL REFERENCES patients (id),
		date            TIMESTAMPTZ NOT NULL,
		status          TEXT NOT NULL CHECK (status IN ('taken', 'missed')),
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS medication_confirmations_prescription_id_idx ON medication_confirmations (prescription_id)`,
	`CREATE INDEX IF NOT EXISTS medication_confirmations_patient_id_idx ON medication_confirmations (patient_id)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         UUID PRIMARY KEY,
		patient_id UUID NOT NULL REFERENCES patients (id),
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		date       TIMESTAMPTZ NOT NULL,
		status     TEXT NOT NULL CHECK (status IN ('pending', 'sent')),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_patient_id_idx ON notifications (patient_id)`,
}

// Migrate creates the tables and indexes when they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	return s.withTx(ctx, func(tx *Store) error {
		for _, stmt := range schema {
			if _, err := tx.q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
