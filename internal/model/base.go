package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Touch stamps a new record; existing ids and creation times are kept.
func (b *Base) Touch(now time.Time) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Role is the caller's role in the clinic.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// Identity is the authenticated caller, resolved from the stored user record.
type Identity struct {
	UserID uuid.UUID `json:"id"`
	Role   Role      `json:"role"`
	DUI    string    `json:"dui"`
}

func (i Identity) IsDoctor() bool {
	return i.Role == RoleDoctor
}

// RemovalReport counts the records removed by one cascading delete.
type RemovalReport struct {
	Users         int `json:"users,omitempty"`
	Patients      int `json:"patients,omitempty"`
	Prescriptions int `json:"prescriptions,omitempty"`
	Confirmations int `json:"confirmations,omitempty"`
	Notifications int `json:"notifications,omitempty"`
}
