package model

import "github.com/google/uuid"

type EmergencyContact struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// Patient is the clinical record of a user; the aggregate root for prescriptions,
// confirmations and notifications.
type Patient struct {
	Base
	UserID           uuid.UUID        `json:"userId"`
	Name             string           `json:"name"`
	Email            string           `json:"email,omitempty"`
	Age              int              `json:"age"`
	DUI              string           `json:"dui"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

type CreatePatientRequest struct {
	UserID           string           `json:"userId" binding:"required,uuid"`
	Name             string           `json:"name" binding:"required"`
	Email            string           `json:"email" binding:"omitempty,email"`
	Age              *int             `json:"age" binding:"required,min=0"`
	DUI              string           `json:"dui" binding:"required,dui"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

type EmergencyContactPatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UpdatePatientRequest is a partial update; nil fields are left untouched.
type UpdatePatientRequest struct {
	Name             *string                `json:"name"`
	Email            *string                `json:"email" binding:"omitempty,email"`
	Age              *int                   `json:"age" binding:"omitempty,min=0"`
	EmergencyContact *EmergencyContactPatch `json:"emergencyContact"`
}
