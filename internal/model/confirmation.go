package model

import (
	"time"

	"github.com/google/uuid"
)

type ConfirmationStatus string

const (
	ConfirmationTaken  ConfirmationStatus = "taken"
	ConfirmationMissed ConfirmationStatus = "missed"
)

func (s ConfirmationStatus) Valid() bool {
	return s == ConfirmationTaken || s == ConfirmationMissed
}

// MedicationConfirmation records whether a patient took a prescribed dose.
type MedicationConfirmation struct {
	Base
	PrescriptionID uuid.UUID          `json:"prescriptionId"`
	PatientID      uuid.UUID          `json:"patientId"`
	Date           time.Time          `json:"date"`
	Status         ConfirmationStatus `json:"status"`
	Notes          string             `json:"notes,omitempty"`
}

type ConfirmMedicationRequest struct {
	PrescriptionID string             `json:"prescriptionId" binding:"required,uuid"`
	PatientDUI     string             `json:"patientDui" binding:"required,dui"`
	Status         ConfirmationStatus `json:"status" binding:"required,oneof=taken missed"`
	Notes          string             `json:"notes"`
}
