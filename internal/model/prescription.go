package model

import "github.com/google/uuid"

type Prescription struct {
	Base
	PatientID      uuid.UUID `json:"patientId"`
	DoctorID       uuid.UUID `json:"doctorId"`
	MedicationName string    `json:"medicationName"`
	Dosage         string    `json:"dosage"`
	Frequency      string    `json:"frequency"`
	Duration       string    `json:"duration"`
	Notes          string    `json:"notes,omitempty"`
}

// PrescriptionView is a prescription with the prescribing doctor's name resolved.
type PrescriptionView struct {
	Prescription
	DoctorName string `json:"doctorName,omitempty"`
}

type CreatePrescriptionRequest struct {
	PatientDUI     string `json:"patientDui" binding:"omitempty,dui"`
	MedicationName string `json:"medicationName" binding:"required"`
	Dosage         string `json:"dosage" binding:"required"`
	Frequency      string `json:"frequency" binding:"required"`
	Duration       string `json:"duration" binding:"required"`
	Notes          string `json:"notes"`
}

// UpdatePrescriptionRequest is a partial update; nil fields are left untouched.
type UpdatePrescriptionRequest struct {
	MedicationName *string `json:"medicationName"`
	Dosage         *string `json:"dosage"`
	Frequency      *string `json:"frequency"`
	Duration       *string `json:"duration"`
	Notes          *string `json:"notes"`
}
