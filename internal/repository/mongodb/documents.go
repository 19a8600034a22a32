package mongodb

import (
	"time"

	"github.com/jwalitptl/medreminder-api/internal/model"
)

// Ids are stored as their canonical string form.

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	DUI          string    `bson:"dui"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newUserDoc(u *model.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		DUI:          u.DUI,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toModel() *model.User {
	return &model.User{
		Base:         model.Base{ID: parseID(d.ID), CreatedAt: utc(d.CreatedAt), UpdatedAt: utc(d.UpdatedAt)},
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         model.Role(d.Role),
		DUI:          d.DUI,
	}
}

type emergencyContactDoc struct {
	Name  string `bson:"name"`
	Phone string `bson:"phone"`
}

type patientDoc struct {
	ID               string              `bson:"_id"`
	UserID           string              `bson:"user_id"`
	Name             string              `bson:"name"`
	Email            string              `bson:"email"`
	Age              int                 `bson:"age"`
	DUI              string              `bson:"dui"`
	EmergencyContact emergencyContactDoc `bson:"emergency_contact"`
	CreatedAt        time.Time           `bson:"created_at"`
	UpdatedAt        time.Time           `bson:"updated_at"`
}

func newPatientDoc(p *model.Patient) patientDoc {
	return patientDoc{
		ID:     p.ID.String(),
		UserID: p.UserID.String(),
		Name:   p.Name,
		Email:  p.Email,
		Age:    p.Age,
		DUI:    p.DUI,
		EmergencyContact: emergencyContactDoc{
			Name:  p.EmergencyContact.Name,
			Phone: p.EmergencyContact.Phone,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d patientDoc) toModel() *model.Patient {
	return &model.Patient{
		Base:   model.Base{ID: parseID(d.ID), CreatedAt: utc(d.CreatedAt), UpdatedAt: utc(d.UpdatedAt)},
		UserID: parseID(d.UserID),
		Name:   d.Name,
		Email:  d.Email,
		Age:    d.Age,
		DUI:    d.DUI,
		EmergencyContact: model.EmergencyContact{
			Name:  d.EmergencyContact.Name,
			Phone: d.EmergencyContact.Phone,
		},
	}
}

type prescriptionDoc struct {
	ID             string    `bson:"_id"`
	PatientID      string    `bson:"patient_id"`
	DoctorID       string    `bson:"doctor_id"`
	MedicationName string    `bson:"medication_name"`
	Dosage         string    `bson:"dosage"`
	Frequency      string    `bson:"frequency"`
	Duration       string    `bson:"duration"`
	Notes          string    `bson:"notes,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func newPrescriptionDoc(p *model.Prescription) prescriptionDoc {
	return prescriptionDoc{
		ID:             p.ID.String(),
		PatientID:      p.PatientID.String(),
		DoctorID:       p.DoctorID.String(),
		MedicationName: p.MedicationName,
		Dosage:         p.Dosage,
		Frequency:      p.Frequency,
		Duration:       p.Duration,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d prescriptionDoc) toModel() *model.Prescription {
	return &model.Prescription{
		Base:           model.Base{ID: parseID(d.ID), CreatedAt: utc(d.CreatedAt), UpdatedAt: utc(d.UpdatedAt)},
		PatientID:      parseID(d.PatientID),
		DoctorID:       parseID(d.DoctorID),
		MedicationName: d.MedicationName,
		Dosage:         d.Dosage,
		Frequency:      d.Frequency,
		Duration:       d.Duration,
		Notes:          d.Notes,
	}
}

type confirmationDoc struct {
	ID             string    `bson:"_id"`
	PrescriptionID string    `bson:"prescription_id"`
	PatientID      string    `bson:"patient_id"`
	Date           time.Time `bson:"date"`
	Status         string    `bson:"status"`
	Notes          string    `bson:"notes,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func newConfirmationDoc(c *model.MedicationConfirmation) confirmationDoc {
	return confirmationDoc{
		ID:             c.ID.String(),
		PrescriptionID: c.PrescriptionID.String(),
		PatientID:      c.PatientID.String(),
		Date:           c.Date,
		Status:         string(c.Status),
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (d confirmationDoc) toModel() *model.MedicationConfirmation {
	return &model.MedicationConfirmation{
		Base:           model.Base{ID: parseID(d.ID), CreatedAt: utc(d.CreatedAt), UpdatedAt: utc(d.UpdatedAt)},
		PrescriptionID: parseID(d.PrescriptionID),
		PatientID:      parseID(d.PatientID),
		Date:           utc(d.Date),
		Status:         model.ConfirmationStatus(d.Status),
		Notes:          d.Notes,
	}
}

type notificationDoc struct {
	ID        string    `bson:"_id"`
	PatientID string    `bson:"patient_id"`
	Title     string    `bson:"title"`
	Message   string    `bson:"message"`
	Date      time.Time `bson:"date"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newNotificationDoc(n *model.Notification) notificationDoc {
	return notificationDoc{
		ID:        n.ID.String(),
		PatientID: n.PatientID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Date:      n.Date,
		Status:    string(n.Status),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (d notificationDoc) toModel() *model.Notification {
	return &model.Notification{
		Base:      model.Base{ID: parseID(d.ID), CreatedAt: utc(d.CreatedAt), UpdatedAt: utc(d.UpdatedAt)},
		PatientID: parseID(d.PatientID),
		Title:     d.Title,
		Message:   d.Message,
		Date:      utc(d.Date),
		Status:    model.NotificationStatus(d.Status),
	}
}
