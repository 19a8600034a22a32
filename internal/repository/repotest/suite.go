// Package repotest holds the behaviour every repository.Store implementation must share.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

// Factory returns a ready store; it may be shared between subtests.
type Factory func(t *testing.T) repository.Store

// Run executes the conformance suite against the store built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("UserUniqueness", func(t *testing.T) { testUserUniqueness(t, newStore(t)) })
	t.Run("PatientUniqueness", func(t *testing.T) { testPatientUniqueness(t, newStore(t)) })
	t.Run("PatientUpdate", func(t *testing.T) { testPatientUpdate(t, newStore(t)) })
	t.Run("PrescriptionsAndConfirmations", func(t *testing.T) { testClinicalRecords(t, newStore(t)) })
	t.Run("NotificationStatus", func(t *testing.T) { testNotificationStatus(t, newStore(t)) })
	t.Run("CascaderIsIdempotent", func(t *testing.T) { testCascader(t, newStore(t)) })
	t.Run("WithTxRollsBack", func(t *testing.T) { testWithTxRollback(t, newStore(t)) })
}

// RandomDUI returns a well-formed dui unlikely to collide with earlier runs against a shared database.
func RandomDUI() string {
	return fmt.Sprintf("%08d-%d", rand.Intn(100000000), rand.Intn(10))
}

func NewUser(role model.Role) *model.User {
	u := &model.User{
		Name:         "User " + uuid.NewString()[:8],
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         role,
		DUI:          RandomDUI(),
	}
	u.Touch(time.Now().UTC().Truncate(time.Millisecond))
	return u
}

func NewPatient(owner *model.User) *model.Patient {
	p := &model.Patient{
		UserID: owner.ID,
		Name:   owner.Name,
		Email:  owner.Email,
		Age:    42,
		DUI:    owner.DUI,
		EmergencyContact: model.EmergencyContact{
			Name:  "Contact",
			Phone: "+503 7000 0000",
		},
	}
	p.Touch(time.Now().UTC().Truncate(time.Millisecond))
	return p
}

func NewPrescription(patient *model.Patient, doctor *model.User) *model.Prescription {
	p := &model.Prescription{
		PatientID:      patient.ID,
		DoctorID:       doctor.ID,
		MedicationName: "Amoxicillin",
		Dosage:         "500mg",
		Frequency:      "every 8 hours",
		Duration:       "7 days",
	}
	p.Touch(time.Now().UTC().Truncate(time.Millisecond))
	return p
}

func NewConfirmation(prescription *model.Prescription) *model.MedicationConfirmation {
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := &model.MedicationConfirmation{
		PrescriptionID: prescription.ID,
		PatientID:      prescription.PatientID,
		Date:           now,
		Status:         model.ConfirmationTaken,
	}
	c.Touch(now)
	return c
}

func NewNotification(patient *model.Patient) *model.Notification {
	now := time.Now().UTC().Truncate(time.Millisecond)
	n := &model.Notification{
		PatientID: patient.ID,
		Title:     model.ReminderTitle,
		Message:   model.ReminderMessage,
		Date:      now,
		Status:    model.NotificationStatusPending,
	}
	n.Touch(now)
	return n
}

func testUserUniqueness(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := NewUser(model.RoleDoctor)
	require.NoError(t, s.Users().Create(ctx, u))

	sameEmail := NewUser(model.RolePatient)
	sameEmail.Email = u.Email
	assert.ErrorIs(t, s.Users().Create(ctx, sameEmail), repository.ErrDuplicate)

	sameDUI := NewUser(model.RolePatient)
	sameDUI.DUI = u.DUI
	assert.ErrorIs(t, s.Users().Create(ctx, sameDUI), repository.ErrDuplicate)

	byEmail, err := s.Users().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)

	byDUI, err := s.Users().GetByDUI(ctx, u.DUI)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, byDUI.Role)

	_, err = s.Users().Get(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	u.Role = model.RolePatient
	require.NoError(t, s.Users().Update(ctx, u))
	got, err := s.Users().Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, got.Role)

	assert.ErrorIs(t, s.Users().Update(ctx, NewUser(model.RoleDoctor)), repository.ErrNotFound)
}

func testPatientUniqueness(t *testing.T, s repository.Store) {
	ctx := context.Background()
	owner := NewUser(model.RolePatient)
	other := NewUser(model.RolePatient)
	require.NoError(t, s.Users().Create(ctx, owner))
	require.NoError(t, s.Users().Create(ctx, other))

	p := NewPatient(owner)
	require.NoError(t, s.Patients().Create(ctx, p))

	sameDUI := NewPatient(other)
	sameDUI.DUI = p.DUI
	assert.ErrorIs(t, s.Patients().Create(ctx, sameDUI), repository.ErrDuplicate)

	sameOwner := NewPatient(owner)
	sameOwner.DUI = RandomDUI()
	assert.ErrorIs(t, s.Patients().Create(ctx, sameOwner), repository.ErrDuplicate)

	byDUI, err := s.Patients().GetByDUI(ctx, p.DUI)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byDUI.ID)
	assert.Equal(t, p.EmergencyContact, byDUI.EmergencyContact)

	byUser, err := s.Patients().GetByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byUser.ID)

	_, err = s.Patients().GetByDUI(ctx, RandomDUI())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := s.Patients().List(ctx)
	require.NoError(t, err)
	assert.True(t, containsPatient(all, p.ID))
}

func testPatientUpdate(t *testing.T, s repository.Store) {
	ctx := context.Background()
	owner := NewUser(model.RolePatient)
	require.NoError(t, s.Users().Create(ctx, owner))
	p := NewPatient(owner)
	require.NoError(t, s.Patients().Create(ctx, p))

	p.Name = "Renamed"
	p.Age = 43
	p.EmergencyContact.Phone = "+503 7111 1111"
	require.NoError(t, s.Patients().Update(ctx, p))

	got, err := s.Patients().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 43, got.Age)
	assert.Equal(t, "+503 7111 1111", got.EmergencyContact.Phone)

	missing := NewPatient(owner)
	assert.ErrorIs(t, s.Patients().Update(ctx, missing), repository.ErrNotFound)
}

func testClinicalRecords(t *testing.T, s repository.Store) {
	ctx := context.Background()
	doctor := NewUser(model.RoleDoctor)
	owner := NewUser(model.RolePatient)
	require.NoError(t, s.Users().Create(ctx, doctor))
	require.NoError(t, s.Users().Create(ctx, owner))
	patient := NewPatient(owner)
	require.NoError(t, s.Patients().Create(ctx, patient))

	rx := NewPrescription(patient, doctor)
	rx.Notes = "with food"
	require.NoError(t, s.Prescriptions().Create(ctx, rx))

	list, err := s.Prescriptions().ListByPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Amoxicillin", list[0].MedicationName)
	assert.Equal(t, "with food", list[0].Notes)

	rx.Dosage = "250mg"
	require.NoError(t, s.Prescriptions().Update(ctx, rx))
	got, err := s.Prescriptions().Get(ctx, rx.ID)
	require.NoError(t, err)
	assert.Equal(t, "250mg", got.Dosage)

	c := NewConfirmation(rx)
	require.NoError(t, s.Confirmations().Create(ctx, c))
	confirmations, err := s.Confirmations().ListByPrescription(ctx, rx.ID)
	require.NoError(t, err)
	require.Len(t, confirmations, 1)
	assert.Equal(t, model.ConfirmationTaken, confirmations[0].Status)

	_, err = s.Prescriptions().Get(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testNotificationStatus(t *testing.T, s repository.Store) {
	ctx := context.Background()
	owner := NewUser(model.RolePatient)
	require.NoError(t, s.Users().Create(ctx, owner))
	patient := NewPatient(owner)
	require.NoError(t, s.Patients().Create(ctx, patient))

	n := NewNotification(patient)
	require.NoError(t, s.Notifications().Create(ctx, n))
	require.NoError(t, s.Notifications().UpdateStatus(ctx, n.ID, model.NotificationStatusSent))

	got, err := s.Notifications().Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusSent, got.Status)

	list, err := s.Notifications().ListByPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, s.Notifications().UpdateStatus(ctx, uuid.New(), model.NotificationStatusSent), repository.ErrNotFound)
}

func testCascader(t *testing.T, s repository.Store) {
	ctx := context.Background()
	doctor := NewUser(model.RoleDoctor)
	owner := NewUser(model.RolePatient)
	require.NoError(t, s.Users().Create(ctx, doctor))
	require.NoError(t, s.Users().Create(ctx, owner))
	patient := NewPatient(owner)
	require.NoError(t, s.Patients().Create(ctx, patient))
	rx := NewPrescription(patient, doctor)
	require.NoError(t, s.Prescriptions().Create(ctx, rx))
	c := NewConfirmation(rx)
	require.NoError(t, s.Confirmations().Create(ctx, c))

	ids, err := s.ReferencingIDs(ctx, repository.KindPrescription, repository.RefDoctor, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{rx.ID}, ids)

	ids, err = s.ReferencingIDs(ctx, repository.KindConfirmation, repository.RefPrescription, rx.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID}, ids)

	ids, err = s.ReferencingIDs(ctx, repository.KindPatient, repository.RefUser, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{patient.ID}, ids)

	removed, err := s.DeleteRecord(ctx, repository.KindConfirmation, c.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteRecord(ctx, repository.KindConfirmation, c.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	ids, err = s.ReferencingIDs(ctx, repository.KindConfirmation, repository.RefPrescription, rx.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func testWithTxRollback(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := NewUser(model.RoleDoctor)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		if _, err := tx.Users().Get(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Users().Get(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx repository.Store) error {
		return tx.Users().Create(ctx, u)
	}))
	_, err = s.Users().Get(ctx, u.ID)
	assert.NoError(t, err)
}

func containsPatient(list []*model.Patient, id uuid.UUID) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}
