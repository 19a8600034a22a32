package prescription

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/repository/memory"
	"github.com/jwalitptl/medreminder-api/internal/repository/repotest"
	"github.com/jwalitptl/medreminder-api/internal/service/integrity"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	doctor  *model.User
	owner   *model.User
	patient *model.Patient
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	doctor := repotest.NewUser(model.RoleDoctor)
	doctor.Name = "Dr. Ana Reyes"
	owner := repotest.NewUser(model.RolePatient)
	require.NoError(t, store.Users().Create(ctx, doctor))
	require.NoError(t, store.Users().Create(ctx, owner))
	patient := repotest.NewPatient(owner)
	require.NoError(t, store.Patients().Create(ctx, patient))

	return &fixture{
		svc:     NewService(store, integrity.NewWalker(nil), logger.Nop()),
		store:   store,
		doctor:  doctor,
		owner:   owner,
		patient: patient,
	}
}

func request() *model.CreatePrescriptionRequest {
	return &model.CreatePrescriptionRequest{
		MedicationName: "Amoxicillin",
		Dosage:         "500mg",
		Frequency:      "every 8 hours",
		Duration:       "7 days",
	}
}

func strPtr(v string) *string { return &v }

func TestCreateAndList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, f.doctor.Identity(), f.patient.DUI, request())
	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, view.PatientID)
	assert.Equal(t, f.doctor.ID, view.DoctorID)
	assert.Equal(t, "Dr. Ana Reyes", view.DoctorName)

	list, err := f.svc.ListByPatient(ctx, f.owner.Identity(), f.patient.DUI)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dr. Ana Reyes", list[0].DoctorName)

	stranger := model.Identity{UserID: uuid.New(), Role: model.RolePatient, DUI: "11111111-1"}
	_, err = f.svc.ListByPatient(ctx, stranger, f.patient.DUI)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))
}

func TestCreateRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner.Identity(), f.patient.DUI, request())
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))

	_, err = f.svc.Create(ctx, f.doctor.Identity(), "1234", request())
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))

	_, err = f.svc.Create(ctx, f.doctor.Identity(), "99999999-9", request())
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))

	blank := request()
	blank.Dosage = " "
	_, err = f.svc.Create(ctx, f.doctor.Identity(), f.patient.DUI, blank)
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
}

func TestCreateBodyDUIMustMatchTarget(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	other := repotest.NewUser(model.RolePatient)
	require.NoError(t, f.store.Users().Create(ctx, other))
	otherPatient := repotest.NewPatient(other)
	require.NoError(t, f.store.Patients().Create(ctx, otherPatient))

	req := request()
	req.PatientDUI = otherPatient.DUI
	_, err := f.svc.Create(ctx, f.doctor.Identity(), f.patient.DUI, req)
	require.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "patientDui", appErr.Fields[0].Field)

	for _, p := range []*model.Patient{f.patient, otherPatient} {
		list, err := f.store.Prescriptions().ListByPatient(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	}

	req.PatientDUI = f.patient.DUI
	view, err := f.svc.Create(ctx, f.doctor.Identity(), f.patient.DUI, req)
	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, view.PatientID)
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, f.doctor.Identity(), f.patient.DUI, &model.CreatePrescriptionRequest{
		MedicationName: "Ibuprofen",
		Dosage:         "200mg",
		Frequency:      "daily",
		Duration:       "3 days",
		Notes:          "after meals",
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.doctor.Identity(), view.ID, &model.UpdatePrescriptionRequest{
		Dosage: strPtr("400mg"),
		Notes:  strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "400mg", updated.Dosage)
	assert.Equal(t, "Ibuprofen", updated.MedicationName)
	assert.Empty(t, updated.Notes)

	_, err = f.svc.Update(ctx, f.doctor.Identity(), view.ID, &model.UpdatePrescriptionRequest{Frequency: strPtr("")})
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))

	_, err = f.svc.Update(ctx, f.owner.Identity(), view.ID, &model.UpdatePrescriptionRequest{Dosage: strPtr("1g")})
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))

	_, err = f.svc.Update(ctx, f.doctor.Identity(), uuid.New(), &model.UpdatePrescriptionRequest{Dosage: strPtr("1g")})
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestDeleteRemovesConfirmations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, f.doctor.Identity(), f.patient.DUI, request())
	require.NoError(t, err)
	require.NoError(t, f.store.Confirmations().Create(ctx, repotest.NewConfirmation(&view.Prescription)))
	require.NoError(t, f.store.Confirmations().Create(ctx, repotest.NewConfirmation(&view.Prescription)))

	_, err = f.svc.Delete(ctx, f.owner.Identity(), view.ID)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))

	report, err := f.svc.Delete(ctx, f.doctor.Identity(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RemovalReport{Prescriptions: 1, Confirmations: 2}, report)

	ids, err := f.store.ReferencingIDs(ctx, repository.KindConfirmation, repository.RefPrescription, view.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = f.svc.Delete(ctx, f.doctor.Identity(), view.ID)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}
