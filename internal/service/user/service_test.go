package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository/memory"
	"github.com/jwalitptl/medreminder-api/internal/repository/repotest"
	"github.com/jwalitptl/medreminder-api/internal/service/integrity"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
)

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, integrity.NewWalker(nil), logger.Nop())

	doctor := repotest.NewUser(model.RoleDoctor)
	owner := repotest.NewUser(model.RolePatient)
	require.NoError(t, store.Users().Create(ctx, doctor))
	require.NoError(t, store.Users().Create(ctx, owner))
	patient := repotest.NewPatient(owner)
	require.NoError(t, store.Patients().Create(ctx, patient))
	rx := repotest.NewPrescription(patient, doctor)
	require.NoError(t, store.Prescriptions().Create(ctx, rx))
	require.NoError(t, store.Confirmations().Create(ctx, repotest.NewConfirmation(rx)))
	require.NoError(t, store.Notifications().Create(ctx, repotest.NewNotification(patient)))

	_, err := svc.Delete(ctx, doctor.Identity(), owner.ID)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err), "only self")

	report, err := svc.Delete(ctx, owner.Identity(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RemovalReport{
		Users:         1,
		Patients:      1,
		Prescriptions: 1,
		Confirmations: 1,
		Notifications: 1,
	}, report)

	report, err = svc.Delete(ctx, doctor.Identity(), doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RemovalReport{Users: 1}, report)

	_, err = svc.Delete(ctx, doctor.Identity(), doctor.ID)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}
