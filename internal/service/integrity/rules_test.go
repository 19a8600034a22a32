package integrity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/repository/memory"
	"github.com/jwalitptl/medreminder-api/internal/repository/repotest"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

func TestCheckDUI(t *testing.T) {
	assert.NoError(t, CheckDUI("dui", "12345678-9"))

	for _, bad := range []string{"", "1234567-8", "123456789", "12345678-90", "abcdefgh-i", " 12345678-9"} {
		err := CheckDUI("dui", bad)
		require.Error(t, err, bad)
		assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
	}
}

func TestCheckPresentNotBlank(t *testing.T) {
	name, blank, spaces := "Ana", "", "   "

	assert.NoError(t, CheckPresentNotBlank(Field{"name", &name}, Field{"dosage", nil}))

	err := CheckPresentNotBlank(Field{"name", &blank}, Field{"dosage", &spaces}, Field{"notes", &name})
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []apperrors.FieldError{
		{Field: "name", Message: "must not be empty"},
		{Field: "dosage", Message: "must not be empty"},
	}, appErr.Fields)
}

func TestStoreError(t *testing.T) {
	assert.Nil(t, StoreError(nil, "patient"))
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(StoreError(fmt.Errorf("get: %w", repository.ErrNotFound), "patient")))
	assert.Equal(t, apperrors.ErrDuplicateIdentity, apperrors.CodeOf(StoreError(repository.ErrDuplicate, "patient")))
	assert.Equal(t, apperrors.ErrStoreUnavailable, apperrors.CodeOf(StoreError(errors.New("conn reset"), "patient")))
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(StoreError(apperrors.Forbidden("no"), "patient")))
}

func TestCheckNewUser(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	existing := repotest.NewUser(model.RolePatient)
	require.NoError(t, s.Users().Create(ctx, existing))
	patient := repotest.NewPatient(existing)
	patient.DUI = repotest.RandomDUI()
	require.NoError(t, s.Patients().Create(ctx, patient))

	assert.NoError(t, CheckNewUser(ctx, s, "new@example.com", "11111111-1"))

	tests := map[string][2]string{
		"same email":       {existing.Email, "11111111-1"},
		"same user dui":    {"new@example.com", existing.DUI},
		"same patient dui": {"new@example.com", patient.DUI},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := CheckNewUser(ctx, s, tt[0], tt[1])
			assert.Equal(t, apperrors.ErrDuplicateIdentity, apperrors.CodeOf(err))
		})
	}

	s.FailOn("users.get_by_email", errors.New("down"))
	err := CheckNewUser(ctx, s, "x@example.com", "22222222-2")
	assert.Equal(t, apperrors.ErrStoreUnavailable, apperrors.CodeOf(err))
}

func TestCheckNewPatient(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	owner := repotest.NewUser(model.RolePatient)
	other := repotest.NewUser(model.RolePatient)
	require.NoError(t, s.Users().Create(ctx, owner))
	require.NoError(t, s.Users().Create(ctx, other))

	// The owner's own dui is allowed.
	assert.NoError(t, CheckNewPatient(ctx, s, owner.ID, owner.DUI))

	err := CheckNewPatient(ctx, s, uuid.New(), "11111111-1")
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))

	err = CheckNewPatient(ctx, s, owner.ID, other.DUI)
	assert.Equal(t, apperrors.ErrDuplicateIdentity, apperrors.CodeOf(err))

	// A dui nobody holds still has to be the owner's.
	err = CheckNewPatient(ctx, s, owner.ID, "11111111-1")
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
	assert.Equal(t, []apperrors.FieldError{{Field: "dui", Message: "must match the owning user's dui"}}, fieldErrors(t, err))

	doctor := repotest.NewUser(model.RoleDoctor)
	require.NoError(t, s.Users().Create(ctx, doctor))
	err = CheckNewPatient(ctx, s, doctor.ID, doctor.DUI)
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
	assert.Equal(t, []apperrors.FieldError{{Field: "userId", Message: "must reference a patient user"}}, fieldErrors(t, err))

	err = CheckNewPatient(ctx, s, doctor.ID, "22222222-2")
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
	assert.Len(t, fieldErrors(t, err), 2)

	require.NoError(t, s.Patients().Create(ctx, repotest.NewPatient(owner)))
	err = CheckNewPatient(ctx, s, owner.ID, owner.DUI)
	assert.Equal(t, apperrors.ErrDuplicateIdentity, apperrors.CodeOf(err))

	err = CheckNewPatient(ctx, s, owner.ID, "33333333-3")
	assert.Equal(t, apperrors.ErrDuplicateIdentity, apperrors.CodeOf(err), "one patient record per user")
}

func TestAccessRules(t *testing.T) {
	doctor := model.Identity{UserID: uuid.New(), Role: model.RoleDoctor, DUI: "12345678-9"}
	patient := model.Identity{UserID: uuid.New(), Role: model.RolePatient, DUI: "87654321-0"}

	assert.NoError(t, RequireDoctor(doctor))
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(RequireDoctor(patient)))

	assert.NoError(t, CanAccessDUI(doctor, "87654321-0"))
	assert.NoError(t, CanAccessDUI(patient, "87654321-0"))
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(CanAccessDUI(patient, "11111111-1")))
}

func fieldErrors(t *testing.T, err error) []apperrors.FieldError {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	return appErr.Fields
}
