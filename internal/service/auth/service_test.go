package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/repository/memory"
	"github.com/jwalitptl/medreminder-api/internal/repository/repotest"
	"github.com/jwalitptl/medreminder-api/pkg/auth"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
	"github.com/jwalitptl/medreminder-api/pkg/security"
)

func setup(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	jwtSvc, err := auth.NewJWTService(auth.Config{Secret: "test-secret", Issuer: "test", Expiry: time.Hour})
	require.NoError(t, err)
	store := memory.NewStore()
	return NewService(store, jwtSvc, security.NewBcryptHasher(4), logger.Nop()), store
}

func doctorRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:     "Dr. Ana Reyes",
		Email:    "  Ana@Clinic.example ",
		Password: "s3cret-pass",
		Role:     model.RoleDoctor,
		DUI:      "12345678-9",
	}
}

func TestRegister(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, doctorRequest())
	require.NoError(t, err)
	assert.Equal(t, "ana@clinic.example", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	stored, err := store.Users().GetByDUI(ctx, "12345678-9")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegisterRejects(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, doctorRequest())
	require.NoError(t, err)

	owner := repotest.NewUser(model.RolePatient)
	require.NoError(t, store.Users().Create(ctx, owner))
	patient := repotest.NewPatient(owner)
	patient.DUI = "55555555-5"
	require.NoError(t, store.Patients().Create(ctx, patient))

	tests := []struct {
		name   string
		mutate func(r *model.RegisterRequest)
		code   apperrors.ErrorCode
	}{
		{"duplicate email", func(r *model.RegisterRequest) { r.DUI = "11111111-1" }, apperrors.ErrDuplicateIdentity},
		{"duplicate dui", func(r *model.RegisterRequest) { r.Email = "other@clinic.example" }, apperrors.ErrDuplicateIdentity},
		{"dui held by a patient record", func(r *model.RegisterRequest) {
			r.Email = "other@clinic.example"
			r.DUI = "55555555-5"
		}, apperrors.ErrDuplicateIdentity},
		{"malformed dui", func(r *model.RegisterRequest) { r.DUI = "12345678" }, apperrors.ErrInvalidInput},
		{"unknown role", func(r *model.RegisterRequest) { r.Role = "nurse" }, apperrors.ErrInvalidInput},
		{"short password", func(r *model.RegisterRequest) {
			r.Email = "short@clinic.example"
			r.DUI = "22222222-2"
			r.Password = "short"
		}, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := doctorRequest()
			tt.mutate(req)
			_, err := svc.Register(ctx, req)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, doctorRequest())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "ANA@clinic.example", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	identity, err := svc.ResolveIdentity(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UserID: user.ID, Role: model.RoleDoctor, DUI: "12345678-9"}, identity)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "ana@clinic.example", Password: "wrong-pass"})
	assert.Equal(t, apperrors.ErrUnauthenticated, apperrors.CodeOf(err))

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "nobody@clinic.example", Password: "s3cret-pass"})
	assert.Equal(t, apperrors.ErrUnauthenticated, apperrors.CodeOf(err))
}

func TestResolveIdentityUsesStoredUser(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, doctorRequest())
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	user.Role = model.RolePatient
	require.NoError(t, store.Users().Update(ctx, user))

	identity, err := svc.ResolveIdentity(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, identity.Role)

	_, err = store.DeleteRecord(ctx, repository.KindUser, user.ID)
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(ctx, resp.Token)
	assert.Equal(t, apperrors.ErrInvalidCredential, apperrors.CodeOf(err))
}

func TestResolveIdentityStoreOutage(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, doctorRequest())
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "ana@clinic.example", Password: "s3cret-pass"})
	require.NoError(t, err)

	store.FailOn("users.get", errors.New("connection refused"))
	_, err = svc.ResolveIdentity(ctx, resp.Token)
	assert.Equal(t, apperrors.ErrStoreUnavailable, apperrors.CodeOf(err))
}
