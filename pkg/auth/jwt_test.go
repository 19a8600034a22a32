package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, clock *fakeClock) JWTService {
	t.Helper()
	svc, err := NewJWTService(Config{
		Secret: "test-secret",
		Issuer: "medreminder-api",
		Expiry: time.Hour,
		Now:    clock.Now,
	})
	require.NoError(t, err)
	return svc
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)
	id := uuid.New()

	token, expiresAt, err := svc.Issue(id, "doctor", "12345678-9")
	require.NoError(t, err)
	assert.WithinDuration(t, clock.t.Add(time.Hour), expiresAt, time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, "12345678-9", claims.DUI)
}

func TestVerifyRejectsExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)

	token, _, err := svc.Issue(uuid.New(), "patient", "87654321-0")
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour + time.Minute)
	_, err = svc.Verify(token)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredential))
}

func TestVerifyRejects(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)

	valid, _, err := svc.Issue(uuid.New(), "doctor", "12345678-9")
	require.NoError(t, err)

	other, err := NewJWTService(Config{Secret: "other-secret", Issuer: "medreminder-api", Expiry: time.Hour, Now: clock.Now})
	require.NoError(t, err)
	foreign, _, err := other.Issue(uuid.New(), "doctor", "12345678-9")
	require.NoError(t, err)

	wrongIssuer, err := NewJWTService(Config{Secret: "test-secret", Issuer: "someone-else", Expiry: time.Hour, Now: clock.Now})
	require.NoError(t, err)
	badIss, _, err := wrongIssuer.Issue(uuid.New(), "doctor", "12345678-9")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: "doctor",
		DUI:  "12345678-9",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "medreminder-api",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role: "doctor",
		DUI:  "12345678-9",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "medreminder-api",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noDUI, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "doctor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "medreminder-api",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"tampered":     valid[:len(valid)-2] + "xx",
		"wrong secret": foreign,
		"wrong issuer": badIss,
		"alg none":     noneAlg,
		"wrong alg":    hs512,
		"missing dui":  noDUI,
		"malformed":    "not-a-token",
		"empty":        "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrInvalidCredential, apperrors.CodeOf(err))
		})
	}
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(Config{Expiry: time.Hour})
	assert.Error(t, err)
}
