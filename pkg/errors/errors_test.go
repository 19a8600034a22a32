package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{DuplicateIdentity("dup"), http.StatusBadRequest},
		{Unauthenticated("missing"), http.StatusUnauthorized},
		{InvalidCredential(nil), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("patient"), http.StatusNotFound},
		{StoreUnavailable(stderrors.New("down")), http.StatusInternalServerError},
		{Internal(stderrors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Message, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("create patient: %w", NotFound("user"))

	assert.Equal(t, ErrNotFound, CodeOf(err))
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrForbidden))
	assert.Equal(t, ErrInternal, CodeOf(stderrors.New("plain")))
	assert.False(t, Is(nil, ErrInternal))
}

func TestErrorMessage(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StoreUnavailable(cause)

	assert.Equal(t, "store unavailable: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "patient not found", NotFound("patient").Error())
}
