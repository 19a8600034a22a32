package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidDUI(t *testing.T) {
	for _, dui := range []string{"12345678-9", "00000000-0"} {
		assert.True(t, ValidDUI(dui), dui)
	}
	for _, dui := range []string{"", "1234567-9", "123456789", "12345678-90", "abcdefgh-i", " 12345678-9", "12345678-9\n"} {
		assert.False(t, ValidDUI(dui), dui)
	}
}

func TestTouchKeepsIdentity(t *testing.T) {
	var b Base
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.Touch(first)
	require.NotEqual(t, uuid.Nil, b.ID)

	id := b.ID
	later := first.Add(time.Hour)
	b.Touch(later)

	assert.Equal(t, id, b.ID)
	assert.Equal(t, first, b.CreatedAt)
	assert.Equal(t, later, b.UpdatedAt)
}

func TestUserNeverSerializesPasswordHash(t *testing.T) {
	u := User{Name: "Ana", Email: "ana@example.com", PasswordHash: "$2a$10$secret", Role: RoleDoctor, DUI: "12345678-9"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
}

func TestRoleAndStatusValidity(t *testing.T) {
	assert.True(t, RoleDoctor.Valid())
	assert.False(t, Role("admin").Valid())
	assert.True(t, ConfirmationMissed.Valid())
	assert.False(t, ConfirmationStatus("skipped").Valid())
}
