package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEDREMINDER_JWT_SECRET", "test-secret")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 5002, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiry())
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, "0 9 * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 5, cfg.RateLimit.AuthRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, time.UTC, cfg.Reminder.Location())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MEDREMINDER_JWT_SECRET", "test-secret")
	t.Setenv("MEDREMINDER_DATABASE_DRIVER", "memory")
	t.Setenv("MEDREMINDER_REMINDER_WORKERS", "8")
	t.Setenv("MEDREMINDER_SERVER_PORT", "8080")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 8, cfg.Reminder.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"unknown driver", map[string]string{"MEDREMINDER_DATABASE_DRIVER": "sqlite"}},
		{"bad schedule", map[string]string{"MEDREMINDER_REMINDER_SCHEDULE": "every morning"}},
		{"bad timezone", map[string]string{"MEDREMINDER_REMINDER_TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MEDREMINDER_JWT_SECRET", "")
			if tt.name != "missing secret" {
				t.Setenv("MEDREMINDER_JWT_SECRET", "test-secret")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}
