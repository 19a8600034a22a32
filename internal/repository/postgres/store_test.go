package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/config"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/repository/repotest"
)

// Runs only when MEDREMINDER_TEST_POSTGRES_DSN points at a disposable database.
func TestConformance(t *testing.T) {
	dsn := os.Getenv("MEDREMINDER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MEDREMINDER_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := NewDB(ctx, config.PostgresConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db)
	require.NoError(t, s.Migrate(ctx))

	repotest.Run(t, func(t *testing.T) repository.Store { return s })
}
