package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/config"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/repository/repotest"
)

// Runs only when MEDREMINDER_TEST_MONGO_URI points at a replica set; the
// rollback case needs session transactions.
func TestConformance(t *testing.T) {
	uri := os.Getenv("MEDREMINDER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MEDREMINDER_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.MongoConfig{
		URI:          uri,
		Name:         fmt.Sprintf("medreminder_test_%d", time.Now().UnixNano()),
		Transactions: true,
	}
	client, err := Connect(ctx, cfg)
	require.NoError(t, err)

	s := NewStore(client, cfg)
	require.NoError(t, s.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	})

	repotest.Run(t, func(t *testing.T) repository.Store { return s })
}
