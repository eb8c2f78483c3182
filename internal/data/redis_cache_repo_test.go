package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/testutil"
)

func TestRedisCacheRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	prefix := "test:" + uuid.NewString() + ":"
	repo := NewRedisCacheRepoWithPrefix(client, prefix)
	ctx := context.Background()

	t.Run("set and get with ttl", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "view:alice", []byte(`{"username":"alice"}`), time.Minute))

		got, err := repo.Get(ctx, "view:alice")
		require.NoError(t, err)
		assert.JSONEq(t, `{"username":"alice"}`, string(got))

		ttl := client.TTL(ctx, prefix+"view:alice").Val()
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("missing key returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "view:nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "view:bob", []byte("x"), 0))

		deleted, err := repo.Delete(ctx, "view:bob")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "view:bob")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := repo.Get(ctx, "")
		require.Error(t, err)
		require.Error(t, repo.Set(ctx, "", nil, time.Second))
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, repo.Health(ctx))
	})
}
