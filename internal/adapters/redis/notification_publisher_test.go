package redis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/testutil"
)

func TestNewNotificationPublisher_RequiresClient(t *testing.T) {
	_, err := NewNotificationPublisher(NotificationPublisherOptions{})
	require.Error(t, err)
}

func TestNotificationPublisher_Publish(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	stream := "test:notifications:" + uuid.NewString()
	pub, err := NewNotificationPublisher(NotificationPublisherOptions{Client: client, Stream: stream})
	require.NoError(t, err)
	ctx := context.Background()
	t.Cleanup(func() { client.Del(context.Background(), stream) })

	intent := model.NotificationIntent{
		Username: "alice",
		Email:    "alice@example.com",
		FileRef:  "P-1_2024-01-15T00:00:00.pdf",
		Kind:     model.ReportKindPersonal,
		JobID:    "P-1",
		LogID:    uuid.NewString(),
	}
	require.NoError(t, pub.Publish(ctx, intent))

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Values["username"])
	assert.Equal(t, "alice@example.com", entries[0].Values["email"])
	assert.Equal(t, "P-1_2024-01-15T00:00:00.pdf", entries[0].Values["fileRef"])
	assert.Equal(t, "personal", entries[0].Values["kind"])
}

func TestNotificationPublisher_RejectsIncompleteIntent(t *testing.T) {
	// Validation happens before any command is sent, so no server is needed.
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	pub, err := NewNotificationPublisher(NotificationPublisherOptions{Client: client})
	require.NoError(t, err)
	assert.Equal(t, DefaultNotificationStream, pub.Stream())

	err = pub.Publish(context.Background(), model.NotificationIntent{Username: "alice"})
	require.Error(t, err)
}
