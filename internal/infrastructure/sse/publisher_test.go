package sse

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	domainsse "github.com/dashtam/core/internal/domain/sse"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testEvent(t *testing.T, userID string, category domainsse.Category) domainsse.Event {
	t.Helper()
	evt, err := domainsse.NewEvent("security.session.revoked", userID, category, map[string]any{"session_id": "abc"})
	require.NoError(t, err)
	return evt
}

func TestPublisher_Publish_DeliversOverPubSub(t *testing.T) {
	t.Parallel()

	client := setupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	pubsub := client.Subscribe(ctx, userChannel("user-1"))
	defer pubsub.Close()
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewPublisher(client, PublisherConfig{}, zerolog.Nop())
	evt := testEvent(t, "user-1", domainsse.CategorySecurity)
	publisher.Publish(ctx, evt)

	select {
	case msg := <-pubsub.Channel():
		decoded, err := decodeWire(msg.Payload)
		require.NoError(t, err)
		require.Equal(t, evt.EventID, decoded.EventID)
		require.Equal(t, evt.EventType, decoded.EventType)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestPublisher_Publish_RetentionAppendsToStream(t *testing.T) {
	t.Parallel()

	client := setupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	publisher := NewPublisher(client, PublisherConfig{EnableRetention: true}, zerolog.Nop())
	evt := testEvent(t, "user-2", domainsse.CategorySecurity)
	publisher.Publish(ctx, evt)

	entries, err := client.XRange(ctx, userStream("user-2"), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	ttl, err := client.TTL(ctx, userStream("user-2")).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}

func TestPublisher_Publish_NoRetentionSkipsStream(t *testing.T) {
	t.Parallel()

	client := setupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	publisher := NewPublisher(client, PublisherConfig{EnableRetention: false}, zerolog.Nop())
	evt := testEvent(t, "user-3", domainsse.CategorySecurity)
	publisher.Publish(ctx, evt)

	exists, err := client.Exists(ctx, userStream("user-3")).Result()
	require.NoError(t, err)
	require.Zero(t, exists)
}
