package sse

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	domainsse "github.com/dashtam/core/internal/domain/sse"
)

func TestSubscriber_Subscribe_ReceivesUserChannelEvent(t *testing.T) {
	t.Parallel()

	client := setupTestRedis(t)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriber := NewSubscriber(client, zerolog.Nop())
	events, closeFn, err := subscriber.Subscribe(ctx, "user-1", nil)
	require.NoError(t, err)
	defer closeFn()

	publisher := NewPublisher(client, PublisherConfig{}, zerolog.Nop())
	evt := testEvent(t, "user-1", domainsse.CategorySecurity)

	time.Sleep(50 * time.Millisecond)
	publisher.Publish(ctx, evt)

	select {
	case got := <-events:
		require.Equal(t, evt.EventID, got.EventID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscribed event")
	}
}

func TestSubscriber_Subscribe_FiltersByCategory(t *testing.T) {
	t.Parallel()

	client := setupTestRedis(t)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriber := NewSubscriber(client, zerolog.Nop())
	events, closeFn, err := subscriber.Subscribe(ctx, "user-4", []domainsse.Category{domainsse.CategoryDataSync})
	require.NoError(t, err)
	defer closeFn()

	publisher := NewPublisher(client, PublisherConfig{}, zerolog.Nop())
	time.Sleep(50 * time.Millisecond)
	publisher.Publish(ctx, testEvent(t, "user-4", domainsse.CategorySecurity))

	wanted, err := domainsse.NewEvent("sync.accounts.completed", "user-4", domainsse.CategoryDataSync, map[string]any{})
	require.NoError(t, err)
	publisher.Publish(ctx, wanted)

	select {
	case got := <-events:
		require.Equal(t, wanted.EventID, got.EventID)
		require.Equal(t, domainsse.CategoryDataSync, got.Category)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for filtered event")
	}
}

func TestSubscriber_Subscribe_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	client := setupTestRedis(t)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())

	subscriber := NewSubscriber(client, zerolog.Nop())
	events, closeFn, err := subscriber.Subscribe(ctx, "user-5", nil)
	require.NoError(t, err)
	defer closeFn()

	cancel()

	select {
	case _, ok := <-events:
		require.False(t, ok, "channel should close after context cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
