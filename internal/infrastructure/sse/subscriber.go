package sse

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	domainsse "github.com/dashtam/core/internal/domain/sse"
)

// Subscriber fans Pub/Sub messages on a user's channel and the broadcast
// channel into a single buffered stream of domain sse.Event values, filtered
// by category (§4.5).
type Subscriber struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewSubscriber creates a Subscriber bound to redisClient.
func NewSubscriber(redisClient *redis.Client, logger zerolog.Logger) *Subscriber {
	return &Subscriber{redis: redisClient, logger: logger}
}

// Subscribe opens a Pub/Sub subscription to userID's channel and the
// broadcast channel, returning a channel of already category-filtered
// events. The subscription is closed and the returned channel drained to
// closure when ctx is cancelled (client disconnect).
func (s *Subscriber) Subscribe(ctx context.Context, userID string, categories []domainsse.Category) (<-chan domainsse.Event, func(), error) {
	pubsub := s.redis.Subscribe(ctx, userChannel(userID), broadcastChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan domainsse.Event)
	closeFn := func() { _ = pubsub.Close() }

	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				evt, err := decodeWire(msg.Payload)
				if err != nil {
					s.logger.Error().Err(err).Msg("sse: failed to decode subscriber message")
					continue
				}
				if !evt.MatchesCategory(categories) {
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, closeFn, nil
}
