// Package sse implements the SSE Fan-Out broker (§4.5) over Redis Pub/Sub,
// with an optional Streams-backed replay for clients reconnecting with a
// Last-Event-ID.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	domainsse "github.com/dashtam/core/internal/domain/sse"
)

const (
	userChannelPrefix   = "sse:user:"
	broadcastChannel    = "sse:broadcast"
	userStreamPrefix    = "sse:stream:user:"
	defaultStreamMaxLen = 1000
	defaultStreamTTL    = 24 * time.Hour
)

// wireEvent is the JSON shape stored in Pub/Sub messages and stream
// entries. Unlike domainsse.Event.WireFormat (the client-facing SSE frame),
// this is the broker's internal transport encoding and round-trips losslessly.
type wireEvent struct {
	EventID    string                 `json:"event_id"`
	EventType  string                 `json:"event_type"`
	UserID     string                 `json:"user_id"`
	Category   domainsse.Category     `json:"category"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func toWire(e domainsse.Event) wireEvent {
	return wireEvent{
		EventID:    e.EventID,
		EventType:  e.EventType,
		UserID:     e.UserID,
		Category:   e.Category,
		Data:       e.Data,
		OccurredAt: e.OccurredAt,
	}
}

func (w wireEvent) toEvent() domainsse.Event {
	return domainsse.Event{
		EventID:    w.EventID,
		EventType:  w.EventType,
		UserID:     w.UserID,
		Category:   w.Category,
		Data:       w.Data,
		OccurredAt: w.OccurredAt,
	}
}

// Publisher publishes sse.Event values to the per-user and broadcast
// Pub/Sub channels, optionally appending to a capped per-user Stream for
// replay. All errors are fail-open per §4.5: logged, never returned to the
// event handler that triggered the publish.
type Publisher struct {
	redis           *redis.Client
	logger          zerolog.Logger
	enableRetention bool
	streamMaxLen    int64
	streamTTL       time.Duration
}

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	EnableRetention bool
	StreamMaxLen    int64
	StreamTTL       time.Duration
}

// DefaultPublisherConfig returns the defaults used when retention is enabled
// without explicit tuning.
func DefaultPublisherConfig() PublisherConfig {
	return PublisherConfig{
		StreamMaxLen: defaultStreamMaxLen,
		StreamTTL:    defaultStreamTTL,
	}
}

// NewPublisher creates a Publisher bound to redisClient.
func NewPublisher(redisClient *redis.Client, cfg PublisherConfig, logger zerolog.Logger) *Publisher {
	maxLen := cfg.StreamMaxLen
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}
	ttl := cfg.StreamTTL
	if ttl <= 0 {
		ttl = defaultStreamTTL
	}
	return &Publisher{
		redis:           redisClient,
		logger:          logger,
		enableRetention: cfg.EnableRetention,
		streamMaxLen:    maxLen,
		streamTTL:       ttl,
	}
}

// Publish serialises e to JSON and publishes it to the user's channel. If
// retention is enabled, it is also appended to the user's capped Stream and
// the Stream's TTL is refreshed. Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, e domainsse.Event) {
	body, err := json.Marshal(toWire(e))
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", e.EventType).Msg("sse: failed to encode event")
		return
	}

	channel := userChannelPrefix + e.UserID
	if err := p.redis.Publish(ctx, channel, body).Err(); err != nil {
		p.logger.Error().Err(err).Str("channel", channel).Msg("sse: publish failed")
	}

	if !p.enableRetention {
		return
	}

	streamKey := userStreamPrefix + e.UserID
	args := &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: p.streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"payload": body},
	}
	if err := p.redis.XAdd(ctx, args).Err(); err != nil {
		p.logger.Error().Err(err).Str("stream", streamKey).Msg("sse: stream append failed")
		return
	}
	if err := p.redis.Expire(ctx, streamKey, p.streamTTL).Err(); err != nil {
		p.logger.Error().Err(err).Str("stream", streamKey).Msg("sse: stream ttl refresh failed")
	}
}

// Broadcast publishes e to the system-wide channel instead of a per-user one.
func (p *Publisher) Broadcast(ctx context.Context, e domainsse.Event) {
	body, err := json.Marshal(toWire(e))
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", e.EventType).Msg("sse: failed to encode broadcast event")
		return
	}
	if err := p.redis.Publish(ctx, broadcastChannel, body).Err(); err != nil {
		p.logger.Error().Err(err).Str("channel", broadcastChannel).Msg("sse: broadcast failed")
	}
}

func userChannel(userID string) string {
	return userChannelPrefix + userID
}

func userStream(userID string) string {
	return userStreamPrefix + userID
}

func decodeWire(raw string) (domainsse.Event, error) {
	var w wireEvent
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return domainsse.Event{}, fmt.Errorf("sse: decode event: %w", err)
	}
	return w.toEvent(), nil
}
