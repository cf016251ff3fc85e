package sse

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	domainsse "github.com/dashtam/core/internal/domain/sse"
)

// Replay serves get_missed_events (§4.5) against the per-user capped
// Stream a Publisher writes to when retention is enabled.
type Replay struct {
	redis           *redis.Client
	logger          zerolog.Logger
	enableRetention bool
}

// NewReplay creates a Replay. enableRetention must match the Publisher's
// setting: when false, GetMissedEvents always returns an empty slice,
// matching "if retention disabled -> empty" in §4.5.
func NewReplay(redisClient *redis.Client, enableRetention bool, logger zerolog.Logger) *Replay {
	return &Replay{redis: redisClient, enableRetention: enableRetention, logger: logger}
}

// GetMissedEvents scans userID's stream in chronological order, skips every
// entry up to and including lastEventID, then returns subsequent entries
// that pass the category filter. Returns only events still within the
// stream's retention window; an unknown lastEventID (already trimmed by
// MAXLEN, or never seen) yields an empty slice rather than an error.
func (r *Replay) GetMissedEvents(ctx context.Context, userID, lastEventID string, categories []domainsse.Category) ([]domainsse.Event, error) {
	if !r.enableRetention {
		return nil, nil
	}

	streamKey := userStream(userID)
	entries, err := r.redis.XRange(ctx, streamKey, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("sse: replay scan failed: %w", err)
	}

	var out []domainsse.Event
	found := lastEventID == ""
	for _, entry := range entries {
		raw, ok := entry.Values["payload"].(string)
		if !ok {
			continue
		}
		evt, err := decodeWire(raw)
		if err != nil {
			r.logger.Error().Err(err).Str("stream", streamKey).Msg("sse: failed to decode replay entry")
			continue
		}

		if !found {
			if evt.EventID == lastEventID {
				found = true
			}
			continue
		}

		if !evt.MatchesCategory(categories) {
			continue
		}
		out = append(out, evt)
	}

	return out, nil
}
