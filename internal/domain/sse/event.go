package sse

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies an SSEEvent for subscriber-side filtering (§3).
type Category string

const (
	CategoryDataSync  Category = "data_sync"
	CategoryProvider  Category = "provider"
	CategoryAI        Category = "ai"
	CategoryImport    Category = "import"
	CategoryPortfolio Category = "portfolio"
	CategorySecurity  Category = "security"
)

// ValidCategories is the closed set accepted as a subscriber filter.
var ValidCategories = map[Category]bool{
	CategoryDataSync:  true,
	CategoryProvider:  true,
	CategoryAI:        true,
	CategoryImport:    true,
	CategoryPortfolio: true,
	CategorySecurity:  true,
}

// ErrInvalidCategory is returned when a subscriber-supplied category string
// does not belong to the closed enum.
type ErrInvalidCategory struct {
	Value string
}

func (e *ErrInvalidCategory) Error() string {
	return fmt.Sprintf("sse: invalid category %q", e.Value)
}

// ParseCategories validates a comma-separated category filter, rejecting up
// front with a deterministic error on any unknown value (§4.5).
func ParseCategories(raw string) ([]Category, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]Category, 0, len(parts))
	for _, p := range parts {
		c := Category(strings.TrimSpace(p))
		if !ValidCategories[c] {
			return nil, &ErrInvalidCategory{Value: p}
		}
		out = append(out, c)
	}
	return out, nil
}

// Event is the immutable record serialised to the SSE wire format (§3, §4.5).
// EventID uses a time-sortable UUIDv7 so Last-Event-ID replay is
// well-ordered.
type Event struct {
	EventID    string
	EventType  string
	UserID     string
	Category   Category
	Data       map[string]any
	OccurredAt time.Time
}

// NewEvent mints a fresh Event with a UUIDv7 id.
func NewEvent(eventType, userID string, category Category, data map[string]any) (Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Event{
		EventID:    id.String(),
		EventType:  eventType,
		UserID:     userID,
		Category:   category,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// MatchesCategory reports whether the event passes an (empty = unfiltered)
// category filter.
func (e Event) MatchesCategory(filter []Category) bool {
	if len(filter) == 0 {
		return true
	}
	for _, c := range filter {
		if c == e.Category {
			return true
		}
	}
	return false
}

// WireFormat renders the event as an SSE message. retryMS is included as a
// `retry:` hint only when non-zero (the spec reserves this for the first
// message of a connection).
func (e Event) WireFormat(retryMS int) (string, error) {
	payload := struct {
		EventType  string         `json:"event_type"`
		UserID     string         `json:"user_id"`
		Data       map[string]any `json:"data"`
		OccurredAt time.Time      `json:"occurred_at"`
	}{e.EventType, e.UserID, e.Data, e.OccurredAt}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", e.EventID)
	fmt.Fprintf(&b, "event: %s\n", e.EventType)
	if retryMS > 0 {
		fmt.Fprintf(&b, "retry: %d\n", retryMS)
	}
	fmt.Fprintf(&b, "data: %s\n\n", body)
	return b.String(), nil
}
