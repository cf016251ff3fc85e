package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	domainsse "github.com/dashtam/core/internal/domain/sse"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/interfaces/http/middleware"
)

const (
	sseRetryMS        = 3000
	sseHeartbeatEvery = 30 * time.Second
)

// SSESubscriber is the subset of infrastructure/sse.Subscriber this handler
// needs.
type SSESubscriber interface {
	Subscribe(ctx context.Context, userID string, categories []domainsse.Category) (<-chan domainsse.Event, func(), error)
}

// SSEReplay is the subset of infrastructure/sse.Replay this handler needs.
type SSEReplay interface {
	GetMissedEvents(ctx context.Context, userID, lastEventID string, categories []domainsse.Category) ([]domainsse.Event, error)
}

// SSEHandler serves the long-lived GET /events stream (§4.5, C11).
type SSEHandler struct {
	subscriber SSESubscriber
	replay     SSEReplay
	sessions   session.Repository
	logger     zerolog.Logger
}

// NewSSEHandler creates an SSEHandler.
func NewSSEHandler(subscriber SSESubscriber, replay SSEReplay, sessions session.Repository, logger zerolog.Logger) *SSEHandler {
	return &SSEHandler{subscriber: subscriber, replay: replay, sessions: sessions, logger: logger}
}

// Routes registers the events stream.
//
//nolint:ireturn // chi.Router is chi's standard sub-router return type
func (h *SSEHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Stream)
	return r
}

// Stream implements the long-lived GET /events endpoint: resolves the
// current user and checks their session hasn't been revoked (§4.2, so a
// revoked session cannot hold a stream open), replays missed events when
// Last-Event-ID is present, then forwards live events until the client
// disconnects.
func (h *SSEHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDString(ctx)
	if !ok {
		middleware.WriteError(w, r, http.StatusUnauthorized, "Unauthorized", "missing user context")
		return
	}

	sessionID, ok := middleware.GetSessionID(ctx)
	if ok {
		s, err := h.sessions.FindByID(ctx, sessionID)
		if err != nil || !s.IsActive(time.Now().UTC()) {
			middleware.WriteError(w, r, http.StatusUnauthorized, "Unauthorized", "session_revoked")
			return
		}
	}

	categories, err := domainsse.ParseCategories(r.URL.Query().Get("categories"))
	if err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "BadRequest", err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.WriteError(w, r, http.StatusInternalServerError, "InternalServerError", "streaming unsupported")
		return
	}

	events, closeFn, err := h.subscriber.Subscribe(ctx, userID, categories)
	if err != nil {
		h.logger.Error().Err(err).Msg("sse: subscribe failed")
		middleware.WriteError(w, r, http.StatusInternalServerError, "InternalServerError", "subscribe failed")
		return
	}
	defer closeFn()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	first := true

	if lastEventID := r.Header.Get("Last-Event-ID"); lastEventID != "" {
		missed, err := h.replay.GetMissedEvents(ctx, userID, lastEventID, categories)
		if err != nil {
			h.logger.Error().Err(err).Msg("sse: replay failed")
		}
		for _, evt := range missed {
			if err := writeSSEEvent(w, flusher, evt, first); err != nil {
				return
			}
			first = false
		}
	}

	if first {
		// retry hint still must ship on the first frame even when there is
		// nothing to replay (§4.5 step 3).
		if _, err := w.Write([]byte("retry: " + strconv.Itoa(sseRetryMS) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()
		first = false
	}

	heartbeat := time.NewTicker(sseHeartbeatEvery)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSEEvent(w, flusher, evt, false); err != nil {
				return
			}
			heartbeat.Reset(sseHeartbeatEvery)
		case <-heartbeat.C:
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, evt domainsse.Event, includeRetry bool) error {
	retry := 0
	if includeRetry {
		retry = sseRetryMS
	}
	wire, err := evt.WireFormat(retry)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(wire)); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
