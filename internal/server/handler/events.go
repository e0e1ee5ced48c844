package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// EventsHandler exposes the durable event stream for polling clients.
type EventsHandler struct {
	bus    domain.EventBus
	logger *slog.Logger
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(bus domain.EventBus, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{bus: bus, logger: logHandler(logger, "events")}
}

type streamEntryJSON struct {
	ID    string          `json:"id"`
	Event json.RawMessage `json:"event"`
}

// ListEvents returns up to ?limit= events after ?after= (a stream entry id).
// Clients poll with the last id they saw.
// GET /api/events
func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	after := r.URL.Query().Get("after")
	limit := queryInt(r, "limit", 50, 500)

	msgs, err := h.bus.StreamRead(r.Context(), domain.EventStream, after, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "stream read failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read events")
		return
	}

	out := make([]streamEntryJSON, 0, len(msgs))
	for _, m := range msgs {
		if !json.Valid(m.Payload) {
			continue
		}
		out = append(out, streamEntryJSON{ID: m.ID, Event: m.Payload})
	}
	next := after
	if len(msgs) > 0 {
		next = msgs[len(msgs)-1].ID
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out, "next": next})
}
