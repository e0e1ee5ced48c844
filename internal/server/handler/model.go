package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// ModelHistory reads a model with its training runs.
type ModelHistory interface {
	TrainingHistory(ctx context.Context, modelID string, opts domain.ListOpts) (domain.Model, []domain.TrainingLog, error)
}

// ModelHandler serves model detail endpoints.
type ModelHandler struct {
	models ModelHistory
	logger *slog.Logger
}

// NewModelHandler creates a ModelHandler.
func NewModelHandler(models ModelHistory, logger *slog.Logger) *ModelHandler {
	return &ModelHandler{models: models, logger: logHandler(logger, "model")}
}

type trainingLogJSON struct {
	ID               string   `json:"id"`
	StartedAt        string   `json:"started_at"`
	CompletedAt      *string  `json:"completed_at"`
	Status           string   `json:"status"`
	AccuracyAchieved *float64 `json:"accuracy_achieved"`
	Duration         *int     `json:"duration"`
	ErrorMessage     *string  `json:"error_message"`
}

// TrainingLogs returns a model and its training runs.
// GET /api/models/{id}/training-logs
func (h *ModelHandler) TrainingLogs(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	m, logs, err := h.models.TrainingHistory(r.Context(), id, parseListOpts(r))
	if err != nil {
		failWith(w, r, h.logger.With(slog.String("model_id", id)), err)
		return
	}
	out := make([]trainingLogJSON, 0, len(logs))
	for _, l := range logs {
		item := trainingLogJSON{
			ID:               l.ID,
			StartedAt:        l.StartedAt.UTC().Format(time.RFC3339),
			Status:           string(l.Status),
			AccuracyAchieved: l.AccuracyAchieved,
			Duration:         l.Duration,
			ErrorMessage:     l.ErrorMessage,
		}
		if l.CompletedAt != nil {
			s := l.CompletedAt.UTC().Format(time.RFC3339)
			item.CompletedAt = &s
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"model": toModelJSON(m), "training_logs": out})
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	store  domain.AuditStore
	logger *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(store domain.AuditStore, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{store: store, logger: logHandler(logger, "audit")}
}

// ListAudit returns audit entries, newest first. ?since= takes RFC 3339.
// GET /api/audit
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)
	entries, err := h.store.List(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list audit failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list audit log")
		return
	}
	type item struct {
		ID        int64          `json:"id"`
		Event     string         `json:"event"`
		Detail    map[string]any `json:"detail"`
		CreatedAt string         `json:"created_at"`
	}
	out := make([]item, 0, len(entries))
	for _, e := range entries {
		out = append(out, item{ID: e.ID, Event: e.Event, Detail: e.Detail, CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out, "count": len(out)})
}

// parseListOpts reads limit (default 50, max 500), offset and since.
func parseListOpts(r *http.Request) domain.ListOpts {
	opts := domain.ListOpts{Limit: queryInt(r, "limit", 50, 500)}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.Offset = n
		}
	}
	if v := r.URL.Query().Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			opts.Since = &t
		}
	}
	return opts
}
