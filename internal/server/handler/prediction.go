package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
	"github.com/Winmix713/match-insight-dash-13/internal/service"
)

// PredictionService is the generation surface the handler needs.
type PredictionService interface {
	Generate(ctx context.Context, matchID string) (service.GenerationResult, error)
	ActiveModel(ctx context.Context) (domain.Model, error)
	PredictionsForMatch(ctx context.Context, matchID string) ([]domain.Prediction, error)
}

// PredictionHandler serves prediction and model endpoints.
type PredictionHandler struct {
	svc    PredictionService
	logger *slog.Logger
}

// NewPredictionHandler creates a PredictionHandler.
func NewPredictionHandler(svc PredictionService, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{svc: svc, logger: logHandler(logger, "prediction")}
}

type generateRequest struct {
	MatchID string `json:"match_id"`
}

// Generate creates a prediction for one match.
// POST /api/predictions/generate
func (h *PredictionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.MatchID == "" {
		req.MatchID = r.URL.Query().Get("match_id")
	}

	res, err := h.svc.Generate(r.Context(), req.MatchID)
	if err != nil {
		failWith(w, r, h.logger.With(slog.String("match_id", req.MatchID)), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"prediction": toPredictionJSON(res.Prediction),
		"message":    res.Message(),
	})
}

// ActiveModel returns the currently active model.
// GET /api/models/active
func (h *PredictionHandler) ActiveModel(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.ActiveModel(r.Context())
	if err != nil {
		failWith(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toModelJSON(m))
}

// MatchPredictions lists every prediction stored for a match.
// GET /api/matches/{id}/predictions
func (h *PredictionHandler) MatchPredictions(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeFailure(w, http.StatusBadRequest, "missing match id")
		return
	}
	preds, err := h.svc.PredictionsForMatch(r.Context(), id)
	if err != nil {
		failWith(w, r, h.logger.With(slog.String("match_id", id)), err)
		return
	}
	out := make([]predictionJSON, 0, len(preds))
	for _, p := range preds {
		out = append(out, toPredictionJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"match_id":    id,
		"predictions": out,
		"count":       len(out),
	})
}
