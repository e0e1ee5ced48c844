package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// Sweeper runs one evaluation sweep.
type Sweeper interface {
	EvaluateAll(ctx context.Context) (domain.EvaluationReport, error)
}

// EvaluationHandler serves the evaluation trigger.
type EvaluationHandler struct {
	sweeper Sweeper
	logger  *slog.Logger
}

// NewEvaluationHandler creates an EvaluationHandler.
func NewEvaluationHandler(sweeper Sweeper, logger *slog.Logger) *EvaluationHandler {
	return &EvaluationHandler{sweeper: sweeper, logger: logHandler(logger, "evaluation")}
}

// Evaluate labels every pending prediction of finished matches and refreshes
// model accuracy. Row failures are reported in "errors" without failing the
// request.
// POST /api/predictions/evaluate
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.EvaluateAll(r.Context())
	if err != nil {
		failWith(w, r, h.logger, err)
		return
	}
	if report.Skipped {
		writeFailure(w, http.StatusConflict, "evaluation already in progress")
		return
	}

	errs := make([]rowErrorJSON, 0, len(report.Errors))
	for _, e := range report.Errors {
		errs = append(errs, rowErrorJSON{
			PredictionID: e.PredictionID,
			MatchID:      e.MatchID,
			ModelName:    e.ModelName,
			Error:        e.Err.Error(),
		})
	}
	models := make([]modelAccuracyJSON, 0, len(report.ModelsUpdated))
	for _, m := range report.ModelsUpdated {
		models = append(models, modelAccuracyJSON(m))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"evaluatedPredictions": report.EvaluatedCount,
		"message":              fmt.Sprintf("Successfully evaluated %d predictions", report.EvaluatedCount),
		"errors":               errs,
		"modelsUpdated":        models,
		"reportId":             report.ID,
	})
}
