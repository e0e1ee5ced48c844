package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// ReportStore reads archived evaluation reports.
type ReportStore interface {
	ListReports(ctx context.Context, day time.Time) ([]domain.BlobInfo, error)
	GetReport(ctx context.Context, path string) ([]byte, error)
}

// ReportsHandler serves archived evaluation reports.
type ReportsHandler struct {
	store  ReportStore
	now    func() time.Time
	logger *slog.Logger
}

// NewReportsHandler creates a ReportsHandler.
func NewReportsHandler(store ReportStore, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{store: store, now: time.Now, logger: logHandler(logger, "reports")}
}

// ListReports lists reports archived on ?date=YYYY-MM-DD (default today, UTC).
// GET /api/evaluations/reports
func (h *ReportsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	day := h.now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = d
	}

	infos, err := h.store.ListReports(r.Context(), day)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list reports failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	type item struct {
		Path         string `json:"path"`
		Size         int64  `json:"size"`
		LastModified string `json:"last_modified"`
	}
	out := make([]item, 0, len(infos))
	for _, i := range infos {
		out = append(out, item{Path: i.Path, Size: i.Size, LastModified: i.LastModified.UTC().Format(time.RFC3339)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": day.Format(time.DateOnly), "reports": out})
}

// GetReport streams one archived report by object key.
// GET /api/evaluations/reports/{path...}
func (h *ReportsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	path := pathParam(r, "path")
	if !strings.HasPrefix(path, "reports/evaluations/") || strings.Contains(path, "..") {
		writeError(w, http.StatusBadRequest, "invalid report path")
		return
	}
	data, err := h.store.GetReport(r.Context(), path)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "get report failed", slog.String("error", err.Error()))
		}
		writeError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
