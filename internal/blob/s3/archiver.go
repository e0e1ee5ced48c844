package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// reportPrefix is the key prefix under which evaluation reports are written.
const reportPrefix = "reports/evaluations/"

// ReportArchive writes evaluation reports as JSON documents keyed by day:
// reports/evaluations/YYYY/MM/DD/<report id>.json.
type ReportArchive struct {
	writer domain.BlobWriter
	reader domain.BlobReader
}

// NewReportArchive creates a ReportArchive. reader may be nil when listing
// is not needed.
func NewReportArchive(writer domain.BlobWriter, reader domain.BlobReader) *ReportArchive {
	return &ReportArchive{writer: writer, reader: reader}
}

type reportDocument struct {
	ID             string          `json:"id"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	MatchesScanned int             `json:"matches_scanned"`
	EvaluatedCount int             `json:"evaluated_count"`
	Errors         []reportError   `json:"errors"`
	ModelsUpdated  []modelAccuracy `json:"models_updated"`
}

type reportError struct {
	PredictionID string `json:"prediction_id,omitempty"`
	MatchID      string `json:"match_id,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	Error        string `json:"error"`
}

type modelAccuracy struct {
	ModelID   string  `json:"model_id"`
	ModelName string  `json:"model_name"`
	Accuracy  float64 `json:"accuracy"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
}

// ReportPath returns the object key for a report.
func ReportPath(r domain.EvaluationReport) string {
	return reportPrefix + r.StartedAt.UTC().Format("2006/01/02") + "/" + r.ID + ".json"
}

// ArchiveReport uploads r and returns its object key.
func (a *ReportArchive) ArchiveReport(ctx context.Context, r domain.EvaluationReport) (string, error) {
	body, err := encodeReport(r)
	if err != nil {
		return "", err
	}
	path := ReportPath(r)
	if err := a.writer.Put(ctx, path, bytes.NewReader(body), "application/json"); err != nil {
		return "", fmt.Errorf("s3blob: archive report %s: %w", r.ID, err)
	}
	return path, nil
}

// ListReports lists archived reports for a day.
func (a *ReportArchive) ListReports(ctx context.Context, day time.Time) ([]domain.BlobInfo, error) {
	if a.reader == nil {
		return nil, fmt.Errorf("s3blob: report listing not configured")
	}
	return a.reader.List(ctx, reportPrefix+day.UTC().Format("2006/01/02")+"/")
}

// GetReport downloads a report by object key and returns its raw JSON.
func (a *ReportArchive) GetReport(ctx context.Context, path string) ([]byte, error) {
	if a.reader == nil {
		return nil, fmt.Errorf("s3blob: report reading not configured")
	}
	rc, err := a.reader.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("s3blob: read report %s: %w", path, err)
	}
	return data, nil
}

func encodeReport(r domain.EvaluationReport) ([]byte, error) {
	doc := reportDocument{
		ID:             r.ID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		MatchesScanned: r.MatchesScanned,
		EvaluatedCount: r.EvaluatedCount,
		Errors:         make([]reportError, 0, len(r.Errors)),
		ModelsUpdated:  make([]modelAccuracy, 0, len(r.ModelsUpdated)),
	}
	for _, e := range r.Errors {
		doc.Errors = append(doc.Errors, reportError{
			PredictionID: e.PredictionID,
			MatchID:      e.MatchID,
			ModelName:    e.ModelName,
			Error:        e.Err.Error(),
		})
	}
	for _, m := range r.ModelsUpdated {
		doc.ModelsUpdated = append(doc.ModelsUpdated, modelAccuracy(m))
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("s3blob: encode report %s: %w", r.ID, err)
	}
	return data, nil
}
