package domain

import "time"

// Event channel and stream names.
const (
	ChannelPredictionGenerated  = "matchinsight:prediction_generated"
	ChannelPredictionsEvaluated = "matchinsight:predictions_evaluated"
	EventStream                 = "matchinsight:events"
)

// EventType names an engine event.
type EventType string

const (
	EventPredictionGenerated  EventType = "prediction_generated"
	EventPredictionsEvaluated EventType = "predictions_evaluated"
	EventEvaluationErrors     EventType = "evaluation_errors"
	EventAccuracyUpdated      EventType = "accuracy_updated"
)

// Event is the envelope published on the event bus.
type Event struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}
