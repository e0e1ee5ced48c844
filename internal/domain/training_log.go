package domain

import "time"

// TrainingStatus tracks a training run.
type TrainingStatus string

const (
	TrainingRunning   TrainingStatus = "running"
	TrainingCompleted TrainingStatus = "completed"
	TrainingFailed    TrainingStatus = "failed"
)

// TrainingLog records one model training run. The prediction engine never
// writes it; it exists so the schema and stores describe the whole dataset.
type TrainingLog struct {
	ID               string
	ModelID          string
	StartedAt        time.Time
	CompletedAt      *time.Time
	Status           TrainingStatus
	AccuracyAchieved *float64
	Duration         *int // seconds
	ErrorMessage     *string
	CreatedAt        time.Time
}
