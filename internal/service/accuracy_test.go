package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 75.0, Accuracy(3, 4))
	assert.Equal(t, 33.33, Accuracy(1, 3))
	assert.Equal(t, 66.67, Accuracy(2, 3))
	assert.Equal(t, 100.0, Accuracy(5, 5))
	assert.Equal(t, 0.0, Accuracy(0, 0))
}

func TestRecomputeCountsOnlyResolved(t *testing.T) {
	s := newMemStore()
	model := domain.Model{ID: "m1", Name: "Baseline", Version: "v1", IsActive: true}
	s.models["m1"] = model
	for i, st := range []domain.ResultStatus{
		domain.ResultCorrect, domain.ResultCorrect, domain.ResultCorrect, domain.ResultWrong, domain.ResultPending,
	} {
		s.addPrediction(domain.Prediction{ID: string(rune('a' + i)), MatchID: "x", ModelName: "Baseline v1", ResultStatus: st})
	}
	agg := NewAccuracyAggregator(predictionView{s}, modelView{s}, nil, discardLogger())

	acc, updated, err := agg.Recompute(context.Background(), model)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 75.0, acc.Accuracy)
	assert.Equal(t, 4, acc.Total)
	assert.Equal(t, 3, acc.Correct)
	assert.Equal(t, 75.0, *s.models["m1"].Accuracy)
}

func TestRecomputeWithNoResolvedLeavesAccuracy(t *testing.T) {
	s := newMemStore()
	model := domain.Model{ID: "m1", Name: "Baseline", Version: "v1", Accuracy: ptr(61.5)}
	s.models["m1"] = model
	s.addPrediction(domain.Prediction{ID: "p", MatchID: "x", ModelName: "Baseline v1", ResultStatus: domain.ResultPending})
	agg := NewAccuracyAggregator(predictionView{s}, modelView{s}, nil, discardLogger())

	_, updated, err := agg.Recompute(context.Background(), model)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, 61.5, *s.models["m1"].Accuracy)
}

func TestRecomputeLabelUnknownModel(t *testing.T) {
	s := newMemStore()
	agg := NewAccuracyAggregator(predictionView{s}, modelView{s}, nil, discardLogger())
	accs, err := agg.RecomputeLabel(context.Background(), "Renamed v9")
	require.NoError(t, err)
	assert.Empty(t, accs)
}
