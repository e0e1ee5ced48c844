package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
	"github.com/Winmix713/match-insight-dash-13/internal/predictor"
)

type genFixture struct {
	store *memStore
	bus   *fakeBus
	svc   *GenerationService
}

func newGenFixture(t *testing.T) *genFixture {
	t.Helper()
	s := newMemStore()
	s.teams["t-a"] = domain.Team{ID: "t-a", Name: "Alpha FC"}
	s.teams["t-b"] = domain.Team{ID: "t-b", Name: "Bravo United"}
	s.matches["match-1"] = domain.Match{ID: "match-1", HomeTeamID: "t-a", AwayTeamID: "t-b", Status: domain.MatchScheduled}
	s.models["m1"] = domain.Model{ID: "m1", Name: "Baseline", Version: "v1", Algorithm: "band", IsActive: true}

	logger := discardLogger()
	reg := predictor.NewRegistry(predictor.NewBandEstimator(11))
	bus := &fakeBus{}
	svc := NewGenerationService(
		s, teamView{s}, predictionView{s},
		NewModelService(modelView{s}, nil, logger),
		predictor.New(predictor.DefaultParams()), reg,
		auditView{s}, bus, logger,
	)
	return &genFixture{store: s, bus: bus, svc: svc}
}

func TestGenerateStoresPendingPrediction(t *testing.T) {
	f := newGenFixture(t)

	res, err := f.svc.Generate(context.Background(), "match-1")
	require.NoError(t, err)

	p := res.Prediction
	assert.Equal(t, "match-1", p.MatchID)
	assert.Equal(t, domain.ResultPending, p.ResultStatus)
	assert.Equal(t, "Baseline v1", p.ModelName)
	require.NotNil(t, p.PredictedWinner)
	assert.True(t, p.PredictedWinner.Valid())
	assert.GreaterOrEqual(t, p.ConfidenceScore, 0.5)
	assert.LessOrEqual(t, p.ConfidenceScore, 0.95)
	assert.Equal(t, "Prediction generated for Alpha FC vs Bravo United", res.Message())

	assert.Equal(t, []string{string(domain.EventPredictionGenerated)}, f.store.auditEvents)
	assert.Equal(t, []string{domain.ChannelPredictionGenerated}, f.bus.published)
}

func TestGenerateMatchNotFound(t *testing.T) {
	f := newGenFixture(t)
	_, err := f.svc.Generate(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.predictions)
}

func TestGenerateRequiresMatchID(t *testing.T) {
	f := newGenFixture(t)
	_, err := f.svc.Generate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateNoActiveModel(t *testing.T) {
	f := newGenFixture(t)
	m := f.store.models["m1"]
	m.IsActive = false
	f.store.models["m1"] = m

	_, err := f.svc.Generate(context.Background(), "match-1")
	assert.ErrorIs(t, err, domain.ErrNoActiveModel)
	assert.Empty(t, f.store.predictions)
}

func TestGenerateSameTeam(t *testing.T) {
	f := newGenFixture(t)
	f.store.matches["match-x"] = domain.Match{ID: "match-x", HomeTeamID: "t-a", AwayTeamID: "t-a", Status: domain.MatchScheduled}

	_, err := f.svc.Generate(context.Background(), "match-x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.predictions)
}

func TestGenerateDuplicatePending(t *testing.T) {
	f := newGenFixture(t)
	_, err := f.svc.Generate(context.Background(), "match-1")
	require.NoError(t, err)

	_, err = f.svc.Generate(context.Background(), "match-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestPredictionsForMatch(t *testing.T) {
	f := newGenFixture(t)
	_, err := f.svc.Generate(context.Background(), "match-1")
	require.NoError(t, err)

	preds, err := f.svc.PredictionsForMatch(context.Background(), "match-1")
	require.NoError(t, err)
	assert.Len(t, preds, 1)

	_, err = f.svc.PredictionsForMatch(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateReadsActiveModelFromStore(t *testing.T) {
	s := newMemStore()
	s.teams["t-a"] = domain.Team{ID: "t-a", Name: "Alpha FC"}
	s.teams["t-b"] = domain.Team{ID: "t-b", Name: "Bravo United"}
	s.matches["match-1"] = domain.Match{ID: "match-1", HomeTeamID: "t-a", AwayTeamID: "t-b", Status: domain.MatchScheduled}
	s.matches["match-2"] = domain.Match{ID: "match-2", HomeTeamID: "t-b", AwayTeamID: "t-a", Status: domain.MatchScheduled}
	s.models["m1"] = domain.Model{ID: "m1", Name: "Baseline", Version: "v1", IsActive: true}

	logger := discardLogger()
	cache := &memModelCache{}
	models := NewModelService(modelView{s}, cache, logger)
	svc := NewGenerationService(
		s, teamView{s}, predictionView{s}, models,
		predictor.New(predictor.DefaultParams()), predictor.NewRegistry(predictor.NewBandEstimator(3)),
		nil, nil, logger,
	)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "match-1")
	require.NoError(t, err)
	require.NotNil(t, cache.model, "active model cached for read paths")

	m := s.models["m1"]
	m.IsActive = false
	s.models["m1"] = m

	_, err = svc.Generate(ctx, "match-2")
	require.ErrorIs(t, err, domain.ErrNoActiveModel)

	s.models["m2"] = domain.Model{ID: "m2", Name: "Elo", Version: "v2", IsActive: true}
	res, err := svc.Generate(ctx, "match-2")
	require.NoError(t, err)
	assert.Equal(t, "Elo v2", res.Prediction.ModelName)
}
