package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

type memModelCache struct {
	model    *domain.Model
	sets     int
	dropped  int
	setError error
}

func (c *memModelCache) GetActive(context.Context) (domain.Model, error) {
	if c.model == nil {
		return domain.Model{}, domain.ErrNotFound
	}
	return *c.model, nil
}

func (c *memModelCache) SetActive(_ context.Context, m domain.Model) error {
	c.sets++
	if c.setError != nil {
		return c.setError
	}
	c.model = &m
	return nil
}

func (c *memModelCache) Invalidate(context.Context) error {
	c.dropped++
	c.model = nil
	return nil
}

type trainingLogs map[string][]domain.TrainingLog

func (t trainingLogs) ListByModel(_ context.Context, modelID string, _ domain.ListOpts) ([]domain.TrainingLog, error) {
	return t[modelID], nil
}

func TestModelServiceActiveReadsThroughCache(t *testing.T) {
	s := newMemStore()
	s.models["m1"] = domain.Model{ID: "m1", Name: "Baseline", Version: "v1", IsActive: true}
	cache := &memModelCache{}
	svc := NewModelService(modelView{s}, cache, discardLogger())
	ctx := context.Background()

	m, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, 1, cache.sets)

	m, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, 1, cache.sets, "second read served from cache")

	svc.Invalidate(ctx)
	assert.Nil(t, cache.model)
}

func TestModelServiceCurrentBypassesCache(t *testing.T) {
	s := newMemStore()
	s.models["m1"] = domain.Model{ID: "m1", Name: "Baseline", Version: "v1", IsActive: true}
	cache := &memModelCache{}
	svc := NewModelService(modelView{s}, cache, discardLogger())
	ctx := context.Background()

	_, err := svc.Active(ctx)
	require.NoError(t, err)

	delete(s.models, "m1")
	_, err = svc.Current(ctx)
	require.ErrorIs(t, err, domain.ErrNoActiveModel)

	s.models["m2"] = domain.Model{ID: "m2", Name: "Elo", Version: "v2", IsActive: true}
	m, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m2", m.ID)
	require.NotNil(t, cache.model)
	assert.Equal(t, "m2", cache.model.ID, "cache refreshed")
}

func TestModelServiceCacheSetFailureIgnored(t *testing.T) {
	s := newMemStore()
	s.models["m1"] = domain.Model{ID: "m1", IsActive: true}
	svc := NewModelService(modelView{s}, &memModelCache{setError: errors.New("redis down")}, discardLogger())

	_, err := svc.Active(context.Background())
	require.NoError(t, err)
}

func TestTrainingHistory(t *testing.T) {
	s := newMemStore()
	s.models["m1"] = domain.Model{ID: "m1", Name: "Baseline", Version: "v1"}
	logs := trainingLogs{"m1": {{ID: "t1", ModelID: "m1", StartedAt: time.Now(), Status: domain.TrainingCompleted}}}
	svc := NewModelService(modelView{s}, nil, discardLogger())
	ctx := context.Background()

	m, got, err := svc.TrainingHistory(ctx, "m1", domain.ListOpts{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Empty(t, got, "no log store configured")

	svc.WithTrainingLogs(logs)
	_, got, err = svc.TrainingHistory(ctx, "m1", domain.ListOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.TrainingCompleted, got[0].Status)

	_, _, err = svc.TrainingHistory(ctx, "nope", domain.ListOpts{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
