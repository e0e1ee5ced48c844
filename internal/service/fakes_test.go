package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

// memStore is an in-memory stand-in for every gateway the services use.
type memStore struct {
	mu          sync.Mutex
	teams       map[string]domain.Team
	matches     map[string]domain.Match
	models      map[string]domain.Model
	predictions map[string]domain.Prediction
	order       []string
	nextID      int

	failUpdate   map[string]error
	failList     error
	failAccuracy error
	auditEvents  []string
}

func newMemStore() *memStore {
	return &memStore{
		teams:       map[string]domain.Team{},
		matches:     map[string]domain.Match{},
		models:      map[string]domain.Model{},
		predictions: map[string]domain.Prediction{},
		failUpdate:  map[string]error{},
	}
}

func (s *memStore) addPrediction(p domain.Prediction) {
	s.predictions[p.ID] = p
	s.order = append(s.order, p.ID)
}

// MatchStore

func (s *memStore) GetByID(_ context.Context, id string) (domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return domain.Match{}, domain.ErrNotFound
	}
	return m, nil
}

func (s *memStore) ListFinishedWithPendingPredictions(context.Context) ([]domain.MatchPredictions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	byMatch := map[string][]domain.Prediction{}
	for _, id := range s.order {
		p := s.predictions[id]
		if p.ResultStatus == domain.ResultPending {
			byMatch[p.MatchID] = append(byMatch[p.MatchID], p)
		}
	}
	var ids []string
	for id := range byMatch {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []domain.MatchPredictions
	for _, id := range ids {
		m, ok := s.matches[id]
		if !ok || m.Status != domain.MatchFinished || m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}
		out = append(out, domain.MatchPredictions{Match: m, Predictions: byMatch[id]})
	}
	return out, nil
}

func (s *memStore) ListFinished(context.Context, int) ([]domain.Match, error) { return nil, nil }

// TeamStore is satisfied through teamView to avoid the GetByID clash.
type teamView struct{ s *memStore }

func (v teamView) GetByID(_ context.Context, id string) (domain.Team, error) {
	t, ok := v.s.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrNotFound
	}
	return t, nil
}

type modelView struct{ s *memStore }

func (v modelView) GetActive(context.Context) (domain.Model, error) {
	for _, m := range v.s.models {
		if m.IsActive {
			return m, nil
		}
	}
	return domain.Model{}, domain.ErrNoActiveModel
}

func (v modelView) GetByID(_ context.Context, id string) (domain.Model, error) {
	m, ok := v.s.models[id]
	if !ok {
		return domain.Model{}, domain.ErrNotFound
	}
	return m, nil
}

func (v modelView) ListByLabel(_ context.Context, label string) ([]domain.Model, error) {
	var out []domain.Model
	for _, m := range v.s.models {
		if m.Label() == label {
			out = append(out, m)
		}
	}
	return out, nil
}

func (v modelView) UpdateAccuracy(_ context.Context, id string, accuracy float64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.failAccuracy != nil {
		return v.s.failAccuracy
	}
	m, ok := v.s.models[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Accuracy = &accuracy
	v.s.models[id] = m
	return nil
}

type predictionView struct{ s *memStore }

func (v predictionView) Insert(_ context.Context, d domain.PredictionDraft) (domain.Prediction, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, p := range v.s.predictions {
		if p.MatchID == d.MatchID && p.ResultStatus == domain.ResultPending {
			return domain.Prediction{}, domain.ErrAlreadyExists
		}
	}
	v.s.nextID++
	winner := d.PredictedWinner
	p := domain.Prediction{
		ID:                fmt.Sprintf("pred-%d", v.s.nextID),
		MatchID:           d.MatchID,
		PredictedWinner:   &winner,
		HomeExpectedGoals: ptr(d.HomeExpectedGoals),
		AwayExpectedGoals: ptr(d.AwayExpectedGoals),
		ConfidenceScore:   d.ConfidenceScore,
		ModelName:         d.ModelName,
		CreatedAt:         time.Now(),
		ResultStatus:      domain.ResultPending,
	}
	v.s.addPrediction(p)
	return p, nil
}

func (v predictionView) UpdateResult(_ context.Context, id string, status domain.ResultStatus) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.failUpdate[id]; err != nil {
		return err
	}
	p, ok := v.s.predictions[id]
	if !ok || !p.ResultStatus.CanTransition(status) {
		return domain.ErrNotFound
	}
	p.ResultStatus = status
	v.s.predictions[id] = p
	return nil
}

func (v predictionView) ListResolvedStatuses(_ context.Context, modelName string) ([]domain.ResultStatus, error) {
	var out []domain.ResultStatus
	for _, id := range v.s.order {
		p := v.s.predictions[id]
		if p.ModelName == modelName && p.ResultStatus != domain.ResultPending {
			out = append(out, p.ResultStatus)
		}
	}
	return out, nil
}

func (v predictionView) ListByMatch(_ context.Context, matchID string) ([]domain.Prediction, error) {
	var out []domain.Prediction
	for _, id := range v.s.order {
		if p := v.s.predictions[id]; p.MatchID == matchID {
			out = append(out, p)
		}
	}
	return out, nil
}

type auditView struct{ s *memStore }

func (v auditView) Log(_ context.Context, event string, _ map[string]any) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.auditEvents = append(v.s.auditEvents, event)
	return nil
}

func (v auditView) List(context.Context, domain.ListOpts) ([]domain.AuditEntry, error) {
	return nil, nil
}

// fakeLocks hands out the lock once.
type fakeLocks struct {
	held bool
	err  error
}

func (l *fakeLocks) Acquire(context.Context, string, time.Duration) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.held {
		return nil, domain.ErrLockHeld
	}
	l.held = true
	return func() { l.held = false }, nil
}

type fakeBus struct {
	published []string
	stream    [][]byte
}

func (b *fakeBus) Publish(_ context.Context, channel string, _ []byte) error {
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBus) StreamAppend(_ context.Context, _ string, payload []byte) error {
	b.stream = append(b.stream, payload)
	return nil
}

func (b *fakeBus) StreamRead(context.Context, string, string, int) ([]domain.StreamMessage, error) {
	return nil, nil
}

type fakeArchiver struct {
	reports []domain.EvaluationReport
	err     error
}

func (a *fakeArchiver) ArchiveReport(_ context.Context, r domain.EvaluationReport) (string, error) {
	a.reports = append(a.reports, r)
	return "reports/evaluations/" + r.ID + ".json", a.err
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) Notify(_ context.Context, event, _, _ string) error {
	n.events = append(n.events, event)
	return nil
}
