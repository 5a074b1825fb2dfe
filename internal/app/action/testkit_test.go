package action

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"sanguo/internal/app/ports"
	"sanguo/internal/domain/world"
)

type stubTxManager struct {
	calls int
}

func (m *stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type stubStore struct {
	state      world.State
	persisted  []world.State
	persistErr error
}

func (s *stubStore) Load(_ context.Context) world.State {
	return s.state.Clone()
}

func (s *stubStore) Persist(_ context.Context, state world.State) error {
	if s.persistErr != nil {
		return s.persistErr
	}
	s.persisted = append(s.persisted, state)
	s.state = state.Clone()
	return nil
}

type stubActionLog struct {
	mu      sync.Mutex
	records []ports.ActionRecord
	err     error
}

func (l *stubActionLog) Append(_ context.Context, record ports.ActionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.records = append(l.records, record)
	return nil
}

func (l *stubActionLog) List(_ context.Context, _ int) ([]ports.ActionRecord, error) {
	return nil, errors.New("not used")
}

type stubMetrics struct {
	accepted []world.ActionType
	rejected []world.Rule
	failures int
}

func (m *stubMetrics) RecordAccepted(t world.ActionType) { m.accepted = append(m.accepted, t) }
func (m *stubMetrics) RecordRejected(r world.Rule)       { m.rejected = append(m.rejected, r) }
func (m *stubMetrics) RecordFailure()                    { m.failures++ }

type fixture struct {
	tx      *stubTxManager
	store   *stubStore
	log     *stubActionLog
	metrics *stubMetrics
	uc      UseCase
}

func newFixture(state world.State) *fixture {
	f := &fixture{
		tx:      &stubTxManager{},
		store:   &stubStore{state: state},
		log:     &stubActionLog{},
		metrics: &stubMetrics{},
	}
	f.uc = UseCase{
		TxManager: f.tx,
		Store:     f.store,
		ActionLog: f.log,
		Metrics:   f.metrics,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return f
}
