package inmemory

import (
	"sync"

	"sanguo/internal/app/ports"
	"sanguo/internal/domain/world"
)

type Snapshot struct {
	ActionTotal    uint64            `json:"action_total"`
	ActionAccepted uint64            `json:"action_accepted"`
	ActionRejected uint64            `json:"action_rejected"`
	ActionFailure  uint64            `json:"action_failure"`
	ByActionType   map[string]uint64 `json:"by_action_type"`
	ByRule         map[string]uint64 `json:"by_rule"`
}

type Recorder struct {
	mu       sync.Mutex
	accepted uint64
	rejected uint64
	failure  uint64
	byType   map[string]uint64
	byRule   map[string]uint64
}

var _ ports.ActionMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		byType: map[string]uint64{},
		byRule: map[string]uint64{},
	}
}

func (r *Recorder) RecordAccepted(actionType world.ActionType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted++
	r.byType[string(actionType)]++
}

func (r *Recorder) RecordRejected(rule world.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byRule[string(rule)]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionAccepted: r.accepted,
		ActionRejected: r.rejected,
		ActionFailure:  r.failure,
		ActionTotal:    r.accepted + r.rejected + r.failure,
		ByActionType:   copyCounts(r.byType),
		ByRule:         copyCounts(r.byRule),
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
