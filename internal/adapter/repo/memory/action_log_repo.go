package memory

import (
	"context"
	"sync"
	"time"

	"sanguo/internal/app/ports"

	"github.com/google/uuid"
)

type ActionLogRepo struct {
	mu      sync.RWMutex
	records []ports.ActionRecord
	now     func() time.Time
}

var _ ports.ActionLogRepository = (*ActionLogRepo)(nil)

func NewActionLogRepo() *ActionLogRepo {
	return &ActionLogRepo{now: time.Now}
}

func (r *ActionLogRepo) Append(_ context.Context, record ports.ActionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = r.now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

// List returns the newest records first. limit <= 0 returns everything.
func (r *ActionLogRepo) List(_ context.Context, limit int) ([]ports.ActionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ports.ActionRecord, 0, n)
	for i := len(r.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}
