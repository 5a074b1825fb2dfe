package ports

import (
	"context"
	"time"

	"sanguo/internal/domain/world"
)

// WorldStateStore owns the durable copy of the world. Load never fails: a
// missing or corrupt copy yields the default state. Persist must either
// replace the durable copy completely or leave it untouched.
type WorldStateStore interface {
	Load(ctx context.Context) world.State
	Persist(ctx context.Context, state world.State) error
}

type ActionRecord struct {
	ID         string
	Payload    world.Payload
	Accepted   bool
	Rule       world.Rule
	Reason     string
	TimeBefore int
	TimeAfter  int
	RecordedAt time.Time
}

type ActionLogRepository interface {
	Append(ctx context.Context, record ActionRecord) error
	List(ctx context.Context, limit int) ([]ActionRecord, error)
}
