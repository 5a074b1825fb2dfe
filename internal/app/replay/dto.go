package replay

import (
	"time"

	"sanguo/internal/domain/world"
)

type Request struct {
	Limit        int
	RejectedOnly bool
}

type Entry struct {
	ID         string        `json:"id"`
	Payload    world.Payload `json:"payload"`
	Accepted   bool          `json:"accepted"`
	Rule       world.Rule    `json:"rule,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	TimeBefore int           `json:"time_before"`
	TimeAfter  int           `json:"time_after"`
	RecordedAt time.Time     `json:"recorded_at"`
}

type Response struct {
	Entries []Entry `json:"entries"`
}
