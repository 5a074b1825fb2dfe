package replay

import (
	"context"
	"errors"

	"sanguo/internal/app/ports"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	ActionLog ports.ActionLogRepository
}

// Execute lists audited submissions, newest first.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Limit < 0 || req.Limit > MaxLimit {
		return Response{}, ErrInvalidRequest
	}
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}
	fetch := req.Limit
	if req.RejectedOnly {
		fetch = MaxLimit
	}
	records, err := u.ActionLog.List(ctx, fetch)
	if err != nil {
		return Response{}, err
	}

	out := Response{Entries: make([]Entry, 0, len(records))}
	for _, r := range records {
		if req.RejectedOnly && r.Accepted {
			continue
		}
		if len(out.Entries) == req.Limit {
			break
		}
		out.Entries = append(out.Entries, Entry{
			ID:         r.ID,
			Payload:    r.Payload,
			Accepted:   r.Accepted,
			Rule:       r.Rule,
			Reason:     r.Reason,
			TimeBefore: r.TimeBefore,
			TimeAfter:  r.TimeAfter,
			RecordedAt: r.RecordedAt,
		})
	}
	return out, nil
}
