package action

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sanguo/internal/app/ports"
	"sanguo/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid action request")

type UseCase struct {
	TxManager ports.TxManager
	Store     ports.WorldStateStore
	ActionLog ports.ActionLogRepository
	Metrics   ports.ActionMetrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// Execute runs load, validate, apply and persist as one critical section, so
// two submissions never interleave their read-modify-write cycles.
func (u UseCase) Execute(ctx context.Context, payload world.Payload) (Result, error) {
	var (
		out    Result
		before int
	)
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state := u.Store.Load(txCtx)
		before = state.Time

		next, err := transition(state, payload)
		if rej, ok := world.AsRejection(err); ok {
			out = Result{Accepted: false, Rule: rej.Rule, Reason: rej.Reason, State: state}
			return nil
		}
		if err != nil {
			return err
		}
		if err := u.Store.Persist(txCtx, next); err != nil {
			return err
		}
		out = Result{Accepted: true, State: next}
		return nil
	})

	u.audit(ctx, payload, before, out, err)
	if err != nil {
		return Result{}, err
	}
	return out, nil
}

func transition(state world.State, payload world.Payload) (world.State, error) {
	act, err := payload.Action()
	if err != nil {
		return state, err
	}
	return world.Transition(state, act)
}

func (u UseCase) audit(ctx context.Context, payload world.Payload, before int, res Result, execErr error) {
	logger := u.logger()
	record := ports.ActionRecord{
		Payload:    payload,
		Accepted:   res.Accepted,
		Rule:       res.Rule,
		Reason:     res.Reason,
		TimeBefore: before,
		TimeAfter:  before,
		RecordedAt: u.now().UTC(),
	}

	switch {
	case execErr != nil:
		record.Reason = execErr.Error()
		logger.Error("action failed", "type", payload.Type, "actor", payload.Actor, "error", execErr)
		if u.Metrics != nil {
			u.Metrics.RecordFailure()
		}
	case res.Accepted:
		record.TimeAfter = res.State.Time
		logger.Info("action accepted", "type", payload.Type, "actor", payload.Actor, "time", res.State.Time)
		if u.Metrics != nil {
			u.Metrics.RecordAccepted(payload.Type)
		}
	default:
		logger.Info("action rejected", "type", payload.Type, "actor", payload.Actor, "rule", res.Rule, "reason", res.Reason)
		if u.Metrics != nil {
			u.Metrics.RecordRejected(res.Rule)
		}
	}

	if u.ActionLog == nil {
		return
	}
	if err := u.ActionLog.Append(ctx, record); err != nil {
		logger.Warn("append action log", "error", err)
	}
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}
