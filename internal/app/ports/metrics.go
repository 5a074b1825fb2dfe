package ports

import "sanguo/internal/domain/world"

type ActionMetrics interface {
	RecordAccepted(actionType world.ActionType)
	RecordRejected(rule world.Rule)
	RecordFailure()
}
