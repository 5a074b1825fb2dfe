package memory

import (
	"context"
	"sync"
)

// TxManager serializes read-modify-write cycles on the world. It is the only
// writer lock the file store needs, so one instance must be shared by every
// use case that persists state.
type TxManager struct {
	mu *sync.Mutex
}

func NewTxManager() TxManager {
	return TxManager{mu: &sync.Mutex{}}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
