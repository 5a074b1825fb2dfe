package ports

import "context"

type LoreProvider interface {
	Book(ctx context.Context, name string) (string, error)
}
