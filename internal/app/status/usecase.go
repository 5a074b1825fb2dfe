package status

import (
	"context"
	"strings"

	"sanguo/internal/app/ports"
)

type UseCase struct {
	Store ports.WorldStateStore
}

func (u UseCase) Execute(ctx context.Context) (Response, error) {
	state := u.Store.Load(ctx)
	resp := Response{State: state}
	if err := state.CheckIntegrity(); err != nil {
		resp.IntegrityIssues = strings.Split(err.Error(), "\n")
	}
	return resp, nil
}
