package observe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sanguo/internal/app/ports"
	"sanguo/internal/domain/world"
)

const recentEventLimit = 5

type UseCase struct {
	Store ports.WorldStateStore
}

// Execute describes what actor can see: who shares its location, what it
// carries and the last few recorded events.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		actor = world.DefaultActor
	}
	state := u.Store.Load(ctx)
	self, ok := state.Characters[actor]
	if !ok {
		return Response{}, fmt.Errorf("character %s: %w", actor, ports.ErrNotFound)
	}

	resp := Response{
		Actor:     actor,
		Location:  self.Location,
		Alive:     self.Alive,
		Time:      state.Time,
		Nearby:    []Neighbor{},
		Inventory: []string{},
		Recent:    recentEvents(state.Events),
	}
	for _, id := range state.CharactersAt(self.Location) {
		if id == actor {
			continue
		}
		c := state.Characters[id]
		resp.Nearby = append(resp.Nearby, Neighbor{ID: id, Alive: c.Alive, AffinityToPlayer: c.AffinityToPlayer})
	}
	for id, it := range state.Items {
		if it.Owner == actor {
			resp.Inventory = append(resp.Inventory, id)
		}
	}
	sort.Strings(resp.Inventory)
	return resp, nil
}

func recentEvents(events []world.Event) []world.Event {
	start := len(events) - recentEventLimit
	if start < 0 {
		start = 0
	}
	out := make([]world.Event, len(events)-start)
	copy(out, events[start:])
	return out
}
