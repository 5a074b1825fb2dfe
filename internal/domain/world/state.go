package world

import (
	"errors"
	"fmt"
	"sort"
)

const (
	MinAffinity = -100
	MaxAffinity = 100
)

type Character struct {
	Alive            bool   `json:"alive"`
	Location         string `json:"location"`
	AffinityToPlayer int    `json:"affinity_to_player"`
}

// Item.Owner is empty when nobody holds the item.
type Item struct {
	Owner string `json:"owner"`
}

type Event struct {
	ID    string     `json:"id"`
	Time  int        `json:"time"`
	Type  ActionType `json:"type"`
	Actor string     `json:"actor"`
}

// State is the single authoritative snapshot of the narrative world.
// Values are treated as immutable once handed out; transitions produce a new
// State through Apply.
type State struct {
	Time       int                  `json:"time"`
	Characters map[string]Character `json:"characters"`
	Items      map[string]Item      `json:"items"`
	Events     []Event              `json:"events"`
}

func Default() State {
	return State{
		Time:       0,
		Characters: map[string]Character{},
		Items:      map[string]Item{},
		Events:     []Event{},
	}
}

// Normalize replaces nil collections with empty ones so the persisted form
// always carries objects and arrays rather than nulls.
func (s State) Normalize() State {
	if s.Characters == nil {
		s.Characters = map[string]Character{}
	}
	if s.Items == nil {
		s.Items = map[string]Item{}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	return s
}

func (s State) Clone() State {
	out := State{
		Time:       s.Time,
		Characters: make(map[string]Character, len(s.Characters)),
		Items:      make(map[string]Item, len(s.Items)),
		Events:     make([]Event, len(s.Events)),
	}
	for id, c := range s.Characters {
		out.Characters[id] = c
	}
	for id, it := range s.Items {
		out.Items[id] = it
	}
	copy(out.Events, s.Events)
	return out
}

func (s State) HasEvent(id string) bool {
	for _, e := range s.Events {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (s State) LatestEventTime() (int, bool) {
	if len(s.Events) == 0 {
		return 0, false
	}
	return s.Events[len(s.Events)-1].Time, true
}

// CharactersAt lists the ids of characters whose location equals loc, sorted.
func (s State) CharactersAt(loc string) []string {
	out := make([]string, 0)
	for id, c := range s.Characters {
		if c.Location == loc {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// CheckIntegrity reports every violated data-model invariant. A nil result
// means the state is consistent.
func (s State) CheckIntegrity() error {
	var errs []error

	itemIDs := make([]string, 0, len(s.Items))
	for id := range s.Items {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)
	for _, id := range itemIDs {
		owner := s.Items[id].Owner
		if owner == "" {
			continue
		}
		if _, ok := s.Characters[owner]; !ok {
			errs = append(errs, fmt.Errorf("item %s owner %s is not a known character", id, owner))
		}
	}

	charIDs := make([]string, 0, len(s.Characters))
	for id := range s.Characters {
		charIDs = append(charIDs, id)
	}
	sort.Strings(charIDs)
	for _, id := range charIDs {
		a := s.Characters[id].AffinityToPlayer
		if a < MinAffinity || a > MaxAffinity {
			errs = append(errs, fmt.Errorf("character %s affinity %d outside [%d, %d]", id, a, MinAffinity, MaxAffinity))
		}
	}

	seen := make(map[string]int, len(s.Events))
	for i, e := range s.Events {
		if prev, dup := seen[e.ID]; dup {
			errs = append(errs, fmt.Errorf("event %s recorded twice (positions %d and %d)", e.ID, prev, i))
		} else {
			seen[e.ID] = i
		}
		if i > 0 && e.Time < s.Events[i-1].Time {
			errs = append(errs, fmt.Errorf("event %s time %d precedes previous event time %d", e.ID, e.Time, s.Events[i-1].Time))
		}
		if e.Time > s.Time {
			errs = append(errs, fmt.Errorf("event %s time %d is later than world time %d", e.ID, e.Time, s.Time))
		}
	}

	return errors.Join(errs...)
}
