package world

import "strings"

type ActionType string

const (
	ActionMove     ActionType = "move"
	ActionTalk     ActionType = "talk"
	ActionGiveItem ActionType = "give_item"
	ActionAttack   ActionType = "attack"
	ActionRescue   ActionType = "rescue"
)

const DefaultActor = "player"

const (
	talkHelpBonus     = 10
	attackPenalty     = -20
	rescueBonus       = 30
	newPlayerAffinity = MaxAffinity
)

var helpTokens = []string{"help", "save", "protect", "rescue", "救", "帮", "保护", "助", "援"}

// Meta holds the fields every action carries.
type Meta struct {
	Actor   string
	Intent  string
	EventID string
}

func (m Meta) meta() Meta { return m }

// Action is the closed set of state transitions. Only the variants declared in
// this file implement it; each one must supply its own field check, guard and
// effect, so adding a variant without validation or an effect fails to build.
type Action interface {
	Type() ActionType
	meta() Meta
	// missingField names the first required field the variant lacks.
	missingField() string
	// target is the character the action interacts with, if any.
	target() string
	// guard runs the variant-specific state checks (ownership).
	guard(s State) error
	effect(s *State)
}

type Move struct {
	Meta
	ToLocation string
}

type Talk struct {
	Meta
	Target string
}

type GiveItem struct {
	Meta
	Target string
	Item   string
}

type Attack struct {
	Meta
	Target string
}

type Rescue struct {
	Meta
	Target string
}

func (Move) Type() ActionType     { return ActionMove }
func (Talk) Type() ActionType     { return ActionTalk }
func (GiveItem) Type() ActionType { return ActionGiveItem }
func (Attack) Type() ActionType   { return ActionAttack }
func (Rescue) Type() ActionType   { return ActionRescue }

func (a Move) missingField() string {
	if a.ToLocation == "" {
		return "to_location"
	}
	return ""
}

func (a Talk) missingField() string { return "" }

func (a GiveItem) missingField() string {
	if a.Item == "" {
		return "item"
	}
	if a.Target == "" {
		return "target"
	}
	return ""
}

func (a Attack) missingField() string {
	if a.Target == "" {
		return "target"
	}
	return ""
}

func (a Rescue) missingField() string {
	if a.Target == "" {
		return "target"
	}
	return ""
}

func (Move) target() string       { return "" }
func (a Talk) target() string     { return a.Target }
func (a GiveItem) target() string { return a.Target }
func (a Attack) target() string   { return a.Target }
func (a Rescue) target() string   { return a.Target }

func (Move) guard(State) error   { return nil }
func (Talk) guard(State) error   { return nil }
func (Attack) guard(State) error { return nil }
func (Rescue) guard(State) error { return nil }

func (a GiveItem) guard(s State) error {
	item, ok := s.Items[a.Item]
	if !ok {
		return reject(RuleOwnership, "item %s does not exist", a.Item)
	}
	if item.Owner != a.Actor {
		owner := item.Owner
		if owner == "" {
			owner = "nobody"
		}
		return reject(RuleOwnership, "item %s is owned by %s, not %s", a.Item, owner, a.Actor)
	}
	return nil
}

func (a Move) effect(s *State) {
	c, ok := s.Characters[a.Actor]
	if !ok {
		// only the default actor can reach this point without a record
		c = Character{Alive: true, AffinityToPlayer: newPlayerAffinity}
	}
	c.Location = a.ToLocation
	s.Characters[a.Actor] = c
}

func (a Talk) effect(s *State) {
	if a.Target == "" || !mentionsHelp(a.Intent) {
		return
	}
	adjustAffinity(s, a.Target, talkHelpBonus)
}

func (a GiveItem) effect(s *State) {
	s.Items[a.Item] = Item{Owner: a.Target}
}

func (a Attack) effect(s *State) {
	adjustAffinity(s, a.Target, attackPenalty)
}

func (a Rescue) effect(s *State) {
	adjustAffinity(s, a.Target, rescueBonus)
}

func mentionsHelp(intent string) bool {
	lower := strings.ToLower(intent)
	for _, tok := range helpTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func adjustAffinity(s *State, id string, delta int) {
	c, ok := s.Characters[id]
	if !ok {
		return
	}
	c.AffinityToPlayer = ClampAffinity(c.AffinityToPlayer + delta)
	s.Characters[id] = c
}

func ClampAffinity(v int) int {
	if v < MinAffinity {
		return MinAffinity
	}
	if v > MaxAffinity {
		return MaxAffinity
	}
	return v
}
