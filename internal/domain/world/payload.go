package world

import "strings"

// Payload is the wire form of an action:
// {type, actor?, target?, to_location?, item?, intent, event?}.
type Payload struct {
	Type       ActionType `json:"type"`
	Actor      string     `json:"actor,omitempty"`
	Target     string     `json:"target,omitempty"`
	ToLocation string     `json:"to_location,omitempty"`
	Item       string     `json:"item,omitempty"`
	Intent     string     `json:"intent"`
	Event      string     `json:"event,omitempty"`
}

// Action maps the payload onto its variant. Only an unknown type is reported
// here; missing fields are left for Validate so that rule order is preserved.
func (p Payload) Action() (Action, error) {
	actor := strings.TrimSpace(p.Actor)
	if actor == "" {
		actor = DefaultActor
	}
	m := Meta{
		Actor:   actor,
		Intent:  p.Intent,
		EventID: strings.TrimSpace(p.Event),
	}
	target := strings.TrimSpace(p.Target)
	item := strings.TrimSpace(p.Item)

	switch ActionType(strings.TrimSpace(string(p.Type))) {
	case ActionMove:
		return Move{Meta: m, ToLocation: p.ToLocation}, nil
	case ActionTalk:
		return Talk{Meta: m, Target: target}, nil
	case ActionGiveItem:
		return GiveItem{Meta: m, Target: target, Item: item}, nil
	case ActionAttack:
		return Attack{Meta: m, Target: target}, nil
	case ActionRescue:
		return Rescue{Meta: m, Target: target}, nil
	default:
		return nil, reject(RuleSchema, "unknown action type %q", p.Type)
	}
}

// PayloadOf echoes an action back into wire form.
func PayloadOf(a Action) Payload {
	m := a.meta()
	p := Payload{
		Type:   a.Type(),
		Actor:  m.Actor,
		Intent: m.Intent,
		Event:  m.EventID,
	}
	switch v := a.(type) {
	case Move:
		p.ToLocation = v.ToLocation
	case Talk:
		p.Target = v.Target
	case GiveItem:
		p.Target = v.Target
		p.Item = v.Item
	case Attack:
		p.Target = v.Target
	case Rescue:
		p.Target = v.Target
	}
	return p
}

func SupportedActionTypes() []ActionType {
	return []ActionType{ActionMove, ActionTalk, ActionGiveItem, ActionAttack, ActionRescue}
}
