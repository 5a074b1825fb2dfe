package world

import "strings"

// Validate decides whether a may be applied to s. It never mutates s and is a
// pure function of its inputs: nil means accepted, otherwise the returned
// error is a *RejectionError for the first failing rule.
//
// Rules run in a fixed order: schema completeness, life state, ownership,
// timeline, location.
func Validate(s State, a Action) error {
	if a == nil {
		return reject(RuleSchema, "action is required")
	}
	m := a.meta()

	if strings.TrimSpace(m.Intent) == "" {
		return reject(RuleSchema, "%s requires intent", a.Type())
	}
	if field := a.missingField(); field != "" {
		return reject(RuleSchema, "%s requires %s", a.Type(), field)
	}

	if err := checkLife(s, a); err != nil {
		return err
	}
	if err := a.guard(s); err != nil {
		return err
	}
	if err := checkTimeline(s, m.EventID); err != nil {
		return err
	}
	if mv, ok := a.(Move); ok && strings.TrimSpace(mv.ToLocation) == "" {
		return reject(RuleLocation, "move to_location must name a location")
	}
	return nil
}

func checkLife(s State, a Action) error {
	actor := a.meta().Actor
	c, ok := s.Characters[actor]
	if !ok && actor != DefaultActor {
		return reject(RuleLife, "actor %s does not exist, cannot %s", actor, a.Type())
	}
	if ok && !c.Alive {
		return reject(RuleLife, "actor %s is dead, cannot %s", actor, a.Type())
	}

	target := a.target()
	if target == "" {
		return nil
	}
	tc, ok := s.Characters[target]
	if !ok {
		return reject(RuleLife, "target %s does not exist, cannot %s", target, a.Type())
	}
	if !tc.Alive {
		return reject(RuleLife, "target %s is dead, cannot %s", target, a.Type())
	}
	return nil
}

func checkTimeline(s State, eventID string) error {
	if eventID == "" {
		return nil
	}
	if s.HasEvent(eventID) {
		return reject(RuleTimeline, "event %s has already occurred", eventID)
	}
	next := s.Time + 1
	if last, ok := s.LatestEventTime(); ok && next < last {
		return reject(RuleTimeline, "event %s time %d precedes latest event time %d", eventID, next, last)
	}
	return nil
}

// Apply computes the state that follows an accepted action. The input state
// is left untouched. Callers must run Validate first.
func Apply(s State, a Action) State {
	next := s.Clone()
	next.Time++
	a.effect(&next)

	m := a.meta()
	if m.EventID != "" {
		next.Events = append(next.Events, Event{
			ID:    m.EventID,
			Time:  next.Time,
			Type:  a.Type(),
			Actor: m.Actor,
		})
	}
	return next
}

// Transition validates a against s and, when accepted, applies it.
func Transition(s State, a Action) (State, error) {
	if err := Validate(s, a); err != nil {
		return s, err
	}
	return Apply(s, a), nil
}
