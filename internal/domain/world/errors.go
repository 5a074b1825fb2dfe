package world

import (
	"errors"
	"fmt"
)

var (
	ErrSchema             = errors.New("action schema error")
	ErrInvariantViolation = errors.New("world invariant violation")
)

// Rule identifies the validation step that rejected an action.
type Rule string

const (
	RuleSchema    Rule = "schema"
	RuleLife      Rule = "life"
	RuleOwnership Rule = "ownership"
	RuleTimeline  Rule = "timeline"
	RuleLocation  Rule = "location"
)

// RejectionError carries the deterministic, human-readable reason an action
// was refused. It unwraps to ErrSchema for missing fields and to
// ErrInvariantViolation for every state guard.
type RejectionError struct {
	Rule   Rule
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func (e *RejectionError) Unwrap() error {
	if e.Rule == RuleSchema {
		return ErrSchema
	}
	return ErrInvariantViolation
}

func reject(rule Rule, format string, args ...any) *RejectionError {
	return &RejectionError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// AsRejection extracts the RejectionError from err, if there is one.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) && rej != nil {
		return rej, true
	}
	return nil, false
}
