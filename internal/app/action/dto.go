package action

import "sanguo/internal/domain/world"

// Result is the outcome of one submission. A rejected action is a normal
// result, not an error: State then holds the unchanged world.
type Result struct {
	Accepted bool        `json:"accepted"`
	Rule     world.Rule  `json:"rule,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	State    world.State `json:"state"`
}
