package status

import "sanguo/internal/domain/world"

type Response struct {
	State           world.State `json:"state"`
	IntegrityIssues []string    `json:"integrity_issues,omitempty"`
}
