package observe

import "sanguo/internal/domain/world"

type Request struct {
	Actor string
}

type Neighbor struct {
	ID               string `json:"id"`
	Alive            bool   `json:"alive"`
	AffinityToPlayer int    `json:"affinity_to_player"`
}

type Response struct {
	Actor     string        `json:"actor"`
	Location  string        `json:"location"`
	Alive     bool          `json:"alive"`
	Time      int           `json:"time"`
	Nearby    []Neighbor    `json:"nearby"`
	Inventory []string      `json:"inventory"`
	Recent    []world.Event `json:"recent_events"`
}
