package lore

type ExcerptRequest struct {
	Book string
}

type ExcerptResponse struct {
	Content     string `json:"content"`
	TotalLength int    `json:"total_length"`
	Truncated   bool   `json:"truncated"`
}

type RetrieveRequest struct {
	Query string
	Book  string
	K     int
	// TimeCursor nil means "use the current world time".
	TimeCursor *int
}

type Chunk struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
	Time     *int    `json:"time,omitempty"`
}

type RetrieveResponse struct {
	TimeCursor int     `json:"time_cursor"`
	Chunks     []Chunk `json:"chunks"`
}
