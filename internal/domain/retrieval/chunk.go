package retrieval

import (
	"regexp"
	"strconv"
	"strings"
)

// Chunk is a contiguous paragraph of lore text. Position is its index in the
// source, which also serves as the final tie-break when ranking.
type Chunk struct {
	Text     string
	Position int
	Time     int
	HasTime  bool
}

var (
	blankLine  = regexp.MustCompile(`\n[ \t]*\n`)
	timeMarker = regexp.MustCompile(`^\[(?:t|time)\s*[=:]\s*(-?\d+)\]\s*`)
)

// ChunkText splits narrative text on blank lines. Empty segments are dropped
// and a leading "[t=N]" marker, if present, is lifted into Chunk.Time.
func ChunkText(text string) []Chunk {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := blankLine.Split(text, -1)
	out := make([]Chunk, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c := Chunk{Position: len(out)}
		if m := timeMarker.FindStringSubmatch(part); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				c.Time = n
				c.HasTime = true
				part = strings.TrimSpace(part[len(m[0]):])
			}
		}
		if part == "" {
			continue
		}
		c.Text = part
		out = append(out, c)
	}
	return out
}
