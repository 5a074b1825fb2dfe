package retrieval

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	NameWeight         = 20.0
	TokenLengthDivisor = 5.0
	FuturePenalty      = 0.5
	DefaultK           = 3
	// NoCursor disables the temporal signal.
	NoCursor = -1
)

var tokenPattern = regexp.MustCompile(`\p{Han}+|[\p{Latin}\p{Nd}_]+`)

type Scored struct {
	Chunk
	Score float64
}

// Scorer ranks lore chunks by weighted keyword overlap. It holds no mutable
// state and can be shared between goroutines.
type Scorer struct {
	Lexicon Lexicon
}

// Score sums a fixed NameWeight for every character named in both query and
// chunk, plus runes/TokenLengthDivisor for every other shared query token.
// Chunks stamped later than cursor are discounted by FuturePenalty.
func (s Scorer) Score(c Chunk, query string, cursor int) float64 {
	q := normalize(query)
	text := normalize(c.Text)

	score := 0.0
	if qIDs, _ := s.Lexicon.matches(q); len(qIDs) > 0 {
		cIDs, _ := s.Lexicon.matches(text)
		inChunk := make(map[string]bool, len(cIDs))
		for _, id := range cIDs {
			inChunk[id] = true
		}
		for _, id := range qIDs {
			if inChunk[id] {
				score += NameWeight
			}
		}
	}

	chunkTokens := map[string]bool{}
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		chunkTokens[tok] = true
	}

	for _, tok := range distinctTokens(q) {
		n := utf8.RuneCountInString(tok)
		if n < 2 || s.Lexicon.isAlias(tok) {
			continue
		}
		if !isHan(tok) {
			if chunkTokens[tok] {
				score += float64(n) / TokenLengthDivisor
			}
			continue
		}
		if strings.Contains(text, tok) {
			score += float64(n) / TokenLengthDivisor
			continue
		}
		for _, bg := range bigrams(tok) {
			if s.Lexicon.isAlias(bg) {
				continue
			}
			if strings.Contains(text, bg) {
				score += 2 / TokenLengthDivisor
			}
		}
	}

	if cursor != NoCursor && c.HasTime && c.Time > cursor {
		score *= FuturePenalty
	}
	return score
}

// Rank scores every chunk and returns at most k of them ordered by
// descending score; equal scores keep source order.
func (s Scorer) Rank(chunks []Chunk, query string, cursor, k int) []Scored {
	if k <= 0 {
		k = DefaultK
	}
	scored := make([]Scored, 0, len(chunks))
	for _, c := range chunks {
		scored = append(scored, Scored{Chunk: c, Score: s.Score(c, query, cursor)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Position < scored[j].Position
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Retrieve chunks text and ranks it against query.
func (s Scorer) Retrieve(text, query string, cursor, k int) []Scored {
	return s.Rank(ChunkText(text), query, cursor, k)
}

func normalize(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

func distinctTokens(s string) []string {
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, tok := range tokenPattern.FindAllString(s, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func bigrams(tok string) []string {
	runes := []rune(tok)
	seen := map[string]bool{}
	out := make([]string, 0, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		bg := string(runes[i : i+2])
		if seen[bg] {
			continue
		}
		seen[bg] = true
		out = append(out, bg)
	}
	return out
}

func isHan(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.Is(unicode.Han, r)
}
