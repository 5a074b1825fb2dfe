package lore

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"sanguo/internal/app/ports"
	"sanguo/internal/domain/retrieval"
)

const (
	ExcerptRunes = 2000
	MaxK         = 20
)

var ErrInvalidRequest = errors.New("invalid lore request")

type UseCase struct {
	Books       ports.LoreProvider
	Store       ports.WorldStateStore
	Lexicon     retrieval.Lexicon
	DefaultBook string
}

func (u UseCase) Excerpt(ctx context.Context, req ExcerptRequest) (ExcerptResponse, error) {
	text, err := u.Books.Book(ctx, u.book(req.Book))
	if err != nil {
		return ExcerptResponse{}, err
	}
	total := utf8.RuneCountInString(text)
	if total <= ExcerptRunes {
		return ExcerptResponse{Content: text, TotalLength: total}, nil
	}
	return ExcerptResponse{
		Content:     string([]rune(text)[:ExcerptRunes]),
		TotalLength: total,
		Truncated:   true,
	}, nil
}

// Retrieve ranks the chunks of a book against req.Query. Character ids from
// the current world are merged into the lexicon so that a character known only
// to the state still counts as a name.
func (u UseCase) Retrieve(ctx context.Context, req RetrieveRequest) (RetrieveResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" || req.K < 0 || req.K > MaxK {
		return RetrieveResponse{}, ErrInvalidRequest
	}
	text, err := u.Books.Book(ctx, u.book(req.Book))
	if err != nil {
		return RetrieveResponse{}, err
	}

	lexicon := u.Lexicon
	cursor := retrieval.NoCursor
	if u.Store != nil {
		state := u.Store.Load(ctx)
		ids := make([]string, 0, len(state.Characters))
		for id := range state.Characters {
			ids = append(ids, id)
		}
		lexicon = lexicon.WithCharacters(ids...)
		cursor = state.Time
	}
	if req.TimeCursor != nil {
		cursor = *req.TimeCursor
	}

	scorer := retrieval.Scorer{Lexicon: lexicon}
	ranked := scorer.Retrieve(text, query, cursor, req.K)
	out := RetrieveResponse{TimeCursor: cursor, Chunks: make([]Chunk, 0, len(ranked))}
	for _, r := range ranked {
		c := Chunk{Text: r.Text, Score: r.Score, Position: r.Position}
		if r.HasTime {
			t := r.Time
			c.Time = &t
		}
		out.Chunks = append(out.Chunks, c)
	}
	return out, nil
}

func (u UseCase) book(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return u.DefaultBook
}
