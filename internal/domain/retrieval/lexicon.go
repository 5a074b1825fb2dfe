package retrieval

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Lexicon maps normalized name aliases to the character id they denote.
type Lexicon struct {
	aliases map[string]string
}

type lexiconFile struct {
	Characters map[string][]string `yaml:"characters"`
}

// NewLexicon builds a lexicon from character id -> aliases. Each id is also
// registered as an alias of itself.
func NewLexicon(characters map[string][]string) Lexicon {
	l := Lexicon{aliases: map[string]string{}}
	for id, names := range characters {
		l.add(id, id)
		for _, name := range names {
			l.add(id, name)
		}
	}
	return l
}

// LoadLexicon reads the YAML form:
//
//	characters:
//	  liu_bei: [刘备, 玄德]
func LoadLexicon(r io.Reader) (Lexicon, error) {
	var f lexiconFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return NewLexicon(nil), nil
		}
		return Lexicon{}, fmt.Errorf("decode lexicon: %w", err)
	}
	return NewLexicon(f.Characters), nil
}

// WithCharacters returns a copy that also knows the given ids.
func (l Lexicon) WithCharacters(ids ...string) Lexicon {
	out := Lexicon{aliases: make(map[string]string, len(l.aliases)+len(ids))}
	for alias, id := range l.aliases {
		out.aliases[alias] = id
	}
	for _, id := range ids {
		out.add(id, id)
	}
	return out
}

func (l Lexicon) Len() int { return len(l.aliases) }

func (l *Lexicon) add(id, alias string) {
	alias = normalize(strings.TrimSpace(alias))
	if len([]rune(alias)) < 2 {
		return
	}
	if _, exists := l.aliases[alias]; exists {
		return
	}
	l.aliases[alias] = id
}

// matches returns the ids whose aliases occur in the normalized text, along
// with the aliases that matched. Both are sorted for deterministic output.
func (l Lexicon) matches(normalized string) (ids []string, aliases []string) {
	seen := map[string]bool{}
	for alias, id := range l.aliases {
		if !containsAlias(normalized, alias) {
			continue
		}
		aliases = append(aliases, alias)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	sort.Strings(aliases)
	return ids, aliases
}

// containsAlias matches Han aliases anywhere, since Han text has no word
// breaks, and every other alias only on word boundaries.
func containsAlias(text, alias string) bool {
	if isHan(alias) {
		return strings.Contains(text, alias)
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], alias)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(alias)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsDigit(r) || unicode.Is(unicode.Latin, r)
}

func (l Lexicon) isAlias(token string) bool {
	_, ok := l.aliases[token]
	return ok
}
