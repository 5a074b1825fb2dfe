package retrieval

import (
	"reflect"
	"strings"
	"testing"
)

func sanguoLexicon() Lexicon {
	return NewLexicon(map[string][]string{
		"dong_zhuo": {"董卓"},
		"lv_bu":     {"吕布"},
		"diao_chan": {"貂蝉"},
		"liu_bei":   {"刘备", "玄德"},
	})
}

func TestChunkText_SplitsOnBlankLines(t *testing.T) {
	text := "第一段\n\n\n第二段\r\n\r\n  \n[t=5] 第三段\n\n\n\n"
	got := ChunkText(text)
	want := []Chunk{
		{Text: "第一段", Position: 0},
		{Text: "第二段", Position: 1},
		{Text: "第三段", Position: 2, Time: 5, HasTime: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("chunks=%+v want %+v", got, want)
	}
}

func TestChunkText_KeepsSingleNewlinesInsideParagraph(t *testing.T) {
	got := ChunkText("line one\nline two")
	if len(got) != 1 || got[0].Text != "line one\nline two" {
		t.Fatalf("unexpected chunks: %+v", got)
	}
	if ChunkText("") != nil {
		t.Fatalf("empty text should yield no chunks")
	}
	if got := ChunkText("\n\n  \n\n"); len(got) != 0 {
		t.Fatalf("whitespace-only text should yield no chunks, got %+v", got)
	}
}

func TestScore_CharacterNameOutweighsUnrelatedQuery(t *testing.T) {
	s := Scorer{Lexicon: sanguoLexicon()}
	c := Chunk{Text: "董卓进京，百官震恐。"}

	named := s.Score(c, "我要见董卓", NoCursor)
	unrelated := s.Score(c, "今天天气真好", NoCursor)
	if named != NameWeight {
		t.Fatalf("named score=%v want %v", named, NameWeight)
	}
	if unrelated != 0 {
		t.Fatalf("unrelated score=%v want 0", unrelated)
	}
}

func TestScore_CountsEachCharacterOnce(t *testing.T) {
	s := Scorer{Lexicon: sanguoLexicon()}
	got := s.Score(Chunk{Text: "玄德公刘备"}, "刘备玄德", NoCursor)
	if got != NameWeight {
		t.Fatalf("score=%v want %v", got, NameWeight)
	}
}

func TestScore_TokenWeightFollowsLength(t *testing.T) {
	s := Scorer{}
	c := Chunk{Text: "Liu Bei rode to LUOYANG."}

	if got, want := s.Score(c, "luoyang", NoCursor), 7/TokenLengthDivisor; got != want {
		t.Fatalf("score=%v want %v", got, want)
	}
	if got, want := s.Score(c, "ＬＵＯＹＡＮＧ", NoCursor), 7/TokenLengthDivisor; got != want {
		t.Fatalf("full-width query score=%v want %v", got, want)
	}
	if got := s.Score(c, "a", NoCursor); got != 0 {
		t.Fatalf("single-rune tokens are ignored, got %v", got)
	}
}

func TestScore_HanBigramsAndWholeRuns(t *testing.T) {
	s := Scorer{}
	c := Chunk{Text: "玄德引兵前往洛阳"}

	if got, want := s.Score(c, "洛阳", NoCursor), 2/TokenLengthDivisor; got != want {
		t.Fatalf("whole run score=%v want %v", got, want)
	}
	// 我要前往洛阳 is not in the chunk; its bigrams 前往, 往洛 and 洛阳 are.
	if got, want := s.Score(c, "我要前往洛阳", NoCursor), 3*(2/TokenLengthDivisor); got != want {
		t.Fatalf("bigram score=%v want %v", got, want)
	}
}

func TestScore_FutureChunksAreDiscounted(t *testing.T) {
	s := Scorer{Lexicon: sanguoLexicon()}
	c := Chunk{Text: "吕布刺董卓", Time: 10, HasTime: true}

	if got := s.Score(c, "董卓", 3); got != NameWeight*FuturePenalty {
		t.Fatalf("future score=%v want %v", got, NameWeight*FuturePenalty)
	}
	if got := s.Score(c, "董卓", 10); got != NameWeight {
		t.Fatalf("present score=%v want %v", got, NameWeight)
	}
	if got := s.Score(c, "董卓", NoCursor); got != NameWeight {
		t.Fatalf("no cursor score=%v want %v", got, NameWeight)
	}
}

func TestRank_OrdersByScoreThenPosition(t *testing.T) {
	s := Scorer{Lexicon: sanguoLexicon()}
	chunks := ChunkText("曹操在许昌。\n\n董卓进京。\n\n吕布与董卓。\n\n貂蝉。")

	got := s.Rank(chunks, "董卓", NoCursor, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	positions := []int{got[0].Position, got[1].Position, got[2].Position}
	if want := []int{1, 2, 0}; !reflect.DeepEqual(positions, want) {
		t.Fatalf("positions=%v want %v", positions, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("results not in descending order: %+v", got)
		}
	}

	if got := s.Rank(chunks, "董卓", NoCursor, 0); len(got) != DefaultK {
		t.Fatalf("k<=0 should default to %d, got %d", DefaultK, len(got))
	}
	if got := s.Rank(chunks, "董卓", NoCursor, 10); len(got) != len(chunks) {
		t.Fatalf("k larger than input should return all chunks, got %d", len(got))
	}
}

func TestRank_IsDeterministic(t *testing.T) {
	s := Scorer{Lexicon: sanguoLexicon()}
	text := strings.Repeat("董卓与吕布。\n\n貂蝉。\n\n", 5)
	first := s.Retrieve(text, "董卓 吕布 貂蝉", NoCursor, 4)
	for i := 0; i < 20; i++ {
		if again := s.Retrieve(text, "董卓 吕布 貂蝉", NoCursor, 4); !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking changed between calls: %+v vs %+v", first, again)
		}
	}
}

func TestLoadLexicon(t *testing.T) {
	l, err := LoadLexicon(strings.NewReader("characters:\n  liu_bei: [刘备, 玄德]\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Len() != 3 {
		t.Fatalf("aliases=%d want 3", l.Len())
	}
	if got := l.WithCharacters("zhang_fei").Len(); got != 4 {
		t.Fatalf("aliases after merge=%d want 4", got)
	}

	empty, err := LoadLexicon(strings.NewReader(""))
	if err != nil || empty.Len() != 0 {
		t.Fatalf("empty lexicon: len=%d err=%v", empty.Len(), err)
	}

	if _, err := LoadLexicon(strings.NewReader("characters: [")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestScore_LatinAliasesMatchWholeWords(t *testing.T) {
	s := Scorer{Lexicon: NewLexicon(nil).WithCharacters("player", "liu_bei")}
	cases := []struct {
		text  string
		query string
		want  float64
	}{
		{text: "The player arrives at Luoyang.", query: "player", want: NameWeight},
		{text: "The player arrives at Luoyang.", query: "players", want: 0},
		{text: "The player arrives at Luoyang.", query: "player_two", want: 0},
		{text: "Players gathered at the gate.", query: "player", want: 0},
		{text: "liu_bei waits in 徐州", query: "liu_bei", want: NameWeight},
		{text: "liu_bei2 waits", query: "liu_bei", want: 0},
	}
	for _, tc := range cases {
		if got := s.Score(Chunk{Text: tc.text}, tc.query, NoCursor); got != tc.want {
			t.Errorf("Score(%q, %q)=%v want %v", tc.text, tc.query, got, tc.want)
		}
	}
}
