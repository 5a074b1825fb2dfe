package staticlore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sanguo/internal/app/ports"
)

func TestProvider_Book(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "story.md"), []byte("桃园结义。"), 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}

	p := Provider{Root: root}
	got, err := p.Book(context.Background(), "story.md")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if got != "桃园结义。" {
		t.Fatalf("unexpected content: %q", got)
	}

	if _, err := p.Book(context.Background(), "missing.md"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProvider_RejectsPathsOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "outside.md")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatalf("write outside: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(outside) })

	p := Provider{Root: root}
	for _, name := range []string{"../outside.md", "", "  ", ".", outside} {
		if _, err := p.Book(context.Background(), name); !errors.Is(err, ErrInvalidBookPath) {
			t.Fatalf("name %q: expected ErrInvalidBookPath, got %v", name, err)
		}
	}
}

func TestProvider_RejectsInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "bad.md"), []byte{0xff, 0xfe}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Provider{Root: root}).Book(context.Background(), "bad.md"); err == nil {
		t.Fatalf("expected invalid utf-8 error")
	}
}
