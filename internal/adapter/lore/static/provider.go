package staticlore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"sanguo/internal/app/ports"
)

var ErrInvalidBookPath = errors.New("invalid lore book path")

// Provider serves lore books as UTF-8 text files below Root.
type Provider struct {
	Root string
}

var _ ports.LoreProvider = Provider{}

func (p Provider) Book(_ context.Context, name string) (string, error) {
	path, err := secureJoin(p.Root, name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("lore book %s: %w", name, ports.ErrNotFound)
		}
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("lore book %s is not valid utf-8", name)
	}
	return string(b), nil
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrInvalidBookPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	if target == rootAbs || !strings.HasPrefix(target, rootAbs+string(filepath.Separator)) {
		return "", ErrInvalidBookPath
	}
	return target, nil
}
