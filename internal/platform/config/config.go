package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string     `env:"SANGUO_HTTP_ADDR" envDefault:":8000"`
	StatePath     string     `env:"SANGUO_STATE_PATH" envDefault:"data/state.json"`
	LoreRoot      string     `env:"SANGUO_LORE_ROOT" envDefault:"data"`
	LoreBook      string     `env:"SANGUO_LORE_BOOK" envDefault:"story.md"`
	LexiconPath   string     `env:"SANGUO_LEXICON_PATH"`
	DBDSN         string     `env:"SANGUO_DB_DSN"`
	MigrationsDir string     `env:"SANGUO_MIGRATIONS_DIR" envDefault:"migrations"`
	LogLevel      slog.Level `env:"SANGUO_LOG_LEVEL" envDefault:"info"`
	CORSOrigin    string     `env:"SANGUO_CORS_ORIGIN" envDefault:"*"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDSN = strings.TrimSpace(cfg.DBDSN)
	if strings.TrimSpace(cfg.StatePath) == "" {
		return Config{}, fmt.Errorf("SANGUO_STATE_PATH must not be empty")
	}
	return cfg, nil
}

func (c Config) UsePostgres() bool { return c.DBDSN != "" }

// LexiconFile resolves the lexicon path; an empty setting falls back to
// lexicon.yaml beside the lore books.
func (c Config) LexiconFile() string {
	if p := strings.TrimSpace(c.LexiconPath); p != "" {
		return p
	}
	return filepath.Join(c.LoreRoot, "lexicon.yaml")
}
