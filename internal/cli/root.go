package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

type RootOptions struct {
	StatePath   string
	LoreRoot    string
	LoreBook    string
	LexiconPath string
	Format      string // "text" | "json"
	Verbose     bool
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand builds worldctl, the offline companion of the server. Every
// subcommand works directly on the state file and lore books on disk.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "worldctl",
		Short: "Inspect and drive the sanguo world state",
		Long: `worldctl reads and updates the authoritative world state file and
queries the lore books, using the same validation rules as the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.StatePath, "state", "data/state.json", "world state file")
	flags.StringVar(&opts.LoreRoot, "lore-root", "data", "directory holding lore books")
	flags.StringVar(&opts.LoreBook, "book", "story.md", "lore book to query, relative to --lore-root")
	flags.StringVar(&opts.LexiconPath, "lexicon", "", "character lexicon (default <lore-root>/lexicon.yaml)")
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	cmd.AddCommand(NewStateCommand(opts))
	cmd.AddCommand(NewActCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewRetrieveCommand(opts))
	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
