package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	staticlore "sanguo/internal/adapter/lore/static"
	"sanguo/internal/app/lore"
	"sanguo/internal/domain/retrieval"

	"github.com/spf13/cobra"
)

type retrieveOptions struct {
	k      int
	cursor int
}

func NewRetrieveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &retrieveOptions{}
	cmd := &cobra.Command{
		Use:   "retrieve <query>",
		Short: "Rank lore chunks against a query",
		Long: `Rank the paragraphs of a lore book against a query with the same
keyword scorer the server uses. Without --cursor the current world time is
used as the temporal cursor.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lexicon, err := loadLexicon(rootOpts)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "load lexicon", Err: err}
			}
			uc := lore.UseCase{
				Books:       staticlore.Provider{Root: rootOpts.LoreRoot},
				Store:       openStore(rootOpts, cmd),
				Lexicon:     lexicon,
				DefaultBook: rootOpts.LoreBook,
			}
			req := lore.RetrieveRequest{Query: strings.Join(args, " "), K: opts.k}
			if cmd.Flags().Changed("cursor") {
				req.TimeCursor = &opts.cursor
			}
			resp, err := uc.Retrieve(contextOf(cmd), req)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "retrieve", Err: err}
			}

			f := formatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return f.emit(resp, func(w io.Writer) error {
				for i, c := range resp.Chunks {
					if _, err := fmt.Fprintf(w, "#%d  score %.2f  paragraph %d\n%s\n\n", i+1, c.Score, c.Position, c.Text); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&opts.k, "k", retrieval.DefaultK, "number of chunks to return")
	cmd.Flags().IntVar(&opts.cursor, "cursor", 0, "temporal cursor, -1 disables the future-lore discount")
	return cmd
}

// loadLexicon reads the configured lexicon. The default location is optional;
// an explicitly named file must exist.
func loadLexicon(opts *RootOptions) (retrieval.Lexicon, error) {
	path := opts.LexiconPath
	explicit := path != ""
	if !explicit {
		path = filepath.Join(opts.LoreRoot, "lexicon.yaml")
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return retrieval.NewLexicon(nil), nil
		}
		return retrieval.Lexicon{}, err
	}
	defer f.Close()
	return retrieval.LoadLexicon(f)
}
