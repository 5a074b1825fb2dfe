package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	filerepo "sanguo/internal/adapter/repo/file"
	"sanguo/internal/app/status"
	"sanguo/internal/domain/world"

	"github.com/spf13/cobra"
)

func openStore(opts *RootOptions, cmd *cobra.Command) *filerepo.WorldStateStore {
	return filerepo.NewWorldStateStore(opts.StatePath, filerepo.WithLogger(newLogger(opts, cmd)))
}

func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "state",
		Short:         "Print the current world state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := status.UseCase{Store: openStore(rootOpts, cmd)}
			resp, err := uc.Execute(contextOf(cmd))
			if err != nil {
				return err
			}
			f := formatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return f.emit(resp, func(w io.Writer) error {
				return writeStateText(w, resp.State)
			})
		},
	}
}

func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "check",
		Short:         "Verify the world state invariants",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := status.UseCase{Store: openStore(rootOpts, cmd)}
			resp, err := uc.Execute(contextOf(cmd))
			if err != nil {
				return err
			}
			f := formatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			out := map[string]any{"ok": len(resp.IntegrityIssues) == 0, "issues": resp.IntegrityIssues}
			if err := f.emit(out, func(w io.Writer) error {
				if len(resp.IntegrityIssues) == 0 {
					_, err := fmt.Fprintln(w, "ok")
					return err
				}
				for _, issue := range resp.IntegrityIssues {
					if _, err := fmt.Fprintln(w, issue); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				return err
			}
			if len(resp.IntegrityIssues) > 0 {
				return &ExitError{Code: ExitRejected, Message: fmt.Sprintf("%d integrity issue(s)", len(resp.IntegrityIssues))}
			}
			return nil
		},
	}
}

func writeStateText(w io.Writer, s world.State) error {
	if _, err := fmt.Fprintf(w, "time: %d\n", s.Time); err != nil {
		return err
	}
	fmt.Fprintln(w, "characters:")
	for _, id := range sortedKeys(s.Characters) {
		c := s.Characters[id]
		life := "alive"
		if !c.Alive {
			life = "dead"
		}
		fmt.Fprintf(w, "  %s  %s  at %s  affinity %d\n", id, life, c.Location, c.AffinityToPlayer)
	}
	fmt.Fprintln(w, "items:")
	for _, id := range sortedKeys(s.Items) {
		owner := s.Items[id].Owner
		if owner == "" {
			owner = "-"
		}
		fmt.Fprintf(w, "  %s  owner %s\n", id, owner)
	}
	fmt.Fprintln(w, "events:")
	for _, e := range s.Events {
		fmt.Fprintf(w, "  [%d] %s %s by %s\n", e.Time, e.ID, e.Type, e.Actor)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
