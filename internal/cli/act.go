package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"sanguo/internal/adapter/repo/memory"
	"sanguo/internal/app/action"
	"sanguo/internal/domain/world"

	"github.com/spf13/cobra"
)

type actOptions struct {
	payloadFile string
}

func NewActCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &actOptions{}
	cmd := &cobra.Command{
		Use:   "act [payload-json]",
		Short: "Validate and apply one action to the state file",
		Long: `Validate and apply one action payload such as
  {"type":"move","actor":"player","to_location":"luo_yang","intent":"前往洛阳"}
The payload comes from the argument, from --file, or from stdin with --file -.
A rejected action leaves the state file untouched and exits with status 1.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPayload(cmd, opts, args)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "read payload", Err: err}
			}
			var payload world.Payload
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&payload); err != nil {
				return &ExitError{Code: ExitCommandError, Message: "decode payload", Err: err}
			}

			uc := action.UseCase{
				TxManager: memory.NewTxManager(),
				Store:     openStore(rootOpts, cmd),
				Logger:    newLogger(rootOpts, cmd),
			}
			res, err := uc.Execute(contextOf(cmd), payload)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "apply action", Err: err}
			}

			f := formatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			if err := f.emit(res, func(w io.Writer) error {
				if res.Accepted {
					_, err := fmt.Fprintf(w, "accepted: %s by %s, world time now %d\n", payload.Type, actorOf(payload), res.State.Time)
					return err
				}
				_, err := fmt.Fprintf(w, "rejected (%s): %s\n", res.Rule, res.Reason)
				return err
			}); err != nil {
				return err
			}
			if !res.Accepted {
				return &ExitError{Code: ExitRejected, Message: res.Reason}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.payloadFile, "file", "f", "", "read the payload from a file, - for stdin")
	return cmd
}

func readPayload(cmd *cobra.Command, opts *actOptions, args []string) ([]byte, error) {
	switch {
	case len(args) == 1 && opts.payloadFile != "":
		return nil, fmt.Errorf("give the payload either as argument or with --file, not both")
	case len(args) == 1:
		return []byte(args[0]), nil
	case opts.payloadFile == "-":
		return io.ReadAll(cmd.InOrStdin())
	case opts.payloadFile != "":
		return os.ReadFile(opts.payloadFile)
	default:
		return nil, fmt.Errorf("missing action payload")
	}
}

func actorOf(p world.Payload) string {
	if a := strings.TrimSpace(p.Actor); a != "" {
		return a
	}
	return world.DefaultActor
}
