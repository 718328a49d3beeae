package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/gridwright/internal/derive"
	"github.com/roach88/gridwright/internal/engine"
)

// NewMovesCommand creates the moves command.
func NewMovesCommand(rootOpts *RootOptions) *cobra.Command {
	var tokenID string

	cmd := &cobra.Command{
		Use:   "moves <design-dir>",
		Short: "Compute where a token may legally move",
		Long: `Compile a design document, derive constraints and run the valid-move
engine for one token at the design's board state. Every position is
classified reachable or blocked with a reason; positions out of range
through every path are absent.

An inconsistent design never aborts: unevaluable constraints deny
their transitions and the answer degrades toward "nothing reachable
beyond start".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoves(rootOpts, args[0], tokenID, cmd)
		},
	}

	cmd.Flags().StringVar(&tokenID, "token", "", "token id to compute moves for (required)")
	cmd.MarkFlagRequired("token")
	return cmd
}

func runMoves(opts *RootOptions, designDir, tokenID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	d, err := LoadDesign(designDir)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		return WrapExitError(ExitCommandError, "load design", err)
	}

	derive.Apply(d.Ontology)
	snap := d.Ontology.Snapshot()

	eng := engine.New(engine.Providers{Grid: d.Grid, Board: d.Board, Types: d.Types})
	moves, err := eng.ComputeValidMoves(snap, tokenID)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	return formatter.MoveSet(moves)
}
