package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/gridwright/internal/derive"
	"github.com/roach88/gridwright/internal/ontology"
)

// DerivedConstraint is the display shape of one derived constraint.
type DerivedConstraint struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RelationID string `json:"relation_id"`
	Budget     string `json:"budget_property"`
	Cost       string `json:"cost_property"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive <design-dir>",
		Short: "Show the constraints implied by a design's relations",
		Long: `Compile a design document and print the constraints the deriver
synthesizes from its relations (currently: path budgets implied by
cumulative-subtract on-enter effects).

Derivation is idempotent: the same design always yields the same
constraint ids and content.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDerive(opts *RootOptions, designDir string, cmd *cobra.Command) error {
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

	derived := derive.Derive(d.Ontology.Snapshot())

	out := make([]DerivedConstraint, 0, len(derived))
	for _, c := range derived {
		dc := DerivedConstraint{
			ID:         string(c.ID),
			Name:       c.Name,
			RelationID: string(c.Provenance.RelationID),
		}
		if c.Expr.Kind == ontology.ExprPathBudget && c.Expr.Budget != nil {
			dc.Budget = c.Expr.Budget.BudgetProperty
			dc.Cost = c.Expr.Budget.CostProperty
		}
		out = append(out, dc)
	}

	return formatter.DerivedConstraints(out)
}
