package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gridwright/internal/derive"
	"github.com/roach88/gridwright/internal/ontology"
	"github.com/roach88/gridwright/internal/schema"
	"github.com/roach88/gridwright/internal/store"
)

// ValidationResult holds a design's schema validation outcome.
type ValidationResult struct {
	Design string         `json:"design"`
	Valid  bool           `json:"valid"`
	Errors []schema.Error `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "validate <design-dir>",
		Short: "Validate a design's internal consistency",
		Long: `Compile a CUE design document, derive implied constraints and report
every structural inconsistency: dangling references, role mismatches and
missing property bindings.

Validation is advisory - a design with errors stays editable and the
moves command still runs against it (failing closed).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "record this run in a session database")
	return cmd
}

func runValidate(opts *RootOptions, designDir, dbPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	d, err := LoadDesign(designDir)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load design", err)
	}

	derive.Apply(d.Ontology)
	snap := d.Ontology.Snapshot()
	errs := schema.Validate(snap, d.Types)

	formatter.VerboseLog("design %q: %d concepts, %d relations, %d constraints",
		d.Name, len(snap.Concepts), len(snap.Relations), len(snap.Constraints))

	if dbPath != "" {
		if err := recordSession(cmd.Context(), dbPath, d.Name, snap, errs); err != nil {
			return WrapExitError(ExitCommandError, "record session", err)
		}
		formatter.VerboseLog("session recorded in %s", dbPath)
	}

	result := ValidationResult{Design: d.Name, Valid: len(errs) == 0, Errors: errs}
	if err := formatter.ValidationReport(result); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d schema error(s)", len(errs)))
	}
	return nil
}

// recordSession appends the validation outcome to the session database.
func recordSession(ctx context.Context, dbPath, designName string, snap *ontology.Snapshot, errs []schema.Error) error {
	report, err := reportJSON(errs)
	if err != nil {
		return err
	}
	hash, err := snapshotHash(snap)
	if err != nil {
		return err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveSession(ctx, designName, hash, report, len(errs))
	return err
}

// reportJSON serializes a schema error list canonically so identical reports
// produce identical session rows.
func reportJSON(errs []schema.Error) (string, error) {
	list := make([]any, len(errs))
	for i, e := range errs {
		refs := make([]any, len(e.Refs))
		for j, r := range e.Refs {
			refs[j] = r
		}
		list[i] = map[string]any{
			"category": string(e.Category),
			"code":     e.Code,
			"refs":     refs,
			"message":  e.Message,
		}
	}
	b, err := ontology.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("serialize report: %w", err)
	}
	return string(b), nil
}

// snapshotHash computes a content hash identifying the validated snapshot.
func snapshotHash(snap *ontology.Snapshot) (string, error) {
	ids := make([]any, 0, len(snap.Concepts)+len(snap.Roles)+len(snap.Bindings)+len(snap.Relations)+len(snap.Constraints))
	for _, c := range snap.Concepts {
		ids = append(ids, string(c.ID))
	}
	for _, r := range snap.Roles {
		ids = append(ids, string(r.ID))
	}
	for _, b := range snap.Bindings {
		ids = append(ids, string(b.ID))
	}
	for _, r := range snap.Relations {
		ids = append(ids, string(r.ID))
	}
	for _, c := range snap.Constraints {
		ids = append(ids, string(c.ID))
	}
	return ontology.SnapshotHash(ids)
}
