// Package derive synthesizes constraints implied by relation effects.
//
// Derivation is a pure function from an ontology snapshot to a constraint
// set, never an incremental patcher: the deriver is the only component that
// writes to the store, and its writes are idempotent replacements keyed by
// originating relation id. Re-running derivation over an unchanged ontology
// reproduces identical constraint records, ids included.
package derive

import (
	"fmt"

	"github.com/roach88/gridwright/internal/ontology"
)

// Derive returns the constraints implied by the snapshot's relations, in
// relation-id order.
//
// The only derivation rule today: a relation whose effect cumulatively
// subtracts a subject-role property on entry implies a path budget - the
// subtracted property is the budget, the magnitude property is the per-step
// cost. Block, allow and non-subtract effects derive nothing; the evaluator
// reads those directly from the relation table.
func Derive(snap *ontology.Snapshot) []ontology.Constraint {
	var out []ontology.Constraint
	for _, rel := range snap.Relations {
		c, ok := deriveBudget(rel)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// deriveBudget builds the path-budget constraint for a cumulative-subtract
// relation, if the relation qualifies.
func deriveBudget(rel ontology.Relation) (ontology.Constraint, bool) {
	if rel.Trigger != ontology.TriggerOnEnter {
		return ontology.Constraint{}, false
	}
	e := rel.Effect
	if e.Kind != ontology.EffectModifyProperty || e.Operation != ontology.OpSubtract {
		return ontology.Constraint{}, false
	}
	if e.Target == "" || e.Magnitude == "" {
		// Incomplete effect; the schema validator reports it, nothing to derive.
		return ontology.Constraint{}, false
	}
	return ontology.Constraint{
		ID:          ontology.DerivedConstraintID(rel.ID),
		ConceptID:   rel.ConceptID,
		Name:        fmt.Sprintf("%s-budget", rel.Name),
		Description: fmt.Sprintf("budget limit implied by relation %q", rel.Name),
		Provenance: ontology.Provenance{
			Kind:       ontology.ProvenanceDerived,
			RelationID: rel.ID,
		},
		Expr: ontology.ConstraintExpr{
			Kind: ontology.ExprPathBudget,
			Budget: &ontology.PathBudget{
				MoverRole:      rel.SubjectRole,
				TerrainRole:    rel.ObjectRole,
				BudgetProperty: e.Target,
				CostProperty:   e.Magnitude,
			},
		},
	}, true
}

// Apply replaces the store's derived constraints with a fresh derivation of
// its current contents. Manual constraints are untouched. Safe to trigger
// redundantly: a second Apply over an unchanged store is a no-op.
func Apply(store *ontology.Store) {
	snap := store.Snapshot()

	// Drop every existing derived constraint, then re-add the fresh set.
	for _, c := range snap.Constraints {
		if c.Derived() {
			store.RemoveConstraint(c.ID)
		}
	}
	for _, c := range Derive(snap) {
		store.PutConstraint(c)
	}
}
