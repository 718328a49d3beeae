package engine

import (
	"fmt"

	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

// Evaluator runs relations and constraints against single proposed
// transitions. It holds a fresh ontology snapshot and the collaborator
// providers; it never mutates either.
type Evaluator struct {
	snap      *ontology.Snapshot
	providers Providers
}

// NewEvaluator creates an evaluator over one ontology snapshot.
func NewEvaluator(snap *ontology.Snapshot, providers Providers) *Evaluator {
	return &Evaluator{snap: snap, providers: providers}
}

// EvaluateTransition evaluates a single proposed move of a token from one
// position to an adjacent one, outside of any precomputed move set. The
// token's path budgets start from its full budget property values.
func (e *Evaluator) EvaluateTransition(tokenID string, from, to hex.Coord) Verdict {
	mover, ok := e.providers.Board.Token(tokenID)
	if !ok {
		return Denyf("unknown token %q", tokenID)
	}
	if !e.providers.Grid.Adjacent(from, to) {
		return Denyf("%s and %s are not adjacent", from, to)
	}
	budgets, reason := e.InitialBudgets(mover)
	if reason != "" {
		return Deny(reason)
	}
	return e.EvaluateStep(mover, from, to, budgets)
}

// EvaluateStep evaluates one transition with caller-tracked budgets. The move
// engine calls this at every BFS step, threading the remaining budgets along
// the path.
//
// Blocking relations are checked first, independent of constraints; then
// every applicable constraint is evaluated in stable authoring order. The
// transition is allowed only if everything allows it. All constraints run
// even after a denial; only the first denial's reason is reported.
func (e *Evaluator) EvaluateStep(mover *ontology.EntityData, from, to hex.Coord, budgets map[string]int64) Verdict {
	if v := e.checkBlockRelations(mover, from, to); !v.Allowed {
		return v
	}

	next := make(map[string]int64, len(budgets))
	for id, v := range budgets {
		next[id] = v
	}

	firstDeny := ""
	for _, c := range e.snap.Constraints {
		v := e.evaluateConstraint(c, mover, from, to, next)
		if !v.Allowed && firstDeny == "" {
			firstDeny = v.Reason
		}
		if v.Allowed {
			for id, rem := range v.Remaining {
				next[id] = rem
			}
		}
	}
	if firstDeny != "" {
		return Deny(firstDeny)
	}
	return Allow(next)
}

// checkBlockRelations denies the transition if any block relation applies to
// it. Relations are checked in snapshot order so the reported reason is
// deterministic.
func (e *Evaluator) checkBlockRelations(mover *ontology.EntityData, from, to hex.Coord) Verdict {
	for _, rel := range e.snap.Relations {
		if rel.Effect.Kind != ontology.EffectBlock {
			continue
		}
		if !e.relationApplies(rel, mover, from, to) {
			continue
		}
		if rel.Description != "" {
			return Deny(rel.Description)
		}
		return Denyf("blocked by relation %q", rel.Name)
	}
	return Allow(nil)
}

// relationApplies reports whether a relation targets this transition: the
// mover's type must be bound to the subject role and the terrain at the
// trigger position to the object role.
func (e *Evaluator) relationApplies(rel ontology.Relation, mover *ontology.EntityData, from, to hex.Coord) bool {
	if !e.boundTo(rel.SubjectRole, mover.TypeID) {
		return false
	}
	pos := to
	if rel.Trigger == ontology.TriggerOnExit {
		pos = from
	}
	terrain, ok := e.providers.Board.At(pos)
	if !ok {
		return false
	}
	return e.boundTo(rel.ObjectRole, terrain.TypeID)
}

// evaluateConstraint dispatches on the expression tag. Constraints whose
// roles are not bound for the types involved in this transition do not target
// it and are skipped; constraints that target it but cannot be resolved deny
// it (fail-closed).
func (e *Evaluator) evaluateConstraint(c ontology.Constraint, mover *ontology.EntityData, from, to hex.Coord, budgets map[string]int64) Verdict {
	switch c.Expr.Kind {
	case ontology.ExprPropertyCompare:
		if c.Expr.Compare == nil {
			return unevaluable(c, "property_compare expression is empty")
		}
		return e.evaluateCompare(c, *c.Expr.Compare, mover, to)
	case ontology.ExprPathBudget:
		if c.Expr.Budget == nil {
			return unevaluable(c, "path_budget expression is empty")
		}
		return e.evaluateBudget(c, *c.Expr.Budget, mover, to, budgets)
	default:
		return unevaluable(c, fmt.Sprintf("unknown expression kind %q", c.Expr.Kind))
	}
}

// evaluateCompare resolves both operands and applies the comparison.
func (e *Evaluator) evaluateCompare(c ontology.Constraint, cmp ontology.PropertyCompare, mover *ontology.EntityData, to hex.Coord) Verdict {
	// Applicability: every property operand's role must be bound for the
	// entity the operand reads. An unbound role means the constraint targets
	// other types entirely.
	for _, op := range []ontology.Operand{cmp.Left, cmp.Right} {
		if applies, known := e.operandApplies(op, mover, to); known && !applies {
			return Allow(nil)
		}
	}

	left, err := e.resolveOperand(cmp.Left, mover, to)
	if err != nil {
		return unevaluable(c, err.Error())
	}
	right, err := e.resolveOperand(cmp.Right, mover, to)
	if err != nil {
		return unevaluable(c, err.Error())
	}

	ok, err := ontology.Compare(left, cmp.Op, right)
	if err != nil {
		return unevaluable(c, err.Error())
	}
	if !ok {
		if c.Description != "" {
			return Deny(c.Description)
		}
		return Denyf("constraint %q not satisfied", c.Name)
	}
	return Allow(nil)
}

// evaluateBudget checks the entered position's cost against the remaining
// budget and reports the decrement on allow.
func (e *Evaluator) evaluateBudget(c ontology.Constraint, budget ontology.PathBudget, mover *ontology.EntityData, to hex.Coord, budgets map[string]int64) Verdict {
	if !e.boundTo(budget.MoverRole, mover.TypeID) {
		// The budget targets other mover types.
		return Allow(nil)
	}

	remaining, ok := budgets[string(c.ID)]
	if !ok {
		full, err := e.intProperty(budget.MoverRole, budget.BudgetProperty, mover)
		if err != nil {
			return unevaluable(c, err.Error())
		}
		remaining = full
	}

	terrain, ok := e.providers.Board.At(to)
	if !ok {
		return unevaluable(c, fmt.Sprintf("no board position at %s", to))
	}
	cost, err := e.intProperty(budget.TerrainRole, budget.CostProperty, terrain)
	if err != nil {
		return unevaluable(c, err.Error())
	}

	if cost > remaining {
		if c.Description != "" {
			return Deny(c.Description)
		}
		return Denyf("insufficient %s: need %d, have %d", budget.BudgetProperty, cost, remaining)
	}
	return Allow(map[string]int64{string(c.ID): remaining - cost})
}

// InitialBudgets computes the mover's full budget per applicable path-budget
// constraint. A non-empty reason means some applicable budget could not be
// resolved; the caller must fail closed with it.
func (e *Evaluator) InitialBudgets(mover *ontology.EntityData) (map[string]int64, string) {
	budgets := make(map[string]int64)
	for _, c := range e.snap.Constraints {
		if c.Expr.Kind != ontology.ExprPathBudget || c.Expr.Budget == nil {
			continue
		}
		b := c.Expr.Budget
		if !e.boundTo(b.MoverRole, mover.TypeID) {
			continue
		}
		full, err := e.intProperty(b.MoverRole, b.BudgetProperty, mover)
		if err != nil {
			return nil, unevaluable(c, err.Error()).Reason
		}
		budgets[string(c.ID)] = full
	}
	return budgets, ""
}

// boundTo reports whether the entity type is bound to the role slot.
func (e *Evaluator) boundTo(role ontology.RoleID, typeID ontology.EntityTypeID) bool {
	_, ok := e.snap.BindingFor(role, typeID)
	return ok
}

// operandApplies reports whether a property operand's role is bound for the
// entity it reads. known is false for literals and for operands whose target
// entity cannot be determined yet (those resolve or fail later).
func (e *Evaluator) operandApplies(op ontology.Operand, mover *ontology.EntityData, to hex.Coord) (applies, known bool) {
	switch op.Kind {
	case ontology.OperandMoverProperty:
		return e.boundTo(op.RoleID, mover.TypeID), true
	case ontology.OperandEnteredProperty:
		terrain, ok := e.providers.Board.At(to)
		if !ok {
			return false, false
		}
		return e.boundTo(op.RoleID, terrain.TypeID), true
	default:
		return false, false
	}
}

// resolveOperand produces the operand's value for this transition.
func (e *Evaluator) resolveOperand(op ontology.Operand, mover *ontology.EntityData, to hex.Coord) (ontology.Value, error) {
	switch op.Kind {
	case ontology.OperandLiteral:
		if op.Literal == nil {
			return nil, fmt.Errorf("literal operand has no value")
		}
		return op.Literal, nil
	case ontology.OperandMoverProperty:
		return e.roleProperty(op.RoleID, op.Property, mover)
	case ontology.OperandEnteredProperty:
		terrain, ok := e.providers.Board.At(to)
		if !ok {
			return nil, fmt.Errorf("no board position at %s", to)
		}
		return e.roleProperty(op.RoleID, op.Property, terrain)
	default:
		return nil, fmt.Errorf("unknown operand kind %q", op.Kind)
	}
}

// roleProperty reads a role-level property off an entity through the role's
// binding for the entity's type.
func (e *Evaluator) roleProperty(role ontology.RoleID, prop string, ent *ontology.EntityData) (ontology.Value, error) {
	binding, ok := e.snap.BindingFor(role, ent.TypeID)
	if !ok {
		return nil, fmt.Errorf("entity type %s is not bound to role %s", ent.TypeID, role)
	}
	actual, ok := binding.Property(prop)
	if !ok {
		return nil, fmt.Errorf("binding %s does not map property %q", binding.ID, prop)
	}
	v, ok := ent.Value(actual)
	if !ok {
		return nil, fmt.Errorf("entity has no value for property %q", actual)
	}
	return v, nil
}

// intProperty reads a role-level property and requires it to be an integer.
func (e *Evaluator) intProperty(role ontology.RoleID, prop string, ent *ontology.EntityData) (int64, error) {
	v, err := e.roleProperty(role, prop, ent)
	if err != nil {
		return 0, err
	}
	iv, ok := v.(ontology.IntValue)
	if !ok {
		return 0, fmt.Errorf("property %q is not an integer", prop)
	}
	return int64(iv), nil
}

// unevaluable wraps a resolution failure as a fail-closed denial. An
// inconsistent design never grants moves it cannot justify.
func unevaluable(c ontology.Constraint, detail string) Verdict {
	return Denyf("constraint unevaluable: %s: %s", c.Name, detail)
}
