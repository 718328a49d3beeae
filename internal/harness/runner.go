package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/gridwright/internal/board"
	"github.com/roach88/gridwright/internal/derive"
	"github.com/roach88/gridwright/internal/engine"
	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
	"github.com/roach88/gridwright/internal/schema"
)

// Result is the outcome of running one scenario through the full pipeline.
type Result struct {
	// SchemaErrors is the complete validation report.
	SchemaErrors []schema.Error

	// Moves is the computed move set for the scenario's token. Nil when the
	// engine returned an error.
	Moves *engine.ValidMoveSet

	// Failures collects assertion failure messages. Empty means the
	// scenario passed.
	Failures []string
}

// Passed reports whether every assertion held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run feeds a scenario through the real pipeline: build the ontology and
// board, apply constraint derivation, validate the schema, compute the valid
// move set, then evaluate the scenario's assertions.
func Run(scenario *Scenario) (*Result, error) {
	world, err := buildWorld(scenario)
	if err != nil {
		return nil, err
	}

	derive.Apply(world.ontology)
	snap := world.ontology.Snapshot()

	result := &Result{
		SchemaErrors: schema.Validate(snap, world.types),
	}

	eng := engine.New(engine.Providers{
		Grid:  world.grid,
		Board: world.board,
		Types: world.types,
	}, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	moves, err := eng.ComputeValidMoves(snap, scenario.Token)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: compute moves: %w", scenario.Name, err)
	}
	result.Moves = moves

	result.Failures = EvaluateAssertions(scenario.Assertions, result)
	return result, nil
}

type world struct {
	grid     *hex.Grid
	types    *board.TypeRegistry
	board    *board.Board
	ontology *ontology.Store
}

// buildWorld materializes the scenario's design using the same deterministic
// id scheme the design compiler uses, so scenarios and compiled documents
// produce interchangeable reports and move sets.
func buildWorld(s *Scenario) (*world, error) {
	w := &world{
		grid:     hex.NewGrid(s.Grid.Width, s.Grid.Height),
		types:    board.NewTypeRegistry(),
		ontology: ontology.NewStore(),
	}
	w.board = board.NewBoard(w.types)

	for _, t := range s.Types {
		def, err := buildType(t)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: type %s: %w", s.Name, t.Name, err)
		}
		w.types.Register(def)
	}

	if err := buildConcept(s.Concept, w.ontology); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	for _, p := range s.Board {
		values, err := toValues(p.Values)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: placement %d,%d: %w", s.Name, p.Q, p.R, err)
		}
		at := hex.Coord{Q: p.Q, R: p.R}
		if err := w.board.Place(at, ontology.EntityTypeID(p.Type), values); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	for _, t := range s.Tokens {
		id := t.ID
		if id == "" {
			// Background tokens the assertions never reference can omit
			// their id.
			id = ontology.NewID()
		}
		values, err := toValues(t.Values)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: token %s: %w", s.Name, id, err)
		}
		at := hex.Coord{Q: t.Q, R: t.R}
		if err := w.board.PlaceToken(id, ontology.EntityTypeID(t.Type), at, values); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	return w, nil
}

func buildType(t TypeDecl) (ontology.EntityTypeDef, error) {
	def := ontology.EntityTypeDef{
		ID:   ontology.EntityTypeID(t.Name),
		Name: t.Name,
		Role: ontology.Role(t.Role),
	}
	if !def.Role.Valid() {
		return def, fmt.Errorf("unknown role %q", t.Role)
	}
	for _, p := range t.Properties {
		prop := ontology.PropertyDef{Name: p.Name, Type: p.Type}
		if p.Default != nil {
			v, err := ontology.ToValue(p.Default)
			if err != nil {
				return def, fmt.Errorf("property %s default: %w", p.Name, err)
			}
			prop.Default = v
		}
		def.Properties = append(def.Properties, prop)
	}
	return def, nil
}

func buildConcept(c ConceptDecl, store *ontology.Store) error {
	conceptID := ontology.ConceptID(c.Name)
	concept := ontology.Concept{ID: conceptID, Name: c.Name, Description: c.Description}

	for _, r := range c.Roles {
		role := ontology.ConceptRole{
			ID:         roleRef(c.Name, r.Name),
			ConceptID:  conceptID,
			Name:       r.Name,
			Filter:     ontology.Role(r.Filter),
			Properties: r.Properties,
		}
		if !role.Filter.Valid() {
			return fmt.Errorf("role %s: unknown filter %q", r.Name, r.Filter)
		}
		store.PutRole(role)
		concept.Roles = append(concept.Roles, role.ID)
	}
	store.PutConcept(concept)

	for _, b := range c.Bindings {
		store.PutBinding(ontology.ConceptBinding{
			ID:           ontology.BindingID(fmt.Sprintf("%s/%s/%s", c.Name, b.Role, b.Type)),
			ConceptID:    conceptID,
			RoleID:       roleRef(c.Name, b.Role),
			EntityTypeID: ontology.EntityTypeID(b.Type),
			Properties:   b.Properties,
		})
	}

	for _, r := range c.Relations {
		rel := ontology.Relation{
			ID:          ontology.RelationID(fmt.Sprintf("%s/%s", c.Name, r.Name)),
			ConceptID:   conceptID,
			Name:        r.Name,
			Description: r.Description,
			SubjectRole: roleRef(c.Name, r.Subject),
			ObjectRole:  roleRef(c.Name, r.Object),
			Trigger:     ontology.Trigger(r.Trigger),
			Effect: ontology.Effect{
				Kind:      ontology.EffectKind(r.Effect.Kind),
				Operation: ontology.ModifyOp(r.Effect.Operation),
				Target:    r.Effect.Target,
				Magnitude: r.Effect.Magnitude,
			},
		}
		if !rel.Trigger.Valid() {
			return fmt.Errorf("relation %s: unknown trigger %q", r.Name, r.Trigger)
		}
		store.PutRelation(rel)
	}

	for _, cd := range c.Constraints {
		constraint, err := buildConstraint(c.Name, cd)
		if err != nil {
			return err
		}
		store.PutConstraint(constraint)
	}
	return nil
}

func buildConstraint(concept string, cd ConstraintDecl) (ontology.Constraint, error) {
	c := ontology.Constraint{
		ID:          ontology.ConstraintID(fmt.Sprintf("%s/%s", concept, cd.Name)),
		ConceptID:   ontology.ConceptID(concept),
		Name:        cd.Name,
		Description: cd.Description,
		Provenance:  ontology.Provenance{Kind: ontology.ProvenanceManual},
	}

	switch kind := ontology.ExprKind(cd.Expr.Kind); kind {
	case ontology.ExprPropertyCompare:
		if cd.Expr.Left == nil || cd.Expr.Right == nil {
			return c, fmt.Errorf("constraint %s: both operands are required", cd.Name)
		}
		left, err := buildOperand(concept, *cd.Expr.Left)
		if err != nil {
			return c, fmt.Errorf("constraint %s: %w", cd.Name, err)
		}
		right, err := buildOperand(concept, *cd.Expr.Right)
		if err != nil {
			return c, fmt.Errorf("constraint %s: %w", cd.Name, err)
		}
		op := ontology.CompareOp(cd.Expr.Op)
		if !op.Valid() {
			return c, fmt.Errorf("constraint %s: unknown operator %q", cd.Name, cd.Expr.Op)
		}
		c.Expr = ontology.ConstraintExpr{
			Kind:    kind,
			Compare: &ontology.PropertyCompare{Left: left, Op: op, Right: right},
		}
	case ontology.ExprPathBudget:
		c.Expr = ontology.ConstraintExpr{
			Kind: kind,
			Budget: &ontology.PathBudget{
				MoverRole:      roleRef(concept, cd.Expr.MoverRole),
				TerrainRole:    roleRef(concept, cd.Expr.TerrainRole),
				BudgetProperty: cd.Expr.BudgetProperty,
				CostProperty:   cd.Expr.CostProperty,
			},
		}
	default:
		return c, fmt.Errorf("constraint %s: unknown expression kind %q", cd.Name, cd.Expr.Kind)
	}
	return c, nil
}

func buildOperand(concept string, od OperandDecl) (ontology.Operand, error) {
	var op ontology.Operand
	op.Kind = ontology.OperandKind(od.Kind)
	switch op.Kind {
	case ontology.OperandLiteral:
		lit, err := ontology.ToValue(od.Value)
		if err != nil {
			return op, err
		}
		op.Literal = lit
	case ontology.OperandMoverProperty, ontology.OperandEnteredProperty:
		op.RoleID = roleRef(concept, od.Role)
		op.Property = od.Property
	default:
		return op, fmt.Errorf("unknown operand kind %q", od.Kind)
	}
	return op, nil
}

func toValues(raw map[string]any) (map[string]ontology.Value, error) {
	if raw == nil {
		return nil, nil
	}
	values := make(map[string]ontology.Value, len(raw))
	for k, v := range raw {
		val, err := ontology.ToValue(v)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", k, err)
		}
		values[k] = val
	}
	return values, nil
}

func roleRef(concept, role string) ontology.RoleID {
	return ontology.RoleID(fmt.Sprintf("%s/%s", concept, role))
}
