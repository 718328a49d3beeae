package design

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/gridwright/internal/board"
	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

// Design is a fully compiled design document: the ontology plus the
// collaborator state (types, grid, board) the document describes.
type Design struct {
	Name     string
	Grid     *hex.Grid
	Types    *board.TypeRegistry
	Ontology *ontology.Store
	Board    *board.Board
}

// CompileDesign parses a CUE value into a Design. The value should be the
// design struct itself:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`design: { ... }`)
//	d, err := design.CompileDesign(v.LookupPath(cue.ParsePath("design")))
//
// Ids are derived from authored names ("Motion", "Motion/Mover",
// "Motion/Mover/Infantry"), so recompiling the same document yields the same
// ids and therefore identical validation reports and move sets.
//
// Compilation fails only on structural problems of the document itself
// (wrong shapes, float values, unknown enum strings). References to names
// that do not exist elsewhere in the document compile fine; that is the
// schema validator's territory.
func CompileDesign(v cue.Value) (*Design, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "design", Message: "design struct is missing"}
	}

	d := &Design{
		Types:    board.NewTypeRegistry(),
		Ontology: ontology.NewStore(),
	}
	d.Board = board.NewBoard(d.Types)

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		d.Name = name
	}

	grid, err := parseGrid(v)
	if err != nil {
		return nil, err
	}
	d.Grid = grid

	if err := parseTypes(v, d); err != nil {
		return nil, err
	}
	if err := parseConcepts(v, d); err != nil {
		return nil, err
	}
	if err := parseBoard(v, d); err != nil {
		return nil, err
	}

	return d, nil
}

func parseGrid(v cue.Value) (*hex.Grid, error) {
	gridVal := v.LookupPath(cue.ParsePath("grid"))
	if !gridVal.Exists() {
		return nil, &CompileError{Field: "grid", Message: "grid is required", Pos: v.Pos()}
	}
	width, err := intField(gridVal, "width")
	if err != nil {
		return nil, err
	}
	height, err := intField(gridVal, "height")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, &CompileError{
			Field:   "grid",
			Message: fmt.Sprintf("grid dimensions must be positive, got %dx%d", width, height),
			Pos:     gridVal.Pos(),
		}
	}
	return hex.NewGrid(int(width), int(height)), nil
}

// parseTypes reads the entity type declarations. Entity types are owned by
// the board collaborator; the design document carries them because it is the
// workbench's single authoring surface.
func parseTypes(v cue.Value, d *Design) error {
	typesVal := v.LookupPath(cue.ParsePath("types"))
	if !typesVal.Exists() {
		return nil
	}
	iter, err := typesVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		tv := iter.Value()

		roleStr, err := stringField(tv, "role")
		if err != nil {
			return err
		}
		role := ontology.Role(roleStr)
		if !role.Valid() {
			return &CompileError{
				Field:   fmt.Sprintf("types.%s.role", name),
				Message: fmt.Sprintf("unknown role %q (want board_position or token)", roleStr),
				Pos:     tv.Pos(),
			}
		}

		def := ontology.EntityTypeDef{
			ID:   ontology.EntityTypeID(name),
			Name: name,
			Role: role,
		}

		propsVal := tv.LookupPath(cue.ParsePath("properties"))
		if propsVal.Exists() {
			propIter, err := propsVal.Fields()
			if err != nil {
				return formatCUEError(err)
			}
			for propIter.Next() {
				prop, err := parsePropertyDef(propIter.Label(), propIter.Value())
				if err != nil {
					return err
				}
				def.Properties = append(def.Properties, prop)
			}
		}

		d.Types.Register(def)
	}
	return nil
}

func parsePropertyDef(name string, v cue.Value) (ontology.PropertyDef, error) {
	prop := ontology.PropertyDef{Name: name}

	typeStr, err := stringField(v, "type")
	if err != nil {
		return prop, err
	}
	switch typeStr {
	case "int", "string", "bool":
		prop.Type = typeStr
	default:
		return prop, &CompileError{
			Field:   fmt.Sprintf("properties.%s.type", name),
			Message: fmt.Sprintf("unsupported property type %q (floats are forbidden; use int)", typeStr),
			Pos:     v.Pos(),
		}
	}

	defVal := v.LookupPath(cue.ParsePath("default"))
	if defVal.Exists() {
		def, err := parseValue(defVal)
		if err != nil {
			return prop, err
		}
		prop.Default = def
	}
	return prop, nil
}

func parseConcepts(v cue.Value, d *Design) error {
	conceptsVal := v.LookupPath(cue.ParsePath("concepts"))
	if !conceptsVal.Exists() {
		return nil
	}
	iter, err := conceptsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := parseConcept(iter.Label(), iter.Value(), d); err != nil {
			return err
		}
	}
	return nil
}

func parseConcept(name string, v cue.Value, d *Design) error {
	conceptID := ontology.ConceptID(name)
	concept := ontology.Concept{ID: conceptID, Name: name}

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return formatCUEError(err)
		}
		concept.Description = desc
	}

	rolesVal := v.LookupPath(cue.ParsePath("roles"))
	if rolesVal.Exists() {
		iter, err := rolesVal.Fields()
		if err != nil {
			return formatCUEError(err)
		}
		for iter.Next() {
			role, err := parseRole(name, iter.Label(), iter.Value())
			if err != nil {
				return err
			}
			d.Ontology.PutRole(role)
			concept.Roles = append(concept.Roles, role.ID)
		}
	}
	d.Ontology.PutConcept(concept)

	bindingsVal := v.LookupPath(cue.ParsePath("bindings"))
	if bindingsVal.Exists() {
		list, err := bindingsVal.List()
		if err != nil {
			return formatCUEError(err)
		}
		for list.Next() {
			b, err := parseBinding(conceptID, list.Value())
			if err != nil {
				return err
			}
			d.Ontology.PutBinding(b)
		}
	}

	relationsVal := v.LookupPath(cue.ParsePath("relations"))
	if relationsVal.Exists() {
		iter, err := relationsVal.Fields()
		if err != nil {
			return formatCUEError(err)
		}
		for iter.Next() {
			rel, err := parseRelation(conceptID, iter.Label(), iter.Value())
			if err != nil {
				return err
			}
			d.Ontology.PutRelation(rel)
		}
	}

	constraintsVal := v.LookupPath(cue.ParsePath("constraints"))
	if constraintsVal.Exists() {
		iter, err := constraintsVal.Fields()
		if err != nil {
			return formatCUEError(err)
		}
		for iter.Next() {
			c, err := parseConstraint(conceptID, iter.Label(), iter.Value())
			if err != nil {
				return err
			}
			d.Ontology.PutConstraint(c)
		}
	}

	return nil
}

func parseRole(conceptName, roleName string, v cue.Value) (ontology.ConceptRole, error) {
	role := ontology.ConceptRole{
		ID:        roleRef(conceptName, roleName),
		ConceptID: ontology.ConceptID(conceptName),
		Name:      roleName,
	}

	filterStr, err := stringField(v, "filter")
	if err != nil {
		return role, err
	}
	role.Filter = ontology.Role(filterStr)
	if !role.Filter.Valid() {
		return role, &CompileError{
			Field:   fmt.Sprintf("roles.%s.filter", roleName),
			Message: fmt.Sprintf("unknown filter %q (want board_position or token)", filterStr),
			Pos:     v.Pos(),
		}
	}

	propsVal := v.LookupPath(cue.ParsePath("properties"))
	if propsVal.Exists() {
		props, err := stringList(propsVal)
		if err != nil {
			return role, err
		}
		role.Properties = props
	}
	return role, nil
}

func parseBinding(conceptID ontology.ConceptID, v cue.Value) (ontology.ConceptBinding, error) {
	var b ontology.ConceptBinding

	roleName, err := stringField(v, "role")
	if err != nil {
		return b, err
	}
	typeName, err := stringField(v, "type")
	if err != nil {
		return b, err
	}

	b = ontology.ConceptBinding{
		ID:           ontology.BindingID(fmt.Sprintf("%s/%s/%s", conceptID, roleName, typeName)),
		ConceptID:    conceptID,
		RoleID:       roleRef(string(conceptID), roleName),
		EntityTypeID: ontology.EntityTypeID(typeName),
	}

	propsVal := v.LookupPath(cue.ParsePath("properties"))
	if propsVal.Exists() {
		iter, err := propsVal.Fields()
		if err != nil {
			return b, formatCUEError(err)
		}
		b.Properties = make(map[string]string)
		for iter.Next() {
			actual, err := iter.Value().String()
			if err != nil {
				return b, formatCUEError(err)
			}
			b.Properties[iter.Label()] = actual
		}
	}
	return b, nil
}

func parseRelation(conceptID ontology.ConceptID, relName string, v cue.Value) (ontology.Relation, error) {
	rel := ontology.Relation{
		ID:        ontology.RelationID(fmt.Sprintf("%s/%s", conceptID, relName)),
		ConceptID: conceptID,
		Name:      relName,
	}

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return rel, formatCUEError(err)
		}
		rel.Description = desc
	}

	subject, err := stringField(v, "subject")
	if err != nil {
		return rel, err
	}
	object, err := stringField(v, "object")
	if err != nil {
		return rel, err
	}
	rel.SubjectRole = roleRef(string(conceptID), subject)
	rel.ObjectRole = roleRef(string(conceptID), object)

	triggerStr, err := stringField(v, "trigger")
	if err != nil {
		return rel, err
	}
	rel.Trigger = ontology.Trigger(triggerStr)
	if !rel.Trigger.Valid() {
		return rel, &CompileError{
			Field:   fmt.Sprintf("relations.%s.trigger", relName),
			Message: fmt.Sprintf("unknown trigger %q", triggerStr),
			Pos:     v.Pos(),
		}
	}

	effectVal := v.LookupPath(cue.ParsePath("effect"))
	if !effectVal.Exists() {
		return rel, &CompileError{
			Field:   fmt.Sprintf("relations.%s.effect", relName),
			Message: "effect is required",
			Pos:     v.Pos(),
		}
	}
	rel.Effect, err = parseEffect(relName, effectVal)
	return rel, err
}

func parseEffect(relName string, v cue.Value) (ontology.Effect, error) {
	var effect ontology.Effect

	kindStr, err := stringField(v, "kind")
	if err != nil {
		return effect, err
	}
	effect.Kind = ontology.EffectKind(kindStr)

	switch effect.Kind {
	case ontology.EffectBlock, ontology.EffectAllow:
		return effect, nil
	case ontology.EffectModifyProperty:
		opStr, err := stringField(v, "operation")
		if err != nil {
			return effect, err
		}
		switch op := ontology.ModifyOp(opStr); op {
		case ontology.OpSubtract, ontology.OpAdd, ontology.OpSet:
			effect.Operation = op
		default:
			return effect, &CompileError{
				Field:   fmt.Sprintf("relations.%s.effect.operation", relName),
				Message: fmt.Sprintf("unknown operation %q", opStr),
				Pos:     v.Pos(),
			}
		}
		effect.Target, err = stringField(v, "target")
		if err != nil {
			return effect, err
		}
		effect.Magnitude, err = stringField(v, "magnitude")
		if err != nil {
			return effect, err
		}
		return effect, nil
	default:
		return effect, &CompileError{
			Field:   fmt.Sprintf("relations.%s.effect.kind", relName),
			Message: fmt.Sprintf("unknown effect kind %q", kindStr),
			Pos:     v.Pos(),
		}
	}
}

func parseConstraint(conceptID ontology.ConceptID, name string, v cue.Value) (ontology.Constraint, error) {
	c := ontology.Constraint{
		ID:         ontology.ConstraintID(fmt.Sprintf("%s/%s", conceptID, name)),
		ConceptID:  conceptID,
		Name:       name,
		Provenance: ontology.Provenance{Kind: ontology.ProvenanceManual},
	}

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return c, formatCUEError(err)
		}
		c.Description = desc
	}

	exprVal := v.LookupPath(cue.ParsePath("expr"))
	if !exprVal.Exists() {
		return c, &CompileError{
			Field:   fmt.Sprintf("constraints.%s.expr", name),
			Message: "expr is required",
			Pos:     v.Pos(),
		}
	}

	kindStr, err := stringField(exprVal, "kind")
	if err != nil {
		return c, err
	}
	switch kind := ontology.ExprKind(kindStr); kind {
	case ontology.ExprPropertyCompare:
		cmp, err := parseCompare(conceptID, name, exprVal)
		if err != nil {
			return c, err
		}
		c.Expr = ontology.ConstraintExpr{Kind: kind, Compare: cmp}
	case ontology.ExprPathBudget:
		budget, err := parseBudget(conceptID, name, exprVal)
		if err != nil {
			return c, err
		}
		c.Expr = ontology.ConstraintExpr{Kind: kind, Budget: budget}
	default:
		return c, &CompileError{
			Field:   fmt.Sprintf("constraints.%s.expr.kind", name),
			Message: fmt.Sprintf("unknown expression kind %q", kindStr),
			Pos:     exprVal.Pos(),
		}
	}
	return c, nil
}

func parseCompare(conceptID ontology.ConceptID, name string, v cue.Value) (*ontology.PropertyCompare, error) {
	opStr, err := stringField(v, "op")
	if err != nil {
		return nil, err
	}
	op := ontology.CompareOp(opStr)
	if !op.Valid() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("constraints.%s.expr.op", name),
			Message: fmt.Sprintf("unknown comparison operator %q", opStr),
			Pos:     v.Pos(),
		}
	}

	left, err := parseOperand(conceptID, name, v.LookupPath(cue.ParsePath("left")))
	if err != nil {
		return nil, err
	}
	right, err := parseOperand(conceptID, name, v.LookupPath(cue.ParsePath("right")))
	if err != nil {
		return nil, err
	}
	return &ontology.PropertyCompare{Left: left, Op: op, Right: right}, nil
}

func parseOperand(conceptID ontology.ConceptID, name string, v cue.Value) (ontology.Operand, error) {
	var op ontology.Operand
	if !v.Exists() {
		return op, &CompileError{
			Field:   fmt.Sprintf("constraints.%s.expr", name),
			Message: "both left and right operands are required",
		}
	}

	kindStr, err := stringField(v, "kind")
	if err != nil {
		return op, err
	}
	op.Kind = ontology.OperandKind(kindStr)

	switch op.Kind {
	case ontology.OperandLiteral:
		lit, err := parseValue(v.LookupPath(cue.ParsePath("value")))
		if err != nil {
			return op, err
		}
		op.Literal = lit
		return op, nil
	case ontology.OperandMoverProperty, ontology.OperandEnteredProperty:
		roleName, err := stringField(v, "role")
		if err != nil {
			return op, err
		}
		op.RoleID = roleRef(string(conceptID), roleName)
		op.Property, err = stringField(v, "property")
		return op, err
	default:
		return op, &CompileError{
			Field:   fmt.Sprintf("constraints.%s.expr", name),
			Message: fmt.Sprintf("unknown operand kind %q", kindStr),
			Pos:     v.Pos(),
		}
	}
}

func parseBudget(conceptID ontology.ConceptID, name string, v cue.Value) (*ontology.PathBudget, error) {
	mover, err := stringField(v, "mover_role")
	if err != nil {
		return nil, err
	}
	terrain, err := stringField(v, "terrain_role")
	if err != nil {
		return nil, err
	}
	budgetProp, err := stringField(v, "budget_property")
	if err != nil {
		return nil, err
	}
	costProp, err := stringField(v, "cost_property")
	if err != nil {
		return nil, err
	}
	return &ontology.PathBudget{
		MoverRole:      roleRef(string(conceptID), mover),
		TerrainRole:    roleRef(string(conceptID), terrain),
		BudgetProperty: budgetProp,
		CostProperty:   costProp,
	}, nil
}

func parseBoard(v cue.Value, d *Design) error {
	boardVal := v.LookupPath(cue.ParsePath("board"))
	if !boardVal.Exists() {
		return nil
	}

	placementsVal := boardVal.LookupPath(cue.ParsePath("placements"))
	if placementsVal.Exists() {
		list, err := placementsVal.List()
		if err != nil {
			return formatCUEError(err)
		}
		for list.Next() {
			pv := list.Value()
			at, err := parseCoord(pv.LookupPath(cue.ParsePath("at")))
			if err != nil {
				return err
			}
			typeName, err := stringField(pv, "type")
			if err != nil {
				return err
			}
			values, err := parseValues(pv.LookupPath(cue.ParsePath("values")))
			if err != nil {
				return err
			}
			if err := d.Board.Place(at, ontology.EntityTypeID(typeName), values); err != nil {
				return &CompileError{Field: "board.placements", Message: err.Error(), Pos: pv.Pos()}
			}
		}
	}

	tokensVal := boardVal.LookupPath(cue.ParsePath("tokens"))
	if tokensVal.Exists() {
		list, err := tokensVal.List()
		if err != nil {
			return formatCUEError(err)
		}
		for list.Next() {
			tv := list.Value()
			id, err := stringField(tv, "id")
			if err != nil {
				return err
			}
			typeName, err := stringField(tv, "type")
			if err != nil {
				return err
			}
			at, err := parseCoord(tv.LookupPath(cue.ParsePath("at")))
			if err != nil {
				return err
			}
			values, err := parseValues(tv.LookupPath(cue.ParsePath("values")))
			if err != nil {
				return err
			}
			if err := d.Board.PlaceToken(id, ontology.EntityTypeID(typeName), at, values); err != nil {
				return &CompileError{Field: "board.tokens", Message: err.Error(), Pos: tv.Pos()}
			}
		}
	}
	return nil
}

func parseCoord(v cue.Value) (hex.Coord, error) {
	if !v.Exists() {
		return hex.Coord{}, &CompileError{Field: "at", Message: "coordinate is required"}
	}
	q, err := intField(v, "q")
	if err != nil {
		return hex.Coord{}, err
	}
	r, err := intField(v, "r")
	if err != nil {
		return hex.Coord{}, err
	}
	return hex.Coord{Q: int(q), R: int(r)}, nil
}

func parseValues(v cue.Value) (map[string]ontology.Value, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	values := make(map[string]ontology.Value)
	for iter.Next() {
		val, err := parseValue(iter.Value())
		if err != nil {
			return nil, err
		}
		values[iter.Label()] = val
	}
	return values, nil
}

// parseValue converts a concrete CUE scalar into a property value. Floats
// are rejected.
func parseValue(v cue.Value) (ontology.Value, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "value", Message: "value is required"}
	}
	switch v.Kind() {
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ontology.IntValue(i), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ontology.StringValue(s), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ontology.BoolValue(b), nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "value",
			Message: "float property values are forbidden - use int",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func stringField(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", field),
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func intField(v cue.Value, field string) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", field),
			Pos:     v.Pos(),
		}
	}
	i, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return i, nil
}

func stringList(v cue.Value) ([]string, error) {
	list, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for list.Next() {
		s, err := list.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// roleRef builds the deterministic role id for a concept/role name pair.
func roleRef(concept, role string) ontology.RoleID {
	return ontology.RoleID(fmt.Sprintf("%s/%s", concept, role))
}
