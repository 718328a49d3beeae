package ontology

// Identity types. Every cross-reference in the model is one of these ids,
// resolved by Store lookup. Editors assign ids via NewID; derived constraints
// get content-addressed ids (see hash.go).
type (
	// EntityTypeID references a designer-defined entity type. Entity types
	// are owned by the external schema provider; this core only ever holds
	// the id.
	EntityTypeID string

	// ConceptID references a Concept.
	ConceptID string

	// RoleID references a ConceptRole.
	RoleID string

	// BindingID references a ConceptBinding.
	BindingID string

	// RelationID references a Relation.
	RelationID string

	// ConstraintID references a Constraint.
	ConstraintID string
)

// Role classifies an entity type as either a board position or a token.
type Role string

const (
	RoleBoardPosition Role = "board_position"
	RoleToken         Role = "token"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleBoardPosition || r == RoleToken
}

// Concept is a named abstract behavior category with ordered role slots.
type Concept struct {
	ID          ConceptID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// Roles lists the concept's role slots in declaration order. The order
	// never changes after authoring; it is part of deterministic reporting.
	Roles []RoleID `json:"roles"`
}

// ConceptRole is a named slot within a Concept that entity types bind to.
type ConceptRole struct {
	ID        RoleID    `json:"id"`
	ConceptID ConceptID `json:"concept_id"`
	Name      string    `json:"name"`

	// Filter restricts which entity types may bind to this slot.
	Filter Role `json:"filter"`

	// Properties lists the role-level property names this slot expects a
	// binding to map. Relations and constraints name properties in this
	// namespace, never in the entity type's own namespace.
	Properties []string `json:"properties,omitempty"`
}

// ConceptBinding associates one entity type with one role slot of one concept.
type ConceptBinding struct {
	ID           BindingID    `json:"id"`
	ConceptID    ConceptID    `json:"concept_id"`
	RoleID       RoleID       `json:"role_id"`
	EntityTypeID EntityTypeID `json:"entity_type_id"`

	// Properties maps role-level property names to the entity type's actual
	// property names.
	Properties map[string]string `json:"properties,omitempty"`
}

// Property resolves a role-level property name to the bound entity type's
// actual property name.
func (b *ConceptBinding) Property(roleProp string) (string, bool) {
	actual, ok := b.Properties[roleProp]
	return actual, ok
}

// Trigger names the moment during a transition at which a relation applies.
type Trigger string

const (
	TriggerOnEnter      Trigger = "on_enter"
	TriggerOnExit       Trigger = "on_exit"
	TriggerWhilePresent Trigger = "while_present"
)

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	return t == TriggerOnEnter || t == TriggerOnExit || t == TriggerWhilePresent
}

// EffectKind discriminates the Effect variant.
type EffectKind string

const (
	EffectModifyProperty EffectKind = "modify_property"
	EffectBlock          EffectKind = "block"
	EffectAllow          EffectKind = "allow"
)

// ModifyOp is the arithmetic operation of a modify_property effect.
type ModifyOp string

const (
	OpSubtract ModifyOp = "subtract"
	OpAdd      ModifyOp = "add"
	OpSet      ModifyOp = "set"
)

// Effect is a tagged variant: modify_property carries the operation fields,
// block and allow carry nothing.
type Effect struct {
	Kind EffectKind `json:"kind"`

	// Operation, Target and Magnitude are set only for modify_property.
	// Target names the subject-role property the effect modifies; Magnitude
	// names the object-role property supplying the per-step amount. Both are
	// role-level names resolved through bindings.
	Operation ModifyOp `json:"operation,omitempty"`
	Target    string   `json:"target,omitempty"`
	Magnitude string   `json:"magnitude,omitempty"`
}

// Relation is a designer-defined interaction between two role slots of one
// concept. SubjectRole is the acting side (the token moving); ObjectRole is
// the acted-on side (the position entered or left).
type Relation struct {
	ID          RelationID `json:"id"`
	ConceptID   ConceptID  `json:"concept_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	SubjectRole RoleID     `json:"subject_role"`
	ObjectRole  RoleID     `json:"object_role"`
	Trigger     Trigger    `json:"trigger"`
	Effect      Effect     `json:"effect"`
}

// RequiredProperties returns the role-level property names this relation
// needs bindings for, keyed by role. Block and allow effects require none.
func (r *Relation) RequiredProperties() map[RoleID][]string {
	if r.Effect.Kind != EffectModifyProperty {
		return nil
	}
	req := make(map[RoleID][]string, 2)
	if r.Effect.Target != "" {
		req[r.SubjectRole] = append(req[r.SubjectRole], r.Effect.Target)
	}
	if r.Effect.Magnitude != "" {
		req[r.ObjectRole] = append(req[r.ObjectRole], r.Effect.Magnitude)
	}
	return req
}

// ProvenanceKind discriminates manually authored from machine-derived
// constraints.
type ProvenanceKind string

const (
	ProvenanceManual  ProvenanceKind = "manual"
	ProvenanceDerived ProvenanceKind = "derived"
)

// Provenance records where a constraint came from. Derived constraints carry
// the originating relation id so they can be regenerated when that relation
// changes.
type Provenance struct {
	Kind       ProvenanceKind `json:"kind"`
	RelationID RelationID     `json:"relation_id,omitempty"`
}

// ExprKind discriminates the ConstraintExpr variant.
type ExprKind string

const (
	ExprPropertyCompare ExprKind = "property_compare"
	ExprPathBudget      ExprKind = "path_budget"
)

// CompareOp is a comparison operator for property_compare expressions.
type CompareOp string

const (
	CmpEqual          CompareOp = "eq"
	CmpNotEqual       CompareOp = "ne"
	CmpLessThan       CompareOp = "lt"
	CmpGreaterThan    CompareOp = "gt"
	CmpLessOrEqual    CompareOp = "le"
	CmpGreaterOrEqual CompareOp = "ge"
)

// Valid reports whether op is a known comparison operator.
func (op CompareOp) Valid() bool {
	switch op {
	case CmpEqual, CmpNotEqual, CmpLessThan, CmpGreaterThan, CmpLessOrEqual, CmpGreaterOrEqual:
		return true
	}
	return false
}

// OperandKind discriminates the Operand variant.
type OperandKind string

const (
	OperandLiteral         OperandKind = "literal"
	OperandMoverProperty   OperandKind = "mover_property"
	OperandEnteredProperty OperandKind = "entered_property"
)

// Operand is one side of a property_compare: either a literal value or a
// role-level property read off the mover or the position being entered.
type Operand struct {
	Kind OperandKind `json:"kind"`

	// Literal is set only for literal operands.
	Literal Value `json:"literal,omitempty"`

	// RoleID and Property are set for the two property kinds. Property is a
	// role-level name resolved through the role's binding for the entity
	// type involved in the transition.
	RoleID   RoleID `json:"role_id,omitempty"`
	Property string `json:"property,omitempty"`
}

// PropertyCompare denies a transition when the comparison is false.
type PropertyCompare struct {
	Left  Operand   `json:"left"`
	Op    CompareOp `json:"op"`
	Right Operand   `json:"right"`
}

// PathBudget denies a transition when the entered position's cost exceeds the
// mover's remaining budget. The remaining budget is tracked by the caller
// across the search path, never stored here.
type PathBudget struct {
	MoverRole      RoleID `json:"mover_role"`
	TerrainRole    RoleID `json:"terrain_role"`
	BudgetProperty string `json:"budget_property"`
	CostProperty   string `json:"cost_property"`
}

// ConstraintExpr is a tagged variant: exactly one of Compare or Budget is set,
// matching Kind.
type ConstraintExpr struct {
	Kind    ExprKind         `json:"kind"`
	Compare *PropertyCompare `json:"compare,omitempty"`
	Budget  *PathBudget      `json:"budget,omitempty"`
}

// Constraint is a rule every proposed transition must satisfy.
type Constraint struct {
	ID          ConstraintID `json:"id"`
	ConceptID   ConceptID    `json:"concept_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Provenance  Provenance   `json:"provenance"`
	Expr        ConstraintExpr `json:"expr"`
}

// Derived reports whether the constraint was machine-derived from a relation.
func (c *Constraint) Derived() bool {
	return c.Provenance.Kind == ProvenanceDerived
}
