package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a self-contained design, a
// board, a selected token and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Types declares the entity types the design binds.
	Types []TypeDecl `yaml:"types"`

	// Concept declares the single concept under test with its roles,
	// bindings, relations and manual constraints.
	Concept ConceptDecl `yaml:"concept"`

	// Grid declares the board bounds.
	Grid GridDecl `yaml:"grid"`

	// Board places terrain entities on hexes.
	Board []PlacementDecl `yaml:"board"`

	// Tokens places tokens on the board.
	Tokens []TokenDecl `yaml:"tokens"`

	// Token selects the token to compute moves for.
	Token string `yaml:"token"`

	// Assertions validate the outcome.
	Assertions Assertions `yaml:"assertions"`
}

// TypeDecl declares one entity type.
type TypeDecl struct {
	Name       string         `yaml:"name"`
	Role       string         `yaml:"role"` // "token" | "board_position"
	Properties []PropertyDecl `yaml:"properties,omitempty"`
}

// PropertyDecl declares one property with an optional default.
type PropertyDecl struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default any    `yaml:"default,omitempty"`
}

// ConceptDecl declares the concept under test.
type ConceptDecl struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Roles       []RoleDecl       `yaml:"roles"`
	Bindings    []BindingDecl    `yaml:"bindings,omitempty"`
	Relations   []RelationDecl   `yaml:"relations,omitempty"`
	Constraints []ConstraintDecl `yaml:"constraints,omitempty"`
}

// RoleDecl declares one role slot.
type RoleDecl struct {
	Name       string   `yaml:"name"`
	Filter     string   `yaml:"filter"`
	Properties []string `yaml:"properties,omitempty"`
}

// BindingDecl binds an entity type to a role.
type BindingDecl struct {
	Role       string            `yaml:"role"`
	Type       string            `yaml:"type"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// RelationDecl declares one relation.
type RelationDecl struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Subject     string     `yaml:"subject"`
	Object      string     `yaml:"object"`
	Trigger     string     `yaml:"trigger"`
	Effect      EffectDecl `yaml:"effect"`
}

// EffectDecl declares a relation effect.
type EffectDecl struct {
	Kind      string `yaml:"kind"`
	Operation string `yaml:"operation,omitempty"`
	Target    string `yaml:"target,omitempty"`
	Magnitude string `yaml:"magnitude,omitempty"`
}

// ConstraintDecl declares one manual constraint.
type ConstraintDecl struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Expr        ExprDecl `yaml:"expr"`
}

// ExprDecl declares a constraint expression.
type ExprDecl struct {
	Kind string `yaml:"kind"` // "property_compare" | "path_budget"

	// property_compare fields
	Left  *OperandDecl `yaml:"left,omitempty"`
	Op    string       `yaml:"op,omitempty"`
	Right *OperandDecl `yaml:"right,omitempty"`

	// path_budget fields
	MoverRole      string `yaml:"mover_role,omitempty"`
	TerrainRole    string `yaml:"terrain_role,omitempty"`
	BudgetProperty string `yaml:"budget_property,omitempty"`
	CostProperty   string `yaml:"cost_property,omitempty"`
}

// OperandDecl declares one comparison operand.
type OperandDecl struct {
	Kind     string `yaml:"kind"` // "literal" | "mover_property" | "entered_property"
	Value    any    `yaml:"value,omitempty"`
	Role     string `yaml:"role,omitempty"`
	Property string `yaml:"property,omitempty"`
}

// GridDecl declares board bounds.
type GridDecl struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlacementDecl places a terrain entity.
type PlacementDecl struct {
	Q      int            `yaml:"q"`
	R      int            `yaml:"r"`
	Type   string         `yaml:"type"`
	Values map[string]any `yaml:"values,omitempty"`
}

// TokenDecl places a token. ID may be omitted for background tokens the
// scenario never selects; the runner assigns one.
type TokenDecl struct {
	ID     string         `yaml:"id,omitempty"`
	Type   string         `yaml:"type"`
	Q      int            `yaml:"q"`
	R      int            `yaml:"r"`
	Values map[string]any `yaml:"values,omitempty"`
}

// Assertions validate a scenario's outcome. All listed checks run; the
// runner reports every failure, not just the first.
type Assertions struct {
	// SchemaErrors is the exact expected error count (nil = don't check).
	SchemaErrors *int `yaml:"schema_errors,omitempty"`

	// Reachable positions that must be classified reachable.
	Reachable []CoordDecl `yaml:"reachable,omitempty"`

	// Blocked positions that must be classified blocked, optionally with an
	// exact reason.
	Blocked []BlockedDecl `yaml:"blocked,omitempty"`

	// Absent positions that must not appear in the move set at all.
	Absent []CoordDecl `yaml:"absent,omitempty"`
}

// CoordDecl is a scenario coordinate.
type CoordDecl struct {
	Q int `yaml:"q"`
	R int `yaml:"r"`
}

// BlockedDecl is an expected blocked classification.
type BlockedDecl struct {
	Q      int    `yaml:"q"`
	R      int    `yaml:"r"`
	Reason string `yaml:"reason,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.Token == "" {
		return nil, fmt.Errorf("scenario %s: token is required", path)
	}
	return &s, nil
}
