package design

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

const motionDoc = `
design: {
	name: "motion-demo"
	grid: {width: 4, height: 1}
	types: {
		Infantry: {
			role: "token"
			properties: movement_budget: {type: "int", default: 3}
		}
		Plains: {
			role: "board_position"
			properties: movement_cost: {type: "int", default: 1}
		}
		Forest: {
			role: "board_position"
			properties: movement_cost: {type: "int", default: 2}
		}
	}
	concepts: Motion: {
		description: "Token movement over terrain"
		roles: {
			Mover: {filter: "token", properties: ["movement_budget"]}
			Terrain: {filter: "board_position", properties: ["movement_cost"]}
		}
		bindings: [
			{role: "Mover", type: "Infantry", properties: movement_budget: "movement_budget"},
			{role: "Terrain", type: "Plains", properties: movement_cost: "movement_cost"},
			{role: "Terrain", type: "Forest", properties: movement_cost: "movement_cost"},
		]
		relations: march: {
			description: "Moving costs movement budget"
			subject: "Mover"
			object:  "Terrain"
			trigger: "on_enter"
			effect: {
				kind:      "modify_property"
				operation: "subtract"
				target:    "movement_budget"
				magnitude: "movement_cost"
			}
		}
		constraints: "min-cost": {
			description: "Costs are positive"
			expr: {
				kind: "property_compare"
				left: {kind: "entered_property", role: "Terrain", property: "movement_cost"}
				op: "ge"
				right: {kind: "literal", value: 1}
			}
		}
	}
	board: {
		placements: [
			{at: {q: 0, r: 0}, type: "Plains"},
			{at: {q: 1, r: 0}, type: "Plains"},
			{at: {q: 2, r: 0}, type: "Forest", values: movement_cost: 3},
			{at: {q: 3, r: 0}, type: "Plains"},
		]
		tokens: [
			{id: "inf-1", type: "Infantry", at: {q: 0, r: 0}},
		]
	}
}
`

func compile(t *testing.T, doc string) (*Design, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(doc)
	require.NoError(t, v.Err())
	return CompileDesign(v.LookupPath(cue.ParsePath("design")))
}

func TestCompileDesign(t *testing.T) {
	d, err := compile(t, motionDoc)
	require.NoError(t, err)

	assert.Equal(t, "motion-demo", d.Name)
	assert.Equal(t, 4, d.Grid.Width)
	assert.Equal(t, 1, d.Grid.Height)

	def, ok := d.Types.EntityType("Infantry")
	require.True(t, ok)
	assert.Equal(t, ontology.RoleToken, def.Role)
	require.Len(t, def.Properties, 1)
	assert.Equal(t, ontology.IntValue(3), def.Properties[0].Default)

	// Ids follow the deterministic naming scheme.
	snap := d.Ontology.Snapshot()
	_, ok = snap.Concept("Motion")
	assert.True(t, ok)
	_, ok = snap.Role("Motion/Mover")
	assert.True(t, ok)
	_, ok = snap.Relation("Motion/march")
	assert.True(t, ok)
	require.Len(t, snap.Bindings, 3)
	assert.Equal(t, ontology.BindingID("Motion/Mover/Infantry"), snap.Bindings[0].ID)

	require.Len(t, snap.Constraints, 1)
	c := snap.Constraints[0]
	assert.Equal(t, ontology.ConstraintID("Motion/min-cost"), c.ID)
	require.Equal(t, ontology.ExprPropertyCompare, c.Expr.Kind)
	assert.Equal(t, ontology.RoleID("Motion/Terrain"), c.Expr.Compare.Left.RoleID)
	assert.Equal(t, ontology.IntValue(1), c.Expr.Compare.Right.Literal)

	// Board state, including an instance override.
	cost, ok := d.Board.At(hex.Coord{Q: 2, R: 0})
	require.True(t, ok)
	v, _ := cost.Value("movement_cost")
	assert.Equal(t, ontology.IntValue(3), v)

	pos, ok := d.Board.TokenPosition("inf-1")
	require.True(t, ok)
	assert.Equal(t, hex.Coord{Q: 0, R: 0}, pos)
}

func TestCompileDesignDeterministicIDs(t *testing.T) {
	first, err := compile(t, motionDoc)
	require.NoError(t, err)
	second, err := compile(t, motionDoc)
	require.NoError(t, err)

	assert.Equal(t, first.Ontology.Snapshot(), second.Ontology.Snapshot())
}

func TestCompileDesignErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			"missing grid",
			`design: {name: "x"}`,
			"grid is required",
		},
		{
			"non-positive grid",
			`design: {grid: {width: 0, height: 2}}`,
			"dimensions must be positive",
		},
		{
			"float property default",
			`design: {
				grid: {width: 1, height: 1}
				types: T: {role: "token", properties: p: {type: "float"}}
			}`,
			"floats are forbidden",
		},
		{
			"unknown type role",
			`design: {
				grid: {width: 1, height: 1}
				types: T: {role: "widget"}
			}`,
			`unknown role "widget"`,
		},
		{
			"unknown trigger",
			`design: {
				grid: {width: 1, height: 1}
				concepts: C: {
					roles: R: {filter: "token"}
					relations: r: {
						subject: "R", object: "R", trigger: "sometimes"
						effect: kind: "block"
					}
				}
			}`,
			`unknown trigger "sometimes"`,
		},
		{
			"float board value",
			`design: {
				grid: {width: 1, height: 1}
				types: T: {role: "board_position", properties: p: {type: "int"}}
				board: placements: [{at: {q: 0, r: 0}, type: "T", values: p: 1.5}]
			}`,
			"float",
		},
		{
			"placement of unknown type",
			`design: {
				grid: {width: 1, height: 1}
				board: placements: [{at: {q: 0, r: 0}, type: "Lava"}]
			}`,
			`unknown entity type "Lava"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, tt.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCompileDesignMissingStruct(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: 1`)
	_, err := CompileDesign(v.LookupPath(cue.ParsePath("design")))
	require.Error(t, err)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "design", cerr.Field)
}

func TestCompileDesignDanglingReferencesCompile(t *testing.T) {
	// References to names that do not resolve elsewhere in the document are
	// the schema validator's business, not compilation errors.
	doc := `design: {
		grid: {width: 1, height: 1}
		concepts: C: {
			roles: R: {filter: "token"}
			relations: r: {
				subject: "R", object: "Ghost", trigger: "on_enter"
				effect: kind: "block"
			}
		}
	}`
	d, err := compile(t, doc)
	require.NoError(t, err)

	rel, ok := d.Ontology.Relation("C/r")
	require.True(t, ok)
	assert.Equal(t, ontology.RoleID("C/Ghost"), rel.ObjectRole)
}
