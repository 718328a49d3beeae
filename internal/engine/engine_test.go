package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridwright/internal/board"
	"github.com/roach88/gridwright/internal/derive"
	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
	"github.com/roach88/gridwright/internal/testutil"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// marchID is the derived path-budget constraint every fixture ontology
// carries after derivation.
var marchID = string(ontology.DerivedConstraintID(testutil.RelationMarch))

func motionSnapshot(t *testing.T, mutate func(*ontology.Store)) *ontology.Snapshot {
	t.Helper()
	s := testutil.MotionOntology()
	if mutate != nil {
		mutate(s)
	}
	derive.Apply(s)
	return s.Snapshot()
}

func rowProviders(t *testing.T, cells ...ontology.EntityTypeID) Providers {
	t.Helper()
	reg := testutil.Registry()
	grid, b, err := testutil.RowBoard(reg, cells...)
	require.NoError(t, err)
	return Providers{Grid: grid, Board: b, Types: reg}
}

func TestComputeValidMoves_BudgetRow(t *testing.T) {
	snap := motionSnapshot(t, nil)
	providers := rowProviders(t, testutil.TypePlains, testutil.TypePlains, testutil.TypeForest, testutil.TypePlains)
	eng := New(providers, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	assert.Equal(t, testutil.TokenInfantry, moves.TokenID)
	assert.Equal(t, hex.Coord{Q: 0, R: 0}, moves.Start)
	require.Len(t, moves.Positions, 4)

	// Budget 3 over costs 1, 1, 2: the Forest consumes the last point.
	for q, want := range []int64{3, 2, 0} {
		c := hex.Coord{Q: q, R: 0}
		require.True(t, moves.Reachable(c), "%s", c)
		assert.Equal(t, want, moves.Positions[c].Remaining[marchID], "%s", c)
	}

	reason, blocked := moves.Blocked(hex.Coord{Q: 3, R: 0})
	require.True(t, blocked)
	assert.Equal(t, `budget limit implied by relation "march"`, reason)
}

func TestComputeValidMoves_UniformCostRadius(t *testing.T) {
	snap := motionSnapshot(t, nil)
	reg := testutil.Registry()
	start := hex.Coord{Q: 3, R: 3}
	grid, b, err := testutil.FillBoard(reg, 7, 7, testutil.TypePlains, start)
	require.NoError(t, err)
	eng := New(Providers{Grid: grid, Board: b, Types: reg}, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	// Uniform cost 1 with budget 3: the reachable set is exactly the
	// distance-3 disc, the blocked ring sits at distance 4, and everything
	// beyond is absent.
	for _, c := range grid.All() {
		d := hex.Distance(start, c)
		cls, present := moves.Positions[c]
		switch {
		case d <= 3:
			require.True(t, present, "%s", c)
			assert.Equal(t, StateReachable, cls.State, "%s", c)
			assert.Equal(t, int64(3-d), cls.Remaining[marchID], "%s", c)
		case d == 4:
			require.True(t, present, "%s", c)
			assert.Equal(t, StateBlocked, cls.State, "%s", c)
		default:
			assert.False(t, present, "%s", c)
		}
	}
}

func TestComputeValidMoves_ZeroBudget(t *testing.T) {
	snap := motionSnapshot(t, nil)
	reg := testutil.Registry()
	grid := hex.NewGrid(3, 1)
	b := board.NewBoard(reg)
	for q := 0; q < 3; q++ {
		require.NoError(t, b.Place(hex.Coord{Q: q, R: 0}, testutil.TypePlains, nil))
	}
	require.NoError(t, b.PlaceToken(testutil.TokenInfantry, testutil.TypeInfantry, hex.Coord{Q: 0, R: 0},
		map[string]ontology.Value{"movement_budget": ontology.IntValue(0)}))

	eng := New(Providers{Grid: grid, Board: b, Types: reg}, quiet)
	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	assert.True(t, moves.Reachable(hex.Coord{Q: 0, R: 0}))
	_, blocked := moves.Blocked(hex.Coord{Q: 1, R: 0})
	assert.True(t, blocked)
	require.Len(t, moves.Positions, 2)
}

func TestComputeValidMoves_WaterBlock(t *testing.T) {
	snap := motionSnapshot(t, testutil.PutNoSwim)
	providers := rowProviders(t, testutil.TypePlains, testutil.TypeWater, testutil.TypePlains)
	eng := New(providers, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	assert.True(t, moves.Reachable(hex.Coord{Q: 0, R: 0}))

	// The Block relation's authored description wins over any budget math.
	reason, blocked := moves.Blocked(hex.Coord{Q: 1, R: 0})
	require.True(t, blocked)
	assert.Equal(t, testutil.WaterBlockReason, reason)

	// The far hex is unreachable through every path: absent, not blocked.
	_, present := moves.Positions[hex.Coord{Q: 2, R: 0}]
	assert.False(t, present)
}

func TestComputeValidMoves_NoRulesPlainBFS(t *testing.T) {
	// An empty ontology imposes nothing: every connected position is
	// reachable and no budgets are tracked.
	snap := ontology.NewStore().Snapshot()
	providers := rowProviders(t, testutil.TypePlains, testutil.TypePlains, testutil.TypePlains)
	eng := New(providers, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	require.Len(t, moves.Positions, 3)
	for q := 0; q < 3; q++ {
		c := hex.Coord{Q: q, R: 0}
		assert.True(t, moves.Reachable(c), "%s", c)
		assert.Empty(t, moves.Positions[c].Remaining)
	}
}

func TestComputeValidMoves_UnknownToken(t *testing.T) {
	snap := motionSnapshot(t, nil)
	providers := rowProviders(t, testutil.TypePlains)
	eng := New(providers, quiet)

	_, err := eng.ComputeValidMoves(snap, "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown token "ghost"`)
}

func TestComputeValidMoves_UnresolvableBudgetFailsClosed(t *testing.T) {
	// Rebind the mover without the movement_budget mapping: the applicable
	// budget cannot be initialized, so only the start is granted and every
	// neighbor carries the explanation.
	snap := motionSnapshot(t, func(s *ontology.Store) {
		s.PutBinding(ontology.ConceptBinding{
			ID: testutil.BindingInfantry, ConceptID: testutil.ConceptMotion,
			RoleID: testutil.RoleMover, EntityTypeID: testutil.TypeInfantry,
		})
	})
	providers := rowProviders(t, testutil.TypePlains, testutil.TypePlains)
	eng := New(providers, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	assert.True(t, moves.Reachable(hex.Coord{Q: 0, R: 0}))
	reason, blocked := moves.Blocked(hex.Coord{Q: 1, R: 0})
	require.True(t, blocked)
	assert.Contains(t, reason, "constraint unevaluable: march-budget")
	require.Len(t, moves.Positions, 2)
}

func TestComputeValidMoves_Idempotent(t *testing.T) {
	snap := motionSnapshot(t, nil)
	providers := rowProviders(t, testutil.TypePlains, testutil.TypePlains, testutil.TypeForest, testutil.TypePlains)
	eng := New(providers, quiet)

	first, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)
	firstJSON, err := first.MarshalCanonical()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
		require.NoError(t, err)
		againJSON, err := again.MarshalCanonical()
		require.NoError(t, err)
		assert.Equal(t, firstJSON, againJSON, "recomputation over unchanged inputs must be byte-identical")
	}
}

func TestEvaluateTransition(t *testing.T) {
	snap := motionSnapshot(t, testutil.PutNoSwim)
	providers := rowProviders(t, testutil.TypePlains, testutil.TypeWater, testutil.TypePlains)
	eng := New(providers, quiet)

	t.Run("allowed step", func(t *testing.T) {
		// All-Plains board: the step is allowed and the remaining budget
		// reflects the entered hex's cost.
		p := rowProviders(t, testutil.TypePlains, testutil.TypePlains)
		v := New(p, quiet).EvaluateTransition(snap, testutil.TokenInfantry, hex.Coord{Q: 0, R: 0}, hex.Coord{Q: 1, R: 0})
		require.True(t, v.Allowed)
		assert.Equal(t, int64(2), v.Remaining[marchID])
	})

	t.Run("blocked by relation", func(t *testing.T) {
		v := eng.EvaluateTransition(snap, testutil.TokenInfantry, hex.Coord{Q: 0, R: 0}, hex.Coord{Q: 1, R: 0})
		require.False(t, v.Allowed)
		assert.Equal(t, testutil.WaterBlockReason, v.Reason)
	})

	t.Run("not adjacent", func(t *testing.T) {
		v := eng.EvaluateTransition(snap, testutil.TokenInfantry, hex.Coord{Q: 0, R: 0}, hex.Coord{Q: 2, R: 0})
		require.False(t, v.Allowed)
		assert.Contains(t, v.Reason, "not adjacent")
	})

	t.Run("unknown token", func(t *testing.T) {
		v := eng.EvaluateTransition(snap, "ghost", hex.Coord{Q: 0, R: 0}, hex.Coord{Q: 1, R: 0})
		require.False(t, v.Allowed)
		assert.Contains(t, v.Reason, `unknown token "ghost"`)
	})
}

func TestEvaluateStep_PropertyCompare(t *testing.T) {
	// A manual constraint denying entry onto terrain costing more than the
	// mover's budget property, independent of path accumulation.
	mutate := func(s *ontology.Store) {
		s.PutConstraint(ontology.Constraint{
			ID: "Motion/no-steep", ConceptID: testutil.ConceptMotion, Name: "no-steep",
			Description: "Terrain too costly",
			Provenance:  ontology.Provenance{Kind: ontology.ProvenanceManual},
			Expr: ontology.ConstraintExpr{Kind: ontology.ExprPropertyCompare, Compare: &ontology.PropertyCompare{
				Left:  ontology.Operand{Kind: ontology.OperandEnteredProperty, RoleID: testutil.RoleTerrain, Property: "movement_cost"},
				Op:    ontology.CmpLessOrEqual,
				Right: ontology.Operand{Kind: ontology.OperandLiteral, Literal: ontology.IntValue(1)},
			}},
		})
	}
	snap := motionSnapshot(t, mutate)
	providers := rowProviders(t, testutil.TypePlains, testutil.TypeForest)
	eng := New(providers, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	reason, blocked := moves.Blocked(hex.Coord{Q: 1, R: 0})
	require.True(t, blocked)
	assert.Equal(t, "Terrain too costly", reason)
}

func TestEvaluateStep_ConstraintSkippedForUnboundTypes(t *testing.T) {
	// A compare reading a property of a role the mover's type is not bound
	// to does not target the transition and is skipped, not denied.
	mutate := func(s *ontology.Store) {
		s.PutRole(ontology.ConceptRole{
			ID: "Motion/Cavalry", ConceptID: testutil.ConceptMotion, Name: "Cavalry",
			Filter: ontology.RoleToken,
		})
		s.PutConstraint(ontology.Constraint{
			ID: "Motion/cavalry-only", ConceptID: testutil.ConceptMotion, Name: "cavalry-only",
			Provenance: ontology.Provenance{Kind: ontology.ProvenanceManual},
			Expr: ontology.ConstraintExpr{Kind: ontology.ExprPropertyCompare, Compare: &ontology.PropertyCompare{
				Left:  ontology.Operand{Kind: ontology.OperandMoverProperty, RoleID: "Motion/Cavalry", Property: "charge"},
				Op:    ontology.CmpGreaterThan,
				Right: ontology.Operand{Kind: ontology.OperandLiteral, Literal: ontology.IntValue(0)},
			}},
		})
	}
	snap := motionSnapshot(t, mutate)
	providers := rowProviders(t, testutil.TypePlains, testutil.TypePlains)
	eng := New(providers, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)
	assert.True(t, moves.Reachable(hex.Coord{Q: 1, R: 0}))
}

func TestEvaluateStep_TypeMismatchDeniesFailClosed(t *testing.T) {
	// Comparing the integer cost against a string literal cannot be
	// evaluated; the transition is denied, never silently allowed.
	mutate := func(s *ontology.Store) {
		s.PutConstraint(ontology.Constraint{
			ID: "Motion/bad-compare", ConceptID: testutil.ConceptMotion, Name: "bad-compare",
			Provenance: ontology.Provenance{Kind: ontology.ProvenanceManual},
			Expr: ontology.ConstraintExpr{Kind: ontology.ExprPropertyCompare, Compare: &ontology.PropertyCompare{
				Left:  ontology.Operand{Kind: ontology.OperandEnteredProperty, RoleID: testutil.RoleTerrain, Property: "movement_cost"},
				Op:    ontology.CmpEqual,
				Right: ontology.Operand{Kind: ontology.OperandLiteral, Literal: ontology.StringValue("one")},
			}},
		})
	}
	snap := motionSnapshot(t, mutate)
	providers := rowProviders(t, testutil.TypePlains, testutil.TypePlains)
	eng := New(providers, quiet)

	moves, err := eng.ComputeValidMoves(snap, testutil.TokenInfantry)
	require.NoError(t, err)

	reason, blocked := moves.Blocked(hex.Coord{Q: 1, R: 0})
	require.True(t, blocked)
	assert.Contains(t, reason, "constraint unevaluable: bad-compare")
}

func TestStrictlyBetter(t *testing.T) {
	tests := []struct {
		name      string
		next, old map[string]int64
		expected  bool
	}{
		{"strictly better", map[string]int64{"a": 2}, map[string]int64{"a": 1}, true},
		{"equal", map[string]int64{"a": 1}, map[string]int64{"a": 1}, false},
		{"worse", map[string]int64{"a": 0}, map[string]int64{"a": 1}, false},
		{"mixed", map[string]int64{"a": 2, "b": 0}, map[string]int64{"a": 1, "b": 1}, false},
		{"better on one, equal on other", map[string]int64{"a": 2, "b": 1}, map[string]int64{"a": 1, "b": 1}, true},
		{"both empty", map[string]int64{}, map[string]int64{}, false},
		{"missing key", map[string]int64{}, map[string]int64{"a": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, strictlyBetter(tt.next, tt.old))
		})
	}
}

func TestVerdictJSONShape(t *testing.T) {
	moves := &ValidMoveSet{
		TokenID: "inf-1",
		Start:   hex.Coord{Q: 0, R: 0},
		Positions: map[hex.Coord]Classification{
			{Q: 0, R: 0}: {State: StateReachable, Remaining: map[string]int64{"c1": 3}},
			{Q: 1, R: 0}: {State: StateBlocked, Reason: "no"},
		},
	}
	data, err := moves.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"positions":{"0,0":{"remaining":{"c1":3},"state":"reachable"},"1,0":{"reason":"no","state":"blocked"}},"start":"0,0","token_id":"inf-1"}`,
		string(data))
}
