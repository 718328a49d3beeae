package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

func testRegistry() *TypeRegistry {
	reg := NewTypeRegistry()
	reg.Register(ontology.EntityTypeDef{
		ID: "Plains", Name: "Plains", Role: ontology.RoleBoardPosition,
		Properties: []ontology.PropertyDef{
			{Name: "movement_cost", Type: "int", Default: ontology.IntValue(1)},
		},
	})
	reg.Register(ontology.EntityTypeDef{
		ID: "Infantry", Name: "Infantry", Role: ontology.RoleToken,
		Properties: []ontology.PropertyDef{
			{Name: "movement_budget", Type: "int", Default: ontology.IntValue(3)},
			{Name: "callsign", Type: "string"},
		},
	})
	return reg
}

func TestRegistryLookup(t *testing.T) {
	reg := testRegistry()

	def, ok := reg.EntityType("Plains")
	require.True(t, ok)
	assert.Equal(t, ontology.RoleBoardPosition, def.Role)
	assert.True(t, def.HasProperty("movement_cost"))
	assert.False(t, def.HasProperty("altitude"))

	_, ok = reg.EntityType("Lava")
	assert.False(t, ok)
}

func TestPlaceAppliesDefaults(t *testing.T) {
	b := NewBoard(testRegistry())
	require.NoError(t, b.Place(hex.Coord{Q: 0, R: 0}, "Plains", nil))

	data, ok := b.At(hex.Coord{Q: 0, R: 0})
	require.True(t, ok)
	v, ok := data.Value("movement_cost")
	require.True(t, ok)
	assert.Equal(t, ontology.IntValue(1), v)
}

func TestPlaceOverridesDefaults(t *testing.T) {
	b := NewBoard(testRegistry())
	err := b.Place(hex.Coord{Q: 1, R: 0}, "Plains", map[string]ontology.Value{
		"movement_cost": ontology.IntValue(4),
	})
	require.NoError(t, err)

	data, _ := b.At(hex.Coord{Q: 1, R: 0})
	v, _ := data.Value("movement_cost")
	assert.Equal(t, ontology.IntValue(4), v)
}

func TestPlaceUnknownType(t *testing.T) {
	b := NewBoard(testRegistry())
	err := b.Place(hex.Coord{Q: 0, R: 0}, "Lava", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown entity type "Lava"`)
}

func TestTokenLifecycle(t *testing.T) {
	b := NewBoard(testRegistry())
	start := hex.Coord{Q: 0, R: 0}
	require.NoError(t, b.PlaceToken("inf-1", "Infantry", start, nil))

	data, ok := b.Token("inf-1")
	require.True(t, ok)
	v, _ := data.Value("movement_budget")
	assert.Equal(t, ontology.IntValue(3), v)

	// A property without a default has no instance value.
	_, ok = data.Value("callsign")
	assert.False(t, ok)

	pos, ok := b.TokenPosition("inf-1")
	require.True(t, ok)
	assert.Equal(t, start, pos)

	require.NoError(t, b.MoveToken("inf-1", hex.Coord{Q: 1, R: 0}))
	pos, _ = b.TokenPosition("inf-1")
	assert.Equal(t, hex.Coord{Q: 1, R: 0}, pos)
}

func TestMoveUnknownToken(t *testing.T) {
	b := NewBoard(testRegistry())
	err := b.MoveToken("ghost", hex.Coord{Q: 0, R: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown token "ghost"`)
}

func TestEmptyHex(t *testing.T) {
	b := NewBoard(testRegistry())
	_, ok := b.At(hex.Coord{Q: 5, R: 5})
	assert.False(t, ok)
}
