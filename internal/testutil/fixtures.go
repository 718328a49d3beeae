// Package testutil provides deterministic fixtures shared across test
// packages: a standard movement ontology (Infantry/Plains/Forest/Water bound
// to a Motion concept) and board builders.
//
// All ids are fixed strings matching the design compiler's naming convention
// (concept, "concept/role", "concept/role/type"), so fixture-based tests and
// compiled-design tests produce comparable reports.
package testutil

import (
	"fmt"

	"github.com/roach88/gridwright/internal/board"
	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

// Fixture ids.
const (
	TypeInfantry = ontology.EntityTypeID("Infantry")
	TypePlains   = ontology.EntityTypeID("Plains")
	TypeForest   = ontology.EntityTypeID("Forest")
	TypeWater    = ontology.EntityTypeID("Water")

	ConceptMotion = ontology.ConceptID("Motion")
	RoleMover     = ontology.RoleID("Motion/Mover")
	RoleTerrain   = ontology.RoleID("Motion/Terrain")
	RoleWet       = ontology.RoleID("Motion/Wet")

	BindingInfantry = ontology.BindingID("Motion/Mover/Infantry")
	BindingPlains   = ontology.BindingID("Motion/Terrain/Plains")
	BindingForest   = ontology.BindingID("Motion/Terrain/Forest")
	BindingWater    = ontology.BindingID("Motion/Terrain/Water")
	BindingWet      = ontology.BindingID("Motion/Wet/Water")

	RelationMarch  = ontology.RelationID("Motion/march")
	RelationNoSwim = ontology.RelationID("Motion/no-swim")

	TokenInfantry = "inf-1"
)

// WaterBlockReason is the authored description of the no-swim relation.
const WaterBlockReason = "Cannot enter Water"

// Registry builds the standard entity type registry: Infantry tokens with a
// movement budget, and three terrains with per-step movement costs.
func Registry() *board.TypeRegistry {
	reg := board.NewTypeRegistry()
	reg.Register(ontology.EntityTypeDef{
		ID: TypeInfantry, Name: "Infantry", Role: ontology.RoleToken,
		Properties: []ontology.PropertyDef{
			{Name: "movement_budget", Type: "int", Default: ontology.IntValue(3)},
		},
	})
	reg.Register(ontology.EntityTypeDef{
		ID: TypePlains, Name: "Plains", Role: ontology.RoleBoardPosition,
		Properties: []ontology.PropertyDef{
			{Name: "movement_cost", Type: "int", Default: ontology.IntValue(1)},
		},
	})
	reg.Register(ontology.EntityTypeDef{
		ID: TypeForest, Name: "Forest", Role: ontology.RoleBoardPosition,
		Properties: []ontology.PropertyDef{
			{Name: "movement_cost", Type: "int", Default: ontology.IntValue(2)},
		},
	})
	reg.Register(ontology.EntityTypeDef{
		ID: TypeWater, Name: "Water", Role: ontology.RoleBoardPosition,
		Properties: []ontology.PropertyDef{
			{Name: "movement_cost", Type: "int", Default: ontology.IntValue(1)},
		},
	})
	return reg
}

// MotionOntology builds the standard Motion concept: Mover/Terrain roles,
// bindings for all four fixture types, and the cumulative-subtract march
// relation the deriver turns into a path budget. The no-swim Block relation
// is NOT included; tests add it via PutNoSwim when they need it.
func MotionOntology() *ontology.Store {
	s := ontology.NewStore()

	s.PutConcept(ontology.Concept{
		ID: ConceptMotion, Name: "Motion",
		Description: "Token movement over terrain",
		Roles:       []ontology.RoleID{RoleMover, RoleTerrain},
	})
	s.PutRole(ontology.ConceptRole{
		ID: RoleMover, ConceptID: ConceptMotion, Name: "Mover",
		Filter:     ontology.RoleToken,
		Properties: []string{"movement_budget"},
	})
	s.PutRole(ontology.ConceptRole{
		ID: RoleTerrain, ConceptID: ConceptMotion, Name: "Terrain",
		Filter:     ontology.RoleBoardPosition,
		Properties: []string{"movement_cost"},
	})

	s.PutBinding(ontology.ConceptBinding{
		ID: BindingInfantry, ConceptID: ConceptMotion, RoleID: RoleMover,
		EntityTypeID: TypeInfantry,
		Properties:   map[string]string{"movement_budget": "movement_budget"},
	})
	for _, t := range []struct {
		id  ontology.BindingID
		typ ontology.EntityTypeID
	}{
		{BindingPlains, TypePlains},
		{BindingForest, TypeForest},
		{BindingWater, TypeWater},
	} {
		s.PutBinding(ontology.ConceptBinding{
			ID: t.id, ConceptID: ConceptMotion, RoleID: RoleTerrain,
			EntityTypeID: t.typ,
			Properties:   map[string]string{"movement_cost": "movement_cost"},
		})
	}

	s.PutRelation(MarchRelation())
	return s
}

// MarchRelation is the cumulative-subtract movement relation.
func MarchRelation() ontology.Relation {
	return ontology.Relation{
		ID: RelationMarch, ConceptID: ConceptMotion, Name: "march",
		Description: "Moving costs movement budget",
		SubjectRole: RoleMover, ObjectRole: RoleTerrain,
		Trigger: ontology.TriggerOnEnter,
		Effect: ontology.Effect{
			Kind:      ontology.EffectModifyProperty,
			Operation: ontology.OpSubtract,
			Target:    "movement_budget",
			Magnitude: "movement_cost",
		},
	}
}

// PutNoSwim adds a Block relation denying entry onto Water. The relation
// targets a Wet role bound only to the Water type, so every other terrain
// stays enterable.
func PutNoSwim(s *ontology.Store) {
	s.PutRole(ontology.ConceptRole{
		ID: RoleWet, ConceptID: ConceptMotion, Name: "Wet",
		Filter: ontology.RoleBoardPosition,
	})
	s.PutBinding(ontology.ConceptBinding{
		ID: BindingWet, ConceptID: ConceptMotion, RoleID: RoleWet,
		EntityTypeID: TypeWater,
	})
	s.PutRelation(ontology.Relation{
		ID: RelationNoSwim, ConceptID: ConceptMotion, Name: "no-swim",
		Description: WaterBlockReason,
		SubjectRole: RoleMover, ObjectRole: RoleWet,
		Trigger: ontology.TriggerOnEnter,
		Effect:  ontology.Effect{Kind: ontology.EffectBlock},
	})
}

// RowBoard builds a 1-row grid of the given terrain types with an Infantry
// token at hex 0,0. Terrain instance values come from type defaults.
func RowBoard(reg *board.TypeRegistry, cells ...ontology.EntityTypeID) (*hex.Grid, *board.Board, error) {
	grid := hex.NewGrid(len(cells), 1)
	b := board.NewBoard(reg)
	for q, t := range cells {
		if err := b.Place(hex.Coord{Q: q, R: 0}, t, nil); err != nil {
			return nil, nil, fmt.Errorf("row board: %w", err)
		}
	}
	if err := b.PlaceToken(TokenInfantry, TypeInfantry, hex.Coord{Q: 0, R: 0}, nil); err != nil {
		return nil, nil, fmt.Errorf("row board: %w", err)
	}
	return grid, b, nil
}

// FillBoard builds a width x height grid uniformly covered with one terrain
// type and an Infantry token at the given start.
func FillBoard(reg *board.TypeRegistry, width, height int, terrain ontology.EntityTypeID, start hex.Coord) (*hex.Grid, *board.Board, error) {
	grid := hex.NewGrid(width, height)
	b := board.NewBoard(reg)
	for _, c := range grid.All() {
		if err := b.Place(c, terrain, nil); err != nil {
			return nil, nil, fmt.Errorf("fill board: %w", err)
		}
	}
	if err := b.PlaceToken(TokenInfantry, TypeInfantry, start, nil); err != nil {
		return nil, nil, fmt.Errorf("fill board: %w", err)
	}
	return grid, b, nil
}
