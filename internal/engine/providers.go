package engine

import (
	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

// GridProvider supplies hex adjacency. Implemented by hex.Grid in production.
type GridProvider interface {
	// Neighbors returns the in-bounds neighbors of a position in a fixed,
	// deterministic order (fewer than six at grid edges).
	Neighbors(c hex.Coord) []hex.Coord

	// Adjacent reports whether two in-bounds positions are one step apart.
	Adjacent(a, b hex.Coord) bool

	// Contains reports whether a position lies inside the grid.
	Contains(c hex.Coord) bool
}

// BoardProvider supplies current board state. Implemented by board.Board.
type BoardProvider interface {
	// At returns the terrain entity occupying a position.
	At(c hex.Coord) (*ontology.EntityData, bool)

	// Token returns a token's entity data by id.
	Token(id string) (*ontology.EntityData, bool)

	// TokenPosition returns a token's current position.
	TokenPosition(id string) (hex.Coord, bool)
}

// TypeResolver resolves externally-owned entity types by id. Implemented by
// board.TypeRegistry.
type TypeResolver interface {
	EntityType(id ontology.EntityTypeID) (ontology.EntityTypeDef, bool)
}

// Providers bundles the three collaborators every evaluation needs.
type Providers struct {
	Grid  GridProvider
	Board BoardProvider
	Types TypeResolver
}
