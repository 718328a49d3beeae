// Package board implements the entity-schema and board-state collaborators
// the rule core consumes: a registry of designer-defined entity types and a
// concrete board holding terrain entities and tokens.
//
// The rule core references everything here by id only; the registry and board
// own the actual definitions and instance values.
package board

import (
	"fmt"

	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

// TypeRegistry resolves entity types by id. It is the externally-owned
// property schema the rule core consumes.
type TypeRegistry struct {
	types map[ontology.EntityTypeID]ontology.EntityTypeDef
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[ontology.EntityTypeID]ontology.EntityTypeDef)}
}

// Register inserts or replaces an entity type definition.
func (r *TypeRegistry) Register(def ontology.EntityTypeDef) {
	r.types[def.ID] = def
}

// EntityType resolves a type by id.
func (r *TypeRegistry) EntityType(id ontology.EntityTypeID) (ontology.EntityTypeDef, bool) {
	def, ok := r.types[id]
	return def, ok
}

// Board holds the current game state: which terrain entity occupies each hex
// and where each token sits. It satisfies the move engine's board provider
// contract.
type Board struct {
	registry  *TypeRegistry
	positions map[hex.Coord]*ontology.EntityData
	tokens    map[string]*tokenState
}

type tokenState struct {
	data *ontology.EntityData
	pos  hex.Coord
}

// NewBoard creates an empty board over the given type registry.
func NewBoard(registry *TypeRegistry) *Board {
	return &Board{
		registry:  registry,
		positions: make(map[hex.Coord]*ontology.EntityData),
		tokens:    make(map[string]*tokenState),
	}
}

// Place sets the terrain entity occupying a hex. Instance values start from
// the type's property defaults, overridden by values.
func (b *Board) Place(c hex.Coord, typeID ontology.EntityTypeID, values map[string]ontology.Value) error {
	data, err := b.instantiate(typeID, values)
	if err != nil {
		return fmt.Errorf("place %s: %w", c, err)
	}
	b.positions[c] = data
	return nil
}

// PlaceToken puts a token on the board at the given hex.
func (b *Board) PlaceToken(id string, typeID ontology.EntityTypeID, at hex.Coord, values map[string]ontology.Value) error {
	data, err := b.instantiate(typeID, values)
	if err != nil {
		return fmt.Errorf("place token %s: %w", id, err)
	}
	b.tokens[id] = &tokenState{data: data, pos: at}
	return nil
}

// MoveToken updates a token's position. Legality is the rule core's business,
// not the board's.
func (b *Board) MoveToken(id string, to hex.Coord) error {
	t, ok := b.tokens[id]
	if !ok {
		return fmt.Errorf("move token: unknown token %q", id)
	}
	t.pos = to
	return nil
}

// At returns the terrain entity occupying a hex.
func (b *Board) At(c hex.Coord) (*ontology.EntityData, bool) {
	data, ok := b.positions[c]
	return data, ok
}

// Token returns a token's entity data by id.
func (b *Board) Token(id string) (*ontology.EntityData, bool) {
	t, ok := b.tokens[id]
	if !ok {
		return nil, false
	}
	return t.data, true
}

// TokenPosition returns a token's current hex.
func (b *Board) TokenPosition(id string) (hex.Coord, bool) {
	t, ok := b.tokens[id]
	if !ok {
		return hex.Coord{}, false
	}
	return t.pos, true
}

// instantiate builds entity data from the type's defaults plus overrides.
func (b *Board) instantiate(typeID ontology.EntityTypeID, values map[string]ontology.Value) (*ontology.EntityData, error) {
	def, ok := b.registry.EntityType(typeID)
	if !ok {
		return nil, fmt.Errorf("unknown entity type %q", typeID)
	}
	merged := make(map[string]ontology.Value, len(def.Properties)+len(values))
	for _, p := range def.Properties {
		if p.Default != nil {
			merged[p.Name] = p.Default
		}
	}
	for name, v := range values {
		merged[name] = v
	}
	return &ontology.EntityData{TypeID: typeID, Values: merged}, nil
}
