package ontology

// Entity types and their instances are owned by the external schema and board
// providers, never by this core. The types below are the shape the providers
// hand back; the core holds only EntityTypeID references in its own tables.

// PropertyDef declares one property of an entity type.
type PropertyDef struct {
	Name string `json:"name"`
	Type string `json:"type"` // "int" | "string" | "bool"

	// Default is the value an instance starts with when the designer does
	// not override it. May be nil for no default.
	Default Value `json:"default,omitempty"`
}

// EntityTypeDef is a resolved entity type: its role classification plus its
// property schema.
type EntityTypeDef struct {
	ID         EntityTypeID  `json:"id"`
	Name       string        `json:"name"`
	Role       Role          `json:"role"`
	Properties []PropertyDef `json:"properties,omitempty"`
}

// HasProperty reports whether the type's schema declares the named property.
func (t *EntityTypeDef) HasProperty(name string) bool {
	for _, p := range t.Properties {
		if p.Name == name {
			return true
		}
	}
	return false
}

// EntityData is one entity instance: the type it instantiates and its current
// property values, keyed by the type's own property names.
type EntityData struct {
	TypeID EntityTypeID     `json:"type_id"`
	Values map[string]Value `json:"values,omitempty"`
}

// Value returns the instance's current value for a type-level property name.
func (e *EntityData) Value(name string) (Value, bool) {
	v, ok := e.Values[name]
	return v, ok
}
