package ontology

import "slices"

// Snapshot is a stable-ordered copy of the store's contents. Every consumer
// (deriver, validator, evaluator, move engine) reads a fresh snapshot, never
// the live maps, so back-to-back computations over the same edit state are
// deterministic and byte-reproducible.
//
// Ordering: concepts, roles, bindings, relations and manual constraints by
// id; constraints additionally keep manual entries before derived ones so
// reported denial reasons follow stable authoring order.
type Snapshot struct {
	Concepts    []Concept        `json:"concepts"`
	Roles       []ConceptRole    `json:"roles"`
	Bindings    []ConceptBinding `json:"bindings"`
	Relations   []Relation       `json:"relations"`
	Constraints []Constraint     `json:"constraints"`
}

// Snapshot copies the store into deterministic order.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{
		Concepts:    sortedValues(s.concepts, func(c Concept) string { return string(c.ID) }),
		Roles:       sortedValues(s.roles, func(r ConceptRole) string { return string(r.ID) }),
		Bindings:    sortedValues(s.bindings, func(b ConceptBinding) string { return string(b.ID) }),
		Relations:   sortedValues(s.relations, func(r Relation) string { return string(r.ID) }),
		Constraints: sortedValues(s.constraints, func(c Constraint) string { return string(c.ID) }),
	}
	// Manual before derived, id order within each group.
	slices.SortStableFunc(snap.Constraints, func(a, b Constraint) int {
		if a.Provenance.Kind != b.Provenance.Kind {
			if a.Provenance.Kind == ProvenanceManual {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return snap
}

// Concept looks up a concept in the snapshot.
func (s *Snapshot) Concept(id ConceptID) (Concept, bool) {
	return findByID(s.Concepts, func(c Concept) bool { return c.ID == id })
}

// Role looks up a role slot in the snapshot.
func (s *Snapshot) Role(id RoleID) (ConceptRole, bool) {
	return findByID(s.Roles, func(r ConceptRole) bool { return r.ID == id })
}

// Relation looks up a relation in the snapshot.
func (s *Snapshot) Relation(id RelationID) (Relation, bool) {
	return findByID(s.Relations, func(r Relation) bool { return r.ID == id })
}

// BindingsForRole returns the snapshot's bindings attached to the role, in
// snapshot (id) order.
func (s *Snapshot) BindingsForRole(role RoleID) []ConceptBinding {
	var out []ConceptBinding
	for _, b := range s.Bindings {
		if b.RoleID == role {
			out = append(out, b)
		}
	}
	return out
}

// BindingFor returns the binding attaching the given entity type to the role,
// if one exists.
func (s *Snapshot) BindingFor(role RoleID, entityType EntityTypeID) (ConceptBinding, bool) {
	for _, b := range s.Bindings {
		if b.RoleID == role && b.EntityTypeID == entityType {
			return b, true
		}
	}
	return ConceptBinding{}, false
}

func sortedValues[K comparable, V any](m map[K]V, key func(V) string) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b V) int {
		ka, kb := key(a), key(b)
		if ka < kb {
			return -1
		}
		if ka > kb {
			return 1
		}
		return 0
	})
	return out
}

func findByID[V any](items []V, match func(V) bool) (V, bool) {
	for _, v := range items {
		if match(v) {
			return v, true
		}
	}
	var zero V
	return zero, false
}
