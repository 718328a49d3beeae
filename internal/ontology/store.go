package ontology

import "slices"

// Store holds the designer-authored model in identity-keyed tables.
//
// The store performs NO validation: editing passes through transient invalid
// states (dangling references, missing bindings), and the schema validator
// reports on whatever is present. Secondary indexes answer "everything
// referencing role X" without full scans; they are maintained on every write.
//
// The store is mutated only by the external editor and the constraint
// deriver. All reads hand out copies or stable-ordered snapshots; callers
// never see internal maps.
type Store struct {
	concepts    map[ConceptID]Concept
	roles       map[RoleID]ConceptRole
	bindings    map[BindingID]ConceptBinding
	relations   map[RelationID]Relation
	constraints map[ConstraintID]Constraint

	// Role-reference indexes: role id -> referencing ids.
	relationsByRole   map[RoleID]map[RelationID]struct{}
	bindingsByRole    map[RoleID]map[BindingID]struct{}
	constraintsByRole map[RoleID]map[ConstraintID]struct{}
}

// NewStore creates an empty ontology store.
func NewStore() *Store {
	return &Store{
		concepts:          make(map[ConceptID]Concept),
		roles:             make(map[RoleID]ConceptRole),
		bindings:          make(map[BindingID]ConceptBinding),
		relations:         make(map[RelationID]Relation),
		constraints:       make(map[ConstraintID]Constraint),
		relationsByRole:   make(map[RoleID]map[RelationID]struct{}),
		bindingsByRole:    make(map[RoleID]map[BindingID]struct{}),
		constraintsByRole: make(map[RoleID]map[ConstraintID]struct{}),
	}
}

// PutConcept inserts or replaces a concept.
func (s *Store) PutConcept(c Concept) {
	s.concepts[c.ID] = c
}

// Concept looks up a concept by id.
func (s *Store) Concept(id ConceptID) (Concept, bool) {
	c, ok := s.concepts[id]
	return c, ok
}

// RemoveConcept deletes a concept. Roles, bindings and relations referencing
// it are left in place; the schema validator reports them as dangling.
func (s *Store) RemoveConcept(id ConceptID) {
	delete(s.concepts, id)
}

// PutRole inserts or replaces a role slot.
func (s *Store) PutRole(r ConceptRole) {
	s.roles[r.ID] = r
}

// Role looks up a role slot by id.
func (s *Store) Role(id RoleID) (ConceptRole, bool) {
	r, ok := s.roles[id]
	return r, ok
}

// RemoveRole deletes a role slot, leaving referencing entries dangling.
func (s *Store) RemoveRole(id RoleID) {
	delete(s.roles, id)
}

// PutBinding inserts or replaces a concept binding and updates the role
// index.
func (s *Store) PutBinding(b ConceptBinding) {
	if old, ok := s.bindings[b.ID]; ok {
		s.unindexBinding(old)
	}
	s.bindings[b.ID] = b
	addIndex(s.bindingsByRole, b.RoleID, b.ID)
}

// Binding looks up a binding by id.
func (s *Store) Binding(id BindingID) (ConceptBinding, bool) {
	b, ok := s.bindings[id]
	return b, ok
}

// RemoveBinding deletes a binding.
func (s *Store) RemoveBinding(id BindingID) {
	if b, ok := s.bindings[id]; ok {
		s.unindexBinding(b)
		delete(s.bindings, id)
	}
}

// PutRelation inserts or replaces a relation and updates the role indexes.
func (s *Store) PutRelation(r Relation) {
	if old, ok := s.relations[r.ID]; ok {
		s.unindexRelation(old)
	}
	s.relations[r.ID] = r
	addIndex(s.relationsByRole, r.SubjectRole, r.ID)
	addIndex(s.relationsByRole, r.ObjectRole, r.ID)
}

// Relation looks up a relation by id.
func (s *Store) Relation(id RelationID) (Relation, bool) {
	r, ok := s.relations[id]
	return r, ok
}

// RemoveRelation deletes a relation. Constraints derived from it stay until
// the next derivation pass regenerates the derived set.
func (s *Store) RemoveRelation(id RelationID) {
	if r, ok := s.relations[id]; ok {
		s.unindexRelation(r)
		delete(s.relations, id)
	}
}

// PutConstraint inserts or replaces a constraint and updates the role
// indexes.
func (s *Store) PutConstraint(c Constraint) {
	if old, ok := s.constraints[c.ID]; ok {
		s.unindexConstraint(old)
	}
	s.constraints[c.ID] = c
	for _, role := range constraintRoles(c) {
		addIndex(s.constraintsByRole, role, c.ID)
	}
}

// Constraint looks up a constraint by id.
func (s *Store) Constraint(id ConstraintID) (Constraint, bool) {
	c, ok := s.constraints[id]
	return c, ok
}

// RemoveConstraint deletes a constraint.
func (s *Store) RemoveConstraint(id ConstraintID) {
	if c, ok := s.constraints[id]; ok {
		s.unindexConstraint(c)
		delete(s.constraints, id)
	}
}

// RemoveDerivedConstraints deletes every constraint derived from the given
// relation. Used by the deriver when regenerating.
func (s *Store) RemoveDerivedConstraints(rel RelationID) {
	for id, c := range s.constraints {
		if c.Provenance.Kind == ProvenanceDerived && c.Provenance.RelationID == rel {
			s.unindexConstraint(c)
			delete(s.constraints, id)
		}
	}
}

// RelationsForRole returns the relations referencing the role, sorted by id.
func (s *Store) RelationsForRole(role RoleID) []Relation {
	ids := sortedIndex(s.relationsByRole[role])
	out := make([]Relation, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.relations[id])
	}
	return out
}

// BindingsForRole returns the bindings attached to the role, sorted by id.
func (s *Store) BindingsForRole(role RoleID) []ConceptBinding {
	ids := sortedIndex(s.bindingsByRole[role])
	out := make([]ConceptBinding, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.bindings[id])
	}
	return out
}

// ConstraintsForRole returns the constraints whose expressions reference the
// role, sorted by id.
func (s *Store) ConstraintsForRole(role RoleID) []Constraint {
	ids := sortedIndex(s.constraintsByRole[role])
	out := make([]Constraint, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.constraints[id])
	}
	return out
}

func (s *Store) unindexBinding(b ConceptBinding) {
	dropIndex(s.bindingsByRole, b.RoleID, b.ID)
}

func (s *Store) unindexRelation(r Relation) {
	dropIndex(s.relationsByRole, r.SubjectRole, r.ID)
	dropIndex(s.relationsByRole, r.ObjectRole, r.ID)
}

func (s *Store) unindexConstraint(c Constraint) {
	for _, role := range constraintRoles(c) {
		dropIndex(s.constraintsByRole, role, c.ID)
	}
}

// constraintRoles lists the role ids a constraint's expression references.
func constraintRoles(c Constraint) []RoleID {
	var roles []RoleID
	switch c.Expr.Kind {
	case ExprPropertyCompare:
		if c.Expr.Compare == nil {
			return nil
		}
		for _, op := range []Operand{c.Expr.Compare.Left, c.Expr.Compare.Right} {
			if op.Kind != OperandLiteral && op.RoleID != "" {
				roles = append(roles, op.RoleID)
			}
		}
	case ExprPathBudget:
		if c.Expr.Budget == nil {
			return nil
		}
		roles = append(roles, c.Expr.Budget.MoverRole, c.Expr.Budget.TerrainRole)
	}
	return roles
}

func addIndex[K comparable, V comparable](idx map[K]map[V]struct{}, key K, val V) {
	set, ok := idx[key]
	if !ok {
		set = make(map[V]struct{})
		idx[key] = set
	}
	set[val] = struct{}{}
}

func dropIndex[K comparable, V comparable](idx map[K]map[V]struct{}, key K, val V) {
	if set, ok := idx[key]; ok {
		delete(set, val)
		if len(set) == 0 {
			delete(idx, key)
		}
	}
}

func sortedIndex[V ~string](set map[V]struct{}) []V {
	out := make([]V, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
