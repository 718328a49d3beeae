package schema

import (
	"fmt"

	"github.com/roach88/gridwright/internal/ontology"
)

// TypeResolver resolves externally-owned entity types by id. Implemented by
// the board package's TypeRegistry in production and by fakes in tests.
type TypeResolver interface {
	EntityType(id ontology.EntityTypeID) (ontology.EntityTypeDef, bool)
}

// Validate walks a full ontology snapshot (derived constraints included) and
// reports every structural inconsistency.
//
// All checks run; the validator never short-circuits. Output order is
// deterministic: snapshot table order (concepts, roles, bindings, relations,
// constraints), id order within each table, check order within each entry.
// Re-validating an unchanged snapshot yields an identical report.
func Validate(snap *ontology.Snapshot, types TypeResolver) []Error {
	var errs []Error
	errs = append(errs, checkConcepts(snap)...)
	errs = append(errs, checkRoles(snap)...)
	errs = append(errs, checkBindings(snap, types)...)
	errs = append(errs, checkRelations(snap)...)
	errs = append(errs, checkConstraints(snap)...)
	return errs
}

func checkConcepts(snap *ontology.Snapshot) []Error {
	var errs []Error
	for _, c := range snap.Concepts {
		for _, roleID := range c.Roles {
			if _, ok := snap.Role(roleID); !ok {
				errs = append(errs, dangling(ErrRoleMissing,
					fmt.Sprintf("concept %q lists role %s which no longer exists", c.Name, roleID),
					string(c.ID), string(roleID)))
			}
		}
	}
	return errs
}

func checkRoles(snap *ontology.Snapshot) []Error {
	var errs []Error
	for _, r := range snap.Roles {
		if _, ok := snap.Concept(r.ConceptID); !ok {
			errs = append(errs, dangling(ErrConceptMissing,
				fmt.Sprintf("role %q belongs to concept %s which no longer exists", r.Name, r.ConceptID),
				string(r.ID), string(r.ConceptID)))
		}
	}
	return errs
}

func checkBindings(snap *ontology.Snapshot, types TypeResolver) []Error {
	var errs []Error
	for _, b := range snap.Bindings {
		if _, ok := snap.Concept(b.ConceptID); !ok {
			errs = append(errs, dangling(ErrConceptMissing,
				fmt.Sprintf("binding references concept %s which no longer exists", b.ConceptID),
				string(b.ID), string(b.ConceptID)))
		}

		role, roleOK := snap.Role(b.RoleID)
		if !roleOK {
			errs = append(errs, dangling(ErrRoleMissing,
				fmt.Sprintf("binding references role %s which no longer exists", b.RoleID),
				string(b.ID), string(b.RoleID)))
		}

		def, typeOK := types.EntityType(b.EntityTypeID)
		if !typeOK {
			errs = append(errs, dangling(ErrEntityTypeMissing,
				fmt.Sprintf("binding references entity type %s which cannot be resolved", b.EntityTypeID),
				string(b.ID), string(b.EntityTypeID)))
		}

		// A resolved role's declared property list is a contract every
		// binding in that slot must honor, whether or not a relation
		// currently reads the property.
		if roleOK {
			for _, prop := range role.Properties {
				if _, ok := b.Property(prop); !ok {
					errs = append(errs, Error{
						Category: CategoryMissingBinding,
						Code:     ErrPropertyUnmapped,
						Refs:     []string{string(b.ID), string(b.RoleID)},
						Message: fmt.Sprintf("role %q declares property %q but binding %s does not map it",
							role.Name, prop, b.ID),
					})
				}
			}
		}

		// Filter check needs both sides resolved; the dangling errors above
		// already cover the unresolved cases.
		if roleOK && typeOK && def.Role != role.Filter {
			errs = append(errs, Error{
				Category: CategoryRoleMismatch,
				Code:     ErrRoleFilterViolated,
				Refs:     []string{string(b.ID), string(b.EntityTypeID), string(b.RoleID)},
				Message: fmt.Sprintf("entity type %q is a %s but role %q only accepts %s",
					def.Name, def.Role, role.Name, role.Filter),
			})
		}
	}
	return errs
}

func checkRelations(snap *ontology.Snapshot) []Error {
	var errs []Error
	for _, rel := range snap.Relations {
		if _, ok := snap.Concept(rel.ConceptID); !ok {
			errs = append(errs, dangling(ErrConceptMissing,
				fmt.Sprintf("relation %q references concept %s which no longer exists", rel.Name, rel.ConceptID),
				string(rel.ID), string(rel.ConceptID)))
		}

		required := rel.RequiredProperties()

		for _, roleID := range []ontology.RoleID{rel.SubjectRole, rel.ObjectRole} {
			if _, ok := snap.Role(roleID); !ok {
				errs = append(errs, dangling(ErrRoleMissing,
					fmt.Sprintf("relation %q references role %s which no longer exists", rel.Name, roleID),
					string(rel.ID), string(roleID)))
				continue
			}

			bindings := snap.BindingsForRole(roleID)
			props := required[roleID]

			if len(bindings) == 0 {
				if len(props) > 0 {
					// The relation needs property values from this role but
					// nothing is bound to supply them.
					errs = append(errs, Error{
						Category: CategoryMissingBinding,
						Code:     ErrNoBindingForRole,
						Refs:     []string{string(rel.ID), string(roleID)},
						Message: fmt.Sprintf("relation %q requires properties %v on role %s but no binding provides them",
							rel.Name, props, roleID),
					})
				} else {
					// No properties needed, but an unbound role still means
					// the relation can never apply to anything.
					errs = append(errs, dangling(ErrRoleUnbound,
						fmt.Sprintf("relation %q references role %s which has no bound entity type", rel.Name, roleID),
						string(rel.ID), string(roleID)))
				}
				continue
			}

			for _, b := range bindings {
				for _, prop := range props {
					if _, ok := b.Property(prop); !ok {
						errs = append(errs, Error{
							Category: CategoryMissingBinding,
							Code:     ErrPropertyUnmapped,
							Refs:     []string{string(rel.ID), string(b.ID)},
							Message: fmt.Sprintf("relation %q requires property %q on role %s but binding %s does not map it",
								rel.Name, prop, roleID, b.ID),
						})
					}
				}
			}
		}
	}
	return errs
}

func checkConstraints(snap *ontology.Snapshot) []Error {
	var errs []Error
	for _, c := range snap.Constraints {
		if _, ok := snap.Concept(c.ConceptID); !ok {
			errs = append(errs, dangling(ErrConceptMissing,
				fmt.Sprintf("constraint %q references concept %s which no longer exists", c.Name, c.ConceptID),
				string(c.ID), string(c.ConceptID)))
		}
		for _, roleID := range constraintRoleRefs(c) {
			if _, ok := snap.Role(roleID); !ok {
				errs = append(errs, dangling(ErrRoleMissing,
					fmt.Sprintf("constraint %q references role %s which no longer exists", c.Name, roleID),
					string(c.ID), string(roleID)))
			}
		}
		if c.Derived() {
			if _, ok := snap.Relation(c.Provenance.RelationID); !ok {
				errs = append(errs, dangling(ErrRelationMissing,
					fmt.Sprintf("derived constraint %q originates from relation %s which no longer exists", c.Name, c.Provenance.RelationID),
					string(c.ID), string(c.Provenance.RelationID)))
			}
		}
	}
	return errs
}

// constraintRoleRefs lists the role ids a constraint expression references,
// in expression order.
func constraintRoleRefs(c ontology.Constraint) []ontology.RoleID {
	var roles []ontology.RoleID
	switch c.Expr.Kind {
	case ontology.ExprPropertyCompare:
		if c.Expr.Compare == nil {
			return nil
		}
		for _, op := range []ontology.Operand{c.Expr.Compare.Left, c.Expr.Compare.Right} {
			if op.Kind != ontology.OperandLiteral && op.RoleID != "" {
				roles = append(roles, op.RoleID)
			}
		}
	case ontology.ExprPathBudget:
		if c.Expr.Budget == nil {
			return nil
		}
		roles = append(roles, c.Expr.Budget.MoverRole, c.Expr.Budget.TerrainRole)
	}
	return roles
}

func dangling(code, message string, refs ...string) Error {
	return Error{
		Category: CategoryDangling,
		Code:     code,
		Refs:     refs,
		Message:  message,
	}
}
