// Package schema validates the designer-authored ontology for internal
// consistency.
//
// Validation is advisory and design-time only: it collects every structural
// inconsistency into a report and never gates the move engine, which fails
// closed on its own at evaluation time. A design with zero errors is "valid".
package schema

import (
	"fmt"
	"strings"
)

// Category groups schema errors for the editor's validation panel.
type Category string

const (
	// CategoryDangling covers references to ids no longer present in the
	// store, including relation roles with no bound entity type.
	CategoryDangling Category = "dangling_reference"

	// CategoryRoleMismatch covers bindings whose entity type's role does not
	// satisfy the role slot's filter.
	CategoryRoleMismatch Category = "role_mismatch"

	// CategoryMissingBinding covers relations whose required role properties
	// have no property binding.
	CategoryMissingBinding Category = "missing_binding"
)

// Validation error codes (V100-V199).
const (
	// Dangling references (V101-V109)
	ErrConceptMissing    = "V101" // referenced concept id not in store
	ErrRoleMissing       = "V102" // referenced role id not in store
	ErrEntityTypeMissing = "V103" // referenced entity type unresolvable
	ErrRoleUnbound       = "V104" // relation role has no bound entity type
	ErrRelationMissing   = "V105" // derived constraint's origin relation gone

	// Role mismatches (V110-V119)
	ErrRoleFilterViolated = "V110" // entity type role does not satisfy filter

	// Missing bindings (V120-V129)
	ErrPropertyUnmapped = "V120" // binding lacks a required property mapping
	ErrNoBindingForRole = "V121" // required properties but no binding at all
)

// Error is one structural inconsistency in the design. Always non-fatal;
// the design stays editable regardless of error count.
type Error struct {
	Category Category `json:"category"`
	Code     string   `json:"code"`

	// Refs lists the offending ids, most specific first.
	Refs []string `json:"refs"`

	Message string `json:"message"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s (%s)", e.Code, e.Category, e.Message, strings.Join(e.Refs, ", "))
}
