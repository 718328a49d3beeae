// Package ontology provides the designer-authored rule model and its store.
//
// This package contains the foundational data types (concepts, role slots,
// bindings, relations, constraints) plus the identity-keyed Store that holds
// them. All other internal packages import ontology; ontology imports nothing
// internal. This keeps the model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - NO float types anywhere in property values - use int64 for numbers
//     (floats break deterministic comparison and content hashing)
//   - All cross-references are ids resolved by lookup, never embedded structs,
//     so dangling references are representable and cheap to detect
//   - The Store performs no validation; editing passes through transient
//     invalid states and the schema validator reports on them
//   - All JSON tags use snake_case
package ontology
