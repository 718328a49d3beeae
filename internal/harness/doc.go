// Package harness provides a conformance testing framework for the rule
// core.
//
// Scenarios are YAML documents that describe a complete, self-contained
// design (entity types, one concept with roles, bindings, relations,
// constraints) plus a board and a selected token. The runner feeds the
// scenario through the real pipeline - constraint derivation, schema
// validation, valid-move computation - and checks the scenario's assertions
// against the outcome.
//
// Two comparison mechanisms:
//   - Assertions: targeted reachable/blocked/absent/schema-error checks,
//     good for pinpointing a single behavior.
//   - Golden snapshots: the full canonical-JSON ValidMoveSet compared
//     byte-for-byte against a committed golden file, good for catching any
//     drift in classification or determinism.
package harness
