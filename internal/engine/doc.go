// Package engine implements state validation: the constraint evaluator and
// the valid-move engine.
//
// The evaluator answers one question - is this single transition legal, and
// if not, why - by running every applicable relation and constraint against
// the proposed step. The move engine orchestrates a budget-bounded
// breadth-first search across the hex grid, consulting the evaluator at every
// candidate step, and classifies each position as reachable or blocked with a
// reason.
//
// ARCHITECTURE:
//
// Single-threaded, synchronous, request/response. Every computation reads a
// fresh ontology snapshot and the current board state; nothing here holds
// cross-call state, so back-to-back computations are independent and
// idempotent.
//
// Determinism:
//   - Constraints evaluated in stable authoring order (snapshot order);
//     the first denial's reason is the reported one.
//   - Hex neighbors enumerated in fixed direction order.
//   - ValidMoveSet marshals canonically, so recomputation over unchanged
//     inputs is byte-for-byte identical.
//
// Failure model:
//
// Fail-closed, never fail-open. A constraint that cannot be evaluated
// (missing binding, unresolved property, invalid ontology) denies the
// transition with an "unevaluable" reason instead of crashing or granting
// the move. There is no fatal error category: a malformed design degrades to
// "nothing reachable beyond start" so the consuming UI can always render.
package engine
