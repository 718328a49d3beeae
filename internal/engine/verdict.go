package engine

import (
	"fmt"

	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

// Verdict is the outcome of evaluating one proposed transition.
type Verdict struct {
	Allowed bool `json:"allowed"`

	// Reason is set on deny: the denying relation's or constraint's
	// description, or an "unevaluable" explanation. Empty on allow.
	Reason string `json:"reason,omitempty"`

	// Remaining carries the post-step budget per path-budget constraint id.
	// Only set on allow; the move engine threads it through the search.
	Remaining map[string]int64 `json:"remaining,omitempty"`
}

// Allow builds an allowing verdict carrying the updated budgets.
func Allow(remaining map[string]int64) Verdict {
	return Verdict{Allowed: true, Remaining: remaining}
}

// Deny builds a denying verdict with the given reason.
func Deny(reason string) Verdict {
	return Verdict{Allowed: false, Reason: reason}
}

// Denyf builds a denying verdict with a formatted reason.
func Denyf(format string, args ...any) Verdict {
	return Deny(fmt.Sprintf(format, args...))
}

// State classifies a position in a ValidMoveSet.
type State string

const (
	StateReachable State = "reachable"
	StateBlocked   State = "blocked"
)

// Classification is the per-position entry of a ValidMoveSet.
type Classification struct {
	State State `json:"state"`

	// Reason is set only for blocked positions.
	Reason string `json:"reason,omitempty"`

	// Remaining is set only for reachable positions: the best remaining
	// budget per path-budget constraint id on arrival.
	Remaining map[string]int64 `json:"remaining,omitempty"`
}

// ValidMoveSet is the complete reachable/blocked classification for one token
// at one board state. It has no independent identity - it is always "the
// current answer for the current token" and is recomputed, never patched.
type ValidMoveSet struct {
	TokenID   string                       `json:"token_id"`
	Start     hex.Coord                    `json:"start"`
	Positions map[hex.Coord]Classification `json:"positions"`
}

// Reachable reports whether a position is classified reachable.
func (m *ValidMoveSet) Reachable(c hex.Coord) bool {
	cls, ok := m.Positions[c]
	return ok && cls.State == StateReachable
}

// Blocked returns the denial reason for a blocked position.
func (m *ValidMoveSet) Blocked(c hex.Coord) (string, bool) {
	cls, ok := m.Positions[c]
	if !ok || cls.State != StateBlocked {
		return "", false
	}
	return cls.Reason, true
}

// MarshalCanonical serializes the move set as canonical JSON. Position keys
// are "q,r" strings; canonical key ordering makes recomputation over
// unchanged inputs byte-for-byte identical.
func (m *ValidMoveSet) MarshalCanonical() ([]byte, error) {
	positions := make(map[string]any, len(m.Positions))
	for c, cls := range m.Positions {
		entry := map[string]any{"state": string(cls.State)}
		if cls.Reason != "" {
			entry["reason"] = cls.Reason
		}
		if len(cls.Remaining) > 0 {
			remaining := make(map[string]any, len(cls.Remaining))
			for id, v := range cls.Remaining {
				remaining[id] = v
			}
			entry["remaining"] = remaining
		}
		positions[c.String()] = entry
	}
	return ontology.MarshalCanonical(map[string]any{
		"token_id":  m.TokenID,
		"start":     m.Start.String(),
		"positions": positions,
	})
}
