package harness

import (
	"fmt"

	"github.com/roach88/gridwright/internal/engine"
	"github.com/roach88/gridwright/internal/hex"
)

// EvaluateAssertions checks every assertion against the pipeline outcome and
// returns one message per failure. All assertions run; nothing short-circuits.
func EvaluateAssertions(a Assertions, r *Result) []string {
	var failures []string

	if a.SchemaErrors != nil && len(r.SchemaErrors) != *a.SchemaErrors {
		failures = append(failures, fmt.Sprintf(
			"expected %d schema errors, got %d: %v",
			*a.SchemaErrors, len(r.SchemaErrors), r.SchemaErrors))
	}

	if r.Moves == nil {
		if len(a.Reachable)+len(a.Blocked)+len(a.Absent) > 0 {
			failures = append(failures, "no move set computed, cannot check position assertions")
		}
		return failures
	}

	for _, c := range a.Reachable {
		at := hex.Coord{Q: c.Q, R: c.R}
		cls, ok := r.Moves.Positions[at]
		switch {
		case !ok:
			failures = append(failures, fmt.Sprintf("position %s: expected reachable, absent from move set", at))
		case cls.State != engine.StateReachable:
			failures = append(failures, fmt.Sprintf("position %s: expected reachable, got %s (%s)", at, cls.State, cls.Reason))
		}
	}

	for _, b := range a.Blocked {
		at := hex.Coord{Q: b.Q, R: b.R}
		cls, ok := r.Moves.Positions[at]
		switch {
		case !ok:
			failures = append(failures, fmt.Sprintf("position %s: expected blocked, absent from move set", at))
		case cls.State != engine.StateBlocked:
			failures = append(failures, fmt.Sprintf("position %s: expected blocked, got %s", at, cls.State))
		case b.Reason != "" && cls.Reason != b.Reason:
			failures = append(failures, fmt.Sprintf("position %s: expected reason %q, got %q", at, b.Reason, cls.Reason))
		}
	}

	for _, c := range a.Absent {
		at := hex.Coord{Q: c.Q, R: c.R}
		if cls, ok := r.Moves.Positions[at]; ok {
			failures = append(failures, fmt.Sprintf("position %s: expected absent, classified %s", at, cls.State))
		}
	}

	return failures
}
