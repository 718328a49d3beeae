package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/gridwright/internal/hex"
	"github.com/roach88/gridwright/internal/ontology"
)

// Engine computes complete valid-move classifications. It is stateless
// across calls: every computation reads a fresh ontology snapshot and the
// current board state, so recomputation is idempotent.
type Engine struct {
	providers Providers
	logger    *slog.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the engine's structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a move engine over the given collaborators.
func New(providers Providers, opts ...Option) *Engine {
	e := &Engine{
		providers: providers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateTransition evaluates one proposed move against the snapshot's
// rules, for callers attempting a move outside a precomputed move set.
func (e *Engine) EvaluateTransition(snap *ontology.Snapshot, tokenID string, from, to hex.Coord) Verdict {
	return NewEvaluator(snap, e.providers).EvaluateTransition(tokenID, from, to)
}

// ComputeValidMoves classifies every position the token can reach or is
// explicitly denied from, at the current board state.
//
// The search is a budget-bounded breadth-first traversal: the distance
// metric is remaining movement budget, not hop count. A visited position is
// re-expanded only when a new path arrives with strictly better remaining
// budget, which both guarantees optimality (a position re-enterable at lower
// effective cost via another path is reconsidered) and termination (budgets
// are non-negative and bounded by the starting value).
//
// Classification rules:
//   - Reachable: some path of allowed transitions arrives there.
//   - Blocked(reason): a direct neighbor of an explored reachable position
//     whose every attempted entry was denied. Explicit denial wins over
//     silent absence; a position reached later via an allowed path flips to
//     Reachable.
//   - Absent: out of range through every path, with no explicit denial.
//
// The error return covers only an unknown token id. Malformed ontology input
// never errors: it degrades to "nothing reachable beyond start" through
// fail-closed denials.
func (e *Engine) ComputeValidMoves(snap *ontology.Snapshot, tokenID string) (*ValidMoveSet, error) {
	mover, ok := e.providers.Board.Token(tokenID)
	if !ok {
		return nil, fmt.Errorf("compute valid moves: unknown token %q", tokenID)
	}
	start, ok := e.providers.Board.TokenPosition(tokenID)
	if !ok {
		return nil, fmt.Errorf("compute valid moves: token %q has no position", tokenID)
	}

	ev := NewEvaluator(snap, e.providers)
	result := &ValidMoveSet{
		TokenID:   tokenID,
		Start:     start,
		Positions: make(map[hex.Coord]Classification),
	}

	budgets, reason := ev.InitialBudgets(mover)
	if reason != "" {
		// An applicable budget cannot be resolved: fail closed. The start
		// is still reachable and every neighbor carries the reason so the
		// UI has something to explain.
		result.Positions[start] = Classification{State: StateReachable}
		for _, n := range e.providers.Grid.Neighbors(start) {
			result.Positions[n] = Classification{State: StateBlocked, Reason: reason}
		}
		e.logger.Debug("valid moves degraded", "token", tokenID, "reason", reason)
		return result, nil
	}

	// visited holds the best remaining budgets seen per position. A plain
	// visited-set is not enough: a position may be re-enterable at better
	// effective cost via a different path.
	visited := map[hex.Coord]map[string]int64{start: budgets}
	result.Positions[start] = Classification{State: StateReachable, Remaining: budgets}

	frontier := []hex.Coord{start}
	steps := 0
	for len(frontier) > 0 {
		pos := frontier[0]
		frontier = frontier[1:]
		remaining := visited[pos]

		for _, n := range e.providers.Grid.Neighbors(pos) {
			steps++
			v := ev.EvaluateStep(mover, pos, n, remaining)
			if !v.Allowed {
				// Record the denial unless the position is already
				// classified; the first recorded reason sticks, and a
				// reachable classification is never downgraded.
				if _, seen := result.Positions[n]; !seen {
					result.Positions[n] = Classification{State: StateBlocked, Reason: v.Reason}
				}
				continue
			}

			prev, seen := visited[n]
			if seen && !strictlyBetter(v.Remaining, prev) {
				continue
			}
			visited[n] = v.Remaining
			result.Positions[n] = Classification{State: StateReachable, Remaining: v.Remaining}
			frontier = append(frontier, n)
		}
	}

	e.logger.Debug("valid moves computed",
		"token", tokenID,
		"start", start.String(),
		"positions", len(result.Positions),
		"transitions", steps)
	return result, nil
}

// strictlyBetter reports whether the new budgets dominate the old: no budget
// worse, at least one strictly better. With no budget constraints both maps
// are empty and nothing is ever better, reducing the search to a plain BFS.
func strictlyBetter(next, old map[string]int64) bool {
	better := false
	for id, o := range old {
		n, ok := next[id]
		if !ok || n < o {
			return false
		}
		if n > o {
			better = true
		}
	}
	return better
}
