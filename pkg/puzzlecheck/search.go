// Feasibility checker: answers "does the current reduced-domain state
// admit at least one full assignment satisfying every rule?" without
// mutating the live session state and without revealing the witness.
//
// The search is plain backtracking with most-constrained-variable
// selection and propagation after every tentative assignment, on scratch
// branches of the domain table. Puzzles are small, so exhaustive search
// is acceptable, but a node ceiling keeps pathological instances from
// blocking the interactive path: hitting it yields Inconclusive rather
// than an answer.
package puzzlecheck

import "context"

// Feasibility is the checker's verdict on the current reduced state.
type Feasibility uint8

const (
	// Feasible: at least one completion satisfies every constraint.
	Feasible Feasibility = iota
	// Infeasible: the whole search space was exhausted without finding
	// a completion.
	Infeasible
	// Inconclusive: the node ceiling was hit or the context was
	// cancelled before the search could decide.
	Inconclusive
)

func (f Feasibility) String() string {
	switch f {
	case Feasible:
		return "Feasible"
	case Infeasible:
		return "Infeasible"
	case Inconclusive:
		return "Inconclusive"
	default:
		return "Feasibility(?)"
	}
}

// DefaultNodeLimit bounds the feasibility search when no explicit limit
// is configured. Generous for daily-puzzle sizes; a 9x9 sudoku settles
// in a few hundred nodes.
const DefaultNodeLimit = 100_000

// SearchStats describes one feasibility search run.
type SearchStats struct {
	// Nodes is the number of search nodes expanded.
	Nodes int
	// Backtracks counts tentative assignments rejected by propagation
	// or by exhausted subtrees.
	Backtracks int
	// MaxDepth is the deepest point the search reached.
	MaxDepth int
}

// CheckFeasibility decides whether the reduced-domain state in t can be
// completed. The table is never modified; all exploration happens on
// branches. nodeLimit <= 0 selects DefaultNodeLimit.
func (m *Model) CheckFeasibility(ctx context.Context, t *domainTable, nodeLimit int) (Feasibility, SearchStats) {
	if nodeLimit <= 0 {
		nodeLimit = DefaultNodeLimit
	}
	s := &searcher{model: m, ctx: ctx, limit: nodeLimit}
	found, err := s.search(t.branch(), 0)
	switch {
	case err != nil:
		return Inconclusive, s.stats
	case found:
		return Feasible, s.stats
	default:
		return Infeasible, s.stats
	}
}

type searcher struct {
	model *Model
	ctx   context.Context
	limit int
	stats SearchStats
}

// search explores t for a full consistent assignment. Returns
// ErrSearchCeiling (or the context error) when the budget runs out; that
// error aborts the whole search since any unexplored subtree might have
// held the witness.
func (s *searcher) search(t *domainTable, depth int) (bool, error) {
	if err := s.ctx.Err(); err != nil {
		return false, err
	}
	s.stats.Nodes++
	if s.stats.Nodes > s.limit {
		return false, ErrSearchCeiling
	}
	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}

	id := s.selectVariable(t)
	if id == -1 {
		// Every domain is a singleton. Propagation enforces each rule
		// on singletons, but verify against the full rule set anyway:
		// the witness must satisfy every constraint, not merely survive
		// filtering.
		return s.allSatisfied(t), nil
	}

	var values []int
	t.domain(id).IterateValues(func(v int) { values = append(values, v) })
	for _, v := range values {
		child := t.branch()
		child.set(id, NewSingletonDomain(t.domain(id).MaxValue(), v))
		if err := s.model.propagate(child, []int{id}); err != nil {
			s.stats.Backtracks++
			continue
		}
		found, err := s.search(child, depth+1)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
		s.stats.Backtracks++
	}
	return false, nil
}

// selectVariable picks the uncommitted variable with the smallest
// candidate domain, ties broken by lowest ID for determinism.
// Returns -1 when every domain is a singleton.
func (s *searcher) selectVariable(t *domainTable) int {
	best, bestCount := -1, 0
	for id := range t.domains {
		c := t.domain(id).Count()
		if c <= 1 {
			continue
		}
		if best == -1 || c < bestCount {
			best, bestCount = id, c
		}
	}
	return best
}

func (s *searcher) allSatisfied(t *domainTable) bool {
	values := make([]int, len(t.domains))
	for id := range t.domains {
		values[id] = t.domain(id).SingletonValue()
	}
	for _, c := range s.model.constraints {
		if c.Check(values) != Satisfied {
			return false
		}
	}
	return true
}
