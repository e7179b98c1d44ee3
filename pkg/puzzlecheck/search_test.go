package puzzlecheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkAfterCommits loads commits into a fresh table, propagates, and
// runs the feasibility checker. Fails the test if propagation already
// contradicts (these fixtures are meant to exercise the search).
func checkAfterCommits(t *testing.T, m *Model, committed []int, limit int) (Feasibility, SearchStats) {
	t.Helper()
	table := newDomainTable(m)
	for id, v := range committed {
		if v != 0 {
			table.set(id, NewSingletonDomain(table.domain(id).MaxValue(), v))
		}
	}
	require.NoError(t, m.propagateAll(table))
	return m.CheckFeasibility(context.Background(), table, limit)
}

// TestFeasibilityAgainstBruteForce cross-validates the checker against
// exhaustive enumeration on every commitment pattern of small fixtures:
// soundness (Infeasible means no completion) and completeness (a
// completion existing means Feasible).
func TestFeasibilityAgainstBruteForce(t *testing.T) {
	fixtures := []struct {
		name  string
		model func(t *testing.T) *Model
	}{
		{"latin 3x3", latinSquare3},
		{
			name: "sum cage chain",
			model: func(t *testing.T) *Model {
				return mustLoad(t, uniformVariables(4, 5), []Constraint{
					FixedSum(8, 0, 1, 2),
					Less(0, 3),
					NotEqual(1, 3),
				})
			},
		},
		{
			name: "pigeonhole",
			model: func(t *testing.T) *Model {
				return mustLoad(t, uniformVariables(4, 2), []Constraint{
					AllDifferent(0, 1, 2, 3),
				})
			},
		},
	}
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			m := fx.model(t)
			n := m.VariableCount()

			// Empty commitment plus every single- and double-commit
			// pattern that survives propagation.
			patterns := [][]int{make([]int, n)}
			for id := 0; id < n; id++ {
				m.Variable(id).Domain.IterateValues(func(v int) {
					p := make([]int, n)
					p[id] = v
					patterns = append(patterns, p)
					second := (id + 1) % n
					m.Variable(second).Domain.IterateValues(func(w int) {
						q := make([]int, n)
						q[id] = v
						q[second] = w
						patterns = append(patterns, q)
					})
				})
			}

			for _, committed := range patterns {
				table := newDomainTable(m)
				for id, v := range committed {
					if v != 0 {
						table.set(id, NewSingletonDomain(table.domain(id).MaxValue(), v))
					}
				}
				if err := m.propagateAll(table); err != nil {
					// Propagation already refuted this pattern; the
					// ground truth must agree there is no completion.
					assert.False(t, bruteForceSolvable(m, committed),
						"propagation refuted a solvable pattern %v", committed)
					continue
				}
				verdict, _ := m.CheckFeasibility(context.Background(), table, 0)
				want := Feasible
				if !bruteForceSolvable(m, committed) {
					want = Infeasible
				}
				assert.Equal(t, want, verdict, "commits %v", committed)
			}
		})
	}
}

// TestFeasibilityQuietInfeasible exercises a state propagation cannot
// refute: four mutually distinct cells over three values. No domain is
// a singleton, so the elimination filter never fires, yet no completion
// exists by counting.
func TestFeasibilityQuietInfeasible(t *testing.T) {
	m := pigeonhole4x3(t)
	committed := make([]int, 4)

	verdict, stats := checkAfterCommits(t, m, committed, 0)
	assert.Equal(t, Infeasible, verdict)
	assert.Greater(t, stats.Nodes, 0)
	assert.False(t, bruteForceSolvableParallel(t, m, committed), "fixture must truly be unsolvable")
}

// TestFeasibilitySolvesSudoku confirms the checker certifies a
// real-sized puzzle promptly from the bare givens.
func TestFeasibilitySolvesSudoku(t *testing.T) {
	m, err := NewSudokuModel(easySudoku)
	require.NoError(t, err)

	verdict, stats := checkAfterCommits(t, m, make([]int, 81), 0)
	assert.Equal(t, Feasible, verdict)
	assert.LessOrEqual(t, stats.Nodes, DefaultNodeLimit)
}

// TestFeasibilityCeiling forces the node ceiling with a tiny budget.
func TestFeasibilityCeiling(t *testing.T) {
	m, err := NewSudokuModel(hardSudoku)
	require.NoError(t, err)

	verdict, stats := checkAfterCommits(t, m, make([]int, 81), 3)
	assert.Equal(t, Inconclusive, verdict)
	assert.Greater(t, stats.Nodes, 3, "search stops at the first node past the ceiling")
}

// TestFeasibilityCancellation verifies a cancelled context yields
// Inconclusive instead of blocking.
func TestFeasibilityCancellation(t *testing.T) {
	m := latinSquare3(t)
	table := newDomainTable(m)
	require.NoError(t, m.propagateAll(table))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	verdict, _ := m.CheckFeasibility(ctx, table, 0)
	assert.Equal(t, Inconclusive, verdict)
}

// TestFeasibilityDoesNotMutateInput verifies the search works on
// branches only.
func TestFeasibilityDoesNotMutateInput(t *testing.T) {
	m := latinSquare3(t)
	table := newDomainTable(m)
	require.NoError(t, m.propagateAll(table))

	before := make([]Domain, m.VariableCount())
	for i := range before {
		before[i] = table.domain(i)
	}
	_, _ = m.CheckFeasibility(context.Background(), table, 0)
	for i := range before {
		assert.True(t, table.domain(i).Equal(before[i]), "variable %d mutated", i)
	}
}

// TestFeasibilityDeterministic runs the same check repeatedly and
// expects identical stats: variable selection ties break by ID and
// values are tried in ascending order, so the walk is reproducible.
func TestFeasibilityDeterministic(t *testing.T) {
	m := latinSquare3(t)
	committed := make([]int, 9)
	committed[0] = 1

	first, firstStats := checkAfterCommits(t, m, committed, 0)
	for i := 0; i < 5; i++ {
		verdict, stats := checkAfterCommits(t, m, committed, 0)
		assert.Equal(t, first, verdict)
		assert.Equal(t, firstStats, stats)
	}
}
