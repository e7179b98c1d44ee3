// Shared helpers for the engine tests. The brute-force enumerator is the
// ground truth the feasibility checker is cross-validated against on
// fixtures small enough to enumerate exhaustively.
package puzzlecheck

import (
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

// bruteForceSolvable enumerates every assignment over the starting
// domains that agrees with the given commits and reports whether any
// satisfies all constraints. committed[id] == 0 means unfilled.
func bruteForceSolvable(m *Model, committed []int) bool {
	values := make([]int, m.VariableCount())
	copy(values, committed)
	return bruteForceFrom(m, values, 0)
}

func bruteForceFrom(m *Model, values []int, id int) bool {
	if id == len(values) {
		for _, c := range m.Constraints() {
			if c.Check(values) != Satisfied {
				return false
			}
		}
		return true
	}
	if values[id] != 0 {
		return bruteForceFrom(m, values, id+1)
	}
	found := false
	m.Variable(id).Domain.IterateValues(func(v int) {
		if found {
			return
		}
		values[id] = v
		ok := true
		for _, ci := range m.ConstraintsOn(id) {
			if m.Constraints()[ci].Check(values) == Violated {
				ok = false
				break
			}
		}
		if ok && bruteForceFrom(m, values, id+1) {
			found = true
			return
		}
		values[id] = 0
	})
	if !found {
		values[id] = 0
	}
	return found
}

// bruteForceSolvableParallel splits the enumeration across the first
// unfilled variable's values. Used for the larger fixtures where the
// sequential enumerator gets slow.
func bruteForceSolvableParallel(t *testing.T, m *Model, committed []int) bool {
	t.Helper()
	first := -1
	for id := 0; id < m.VariableCount(); id++ {
		if committed[id] == 0 {
			first = id
			break
		}
	}
	if first == -1 {
		return bruteForceSolvable(m, committed)
	}

	var found atomic.Bool
	var g errgroup.Group
	for _, v := range m.Variable(first).Domain.Values() {
		v := v
		g.Go(func() error {
			values := make([]int, m.VariableCount())
			copy(values, committed)
			values[first] = v
			if bruteForceFrom(m, values, 0) {
				found.Store(true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("parallel enumeration failed: %v", err)
	}
	return found.Load()
}

// mustLoad builds a model or fails the test.
func mustLoad(t *testing.T, variables []Variable, constraints []Constraint) *Model {
	t.Helper()
	m, err := Load(variables, constraints)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

// uniformVariables builds count variables sharing a full 1..maxValue
// starting domain.
func uniformVariables(count, maxValue int) []Variable {
	vars := make([]Variable, count)
	for i := range vars {
		vars[i] = Variable{Domain: NewDomain(maxValue)}
	}
	return vars
}

// pigeonhole4x3 builds four variables over 1..3 required to be pairwise
// distinct. Unsolvable by counting, yet invisible to the singleton
// elimination filter as long as no domain collapses to one value, which
// makes it the fixture for states only the feasibility search can
// refute.
func pigeonhole4x3(t *testing.T) *Model {
	t.Helper()
	return mustLoad(t, uniformVariables(4, 3), []Constraint{
		AllDifferent(0, 1, 2, 3),
	})
}

// latinSquare3 builds a 3x3 latin square: 9 variables over 1..3 with
// AllDifferent rows and columns. Cell (r, c) is variable r*3 + c.
func latinSquare3(t *testing.T) *Model {
	t.Helper()
	var constraints []Constraint
	for _, g := range RowGroups(3, 3) {
		constraints = append(constraints, AllDifferent(g...))
	}
	for _, g := range ColumnGroups(3, 3) {
		constraints = append(constraints, AllDifferent(g...))
	}
	return mustLoad(t, uniformVariables(9, 3), constraints)
}
