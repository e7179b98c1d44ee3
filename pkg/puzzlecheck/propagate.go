// Propagation engine. Given a set of dirty variables (just edited or
// freshly committed during search), the engine repeatedly applies every
// constraint whose scope intersects a dirty variable, shrinking candidate
// domains until a fixed point or an emptied domain.
//
// Termination: domains are finite and only ever shrink during a run (a
// reduced domain is never re-enlarged), so the worklist drains.
package puzzlecheck

// maxPropagationRounds guards against a constraint that keeps reporting
// changes without shrinking anything. With monotone constraints the
// worklist drains on its own; the bound only exists to turn such a bug
// into an observable panic instead of a hang.
const maxPropagationRounds = 1 << 20

// propagate runs the dirty-set worklist to a fixed point on t. On
// success the table holds the reduced domains. On an emptied domain it
// returns the *Contradiction produced by the offending constraint; the
// table is left as-is for inspection (the session rebuilds on recovery).
func (m *Model) propagate(t *domainTable, dirty []int) error {
	queue := make([]int, 0, len(dirty))
	queued := make([]bool, len(m.variables))
	push := func(id int) {
		if !queued[id] {
			queued[id] = true
			queue = append(queue, id)
		}
	}
	for _, id := range dirty {
		push(id)
	}

	for rounds := 0; len(queue) > 0; rounds++ {
		if rounds >= maxPropagationRounds {
			panic("puzzlecheck: propagation failed to reach a fixed point")
		}
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		for _, ci := range m.byVariable[id] {
			changed, err := m.constraints[ci].propagate(t)
			if err != nil {
				return err
			}
			// A shrunk variable cascades: everything sharing a
			// constraint with it must be revisited, which the worklist
			// achieves by re-enqueueing the variable itself.
			for _, v := range changed {
				push(v)
			}
		}
	}
	return nil
}

// propagateAll seeds the worklist with every variable. Used when domains
// are rebuilt from the starting domains (session open, undo, conflicting
// re-commit), where no smaller dirty set is known.
func (m *Model) propagateAll(t *domainTable) error {
	dirty := make([]int, len(m.variables))
	for i := range dirty {
		dirty[i] = i
	}
	return m.propagate(t, dirty)
}
