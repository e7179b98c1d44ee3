// Puzzle model: the immutable description of one puzzle instance. A
// loader collaborator parses whatever on-disk format the puzzle came in
// and hands Load a set of variables and constraints; from then on the
// model is read-only and safe to share across any number of sessions
// (multiple open tabs, "try again" resets).
package puzzlecheck

// Variable describes one fillable slot of a puzzle. Variables are
// identified by their position in the slice passed to Load; constraint
// scopes reference those positions.
type Variable struct {
	// Name is an optional label for conflict reporting ("R3C7").
	Name string
	// Domain is the set of legal values at puzzle start. Must not be
	// empty.
	Domain Domain
}

// Model is a loaded puzzle: variables plus an ordered rule sequence,
// with an index from variable to the constraints touching it. Immutable
// after Load; all methods are safe for concurrent use.
type Model struct {
	variables   []Variable
	constraints []Constraint
	// byVariable[id] lists the indices of constraints whose scope
	// contains variable id. Drives the propagation worklist.
	byVariable [][]int
	// pinned[id] is the value mandated by a FixedCell clue, 0 if none.
	// Pinned variables count as filled without a user commit.
	pinned []int
}

// Load builds a Model from a puzzle definition. It fails with a
// *MalformedPuzzleError if a constraint references an unknown variable,
// has a structurally invalid scope, or a variable's starting domain is
// empty. The input slices are copied; the caller may reuse them.
func Load(variables []Variable, constraints []Constraint) (*Model, error) {
	if len(variables) == 0 {
		return nil, malformedf("puzzle has no variables")
	}
	m := &Model{
		variables:   make([]Variable, len(variables)),
		constraints: make([]Constraint, len(constraints)),
		byVariable:  make([][]int, len(variables)),
		pinned:      make([]int, len(variables)),
	}
	copy(m.variables, variables)
	for id, v := range m.variables {
		if v.Domain.IsEmpty() {
			return nil, malformedf("variable %d (%q) has an empty starting domain", id, v.Name)
		}
	}
	for i, c := range constraints {
		if err := c.validate(); err != nil {
			return nil, err
		}
		for _, id := range c.scope {
			if id < 0 || id >= len(m.variables) {
				return nil, malformedf("constraint %d (%s) references unknown variable %d", i, c.kind, id)
			}
		}
		c.id = i
		m.constraints[i] = c
		for _, id := range c.scope {
			m.byVariable[id] = append(m.byVariable[id], i)
		}
		if c.kind == KindFixedCell {
			if !m.variables[c.scope[0]].Domain.Has(c.target) {
				return nil, malformedf("constraint %d pins variable %d to %d, outside its starting domain", i, c.scope[0], c.target)
			}
			m.pinned[c.scope[0]] = c.target
		}
	}
	return m, nil
}

// VariableCount returns the number of variables in the puzzle.
func (m *Model) VariableCount() int {
	return len(m.variables)
}

// Variable returns the variable with the given ID.
func (m *Model) Variable(id int) Variable {
	return m.variables[id]
}

// Constraints returns the puzzle's rule sequence.
// The returned slice must not be modified.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// ConstraintsOn returns the indices of constraints touching variable id.
// The returned slice must not be modified.
func (m *Model) ConstraintsOn(id int) []int {
	return m.byVariable[id]
}

// Pinned returns the value a FixedCell clue mandates for the variable,
// or 0 when the variable is a free slot.
func (m *Model) Pinned(id int) int {
	return m.pinned[id]
}
