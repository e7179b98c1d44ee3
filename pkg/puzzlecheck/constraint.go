// Constraint variants. Each puzzle-format rule family maps to one kind of
// the closed Constraint type. The engine never special-cases a puzzle
// format anywhere else: a loader translates its format's rules into these
// kinds and the rest of the pipeline is format-agnostic.
//
// Constraints have exactly two capabilities:
//
//   - Check: classify a partial assignment as Satisfied, Violated, or
//     Undetermined, looking only at committed values.
//   - propagate: shrink candidate domains, reporting a Contradiction when
//     a domain empties.
//
// The kind is a closed enum rather than an open interface. The rule
// vocabulary is bounded and known at compile time, and a switch per
// capability keeps exhaustiveness visible in one place.
package puzzlecheck

import "fmt"

// Satisfaction classifies a constraint against a partial assignment.
type Satisfaction uint8

const (
	// Undetermined means uncommitted variables remain and the committed
	// ones do not yet violate the rule.
	Undetermined Satisfaction = iota
	// Satisfied means the rule holds and no completion can break it
	// (all scope variables are committed).
	Satisfied
	// Violated means the committed values already break the rule.
	Violated
)

func (s Satisfaction) String() string {
	switch s {
	case Satisfied:
		return "Satisfied"
	case Violated:
		return "Violated"
	case Undetermined:
		return "Undetermined"
	default:
		return fmt.Sprintf("Satisfaction(%d)", uint8(s))
	}
}

// ConstraintKind identifies a rule family.
type ConstraintKind uint8

const (
	// KindAllDifferent requires every variable in scope to take a
	// distinct value (row/column/region uniqueness).
	KindAllDifferent ConstraintKind = iota
	// KindFixedSum requires the scope's values to sum to a target
	// (cage and kakuro style arithmetic rules).
	KindFixedSum
	// KindLess requires scope[0] < scope[1] (ordering/adjacency rules).
	KindLess
	// KindNotEqual requires scope[0] != scope[1].
	KindNotEqual
	// KindFixedCell pins scope[0] to a given value (a printed clue).
	KindFixedCell
)

func (k ConstraintKind) String() string {
	switch k {
	case KindAllDifferent:
		return "AllDifferent"
	case KindFixedSum:
		return "FixedSum"
	case KindLess:
		return "Less"
	case KindNotEqual:
		return "NotEqual"
	case KindFixedCell:
		return "FixedCell"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", uint8(k))
	}
}

// Constraint is one rule over a fixed scope of variables. Constraints are
// value types, immutable once loaded into a Model. The ID is assigned by
// Load and equals the constraint's position in the model's rule sequence.
type Constraint struct {
	id    int
	kind  ConstraintKind
	scope []int
	// target is the required sum for KindFixedSum and the pinned value
	// for KindFixedCell. Unused by the other kinds.
	target int
}

// AllDifferent builds a uniqueness rule over the given variable IDs.
func AllDifferent(scope ...int) Constraint {
	return Constraint{kind: KindAllDifferent, scope: scope}
}

// FixedSum builds a rule requiring the scope's values to sum to target.
func FixedSum(target int, scope ...int) Constraint {
	return Constraint{kind: KindFixedSum, scope: scope, target: target}
}

// Less builds the ordering rule a < b.
func Less(a, b int) Constraint {
	return Constraint{kind: KindLess, scope: []int{a, b}}
}

// NotEqual builds the rule a != b.
func NotEqual(a, b int) Constraint {
	return Constraint{kind: KindNotEqual, scope: []int{a, b}}
}

// FixedCell pins variable v to value (a clue given by the puzzle).
func FixedCell(v, value int) Constraint {
	return Constraint{kind: KindFixedCell, scope: []int{v}, target: value}
}

// ID returns the constraint's position in the model's rule sequence.
// Zero until the constraint has been loaded into a Model.
func (c Constraint) ID() int { return c.id }

// Kind returns the rule family.
func (c Constraint) Kind() ConstraintKind { return c.kind }

// Scope returns the variable IDs the rule ranges over.
// The returned slice must not be modified.
func (c Constraint) Scope() []int { return c.scope }

// Target returns the sum target (KindFixedSum) or pinned value
// (KindFixedCell); 0 for other kinds.
func (c Constraint) Target() int { return c.target }

// String renders the rule for logs and conflict reporting.
func (c Constraint) String() string {
	switch c.kind {
	case KindAllDifferent:
		return fmt.Sprintf("AllDifferent(%v)", c.scope)
	case KindFixedSum:
		return fmt.Sprintf("Sum(%v) = %d", c.scope, c.target)
	case KindLess:
		return fmt.Sprintf("v%d < v%d", c.scope[0], c.scope[1])
	case KindNotEqual:
		return fmt.Sprintf("v%d != v%d", c.scope[0], c.scope[1])
	case KindFixedCell:
		return fmt.Sprintf("v%d = %d", c.scope[0], c.target)
	default:
		return fmt.Sprintf("Unknown(%v)", c.scope)
	}
}

// validate checks kind-specific structure. Variable existence is checked
// by Load, which knows the model's variable count.
func (c Constraint) validate() error {
	if len(c.scope) == 0 {
		return malformedf("%s constraint has empty scope", c.kind)
	}
	switch c.kind {
	case KindAllDifferent, KindFixedSum:
		// Any positive arity.
	case KindLess, KindNotEqual:
		if len(c.scope) != 2 {
			return malformedf("%s constraint needs exactly 2 variables, got %d", c.kind, len(c.scope))
		}
		if c.scope[0] == c.scope[1] {
			return malformedf("%s constraint references variable %d twice", c.kind, c.scope[0])
		}
	case KindFixedCell:
		if len(c.scope) != 1 {
			return malformedf("FixedCell constraint needs exactly 1 variable, got %d", len(c.scope))
		}
		if c.target < 1 {
			return malformedf("FixedCell value %d is not a legal domain value", c.target)
		}
	default:
		return malformedf("unknown constraint kind %d", c.kind)
	}
	return nil
}

// Check classifies the rule against a partial assignment. values[id] is
// the committed value of variable id, 0 if uncommitted. Only committed
// values are consulted; candidate domains play no role here.
func (c Constraint) Check(values []int) Satisfaction {
	switch c.kind {
	case KindAllDifferent:
		return c.checkAllDifferent(values)
	case KindFixedSum:
		return c.checkFixedSum(values)
	case KindLess:
		a, b := values[c.scope[0]], values[c.scope[1]]
		if a == 0 || b == 0 {
			return Undetermined
		}
		if a < b {
			return Satisfied
		}
		return Violated
	case KindNotEqual:
		a, b := values[c.scope[0]], values[c.scope[1]]
		if a == 0 || b == 0 {
			return Undetermined
		}
		if a != b {
			return Satisfied
		}
		return Violated
	case KindFixedCell:
		v := values[c.scope[0]]
		if v == 0 {
			return Undetermined
		}
		if v == c.target {
			return Satisfied
		}
		return Violated
	default:
		return Undetermined
	}
}

func (c Constraint) checkAllDifferent(values []int) Satisfaction {
	seen := make(map[int]bool, len(c.scope))
	complete := true
	for _, id := range c.scope {
		v := values[id]
		if v == 0 {
			complete = false
			continue
		}
		if seen[v] {
			return Violated
		}
		seen[v] = true
	}
	if complete {
		return Satisfied
	}
	return Undetermined
}

func (c Constraint) checkFixedSum(values []int) Satisfaction {
	sum := 0
	uncommitted := 0
	for _, id := range c.scope {
		if v := values[id]; v == 0 {
			uncommitted++
		} else {
			sum += v
		}
	}
	if uncommitted == 0 {
		if sum == c.target {
			return Satisfied
		}
		return Violated
	}
	// Every remaining variable contributes at least 1, so a partial sum
	// can already overshoot.
	if sum+uncommitted > c.target {
		return Violated
	}
	return Undetermined
}

// propagate shrinks the candidate domains of the scope in t. Every
// variable whose domain actually shrank is appended to changed. An
// emptied domain is reported as a *Contradiction naming this constraint.
func (c Constraint) propagate(t *domainTable) (changed []int, err error) {
	switch c.kind {
	case KindAllDifferent:
		return c.propagateAllDifferent(t)
	case KindFixedSum:
		return c.propagateFixedSum(t)
	case KindLess:
		return c.propagateLess(t)
	case KindNotEqual:
		return c.propagateNotEqual(t)
	case KindFixedCell:
		return c.propagateFixedCell(t)
	default:
		return nil, nil
	}
}

// propagateAllDifferent removes each committed (singleton) value from the
// domains of the other scope members. This is deliberately weaker than
// matching-based filtering: contradictions surface at the edit that
// forces them, and the feasibility search supplies completeness.
func (c Constraint) propagateAllDifferent(t *domainTable) ([]int, error) {
	var changed []int
	for _, id := range c.scope {
		d := t.domain(id)
		if !d.IsSingleton() {
			continue
		}
		v := d.SingletonValue()
		for _, peer := range c.scope {
			if peer == id {
				continue
			}
			pd := t.domain(peer)
			if !pd.Has(v) {
				continue
			}
			nd := pd.Remove(v)
			if nd.IsEmpty() {
				return changed, &Contradiction{VariableID: peer, ConstraintIDs: []int{c.id}}
			}
			t.set(peer, nd)
			changed = append(changed, peer)
		}
	}
	return changed, nil
}

// propagateFixedSum applies bounds consistency: each variable is trimmed
// to [target - sum(max of others), target - sum(min of others)].
func (c Constraint) propagateFixedSum(t *domainTable) ([]int, error) {
	minSum, maxSum := 0, 0
	for _, id := range c.scope {
		d := t.domain(id)
		if d.IsEmpty() {
			return nil, &Contradiction{VariableID: id, ConstraintIDs: []int{c.id}}
		}
		minSum += d.Min()
		maxSum += d.Max()
	}
	var changed []int
	for _, id := range c.scope {
		d := t.domain(id)
		hi := c.target - (minSum - d.Min())
		lo := c.target - (maxSum - d.Max())
		nd := d.RemoveAbove(hi).RemoveBelow(lo)
		if nd.Equal(d) {
			continue
		}
		if nd.IsEmpty() {
			return changed, &Contradiction{VariableID: id, ConstraintIDs: []int{c.id}}
		}
		t.set(id, nd)
		changed = append(changed, id)
		// Tighten the running bounds so later scope members see the cut.
		minSum += nd.Min() - d.Min()
		maxSum += nd.Max() - d.Max()
	}
	return changed, nil
}

// propagateLess applies bounds propagation for a < b: a loses values
// at or above max(b), b loses values at or below min(a).
func (c Constraint) propagateLess(t *domainTable) ([]int, error) {
	a, b := c.scope[0], c.scope[1]
	da, db := t.domain(a), t.domain(b)

	var changed []int
	if nda := da.RemoveAbove(db.Max() - 1); !nda.Equal(da) {
		if nda.IsEmpty() {
			return nil, &Contradiction{VariableID: a, ConstraintIDs: []int{c.id}}
		}
		t.set(a, nda)
		changed = append(changed, a)
		da = nda
	}
	if ndb := db.RemoveBelow(da.Min() + 1); !ndb.Equal(db) {
		if ndb.IsEmpty() {
			return changed, &Contradiction{VariableID: b, ConstraintIDs: []int{c.id}}
		}
		t.set(b, ndb)
		changed = append(changed, b)
	}
	return changed, nil
}

// propagateNotEqual removes a committed value from the other side.
func (c Constraint) propagateNotEqual(t *domainTable) ([]int, error) {
	a, b := c.scope[0], c.scope[1]
	var changed []int
	prune := func(from, other int) error {
		d := t.domain(from)
		if !d.IsSingleton() {
			return nil
		}
		od := t.domain(other)
		if !od.Has(d.SingletonValue()) {
			return nil
		}
		nd := od.Remove(d.SingletonValue())
		if nd.IsEmpty() {
			return &Contradiction{VariableID: other, ConstraintIDs: []int{c.id}}
		}
		t.set(other, nd)
		changed = append(changed, other)
		return nil
	}
	if err := prune(a, b); err != nil {
		return changed, err
	}
	if err := prune(b, a); err != nil {
		return changed, err
	}
	return changed, nil
}

// propagateFixedCell intersects the variable with the clue's value.
func (c Constraint) propagateFixedCell(t *domainTable) ([]int, error) {
	id := c.scope[0]
	d := t.domain(id)
	if !d.Has(c.target) {
		return nil, &Contradiction{VariableID: id, ConstraintIDs: []int{c.id}}
	}
	if d.IsSingleton() {
		return nil, nil
	}
	t.set(id, NewSingletonDomain(d.MaxValue(), c.target))
	return []int{id}, nil
}
