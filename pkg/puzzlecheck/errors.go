// Error types for the validation core. Three kinds exist, mirroring the
// three ways the engine can refuse to make progress:
//
//   - MalformedPuzzleError: structural defect in a puzzle definition,
//     fatal to Load. The puzzle cannot be opened.
//   - Contradiction: an edit emptied a candidate domain. Expected and
//     recoverable; cleared by Undo/Clear.
//   - ErrSearchCeiling: the feasibility search exhausted its node budget.
//     Degrades to an Inconclusive status, never fails the session.
package puzzlecheck

import (
	"errors"
	"fmt"
)

// ErrSearchCeiling is returned by the low-level feasibility search when
// the node budget runs out before the search space is exhausted. The
// session converts it to an Inconclusive verdict and sets the caveat
// flag on the reported status.
var ErrSearchCeiling = errors.New("feasibility search node ceiling exceeded")

// ErrValueOutOfAlphabet is returned by Session.Edit when the committed
// value is not in the variable's starting domain. Values pruned by
// propagation are still accepted (the session reports the resulting
// conflict); values outside the puzzle's alphabet are a caller bug.
var ErrValueOutOfAlphabet = errors.New("value outside the variable's starting domain")

// MalformedPuzzleError reports a structural defect found while loading a
// puzzle definition: a constraint referencing an unknown variable, an
// empty constraint scope, a bad arity for the constraint kind, or a
// variable whose starting domain is empty.
type MalformedPuzzleError struct {
	Reason string
}

func (e *MalformedPuzzleError) Error() string {
	return fmt.Sprintf("malformed puzzle: %s", e.Reason)
}

func malformedf(format string, args ...interface{}) error {
	return &MalformedPuzzleError{Reason: fmt.Sprintf(format, args...)}
}

// Contradiction records that propagation emptied a variable's candidate
// domain. It carries the variable whose domain emptied and the IDs of
// the constraints whose propagation step produced the empty domain, so
// the shell can highlight the conflicting cells and rules.
type Contradiction struct {
	VariableID    int
	ConstraintIDs []int
}

func (c *Contradiction) Error() string {
	return fmt.Sprintf("contradiction: variable %d has no candidate values left (constraints %v)",
		c.VariableID, c.ConstraintIDs)
}
