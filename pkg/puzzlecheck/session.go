// Validation session: the façade the application shell talks to. One
// session owns one assignment state bound to one shared read-only Model.
// Every edit runs the full pipeline (apply, propagate, classify, check
// feasibility) to completion and yields a Status; there are no silent
// failures and no operation suspends mid-call.
//
// Feasibility may optionally run on a background goroutine so the
// interactive path stays responsive. Staleness, not interruption, is the
// cancellation model: each edit bumps a generation counter, the search
// captures the generation of the snapshot it works on, and a finished
// search whose generation no longer matches is discarded. At most one
// search is in flight per session; edits arriving meanwhile replace the
// pending snapshot.
package puzzlecheck

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// SessionState is the session's classification of the current assignment.
type SessionState uint8

const (
	// StateInProgress: consistent so far, not yet complete.
	StateInProgress SessionState = iota
	// StateViolated: propagation found an emptied domain. The offending
	// edit is kept so the user can see the conflict; Undo exits.
	StateViolated
	// StateInfeasible: no completion exists for the current commits.
	// Exited by Undo/Clear, which are always legal.
	StateInfeasible
	// StateSolved: every variable committed and every rule satisfied.
	// Terminal only in the sense that nothing is left to fill; further
	// edits re-evaluate normally and may break the solution again.
	StateSolved
)

func (s SessionState) String() string {
	switch s {
	case StateInProgress:
		return "InProgress"
	case StateViolated:
		return "Violated"
	case StateInfeasible:
		return "Infeasible"
	case StateSolved:
		return "Solved"
	default:
		return "SessionState(?)"
	}
}

// Status is the result of every edit. Implicated slices name the cells
// and rules involved in a Violated state so the shell can highlight
// them; they are empty otherwise.
type Status struct {
	State                 SessionState
	ImplicatedVariables   []int
	ImplicatedConstraints []int
	// Caveat is set when the reported state rests on propagation alone:
	// the feasibility search hit its ceiling, was cancelled, or (in
	// async mode) has not finished yet.
	Caveat bool
	// Generation identifies the edit this status describes. Async
	// feasibility callbacks carry the generation of the snapshot they
	// evaluated.
	Generation uint64
}

// SessionOption configures a session at open time.
type SessionOption func(*Session)

// WithNodeLimit overrides the feasibility search node ceiling.
func WithNodeLimit(n int) SessionOption {
	return func(s *Session) { s.nodeLimit = n }
}

// WithLogger attaches a structured logger. The session logs state
// transitions and search completions at debug level; by default it logs
// nothing.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAsyncFeasibility moves the feasibility search to a background
// goroutine. Edits then return immediately after propagation with
// Caveat set; onResult is invoked (on the search goroutine) once a
// non-stale search settles the verdict. onResult may be nil if the
// caller prefers polling Status.
func WithAsyncFeasibility(onResult func(Status)) SessionOption {
	return func(s *Session) {
		s.async = true
		s.onResult = onResult
	}
}

// Session drives live validation for one puzzle attempt.
// All exported methods are safe for concurrent use, though the intended
// caller is a single interactive thread.
type Session struct {
	id        uuid.UUID
	model     *Model
	logger    *slog.Logger
	nodeLimit int

	async    bool
	onResult func(Status)

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	table      *domainTable
	committed  []int // committed[id] is the user's value, 0 if unfilled
	generation uint64
	status     Status
	lastStats  SearchStats

	inFlight bool
	pending  *searchSnapshot
}

type searchSnapshot struct {
	table      *domainTable
	generation uint64
}

// OpenSession binds a new session to a loaded puzzle. The model may be
// shared with other sessions; the assignment state is exclusive to this
// one. Initial propagation runs once so the session's baseline is the
// root fixed point of the puzzle's rules.
func OpenSession(m *Model, opts ...SessionOption) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        uuid.New(),
		model:     m,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		nodeLimit: DefaultNodeLimit,
		ctx:       ctx,
		cancel:    cancel,
		committed: make([]int, m.VariableCount()),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.table = newDomainTable(m)
	if err := m.propagateAll(s.table); err != nil {
		// The puzzle contradicts itself before any edit (e.g.
		// conflicting clues). Report it; Undo cannot fix it, but the
		// shell can at least show which rules collide.
		s.status = s.violatedStatus(err)
	} else {
		s.status = Status{State: StateInProgress, Generation: s.generation}
	}
	s.logger.Debug("session opened",
		"session", s.id,
		"variables", m.VariableCount(),
		"constraints", len(m.Constraints()),
		"state", s.status.State)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Model returns the puzzle this session validates against.
func (s *Session) Model() *Model { return s.model }

// Status returns the most recently computed status. In async mode this
// may still carry the caveat flag of a pending search.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Value returns the committed value of a variable, 0 if unfilled.
func (s *Session) Value(varID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed[varID]
}

// Candidates returns the variable's current candidate domain as reduced
// by propagation. The shell uses this for pencil-mark style display.
func (s *Session) Candidates(varID int) Domain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.domain(varID)
}

// LastSearchStats describes the most recent feasibility search run.
func (s *Session) LastSearchStats() SearchStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}

// Close releases the session. Any in-flight feasibility search is
// abandoned via context cancellation.
func (s *Session) Close() {
	s.cancel()
}

// Edit commits value to the given variable and re-validates. The edit is
// always applied, even when it conflicts: the user sees the conflict
// rather than having input silently rejected. The only rejected input is
// a value outside the variable's starting domain (ErrValueOutOfAlphabet)
// or an unknown variable ID, both caller bugs rather than user errors.
func (s *Session) Edit(varID, value int) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if varID < 0 || varID >= s.model.VariableCount() {
		return s.status, malformedf("edit references unknown variable %d", varID)
	}
	if !s.model.Variable(varID).Domain.Has(value) {
		return s.status, ErrValueOutOfAlphabet
	}

	s.generation++
	prev := s.committed[varID]
	s.committed[varID] = value

	// The fast path layers the commit onto the already reduced table.
	// That is only sound when the table is consistent and still an
	// upper bound for the new commitment set, which fails when the
	// session is in conflict, when the variable was committed to a
	// different value before, or when the value was pruned from the
	// candidates. Those paths rebuild from the starting domains.
	var err error
	if s.status.State != StateViolated && prev == 0 && s.table.domain(varID).Has(value) {
		s.table.set(varID, NewSingletonDomain(s.table.domain(varID).MaxValue(), value))
		err = s.model.propagate(s.table, []int{varID})
	} else {
		err = s.rebuild()
	}

	s.settle(err)
	s.logger.Debug("edit applied",
		"session", s.id,
		"variable", varID,
		"value", value,
		"state", s.status.State,
		"generation", s.generation)
	return s.status, nil
}

// Clear removes a variable's committed value, restores candidate domains
// accordingly, and re-validates. Always legal; this is how Violated and
// Infeasible states are exited.
func (s *Session) Clear(varID int) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if varID < 0 || varID >= s.model.VariableCount() {
		return s.status, malformedf("clear references unknown variable %d", varID)
	}

	s.generation++
	s.committed[varID] = 0
	err := s.rebuild()
	s.settle(err)
	s.logger.Debug("edit cleared",
		"session", s.id,
		"variable", varID,
		"state", s.status.State,
		"generation", s.generation)
	return s.status, nil
}

// Undo clears the variable's committed value. Kept as a distinct name
// because the shell's undo gesture maps to it directly.
func (s *Session) Undo(varID int) (Status, error) {
	return s.Clear(varID)
}

// rebuild recomputes the candidate domains from the starting domains
// plus every surviving commit. This is the one path on which domains
// grow back; within a single edit's processing they only ever shrink.
func (s *Session) rebuild() error {
	s.table = newDomainTable(s.model)
	for id, v := range s.committed {
		if v != 0 {
			s.table.set(id, NewSingletonDomain(s.table.domain(id).MaxValue(), v))
		}
	}
	return s.model.propagateAll(s.table)
}

// settle classifies the propagated state and, unless the outcome is
// already decided, runs (or schedules) the feasibility check.
func (s *Session) settle(propagationErr error) {
	if propagationErr != nil {
		s.status = s.violatedStatus(propagationErr)
		return
	}
	if s.isSolved() {
		s.status = Status{State: StateSolved, Generation: s.generation}
		return
	}
	if s.async {
		s.status = Status{State: StateInProgress, Caveat: true, Generation: s.generation}
		s.scheduleFeasibility()
		return
	}
	verdict, stats := s.model.CheckFeasibility(s.ctx, s.table, s.nodeLimit)
	s.lastStats = stats
	s.status = s.feasibilityStatus(verdict, s.generation)
	s.logger.Debug("feasibility checked",
		"session", s.id,
		"verdict", verdict,
		"nodes", stats.Nodes,
		"generation", s.generation)
}

func (s *Session) violatedStatus(err error) Status {
	st := Status{State: StateViolated, Generation: s.generation}
	if c, ok := err.(*Contradiction); ok {
		st.ImplicatedVariables = []int{c.VariableID}
		st.ImplicatedConstraints = append([]int(nil), c.ConstraintIDs...)
		// The conflict involves every cell the offending rules range
		// over, not just the cell whose candidates ran out.
		for _, ci := range c.ConstraintIDs {
			for _, v := range s.model.Constraints()[ci].Scope() {
				if v != c.VariableID {
					st.ImplicatedVariables = append(st.ImplicatedVariables, v)
				}
			}
		}
	}
	return st
}

func (s *Session) feasibilityStatus(v Feasibility, generation uint64) Status {
	switch v {
	case Infeasible:
		return Status{State: StateInfeasible, Generation: generation}
	case Inconclusive:
		return Status{State: StateInProgress, Caveat: true, Generation: generation}
	default:
		return Status{State: StateInProgress, Generation: generation}
	}
}

// isSolved reports whether every variable is filled, by a user commit
// or a FixedCell clue, and every rule checks out Satisfied.
func (s *Session) isSolved() bool {
	values := make([]int, len(s.committed))
	for id, v := range s.committed {
		if v == 0 {
			v = s.model.Pinned(id)
		}
		if v == 0 {
			return false
		}
		values[id] = v
	}
	for _, c := range s.model.Constraints() {
		if c.Check(values) != Satisfied {
			return false
		}
	}
	return true
}

// scheduleFeasibility records the latest snapshot and ensures exactly
// one worker goroutine is draining snapshots. Caller holds s.mu.
func (s *Session) scheduleFeasibility() {
	s.pending = &searchSnapshot{table: s.table.branch(), generation: s.generation}
	if s.inFlight {
		return
	}
	s.inFlight = true
	go s.drainFeasibility()
}

// drainFeasibility runs snapshots until none are pending. A result is
// applied only when its generation still matches the session's; stale
// results are dropped on the floor and the loop picks up the snapshot
// that superseded them.
func (s *Session) drainFeasibility() {
	for {
		s.mu.Lock()
		snap := s.pending
		s.pending = nil
		if snap == nil {
			s.inFlight = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		verdict, stats := s.model.CheckFeasibility(s.ctx, snap.table, s.nodeLimit)

		s.mu.Lock()
		stale := snap.generation != s.generation
		var notify func(Status)
		var applied Status
		if !stale {
			s.lastStats = stats
			s.status = s.feasibilityStatus(verdict, snap.generation)
			applied = s.status
			notify = s.onResult
		}
		s.logger.Debug("async feasibility finished",
			"session", s.id,
			"verdict", verdict,
			"nodes", stats.Nodes,
			"generation", snap.generation,
			"stale", stale)
		s.mu.Unlock()

		if notify != nil {
			notify(applied)
		}
	}
}
