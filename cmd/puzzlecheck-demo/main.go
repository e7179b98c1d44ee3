// Package main exercises the validation engine end to end: it loads one
// shared sudoku model, then drives several concurrent sessions against
// it the way a multi-tab puzzle shell would, logging every state
// transition. Run with -v for debug-level engine logs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/puzzlecheck/puzzlecheck/pkg/puzzlecheck"
)

var puzzle = [9][9]int{
	{5, 3, 0, 0, 7, 0, 0, 0, 0},
	{6, 0, 0, 1, 9, 5, 0, 0, 0},
	{0, 9, 8, 0, 0, 0, 0, 6, 0},
	{8, 0, 0, 0, 6, 0, 0, 0, 3},
	{4, 0, 0, 8, 0, 3, 0, 0, 1},
	{7, 0, 0, 0, 2, 0, 0, 0, 6},
	{0, 6, 0, 0, 0, 0, 2, 8, 0},
	{0, 0, 0, 4, 1, 9, 0, 0, 5},
	{0, 0, 0, 0, 8, 0, 0, 7, 9},
}

var solution = [9][9]int{
	{5, 3, 4, 6, 7, 8, 9, 1, 2},
	{6, 7, 2, 1, 9, 5, 3, 4, 8},
	{1, 9, 8, 3, 4, 2, 5, 6, 7},
	{8, 5, 9, 7, 6, 1, 4, 2, 3},
	{4, 2, 6, 8, 5, 3, 7, 9, 1},
	{7, 1, 3, 9, 2, 4, 8, 5, 6},
	{9, 6, 1, 5, 3, 7, 2, 8, 4},
	{2, 8, 7, 4, 1, 9, 6, 3, 5},
	{3, 4, 5, 2, 8, 6, 1, 7, 9},
}

func main() {
	verbose := flag.Bool("v", false, "debug-level engine logs")
	sessions := flag.Int("sessions", 3, "number of concurrent sessions")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	model, err := puzzlecheck.NewSudokuModel(puzzle)
	if err != nil {
		logger.Error("loading puzzle failed", "err", err)
		os.Exit(1)
	}
	logger.Info("puzzle loaded",
		"variables", model.VariableCount(),
		"constraints", len(model.Constraints()))

	// Every session shares the read-only model but owns its assignment
	// state, so the solvers below never see each other's edits.
	var g errgroup.Group
	for i := 0; i < *sessions; i++ {
		i := i
		g.Go(func() error { return runSession(logger, model, i) })
	}
	if err := g.Wait(); err != nil {
		logger.Error("session failed", "err", err)
		os.Exit(1)
	}
}

// runSession fills the grid from the known solution, taking a deliberate
// wrong turn partway through to show conflict reporting and recovery.
func runSession(logger *slog.Logger, model *puzzlecheck.Model, seat int) error {
	s := puzzlecheck.OpenSession(model, puzzlecheck.WithLogger(logger))
	defer s.Close()
	log := logger.With("seat", seat, "session", s.ID())

	// A duplicate value in row 1 violates the row rule.
	wrongCell := puzzlecheck.CellID(0, 2, 9)
	st, err := s.Edit(wrongCell, 5)
	if err != nil {
		return err
	}
	log.Info("wrong turn", "state", st.State,
		"cells", cellNames(model, st.ImplicatedVariables))
	if st, err = s.Undo(wrongCell); err != nil {
		return err
	}
	log.Info("recovered", "state", st.State)

	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if puzzle[r][c] != 0 {
				continue
			}
			st, err = s.Edit(puzzlecheck.CellID(r, c, 9), solution[r][c])
			if err != nil {
				return err
			}
			if st.State != puzzlecheck.StateInProgress && st.State != puzzlecheck.StateSolved {
				return fmt.Errorf("seat %d stuck at R%dC%d: %s", seat, r+1, c+1, st.State)
			}
		}
	}
	stats := s.LastSearchStats()
	log.Info("finished", "state", st.State, "generation", st.Generation,
		"last_search_nodes", stats.Nodes)
	return nil
}

func cellNames(model *puzzlecheck.Model, ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = model.Variable(id).Name
	}
	return names
}
