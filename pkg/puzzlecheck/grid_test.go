package puzzlecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// easySudoku is a well known easy-rated puzzle with a unique solution,
// used wherever the tests need a realistically sized grid.
var easySudoku = [9][9]int{
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

// hardSudoku needs genuine search: propagation alone barely dents it,
// which makes it the fixture of choice for node-ceiling tests.
var hardSudoku = [9][9]int{
	{8, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 3, 6, 0, 0, 0, 0, 0},
	{0, 7, 0, 0, 9, 0, 2, 0, 0},
	{0, 5, 0, 0, 0, 7, 0, 0, 0},
	{0, 0, 0, 0, 4, 5, 7, 0, 0},
	{0, 0, 0, 1, 0, 0, 0, 3, 0},
	{0, 0, 1, 0, 0, 0, 0, 6, 8},
	{0, 0, 8, 5, 0, 0, 0, 1, 0},
	{0, 9, 0, 0, 0, 0, 4, 0, 0},
}

var easySudokuSolution = [9][9]int{
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

func TestCellID(t *testing.T) {
	assert.Equal(t, 0, CellID(0, 0, 9))
	assert.Equal(t, 8, CellID(0, 8, 9))
	assert.Equal(t, 9, CellID(1, 0, 9))
	assert.Equal(t, 80, CellID(8, 8, 9))
	assert.Equal(t, 7, CellID(2, 1, 3))
}

func TestRowAndColumnGroups(t *testing.T) {
	rows := RowGroups(2, 3)
	require.Len(t, rows, 2)
	assert.Equal(t, []int{0, 1, 2}, rows[0])
	assert.Equal(t, []int{3, 4, 5}, rows[1])

	cols := ColumnGroups(2, 3)
	require.Len(t, cols, 3)
	assert.Equal(t, []int{0, 3}, cols[0])
	assert.Equal(t, []int{1, 4}, cols[1])
	assert.Equal(t, []int{2, 5}, cols[2])
}

func TestBoxGroups(t *testing.T) {
	boxes := BoxGroups(4, 4, 2, 2)
	require.Len(t, boxes, 4)
	assert.Equal(t, []int{0, 1, 4, 5}, boxes[0])
	assert.Equal(t, []int{2, 3, 6, 7}, boxes[1])
	assert.Equal(t, []int{8, 9, 12, 13}, boxes[2])
	assert.Equal(t, []int{10, 11, 14, 15}, boxes[3])

	// Every cell appears in exactly one box.
	seen := make(map[int]int)
	for _, g := range BoxGroups(9, 9, 3, 3) {
		require.Len(t, g, 9)
		for _, id := range g {
			seen[id]++
		}
	}
	require.Len(t, seen, 81)
	for id, n := range seen {
		assert.Equal(t, 1, n, "cell %d", id)
	}
}

func TestBoxGroupsBadShape(t *testing.T) {
	assert.Nil(t, BoxGroups(9, 9, 2, 3))
	assert.Nil(t, BoxGroups(9, 9, 3, 2))
	assert.Nil(t, BoxGroups(9, 9, 0, 3))
	assert.Nil(t, BoxGroups(9, 9, 3, -1))
}

func TestNewSudokuModel(t *testing.T) {
	m, err := NewSudokuModel(easySudoku)
	require.NoError(t, err)
	assert.Equal(t, 81, m.VariableCount())
	assert.Equal(t, "R1C1", m.Variable(0).Name)
	assert.Equal(t, "R9C9", m.Variable(80).Name)

	givens := 0
	for _, row := range easySudoku {
		for _, v := range row {
			if v != 0 {
				givens++
			}
		}
	}
	// 27 group rules plus one clue per given.
	assert.Len(t, m.Constraints(), 27+givens)
}

func TestNewSudokuModelRejectsBadGiven(t *testing.T) {
	bad := easySudoku
	bad[0][2] = 10
	_, err := NewSudokuModel(bad)
	var malformed *MalformedPuzzleError
	require.ErrorAs(t, err, &malformed)
}

// TestSudokuSolveRoundTrip drives a session through the full solution
// and expects Solved at the final cell, with every intermediate state
// InProgress.
func TestSudokuSolveRoundTrip(t *testing.T) {
	m, err := NewSudokuModel(easySudoku)
	require.NoError(t, err)
	s := OpenSession(m)
	defer s.Close()

	var last Status
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if easySudoku[r][c] != 0 {
				continue
			}
			last, err = s.Edit(CellID(r, c, 9), easySudokuSolution[r][c])
			require.NoError(t, err)
			require.NotEqual(t, StateViolated, last.State, "cell R%dC%d", r+1, c+1)
			require.NotEqual(t, StateInfeasible, last.State, "cell R%dC%d", r+1, c+1)
		}
	}
	assert.Equal(t, StateSolved, last.State)
	assert.Equal(t, StateSolved, s.Status().State)
}
