// Grid helpers. Loaders for the common daily-puzzle formats all need the
// same structural groups over a rectangular grid: rows, columns, and
// rectangular regions. These helpers produce variable-ID scopes for a
// grid whose cells are numbered row-major from 0, so a loader can go from
// parsed dimensions to constraints without re-deriving the indexing.
//
// The format grammar itself stays a loader concern; nothing here reads
// text.
package puzzlecheck

import "fmt"

// CellID returns the row-major variable ID of cell (row, col) in a grid
// with the given number of columns.
func CellID(row, col, cols int) int {
	return row*cols + col
}

// RowGroups returns one scope per row of a rows x cols grid.
func RowGroups(rows, cols int) [][]int {
	groups := make([][]int, rows)
	for r := 0; r < rows; r++ {
		groups[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			groups[r][c] = CellID(r, c, cols)
		}
	}
	return groups
}

// ColumnGroups returns one scope per column of a rows x cols grid.
func ColumnGroups(rows, cols int) [][]int {
	groups := make([][]int, cols)
	for c := 0; c < cols; c++ {
		groups[c] = make([]int, rows)
		for r := 0; r < rows; r++ {
			groups[c][r] = CellID(r, c, cols)
		}
	}
	return groups
}

// BoxGroups returns one scope per boxH x boxW region of a rows x cols
// grid. rows must be divisible by boxH and cols by boxW; otherwise nil.
func BoxGroups(rows, cols, boxW, boxH int) [][]int {
	if boxW <= 0 || boxH <= 0 || rows%boxH != 0 || cols%boxW != 0 {
		return nil
	}
	var groups [][]int
	for br := 0; br < rows; br += boxH {
		for bc := 0; bc < cols; bc += boxW {
			box := make([]int, 0, boxW*boxH)
			for r := br; r < br+boxH; r++ {
				for c := bc; c < bc+boxW; c++ {
					box = append(box, CellID(r, c, cols))
				}
			}
			groups = append(groups, box)
		}
	}
	return groups
}

// NewSudokuModel builds a standard 9x9 sudoku: 81 variables over 1..9,
// AllDifferent on every row, column and 3x3 box, and a FixedCell clue
// for every non-zero given. Cell (r, c) maps to variable r*9 + c.
func NewSudokuModel(givens [9][9]int) (*Model, error) {
	variables := make([]Variable, 81)
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			variables[CellID(r, c, 9)] = Variable{
				Name:   gridName(r, c),
				Domain: NewDomain(9),
			}
		}
	}

	var constraints []Constraint
	for _, groups := range [][][]int{
		RowGroups(9, 9),
		ColumnGroups(9, 9),
		BoxGroups(9, 9, 3, 3),
	} {
		for _, g := range groups {
			constraints = append(constraints, AllDifferent(g...))
		}
	}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if v := givens[r][c]; v != 0 {
				constraints = append(constraints, FixedCell(CellID(r, c, 9), v))
			}
		}
	}
	return Load(variables, constraints)
}

func gridName(row, col int) string {
	return fmt.Sprintf("R%dC%d", row+1, col+1)
}
