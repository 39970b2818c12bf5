package engine

import (
	"fmt"
	"math"
	"math/rand"
)

// Pos is a cell coordinate. X is the column and Y is the row.
type Pos struct {
	X, Y int
}

// Cell is the state of one grid position. Revealed and flagged exclude each
// other until the round is lost, when flagged mines are revealed too.
type Cell struct {
	IsMine        bool
	IsRevealed    bool
	IsFlagged     bool
	NeighborMines int // Meaningful for safe cells only
}

// Board is the grid of cells together with its reveal and flag counters.
// Mine positions never change after construction.
type Board struct {
	width     int
	height    int
	mineCount int
	cells     [][]Cell // [row][col]

	revealedSafe int
	flagged      int
}

// Validate checks the board construction preconditions:
// positive dimensions whose product fits in an int, and
// 0 < mines < width*height.
func Validate(width, height, mines int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if height > math.MaxInt/width {
		return fmt.Errorf("%w: %dx%d overflows the cell count", ErrInvalidDimensions, width, height)
	}
	if mines < 1 || mines >= width*height {
		return fmt.Errorf("%w: %d mines on %d cells", ErrInvalidMineCount, mines, width*height)
	}
	return nil
}

// NewBoard creates a board and places mines by uniform rejection sampling.
// The first revealed cell is not guaranteed to be safe.
func NewBoard(width, height, mines int, rng *rand.Rand) (*Board, error) {
	if err := Validate(width, height, mines); err != nil {
		return nil, err
	}

	b := newEmptyBoard(width, height, mines)
	for placed := 0; placed < mines; {
		p := Pos{X: rng.Intn(width), Y: rng.Intn(height)}
		if b.cells[p.Y][p.X].IsMine {
			continue
		}
		b.placeMine(p)
		placed++
	}
	return b, nil
}

// NewBoardWithMines creates a board with mines at the given positions,
// placed in order with the same neighbor-count updates as NewBoard.
func NewBoardWithMines(width, height int, mines []Pos) (*Board, error) {
	if err := Validate(width, height, len(mines)); err != nil {
		return nil, err
	}

	b := newEmptyBoard(width, height, len(mines))
	for _, p := range mines {
		if !b.InBounds(p.X, p.Y) {
			return nil, fmt.Errorf("%w: mine at (%d, %d) is outside %dx%d", ErrInvalidLayout, p.X, p.Y, width, height)
		}
		if b.cells[p.Y][p.X].IsMine {
			return nil, fmt.Errorf("%w: duplicate mine at (%d, %d)", ErrInvalidLayout, p.X, p.Y)
		}
		b.placeMine(p)
	}
	return b, nil
}

func newEmptyBoard(width, height, mines int) *Board {
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}
	return &Board{
		width:     width,
		height:    height,
		mineCount: mines,
		cells:     cells,
	}
}

// placeMine marks p as a mine and bumps the count of every safe neighbor.
// A cell that becomes a mine later keeps the count it had accrued.
func (b *Board) placeMine(p Pos) {
	b.cells[p.Y][p.X].IsMine = true
	b.forEachNeighbor(p, func(n Pos) {
		c := &b.cells[n.Y][n.X]
		if !c.IsMine {
			c.NeighborMines++
		}
	})
}

// forEachNeighbor calls fn for each in-bounds cell among the 8 around p.
func (b *Board) forEachNeighbor(p Pos, fn func(Pos)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Pos{X: p.X + dx, Y: p.Y + dy}
			if b.InBounds(n.X, n.Y) {
				fn(n)
			}
		}
	}
}

func (b *Board) cell(p Pos) *Cell {
	return &b.cells[p.Y][p.X]
}

// InBounds reports whether (x, y) is on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Cell returns a copy of the cell at (x, y).
// The second result is false for out-of-bounds coordinates.
func (b *Board) Cell(x, y int) (Cell, bool) {
	if !b.InBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[y][x], true
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// MineCount returns the number of mines on the board.
func (b *Board) MineCount() int {
	return b.mineCount
}

// SafeCells returns the number of cells without a mine.
func (b *Board) SafeCells() int {
	return b.width*b.height - b.mineCount
}

// RevealedSafeCount returns the number of revealed cells without a mine.
func (b *Board) RevealedSafeCount() int {
	return b.revealedSafe
}

// FlaggedCount returns the number of flagged cells.
func (b *Board) FlaggedCount() int {
	return b.flagged
}

// Mines returns every mine position in row-major order.
func (b *Board) Mines() []Pos {
	mines := make([]Pos, 0, b.mineCount)
	for y := range b.cells {
		for x := range b.cells[y] {
			if b.cells[y][x].IsMine {
				mines = append(mines, Pos{X: x, Y: y})
			}
		}
	}
	return mines
}
