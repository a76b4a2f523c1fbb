package domain

const (
	Rows    = 6
	Columns = 7
	// Cells is the number of placements available on an empty board.
	Cells = Rows * Columns
)

// Coin is the content of a board cell.
type Coin int

const (
	Empty Coin = iota
	First
	Second
)

// Opponent returns the other player's coin. Empty has no opponent.
func (c Coin) Opponent() Coin {
	switch c {
	case First:
		return Second
	case Second:
		return First
	default:
		return Empty
	}
}

// Board is a 6x7 Connect-Four grid. Row 0 is the top row.
type Board struct {
	Cells     [Rows][Columns]Coin `json:"board"`
	Remaining int                 `json:"remaining_moves"`
	Moves     []int               `json:"moves"`
}

// NewBoard returns an empty board with every placement available.
func NewBoard() *Board {
	return &Board{
		Remaining: Cells,
		Moves:     []int{},
	}
}

// Drop places coin in the lowest empty row of column. It reports false and leaves
// the board untouched when the column is out of range or already full.
func (b *Board) Drop(column int, coin Coin) bool {
	if column < 0 || column >= Columns || coin == Empty {
		return false
	}
	if b.Cells[0][column] != Empty {
		return false
	}
	row := Rows - 1
	for b.Cells[row][column] != Empty {
		row--
	}
	b.Cells[row][column] = coin
	b.Remaining--
	b.Moves = append(b.Moves, column)
	return true
}

// Full reports whether no placement is left.
func (b *Board) Full() bool {
	return b.Remaining == 0
}

var directions = [4][2]int{
	{0, 1},  // right
	{1, 0},  // up
	{1, 1},  // up-right
	{1, -1}, // up-left
}

// CheckWinner scans the grid row by row from the top, left to right, and returns the
// coin of the first four-in-a-row found, or Empty.
func (b *Board) CheckWinner() Coin {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			coin := b.Cells[r][c]
			if coin == Empty {
				continue
			}
			for _, d := range directions {
				if b.lineFrom(r, c, d[0], d[1], coin) {
					return coin
				}
			}
		}
	}
	return Empty
}

func (b *Board) lineFrom(r, c, dr, dc int, coin Coin) bool {
	for k := 1; k < 4; k++ {
		rr, cc := r+k*dr, c+k*dc
		if rr < 0 || rr >= Rows || cc < 0 || cc >= Columns {
			return false
		}
		if b.Cells[rr][cc] != coin {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := *b
	out.Moves = append([]int(nil), b.Moves...)
	if out.Moves == nil {
		out.Moves = []int{}
	}
	return &out
}

// Replay rebuilds a board from a move log. First moves first and players alternate.
// It returns false if any move in the log is illegal.
func Replay(moves []int) (*Board, bool) {
	b := NewBoard()
	coin := First
	for _, column := range moves {
		if !b.Drop(column, coin) {
			return b, false
		}
		coin = coin.Opponent()
	}
	return b, true
}
