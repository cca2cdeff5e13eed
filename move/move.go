// Package move defines board geometry and the compact Move value that the
// board, the search and the notation codec pass around.
package move

import (
	"fmt"

	"github.com/domino14/trax/tile"
)

const (
	// Size is the side of the square array the game is played on. Games
	// start in the middle, so real play never reaches the margin.
	Size = 128
	// Margin cells on every side are never playable, so the neighbors of a
	// playable cell are always inside the array.
	Margin = 2
	// NumCells is the number of cells in the array.
	NumCells = Size * Size
)

// FirstX and FirstY locate the only cell the opening tile may go on.
const (
	FirstX = Size/2 - 1
	FirstY = Size/2 - 1
)

// FirstZ is the cell index of the opening cell.
var FirstZ = XYToZ(FirstX, FirstY)

// XYToZ flattens board coordinates into a cell index.
func XYToZ(x, y int) int {
	return x*Size + y
}

func ZToX(z int) int { return z / Size }
func ZToY(z int) int { return z % Size }

// Neighbor returns the index of the cell next to z in direction d.
func Neighbor(z, d int) int {
	return z + tile.DX[d]*Size + tile.DY[d]
}

// OnBoard reports whether (x, y) is outside the margin.
func OnBoard(x, y int) bool {
	return x >= Margin && x < Size-Margin && y >= Margin && y < Size-Margin
}

// Move is a placement packed as cell<<3 | tile. The zero value is None:
// cell 0 lies in the margin.
type Move uint32

const None Move = 0

func New(z int, t tile.Tile) Move {
	return Move(z<<3 | int(t))
}

func FromXY(x, y int, t tile.Tile) Move {
	return New(XYToZ(x, y), t)
}

func (m Move) Z() int          { return int(m >> 3) }
func (m Move) X() int          { return ZToX(m.Z()) }
func (m Move) Y() int          { return ZToY(m.Z()) }
func (m Move) Tile() tile.Tile { return tile.Tile(m & 7) }

func (m Move) IsNone() bool {
	return m == None
}

func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)%s", m.X(), m.Y(), m.Tile())
}

// Score pairs a move with a search score.
type Score struct {
	Move  Move
	Score int
}

// Scores sorts by descending score.
type Scores []Score

func (s Scores) Len() int           { return len(s) }
func (s Scores) Less(i, j int) bool { return s[i].Score > s[j].Score }
func (s Scores) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Moves returns just the moves, in order.
func (s Scores) Moves() []Move {
	ret := make([]Move, len(s))
	for i := range s {
		ret[i] = s[i].Move
	}
	return ret
}
