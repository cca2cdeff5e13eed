// Package board implements the incremental Trax game state. Every placed
// tile extends, joins or closes the open lines that run across the board.
// Lines are kept in a dense registry whose two endpoints are the empty cells
// just beyond the line's last tiles. Each endpoint cell holds a reference back
// to its line, so the effect of a placement can be computed locally.
package board

import (
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
	"github.com/domino14/trax/zobrist"
)

const (
	// VictoryLineLength is the span a line must cross to win.
	VictoryLineLength = 8
	// MaxTiles bounds how many tiles a single game can hold.
	MaxTiles = 1024
)

// Bound is the bounding box of all tiles placed so far. An empty board has
// HX = LX-1 so that the first tile sets both corners.
type Bound struct {
	LX, LY, HX, HY int
}

func (b *Bound) set(x, y int) {
	b.LX, b.LY = x, y
	b.HX, b.HY = x-1, y-1
}

func (b *Bound) update(x, y int) {
	if x < b.LX {
		b.LX = x
	} else if x > b.HX {
		b.HX = x
	}
	if y < b.LY {
		b.LY = y
	} else if y > b.HY {
		b.HY = y
	}
}

func (b Bound) DX() int { return b.HX - b.LX }
func (b Bound) DY() int { return b.HY - b.LY }

// edge is the back-reference stored at a line endpoint: which line ends
// here, at which of its two ends, and on which turn the endpoint appeared.
// Entries under filled cells go stale but are kept, since unplacing a tile
// reads them to find the lines it touched.
type edge struct {
	line int
	end  int
	age  int
}

// moveInfo records one physically placed tile.
type moveInfo struct {
	z    int
	tile tile.Tile
	last tile.Pattern

	// lineAge[c] holds the ages of the lines of color c before this tile
	// touched them; a join loses one of them otherwise.
	lineAge [2][2]int
}

// turnInfo records the state at the start of one user-visible turn.
type turnInfo struct {
	moveIndex int
	lines     int
	bound     Bound
	// latestTouched is latestTouchedAge before the turn was played.
	latestTouched int
}

// Board is a Trax position. It is not safe for concurrent use; searchers
// each own a copy.
type Board struct {
	colors [move.NumCells]tile.Pattern
	tiles  [move.NumCells]tile.Tile
	edges  [move.NumCells * tile.NumDirections]edge

	lines []Line
	moves []moveInfo
	turns []turnInfo

	turn  int
	bound Bound
	hash  uint64

	// latestTouchedAge is the age of the youngest pre-existing line that the
	// last MakeMove extended or joined, or -1.
	latestTouchedAge int

	attacks [2][]attack
	eval    EvalInfo
	scanBuf []move.Move

	zob *zobrist.Zobrist
}

// NewBoard returns an empty board. The zobrist table may be shared between
// boards that need comparable keys.
func NewBoard(z *zobrist.Zobrist) *Board {
	if z == nil {
		z = zobrist.New()
	}
	b := &Board{zob: z}
	b.Clear()
	return b
}

// Clear empties the board.
func (b *Board) Clear() {
	for i := range b.colors {
		b.colors[i] = 0
		b.tiles[i] = tile.None
	}
	for i := range b.edges {
		b.edges[i] = edge{}
	}
	b.lines = b.lines[:0]
	b.moves = b.moves[:0]
	b.turns = append(b.turns[:0], turnInfo{latestTouched: -1})
	b.turn = 0
	b.hash = 0
	b.bound.set(move.Size/2, move.Size/2)
	b.latestTouchedAge = -1
	b.clearAttacks()
	b.eval = EvalInfo{}
}

// CopyFrom makes b an independent copy of o.
func (b *Board) CopyFrom(o *Board) {
	b.colors = o.colors
	b.tiles = o.tiles
	b.edges = o.edges
	b.lines = append(b.lines[:0], o.lines...)
	b.moves = append(b.moves[:0], o.moves...)
	b.turns = append(b.turns[:0], o.turns...)
	b.turn = o.turn
	b.bound = o.bound
	b.hash = o.hash
	b.latestTouchedAge = o.latestTouchedAge
	for c := range b.attacks {
		b.attacks[c] = append(b.attacks[c][:0], o.attacks[c]...)
	}
	b.eval = o.eval
	b.zob = o.zob
}

// Copy returns a deep copy.
func (b *Board) Copy() *Board {
	n := &Board{}
	n.CopyFrom(b)
	return n
}

func (b *Board) Turn() int { return b.turn }
func (b *Board) Hash() uint64 { return b.hash }
func (b *Board) Bound() Bound { return b.bound }
func (b *Board) NumLines() int { return len(b.lines) }
func (b *Board) NumTiles() int { return len(b.moves) }
func (b *Board) Line(l int) Line { return b.lines[l] }
func (b *Board) Zobrist() *zobrist.Zobrist { return b.zob }

// TurnColor is the color of the side to move.
func (b *Board) TurnColor() tile.Color {
	return tile.TurnColor(b.turn)
}

// LastTurnColor is the color of the side that just moved.
func (b *Board) LastTurnColor() tile.Color {
	return b.TurnColor().Flip()
}

// Color returns the pattern of known edge colors of cell z.
func (b *Board) Color(z int) tile.Pattern {
	return b.colors[z]
}

// Tile returns the tile on cell z, or tile.None.
func (b *Board) Tile(z int) tile.Tile {
	return b.tiles[z]
}

// LatestTouchedLineAge is the age of the youngest existing line the last
// move extended or joined, or -1 if it only started new lines.
func (b *Board) LatestTouchedLineAge() int {
	return b.latestTouchedAge
}

// Path returns the moves that started each turn, in order. Forced tiles are
// not included.
func (b *Board) Path() []move.Move {
	ret := make([]move.Move, 0, b.turn)
	for t := 0; t < b.turn; t++ {
		mi := b.moves[b.turns[t].moveIndex]
		ret = append(ret, move.New(mi.z, mi.tile))
	}
	return ret
}

// TurnBound returns the bounding box as it was before turn t was played.
func (b *Board) TurnBound(t int) Bound {
	if t == b.turn {
		return b.bound
	}
	return b.turns[t].bound
}

// WhichTile returns the tile of orientation o that fits cell z, trying the
// white-topped tile first. Isolation is not checked.
func (b *Board) WhichTile(z int, o tile.Orientation) tile.Tile {
	for c := tile.White; c <= tile.Red; c++ {
		t := tile.Make(o, c)
		if t.Pattern().Holds(b.colors[z]) {
			return t
		}
	}
	return tile.None
}
