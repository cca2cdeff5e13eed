package board

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/notation"
	"github.com/domino14/trax/tile"
)

// ErrNoFittingTile is returned when no tile of the written orientation fits
// the neighbors of the target cell.
var ErrNoFittingTile = errors.New("no tile of that orientation fits")

// ReadMove decodes standard or expanded notation against the current
// bounding box. Without a color suffix the color of the tile is taken from
// the cell's neighbors; with one, the tile must agree with them.
func (b *Board) ReadMove(s string) (move.Move, error) {
	p, err := notation.ParseMove(s)
	if err != nil {
		return move.None, fmt.Errorf("%q: %w", s, err)
	}
	x, y := b.bound.LX-1+p.Row, b.bound.LY-1+p.Column
	if !move.OnBoard(x, y) {
		return move.None, fmt.Errorf("%q: %w", s, ErrOutOfBoard)
	}
	z := move.XYToZ(x, y)
	t := p.Tile()
	if t == tile.None {
		t = b.WhichTile(z, p.Orientation)
	} else if !t.Pattern().Holds(b.colors[z]) {
		t = tile.None
	}
	if t == tile.None {
		return move.None, fmt.Errorf("%q: %w", s, ErrNoFittingTile)
	}
	return move.New(z, t), nil
}

// MoveString writes m in standard notation against the current bounding
// box.
func (b *Board) MoveString(m move.Move) string {
	return notation.Format(m.X()-b.bound.LX+1, m.Y()-b.bound.LY+1, m.Tile())
}

// ExpandedMoveString writes m in expanded notation.
func (b *Board) ExpandedMoveString(m move.Move) string {
	return notation.FormatExpanded(m.X()-b.bound.LX+1, m.Y()-b.bound.LY+1, m.Tile())
}

// PathNotations returns the game so far in standard notation, each move
// written against the bounding box of its own turn.
func (b *Board) PathNotations() []string {
	return lo.Map(b.Path(), func(m move.Move, t int) string {
		bd := b.TurnBound(t)
		return notation.Format(m.X()-bd.LX+1, m.Y()-bd.LY+1, m.Tile())
	})
}

// PathExpandedNotations is PathNotations in expanded notation.
func (b *Board) PathExpandedNotations() []string {
	return lo.Map(b.Path(), func(m move.Move, t int) string {
		bd := b.TurnBound(t)
		return notation.FormatExpanded(m.X()-bd.LX+1, m.Y()-bd.LY+1, m.Tile())
	})
}

// PlayRecord reads and plays each move of a game record. It stops at the
// first unreadable or illegal move, or after a move that ends the game, and
// returns the result of the last move played.
func (b *Board) PlayRecord(record string) (int, error) {
	ret := 0
	for i, s := range notation.SplitRecord(record) {
		if ret > 0 {
			return ret, fmt.Errorf("move %d (%s): game already over", i+1, s)
		}
		m, err := b.ReadMove(s)
		if err != nil {
			return ret, fmt.Errorf("move %d: %w", i+1, err)
		}
		ret = b.MakeMove(m)
		if ret < 0 {
			return ret, fmt.Errorf("move %d (%s): %w", i+1, s, ResultError(ret))
		}
	}
	return ret, nil
}
