package board

import (
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// Checks selects which single-tile checks a pseudo-legality test skips.
type Checks uint8

const (
	SkipOutOfBoard Checks = 1 << iota
	SkipDouble
	SkipIsolated
	SkipFirstTurn
)

// IsPseudoLegalMove reports whether the tile of m could be placed on its
// cell considering only the cell's own neighbors. A pseudo-legal move can
// still be rejected by a contradiction in its forced tiles.
func (b *Board) IsPseudoLegalMove(m move.Move) bool {
	z := m.Z()
	if !move.OnBoard(move.ZToX(z), move.ZToY(z)) {
		return false
	}
	if b.turn == 0 {
		return z == move.FirstZ && !m.Tile().IsBack()
	}
	tc := b.colors[z]
	return !tc.Filled() && tc.Any() && m.Tile().Pattern().Holds(tc)
}

// IsPseudoLegalPattern is IsPseudoLegalMove for a partial tile pattern p,
// with some of the checks switched off.
func (b *Board) IsPseudoLegalPattern(z int, p tile.Pattern, skip Checks) bool {
	if skip&SkipOutOfBoard == 0 && !move.OnBoard(move.ZToX(z), move.ZToY(z)) {
		return false
	}
	if skip&SkipFirstTurn == 0 && b.turn == 0 {
		return z == move.FirstZ && p.EdgeColor(tile.Up) != p.EdgeColor(tile.Right)
	}
	tc := b.colors[z]
	if skip&SkipDouble == 0 && tc.Filled() {
		return false
	}
	if skip&SkipIsolated == 0 && !tc.Any() {
		return false
	}
	return holdsColors(p, tc)
}

// holdsColors compares only the edges known in both patterns.
func holdsColors(p, q tile.Pattern) bool {
	for d := 0; d < tile.NumDirections; d++ {
		pc, qc := p.EdgeColor(d), q.EdgeColor(d)
		if qc != tile.NoColor && pc != qc {
			return false
		}
	}
	return true
}

// isOpenCell reports whether some tile could go on z: it is on the board,
// empty, and touches a tile.
func (b *Board) isOpenCell(z int) bool {
	if !move.OnBoard(move.ZToX(z), move.ZToY(z)) {
		return false
	}
	tc := b.colors[z]
	return !tc.Filled() && tc.Any()
}

// IsLegalMove plays m and takes it back, reporting whether it was accepted.
// The board is unchanged afterwards.
func (b *Board) IsLegalMove(m move.Move) bool {
	if b.MakeMove(m) < 0 {
		return false
	}
	b.UnmakeMove()
	return true
}
