package board

import (
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// Attack kinds. A loop attack of kind 2 or 3 closes with that many tiles
// counted along the line's gap; a victory attack completes a victory line.
const (
	LoopAttack2   = 2
	LoopAttack3   = 3
	VictoryAttack = VictoryLineLength - 1
)

type attack struct {
	line int
	kind int
}

func (a attack) loop() bool {
	return a.kind <= LoopAttack3
}

func (b *Board) clearAttacks() {
	b.attacks[0] = b.attacks[0][:0]
	b.attacks[1] = b.attacks[1][:0]
}

func (b *Board) pushAttack(c tile.Color, l, kind int) {
	b.attacks[c] = append(b.attacks[c], attack{line: l, kind: kind})
}

// Attacks returns how many attacks color c holds after the last
// CheckSetAttacks.
func (b *Board) Attacks(c tile.Color) int {
	return len(b.attacks[c])
}

// AttackLines returns the line index and kind of each attack of color c.
func (b *Board) AttackLines(c tile.Color) [][2]int {
	ret := make([][2]int, len(b.attacks[c]))
	for i, a := range b.attacks[c] {
		ret[i] = [2]int{a.line, a.kind}
	}
	return ret
}

// CheckSetAttacks recomputes the attacks of both colors. An attack is an
// open line that its owner could turn into a win with one more move. It
// assumes no line has won yet on lines it inspects.
//
// Playing the moves of a cascade check does not change the board: make
// and unmake restore it exactly.
func (b *Board) CheckSetAttacks() {
	b.clearAttacks()
	for l := range b.lines {
		if b.lines[l].Mate() {
			continue
		}
		if b.checkPushLoopAttack(l) <= 0 {
			b.checkPushVictoryAttack(l)
		}
	}
	b.checkPushCascadeAttacks()
}

// checkPushCascadeAttacks covers what the line scan cannot see: a placement
// whose forced tiles close a loop, or stretch a line by more than one cell.
// For each color left without attacks, every generated move that forces a
// neighbor is played and taken back. A move that forces nothing places a
// single tile, and the line scan already judges those exactly.
func (b *Board) checkPushCascadeAttacks() {
	need := [2]bool{len(b.attacks[tile.White]) == 0, len(b.attacks[tile.Red]) == 0}
	if b.turn == 0 || !(need[tile.White] || need[tile.Red]) {
		return
	}
	b.scanBuf = b.GenerateMoves(b.scanBuf[:0])
	for _, m := range b.scanBuf {
		if !b.forcesNeighbor(m.Z(), m.Tile()) {
			continue
		}
		ret := b.MakeMove(m)
		if ret < 0 {
			continue
		}
		b.UnmakeMove()
		for c := tile.White; c <= tile.Red; c++ {
			if !need[c] || ret&(Won<<c) == 0 {
				continue
			}
			kind := VictoryAttack
			if ret&(LoopWin<<c) != 0 {
				kind = LoopAttack3
			}
			b.pushAttack(c, b.endLine(m.Z(), c), kind)
			need[c] = false
		}
		if !need[tile.White] && !need[tile.Red] {
			return
		}
	}
}

// forcesNeighbor reports whether placing t on z leaves an empty neighbor
// with only one possible tile.
func (b *Board) forcesNeighbor(z int, t tile.Tile) bool {
	for d := 0; d < tile.NumDirections; d++ {
		nz := move.Neighbor(z, d)
		if b.tiles[nz] != tile.None {
			continue
		}
		p := b.colors[nz].WithEdge(tile.Opposite(d), t.EdgeColor(d))
		if tile.Forced(p) != tile.Several {
			return true
		}
	}
	return false
}

// endLine returns a line of color c that ends on cell z, or failing that
// any line ending there.
func (b *Board) endLine(z int, c tile.Color) int {
	ret := 0
	for d := tile.NumDirections - 1; d >= 0; d-- {
		col := b.colors[z].EdgeColor(d)
		if col == tile.NoColor {
			continue
		}
		ret = b.edges[z*tile.NumDirections+d].line
		if col == c {
			return ret
		}
	}
	return ret
}

func (b *Board) checkPushLoopAttack(l int) int {
	line := &b.lines[l]
	x0, y0 := line.X(0), line.Y(0)
	x1, y1 := line.X(1), line.Y(1)
	adx, ady := abs(x1-x0), abs(y1-y0)
	switch adx + ady {
	case 1:
		b.pushAttack(line.color, l, LoopAttack2)
		return LoopAttack2
	case 2:
		if adx%2 == 0 {
			if b.isOpenCell(move.XYToZ((x0+x1)/2, (y0+y1)/2)) {
				b.pushAttack(line.color, l, LoopAttack3)
				return LoopAttack3
			}
			return -1
		}
		if b.isOpenCell(move.XYToZ(x0, y1)) || b.isOpenCell(move.XYToZ(x1, y0)) {
			b.pushAttack(line.color, l, LoopAttack3)
			return LoopAttack3
		}
	}
	return -1
}

// checkPushVictoryAttack detects a line that spans the bounding box, or
// falls one tile short of it with the missing tile placeable at the far end.
func (b *Board) checkPushVictoryAttack(l int) int {
	line := &b.lines[l]
	c := line.color
	if ldx := line.DX(); ldx >= VictoryLineLength {
		if ldx == b.bound.DX()+2 {
			b.pushAttack(c, l, VictoryAttack)
			return VictoryAttack
		} else if ldx == b.bound.DX()+1 {
			e0, e1 := 0, 1
			if line.X(0) > line.X(1) {
				e0, e1 = 1, 0
			}
			if b.victoryAttackAlong(line, e0, e1, line.X, b.bound.LX, b.bound.HX, tile.Up, tile.Down) {
				b.pushAttack(c, l, VictoryAttack)
				return VictoryAttack
			}
		}
	}
	if ldy := line.DY(); ldy >= VictoryLineLength {
		if ldy == b.bound.DY()+2 {
			b.pushAttack(c, l, VictoryAttack)
			return VictoryAttack
		} else if ldy == b.bound.DY()+1 {
			e0, e1 := 0, 1
			if line.Y(0) > line.Y(1) {
				e0, e1 = 1, 0
			}
			if b.victoryAttackAlong(line, e0, e1, line.Y, b.bound.LY, b.bound.HY, tile.Left, tile.Right) {
				b.pushAttack(c, l, VictoryAttack)
				return VictoryAttack
			}
		}
	}
	return -1
}

// victoryAttackAlong checks one axis. e0 is the end with the lower
// coordinate; lo and hi are the bounding box limits on that axis and back
// and forward are the directions towards lo and hi.
func (b *Board) victoryAttackAlong(line *Line, e0, e1 int, coord func(int) int,
	lo, hi, back, forward int) bool {

	const skip = SkipOutOfBoard | SkipDouble | SkipIsolated | SkipFirstTurn
	if coord(e0)+1 == lo {
		t := tile.EndForced(line.color, line.D(e1), forward)
		if t != tile.None && b.IsPseudoLegalPattern(line.Z(e1), t.Pattern(), skip) {
			return true
		}
	}
	if coord(e1)-1 == hi {
		t := tile.EndForced(line.color, line.D(e0), back)
		if t != tile.None && b.IsPseudoLegalPattern(line.Z(e0), t.Pattern(), skip) {
			return true
		}
	}
	return false
}

// oneTurnConnectable reports how many cells separate endpoint cells z0 and
// z1 when a single placement could connect them (2 or 3), or 0.
func (b *Board) oneTurnConnectable(z0, z1 int) int {
	x0, y0 := move.ZToX(z0), move.ZToY(z0)
	x1, y1 := move.ZToX(z1), move.ZToY(z1)
	adx, ady := abs(x1-x0), abs(y1-y0)
	switch adx + ady {
	case 1:
		return 2
	case 2:
		if adx%2 == 0 {
			if b.isOpenCell(move.XYToZ((x0+x1)/2, (y0+y1)/2)) {
				return 3
			}
		} else if b.isOpenCell(move.XYToZ(x0, y1)) || b.isOpenCell(move.XYToZ(x1, y0)) {
			return 3
		}
	}
	return 0
}

// HasInevasibleAttacks reports whether color c holds attacks the opponent
// cannot all answer with one move. Three or more attacks always count. Two
// loop attacks count unless some pair of their endpoints is connectable in
// one move, since that move could defuse both.
func (b *Board) HasInevasibleAttacks(c tile.Color) bool {
	as := b.attacks[c]
	if len(as) < 2 {
		return false
	}
	if len(as) > 2 {
		return true
	}
	if as[0].loop() && as[1].loop() {
		l0, l1 := &b.lines[as[0].line], &b.lines[as[1].line]
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if b.oneTurnConnectable(l0.Z(i), l1.Z(j)) > 0 {
					return false
				}
			}
		}
	}
	return true
}
