package board

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// MakeMove places m and every tile it forces. It returns a negative result
// code if the move is illegal, in which case the board is left as it was.
// Otherwise it returns the win flags of the placement (0 if nobody won).
func (b *Board) MakeMove(m move.Move) int {
	return b.makeMove(m.Z(), m.Tile(), false)
}

// MakePseudoLegalMove places a move the caller already knows to be
// pseudo-legal, skipping the single-tile checks. A forced contradiction is
// still detected and rolled back.
func (b *Board) MakePseudoLegalMove(m move.Move) int {
	return b.makeMove(m.Z(), m.Tile(), true)
}

func (b *Board) makeMove(z int, t tile.Tile, pseudoLegal bool) int {
	b.turns[b.turn].bound = b.bound
	b.turns[b.turn].lines = len(b.lines)
	b.turns[b.turn].latestTouched = b.latestTouchedAge
	// Forced tiles never fall outside the box of the tiles around them, so
	// only the placed tile can grow it.
	b.bound.update(move.ZToX(z), move.ZToY(z))
	b.latestTouchedAge = -1
	ret := b.makeMoveSub(z, t, pseudoLegal)
	if ret < 0 {
		b.unmakeMoveSub(b.turn)
		b.latestTouchedAge = b.turns[b.turn].latestTouched
		return ret
	}
	b.turn++
	if len(b.turns) <= b.turn {
		b.turns = append(b.turns, turnInfo{})
	}
	b.turns[b.turn].moveIndex = len(b.moves)
	return ret
}

// UnmakeMove takes back the last turn, including all of its forced tiles.
func (b *Board) UnmakeMove() {
	b.UnmakeTo(b.turn - 1)
}

// UnmakeTo takes back every turn from t onwards. It does nothing unless
// 0 <= t < Turn().
func (b *Board) UnmakeTo(t int) {
	if t < 0 || t >= b.turn {
		return
	}
	b.turn = t
	b.unmakeMoveSub(t)
	b.latestTouchedAge = b.turns[t].latestTouched
	b.turns[t].moveIndex = len(b.moves)
	b.turns = b.turns[:t+1]
}

// makeMoveSub places one tile and recursively its forced neighbors. The move
// stack is the transaction log: on a contradiction the caller replays it
// backwards to the start of the turn.
func (b *Board) makeMoveSub(z int, t tile.Tile, pseudoLegal bool) int {
	last := b.colors[z]
	if !pseudoLegal {
		if !move.OnBoard(move.ZToX(z), move.ZToY(z)) {
			return OutOfBoard
		}
		if b.tiles[z] != tile.None {
			return Double
		}
		if !t.Pattern().Holds(last) {
			return BadColor
		}
		if !last.Any() && b.turn != 0 {
			return Isolated
		}
		if b.turn == 0 {
			if z != move.FirstZ || (t != tile.PW && t != tile.SW) {
				return FirstRestriction
			}
		}
	}

	ret := b.place(z, t, last)
	for d := 0; d < tile.NumDirections; d++ {
		tz := move.Neighbor(z, d)
		if b.tiles[tz] != tile.None {
			continue
		}
		// Every neighbor of a fresh tile has at least one known edge, so
		// None here means a contradiction.
		forced := tile.Forced(b.colors[tz])
		if forced == tile.None {
			return ForcedBadColor
		}
		if forced == tile.Several {
			continue
		}
		r := b.makeMoveSub(tz, forced, true)
		if r < 0 {
			return r
		}
		ret |= r
	}
	return ret
}

func (b *Board) unmakeMoveSub(t int) {
	for i := len(b.moves) - 1; i >= b.turns[t].moveIndex; i-- {
		b.unplace()
	}
	b.bound = b.turns[b.turn].bound
}

// place writes tile t on the empty cell z whose neighbor pattern was last,
// and updates every line the tile touches.
func (b *Board) place(z int, t tile.Tile, last tile.Pattern) int {
	b.colors[z] = t.Pattern()
	b.tiles[z] = t
	b.hash = b.zob.AddMove(b.hash, move.New(z, t))
	b.moves = append(b.moves, moveInfo{z: z, tile: t, last: last})
	mi := &b.moves[len(b.moves)-1]

	ret := 0
	for c := tile.White; c <= tile.Red; c++ {
		d0, d1 := t.Ends(c)
		has0, has1 := last.Has(d0), last.Has(d1)
		switch {
		case has0 && has1:
			ret |= b.join(mi, c, d0, d1)
		case has0:
			ret |= b.extend(mi, c, d0, d1)
		case has1:
			ret |= b.extend(mi, c, d1, d0)
		default:
			b.newLine(z, c, d0, d1)
		}
	}
	return ret
}

// join connects the two line ends that meet on the new tile. If both belong
// to the same line it closes a loop. Otherwise the lower-indexed line
// absorbs the other, and the last line in the registry moves into the freed
// slot.
func (b *Board) join(mi *moveInfo, c tile.Color, d0, d1 int) int {
	zd0, zd1 := mi.z*tile.NumDirections+d0, mi.z*tile.NumDirections+d1
	l0, l1 := b.edges[zd0].line, b.edges[zd1].line
	if l0 == l1 {
		b.lines[l0].loop = true
		return LoopWin << c
	}
	s, k := l0, l1
	zds, zdk := zd0, zd1
	if l1 < l0 {
		s, k = l1, l0
		zds, zdk = zd1, zd0
	}
	es, ek := b.edges[zds].end, b.edges[zdk].end
	survivor, consumed := &b.lines[s], &b.lines[k]

	far := consumed.ends[1-ek]
	mi.lineAge[c] = [2]int{survivor.age, consumed.age}
	b.touched(max(survivor.age, consumed.age))

	survivor.ends[es] = far
	survivor.age = b.turn
	survivor.setShape()
	b.edges[far].line = s
	b.edges[far].end = es

	last := len(b.lines) - 1
	if k != last {
		b.lines[k] = b.lines[last]
		for e := 0; e < 2; e++ {
			b.edges[b.lines[k].ends[e]].line = k
		}
		log.Debug().Int("line", last).Int("slot", k).Msg("line-moved-on-join")
	}
	b.lines = b.lines[:last]
	return b.checkVictoryLine(s)
}

// extend grows the line ending at edge din of the new tile through to the
// tile's edge dout.
func (b *Board) extend(mi *moveInfo, c tile.Color, din, dout int) int {
	zd := mi.z*tile.NumDirections + din
	l, e := b.edges[zd].line, b.edges[zd].end
	tz := move.Neighbor(mi.z, dout)
	od := tile.Opposite(dout)
	b.colors[tz] = b.colors[tz].WithEdge(od, c)
	tzd := tz*tile.NumDirections + od

	line := &b.lines[l]
	line.ends[e] = tzd
	mi.lineAge[c][0] = line.age
	b.touched(line.age)
	line.age = b.turn
	line.setShape()
	b.edges[tzd] = edge{line: l, end: e, age: b.turn}
	return b.checkVictoryLine(l)
}

// newLine registers the two-ended line a tile starts when neither of its
// color c edges touches anything. The smaller endpoint becomes end 0.
func (b *Board) newLine(z int, c tile.Color, d0, d1 int) {
	tz0, tz1 := move.Neighbor(z, d0), move.Neighbor(z, d1)
	od0, od1 := tile.Opposite(d0), tile.Opposite(d1)
	b.colors[tz0] = b.colors[tz0].WithEdge(od0, c)
	b.colors[tz1] = b.colors[tz1].WithEdge(od1, c)
	tzd0, tzd1 := tz0*tile.NumDirections+od0, tz1*tile.NumDirections+od1
	if tzd1 < tzd0 {
		tzd0, tzd1 = tzd1, tzd0
	}
	l := len(b.lines)
	line := Line{ends: [2]int{tzd0, tzd1}, color: c, age: b.turn}
	line.setShape()
	b.lines = append(b.lines, line)
	b.edges[tzd0] = edge{line: l, end: 0, age: b.turn}
	b.edges[tzd1] = edge{line: l, end: 1, age: b.turn}
}

func (b *Board) touched(age int) {
	b.latestTouchedAge = max(b.latestTouchedAge, age)
}

// checkVictoryLine flags line l if it spans the full bounding box along an
// axis at least VictoryLineLength tiles long.
func (b *Board) checkVictoryLine(l int) int {
	line := &b.lines[l]
	ret := 0
	if b.bound.DX() >= VictoryLineLength-1 && line.DX() >= b.bound.DX()+2 {
		line.vline = true
		ret |= VictoryLineWin << line.color
	}
	if b.bound.DY() >= VictoryLineLength-1 && line.DY() >= b.bound.DY()+2 {
		line.vline = true
		ret |= VictoryLineWin << line.color
	}
	return ret
}

// unplace pops the last tile off the move stack and reverses its effect on
// the line registry. Colors are undone in the reverse order of place.
func (b *Board) unplace() {
	mi := &b.moves[len(b.moves)-1]
	z, t, last := mi.z, mi.tile, mi.last
	for c := tile.Red; c >= tile.White; c-- {
		d0, d1 := t.Ends(c)
		has0, has1 := last.Has(d0), last.Has(d1)
		switch {
		case has0 && has1:
			b.unjoin(mi, c, d0, d1)
		case has0:
			b.unextend(mi, c, d0, d1)
		case has1:
			b.unextend(mi, c, d1, d0)
		default:
			b.removeNewLine(z, d0, d1)
		}
	}
	b.moves = b.moves[:len(b.moves)-1]
	b.hash = b.zob.AddMove(b.hash, move.New(z, t))
	b.tiles[z] = tile.None
	b.colors[z] = last
}

// unjoin reverses join. The edges under the filled cell still name the two
// line slots as they were right after the join.
func (b *Board) unjoin(mi *moveInfo, c tile.Color, d0, d1 int) {
	zd0, zd1 := mi.z*tile.NumDirections+d0, mi.z*tile.NumDirections+d1
	l0, l1 := b.edges[zd0].line, b.edges[zd1].line
	if l0 == l1 {
		b.lines[l0].clearFlags()
		return
	}
	s, k := l0, l1
	zds, zdk := zd0, zd1
	if l1 < l0 {
		s, k = l1, l0
		zds, zdk = zd1, zd0
	}
	es, ek := b.edges[zds].end, b.edges[zdk].end

	last := len(b.lines)
	b.lines = append(b.lines, Line{})
	if k != last {
		b.lines[last] = b.lines[k]
		for e := 0; e < 2; e++ {
			b.edges[b.lines[last].ends[e]].line = last
		}
	}

	survivor := &b.lines[s]
	far := survivor.ends[es]
	consumed := Line{color: c, age: mi.lineAge[c][1]}
	consumed.ends[ek] = zdk
	consumed.ends[1-ek] = far
	consumed.setShape()
	b.lines[k] = consumed
	b.edges[far].line = k
	b.edges[far].end = 1 - ek

	survivor.ends[es] = zds
	survivor.age = mi.lineAge[c][0]
	survivor.clearFlags()
	survivor.setShape()
}

func (b *Board) unextend(mi *moveInfo, c tile.Color, din, dout int) {
	zd := mi.z*tile.NumDirections + din
	tz := move.Neighbor(mi.z, dout)
	od := tile.Opposite(dout)
	tzd := tz*tile.NumDirections + od
	l, e := b.edges[tzd].line, b.edges[tzd].end

	b.colors[tz] = b.colors[tz].WithoutEdge(od)
	b.edges[tzd] = edge{}
	line := &b.lines[l]
	line.ends[e] = zd
	line.age = mi.lineAge[c][0]
	line.clearFlags()
	line.setShape()
}

func (b *Board) removeNewLine(z, d0, d1 int) {
	tz0, tz1 := move.Neighbor(z, d0), move.Neighbor(z, d1)
	od0, od1 := tile.Opposite(d0), tile.Opposite(d1)
	b.colors[tz0] = b.colors[tz0].WithoutEdge(od0)
	b.colors[tz1] = b.colors[tz1].WithoutEdge(od1)
	b.edges[tz0*tile.NumDirections+od0] = edge{}
	b.edges[tz1*tile.NumDirections+od1] = edge{}
	b.lines = b.lines[:len(b.lines)-1]
}
