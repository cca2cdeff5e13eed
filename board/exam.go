package board

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// Exam checks the internal consistency of the board and returns the first
// problem found. A static board is one where no line has been closed, so
// every line end must lie on an empty cell.
func (b *Board) Exam(static bool) error {
	if b.turn < 0 || len(b.turns) != b.turn+1 {
		return fmt.Errorf("bad turn %d with %d turn records", b.turn, len(b.turns))
	}
	for z := 0; z < move.NumCells; z++ {
		if t := b.tiles[z]; t != tile.None && b.colors[z] != t.Pattern() {
			return fmt.Errorf("tile %v at (%d,%d) disagrees with colors %v",
				t, move.ZToX(z), move.ZToY(z), b.colors[z])
		}
	}
	for l := range b.lines {
		line := &b.lines[l]
		if !line.color.Valid() {
			return fmt.Errorf("line %d has color %d", l, line.color)
		}
		for e := 0; e < 2; e++ {
			z, d := line.Z(e), line.D(e)
			if static && b.colors[z].Filled() {
				return fmt.Errorf("line %d end %d lies on a tile", l, e)
			}
			if b.colors[z].EdgeColor(d) != line.color {
				return fmt.Errorf("line %d end %d: cell color %v, line color %v",
					l, e, b.colors[z].EdgeColor(d), line.color)
			}
		}
		if line.age < max(b.edges[line.ends[0]].age, b.edges[line.ends[1]].age) {
			return fmt.Errorf("line %d is older than its ends", l)
		}
	}
	for z := 0; z < move.NumCells; z++ {
		tc := b.colors[z]
		if !tc.Any() || tc.Filled() {
			continue
		}
		for d := 0; d < tile.NumDirections; d++ {
			if !tc.Has(d) {
				continue
			}
			zd := z*tile.NumDirections + d
			ed := b.edges[zd]
			if ed.line < 0 || ed.line >= len(b.lines) {
				return fmt.Errorf("edge (%d,%d,%d) names missing line %d",
					move.ZToX(z), move.ZToY(z), d, ed.line)
			}
			line := &b.lines[ed.line]
			if line.color != tc.EdgeColor(d) {
				return fmt.Errorf("edge (%d,%d,%d) color %v, line %d color %v",
					move.ZToX(z), move.ZToY(z), d, tc.EdgeColor(d), ed.line, line.color)
			}
			if line.ends[ed.end] != zd {
				return fmt.Errorf("edge (%d,%d,%d) names line %d end %d, which is elsewhere",
					move.ZToX(z), move.ZToY(z), d, ed.line, ed.end)
			}
		}
	}
	for i, mi := range b.moves {
		if b.tiles[mi.z] != mi.tile {
			return fmt.Errorf("move %d placed %v but the board has %v", i, mi.tile, b.tiles[mi.z])
		}
	}
	return nil
}

// Equals reports whether two boards hold exactly the same state, including
// line registry order and history. The reason for a difference is logged at
// debug level.
func (b *Board) Equals(o *Board) bool {
	diff := func(what string) bool {
		log.Debug().Str("field", what).Msg("boards-differ")
		return false
	}
	if b.turn != o.turn {
		return diff("turn")
	}
	if b.bound != o.bound {
		return diff("bound")
	}
	if b.hash != o.hash {
		return diff("hash")
	}
	if b.latestTouchedAge != o.latestTouchedAge {
		return diff("latest touched age")
	}
	if len(b.lines) != len(o.lines) {
		return diff("line count")
	}
	for l := range b.lines {
		if b.lines[l] != o.lines[l] {
			return diff(fmt.Sprintf("line %d", l))
		}
	}
	if b.colors != o.colors {
		return diff("colors")
	}
	if b.tiles != o.tiles {
		return diff("tiles")
	}
	if b.edges != o.edges {
		return diff("edges")
	}
	if len(b.moves) != len(o.moves) {
		return diff("move count")
	}
	for i := range b.moves {
		if b.moves[i].z != o.moves[i].z || b.moves[i].tile != o.moves[i].tile ||
			b.moves[i].last != o.moves[i].last {
			return diff(fmt.Sprintf("move %d", i))
		}
	}
	for t := 0; t < b.turn; t++ {
		if b.turns[t] != o.turns[t] {
			return diff(fmt.Sprintf("turn record %d", t))
		}
	}
	if b.turns[b.turn].moveIndex != o.turns[o.turn].moveIndex {
		return diff("move index")
	}
	return true
}
