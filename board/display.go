package board

import (
	"fmt"
	"strings"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/notation"
	"github.com/domino14/trax/tile"
)

// ToDisplayText renders the tiles inside the bounding box grown by one
// cell. Each tile shows its glyph and top color; empty cells next to a tile
// show a dot.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "turn %d, %d tiles, %d lines, key %016x\n", b.turn, len(b.moves), len(b.lines), b.hash)
	sb.WriteString("    ")
	for y := b.bound.LY - 1; y <= b.bound.HY+1; y++ {
		fmt.Fprintf(&sb, "%-3s", notation.ColumnString(y-b.bound.LY+1))
	}
	sb.WriteString("\n")
	for x := b.bound.LX - 1; x <= b.bound.HX+1; x++ {
		fmt.Fprintf(&sb, "%3s ", notation.RowString(x-b.bound.LX+1))
		for y := b.bound.LY - 1; y <= b.bound.HY+1; y++ {
			z := move.XYToZ(x, y)
			switch t := b.tiles[z]; {
			case t != tile.None:
				sb.WriteString(t.String() + " ")
			case b.colors[z].Any():
				sb.WriteString(".  ")
			default:
				sb.WriteString("   ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// LinesText lists the line registry, one line per row.
func (b *Board) LinesText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d lines\n", len(b.lines))
	for l := range b.lines {
		line := &b.lines[l]
		fmt.Fprintf(&sb, "%3d %s %s(%d)-%s(%d) age %d shape %08b", l, line.color,
			notation.Coord(line.X(0), line.Y(0), b.bound.LX, b.bound.LY), line.D(0),
			notation.Coord(line.X(1), line.Y(1), b.bound.LX, b.bound.LY), line.D(1),
			line.age, line.shape)
		if line.loop {
			sb.WriteString(" loop")
		}
		if line.vline {
			sb.WriteString(" vline")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Board) String() string {
	return b.ToDisplayText()
}
