package board

import (
	"fmt"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// Line is an open (or just closed) chain of same-colored track. Each end is
// stored as z*4+d: the empty cell z beyond the last tile and the direction d
// from that cell towards the tile.
type Line struct {
	ends  [2]int
	color tile.Color
	// age is the turn on which the line last grew.
	age   int
	shape uint8
	loop  bool
	vline bool
}

// Z is the endpoint cell of end e.
func (l *Line) Z(e int) int { return l.ends[e] / tile.NumDirections }
func (l *Line) X(e int) int { return move.ZToX(l.Z(e)) }
func (l *Line) Y(e int) int { return move.ZToY(l.Z(e)) }

// D is the direction from the endpoint cell of end e back into the line.
func (l *Line) D(e int) int { return l.ends[e] % tile.NumDirections }

// BX and BY locate the last tile of the line behind end e.
func (l *Line) BX(e int) int { return l.X(e) + tile.DX[l.D(e)] }
func (l *Line) BY(e int) int { return l.Y(e) + tile.DY[l.D(e)] }

func (l *Line) DX() int { return abs(l.X(1) - l.X(0)) }
func (l *Line) DY() int { return abs(l.Y(1) - l.Y(0)) }

func (l *Line) DBX() int { return abs(l.BX(1) - l.BX(0)) }
func (l *Line) DBY() int { return abs(l.BY(1) - l.BY(0)) }

func (l *Line) Color() tile.Color { return l.color }
func (l *Line) Age() int { return l.age }

// Shape packs the clamped end distances: front dx, front dy, back dx and
// back dy, two bits each.
func (l *Line) Shape() uint8 { return l.shape }

func (l *Line) Loop() bool { return l.loop }
func (l *Line) VictoryLine() bool { return l.vline }

// Mate reports whether the line already won the game.
func (l *Line) Mate() bool { return l.loop || l.vline }

// Is11Corner reports whether the line is a single curve tile: its ends are
// diagonal neighbors facing the same tile.
func (l *Line) Is11Corner() bool {
	return l.shape == 1|1<<2
}

func (l *Line) setShape() {
	l.shape = uint8(min(3, l.DX()) | min(3, l.DY())<<2 | min(3, l.DBX())<<4 | min(3, l.DBY())<<6)
}

func (l *Line) clearFlags() {
	l.loop = false
	l.vline = false
}

func (l *Line) String() string {
	flags := ""
	if l.loop {
		flags += " -loop"
	}
	if l.vline {
		flags += " -vline"
	}
	return fmt.Sprintf("[%s,%d] (%d,%d,%d)-(%d,%d,%d) %08b%s", l.color, l.age,
		l.X(0), l.Y(0), l.D(0), l.X(1), l.Y(1), l.D(1), l.shape, flags)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
