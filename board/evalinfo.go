package board

import (
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// Layout of an evaluation weight vector. Pair weights come in two: the
// first applies to the evaluating side's own lines, the second to the
// opponent's.
const (
	WeightOwnThreats    = 0
	WeightOppThreats    = 1
	WeightOwnLongLines  = 2
	WeightOppLongLines  = 3
	WeightLineShapeBase = 4
	WeightTwoLinesBase  = WeightLineShapeBase + 256*2
	WeightBias          = WeightTwoLinesBase + 256*2
	NumWeights          = WeightBias + 1
)

// EvalInfo holds the features UpdateEvalInfo extracts, indexed by color.
// The shape scores are seen from the indexed color's side.
type EvalInfo struct {
	Threats        [2]int
	LongLines      [2]int
	LineShapeScore [2]int
	TwoLinesScore  [2]int
}

// EvalInfo returns the features computed by the last UpdateEvalInfo.
func (b *Board) EvalInfo() EvalInfo {
	return b.eval
}

// UpdateEvalInfo recomputes the evaluation features using weights w, which
// must hold NumWeights values. It assumes the game is not over.
func (b *Board) UpdateEvalInfo(w []int) {
	b.eval = EvalInfo{}
	ev := &b.eval
	for l0 := range b.lines {
		line0 := &b.lines[l0]
		c0 := line0.color
		for p := tile.White; p <= tile.Red; p++ {
			ev.LineShapeScore[p] += w[WeightLineShapeBase+int(line0.shape)*2+side(p, c0)]
		}
		if max(VictoryLineLength+1-line0.DX(), b.bound.DX()-line0.DX()) <= 2 {
			ev.LongLines[c0]++
		}
		if max(VictoryLineLength+1-line0.DY(), b.bound.DY()-line0.DY()) <= 2 {
			ev.LongLines[c0]++
		}
		corner0 := line0.Is11Corner()

		for l1 := 0; l1 < l0; l1++ {
			line1 := &b.lines[l1]
			if line1.color != c0 {
				continue
			}
			pat0, pat1 := twoLinesPatterns(line0, line1)
			for p := tile.White; p <= tile.Red; p++ {
				s := side(p, c0)
				ev.TwoLinesScore[p] += w[WeightTwoLinesBase+pat0*2+s]
				ev.TwoLinesScore[p] += w[WeightTwoLinesBase+pat1*2+s]
			}
			if corner0 && line1.Is11Corner() {
				ev.Threats[c0] += b.cornerThreats(line0, line1)
			}
		}
	}
}

func side(p, c tile.Color) int {
	if p == c {
		return 0
	}
	return 1
}

// twoLinesPatterns packs the clamped distances between the ends of two
// lines, pairing end i of the first with end i, then with end 1-i, of the
// second.
func twoLinesPatterns(a, b *Line) (int, int) {
	d := func(i, j int) (int, int) {
		return min(3, abs(a.X(i)-b.X(j))), min(3, abs(a.Y(i)-b.Y(j)))
	}
	x00, y00 := d(0, 0)
	x11, y11 := d(1, 1)
	x01, y01 := d(0, 1)
	x10, y10 := d(1, 0)
	return x00 | y00<<2 | x11<<4 | y11<<6, x01 | y01<<2 | x10<<4 | y10<<6
}

// cornerThreats counts the threat shapes formed by two single-curve lines of
// the same color. Equal curves a knight's move apart usually make an L
// threat. Curves three apart in a row make an edge threat when the two cells
// between them on the open side already show the opponent's color.
func (b *Board) cornerThreats(l0, l1 *Line) int {
	c0 := l0.color
	oc0 := c0.Flip()
	z0 := move.Neighbor(l0.Z(0), l0.D(0))
	z1 := move.Neighbor(l1.Z(0), l1.D(0))
	x0, y0 := move.ZToX(z0), move.ZToY(z0)
	x1, y1 := move.ZToX(z1), move.ZToY(z1)
	t0, t1 := b.tiles[z0], b.tiles[z1]

	n := 0
	if t0 == t1 && abs((x0-x1)*(y0-y1)) == 2 {
		n++
	}
	sc, so := tile.Make(tile.Slash, c0), tile.Make(tile.Slash, oc0)
	bc, bo := tile.Make(tile.Backslash, c0), tile.Make(tile.Backslash, oc0)
	if x0 == x1 && abs(y1-y0) == 3 {
		ay0, ay1 := (y0+y1-1)/2, (y0+y1+1)/2
		switch {
		case (t0 == sc && t1 == bc) || (t1 == sc && t0 == bc):
			if b.facing(x0-1, ay0, tile.Down, oc0) && b.facing(x0-1, ay1, tile.Down, oc0) {
				n++
			}
		case (t0 == so && t1 == bo) || (t1 == so && t0 == bo):
			if b.facing(x0+1, ay0, tile.Up, oc0) && b.facing(x0+1, ay1, tile.Up, oc0) {
				n++
			}
		}
	} else if y0 == y1 && abs(x1-x0) == 3 {
		ax0, ax1 := (x0+x1-1)/2, (x0+x1+1)/2
		switch {
		case (t0 == sc && t1 == bo) || (t1 == sc && t0 == bo):
			if b.facing(ax0, y0-1, tile.Right, oc0) && b.facing(ax1, y0-1, tile.Right, oc0) {
				n++
			}
		case (t0 == so && t1 == bc) || (t1 == so && t0 == bc):
			if b.facing(ax0, y0+1, tile.Left, oc0) && b.facing(ax1, y0+1, tile.Left, oc0) {
				n++
			}
		}
	}
	return n
}

// facing reports whether the empty cell (x, y) has edge d colored c.
func (b *Board) facing(x, y, d int, c tile.Color) bool {
	tc := b.colors[move.XYToZ(x, y)]
	return !tc.Filled() && tc.EdgeColor(d) == c
}

// FeatureVector returns the raw counts behind the evaluation from the side
// to move's point of view.
func (b *Board) FeatureVector(w []int) []float64 {
	b.UpdateEvalInfo(w)
	my := b.TurnColor()
	opp := my.Flip()
	return []float64{
		float64(b.eval.Threats[my]),
		float64(b.eval.Threats[opp]),
		float64(b.eval.LongLines[my]),
		float64(b.eval.LongLines[opp]),
	}
}
