package move

import (
	"sort"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/trax/tile"
)

func TestPacking(t *testing.T) {
	is := is.New(t)
	m := FromXY(63, 70, tile.BR)
	is.Equal(m.X(), 63)
	is.Equal(m.Y(), 70)
	is.Equal(m.Tile(), tile.BR)
	is.True(!m.IsNone())
	is.True(None.IsNone())
	is.True(!OnBoard(ZToX(None.Z()), ZToY(None.Z())))
	is.Equal(FirstZ, XYToZ(63, 63))
}

func TestNeighbor(t *testing.T) {
	is := is.New(t)
	z := XYToZ(10, 10)
	is.Equal(Neighbor(z, tile.Up), XYToZ(9, 10))
	is.Equal(Neighbor(z, tile.Left), XYToZ(10, 9))
	is.Equal(Neighbor(z, tile.Down), XYToZ(11, 10))
	is.Equal(Neighbor(z, tile.Right), XYToZ(10, 11))
}

func TestScoresSort(t *testing.T) {
	is := is.New(t)
	s := Scores{{FromXY(3, 3, tile.PW), -5}, {FromXY(3, 4, tile.PW), 10}, {FromXY(3, 5, tile.PW), 0}}
	sort.Stable(s)
	is.Equal(s[0].Score, 10)
	is.Equal(s[2].Score, -5)
	is.Equal(len(s.Moves()), 3)
}

func TestRelativeTransformRoundTrip(t *testing.T) {
	is := is.New(t)
	r := Relative{X: 1, Y: 3, MX: 4, MY: 6, Tile: tile.SW}
	for s := 0; s < tile.NumSymmetries; s++ {
		tr := r.Transform(s)
		is.Equal(tr.InverseTransform(s), r)
	}
	tr := r.Transform(4)
	is.Equal(tr.X, 3)
	is.Equal(tr.Y, 1)
	is.Equal(tr.MX, 6)
	is.Equal(tr.MY, 4)
}
