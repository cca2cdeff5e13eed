package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	z := New()

	h := uint64(0)
	m := move.FromXY(move.FirstX, move.FirstY, tile.PW)
	h1 := z.AddMove(h, m)
	h2 := z.AddMove(h1, m)
	is.Equal(h, h2)
	is.True(h1 != h2)
	is.Equal(h1&1, uint64(0))
}

func TestPlayAndUnplayMoreLevels(t *testing.T) {
	is := is.New(t)
	z := New()
	moves := []move.Move{
		move.FromXY(63, 63, tile.PW),
		move.FromXY(62, 63, tile.SR),
		move.FromXY(63, 64, tile.BW),
	}
	h := uint64(0)
	keys := []uint64{h}
	for _, m := range moves {
		h = z.AddMove(h, m)
		keys = append(keys, h)
	}
	for i := len(moves) - 1; i >= 0; i-- {
		h = z.AddMove(h, moves[i])
		is.Equal(h, keys[i])
	}
	// order of placement does not matter
	h2 := z.AddMove(z.AddMove(z.AddMove(0, moves[2]), moves[0]), moves[1])
	is.Equal(h2, keys[3])
}

func TestRelativeMatchesAbsolute(t *testing.T) {
	is := is.New(t)
	z := New()
	is.Equal(z.Relative(3, 4, tile.SR), z.AddMove(0, move.FromXY(3, 4, tile.SR)))
}
