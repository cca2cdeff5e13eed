package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

func TestPackData(t *testing.T) {
	is := is.New(t)
	m := move.FromXY(move.Size-3, move.Size-3, tile.BR)
	for _, c := range []struct {
		score, depth int
	}{
		{0, 0}, {-ScoreInfinite, -7 * OnePly}, {ScoreNone, MaxPly * OnePly}, {-31999, 1},
	} {
		e := unpackData(packData(m, c.score, c.depth, BoundLower, 200))
		is.Equal(e, Entry{Move: m, Score: c.score, Depth: c.depth, Bound: BoundLower, Age: 200})
	}
}

func TestSaveLookUp(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	key := uint64(0xdeadbeef12345678)
	m := move.New(move.FirstZ, tile.PW)

	_, ok := tt.LookUp(key)
	is.True(!ok)

	tt.Save(key, m, 123, 3*OnePly, BoundExact)
	e, ok := tt.LookUp(key)
	is.True(ok)
	is.Equal(e.Move, m)
	is.Equal(e.Score, 123)
	is.Equal(e.Depth, 3*OnePly)
	is.Equal(e.Bound, uint8(BoundExact))

	// a result without a move keeps the stored one
	tt.Save(key, move.None, -50, OnePly, BoundUpper)
	e, ok = tt.LookUp(key)
	is.True(ok)
	is.Equal(e.Move, m)
	is.Equal(e.Score, -50)

	// same bucket, different check key
	_, ok = tt.LookUp(key ^ 1<<40)
	is.True(!ok)

	lookups, hits, stores := tt.Stats()
	is.Equal(lookups, uint64(4))
	is.Equal(hits, uint64(2))
	is.Equal(stores, uint64(2))
}

func TestReplacement(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	// keys sharing a bucket
	keyOf := func(i int) uint64 { return uint64(i+1)<<32 | 7 }
	m := move.New(move.FirstZ, tile.SW)

	for i := 0; i < bucketSize; i++ {
		tt.Save(keyOf(i), m, i, 10*OnePly, BoundUpper)
	}
	is.Equal(tt.hashfull.Load(), uint64(bucketSize))

	// entry 2 becomes old and shallow; the next save replaces it
	tt.NextAge()
	for _, i := range []int{0, 1, 3} {
		_, ok := tt.LookUp(keyOf(i))
		is.True(ok)
	}
	tt.Save(keyOf(9), m, 9, OnePly, BoundUpper)
	_, ok := tt.LookUp(keyOf(2))
	is.True(!ok)
	e, ok := tt.LookUp(keyOf(9))
	is.True(ok)
	is.Equal(e.Score, 9)
	for _, i := range []int{0, 1, 3} {
		_, ok := tt.LookUp(keyOf(i))
		is.True(ok)
	}
	// no new slot was filled
	is.Equal(tt.hashfull.Load(), uint64(bucketSize))
}

func TestClearAndHashfull(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	is.Equal(tt.Hashfull(), 0)
	n := len(tt.table) * bucketSize / 8
	for i := 0; i < n; i++ {
		// distinct buckets
		tt.Save(uint64(i)|1<<40, move.None, 0, 0, BoundUpper)
	}
	is.Equal(tt.Hashfull(), 125)
	tt.Clear()
	is.Equal(tt.Hashfull(), 0)
	_, ok := tt.LookUp(1 << 40)
	is.True(!ok)
}
