package tile

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestMakeRoundTrip(t *testing.T) {
	is := is.New(t)
	for tl := PW; tl <= BR; tl++ {
		is.Equal(Make(tl.Orientation(), tl.TopColor()), tl)
		is.Equal(tl.EdgeColor(Up), tl.TopColor())
	}
	is.True(PR.IsPlus())
	is.True(!SW.IsPlus())
	is.True(BR.IsBack())
	is.True(!SR.IsBack())
	is.Equal(SW.String(), "/W")
}

func TestConnections(t *testing.T) {
	is := is.New(t)
	for tl := PW; tl <= BR; tl++ {
		for c := White; c <= Red; c++ {
			d0, d1 := tl.Ends(c)
			is.Equal(tl.EdgeColor(d0), c)
			is.Equal(tl.EdgeColor(d1), c)
			is.Equal(tl.Other(d0), d1)
			is.Equal(tl.Other(d1), d0)
		}
	}
}

func TestPatternHolds(t *testing.T) {
	is := is.New(t)
	p := Pattern(0).WithEdge(Up, White)
	is.True(p.Any())
	is.True(!p.Filled())
	is.True(PW.Pattern().Holds(p))
	is.True(SW.Pattern().Holds(p))
	is.True(BW.Pattern().Holds(p))
	is.True(!PR.Pattern().Holds(p))
	for tl := PW; tl <= BR; tl++ {
		is.True(tl.Pattern().Filled())
		is.True(tl.Pattern().Holds(tl.Pattern()))
	}
	is.Equal(p.WithoutEdge(Up), Pattern(0))
}

func TestForcedTable(t *testing.T) {
	is := is.New(t)
	is.Equal(Forced(0), None)

	one := Pattern(0).WithEdge(Up, White)
	is.Equal(Forced(one), Several)
	is.Equal(LegalTiles(one), uint8(1<<PW|1<<SW|1<<BW))

	two := one.WithEdge(Down, White)
	is.Equal(Forced(two), PW)

	corner := one.WithEdge(Left, White)
	is.Equal(Forced(corner), SW)

	mixed := one.WithEdge(Left, Red)
	is.Equal(Forced(mixed), Several)
	is.Equal(Forced(mixed.WithEdge(Down, Red)), BW)

	three := two.WithEdge(Left, White)
	is.Equal(Forced(three), None)
	is.Equal(LegalTiles(three), uint8(0))

	for i := 0; i < NumPatterns; i++ {
		p := Pattern(i)
		f := Forced(p)
		if f >= PW && f <= BR {
			is.Equal(LegalTiles(p), uint8(1)<<f)
		}
	}
}

func TestEndForced(t *testing.T) {
	is := is.New(t)
	for c := White; c <= Red; c++ {
		for d0 := 0; d0 < NumDirections; d0++ {
			is.Equal(EndForced(c, d0, d0), None)
			for d1 := 0; d1 < NumDirections; d1++ {
				if d0 == d1 {
					continue
				}
				tl := EndForced(c, d0, d1)
				is.Equal(tl, EndForced(c, d1, d0))
				is.Equal(tl.EdgeColor(d0), c)
				is.Equal(tl.EdgeColor(d1), c)
				is.True(tl.Pattern().Holds(EndForcedPattern(c, d0, d1)))
			}
		}
	}
}

func TestSymmetryTable(t *testing.T) {
	is := is.New(t)
	expected := [NumTiles][NumSymmetries]Tile{
		{PW, PW, PW, PW, PR, PR, PR, PR},
		{PR, PR, PR, PR, PW, PW, PW, PW},
		{SW, BW, BR, SR, SW, BW, BR, SR},
		{SR, BR, BW, SW, SR, BR, BW, SW},
		{BW, SW, SR, BR, BR, SR, SW, BW},
		{BR, SR, SW, BW, BW, SW, SR, BR},
	}
	for tl := PW; tl <= BR; tl++ {
		for s := 0; s < NumSymmetries; s++ {
			is.Equal(tl.Symmetric(s), expected[tl][s])
			is.Equal(tl.Symmetric(s).Symmetric(InverseSymmetry(s)), tl)
		}
	}
}

func TestIterateSymmetries(t *testing.T) {
	is := is.New(t)
	seen := map[[2]int]bool{}
	IterateSymmetries(1, 0, 4, 4, func(s, u, v int) {
		seen[[2]int{u, v}] = true
	})
	is.Equal(len(seen), 8)
}
