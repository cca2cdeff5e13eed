package board

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/notation"
	"github.com/domino14/trax/testcommon"
	"github.com/domino14/trax/tile"
	"github.com/domino14/trax/zobrist"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// walkRecord calls fn with the position before each move of record, then
// plays the move.
func walkRecord(t *testing.T, record string, fn func(b *Board, i int, m move.Move)) {
	t.Helper()
	is := is.New(t)
	b := NewBoard(nil)
	for i, s := range notation.SplitRecord(record) {
		m, err := b.ReadMove(s)
		is.NoErr(err)
		fn(b, i, m)
		is.True(b.MakeMove(m) >= 0)
	}
}

func TestLoading(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		b := NewBoard(nil)
		moves := notation.SplitRecord(r)
		for i, s := range moves {
			m, err := b.ReadMove(s)
			is.NoErr(err)
			ret := b.MakeMove(m)
			is.True(ret >= 0)
			if i != len(moves)-1 {
				is.Equal(ret, 0)
			}
			is.NoErr(b.Exam(ret == 0))
		}
		is.Equal(b.Turn(), len(moves))
	}
}

func TestGameResults(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		record string
		winner tile.Color
		win    int
	}{
		{testcommon.WonByLine, tile.Red, VictoryLineWin},
		{testcommon.WonByLoop, tile.Red, LoopWin},
	}
	for _, tc := range cases {
		b := NewBoard(nil)
		moves := notation.SplitRecord(tc.record)
		is.Equal(len(moves), 20)
		ret := 0
		for i, s := range moves {
			m, err := b.ReadMove(s)
			is.NoErr(err)
			ret = b.MakeMove(m)
			is.True(ret >= 0)
			if i != len(moves)-1 {
				is.Equal(ret, 0)
			}
			is.NoErr(b.Exam(ret == 0))
		}
		is.True(ret&(tc.win<<tc.winner) != 0)
		is.Equal(WhichWon(ret, b.LastTurnColor()), tc.winner)
	}
}

func TestLoopRecordShape(t *testing.T) {
	is := is.New(t)
	walkRecord(t, testcommon.WonByLoop, func(b *Board, i int, _ move.Move) {
		// nothing is forced before the last move
		is.Equal(b.NumTiles(), i)
	})
	b := NewBoard(nil)
	ret, err := b.PlayRecord(testcommon.WonByLoop)
	is.NoErr(err)
	is.Equal(ret, LoopWin<<tile.Red)
	is.Equal(b.NumTiles(), 21)
	is.Equal(ResultDescription(ret), "R-loop")
}

func TestFirstMoveRestriction(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	is.Equal(b.MakeMove(move.New(move.FirstZ, tile.BW)), FirstRestriction)
	is.Equal(b.MakeMove(move.New(move.FirstZ, tile.PR)), FirstRestriction)
	is.Equal(b.MakeMove(move.FromXY(move.FirstX+1, move.FirstY, tile.PW)), FirstRestriction)
	is.Equal(b.MakeMove(move.FromXY(move.FirstX+5, move.FirstY+5, tile.SW)), FirstRestriction)
	is.Equal(b.Turn(), 0)
	is.NoErr(b.Exam(true))
	is.Equal(b.NumTiles(), 0)

	is.Equal(b.MakeMove(move.New(move.FirstZ, tile.SW)), 0)
	is.Equal(b.Turn(), 1)
	is.Equal(b.NumLines(), 2)
	is.Equal(b.Bound(), Bound{LX: move.FirstX, LY: move.FirstY, HX: move.FirstX, HY: move.FirstY})
}

func TestIllegalResults(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	is.Equal(b.MakeMove(move.New(move.FirstZ, tile.PW)), 0)
	orig := b.Copy()

	is.Equal(b.MakeMove(move.FromXY(0, 0, tile.PW)), OutOfBoard)
	is.Equal(b.MakeMove(move.New(move.FirstZ, tile.SW)), Double)
	is.Equal(b.MakeMove(move.FromXY(move.FirstX+4, move.FirstY, tile.PW)), Isolated)

	z := move.Neighbor(move.FirstZ, tile.Right)
	good := b.WhichTile(z, tile.Plus)
	is.True(good != tile.None)
	bad := tile.Make(tile.Plus, good.TopColor().Flip())
	is.Equal(b.MakeMove(move.New(z, bad)), BadColor)

	is.True(b.Equals(orig))
	is.NoErr(b.Exam(true))

	is.True(errors.Is(ResultError(Double), ErrDouble))
	is.True(errors.Is(ResultError(ForcedBadColor), ErrForcedBadColor))
	is.NoErr(ResultError(LoopWin << tile.Red))
}

func TestMakeUnmakeConsistency(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		walkRecord(t, r, func(b *Board, _ int, m move.Move) {
			c := b.Copy()
			is.True(c.MakeMove(m) >= 0)
			c.UnmakeMove()
			is.NoErr(c.Exam(false))
			is.True(b.Equals(c))
		})
	}
}

func TestLongUnmakeConsistency(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		moves := notation.SplitRecord(r)
		// every position would be slow on the long records
		stride := 1 + len(moves)/20
		walkRecord(t, r, func(b *Board, i int, _ move.Move) {
			if i%stride != 0 {
				return
			}
			for l := i + 1; l <= len(moves); l += stride {
				c := b.Copy()
				for j := i; j < l; j++ {
					m, err := c.ReadMove(moves[j])
					is.NoErr(err)
					is.True(c.MakeMove(m) >= 0)
				}
				c.UnmakeTo(i)
				is.NoErr(c.Exam(false))
				is.True(b.Equals(c))
			}
		})
	}
}

func TestLegalityCheckConsistency(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		walkRecord(t, r, func(b *Board, _ int, _ move.Move) {
			c := b.Copy()
			for _, m := range c.GenerateMoves(nil) {
				c.IsLegalMove(m)
			}
			is.True(b.Equals(c))
		})
	}
}

func TestPseudoLegality(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		walkRecord(t, r, func(b *Board, _ int, played move.Move) {
			is.True(b.IsPseudoLegalMove(played))
			for _, m := range b.GenerateMoves(nil) {
				if b.IsLegalMove(m) {
					is.True(b.IsPseudoLegalMove(m))
				}
			}
		})
	}
}

func TestInvalidMoveLeavesBoard(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		walkRecord(t, r, func(b *Board, _ int, m move.Move) {
			badTile := tile.Tile((int(m.Tile()) + 1 + b.Turn()) % tile.NumTiles)
			c := b.Copy()
			if c.MakeMove(move.New(m.Z(), badTile)) < 0 {
				is.True(b.Equals(c))
			}
		})
	}
}

func TestAttacks(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		walkRecord(t, r, func(b *Board, _ int, _ move.Move) {
			if b.Turn() == 0 {
				return
			}
			b.CheckSetAttacks()
			moves := lo.Uniq(b.GenerateMoves(nil))
			for c := tile.White; c <= tile.Red; c++ {
				mate := false
				for _, m := range moves {
					ret := b.MakeMove(m)
					if ret < 0 {
						continue
					}
					b.UnmakeMove()
					if ret&(Won<<c) != 0 {
						mate = true
						break
					}
				}
				is.Equal(b.Attacks(c) > 0, mate)
			}
		})
	}
}

func TestGenerateLegalMoves(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	is.Equal(b.GenerateLegalMoves(), FirstMoves)

	_, err := b.PlayRecord("@0/ @1/ A2+ @2+")
	is.NoErr(err)
	moves := b.GenerateLegalMoves()
	is.True(len(moves) > 0)
	is.Equal(len(lo.Uniq(moves)), len(moves))
	for _, m := range moves {
		is.True(b.IsPseudoLegalMove(m))
		is.Equal(b.Tile(m.Z()), tile.None)
	}
}

func TestNotationRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, r := range testcommon.SampleRecords {
		b := NewBoard(nil)
		_, err := b.PlayRecord(r)
		is.NoErr(err)
		is.Equal(b.PathNotations(), notation.SplitRecord(r))
		is.Equal(len(b.PathExpandedNotations()), b.Turn())
	}
}

func TestPlayRecordErrors(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	_, err := b.PlayRecord("@0+ A1")
	is.True(err != nil)
	is.Equal(b.Turn(), 1)

	b.Clear()
	ret, err := b.PlayRecord("@0+ A1+")
	is.True(errors.Is(err, ErrDouble))
	is.Equal(ret, Double)
}

func TestRelativeKeySingleTile(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	var keys [tile.NumTiles]uint64
	for tl := tile.PW; tl <= tile.BR; tl++ {
		b.Clear()
		is.True(b.MakePseudoLegalMove(move.New(move.FirstZ, tl)) >= 0)
		keys[tl], _ = b.RelativeKey()
	}
	for t0 := tile.PW; t0 <= tile.BR; t0++ {
		for t1 := tile.PW; t1 <= tile.BR; t1++ {
			is.Equal(t0.IsPlus() == t1.IsPlus(), keys[t0] == keys[t1])
		}
	}
}

func TestRelativeKeyTwoTiles(t *testing.T) {
	is := is.New(t)
	records := []string{
		`@0+ A0/`, `@0+ A0\`,
		`@0+ A2/`, `@0+ A2\`,
		`@0/ A0+`, `@0/ @1+`,
		`@0\ A0+`, `@0\ B1+`,
	}
	z := zobrist.New()
	var keys []uint64
	for _, r := range records {
		b := NewBoard(z)
		for _, s := range notation.SplitRecord(r) {
			m, err := b.ReadMove(s)
			is.NoErr(err)
			is.True(b.MakePseudoLegalMove(m) >= 0)
		}
		k, _ := b.RelativeKey()
		keys = append(keys, k)
	}
	for _, k := range keys {
		is.Equal(k, keys[0])
	}
}

func TestRelativeMoves(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	_, err := b.PlayRecord(testcommon.Longest60)
	is.NoErr(err)
	b.UnmakeTo(30)
	for _, m := range b.GenerateMoves(nil) {
		is.Equal(b.FromRelative(b.ToRelative(m)), m)
	}
}

func TestWhichWon(t *testing.T) {
	is := is.New(t)
	is.Equal(WhichWon(0, tile.White), tile.NoColor)
	is.Equal(WhichWon(LoopWin<<tile.Red, tile.White), tile.Red)
	is.Equal(WhichWon(LoopWin<<tile.White|VictoryLineWin<<tile.Red, tile.Red), tile.Red)
	is.Equal(WhichWon(VictoryLineWin<<tile.White, tile.White), tile.White)
	is.Equal(ResultDescription(LoopWin<<tile.Red), "R-loop")
	is.Equal(ResultDescription(Isolated), "violation")
	is.Equal(ResultDescription(0), "none")
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	_, err := b.PlayRecord("@0/ @1/ A2+")
	is.NoErr(err)
	txt := b.ToDisplayText()
	is.True(strings.Contains(txt, "turn 3"))
	is.True(strings.Contains(txt, "/W") || strings.Contains(txt, "/R"))
	is.True(strings.HasPrefix(b.LinesText(), fmt.Sprintf("%d lines", b.NumLines())))
}

func TestRejectedMoveKeepsLatestTouchedAge(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	_, err := b.PlayRecord(`@0/ B1\`)
	is.NoErr(err)
	age := b.LatestTouchedLineAge()
	is.True(age >= 0)

	is.Equal(b.MakeMove(move.New(move.FirstZ, tile.PW)), Double)
	is.Equal(b.LatestTouchedLineAge(), age)

	m := b.GenerateLegalMoves()[0]
	c := b.Copy()
	is.True(b.MakeMove(m) >= 0)
	b.UnmakeMove()
	is.Equal(b.LatestTouchedLineAge(), age)
	is.True(b.Equals(c))
}

func TestExpandedNotationRoundTrip(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	_, err := b.PlayRecord("@0/ @1/ A2+")
	is.NoErr(err)
	moves := b.GenerateLegalMoves()
	is.True(len(moves) > 0)
	bd := b.Bound()
	for _, m := range moves {
		got, err := b.ReadMove(b.ExpandedMoveString(m))
		is.NoErr(err)
		is.Equal(got, m)

		got, err = b.ReadMove(b.MoveString(m))
		is.NoErr(err)
		is.Equal(got, m)

		flipped := tile.Make(m.Tile().Orientation(), m.Tile().TopColor().Flip())
		_, err = b.ReadMove(notation.FormatExpanded(m.X()-bd.LX+1, m.Y()-bd.LY+1, flipped))
		is.True(errors.Is(err, ErrNoFittingTile))
	}

	z := zobrist.New()
	for _, r := range testcommon.SampleRecords {
		played := NewBoard(z)
		_, err := played.PlayRecord(r)
		is.NoErr(err)
		replayed := NewBoard(z)
		_, err = replayed.PlayRecord(strings.Join(played.PathExpandedNotations(), " "))
		is.NoErr(err)
		is.True(played.Equals(replayed))
	}
}

func TestCascadeVictoryAttack(t *testing.T) {
	is := is.New(t)
	b := NewBoard(nil)
	_, err := b.PlayRecord(`@0+ A0\ @2\ B3\ A1\ B4+ A3/ C3\ C5/ @1+ E4/ C6+ B5\ B0/ B8/ F4+ F5\ A4+ C8+ A6+ B0/`)
	is.NoErr(err)

	// one placement and its forced tile stretch the line by two
	m, err := b.ReadMove("C1+")
	is.NoErr(err)
	before := b.NumTiles()
	ret := b.MakeMove(m)
	is.True(ret&(VictoryLineWin<<tile.White) != 0)
	is.True(b.NumTiles() > before+1)
	b.UnmakeMove()

	c := b.Copy()
	b.CheckSetAttacks()
	is.True(b.Attacks(tile.White) > 0)
	is.True(b.Equals(c))
}

// Random games check that a side with no attack has no winning move.
func TestAttacksRandomPlayouts(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	positions := 0
	for game := 0; game < 150; game++ {
		b := NewBoard(nil)
		for b.Turn() < 80 {
			moves := b.GenerateLegalMoves()
			if len(moves) == 0 {
				break
			}
			if b.Turn() > 0 {
				positions++
				b.CheckSetAttacks()
				for c := tile.White; c <= tile.Red; c++ {
					if b.Attacks(c) > 0 {
						continue
					}
					for _, m := range moves {
						ret := b.MakeMove(m)
						is.True(ret >= 0)
						b.UnmakeMove()
						if ret&(Won<<c) != 0 {
							t.Fatalf("%s: %v has no attack but %s wins",
								strings.Join(b.PathNotations(), " "), c, b.MoveString(m))
						}
					}
				}
			}
			if b.MakeMove(moves[rng.Intn(len(moves))]) > 0 {
				break
			}
		}
	}
	is.True(positions > 500)
}
