package node

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/config"
	"github.com/domino14/trax/notation"
	"github.com/domino14/trax/testcommon"
	"github.com/domino14/trax/tile"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestEvaluateOpening(t *testing.T) {
	is := is.New(t)
	n := New(nil, nil)
	_, err := n.PlayRecord("@0+")
	is.NoErr(err)
	// one tile: no threats, no long lines, empty shape tables
	is.Equal(n.Evaluate(tile.Red), 48)
	is.Equal(n.Evaluate(tile.White), 48)
	n.CheckSetAttacks()
	is.Equal(n.EvaluateMove(tile.White), -48)
}

func TestEvaluateUsesWeights(t *testing.T) {
	is := is.New(t)
	w := DefaultWeights()
	w.Bias = 0
	w.LineShape = map[int][2]int{}
	for i := 0; i < NumShapes; i++ {
		w.LineShape[i] = [2]int{1, -1}
	}
	n := New(nil, w)
	_, err := n.PlayRecord("@0/ @1/ A2+")
	is.NoErr(err)
	n.UpdateEvalInfo(w.Vector())
	ev := n.EvalInfo()
	// every line counts +1 for its owner and -1 for the other side
	var own [2]int
	for l := 0; l < n.NumLines(); l++ {
		line := n.Line(l)
		own[line.Color()]++
	}
	is.Equal(ev.LineShapeScore[tile.White], own[tile.White]-own[tile.Red])
	is.Equal(ev.LineShapeScore[tile.Red], own[tile.Red]-own[tile.White])
}

func TestKeys(t *testing.T) {
	is := is.New(t)
	n := New(nil, nil)
	for i, s := range notation.SplitRecord(testcommon.Longest60) {
		if i == 20 {
			break
		}
		m, err := n.ReadMove(s)
		is.NoErr(err)
		is.True(n.MakeMove(m) >= 0)

		is.Equal(n.Key()&1, uint64(n.TurnColor()))
		if n.NumTiles() < RelativeKeyTiles {
			k, _ := n.RelativeKey()
			is.Equal(n.SearchKey(), k)
		} else {
			is.Equal(n.SearchKey(), n.Key())
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	n := New(nil, nil)
	_, err := n.PlayRecord("@0/ @1/")
	is.NoErr(err)
	c := n.Copy()
	_, err = c.PlayRecord("A2+")
	is.NoErr(err)
	is.Equal(n.Turn(), 2)
	is.Equal(c.Turn(), 3)
	is.True(c.Weights() == n.Weights())

	f := FromBoard(c.Board, nil)
	is.True(f.Equals(c.Board))
}

func TestFeatureVector(t *testing.T) {
	is := is.New(t)
	n := New(nil, nil)
	_, err := n.PlayRecord(testcommon.Longest60)
	is.NoErr(err)
	n.UnmakeTo(40)
	v := n.FeatureVector()
	is.Equal(len(v), 4)
	ev := n.EvalInfo()
	my := n.TurnColor()
	is.Equal(v[0], float64(ev.Threats[my]))
	is.Equal(v[3], float64(ev.LongLines[my.Flip()]))
}

func TestParseWeights(t *testing.T) {
	is := is.New(t)
	w, err := ParseWeights([]byte(`
bias: 10
threats: [500, 20]
line-shape:
  3: [7, -7]
two-lines:
  255: [1, 2]
`))
	is.NoErr(err)
	is.Equal(w.Bias, 10)
	is.Equal(w.Threats, [2]int{500, 20})
	// untouched keys keep their defaults
	is.Equal(w.LongLines, DefaultWeights().LongLines)

	v := w.Vector()
	is.Equal(len(v), board.NumWeights)
	is.Equal(v[board.WeightBias], 10)
	is.Equal(v[board.WeightLineShapeBase+6], 7)
	is.Equal(v[board.WeightLineShapeBase+7], -7)
	is.Equal(v[board.WeightTwoLinesBase+511], 2)

	_, err = ParseWeights([]byte("line-shape:\n  256: [1, 1]\n"))
	is.True(err != nil)
}

func TestLoadWeights(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	w, err := LoadWeights(cfg)
	is.NoErr(err)
	is.Equal(w, DefaultWeights())

	f := filepath.Join(t.TempDir(), "w.yaml")
	is.NoErr(os.WriteFile(f, []byte("bias: 99\n"), 0644))
	cfg.Set(config.ConfigEvalParamsPath, f)
	w, err = LoadWeights(cfg)
	is.NoErr(err)
	is.Equal(w.Bias, 99)

	cfg.Set(config.ConfigEvalParamsPath, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadWeights(cfg)
	is.True(err != nil)
}
