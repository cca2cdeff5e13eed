package node

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/cache"
	"github.com/domino14/trax/config"
)

// NumShapes is the number of entries in each of the line-shape and two-line
// tables.
const NumShapes = 256

// Weights are the parameters of the linear evaluation. Pairs hold the weight
// for the evaluating side's own feature first, then the opponent's.
type Weights struct {
	Bias      int            `yaml:"bias"`
	Threats   [2]int         `yaml:"threats"`
	LongLines [2]int         `yaml:"long-lines"`
	LineShape map[int][2]int `yaml:"line-shape,omitempty"`
	TwoLines  map[int][2]int `yaml:"two-lines,omitempty"`
}

// DefaultWeights are hand-tuned values with empty shape tables.
func DefaultWeights() *Weights {
	return &Weights{
		Bias:      48,
		Threats:   [2]int{678, 14},
		LongLines: [2]int{133, -89},
	}
}

// Vector flattens w into the layout board.UpdateEvalInfo expects.
func (w *Weights) Vector() []int {
	v := make([]int, board.NumWeights)
	v[board.WeightBias] = w.Bias
	v[board.WeightOwnThreats] = w.Threats[0]
	v[board.WeightOppThreats] = w.Threats[1]
	v[board.WeightOwnLongLines] = w.LongLines[0]
	v[board.WeightOppLongLines] = w.LongLines[1]
	for i, p := range w.LineShape {
		v[board.WeightLineShapeBase+i*2] = p[0]
		v[board.WeightLineShapeBase+i*2+1] = p[1]
	}
	for i, p := range w.TwoLines {
		v[board.WeightTwoLinesBase+i*2] = p[0]
		v[board.WeightTwoLinesBase+i*2+1] = p[1]
	}
	return v
}

func (w *Weights) validate() error {
	for i := range w.LineShape {
		if i < 0 || i >= NumShapes {
			return fmt.Errorf("line-shape index %d out of range", i)
		}
	}
	for i := range w.TwoLines {
		if i < 0 || i >= NumShapes {
			return fmt.Errorf("two-lines index %d out of range", i)
		}
	}
	return nil
}

// ParseWeights reads weights from YAML. Missing keys keep their default.
func ParseWeights(data []byte) (*Weights, error) {
	w := DefaultWeights()
	if err := yaml.Unmarshal(data, w); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func loadWeightsFunc(cfg *config.Config, path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := ParseWeights(data)
	if err != nil {
		return nil, fmt.Errorf("weights %s: %w", path, err)
	}
	return w, nil
}

// LoadWeights returns the weights configured by eval-params-path, or the
// defaults when none is set.
func LoadWeights(cfg *config.Config) (*Weights, error) {
	path := cfg.DataFile(cfg.GetString(config.ConfigEvalParamsPath))
	if path == "" {
		return DefaultWeights(), nil
	}
	obj, err := cache.Load(cfg, "weights:"+path, func(cfg *config.Config, key string) (any, error) {
		return loadWeightsFunc(cfg, path)
	})
	if err != nil {
		return nil, err
	}
	return obj.(*Weights), nil
}
