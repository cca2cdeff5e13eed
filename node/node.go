// Package node adds what the search needs on top of a board: a static
// evaluation and a position key.
package node

import (
	"github.com/domino14/trax/board"
	"github.com/domino14/trax/tile"
	"github.com/domino14/trax/zobrist"
)

// Below this many tiles the search keys positions by their symmetry-reduced
// hash, so rotated openings share transposition table entries.
const RelativeKeyTiles = 8

// MoveAttackBonus is what each attack the mover holds adds to EvaluateMove.
const MoveAttackBonus = 2000

type Node struct {
	*board.Board
	w *Weights
	// vec is w flattened to the board's weight layout; shared read-only
	// between copies.
	vec []int
}

// New returns a node on an empty board. A nil w selects DefaultWeights.
func New(z *zobrist.Zobrist, w *Weights) *Node {
	if w == nil {
		w = DefaultWeights()
	}
	return &Node{Board: board.NewBoard(z), w: w, vec: w.Vector()}
}

// FromBoard wraps a copy of b.
func FromBoard(b *board.Board, w *Weights) *Node {
	n := New(b.Zobrist(), w)
	n.CopyFrom(b)
	return n
}

// Copy returns an independent node with the same position and weights.
func (n *Node) Copy() *Node {
	return &Node{Board: n.Board.Copy(), w: n.w, vec: n.vec}
}

func (n *Node) Weights() *Weights {
	return n.w
}

// SetWeights swaps the evaluation weights.
func (n *Node) SetWeights(w *Weights) {
	n.w = w
	n.vec = w.Vector()
}

// Key is the absolute board hash with the side to move in the low bit.
func (n *Node) Key() uint64 {
	return n.Hash()&^1 | uint64(n.TurnColor())
}

// SearchKey is the key the transposition table is probed with.
func (n *Node) SearchKey() uint64 {
	if n.NumTiles() < RelativeKeyTiles {
		k, _ := n.RelativeKey()
		return k
	}
	return n.Key()
}

// Evaluate scores the position for my, who is to play next. It may also be
// called for the side that just moved.
func (n *Node) Evaluate(my tile.Color) int {
	n.UpdateEvalInfo(n.vec)
	ev := n.EvalInfo()
	opp := my.Flip()
	w := n.vec
	s := w[board.WeightBias]
	s += ev.Threats[my] * w[board.WeightOwnThreats]
	s += ev.Threats[opp] * w[board.WeightOppThreats]
	s += ev.LongLines[my] * w[board.WeightOwnLongLines]
	s += ev.LongLines[opp] * w[board.WeightOppLongLines]
	s += ev.LineShapeScore[my]
	s += ev.TwoLinesScore[my]
	return s
}

// EvaluateMove scores the move just made by my, assuming CheckSetAttacks
// has run.
func (n *Node) EvaluateMove(my tile.Color) int {
	return n.Attacks(my)*MoveAttackBonus - n.Evaluate(my.Flip())
}

// FeatureVector returns the linear features of the evaluation from the
// side to move's view, for fitting weights.
func (n *Node) FeatureVector() []float64 {
	return n.Board.FeatureVector(n.vec)
}
