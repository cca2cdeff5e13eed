package board

import (
	"errors"
	"fmt"

	"github.com/domino14/trax/tile"
)

// Results of MakeMove. Negative values reject the move and leave the board
// unchanged; non-negative values are a set of win flags, shifted left by the
// color that achieved them.
const (
	OutOfBoard       = -1
	Double           = -2
	BadColor         = -3
	Isolated         = -4
	FirstRestriction = -5
	ForcedBadColor   = -6

	LoopWin        = 1 << 0
	VictoryLineWin = 1 << 2
	Won            = LoopWin | VictoryLineWin
)

var (
	ErrOutOfBoard       = errors.New("placement outside the board")
	ErrDouble           = errors.New("cell already holds a tile")
	ErrBadColor         = errors.New("tile colors do not match neighbors")
	ErrIsolated         = errors.New("tile does not touch any other tile")
	ErrFirstRestriction = errors.New("first move must be + or / at the first cell")
	ErrForcedBadColor   = errors.New("forced tiles produce a color contradiction")
)

// ResultError converts a negative MakeMove result into an error. It returns
// nil for non-negative results.
func ResultError(result int) error {
	switch result {
	case OutOfBoard:
		return ErrOutOfBoard
	case Double:
		return ErrDouble
	case BadColor:
		return ErrBadColor
	case Isolated:
		return ErrIsolated
	case FirstRestriction:
		return ErrFirstRestriction
	case ForcedBadColor:
		return ErrForcedBadColor
	}
	if result < 0 {
		return fmt.Errorf("unknown move result %d", result)
	}
	return nil
}

// WhichWon returns the winner encoded in result, given the color of the
// player whose move produced it. A move that completes lines of both colors
// wins for the mover.
func WhichWon(result int, lastTurnColor tile.Color) tile.Color {
	if result <= 0 {
		return tile.NoColor
	}
	if result&(Won<<lastTurnColor) != 0 {
		return lastTurnColor
	}
	return lastTurnColor.Flip()
}

// ResultDescription is a short human readable form of a MakeMove result.
func ResultDescription(result int) string {
	if result < 0 {
		return "violation"
	}
	if result == 0 {
		return "none"
	}
	ret := ""
	for c := tile.White; c <= tile.Red; c++ {
		if result&(LoopWin<<c) != 0 {
			ret += c.String() + "-loop"
		}
		if result&(VictoryLineWin<<c) != 0 {
			ret += c.String() + "-vline"
		}
	}
	return ret
}
