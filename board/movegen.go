package board

import (
	"github.com/samber/lo"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// FirstMoves are the only two opening moves.
var FirstMoves = []move.Move{
	move.New(move.FirstZ, tile.PW),
	move.New(move.FirstZ, tile.SW),
}

// GenerateMoves appends every pseudo-legal move to buf and returns it. Only
// line endpoints are considered: any tile placed elsewhere would touch no
// line. A cell at the end of two lines is generated twice.
func (b *Board) GenerateMoves(buf []move.Move) []move.Move {
	if b.turn == 0 {
		return append(buf, FirstMoves...)
	}
	for l := range b.lines {
		buf = b.appendEndMoves(buf, l)
	}
	return buf
}

// GenerateNewerLineMoves is GenerateMoves with the most recently registered
// lines first.
func (b *Board) GenerateNewerLineMoves(buf []move.Move) []move.Move {
	if b.turn == 0 {
		return append(buf, FirstMoves...)
	}
	for l := len(b.lines) - 1; l >= 0; l-- {
		buf = b.appendEndMoves(buf, l)
	}
	return buf
}

func (b *Board) appendEndMoves(buf []move.Move, l int) []move.Move {
	for e := 0; e < 2; e++ {
		z := b.lines[l].Z(e)
		if b.colors[z].Filled() {
			// a closed loop
			continue
		}
		bits := tile.LegalTiles(b.colors[z])
		for t := tile.PW; t <= tile.BR; t++ {
			if bits&(1<<t) != 0 {
				buf = append(buf, move.New(z, t))
			}
		}
	}
	return buf
}

// GenerateLegalMoves returns the distinct moves that MakeMove accepts.
func (b *Board) GenerateLegalMoves() []move.Move {
	moves := lo.Uniq(b.GenerateMoves(nil))
	return lo.Filter(moves, func(m move.Move, _ int) bool {
		return b.IsLegalMove(m)
	})
}
