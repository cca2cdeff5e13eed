package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

const bignum = 1<<63 - 2

// Zobrist holds one random key per (cell, tile). The same table serves the
// absolute board hash and the symmetry-reduced relative hash, where the cell
// index is taken relative to the bounding box instead.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable [][tile.NumTiles]uint64
	boardDim int
}

func (z *Zobrist) Initialize(boardDim int) {
	z.boardDim = boardDim
	z.posTable = make([][tile.NumTiles]uint64, boardDim*boardDim)
	for i := range z.posTable {
		for j := 0; j < tile.NumTiles; j++ {
			// The low bit of a position key is replaced by the side to move,
			// so keep keys distinct above it.
			z.posTable[i][j] = (frand.Uint64n(bignum) + 1) << 1
		}
	}
}

// New returns an initialized table for the standard board.
func New() *Zobrist {
	z := &Zobrist{}
	z.Initialize(move.Size)
	return z
}

// Relative is the key of tile t at offset (u, v) from a bounding box corner.
func (z *Zobrist) Relative(u, v int, t tile.Tile) uint64 {
	return z.posTable[u*z.boardDim+v][t]
}

// AddMove toggles the key of a placement. Calling it twice with the same
// move returns the original key.
func (z *Zobrist) AddMove(key uint64, m move.Move) uint64 {
	return key ^ z.posTable[m.Z()][m.Tile()]
}
