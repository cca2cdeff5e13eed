package board

import (
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

// RelativeKey hashes the position independently of where it sits on the
// board and of its orientation. It hashes all eight reflections and
// rotations of the tiles inside the bounding box and keeps the smallest.
// The symmetry that produced it is returned too; it maps board moves into
// the representative's frame. The low bit of the key is the side to move.
func (b *Board) RelativeKey() (uint64, int) {
	var rhash [tile.NumSymmetries]uint64
	dx, dy := b.bound.DX(), b.bound.DY()
	for i := 0; i <= dx; i++ {
		for j := 0; j <= dy; j++ {
			t := b.tiles[move.XYToZ(b.bound.LX+i, b.bound.LY+j)]
			if t == tile.None {
				continue
			}
			tile.IterateSymmetries(i+1, j+1, dx+2, dy+2, func(s, u, v int) {
				rhash[s] ^= b.zob.Relative(u, v, t.Symmetric(s))
			})
		}
	}
	pattern := 0
	rep := rhash[0]
	for s := 1; s < tile.NumSymmetries; s++ {
		if rhash[s] < rep {
			rep = rhash[s]
			pattern = s
		}
	}
	return rep&^1 | uint64(b.TurnColor()), pattern
}

// ToRelative expresses m against the current bounding box.
func (b *Board) ToRelative(m move.Move) move.Relative {
	return move.Relative{
		X:    m.X() - b.bound.LX + 1,
		Y:    m.Y() - b.bound.LY + 1,
		MX:   b.bound.DX() + 2,
		MY:   b.bound.DY() + 2,
		Tile: m.Tile(),
	}
}

// FromRelative converts a relative move back onto the board. The box of r
// must match the current one.
func (b *Board) FromRelative(r move.Relative) move.Move {
	return move.FromXY(b.bound.LX-1+r.X, b.bound.LY-1+r.Y, r.Tile)
}
