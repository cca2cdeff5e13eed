package move

import "github.com/domino14/trax/tile"

// Relative is a placement expressed against a bounding box: (X, Y) counts
// from 1 at the box's low corner, and (MX, MY) is the far corner of the box
// grown by one cell on each side.
type Relative struct {
	X, Y   int
	MX, MY int
	Tile   tile.Tile
}

// Transform maps r under symmetry s. Transposing symmetries also swap the
// box dimensions.
func (r Relative) Transform(s int) Relative {
	var ret Relative
	tile.IterateSymmetries(r.X, r.Y, r.MX, r.MY, func(ss, u, v int) {
		if ss == s {
			ret.X, ret.Y = u, v
		}
	})
	ret.MX, ret.MY = r.MX, r.MY
	if s >= 4 {
		ret.MX, ret.MY = r.MY, r.MX
	}
	ret.Tile = r.Tile.Symmetric(s)
	return ret
}

// InverseTransform undoes Transform(s).
func (r Relative) InverseTransform(s int) Relative {
	return r.Transform(tile.InverseSymmetry(s))
}
