package tile

// NumSymmetries counts the reflections and rotations of the square.
const NumSymmetries = 8

// IterateSymmetries maps (x, y) inside a box whose far corner is (mx, my)
// under every symmetry s, calling fn(s, u, v). Symmetries 4 to 7 transpose
// the box, so they are only meaningful for fn when the caller handles a
// non-square box.
func IterateSymmetries(x, y, mx, my int, fn func(s, u, v int)) {
	fn(0, x, y)
	fn(1, x, my-y)
	fn(2, mx-x, y)
	fn(3, mx-x, my-y)
	fn(4, y, x)
	fn(5, y, mx-x)
	fn(6, my-y, x)
	fn(7, my-y, mx-x)
}

// InverseSymmetry returns the symmetry that undoes s.
func InverseSymmetry(s int) int {
	return inverseSymmetry[s]
}

// Symmetric returns the image of t under symmetry s.
func (t Tile) Symmetric(s int) Tile {
	return symmetryTable[t][s]
}

// transformDirection maps a direction under symmetry s, following the
// coordinate maps of IterateSymmetries.
func transformDirection(d, s int) int {
	dx, dy := DX[d], DY[d]
	var u, v int
	IterateSymmetries(dx, dy, 0, 0, func(ss, uu, vv int) {
		if ss == s {
			u, v = uu, vv
		}
	})
	for e := 0; e < NumDirections; e++ {
		if DX[e] == u && DY[e] == v {
			return e
		}
	}
	return -1
}

func transformTile(t Tile, s int) Tile {
	var p Pattern
	for d := 0; d < NumDirections; d++ {
		p = p.WithEdge(transformDirection(d, s), t.EdgeColor(d))
	}
	for u := PW; u <= BR; u++ {
		if u.Pattern() == p {
			return u
		}
	}
	return None
}
