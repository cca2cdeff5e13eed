package tile

// Several is returned by Forced when more than one tile fits a pattern.
const Several Tile = NumTiles

var (
	forcedTable     [NumPatterns]Tile
	legalTable      [NumPatterns]uint8
	endForcedTable  [2][NumDirections][NumDirections]Tile
	symmetryTable   [NumTiles][NumSymmetries]Tile
	inverseSymmetry = [NumSymmetries]int{0, 1, 2, 3, 4, 6, 5, 7}
)

func init() {
	for t := PW; t <= BR; t++ {
		var p Pattern
		for d := 0; d < NumDirections; d++ {
			p = p.WithEdge(d, t.EdgeColor(d))
		}
		tilePatterns[t] = p
	}
	for i := 0; i < NumPatterns; i++ {
		p := Pattern(i)
		forcedTable[i] = None
		if !p.Any() || p.Count(White) >= 3 || p.Count(Red) >= 3 {
			continue
		}
		n := 0
		for t := PW; t <= BR; t++ {
			if t.Pattern().Holds(p) {
				legalTable[i] |= 1 << t
				forcedTable[i] = t
				n++
			}
		}
		if n > 1 {
			forcedTable[i] = Several
		}
	}
	for c := White; c <= Red; c++ {
		for d0 := 0; d0 < NumDirections; d0++ {
			for d1 := 0; d1 < NumDirections; d1++ {
				endForcedTable[c][d0][d1] = None
			}
		}
		for t := PW; t <= BR; t++ {
			e0, e1 := t.Ends(c)
			endForcedTable[c][e0][e1] = t
			endForcedTable[c][e1][e0] = t
		}
	}
	for t := PW; t <= BR; t++ {
		for s := 0; s < NumSymmetries; s++ {
			symmetryTable[t][s] = transformTile(t, s)
		}
	}
}

// Forced returns the tile a cell with neighbor pattern p must take. None means
// no tile fits (or the cell touches nothing), Several means the cell is not
// forced.
func Forced(p Pattern) Tile {
	return forcedTable[p]
}

// LegalTiles returns a bit set (bit t for tile t) of the tiles that fit p.
func LegalTiles(p Pattern) uint8 {
	return legalTable[p]
}

// EndForced returns the tile whose color c track joins edges d0 and d1, or
// None when d0 == d1.
func EndForced(c Color, d0, d1 int) Tile {
	return endForcedTable[c][d0][d1]
}

// EndForcedPattern is the partial pattern that the EndForced tile presents on
// d0 and d1.
func EndForcedPattern(c Color, d0, d1 int) Pattern {
	return Pattern(0).WithEdge(d0, c).WithEdge(d1, c)
}
