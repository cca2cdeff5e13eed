package tile

// Pattern packs the known edge colors around one cell. Direction d uses bits
// 2d and 2d+1: the high bit says the edge color is known, the low bit says
// it is red.
type Pattern uint8

const presentMask Pattern = 0xAA

// NumPatterns is the number of distinct Pattern values.
const NumPatterns = 256

var tilePatterns [NumTiles]Pattern

// Pattern is the fully colored pattern of the tile itself.
func (t Tile) Pattern() Pattern {
	return tilePatterns[t]
}

// Filled reports whether all four edge colors are known, which happens
// exactly when a tile occupies the cell.
func (p Pattern) Filled() bool {
	return p&presentMask == presentMask
}

// Any reports whether at least one edge color is known.
func (p Pattern) Any() bool {
	return p&presentMask != 0
}

// Has reports whether the color of edge d is known.
func (p Pattern) Has(d int) bool {
	return p&(2<<(2*d)) != 0
}

// EdgeColor returns the known color of edge d, or NoColor.
func (p Pattern) EdgeColor(d int) Color {
	if !p.Has(d) {
		return NoColor
	}
	return Color((p >> (2 * d)) & 1)
}

// WithEdge returns p with edge d set to color c.
func (p Pattern) WithEdge(d int, c Color) Pattern {
	p &^= 3 << (2 * d)
	return p | Pattern(2|c)<<(2*d)
}

// WithoutEdge returns p with edge d unknown.
func (p Pattern) WithoutEdge(d int) Pattern {
	return p &^ (3 << (2 * d))
}

// Holds reports whether every edge color known in q agrees with p.
func (p Pattern) Holds(q Pattern) bool {
	mask := (q & presentMask) >> 1
	mask |= mask << 1
	return p&mask == q&mask
}

// Count returns how many known edges have color c.
func (p Pattern) Count(c Color) int {
	n := 0
	for d := 0; d < NumDirections; d++ {
		if p.EdgeColor(d) == c {
			n++
		}
	}
	return n
}

func (p Pattern) String() string {
	b := make([]byte, NumDirections)
	for d := 0; d < NumDirections; d++ {
		c := p.EdgeColor(d)
		if c == NoColor {
			b[d] = '-'
		} else {
			b[d] = colorChars[c]
		}
	}
	return string(b)
}
