// Package tile holds the static description of the six oriented tiles:
// their edge colors, how their edges connect, how they transform under the
// eight symmetries of the square, and the tables that say which tiles may be
// placed against a given pattern of neighboring edge colors.
package tile

// Color is the color of a track on a tile edge. It doubles as the color of a
// player: white moves first.
type Color int8

const (
	NoColor Color = -1
	White   Color = 0
	Red     Color = 1
)

const colorChars = "WR"

func (c Color) Flip() Color {
	return 1 - c
}

func (c Color) Valid() bool {
	return c == White || c == Red
}

func (c Color) String() string {
	if !c.Valid() {
		return "?"
	}
	return colorChars[c : c+1]
}

// ColorFromByte parses 'W' or 'R'.
func ColorFromByte(b byte) Color {
	switch b {
	case colorChars[White]:
		return White
	case colorChars[Red]:
		return Red
	}
	return NoColor
}

// TurnColor is the color to move on turn t (turns count from zero).
func TurnColor(t int) Color {
	return Color(t & 1)
}

// Directions around a cell. Up decreases x, left decreases y.
const (
	Up = iota
	Left
	Down
	Right
	NumDirections
)

// DX and DY are the coordinate offsets of each direction.
var (
	DX = [NumDirections]int{-1, 0, 1, 0}
	DY = [NumDirections]int{0, -1, 0, 1}
)

func Opposite(d int) int {
	return (d + 2) % NumDirections
}

// Orientation is a tile without its coloring: what a player writes down.
type Orientation int8

const (
	NoOrientation Orientation = -1
	Plus          Orientation = 0 // '+'
	Slash         Orientation = 1 // '/'
	Backslash     Orientation = 2 // '\'
)

const glyphs = "+/\\"

func (o Orientation) Valid() bool {
	return o >= Plus && o <= Backslash
}

func (o Orientation) Glyph() byte {
	return glyphs[o]
}

// OrientationFromGlyph parses '+', '/' or '\'.
func OrientationFromGlyph(b byte) Orientation {
	switch b {
	case '+':
		return Plus
	case '/':
		return Slash
	case '\\':
		return Backslash
	}
	return NoOrientation
}

// Tile is an orientation together with the color of its top edge.
type Tile int8

const (
	None Tile = -1
	PW   Tile = 0 // white runs up-down
	PR   Tile = 1 // red runs up-down
	SW   Tile = 2 // white joins up and left
	SR   Tile = 3 // red joins up and left
	BW   Tile = 4 // white joins up and right
	BR   Tile = 5 // red joins up and right

	NumTiles = 6
)

// Make builds the tile of orientation o whose top edge has color c.
func Make(o Orientation, c Color) Tile {
	return Tile(int8(o)<<1 + int8(c))
}

func (t Tile) Valid() bool {
	return t >= PW && t <= BR
}

func (t Tile) Orientation() Orientation {
	return Orientation(t >> 1)
}

func (t Tile) TopColor() Color {
	return Color(t & 1)
}

// IsPlus reports whether t is a straight tile.
func (t Tile) IsPlus() bool {
	return t <= PR
}

// IsBack reports whether t is a '\' tile.
func (t Tile) IsBack() bool {
	return t >= BW
}

func (t Tile) Glyph() byte {
	return t.Orientation().Glyph()
}

func (t Tile) String() string {
	if !t.Valid() {
		return "."
	}
	return string(t.Glyph()) + t.TopColor().String()
}

// redEdges has a bit set for every edge of the tile that is red.
var redEdges = [NumTiles]uint8{
	1<<Left | 1<<Right,
	1<<Up | 1<<Down,
	1<<Down | 1<<Right,
	1<<Up | 1<<Left,
	1<<Left | 1<<Down,
	1<<Up | 1<<Right,
}

// connections[t][c] are the two edges of tile t that carry color c.
var connections = [NumTiles][2][2]int{
	{{Up, Down}, {Left, Right}},
	{{Left, Right}, {Up, Down}},
	{{Up, Left}, {Down, Right}},
	{{Down, Right}, {Up, Left}},
	{{Up, Right}, {Left, Down}},
	{{Left, Down}, {Up, Right}},
}

// EdgeColor is the color of edge d of the tile.
func (t Tile) EdgeColor(d int) Color {
	return Color((redEdges[t] >> d) & 1)
}

// Ends returns the two edges of the tile that carry color c.
func (t Tile) Ends(c Color) (int, int) {
	e := connections[t][c]
	return e[0], e[1]
}

// Other returns the edge connected to edge d through the tile.
func (t Tile) Other(d int) int {
	e := connections[t][t.EdgeColor(d)]
	if e[0] == d {
		return e[1]
	}
	return e[0]
}
