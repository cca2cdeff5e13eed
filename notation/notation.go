// Package notation reads and writes Trax move notation. A move is written as
// a column (letters, '@' for the column left of every tile), a row (decimal,
// 0 for the row above every tile) and a tile glyph: "@0+", "B12\". Columns
// and rows count from the low corner of the tiles' bounding box. Expanded
// notation adds the top edge color of the tile: "B12\R".
package notation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/trax/tile"
)

var (
	ErrBadColumn = errors.New("bad column")
	ErrBadRow    = errors.New("bad row")
	ErrBadTile   = errors.New("bad tile glyph")
	ErrBadColor  = errors.New("bad color")
	ErrTooShort  = errors.New("notation too short")
)

// ParseColumn reads Excel-style column letters: "@" is 0, "A" is 1, "Z" is
// 26 and "AA" is 27.
func ParseColumn(s string) (int, error) {
	if s == "" {
		return -1, ErrBadColumn
	}
	if s == "@" {
		return 0, nil
	}
	ret := 0
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return -1, ErrBadColumn
		}
		ret = ret*26 + int(s[i]-'A') + 1
	}
	return ret, nil
}

// ColumnString is the inverse of ParseColumn. It returns "" for negative
// columns.
func ColumnString(c int) string {
	if c < 0 {
		return ""
	}
	if c == 0 {
		return "@"
	}
	ret := ""
	for c > 0 {
		r := c % 26
		c /= 26
		if r == 0 {
			c--
			r = 26
		}
		ret = string(rune('A'-1+r)) + ret
	}
	return ret
}

// ParseRow reads a row number; only decimal digits are allowed.
func ParseRow(s string) (int, error) {
	if s == "" {
		return -1, ErrBadRow
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return -1, ErrBadRow
		}
	}
	r, err := strconv.Atoi(s)
	if err != nil {
		return -1, ErrBadRow
	}
	return r, nil
}

// RowString is the inverse of ParseRow. It returns "" for negative rows.
func RowString(r int) string {
	if r < 0 {
		return ""
	}
	return strconv.Itoa(r)
}

// Coord writes board position (x, y) relative to a bounding box whose low
// corner is (lx, ly). x runs down the rows and y across the columns.
func Coord(x, y, lx, ly int) string {
	return ColumnString(y-ly+1) + RowString(x-lx+1)
}

// Parsed is a decoded notation string. Color is tile.NoColor unless the
// notation was expanded.
type Parsed struct {
	Row         int
	Column      int
	Orientation tile.Orientation
	Color       tile.Color
}

// splitCoord finds where the digits start. Everything before is the column
// and everything from there up to the suffix length is the row.
func splitCoord(s string, suffix int) (int, int, error) {
	if len(s) < suffix+2 {
		return 0, 0, ErrTooShort
	}
	body := s[:len(s)-suffix]
	i := strings.IndexFunc(body, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		i = 0
	}
	col, err := ParseColumn(body[:i])
	if err != nil {
		return 0, 0, err
	}
	row, err := ParseRow(body[i:])
	if err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

// Parse decodes standard notation such as "A2/".
func Parse(s string) (Parsed, error) {
	row, col, err := splitCoord(s, 1)
	if err != nil {
		return Parsed{}, err
	}
	o := tile.OrientationFromGlyph(s[len(s)-1])
	if !o.Valid() {
		return Parsed{}, ErrBadTile
	}
	return Parsed{Row: row, Column: col, Orientation: o, Color: tile.NoColor}, nil
}

// ParseExpanded decodes expanded notation such as "A2/W".
func ParseExpanded(s string) (Parsed, error) {
	row, col, err := splitCoord(s, 2)
	if err != nil {
		return Parsed{}, err
	}
	o := tile.OrientationFromGlyph(s[len(s)-2])
	if !o.Valid() {
		return Parsed{}, ErrBadTile
	}
	c := tile.ColorFromByte(s[len(s)-1])
	if !c.Valid() {
		return Parsed{}, ErrBadColor
	}
	return Parsed{Row: row, Column: col, Orientation: o, Color: c}, nil
}

// ParseMove decodes either form. A trailing W or R selects expanded
// notation.
func ParseMove(s string) (Parsed, error) {
	if s != "" && tile.ColorFromByte(s[len(s)-1]).Valid() {
		return ParseExpanded(s)
	}
	return Parse(s)
}

// Tile returns the full tile of an expanded notation.
func (p Parsed) Tile() tile.Tile {
	if !p.Color.Valid() {
		return tile.None
	}
	return tile.Make(p.Orientation, p.Color)
}

// Format writes a move at notation coordinates (row, column).
func Format(row, column int, t tile.Tile) string {
	return ColumnString(column) + RowString(row) + string(t.Glyph())
}

// FormatExpanded is Format with the top edge color appended.
func FormatExpanded(row, column int, t tile.Tile) string {
	return Format(row, column, t) + t.TopColor().String()
}

// SplitRecord splits a game record into move strings. Moves may be
// separated by spaces, tabs, newlines or commas; an optional leading move
// number such as "12." is dropped.
func SplitRecord(record string) []string {
	fields := strings.FieldsFunc(record, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})
	return lo.FilterMap(fields, func(f string, _ int) (string, bool) {
		if i := strings.IndexByte(f, '.'); i >= 0 {
			if _, err := strconv.Atoi(f[:i]); err == nil {
				f = f[i+1:]
			}
		}
		return f, f != ""
	})
}
