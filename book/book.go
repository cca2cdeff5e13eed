// Package book holds opening lines. Positions are keyed by the
// symmetry-reduced key, so a book line also answers every rotation and
// reflection of the positions along it.
package book

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/cache"
	"github.com/domino14/trax/config"
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/notation"
	"github.com/domino14/trax/zobrist"
)

var ErrEmptyBook = errors.New("book has no lines")

// bookFile is the on-disk form:
//
//	name: some name
//	lines:
//	  - '@0+ B1+ C1\'
type bookFile struct {
	Name  string   `yaml:"name"`
	Lines []string `yaml:"lines"`
}

type Book struct {
	Name string

	// Keys are only comparable between boards sharing a zobrist table, so
	// the book hashes every position with its own.
	zob *zobrist.Zobrist
	// moves are stored in the frame of the key's representative symmetry.
	moves map[uint64][]move.Relative
	seen  map[uint64]struct{}
	lines int
	// maxTurn is the longest line; later positions are never looked up.
	maxTurn int
}

func New() *Book {
	return &Book{
		zob:   zobrist.New(),
		moves: make(map[uint64][]move.Relative),
		seen:  make(map[uint64]struct{}),
	}
}

type bookEntry struct {
	key uint64
	rel move.Relative
}

// AddLine replays a line of moves and records the move played in each of
// its positions. A line already in the book is ignored. Nothing is added
// if any move of the line is unreadable or illegal.
func (bk *Book) AddLine(line string) error {
	moves := notation.SplitRecord(line)
	if len(moves) == 0 {
		return nil
	}
	fp := xxhash.Sum64String(strings.Join(moves, " "))
	if _, ok := bk.seen[fp]; ok {
		log.Debug().Str("line", line).Msg("duplicate-book-line")
		return nil
	}

	b := board.NewBoard(bk.zob)
	entries := make([]bookEntry, 0, len(moves))
	for i, s := range moves {
		m, err := b.ReadMove(s)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		key, sym := b.RelativeKey()
		rel := b.ToRelative(m).Transform(sym)
		ret := b.MakeMove(m)
		if ret < 0 {
			return fmt.Errorf("move %d (%s): %w", i+1, s, board.ResultError(ret))
		}
		entries = append(entries, bookEntry{key: key, rel: rel})
		if ret > 0 {
			break
		}
	}

	for _, e := range entries {
		if !slices.Contains(bk.moves[e.key], e.rel) {
			bk.moves[e.key] = append(bk.moves[e.key], e.rel)
		}
	}
	bk.seen[fp] = struct{}{}
	bk.lines++
	bk.maxTurn = max(bk.maxTurn, len(entries))
	return nil
}

// NumLines is the number of distinct lines added.
func (bk *Book) NumLines() int {
	return bk.lines
}

// NumPositions is the number of distinct positions, up to symmetry.
func (bk *Book) NumPositions() int {
	return len(bk.moves)
}

// Moves returns the book moves for the position of b, as moves on b.
func (bk *Book) Moves(b *board.Board) []move.Move {
	if b.Turn() >= bk.maxTurn {
		return nil
	}
	scratch := board.NewBoard(bk.zob)
	for _, m := range b.Path() {
		if scratch.MakeMove(m) < 0 {
			return nil
		}
	}
	key, sym := scratch.RelativeKey()
	rels, ok := bk.moves[key]
	if !ok {
		return nil
	}
	moves := lo.Uniq(lo.Map(rels, func(r move.Relative, _ int) move.Move {
		return scratch.FromRelative(r.InverseTransform(sym))
	}))
	return lo.Filter(moves, func(m move.Move, _ int) bool {
		return scratch.IsLegalMove(m)
	})
}

// Probe picks one of the book moves for b at random.
func (bk *Book) Probe(b *board.Board) (move.Move, bool) {
	moves := bk.Moves(b)
	if len(moves) == 0 {
		return move.None, false
	}
	return moves[frand.Intn(len(moves))], true
}

// Parse reads a YAML book.
func Parse(data []byte) (*Book, error) {
	var f bookFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Lines) == 0 {
		return nil, ErrEmptyBook
	}
	bk := New()
	bk.Name = f.Name
	for i, l := range f.Lines {
		if err := bk.AddLine(l); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return bk, nil
}

func loadBookFunc(cfg *config.Config, path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bk, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("book %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("lines", bk.NumLines()).
		Int("positions", bk.NumPositions()).Msg("loaded-book")
	return bk, nil
}

// Load returns the book at path, resolved against the data path, reading
// it only once per process.
func Load(cfg *config.Config, path string) (*Book, error) {
	path = cfg.DataFile(path)
	obj, err := cache.Load(cfg, "book:"+path, func(cfg *config.Config, key string) (any, error) {
		return loadBookFunc(cfg, path)
	})
	if err != nil {
		return nil, err
	}
	return obj.(*Book), nil
}
