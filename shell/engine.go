package shell

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/book"
	"github.com/domino14/trax/config"
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/node"
	"github.com/domino14/trax/search"
	"github.com/domino14/trax/zobrist"
)

// engine is the game and the search machinery shared by the shell commands
// and the game-server protocol.
type engine struct {
	cfg    *config.Config
	node   *node.Node
	solver *search.Solver
	book   *book.Book

	multiPV  int
	maxDepth int
	// result is the outcome of the last move played.
	result int
	last   *search.Result
}

func newEngine(cfg *config.Config) (*engine, error) {
	w, err := node.LoadWeights(cfg)
	if err != nil {
		return nil, err
	}
	tt := search.NewTranspositionTable(cfg.GetInt(config.ConfigTTMegabytes))
	e := &engine{
		cfg:      cfg,
		node:     node.New(zobrist.New(), w),
		solver:   search.NewSolver(tt),
		multiPV:  1,
		maxDepth: search.MaxPly,
	}
	e.applyConfig()
	if p := cfg.GetString(config.ConfigBookPath); p != "" {
		if e.book, err = book.Load(cfg, p); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *engine) applyConfig() {
	e.solver.SetThreads(e.cfg.GetInt(config.ConfigThreads))
	e.solver.SetTimeLimit(time.Duration(e.cfg.GetInt(config.ConfigTimeLimitMs)) * time.Millisecond)
	e.solver.SetMaxDepth(e.maxDepth)
}

func (e *engine) reset() {
	e.solver.StopPondering()
	e.node.Clear()
	e.result = 0
	e.last = nil
}

func (e *engine) gameOver() bool {
	return e.result > 0
}

// play reads a move in notation and plays it.
func (e *engine) play(s string) (move.Move, error) {
	if e.gameOver() {
		return move.None, errGameOver
	}
	m, err := e.node.ReadMove(s)
	if err != nil {
		return move.None, err
	}
	ret := e.node.MakeMove(m)
	if ret < 0 {
		return move.None, fmt.Errorf("%s: %w", s, board.ResultError(ret))
	}
	e.result = ret
	return m, nil
}

func (e *engine) undo() error {
	if e.node.Turn() == 0 {
		return errNothingToUndo
	}
	e.node.UnmakeMove()
	e.result = 0
	return nil
}

func (e *engine) search(ctx context.Context, searchMoves, ignoreMoves []move.Move,
	multiPV int) (search.Result, error) {

	if e.gameOver() {
		return search.Result{}, errGameOver
	}
	res, err := e.solver.ParallelSearch(ctx, e.node, searchMoves, ignoreMoves, multiPV)
	if err != nil {
		return res, err
	}
	e.last = &res
	return res, nil
}

// think picks a move for the side to move: a book move if the book knows
// the position, otherwise the search result.
func (e *engine) think(ctx context.Context) (move.Move, error) {
	if e.book != nil {
		if m, ok := e.book.Probe(e.node.Board); ok {
			log.Info().Str("move", e.node.MoveString(m)).Msg("book-move")
			return m, nil
		}
	}
	res, err := e.search(ctx, nil, nil, 1)
	if err != nil {
		return move.None, err
	}
	return res.Move, nil
}
