package search

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/trax/move"
	"github.com/domino14/trax/node"
	"github.com/domino14/trax/tile"
)

const DefaultTimeLimit = 750 * time.Millisecond

var ErrNoMoves = errors.New("no legal moves to search")

// Result is the outcome of ParallelSearch.
type Result struct {
	Move  move.Move
	Score int
	// Depth is the number of the last finished iteration.
	Depth int
	// RootMoves are the best root moves, at most multiPV of them, with the
	// scores of the last finished iteration.
	RootMoves move.Scores
	// AllMoves are all root moves, best first.
	AllMoves move.Scores
	Counters Snapshot
	Elapsed  time.Duration
}

// Solver runs lazy SMP searches. The master thread's result is the answer;
// helper threads search the same root independently, skipping some depths,
// and only contribute through the shared transposition table.
type Solver struct {
	tt         *TranspositionTable
	threads    int
	timeLimit  time.Duration
	maxDepth   int
	aspiration int

	stop      atomic.Bool
	searching atomic.Int32
	counters  Counters
	start     time.Time
	// rootColor is the side the engine plays; it differs from the side to
	// move while pondering.
	rootColor tile.Color

	ponderGroup *errgroup.Group
}

func NewSolver(tt *TranspositionTable) *Solver {
	return &Solver{
		tt:         tt,
		threads:    1,
		timeLimit:  DefaultTimeLimit,
		maxDepth:   MaxPly,
		aspiration: DefaultAspirationWindow,
	}
}

func (s *Solver) SetThreads(threads int) {
	s.threads = max(threads, 1)
}

func (s *Solver) Threads() int {
	return s.threads
}

// SetTimeLimit bounds every search; zero or less means no limit.
func (s *Solver) SetTimeLimit(d time.Duration) {
	s.timeLimit = d
}

// SetMaxDepth caps the number of iterations.
func (s *Solver) SetMaxDepth(iterations int) {
	s.maxDepth = min(max(iterations, 1), MaxPly)
}

// SetAspirationWindow sets the half-width of the root window that
// iterations from the sixth on start from. Narrow windows search faster when the score is stable and
// re-search when it moves.
func (s *Solver) SetAspirationWindow(half int) {
	s.aspiration = max(half, 4)
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.tt
}

// Stop asks all running threads to finish.
func (s *Solver) Stop() {
	s.stop.Store(true)
}

// Searching reports the number of threads currently searching.
func (s *Solver) Searching() int {
	return int(s.searching.Load())
}

func (s *Solver) Counters() Snapshot {
	return s.counters.Snapshot()
}

func (s *Solver) prepare(rootColor tile.Color) {
	s.counters.Reset()
	s.stop.Store(false)
	s.rootColor = rootColor
	s.tt.NextAge()
	s.start = time.Now()
}

// rootMoves lists the legal root moves: those of searchMoves when given,
// otherwise every legal move not in ignoreMoves.
func rootMoves(n *node.Node, searchMoves, ignoreMoves []move.Move) move.Scores {
	var moves []move.Move
	if len(searchMoves) > 0 {
		moves = lo.Filter(lo.Uniq(searchMoves), func(m move.Move, _ int) bool {
			return n.IsLegalMove(m)
		})
	} else {
		moves = lo.Without(n.GenerateLegalMoves(), ignoreMoves...)
	}
	return lo.Map(moves, func(m move.Move, _ int) move.Score {
		return move.Score{Move: m}
	})
}

// helperMoves orders a helper's copy of the root moves. Past the second
// helper the order is shuffled to spread the threads over the tree.
func helperMoves(moves move.Scores, thread int) move.Scores {
	hm := slices.Clone(moves)
	switch {
	case thread <= 2:
	case thread <= 7:
		frand.Shuffle(len(hm), func(i, j int) {
			hm[i], hm[j] = hm[j], hm[i]
		})
	default:
		// keep the first third in front
		topfew := len(hm) / 3
		frand.Shuffle(topfew, func(i, j int) {
			hm[i], hm[j] = hm[j], hm[i]
		})
		frand.Shuffle(len(hm)-topfew, func(i, j int) {
			hm[i+topfew], hm[j+topfew] = hm[j+topfew], hm[i+topfew]
		})
	}
	return hm
}

// ParallelSearch searches n for its side to move. searchMoves restricts the
// root moves, ignoreMoves excludes some, and multiPV sets how many ranked
// root moves the result carries. Cancelling ctx stops the search like the
// time limit does; the last finished iteration is returned.
func (s *Solver) ParallelSearch(ctx context.Context, n *node.Node,
	searchMoves, ignoreMoves []move.Move, multiPV int) (Result, error) {

	s.StopPondering()

	moves := rootMoves(n, searchMoves, ignoreMoves)
	if len(moves) == 0 {
		return Result{}, ErrNoMoves
	}
	s.prepare(n.TurnColor())
	stopOnCancel := context.AfterFunc(ctx, s.Stop)
	defer stopOnCancel()

	log.Debug().Int("threads", s.threads).Int("root-moves", len(moves)).
		Dur("time-limit", s.timeLimit).Msg("parallel-search")

	g := errgroup.Group{}
	for t := 1; t < s.threads; t++ {
		sr := newSearcher(s, t, n.Copy())
		hm := helperMoves(moves, t)
		g.Go(func() error {
			sr.iterativeDeepening(hm)
			return nil
		})
	}

	master := newSearcher(s, 0, n.Copy())
	best, depth, scored := master.iterativeDeepening(moves)
	// the master may finish by depth; the helpers must not outlive it
	s.Stop()
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if best.Move == move.None {
		// stopped before the first iteration finished
		best = scored[0]
	}
	multiPV = min(max(multiPV, 1), len(scored))
	res := Result{
		Move:      best.Move,
		Score:     best.Score,
		Depth:     depth,
		RootMoves: scored[:multiPV],
		AllMoves:  scored,
		Counters:  s.counters.Snapshot(),
		Elapsed:   time.Since(s.start),
	}
	lookups, hits, stores := s.tt.Stats()
	log.Info().
		Str("move", moveString(n, res.Move)).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Dur("elapsed", res.Elapsed).
		Uint64("tt-lookups", lookups).
		Uint64("tt-hits", hits).
		Uint64("tt-stores", stores).
		Msg("search-best")
	return res, nil
}

// StartPondering searches n, where the opponent is to move, on the helper
// threads until StopPondering or the time limit. It only warms the
// transposition table.
func (s *Solver) StartPondering(n *node.Node) {
	s.StopPondering()
	moves := rootMoves(n, nil, nil)
	if len(moves) == 0 {
		return
	}
	s.prepare(n.TurnColor().Flip())
	log.Debug().Int("threads", max(s.threads-1, 1)).Msg("pondering")

	g := &errgroup.Group{}
	for t := 1; t < max(s.threads, 2); t++ {
		sr := newSearcher(s, t, n.Copy())
		hm := helperMoves(moves, t)
		g.Go(func() error {
			sr.iterativeDeepening(hm)
			return nil
		})
	}
	s.ponderGroup = g
}

// StopPondering stops a running ponder and waits for its threads.
func (s *Solver) StopPondering() {
	if s.ponderGroup == nil {
		return
	}
	s.Stop()
	s.ponderGroup.Wait()
	s.ponderGroup = nil
	log.Debug().Object("counters", s.counters.Snapshot()).Msg("pondering-finished")
}

// Pondering reports whether a ponder was started and not yet stopped.
func (s *Solver) Pondering() bool {
	return s.ponderGroup != nil
}
