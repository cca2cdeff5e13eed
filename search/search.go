// Package search implements the game-tree search: a lazy SMP alpha-beta
// with iterative deepening, aspiration windows, killer moves and a shared
// transposition table.
package search

import (
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/node"
	"github.com/domino14/trax/tile"
)

// Depths are counted in fractions of a ply.
const (
	OnePly = 64
	MaxPly = 100
)

const (
	ScoreZero      = 0
	ScoreAlmostWin = 30000
	ScoreKnownWin  = 31000
	ScoreMate      = 32000
	ScoreInfinite  = 32600
	ScoreNone      = 32601
)

// MaxTiles stops node expansion in absurdly long games: three tiles for
// each of 256 turns.
const MaxTiles = 768

const (
	futilityMargin     = 256
	aspirationMinDepth = 5
	leafNoise          = 20
)

// DefaultAspirationWindow is wider than the whole score range, so by
// default every iteration searches with a full window.
const DefaultAspirationWindow = 65536

// Helper threads skip some iterations so that they spread over different
// depths. Row i is the pattern of helper i+1; a 1 skips the iteration.
var halfDensity = [][]int{
	{0, 1},
	{1, 0},
	{0, 0, 1, 1},
	{0, 1, 1, 0},
	{1, 1, 0, 0},
	{1, 0, 0, 1},
	{0, 0, 0, 1, 1, 1},
	{0, 0, 1, 1, 1, 0},
	{0, 1, 1, 1, 0, 0},
	{1, 1, 1, 0, 0, 0},
	{1, 1, 0, 0, 0, 1},
	{1, 0, 0, 0, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1},
	{0, 0, 0, 1, 1, 1, 1, 0},
	{0, 0, 1, 1, 1, 1, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 1, 1, 1, 0, 0, 0, 0},
	{1, 1, 1, 0, 0, 0, 0, 1},
	{1, 1, 0, 0, 0, 0, 1, 1},
	{1, 0, 0, 0, 0, 1, 1, 1},
}

// searcher is the state of one search thread. It owns its node; only the
// solver's table, counters and stop flag are shared.
type searcher struct {
	s       *Solver
	thread  int
	n       *node.Node
	killers [][2]move.Move
	buffers [][]move.Move
}

func newSearcher(s *Solver, thread int, n *node.Node) *searcher {
	return &searcher{
		s:       s,
		thread:  thread,
		n:       n,
		killers: make([][2]move.Move, MaxPly+4),
		buffers: make([][]move.Move, MaxPly+4),
	}
}

func (sr *searcher) isMaster() bool {
	return sr.thread == 0
}

// reporting is true for the thread whose iterations get logged: the master,
// or helper 1 while pondering.
func (sr *searcher) reporting() bool {
	return sr.isMaster() || (sr.thread == 1 && sr.n.TurnColor() != sr.s.rootColor)
}

// growTo makes sure the per-ply stacks reach ply.
func (sr *searcher) growTo(ply int) {
	for len(sr.killers) <= ply {
		sr.killers = append(sr.killers, [2]move.Move{})
		sr.buffers = append(sr.buffers, nil)
	}
}

func (sr *searcher) storeKiller(ply int, m move.Move) {
	if sr.killers[ply][0] != m {
		sr.killers[ply][1] = sr.killers[ply][0]
		sr.killers[ply][0] = m
	}
}

func (sr *searcher) stopped() bool {
	if sr.s.stop.Load() {
		return true
	}
	if sr.s.timeLimit > 0 && time.Since(sr.s.start) > sr.s.timeLimit {
		sr.s.stop.Store(true)
		return true
	}
	return false
}

func hashCutOK(pv bool, bound uint8, hashScore, beta int) bool {
	if pv {
		return bound == BoundExact
	}
	if hashScore >= beta {
		return bound&BoundLower != 0
	}
	return bound&BoundUpper != 0
}

// terminal scores a move my just made when no search is needed: a completed
// loop or victory line, an opponent attack left standing, or attacks of
// mine that cannot all be stopped. It refreshes the attack scan otherwise.
func (sr *searcher) terminal(ret, depth int, my tile.Color) (int, bool) {
	n := sr.n
	c := &sr.s.counters
	opp := my.Flip()
	switch {
	case ret&(board.Won<<my) != 0:
		c.MyMates.Add(1)
		return ScoreMate - n.Turn(), true
	case ret&(board.Won<<opp) != 0:
		c.OppMates.Add(1)
		return -ScoreMate + n.Turn(), true
	}
	n.CheckSetAttacks()
	switch {
	case depth < 8*OnePly && n.Attacks(opp) > 0:
		c.OppAttacks.Add(1)
		return -ScoreMate + n.Turn() + 1, true
	case depth < 2*OnePly && n.HasInevasibleAttacks(my):
		// the inevitability test is approximate, so score below a mate
		c.DoubleAttacks.Add(1)
		return ScoreAlmostWin - (n.Turn() + 2), true
	}
	return 0, false
}

// search is the alpha-beta node search below the root. Only the children of
// the root are searched as PV nodes.
func (sr *searcher) search(alpha, beta, depth, ply int, pv bool) move.Score {
	n := sr.n
	tt := sr.s.tt
	c := &sr.s.counters
	my := n.TurnColor()
	opp := my.Flip()
	inCheck := n.Attacks(opp) > 0

	sr.growTo(ply + 2)
	sr.killers[ply+2] = [2]move.Move{}

	bestMove := move.None
	bestScore := -ScoreInfinite

	key := n.SearchKey()
	entry, found := tt.LookUp(key)
	hashScore, hashMove := ScoreNone, move.None
	if found {
		hashScore, hashMove = entry.Score, entry.Move
	}

	if !pv && found &&
		entry.Depth >= depth &&
		hashScore != ScoreNone &&
		hashMove != move.None &&
		hashCutOK(pv, entry.Bound, hashScore, beta) {

		if hashScore >= beta && !inCheck {
			sr.storeKiller(ply, hashMove)
		}
		c.HashCuts.Add(1)
		return move.Score{Move: hashMove, Score: hashScore}
	}

	cut := false
	for k := 0; k < 2 && !cut; k++ {
		m := sr.killers[ply][k]
		if m == move.None || !n.IsPseudoLegalMove(m) {
			continue
		}
		ret := n.MakePseudoLegalMove(m)
		c.Nodes.Add(1)
		if ret < 0 {
			continue
		}
		score, done := sr.terminal(ret, depth, my)
		if !done {
			if depth <= 0 && (n.Attacks(my) == 0 || n.NumTiles() > MaxTiles) {
				score = -n.Evaluate(opp) + frand.Intn(leafNoise) - leafNoise/2
			} else {
				next := depth - OnePly
				if n.Attacks(my) > 0 {
					next += OnePly / 2
				}
				score = -sr.search(-beta, -alpha, next, ply+1, false).Score
			}
		}
		n.UnmakeMove()

		if sr.stopped() {
			return move.Score{}
		}
		if score > beta {
			bestScore, bestMove = score, m
			cut = true
			break
		}
		alpha = max(alpha, score)
		if score > bestScore {
			bestScore, bestMove = score, m
		}
	}

	if !cut {
		sr.buffers[ply] = n.GenerateNewerLineMoves(sr.buffers[ply][:0])
		for _, m := range sr.buffers[ply] {
			if alpha >= beta {
				break
			}
			if m == sr.killers[ply][0] || m == sr.killers[ply][1] {
				continue
			}
			ret := n.MakePseudoLegalMove(m)
			c.Nodes.Add(1)
			if ret < 0 {
				continue
			}
			score, done := sr.terminal(ret, depth, my)
			if !done {
				attacking := n.Attacks(my) > 0
				if n.NumTiles() < MaxTiles && (depth > 0 || attacking) {
					next := depth - OnePly
					// quiet for a while: the position is settling
					if age := n.LatestTouchedLineAge(); age < n.Turn()-2 {
						next -= OnePly * min(4, n.Turn()-2-age) / 4
					}
					if attacking {
						next += OnePly / 2
					}
					futile := !attacking && depth < OnePly && hashMove != move.None
					switch {
					case futile && hashScore > beta+futilityMargin:
						score = hashScore - futilityMargin
					case futile && hashScore < alpha-futilityMargin:
						score = hashScore + futilityMargin
					default:
						score = -sr.search(-beta, -alpha, next, ply+1, false).Score
					}
				} else {
					score = -n.Evaluate(opp)
				}
			}
			n.UnmakeMove()

			if sr.stopped() {
				return move.Score{}
			}
			if score > beta {
				bestScore, bestMove = score, m
				break
			}
			alpha = max(alpha, score)
			if score > bestScore {
				bestScore, bestMove = score, m
			}
		}
	}

	var bound uint8
	switch {
	case bestScore >= beta:
		bound = BoundLower
	case pv && bestMove != move.None:
		bound = BoundExact
	default:
		bound = BoundUpper
	}
	tt.Save(key, bestMove, bestScore, depth, bound)
	if bestMove != move.None {
		sr.storeKiller(ply, bestMove)
	}
	return move.Score{Move: bestMove, Score: bestScore}
}

// searchRoot searches every root move and stores its score in place.
// Moves further down the list, and those far below the previous best, are
// searched less deeply.
func (sr *searcher) searchRoot(moves move.Scores, alpha, beta, depth int) move.Score {
	n := sr.n
	c := &sr.s.counters
	my := n.TurnColor()
	opp := my.Flip()
	best := move.Score{Move: move.None, Score: -ScoreInfinite}
	previousBest := moves[0].Score

	for i := range moves {
		m := moves[i].Move
		ret := n.MakePseudoLegalMove(m)
		c.Nodes.Add(1)
		if ret < 0 {
			continue
		}
		score, done := sr.terminal(ret, depth, my)
		if !done {
			if depth <= 0 && n.Attacks(my) == 0 {
				score = -n.Evaluate(opp)
			} else {
				next := depth - OnePly
				if n.Attacks(my) > 0 {
					next += OnePly / 2
				}
				if i > 0 {
					gap := max(previousBest-moves[i].Score, 0)
					next -= int(math.Sqrt(float64(gap))) * OnePly / 17
					next = int(float64(next) * (2.8/float64(4+i) + 0.3))
				}
				score = -sr.search(-beta, -alpha, next, 1, true).Score
			}
		}
		n.UnmakeMove()

		moves[i].Score = score
		if score > beta {
			best = move.Score{Move: m, Score: score}
			break
		}
		alpha = max(alpha, score)
		if score > best.Score {
			best = move.Score{Move: m, Score: score}
		}
		if sr.stopped() {
			return move.Score{}
		}
	}
	return best
}

// window is an alpha-beta range for the root together with the amount it
// widens by on the next failure.
type window struct {
	alpha, beta, half int
}

func fullWindow() window {
	return window{alpha: -ScoreInfinite, beta: ScoreInfinite}
}

// aspirationWindow centers a window of half-width half on the previous
// iteration's score.
func aspirationWindow(prev, half int) window {
	return window{
		alpha: max(prev-half, -ScoreInfinite),
		beta:  min(prev+half, ScoreInfinite),
		half:  half,
	}
}

func (w window) full() bool {
	return w.alpha == -ScoreInfinite && w.beta == ScoreInfinite
}

// failLow moves the window down: alpha drops by half and beta comes to the
// middle of the new range.
func (w *window) failLow() {
	w.alpha = max(w.alpha-w.half, -ScoreInfinite)
	w.beta = (w.alpha + w.beta) / 2
	w.half += w.half / 2
}

func (w *window) failHigh() {
	w.beta = min(w.beta+w.half, ScoreInfinite)
	w.alpha = (w.alpha + w.beta) / 2
	w.half += w.half / 2
}

// searchWindow searches the root at depth, moving and widening w until the
// score falls inside it.
func (sr *searcher) searchWindow(moves move.Scores, depth int, w window) move.Score {
	c := &sr.s.counters
	for {
		ms := sr.searchRoot(moves, w.alpha, w.beta, depth)
		if sr.stopped() || w.full() {
			return ms
		}
		switch {
		case ms.Score <= w.alpha && w.alpha > -ScoreInfinite:
			c.FailLows.Add(1)
			w.failLow()
		case ms.Score >= w.beta && w.beta < ScoreInfinite:
			c.FailHighs.Add(1)
			w.failHigh()
		default:
			return ms
		}
	}
}

func (sr *searcher) skipIteration(iteration int) bool {
	if sr.reporting() {
		return false
	}
	row := halfDensity[(sr.thread-1)%len(halfDensity)]
	return row[(iteration+sr.n.Turn())%len(row)] == 1
}

// iterativeDeepening searches the root moves one ply deeper each iteration
// until the stop flag, the time limit or the depth limit is reached. It
// returns the best move of the last finished iteration and the root moves
// as scored by that iteration.
func (sr *searcher) iterativeDeepening(moves move.Scores) (move.Score, int, move.Scores) {
	sr.s.searching.Add(1)
	defer sr.s.searching.Add(-1)

	n := sr.n
	best := move.Score{Move: move.None}
	bestDepth := 0
	completed := slices.Clone(moves)

	for iteration := 0; iteration < sr.s.maxDepth; iteration++ {
		if sr.skipIteration(iteration) {
			continue
		}

		w := fullWindow()
		if iteration >= aspirationMinDepth {
			w = aspirationWindow(best.Score, sr.s.aspiration)
		}
		ms := sr.searchWindow(moves, iteration*OnePly, w)

		slices.SortStableFunc(moves, func(a, b move.Score) int {
			return b.Score - a.Score
		})

		if n.IsPseudoLegalMove(ms.Move) {
			best = ms
			bestDepth = iteration + 1
			copy(completed, moves)
		}

		if sr.reporting() {
			snap := sr.s.counters.Snapshot()
			log.Info().
				Int("thread", sr.thread).
				Int("iteration", iteration+1).
				Dur("elapsed", time.Since(sr.s.start)).
				Str("move", moveString(n, best.Move)).
				Int("score", best.Score).
				Uint64("nodes", snap.Nodes).
				Uint64("hashcut", snap.HashCuts).
				Int("hashfull", sr.s.tt.Hashfull()).
				Msg("iteration-complete")
		} else {
			log.Debug().Int("thread", sr.thread).Int("iteration", iteration+1).
				Int("score", best.Score).Msg("helper-iteration-complete")
		}

		if sr.stopped() {
			break
		}
	}
	if sr.isMaster() {
		log.Info().Object("counters", sr.s.counters.Snapshot()).Msg("search-stats")
	}
	return best, bestDepth, completed
}

func moveString(n *node.Node, m move.Move) string {
	if m == move.None {
		return "none"
	}
	return n.MoveString(m)
}
