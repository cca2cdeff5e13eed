package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/book"
	"github.com/domino14/trax/config"
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/notation"
	"github.com/domino14/trax/search"
	"github.com/domino14/trax/stats"
	"github.com/domino14/trax/tile"
)

func (sc *ShellController) boardText() string {
	n := sc.node
	var sb strings.Builder
	sb.WriteString(n.ToDisplayText())
	fmt.Fprintf(&sb, "%s to move\n", n.TurnColor())
	if rec := n.PathNotations(); len(rec) > 0 {
		fmt.Fprintf(&sb, "record: %s\n", strings.Join(rec, " "))
	}
	if sc.gameOver() {
		winner := board.WhichWon(sc.result, n.LastTurnColor())
		fmt.Fprintf(&sb, "%s wins (%s)\n", winner, board.ResultDescription(sc.result))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) readMoves(record string) ([]move.Move, error) {
	var moves []move.Move
	for _, s := range notation.SplitRecord(record) {
		m, err := sc.node.ReadMove(s)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func scoreString(score int) string {
	switch {
	case score >= search.ScoreKnownWin:
		return fmt.Sprintf("win@%d", search.ScoreMate-score)
	case score <= -search.ScoreKnownWin:
		return fmt.Sprintf("loss@%d", search.ScoreMate+score)
	}
	return strconv.Itoa(score)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.reset()
	return msg(sc.boardText()), nil
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("move <notation> [<notation>...]")
	}
	for _, s := range cmd.args {
		if _, err := sc.play(s); err != nil {
			return nil, err
		}
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		if err := sc.engine.undo(); err != nil {
			return nil, err
		}
		return msg(sc.boardText()), nil
	}
	t, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if t < 0 || t > sc.node.Turn() {
		return nil, fmt.Errorf("turn must be between 0 and %d", sc.node.Turn())
	}
	if t < sc.node.Turn() {
		sc.node.UnmakeTo(t)
		sc.result = 0
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) record(cmd *shellcmd) (*Response, error) {
	sc.reset()
	ret, err := sc.node.PlayRecord(strings.Join(cmd.args, " "))
	if ret > 0 {
		sc.result = ret
	}
	if err != nil {
		return nil, err
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	lines, err := cmd.options.BoolDefault("lines", false)
	if err != nil {
		return nil, err
	}
	out := sc.boardText()
	if lines {
		out += "\n" + strings.TrimRight(sc.node.LinesText(), "\n")
	}
	return msg(out), nil
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	legalOnly, err := cmd.options.BoolDefault("legal", false)
	if err != nil {
		return nil, err
	}
	var moves []move.Move
	if legalOnly {
		moves = sc.node.GenerateLegalMoves()
	} else {
		moves = lo.Uniq(sc.node.GenerateMoves(nil))
	}
	strs := lo.Map(moves, func(m move.Move, _ int) string {
		return sc.node.MoveString(m)
	})
	slices.Sort(strs)
	return msg(fmt.Sprintf("%d moves: %s", len(strs), strings.Join(strs, " "))), nil
}

func (sc *ShellController) legal(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("legal <notation>")
	}
	m, err := sc.node.ReadMove(cmd.args[0])
	if err != nil {
		return nil, err
	}
	pseudo := sc.node.IsPseudoLegalMove(m)
	ret := sc.node.MakeMove(m)
	if ret < 0 {
		return msg(fmt.Sprintf("illegal (pseudo-legal %v): %v", pseudo, board.ResultError(ret))), nil
	}
	sc.node.UnmakeMove()
	if ret > 0 {
		return msg("legal, " + board.ResultDescription(ret)), nil
	}
	return msg("legal"), nil
}

func (sc *ShellController) attacks(cmd *shellcmd) (*Response, error) {
	n := sc.node
	n.CheckSetAttacks()
	var sb strings.Builder
	for c := tile.White; c <= tile.Red; c++ {
		fmt.Fprintf(&sb, "%s: %d attacks, inevasible %v\n", c, n.Attacks(c), n.HasInevasibleAttacks(c))
		for _, a := range n.AttackLines(c) {
			line := n.Line(a[0])
			fmt.Fprintf(&sb, "  kind %d: %s\n", a[1], line.String())
		}
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.gameOver() {
		return nil, errGameOver
	}
	n := sc.node
	n.CheckSetAttacks()
	white := n.Evaluate(tile.White)
	red := n.Evaluate(tile.Red)
	ev := n.EvalInfo()
	return msg(fmt.Sprintf("eval white %d red %d\nthreats %v long-lines %v line-shape %v two-lines %v\nmove-eval for %s: %d",
		white, red, ev.Threats, ev.LongLines, ev.LineShapeScore, ev.TwoLinesScore,
		n.LastTurnColor(), n.EvaluateMove(n.LastTurnColor()))), nil
}

func (sc *ShellController) exam(cmd *shellcmd) (*Response, error) {
	if err := sc.node.Exam(!sc.gameOver()); err != nil {
		return nil, err
	}
	return msg("board is consistent"), nil
}

func (sc *ShellController) key(cmd *shellcmd) (*Response, error) {
	n := sc.node
	rkey, sym := n.RelativeKey()
	return msg(fmt.Sprintf("hash %016x\nkey %016x\nsearch-key %016x\nrelative-key %016x (symmetry %d)",
		n.Hash(), n.Key(), n.SearchKey(), rkey, sym)), nil
}

func (sc *ShellController) search(cmd *shellcmd) (*Response, error) {
	timeMs, err := cmd.options.IntDefault("time", sc.cfg.GetInt(config.ConfigTimeLimitMs))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	multiPV, err := cmd.options.IntDefault("multipv", sc.multiPV)
	if err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", sc.maxDepth)
	if err != nil {
		return nil, err
	}
	searchMoves, err := sc.readMoves(cmd.options.String("moves"))
	if err != nil {
		return nil, err
	}
	ignoreMoves, err := sc.readMoves(cmd.options.String("ignore"))
	if err != nil {
		return nil, err
	}

	sc.solver.SetThreads(threads)
	sc.solver.SetTimeLimit(time.Duration(timeMs) * time.Millisecond)
	sc.solver.SetMaxDepth(depth)
	defer sc.applyConfig()

	res, err := sc.engine.search(context.Background(), searchMoves, ignoreMoves, multiPV)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("     Move     Score\n")
	for i, ms := range res.RootMoves {
		fmt.Fprintf(&sb, "%3d: %-9s%s\n", i+1, sc.node.MoveString(ms.Move), scoreString(ms.Score))
	}
	fmt.Fprintf(&sb, "best %s score %s depth %d nodes %d elapsed %v",
		sc.node.MoveString(res.Move), scoreString(res.Score), res.Depth,
		res.Counters.Nodes, res.Elapsed.Round(time.Millisecond))
	return msg(sb.String()), nil
}

func (sc *ShellController) scores(cmd *shellcmd) (*Response, error) {
	if sc.last == nil {
		return nil, errNoSearch
	}
	bins, err := cmd.options.IntDefault("bins", 10)
	if err != nil {
		return nil, err
	}
	clip, err := cmd.options.IntDefault("clip", 3000)
	if err != nil {
		return nil, err
	}
	data := lo.Map(sc.last.AllMoves, func(ms move.Score, _ int) float64 {
		return float64(min(max(ms.Score, -clip), clip))
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d root moves, scores clipped to +-%d\n", len(data), clip)
	if err := histogram.Fprint(&sb, histogram.Hist(bins, data), histogram.Linear(40)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) loadBook(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		if sc.book == nil {
			return msg("no book loaded"), nil
		}
		moves := lo.Map(sc.book.Moves(sc.node.Board), func(m move.Move, _ int) string {
			return sc.node.MoveString(m)
		})
		return msg(fmt.Sprintf("book %q: %d lines, %d positions\nbook moves here: %s",
			sc.book.Name, sc.book.NumLines(), sc.book.NumPositions(), strings.Join(moves, " "))), nil
	}
	if cmd.args[0] == "off" {
		sc.book = nil
		sc.cfg.Set(config.ConfigBookPath, "")
		return msg("book disabled"), nil
	}
	bk, err := book.Load(sc.cfg, cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.book = bk
	sc.cfg.Set(config.ConfigBookPath, cmd.args[0])
	return msg(fmt.Sprintf("loaded book: %d lines, %d positions", bk.NumLines(), bk.NumPositions())), nil
}

// bench searches the current position repeatedly from an empty
// transposition table.
func (sc *ShellController) bench(cmd *shellcmd) (*Response, error) {
	runs, err := cmd.options.IntDefault("n", 5)
	if err != nil {
		return nil, err
	}
	timeMs, err := cmd.options.IntDefault("time", sc.cfg.GetInt(config.ConfigTimeLimitMs))
	if err != nil {
		return nil, err
	}
	if sc.gameOver() {
		return nil, errGameOver
	}
	sc.solver.SetTimeLimit(time.Duration(timeMs) * time.Millisecond)
	defer sc.applyConfig()

	var nps, depth stats.Statistic
	for i := 0; i < runs; i++ {
		sc.solver.TranspositionTable().Clear()
		res, err := sc.solver.ParallelSearch(context.Background(), sc.node, nil, nil, 1)
		if err != nil {
			return nil, err
		}
		nps.Push(float64(res.Counters.Nodes) / max(res.Elapsed.Seconds(), 1e-9) / 1000)
		depth.Push(float64(res.Depth))
	}
	return msg(fmt.Sprintf("speed %s\ndepth %s", nps.Summary("knps"), depth.Summary("plies"))), nil
}

var settingNames = []string{"threads", "time", "tt", "multipv", "depth", "ponder", "debug"}

func (sc *ShellController) setting(name string) (string, error) {
	switch name {
	case "threads":
		return strconv.Itoa(sc.cfg.GetInt(config.ConfigThreads)), nil
	case "time":
		return strconv.Itoa(sc.cfg.GetInt(config.ConfigTimeLimitMs)), nil
	case "tt":
		return strconv.Itoa(sc.cfg.GetInt(config.ConfigTTMegabytes)), nil
	case "multipv":
		return strconv.Itoa(sc.multiPV), nil
	case "depth":
		return strconv.Itoa(sc.maxDepth), nil
	case "ponder":
		return strconv.FormatBool(sc.cfg.GetBool(config.ConfigPonder)), nil
	case "debug":
		return strconv.FormatBool(sc.cfg.GetBool(config.ConfigDebug)), nil
	}
	return "", fmt.Errorf("no such option: %s", name)
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		sb.WriteString("Settings:")
		for _, name := range settingNames {
			v, _ := sc.setting(name)
			fmt.Fprintf(&sb, "\n  %s: %s", name, v)
		}
		return msg(sb.String()), nil
	}
	name := cmd.args[0]
	if len(cmd.args) == 1 {
		v, err := sc.setting(name)
		if err != nil {
			return nil, err
		}
		return msg(name + ": " + v), nil
	}
	val := cmd.args[1]
	switch name {
	case "threads", "time", "tt", "multipv", "depth":
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%s cannot be negative", name)
		}
		switch name {
		case "threads":
			sc.cfg.Set(config.ConfigThreads, max(n, 1))
		case "time":
			sc.cfg.Set(config.ConfigTimeLimitMs, n)
		case "tt":
			sc.cfg.Set(config.ConfigTTMegabytes, n)
			sc.solver.TranspositionTable().SetSize(n)
		case "multipv":
			sc.multiPV = max(n, 1)
		case "depth":
			sc.maxDepth = min(max(n, 1), search.MaxPly)
		}
	case "ponder", "debug":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		if name == "ponder" {
			sc.cfg.Set(config.ConfigPonder, b)
		} else {
			sc.cfg.Set(config.ConfigDebug, b)
			if b {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		}
	default:
		return nil, fmt.Errorf("no such option: %s", name)
	}
	sc.applyConfig()
	v, _ := sc.setting(name)
	return msg("set " + name + " to " + v), nil
}
