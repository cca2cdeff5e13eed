package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/config"
	"github.com/domino14/trax/move"
	"github.com/domino14/trax/tile"
)

const engineName = "Trax"

// protocol talks to a game server. Messages are whitespace separated
// tokens; commands start with a dash and everything else is a move.
type protocol struct {
	e      *engine
	w      io.Writer
	msgs   <-chan string
	code   string
	name   string
	ponder bool
	record []string
}

// readTokens feeds the tokens of r into a channel until r ends or ctx is
// done.
func readTokens(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (p *protocol) recv(ctx context.Context) (string, bool) {
	select {
	case m, ok := <-p.msgs:
		if ok {
			log.Debug().Str("msg", m).Msg("recv")
		}
		return m, ok
	case <-ctx.Done():
		return "", false
	}
}

func (p *protocol) send(m string) error {
	log.Debug().Str("msg", m).Msg("send")
	_, err := fmt.Fprintln(p.w, m)
	return err
}

func (p *protocol) reset() {
	p.e.reset()
	p.record = p.record[:0]
}

// playRecorded plays a move received in notation.
func (p *protocol) playRecorded(s string) error {
	if _, err := p.e.play(s); err != nil {
		return err
	}
	p.record = append(p.record, s)
	return nil
}

func (p *protocol) run(ctx context.Context) error {
	for {
		cmd, ok := p.recv(ctx)
		if !ok {
			return nil
		}
		switch cmd {
		case "-T":
			if err := p.send(p.code); err != nil {
				return err
			}
		case "-N":
			if err := p.send(p.name); err != nil {
				return err
			}
		case "-W":
			return p.gameLoop(ctx, tile.White)
		case "-B":
			return p.gameLoop(ctx, tile.Red)
		case "-M":
			s, ok := p.recv(ctx)
			if !ok {
				return nil
			}
			if err := p.playRecorded(s); err != nil {
				return err
			}
			log.Debug().Msg(p.e.node.ToDisplayText())
		case "-U":
			if err := p.e.undo(); err != nil {
				log.Warn().Err(err).Msg("undo-failed")
				continue
			}
			p.record = p.record[:len(p.record)-1]
		case "-R":
			for {
				s, ok := p.recv(ctx)
				if !ok {
					return nil
				}
				if s == "-F" {
					break
				}
				if err := p.playRecorded(s); err != nil {
					log.Warn().Err(err).Msg("record-move-rejected")
					break
				}
			}
			log.Debug().Msg(p.e.node.ToDisplayText())
		case "-I":
			p.reset()
		case "-J":
			if err := p.send(strconv.Itoa(p.e.result)); err != nil {
				return err
			}
		case "-E":
			return nil
		case "-S":
			// analysis of the current position without a time limit
			p.e.solver.SetTimeLimit(0)
			defer p.e.applyConfig()
			m, err := p.e.think(ctx)
			if err != nil {
				return err
			}
			return p.send(p.e.node.MoveString(m))
		default:
			log.Warn().Str("msg", cmd).Msg("unknown-command")
		}
	}
}

// gameLoop plays a game as my until it ends, the server exits, or the
// connection closes.
func (p *protocol) gameLoop(ctx context.Context, my tile.Color) error {
	n := p.e.node
	log.Info().Str("color", my.String()).Msg("game-start")
	defer func() {
		log.Info().Str("record", strings.Join(p.record, " ")).Msg("game-record")
	}()

	for {
		turnColor := n.TurnColor()
		ret := 0
		if turnColor == my {
			var m move.Move
			if n.Turn() == 0 {
				m = board.FirstMoves[frand.Intn(len(board.FirstMoves))]
			} else {
				var err error
				if m, err = p.e.think(ctx); err != nil {
					return err
				}
			}
			s := n.MoveString(m)
			if err := p.send(s); err != nil {
				return err
			}
			p.record = append(p.record, s)
			if ret = n.MakeMove(m); ret < 0 {
				return fmt.Errorf("own move %s: %w", s, board.ResultError(ret))
			}
		} else {
			if p.ponder {
				p.e.solver.StartPondering(n)
			}
			s, ok := p.recv(ctx)
			p.e.solver.StopPondering()
			if !ok {
				return nil
			}
			switch s {
			case "-U":
				for i := 0; i < 2 && n.Turn() > 0; i++ {
					n.UnmakeMove()
					p.record = p.record[:len(p.record)-1]
				}
				p.e.result = 0
				continue
			case "-E":
				return nil
			}
			m, err := n.ReadMove(s)
			if err != nil {
				log.Warn().Err(err).Msg("unrecognized-opponent-move")
				continue
			}
			p.record = append(p.record, s)
			if ret = n.MakeMove(m); ret < 0 {
				return fmt.Errorf("opponent move %s: %w", s, board.ResultError(ret))
			}
			log.Info().Str("move", s).Msg("opponent-move")
		}
		p.e.result = ret
		log.Debug().Msg(n.ToDisplayText())
		if err := n.Exam(ret == 0); err != nil {
			return err
		}
		if ret > 0 {
			winner := board.WhichWon(ret, turnColor)
			log.Info().Str("winner", winner.String()).Bool("won", winner == my).
				Str("how", board.ResultDescription(ret)).Msg("game-over")
			return nil
		}
	}
}

// dialServer connects to the game server, retrying with back-off.
func dialServer(ctx context.Context, addr string) (net.Conn, error) {
	return retry.DoWithData(
		func() (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "tcp", addr)
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("addr", addr).
				Msg("could-not-connect-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (sc *ShellController) newProtocol(ctx context.Context, r io.Reader, w io.Writer) *protocol {
	version := sc.gitVersion
	if version == "" {
		version = "dev"
	}
	return &protocol{
		e:      sc.engine,
		w:      w,
		msgs:   readTokens(ctx, r),
		code:   sc.cfg.GetString(config.ConfigPlayerCode),
		name:   engineName + version,
		ponder: sc.cfg.GetBool(config.ConfigPonder),
	}
}

// protocol serves the game-server protocol on the configured server
// address, or on stdin and stdout when there is none.
func (sc *ShellController) protocol(cmd *shellcmd) (*Response, error) {
	addr := cmd.options.String("addr")
	if addr == "" {
		addr = sc.cfg.GetString(config.ConfigServerAddr)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var r io.Reader = os.Stdin
	var w io.Writer = os.Stdout
	if addr != "" {
		conn, err := dialServer(ctx, addr)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		log.Info().Str("addr", addr).Msg("connected")
		r, w = conn, conn
	}
	sc.reset()
	if err := sc.newProtocol(ctx, r, w).run(ctx); err != nil {
		return nil, err
	}
	return msg("protocol finished"), nil
}
