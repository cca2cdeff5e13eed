package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/trax/config"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errGameOver          = errors.New("the game is over; undo or start a new one")
	errNothingToUndo     = errors.New("no move to undo")
	errNoSearch          = errors.New("no search has been run yet")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) BoolDefault(key string, defaultB bool) (bool, error) {
	v, ok := c[key]
	if !ok {
		return defaultB, nil
	}
	return strconv.ParseBool(v)
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	*engine

	l          *readline.Instance
	out        io.Writer
	gitVersion string
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, gitVersion string) (*ShellController, error) {
	sc, err := newController(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	sc.gitVersion = gitVersion
	return sc, nil
}

// initReadline sets up line editing. It is only done for the interactive
// loop: readline reads stdin as soon as it starts, and the protocol may
// need stdin for itself.
func (sc *ShellController) initReadline() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtrax>\033[0m ",
		HistoryFile:     "/tmp/trax_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	sc.out = l.Stderr()
	return nil
}

// newController builds a shell without line editing, writing to out.
func newController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	return &ShellController{engine: e, out: out}, nil
}

// extractFields splits a command line into the command, its arguments and
// its -key value options. Backslashes are tile glyphs here, not escapes.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(strings.ReplaceAll(line, `\`, `\\`))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if !strings.HasPrefix(fields[i], "-") {
			args = append(args, fields[i])
			continue
		}
		if i+1 >= len(fields) {
			return nil, errWrongOptionSyntax
		}
		options[fields[i][1:]] = fields[i+1]
		i++
	}
	return &shellcmd{cmd: fields[0], args: args, options: options}, nil
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "move", "m":
		return sc.move(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "record", "r":
		return sc.record(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen":
		return sc.generate(cmd)
	case "legal":
		return sc.legal(cmd)
	case "attacks":
		return sc.attacks(cmd)
	case "eval":
		return sc.eval(cmd)
	case "exam":
		return sc.exam(cmd)
	case "key":
		return sc.key(cmd)
	case "search":
		return sc.search(cmd)
	case "scores":
		return sc.scores(cmd)
	case "book":
		return sc.loadBook(cmd)
	case "bench":
		return sc.bench(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	case "protocol":
		return sc.protocol(cmd)
	case "help":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, as given on the command line of the
// binary.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return
	}
	if cmd.cmd == "exit" {
		sig <- syscall.SIGINT
		return
	}
	resp, err := sc.dispatch(cmd)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	if err := sc.initReadline(); err != nil {
		sc.showError(err)
		sig <- syscall.SIGINT
		return
	}

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops background work before exiting.
func (sc *ShellController) Cleanup() {
	sc.solver.StopPondering()
	if sc.l != nil {
		sc.l.Close()
	}
}
