package shell

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/trax/board"
	"github.com/domino14/trax/config"
)

// serve runs the protocol on input and returns the protocol and its
// output lines.
func serve(t *testing.T, sc *ShellController, input string) (*protocol, []string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &bytes.Buffer{}
	p := sc.newProtocol(ctx, strings.NewReader(input), out)
	if err := p.run(ctx); err != nil {
		t.Fatal(err)
	}
	return p, strings.Fields(out.String())
}

func TestProtocolIdentify(t *testing.T) {
	sc, _ := newTestController(t)
	_, lines := serve(t, sc, "-T -N -E")
	assert.Equal(t, []string{"KZ", "Traxdev"}, lines)
}

func TestProtocolSetup(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)

	p, lines := serve(t, sc, "-I -M @0+ -M B1+ -J -U -J -E")
	is.Equal(lines, []string{"0", "0"})
	is.Equal(sc.node.Turn(), 1)
	is.Equal(p.record, []string{"@0+"})

	p, _ = serve(t, sc, "-I -R @0/ @1/ A2+ -F -E")
	is.Equal(sc.node.Turn(), 3)
	is.Equal(p.record, []string{"@0/", "@1/", "A2+"})

	// input ending without -E
	_, lines = serve(t, sc, "-I -M @0+")
	is.Equal(len(lines), 0)
	is.Equal(sc.node.Turn(), 1)
}

func TestProtocolRejectsBadMove(t *testing.T) {
	sc, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := sc.newProtocol(ctx, strings.NewReader("-I -M @0+ -M Q9+ -E"), &bytes.Buffer{})
	assert.Error(t, p.run(ctx))
	assert.Equal(t, 1, sc.node.Turn())
}

func TestProtocolPlayWhite(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	first := sc.node.Copy()

	p, lines := serve(t, sc, "-W -E")
	is.Equal(len(lines), 1)
	is.True(lines[0] == first.MoveString(board.FirstMoves[0]) ||
		lines[0] == first.MoveString(board.FirstMoves[1]))
	is.Equal(p.record, lines)
	is.Equal(sc.node.Turn(), 1)
}

func TestProtocolPlayRed(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	sc.maxDepth = 2
	sc.applyConfig()

	p, lines := serve(t, sc, "-B @0+ -E")
	is.Equal(len(lines), 1)
	is.Equal(p.record, []string{"@0+", lines[0]})
	is.Equal(sc.node.Turn(), 2)

	// the opponent takes back its move and ours
	sc.reset()
	p, lines = serve(t, sc, "-B @0+ -U @0/ -E")
	is.Equal(len(lines), 2)
	is.Equal(p.record, []string{"@0/", lines[1]})
	is.Equal(sc.node.Turn(), 2)
}

func TestProtocolPonder(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	sc.cfg.Set(config.ConfigPonder, true)
	sc.maxDepth = 2
	sc.applyConfig()

	p, lines := serve(t, sc, "-B @0+ -E")
	is.Equal(len(lines), 1)
	is.Equal(len(p.record), 2)
	// pondering on the opponent's time stops when the server exits
	is.True(!sc.solver.Pondering())
}

func TestProtocolAnalyze(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	sc.maxDepth = 1
	sc.applyConfig()

	_, lines := serve(t, sc, "-I -R @0/ @1/ A2+ -F -S")
	is.Equal(len(lines), 1)
	m, err := sc.node.ReadMove(lines[0])
	is.NoErr(err)
	is.True(sc.node.IsLegalMove(m))
	// the time limit is back after the analysis
	is.Equal(sc.cfg.GetInt(config.ConfigTimeLimitMs), 100)
}

func TestProtocolOverTCP(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	is.NoErr(err)
	defer ln.Close()

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			got <- ""
			return
		}
		defer conn.Close()
		conn.Write([]byte("-N\n"))
		buf := make([]byte, 64)
		n, _ := conn.Read(buf)
		got <- strings.TrimSpace(string(buf[:n]))
		conn.Write([]byte("-E\n"))
	}()

	out, err := run(t, sc, "protocol -addr "+ln.Addr().String())
	is.NoErr(err)
	is.Equal(out, "protocol finished")
	is.Equal(<-got, "Traxdev")
}
