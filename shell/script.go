package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/domino14/trax/board"
)

// scriptCommands are exposed to Lua as trax_<name>(args). Each takes the
// rest of the command line as one string and returns the command output,
// or a string starting with ERROR.
var scriptCommands = []string{
	"new", "move", "undo", "record", "show", "gen", "legal", "attacks",
	"eval", "exam", "key", "search", "scores", "book", "bench", "set",
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("trax_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(name + " " + lv)
		if err == nil {
			var r *Response
			if r, err = sc.dispatch(cmd); err == nil {
				L.Push(lua.LString(r.message))
				return 1
			}
		}
		log.Err(err).Str("cmd", name).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
}

// Turn returns the number of turns played.
func Turn(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LNumber(sc.node.Turn()))
	return 1
}

// Winner returns "W" or "R" once the game is over, and nil before.
func Winner(L *lua.LState) int {
	sc := getShell(L)
	if !sc.gameOver() {
		L.Push(lua.LNil)
		return 1
	}
	winner := board.WhichWon(sc.result, sc.node.LastTurnColor())
	L.Push(lua.LString(winner.String()))
	return 1
}

// BestMove returns the best move and score of the last search.
func BestMove(L *lua.LState) int {
	sc := getShell(L)
	if sc.last == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(sc.node.MoveString(sc.last.Move)))
	L.Push(lua.LNumber(sc.last.Score))
	return 2
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("trax_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("trax_"+name, L.NewFunction(luaCommand(name)))
	}
	L.SetGlobal("trax_turn", L.NewFunction(Turn))
	L.SetGlobal("trax_winner", L.NewFunction(Winner))
	L.SetGlobal("trax_best", L.NewFunction(BestMove))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
