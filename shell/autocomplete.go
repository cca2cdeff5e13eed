package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // options, e.g. "-time"
	Args    []string // possible values of the first argument
}

var commandMetadata = map[string]CommandMetadata{
	"search": {
		Options: []string{"-time", "-threads", "-multipv", "-depth", "-moves", "-ignore"},
	},
	"show": {
		Options: []string{"-lines"},
	},
	"gen": {
		Options: []string{"-legal"},
	},
	"scores": {
		Options: []string{"-bins", "-clip"},
	},
	"bench": {
		Options: []string{"-n", "-time"},
	},
	"set": {
		Args: settingNames,
	},
	"book": {
		Args: []string{"off"},
	},
	"protocol": {
		Options: []string{"-addr"},
	},
	"help": {
		Args: []string{"notation", "search", "scores", "bench", "set", "script", "protocol"},
	},
}

var commandNames = []string{
	"help", "new", "move", "undo", "record", "show", "gen", "legal",
	"attacks", "eval", "exam", "key", "search", "scores", "book", "bench",
	"set", "script", "protocol", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(strings.ReplaceAll(text, `\`, `\\`))
	if err != nil {
		fields = strings.Fields(text)
	}

	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]

		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-lines" || lastCompleteField == "-legal":
			completions = boolValues
		case cmdName == "set" && (lastCompleteField == "ponder" || lastCompleteField == "debug"):
			completions = boolValues
		case cmdName == "move" || cmdName == "m" || cmdName == "legal":
			// the legal moves of the current position
			for _, m := range c.sc.node.GenerateLegalMoves() {
				completions = append(completions, c.sc.node.MoveString(m))
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}

	return matches, len(prefix)
}
