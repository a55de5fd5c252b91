// Command propflow is an interactive demo shell over package engine: it
// wires a readline REPL to a single *engine.Engine, letting you declare
// variables and bidirectional constraints, touch/set values, and inspect
// the resulting solution graph. Grounded on cmd/agsh's readline-driven
// main loop.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/hashicorp/go-hclog"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/config"
	"github.com/arvandi/propflow/diagnostics"
	"github.com/arvandi/propflow/engine"
	"github.com/arvandi/propflow/scenarios"
)

func main() {
	opts, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	e := engine.New(opts...)
	e.SetLogger(hclog.New(&hclog.LoggerOptions{Name: "propflow", Level: hclog.Warn}))

	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".cache", "propflow_history")
	_ = os.MkdirAll(filepath.Dir(historyFile), 0755)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[36mpropflow>\033[0m ",
		HistoryFile:       historyFile,
		HistorySearchFold: true,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init error: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("propflow demo shell — type 'help' for commands, 'exit' to quit")
	for {
		line, rerr := rl.Readline()
		if rerr == readline.ErrInterrupt {
			continue
		}
		if rerr != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		dispatch(e, line)
	}
}

func dispatch(e *engine.Engine, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		printHelp()

	case "add-var":
		if len(args) != 1 {
			fmt.Println("usage: add-var <id>")
			return
		}
		e.AddVariable(args[0], cgraph.LevelDefault, nil)
		e.Update()

	case "add-constraint":
		if len(args) != 3 {
			fmt.Println("usage: add-constraint <id> <var-a> <var-b>  (adds a bidirectional passthrough)")
			return
		}
		if err := scenarios.Bidi(e, args[0], args[1], args[2]); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		e.Update()

	case "touch":
		if len(args) != 1 {
			fmt.Println("usage: touch <var-id>")
			return
		}
		e.TouchVariable(args[0])
		e.Update()

	case "set":
		if len(args) != 2 {
			fmt.Println("usage: set <var-id> <int-value>")
			return
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Printf("error: value must be an integer: %v\n", err)
			return
		}
		e.ChangeVariable(args[0], n)
		e.Update()

	case "show":
		showState(e)

	default:
		fmt.Printf("unknown command %q — type 'help'\n", cmd)
	}
}

func printHelp() {
	fmt.Print(`commands:
  add-var <id>                        declare a variable
  add-constraint <id> <a> <b>         declare a bidirectional passthrough constraint between a and b
  touch <var-id>                      promote a variable's stay without changing its value
  set <var-id> <int>                  edit a variable and re-solve
  show                                print variable values and the incidence matrix
  exit                                quit
`)
}

func showState(e *engine.Engine) {
	snap := e.GetCGraph()
	fmt.Println("variables:")
	for _, vid := range snap.Variables {
		v, ok := e.Variable(vid)
		if !ok {
			continue
		}
		fmt.Printf("  %-12s = %v\n", vid, v.Value())
	}
	solved, _ := e.Solved().Value()
	fmt.Printf("solved: %v\n", solved)

	m := diagnostics.Incidence(e.Graph())
	fmt.Println(m.String())
}
