package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const helpText = `Commands:
  :help              show this message
  :quit, :q, :exit   leave the REPL
  :reset             discard the accumulated source and start over
  :source            print the accumulated declaration source
  :funcs             list every function visible in the current program
  :history           print this session's input history
  :clear             clear the screen

Anything else is either a declaration (let/type/enum/reify/import,
terminated by ';') or a bare expression to evaluate immediately.`

// HandleCommand dispatches one ':'-prefixed input line. :quit is handled
// by Start directly since it needs to break the prompt loop.
func (r *REPL) HandleCommand(input string, out io.Writer) {
	switch strings.TrimSpace(input) {
	case ":help", ":h":
		fmt.Fprintln(out, helpText)
	case ":reset":
		r.source = ""
		r.prog = nil
		fmt.Fprintln(out, green("session reset"))
	case ":source":
		if r.source == "" {
			fmt.Fprintln(out, dim("(empty)"))
			return
		}
		fmt.Fprintln(out, r.source)
	case ":funcs":
		r.printFuncs(out)
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%4d  %s\n", i+1, h)
		}
	case ":clear":
		fmt.Fprint(out, "\033[H\033[2J")
	default:
		fmt.Fprintln(out, red("Unknown command:"), input, dim("(try :help)"))
	}
}

func (r *REPL) printFuncs(out io.Writer) {
	if r.prog == nil {
		fmt.Fprintln(out, dim("(nothing checked yet)"))
		return
	}
	names := make([]string, 0, len(r.prog.Functions))
	for key := range r.prog.Functions {
		names = append(names, key.Module+"."+key.Name)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(out, "  "+n)
	}
}
