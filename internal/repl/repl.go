// Package repl implements ColloML's interactive REPL: a persistent buffer
// of declarations, checked as a whole on every accepted input, against
// which bare call expressions are evaluated. Grounded on the teacher's
// internal/repl/repl.go (liner-backed prompt loop, colored output,
// history file, `:`-prefixed commands), adapted from AILANG's
// expression-level persistent environment (one shared eval.Environment
// across inputs) to ColloML's declaration-level one: ColloML has no
// top-level `let x = e` binding form outside a module, so the REPL's
// persistent state is a growing module source, re-checked in full on
// every accepted declaration rather than incrementally extended.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/eval"
	"github.com/collomatique/colloml-go/internal/schema"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

const replModule = "repl"

// emptyObjectEnv is the REPL's default object environment: it reports no
// objects of any type. A real object environment is supplied by the
// embedding application (spec §6); the REPL's job is to exercise
// check/eval/ilp interactively, not to provide one.
type emptyObjectEnv struct{}

func (emptyObjectEnv) Collection(ctx context.Context, typeName string) ([]eval.ObjectValue, error) {
	return nil, nil
}

func (emptyObjectEnv) Field(ctx context.Context, handle eval.ObjectValue, field string) (eval.Value, error) {
	return nil, fmt.Errorf("repl: object environment has no handles (field %q requested)", field)
}

// REPL is one interactive session: an accumulating module source, the
// last program it successfully checked against, and the schemas that
// program was checked with.
type REPL struct {
	objSchema schema.ObjectSchema
	varSchema schema.VariableSchema
	objEnv    eval.ObjectEnv

	source  string
	prog    *check.Program
	history []string

	version   string
	buildTime string
}

// New creates a REPL with empty object/variable schemas.
func New() *REPL {
	return NewWithSchemas(schema.ObjectSchema{}, schema.VariableSchema{})
}

// NewWithSchemas creates a REPL checked against the given schemas.
func NewWithSchemas(objSchema schema.ObjectSchema, varSchema schema.VariableSchema) *REPL {
	return &REPL{
		objSchema: objSchema,
		varSchema: varSchema,
		objEnv:    emptyObjectEnv{},
		version:   "dev",
		buildTime: "unknown",
	}
}

// SetVersion records build metadata shown in the welcome banner.
func (r *REPL) SetVersion(version, buildTime string) {
	if version != "" {
		r.version = version
	}
	if buildTime != "" {
		r.buildTime = buildTime
	}
}

func (r *REPL) getPrompt() string {
	if r.prog == nil {
		return "colloml> "
	}
	return "colloml[" + fmt.Sprint(len(r.prog.Functions)) + " fn]> "
}

// Start begins the REPL's prompt loop, reading from stdin via liner
// (matching the teacher's convention: liner always reads the controlling
// terminal, so an `in io.Reader` parameter would be decorative) and
// writing to out.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".colloml_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("ColloML"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if strings.HasPrefix(input, ":") {
			for _, cmd := range []string{":help", ":quit", ":reset", ":history", ":clear", ":funcs", ":source"} {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt(r.getPrompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.HandleCommand(input, out)
			continue
		}
		r.ProcessInput(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
