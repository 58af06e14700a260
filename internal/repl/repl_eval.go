package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/eval"
)

var declKeywords = []string{"let", "pub", "type", "enum", "reify", "import"}

func isDeclInput(input string) bool {
	first := input
	if i := strings.IndexAny(input, " \t("); i >= 0 {
		first = input[:i]
	}
	for _, kw := range declKeywords {
		if first == kw {
			return true
		}
	}
	return false
}

// evalFuncName is the throwaway function name processExpr wraps a bare
// expression in. It is never committed to r.source (each call rebuilds
// its own candidate from the committed buffer), so it can't collide with
// a user-declared function across calls.
const evalFuncName = "__repl_eval_expr__"

// evalReturnUnion is the syntactic type every ad hoc expression the REPL
// evaluates must coerce into (spec §4.D's coercion lattice lets any of
// these unify under a top-level union return type). A richer result — a
// list, tuple, struct, or custom enum value — can still be explored by
// binding it with a `let` declaration and inspecting it through further
// expressions or additional declarations.
const evalReturnUnion = "Int | Bool | Constraint | LinExpr | String"

// ProcessInput dispatches one non-':'-prefixed line: a declaration is
// appended to the session's accumulated source and the whole buffer is
// rechecked, committing only on success; anything else is evaluated as a
// one-off expression against the last successfully checked program,
// without being added to the buffer.
func (r *REPL) ProcessInput(input string, out io.Writer) {
	if isDeclInput(input) {
		r.processDecl(input, out)
		return
	}
	r.processExpr(input, out)
}

func (r *REPL) processDecl(input string, out io.Writer) {
	if !strings.HasSuffix(strings.TrimSpace(input), ";") {
		fmt.Fprintln(out, red("Error:"), "declaration must end with ';'")
		return
	}
	candidate := r.appendSource(input)

	prog, warnings, errs := check.Check(context.Background(), map[string]string{replModule: candidate}, r.objSchema, r.varSchema)
	if len(errs) > 0 {
		printReports(out, errs)
		return
	}
	r.source = candidate
	r.prog = prog
	printWarnings(out, warnings)
	fmt.Fprintln(out, green("ok"))
}

func (r *REPL) processExpr(input string, out io.Writer) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(input), ";")
	wrapper := "let " + evalFuncName + "() -> " + evalReturnUnion + " = " + trimmed + ";"
	candidate := r.appendSource(wrapper)

	prog, _, errs := check.Check(context.Background(), map[string]string{replModule: candidate}, r.objSchema, r.varSchema)
	if len(errs) > 0 {
		printReports(out, errs)
		return
	}

	v, rep := eval.Eval(context.Background(), prog, r.objEnv, replModule, evalFuncName, nil)
	if rep != nil {
		printReports(out, []colloerr.Report{*rep})
		return
	}
	fmt.Fprintln(out, cyan(formatValue(v)))
}

func (r *REPL) appendSource(addition string) string {
	if r.source == "" {
		return addition
	}
	return r.source + "\n" + addition
}
