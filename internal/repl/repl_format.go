package repl

import (
	"fmt"
	"io"

	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/eval"
)

// formatValue renders an evaluator result for REPL display, prefixed with
// its ColloML type the way the teacher's REPL echoes `val :: Type`.
func formatValue(v eval.Value) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%s :: %s", v.String(), v.Type())
}

func printReports(out io.Writer, reports []colloerr.Report) {
	for _, rep := range reports {
		fmt.Fprintln(out, red(rep.Code+":"), rep.Message)
		for _, sp := range rep.Spans {
			fmt.Fprintln(out, dim("  at "+sp.String()))
		}
	}
}

func printWarnings(out io.Writer, warnings []colloerr.Warning) {
	for _, w := range warnings {
		fmt.Fprintln(out, yellow(string(w.Kind)+":"), w.Message)
	}
}
