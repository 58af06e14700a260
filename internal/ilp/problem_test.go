package ilp

import (
	"context"
	"testing"

	"github.com/collomatique/colloml-go/internal/eval"
	"github.com/collomatique/colloml-go/internal/linexpr"
	"github.com/collomatique/colloml-go/internal/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// TestMatrixStructuralDiff exercises go-cmp's structural diffing — rather
// than testify's equality assertions — for a nested value whose fields
// can be compared selectively (Vars and Entries ignored here), matching the
// pattern go-cmp is best suited for: spotting exactly which entry of a
// larger structure diverges instead of a pass/fail comparison.
func TestMatrixStructuralDiff(t *testing.T) {
	src := `
let bound(x: Int, y: Int) -> Constraint = x <== y;
`
	prog := checkProgram(t, src)
	b, _ := NewProblemBuilder(prog, noObjects{}, schema.ObjectSchema{})
	require.Empty(t, b.AddConstraint(context.Background(), "main", "bound", []eval.Value{eval.IntValue{Value: 2}, eval.IntValue{Value: 5}}))
	got := b.Build().Matrix()

	want := &SparseMatrix{
		RHS:       []float64{3},
		Relations: []linexpr.Relation{linexpr.LE},
	}

	if diff := cmp.Diff(want, got,
		cmpopts.IgnoreFields(SparseMatrix{}, "Vars", "Entries"),
	); diff != "" {
		t.Fatalf("matrix shape mismatch (-want +got):\n%s", diff)
	}
}
