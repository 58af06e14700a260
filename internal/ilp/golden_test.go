package ilp

import (
	"context"
	"testing"

	"github.com/collomatique/colloml-go/internal/eval"
	"github.com/collomatique/colloml-go/internal/schema"
	"github.com/collomatique/colloml-go/testutil"
	"github.com/stretchr/testify/require"
)

// TestMatrixGolden pins the sparse-matrix view of a problem mixing a
// caller-supplied constraint with an internally reified variable's own
// body constraint, guarding the Matrix/Variables canonical ordering
// against accidental changes.
func TestMatrixGolden(t *testing.T) {
	src := `
let cap() -> Constraint = 1 <== 10;
reify cap as $Cap;

let bound(x: Int) -> Constraint = $Cap() <== x;
`
	prog := checkProgram(t, src)
	b, reports := NewProblemBuilder(prog, noObjects{}, schema.ObjectSchema{})
	require.Empty(t, reports)
	require.Empty(t, b.AddConstraint(context.Background(), "main", "bound", []eval.Value{eval.IntValue{Value: 5}}))

	mat := b.Build().Matrix()
	testutil.CompareWithGolden(t, "matrix", "reified_bound", mat)
}
