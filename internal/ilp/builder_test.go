package ilp

import (
	"context"
	"testing"

	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/eval"
	"github.com/collomatique/colloml-go/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noObjects struct{}

func (noObjects) Collection(ctx context.Context, typeName string) ([]eval.ObjectValue, error) {
	return nil, nil
}
func (noObjects) Field(ctx context.Context, handle eval.ObjectValue, field string) (eval.Value, error) {
	return nil, nil
}

func checkProgram(t *testing.T, src string) *check.Program {
	t.Helper()
	prog, _, errs := check.Check(context.Background(), map[string]string{"main": src}, schema.ObjectSchema{}, schema.VariableSchema{})
	require.Empty(t, errs)
	require.NotNil(t, prog)
	return prog
}

func TestAddConstraintAccumulatesAtoms(t *testing.T) {
	src := `
let cap() -> Constraint = 1 <== 10;
reify cap as $Cap;

let bound(x: Int) -> Constraint = $Cap() <== x;
`
	prog := checkProgram(t, src)
	b, reports := NewProblemBuilder(prog, noObjects{}, schema.ObjectSchema{})
	require.Empty(t, reports)

	require.Empty(t, b.AddConstraint(context.Background(), "main", "bound", []eval.Value{eval.IntValue{Value: 5}}))
	problem := b.Build()

	assert.Len(t, problem.Constraints.Atoms, 2) // the caller's bound plus Cap's own reified-body constraint
	assert.Empty(t, problem.Validate())
}

func TestAddObjectiveSumsWeightedTerms(t *testing.T) {
	src := `
let cost(x: Int) -> LinExpr = x;
`
	prog := checkProgram(t, src)
	b, reports := NewProblemBuilder(prog, noObjects{}, schema.ObjectSchema{})
	require.Empty(t, reports)

	require.Empty(t, b.AddObjective(context.Background(), "main", "cost", []eval.Value{eval.IntValue{Value: 3}}, 2.0, Minimize))
	require.Empty(t, b.AddObjective(context.Background(), "main", "cost", []eval.Value{eval.IntValue{Value: 4}}, 1.0, Minimize))
	problem := b.Build()

	require.True(t, problem.HasObjective)
	v, err := problem.Objective.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2*3+1*4), v)
}

func TestAddObjectiveNegatesMismatchedSense(t *testing.T) {
	src := `
let one() -> LinExpr = 1;
`
	prog := checkProgram(t, src)
	b, _ := NewProblemBuilder(prog, noObjects{}, schema.ObjectSchema{})

	require.Empty(t, b.AddObjective(context.Background(), "main", "one", nil, 1.0, Minimize))
	require.Empty(t, b.AddObjective(context.Background(), "main", "one", nil, 1.0, Maximize))
	problem := b.Build()

	v, err := problem.Objective.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, float64(0), v) // second term negated to cancel the first
	require.Len(t, problem.Warnings(), 1)
	assert.Equal(t, colloerr.MixedObjectiveSense, problem.Warnings()[0].Kind)
}

func TestValidateFlagsEmptyProblem(t *testing.T) {
	prog := checkProgram(t, `let noop() -> Int = 0;`)
	b, _ := NewProblemBuilder(prog, noObjects{}, schema.ObjectSchema{})
	problem := b.Build()

	reports := problem.Validate()
	require.Len(t, reports, 1)
	assert.Equal(t, colloerr.ILP003, reports[0].Code)
}

func TestMatrixShapeMatchesConstraints(t *testing.T) {
	src := `
let bound(x: Int, y: Int) -> Constraint = x <== y;
`
	prog := checkProgram(t, src)
	b, _ := NewProblemBuilder(prog, noObjects{}, schema.ObjectSchema{})
	require.Empty(t, b.AddConstraint(context.Background(), "main", "bound", []eval.Value{eval.IntValue{Value: 1}, eval.IntValue{Value: 2}}))
	problem := b.Build()

	mat := problem.Matrix()
	assert.Len(t, mat.RHS, len(problem.Constraints.Atoms))
	assert.Len(t, mat.Relations, len(problem.Constraints.Atoms))
}
