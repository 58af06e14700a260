package check

import (
	"context"
	"testing"

	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkOne(t *testing.T, src string) (*Program, []colloerr.Warning, []colloerr.Report) {
	t.Helper()
	return Check(context.Background(), map[string]string{"main": src}, schema.ObjectSchema{}, schema.VariableSchema{})
}

func firstCode(errs []colloerr.Report) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Code
}

func TestCheckSimpleFunctionOK(t *testing.T) {
	src := `
let double(n: Int) -> Int = n * 2;
`
	prog, _, errs := checkOne(t, src)
	require.Empty(t, errs)
	require.NotNil(t, prog)
	fn, ok := prog.LookupFunc("main", "double")
	require.True(t, ok)
	assert.Equal(t, "Int", fn.ReturnType.String())
}

func TestCheckIntCoercesToLinExpr(t *testing.T) {
	src := `
let one() -> LinExpr = 1;
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckTypeMismatch(t *testing.T) {
	src := `
let bad() -> Int = "hi";
`
	_, _, errs := checkOne(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.TYP001, firstCode(errs))
}

func TestCheckMatchExhaustive(t *testing.T) {
	src := `
enum Color = Red | Green | Blue;

let name(c: Color) -> String = match c {
	Color::Red { "red" }
	Color::Green { "green" }
	Color::Blue { "blue" }
};
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckMatchNonExhaustive(t *testing.T) {
	src := `
enum Color = Red | Green | Blue;

let name(c: Color) -> String = match c {
	Color::Red { "red" }
	Color::Green { "green" }
};
`
	_, _, errs := checkOne(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.TYP002, firstCode(errs))
}

func TestCheckMatchOverlapping(t *testing.T) {
	src := `
enum Color = Red | Green | Blue;

let name(c: Color) -> String = match c {
	Color::Red { "red" }
	Color::Red { "also red" }
	_ { "other" }
};
`
	_, _, errs := checkOne(t, src)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Code == colloerr.TYP003 {
			found = true
		}
	}
	assert.True(t, found, "expected a TYP003 overlapping-branch error, got %v", errs)
}

// A catch-all bind pattern following a literal-int arm must still see the
// full Int type, not Int-minus-the-literal — literal arms partition
// values, not types, so they must never narrow `remaining`.
func TestCheckMatchLiteralThenCatchAllIsExhaustive(t *testing.T) {
	src := `
let describe(n: Int) -> String = match n {
	0 { "zero" }
	m { "nonzero" }
};
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckMatchRefinedBindExhaustive(t *testing.T) {
	src := `
enum Shape = Circle({radius: Int}) | Square({side: Int});

let area(s: Shape) -> Int = match s {
	Circle { radius: r } { r * r }
	Square { side: side } { side * side }
};
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckDuplicateDefinition(t *testing.T) {
	src := `
let f(n: Int) -> Int = n;
let f(n: Int) -> Int = n + 1;
`
	_, _, errs := checkOne(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.SEM002, firstCode(errs))
}

func TestCheckUnknownSymbol(t *testing.T) {
	src := `
let f() -> Int = missing();
`
	_, _, errs := checkOne(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.SEM001, firstCode(errs))
}

func TestCheckVisibilityBreach(t *testing.T) {
	sources := map[string]string{
		"a": `let _secret() -> Int = 1;`,
		"b": `
import "a" as a;
let f() -> Int = a._secret();
`,
	}
	_, _, errs := Check(context.Background(), sources, schema.ObjectSchema{}, schema.VariableSchema{})
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.SEM003, firstCode(errs))
}

func TestCheckPubCrossModuleOK(t *testing.T) {
	sources := map[string]string{
		"a": `pub let helper(n: Int) -> Int = n + 1;`,
		"b": `
import "a" as a;
let f() -> Int = a.helper(1);
`,
	}
	prog, _, errs := Check(context.Background(), sources, schema.ObjectSchema{}, schema.VariableSchema{})
	require.Empty(t, errs)
	require.NotNil(t, prog)
}

func TestCheckWildcardImportRequiresPub(t *testing.T) {
	sources := map[string]string{
		"a": `let private_fn() -> Int = 1;`,
		"b": `
import "a" as *;
let f() -> Int = private_fn();
`,
	}
	_, _, errs := Check(context.Background(), sources, schema.ObjectSchema{}, schema.VariableSchema{})
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.SEM001, firstCode(errs))
}

func TestCheckCyclicImport(t *testing.T) {
	sources := map[string]string{
		"a": `import "b" as b;`,
		"b": `import "a" as a;`,
	}
	_, _, errs := Check(context.Background(), sources, schema.ObjectSchema{}, schema.VariableSchema{})
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.SEM005, firstCode(errs))
}

func TestCheckReifyReturnTypeMismatch(t *testing.T) {
	src := `
let count(n: Int) -> Int = n;
reify count as $Count;
`
	_, _, errs := checkOne(t, src)
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.TYP004, firstCode(errs))
}

func TestCheckReifyScalarOK(t *testing.T) {
	src := `
let load(n: Int) -> LinExpr = n;
reify load as $Load;
`
	prog, _, errs := checkOne(t, src)
	require.Empty(t, errs)
	ri, ok := prog.LookupReified("main", "Load")
	require.True(t, ok)
	assert.False(t, ri.IsList)
}

func TestCheckReifyListOK(t *testing.T) {
	src := `
let penalty(n: Int) -> [Constraint] = [];
reify penalty as $[Penalty];
`
	prog, _, errs := checkOne(t, src)
	require.Empty(t, errs)
	ri, ok := prog.LookupReifiedList("main", "Penalty")
	require.True(t, ok)
	assert.True(t, ri.IsList)
}

func TestCheckUnusedPrivateFunctionWarning(t *testing.T) {
	src := `
let unused_helper() -> Int = 1;
pub let f() -> Int = 2;
`
	_, warnings, errs := checkOne(t, src)
	require.Empty(t, errs)
	require.Len(t, warnings, 1)
	assert.Equal(t, colloerr.UnusedSymbol, warnings[0].Kind)
}

func TestCheckUnusedUnderscorePrefixExempt(t *testing.T) {
	src := `
let _unused() -> Int = 1;
pub let f() -> Int = 2;
`
	_, warnings, errs := checkOne(t, src)
	require.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestCheckUnusedPubExempt(t *testing.T) {
	src := `
pub let unused_but_public() -> Int = 1;
pub let f() -> Int = 2;
`
	_, warnings, errs := checkOne(t, src)
	require.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestCheckEnumVariantConstructionVsCoercion(t *testing.T) {
	src := `
enum Option = Some(Int) | None;

let wrap(n: Int) -> Option = Some(n);
let widen(n: Int) -> LinExpr = LinExpr(n);
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckForallProducesConstraint(t *testing.T) {
	src := `
let all_positive(xs: [Int]) -> Constraint = forall x in xs { x >== 0 };
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckSumProducesLinExpr(t *testing.T) {
	src := `
let total(xs: [Int]) -> LinExpr = sum x in xs { x };
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckEmptyListCoercesToListOfT(t *testing.T) {
	src := `
let none_of_them() -> [Int] = [];
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckListUnionAndDifference(t *testing.T) {
	src := `
let combine(a: [Int], b: [Int]) -> [Int] = a + b;
let remove(a: [Int], b: [Int]) -> [Int] = a - b;
`
	_, _, errs := checkOne(t, src)
	require.Empty(t, errs)
}

func TestCheckContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, errs := Check(ctx, map[string]string{"main": "let f() -> Int = 1;"}, schema.ObjectSchema{}, schema.VariableSchema{})
	require.NotEmpty(t, errs)
	assert.Equal(t, colloerr.EVA004, firstCode(errs))
}
