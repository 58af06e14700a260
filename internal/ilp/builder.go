// Package ilp implements the ILP builder (spec §4.G): it accumulates
// constraints and a weighted objective across many evaluation requests
// against one checked program, discovering and compiling reified decision
// variables along the way, and assembles the result into a Problem a
// solver (never invoked here) can consume. The request/response shape —
// many named (module, function, args) calls dispatched against one
// checked program, accumulating into a single result — is grounded on the
// teacher's internal/runtime entrypoint dispatch, generalised from module
// evaluation to constraint/objective accumulation.
package ilp

import (
	"context"
	"strings"

	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/eval"
	"github.com/collomatique/colloml-go/internal/linexpr"
	"github.com/collomatique/colloml-go/internal/schema"
)

// Sense is the optimisation direction of one objective term.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// ProblemBuilder accumulates constraints and a weighted objective across
// many (module, function, args) requests evaluated against one checked
// program, per spec §4.G. A single builder owns exactly one assembled
// Problem; call Build once all requests have been added.
type ProblemBuilder struct {
	prog      *check.Program
	env       eval.ObjectEnv
	objSchema schema.ObjectSchema

	constraints  linexpr.ConstraintSet
	objective    linexpr.LinExpr
	hasObjective bool
	objSense     Sense

	reifiedSeen  map[string]*eval.ReifiedEntry
	reifiedOrder []string

	warnings []colloerr.Warning
}

// NewProblemBuilder checks that every object type named in objSchema is
// part of the object schema the program was checked against (field shapes
// are not compared, nor are checked types absent from objSchema) — a caller that re-derives its
// schema between check time and build time (e.g. a long-running service
// reloading domain config) gets an early diagnostic instead of silently
// building against a stale object model — then returns a ready builder.
func NewProblemBuilder(prog *check.Program, env eval.ObjectEnv, objSchema schema.ObjectSchema) (*ProblemBuilder, []colloerr.Report) {
	var reports []colloerr.Report
	for _, name := range objSchema.ObjectNames() {
		if !prog.Objects.HasObject(name) {
			reports = append(reports, *colloerr.New("ilp", colloerr.ILP002,
				"object type "+name+" is not part of the program's checked schema"))
		}
	}
	return &ProblemBuilder{
		prog:        prog,
		env:         env,
		objSchema:   objSchema,
		reifiedSeen: map[string]*eval.ReifiedEntry{},
	}, reports
}

func reifiedMergeKey(name string, args []string) string {
	return name + "\x1f" + strings.Join(args, "\x1f")
}

func (b *ProblemBuilder) mergeReified(rv *eval.ReifiedVariables) {
	if rv == nil {
		return
	}
	for _, e := range rv.Entries() {
		key := reifiedMergeKey(e.Name, e.Args)
		if _, seen := b.reifiedSeen[key]; seen {
			continue
		}
		b.reifiedSeen[key] = e
		b.reifiedOrder = append(b.reifiedOrder, key)
	}
}

func valueToConstraintSet(v eval.Value, origin linexpr.Origin) (linexpr.ConstraintSet, bool) {
	switch x := v.(type) {
	case eval.ConstraintValue:
		return x.Set, true
	case eval.BoolValue:
		if x.Value {
			return linexpr.ConstraintSet{}, true
		}
		return linexpr.Single(linexpr.Leq(linexpr.Constant(1), linexpr.Constant(0), origin)), true
	default:
		return linexpr.ConstraintSet{}, false
	}
}

func valueToLinExpr(v eval.Value) (linexpr.LinExpr, bool) {
	switch x := v.(type) {
	case eval.IntValue:
		return linexpr.Constant(float64(x.Value)), true
	case eval.LinExprValue:
		return x.Expr, true
	default:
		return linexpr.LinExpr{}, false
	}
}

// AddConstraint evaluates module.fn(args) — whose body must be a Bool or
// Constraint expression — and folds the resulting atomic constraints into
// the problem being built, per spec §4.G/§7: evaluator errors are
// forwarded annotated with the request that produced them rather than
// discarded.
func (b *ProblemBuilder) AddConstraint(ctx context.Context, module, fn string, args []eval.Value) []colloerr.Report {
	val, rv, rep := eval.EvalWithVariables(ctx, b.prog, b.env, module, fn, args)
	if rep != nil {
		return []colloerr.Report{*rep.WithData("request", module+"."+fn)}
	}
	origin := linexpr.Origin{Module: module, Function: fn}
	cs, ok := valueToConstraintSet(val, origin)
	if !ok {
		return []colloerr.Report{*colloerr.New("ilp", colloerr.ILP001,
			module+"."+fn+" did not evaluate to Bool or Constraint").WithData("request", module+"."+fn)}
	}
	b.constraints = b.constraints.Union(cs)
	b.mergeReified(rv)
	return nil
}

// AddObjective evaluates module.fn(args) — whose body must be an Int or
// LinExpr expression — scales it by weight, and folds it into the
// problem's single running objective. A request whose sense disagrees
// with the first objective term's sense is negated to match, and a
// warning is recorded (an ILP problem has exactly one optimisation
// direction; per-term sense only controls the sign each term contributes
// with).
func (b *ProblemBuilder) AddObjective(ctx context.Context, module, fn string, args []eval.Value, weight float64, sense Sense) []colloerr.Report {
	val, rv, rep := eval.EvalWithVariables(ctx, b.prog, b.env, module, fn, args)
	if rep != nil {
		return []colloerr.Report{*rep.WithData("request", module+"."+fn)}
	}
	term, ok := valueToLinExpr(val)
	if !ok {
		return []colloerr.Report{*colloerr.New("ilp", colloerr.ILP001,
			module+"."+fn+" did not evaluate to Int or LinExpr").WithData("request", module+"."+fn)}
	}
	if !b.hasObjective {
		b.hasObjective = true
		b.objSense = sense
	} else if sense != b.objSense {
		weight = -weight
		b.warnings = append(b.warnings, colloerr.Warning{
			Kind:    colloerr.MixedObjectiveSense,
			Message: "objective term from " + module + "." + fn + " requested the opposite optimisation direction; negated to match",
		})
	}
	b.objective = b.objective.Add(term.Scale(weight))
	b.mergeReified(rv)
	return nil
}

// Build folds every reified variable discovered across all AddConstraint
// and AddObjective calls into the accumulated constraint set — its own
// body constraints, and for a LinExpr-backed reification the defining
// equality `var - definition = 0` (spec §4.E/§9) — and returns the
// assembled Problem.
func (b *ProblemBuilder) Build() Problem {
	cs := b.constraints
	for _, key := range b.reifiedOrder {
		e := b.reifiedSeen[key]
		cs = cs.Union(e.Constraint)
		if e.Definition != nil {
			v := linexpr.Var(linexpr.NewVar(e.Name, e.Args...))
			origin := linexpr.Origin{Function: e.Name}
			cs = cs.Union(linexpr.Single(linexpr.Eq(v, *e.Definition, origin)))
		}
	}
	return Problem{
		prog:         b.prog,
		Constraints:  cs,
		Objective:    b.objective,
		HasObjective: b.hasObjective,
		Sense:        b.objSense,
		warnings:     append([]colloerr.Warning(nil), b.warnings...),
	}
}
