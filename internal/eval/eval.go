package eval

import (
	"context"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/colloerr"
)

// evaluator holds the per-call state of one Eval/EvalWithVariables
// invocation: the checked program it walks, the caller's object
// environment, the cancellation context, the in-progress reified-variable
// collection, and the (module, function) of whichever function body is
// currently executing, used to stamp linexpr.Origin on every atomic
// constraint it produces.
type evaluator struct {
	ctx    context.Context
	prog   *check.Program
	objEnv ObjectEnv

	reified  *ReifiedVariables
	listMemo map[string][]Value

	curModule   string
	curFunction string
}

func (ev *evaluator) fail(code, msg string, sp ast.Span) *colloerr.Report {
	return colloerr.New("eval", code, msg, sp)
}

func (ev *evaluator) checkCancelled(sp ast.Span) *colloerr.Report {
	select {
	case <-ev.ctx.Done():
		return ev.fail(colloerr.EVA004, "evaluation cancelled", sp)
	default:
		return nil
	}
}

// Eval evaluates module.fn applied to args against prog, discarding the
// reified-variable collection discovered along the way (spec §6's `eval`).
func Eval(ctx context.Context, prog *check.Program, objEnv ObjectEnv, module, fn string, args []Value) (Value, *colloerr.Report) {
	v, _, rep := EvalWithVariables(ctx, prog, objEnv, module, fn, args)
	return v, rep
}

// EvalWithVariables evaluates module.fn applied to args against prog,
// returning both the result and the reified decision-variable occurrences
// discovered (spec §6's `eval_with_variables`, §4.E, §9).
func EvalWithVariables(ctx context.Context, prog *check.Program, objEnv ObjectEnv, module, fn string, args []Value) (Value, *ReifiedVariables, *colloerr.Report) {
	info, ok := prog.LookupFunc(module, fn)
	if !ok {
		return nil, nil, colloerr.New("eval", colloerr.EVA001, "unknown function "+module+"."+fn, ast.Span{Module: module})
	}
	if len(args) != len(info.ArgNames) {
		return nil, nil, colloerr.New("eval", colloerr.EVA001, "wrong argument count calling "+fn, info.Span)
	}
	env := NewEnvironment()
	for i, name := range info.ArgNames {
		env.Set(name, args[i])
	}
	ev := &evaluator{
		ctx:         ctx,
		prog:        prog,
		objEnv:      objEnv,
		reified:     NewReifiedVariables(),
		listMemo:    map[string][]Value{},
		curModule:   info.Module,
		curFunction: info.Name,
	}
	result, rep := ev.eval(env, info.Body)
	if rep != nil {
		return nil, nil, rep
	}
	return result, ev.reified, nil
}

// eval is the runtime counterpart of check's bodyChecker.infer: one case
// per ast.Expr variant, implementing spec §4.E's evaluation semantics.
func (ev *evaluator) eval(env *Environment, e ast.Expr) (Value, *colloerr.Report) {
	switch v := e.(type) {
	case *ast.IntLit:
		return IntValue{Value: v.Value}, nil
	case *ast.BoolLit:
		return BoolValue{Value: v.Value}, nil
	case *ast.StringLit:
		return StringValue{Value: v.Value}, nil
	case *ast.NoneLit:
		return NoneValue{}, nil
	case *ast.Ident:
		return ev.evalIdent(env, v)
	case *ast.QualifiedIdent:
		return nil, ev.fail(colloerr.EVA001, "qualified identifier "+v.Module+"."+v.Name+" used outside of a call", v.Span)
	case *ast.ListLit:
		return ev.evalListLit(env, v)
	case *ast.TupleLit:
		return ev.evalTupleLit(env, v)
	case *ast.RangeExpr:
		return ev.evalRange(env, v)
	case *ast.ListComp:
		return ev.evalListComp(env, v)
	case *ast.GlobalCollection:
		return ev.evalGlobalCollection(v)
	case *ast.Cardinality:
		return ev.evalCardinality(env, v)
	case *ast.Membership:
		return ev.evalMembership(env, v)
	case *ast.FieldAccess:
		return ev.evalFieldAccess(env, v)
	case *ast.Call:
		return ev.evalCall(env, v)
	case *ast.VarCall:
		return ev.evalVarCall(env, v)
	case *ast.IfExpr:
		return ev.evalIf(env, v)
	case *ast.LetExpr:
		return ev.evalLet(env, v)
	case *ast.Forall:
		return ev.evalForall(env, v)
	case *ast.Sum:
		return ev.evalSum(env, v)
	case *ast.Fold:
		return ev.evalFold(env, v)
	case *ast.MatchExpr:
		return ev.evalMatch(env, v)
	case *ast.StructLit:
		return ev.evalStructLit(env, v)
	case *ast.Cast:
		return ev.evalCast(env, v)
	case *ast.AsExpr:
		return ev.eval(env, v.Inner)
	case *ast.UnaryOp:
		return ev.evalUnary(env, v)
	case *ast.BinaryOp:
		return ev.evalBinary(env, v)
	default:
		return nil, ev.fail(colloerr.EVA001, "unsupported expression", e.Loc())
	}
}
