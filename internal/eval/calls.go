package eval

import (
	"strconv"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/linexpr"
)

func (ev *evaluator) origin(sp ast.Span) linexpr.Origin {
	return linexpr.Origin{Module: ev.curModule, Function: ev.curFunction, Offset: sp.Offset, Length: sp.Length}
}

// withFrame evaluates f with the evaluator's current (module, function)
// pointed at the callee, restoring the caller's frame afterwards, so
// every linexpr.Origin stamped along the way names the body that
// actually produced it.
func (ev *evaluator) withFrame(module, name string, f func() (Value, *colloerr.Report)) (Value, *colloerr.Report) {
	prevM, prevN := ev.curModule, ev.curFunction
	ev.curModule, ev.curFunction = module, name
	v, rep := f()
	ev.curModule, ev.curFunction = prevM, prevN
	return v, rep
}

func (ev *evaluator) evalCall(env *Environment, v *ast.Call) (Value, *colloerr.Report) {
	key, ok := ev.prog.CallTargets[v.Span.String()]
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "unresolved function call", v.Span)
	}
	fn, ok := ev.prog.LookupFunc(key.Module, key.Name)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "unknown function "+key.Name, v.Span)
	}
	argVals := make([]Value, len(v.Args))
	for i, a := range v.Args {
		val, rep := ev.eval(env, a)
		if rep != nil {
			return nil, rep
		}
		if i < len(fn.ArgTypes) {
			val = coerceValue(val, fn.ArgTypes[i], ev.prog)
		}
		argVals[i] = val
	}
	return ev.callFunc(fn, argVals)
}

func (ev *evaluator) callFunc(fn *check.FuncInfo, argVals []Value) (Value, *colloerr.Report) {
	fnEnv := NewEnvironment()
	for i, name := range fn.ArgNames {
		if i < len(argVals) {
			fnEnv.Set(name, argVals[i])
		}
	}
	return ev.withFrame(fn.Module, fn.Name, func() (Value, *colloerr.Report) {
		return ev.eval(fnEnv, fn.Body)
	})
}

// evalVarCall implements `$V(args)`/`$[V](args)` (spec §4.E). Either form
// always yields a reference to V regardless of whether V is internally
// reified or backed only by an external schema; the list form memoises
// one fresh sub-variable per result slot the first time (name, args) is
// seen.
func (ev *evaluator) evalVarCall(env *Environment, v *ast.VarCall) (Value, *colloerr.Report) {
	argVals := make([]Value, len(v.Args))
	argStrs := make([]string, len(v.Args))
	for i, a := range v.Args {
		val, rep := ev.eval(env, a)
		if rep != nil {
			return nil, rep
		}
		argVals[i] = val
		argStrs[i] = argString(val)
	}
	if v.IsList {
		return ev.evalVarListCall(v, argStrs, argVals)
	}
	target, ok := ev.prog.VarTargets[v.Span.String()]
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "unresolved variable "+v.Name, v.Span)
	}
	base := linexpr.NewVar(target.Name, argStrs...)
	if target.Reified != nil {
		if _, seen := ev.reified.Lookup(target.Name, argStrs); !seen {
			if rep := ev.compileReified(target.Reified, target.Name, argStrs, argVals); rep != nil {
				return nil, rep
			}
		}
	}
	return LinExprValue{Expr: linexpr.Var(base)}, nil
}

func (ev *evaluator) evalVarListCall(v *ast.VarCall, argStrs []string, argVals []Value) (Value, *colloerr.Report) {
	target, ok := ev.prog.VarListTargets[v.Span.String()]
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "unresolved variable list "+v.Name, v.Span)
	}
	key := reifiedKey(target.Name, argStrs)
	if cached, ok := ev.listMemo[key]; ok {
		return ListValue{Elements: cached}, nil
	}
	fn, ok := ev.prog.LookupFunc(target.Reified.Function.Module, target.Reified.Function.Name)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "unknown reifying function for "+v.Name, v.Span)
	}
	bodyVal, rep := ev.callFunc(fn, argVals)
	if rep != nil {
		return nil, rep
	}
	list, ok := bodyVal.(ListValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "reified list function did not return a list", v.Span)
	}
	result := make([]Value, len(list.Elements))
	for i, slot := range list.Elements {
		slotArgs := append(append([]string{}, argStrs...), strconv.Itoa(i))
		sub := linexpr.NewVar(target.Name, slotArgs...)
		cs, ok := asConstraintSet(slot, ev.origin(v.Span))
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "reified list function body is not a Constraint", v.Span)
		}
		ev.reified.record(&ReifiedEntry{Name: target.Name, Args: slotArgs, Constraint: cs})
		result[i] = LinExprValue{Expr: linexpr.Var(sub)}
	}
	ev.listMemo[key] = result
	return ListValue{Elements: result}, nil
}

// compileReified evaluates the backing function for one internally-
// reified `$V(args)` occurrence and records the result, either as the
// atomic constraints it directly produced (Constraint-returning body) or
// as a defining expression the ILP builder turns into `V - Definition =
// 0` (LinExpr-returning body).
func (ev *evaluator) compileReified(ri *check.ReifiedInfo, name string, argStrs []string, argVals []Value) *colloerr.Report {
	fn, ok := ev.prog.LookupFunc(ri.Function.Module, ri.Function.Name)
	if !ok {
		return ev.fail(colloerr.EVA001, "unknown reifying function for "+name, ri.Span)
	}
	bodyVal, rep := ev.callFunc(fn, argVals)
	if rep != nil {
		return rep
	}
	entry := &ReifiedEntry{Name: name, Args: argStrs}
	switch bv := bodyVal.(type) {
	case ConstraintValue:
		entry.Constraint = bv.Set
	case LinExprValue:
		def := bv.Expr
		entry.Definition = &def
	default:
		return ev.fail(colloerr.EVA001, "reified function body is not LinExpr or Constraint", ri.Span)
	}
	ev.reified.record(entry)
	return nil
}
