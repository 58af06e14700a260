package eval

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/linexpr"
	"github.com/collomatique/colloml-go/internal/types"
)

func (ev *evaluator) evalIf(env *Environment, v *ast.IfExpr) (Value, *colloerr.Report) {
	cond, rep := ev.eval(env, v.Cond)
	if rep != nil {
		return nil, rep
	}
	cb, ok := cond.(BoolValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "if condition is not Bool", v.Span)
	}
	if cb.Value {
		return ev.eval(env, v.Then)
	}
	return ev.eval(env, v.Else)
}

func (ev *evaluator) evalLet(env *Environment, v *ast.LetExpr) (Value, *colloerr.Report) {
	val, rep := ev.eval(env, v.Value)
	if rep != nil {
		return nil, rep
	}
	return ev.eval(env.Extend(v.Name, val), v.Body)
}

// evalForall implements spec §4.E's universal quantifier: the Forall's
// own static type (Bool vs Constraint, baked in by inferForall) decides
// whether iterations are conjoined as booleans or unioned as a
// constraint set, so the empty-source case correctly yields `true` or
// the empty constraint set rather than needing a per-iteration type
// switch.
func (ev *evaluator) evalForall(env *Environment, v *ast.Forall) (Value, *colloerr.Report) {
	srcVal, rep := ev.eval(env, v.Source)
	if rep != nil {
		return nil, rep
	}
	list, ok := srcVal.(ListValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "forall source is not a list", v.Source.Loc())
	}
	_, wantsConstraint := ev.prog.SpanTypes[v.Span.String()].(types.TConstraint)
	boolAcc := true
	var constraintAcc linexpr.ConstraintSet
	for _, elem := range list.Elements {
		if rep := ev.checkCancelled(v.Span); rep != nil {
			return nil, rep
		}
		child := env.Extend(v.Var, elem)
		if v.Where != nil {
			condVal, rep := ev.eval(child, v.Where)
			if rep != nil {
				return nil, rep
			}
			if cb, ok := condVal.(BoolValue); !ok || !cb.Value {
				continue
			}
		}
		bodyVal, rep := ev.eval(child, v.Body)
		if rep != nil {
			return nil, rep
		}
		if wantsConstraint {
			cs, ok := asConstraintSet(bodyVal, ev.origin(v.Body.Loc()))
			if !ok {
				return nil, ev.fail(colloerr.EVA001, "forall body is not Bool or Constraint", v.Body.Loc())
			}
			constraintAcc = constraintAcc.Union(cs)
			continue
		}
		bv, ok := bodyVal.(BoolValue)
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "forall body is not Bool", v.Body.Loc())
		}
		boolAcc = boolAcc && bv.Value
	}
	if wantsConstraint {
		return ConstraintValue{Set: constraintAcc}, nil
	}
	return BoolValue{Value: boolAcc}, nil
}

// evalSum implements spec §4.E's summation: `sum x in [] {e} = 0`, and
// widens to LinExpr the moment the (statically uniform) body type is
// LinExpr rather than Int.
func (ev *evaluator) evalSum(env *Environment, v *ast.Sum) (Value, *colloerr.Report) {
	srcVal, rep := ev.eval(env, v.Source)
	if rep != nil {
		return nil, rep
	}
	list, ok := srcVal.(ListValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "sum source is not a list", v.Source.Loc())
	}
	_, wantsLin := ev.prog.SpanTypes[v.Span.String()].(types.TLinExpr)
	var intAcc int64
	linAcc := linexpr.Constant(0)
	for _, elem := range list.Elements {
		if rep := ev.checkCancelled(v.Span); rep != nil {
			return nil, rep
		}
		child := env.Extend(v.Var, elem)
		if v.Where != nil {
			condVal, rep := ev.eval(child, v.Where)
			if rep != nil {
				return nil, rep
			}
			if cb, ok := condVal.(BoolValue); !ok || !cb.Value {
				continue
			}
		}
		bodyVal, rep := ev.eval(child, v.Body)
		if rep != nil {
			return nil, rep
		}
		if wantsLin {
			lin, ok := asLinExpr(bodyVal)
			if !ok {
				return nil, ev.fail(colloerr.EVA001, "sum body is not Int or LinExpr", v.Body.Loc())
			}
			linAcc = linAcc.Add(lin)
			continue
		}
		iv, ok := bodyVal.(IntValue)
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "sum body is not Int", v.Body.Loc())
		}
		sum, overflow := addOverflow(intAcc, iv.Value)
		if overflow {
			return nil, ev.fail(colloerr.EVA003, "integer overflow in sum", v.Body.Loc())
		}
		intAcc = sum
	}
	if wantsLin {
		return LinExprValue{Expr: linAcc}, nil
	}
	return IntValue{Value: intAcc}, nil
}

// evalFold implements fold/rfold: accumulator threaded sequentially
// through the source list's canonical order, reversed for rfold. The
// empty-source case naturally returns Init unchanged.
func (ev *evaluator) evalFold(env *Environment, v *ast.Fold) (Value, *colloerr.Report) {
	srcVal, rep := ev.eval(env, v.Source)
	if rep != nil {
		return nil, rep
	}
	list, ok := srcVal.(ListValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "fold source is not a list", v.Source.Loc())
	}
	acc, rep := ev.eval(env, v.Init)
	if rep != nil {
		return nil, rep
	}
	elems := list.Elements
	indices := make([]int, len(elems))
	for i := range elems {
		if v.Reverse {
			indices[i] = len(elems) - 1 - i
		} else {
			indices[i] = i
		}
	}
	for _, i := range indices {
		if rep := ev.checkCancelled(v.Span); rep != nil {
			return nil, rep
		}
		child := env.Extend(v.Var, elems[i]).Extend(v.Acc, acc)
		if v.Where != nil {
			condVal, rep := ev.eval(child, v.Where)
			if rep != nil {
				return nil, rep
			}
			if cb, ok := condVal.(BoolValue); !ok || !cb.Value {
				continue
			}
		}
		next, rep := ev.eval(child, v.Body)
		if rep != nil {
			return nil, rep
		}
		acc = next
	}
	return acc, nil
}

// evalMatch tries each arm's pattern in declaration order; the checker's
// exhaustiveness guarantee means some arm always ultimately fires.
func (ev *evaluator) evalMatch(env *Environment, v *ast.MatchExpr) (Value, *colloerr.Report) {
	scrutinee, rep := ev.eval(env, v.Scrutinee)
	if rep != nil {
		return nil, rep
	}
	for _, arm := range v.Arms {
		bound, matched, rep := ev.matchPattern(arm.Pattern, scrutinee)
		if rep != nil {
			return nil, rep
		}
		if !matched {
			continue
		}
		child := env
		for name, val := range bound {
			child = child.Extend(name, val)
		}
		if arm.Where != nil {
			condVal, rep := ev.eval(child, arm.Where)
			if rep != nil {
				return nil, rep
			}
			if cb, ok := condVal.(BoolValue); !ok || !cb.Value {
				continue
			}
		}
		return ev.eval(child, arm.Body)
	}
	return nil, ev.fail(colloerr.EVA001, "no match arm fired", v.Span)
}

// matchPattern tests pat against val, returning the names it binds. It
// doubles as the nested field-pattern matcher (VariantPattern.Fields),
// so a literal or variant pattern nested inside a destructuring also
// filters rather than unconditionally binding.
func (ev *evaluator) matchPattern(pat ast.Pattern, val Value) (map[string]Value, bool, *colloerr.Report) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return map[string]Value{}, true, nil
	case *ast.BindPattern:
		if p.Refinement == nil {
			return map[string]Value{p.Name: val}, true, nil
		}
		if t, ok := ev.prog.PatternTypes[p.Span.String()]; ok && !valueMatchesType(val, t) {
			return nil, false, nil
		}
		return map[string]Value{p.Name: val}, true, nil
	case *ast.LiteralPattern:
		litVal, rep := ev.eval(NewEnvironment(), p.Value)
		if rep != nil {
			return nil, false, rep
		}
		return map[string]Value{}, litVal.String() == val.String(), nil
	case *ast.VariantPattern:
		return ev.matchVariantPattern(p, val)
	default:
		return nil, false, ev.fail(colloerr.EVA001, "unsupported pattern", pat.Loc())
	}
}

func (ev *evaluator) matchVariantPattern(p *ast.VariantPattern, val Value) (map[string]Value, bool, *colloerr.Report) {
	cv, ok := val.(CustomValue)
	if !ok {
		return nil, false, nil
	}
	vr, ok := ev.prog.PatternVariants[p.Span.String()]
	if !ok {
		return nil, false, ev.fail(colloerr.EVA001, "unresolved variant pattern", p.Span)
	}
	if cv.Module != vr.Module || cv.Name != vr.Name || cv.Variant != vr.Variant {
		return nil, false, nil
	}
	bound := map[string]Value{}
	if p.Bind != "" {
		bound[p.Bind] = cv
	}
	if len(p.Fields) > 0 {
		sv, ok := cv.Payload.(StructValue)
		if !ok {
			return nil, false, ev.fail(colloerr.EVA001, "variant payload is not a record", p.Span)
		}
		for _, fp := range p.Fields {
			fv, ok := sv.Field(fp.Name)
			if !ok {
				return nil, false, ev.fail(colloerr.EVA001, "variant has no field "+fp.Name, fp.Span)
			}
			sub, matched, rep := ev.matchPattern(fp.Pattern, fv)
			if rep != nil {
				return nil, false, rep
			}
			if !matched {
				return nil, false, nil
			}
			for k, v := range sub {
				bound[k] = v
			}
		}
	}
	return bound, true, nil
}
