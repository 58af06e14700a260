package eval

import (
	"math"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/linexpr"
	"github.com/collomatique/colloml-go/internal/types"
)

func addOverflow(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	return sum, false
}

func subOverflow(a, b int64) (int64, bool) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, true
	}
	return diff, false
}

func mulOverflow(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, true
	}
	p := a * b
	if p/b != a {
		return 0, true
	}
	return p, false
}

// euclidMod is the non-negative remainder spec §4.E's `%` requires,
// assuming a non-negative divisor: unlike Go's native `%`, it never
// returns a negative result for a negative dividend.
func euclidMod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// asConstraintSet widens a Bool or Constraint value into a
// linexpr.ConstraintSet: `true` is the empty (vacuously satisfied) set,
// `false` is encoded as the single unsatisfiable atomic constraint
// `1 <= 0`, letting forall/and/or treat Bool and Constraint uniformly.
func asConstraintSet(v Value, origin linexpr.Origin) (linexpr.ConstraintSet, bool) {
	switch x := v.(type) {
	case ConstraintValue:
		return x.Set, true
	case BoolValue:
		if x.Value {
			return linexpr.ConstraintSet{}, true
		}
		return linexpr.Single(linexpr.Leq(linexpr.Constant(1), linexpr.Constant(0), origin)), true
	default:
		return linexpr.ConstraintSet{}, false
	}
}

func (ev *evaluator) evalUnary(env *Environment, v *ast.UnaryOp) (Value, *colloerr.Report) {
	val, rep := ev.eval(env, v.Operand)
	if rep != nil {
		return nil, rep
	}
	switch v.Op {
	case "-":
		switch x := val.(type) {
		case IntValue:
			if x.Value == math.MinInt64 {
				return nil, ev.fail(colloerr.EVA003, "integer overflow negating", v.Span)
			}
			return IntValue{Value: -x.Value}, nil
		case LinExprValue:
			return LinExprValue{Expr: x.Expr.Neg()}, nil
		default:
			return nil, ev.fail(colloerr.EVA001, "unary '-' requires Int or LinExpr", v.Span)
		}
	case "!", "not":
		b, ok := val.(BoolValue)
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "negation requires Bool", v.Span)
		}
		return BoolValue{Value: !b.Value}, nil
	default:
		return nil, ev.fail(colloerr.EVA001, "unknown unary operator "+v.Op, v.Span)
	}
}

func (ev *evaluator) evalBinary(env *Environment, v *ast.BinaryOp) (Value, *colloerr.Report) {
	switch v.Op {
	case "+", "-":
		return ev.evalAddSub(env, v)
	case "*", "/", "//", "%":
		return ev.evalMulDiv(env, v)
	case "==", "!=", "<", "<=", ">", ">=":
		return ev.evalCompare(env, v)
	case "===", "<==", ">==":
		return ev.evalConstraintOp(env, v)
	case "and", "&&":
		return ev.evalBoolOrConstraint(env, v, true)
	case "or", "||":
		return ev.evalBoolOrConstraint(env, v, false)
	default:
		return nil, ev.fail(colloerr.EVA001, "unknown binary operator "+v.Op, v.Span)
	}
}

func (ev *evaluator) evalAddSub(env *Environment, v *ast.BinaryOp) (Value, *colloerr.Report) {
	l, rep := ev.eval(env, v.Left)
	if rep != nil {
		return nil, rep
	}
	r, rep := ev.eval(env, v.Right)
	if rep != nil {
		return nil, rep
	}
	if lv, ok := l.(ListValue); ok {
		rv, ok := r.(ListValue)
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "list operator requires both sides to be lists", v.Span)
		}
		if v.Op == "+" {
			out := make([]Value, 0, len(lv.Elements)+len(rv.Elements))
			out = append(out, lv.Elements...)
			out = append(out, rv.Elements...)
			return ListValue{Elements: out}, nil
		}
		out := make([]Value, 0, len(lv.Elements))
		for _, e := range lv.Elements {
			remove := false
			for _, re := range rv.Elements {
				if e.String() == re.String() {
					remove = true
					break
				}
			}
			if !remove {
				out = append(out, e)
			}
		}
		return ListValue{Elements: out}, nil
	}
	li, lIsInt := l.(IntValue)
	ri, rIsInt := r.(IntValue)
	if lIsInt && rIsInt {
		var sum int64
		var overflow bool
		if v.Op == "+" {
			sum, overflow = addOverflow(li.Value, ri.Value)
		} else {
			sum, overflow = subOverflow(li.Value, ri.Value)
		}
		if overflow {
			return nil, ev.fail(colloerr.EVA003, "integer overflow", v.Span)
		}
		return IntValue{Value: sum}, nil
	}
	lLin, lok := asLinExpr(l)
	rLin, rok := asLinExpr(r)
	if !lok || !rok {
		return nil, ev.fail(colloerr.EVA001, "arithmetic requires Int/LinExpr operands", v.Span)
	}
	if v.Op == "+" {
		return LinExprValue{Expr: lLin.Add(rLin)}, nil
	}
	return LinExprValue{Expr: lLin.Sub(rLin)}, nil
}

func (ev *evaluator) evalMulDiv(env *Environment, v *ast.BinaryOp) (Value, *colloerr.Report) {
	l, rep := ev.eval(env, v.Left)
	if rep != nil {
		return nil, rep
	}
	r, rep := ev.eval(env, v.Right)
	if rep != nil {
		return nil, rep
	}
	li, lIsInt := l.(IntValue)
	ri, rIsInt := r.(IntValue)
	if lIsInt && rIsInt {
		switch v.Op {
		case "*":
			p, overflow := mulOverflow(li.Value, ri.Value)
			if overflow {
				return nil, ev.fail(colloerr.EVA003, "integer overflow", v.Span)
			}
			return IntValue{Value: p}, nil
		case "/", "//":
			if ri.Value == 0 {
				return nil, ev.fail(colloerr.EVA002, "division by zero", v.Span)
			}
			if li.Value == math.MinInt64 && ri.Value == -1 {
				return nil, ev.fail(colloerr.EVA003, "integer overflow", v.Span)
			}
			return IntValue{Value: li.Value / ri.Value}, nil
		case "%":
			if ri.Value == 0 {
				return nil, ev.fail(colloerr.EVA002, "division by zero", v.Span)
			}
			return IntValue{Value: euclidMod(li.Value, ri.Value)}, nil
		}
	}
	if v.Op != "*" {
		return nil, ev.fail(colloerr.EVA001, "'"+v.Op+"' requires Int operands", v.Span)
	}
	if lLin, ok := l.(LinExprValue); ok {
		if ri, ok := r.(IntValue); ok {
			return LinExprValue{Expr: lLin.Expr.Scale(float64(ri.Value))}, nil
		}
	}
	if rLin, ok := r.(LinExprValue); ok {
		if li, ok := l.(IntValue); ok {
			return LinExprValue{Expr: rLin.Expr.Scale(float64(li.Value))}, nil
		}
	}
	return nil, ev.fail(colloerr.EVA001, "'*' requires Int*Int, Int*LinExpr, or LinExpr*Int", v.Span)
}

func (ev *evaluator) evalCompare(env *Environment, v *ast.BinaryOp) (Value, *colloerr.Report) {
	l, rep := ev.eval(env, v.Left)
	if rep != nil {
		return nil, rep
	}
	r, rep := ev.eval(env, v.Right)
	if rep != nil {
		return nil, rep
	}
	if v.Op == "==" || v.Op == "!=" {
		eq := l.String() == r.String()
		if v.Op == "!=" {
			eq = !eq
		}
		return BoolValue{Value: eq}, nil
	}
	li, lok := l.(IntValue)
	ri, rok := r.(IntValue)
	if !lok || !rok {
		return nil, ev.fail(colloerr.EVA001, "'"+v.Op+"' requires Int operands", v.Span)
	}
	var result bool
	switch v.Op {
	case "<":
		result = li.Value < ri.Value
	case "<=":
		result = li.Value <= ri.Value
	case ">":
		result = li.Value > ri.Value
	case ">=":
		result = li.Value >= ri.Value
	}
	return BoolValue{Value: result}, nil
}

func (ev *evaluator) evalConstraintOp(env *Environment, v *ast.BinaryOp) (Value, *colloerr.Report) {
	l, rep := ev.eval(env, v.Left)
	if rep != nil {
		return nil, rep
	}
	r, rep := ev.eval(env, v.Right)
	if rep != nil {
		return nil, rep
	}
	lLin, lok := asLinExpr(l)
	rLin, rok := asLinExpr(r)
	if !lok || !rok {
		return nil, ev.fail(colloerr.EVA001, "constraint operator requires LinExpr operands", v.Span)
	}
	origin := ev.origin(v.Span)
	var atom linexpr.AtomicConstraint
	switch v.Op {
	case "===":
		atom = linexpr.Eq(lLin, rLin, origin)
	case "<==":
		atom = linexpr.Leq(lLin, rLin, origin)
	case ">==":
		atom = linexpr.Geq(lLin, rLin, origin)
	}
	return ConstraintValue{Set: linexpr.Single(atom)}, nil
}

func (ev *evaluator) evalBoolOrConstraint(env *Environment, v *ast.BinaryOp, isAnd bool) (Value, *colloerr.Report) {
	l, rep := ev.eval(env, v.Left)
	if rep != nil {
		return nil, rep
	}
	r, rep := ev.eval(env, v.Right)
	if rep != nil {
		return nil, rep
	}
	if _, wantConstraint := ev.prog.SpanTypes[v.Span.String()].(types.TConstraint); wantConstraint {
		origin := ev.origin(v.Span)
		lc, lok := asConstraintSet(l, origin)
		rc, rok := asConstraintSet(r, origin)
		if !lok || !rok {
			return nil, ev.fail(colloerr.EVA001, "'and'/'or' requires Bool or Constraint operands", v.Span)
		}
		return ConstraintValue{Set: lc.Union(rc)}, nil
	}
	lb, lok := l.(BoolValue)
	rb, rok := r.(BoolValue)
	if !lok || !rok {
		return nil, ev.fail(colloerr.EVA001, "'and'/'or' requires Bool operands", v.Span)
	}
	if isAnd {
		return BoolValue{Value: lb.Value && rb.Value}, nil
	}
	return BoolValue{Value: lb.Value || rb.Value}, nil
}
