package eval

import (
	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/linexpr"
	"github.com/collomatique/colloml-go/internal/sid"
	"github.com/collomatique/colloml-go/internal/types"
)

// coerceValue applies the runtime counterpart of types.Coerce against a
// value the checker already accepted statically: the only axis that
// changes a value's representation is Int -> LinExpr; the rest (struct
// into a custom-type alias or variant payload, elementwise through lists
// and tuples) just re-shapes the value to carry the widened leaves.
func coerceValue(v Value, target types.T, prog *check.Program) Value {
	if v == nil || target == nil {
		return v
	}
	switch t := target.(type) {
	case types.TLinExpr:
		if iv, ok := v.(IntValue); ok {
			return LinExprValue{Expr: linexpr.Constant(float64(iv.Value))}
		}
		return v
	case types.TList:
		lv, ok := v.(ListValue)
		if !ok {
			return v
		}
		out := make([]Value, len(lv.Elements))
		for i, e := range lv.Elements {
			out[i] = coerceValue(e, t.Elem, prog)
		}
		return ListValue{Elements: out}
	case types.TTuple:
		tv, ok := v.(TupleValue)
		if !ok {
			return v
		}
		out := make([]Value, len(tv.Elements))
		for i, e := range tv.Elements {
			if i < len(t.Elems) {
				out[i] = coerceValue(e, t.Elems[i], prog)
			} else {
				out[i] = e
			}
		}
		return TupleValue{Elements: out}
	case types.TStruct:
		sv, ok := v.(StructValue)
		if !ok {
			return v
		}
		fields := make(map[string]Value, len(sv.Fields))
		for _, f := range sv.Fields {
			if ft, ok := t.Field(f.Name); ok {
				fields[f.Name] = coerceValue(f.Value, ft, prog)
			} else {
				fields[f.Name] = f.Value
			}
		}
		return NewStructValue(fields)
	case types.TCustom:
		sv, ok := v.(StructValue)
		if !ok || prog == nil {
			return v
		}
		underlying, ok := prog.Underlying(t.Module, t.Name)
		if !ok {
			return v
		}
		return CustomValue{
			Module:  t.Module,
			Name:    t.Name,
			Variant: t.Variant,
			Payload: coerceValue(sv, underlying, prog),
		}
	default:
		return v
	}
}

// canonicalizeList deduplicates elems by their String() form and sorts
// the result by sid fingerprint, giving list literals, comprehensions,
// and ranges a construction order independent of how they were written
// (spec's Open Question on list/set ordering, resolved in DESIGN.md).
func canonicalizeList(elems []Value) []Value {
	if len(elems) == 0 {
		return nil
	}
	seen := make(map[string]Value, len(elems))
	keys := make([]string, 0, len(elems))
	for _, e := range elems {
		k := e.String()
		if _, ok := seen[k]; !ok {
			seen[k] = e
			keys = append(keys, k)
		}
	}
	sid.SortByCanonical(keys)
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

// valueMatchesType reports whether val inhabits t, used by matchPattern
// to test a BindPattern's `as T1|T2` refinement against the scrutinee's
// dynamic runtime representation.
func valueMatchesType(val Value, t types.T) bool {
	switch tt := t.(type) {
	case types.TInt:
		_, ok := val.(IntValue)
		return ok
	case types.TBool:
		_, ok := val.(BoolValue)
		return ok
	case types.TNone:
		_, ok := val.(NoneValue)
		return ok
	case types.TString:
		_, ok := val.(StringValue)
		return ok
	case types.TLinExpr:
		_, ok := val.(LinExprValue)
		return ok
	case types.TConstraint:
		_, ok := val.(ConstraintValue)
		return ok
	case types.TObject:
		ov, ok := val.(ObjectValue)
		return ok && ov.TypeName == tt.Name
	case types.TList, types.TEmptyList:
		_, ok := val.(ListValue)
		return ok
	case types.TTuple:
		_, ok := val.(TupleValue)
		return ok
	case types.TStruct:
		_, ok := val.(StructValue)
		return ok
	case types.TCustom:
		cv, ok := val.(CustomValue)
		if !ok || cv.Module != tt.Module || cv.Name != tt.Name {
			return false
		}
		return tt.Variant == "" || cv.Variant == tt.Variant
	case types.TSum:
		for _, m := range tt.Members {
			if valueMatchesType(val, m) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
