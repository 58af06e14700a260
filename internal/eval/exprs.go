package eval

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/types"
)

// evalIdent resolves a local binding first, falling back to a
// zero-payload enum-variant reference recorded by the checker in
// IdentVariants (spec §4.C's bare TYPEID-variant rule).
func (ev *evaluator) evalIdent(env *Environment, v *ast.Ident) (Value, *colloerr.Report) {
	if val, ok := env.Get(v.Name); ok {
		return val, nil
	}
	if vr, ok := ev.prog.IdentVariants[v.Span.String()]; ok {
		return CustomValue{Module: vr.Module, Name: vr.Name, Variant: vr.Variant}, nil
	}
	return nil, ev.fail(colloerr.EVA001, "unbound identifier "+v.Name, v.Span)
}

func elemTypeFromSpan(prog *check.Program, span ast.Span) (types.T, bool) {
	t, ok := prog.SpanTypes[span.String()]
	if !ok {
		return nil, false
	}
	lt, ok := t.(types.TList)
	if !ok {
		return nil, false
	}
	return lt.Elem, true
}

func (ev *evaluator) evalListLit(env *Environment, v *ast.ListLit) (Value, *colloerr.Report) {
	elemType, _ := elemTypeFromSpan(ev.prog, v.Span)
	elems := make([]Value, len(v.Elements))
	for i, e := range v.Elements {
		val, rep := ev.eval(env, e)
		if rep != nil {
			return nil, rep
		}
		if elemType != nil {
			val = coerceValue(val, elemType, ev.prog)
		}
		elems[i] = val
	}
	return ListValue{Elements: canonicalizeList(elems)}, nil
}

func (ev *evaluator) evalTupleLit(env *Environment, v *ast.TupleLit) (Value, *colloerr.Report) {
	elems := make([]Value, len(v.Elements))
	for i, e := range v.Elements {
		val, rep := ev.eval(env, e)
		if rep != nil {
			return nil, rep
		}
		elems[i] = val
	}
	return TupleValue{Elements: elems}, nil
}

func (ev *evaluator) evalRange(env *Environment, v *ast.RangeExpr) (Value, *colloerr.Report) {
	lo, rep := ev.eval(env, v.Lo)
	if rep != nil {
		return nil, rep
	}
	hi, rep := ev.eval(env, v.Hi)
	if rep != nil {
		return nil, rep
	}
	loI, ok1 := lo.(IntValue)
	hiI, ok2 := hi.(IntValue)
	if !ok1 || !ok2 {
		return nil, ev.fail(colloerr.EVA001, "range bounds must be Int", v.Span)
	}
	var elems []Value
	for i := loI.Value; i < hiI.Value; i++ {
		elems = append(elems, IntValue{Value: i})
	}
	return ListValue{Elements: canonicalizeList(elems)}, nil
}

func (ev *evaluator) evalListComp(env *Environment, v *ast.ListComp) (Value, *colloerr.Report) {
	results, rep := ev.compClauses(env, v.Clauses, 0, v.Result)
	if rep != nil {
		return nil, rep
	}
	return ListValue{Elements: canonicalizeList(results)}, nil
}

func (ev *evaluator) compClauses(env *Environment, clauses []ast.CompClause, idx int, result ast.Expr) ([]Value, *colloerr.Report) {
	if idx == len(clauses) {
		v, rep := ev.eval(env, result)
		if rep != nil {
			return nil, rep
		}
		return []Value{v}, nil
	}
	cl := clauses[idx]
	if cl.IsWhere {
		condVal, rep := ev.eval(env, cl.Cond)
		if rep != nil {
			return nil, rep
		}
		cb, ok := condVal.(BoolValue)
		if !ok || !cb.Value {
			return nil, nil
		}
		return ev.compClauses(env, clauses, idx+1, result)
	}
	srcVal, rep := ev.eval(env, cl.Source)
	if rep != nil {
		return nil, rep
	}
	list, ok := srcVal.(ListValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "comprehension source is not a list", cl.Source.Loc())
	}
	var out []Value
	for _, elem := range list.Elements {
		sub, rep := ev.compClauses(env.Extend(cl.Var, elem), clauses, idx+1, result)
		if rep != nil {
			return nil, rep
		}
		out = append(out, sub...)
	}
	return out, nil
}

func (ev *evaluator) evalGlobalCollection(v *ast.GlobalCollection) (Value, *colloerr.Report) {
	handles, err := ev.objEnv.Collection(ev.ctx, v.TypeName)
	if err != nil {
		return nil, ev.fail(colloerr.EVA005, "object environment: "+err.Error(), v.Span)
	}
	out := make([]Value, len(handles))
	for i, h := range handles {
		out[i] = h
	}
	return ListValue{Elements: out}, nil
}

func (ev *evaluator) evalCardinality(env *Environment, v *ast.Cardinality) (Value, *colloerr.Report) {
	inner, rep := ev.eval(env, v.Inner)
	if rep != nil {
		return nil, rep
	}
	lv, ok := inner.(ListValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "cardinality requires a list", v.Span)
	}
	return IntValue{Value: int64(len(lv.Elements))}, nil
}

func (ev *evaluator) evalMembership(env *Environment, v *ast.Membership) (Value, *colloerr.Report) {
	elem, rep := ev.eval(env, v.Elem)
	if rep != nil {
		return nil, rep
	}
	coll, rep := ev.eval(env, v.Collection)
	if rep != nil {
		return nil, rep
	}
	lv, ok := coll.(ListValue)
	if !ok {
		return nil, ev.fail(colloerr.EVA001, "membership requires a list", v.Span)
	}
	for _, e := range lv.Elements {
		if e.String() == elem.String() {
			return BoolValue{Value: true}, nil
		}
	}
	return BoolValue{Value: false}, nil
}

func (ev *evaluator) evalFieldAccess(env *Environment, v *ast.FieldAccess) (Value, *colloerr.Report) {
	base, rep := ev.eval(env, v.Base)
	if rep != nil {
		return nil, rep
	}
	switch b := base.(type) {
	case ObjectValue:
		fv, err := ev.objEnv.Field(ev.ctx, b, v.Field)
		if err != nil {
			return nil, ev.fail(colloerr.EVA005, "object environment: "+err.Error(), v.Span)
		}
		return fv, nil
	case StructValue:
		fv, ok := b.Field(v.Field)
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "struct has no field "+v.Field, v.Span)
		}
		return fv, nil
	case CustomValue:
		sv, ok := b.Payload.(StructValue)
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "value has no field "+v.Field, v.Span)
		}
		fv, ok := sv.Field(v.Field)
		if !ok {
			return nil, ev.fail(colloerr.EVA001, "variant has no field "+v.Field, v.Span)
		}
		return fv, nil
	default:
		return nil, ev.fail(colloerr.EVA001, "field access on non-record value", v.Span)
	}
}

// evalStructLit dispatches on the checker's StructLits disambiguation
// (spec §4.C: the `TypeName { ... }` grammar is shared by variant
// construction, object construction, and alias coercion).
func (ev *evaluator) evalStructLit(env *Environment, v *ast.StructLit) (Value, *colloerr.Report) {
	fields := make(map[string]Value, len(v.Fields))
	for _, f := range v.Fields {
		val, rep := ev.eval(env, f.Value)
		if rep != nil {
			return nil, rep
		}
		fields[f.Name] = val
	}
	sv := NewStructValue(fields)
	info, ok := ev.prog.StructLits[v.Span.String()]
	if !ok {
		return sv, nil
	}
	switch info.Kind {
	case check.StructVariantCtor:
		payload := Value(sv)
		if ct, ok := ev.prog.CustomTypes[check.CustomKey{Module: info.Module, Name: info.Name}]; ok {
			if pt, ok := ct.VariantPayload[info.Variant]; ok {
				payload = coerceValue(sv, pt, ev.prog)
			}
		}
		return CustomValue{Module: info.Module, Name: info.Name, Variant: info.Variant, Payload: payload}, nil
	case check.StructAliasCtor:
		payload := Value(sv)
		if ct, ok := ev.prog.CustomTypes[check.CustomKey{Module: info.Module, Name: info.Name}]; ok {
			payload = coerceValue(sv, ct.Underlying, ev.prog)
		}
		return CustomValue{Module: info.Module, Name: info.Name, Payload: payload}, nil
	default: // StructObjectCtor, StructPlain
		return sv, nil
	}
}

// evalCast dispatches on the checker's CastVariants disambiguation: a
// `Name(e)` cast is either an enum-variant construction or a plain
// coercion, decided once at check time.
func (ev *evaluator) evalCast(env *Environment, v *ast.Cast) (Value, *colloerr.Report) {
	if vr, ok := ev.prog.CastVariants[v.Span.String()]; ok {
		inner, rep := ev.eval(env, v.Inner)
		if rep != nil {
			return nil, rep
		}
		return CustomValue{Module: vr.Module, Name: vr.Name, Variant: vr.Variant, Payload: inner}, nil
	}
	inner, rep := ev.eval(env, v.Inner)
	if rep != nil {
		return nil, rep
	}
	if target, ok := ev.prog.SpanTypes[v.Span.String()]; ok {
		return coerceValue(inner, target, ev.prog), nil
	}
	return inner, nil
}
