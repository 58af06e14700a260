// Package eval implements ColloML's evaluator (spec §4.E): it reduces a
// checked program's entry point, applied to concrete argument values, to
// a runtime Value — discovering reified decision variables and emitting
// linear expressions/constraints along the way. The Value set and the
// Environment below are grounded on the teacher's value.go/env.go
// pattern (a closed Value interface plus a parent-chained Environment),
// generalised to ColloML's richer runtime domain (linear expressions,
// constraint sets, opaque object handles, struct and enum-variant
// payloads) in place of AILANG's scalar/function value set.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/collomatique/colloml-go/internal/linexpr"
)

// Value is the closed set of runtime values the evaluator ever produces
// or binds. Every concrete type below implements it.
type Value interface {
	Type() string
	String() string
}

// IntValue is a 64-bit signed integer.
type IntValue struct{ Value int64 }

func (v IntValue) Type() string   { return "Int" }
func (v IntValue) String() string { return strconv.FormatInt(v.Value, 10) }

// BoolValue is a boolean.
type BoolValue struct{ Value bool }

func (v BoolValue) Type() string { return "Bool" }
func (v BoolValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// NoneValue is the single inhabitant of type None.
type NoneValue struct{}

func (NoneValue) Type() string   { return "None" }
func (NoneValue) String() string { return "none" }

// StringValue is a string.
type StringValue struct{ Value string }

func (v StringValue) Type() string   { return "String" }
func (v StringValue) String() string { return v.Value }

// ListValue is an ordered, possibly-repeating sequence. List literals,
// comprehensions, and ranges are canonicalised at the point of
// construction — deduplicated and sorted by the sid fingerprint of each
// element's String() form, per spec's Open Question on enumeration
// order, resolved in DESIGN.md. A `@[T]` collection instead keeps
// whatever order the object environment returned (ObjectEnv.Collection),
// and the sequence produced by `+`/`-` concatenation or accumulated
// through fold/rfold is a plain ordered append — which is what lets fold
// and rfold legitimately disagree on the result of `a + [x]` over the
// same source list.
type ListValue struct{ Elements []Value }

func (v ListValue) Type() string { return "List" }
func (v ListValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TupleValue is a fixed-arity product value.
type TupleValue struct{ Elements []Value }

func (v TupleValue) Type() string { return "Tuple" }
func (v TupleValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// StructField is one named member of a StructValue.
type StructField struct {
	Name  string
	Value Value
}

// StructValue is a structural record value, fields sorted by name so
// its String() form is canonical regardless of construction order.
type StructValue struct{ Fields []StructField }

// NewStructValue builds a StructValue from an unordered field map.
func NewStructValue(fields map[string]Value) StructValue {
	out := make([]StructField, 0, len(fields))
	for name, v := range fields {
		out = append(out, StructField{Name: name, Value: v})
	}
	sortStructFields(out)
	return StructValue{Fields: out}
}

func sortStructFields(fs []StructField) {
	for i := 1; i < len(fs); i++ {
		for j := i; j > 0 && fs[j-1].Name > fs[j].Name; j-- {
			fs[j-1], fs[j] = fs[j], fs[j-1]
		}
	}
}

// Field looks up a field by name.
func (v StructValue) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (v StructValue) Type() string { return "Struct" }
func (v StructValue) String() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CustomValue is an enum-variant value: the declaring module/type name,
// the tag, and its (possibly absent) payload.
type CustomValue struct {
	Module  string
	Name    string
	Variant string
	Payload Value // nil for a zero-payload variant
}

func (v CustomValue) Type() string { return v.Module + "::" + v.Name }
func (v CustomValue) String() string {
	s := v.Module + "::" + v.Name
	if v.Variant != "" {
		s += "::" + v.Variant
	}
	if v.Payload != nil {
		s += " " + v.Payload.String()
	}
	return s
}

// ObjectValue is an opaque handle into the caller-provided object
// environment: a type name plus an identity assigned by that
// environment (spec §6's "opaque handles of type T"). The identity is
// also what renders into a reified variable's argument tuple when an
// object value is passed to `$V(args)`.
type ObjectValue struct {
	TypeName string
	ID       int64
}

func (v ObjectValue) Type() string   { return v.TypeName }
func (v ObjectValue) String() string { return fmt.Sprintf("%s#%d", v.TypeName, v.ID) }

// LinExprValue wraps a symbolic linear expression.
type LinExprValue struct{ Expr linexpr.LinExpr }

func (v LinExprValue) Type() string   { return "LinExpr" }
func (v LinExprValue) String() string { return v.Expr.String() }

// ConstraintValue wraps a set of atomic linear constraints.
type ConstraintValue struct{ Set linexpr.ConstraintSet }

func (v ConstraintValue) Type() string { return "Constraint" }
func (v ConstraintValue) String() string {
	parts := make([]string, len(v.Set.Atoms))
	for i, a := range v.Set.Atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, " and ")
}

// asLinExpr widens an Int or LinExpr value to a linexpr.LinExpr, per
// spec §4.D's Int -> LinExpr coercion axis.
func asLinExpr(v Value) (linexpr.LinExpr, bool) {
	switch x := v.(type) {
	case IntValue:
		return linexpr.Constant(float64(x.Value)), true
	case LinExprValue:
		return x.Expr, true
	default:
		return linexpr.LinExpr{}, false
	}
}

// argString renders a value into the canonical string form used as one
// slot of a reified/external variable's argument tuple (linexpr.NewVar).
func argString(v Value) string {
	switch x := v.(type) {
	case ObjectValue:
		return strconv.FormatInt(x.ID, 10)
	case IntValue:
		return strconv.FormatInt(x.Value, 10)
	default:
		return v.String()
	}
}
