// Package types implements the ColloML semantic type lattice: the set of
// types `T` described in spec §3, and the lattice operations (Unify,
// Subtract, Coerce, Validate) the semantic analyser relies on.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// T is the closed sum of every semantic type. Concrete types are small
// immutable structs; equality and ordering are both defined via the
// canonical String() form, which is deterministic for every well-formed
// type (struct fields sorted by name, union members sorted and
// deduplicated, tuples in declaration order).
type T interface {
	fmt.Stringer
	typeNode()
}

// Equal reports whether a and b denote the same semantic type.
func Equal(a, b T) bool { return a.String() == b.String() }

// Less defines the total order used to canonicalise Sum members and to
// sort exhaustiveness diagnostics.
func Less(a, b T) bool { return a.String() < b.String() }

type (
	TNever      struct{}
	TNone       struct{}
	TBool       struct{}
	TInt        struct{}
	TLinExpr    struct{}
	TConstraint struct{}
	TString     struct{}
	TEmptyList  struct{}
)

func (TNever) typeNode()      {}
func (TNone) typeNode()       {}
func (TBool) typeNode()       {}
func (TInt) typeNode()        {}
func (TLinExpr) typeNode()    {}
func (TConstraint) typeNode() {}
func (TString) typeNode()     {}
func (TEmptyList) typeNode()  {}

func (TNever) String() string      { return "Never" }
func (TNone) String() string       { return "None" }
func (TBool) String() string       { return "Bool" }
func (TInt) String() string        { return "Int" }
func (TLinExpr) String() string    { return "LinExpr" }
func (TConstraint) String() string { return "Constraint" }
func (TString) String() string     { return "String" }
func (TEmptyList) String() string  { return "EmptyList" }

// TList is `[T]`.
type TList struct{ Elem T }

func (TList) typeNode()        {}
func (t TList) String() string { return "[" + t.Elem.String() + "]" }

// TObject is an opaque reference to a caller-provided entity type.
type TObject struct{ Name string }

func (TObject) typeNode()        {}
func (t TObject) String() string { return "Object(" + t.Name + ")" }

// TTuple is a fixed-arity product type.
type TTuple struct{ Elems []T }

func (TTuple) typeNode() {}
func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// StructField is one named member of a TStruct.
type StructField struct {
	Name string
	Type T
}

// TStruct is a structural record. Fields are stored sorted by name so two
// structurally equal records always produce the same canonical string
// regardless of declaration order.
type TStruct struct{ Fields []StructField }

// NewStruct builds a TStruct from an unordered field map, sorting fields
// by name for a canonical representation.
func NewStruct(fields map[string]T) TStruct {
	out := make([]StructField, 0, len(fields))
	for name, typ := range fields {
		out = append(out, StructField{Name: name, Type: typ})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return TStruct{Fields: out}
}

func (TStruct) typeNode() {}
func (t TStruct) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Field looks up a field by name.
func (t TStruct) Field(name string) (T, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// TCustom is a nominal type defined by a `type` or `enum` declaration in a
// given module. Variant is "" when referring to the whole (possibly
// enumerated) type rather than one specific tag.
type TCustom struct {
	Module  string
	Name    string
	Variant string
}

func (TCustom) typeNode() {}
func (t TCustom) String() string {
	s := t.Module + "::" + t.Name
	if t.Variant != "" {
		s += "::" + t.Variant
	}
	return s
}

// TSum is a flat, deduplicated, sorted tag-free union. A Sum with a single
// member is never constructed directly; use NewSum, which collapses it.
type TSum struct{ Members []T }

// NewSum builds a canonical Sum: flattens nested sums, deduplicates by
// canonical string, sorts, and collapses a singleton to its sole member.
func NewSum(members ...T) T {
	flat := flatten(members)
	if len(flat) == 0 {
		return TNever{}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return TSum{Members: flat}
}

func flatten(members []T) []T {
	seen := map[string]T{}
	var walk func(T)
	walk = func(t T) {
		if s, ok := t.(TSum); ok {
			for _, m := range s.Members {
				walk(m)
			}
			return
		}
		seen[t.String()] = t
	}
	for _, m := range members {
		walk(m)
	}
	out := make([]T, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

func (TSum) typeNode() {}
func (t TSum) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Members returns the flattened member list of t: t.Members for a TSum,
// or the single-element list [t] for anything else.
func Members(t T) []T {
	if s, ok := t.(TSum); ok {
		return s.Members
	}
	return []T{t}
}

// ArgsType is the ordered calling signature of a function or the
// parameter schema of a decision-variable family.
type ArgsType []T

func (a ArgsType) String() string {
	parts := make([]string, len(a))
	for i, t := range a {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
