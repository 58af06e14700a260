// Package linexpr implements the linear-algebra core of ColloML: linear
// expressions over typed decision variables, and the atomic constraints
// built from them (spec §4.F). The representation — a coefficient map
// plus a constant — is grounded on the arithmetic-intermediate-
// representation pattern used by the retrieval pack's zkEVM constraint
// compiler (coefficient·column sums), generalised from finite-field
// columns to named ILP variables over float64 coefficients.
package linexpr

import (
	"fmt"
	"sort"
	"strings"
)

// argSep joins an IlpVar's argument values into the single comparable
// ArgsKey field. IlpVar must stay a plain comparable struct (no slice
// fields) so it can key the coefficient map below directly; a []string
// Args field would make IlpVar — and every map keyed by it — uncompilable.
const argSep = "\x1f"

// IlpVar identifies one scalar variable of the assembled ILP problem. A
// Base var is a reified occurrence of an external decision-variable
// family at concrete argument values (rendered via NewVar, one string
// per argument — an object argument renders as its handle's identity,
// an Int as its decimal form, and so on; each slot of a list variable is
// also a Base var). Internal vars, built with NewInternalVar, mark
// builder-minted structural variables and are skipped by Problem.Validate.
type IlpVar struct {
	Name     string
	ArgsKey  string
	Internal bool // true for builder-minted structural variables
	Ordinal  int  // disambiguates internal vars sharing a Name
}

// NewVar builds a Base variable from a family name and its rendered
// argument values, in declaration order.
func NewVar(name string, args ...string) IlpVar {
	return IlpVar{Name: name, ArgsKey: strings.Join(args, argSep)}
}

// NewInternalVar builds a builder-minted structural variable.
func NewInternalVar(name string, ordinal int) IlpVar {
	return IlpVar{Name: name, Internal: true, Ordinal: ordinal}
}

// Args returns the variable's rendered argument values, in order.
func (v IlpVar) Args() []string {
	if v.ArgsKey == "" {
		return nil
	}
	return strings.Split(v.ArgsKey, argSep)
}

func (v IlpVar) String() string {
	if v.Internal {
		return fmt.Sprintf("#%s/%d", v.Name, v.Ordinal)
	}
	s := v.Name
	for _, a := range v.Args() {
		s += "," + a
	}
	return s
}

// Less gives IlpVar a total order (by canonical string), used to keep
// LinExpr's internal map iteration deterministic.
func Less(a, b IlpVar) bool { return a.String() < b.String() }

// LinExpr is a linear combination of IlpVars plus a constant term. The
// zero value is the constant expression 0.
type LinExpr struct {
	coeffs   map[IlpVar]float64
	constant float64
}

// Constant returns the linear expression `c`.
func Constant(c float64) LinExpr { return LinExpr{constant: c} }

// Var returns the linear expression `1*v`.
func Var(v IlpVar) LinExpr {
	return LinExpr{coeffs: map[IlpVar]float64{v: 1}}
}

// Variables returns the set of variables appearing in e with a non-zero
// coefficient, in canonical order.
func (e LinExpr) Variables() []IlpVar {
	out := make([]IlpVar, 0, len(e.coeffs))
	for v := range e.coeffs {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Coefficient returns the coefficient of v in e (0 if absent).
func (e LinExpr) Coefficient(v IlpVar) float64 { return e.coeffs[v] }

// ConstantTerm returns e's constant term.
func (e LinExpr) ConstantTerm() float64 { return e.constant }

func cloneCoeffs(m map[IlpVar]float64) map[IlpVar]float64 {
	out := make(map[IlpVar]float64, len(m))
	for k, v := range m {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Add returns e + other.
func (e LinExpr) Add(other LinExpr) LinExpr {
	out := cloneCoeffs(e.coeffs)
	for v, c := range other.coeffs {
		out[v] += c
		if out[v] == 0 {
			delete(out, v)
		}
	}
	return LinExpr{coeffs: out, constant: e.constant + other.constant}
}

// Sub returns e - other.
func (e LinExpr) Sub(other LinExpr) LinExpr {
	return e.Add(other.Scale(-1))
}

// Scale returns k*e.
func (e LinExpr) Scale(k float64) LinExpr {
	out := make(map[IlpVar]float64, len(e.coeffs))
	for v, c := range e.coeffs {
		scaled := c * k
		if scaled != 0 {
			out[v] = scaled
		}
	}
	return LinExpr{coeffs: out, constant: e.constant * k}
}

// Neg returns -e.
func (e LinExpr) Neg() LinExpr { return e.Scale(-1) }

// IsZero reports whether e is identically the constant 0.
func (e LinExpr) IsZero() bool { return e.constant == 0 && len(e.coeffs) == 0 }

// Eval evaluates e against a complete variable assignment. It fails if a
// variable referenced by e has no entry in assignment.
func (e LinExpr) Eval(assignment map[IlpVar]float64) (float64, error) {
	total := e.constant
	for v, c := range e.coeffs {
		val, ok := assignment[v]
		if !ok {
			return 0, fmt.Errorf("linexpr: no value assigned for variable %s", v)
		}
		total += c * val
	}
	return total, nil
}

func (e LinExpr) String() string {
	s := ""
	for _, v := range e.Variables() {
		c := e.coeffs[v]
		switch {
		case s == "" && c >= 0:
			s = fmt.Sprintf("%g*%s", c, v)
		case c >= 0:
			s += fmt.Sprintf(" + %g*%s", c, v)
		default:
			s += fmt.Sprintf(" - %g*%s", -c, v)
		}
	}
	if e.constant != 0 || s == "" {
		if s == "" {
			s = fmt.Sprintf("%g", e.constant)
		} else if e.constant >= 0 {
			s += fmt.Sprintf(" + %g", e.constant)
		} else {
			s += fmt.Sprintf(" - %g", -e.constant)
		}
	}
	return s
}

// Relation is the comparator of an atomic constraint, canonicalised to
// `expr ⋈ 0`.
type Relation int

const (
	LE Relation = iota // <=
	GE                 // >=
	EQ                 // ==
)

func (r Relation) String() string {
	switch r {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

// AtomicConstraint is one linear relation `Expr ⋈ 0`, tagged with the
// span of the ColloML expression that produced it so downstream tooling
// can blame a source location (spec §7).
type AtomicConstraint struct {
	Expr     LinExpr
	Relation Relation
	Origin   Origin
}

// Origin names where an atomic constraint came from: the module and
// function whose evaluation produced it, and the source span within that
// function's body.
type Origin struct {
	Module   string
	Function string
	Offset   int
	Length   int
}

func (o Origin) String() string { return fmt.Sprintf("%s.%s@%d+%d", o.Module, o.Function, o.Offset, o.Length) }

func (c AtomicConstraint) String() string {
	return fmt.Sprintf("%s %s 0", c.Expr, c.Relation)
}

// Leq builds the atomic constraint `lhs - rhs <= 0`.
func Leq(lhs, rhs LinExpr, origin Origin) AtomicConstraint {
	return AtomicConstraint{Expr: lhs.Sub(rhs), Relation: LE, Origin: origin}
}

// Geq builds the atomic constraint `lhs - rhs >= 0`.
func Geq(lhs, rhs LinExpr, origin Origin) AtomicConstraint {
	return AtomicConstraint{Expr: lhs.Sub(rhs), Relation: GE, Origin: origin}
}

// Eq builds the atomic constraint `lhs - rhs = 0`.
func Eq(lhs, rhs LinExpr, origin Origin) AtomicConstraint {
	return AtomicConstraint{Expr: lhs.Sub(rhs), Relation: EQ, Origin: origin}
}

// Satisfied reports whether assignment satisfies c, within tolerance eps.
func (c AtomicConstraint) Satisfied(assignment map[IlpVar]float64, eps float64) (bool, error) {
	v, err := c.Expr.Eval(assignment)
	if err != nil {
		return false, err
	}
	switch c.Relation {
	case LE:
		return v <= eps, nil
	case GE:
		return v >= -eps, nil
	default:
		return v >= -eps && v <= eps, nil
	}
}

// ConstraintSet is an unordered set of atomic constraints — the runtime
// value produced by a `Constraint`-typed expression. Combining constraint
// sets with `and`/`or` is set union (spec §4.C: "combining constraints
// means taking the union").
type ConstraintSet struct {
	Atoms []AtomicConstraint
}

// Union returns the union of cs and other.
func (cs ConstraintSet) Union(other ConstraintSet) ConstraintSet {
	out := make([]AtomicConstraint, 0, len(cs.Atoms)+len(other.Atoms))
	out = append(out, cs.Atoms...)
	out = append(out, other.Atoms...)
	return ConstraintSet{Atoms: out}
}

// Single wraps one atomic constraint as a ConstraintSet.
func Single(c AtomicConstraint) ConstraintSet { return ConstraintSet{Atoms: []AtomicConstraint{c}} }
