package ilp

import (
	"sort"

	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/linexpr"
)

// Problem is the fully assembled ILP problem: a flat set of atomic linear
// constraints plus an optional single weighted objective, ready to hand
// to a solver. ColloML never invokes one — per spec.md's Non-goals,
// solving stays outside this module.
type Problem struct {
	prog *check.Program

	Constraints  linexpr.ConstraintSet
	Objective    linexpr.LinExpr
	HasObjective bool
	Sense        Sense

	warnings []colloerr.Warning
}

// Warnings returns every non-fatal diagnostic recorded while building p
// (e.g. a mixed-sense objective term that had to be negated).
func (p Problem) Warnings() []colloerr.Warning { return p.warnings }

// Variables returns every distinct IlpVar referenced anywhere in p
// (constraints and objective alike), in canonical order.
func (p Problem) Variables() []linexpr.IlpVar {
	seen := map[linexpr.IlpVar]bool{}
	var out []linexpr.IlpVar
	add := func(e linexpr.LinExpr) {
		for _, v := range e.Variables() {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	for _, atom := range p.Constraints.Atoms {
		add(atom.Expr)
	}
	if p.HasObjective {
		add(p.Objective)
	}
	sort.Slice(out, func(i, j int) bool { return linexpr.Less(out[i], out[j]) })
	return out
}

func programKnowsVariable(prog *check.Program, name string) bool {
	if prog == nil {
		return true
	}
	if prog.Variables.HasVariable(name) {
		return true
	}
	for key := range prog.Reified {
		if key.Name == name {
			return true
		}
	}
	for key := range prog.ReifiedLists {
		if key.Name == name {
			return true
		}
	}
	return false
}

// Validate checks p for the two structural defects a solver hand-off
// should never see (original_source/core/src/solver.rs's pre-solve
// checks, supplemented beyond spec.md per DESIGN.md): a variable with no
// declared family anywhere in the checked program, and an entirely empty
// problem (no constraints, no objective) that could only ever be a
// caller bug.
func (p Problem) Validate() []colloerr.Report {
	var reports []colloerr.Report
	if len(p.Constraints.Atoms) == 0 && !p.HasObjective {
		reports = append(reports, *colloerr.New("ilp", colloerr.ILP003, "problem has no constraints and no objective"))
	}
	for _, v := range p.Variables() {
		if v.Internal {
			continue
		}
		if !programKnowsVariable(p.prog, v.Name) {
			reports = append(reports, *colloerr.New("ilp", colloerr.ILP002, "unknown variable family "+v.Name))
		}
	}
	return reports
}

// SparseMatrixEntry is one non-zero coefficient of a constraint row.
type SparseMatrixEntry struct {
	Row   int
	Col   linexpr.IlpVar
	Coeff float64
}

// SparseMatrix is a coordinate-list sparse view over a Problem's
// constraints (one (row, column, coefficient) entry per non-zero):
// one row per atomic constraint, one column per distinct variable, plus
// the relation and right-hand side each row compares against (every
// AtomicConstraint is already normalised to `Expr ⋈ 0`, so RHS is always
// the negated constant term). Supplements spec.md per
// original_source/collomatique-ilp/src/mat_repr.rs, which emits this
// shape alongside the symbolic constraint list for solvers that want
// linear-algebra form.
type SparseMatrix struct {
	Vars      []linexpr.IlpVar
	Entries   []SparseMatrixEntry
	RHS       []float64
	Relations []linexpr.Relation
}

// Matrix lazily builds p's sparse matrix view.
func (p Problem) Matrix() *SparseMatrix {
	vars := p.Variables()
	sm := &SparseMatrix{Vars: vars}
	for i, atom := range p.Constraints.Atoms {
		for _, v := range atom.Expr.Variables() {
			c := atom.Expr.Coefficient(v)
			if c != 0 {
				sm.Entries = append(sm.Entries, SparseMatrixEntry{Row: i, Col: v, Coeff: c})
			}
		}
		sm.RHS = append(sm.RHS, -atom.Expr.ConstantTerm())
		sm.Relations = append(sm.Relations, atom.Relation)
	}
	return sm
}
