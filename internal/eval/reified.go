package eval

import (
	"strings"

	"github.com/collomatique/colloml-go/internal/linexpr"
)

// ReifiedEntry is what one `$V(args)`/`$[V](args)` occurrence of an
// internally-reified variable discovered on first evaluation (spec §9,
// "Late-bound reified variables"): the backing function's body, evaluated
// with the same arguments, either produced atomic constraints directly
// (Constraint-returning body) or a defining linear expression (LinExpr-
// returning body), which the ILP builder turns into the equality
// `var - Definition = 0`.
type ReifiedEntry struct {
	Name       string
	Args       []string
	Constraint linexpr.ConstraintSet
	Definition *linexpr.LinExpr // non-nil only when the body returned LinExpr
}

// ReifiedVariables is the memoised, per-evaluation collection of reified
// occurrences discovered so far, keyed by (variable name, argument tuple)
// per spec §4.E/§9. The zero value is not usable; use NewReifiedVariables.
type ReifiedVariables struct {
	entries map[string]*ReifiedEntry
	order   []string
}

// NewReifiedVariables returns an empty collection.
func NewReifiedVariables() *ReifiedVariables {
	return &ReifiedVariables{entries: map[string]*ReifiedEntry{}}
}

func reifiedKey(name string, args []string) string {
	return name + "\x1f" + strings.Join(args, "\x1f")
}

// Lookup reports the entry already recorded for (name, args), if any.
func (r *ReifiedVariables) Lookup(name string, args []string) (*ReifiedEntry, bool) {
	e, ok := r.entries[reifiedKey(name, args)]
	return e, ok
}

// record stores e under its own (Name, Args) key, first-write-wins — a
// later occurrence of the same key reuses the memoised result rather than
// re-evaluating the backing function, per spec's "on first occurrence,
// compile-evaluate the referenced function and record the result".
func (r *ReifiedVariables) record(e *ReifiedEntry) {
	k := reifiedKey(e.Name, e.Args)
	if _, ok := r.entries[k]; ok {
		return
	}
	r.entries[k] = e
	r.order = append(r.order, k)
}

// Entries returns every discovered entry in first-discovery order.
func (r *ReifiedVariables) Entries() []*ReifiedEntry {
	out := make([]*ReifiedEntry, len(r.order))
	for i, k := range r.order {
		out[i] = r.entries[k]
	}
	return out
}
