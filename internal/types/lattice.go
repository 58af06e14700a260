package types

// Resolver answers whether a leaf type name in a syntactic type expression
// refers to a known object type or a known custom type, for Validate.
type Resolver interface {
	HasObject(name string) bool
	HasCustom(module, name string) bool
}

// Assignable reports whether a value of type from may be used where a
// value of type to is expected, without any coercion: identity, or from
// being a narrower TSum member, or EmptyList under any List.
func Assignable(from, to T) bool {
	if Equal(from, to) {
		return true
	}
	if _, ok := from.(TEmptyList); ok {
		if _, ok := to.(TList); ok {
			return true
		}
	}
	if sum, ok := to.(TSum); ok {
		for _, m := range sum.Members {
			if Assignable(from, m) {
				return true
			}
		}
	}
	return false
}

// Coercible reports whether from coerces to to along one of the two
// lattice axes named in spec §4.D: Int -> LinExpr, EmptyList -> List(T).
func Coercible(from, to T) bool {
	if Assignable(from, to) {
		return true
	}
	if _, ok := from.(TInt); ok {
		if _, ok := to.(TLinExpr); ok {
			return true
		}
	}
	if _, ok := from.(TEmptyList); ok {
		if _, ok := to.(TList); ok {
			return true
		}
	}
	if c, ok := to.(TCustom); ok {
		// Struct/record literal coercing into a custom type whose
		// underlying representation matches; callers resolve the
		// underlying type and recurse via Coercible(from, underlying)
		// themselves — Coerce (below) performs that lookup.
		_ = c
	}
	return false
}

// Unify computes the least upper bound of a and b under the coercion
// lattice. ok is false when a and b are incomparable (no common
// supertype exists among {identity, Int<LinExpr, EmptyList<List(T)}).
func Unify(a, b T) (result T, ok bool) {
	if Equal(a, b) {
		return a, true
	}
	if _, isEmpty := a.(TEmptyList); isEmpty {
		if _, isList := b.(TList); isList {
			return b, true
		}
	}
	if _, isEmpty := b.(TEmptyList); isEmpty {
		if _, isList := a.(TList); isList {
			return a, true
		}
	}
	if isIntOrLin(a) && isIntOrLin(b) {
		if _, aInt := a.(TInt); aInt {
			if _, bInt := b.(TInt); bInt {
				return TInt{}, true
			}
		}
		return TLinExpr{}, true
	}
	return nil, false
}

func isIntOrLin(t T) bool {
	switch t.(type) {
	case TInt, TLinExpr:
		return true
	}
	return false
}

// Subtract removes every member of b (expanded: enum roots expand to
// their variants first) from the flattened union of a, returning the
// refined remainder. Used by match-branch refinement: a branch `p as
// T1|T2` refines the scrutinee to exactly T1|T2, and the implicit
// catch-all refines to Subtract(scrutinee, union-of-prior-branches).
func Subtract(a, b T) T {
	bSet := map[string]bool{}
	for _, m := range expandVariants(b) {
		bSet[m.String()] = true
	}
	var remain []T
	for _, m := range expandVariants(a) {
		if !bSet[m.String()] {
			remain = append(remain, m)
		}
	}
	return NewSum(remain...)
}

// expandVariants flattens a union and, for every TCustom member whose
// Variant is unset (a bare enum-root reference), replaces it with its
// enumerated variants via variantsOf. When variantsOf is nil or returns no
// tags the member is kept as-is, as are already-specific variants.
var variantsOf func(module, name string) []string

// SetVariantResolver installs the callback Subtract/expandVariants use to
// expand a bare enum root into its variant tags. The semantic analyser
// calls this once, after gathering every enum declaration, before any
// match exhaustiveness check runs.
func SetVariantResolver(f func(module, name string) []string) { variantsOf = f }

func expandVariants(t T) []T {
	var out []T
	for _, m := range Members(t) {
		c, ok := m.(TCustom)
		if !ok || c.Variant != "" || variantsOf == nil {
			out = append(out, m)
			continue
		}
		tags := variantsOf(c.Module, c.Name)
		if len(tags) == 0 {
			out = append(out, m)
			continue
		}
		for _, tag := range tags {
			out = append(out, TCustom{Module: c.Module, Name: c.Name, Variant: tag})
		}
	}
	return out
}

// UnderlyingResolver answers the underlying representation type of a
// custom type, for struct-literal-to-custom-type coercion.
type UnderlyingResolver interface {
	Underlying(module, name string) (T, bool)
}

// Coerce checks that a value of type `from` may be used where `to` is
// expected, returning the coercion's result type (== to on success).
func Coerce(from, to T, u UnderlyingResolver) (T, bool) {
	if Coercible(from, to) {
		return to, true
	}
	if c, ok := to.(TCustom); ok && u != nil {
		if underlying, found := u.Underlying(c.Module, c.Name); found {
			if Coercible(from, underlying) {
				return to, true
			}
		}
	}
	return nil, false
}

// Validate reports whether every leaf Object/Custom reference in t names
// a type known to r.
func Validate(t T, r Resolver) bool {
	switch v := t.(type) {
	case TObject:
		return r.HasObject(v.Name)
	case TCustom:
		return r.HasCustom(v.Module, v.Name)
	case TList:
		return Validate(v.Elem, r)
	case TTuple:
		for _, e := range v.Elems {
			if !Validate(e, r) {
				return false
			}
		}
		return true
	case TStruct:
		for _, f := range v.Fields {
			if !Validate(f.Type, r) {
				return false
			}
		}
		return true
	case TSum:
		for _, m := range v.Members {
			if !Validate(m, r) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
