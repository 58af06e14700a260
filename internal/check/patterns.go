package check

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/types"
)

// intersect computes a ∩ b via two Subtracts: Subtract(a, Subtract(a, b))
// removes from a everything not in b, leaving exactly the overlap.
func intersect(a, b types.T) types.T {
	return types.Subtract(a, types.Subtract(a, b))
}

func isNever(t types.T) bool {
	_, ok := t.(types.TNever)
	return ok
}

// inferMatch implements spec §4.C.4's match-refinement rule: each arm
// narrows the scrutinee's remaining type, the union of every arm's
// narrowed subset must equal the scrutinee type (exhaustiveness, TYP002),
// and no two arms may claim the same subset (reachability, TYP003).
func (c *bodyChecker) inferMatch(v *ast.MatchExpr) types.T {
	scrutinee := c.infer(v.Scrutinee)
	remaining := scrutinee
	var result types.T
	haveResult := false

	for _, arm := range v.Arms {
		refined, bound, partitions, err := c.refinePattern(arm.Pattern, remaining)
		if err != nil {
			c.errs = append(c.errs, err)
		}
		if isNever(intersect(remaining, refined)) && !isNever(refined) {
			c.fail(colloerr.TYP003, "unreachable match branch: "+refined.String()+" is already covered", arm.Span)
		}
		if partitions {
			remaining = types.Subtract(remaining, refined)
		}

		saved := map[string]types.T{}
		hadSaved := map[string]bool{}
		for name, t := range bound {
			if prev, had := c.locals[name]; had {
				saved[name] = prev
				hadSaved[name] = true
			}
			c.locals[name] = t
		}
		if arm.Where != nil {
			c.expect(arm.Where, types.TBool{}, "match guard")
		}
		bodyT := c.infer(arm.Body)
		for name := range bound {
			if hadSaved[name] {
				c.locals[name] = saved[name]
			} else {
				delete(c.locals, name)
			}
		}
		if !haveResult {
			result, haveResult = bodyT, true
		} else if u, ok := types.Unify(result, bodyT); ok {
			result = u
		} else {
			c.fail(colloerr.TYP001, "match arms disagree: "+result.String()+" vs "+bodyT.String(), arm.Span)
		}
	}

	if !isNever(remaining) {
		c.fail(colloerr.TYP002, "non-exhaustive match: "+remaining.String()+" not covered", v.Span)
	}
	if !haveResult {
		return c.record(v.Span, types.TNever{})
	}
	return c.record(v.Span, result)
}

// refinePattern computes the semantic subset pat claims out of remaining,
// the set of names it binds (each mapped to its bound type), and whether
// that subset should be subtracted from remaining for exhaustiveness
// purposes. A nil error with a TNever refinement means the pattern
// requested a subset wholly outside remaining (flagged as unreachable by
// the caller).
//
// Literal patterns match a single value, not a type: the checker's
// exhaustiveness model only tracks types, so a literal arm's type (e.g.
// Int for `0`) is used for its reachability check but never subtracted
// from remaining — otherwise matching one Int literal would wrongly mark
// every other Int value as covered.
func (c *bodyChecker) refinePattern(pat ast.Pattern, remaining types.T) (refined types.T, bound map[string]types.T, partitions bool, err *colloerr.Report) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return remaining, nil, true, nil
	case *ast.BindPattern:
		if p.Refinement == nil {
			return remaining, map[string]types.T{p.Name: remaining}, true, nil
		}
		refined, err := c.tr.resolve(c.m, p.Refinement)
		if err != nil {
			return types.TNever{}, nil, true, err
		}
		c.prog.PatternTypes[p.Span.String()] = refined
		return refined, map[string]types.T{p.Name: refined}, true, nil
	case *ast.LiteralPattern:
		lt := c.infer(p.Value)
		return lt, nil, false, nil
	case *ast.VariantPattern:
		refined, bound, err := c.refineVariantPattern(p, remaining)
		return refined, bound, true, err
	default:
		return types.TNever{}, nil, true, colloerr.New("check", colloerr.TYP001, "unsupported pattern", pat.Loc())
	}
}

func (c *bodyChecker) refineVariantPattern(p *ast.VariantPattern, remaining types.T) (types.T, map[string]types.T, *colloerr.Report) {
	ct, payload, err := c.resolveVariantPattern(p)
	if err != nil {
		return types.TNever{}, nil, err
	}
	refined := types.TCustom{Module: ct.Module, Name: ct.Name, Variant: p.Variant}
	c.prog.PatternVariants[p.Span.String()] = VariantRef{Module: ct.Module, Name: ct.Name, Variant: p.Variant}

	bound := map[string]types.T{}
	if p.Bind != "" {
		bound[p.Bind] = refined
	}
	if len(p.Fields) > 0 {
		st, ok := payload.(types.TStruct)
		if !ok {
			return refined, bound, colloerr.New("check", colloerr.TYP001,
				"variant "+p.Variant+" payload is not a record; cannot destructure", p.Span)
		}
		for _, fp := range p.Fields {
			ft, ok := st.Field(fp.Name)
			if !ok {
				return refined, bound, colloerr.New("check", colloerr.SEM001,
					"variant "+p.Variant+" has no field "+fp.Name, fp.Span)
			}
			c.bindSubPattern(fp.Pattern, ft, bound)
		}
	}
	return refined, bound, nil
}

// bindSubPattern binds the names a nested (non-top-level) pattern
// introduces, without performing its own exhaustiveness/reachability
// check — only a match arm's own top-level pattern is a partition of the
// scrutinee type; field sub-patterns only destructure and bind.
func (c *bodyChecker) bindSubPattern(pat ast.Pattern, ty types.T, out map[string]types.T) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
	case *ast.BindPattern:
		if p.Refinement != nil {
			if refined, err := c.tr.resolve(c.m, p.Refinement); err == nil {
				ty = refined
				c.prog.PatternTypes[p.Span.String()] = refined
			} else {
				c.errs = append(c.errs, err)
			}
		}
		out[p.Name] = ty
	case *ast.LiteralPattern:
		c.infer(p.Value)
	case *ast.VariantPattern:
		ct, payload, err := c.resolveVariantPattern(p)
		if err != nil {
			c.errs = append(c.errs, err)
			return
		}
		c.prog.PatternVariants[p.Span.String()] = VariantRef{Module: ct.Module, Name: ct.Name, Variant: p.Variant}
		if p.Bind != "" {
			out[p.Bind] = types.TCustom{Module: ct.Module, Name: ct.Name, Variant: p.Variant}
		}
		if len(p.Fields) > 0 {
			st, ok := payload.(types.TStruct)
			if !ok {
				c.errs = append(c.errs, colloerr.New("check", colloerr.TYP001,
					"variant "+p.Variant+" payload is not a record; cannot destructure", p.Span))
				return
			}
			for _, fp := range p.Fields {
				ft, ok := st.Field(fp.Name)
				if !ok {
					c.errs = append(c.errs, colloerr.New("check", colloerr.SEM001,
						"variant "+p.Variant+" has no field "+fp.Name, fp.Span))
					continue
				}
				c.bindSubPattern(fp.Pattern, ft, out)
			}
		}
	}
}

// resolveVariantPattern resolves a (possibly module- and root-qualified)
// variant pattern to its declaring CustomTypeInfo and payload type.
func (c *bodyChecker) resolveVariantPattern(p *ast.VariantPattern) (*CustomTypeInfo, types.T, *colloerr.Report) {
	var ct *CustomTypeInfo
	switch {
	case p.Module != "":
		mod, err := resolveQualified(c.units, c.m, p.Module, p.Root, SymEnum, p.Span)
		if err != nil {
			return nil, nil, err
		}
		ct = c.prog.CustomTypes[CustomKey{Module: mod, Name: p.Root}]
	case p.Root != "":
		if kind, ok := c.m.locals[p.Root]; ok && kind == SymEnum {
			ct = c.prog.CustomTypes[CustomKey{Module: c.m.name, Name: p.Root}]
		} else if mod, err := resolveIdent(c.units, c.m, p.Root, SymEnum, p.Span); err == nil {
			ct = c.prog.CustomTypes[CustomKey{Module: mod, Name: p.Root}]
		} else {
			return nil, nil, colloerr.New("check", colloerr.SEM001, "unknown enum "+p.Root, p.Span)
		}
	default:
		found, variant, ok := c.lookupVariantConstructor(p.Variant)
		if !ok {
			return nil, nil, colloerr.New("check", colloerr.SEM001, "unknown variant "+p.Variant, p.Span)
		}
		_ = variant
		ct = found
	}
	if ct == nil || !ct.IsEnum {
		return nil, nil, colloerr.New("check", colloerr.SEM006, "not an enum type", p.Span)
	}
	c.markType(CustomKey{Module: ct.Module, Name: ct.Name})
	found := false
	for _, tag := range ct.Variants {
		if tag == p.Variant {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, colloerr.New("check", colloerr.SEM001, "enum "+ct.Name+" has no variant "+p.Variant, p.Span)
	}
	return ct, ct.VariantPayload[p.Variant], nil
}
