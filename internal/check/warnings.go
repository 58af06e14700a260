package check

import (
	"sort"
	"strings"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
)

// usageTracker accumulates which signature-table entries were referenced
// by some function body, across every module's checkBodies pass, so
// collectWarnings can flag private symbols nothing ever used.
type usageTracker struct {
	funcs   map[FuncKey]bool
	types   map[CustomKey]bool
	reified map[ReifiedKey]bool
}

// collectWarnings implements spec §4.C.5: unused private symbols (names
// starting with `_` are exempt) are reported. A reified variable counts
// as used when either the `$Name`/`$[Name]` occurrence itself, or its
// backing function directly, was referenced.
func collectWarnings(prog *Program, units map[string]*moduleUnit, usage *usageTracker) []colloerr.Warning {
	var warnings []colloerr.Warning

	for _, modName := range prog.Modules {
		u := units[modName]
		for _, d := range u.file.Decls {
			switch decl := d.(type) {
			case *ast.LetDecl:
				if decl.Pub || isExempt(decl.Name) {
					continue
				}
				if !usage.funcs[FuncKey{Module: modName, Name: decl.Name}] {
					warnings = append(warnings, colloerr.Warning{
						Kind: colloerr.UnusedSymbol, Message: "unused function " + decl.Name, Span: decl.Span,
					})
				}
			case *ast.TypeDecl:
				if decl.Pub || isExempt(decl.Name) {
					continue
				}
				if !usage.types[CustomKey{Module: modName, Name: decl.Name}] {
					warnings = append(warnings, colloerr.Warning{
						Kind: colloerr.UnusedSymbol, Message: "unused type " + decl.Name, Span: decl.Span,
					})
				}
			case *ast.EnumDecl:
				if decl.Pub || isExempt(decl.Name) {
					continue
				}
				if !usage.types[CustomKey{Module: modName, Name: decl.Name}] {
					warnings = append(warnings, colloerr.Warning{
						Kind: colloerr.UnusedSymbol, Message: "unused enum " + decl.Name, Span: decl.Span,
					})
				}
			case *ast.ReifyDecl:
				if decl.Pub || isExempt(decl.VarName) {
					continue
				}
				key := ReifiedKey{Module: modName, Name: decl.VarName}
				if !usage.reified[key] && !usage.funcs[FuncKey{Module: modName, Name: decl.Function}] {
					warnings = append(warnings, colloerr.Warning{
						Kind: colloerr.UnusedSymbol, Message: "unused reified variable $" + decl.VarName, Span: decl.Span,
					})
				}
			}
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		si, sj := warnings[i].Span, warnings[j].Span
		if si.Module != sj.Module {
			return si.Module < sj.Module
		}
		return si.Offset < sj.Offset
	})
	return warnings
}

func isExempt(name string) bool {
	return strings.HasPrefix(name, "_")
}
