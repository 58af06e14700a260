package check

import (
	"sort"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
)

// moduleUnit is one parsed module plus its import-resolution state, built
// up across the gather and resolve passes before any body is type-checked.
type moduleUnit struct {
	name string
	file *ast.File

	// locals holds every symbol this module itself declares, keyed by its
	// bare name, regardless of visibility.
	locals map[string]SymbolKind
	// pub records which locals are declared `pub`.
	pub map[string]bool

	// aliasImports is `as ident` imports: alias -> target module name.
	aliasImports map[string]string
	// wildcardImports is `as *` imports: the list of target module names.
	wildcardImports []string
}

// resolveModules follows each gathered module's import edges, detects
// import cycles via DFS, and returns modules in a deterministic
// (sorted-by-name) order. Cyclic imports are a SEM005 error per module
// pair on the cycle.
func resolveModules(units map[string]*moduleUnit) (order []string, errs []*colloerr.Report) {
	names := make([]string, 0, len(units))
	for n := range units {
		names = append(names, n)
	}
	sort.Strings(names)

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		if u, ok := units[name]; ok {
			var deps []string
			for _, target := range u.aliasImports {
				deps = append(deps, target)
			}
			deps = append(deps, u.wildcardImports...)
			for _, dep := range deps {
				switch color[dep] {
				case gray:
					errs = append(errs, colloerr.New("check", colloerr.SEM005,
						"cyclic module import involving "+name+" and "+dep, ast.Span{Module: name}))
				case white:
					visit(dep)
				}
			}
		}
		color[name] = black
	}
	for _, n := range names {
		if color[n] == white {
			visit(n)
		}
	}
	return names, errs
}

// gatherModule registers every top-level declaration of one file into a
// fresh moduleUnit, reporting SEM002 on a local duplicate definition. It
// only records the file's imports; they are followed across modules by
// resolveModules, resolveIdent and resolveQualified.
func gatherModule(name string, file *ast.File) (*moduleUnit, []*colloerr.Report) {
	u := &moduleUnit{
		name:         name,
		file:         file,
		locals:       map[string]SymbolKind{},
		pub:          map[string]bool{},
		aliasImports: map[string]string{},
	}
	var errs []*colloerr.Report
	declare := func(symName string, kind SymbolKind, pub bool, sp ast.Span) {
		if _, dup := u.locals[symName]; dup {
			errs = append(errs, colloerr.New("check", colloerr.SEM002,
				"duplicate definition of "+symName+" in module "+name, sp))
			return
		}
		u.locals[symName] = kind
		u.pub[symName] = pub
	}
	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ast.LetDecl:
			declare(decl.Name, SymFunc, decl.Pub, decl.Span)
		case *ast.TypeDecl:
			declare(decl.Name, SymType, decl.Pub, decl.Span)
		case *ast.EnumDecl:
			declare(decl.Name, SymEnum, decl.Pub, decl.Span)
		case *ast.ReifyDecl:
			if decl.IsList {
				declare(decl.VarName, SymVariableList, decl.Pub, decl.Span)
			} else {
				declare(decl.VarName, SymVariable, decl.Pub, decl.Span)
			}
		case *ast.ImportDecl:
			if decl.Wildcard {
				u.wildcardImports = append(u.wildcardImports, decl.ModulePath)
			} else {
				if existing, dup := u.aliasImports[decl.Alias]; dup && existing != decl.ModulePath {
					errs = append(errs, colloerr.New("check", colloerr.SEM002,
						"duplicate import alias "+decl.Alias, decl.Span))
				}
				u.aliasImports[decl.Alias] = decl.ModulePath
			}
		}
	}
	return u, errs
}

// resolveIdent resolves a bare identifier reference from within module m,
// against the global unit table, searching locals first (own locals are
// visible regardless of visibility) and then wildcard imports' PUBLIC
// symbols only (conflicting wildcard exports are a SEM004 error).
// kindFilter restricts the search to a single symbol category.
func resolveIdent(units map[string]*moduleUnit, m *moduleUnit, name string, kindFilter SymbolKind, sp ast.Span) (module string, err *colloerr.Report) {
	if kind, ok := m.locals[name]; ok && kind == kindFilter {
		return m.name, nil
	}
	var foundIn []string
	for _, wm := range m.wildcardImports {
		other, ok := units[wm]
		if !ok {
			continue
		}
		if kind, ok := other.locals[name]; ok && kind == kindFilter && other.pub[name] {
			foundIn = append(foundIn, wm)
		}
	}
	switch len(foundIn) {
	case 0:
		return "", colloerr.New("check", colloerr.SEM001, "unknown "+kindFilter.String()+" "+name, sp)
	case 1:
		return foundIn[0], nil
	default:
		return "", colloerr.New("check", colloerr.SEM004,
			"symbol "+name+" is exported by multiple wildcard imports", sp)
	}
}

// resolveAlias resolves `alias.name` (value) or `alias::Name` (type)
// qualification to the target module name declared by an `as alias`
// import in m.
func resolveAlias(m *moduleUnit, alias string, sp ast.Span) (module string, err *colloerr.Report) {
	target, ok := m.aliasImports[alias]
	if !ok {
		return "", colloerr.New("check", colloerr.SEM001, "unknown module alias "+alias, sp)
	}
	return target, nil
}

// resolveQualified resolves `alias::name` (or `alias.name`) to the target
// module, requiring that module to both declare name with kindFilter and
// mark it pub — any other module's private symbols are a SEM003 breach.
func resolveQualified(units map[string]*moduleUnit, m *moduleUnit, alias, name string, kindFilter SymbolKind, sp ast.Span) (module string, err *colloerr.Report) {
	target, err := resolveAlias(m, alias, sp)
	if err != nil {
		return "", err
	}
	other, ok := units[target]
	if !ok {
		return "", colloerr.New("check", colloerr.SEM001, "unknown module "+target, sp)
	}
	kind, ok := other.locals[name]
	if !ok || kind != kindFilter {
		return "", colloerr.New("check", colloerr.SEM001,
			"unknown "+kindFilter.String()+" "+name+" in module "+target, sp)
	}
	if !other.pub[name] {
		return "", colloerr.New("check", colloerr.SEM003,
			kindFilter.String()+" "+name+" in module "+target+" is private", sp)
	}
	return target, nil
}
