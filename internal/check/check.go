package check

import (
	"context"
	"sort"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/parser"
	"github.com/collomatique/colloml-go/internal/schema"
	"github.com/collomatique/colloml-go/internal/types"
)

// Check runs every phase of the semantic analyser over sources (module
// name -> source text) against the caller-provided schemas: parsing,
// module/import resolution, symbol gathering, type resolution of every
// declared signature, bidirectional body checking, and warning
// collection. A non-nil *Program is only ever returned alongside an empty
// error slice, per spec §7's "no checked program on any checker error".
func Check(ctx context.Context, sources map[string]string, objSchema schema.ObjectSchema, varSchema schema.VariableSchema) (*Program, []colloerr.Warning, []colloerr.Report) {
	if err := ctx.Err(); err != nil {
		return nil, nil, []colloerr.Report{*colloerr.New("check", colloerr.EVA004, err.Error(), ast.Span{})}
	}

	var errs []*colloerr.Report

	files := make(map[string]*ast.File, len(sources))
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file, perrs := parser.ParseFile(sources[name], name)
		files[name] = file
		errs = append(errs, perrs...)
	}
	if len(errs) > 0 {
		return nil, nil, derefAll(errs)
	}

	units := make(map[string]*moduleUnit, len(files))
	for _, name := range names {
		u, gerrs := gatherModule(name, files[name])
		units[name] = u
		errs = append(errs, gerrs...)
	}
	order, rerrs := resolveModules(units)
	errs = append(errs, rerrs...)
	if len(errs) > 0 {
		return nil, nil, derefAll(errs)
	}

	prog := &Program{
		Modules:      order,
		Objects:      objSchema,
		Variables:    varSchema,
		Functions:    map[FuncKey]*FuncInfo{},
		CustomTypes:  map[CustomKey]*CustomTypeInfo{},
		Reified:      map[ReifiedKey]*ReifiedInfo{},
		ReifiedLists: map[ReifiedKey]*ReifiedInfo{},
		Symbols:      map[string]map[string]SymbolKind{},
		SpanTypes:    map[string]types.T{},

		CallTargets:     map[string]FuncKey{},
		VarTargets:      map[string]VarTarget{},
		VarListTargets:  map[string]VarTarget{},
		IdentVariants:   map[string]VariantRef{},
		CastVariants:    map[string]VariantRef{},
		StructLits:      map[string]StructLitInfo{},
		PatternVariants: map[string]VariantRef{},
		PatternTypes:    map[string]types.T{},
	}
	for name, u := range units {
		prog.Symbols[name] = u.locals
	}

	tr := &typeResolver{units: units, objects: objSchema}
	for _, name := range order {
		errs = append(errs, gatherSignatures(prog, tr, units[name], files[name])...)
	}
	if len(errs) > 0 {
		return nil, nil, derefAll(errs)
	}

	types.SetVariantResolver(prog.variantsOf)

	usage := &usageTracker{
		funcs:   map[FuncKey]bool{},
		types:   map[CustomKey]bool{},
		reified: map[ReifiedKey]bool{},
	}
	for _, name := range order {
		errs = append(errs, checkBodies(prog, units, units[name], usage)...)
	}
	if len(errs) > 0 {
		return nil, nil, derefAll(errs)
	}

	warnings := collectWarnings(prog, units, usage)
	return prog, warnings, nil
}

func derefAll(errs []*colloerr.Report) []colloerr.Report {
	out := make([]colloerr.Report, len(errs))
	for i, e := range errs {
		out[i] = *e
	}
	return out
}

// gatherSignatures resolves every declaration's syntactic types into the
// program's signature tables (Functions, CustomTypes, Reified,
// ReifiedLists) without touching any function body.
func gatherSignatures(prog *Program, tr *typeResolver, m *moduleUnit, file *ast.File) []*colloerr.Report {
	var errs []*colloerr.Report
	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ast.LetDecl:
			argTypes := make(types.ArgsType, len(decl.Params))
			argNames := make([]string, len(decl.Params))
			for i, param := range decl.Params {
				t, err := tr.resolve(m, param.Type)
				if err != nil {
					errs = append(errs, err)
					t = types.TNever{}
				}
				argTypes[i] = t
				argNames[i] = param.Name
			}
			ret, err := tr.resolve(m, decl.ReturnType)
			if err != nil {
				errs = append(errs, err)
				ret = types.TNever{}
			}
			prog.Functions[FuncKey{Module: m.name, Name: decl.Name}] = &FuncInfo{
				Module: m.name, Name: decl.Name, ArgNames: argNames, ArgTypes: argTypes,
				ReturnType: ret, Body: decl.Body, Pub: decl.Pub, Docstring: decl.Docstring, Span: decl.Span,
			}
		case *ast.TypeDecl:
			underlying, err := tr.resolve(m, decl.Underlying)
			if err != nil {
				errs = append(errs, err)
				underlying = types.TNever{}
			}
			prog.CustomTypes[CustomKey{Module: m.name, Name: decl.Name}] = &CustomTypeInfo{
				Module: m.name, Name: decl.Name, Underlying: underlying, Pub: decl.Pub, Span: decl.Span,
			}
		case *ast.EnumDecl:
			variants := make([]string, len(decl.Variants))
			payloads := make(map[string]types.T, len(decl.Variants))
			for i, v := range decl.Variants {
				variants[i] = v.Name
				if v.Payload != nil {
					pt, err := tr.resolve(m, v.Payload)
					if err != nil {
						errs = append(errs, err)
						pt = types.TNever{}
					}
					payloads[v.Name] = pt
				}
			}
			prog.CustomTypes[CustomKey{Module: m.name, Name: decl.Name}] = &CustomTypeInfo{
				Module: m.name, Name: decl.Name, Pub: decl.Pub, IsEnum: true,
				Variants: variants, VariantPayload: payloads, Span: decl.Span,
			}
		case *ast.ReifyDecl:
			fn, ok := prog.Functions[FuncKey{Module: m.name, Name: decl.Function}]
			if !ok {
				errs = append(errs, colloerr.New("check", colloerr.SEM001,
					"reify refers to unknown function "+decl.Function, decl.Span))
				continue
			}
			if err := checkReifyReturnType(fn.ReturnType, decl.IsList, decl.Span); err != nil {
				errs = append(errs, err)
			}
			ri := &ReifiedInfo{
				Module: m.name, Name: decl.VarName,
				Function: FuncKey{Module: m.name, Name: decl.Function},
				ArgTypes: fn.ArgTypes, Pub: decl.Pub, IsList: decl.IsList, Span: decl.Span,
			}
			if decl.IsList {
				prog.ReifiedLists[ReifiedKey{Module: m.name, Name: decl.VarName}] = ri
			} else {
				prog.Reified[ReifiedKey{Module: m.name, Name: decl.VarName}] = ri
			}
		}
	}
	return errs
}

// checkReifyReturnType enforces spec §4.C's "reified function's return
// type is not Constraint/[Constraint]/LinExpr" failure mode.
func checkReifyReturnType(ret types.T, isList bool, sp ast.Span) *colloerr.Report {
	if isList {
		lt, ok := ret.(types.TList)
		if _, isConstraint := lt.Elem.(types.TConstraint); !ok || !isConstraint {
			return colloerr.New("check", colloerr.TYP004, "reified list function must return [Constraint], found "+ret.String(), sp)
		}
		return nil
	}
	if !isConstraintLike(ret) {
		return colloerr.New("check", colloerr.TYP004, "reified function must return Constraint or LinExpr, found "+ret.String(), sp)
	}
	return nil
}

func isConstraintLike(t types.T) bool {
	switch t.(type) {
	case types.TConstraint, types.TLinExpr:
		return true
	default:
		return false
	}
}

// checkBodies type-checks every function declared in m's source file
// against the program-wide signature tables already gathered.
func checkBodies(prog *Program, units map[string]*moduleUnit, m *moduleUnit, usage *usageTracker) []*colloerr.Report {
	var errs []*colloerr.Report
	tr := &typeResolver{units: units, objects: prog.Objects}
	for _, d := range m.file.Decls {
		decl, ok := d.(*ast.LetDecl)
		if !ok {
			continue
		}
		fn := prog.Functions[FuncKey{Module: m.name, Name: decl.Name}]
		locals := make(map[string]types.T, len(fn.ArgTypes))
		for i, name := range fn.ArgNames {
			locals[name] = fn.ArgTypes[i]
		}
		bc := &bodyChecker{
			prog: prog, units: units, m: m, tr: tr, locals: locals,
			usedFuncs: usage.funcs, usedTypes: usage.types, usedReified: usage.reified,
		}
		got := bc.infer(decl.Body)
		if _, ok := types.Coerce(got, fn.ReturnType, prog); !ok {
			bc.errs = append(bc.errs, colloerr.New("check", colloerr.TYP001,
				"function "+decl.Name+" returns "+got.String()+", declared "+fn.ReturnType.String(), decl.Span))
		}
		errs = append(errs, bc.errs...)
	}
	return errs
}
