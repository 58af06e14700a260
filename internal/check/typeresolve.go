package check

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/schema"
	"github.com/collomatique/colloml-go/internal/types"
)

// primitiveTypes maps the handful of reserved type keywords to their
// semantic type. Anything else in a NamedType is an object name or a
// custom type name, resolved against the schema and the module table.
var primitiveTypes = map[string]types.T{
	"Never":      types.TNever{},
	"None":       types.TNone{},
	"Bool":       types.TBool{},
	"Int":        types.TInt{},
	"LinExpr":    types.TLinExpr{},
	"Constraint": types.TConstraint{},
	"String":     types.TString{},
}

// typeResolver converts the syntactic types a module's declarations spell
// out into the semantic types.T the checker reasons about, resolving bare
// and qualified custom-type names against the module table built by
// gatherModule.
type typeResolver struct {
	units   map[string]*moduleUnit
	objects schema.ObjectSchema
}

// resolve converts one syntactic type, read from module m, into its
// semantic type.
func (tr *typeResolver) resolve(m *moduleUnit, texpr ast.TypeExpr) (types.T, *colloerr.Report) {
	switch t := texpr.(type) {
	case *ast.NamedType:
		return tr.resolveNamed(m, t)
	case *ast.QualifiedType:
		return tr.resolveQualifiedType(m, t)
	case *ast.ListType:
		elem, err := tr.resolve(m, t.Elem)
		if err != nil {
			return nil, err
		}
		return types.TList{Elem: elem}, nil
	case *ast.TupleType:
		elems := make([]types.T, len(t.Elements))
		for i, e := range t.Elements {
			et, err := tr.resolve(m, e)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return types.TTuple{Elems: elems}, nil
	case *ast.StructType:
		fields := make(map[string]types.T, len(t.Fields))
		for _, f := range t.Fields {
			ft, err := tr.resolve(m, f.Type)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = ft
		}
		return types.NewStruct(fields), nil
	case *ast.UnionType:
		members := make([]types.T, len(t.Members))
		for i, mt := range t.Members {
			one, err := tr.resolve(m, mt)
			if err != nil {
				return nil, err
			}
			members[i] = one
		}
		return types.NewSum(members...), nil
	default:
		return nil, colloerr.New("check", colloerr.SEM006, "unrecognised type expression", texpr.Loc())
	}
}

func (tr *typeResolver) resolveNamed(m *moduleUnit, t *ast.NamedType) (types.T, *colloerr.Report) {
	if prim, ok := primitiveTypes[t.Name]; ok {
		return prim, nil
	}
	if tr.objects.HasObject(t.Name) {
		return types.TObject{Name: t.Name}, nil
	}
	if kind, ok := m.locals[t.Name]; ok && (kind == SymType || kind == SymEnum) {
		return types.TCustom{Module: m.name, Name: t.Name}, nil
	}
	if mod, err := resolveIdent(tr.units, m, t.Name, SymType, t.Span); err == nil {
		return types.TCustom{Module: mod, Name: t.Name}, nil
	}
	if mod, err := resolveIdent(tr.units, m, t.Name, SymEnum, t.Span); err == nil {
		return types.TCustom{Module: mod, Name: t.Name}, nil
	}
	return nil, colloerr.New("check", colloerr.SEM006, "unknown type "+t.Name, t.Span)
}

func (tr *typeResolver) resolveQualifiedType(m *moduleUnit, t *ast.QualifiedType) (types.T, *colloerr.Report) {
	if mod, err := resolveQualified(tr.units, m, t.Module, t.Name, SymType, t.Span); err == nil {
		return types.TCustom{Module: mod, Name: t.Name}, nil
	}
	mod, err := resolveQualified(tr.units, m, t.Module, t.Name, SymEnum, t.Span)
	if err != nil {
		return nil, err
	}
	return types.TCustom{Module: mod, Name: t.Name}, nil
}
