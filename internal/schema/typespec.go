package schema

import (
	"fmt"
	"strings"

	"github.com/collomatique/colloml-go/internal/types"
)

// parseTypeSpec parses the small textual type grammar used in YAML object
// and variable schema documents: primitive keywords, `[T]` for lists, and a
// bare capitalised name for an object reference (the common case for
// scheduling-domain params like "Student" or "Course").
func parseTypeSpec(spec string) (types.T, error) {
	spec = strings.TrimSpace(spec)
	switch spec {
	case "Int":
		return types.TInt{}, nil
	case "Bool":
		return types.TBool{}, nil
	case "String":
		return types.TString{}, nil
	case "None":
		return types.TNone{}, nil
	case "LinExpr":
		return types.TLinExpr{}, nil
	case "Constraint":
		return types.TConstraint{}, nil
	}
	if strings.HasPrefix(spec, "[") && strings.HasSuffix(spec, "]") {
		elem, err := parseTypeSpec(spec[1 : len(spec)-1])
		if err != nil {
			return nil, err
		}
		return types.TList{Elem: elem}, nil
	}
	if strings.HasPrefix(spec, "Custom(") && strings.HasSuffix(spec, ")") {
		inner := spec[len("Custom(") : len(spec)-1]
		parts := strings.Split(inner, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch len(parts) {
		case 2:
			return types.TCustom{Module: parts[0], Name: parts[1]}, nil
		case 3:
			return types.TCustom{Module: parts[0], Name: parts[1], Variant: parts[2]}, nil
		default:
			return nil, fmt.Errorf("schema: Custom(...) expects 2 or 3 comma-separated parts, got %q", spec)
		}
	}
	if spec == "" {
		return nil, fmt.Errorf("schema: empty type spec")
	}
	if spec[0] >= 'A' && spec[0] <= 'Z' {
		return types.TObject{Name: spec}, nil
	}
	return nil, fmt.Errorf("schema: unrecognised type spec %q", spec)
}

// renderTypeSpec is the inverse of parseTypeSpec: it renders a type back
// into the schema documents' textual type grammar. Nothing in the module
// calls it.
func renderTypeSpec(t types.T) string {
	switch v := t.(type) {
	case types.TList:
		return "[" + renderTypeSpec(v.Elem) + "]"
	case types.TCustom:
		if v.Variant != "" {
			return fmt.Sprintf("Custom(%s, %s, %s)", v.Module, v.Name, v.Variant)
		}
		return fmt.Sprintf("Custom(%s, %s)", v.Module, v.Name)
	case types.TObject:
		return v.Name
	default:
		return t.String()
	}
}
