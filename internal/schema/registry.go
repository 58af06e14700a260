// Package schema holds the two caller-provided schemas the checker and
// evaluator are parameterised over: the object-type schema (field shapes of
// domain entities reachable through `@[TypeName]`/`e.field`) and the
// external decision-variable schema (parameter-type signatures of variable
// families referenced through `$V(args)`). Both load from YAML documents,
// following the teacher's config-loading convention of driving internal
// registries from `gopkg.in/yaml.v3` documents rather than hand-built Go
// literals.
package schema

import (
	"fmt"
	"sort"

	"github.com/collomatique/colloml-go/internal/types"
	"gopkg.in/yaml.v3"
)

// ObjectSchema maps an object-type name to its field shape, as supplied by
// the embedding application (e.g. "Teacher" → {name: String, load: Int}).
type ObjectSchema struct {
	objects map[string]map[string]types.T
}

// objectDoc is the YAML document shape: object name -> field name -> type spec.
type objectDoc map[string]map[string]string

// ParseObjectSchema parses a YAML document of the form:
//
//	Teacher:
//	  name: String
//	  maxHours: Int
//	Course:
//	  title: String
//	  teacher: Teacher
func ParseObjectSchema(data []byte) (ObjectSchema, error) {
	var doc objectDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ObjectSchema{}, fmt.Errorf("schema: parsing object schema: %w", err)
	}
	objects := make(map[string]map[string]types.T, len(doc))
	for objName, fields := range doc {
		ft := make(map[string]types.T, len(fields))
		for fieldName, spec := range fields {
			t, err := parseTypeSpec(spec)
			if err != nil {
				return ObjectSchema{}, fmt.Errorf("schema: object %q field %q: %w", objName, fieldName, err)
			}
			ft[fieldName] = t
		}
		objects[objName] = ft
	}
	return ObjectSchema{objects: objects}, nil
}

// HasObject reports whether name is a registered object type. It satisfies
// types.Resolver so the type lattice can validate Object/Custom leaves.
func (s ObjectSchema) HasObject(name string) bool {
	_, ok := s.objects[name]
	return ok
}

// HasCustom always reports false: object-schema entries are never custom
// nominal types. The checker's program implements types.Resolver over
// both sources, answering HasCustom from its own custom types.
func (s ObjectSchema) HasCustom(module, name string) bool { return false }

// Field looks up the declared type of one field of object type name.
func (s ObjectSchema) Field(objectName, fieldName string) (types.T, bool) {
	fields, ok := s.objects[objectName]
	if !ok {
		return nil, false
	}
	t, ok := fields[fieldName]
	return t, ok
}

// Fields returns the full field map of an object type, for the checker's
// struct-literal check.
func (s ObjectSchema) Fields(objectName string) (map[string]types.T, bool) {
	fields, ok := s.objects[objectName]
	return fields, ok
}

// ObjectNames returns every registered object type name, sorted.
func (s ObjectSchema) ObjectNames() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VariableSchema maps an external decision-variable family name to its
// parameter-type signature, as supplied by the embedding application (e.g.
// "Assign" → [Teacher, Course, Int]).
type VariableSchema struct {
	variables map[string]types.ArgsType
}

type variableDoc map[string][]string

// ParseVariableSchema parses a YAML document of the form:
//
//	Assign:
//	  - Teacher
//	  - Course
//	  - Int
func ParseVariableSchema(data []byte) (VariableSchema, error) {
	var doc variableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return VariableSchema{}, fmt.Errorf("schema: parsing variable schema: %w", err)
	}
	vars := make(map[string]types.ArgsType, len(doc))
	for name, specs := range doc {
		args := make(types.ArgsType, 0, len(specs))
		for i, spec := range specs {
			t, err := parseTypeSpec(spec)
			if err != nil {
				return VariableSchema{}, fmt.Errorf("schema: variable %q arg %d: %w", name, i, err)
			}
			args = append(args, t)
		}
		vars[name] = args
	}
	return VariableSchema{variables: vars}, nil
}

// HasVariable reports whether name is a registered external variable family.
func (s VariableSchema) HasVariable(name string) bool {
	_, ok := s.variables[name]
	return ok
}

// ArgsOf returns the declared parameter-type signature of a variable family.
func (s VariableSchema) ArgsOf(name string) (types.ArgsType, bool) {
	args, ok := s.variables[name]
	return args, ok
}

// Names returns every registered variable family name, sorted.
func (s VariableSchema) Names() []string {
	names := make([]string, 0, len(s.variables))
	for name := range s.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
