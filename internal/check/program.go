// Package check implements the semantic analyser: module resolution,
// symbol gathering, syntactic-to-semantic type resolution, bidirectional
// type checking with coercions and match refinement, and exhaustiveness /
// reachability checking. It produces a *Program the evaluator and ILP
// builder consume.
package check

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/schema"
	"github.com/collomatique/colloml-go/internal/types"
)

// SymbolKind classifies one entry of a module's symbol table.
type SymbolKind int

const (
	SymFunc SymbolKind = iota
	SymType
	SymEnum
	SymVariable
	SymVariableList
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunc:
		return "function"
	case SymType:
		return "type"
	case SymEnum:
		return "enum"
	case SymVariable:
		return "variable"
	case SymVariableList:
		return "variable-list"
	default:
		return "unknown"
	}
}

// FuncKey identifies a function by its defining module and local name.
type FuncKey struct{ Module, Name string }

// CustomKey identifies a `type`/`enum` declaration by module and name.
type CustomKey struct{ Module, Name string }

// ReifiedKey identifies a reified variable (scalar or list) by the module
// it was declared in and its `$Name` identifier.
type ReifiedKey struct{ Module, Name string }

// FuncInfo is one entry of the checked program's function table.
type FuncInfo struct {
	Module     string
	Name       string
	ArgNames   []string
	ArgTypes   types.ArgsType
	ReturnType types.T
	Body       ast.Expr
	Pub        bool
	Docstring  string
	Span       ast.Span
}

// CustomTypeInfo is one entry of the checked program's custom-type table. A
// plain `type Name = T;` alias has IsEnum false and a single Underlying
// type; an `enum Name = V1(T1) | V2 | ...;` has IsEnum true, one tag per
// Variants entry, and VariantPayload holding each tag's (possibly nil)
// payload type.
type CustomTypeInfo struct {
	Module         string
	Name           string
	Underlying     types.T
	Pub            bool
	IsEnum         bool
	Variants       []string
	VariantPayload map[string]types.T
	Span           ast.Span
}

// ReifiedInfo is one entry of the reified-variable (or reified-variable-
// list) table: a `$Name` occurrence dispatches to Function with the
// argument types Function itself declares.
type ReifiedInfo struct {
	Module   string
	Name     string
	Function FuncKey
	ArgTypes types.ArgsType
	Pub      bool
	IsList   bool
	Span     ast.Span
}

// VariantRef names one resolved enum-variant constructor: the enum's
// declaring module and name, plus the tag itself.
type VariantRef struct{ Module, Name, Variant string }

// VarTarget is what a `$V(args)`/`$[V](args)` occurrence resolved to.
// Reified is non-nil when V is backed by a ColloML function (declared
// via `reify ... as $V;`); it is nil for a variable family registered
// only through the caller-supplied external VariableSchema, which has
// no function body to evaluate.
type VarTarget struct {
	Name    string
	Reified *ReifiedInfo
}

// StructLitKind classifies what one `TypeName { ... }` literal builds:
// the grammar is shared by enum-variant construction, object
// construction, and coercion into a struct-backed type alias.
type StructLitKind int

const (
	StructPlain StructLitKind = iota
	StructVariantCtor
	StructObjectCtor
	StructAliasCtor
)

// StructLitInfo records how one struct-literal span was disambiguated.
type StructLitInfo struct {
	Kind    StructLitKind
	Module  string
	Name    string
	Variant string
}

// Program is the checked program: every table described in spec §3,
// produced once by Check and safe for concurrent read-only use by many
// Eval calls. Alongside the signature tables, it also caches every
// name-resolution decision the checker made, keyed by the resolving
// expression's span (Span.String()) — the evaluator looks these up
// instead of re-running module/import resolution at runtime.
type Program struct {
	Modules      []string
	Objects      schema.ObjectSchema
	Variables    schema.VariableSchema
	Functions    map[FuncKey]*FuncInfo
	CustomTypes  map[CustomKey]*CustomTypeInfo
	Reified      map[ReifiedKey]*ReifiedInfo
	ReifiedLists map[ReifiedKey]*ReifiedInfo
	Symbols      map[string]map[string]SymbolKind
	SpanTypes    map[string]types.T

	CallTargets     map[string]FuncKey
	VarTargets      map[string]VarTarget
	VarListTargets  map[string]VarTarget
	IdentVariants   map[string]VariantRef
	CastVariants    map[string]VariantRef
	StructLits      map[string]StructLitInfo
	PatternVariants map[string]VariantRef
	PatternTypes    map[string]types.T
}

// HasObject implements types.Resolver.
func (p *Program) HasObject(name string) bool { return p.Objects.HasObject(name) }

// HasCustom implements types.Resolver.
func (p *Program) HasCustom(module, name string) bool {
	_, ok := p.CustomTypes[CustomKey{Module: module, Name: name}]
	return ok
}

// Underlying implements types.UnderlyingResolver.
func (p *Program) Underlying(module, name string) (types.T, bool) {
	c, ok := p.CustomTypes[CustomKey{Module: module, Name: name}]
	if !ok {
		return nil, false
	}
	return c.Underlying, true
}

// variantsOf implements the callback types.SetVariantResolver installs:
// a bare enum-root reference expands to its tagged variants.
func (p *Program) variantsOf(module, name string) []string {
	c, ok := p.CustomTypes[CustomKey{Module: module, Name: name}]
	if !ok || !c.IsEnum {
		return nil
	}
	return c.Variants
}

// LookupFunc resolves a function by module and name.
func (p *Program) LookupFunc(module, name string) (*FuncInfo, bool) {
	f, ok := p.Functions[FuncKey{Module: module, Name: name}]
	return f, ok
}

// LookupReified resolves a scalar reified variable by module and name.
func (p *Program) LookupReified(module, name string) (*ReifiedInfo, bool) {
	r, ok := p.Reified[ReifiedKey{Module: module, Name: name}]
	return r, ok
}

// LookupReifiedList resolves a reified variable-list by module and name.
func (p *Program) LookupReifiedList(module, name string) (*ReifiedInfo, bool) {
	r, ok := p.ReifiedLists[ReifiedKey{Module: module, Name: name}]
	return r, ok
}
