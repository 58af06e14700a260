// Package ast defines the concrete syntax tree produced by the ColloML
// parser: expressions, declarations, type expressions and patterns, each
// carrying the source span it was parsed from.
package ast

import "fmt"

// Span identifies a byte range within one named source module.
type Span struct {
	Module string
	Offset int
	Length int
}

func (s Span) String() string {
	return fmt.Sprintf("%s@%d+%d", s.Module, s.Offset, s.Length)
}

// End returns the offset just past the span.
func (s Span) End() int { return s.Offset + s.Length }

// Join returns the smallest span covering both s and other. Both must
// belong to the same module.
func (s Span) Join(other Span) Span {
	start := s.Offset
	if other.Offset < start {
		start = other.Offset
	}
	end := s.End()
	if other.End() > end {
		end = other.End()
	}
	return Span{Module: s.Module, Offset: start, Length: end - start}
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Loc() Span
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is implemented by every syntactic type node.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Pattern is implemented by every match-pattern node.
type Pattern interface {
	Node
	patternNode()
}

// Decl is implemented by every top-level declaration.
type Decl interface {
	Node
	declNode()
}

// File is one parsed module: an ordered list of top-level declarations.
type File struct {
	Decls []Decl
	Span  Span
}

func (f *File) Loc() Span { return f.Span }

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// Param is one function/variable-family parameter.
type Param struct {
	Name string
	Type TypeExpr
	Span Span
}

// LetDecl is `[pub] let name(params) -> type = expr;`.
type LetDecl struct {
	Pub        bool
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Body       Expr
	Docstring  string
	Span       Span
}

func (d *LetDecl) Loc() Span { return d.Span }
func (d *LetDecl) declNode() {}

// TypeDecl is `[pub] type Name = type;`.
type TypeDecl struct {
	Pub        bool
	Name       string
	Underlying TypeExpr
	Docstring  string
	Span       Span
}

func (d *TypeDecl) Loc() Span { return d.Span }
func (d *TypeDecl) declNode() {}

// EnumVariant is one `Name` or `Name(Type)` alternative of an enum.
type EnumVariant struct {
	Name    string
	Payload TypeExpr // nil for a bare tag
	Span    Span
}

// EnumDecl is `[pub] enum Name = Variant (| Variant)*;`.
type EnumDecl struct {
	Pub       bool
	Name      string
	Variants  []EnumVariant
	Docstring string
	Span      Span
}

func (d *EnumDecl) Loc() Span { return d.Span }
func (d *EnumDecl) declNode() {}

// ReifyDecl is `[pub] reify fn as $Name;` or `reify fn as $[Name];`.
type ReifyDecl struct {
	Pub      bool
	Function string
	VarName  string
	IsList   bool
	Span     Span
}

func (d *ReifyDecl) Loc() Span { return d.Span }
func (d *ReifyDecl) declNode() {}

// ImportDecl is `import "module" as ident;` or `import "module" as *;`.
type ImportDecl struct {
	ModulePath string
	Alias      string // "*" denotes a wildcard merge-import
	Wildcard   bool
	Span       Span
}

func (d *ImportDecl) Loc() Span { return d.Span }
func (d *ImportDecl) declNode() {}

// ---------------------------------------------------------------------
// Type expressions
// ---------------------------------------------------------------------

// NamedType is a bare identifier type reference: a primitive, an object
// name, or an unqualified custom-type name.
type NamedType struct {
	Name string
	Span Span
}

func (t *NamedType) Loc() Span     { return t.Span }
func (t *NamedType) typeExprNode() {}

// QualifiedType is `Module::Name`, referencing a type exported by an
// imported module.
type QualifiedType struct {
	Module string
	Name   string
	Span   Span
}

func (t *QualifiedType) Loc() Span     { return t.Span }
func (t *QualifiedType) typeExprNode() {}

// ListType is `[T]`.
type ListType struct {
	Elem TypeExpr
	Span Span
}

func (t *ListType) Loc() Span     { return t.Span }
func (t *ListType) typeExprNode() {}

// TupleType is `(T1, T2, ...)` with at least two elements.
type TupleType struct {
	Elements []TypeExpr
	Span     Span
}

func (t *TupleType) Loc() Span     { return t.Span }
func (t *TupleType) typeExprNode() {}

// FieldType is one `name: Type` member of a structural record type.
type FieldType struct {
	Name string
	Type TypeExpr
	Span Span
}

// StructType is `{ f1: T1, f2: T2, ... }`.
type StructType struct {
	Fields []FieldType
	Span   Span
}

func (t *StructType) Loc() Span     { return t.Span }
func (t *StructType) typeExprNode() {}

// UnionType is `T1 | T2 | ...`.
type UnionType struct {
	Members []TypeExpr
	Span    Span
}

func (t *UnionType) Loc() Span     { return t.Span }
func (t *UnionType) typeExprNode() {}

// ---------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------

// BindPattern binds the scrutinee (or the field being destructured) to a
// name, optionally refined with `as T1|T2|...`.
type BindPattern struct {
	Name       string
	Refinement TypeExpr // nil for a bare catch-all binding
	Span       Span
}

func (p *BindPattern) Loc() Span      { return p.Span }
func (p *BindPattern) patternNode()   {}

// WildcardPattern is `_`: matches anything, binds nothing.
type WildcardPattern struct {
	Span Span
}

func (p *WildcardPattern) Loc() Span    { return p.Span }
func (p *WildcardPattern) patternNode() {}

// FieldPattern is one `name: pattern` destructuring entry.
type FieldPattern struct {
	Name    string
	Pattern Pattern
	Span    Span
}

// VariantPattern matches a custom enum variant, optionally qualified by
// module and root type name (`Module::Root::Variant { fields }` or bare
// `Variant { fields }`), optionally destructuring the payload and
// optionally binding the whole match to a name.
type VariantPattern struct {
	Module  string // "" if unqualified
	Root    string // "" if the root type name was omitted
	Variant string
	Fields  []FieldPattern // nil if the payload isn't destructured
	Bind    string         // "" if unbound
	Span    Span
}

func (p *VariantPattern) Loc() Span      { return p.Span }
func (p *VariantPattern) patternNode()   {}

// LiteralPattern matches an exact literal value (int, bool, string).
type LiteralPattern struct {
	Value Expr
	Span  Span
}

func (p *LiteralPattern) Loc() Span      { return p.Span }
func (p *LiteralPattern) patternNode()   {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Ident references a value, parameter, function, or type name.
type Ident struct {
	Name string
	Span Span
}

func (e *Ident) Loc() Span  { return e.Span }
func (e *Ident) exprNode()  {}

// QualifiedIdent references `Module.name`.
type QualifiedIdent struct {
	Module string
	Name   string
	Span   Span
}

func (e *QualifiedIdent) Loc() Span { return e.Span }
func (e *QualifiedIdent) exprNode() {}

// IntLit is a decimal integer literal.
type IntLit struct {
	Value int64
	Span  Span
}

func (e *IntLit) Loc() Span { return e.Span }
func (e *IntLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Span  Span
}

func (e *BoolLit) Loc() Span { return e.Span }
func (e *BoolLit) exprNode() {}

// StringLit is a `"..."` literal.
type StringLit struct {
	Value string
	Span  Span
}

func (e *StringLit) Loc() Span { return e.Span }
func (e *StringLit) exprNode() {}

// NoneLit is the literal `none`.
type NoneLit struct {
	Span Span
}

func (e *NoneLit) Loc() Span { return e.Span }
func (e *NoneLit) exprNode() {}

// ListLit is `[e1, e2, ...]`.
type ListLit struct {
	Elements []Expr
	Span     Span
}

func (e *ListLit) Loc() Span { return e.Span }
func (e *ListLit) exprNode() {}

// TupleLit is `(e1, e2, ...)` with at least two elements.
type TupleLit struct {
	Elements []Expr
	Span     Span
}

func (e *TupleLit) Loc() Span { return e.Span }
func (e *TupleLit) exprNode() {}

// RangeExpr is the half-open integer range `[a..b]`.
type RangeExpr struct {
	Lo, Hi Expr
	Span   Span
}

func (e *RangeExpr) Loc() Span { return e.Span }
func (e *RangeExpr) exprNode() {}

// CompClause is one clause of a list comprehension: either a `for x in c`
// binding or a `where cond` filter.
type CompClause struct {
	IsWhere bool
	Var     string // set when !IsWhere
	Source  Expr   // set when !IsWhere
	Cond    Expr   // set when IsWhere
	Span    Span
}

// ListComp is `[result for x in c (for y in c)* (where cond)*]`.
type ListComp struct {
	Result  Expr
	Clauses []CompClause
	Span    Span
}

func (e *ListComp) Loc() Span { return e.Span }
func (e *ListComp) exprNode() {}

// GlobalCollection is `@[TypeName]`.
type GlobalCollection struct {
	TypeName string
	Span     Span
}

func (e *GlobalCollection) Loc() Span { return e.Span }
func (e *GlobalCollection) exprNode() {}

// Cardinality is `|e|`.
type Cardinality struct {
	Inner Expr
	Span  Span
}

func (e *Cardinality) Loc() Span { return e.Span }
func (e *Cardinality) exprNode() {}

// Membership is `x in c`.
type Membership struct {
	Elem       Expr
	Collection Expr
	Span       Span
}

func (e *Membership) Loc() Span { return e.Span }
func (e *Membership) exprNode() {}

// FieldAccess is `e.f`.
type FieldAccess struct {
	Base  Expr
	Field string
	Span  Span
}

func (e *FieldAccess) Loc() Span { return e.Span }
func (e *FieldAccess) exprNode() {}

// Call is a function call `f(args)` or `Module.f(args)`.
type Call struct {
	Callee Expr // *Ident or *QualifiedIdent
	Args   []Expr
	Span   Span
}

func (e *Call) Loc() Span { return e.Span }
func (e *Call) exprNode() {}

// VarCall is a decision-variable occurrence: `$V(args)` (scalar) or
// `$[V](args)` (list).
type VarCall struct {
	Name   string
	Args   []Expr
	IsList bool
	Span   Span
}

func (e *VarCall) Loc() Span { return e.Span }
func (e *VarCall) exprNode() {}

// IfExpr is `if cond { then } else { else }`.
type IfExpr struct {
	Cond, Then, Else Expr
	Span             Span
}

func (e *IfExpr) Loc() Span { return e.Span }
func (e *IfExpr) exprNode() {}

// LetExpr is `let name = value { body }`.
type LetExpr struct {
	Name  string
	Value Expr
	Body  Expr
	Span  Span
}

func (e *LetExpr) Loc() Span { return e.Span }
func (e *LetExpr) exprNode() {}

// Forall is `forall x in c [where cond] { body }`.
type Forall struct {
	Var    string
	Source Expr
	Where  Expr // nil if absent
	Body   Expr
	Span   Span
}

func (e *Forall) Loc() Span { return e.Span }
func (e *Forall) exprNode() {}

// Sum is `sum x in c [where cond] { body }`.
type Sum struct {
	Var    string
	Source Expr
	Where  Expr // nil if absent
	Body   Expr
	Span   Span
}

func (e *Sum) Loc() Span { return e.Span }
func (e *Sum) exprNode() {}

// Fold is `fold x in c with a = init [where cond] { body }`, or its
// reverse-iteration twin `rfold`.
type Fold struct {
	Var     string
	Acc     string
	Source  Expr
	Init    Expr
	Where   Expr // nil if absent
	Body    Expr
	Reverse bool
	Span    Span
}

func (e *Fold) Loc() Span { return e.Span }
func (e *Fold) exprNode() {}

// MatchArm is one `(pattern [where cond] { body })` alternative.
type MatchArm struct {
	Pattern Pattern
	Where   Expr // nil if absent
	Body    Expr
	Span    Span
}

// MatchExpr is `match scrutinee { arm+ }`.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []MatchArm
	Span      Span
}

func (e *MatchExpr) Loc() Span { return e.Span }
func (e *MatchExpr) exprNode() {}

// FieldInit is one `name: value` entry of a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
	Span  Span
}

// StructLit is `TypeName { f1: e1, f2: e2, ... }`.
type StructLit struct {
	TypeName string
	Fields   []FieldInit
	Span     Span
}

func (e *StructLit) Loc() Span { return e.Span }
func (e *StructLit) exprNode() {}

// Cast is an explicit coercion `T(e)` or `[T](e)`.
type Cast struct {
	Target TypeExpr
	Inner  Expr
	Span   Span
}

func (e *Cast) Loc() Span { return e.Span }
func (e *Cast) exprNode() {}

// AsExpr is `e as T`, used chiefly to retype an empty list literal.
type AsExpr struct {
	Inner Expr
	Type  TypeExpr
	Span  Span
}

func (e *AsExpr) Loc() Span { return e.Span }
func (e *AsExpr) exprNode() {}

// UnaryOp is `-e`, `!e`, or `not e`.
type UnaryOp struct {
	Op      string
	Operand Expr
	Span    Span
}

func (e *UnaryOp) Loc() Span { return e.Span }
func (e *UnaryOp) exprNode() {}

// BinaryOp is any left-associative binary operator application, including
// the arithmetic, comparison, constraint (`===`,`<==`,`>==`), and boolean
// (`and`/`or`) operator families.
type BinaryOp struct {
	Op          string
	Left, Right Expr
	Span        Span
}

func (e *BinaryOp) Loc() Span { return e.Span }
func (e *BinaryOp) exprNode() {}
