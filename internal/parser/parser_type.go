package parser

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/lexer"
)

// parseType parses a syntactic type expression, including a top-level
// `T1 | T2 | ...` union.
func (p *Parser) parseType() ast.TypeExpr {
	start := p.cur.Offset
	first := p.parseTypeAtom()
	if !p.curIs(lexer.PIPE) {
		return first
	}
	members := []ast.TypeExpr{first}
	for p.curIs(lexer.PIPE) {
		p.consume()
		members = append(members, p.parseTypeAtom())
	}
	return &ast.UnionType{Members: members, Span: p.span(start)}
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	start := p.cur.Offset
	switch p.cur.Type {
	case lexer.LBRACKET:
		p.consume()
		elem := p.parseType()
		p.expect(lexer.RBRACKET)
		return &ast.ListType{Elem: elem, Span: p.span(start)}
	case lexer.LBRACE:
		p.consume()
		var fields []ast.FieldType
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			fstart := p.cur.Offset
			name, _ := p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			ftype := p.parseType()
			fields = append(fields, ast.FieldType{Name: name.Literal, Type: ftype, Span: p.span(fstart)})
			if p.curIs(lexer.COMMA) {
				p.consume()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE)
		return &ast.StructType{Fields: fields, Span: p.span(start)}
	case lexer.LPAREN:
		p.consume()
		var elems []ast.TypeExpr
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			elems = append(elems, p.parseType())
			if p.curIs(lexer.COMMA) {
				p.consume()
			} else {
				break
			}
		}
		p.expect(lexer.RPAREN)
		return &ast.TupleType{Elements: elems, Span: p.span(start)}
	case lexer.TYPEID:
		name, _ := p.expect(lexer.TYPEID)
		return &ast.NamedType{Name: name.Literal, Span: p.span(start)}
	case lexer.IDENT:
		// `alias::TypeName`: a type exported by a module imported under
		// the lowercase alias `alias`.
		alias, _ := p.expect(lexer.IDENT)
		p.expect(lexer.DCOLON)
		inner, _ := p.expect(lexer.TYPEID)
		return &ast.QualifiedType{Module: alias.Literal, Name: inner.Literal, Span: p.span(start)}
	default:
		p.errf(colloerr.PAR007, "expected a type, found "+p.cur.Type.String(), p.tokSpan(p.cur))
		p.consume()
		return &ast.NamedType{Name: "Never", Span: p.span(start)}
	}
}
