package parser

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/lexer"
)

// parsePattern parses one match-arm pattern, including the `name @ pattern`
// form used to bind a whole variant match to a name.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur.Offset
	if p.curIs(lexer.IDENT) && p.peekIs(lexer.AT) {
		bindName := p.consume().Literal
		p.consume() // @
		inner := p.parsePatternAtom()
		if vp, ok := inner.(*ast.VariantPattern); ok {
			vp.Bind = bindName
			vp.Span = p.span(start)
			return vp
		}
		return inner
	}
	return p.parsePatternAtom()
}

func (p *Parser) parsePatternAtom() ast.Pattern {
	start := p.cur.Offset
	switch p.cur.Type {
	case lexer.TYPEID:
		return p.parseVariantPattern(start, "")
	case lexer.IDENT:
		if p.peekIs(lexer.DCOLON) {
			alias := p.consume().Literal
			p.consume() // ::
			return p.parseVariantPattern(start, alias)
		}
		name := p.consume()
		if name.Literal == "_" {
			return &ast.WildcardPattern{Span: p.span(start)}
		}
		bp := &ast.BindPattern{Name: name.Literal}
		if p.curIs(lexer.AS) {
			p.consume()
			bp.Refinement = p.parseType()
		}
		bp.Span = p.span(start)
		return bp
	case lexer.INT, lexer.TRUE, lexer.FALSE, lexer.STRING, lexer.MINUS:
		return &ast.LiteralPattern{Value: p.parseUnary(), Span: p.span(start)}
	default:
		p.errf(colloerr.PAR006, "expected a pattern, found "+p.cur.Type.String(), p.tokSpan(p.cur))
		p.consume()
		return &ast.WildcardPattern{Span: p.span(start)}
	}
}

// parseVariantPattern parses `Variant` or `Root::Variant` (module == "" for
// both); when module is non-empty (the caller already consumed an
// `alias::` prefix) it requires the qualified `Root::Variant` form, as in
// `alias::Root::Variant { ... }`. Either way it's optionally followed by
// `{ field: pattern, ... }`.
func (p *Parser) parseVariantPattern(start int, module string) ast.Pattern {
	parts := []string{p.consume().Literal}
	for p.curIs(lexer.DCOLON) {
		p.consume()
		id, _ := p.expect(lexer.TYPEID)
		parts = append(parts, id.Literal)
	}
	vp := &ast.VariantPattern{Module: module}
	switch len(parts) {
	case 1:
		vp.Variant = parts[0]
	default:
		vp.Root, vp.Variant = parts[0], parts[1]
	}
	if p.curIs(lexer.LBRACE) {
		p.consume()
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			fstart := p.cur.Offset
			fname, _ := p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			fpat := p.parsePattern()
			vp.Fields = append(vp.Fields, ast.FieldPattern{Name: fname.Literal, Pattern: fpat, Span: p.span(fstart)})
			if p.curIs(lexer.COMMA) {
				p.consume()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE)
	}
	vp.Span = p.span(start)
	return vp
}
