package parser

import (
	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/lexer"
)

// parseDecl parses one top-level declaration, attaching doc as its
// docstring when the production supports one. Returns nil (after
// synchronizing) if the current token starts nothing recognisable.
func (p *Parser) parseDecl(doc string) ast.Decl {
	pub := false
	if p.curIs(lexer.PUB) {
		pub = true
		p.consume()
	}
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLetDecl(pub, doc)
	case lexer.TYPE:
		return p.parseTypeDecl(pub, doc)
	case lexer.ENUM:
		return p.parseEnumDecl(pub, doc)
	case lexer.REIFY:
		return p.parseReifyDecl(pub)
	case lexer.IMPORT:
		if pub {
			p.errf(colloerr.PAR004, "import cannot be pub", p.tokSpan(p.cur))
		}
		return p.parseImportDecl()
	default:
		p.errf(colloerr.PAR003, "expected a declaration, found "+p.cur.Type.String(), p.tokSpan(p.cur))
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseLetDecl(pub bool, doc string) ast.Decl {
	start := p.cur.Offset
	p.expect(lexer.LET)
	name, _ := p.expect(lexer.IDENT)
	p.expect(lexer.LPAREN)
	var params []ast.Param
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		pstart := p.cur.Offset
		pname, _ := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		ptype := p.parseType()
		params = append(params, ast.Param{Name: pname.Literal, Type: ptype, Span: p.span(pstart)})
		if p.curIs(lexer.COMMA) {
			p.consume()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.ARROW)
	ret := p.parseType()
	p.expect(lexer.ASSIGN)
	body := p.parseExpr(precLowest)
	p.expect(lexer.SEMI)
	return &ast.LetDecl{
		Pub: pub, Name: name.Literal, Params: params, ReturnType: ret,
		Body: body, Docstring: doc, Span: p.span(start),
	}
}

func (p *Parser) parseTypeDecl(pub bool, doc string) ast.Decl {
	start := p.cur.Offset
	p.expect(lexer.TYPE)
	name, _ := p.expect(lexer.TYPEID)
	p.expect(lexer.ASSIGN)
	underlying := p.parseType()
	p.expect(lexer.SEMI)
	return &ast.TypeDecl{Pub: pub, Name: name.Literal, Underlying: underlying, Docstring: doc, Span: p.span(start)}
}

func (p *Parser) parseEnumDecl(pub bool, doc string) ast.Decl {
	start := p.cur.Offset
	p.expect(lexer.ENUM)
	name, _ := p.expect(lexer.TYPEID)
	p.expect(lexer.ASSIGN)
	var variants []ast.EnumVariant
	variants = append(variants, p.parseEnumVariant())
	for p.curIs(lexer.PIPE) {
		p.consume()
		variants = append(variants, p.parseEnumVariant())
	}
	p.expect(lexer.SEMI)
	return &ast.EnumDecl{Pub: pub, Name: name.Literal, Variants: variants, Docstring: doc, Span: p.span(start)}
}

func (p *Parser) parseEnumVariant() ast.EnumVariant {
	start := p.cur.Offset
	name, _ := p.expect(lexer.TYPEID)
	var payload ast.TypeExpr
	if p.curIs(lexer.LPAREN) {
		p.consume()
		payload = p.parseType()
		p.expect(lexer.RPAREN)
	}
	return ast.EnumVariant{Name: name.Literal, Payload: payload, Span: p.span(start)}
}

func (p *Parser) parseReifyDecl(pub bool) ast.Decl {
	start := p.cur.Offset
	p.expect(lexer.REIFY)
	fn, _ := p.expect(lexer.IDENT)
	p.expect(lexer.AS)
	p.expect(lexer.DOLLAR)
	isList := false
	var varName lexer.Token
	if p.curIs(lexer.LBRACKET) {
		isList = true
		p.consume()
		varName, _ = p.expect(lexer.TYPEID)
		p.expect(lexer.RBRACKET)
	} else {
		varName, _ = p.expect(lexer.TYPEID)
	}
	p.expect(lexer.SEMI)
	return &ast.ReifyDecl{Pub: pub, Function: fn.Literal, VarName: varName.Literal, IsList: isList, Span: p.span(start)}
}

func (p *Parser) parseImportDecl() ast.Decl {
	start := p.cur.Offset
	p.expect(lexer.IMPORT)
	path, _ := p.expect(lexer.STRING)
	p.expect(lexer.AS)
	wildcard := false
	alias := ""
	if p.curIs(lexer.STAR) {
		p.consume()
		wildcard = true
	} else {
		id, _ := p.expect(lexer.IDENT)
		alias = id.Literal
	}
	p.expect(lexer.SEMI)
	return &ast.ImportDecl{ModulePath: path.Literal, Alias: alias, Wildcard: wildcard, Span: p.span(start)}
}
