// Package parser implements a hand-written recursive-descent, precedence
// climbing parser that turns ColloML source text into an *ast.File,
// following the grammar in spec §4.A. Syntax errors accumulate rather than
// aborting at the first one (mirroring the checker's "surface as many
// errors as possible" philosophy from spec §7), recovering by skipping to
// the next statement boundary.
package parser

import (
	"strings"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/lexer"
)

// Parser holds the token stream and accumulated diagnostics for one
// module's source text.
type Parser struct {
	lex    *lexer.Lexer
	module string

	cur   lexer.Token
	peek  lexer.Token
	peek2 lexer.Token

	lastEnd int
	errs    []*colloerr.Report
}

// New creates a Parser over src, tagging spans with module.
func New(src, module string) *Parser {
	p := &Parser{lex: lexer.New(src, module), module: module}
	p.next()
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.peek2
	p.peek2 = p.lex.NextToken()
}

func (p *Parser) span(startOffset int) ast.Span {
	length := p.prevEnd() - startOffset
	if length < 0 {
		length = 0
	}
	return ast.Span{Module: p.module, Offset: startOffset, Length: length}
}

// prevEnd returns the end offset of the token just consumed (p.cur, before
// advancing) — callers snapshot p.cur.Offset at the start of a production
// and call span() immediately after the last token of that production has
// been consumed, at which point p.cur is the token *after* the
// production, so we use the token's own end via a small lookback buffer.
func (p *Parser) prevEnd() int { return p.lastEnd }

func (p *Parser) tokSpan(t lexer.Token) ast.Span {
	return ast.Span{Module: p.module, Offset: t.Offset, Length: t.Length}
}

func (p *Parser) errf(code, msg string, sp ast.Span) {
	p.errs = append(p.errs, colloerr.New("parser", code, msg, sp))
}

// Errors returns every syntax error accumulated while parsing.
func (p *Parser) Errors() []*colloerr.Report { return p.errs }

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

// expect consumes the current token if it has type t, recording a syntax
// error and leaving the token stream in place (for recovery) otherwise.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	if p.cur.Type != t {
		p.errf(colloerr.PAR001, "expected "+t.String()+", found "+p.cur.Type.String(), p.tokSpan(p.cur))
		return p.cur, false
	}
	tok := p.cur
	p.lastEnd = tok.Offset + tok.Length
	p.next()
	return tok, true
}

func (p *Parser) consume() lexer.Token {
	tok := p.cur
	p.lastEnd = tok.Offset + tok.Length
	p.next()
	return tok
}

// synchronize advances past tokens until a statement boundary (`;`) or a
// top-level declaration keyword, so one malformed statement doesn't
// prevent every later one from being parsed and checked.
func (p *Parser) synchronize() {
	for {
		switch p.cur.Type {
		case lexer.EOF:
			return
		case lexer.SEMI:
			p.consume()
			return
		case lexer.LET, lexer.PUB, lexer.TYPE, lexer.ENUM, lexer.REIFY, lexer.IMPORT:
			return
		}
		p.consume()
	}
}

// ParseFile parses an entire module's source text, returning the AST and
// any accumulated syntax errors. A non-nil *ast.File may still be returned
// alongside errors; callers should not proceed to checking when errors is
// non-empty.
func ParseFile(src, module string) (*ast.File, []*colloerr.Report) {
	p := New(src, module)
	return p.parseFile(), p.errs
}

func (p *Parser) parseFile() *ast.File {
	start := p.cur.Offset
	var decls []ast.Decl
	for !p.curIs(lexer.EOF) {
		var docLines []string
		for p.curIs(lexer.DOCSTRING) {
			docLines = append(docLines, p.cur.Literal)
			p.consume()
		}
		d := p.parseDecl(strings.Join(docLines, "\n"))
		if d != nil {
			decls = append(decls, d)
		}
	}
	return &ast.File{Decls: decls, Span: ast.Span{Module: p.module, Offset: start, Length: p.lastEnd - start}}
}
