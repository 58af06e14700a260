package parser

import (
	"strconv"

	"github.com/collomatique/colloml-go/internal/ast"
	"github.com/collomatique/colloml-go/internal/colloerr"
	"github.com/collomatique/colloml-go/internal/lexer"
)

// Precedence levels, lowest to tightest-binding. `or` deliberately sits
// above `and` here — the grammar's one asymmetric precedence rule.
const (
	precLowest = iota
	precAnd
	precOr
	precConstraint
	precCompare
	precAdd
	precMul
)

func precedenceOf(t lexer.TokenType) (int, bool) {
	switch t {
	case lexer.AND, lexer.ANDAND:
		return precAnd, true
	case lexer.OR, lexer.OROR:
		return precOr, true
	case lexer.CEQ, lexer.CLE, lexer.CGE:
		return precConstraint, true
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE, lexer.IN:
		return precCompare, true
	case lexer.PLUS, lexer.MINUS:
		return precAdd, true
	case lexer.STAR, lexer.SLASH, lexer.DSLASH, lexer.PERCENT:
		return precMul, true
	}
	return 0, false
}

func joinSpan(a, b ast.Node) ast.Span { return a.Loc().Join(b.Loc()) }

// parseExpr is the precedence-climbing entry point: it parses a unary
// operand, then repeatedly absorbs infix operators whose precedence is at
// least minPrec, recursing with prec+1 on the right-hand side to keep every
// operator family left-associative.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := precedenceOf(p.cur.Type)
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.cur
		p.consume()
		right := p.parseExpr(prec + 1)
		if opTok.Type == lexer.IN {
			left = &ast.Membership{Elem: left, Collection: right, Span: joinSpan(left, right)}
		} else {
			left = &ast.BinaryOp{Op: opTok.Literal, Left: left, Right: right, Span: joinSpan(left, right)}
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur.Offset
	switch p.cur.Type {
	case lexer.MINUS:
		p.consume()
		operand := p.parseUnary()
		return &ast.UnaryOp{Op: "-", Operand: operand, Span: p.span(start)}
	case lexer.BANG:
		p.consume()
		operand := p.parseUnary()
		return &ast.UnaryOp{Op: "!", Operand: operand, Span: p.span(start)}
	case lexer.NOT:
		p.consume()
		operand := p.parseUnary()
		return &ast.UnaryOp{Op: "not", Operand: operand, Span: p.span(start)}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression and then absorbs trailing field
// accesses, calls, and `as` coercions.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur.Offset
	expr := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.DOT:
			p.consume()
			name, _ := p.expect(lexer.IDENT)
			if p.curIs(lexer.LPAREN) && isIdentExpr(expr) {
				mod := expr.(*ast.Ident).Name
				qi := &ast.QualifiedIdent{Module: mod, Name: name.Literal, Span: p.span(start)}
				args := p.parseCallArgs()
				expr = &ast.Call{Callee: qi, Args: args, Span: p.span(start)}
				continue
			}
			expr = &ast.FieldAccess{Base: expr, Field: name.Literal, Span: p.span(start)}
		case lexer.LPAREN:
			args := p.parseCallArgs()
			expr = &ast.Call{Callee: expr, Args: args, Span: p.span(start)}
		case lexer.AS:
			p.consume()
			t := p.parseType()
			expr = &ast.AsExpr{Inner: expr, Type: t, Span: p.span(start)}
		default:
			return expr
		}
	}
}

func isIdentExpr(e ast.Expr) bool { _, ok := e.(*ast.Ident); return ok }

func (p *Parser) parseCallArgs() []ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpr(precLowest))
		if p.curIs(lexer.COMMA) {
			p.consume()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur.Offset
	switch p.cur.Type {
	case lexer.INT:
		tok := p.consume()
		v, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return &ast.IntLit{Value: v, Span: p.span(start)}
	case lexer.STRING:
		tok := p.consume()
		return &ast.StringLit{Value: tok.Literal, Span: p.span(start)}
	case lexer.TRUE:
		p.consume()
		return &ast.BoolLit{Value: true, Span: p.span(start)}
	case lexer.FALSE:
		p.consume()
		return &ast.BoolLit{Value: false, Span: p.span(start)}
	case lexer.NONE:
		p.consume()
		return &ast.NoneLit{Span: p.span(start)}
	case lexer.IDENT:
		tok := p.consume()
		return &ast.Ident{Name: tok.Literal, Span: p.span(start)}
	case lexer.TYPEID:
		return p.parseTypeIdentExpr(start)
	case lexer.DOLLAR:
		return p.parseVarCall(start)
	case lexer.AT:
		return p.parseGlobalCollection(start)
	case lexer.PIPE:
		p.consume()
		inner := p.parseExpr(precLowest)
		p.expect(lexer.PIPE)
		return &ast.Cardinality{Inner: inner, Span: p.span(start)}
	case lexer.LPAREN:
		return p.parseParenOrTuple(start)
	case lexer.LBRACKET:
		return p.parseBracketExpr(start)
	case lexer.IF:
		return p.parseIfExpr(start)
	case lexer.LET:
		return p.parseLetExpr(start)
	case lexer.FORALL:
		return p.parseForall(start)
	case lexer.SUM:
		return p.parseSum(start)
	case lexer.FOLD, lexer.RFOLD:
		return p.parseFold(start)
	case lexer.MATCH:
		return p.parseMatchExpr(start)
	default:
		p.errf(colloerr.PAR008, "expected an expression, found "+p.cur.Type.String(), p.tokSpan(p.cur))
		p.consume()
		return &ast.NoneLit{Span: p.span(start)}
	}
}

// parseTypeIdentExpr handles the three expression-level uses of a leading
// TYPEID: a struct literal `TypeName { ... }`, a single-argument coercion
// cast `TypeName(e)`, or (rarely) a bare type-name reference.
func (p *Parser) parseTypeIdentExpr(start int) ast.Expr {
	name, _ := p.expect(lexer.TYPEID)
	switch {
	case p.curIs(lexer.LBRACE):
		return p.parseStructLit(start, name.Literal)
	case p.curIs(lexer.LPAREN):
		p.consume()
		inner := p.parseExpr(precLowest)
		p.expect(lexer.RPAREN)
		return &ast.Cast{Target: &ast.NamedType{Name: name.Literal, Span: p.tokSpan(name)}, Inner: inner, Span: p.span(start)}
	default:
		return &ast.Ident{Name: name.Literal, Span: p.span(start)}
	}
}

func (p *Parser) parseStructLit(start int, typeName string) ast.Expr {
	p.expect(lexer.LBRACE)
	var fields []ast.FieldInit
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		fstart := p.cur.Offset
		fname, _ := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		fval := p.parseExpr(precLowest)
		fields = append(fields, ast.FieldInit{Name: fname.Literal, Value: fval, Span: p.span(fstart)})
		if p.curIs(lexer.COMMA) {
			p.consume()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.StructLit{TypeName: typeName, Fields: fields, Span: p.span(start)}
}

// parseVarCall parses `$V(args)` and the list form `$[V](args)`.
func (p *Parser) parseVarCall(start int) ast.Expr {
	p.expect(lexer.DOLLAR)
	isList := false
	var name lexer.Token
	if p.curIs(lexer.LBRACKET) {
		isList = true
		p.consume()
		name, _ = p.expect(lexer.TYPEID)
		p.expect(lexer.RBRACKET)
	} else {
		name, _ = p.expect(lexer.TYPEID)
	}
	args := p.parseCallArgs()
	return &ast.VarCall{Name: name.Literal, Args: args, IsList: isList, Span: p.span(start)}
}

func (p *Parser) parseGlobalCollection(start int) ast.Expr {
	p.expect(lexer.AT)
	p.expect(lexer.LBRACKET)
	name, _ := p.expect(lexer.TYPEID)
	p.expect(lexer.RBRACKET)
	return &ast.GlobalCollection{TypeName: name.Literal, Span: p.span(start)}
}

func (p *Parser) parseParenOrTuple(start int) ast.Expr {
	p.expect(lexer.LPAREN)
	first := p.parseExpr(precLowest)
	if !p.curIs(lexer.COMMA) {
		p.expect(lexer.RPAREN)
		return first
	}
	elems := []ast.Expr{first}
	for p.curIs(lexer.COMMA) {
		p.consume()
		if p.curIs(lexer.RPAREN) {
			break
		}
		elems = append(elems, p.parseExpr(precLowest))
	}
	p.expect(lexer.RPAREN)
	return &ast.TupleLit{Elements: elems, Span: p.span(start)}
}

// parseBracketExpr disambiguates, with three-token lookahead, the
// list-cast form `[T](e)` from an ordinary list literal, range, or
// comprehension, all of which also begin with `[`.
func (p *Parser) parseBracketExpr(start int) ast.Expr {
	if p.peekIs(lexer.TYPEID) && p.peek2.Type == lexer.RBRACKET {
		p.consume() // [
		name := p.consume()
		p.consume() // ]
		p.expect(lexer.LPAREN)
		inner := p.parseExpr(precLowest)
		p.expect(lexer.RPAREN)
		listT := &ast.ListType{Elem: &ast.NamedType{Name: name.Literal, Span: p.tokSpan(name)}, Span: p.span(start)}
		return &ast.Cast{Target: listT, Inner: inner, Span: p.span(start)}
	}

	p.expect(lexer.LBRACKET)
	if p.curIs(lexer.RBRACKET) {
		p.consume()
		return &ast.ListLit{Span: p.span(start)}
	}

	first := p.parseExpr(precLowest)

	switch {
	case p.curIs(lexer.ELLIPSIS):
		p.consume()
		hi := p.parseExpr(precLowest)
		p.expect(lexer.RBRACKET)
		return &ast.RangeExpr{Lo: first, Hi: hi, Span: p.span(start)}
	case p.curIs(lexer.FOR):
		var clauses []ast.CompClause
		for p.curIs(lexer.FOR) {
			cstart := p.cur.Offset
			p.consume()
			v, _ := p.expect(lexer.IDENT)
			p.expect(lexer.IN)
			src := p.parseExpr(precLowest)
			clauses = append(clauses, ast.CompClause{Var: v.Literal, Source: src, Span: p.span(cstart)})
		}
		for p.curIs(lexer.WHERE) {
			cstart := p.cur.Offset
			p.consume()
			cond := p.parseExpr(precLowest)
			clauses = append(clauses, ast.CompClause{IsWhere: true, Cond: cond, Span: p.span(cstart)})
		}
		p.expect(lexer.RBRACKET)
		return &ast.ListComp{Result: first, Clauses: clauses, Span: p.span(start)}
	default:
		elems := []ast.Expr{first}
		for p.curIs(lexer.COMMA) {
			p.consume()
			if p.curIs(lexer.RBRACKET) {
				break
			}
			elems = append(elems, p.parseExpr(precLowest))
		}
		p.expect(lexer.RBRACKET)
		return &ast.ListLit{Elements: elems, Span: p.span(start)}
	}
}

func (p *Parser) parseBlock() ast.Expr {
	p.expect(lexer.LBRACE)
	body := p.parseExpr(precLowest)
	p.expect(lexer.RBRACE)
	return body
}

func (p *Parser) parseIfExpr(start int) ast.Expr {
	p.expect(lexer.IF)
	cond := p.parseExpr(precLowest)
	then := p.parseBlock()
	p.expect(lexer.ELSE)
	els := p.parseBlock()
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Span: p.span(start)}
}

func (p *Parser) parseLetExpr(start int) ast.Expr {
	p.expect(lexer.LET)
	name, _ := p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	value := p.parseExpr(precLowest)
	body := p.parseBlock()
	return &ast.LetExpr{Name: name.Literal, Value: value, Body: body, Span: p.span(start)}
}

func (p *Parser) parseForall(start int) ast.Expr {
	p.expect(lexer.FORALL)
	v, _ := p.expect(lexer.IDENT)
	p.expect(lexer.IN)
	src := p.parseExpr(precLowest)
	var where ast.Expr
	if p.curIs(lexer.WHERE) {
		p.consume()
		where = p.parseExpr(precLowest)
	}
	body := p.parseBlock()
	return &ast.Forall{Var: v.Literal, Source: src, Where: where, Body: body, Span: p.span(start)}
}

func (p *Parser) parseSum(start int) ast.Expr {
	p.expect(lexer.SUM)
	v, _ := p.expect(lexer.IDENT)
	p.expect(lexer.IN)
	src := p.parseExpr(precLowest)
	var where ast.Expr
	if p.curIs(lexer.WHERE) {
		p.consume()
		where = p.parseExpr(precLowest)
	}
	body := p.parseBlock()
	return &ast.Sum{Var: v.Literal, Source: src, Where: where, Body: body, Span: p.span(start)}
}

func (p *Parser) parseFold(start int) ast.Expr {
	reverse := p.curIs(lexer.RFOLD)
	p.consume() // fold | rfold
	v, _ := p.expect(lexer.IDENT)
	p.expect(lexer.IN)
	src := p.parseExpr(precLowest)
	p.expect(lexer.WITH)
	acc, _ := p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	init := p.parseExpr(precLowest)
	var where ast.Expr
	if p.curIs(lexer.WHERE) {
		p.consume()
		where = p.parseExpr(precLowest)
	}
	body := p.parseBlock()
	return &ast.Fold{Var: v.Literal, Acc: acc.Literal, Source: src, Init: init, Where: where, Body: body, Reverse: reverse, Span: p.span(start)}
}

func (p *Parser) parseMatchExpr(start int) ast.Expr {
	p.expect(lexer.MATCH)
	scrutinee := p.parseExpr(precLowest)
	p.expect(lexer.LBRACE)
	var arms []ast.MatchArm
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		astart := p.cur.Offset
		pat := p.parsePattern()
		var where ast.Expr
		if p.curIs(lexer.WHERE) {
			p.consume()
			where = p.parseExpr(precLowest)
		}
		body := p.parseBlock()
		arms = append(arms, ast.MatchArm{Pattern: pat, Where: where, Body: body, Span: p.span(astart)})
	}
	p.expect(lexer.RBRACE)
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Span: p.span(start)}
}
