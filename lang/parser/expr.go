package parser

import (
	"github.com/zinclang/zinc/lang/ast"
	"github.com/zinclang/zinc/lang/token"
)

// precedence levels, low to high; 0 means "not a binary operator".
var precedence = map[token.Token]int{
	token.PIPEPIPE: 1,
	token.AMPAMP:   2,
	token.LT:       3, token.LE: 3, token.GT: 3, token.GE: 3, token.EQ: 3, token.NEQ: 3,
	token.PIPE:      4,
	token.CIRCUMFLEX: 5,
	token.AMPERSAND: 6,
	token.LTLT:      7, token.GTGT: 7,
	token.PLUS: 8, token.MINUS: 8,
	token.STAR: 9, token.SLASH: 9, token.PERCENT: 9,
}

// parseExpr parses a full expression allowing struct literals.
func (p *Parser) parseExpr() ast.Expr { return p.parseRange() }

// parseExprNoStruct parses an expression with struct-literal syntax
// disabled at the top level, used for if/for/while conditions so `if x {`
// parses `{` as the block delimiter rather than a StructExpr (the
// classic expression-oriented-language ambiguity).
func (p *Parser) parseExprNoStruct() ast.Expr {
	p.noStructLit++
	defer func() { p.noStructLit-- }()
	return p.parseRange()
}

// parseRange sits above parseBinary: `a..b` and `a..=b` bind looser than
// every binary operator, matching Zinc's `for i in lo..hi` usage.
func (p *Parser) parseRange() ast.Expr {
	left := p.parseBinary(1)
	if p.tok == token.DOTDOT || p.tok == token.DOTDOTEQ {
		inclusive := p.tok == token.DOTDOTEQ
		p.next()
		right := p.parseBinary(1)
		return &ast.RangeExpr{Lo: left, Hi: right, Inclusive: inclusive}
	}
	return left
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseCast()
	for {
		prec, ok := precedence[p.tok]
		if !ok || prec < minPrec {
			return left
		}
		op, opPos := p.tok, p.pos
		p.next()
		right := p.parseBinary(prec + 1)
		left = &ast.BinOpExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
}

func (p *Parser) parseCast() ast.Expr {
	e := p.parseUnary()
	for p.accept(token.AS) {
		t := p.parseType()
		e = &ast.CastExpr{Value: e, Type: t}
	}
	return e
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.MINUS, token.BANG, token.TILDE:
		op, pos := p.tok, p.pos
		p.next()
		right := p.parseUnary()
		return &ast.UnaryOpExpr{OpPos: pos, Op: op, Right: right}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.tok {
		case token.DOT:
			dotAt := p.pos
			p.next()
			name := p.lit
			var end token.Pos
			switch p.tok {
			case token.IDENT:
				end = p.pos + token.Pos(len(p.lit))
				p.next()
			case token.INT:
				end = p.pos + token.Pos(len(p.lit))
				p.next()
			default:
				p.errorf(p.pos, "expected field name after '.'")
			}
			e = &ast.FieldExpr{Left: e, Name: name, DotAt: dotAt, End: end}
		case token.LBRACK:
			p.next()
			idx := p.parseExpr()
			rb := p.expect(token.RBRACK)
			if rng, ok := idx.(*ast.RangeExpr); ok {
				e = &ast.SliceExpr{Left: e, Lo: rng.Lo, Hi: rng.Hi, Inclusive: rng.Inclusive, RBrack: rb}
			} else {
				e = &ast.IndexExpr{Left: e, Index: idx, RBrack: rb}
			}
		case token.LPAREN:
			p.next()
			var args []ast.Expr
			for p.tok != token.RPAREN && p.tok != token.EOF {
				args = append(args, p.parseExpr())
				if !p.accept(token.COMMA) {
					break
				}
			}
			rp := p.expect(token.RPAREN)
			e = &ast.CallExpr{Fn: e, Args: args, RParen: rp}
		case token.COLONCOLON:
			if ident, ok := e.(*ast.IdentExpr); ok {
				path := &ast.PathExpr{Segments: []*ast.IdentExpr{ident}}
				for p.accept(token.COLONCOLON) {
					path.Segments = append(path.Segments, p.parseIdent())
				}
				e = path
				continue
			}
			return e
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.INT:
		lit, pos, v := p.lit, p.pos, p.val
		p.next()
		return &ast.LiteralExpr{Start: pos, End: pos + token.Pos(len(lit)), Kind: ast.LitInteger, Value: v.Int}
	case token.STRING:
		lit, pos := p.lit, p.pos
		p.next()
		return &ast.LiteralExpr{Start: pos, End: pos, Kind: ast.LitString, Value: lit}
	case token.TRUE, token.FALSE:
		pos, b := p.pos, p.tok == token.TRUE
		p.next()
		return &ast.LiteralExpr{Start: pos, End: pos, Kind: ast.LitBoolean, Value: b}
	case token.LPAREN:
		start := p.pos
		p.next()
		if p.tok == token.RPAREN {
			end := p.pos
			p.next()
			return &ast.TupleExpr{Start: start, End: end}
		}
		first := p.parseExpr()
		if p.accept(token.COMMA) {
			items := []ast.Expr{first}
			for p.tok != token.RPAREN && p.tok != token.EOF {
				items = append(items, p.parseExpr())
				if !p.accept(token.COMMA) {
					break
				}
			}
			end := p.expect(token.RPAREN)
			return &ast.TupleExpr{Start: start, End: end, Items: items}
		}
		end := p.expect(token.RPAREN)
		return &ast.ParenExpr{Start: start, End: end, Inner: first}
	case token.LBRACK:
		return p.parseArrayLit()
	case token.IF:
		return p.parseIfExpr()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.LBRACE:
		return &ast.BlockExpr{Block: p.parseBlock()}
	case token.IDENT:
		ident := p.parseIdent()
		if p.tok == token.LBRACE && p.noStructLit == 0 {
			return p.parseStructLit(ident)
		}
		return ident
	default:
		pos := p.pos
		p.errorf(pos, "unexpected token %s in expression", p.tok)
		p.next()
		return &ast.LiteralExpr{Start: pos, End: pos, Kind: ast.LitInteger, Value: int64(0)}
	}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.pos
	p.next() // consume [
	if p.tok == token.RBRACK {
		end := p.pos
		p.next()
		return &ast.ArrayExpr{Start: start, End: end}
	}
	first := p.parseExpr()
	if p.accept(token.SEMI) {
		count := p.parseExpr()
		end := p.expect(token.RBRACK)
		return &ast.ArrayExpr{Start: start, End: end, Items: []ast.Expr{first}, Repeat: count}
	}
	items := []ast.Expr{first}
	for p.accept(token.COMMA) {
		if p.tok == token.RBRACK {
			break
		}
		items = append(items, p.parseExpr())
	}
	end := p.expect(token.RBRACK)
	return &ast.ArrayExpr{Start: start, End: end, Items: items}
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.pos
	p.next()
	cond := p.parseExprNoStruct()
	then := p.parseBlock()
	e := &ast.IfExpr{Start: start, Cond: cond, Then: then, End: then.End}
	if p.accept(token.ELSE) {
		if p.tok == token.IF {
			sub := p.parseIfExpr().(*ast.IfExpr)
			e.ElseIf = sub
			e.End = sub.End
		} else {
			e.Else = p.parseBlock()
			e.End = e.Else.End
		}
	}
	return e
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.pos
	p.next()
	scrut := p.parseExprNoStruct()
	p.expect(token.LBRACE)
	m := &ast.MatchExpr{Start: start, Scrutinee: scrut}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		var pattern ast.Expr
		if p.tok == token.IDENT && p.lit == "_" {
			p.next()
		} else {
			pattern = p.parseExpr()
		}
		p.expect(token.ARROW)
		body := p.parseExpr()
		m.Arms = append(m.Arms, ast.MatchArm{Pattern: pattern, Body: body})
		if !p.accept(token.COMMA) {
			break
		}
	}
	m.End = p.expect(token.RBRACE)
	return m
}

func (p *Parser) parseStructLit(name *ast.IdentExpr) ast.Expr {
	start := name.Start
	p.expect(token.LBRACE)
	s := &ast.StructExpr{Start: start, Name: name}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fname := p.lit
		p.expect(token.IDENT)
		p.expect(token.COLON)
		val := p.parseExpr()
		s.Fields = append(s.Fields, ast.StructFieldInit{Name: fname, Value: val})
		if !p.accept(token.COMMA) {
			break
		}
	}
	s.End = p.expect(token.RBRACE)
	return s
}
