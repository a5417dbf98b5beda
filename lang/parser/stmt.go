package parser

import (
	"github.com/zinclang/zinc/lang/ast"
	"github.com/zinclang/zinc/lang/token"
)

func (p *Parser) parseLet() ast.Stmt {
	start := p.pos
	isConst := p.tok == token.CONST
	p.next() // consume let/const
	mutable := false
	if !isConst && p.tok == token.MUT {
		mutable = true
		p.next()
	}
	name := p.parseIdent()
	var typ ast.TypeExpr
	if p.accept(token.COLON) {
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	value := p.parseExpr()
	end := p.expect(token.SEMI)
	return &ast.LetStmt{Start: start, Name: name, Mutable: mutable, IsConst: isConst, Type: typ, Value: value, End: end}
}

func (p *Parser) parseFnSignature() *ast.FuncSignature {
	p.expect(token.LPAREN)
	sig := &ast.FuncSignature{}
	for p.tok != token.RPAREN && p.tok != token.EOF {
		pname := p.parseIdent()
		p.expect(token.COLON)
		ptype := p.parseType()
		sig.Params = append(sig.Params, ast.Param{Name: pname, Type: ptype})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	if p.accept(token.ARROW) {
		sig.Return = p.parseType()
	}
	return sig
}

func (p *Parser) parseFn() ast.Stmt {
	start := p.pos
	p.next() // consume fn
	name := p.parseIdent()
	sig := p.parseFnSignature()
	body := p.parseBlock()
	return &ast.FnStmt{Start: start, Name: name, Sig: sig, Body: body, End: body.End}
}

func (p *Parser) parseStruct() ast.Stmt {
	start := p.pos
	p.next()
	name := p.parseIdent()
	p.expect(token.LBRACE)
	s := &ast.StructStmt{Start: start, Name: name}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fname := p.parseIdent()
		p.expect(token.COLON)
		ftype := p.parseType()
		s.Fields = append(s.Fields, ast.StructFieldDecl{Name: fname, Type: ftype})
		if !p.accept(token.COMMA) {
			break
		}
	}
	s.End = p.expect(token.RBRACE)
	return s
}

func (p *Parser) parseEnum() ast.Stmt {
	start := p.pos
	p.next()
	name := p.parseIdent()
	p.expect(token.LBRACE)
	e := &ast.EnumStmt{Start: start, Name: name}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		vname := p.parseIdent()
		var value ast.Expr
		if p.accept(token.ASSIGN) {
			value = p.parseExpr()
		}
		e.Variants = append(e.Variants, ast.EnumVariantDecl{Name: vname, Value: value})
		if !p.accept(token.COMMA) {
			break
		}
	}
	e.End = p.expect(token.RBRACE)
	return e
}

func (p *Parser) parseImpl() ast.Stmt {
	start := p.pos
	p.next()
	target := p.parseIdent()
	p.expect(token.LBRACE)
	im := &ast.ImplStmt{Start: start, Target: target}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.FN {
			im.Items = append(im.Items, p.parseFn())
		} else if p.tok == token.CONST {
			im.Items = append(im.Items, p.parseLet())
		} else {
			p.errorf(p.pos, "expected fn or const inside impl block, got %s", p.tok)
			p.next()
		}
	}
	im.End = p.expect(token.RBRACE)
	return im
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	start := p.pos
	p.next()
	name := p.parseIdent()
	p.expect(token.ASSIGN)
	typ := p.parseType()
	end := p.expect(token.SEMI)
	return &ast.TypeAliasStmt{Start: start, End: end, Name: name, Type: typ}
}

func (p *Parser) parseMod() ast.Stmt {
	start := p.pos
	p.next()
	name := p.parseIdent()
	p.expect(token.LBRACE)
	m := &ast.ModStmt{Start: start, Name: name}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		m.Items = append(m.Items, p.parseStmt())
	}
	m.End = p.expect(token.RBRACE)
	return m
}

func (p *Parser) parseUse() ast.Stmt {
	start := p.pos
	p.next()
	path := &ast.PathExpr{Segments: []*ast.IdentExpr{p.parseIdent()}}
	for p.accept(token.COLONCOLON) {
		path.Segments = append(path.Segments, p.parseIdent())
	}
	end := p.expect(token.SEMI)
	return &ast.UseStmt{Start: start, End: end, Path: path}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.pos
	p.next()
	v := p.parseIdent()
	p.expect(token.IN)
	rangeExpr := p.parseExpr()
	var while ast.Expr
	if p.accept(token.WHILE) {
		while = p.parseExpr()
	}
	body := p.parseBlock()
	return &ast.ForStmt{Start: start, Var: v, Range: rangeExpr, While: while, Body: body, End: body.End}
}

func (p *Parser) parseIfStmtInner() *ast.IfStmt {
	start := p.pos
	p.expect(token.IF)
	cond := p.parseExprNoStruct()
	then := p.parseBlock()
	s := &ast.IfStmt{Start: start, Cond: cond, Then: then, End: then.End}
	if p.accept(token.ELSE) {
		if p.tok == token.IF {
			s.ElseIf = p.parseIfStmtInner()
			s.End = s.ElseIf.End
		} else {
			s.Else = p.parseBlock()
			s.End = s.Else.End
		}
	}
	return s
}

func (p *Parser) parseIfStmt() ast.Stmt { return p.parseIfStmtInner() }

func (p *Parser) parseReturn() ast.Stmt {
	start := p.pos
	p.next()
	var value ast.Expr
	if p.tok != token.SEMI {
		value = p.parseExpr()
	}
	end := p.expect(token.SEMI)
	return &ast.ReturnStmt{Start: start, Value: value, End: end}
}

func (p *Parser) parseAssert() ast.Stmt {
	start := p.pos
	p.next()
	p.expect(token.BANG)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	msg := ""
	if p.accept(token.COMMA) {
		msg = p.lit
		p.expect(token.STRING)
	}
	p.expect(token.RPAREN)
	end := p.expect(token.SEMI)
	return &ast.AssertStmt{Start: start, Cond: cond, Message: msg, End: end}
}

func (p *Parser) parseDbg() ast.Stmt {
	start := p.pos
	p.next()
	p.expect(token.BANG)
	p.expect(token.LPAREN)
	format := p.lit
	p.expect(token.STRING)
	var args []ast.Expr
	for p.accept(token.COMMA) {
		args = append(args, p.parseExpr())
	}
	p.expect(token.RPAREN)
	end := p.expect(token.SEMI)
	return &ast.DbgStmt{Start: start, Format: format, Args: args, End: end}
}
