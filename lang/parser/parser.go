// Package parser implements a recursive-descent parser for Zinc source,
// producing the lang/ast tree lang/semantic analyzes. It follows the
// teacher's parser shape (a Parser struct wrapping a Scanner with one
// token of lookahead, expect/accept helpers, precedence-climbing for
// binary expressions) adapted to Zinc's grammar.
package parser

import (
	"github.com/zinclang/zinc/lang/ast"
	"github.com/zinclang/zinc/lang/errors"
	"github.com/zinclang/zinc/lang/scanner"
	"github.com/zinclang/zinc/lang/token"
)

// Parser holds the state of one parse of a single file.
type Parser struct {
	file *token.File
	sc   scanner.Scanner
	diag errors.List

	tok token.Token
	pos token.Pos
	lit string
	val scanner.Value

	// noStructLit is incremented while parsing a condition expression
	// (if/for/while) where a bare `{` must end the condition rather than
	// start a struct literal body.
	noStructLit int
}

// Parse parses src (already registered as file in a FileSet) into a Chunk.
func Parse(file *token.File, src []byte) (*ast.Chunk, error) {
	p := &Parser{file: file}
	p.sc.Init(src, func(pos token.Pos, msg string) {
		p.diag.Add(errors.New(file, errors.Lexical, pos, "%s", msg))
	})
	p.next()

	block, end := p.parseTopLevelBlock()
	if p.diag.Len() > 0 {
		return nil, p.diag.Err()
	}
	return &ast.Chunk{Name: file.Name(), Block: block, EOF: end}, nil
}

func (p *Parser) next() {
	p.tok, p.pos, p.lit, p.val = p.sc.Scan()
}

func (p *Parser) errorf(pos token.Pos, format string, args ...interface{}) {
	p.diag.Add(errors.New(p.file, errors.Syntax, pos, format, args...))
}

func (p *Parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorf(p.pos, "expected %s, got %s", tok, p.tok)
	} else {
		p.next()
	}
	return pos
}

func (p *Parser) accept(tok token.Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// parseTopLevelBlock parses a sequence of item statements until EOF (the
// module root has no surrounding braces).
func (p *Parser) parseTopLevelBlock() (*ast.Block, token.Pos) {
	start := p.pos
	b := &ast.Block{Start: start}
	for p.tok != token.EOF {
		b.Stmts = append(b.Stmts, p.parseStmt())
	}
	b.End = p.pos
	return b, p.pos
}

// parseBlock parses a brace-delimited block, including an optional
// trailing tail expression (an ExprStmt-shaped expression with no
// terminating semicolon).
func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	b := &ast.Block{Start: start}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.startsStmtOnly() {
			b.Stmts = append(b.Stmts, p.parseStmt())
			continue
		}
		expr := p.parseExpr()
		if p.tok == token.SEMI {
			p.next()
			b.Stmts = append(b.Stmts, &ast.ExprStmt{Expr: expr, End: p.pos})
			continue
		}
		b.Tail = expr
		break
	}
	b.End = p.expect(token.RBRACE)
	return b
}

// startsStmtOnly reports whether the current token begins a statement
// form that is never an expression (let/const/assert/dbg/return/for/fn/
// struct/enum/...), so parseBlock can dispatch to parseStmt without first
// attempting an expression parse.
func (p *Parser) startsStmtOnly() bool {
	switch p.tok {
	case token.LET, token.CONST, token.FN, token.STRUCT, token.ENUM, token.IMPL,
		token.TYPE, token.MOD, token.USE, token.FOR, token.RETURN, token.ASSERT, token.DBG:
		return true
	}
	return false
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.LET, token.CONST:
		return p.parseLet()
	case token.FN:
		return p.parseFn()
	case token.STRUCT:
		return p.parseStruct()
	case token.ENUM:
		return p.parseEnum()
	case token.IMPL:
		return p.parseImpl()
	case token.TYPE:
		return p.parseTypeAlias()
	case token.MOD:
		return p.parseMod()
	case token.USE:
		return p.parseUse()
	case token.FOR:
		return p.parseFor()
	case token.IF:
		return p.parseIfStmt()
	case token.RETURN:
		return p.parseReturn()
	case token.ASSERT:
		return p.parseAssert()
	case token.DBG:
		return p.parseDbg()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	left := p.parseExpr()
	if p.tok == token.ASSIGN {
		p.next()
		right := p.parseExpr()
		end := p.expect(token.SEMI)
		return &ast.AssignStmt{Left: left, Right: right, End: end}
	}
	end := p.pos
	if p.tok == token.SEMI {
		p.next()
	}
	return &ast.ExprStmt{Expr: left, End: end}
}

func (p *Parser) parseIdent() *ast.IdentExpr {
	pos, lit := p.pos, p.lit
	p.expect(token.IDENT)
	return &ast.IdentExpr{Start: pos, Lit: lit}
}

