package parser

import (
	"github.com/zinclang/zinc/lang/ast"
	"github.com/zinclang/zinc/lang/token"
)

// parseType parses a type annotation: a named type, an array type `[T; n]`,
// or a tuple type `(T1, T2, ...)`.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.tok {
	case token.LBRACK:
		start := p.pos
		p.next()
		elem := p.parseType()
		p.expect(token.SEMI)
		length := p.parseExpr()
		end := p.expect(token.RBRACK)
		return &ast.ArrayTypeExpr{Start: start, End: end, Elem: elem, Len: length}
	case token.LPAREN:
		start := p.pos
		p.next()
		var elems []ast.TypeExpr
		for p.tok != token.RPAREN && p.tok != token.EOF {
			elems = append(elems, p.parseType())
			if !p.accept(token.COMMA) {
				break
			}
		}
		end := p.expect(token.RPAREN)
		return &ast.TupleTypeExpr{Start: start, End: end, Elems: elems}
	case token.IDENT:
		pos, name := p.pos, p.lit
		p.next()
		return &ast.NamedTypeExpr{Start: pos, Name: name}
	default:
		pos := p.pos
		p.errorf(pos, "expected type, got %s", p.tok)
		p.next()
		return &ast.NamedTypeExpr{Start: pos, Name: "?"}
	}
}
