package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/lang/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()
	var s Scanner
	var errs []string
	s.Init([]byte(src), func(pos token.Pos, msg string) { errs = append(errs, msg) })

	var toks []token.Token
	for {
		tok, _, _, _ := s.Scan()
		toks = append(toks, tok)
		if tok == token.EOF {
			break
		}
	}
	return toks, errs
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, errs := scanAll(t, "let mut x = foo_bar;")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.LET, token.MUT, token.IDENT, token.ASSIGN, token.IDENT, token.SEMI, token.EOF,
	}, toks)
}

func TestScanIntegerLiteral(t *testing.T) {
	var s Scanner
	s.Init([]byte("1_000"), nil)
	tok, _, lit, val := s.Scan()
	require.Equal(t, token.INT, tok)
	require.Equal(t, "1000", lit)
	require.EqualValues(t, 1000, val.Int)
}

func TestScanStringLiteralWithEscapes(t *testing.T) {
	var s Scanner
	s.Init([]byte(`"a\nb\"c"`), nil)
	tok, _, _, val := s.Scan()
	require.Equal(t, token.STRING, tok)
	require.Equal(t, "a\nb\"c", val.String)
}

func TestScanUnterminatedString(t *testing.T) {
	var errs []string
	var s Scanner
	s.Init([]byte(`"abc`), func(pos token.Pos, msg string) { errs = append(errs, msg) })
	tok, _, _, _ := s.Scan()
	require.Equal(t, token.STRING, tok)
	require.Len(t, errs, 1)
}

func TestScanOperators(t *testing.T) {
	toks, errs := scanAll(t, "<= >= == != && || << >> -> :: ..= ..")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.LE, token.GE, token.EQ, token.NEQ, token.AMPAMP, token.PIPEPIPE,
		token.LTLT, token.GTGT, token.ARROW, token.COLONCOLON, token.DOTDOTEQ, token.DOTDOT,
		token.EOF,
	}, toks)
}

func TestScanLineComment(t *testing.T) {
	toks, errs := scanAll(t, "let x = 1; // trailing comment\nlet y = 2;")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.EOF,
	}, toks)
}

func TestScanIllegalCharacter(t *testing.T) {
	toks, errs := scanAll(t, "@")
	require.Equal(t, []token.Token{token.ILLEGAL, token.EOF}, toks)
	require.Len(t, errs, 1)
}

func TestScanPositionsTrackLineAndCol(t *testing.T) {
	var s Scanner
	s.Init([]byte("a\nbb"), nil)

	_, pos1, _, _ := s.Scan()
	line, col := pos1.LineCol()
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	_, pos2, _, _ := s.Scan()
	line, col = pos2.LineCol()
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)
}
