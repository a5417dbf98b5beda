package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakePosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{1, 80},
		{42, 7},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		require.Equal(t, c.line, gotLine)
		require.Equal(t, c.col, gotCol)
	}
}

func TestPosUnknown(t *testing.T) {
	require.True(t, NoPos.Unknown())
	require.True(t, MakePos(0, 1).Unknown())
	require.True(t, MakePos(1, 0).Unknown())
	require.False(t, MakePos(1, 1).Unknown())
}

func TestFileSetAddFile(t *testing.T) {
	fset := NewFileSet()
	f0 := fset.AddFile("a.zn", []byte("let x = 1;\n"))
	f1 := fset.AddFile("b.zn", []byte("let y = 2;\n"))

	require.Equal(t, 0, f0.ID())
	require.Equal(t, 1, f1.ID())
	require.Equal(t, "a.zn", f0.Name())
	require.Equal(t, "b.zn", f1.Name())

	require.Same(t, f0, fset.File(0))
	require.Same(t, f1, fset.File(1))
	require.Nil(t, fset.File(2))
	require.Nil(t, fset.File(-1))
}

func TestFilePosition(t *testing.T) {
	fset := NewFileSet()
	f := fset.AddFile("test.zn", []byte("let x = 1;\nlet y = 2;\n"))

	pos := MakePos(2, 5)
	got := f.Position(pos)
	require.Equal(t, Position{Filename: "test.zn", Line: 2, Col: 5}, got)
}

func TestFileLine(t *testing.T) {
	f := NewFileSet().AddFile("test.zn", []byte("first\nsecond\nthird"))

	require.Equal(t, "first", f.Line(1))
	require.Equal(t, "second", f.Line(2))
	require.Equal(t, "third", f.Line(3))
	require.Equal(t, "", f.Line(0))
	require.Equal(t, "", f.Line(4))
}

func TestFileLineTrailingNewline(t *testing.T) {
	f := NewFileSet().AddFile("test.zn", []byte("only one line\n"))

	require.Equal(t, "only one line", f.Line(1))
	require.Equal(t, "", f.Line(2))
}
