package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/parser"
	"github.com/zinclang/zinc/lang/semantic"
	"github.com/zinclang/zinc/lang/token"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
	"github.com/zinclang/zinc/vm"
)

// compile runs the full front end - scan, parse, analyze - on src and
// returns the resulting bytecode program, the way facade.compile would
// before handing it to vm.Run.
func compile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	fset := token.NewFileSet()
	f := fset.AddFile("t.zn", []byte(src))
	chunk, err := parser.Parse(f, []byte(src))
	require.NoError(t, err)

	a := semantic.NewAnalyzer(f, types.NewInterner())
	prog, err := a.Analyze(chunk)
	require.NoError(t, err)
	return prog
}

func run(t *testing.T, prog *compiler.Program, inputs []scalar.Scalar) ([]constraint.Handle, *constraint.DebugCS) {
	t.Helper()
	cs := constraint.NewDebugCS()
	handles, err := vm.Run(cs, prog, inputs, nil)
	require.NoError(t, err)
	return handles, cs
}

func u8Witness(cs constraint.System, n uint64) scalar.Scalar {
	v := field.FromUint64(n)
	h := cs.AllocateWitness("in", func() field.Element { return v })
	return scalar.Variable(h, v, true, types.Uint{Bits: 8})
}

func TestEndToEndArithmetic(t *testing.T) {
	prog := compile(t, "fn main() -> u8 { 2 + 3 * 4 }")
	handles, cs := run(t, prog, nil)
	require.Len(t, handles, 1)
	require.True(t, cs.Satisfied())
	v, ok := cs.Value(handles[0])
	require.True(t, ok)
	require.Equal(t, field.FromUint64(14), v)
}

func TestEndToEndFunctionCall(t *testing.T) {
	prog := compile(t, `
		fn double(x: u8) -> u8 { x * 2 }
		fn main() -> u8 { double(5) }
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(10), v)
}

func TestEndToEndForwardFunctionReference(t *testing.T) {
	prog := compile(t, `
		fn main() -> u8 { helper(3) }
		fn helper(x: u8) -> u8 { x + 1 }
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(4), v)
}

func TestEndToEndIfElseConstant(t *testing.T) {
	prog := compile(t, `
		fn main() -> u8 {
			if true { 1 } else { 2 }
		}
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(1), v)
}

func TestEndToEndIfElseWitnessCondition(t *testing.T) {
	prog := compile(t, `
		fn main(x: u8) -> u8 {
			if x == 0 { 10 } else { 20 }
		}
	`)
	cs := constraint.NewDebugCS()
	in := u8Witness(cs, 0)
	handles, err := vm.Run(cs, prog, []scalar.Scalar{in}, nil)
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(10), v)
}

func TestEndToEndForLoopUnrolled(t *testing.T) {
	prog := compile(t, `
		fn main() -> u8 {
			let mut acc: u8 = 0;
			for i in 0..4 {
				acc = acc + 1;
			}
			acc
		}
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(4), v)
}

func TestEndToEndArrayIndex(t *testing.T) {
	prog := compile(t, `
		fn main() -> u8 {
			let xs: [u8; 4] = [10, 20, 30, 40];
			xs[2]
		}
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(30), v)
}

func TestEndToEndArraySlice(t *testing.T) {
	prog := compile(t, `
		fn main() -> u8 {
			let xs: [u8; 4] = [10, 20, 30, 40];
			let ys: [u8; 2] = xs[1..3];
			ys[1]
		}
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(30), v)
}

func TestEndToEndArraySliceInclusive(t *testing.T) {
	prog := compile(t, `
		fn main() -> u8 {
			let xs: [u8; 4] = [10, 20, 30, 40];
			let ys: [u8; 3] = xs[1..=3];
			ys[2]
		}
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(40), v)
}

func TestEndToEndAssertPasses(t *testing.T) {
	prog := compile(t, `
		fn main(x: u8) -> u8 {
			assert!(x == 5, "x must be 5");
			x
		}
	`)
	cs := constraint.NewDebugCS()
	in := u8Witness(cs, 5)
	_, err := vm.Run(cs, prog, []scalar.Scalar{in}, nil)
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
}

func TestEndToEndAssertFailsAtAnalysisForConstantFalse(t *testing.T) {
	fset := token.NewFileSet()
	src := `fn main() -> u8 { assert!(1 == 2, "never"); 0 }`
	f := fset.AddFile("t.zn", []byte(src))
	chunk, err := parser.Parse(f, []byte(src))
	require.NoError(t, err)

	a := semantic.NewAnalyzer(f, types.NewInterner())
	_, err = a.Analyze(chunk)
	require.Error(t, err)
}

func TestEndToEndMissingMainReportsError(t *testing.T) {
	fset := token.NewFileSet()
	src := `fn helper() -> u8 { 1 }`
	f := fset.AddFile("t.zn", []byte(src))
	chunk, err := parser.Parse(f, []byte(src))
	require.NoError(t, err)

	a := semantic.NewAnalyzer(f, types.NewInterner())
	_, err = a.Analyze(chunk)
	require.Error(t, err)
}

func TestEndToEndUndefinedNameReportsError(t *testing.T) {
	fset := token.NewFileSet()
	src := `fn main() -> u8 { y }`
	f := fset.AddFile("t.zn", []byte(src))
	chunk, err := parser.Parse(f, []byte(src))
	require.NoError(t, err)

	a := semantic.NewAnalyzer(f, types.NewInterner())
	_, err = a.Analyze(chunk)
	require.Error(t, err)
}

func TestEndToEndConstPropagation(t *testing.T) {
	prog := compile(t, `
		fn main() -> u8 {
			const N: u8 = 10;
			let m: u8 = N + 1;
			m
		}
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(11), v)
}

// compileErr runs the same front-end pipeline as compile but returns the
// analysis error instead of requiring its absence, for tests that assert a
// specific program is rejected.
func compileErr(t *testing.T, src string) error {
	t.Helper()
	fset := token.NewFileSet()
	f := fset.AddFile("t.zn", []byte(src))
	chunk, err := parser.Parse(f, []byte(src))
	require.NoError(t, err)

	a := semantic.NewAnalyzer(f, types.NewInterner())
	_, err = a.Analyze(chunk)
	return err
}

func TestEndToEndStructLiteralCompiles(t *testing.T) {
	prog := compile(t, `
		struct Point { x: u8, y: u8 }
		fn main() -> u8 {
			let p: Point = Point { x: 1, y: 2 };
			0
		}
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(0), v)
}

func TestEndToEndStructDuplicateFieldDeclarationReportsError(t *testing.T) {
	err := compileErr(t, `
		struct Point { x: u8, x: u8 }
		fn main() -> u8 { 0 }
	`)
	require.Error(t, err)
}

func TestEndToEndStructLiteralDuplicateFieldReportsError(t *testing.T) {
	err := compileErr(t, `
		struct Point { x: u8, y: u8 }
		fn main() -> u8 {
			let p: Point = Point { x: 1, x: 2 };
			0
		}
	`)
	require.Error(t, err)
}

func TestEndToEndEnumVariantConstant(t *testing.T) {
	prog := compile(t, `
		enum Color { Red, Green, Blue }
		fn main() -> u8 { Color::Green }
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(1), v)
}

func TestEndToEndEnumExplicitDiscriminant(t *testing.T) {
	prog := compile(t, `
		enum Color { Red = 5, Green, Blue }
		fn main() -> u8 { Color::Blue }
	`)
	handles, cs := run(t, prog, nil)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(7), v)
}

func TestEndToEndEnumDuplicateVariantReportsError(t *testing.T) {
	err := compileErr(t, `
		enum Color { Red, Red }
		fn main() -> u8 { 0 }
	`)
	require.Error(t, err)
}

func TestEndToEndMatchDynamicWitnessScrutinee(t *testing.T) {
	prog := compile(t, `
		fn main(x: u8) -> u8 {
			match x {
				0 => 10,
				1 => 20,
				_ => 99,
			}
		}
	`)
	cs := constraint.NewDebugCS()
	in := u8Witness(cs, 1)
	handles, err := vm.Run(cs, prog, []scalar.Scalar{in}, nil)
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
	v, _ := cs.Value(handles[0])
	require.Equal(t, field.FromUint64(20), v)
}

func TestEndToEndMatchWithoutTrailingWildcardReportsError(t *testing.T) {
	err := compileErr(t, `
		fn main(x: u8) -> u8 {
			match x {
				0 => 10,
				1 => 20,
			}
		}
	`)
	require.Error(t, err)
}

func TestEndToEndMatchBranchUnreachableReportsError(t *testing.T) {
	err := compileErr(t, `
		fn main() -> u8 {
			let scrutinee: u8 = 42;
			match scrutinee {
				1 => 10,
				_ => 101,
				2 => 20,
			}
		}
	`)
	require.Error(t, err)
}
