package facade

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
	"github.com/zinclang/zinc/vm"
)

// inputScalars allocates one cell per flattened input leaf against cs, in
// the order DecodeJSON produced them (spec §4.5.1's "main's parameters are
// pushed onto the data stack in declaration order"). Every function
// parameter is private witness in the real circuit; only a program's
// declared outputs become public input, via vm's own finalize step.
func inputScalars(cs constraint.System, values []flattenedValue) []scalar.Scalar {
	out := make([]scalar.Scalar, len(values))
	for i, fv := range values {
		v := fv.Value
		h := cs.AllocateWitness("arg", func() field.Element { return v })
		out[i] = scalar.Variable(h, v, true, fv.Type)
	}
	return out
}

// outputValues reads the concrete field values behind the handles vm.Run
// returned, via the Valuer capability DebugCS/ProvingCS both implement.
func outputValues(v constraint.Valuer, handles []constraint.Handle) ([]field.Element, error) {
	out := make([]field.Element, len(handles))
	for i, h := range handles {
		val, ok := v.Value(h)
		if !ok {
			return nil, fmt.Errorf("facade: output %d has no recorded value", i)
		}
		out[i] = val
	}
	return out, nil
}

// Run executes prog against inputJSON with a DebugCS (spec §6.2's run
// entry point: "executes the program and returns outputs, failing on any
// assertion violation or unsatisfied constraint"), and returns its
// flattened JSON output.
func Run(prog *compiler.Program, inputJSON []byte) ([]byte, error) {
	values, err := DecodeJSON(prog.InputType, inputJSON)
	if err != nil {
		return nil, err
	}
	cs := constraint.NewDebugCS()
	inputs := inputScalars(cs, values)
	handles, err := vm.Run(cs, prog, inputs, nil)
	if err != nil {
		return nil, err
	}
	if !cs.Satisfied() {
		return nil, fmt.Errorf("facade: %d constraint violation(s), first: %s", len(cs.Violations()), cs.Violations()[0])
	}
	outputs, err := outputValues(cs, handles)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(prog.OutputType, outputs)
}

// DebugReport bundles Debug's extra diagnostics alongside its output.
type DebugReport struct {
	Violations    []constraint.Violation
	Unconstrained []constraint.Handle
}

// Debug is Run plus dbg! line capture and unconstrained-variable reporting
// (spec §6.2's debug entry point: "as run, but additionally streams dbg!
// output, reports which constraints were violated, and flags any variable
// the program computed but never constrained").
func Debug(prog *compiler.Program, inputJSON []byte, dbgOut func(string)) ([]byte, DebugReport, error) {
	values, err := DecodeJSON(prog.InputType, inputJSON)
	if err != nil {
		return nil, DebugReport{}, err
	}
	cs := newTrackingCS()
	inputs := inputScalars(cs, values)
	handles, err := vm.Run(cs, prog, inputs, dbgOut)
	report := DebugReport{Violations: cs.Violations(), Unconstrained: cs.Unconstrained()}
	if err != nil {
		return nil, report, err
	}
	outputs, err := outputValues(cs, handles)
	if err != nil {
		return nil, report, err
	}
	out, err := EncodeJSON(prog.OutputType, outputs)
	return out, report, err
}

// Keys bundles the proving/verifying key pair groth16.Setup produces.
type Keys struct {
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
}

// Setup runs prog once with a ProvingCS fed by a throwaway zero witness to
// capture its R1CS shape (spec §4.5.1's "a program's constraint shape does
// not depend on the concrete witness, only on control flow taken", which
// for any fixed input size is itself fixed since every loop is unrolled at
// analysis time), then hands that shape to gnark's groth16.Setup via the
// replay circuit (spec §6.2's setup entry point).
func Setup(prog *compiler.Program) (*Keys, error) {
	cs, _, err := traceZeroWitness(prog)
	if err != nil {
		return nil, err
	}
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, newReplayCircuit(cs))
	if err != nil {
		return nil, fmt.Errorf("facade: compiling replayed circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("facade: groth16 setup: %w", err)
	}
	return &Keys{ProvingKey: pk, VerifyingKey: vk}, nil
}

// traceZeroWitness runs prog through a ProvingCS with every input cell set
// to field zero, purely to obtain the instance's constraint shape; the
// values recorded are never used for anything but sizing the replay
// circuit (a real run with the prover's actual witness happens in Prove).
func traceZeroWitness(prog *compiler.Program) (*constraint.ProvingCS, []constraint.Handle, error) {
	raw, _ := json.Marshal(zeroedJSON(prog.InputType))
	values, err := DecodeJSON(prog.InputType, raw)
	if err != nil {
		return nil, nil, err
	}
	cs := constraint.NewProvingCS()
	inputs := inputScalars(cs, values)
	handles, err := vm.Run(cs, prog, inputs, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("facade: tracing constraint shape: %w", err)
	}
	return cs, handles, nil
}

// zeroedJSON builds a JSON-able zero value matching tag's shape, used only
// to drive traceZeroWitness's shape-only run.
func zeroedJSON(tag compiler.TypeTag) interface{} {
	switch tag.Kind {
	case compiler.TagUnit:
		return nil
	case compiler.TagScalar:
		if _, ok := tag.Scalar.(types.Boolean); ok {
			return false
		}
		return "0"
	case compiler.TagArray:
		items := make([]interface{}, tag.Len)
		for i := range items {
			items[i] = zeroedJSON(*tag.Elem)
		}
		return items
	case compiler.TagTuple:
		items := make([]interface{}, len(tag.Fields))
		for i, f := range tag.Fields {
			items[i] = zeroedJSON(f)
		}
		return items
	case compiler.TagStruct:
		obj := make(map[string]interface{}, len(tag.Fields))
		for i, f := range tag.Fields {
			obj[tag.Names[i]] = zeroedJSON(f)
		}
		return obj
	}
	return nil
}

// Prove runs prog against witnessJSON with a ProvingCS to record the real
// witness, replays it through gnark, and returns both the proof and the
// flattened JSON of the program's declared outputs (the public inputs the
// verifier needs alongside the proof, per spec §6.2's prove entry point).
func Prove(prog *compiler.Program, pk groth16.ProvingKey, witnessJSON []byte) (groth16.Proof, []byte, error) {
	values, err := DecodeJSON(prog.InputType, witnessJSON)
	if err != nil {
		return nil, nil, err
	}
	cs := constraint.NewProvingCS()
	inputs := inputScalars(cs, values)
	handles, err := vm.Run(cs, prog, inputs, nil)
	if err != nil {
		return nil, nil, err
	}
	outputs, err := outputValues(cs, handles)
	if err != nil {
		return nil, nil, err
	}
	outJSON, err := EncodeJSON(prog.OutputType, outputs)
	if err != nil {
		return nil, nil, err
	}

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, newReplayCircuit(cs))
	if err != nil {
		return nil, nil, fmt.Errorf("facade: compiling replayed circuit: %w", err)
	}
	fullWitness, err := frontend.NewWitness(newAssignment(cs), ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("facade: building full witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return nil, nil, fmt.Errorf("facade: groth16 prove: %w", err)
	}
	return proof, outJSON, nil
}

// Verify checks proof against vk and the program's flattened output JSON
// (spec §6.2's verify entry point).
func Verify(prog *compiler.Program, vk groth16.VerifyingKey, proof groth16.Proof, outputJSON []byte) (bool, error) {
	outputs, err := DecodeJSON(prog.OutputType, outputJSON)
	if err != nil {
		return false, err
	}
	cs := constraint.NewProvingCS()
	for _, fv := range outputs {
		v := fv.Value
		cs.AllocateInput("out", func() field.Element { return v })
	}
	publicOnly := newAssignment(cs)
	publicWitness, err := frontend.NewWitness(publicOnly, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("facade: building public witness: %w", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return false, nil
	}
	return true, nil
}
