package constraint

import "github.com/zinclang/zinc/field"

// Constraint is one recorded A*B=C triple, namespaced for diagnostics.
type Constraint struct {
	Name    string
	A, B, C LinearCombination
}

// VarRole distinguishes a witness-only variable from a public-input one.
type VarRole uint8

const (
	RoleWitness VarRole = iota
	RoleInput
)

// ProvingCS records the full R1CS instance - every allocated variable's
// role and witness value, and every emitted constraint - so that package
// facade can hand it to the actual SNARK backend (gnark's groth16/bn254)
// for setup/prove/verify (spec §4.1: "ProvingCS - forwards to SNARK
// backend"; the backend itself is the external black-box collaborator
// named in spec §1, wired in package facade rather than here).
type ProvingCS struct {
	nextHandle  int
	roles       []VarRole
	values      []field.Element
	names       []string
	namespace   []string
	constraints []Constraint
}

// NewProvingCS creates an empty ProvingCS.
func NewProvingCS() *ProvingCS { return &ProvingCS{} }

func (cs *ProvingCS) alloc(name string, role VarRole, value ValueFn) Handle {
	h := Handle{id: cs.nextHandle}
	cs.nextHandle++
	var v field.Element
	if value != nil {
		v = value()
	}
	cs.roles = append(cs.roles, role)
	cs.values = append(cs.values, v)
	cs.names = append(cs.names, name)
	return h
}

func (cs *ProvingCS) AllocateWitness(name string, value ValueFn) Handle {
	return cs.alloc(name, RoleWitness, value)
}

func (cs *ProvingCS) AllocateInput(name string, value ValueFn) Handle {
	return cs.alloc(name, RoleInput, value)
}

func (cs *ProvingCS) Enforce(name string, a, b, c LinearCombination) {
	cs.constraints = append(cs.constraints, Constraint{
		Name: joinNamespace(cs.namespace, name), A: a, B: b, C: c,
	})
}

func (cs *ProvingCS) PushNamespace(tag string) { cs.namespace = append(cs.namespace, tag) }
func (cs *ProvingCS) PopNamespace() {
	if len(cs.namespace) > 0 {
		cs.namespace = cs.namespace[:len(cs.namespace)-1]
	}
}

func (cs *ProvingCS) Value(h Handle) (field.Element, bool) {
	if h.id < 0 || h.id >= len(cs.values) {
		return field.Element{}, false
	}
	return cs.values[h.id], true
}

// NumVars returns the number of allocated variables.
func (cs *ProvingCS) NumVars() int { return cs.nextHandle }

// Role reports the role a handle was allocated with.
func (cs *ProvingCS) Role(h Handle) VarRole { return cs.roles[h.id] }

// HandleAt returns the Handle assigned to the i-th allocation (0-indexed,
// across both witness and input roles, in allocation order). This lets an
// external backend (package facade) walk every allocated variable without
// needing Handle's internal id field exposed.
func (cs *ProvingCS) HandleAt(i int) Handle { return Handle{id: i} }

// Constraints returns every enforced A*B=C triple in emission order (spec
// §8 property 4: this order must be bit-identical across runs of the same
// program and witness).
func (cs *ProvingCS) Constraints() []Constraint { return cs.constraints }

var _ System = (*ProvingCS)(nil)
var _ Valuer = (*ProvingCS)(nil)
