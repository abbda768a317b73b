package pqspr

import "fmt"

// Register is a Cell together with its kind-specific update rules. It holds
// a Sampler onto its siblings but does not own them.
type Register struct {
	*Cell
	kind Kind
	env  Sampler
}

// NewRegister creates a register of the given kind. env supplies sibling
// values for the update rules and may be nil for kinds without rules.
func NewRegister(cell *Cell, kind Kind, env Sampler) *Register {
	return &Register{
		Cell: cell,
		kind: kind,
		env:  env,
	}
}

// Kind returns the register kind.
func (r *Register) Kind() Kind {
	return r.kind
}

// Supports reports whether op is defined for the register.
func (r *Register) Supports(op Op) bool {
	_, ok := kindRules[r.kind][op]
	return ok
}

// Apply evaluates op and stages the result. On error nothing is staged.
func (r *Register) Apply(op Op) error {
	fn, ok := kindRules[r.kind][op]
	if !ok {
		return r.violation(op.String(), "", fmt.Errorf("%w: %s", ErrUnsupported, r.kind))
	}

	next, err := fn(r)
	if err != nil {
		return err
	}

	r.stage(next)
	return nil
}

// Increment stages current+1. It fails at 2^32-1 instead of wrapping.
func (r *Register) Increment() error {
	return r.Apply(OpIncrement)
}

// SetFromCounter stages the bit-reversed low byte of J, offset by M for the
// offset address identity.
func (r *Register) SetFromCounter() error {
	return r.Apply(OpSetFromCounter)
}

// LoadFromPsi stages the Psi lane selected by the Psi index counter.
func (r *Register) LoadFromPsi() error {
	return r.Apply(OpLoadFromPsi)
}

// NegateModQ stages q - twiddle.
func (r *Register) NegateModQ() error {
	return r.Apply(OpNegateModQ)
}

// UpdateByOmega stages the Montgomery product of twiddle and the Omega lane
// selected by the Omega index counter.
func (r *Register) UpdateByOmega() error {
	return r.Apply(OpUpdateByOmega)
}

// Update stages the kind's self-update: Omega squares itself, Psi broadcasts
// an Omega lane, M and J2 step the butterfly stride.
func (r *Register) Update() error {
	return r.Apply(OpUpdate)
}

// RegisterSelect returns the wide register selected by an address counter.
func (r *Register) RegisterSelect() uint32 {
	return r.ReadCurrent().Uint32() >> 3
}

// LaneSelect returns the lane selected by an address counter.
func (r *Register) LaneSelect() uint32 {
	return r.ReadCurrent().Uint32() & 0x7
}

// selectLane samples the lane of src chosen by the committed value of sel.
func (r *Register) selectLane(src, sel int, op Op) (Value, error) {
	idx := r.env.Sample(sel)
	if !idx.IsKnown() {
		return Unknown(), nil
	}
	if idx.Uint32() >= NumLanes {
		return Value{}, r.violation(op.String(),
			fmt.Sprintf("lane %d", idx.Uint32()), ErrLaneRange)
	}
	return r.env.Sample(src).LaneValue(int(idx.Uint32())), nil
}

func (r *Register) montMul(a, b Value) Value {
	q := r.env.Sample(RegQ)
	qDash := r.env.Sample(RegQDash)
	if !a.IsKnown() || !b.IsKnown() || !q.IsKnown() || !qDash.IsKnown() {
		return Unknown()
	}
	return Word(MontMul(a.Low64(), b.Low64(), q.Uint32(), qDash.Uint32()))
}
