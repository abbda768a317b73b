package pqspr

import (
	"fmt"
	"strconv"

	"github.com/sarchlab/akita/v4/sim"
)

// Hook positions fired by a File. Commit hooks receive one TraceEntry per
// committed register as the item, abort hooks the aborted indices, wipe hooks
// nothing.
var (
	HookPosCommit = &sim.HookPos{Name: "PQSPR Commit"}
	HookPosAbort  = &sim.HookPos{Name: "PQSPR Abort"}
	HookPosWipe   = &sim.HookPos{Name: "PQSPR Wipe"}
)

// bank gives rules read access to the committed values of the file's
// registers.
type bank []*Register

func (b bank) Sample(idx int) Value {
	return b[idx].ReadCurrent()
}

// File is the PQSPR register file. It owns every register and the write set
// of the current cycle.
type File struct {
	*sim.HookableBase

	prefix     string
	traceWidth int

	regs    bank
	pending pendingSet
}

// FileOption configures a File.
type FileOption func(*File)

// WithPrefix sets the prefix of register names in the trace.
func WithPrefix(prefix string) FileOption {
	return func(f *File) {
		f.prefix = prefix
	}
}

// WithTraceWidth sets the width every trace entry is rendered with.
func WithTraceWidth(width int) FileOption {
	return func(f *File) {
		f.traceWidth = width
	}
}

// NewFile creates a register file with every register at 0.
func NewFile(opts ...FileOption) *File {
	f := &File{
		HookableBase: sim.NewHookableBase(),
		prefix:       "p",
		traceWidth:   WideWidth,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.regs = make(bank, NumRegs)
	for i, spec := range layout {
		cell := NewCell(i, spec.name, spec.width, &f.pending)
		f.regs[i] = NewRegister(cell, spec.kind, f.regs)
	}

	return f
}

// Len returns the number of registers.
func (f *File) Len() int {
	return len(f.regs)
}

// Prefix returns the trace name prefix.
func (f *File) Prefix() string {
	return f.prefix
}

// Reg returns the register at idx.
func (f *File) Reg(idx int) (*Register, error) {
	if idx < 0 || idx >= len(f.regs) {
		return nil, &ContractError{
			Reg:   idx,
			Name:  "?",
			Op:    "get_reg",
			Value: strconv.Itoa(idx),
			Err:   ErrIndexRange,
		}
	}
	return f.regs[idx], nil
}

// Lookup finds a register by name ("twiddle"), trace name ("p02") or index
// ("2").
func (f *File) Lookup(name string) (*Register, error) {
	for i, r := range f.regs {
		if r.Name() == name || f.TraceName(i) == name {
			return r, nil
		}
	}

	idx, err := strconv.Atoi(name)
	if err != nil {
		return nil, fmt.Errorf("no register named %q", name)
	}
	return f.Reg(idx)
}

// TraceName returns the trace name of register idx.
func (f *File) TraceName(idx int) string {
	return fmt.Sprintf("%s%02d", f.prefix, idx)
}

// Named accessors.

func (f *File) Q() *Register { return f.regs[RegQ] }
func (f *File) QDash() *Register { return f.regs[RegQDash] }
func (f *File) Twiddle() *Register { return f.regs[RegTwiddle] }
func (f *File) Omega() *Register { return f.regs[RegOmega] }
func (f *File) Psi() *Register { return f.regs[RegPsi] }
func (f *File) IdxOmega() *Register { return f.regs[RegIdxOmega] }
func (f *File) IdxPsi() *Register { return f.regs[RegIdxPsi] }
func (f *File) Const() *Register { return f.regs[RegConst] }
func (f *File) RC() *Register { return f.regs[RegRC] }
func (f *File) IdxRC() *Register { return f.regs[RegIdxRC] }
func (f *File) M() *Register { return f.regs[RegM] }
func (f *File) J2() *Register { return f.regs[RegJ2] }
func (f *File) J() *Register { return f.regs[RegJ] }
func (f *File) Idx0() *Register { return f.regs[RegIdx0] }
func (f *File) Idx1() *Register { return f.regs[RegIdx1] }
func (f *File) Mode() *Register { return f.regs[RegMode] }
func (f *File) X() *Register { return f.regs[RegX] }
func (f *File) Y() *Register { return f.regs[RegY] }

// Pending returns the indices written this cycle in ascending order.
func (f *File) Pending() []int {
	return f.pending.indices()
}

// Changes returns one trace entry per register written this cycle, in
// ascending index order, carrying the value that Commit would apply.
func (f *File) Changes() []TraceEntry {
	indices := f.pending.indices()
	entries := make([]TraceEntry, 0, len(indices))
	for _, idx := range indices {
		entries = append(entries, TraceEntry{
			Name:  f.TraceName(idx),
			Width: f.traceWidth,
			Value: f.regs[idx].ReadPending(),
		})
	}
	return entries
}

// Commit applies every staged value and empties the write set. The write set
// is checked first, so a failing Commit changes nothing.
func (f *File) Commit() error {
	if err := f.checkPending("commit"); err != nil {
		return err
	}
	if f.pending.len() == 0 {
		return nil
	}

	changes := f.Changes()
	for _, idx := range f.pending.indices() {
		f.regs[idx].Commit()
	}
	f.pending.clear()

	for _, entry := range changes {
		f.InvokeHook(sim.HookCtx{
			Domain: f,
			Pos:    HookPosCommit,
			Item:   entry,
		})
	}

	return nil
}

// Abort drops every staged value and empties the write set.
func (f *File) Abort() error {
	if err := f.checkPending("abort"); err != nil {
		return err
	}
	if f.pending.len() == 0 {
		return nil
	}

	aborted := f.pending.indices()
	for _, idx := range aborted {
		f.regs[idx].Abort()
	}
	f.pending.clear()

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    HookPosAbort,
		Item:   aborted,
	})

	return nil
}

// PeekValues returns the committed value of every register without touching
// the write protocol.
func (f *File) PeekValues() []Value {
	values := make([]Value, len(f.regs))
	for i, r := range f.regs {
		values[i] = r.ReadBackdoor()
	}
	return values
}

// Wipe stages the unknown value into every register. It takes effect at the
// next Commit like any other write.
func (f *File) Wipe() {
	for _, r := range f.regs {
		r.WriteInvalid()
	}

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    HookPosWipe,
	})
}

// Seed overwrites the committed value of register idx through the backdoor.
// It is meant for loading a session's initial state.
func (f *File) Seed(idx int, v Value) error {
	r, err := f.Reg(idx)
	if err != nil {
		return err
	}
	return r.WriteBackdoor(v)
}

// Reset returns every register to 0 and drops the write set.
func (f *File) Reset() {
	for _, r := range f.regs {
		r.Abort()
		r.current = Value{}
	}
	f.pending.clear()
}

func (f *File) checkPending(op string) error {
	if uint64(f.pending)>>uint(len(f.regs)) != 0 {
		return &ContractError{
			Reg:   -1,
			Name:  "?",
			Op:    op,
			Value: fmt.Sprintf("set %#x", uint64(f.pending)),
			Err:   ErrInconsistent,
		}
	}

	for i, r := range f.regs {
		if r.HasPending() != f.pending.has(i) {
			return r.violation(op, "", ErrInconsistent)
		}
	}

	return nil
}
