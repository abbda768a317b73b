package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/pqsim/params"
	"github.com/sarchlab/pqsim/pqspr"
)

// ErrOpenCycle is returned when a script ends with writes that were neither
// committed nor aborted.
var ErrOpenCycle = errors.New("script ends inside an open cycle")

// ExpectError reports a register whose committed value differs from an
// expect statement.
type ExpectError struct {
	Line int
	Reg  string
	Want pqspr.Value
	Got  pqspr.Value
}

func (e *ExpectError) Error() string {
	return fmt.Sprintf("line %d: expected %s = %s, got %s", e.Line, e.Reg, e.Want, e.Got)
}

// Stats holds the counters of a driver run.
type Stats struct {
	// Cycles is the number of closed cycles, committed or aborted.
	Cycles uint64
	// Commits is the number of commit statements.
	Commits uint64
	// Aborts is the number of abort statements.
	Aborts uint64
	// Ops is the number of statements that staged something.
	Ops uint64
	// Committed is the number of register values made current.
	Committed uint64
	// Expects is the number of expect statements checked.
	Expects uint64
}

// Driver executes script statements against a register file.
type Driver struct {
	file   *pqspr.File
	consts *params.Constants

	log     io.Writer
	verbose bool

	stats Stats
}

// Option is a functional option for configuring the Driver.
type Option func(*Driver)

// WithLog sets the writer verbose output goes to.
func WithLog(w io.Writer) Option {
	return func(d *Driver) {
		d.log = w
	}
}

// WithVerbose logs every statement and cycle boundary.
func WithVerbose(verbose bool) Option {
	return func(d *Driver) {
		d.verbose = verbose
	}
}

// WithSeed preloads the file with the given constants on creation and on
// every Reset.
func WithSeed(c *params.Constants) Option {
	return func(d *Driver) {
		d.consts = c
	}
}

// NewDriver creates a Driver for file.
func NewDriver(file *pqspr.File, opts ...Option) (*Driver, error) {
	d := &Driver{
		file: file,
		log:  io.Discard,
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.seed(); err != nil {
		return nil, err
	}

	return d, nil
}

// File returns the driven register file.
func (d *Driver) File() *pqspr.File {
	return d.file
}

// Stats returns the counters accumulated so far.
func (d *Driver) Stats() Stats {
	return d.stats
}

// Reset clears the file and the counters and seeds the file again.
func (d *Driver) Reset() error {
	d.file.Reset()
	d.stats = Stats{}
	return d.seed()
}

// Run executes stmts in order and stops at the first failure. A failed cycle
// is aborted so the file is left with an empty write set.
func (d *Driver) Run(stmts []Statement) error {
	for _, stmt := range stmts {
		if err := d.Step(stmt); err != nil {
			if abortErr := d.file.Abort(); abortErr != nil {
				return errors.Join(err, abortErr)
			}
			return err
		}
	}

	if pending := d.file.Pending(); len(pending) != 0 {
		_ = d.file.Abort()
		return fmt.Errorf("%w: registers %v", ErrOpenCycle, pending)
	}

	return nil
}

// Step executes a single statement.
func (d *Driver) Step(stmt Statement) error {
	if d.verbose {
		fmt.Fprintf(d.log, "[%d] %s\n", d.stats.Cycles, stmt)
	}

	err := d.execute(stmt)
	if err != nil {
		var expectErr *ExpectError
		if errors.As(err, &expectErr) {
			return err
		}
		return fmt.Errorf("line %d: %s: %w", stmt.Line, stmt.Verb, err)
	}

	return nil
}

func (d *Driver) execute(stmt Statement) error {
	switch stmt.Verb {
	case VerbCommit:
		return d.commit()
	case VerbAbort:
		return d.abort()
	case VerbExpect:
		return d.expect(stmt)
	case VerbWipe:
		d.file.Wipe()
		d.stats.Ops++
		return nil
	case VerbLoadPsi:
		return d.op(d.file.Twiddle().LoadFromPsi)
	case VerbNegate:
		return d.op(d.file.Twiddle().NegateModQ)
	case VerbTwiddle:
		return d.op(d.file.Twiddle().UpdateByOmega)
	}

	r, err := d.file.Lookup(stmt.Reg)
	if err != nil {
		return err
	}

	switch stmt.Verb {
	case VerbWrite:
		return d.op(func() error { return r.Write(stmt.Value) })
	case VerbLane:
		return d.op(func() error { return r.WriteLane(stmt.Lane, stmt.Value.Low64()) })
	case VerbInc:
		return d.op(r.Increment)
	case VerbSet:
		return d.op(r.SetFromCounter)
	case VerbUpdate:
		return d.op(r.Update)
	case VerbInvalid:
		r.WriteInvalid()
		d.stats.Ops++
		return nil
	}

	return fmt.Errorf("unhandled statement %s", stmt.Verb)
}

func (d *Driver) op(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	d.stats.Ops++
	return nil
}

func (d *Driver) commit() error {
	n := len(d.file.Pending())
	if err := d.file.Commit(); err != nil {
		return err
	}

	d.stats.Cycles++
	d.stats.Commits++
	d.stats.Committed += uint64(n)

	if d.verbose {
		fmt.Fprintf(d.log, "commit: %d registers\n", n)
	}
	return nil
}

func (d *Driver) abort() error {
	n := len(d.file.Pending())
	if err := d.file.Abort(); err != nil {
		return err
	}

	d.stats.Cycles++
	d.stats.Aborts++

	if d.verbose {
		fmt.Fprintf(d.log, "abort: %d registers dropped\n", n)
	}
	return nil
}

// expect compares against the committed value; staged writes are not
// visible until the cycle commits.
func (d *Driver) expect(stmt Statement) error {
	r, err := d.file.Lookup(stmt.Reg)
	if err != nil {
		return err
	}

	d.stats.Expects++

	got := r.ReadCurrent()
	if got != stmt.Value {
		return &ExpectError{Line: stmt.Line, Reg: stmt.Reg, Want: stmt.Value, Got: got}
	}
	return nil
}

func (d *Driver) seed() error {
	if d.consts == nil {
		return nil
	}
	if err := d.consts.Seed(d.file); err != nil {
		return fmt.Errorf("failed to seed register file: %w", err)
	}
	return nil
}
