package pqspr

import "fmt"

// Marker records that a register gained a pending value this cycle.
type Marker interface {
	MarkWritten(idx int)
}

// Cell is a two-phase storage element. Writes stage a pending value that
// becomes the current value on Commit or is dropped on Abort. Several writes
// in one cycle act on the pending overlay, so lane writes compose.
type Cell struct {
	idx   int
	name  string
	width int

	current Value
	next    Value
	pending bool

	marker Marker
}

// NewCell creates a cell holding 0. The marker is told about every staged
// write and may be nil for a free-standing cell.
func NewCell(idx int, name string, width int, marker Marker) *Cell {
	return &Cell{
		idx:    idx,
		name:   name,
		width:  width,
		marker: marker,
	}
}

// Index returns the register index of the cell.
func (c *Cell) Index() int {
	return c.idx
}

// Name returns the register name.
func (c *Cell) Name() string {
	return c.name
}

// Width returns the width in bits.
func (c *Cell) Width() int {
	return c.width
}

// NumLanes returns the number of addressable 32-bit lanes.
func (c *Cell) NumLanes() int {
	return lanesFor(c.width)
}

// ReadCurrent returns the committed value.
func (c *Cell) ReadCurrent() Value {
	return c.current
}

// ReadPending returns the value staged this cycle, or the committed value if
// nothing is staged.
func (c *Cell) ReadPending() Value {
	if c.pending {
		return c.next
	}
	return c.current
}

// ReadNext returns the staged value and whether one exists.
func (c *Cell) ReadNext() (Value, bool) {
	return c.next, c.pending
}

// ReadBackdoor returns the committed value without taking part in the
// write protocol. It is meant for debug snapshots only.
func (c *Cell) ReadBackdoor() Value {
	return c.current
}

// WriteBackdoor overwrites the committed value directly, leaving any staged
// value alone and without marking the cell written.
func (c *Cell) WriteBackdoor(v Value) error {
	if !v.FitsWidth(c.width) {
		return c.violation("write_backdoor", v.String(), ErrValueRange)
	}
	c.current = v.fit(c.width)
	return nil
}

// HasPending reports whether a value is staged.
func (c *Cell) HasPending() bool {
	return c.pending
}

// Write stages v as the next value of the whole register.
func (c *Cell) Write(v Value) error {
	if !v.FitsWidth(c.width) {
		return c.violation("write", v.String(), ErrValueRange)
	}
	c.stage(v)
	return nil
}

// WriteInvalid stages the all-X value.
func (c *Cell) WriteInvalid() {
	c.stage(Unknown())
}

// ReadLane returns committed lane i as a scalar value.
func (c *Cell) ReadLane(i int) (Value, error) {
	if i < 0 || i >= c.NumLanes() {
		return Value{}, c.violation("read_lane", fmt.Sprintf("lane %d", i), ErrLaneRange)
	}
	return c.current.LaneValue(i), nil
}

// WriteLane stages a write of w into lane i. The other lanes keep whatever
// this cycle has already staged for them, falling back to the committed
// value when nothing is staged yet.
func (c *Cell) WriteLane(i int, w uint64) error {
	if i < 0 || i >= c.NumLanes() {
		return c.violation("write_lane", fmt.Sprintf("lane %d", i), ErrLaneRange)
	}
	if w>>LaneWidth != 0 || !Word(uint32(w)).FitsWidth(c.width) {
		return c.violation("write_lane", fmt.Sprintf("0x%x", w), ErrValueRange)
	}
	c.stage(c.ReadPending().WithLane(i, uint32(w)))
	return nil
}

// Commit makes the staged value current.
func (c *Cell) Commit() {
	if c.pending {
		c.current = c.next
	}
	c.next = Value{}
	c.pending = false
}

// Abort drops the staged value.
func (c *Cell) Abort() {
	c.next = Value{}
	c.pending = false
}

func (c *Cell) stage(v Value) {
	c.next = v.fit(c.width)
	c.pending = true
	if c.marker != nil {
		c.marker.MarkWritten(c.idx)
	}
}

func (c *Cell) violation(op, value string, err error) error {
	return &ContractError{
		Reg:   c.idx,
		Name:  c.name,
		Op:    op,
		Value: value,
		Err:   err,
	}
}
