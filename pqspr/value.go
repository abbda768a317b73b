// Package pqspr provides a bit-exact model of the post-quantum special
// purpose register file (PQSPR) of the NTT accelerator.
//
// Registers are two-phase: operations issued during a cycle stage a pending
// value, and the whole file is resolved at the end of the cycle by exactly one
// Commit or Abort. Every update rule samples the committed values of its
// operands, so the order of operations inside a cycle never matters.
package pqspr

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// NumLanes is the number of 32-bit lanes in a wide register.
	NumLanes = 8
	// LaneWidth is the width of one lane in bits.
	LaneWidth = 32
	// WideWidth is the width of a wide register in bits.
	WideWidth = NumLanes * LaneWidth
	// WordWidth is the width of a scalar register in bits.
	WordWidth = LaneWidth
)

const allUnknown uint8 = 0xFF

// Value is a register value of up to 256 bits held as eight 32-bit lanes,
// lane 0 least significant. Each lane carries its own unknown (X) flag. The
// data bits of an unknown lane are always zero, so two Values compare equal
// with == exactly when they render identically.
type Value struct {
	lanes   [NumLanes]uint32
	unknown uint8
}

// Word returns a known value whose lane 0 is w and whose other lanes are 0.
func Word(w uint32) Value {
	return Value{lanes: [NumLanes]uint32{w}}
}

// FromLanes returns a known value built from eight lanes, lane 0 first.
func FromLanes(lanes [NumLanes]uint32) Value {
	return Value{lanes: lanes}
}

// Broadcast returns a known value with w in every lane.
func Broadcast(w uint32) Value {
	var v Value
	for i := range v.lanes {
		v.lanes[i] = w
	}
	return v
}

// Unknown returns the all-X value.
func Unknown() Value {
	return Value{unknown: allUnknown}
}

// IsKnown reports whether every lane holds a numeric value.
func (v Value) IsKnown() bool {
	return v.unknown == 0
}

// IsUnknown reports whether every lane is X.
func (v Value) IsUnknown() bool {
	return v.unknown == allUnknown
}

// LaneKnown reports whether lane i holds a numeric value.
func (v Value) LaneKnown(i int) bool {
	return v.unknown&(1<<uint(i)) == 0
}

// Lane returns the data bits of lane i. An unknown lane reads as 0; callers
// that care must check LaneKnown.
func (v Value) Lane(i int) uint32 {
	return v.lanes[i]
}

// LaneValue returns lane i as a scalar value, X if the lane is unknown.
func (v Value) LaneValue(i int) Value {
	if !v.LaneKnown(i) {
		return Unknown()
	}
	return Word(v.lanes[i])
}

// Lanes returns a copy of all eight lanes.
func (v Value) Lanes() [NumLanes]uint32 {
	return v.lanes
}

// Uint32 returns lane 0.
func (v Value) Uint32() uint32 {
	return v.lanes[0]
}

// Low64 returns lanes 0 and 1 as one 64-bit word.
func (v Value) Low64() uint64 {
	return uint64(v.lanes[1])<<32 | uint64(v.lanes[0])
}

// WithLane returns v with lane i replaced by w and marked known. The other
// lanes, including their unknown flags, are carried over unchanged.
func (v Value) WithLane(i int, w uint32) Value {
	v.lanes[i] = w
	v.unknown &^= 1 << uint(i)
	return v
}

// FitsWidth reports whether v can be stored in a register of the given width.
func (v Value) FitsWidth(width int) bool {
	if width >= WideWidth {
		return true
	}
	if v.IsUnknown() {
		return true
	}
	lanes := lanesFor(width)
	for i := lanes; i < NumLanes; i++ {
		if v.lanes[i] != 0 || !v.LaneKnown(i) {
			return false
		}
	}
	if width%LaneWidth != 0 {
		return v.lanes[lanes-1]>>(uint(width)%LaneWidth) == 0
	}
	return true
}

// fit truncates v to width bits. A narrow value with an unknown lane 0
// collapses to the all-X value so it renders fully unknown on a wide trace.
func (v Value) fit(width int) Value {
	if width >= WideWidth {
		return v
	}
	if width <= LaneWidth {
		if !v.LaneKnown(0) {
			return Unknown()
		}
		w := v.lanes[0]
		if width < LaneWidth {
			w &= 1<<uint(width) - 1
		}
		return Word(w)
	}
	lanes := lanesFor(width)
	for i := lanes; i < NumLanes; i++ {
		v.lanes[i] = 0
		v.unknown &^= 1 << uint(i)
	}
	return v
}

// Hex renders the low width bits of v as width/4 hex digits. Unknown lanes
// render as 'x' digits.
func (v Value) Hex(width int) string {
	var sb strings.Builder
	sb.Grow(WideWidth / 4)
	for i := NumLanes - 1; i >= 0; i-- {
		if v.LaneKnown(i) {
			fmt.Fprintf(&sb, "%08x", v.lanes[i])
		} else {
			sb.WriteString("xxxxxxxx")
		}
	}
	full := sb.String()
	digits := width / 4
	if digits > len(full) {
		return strings.Repeat("0", digits-len(full)) + full
	}
	return full[len(full)-digits:]
}

// String renders v with the minimum number of hex digits, or "x" for the
// all-X value.
func (v Value) String() string {
	if v.IsUnknown() {
		return "x"
	}
	s := strings.TrimLeft(v.Hex(WideWidth), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// ParseValue parses a value written as "x" (unknown), a 0x-prefixed hex
// number of up to 64 digits, or a decimal number that fits in 64 bits.
// Underscores between digits are ignored.
func ParseValue(s string) (Value, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return Value{}, fmt.Errorf("empty value")
	}

	if strings.EqualFold(s, "x") {
		return Unknown(), nil
	}

	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("failed to parse value %q: %w", s, err)
		}
		return Word(uint32(n)).WithLane(1, uint32(n>>32)), nil
	}

	digits := s[2:]
	if digits == "" || len(digits) > WideWidth/4 {
		return Value{}, fmt.Errorf("invalid hex value %q", s)
	}
	digits = strings.Repeat("0", WideWidth/4-len(digits)) + digits

	var v Value
	for i := 0; i < NumLanes; i++ {
		end := len(digits) - i*8
		w, err := strconv.ParseUint(digits[end-8:end], 16, 32)
		if err != nil {
			return Value{}, fmt.Errorf("failed to parse value %q: %w", s, err)
		}
		v.lanes[i] = uint32(w)
	}
	return v, nil
}

func lanesFor(width int) int {
	n := (width + LaneWidth - 1) / LaneWidth
	if n < 1 {
		return 1
	}
	if n > NumLanes {
		return NumLanes
	}
	return n
}
