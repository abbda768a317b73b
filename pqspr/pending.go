package pqspr

import "math/bits"

// pendingSet is the per-cycle write set: bit i is set when register i holds a
// staged value. It is filled by cells as they stage writes and drained
// exactly once by Commit or Abort.
type pendingSet uint64

// MarkWritten adds idx to the set.
func (s *pendingSet) MarkWritten(idx int) {
	*s |= 1 << uint(idx)
}

func (s pendingSet) has(idx int) bool {
	return s&(1<<uint(idx)) != 0
}

func (s pendingSet) len() int {
	return bits.OnesCount64(uint64(s))
}

// indices returns the members in ascending order.
func (s pendingSet) indices() []int {
	out := make([]int, 0, s.len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		out = append(out, bits.TrailingZeros64(rest))
	}
	return out
}

func (s *pendingSet) clear() {
	*s = 0
}
