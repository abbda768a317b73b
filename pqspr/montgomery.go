package pqspr

// MontMul performs one Montgomery multiplication with 32-bit words the way
// the twiddle unit does it: p = a*b, m = p*qDash mod 2^32,
// t = ((p + m*q) >> 32) mod 2^32, then a single conditional subtraction of q.
//
// Only bits 32..63 of p + m*q reach the result, so carrying everything modulo
// 2^64 is exact even when a and b are wider than 32 bits.
func MontMul(a, b uint64, q, qDash uint32) uint32 {
	p := a * b
	m := uint32(p) * qDash
	s := p + uint64(m)*uint64(q)
	t := uint32(s >> 32)
	if t >= q {
		t -= q
	}
	return t
}

