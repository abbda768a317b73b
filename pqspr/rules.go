package pqspr

import (
	"fmt"
	"math"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Sampler reads the committed value of a sibling register. Rules never see
// another register's pending value, which is what makes every update in a
// cycle sample the same clock edge.
type Sampler interface {
	Sample(idx int) Value
}

// rule computes the next value of r. It must only read r's committed value
// and committed sibling values through r.env; the Psi broadcast is the one
// rule that also reads r's own pending overlay, because it is defined as
// eight lane writes.
type rule func(r *Register) (Value, error)

var kindRules = map[Kind]map[Op]rule{
	KindCounter: {
		OpIncrement: increment,
	},
	KindTwiddle: {
		OpLoadFromPsi:   loadFromPsi,
		OpNegateModQ:    negateModQ,
		OpUpdateByOmega: updateByOmega,
	},
	KindOmega: {
		OpUpdate: squareOmega,
	},
	KindPsi: {
		OpUpdate: broadcastOmega,
	},
	KindStride: {
		OpUpdate: strideUpdate,
	},
	KindStridePair: {
		OpUpdate: stridePairUpdate,
	},
	KindAddr: {
		OpIncrement:      increment,
		OpSetFromCounter: setAddr,
	},
	KindAddrOffset: {
		OpIncrement:      increment,
		OpSetFromCounter: setAddrOffset,
	},
}

func increment(r *Register) (Value, error) {
	cur := r.ReadCurrent()
	if !cur.IsKnown() {
		return Unknown(), nil
	}
	if cur.Uint32() == math.MaxUint32 {
		return Value{}, r.violation(OpIncrement.String(), cur.String(), ErrOverflow)
	}
	return Word(cur.Uint32() + 1), nil
}

func loadFromPsi(r *Register) (Value, error) {
	return r.selectLane(RegPsi, RegIdxPsi, OpLoadFromPsi)
}

// negateModQ is a single subtraction; it is only defined while q >= twiddle.
func negateModQ(r *Register) (Value, error) {
	cur := r.ReadCurrent()
	q := r.env.Sample(RegQ)
	if !cur.IsKnown() || !q.IsKnown() {
		return Unknown(), nil
	}
	if q.Uint32() < cur.Uint32() {
		return Value{}, r.violation(OpNegateModQ.String(),
			fmt.Sprintf("q=%s twiddle=%s", q, cur), ErrNegateRange)
	}
	return Word(q.Uint32() - cur.Uint32()), nil
}

func updateByOmega(r *Register) (Value, error) {
	omega, err := r.selectLane(RegOmega, RegIdxOmega, OpUpdateByOmega)
	if err != nil {
		return Value{}, err
	}
	cur := r.ReadCurrent()
	return r.montMul(cur, omega), nil
}

func squareOmega(r *Register) (Value, error) {
	cur := r.ReadCurrent()
	return r.montMul(cur, cur), nil
}

func broadcastOmega(r *Register) (Value, error) {
	w, err := r.selectLane(RegOmega, RegIdxPsi, OpUpdate)
	if err != nil {
		return Value{}, err
	}
	if !w.IsKnown() {
		return Unknown(), nil
	}

	next := r.ReadPending()
	for i := 0; i < NumLanes; i++ {
		next = next.WithLane(i, w.Uint32())
	}
	return next, nil
}

func strideUpdate(r *Register) (Value, error) {
	cur := r.ReadCurrent()
	mode := r.env.Sample(RegMode)
	if !cur.IsKnown() || !mode.IsKnown() {
		return Unknown(), nil
	}
	if mode.Uint32() != 0 {
		return Word((cur.Uint32() & 0x7F) << 1), nil
	}
	return Word((cur.Uint32() & 0xFF) >> 1), nil
}

func stridePairUpdate(r *Register) (Value, error) {
	cur := r.ReadCurrent()
	mode := r.env.Sample(RegMode)
	if !cur.IsKnown() || !mode.IsKnown() {
		return Unknown(), nil
	}
	if mode.Uint32() != 0 {
		return Word((cur.Uint32() & 0x7F) >> 1), nil
	}
	return Word((cur.Uint32() & 0xFF) << 1), nil
}

func setAddr(r *Register) (Value, error) {
	j := r.env.Sample(RegJ)
	if !j.IsKnown() {
		return Unknown(), nil
	}
	return Word(reverseByte(j.Uint32())), nil
}

func setAddrOffset(r *Register) (Value, error) {
	j := r.env.Sample(RegJ)
	m := r.env.Sample(RegM)
	if !j.IsKnown() || !m.IsKnown() {
		return Unknown(), nil
	}
	return Word((reverseByte(j.Uint32()) + m.Uint32()) & 0xFF), nil
}

// reverseByte mirrors the bit order of the low byte of v.
func reverseByte(v uint32) uint32 {
	return uint32(utils.BitReverse64(uint64(v&0xFF), 8))
}
