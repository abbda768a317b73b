package params

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v4/ring"

	"github.com/sarchlab/pqsim/pqspr"
)

// Constants are the values the twiddle unit works with for one modulus.
// Mont-suffixed fields are in Montgomery form, x * 2^32 mod q.
type Constants struct {
	Q     uint32
	QDash uint32 // -q^-1 mod 2^32
	R     uint32 // 2^32 mod q

	Generator uint32
	Order     uint64

	Psi       uint32 // primitive Order-th root of unity
	Omega     uint32 // Psi^2
	PsiMont   uint32
	OmegaMont uint32

	// Stride is the initial butterfly half-stride loaded into M.
	Stride  uint32
	Inverse bool
}

// Derive computes the constants for cfg.
func Derive(cfg *Config) (*Constants, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	q := uint64(cfg.Modulus)
	if !ring.IsPrime(q) {
		return nil, fmt.Errorf("modulus %d is not prime", q)
	}

	order := uint64(1) << cfg.LogOrder
	if (q-1)%order != 0 {
		return nil, fmt.Errorf("order %d does not divide q-1 = %d", order, q-1)
	}

	g := generator(q)
	psi := ring.ModExp(g, (q-1)/order, q)
	omega := psi * psi % q

	c := &Constants{
		Q:         cfg.Modulus,
		QDash:     NegInv32(cfg.Modulus),
		R:         uint32((uint64(1) << 32) % q),
		Generator: uint32(g),
		Order:     order,
		Psi:       uint32(psi),
		Omega:     uint32(omega),
		Inverse:   cfg.Inverse,
	}
	c.PsiMont = ToMont(c.Psi, c.Q)
	c.OmegaMont = ToMont(c.Omega, c.Q)
	c.Stride = initialStride(cfg)

	return c, nil
}

// NegInv32 returns -1/q mod 2^32 for odd q.
func NegInv32(q uint32) uint32 {
	y := 2 - q
	y *= 2 - q*y
	y *= 2 - q*y
	y *= 2 - q*y
	y *= 2 - q*y
	return -y
}

// ToMont converts x to Montgomery form.
func ToMont(x, q uint32) uint32 {
	return uint32((uint64(x) << 32) % uint64(q))
}

// FromMont converts x out of Montgomery form with the same reduction the
// twiddle unit uses.
func FromMont(x, q, qDash uint32) uint32 {
	return pqspr.MontMul(uint64(x), 1, q, qDash)
}

// Seed loads the constants into f through the backdoor: q, q_dash, lane 0 of
// omega and psi in Montgomery form, the initial stride and the mode flag.
func (c *Constants) Seed(f *pqspr.File) error {
	mode := uint32(0)
	if c.Inverse {
		mode = 1
	}

	seeds := []struct {
		idx int
		v   pqspr.Value
	}{
		{pqspr.RegQ, pqspr.Word(c.Q)},
		{pqspr.RegQDash, pqspr.Word(c.QDash)},
		{pqspr.RegOmega, pqspr.Word(c.OmegaMont)},
		{pqspr.RegPsi, pqspr.Word(c.PsiMont)},
		{pqspr.RegM, pqspr.Word(c.Stride)},
		{pqspr.RegMode, pqspr.Word(mode)},
	}

	for _, s := range seeds {
		if err := f.Seed(s.idx, s.v); err != nil {
			return fmt.Errorf("failed to seed register %d: %w", s.idx, err)
		}
	}

	return nil
}

// initialStride is the first half-stride of the schedule. M is an 8-bit
// stride, so forward transforms start at the largest power of two that fits.
func initialStride(cfg *Config) uint32 {
	if cfg.Inverse {
		return 1
	}
	s := uint32(1) << (cfg.LogOrder - 1)
	if s > 0x80 {
		s = 0x80
	}
	return s
}

// generator returns the smallest generator of the multiplicative group mod
// the prime q.
func generator(q uint64) uint64 {
	factors := primeFactors(q - 1)
	for g := uint64(2); g < q; g++ {
		ok := true
		for _, p := range factors {
			if ring.ModExp(g, (q-1)/p, q) == 1 {
				ok = false
				break
			}
		}
		if ok {
			return g
		}
	}
	return 1
}

func primeFactors(n uint64) []uint64 {
	var factors []uint64
	for p := uint64(2); p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		factors = append(factors, p)
		for n%p == 0 {
			n /= p
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}
