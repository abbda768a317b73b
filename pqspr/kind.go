package pqspr

// Kind selects the update rules a register supports. All kinds share the Cell
// representation; only the rules differ.
type Kind uint8

// Register kinds.
const (
	KindPlain      Kind = iota // no update rule, writes only
	KindCounter                // saturating 32-bit counter
	KindTwiddle                // twiddle factor
	KindOmega                  // root-of-unity table, squared per stage
	KindPsi                    // twiddle broadcast across lanes
	KindStride                 // butterfly half-stride (M)
	KindStridePair             // complementary stride (J2)
	KindAddr                   // bit-reversed address from J
	KindAddrOffset             // bit-reversed address from J, offset by M
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindCounter:
		return "counter"
	case KindTwiddle:
		return "twiddle"
	case KindOmega:
		return "omega"
	case KindPsi:
		return "psi"
	case KindStride:
		return "stride"
	case KindStridePair:
		return "stride_pair"
	case KindAddr:
		return "addr"
	case KindAddrOffset:
		return "addr_offset"
	default:
		return "unknown"
	}
}

// Op names a register update operation.
type Op uint8

// Update operations.
const (
	OpIncrement Op = iota
	OpSetFromCounter
	OpLoadFromPsi
	OpNegateModQ
	OpUpdateByOmega
	OpUpdate
)

func (o Op) String() string {
	switch o {
	case OpIncrement:
		return "increment"
	case OpSetFromCounter:
		return "set_from_counter"
	case OpLoadFromPsi:
		return "load_from_psi"
	case OpNegateModQ:
		return "negate_mod_q"
	case OpUpdateByOmega:
		return "update_by_omega"
	case OpUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Register indices. They are stable for the lifetime of a File and match the
// RTL special purpose register addresses.
const (
	RegQ = iota
	RegQDash
	RegTwiddle
	RegOmega
	RegPsi
	RegIdxOmega
	RegIdxPsi
	RegConst
	RegRC
	RegIdxRC
	RegM
	RegJ2
	RegJ
	RegIdx0
	RegIdx1
	RegMode
	RegX
	RegY

	NumRegs
)

type regSpec struct {
	name  string
	width int
	kind  Kind
}

var layout = [NumRegs]regSpec{
	RegQ:        {"q", WordWidth, KindPlain},
	RegQDash:    {"q_dash", WordWidth, KindPlain},
	RegTwiddle:  {"twiddle", WordWidth, KindTwiddle},
	RegOmega:    {"omega", WideWidth, KindOmega},
	RegPsi:      {"psi", WideWidth, KindPsi},
	RegIdxOmega: {"idx_omega", WordWidth, KindCounter},
	RegIdxPsi:   {"idx_psi", WordWidth, KindCounter},
	RegConst:    {"const", WordWidth, KindPlain},
	RegRC:       {"rc", WideWidth, KindPlain},
	RegIdxRC:    {"idx_rc", WordWidth, KindCounter},
	RegM:        {"m", WordWidth, KindStride},
	RegJ2:       {"j2", WordWidth, KindStridePair},
	RegJ:        {"j", WordWidth, KindCounter},
	RegIdx0:     {"idx_0", WordWidth, KindAddr},
	RegIdx1:     {"idx_1", WordWidth, KindAddrOffset},
	RegMode:     {"mode", WordWidth, KindPlain},
	RegX:        {"x", WordWidth, KindCounter},
	RegY:        {"y", WordWidth, KindCounter},
}
