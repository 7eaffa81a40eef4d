package decode

// Funct3 ALU/branch operation selectors (bits [14:12] of the instruction).
const (
	ALUAddSub Funct3 = 0b000
	ALUSLL    Funct3 = 0b001
	ALUSLT    Funct3 = 0b010
	ALUSLTU   Funct3 = 0b011
	ALUXor    Funct3 = 0b100
	ALUSRx    Funct3 = 0b101
	ALUOr     Funct3 = 0b110
	ALUAnd    Funct3 = 0b111

	BranchEQ  Funct3 = 0b000
	BranchNE  Funct3 = 0b001
	BranchLT  Funct3 = 0b100
	BranchGE  Funct3 = 0b101
	BranchLTU Funct3 = 0b110
	BranchGEU Funct3 = 0b111
)

// Funct3 names the 3-bit function-code field.
type Funct3 = uint32

// XLenVariant selects the operand width an ALU op computes in: 64 for
// OP/OP-IMM, 32 for OP-32/OP-IMM-32.
type XLenVariant uint

const (
	XLen64 XLenVariant = 64
	XLen32 XLenVariant = 32
)

func (x XLenVariant) mask() uint64 {
	if x == XLen32 {
		return 0xFFFFFFFF
	}
	return ^uint64(0)
}

func (x XLenVariant) shiftMaskBits() uint {
	if x == XLen32 {
		return 5
	}
	return 6
}

// signExtend sign-extends a value already truncated to x's width
// up to the full 64-bit machine word. For XLen64 this is a no-op.
func (x XLenVariant) signExtend(v uint64) uint64 {
	if x == XLen32 {
		return SignExtend(v, 32)
	}
	return v
}

// ALU computes one of the table-4.F operations over a and b at the given
// operand width, subFlag distinguishing ADD (false) from SUB (true), and
// arithFlag distinguishing SRL (false) from SRA (true) — both drawn from
// funct7 bit 5. The result is always returned as a full 64-bit machine
// word: OP-32/OP-IMM-32 variants compute in 32 bits then sign-extend per
// §4.F.
func ALU(f3 Funct3, subFlag, arithFlag bool, a, b uint64, xlen XLenVariant) uint64 {
	m := xlen.mask()
	a &= m
	b &= m
	shamt := uint(b) & ((1 << xlen.shiftMaskBits()) - 1)

	var result uint64
	switch f3 {
	case ALUAddSub:
		if subFlag {
			result = (a - b) & m
		} else {
			result = (a + b) & m
		}
	case ALUSLL:
		result = (a << shamt) & m
	case ALUSLT:
		result = boolToU64(signLess(a, b, xlen))
	case ALUSLTU:
		result = boolToU64(a < b)
	case ALUXor:
		result = a ^ b
	case ALUSRx:
		if arithFlag {
			result = arithShiftRight(a, shamt, xlen) & m
		} else {
			result = (a >> shamt) & m
		}
	case ALUOr:
		result = a | b
	case ALUAnd:
		result = a & b
	}

	switch f3 {
	case ALUSLT, ALUSLTU:
		return result // 0/1, never sign-extended
	default:
		return xlen.signExtend(result)
	}
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// signLess performs a signed less-than compare of a and b interpreted as
// two's-complement integers of xlen's width.
func signLess(a, b uint64, xlen XLenVariant) bool {
	if xlen == XLen32 {
		return int32(uint32(a)) < int32(uint32(b))
	}
	return int64(a) < int64(b)
}

// arithShiftRight performs a sign-preserving right shift of a (already
// masked to xlen's width) by shamt bits.
func arithShiftRight(a uint64, shamt uint, xlen XLenVariant) uint64 {
	if xlen == XLen32 {
		return uint64(uint32(int32(uint32(a)) >> shamt))
	}
	return uint64(int64(a) >> shamt)
}

// Branch evaluates the comparator named by f3 for a BRANCH instruction.
func Branch(f3 Funct3, a, b uint64) bool {
	switch f3 {
	case BranchEQ:
		return a == b
	case BranchNE:
		return a != b
	case BranchLT:
		return int64(a) < int64(b)
	case BranchGE:
		return int64(a) >= int64(b)
	case BranchLTU:
		return a < b
	case BranchGEU:
		return a >= b
	default:
		return false
	}
}
