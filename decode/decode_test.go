package decode_test

import (
	"testing"

	"github.com/lookbusy1344/riscv-hart/decode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFields(t *testing.T) {
	// ADDI x1, x0, 5: imm=5 rs1=0 funct3=0 rd=1 opcode=0010011
	ins := uint32(5<<20 | 0<<15 | 0<<12 | 1<<7 | 0b0010011)
	f := decode.Extract(ins)
	assert.Equal(t, decode.OpImm, f.Opcode)
	assert.Equal(t, uint32(1), f.Rd)
	assert.Equal(t, uint32(0), f.Rs1)
	assert.Equal(t, uint32(0), f.Funct3)
}

func TestSignExtendRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 5, -5, 2047, -2048} {
		truncated := uint64(v) & 0xFFF
		assert.Equal(t, v, int64(decode.SignExtend(truncated, 12)))
	}
}

func TestImmITypeNegative(t *testing.T) {
	// ADDI x1, x1, -1: imm field = 0xFFF
	ins := uint32(0xFFF<<20 | 1<<15 | 1<<7 | 0b0010011)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), decode.ImmI(ins))
}

func TestImmUType(t *testing.T) {
	// LUI x1, 0xDEADB
	ins := uint32(0xDEADB<<12 | 1<<7 | 0b0110111)
	assert.Equal(t, uint64(0xFFFFFFFFDEADB000), decode.ImmU(ins))
}

func TestImmBTypeLSBAlwaysZero(t *testing.T) {
	ins := uint32(0)
	assert.Equal(t, uint64(0), decode.ImmB(ins)&1)
}

func TestALUAddSub(t *testing.T) {
	assert.Equal(t, uint64(12), decode.ALU(decode.ALUAddSub, false, false, 5, 7, decode.XLen64))
	assert.Equal(t, uint64(0), decode.ALU(decode.ALUAddSub, true, false, 5, 5, decode.XLen64))
}

func TestALUOp32SignExtendsResult(t *testing.T) {
	// ADDW of two values whose 32-bit sum has bit31 set must sign-extend.
	result := decode.ALU(decode.ALUAddSub, false, false, 0x7FFFFFFF, 1, decode.XLen32)
	assert.Equal(t, uint64(0xFFFFFFFF80000000), result)
}

func TestALUShiftMaskedToWidth(t *testing.T) {
	x := uint64(0x1234)
	assert.Equal(t, decode.ALU(decode.ALUSLL, false, false, x, 0, decode.XLen64),
		decode.ALU(decode.ALUSLL, false, false, x, 64, decode.XLen64))
}

func TestALUSRAPreservesSign(t *testing.T) {
	neg := uint64(0xFFFFFFFFFFFFFFF0) // -16
	result := decode.ALU(decode.ALUSRx, false, true, neg, 1, decode.XLen64)
	assert.True(t, int64(result) < 0)
}

func TestALUSLTSigned(t *testing.T) {
	negOne := uint64(0xFFFFFFFFFFFFFFFF)
	assert.Equal(t, uint64(1), decode.ALU(decode.ALUSLT, false, false, negOne, 1, decode.XLen64))
	assert.Equal(t, uint64(0), decode.ALU(decode.ALUSLTU, false, false, negOne, 1, decode.XLen64))
}

func TestBranchComparators(t *testing.T) {
	assert.True(t, decode.Branch(decode.BranchEQ, 5, 5))
	assert.False(t, decode.Branch(decode.BranchEQ, 5, 6))
	assert.True(t, decode.Branch(decode.BranchLT, uint64(int64(-1)), 1))
	assert.False(t, decode.Branch(decode.BranchLTU, uint64(int64(-1)), 1))
}

func TestDecodeCompressedAddi(t *testing.T) {
	// C.ADDI x1, 3: quadrant 01, funct3 000, rd=1, imm bits
	ins := uint16(0b000<<13 | 0<<12 | 1<<7 | 3<<2 | 0b01)
	c, err := decode.DecodeCompressed(ins)
	require.NoError(t, err)
	assert.Equal(t, decode.CAddi, c.Kind)
	assert.Equal(t, uint32(1), c.Rd)
	assert.Equal(t, uint64(3), c.Imm)
}

func TestDecodeCompressedUnsupportedRaises(t *testing.T) {
	// quadrant 10 is entirely unmodeled.
	ins := uint16(0b10)
	_, err := decode.DecodeCompressed(ins)
	require.Error(t, err)
	var unsupported *decode.ErrUnsupportedEncoding
	assert.ErrorAs(t, err, &unsupported)
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, decode.IsCompressed(0b00))
	assert.True(t, decode.IsCompressed(0b01))
	assert.False(t, decode.IsCompressed(0b11))
}
