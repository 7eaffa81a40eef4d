package bitfield_test

import (
	"testing"

	"github.com/lookbusy1344/riscv-hart/bitfield"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRangeRoundTrip(t *testing.T) {
	r := bitfield.NewRegister(64)
	r.SetRange(11, 0, 0xABC)
	assert.Equal(t, uint64(0xABC), r.Range(11, 0))
	assert.Equal(t, uint64(0xABC), r.Value())
}

func TestSetRangeLeavesOutsideBitsUnchanged(t *testing.T) {
	r := bitfield.NewRegister(64)
	r.SetValue(0xFFFFFFFFFFFFFFFF)
	r.SetRange(7, 4, 0x0)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFF0F), r.Value())
}

func TestSetValueTruncatesToWidth(t *testing.T) {
	r := bitfield.NewRegister(32)
	r.SetValue(0x1_0000_0001)
	assert.Equal(t, uint64(1), r.Value())
}

func TestBitReadWrite(t *testing.T) {
	r := bitfield.NewRegister(64)
	r.SetBit(5, 1)
	assert.Equal(t, uint64(1), r.Bit(5))
	assert.Equal(t, uint64(0), r.Bit(4))
	r.SetBit(5, 0)
	assert.Equal(t, uint64(0), r.Bit(5))
}

func TestBlockAllFieldAliasesWholeRegister(t *testing.T) {
	r := bitfield.NewRegister(64)
	b := bitfield.NewBlock(r, map[string]bitfield.Field{
		"LOW": {Msb: 7, Lsb: 0},
	})
	all, err := b.Field(bitfield.AllField)
	require.NoError(t, err)
	all.Set(0x42)
	assert.Equal(t, uint64(0x42), r.Value())

	low, err := b.Field("LOW")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x42), low.Get())
}

func TestBlockFieldViewAliasesStorage(t *testing.T) {
	r := bitfield.NewRegister(64)
	b := bitfield.NewBlock(r, map[string]bitfield.Field{
		"HI": {Msb: 63, Lsb: 32},
		"LO": {Msb: 31, Lsb: 0},
	})
	hi, _ := b.Field("HI")
	lo, _ := b.Field("LO")

	hi.Set(0xDEADBEEF)
	lo.Set(0xCAFEBABE)
	assert.Equal(t, uint64(0xDEADBEEFCAFEBABE), r.Value())
}

func TestBlockUnknownFieldFails(t *testing.T) {
	b := bitfield.NewBlock(bitfield.NewRegister(64), map[string]bitfield.Field{})
	_, err := b.Field("nope")
	require.Error(t, err)
	var notFound *bitfield.ErrFieldNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestRegisterAndOr(t *testing.T) {
	a := bitfield.NewRegister(64)
	a.SetValue(0xF0)
	b := bitfield.NewRegister(64)
	b.SetValue(0x0F)
	a.Or(b)
	assert.Equal(t, uint64(0xFF), a.Value())

	c := bitfield.NewRegister(64)
	c.SetValue(0xFF)
	mask := bitfield.NewRegister(64)
	mask.SetValue(0x0F)
	c.And(mask)
	assert.Equal(t, uint64(0x0F), c.Value())
}
