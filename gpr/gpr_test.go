package gpr_test

import (
	"testing"

	"github.com/lookbusy1344/riscv-hart/gpr"
	"github.com/stretchr/testify/assert"
)

func TestX0AlwaysZero(t *testing.T) {
	f := gpr.New()
	f.Write(0, 0xDEADBEEF)
	assert.Equal(t, uint64(0), f.Read(0))
}

func TestReadWriteRoundTrip(t *testing.T) {
	f := gpr.New()
	f.Write(5, 123)
	assert.Equal(t, uint64(123), f.Read(5))
}

func TestResetZeroesAllRegisters(t *testing.T) {
	f := gpr.New()
	for i := 1; i < gpr.Count; i++ {
		f.Write(i, uint64(i))
	}
	f.Reset()
	for i := 0; i < gpr.Count; i++ {
		assert.Equal(t, uint64(0), f.Read(i))
	}
}

func TestNameTable(t *testing.T) {
	assert.Equal(t, "zero", gpr.Name(0))
	assert.Equal(t, "a0", gpr.Name(10))
	assert.Equal(t, "t6", gpr.Name(31))
	assert.Equal(t, "", gpr.Name(32))
}
