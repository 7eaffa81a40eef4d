package inspector_test

import (
	"testing"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/csr"
	"github.com/lookbusy1344/riscv-hart/hart"
	"github.com/lookbusy1344/riscv-hart/inspector"
	"github.com/lookbusy1344/riscv-hart/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHartViewReflectsUnderlyingHart(t *testing.T) {
	b := bus.New()
	ram := memory.New(4096)
	require.NoError(t, b.Register(ram, hart.ResetPC))
	h := hart.New(0, b, csr.Extensions{})
	h.GPR.Write(2, 99)

	view := inspector.HartView{Hart: h}

	assert.Equal(t, uint64(hart.ResetPC), view.PC())
	assert.Equal(t, "M", view.ModeName())
	assert.Equal(t, uint64(99), view.GPR(2))

	v, ok := view.CSR("mstatus")
	assert.True(t, ok)
	assert.NotZero(t, v)

	_, ok = view.CSR("does-not-exist")
	assert.False(t, ok)

	val, ok := view.ReadMemory(hart.ResetPC, 4)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), val)
}
