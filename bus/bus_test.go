package bus_test

import (
	"testing"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndDispatch(t *testing.T) {
	b := bus.New()
	ram := memory.New(4096)
	require.NoError(t, b.Register(ram, 0x8000_0000))

	require.NoError(t, b.Write(0x8000_0004, 0xCAFEBABE, 4))
	v, err := b.Read(0x8000_0004, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xCAFEBABE), v)
}

func TestOverlapRejected(t *testing.T) {
	b := bus.New()
	require.NoError(t, b.Register(memory.New(4096), 0x1000))
	err := b.Register(memory.New(4096), 0x1000+100)
	require.Error(t, err)
	var overlap *bus.ErrAddressOverlap
	assert.ErrorAs(t, err, &overlap)
}

func TestNoDeviceAtAddress(t *testing.T) {
	b := bus.New()
	require.NoError(t, b.Register(memory.New(4096), 0x1000))
	_, err := b.Read(0x5000, 4)
	require.Error(t, err)
	var missing *bus.ErrNoDeviceAtAddress
	assert.ErrorAs(t, err, &missing)
}

func TestAdjacentRangesDoNotOverlap(t *testing.T) {
	b := bus.New()
	require.NoError(t, b.Register(memory.New(4096), 0))
	require.NoError(t, b.Register(memory.New(4096), 4096))
}
