package monitor_test

import (
	"testing"
	"time"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/csr"
	"github.com/lookbusy1344/riscv-hart/hart"
	"github.com/lookbusy1344/riscv-hart/memory"
	"github.com/lookbusy1344/riscv-hart/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHart(t *testing.T) *hart.Hart {
	t.Helper()
	b := bus.New()
	ram := memory.New(4096)
	require.NoError(t, b.Register(ram, hart.ResetPC))
	return hart.New(0, b, csr.Extensions{})
}

func TestCaptureReflectsHartState(t *testing.T) {
	h := newTestHart(t)
	h.GPR.Write(1, 42)

	snap := monitor.Capture(7, h, false)

	assert.Equal(t, uint64(7), snap.Step)
	assert.Equal(t, uint64(hart.ResetPC), snap.PC)
	assert.Equal(t, "M", snap.Mode)
	assert.Equal(t, uint64(42), snap.GPR[1])
	assert.False(t, snap.Halted)
	assert.Contains(t, snap.CSR, "mstatus")
}

func TestBroadcasterDeliversToSubscriber(t *testing.T) {
	b := monitor.NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	b.Publish(monitor.Snapshot{Step: 1, PC: hart.ResetPC})

	select {
	case snap := <-sub:
		assert.Equal(t, uint64(1), snap.Step)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast snapshot")
	}
}

func TestBroadcasterClientCount(t *testing.T) {
	b := monitor.NewBroadcaster()
	defer b.Close()

	assert.Equal(t, 0, b.ClientCount())
	sub := b.Subscribe()
	// Subscribe is synchronous (it blocks on the register channel), so the
	// count is immediately visible.
	assert.Equal(t, 1, b.ClientCount())
	b.Unsubscribe(sub)
}
