package tools_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/memory"
	"github.com/lookbusy1344/riscv-hart/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpMemoryRendersHexAndASCII(t *testing.T) {
	ram := memory.New(64)
	require.NoError(t, ram.Write(0, 0x41, 1)) // 'A'

	out := tools.DumpMemory(ram, 0, 16, tools.DefaultMemoryDumpOptions())
	assert.True(t, strings.Contains(out, "41 "))
	assert.True(t, strings.Contains(out, "A"))
	assert.True(t, strings.HasPrefix(out, "0x0000000000000000: "))
}

func TestDumpMemoryCompactOmitsASCII(t *testing.T) {
	ram := memory.New(64)
	out := tools.DumpMemory(ram, 0, 16, tools.CompactMemoryDumpOptions())
	assert.False(t, strings.Contains(out, "."))
}

func TestDumpMemoryUnmappedByteRendersPlaceholder(t *testing.T) {
	b := bus.New()
	out := tools.DumpMemory(b, 0, 4, tools.DefaultMemoryDumpOptions())
	assert.True(t, strings.Contains(out, "??"))
}

func TestDumpRegistersGridsByColumn(t *testing.T) {
	names := []string{"x0", "x1", "x2", "x3", "x4"}
	values := []uint64{0, 1, 2, 3, 4}
	out := tools.DumpRegisters(names, values, tools.DefaultRegisterTableOptions())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2) // 4 per row + the trailing single register
	assert.True(t, strings.Contains(lines[0], "x0"))
	assert.True(t, strings.Contains(lines[1], "x4"))
}

func TestDumpRegistersMismatchedLengthsPanics(t *testing.T) {
	assert.Panics(t, func() {
		tools.DumpRegisters([]string{"x0"}, []uint64{0, 1}, nil)
	})
}
