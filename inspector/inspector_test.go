package inspector_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/riscv-hart/inspector"
	"github.com/stretchr/testify/assert"
)

type fakeState struct {
	pc   uint64
	mode string
	gpr  [32]uint64
	csr  map[string]uint64
	mem  map[uint64]uint64
}

func (f *fakeState) PC() uint64       { return f.pc }
func (f *fakeState) ModeName() string { return f.mode }
func (f *fakeState) GPR(i int) uint64 { return f.gpr[i] }
func (f *fakeState) CSRNames() []string {
	names := make([]string, 0, len(f.csr))
	for n := range f.csr {
		names = append(names, n)
	}
	return names
}
func (f *fakeState) CSR(name string) (uint64, bool) {
	v, ok := f.csr[name]
	return v, ok
}
func (f *fakeState) ReadMemory(addr uint64, size int) (uint64, bool) {
	v, ok := f.mem[addr]
	return v, ok
}

func TestRefreshAllRendersRegistersAndCSRs(t *testing.T) {
	state := &fakeState{
		pc:   0x8000_0004,
		mode: "M",
		csr:  map[string]uint64{"mstatus": 0x1800},
		mem:  map[uint64]uint64{},
	}
	state.gpr[1] = 0xdeadbeef

	insp := inspector.New(state)
	insp.RefreshAll()

	regText := insp.RegisterView.GetText(true)
	assert.True(t, strings.Contains(regText, "deadbeef"))
	assert.True(t, strings.Contains(regText, "mode: M"))

	csrText := insp.CSRView.GetText(true)
	assert.True(t, strings.Contains(csrText, "mstatus"))
}

func TestUpdateMemoryViewHandlesMissingBytes(t *testing.T) {
	state := &fakeState{pc: 0x8000_0000, mode: "M", csr: map[string]uint64{}, mem: map[uint64]uint64{}}
	insp := inspector.New(state)
	insp.RefreshAll()

	memText := insp.MemoryView.GetText(true)
	assert.True(t, strings.Contains(memText, "??"))
}
