package inspector

import "github.com/lookbusy1344/riscv-hart/hart"

// telemetryCSRs is monitor's selection plus misa: the registers worth a
// human glancing at, independent of which extensions a given hart
// implements.
var telemetryCSRs = []string{
	"mstatus", "mepc", "mcause", "mtval", "mtvec", "mie", "mip", "mscratch", "satp", "misa",
}

// HartView adapts *hart.Hart to StateView. hart.Hart exposes PC/Mode as
// plain fields (the fetch/decode/execute loop mutates them directly every
// step), so this wrapper is the seam between that and the read-only
// interface the inspector renders against.
type HartView struct {
	Hart *hart.Hart
}

func (v HartView) PC() uint64      { return v.Hart.PC }
func (v HartView) ModeName() string { return v.Hart.Mode.String() }
func (v HartView) GPR(i int) uint64 { return v.Hart.GPR.Read(i) }

func (v HartView) CSRNames() []string { return telemetryCSRs }

func (v HartView) CSR(name string) (uint64, bool) {
	c, err := v.Hart.CSR.Get(name)
	if err != nil {
		return 0, false
	}
	return c.Value(), true
}

func (v HartView) ReadMemory(addr uint64, size int) (uint64, bool) {
	val, err := v.Hart.Bus.Read(addr, size)
	if err != nil {
		return 0, false
	}
	return val, true
}
