package csr

import "github.com/lookbusy1344/riscv-hart/bitfield"

// Extensions is the set of implemented privilege levels and ISA extension
// letters, used both to pick misa.Extensions and to decide which CSR
// catalogs (Machine, Supervisor, User) get populated.
type Extensions struct {
	Supervisor bool // adds the S-mode CSR catalog and the 'S' misa bit
	User       bool // adds the U-mode CSR catalog and the 'U' misa bit
	Compressed bool // adds the 'C' misa bit (RVC decoding support)
	Multiply   bool // adds the 'M' misa bit (not implemented by the core ALU)
}

// misaBit returns the misa.Extensions bit position for an ISA letter.
func misaBit(letter byte) uint {
	return uint(letter - 'A')
}

// Standard 12-bit CSR addresses (bits [11:10] = read-only flag, bits [9:8]
// = minimum privilege, per §6 of the encoding). These match the RISC-V
// privileged architecture's assigned numbers.
const (
	addrMvendorid  = 0xF11
	addrMarchid    = 0xF12
	addrMimpid     = 0xF13
	addrMhartid    = 0xF14
	addrMconfigptr = 0xF15

	addrMstatus = 0x300
	addrMisa    = 0x301
	addrMedeleg = 0x302
	addrMideleg = 0x303
	addrMie     = 0x304
	addrMtvec   = 0x305

	addrMscratch = 0x340
	addrMepc     = 0x341
	addrMcause   = 0x342
	addrMtval    = 0x343
	addrMip      = 0x344

	addrPmpcfg0  = 0x3A0
	addrPmpaddr0 = 0x3B0
	addrMnstatus = 0x744

	addrMcycle   = 0xB00
	addrMinstret = 0xB02

	addrSatp       = 0x180
	addrStvec      = 0x105
	addrScounteren = 0x106

	addrCycle = 0xC00
)

// mstatusFields describes the bit layout shared across RV64 mstatus.
var mstatusFields = map[string]bitfield.Field{
	"SIE":  {Msb: 1, Lsb: 1},
	"MIE":  {Msb: 3, Lsb: 3},
	"SPIE": {Msb: 5, Lsb: 5},
	"UBE":  {Msb: 6, Lsb: 6},
	"MPIE": {Msb: 7, Lsb: 7},
	"SPP":  {Msb: 8, Lsb: 8},
	"MPP":  {Msb: 12, Lsb: 11},
	"MPRV": {Msb: 17, Lsb: 17},
	"SUM":  {Msb: 18, Lsb: 18},
	"MXR":  {Msb: 19, Lsb: 19},
	"TVM":  {Msb: 20, Lsb: 20},
	"TW":   {Msb: 21, Lsb: 21},
	"TSR":  {Msb: 22, Lsb: 22},
	"UXL":  {Msb: 33, Lsb: 32},
	"SXL":  {Msb: 35, Lsb: 34},
	"SBE":  {Msb: 36, Lsb: 36},
	"MBE":  {Msb: 37, Lsb: 37},
	"GVA":  {Msb: 38, Lsb: 38},
	"MPV":  {Msb: 39, Lsb: 39},
	"SD":   {Msb: 63, Lsb: 63},
}

var misaFields = map[string]bitfield.Field{
	"Extensions": {Msb: 25, Lsb: 0},
	"MXLEN":      {Msb: 63, Lsb: 62},
}

var mieFields = map[string]bitfield.Field{
	"SSIE": {Msb: 1, Lsb: 1},
	"MSIE": {Msb: 3, Lsb: 3},
	"STIE": {Msb: 5, Lsb: 5},
	"MTIE": {Msb: 7, Lsb: 7},
	"SEIE": {Msb: 9, Lsb: 9},
	"MEIE": {Msb: 11, Lsb: 11},
}

var mipFields = map[string]bitfield.Field{
	"SSIP": {Msb: 1, Lsb: 1},
	"MSIP": {Msb: 3, Lsb: 3},
	"STIP": {Msb: 5, Lsb: 5},
	"MTIP": {Msb: 7, Lsb: 7},
	"SEIP": {Msb: 9, Lsb: 9},
	"MEIP": {Msb: 11, Lsb: 11},
}

var tvecFields = map[string]bitfield.Field{
	"BASE": {Msb: 63, Lsb: 2},
	"MODE": {Msb: 1, Lsb: 0},
}

var mcauseFields = map[string]bitfield.Field{
	"INT":  {Msb: 63, Lsb: 63},
	"CODE": {Msb: 62, Lsb: 0},
}

var satpFields = map[string]bitfield.Field{
	"MODE": {Msb: 63, Lsb: 60},
	"ASID": {Msb: 59, Lsb: 44},
	"PPN":  {Msb: 43, Lsb: 0},
}

// NewFile builds the CSR file implied by ext, initializes the
// construction-time values the hart lifecycle requires (mhartid, misa,
// mstatus.MPP/SXL/UXL), and returns it.
func NewFile(hartID uint64, ext Extensions) *File {
	f := newFile()

	f.define(addrMvendorid, "mvendorid", 64, nil)
	f.define(addrMarchid, "marchid", 64, nil)
	f.define(addrMimpid, "mimpid", 64, nil)
	f.define(addrMhartid, "mhartid", 64, nil).Set(hartID)
	f.define(addrMconfigptr, "mconfigptr", 64, nil)

	mstatus := f.define(addrMstatus, "mstatus", 64, mstatusFields)
	misa := f.define(addrMisa, "misa", 64, misaFields)
	f.define(addrMedeleg, "medeleg", 64, nil)
	f.define(addrMideleg, "mideleg", 64, nil)
	f.define(addrMie, "mie", 64, mieFields)
	f.define(addrMtvec, "mtvec", 64, tvecFields)

	f.define(addrMscratch, "mscratch", 64, nil)
	f.define(addrMepc, "mepc", 64, nil)
	f.define(addrMcause, "mcause", 64, mcauseFields)
	f.define(addrMtval, "mtval", 64, nil)
	f.define(addrMip, "mip", 64, mipFields)

	f.define(addrPmpcfg0, "pmpcfg0", 64, nil)
	f.define(addrPmpaddr0, "pmpaddr0", 64, nil)
	f.define(addrMnstatus, "mnstatus", 64, nil)

	f.define(addrMcycle, "mcycle", 64, nil)
	f.define(addrMinstret, "minstret", 64, nil)

	if ext.Supervisor {
		f.define(addrSatp, "satp", 64, satpFields)
		f.define(addrStvec, "stvec", 64, tvecFields)
		f.define(addrScounteren, "scounteren", 64, nil)
	}
	if ext.User {
		f.define(addrCycle, "cycle", 64, nil)
	}

	extBits := uint64(1) << misaBit('I')
	if ext.Multiply {
		extBits |= uint64(1) << misaBit('M')
	}
	if ext.Supervisor {
		extBits |= uint64(1) << misaBit('S')
	}
	if ext.User {
		extBits |= uint64(1) << misaBit('U')
	}
	if ext.Compressed {
		extBits |= uint64(1) << misaBit('C')
	}
	misa.block.MustField("Extensions").Set(extBits)
	misa.block.MustField("MXLEN").Set(2) // 64-bit

	mstatus.block.MustField("MPP").Set(uint64(ModeM))
	mstatus.block.MustField("SXL").Set(2)
	mstatus.block.MustField("UXL").Set(2)

	return f
}

// ImplementedExtensions returns the bit field of extension letters set in
// misa, for WARL masking of subsequent writes (§9: misa is WARL — writes to
// unimplemented extension bits must be ignored).
func (f *File) ImplementedExtensions() uint64 {
	c, err := f.Get("misa")
	if err != nil {
		return 0
	}
	v, _ := c.Field("Extensions")
	return v.Get()
}

// WriteMisaWARL writes to misa.Extensions, masking the supplied value to
// the set of bits already implemented so a hart can never acquire an
// extension it wasn't built with.
func (f *File) WriteMisaWARL(requested uint64) {
	c, err := f.Get("misa")
	if err != nil {
		return
	}
	view, _ := c.Field("Extensions")
	view.Set(requested & f.ImplementedExtensions())
}
