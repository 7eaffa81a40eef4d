package hart

import (
	"fmt"

	"github.com/lookbusy1344/riscv-hart/csr"
	"github.com/lookbusy1344/riscv-hart/decode"
)

// enterTrap performs the trap-entry sequence described after §4.G's
// execute table: stack mepc/mcause/mstatus, compute the mtvec-relative
// target (direct or vectored per the §9 open-question resolution that
// adds MODE=1 support), and switch to M-mode.
func (h *Hart) enterTrap(exc Exception) {
	mstatus, err := h.CSR.Get("mstatus")
	if err != nil {
		panic(err) // construction-time catalog invariant, never absent
	}
	mepc, _ := h.CSR.Get("mepc")
	mcause, _ := h.CSR.Get("mcause")
	mtval, _ := h.CSR.Get("mtval")
	mtvec, _ := h.CSR.Get("mtvec")

	mepc.Set(h.PC)
	mtval.Set(exc.Tval)

	intBit, _ := mcause.Field("INT")
	codeField, _ := mcause.Field("CODE")
	intBit.Set(0)
	codeField.Set(uint64(exc.Code))

	mpp, _ := mstatus.Field("MPP")
	mie, _ := mstatus.Field("MIE")
	mpie, _ := mstatus.Field("MPIE")
	mpp.Set(uint64(h.Mode))
	mpie.Set(mie.Get())
	mie.Set(0)

	base, _ := mtvec.Field("BASE")
	mode, _ := mtvec.Field("MODE")
	target := base.Get() << 2
	if mode.Get() == 1 {
		target += 4 * uint64(exc.Code)
	}

	h.Mode = csr.ModeM
	h.PC = target
}

// executeSystem handles the SYSTEM opcode: ECALL/MRET/SRET when funct3==0,
// CSR read-modify-write instructions otherwise.
func (h *Hart) executeSystem(f decode.Fields, ins uint32, pc, pcNext uint64) (uint64, bool, error) {
	if f.Funct3 == 0 {
		switch f.Funct12 {
		case 0x000: // ECALL
			var code Code
			switch h.Mode {
			case csr.ModeM:
				code = CodeMcall
			case csr.ModeS:
				code = CodeScall
			default:
				code = CodeUcall
			}
			h.QueueException(code, 0)
			return pcNext, false, nil

		case 0x302: // MRET
			next, err := h.executeMRET()
			return next, false, err

		case 0x102: // SRET
			h.QueueException(CodeIllegalInstruction, uint64(ins))
			return pcNext, false, nil

		default:
			h.QueueException(CodeIllegalInstruction, uint64(ins))
			return pcNext, false, nil
		}
	}
	return pcNext, false, h.executeCSR(f, ins)
}

// executeMRET implements the machine-mode trap return described after the
// SYSTEM sub-flow table, returning the restored PC for the caller to carry
// through as the step's next-PC.
func (h *Hart) executeMRET() (uint64, error) {
	mstatus, err := h.CSR.Get("mstatus")
	if err != nil {
		return 0, fmt.Errorf("hart: MRET: %w", err)
	}
	mepc, err := h.CSR.Get("mepc")
	if err != nil {
		return 0, fmt.Errorf("hart: MRET: %w", err)
	}

	mie, _ := mstatus.Field("MIE")
	mpie, _ := mstatus.Field("MPIE")
	mpp, _ := mstatus.Field("MPP")

	mie.Set(mpie.Get())
	mpie.Set(1)
	h.Mode = csr.Mode(mpp.Get())

	if h.ext.User {
		mpp.Set(uint64(csr.ModeU))
	} else {
		mpp.Set(uint64(csr.ModeM))
	}

	return mepc.Value(), nil
}

// csrImmBit is the funct3 bit that, when set, selects the immediate-operand
// forms.
const csrImmBit = 0b100

// executeCSR implements CSRRW/CSRRS/CSRRC and their immediate forms, per
// the §4.G SYSTEM/CSR sub-flow.
func (h *Hart) executeCSR(f decode.Fields, ins uint32) error {
	addr := int(f.Funct12)
	target, err := h.CSR.Get(addr)
	if err != nil {
		return fmt.Errorf("hart: csr access at pc=%#x: %w", h.PC, err)
	}
	old := target.Value()

	useImm := f.Funct3&csrImmBit != 0
	var operand uint64
	if useImm {
		operand = uint64(f.Rs1) // rs1 field reused as a 5-bit zero-extended immediate
	} else {
		operand = h.GPR.Read(int(f.Rs1))
	}
	// CSRRS/CSRRC (and their immediate forms) skip the write-and-side-effect
	// entirely when the source operand is x0/zimm=0, per the SYSTEM sub-flow.
	cond := f.Rs1 != 0

	h.GPR.Write(int(f.Rd), old)

	switch f.Funct3 &^ csrImmBit {
	case 0b001: // CSRRW / CSRRWI
		target.Set(operand)
	case 0b010: // CSRRS / CSRRSI
		if cond {
			target.Set(old | operand)
		}
	case 0b011: // CSRRC / CSRRCI
		if cond {
			target.Set(old &^ operand)
		}
	default:
		h.QueueException(CodeIllegalInstruction, uint64(ins))
	}
	return nil
}
