package hart

import (
	"fmt"

	"github.com/lookbusy1344/riscv-hart/decode"
)

func bit30(ins uint32) bool { return (ins>>30)&1 == 1 }

// execute dispatches one decoded 32-bit instruction, per the opcode-family
// table in §4.G. It returns the next PC (possibly unchanged from the
// caller-supplied default), whether the hart should halt (tohost store),
// and any host-fatal error.
func (h *Hart) execute(f decode.Fields, ins uint32, pcNext uint64) (uint64, bool, error) {
	pc := h.PC
	switch f.Opcode {
	case decode.OpLUI:
		h.GPR.Write(int(f.Rd), decode.ImmU(ins))
		return pcNext, false, nil

	case decode.OpAUIPC:
		h.GPR.Write(int(f.Rd), pc+decode.ImmU(ins))
		return pcNext, false, nil

	case decode.OpJAL:
		h.GPR.Write(int(f.Rd), pc+4)
		target := pc + decode.ImmJ(ins)
		h.recordJALTarget(target)
		return target, false, nil

	case decode.OpJALR:
		linkVal := pc + 4
		target := (h.GPR.Read(int(f.Rs1)) + decode.ImmI(ins)) &^ 1
		h.GPR.Write(int(f.Rd), linkVal)
		return target, false, nil

	case decode.OpBranch:
		a, b := h.GPR.Read(int(f.Rs1)), h.GPR.Read(int(f.Rs2))
		if decode.Branch(f.Funct3, a, b) {
			return pc + decode.ImmB(ins), false, nil
		}
		return pcNext, false, nil

	case decode.OpLoad:
		return pcNext, false, h.executeLoad(f, ins)

	case decode.OpStore:
		halt, err := h.executeStore(f, ins)
		return pcNext, halt, err

	case decode.OpOp:
		a, b := h.GPR.Read(int(f.Rs1)), h.GPR.Read(int(f.Rs2))
		subFlag := f.Funct3 == decode.ALUAddSub && bit30(ins)
		arithFlag := f.Funct3 == decode.ALUSRx && bit30(ins)
		h.GPR.Write(int(f.Rd), decode.ALU(f.Funct3, subFlag, arithFlag, a, b, decode.XLen64))
		return pcNext, false, nil

	case decode.OpOp32:
		a, b := h.GPR.Read(int(f.Rs1)), h.GPR.Read(int(f.Rs2))
		subFlag := f.Funct3 == decode.ALUAddSub && bit30(ins)
		arithFlag := f.Funct3 == decode.ALUSRx && bit30(ins)
		h.GPR.Write(int(f.Rd), decode.ALU(f.Funct3, subFlag, arithFlag, a, b, decode.XLen32))
		return pcNext, false, nil

	case decode.OpImm:
		a := h.GPR.Read(int(f.Rs1))
		imm := decode.ImmI(ins)
		arithFlag := f.Funct3 == decode.ALUSRx && bit30(ins)
		h.GPR.Write(int(f.Rd), decode.ALU(f.Funct3, false, arithFlag, a, imm, decode.XLen64))
		return pcNext, false, nil

	case decode.OpImm32:
		a := h.GPR.Read(int(f.Rs1))
		imm := decode.ImmI(ins)
		arithFlag := f.Funct3 == decode.ALUSRx && bit30(ins)
		h.GPR.Write(int(f.Rd), decode.ALU(f.Funct3, false, arithFlag, a, imm, decode.XLen32))
		return pcNext, false, nil

	case decode.OpMiscMem:
		return pcNext, false, nil // FENCE: no-op

	case decode.OpSystem:
		next, halt, err := h.executeSystem(f, ins, pc, pcNext)
		return next, halt, err

	default:
		// Recognized-shape-but-unimplemented 32-bit opcode: an
		// architectural illegal instruction, trapped like any other
		// decode failure within the standard 32-bit space (§9's decoder
		// note: "yields IllegalInstruction on unknown values").
		h.QueueException(CodeIllegalInstruction, uint64(ins))
		return pcNext, false, nil
	}
}

func (h *Hart) executeLoad(f decode.Fields, ins uint32) error {
	addr := h.GPR.Read(int(f.Rs1)) + decode.ImmI(ins)
	size := 1 << (f.Funct3 & 0b11)
	v, err := h.Bus.Read(addr, size)
	if err != nil {
		h.QueueException(CodeLoadAccessFault, addr)
		return nil
	}
	unsigned := f.Funct3&0b100 != 0
	if !unsigned && size < 8 {
		v = decode.SignExtend(v, uint(size*8))
	}
	h.GPR.Write(int(f.Rd), v)
	return nil
}

// executeStore returns (halt, error). halt is true when the store targets
// the riscv-tests tohost address: the write is skipped and the hart
// signals termination (§6).
func (h *Hart) executeStore(f decode.Fields, ins uint32) (bool, error) {
	addr := h.GPR.Read(int(f.Rs1)) + decode.ImmS(ins)
	if addr == TohostAddrLow || addr == TohostAddrHigh {
		return true, nil
	}
	size := 1 << f.Funct3
	value := h.GPR.Read(int(f.Rs2))
	if err := h.Bus.Write(addr, value, size); err != nil {
		h.QueueException(CodeStoreAmoAccessFault, addr)
		return false, nil
	}
	h.LastStoreAddr = addr
	h.LastStoreSize = size
	return false, nil
}

// executeCompressed applies an expanded 16-bit instruction using the same
// GPR/bus surface as the 32-bit path.
func (h *Hart) executeCompressed(c decode.Compressed) error {
	switch c.Kind {
	case decode.CAddi4spn, decode.CAddi, decode.CAddi16sp:
		h.GPR.Write(int(c.Rd), h.GPR.Read(int(c.Rs1))+c.Imm)
	case decode.CLW:
		addr := h.GPR.Read(int(c.Rs1)) + c.Imm
		v, err := h.Bus.Read(addr, 4)
		if err != nil {
			h.QueueException(CodeLoadAccessFault, addr)
			return nil
		}
		h.GPR.Write(int(c.Rd), decode.SignExtend(v, 32))
	case decode.CSW:
		addr := h.GPR.Read(int(c.Rs1)) + c.Imm
		if err := h.Bus.Write(addr, h.GPR.Read(int(c.Rs2)), 4); err != nil {
			h.QueueException(CodeStoreAmoAccessFault, addr)
			return nil
		}
		h.LastStoreAddr = addr
		h.LastStoreSize = 4
	default:
		return fmt.Errorf("hart: unreachable compressed kind %v", c.Kind)
	}
	return nil
}
