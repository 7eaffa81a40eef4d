package decode

import "fmt"

// ErrUnsupportedEncoding is raised for any 16-bit encoding this decoder
// does not model. §4.F/§9: the source "leaves C2 and many encodings
// unimplemented" — every unmodeled case must raise this rather than
// silently advancing, so we raise it uniformly instead of only for the
// gaps the original happened to leave.
type ErrUnsupportedEncoding struct {
	Instruction uint16
}

func (e *ErrUnsupportedEncoding) Error() string {
	return fmt.Sprintf("decode: unsupported compressed encoding %#04x", e.Instruction)
}

// CKind names the compressed operations this decoder expands.
type CKind int

const (
	CAddi4spn CKind = iota // rd' <- sp + nzuimm
	CLW                    // rd' <- [rs1' + uimm]
	CSW                    // [rs1' + uimm] <- rs2'
	CAddi                  // rd <- rd + imm (rd==0 behaves as NOP via x0 discard)
	CAddi16sp              // sp <- sp + nzimm
)

// Compressed is a decoded 16-bit instruction, expanded to the GPR indices
// and immediate its standard-encoding equivalent would use.
type Compressed struct {
	Kind        CKind
	Rd, Rs1, Rs2 uint32
	Imm         uint64
}

// cReg expands a 3-bit compressed register field (x8..x15) to its full GPR
// index.
func cReg(bits uint32) uint32 { return bits + 8 }

// DecodeCompressed decodes a 16-bit instruction whose low two bits are not
// 0b11. Only RVC quadrants 00 (C.ADDI4SPN, C.LW, C.SW) and 01 (C.ADDI,
// C.ADDI16SP — C.NOP is the rd=x0, imm=0 case of C.ADDI) are modeled, per
// §4.F; every other encoding, including all of quadrant 10, raises
// ErrUnsupportedEncoding.
func DecodeCompressed(ins uint16) (Compressed, error) {
	quadrant := ins & 0x3
	funct3 := (ins >> 13) & 0x7

	switch quadrant {
	case 0b00:
		switch funct3 {
		case 0b000: // C.ADDI4SPN
			rd := cReg(uint32(ins>>2) & 0x7)
			imm := decodeAddi4spnImm(ins)
			if imm == 0 {
				return Compressed{}, &ErrUnsupportedEncoding{Instruction: ins}
			}
			return Compressed{Kind: CAddi4spn, Rd: rd, Rs1: 2, Imm: imm}, nil
		case 0b010: // C.LW
			rd := cReg(uint32(ins>>2) & 0x7)
			rs1 := cReg(uint32(ins>>7) & 0x7)
			imm := decodeLwSwImm(ins)
			return Compressed{Kind: CLW, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case 0b110: // C.SW
			rs2 := cReg(uint32(ins>>2) & 0x7)
			rs1 := cReg(uint32(ins>>7) & 0x7)
			imm := decodeLwSwImm(ins)
			return Compressed{Kind: CSW, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		default:
			return Compressed{}, &ErrUnsupportedEncoding{Instruction: ins}
		}
	case 0b01:
		switch funct3 {
		case 0b000: // C.ADDI (rd==0 is C.NOP; x0 write-discard makes it a no-op)
			rd := uint32(ins>>7) & 0x1F
			imm := decodeAddiImm(ins)
			return Compressed{Kind: CAddi, Rd: rd, Rs1: rd, Imm: imm}, nil
		case 0b011: // C.ADDI16SP when rd==2; C.LUI otherwise is not modeled
			rd := uint32(ins>>7) & 0x1F
			if rd != 2 {
				return Compressed{}, &ErrUnsupportedEncoding{Instruction: ins}
			}
			imm := decodeAddi16spImm(ins)
			if imm == 0 {
				return Compressed{}, &ErrUnsupportedEncoding{Instruction: ins}
			}
			return Compressed{Kind: CAddi16sp, Rd: 2, Rs1: 2, Imm: imm}, nil
		default:
			return Compressed{}, &ErrUnsupportedEncoding{Instruction: ins}
		}
	default:
		return Compressed{}, &ErrUnsupportedEncoding{Instruction: ins}
	}
}

func decodeAddi4spnImm(ins uint16) uint64 {
	u := uint32(ins)
	// nzuimm[5:4] = ins[12:11], nzuimm[9:6] = ins[10:7], nzuimm[2] = ins[6], nzuimm[3] = ins[5]
	b54 := (u >> 11) & 0x3
	b96 := (u >> 7) & 0xF
	b2 := (u >> 6) & 0x1
	b3 := (u >> 5) & 0x1
	v := (b96 << 6) | (b54 << 4) | (b3 << 3) | (b2 << 2)
	return uint64(v)
}

func decodeLwSwImm(ins uint16) uint64 {
	u := uint32(ins)
	// offset[5:3] = ins[12:10], offset[2] = ins[6], offset[6] = ins[5]
	b53 := (u >> 10) & 0x7
	b2 := (u >> 6) & 0x1
	b6 := (u >> 5) & 0x1
	v := (b6 << 6) | (b53 << 3) | (b2 << 2)
	return uint64(v)
}

func decodeAddiImm(ins uint16) uint64 {
	u := uint32(ins)
	// imm = sign_extend({ins[12], ins[6:2]}, 6)
	raw := ((u >> 12) & 0x1 << 5) | ((u >> 2) & 0x1F)
	return SignExtend(uint64(raw), 6)
}

func decodeAddi16spImm(ins uint16) uint64 {
	u := uint32(ins)
	// nzimm[9|4|6|8:7|5] = ins[12|6|5|4:3|2]
	b9 := (u >> 12) & 0x1
	b4 := (u >> 6) & 0x1
	b6 := (u >> 5) & 0x1
	b87 := (u >> 3) & 0x3
	b5 := (u >> 2) & 0x1
	raw := (b9 << 9) | (b87 << 7) | (b6 << 6) | (b5 << 5) | (b4 << 4)
	return SignExtend(uint64(raw), 10)
}
