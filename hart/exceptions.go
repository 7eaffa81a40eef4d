package hart

import "fmt"

// Code is a RISC-V synchronous-exception cause code (§7).
type Code uint

const (
	CodeInstructionAddressMisaligned Code = 0
	CodeInstructionAccessFault       Code = 1
	CodeIllegalInstruction           Code = 2
	CodeBreakpoint                   Code = 3
	CodeLoadAddressMisaligned        Code = 4
	CodeLoadAccessFault              Code = 5
	CodeStoreAmoAddressMisaligned    Code = 6
	CodeStoreAmoAccessFault          Code = 7
	CodeUcall                        Code = 8
	CodeScall                        Code = 9
	CodeMcall                        Code = 11
	CodeInstructionPageFault         Code = 12
	CodeLoadPageFault                Code = 13
	CodeStoreAmoPageFault            Code = 15
)

func (c Code) String() string {
	switch c {
	case CodeInstructionAddressMisaligned:
		return "InstructionAddressMisaligned"
	case CodeInstructionAccessFault:
		return "InstructionAccessFault"
	case CodeIllegalInstruction:
		return "IllegalInstruction"
	case CodeBreakpoint:
		return "Breakpoint"
	case CodeLoadAddressMisaligned:
		return "LoadAddressMisaligned"
	case CodeLoadAccessFault:
		return "LoadAccessFault"
	case CodeStoreAmoAddressMisaligned:
		return "StoreAmoAddressMisaligned"
	case CodeStoreAmoAccessFault:
		return "StoreAmoAccessFault"
	case CodeUcall:
		return "Ucall"
	case CodeScall:
		return "Scall"
	case CodeMcall:
		return "Mcall"
	case CodeInstructionPageFault:
		return "InstructionPageFault"
	case CodeLoadPageFault:
		return "LoadPageFault"
	case CodeStoreAmoPageFault:
		return "StoreAmoPageFault"
	default:
		return fmt.Sprintf("Code(%d)", uint(c))
	}
}

// Exception is a queued architectural exception: the single pending-trap
// slot described in §9 ("the engine cannot raise two simultaneously within
// one instruction" — an optional tagged value is sufficient, no list
// needed).
type Exception struct {
	Code Code
	Tval uint64
}
