// Package hart implements the fetch/decode/execute engine: the component
// that owns PC, privilege mode, the GPR and CSR files, and the bus, and
// advances by exactly one instruction per Step call.
//
// This is the direct analogue of the teacher's vm.VM plus vm.CPU
// (vm/executor.go, vm/cpu.go): a single-threaded state machine whose public
// surface is Step() (vm.VM.Step in the teacher) wrapping Fetch/Decode/
// Execute/writeback, with the same "mutate state in place, signal
// termination through a return value" shape vm/executor.go uses.
package hart

import (
	"fmt"
	"log"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/csr"
	"github.com/lookbusy1344/riscv-hart/decode"
	"github.com/lookbusy1344/riscv-hart/gpr"
)

// ResetPC is the architectural reset vector for the test-harness memory
// layout (§3: "pc = 0x8000_0000").
const ResetPC = 0x8000_0000

// Test-harness termination addresses (§6 riscv-tests tohost protocol).
const (
	TohostAddrLow  = 0x8000_1000
	TohostAddrHigh = 0x8000_1004
)

// loopWindow/loopThreshold parameterize the diagnostic loop-detection
// safeguard of §4.G: instrumentation only, not architectural behavior.
const (
	loopWindow    = 50
	loopThreshold = 20
)

// Hart is one RV64I(+RVC) hardware thread.
type Hart struct {
	ID   uint64
	PC   uint64
	Mode csr.Mode

	GPR *gpr.File
	CSR *csr.File
	Bus *bus.Bus

	ext     csr.Extensions
	pending *Exception

	jalTargets    [loopWindow]uint64
	jalTargetsLen int
	jalTargetsPos int

	// LastStoreAddr/LastStoreSize record the most recent STORE for
	// diagnostic consumers (inspector, monitor); not architectural state.
	LastStoreAddr uint64
	LastStoreSize int
}

// New constructs a hart with GPR=0, the CSR catalog implied by ext, PC at
// the reset vector, and Machine mode current, per §3's lifecycle.
func New(id uint64, b *bus.Bus, ext csr.Extensions) *Hart {
	h := &Hart{
		ID:   id,
		PC:   ResetPC,
		Mode: csr.ModeM,
		GPR:  gpr.New(),
		CSR:  csr.NewFile(id, ext),
		Bus:  b,
		ext:  ext,
	}
	return h
}

// QueueException sets the single pending-exception slot (§9: one slot is
// sufficient, an instruction can raise at most one).
func (h *Hart) QueueException(code Code, tval uint64) {
	h.pending = &Exception{Code: code, Tval: tval}
}

// Step executes one instruction. It returns false when the host loop
// should stop: a tohost store, a 16-bit encoding this decoder does not
// model, or the loop-detection safeguard firing. Any other error is a host-fatal condition (bus/CSR/field errors);
// the hart's architectural state past the faulting instruction is not
// advanced further.
func (h *Hart) Step() (bool, error) {
	// 1. Trap injection: a defensive check for an exception left pending
	// from outside the normal same-cycle drain (step 6 below normally
	// clears it before Step returns).
	if h.pending != nil {
		h.enterTrap(*h.pending)
		h.pending = nil
		return true, nil
	}

	word, err := h.Bus.Read(h.PC, 4)
	if err != nil {
		return false, fmt.Errorf("fetch failed at pc=%#x: %w", h.PC, err)
	}
	raw := uint32(word)

	var (
		pcNext uint64
		halt   bool
	)

	if decode.IsCompressed(uint16(raw)) {
		pcNext = h.PC + 2
		c, cerr := decode.DecodeCompressed(uint16(raw))
		if cerr != nil {
			return false, fmt.Errorf("decode failed at pc=%#x: %w", h.PC, cerr)
		}
		if err := h.executeCompressed(c); err != nil {
			return false, err
		}
	} else {
		pcNext = h.PC + 4
		fields := decode.Extract(raw)
		pcNext, halt, err = h.execute(fields, raw, pcNext)
		if err != nil {
			return false, err
		}
	}

	if halt {
		return false, nil
	}

	if h.pending != nil {
		exc := *h.pending
		h.pending = nil
		h.enterTrap(exc)
	} else {
		h.PC = pcNext
	}

	if h.loopDetected() {
		log.Printf("critical: hart %d: JAL target %#x recurred more than %d times within the last %d JAL targets",
			h.ID, h.jalTargets[(h.jalTargetsPos-1+loopWindow)%loopWindow], loopThreshold, loopWindow)
		return false, nil
	}

	return true, nil
}

// recordJALTarget feeds the loop-detection ring buffer.
func (h *Hart) recordJALTarget(target uint64) {
	h.jalTargets[h.jalTargetsPos] = target
	h.jalTargetsPos = (h.jalTargetsPos + 1) % loopWindow
	if h.jalTargetsLen < loopWindow {
		h.jalTargetsLen++
	}
}

func (h *Hart) loopDetected() bool {
	if h.jalTargetsLen < loopWindow {
		return false
	}
	last := h.jalTargets[(h.jalTargetsPos-1+loopWindow)%loopWindow]
	count := 0
	for i := 0; i < h.jalTargetsLen; i++ {
		if h.jalTargets[i] == last {
			count++
		}
	}
	return count > loopThreshold
}
