// Package csr implements the control-and-status register file: a
// name- and address-indexed set of privileged registers, each exposing
// named bit-field views over a bitfield.Register.
//
// The teacher models a single privileged register (CPSR) as a hand-written
// struct of booleans with ToUint32/FromUint32 (vm/psr.go). The CSR file
// generalizes that one-register idea to the whole RISC-V privileged
// register set, following the §9 design note: a dense array indexed by the
// 12-bit address, with a name table kept alongside for diagnostics.
package csr

import (
	"fmt"

	"github.com/lookbusy1344/riscv-hart/bitfield"
)

// Mode is a RISC-V privilege level.
type Mode uint8

const (
	ModeU Mode = 0
	ModeS Mode = 1
	ModeM Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeU:
		return "U"
	case ModeS:
		return "S"
	case ModeM:
		return "M"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// numAddrs is the size of the 12-bit CSR address space.
const numAddrs = 1 << 12

// CSR is one addressable privileged register.
type CSR struct {
	Addr  uint16
	Name  string
	Width bitfield.Width
	block *bitfield.Block
}

// Value returns the CSR's current contents.
func (c *CSR) Value() uint64 { return c.block.Reg.Value() }

// Set overwrites the CSR, truncating to its width.
func (c *CSR) Set(v uint64) { c.block.Reg.SetValue(v) }

// Field resolves a named bit-field view, or ErrFieldNotFound.
func (c *CSR) Field(name string) (bitfield.View, error) {
	return c.block.Field(name)
}

// ReadOnly reports whether bits [11:10] of the address are 0b11.
func (c *CSR) ReadOnly() bool {
	return (c.Addr>>10)&0b11 == 0b11
}

// MinPrivilege reports the minimum privilege mode encoded in bits [9:8].
func (c *CSR) MinPrivilege() Mode {
	return Mode((c.Addr >> 8) & 0b11)
}

// ErrUnknownCSR is returned when a lookup key (address or name) does not
// match any populated CSR.
type ErrUnknownCSR struct{ Key any }

func (e *ErrUnknownCSR) Error() string {
	return fmt.Sprintf("csr: unknown register: %v", e.Key)
}

// File is the set of CSRs implied by a hart's extension set, addressable by
// either 12-bit number or name.
type File struct {
	byAddr [numAddrs]*CSR
	byName map[string]*CSR
}

func newFile() *File {
	return &File{byName: make(map[string]*CSR)}
}

// define registers a CSR of the given width and field schema at addr/name,
// returning it for further initialization. Panics on a duplicate address or
// name: the catalog is built once, at construction, from a fixed schema —
// a collision there is a programmer error, not a runtime condition.
func (f *File) define(addr uint16, name string, width bitfield.Width, fields map[string]bitfield.Field) *CSR {
	if f.byAddr[addr] != nil {
		panic(fmt.Sprintf("csr: duplicate address %#x for %q", addr, name))
	}
	if _, dup := f.byName[name]; dup {
		panic(fmt.Sprintf("csr: duplicate name %q", name))
	}
	reg := bitfield.NewRegister(width)
	c := &CSR{Addr: addr, Name: name, Width: width, block: bitfield.NewBlock(reg, fields)}
	f.byAddr[addr] = c
	f.byName[name] = c
	return c
}

// Get looks up a CSR by its 12-bit address (int/uint16) or by name (string).
func (f *File) Get(key any) (*CSR, error) {
	switch k := key.(type) {
	case string:
		if c, ok := f.byName[k]; ok {
			return c, nil
		}
	case int:
		if k >= 0 && k < numAddrs && f.byAddr[k] != nil {
			return f.byAddr[k], nil
		}
	case uint16:
		if f.byAddr[k] != nil {
			return f.byAddr[k], nil
		}
	case uint32:
		if int(k) < numAddrs && f.byAddr[k] != nil {
			return f.byAddr[k], nil
		}
	}
	return nil, &ErrUnknownCSR{Key: key}
}

// Set writes value (truncated to the target CSR's width) to the CSR named
// or addressed by key.
func (f *File) Set(key any, value uint64) error {
	c, err := f.Get(key)
	if err != nil {
		return err
	}
	c.Set(value)
	return nil
}

// Field resolves a named bit-field view on the CSR named or addressed by
// key.
func (f *File) Field(key any, fieldName string) (bitfield.View, error) {
	c, err := f.Get(key)
	if err != nil {
		return bitfield.View{}, err
	}
	return c.Field(fieldName)
}
