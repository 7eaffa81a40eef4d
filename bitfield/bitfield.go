// Package bitfield implements the fixed-width register abstraction behind
// every CSR: a machine word with bit- and range-addressable
// get/set, plus a named projection view that aliases the underlying value.
//
// The teacher emulator expresses this ad hoc per-register (CPSR.ToUint32 /
// FromUint32 in vm/psr.go, the Mask/Shift constant families in
// vm/arch_constants.go). Here the same shape is generalized once: a Register
// holds the bits, a Field names a sub-range of it, and a Block binds a set of
// named Fields to one Register for dispatch by name.
package bitfield

import "fmt"

// Width is the bit width of a register: 32 or 64.
type Width uint

// Register is a fixed-width unsigned integer with sub-range access.
// The zero value has width 0 and holds no bits; build registers with
// NewRegister.
type Register struct {
	width Width
	value uint64
}

// NewRegister returns a Register of the given width (32 or 64), initialized
// to zero.
func NewRegister(width Width) *Register {
	return &Register{width: width}
}

// Width reports the register's bit width.
func (r *Register) Width() Width { return r.width }

func (r *Register) mask() uint64 {
	if r.width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << r.width) - 1
}

// Value returns the full register contents, masked to its width.
func (r *Register) Value() uint64 { return r.value & r.mask() }

// SetValue overwrites the register, truncating the supplied value to width.
func (r *Register) SetValue(v uint64) { r.value = v & r.mask() }

// Bit reads a single bit at position k.
func (r *Register) Bit(k uint) uint64 {
	return (r.value >> k) & 1
}

// SetBit writes a single bit at position k to 0 or 1.
func (r *Register) SetBit(k uint, v uint64) {
	r.SetRange(k, k, v)
}

// rangeMask returns ((1 << (msb-lsb+1)) - 1), the mask for a closed range.
func rangeMask(msb, lsb uint) uint64 {
	width := msb - lsb + 1
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// Range reads the closed bit range [msb:lsb] and zero-extends it.
func (r *Register) Range(msb, lsb uint) uint64 {
	return (r.value >> lsb) & rangeMask(msb, lsb)
}

// SetRange writes v into the closed bit range [msb:lsb], masking the target
// range to zero first and OR-ing in the supplied value truncated to the
// range's width.
func (r *Register) SetRange(msb, lsb uint, v uint64) {
	m := rangeMask(msb, lsb)
	r.value = (r.value &^ (m << lsb)) | ((v & m) << lsb)
	r.value &= r.mask()
}

// And applies bitwise AND with other's value across the whole register.
func (r *Register) And(other *Register) {
	r.value &= other.Value()
}

// Or applies bitwise OR with other's value across the whole register.
func (r *Register) Or(other *Register) {
	r.value |= other.Value()
	r.value &= r.mask()
}

// ErrFieldNotFound is returned by Block.Field for an unknown field name.
type ErrFieldNotFound struct{ Name string }

func (e *ErrFieldNotFound) Error() string {
	return fmt.Sprintf("bitfield: field not found: %q", e.Name)
}

// Field is a named projection of a closed bit range [Msb:Lsb].
type Field struct {
	Msb, Lsb uint
}

// View binds a Register to one Field; Get/Set delegate to Range/SetRange.
type View struct {
	reg   *Register
	field Field
}

// Get returns the zero-extended field value.
func (v View) Get() uint64 { return v.reg.Range(v.field.Msb, v.field.Lsb) }

// Set writes the field; bits outside [Msb:Lsb] are left unchanged.
func (v View) Set(value uint64) { v.reg.SetRange(v.field.Msb, v.field.Lsb, value) }

// AllField is the reserved field name exposing the whole register.
const AllField = "all"

// Block pairs a Register with a named field schema. The reserved name
// AllField always resolves to the full-width view regardless of whether it
// appears in Fields.
type Block struct {
	Reg    *Register
	Fields map[string]Field
}

// NewBlock builds a Block over reg with the given field schema.
func NewBlock(reg *Register, fields map[string]Field) *Block {
	return &Block{Reg: reg, Fields: fields}
}

// Field resolves a field name to a View, or ErrFieldNotFound.
func (b *Block) Field(name string) (View, error) {
	if name == AllField {
		return View{reg: b.Reg, field: Field{Msb: uint(b.Reg.width) - 1, Lsb: 0}}, nil
	}
	f, ok := b.Fields[name]
	if !ok {
		return View{}, &ErrFieldNotFound{Name: name}
	}
	return View{reg: b.Reg, field: f}, nil
}

// MustField is Field but panics on an unknown name; used for field names
// fixed at definition time (catalog construction), never for user input.
func (b *Block) MustField(name string) View {
	v, err := b.Field(name)
	if err != nil {
		panic(err)
	}
	return v
}
