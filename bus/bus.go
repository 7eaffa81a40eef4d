// Package bus implements the system bus: it registers memory-mapped
// devices at base addresses and dispatches sized reads and writes to
// whichever device's range contains the target address.
//
// The teacher's vm/memory_multi.go and vm/memory.go keep several named
// segments in a slice and do a linear scan to find the one covering a
// given address. The bus here generalizes that to arbitrary Device
// implementations (not just RAM), kept in address order so lookups can use
// a binary search, and adds the overlap check §4.E requires at
// registration time.
package bus

import (
	"fmt"
	"sort"
)

// Device is anything the bus can route sized accesses to.
type Device interface {
	// Size reports the device's length in bytes.
	Size() uint64
	// Read performs a little-endian, sized read at offset (relative to the
	// device's own base).
	Read(offset uint64, size int) (uint64, error)
	// Write performs a little-endian, sized write at offset.
	Write(offset uint64, value uint64, size int) error
}

type mapping struct {
	base, end uint64 // end is inclusive: base + size - 1
	dev       Device
}

// Bus holds an ordered, non-overlapping set of device mappings.
type Bus struct {
	ranges []mapping
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{}
}

// ErrAddressOverlap is returned by Register when the requested range
// intersects an already-registered range.
type ErrAddressOverlap struct {
	Base, End         uint64
	ExistingBase, ExistingEnd uint64
}

func (e *ErrAddressOverlap) Error() string {
	return fmt.Sprintf("bus: range [%#x:%#x] overlaps existing range [%#x:%#x]",
		e.Base, e.End, e.ExistingBase, e.ExistingEnd)
}

// ErrNoDeviceAtAddress is returned by Read/Write when no registered range
// contains the target address.
type ErrNoDeviceAtAddress struct{ Addr uint64 }

func (e *ErrNoDeviceAtAddress) Error() string {
	return fmt.Sprintf("bus: no device mapped at address %#x", e.Addr)
}

// Register inserts dev at [base, base+dev.Size()-1]. Fails with
// ErrAddressOverlap if the new range intersects any existing one.
func (b *Bus) Register(dev Device, base uint64) error {
	size := dev.Size()
	if size == 0 {
		return fmt.Errorf("bus: cannot register a zero-size device at %#x", base)
	}
	end := base + size - 1
	for _, m := range b.ranges {
		if base <= m.end && m.base <= end {
			return &ErrAddressOverlap{Base: base, End: end, ExistingBase: m.base, ExistingEnd: m.end}
		}
	}
	b.ranges = append(b.ranges, mapping{base: base, end: end, dev: dev})
	sort.Slice(b.ranges, func(i, j int) bool { return b.ranges[i].base < b.ranges[j].base })
	return nil
}

// find binary-searches the ordered ranges for the one containing addr.
func (b *Bus) find(addr uint64) (*mapping, error) {
	ranges := b.ranges
	lo, hi := 0, len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		if addr < ranges[mid].base {
			hi = mid
		} else if addr > ranges[mid].end {
			lo = mid + 1
		} else {
			return &ranges[mid], nil
		}
	}
	return nil, &ErrNoDeviceAtAddress{Addr: addr}
}

// Read dispatches a sized read to the device mapped at addr.
func (b *Bus) Read(addr uint64, size int) (uint64, error) {
	m, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	return m.dev.Read(addr-m.base, size)
}

// Write dispatches a sized write to the device mapped at addr.
func (b *Bus) Write(addr uint64, value uint64, size int) error {
	m, err := b.find(addr)
	if err != nil {
		return err
	}
	return m.dev.Write(addr-m.base, value, size)
}
