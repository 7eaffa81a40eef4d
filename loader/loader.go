// Package loader places a raw binary image into a hart's address space.
// The §6 "binary load format" is a flat byte blob, not an assembler or ELF
// object, so this package is a deliberate simplification of the teacher's
// loader/loader.go: no symbol table, no directive processing, just
// "read a file, write it at a base address."
package loader

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/memory"
)

// LoadFile reads path and writes its bytes into a freshly-sized RAM device
// registered on b at base, returning the device for callers that want to
// inspect memory directly (e.g. the monitor's memory-window telemetry).
func LoadFile(b *bus.Bus, path string, base uint64) (*memory.RAM, error) {
	image, err := os.ReadFile(path) // #nosec G304 -- user-provided test-binary path
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	return LoadImage(b, image, base)
}

// LoadImage writes image into a freshly-sized RAM device registered on b at
// base.
func LoadImage(b *bus.Bus, image []byte, base uint64) (*memory.RAM, error) {
	ram := memory.NewFromImage(image)
	if err := b.Register(ram, base); err != nil {
		return nil, fmt.Errorf("loader: registering image at %#x: %w", base, err)
	}
	return ram, nil
}
