// Package tools provides the out-of-scope "pretty-printing of register
// state" pieces named but not required by the core hart: a hex memory
// dump and a register table formatter, grounded on the teacher's
// tools/format.go options-struct convention and debugger/tui.go's memory
// hex-dump layout, but over plain strings instead of a tview TextView.
package tools

import (
	"fmt"
	"strings"
)

// DumpStyle labels which preset a MemoryDumpOptions came from. DumpMemory
// does not read it; the layout follows BytesPerLine and ShowASCII alone.
type DumpStyle int

const (
	DumpDefault  DumpStyle = iota // one line of address + hex + ascii per row
	DumpCompact                   // hex only, no ascii gutter
)

// MemoryDumpOptions controls DumpMemory's layout.
type MemoryDumpOptions struct {
	Style        DumpStyle
	BytesPerLine int
	ShowASCII    bool
}

// DefaultMemoryDumpOptions returns the 16-bytes-per-line, ASCII-gutter
// layout most hex dumps use.
func DefaultMemoryDumpOptions() *MemoryDumpOptions {
	return &MemoryDumpOptions{
		Style:        DumpDefault,
		BytesPerLine: 16,
		ShowASCII:    true,
	}
}

// CompactMemoryDumpOptions returns hex-only, no ASCII gutter options.
func CompactMemoryDumpOptions() *MemoryDumpOptions {
	opts := DefaultMemoryDumpOptions()
	opts.Style = DumpCompact
	opts.ShowASCII = false
	return opts
}

// ByteReader is the minimal surface DumpMemory needs: a sized read at an
// absolute address. bus.Bus and memory.RAM both satisfy this directly.
type ByteReader interface {
	Read(addr uint64, size int) (uint64, error)
}

// DumpMemory renders count bytes starting at addr as a hex (and optionally
// ASCII) table, one row per opts.BytesPerLine bytes. A byte that fails to
// read (outside any mapped device) renders as "??" rather than aborting
// the whole dump.
func DumpMemory(r ByteReader, addr uint64, count int, opts *MemoryDumpOptions) string {
	if opts == nil {
		opts = DefaultMemoryDumpOptions()
	}
	var b strings.Builder
	for offset := 0; offset < count; offset += opts.BytesPerLine {
		rowAddr := addr + uint64(offset)
		fmt.Fprintf(&b, "0x%016x: ", rowAddr)

		rowLen := opts.BytesPerLine
		if offset+rowLen > count {
			rowLen = count - offset
		}

		var ascii []byte
		for col := 0; col < rowLen; col++ {
			v, err := r.Read(rowAddr+uint64(col), 1)
			if err != nil {
				b.WriteString("?? ")
				if opts.ShowASCII {
					ascii = append(ascii, '.')
				}
				continue
			}
			by := byte(v)
			fmt.Fprintf(&b, "%02x ", by)
			if opts.ShowASCII {
				if by >= 0x20 && by < 0x7f {
					ascii = append(ascii, by)
				} else {
					ascii = append(ascii, '.')
				}
			}
		}

		if opts.ShowASCII {
			pad := opts.BytesPerLine - rowLen
			b.WriteString(strings.Repeat("   ", pad))
			b.WriteString(" ")
			b.Write(ascii)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RegisterTableOptions controls DumpRegisters's layout.
type RegisterTableOptions struct {
	Columns int
	Hex     bool
}

// DefaultRegisterTableOptions lays registers out four per row in hex.
func DefaultRegisterTableOptions() *RegisterTableOptions {
	return &RegisterTableOptions{Columns: 4, Hex: true}
}

// DumpRegisters renders names[i] = values[i] in a fixed-column grid.
func DumpRegisters(names []string, values []uint64, opts *RegisterTableOptions) string {
	if opts == nil {
		opts = DefaultRegisterTableOptions()
	}
	if len(names) != len(values) {
		panic("tools: DumpRegisters: names and values must be the same length")
	}

	var b strings.Builder
	for i := 0; i < len(names); i++ {
		if opts.Hex {
			fmt.Fprintf(&b, "%-4s: 0x%016x", names[i], values[i])
		} else {
			fmt.Fprintf(&b, "%-4s: %d", names[i], values[i])
		}
		if (i+1)%opts.Columns == 0 || i == len(names)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString("  ")
		}
	}
	return b.String()
}
