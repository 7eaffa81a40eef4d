// Package inspector implements a read-only text UI over a hart's state:
// registers, a handful of CSRs, and a memory hex window. It is a much
// thinner relative of the teacher's debugger.TUI (debugger/tui.go): no
// command input, no breakpoints,
// no source/disassembly panes — just the three panels a read-only monitor
// needs, wired behind a StateView interface so the core hart package never
// imports tcell/tview.
package inspector

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// StateView is the read-only surface the inspector renders. hart.Hart is
// adapted to this via HartView rather than implementing it directly, since
// PC/Mode are plain fields there, not methods.
type StateView interface {
	PC() uint64
	ModeName() string
	GPR(i int) uint64
	CSRNames() []string
	CSR(name string) (uint64, bool)
	ReadMemory(addr uint64, size int) (uint64, bool)
}

// Inspector is a read-only tview application over a StateView.
type Inspector struct {
	state StateView

	App        *tview.Application
	MainLayout *tview.Flex

	RegisterView *tview.TextView
	CSRView      *tview.TextView
	MemoryView   *tview.TextView

	MemoryAddress uint64
}

// New builds an inspector over state.
func New(state StateView) *Inspector {
	insp := &Inspector{
		state: state,
		App:   tview.NewApplication(),
	}
	insp.initializeViews()
	insp.buildLayout()
	insp.setupKeyBindings()
	return insp
}

func (i *Inspector) initializeViews() {
	i.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	i.RegisterView.SetBorder(true).SetTitle(" Registers ")

	i.CSRView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	i.CSRView.SetBorder(true).SetTitle(" CSRs ")

	i.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	i.MemoryView.SetBorder(true).SetTitle(" Memory ")
}

func (i *Inspector) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(i.RegisterView, 0, 1, false).
		AddItem(i.CSRView, 0, 1, false)

	i.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, false).
		AddItem(i.MemoryView, 0, 1, false)
}

func (i *Inspector) setupKeyBindings() {
	i.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			i.App.Stop()
			return nil
		}
		switch event.Rune() {
		case 'q':
			i.App.Stop()
			return nil
		case 'r':
			i.RefreshAll()
			return nil
		}
		return event
	})
}

// RefreshAll repaints every panel from the current StateView.
func (i *Inspector) RefreshAll() {
	i.updateRegisterView()
	i.updateCSRView()
	i.updateMemoryView()
}

func (i *Inspector) updateRegisterView() {
	var lines []string
	for row := 0; row < 8; row++ {
		var cols []string
		for col := 0; col < 4; col++ {
			reg := row*4 + col
			cols = append(cols, fmt.Sprintf("x%-2d: 0x%016x", reg, i.state.GPR(reg)))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("pc: 0x%016x  mode: %s", i.state.PC(), i.state.ModeName()))
	i.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (i *Inspector) updateCSRView() {
	var lines []string
	for _, name := range i.state.CSRNames() {
		if v, ok := i.state.CSR(name); ok {
			lines = append(lines, fmt.Sprintf("%-10s 0x%016x", name, v))
		}
	}
	i.CSRView.SetText(strings.Join(lines, "\n"))
}

func (i *Inspector) updateMemoryView() {
	addr := i.MemoryAddress
	if addr == 0 {
		addr = i.state.PC()
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]Address: 0x%016x[white]", addr))

	for row := 0; row < 8; row++ {
		rowAddr := addr + uint64(row*16)
		line := fmt.Sprintf("0x%016x: ", rowAddr)

		var hexBytes []string
		var ascii []byte
		for col := 0; col < 16; col++ {
			v, ok := i.state.ReadMemory(rowAddr+uint64(col), 1)
			if !ok {
				hexBytes = append(hexBytes, "??")
				ascii = append(ascii, '.')
				continue
			}
			b := byte(v)
			hexBytes = append(hexBytes, fmt.Sprintf("%02x", b))
			if b >= 0x20 && b < 0x7f {
				ascii = append(ascii, b)
			} else {
				ascii = append(ascii, '.')
			}
		}
		line += strings.Join(hexBytes, " ") + "  " + string(ascii)
		lines = append(lines, line)
	}

	i.MemoryView.SetText(strings.Join(lines, "\n"))
}

// Run starts the tview event loop, blocking until Stop is called.
func (i *Inspector) Run() error {
	i.RefreshAll()
	return i.App.SetRoot(i.MainLayout, true).Run()
}

// Stop halts the event loop.
func (i *Inspector) Stop() {
	i.App.Stop()
}
