// Package debugger is an interactive single-step TUI over a running core
// (ambient, not named in spec.md — SPEC_FULL.md's domain expansion). Grounded
// on hejops/gone's cpu/debugger.go: a bubbletea model wrapping the already-
// running core, a memory page table with the current PC highlighted, a
// register/flag status panel, and a go-spew dump of the decoded M-cycle
// about to execute in place of gone's Opcodes dump.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"dmgcore/pkg/alu"
	"dmgcore/pkg/mcycle"
	"dmgcore/pkg/regs"
	"dmgcore/pkg/system"
)

// model is gone's model struct adapted to wrap a *system.System instead of
// gone's 6502 Cpu: there is no separate "program" to load here, the core is
// already booted by the caller.
type model struct {
	sys    *system.System
	offset uint16 // base address the page table scrolls around
	prevPC uint16
	err    error
}

// New returns a bubbletea program wrapping an already-booted sys, the way
// gone's Debug constructs its tea.Program around an already-constructed Cpu.
func New(sys *system.System) *tea.Program {
	return tea.NewProgram(model{sys: sys, offset: sys.CPU.Regs.Load16(regs.PC)})
}

// Run starts the interactive TUI and blocks until the user quits.
func Run(sys *system.System) error {
	_, err := New(sys).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

// stepOneInstruction ticks the system one T-cycle at a time: at least one
// whole M-cycle, then until the CPU's own M1 pin (asserted on an
// instruction's fetch-fusion cycle, §4.4) is up, i.e. until the decoder has
// reached the next instruction's last M-cycle. The minimum keeps a step
// that starts on a cycle where M1 is already up from returning at once. The iteration cap
// guards against single-stepping into one of the eleven lockup opcodes
// (§7), which parks the decoder forever and would otherwise hang the TUI.
func (m *model) stepOneInstruction() {
	const maxTCyclesPerStep = 1 << 20
	for i := 0; i < maxTCyclesPerStep; i++ {
		system.TickT(m.sys)
		if i >= 3 && m.sys.CPU.M1 {
			return
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.sys.CPU.Regs.Load16(regs.PC)
			m.stepOneInstruction()
		}
	}
	return m, nil
}

// renderPage renders one 16-byte memory row as a line, highlighting the
// byte at the current PC, mirroring gone's renderPage.
func (m model) renderPage(start uint16) string {
	pc := m.sys.CPU.Regs.Load16(regs.PC)
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := m.sys.MMU.Read(addr)
		if addr == pc {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := "addr | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}
	rows := []string{header}
	pc := m.sys.CPU.Regs.Load16(regs.PC)
	base := pc &^ 0xF
	for i := -2; i <= 2; i++ {
		rows = append(rows, m.renderPage(uint16(int(base)+i*16)))
	}
	return strings.Join(rows, "\n")
}

// status renders the register file and flag bits, mirroring gone's status
// panel shape but over the SM83's BC/DE/HL/AF/SP/PC/WZ pairs and C/H/N/Z
// flags instead of the 6502's A/X/Y and NVUBDIZC.
func (m model) status() string {
	r := &m.sys.CPU.Regs
	f := r.Load8(regs.F)
	flagLine := func(set bool, name string) string {
		if set {
			return name
		}
		return "-"
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
IR: %02x
BC: %04x  DE: %04x
HL: %04x  AF: %04x
SP: %04x  WZ: %04x
Z N H C
%s %s %s %s
IME:%v HALT:%v STOP:%v LOCK:%v
`,
		r.Load16(regs.PC), m.prevPC,
		m.sys.CPU.IR,
		r.Load16(regs.BC), r.Load16(regs.DE),
		r.Load16(regs.HL), r.Load16(regs.AF),
		r.Load16(regs.SP), r.Load16(regs.WZ),
		flagLine(f&alu.FlagZ != 0, "Z"), flagLine(f&alu.FlagN != 0, "N"),
		flagLine(f&alu.FlagH != 0, "H"), flagLine(f&alu.FlagC != 0, "C"),
		m.sys.CPU.IME, m.sys.CPU.Halted, m.sys.CPU.Stopped, m.sys.CPU.Locked,
	)
}

// View renders the page table, status panel, and a dump of the M-cycle
// table entry for the opcode currently sitting at PC — the go-spew dump
// gone uses on its Opcodes table, here over mcycle.Instruction instead.
func (m model) View() string {
	pc := m.sys.CPU.Regs.Load16(regs.PC)
	opcode := m.sys.MMU.Read(pc)
	name := mcycle.GetOpcodeName(mcycle.TableDefault, opcode)

	var errLine string
	if m.err != nil {
		errLine = "error: " + m.err.Error()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		fmt.Sprintf("next: %s", name),
		spew.Sdump(mcycle.Default()[opcode]),
		errLine,
	)
}
