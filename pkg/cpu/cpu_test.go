package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dmgcore/pkg/ioregs"
	"dmgcore/pkg/mmu"
	"dmgcore/pkg/regs"
)

// newTestSystem wires a CPU to a flat 64KB RAM region so instruction tests
// don't have to worry about segment boundaries.
func newTestSystem(t *testing.T) (*CPU, *mmu.MMU, []byte) {
	t.Helper()
	m := mmu.New()
	ram := make([]byte, 0x10000)
	m.MapMemoryRegion(0, 0x10000, ram, 0)

	c := New()
	BootCPU(c, make([]byte, 256), 0xFFFE, 0x0100, 1)
	MapPeripheralIOMemory(c, m)
	return c, m, ram
}

func loadProgram(ram []byte, at uint16, bytes ...uint8) {
	copy(ram[at:], bytes)
}

func TestBootCPUInitializesRegistersAndSP(t *testing.T) {
	c, _, _ := newTestSystem(t)
	assert.Equal(t, uint16(0xFFFE), c.Regs.Load16(regs.SP))
	assert.Equal(t, uint16(0x0100), c.Regs.Load16(regs.PC))
	assert.False(t, c.IME)
	assert.False(t, c.Halted)
}

func TestLoadImmediateIntoRegister(t *testing.T) {
	c, m, ram := newTestSystem(t)
	loadProgram(ram, 0x0100, 0x06, 0x42) // LD B,0x42

	TickCPU(c, m, 8) // 2 M-cycles
	assert.Equal(t, uint8(0x42), c.Regs.Load8(regs.B))
	assert.Equal(t, uint16(0x0102), c.Regs.Load16(regs.PC))
}

func TestIncSetsZeroAndHalfCarryFlags(t *testing.T) {
	c, m, ram := newTestSystem(t)
	loadProgram(ram, 0x0100, 0x04) // INC B
	c.Regs.Store8(regs.B, 0xFF)

	TickCPU(c, m, 8) // BootCPU's reset NOP fetches INC B, then INC B runs
	assert.Equal(t, uint8(0x00), c.Regs.Load8(regs.B))
	f := c.Regs.Load8(regs.F)
	assert.NotZero(t, f&0x80) // Z
	assert.NotZero(t, f&0x20) // H
	assert.Zero(t, f&0x40)    // N
}

func TestJumpAbsolute(t *testing.T) {
	c, m, ram := newTestSystem(t)
	loadProgram(ram, 0x0100, 0xC3, 0x50, 0x01) // JP 0x0150
	loadProgram(ram, 0x0150, 0x00)             // NOP landing pad

	TickCPU(c, m, 4+16) // reset NOP's fetch, then 4 M-cycles: read lo, read hi, internal delay, fetch
	assert.Equal(t, uint16(0x0151), c.Regs.Load16(regs.PC))
}

// JP HL retargets PC via its own IDU op on the same M-cycle fetch-fusion
// must read from; this pins the fetch-after-IDU ordering decision down.
func TestJumpToHLFetchesFromNewAddress(t *testing.T) {
	c, m, ram := newTestSystem(t)
	c.Regs.Store16(regs.HL, 0x2000)
	loadProgram(ram, 0x0100, 0xE9) // JP HL
	loadProgram(ram, 0x2000, 0x04) // INC B, should execute next
	c.Regs.Store8(regs.B, 0)

	TickCPU(c, m, 4+4) // reset NOP's fetch, then JP HL's single M-cycle
	assert.Equal(t, uint16(0x2001), c.Regs.Load16(regs.PC))

	TickCPU(c, m, 4) // INC B at the jumped-to address
	assert.Equal(t, uint8(1), c.Regs.Load8(regs.B))
}

func TestHaltParksUntilInterruptWithIMESet(t *testing.T) {
	c, m, ram := newTestSystem(t)
	c.IME = true
	c.IO.Write(ioregs.IE, ioregs.IntVBlank)
	c.IO.Write(ioregs.IF, 0) // ioregs.New leaves IF at 0xFF
	loadProgram(ram, 0x0100, 0x76) // HALT

	TickCPU(c, m, 4+4) // reset NOP's fetch, then HALT
	assert.True(t, c.Halted)

	c.RequestInterrupt(ioregs.IntVBlank)
	TickCPU(c, m, 4) // wakes and selects the vector
	assert.False(t, c.Halted)
	assert.False(t, c.IME)

	// the dispatch table's 4 explicit M-cycles (disable IME, decrement SP,
	// push PC high, push PC low + load the vector); a 5th, implicit,
	// fetch-fusion cycle follows and would advance PC past the vector.
	TickCPU(c, m, 4*4)
	assert.Equal(t, uint16(0x40), c.Regs.Load16(regs.PC))
}

func TestDisableThenEnableInterruptFlag(t *testing.T) {
	c, m, ram := newTestSystem(t)
	c.IO.Write(ioregs.IF, 0) // ioregs.New leaves IF at 0xFF; EI would dispatch at once
	loadProgram(ram, 0x0100, 0xF3, 0xFB) // DI ; EI
	TickCPU(c, m, 4+4) // reset NOP's fetch, then DI
	assert.False(t, c.IME)
	TickCPU(c, m, 4)
	assert.True(t, c.IME)
}

func TestBootROMOverlayIsRemovedOnCtrlWrite(t *testing.T) {
	m := mmu.New()
	ram := make([]byte, 0x10000)
	m.MapMemoryRegion(0, 0x10000, ram, 0)
	ram[0] = 0x76 // HALT, what cartridge space should read once the overlay lifts

	boot := make([]byte, 256)
	copy(boot, []uint8{0x3E, 0x01, 0xE0, 0x50}) // LD A,1 ; LDH (0x50),A

	c := New()
	BootCPU(c, boot, 0xFFFE, 0x0000, 0)
	MapPeripheralIOMemory(c, m)
	m.RedirectZeroSegment(c.BootROM())

	assert.Equal(t, uint8(0x3E), m.Read(0x0000)) // overlay visible, not cartridge RAM

	TickCPU(c, m, 8+12) // reset NOP's fetch (1 M-cycle) ; LD A,1 (2 M-cycles) ; LDH (0x50),A up to its write (2 M-cycles)

	assert.True(t, c.bootOverlayRemoved)
	assert.Equal(t, uint8(0x76), m.Read(0x0000)) // cartridge RAM now visible
}

func TestTimerOverflowReloadsFromTMAAndRequestsInterrupt(t *testing.T) {
	c, m, _ := newTestSystem(t)
	c.IO.Write(ioregs.TAC, 0x05) // enabled, divide-by-4
	c.IO.Write(ioregs.TMA, 0x10)
	c.IO.Write(ioregs.TIMA, 0xFF)

	// SYSCLCK advances once per 4 T-cycles; with TAC's low bits selecting
	// the /4 period, 4 SYSCLCK ticks (16 T-cycles) land on the next multiple.
	TickCPU(c, m, 16)
	assert.Equal(t, uint8(0x10), c.IO.Read(ioregs.TIMA))
	assert.NotZero(t, c.IO.Read(ioregs.IF)&ioregs.IntTimer)
}

func TestWritingDIVResetsDivider(t *testing.T) {
	c, m, ram := newTestSystem(t)
	// idle NOPs (zeroed RAM) just let the timer free-run
	TickCPU(c, m, 4*4*64)
	assert.NotZero(t, c.IO.Read(ioregs.DIV))

	pc := c.Regs.Load16(regs.PC)
	loadProgram(ram, pc, 0xE0, 0x05) // LDH (0xFF05),A — any write resets DIV, regardless of A
	TickCPU(c, m, 12) // the in-flight NOP fetches LDH, then its read and write cycles
	assert.Equal(t, uint8(0), c.IO.Read(ioregs.DIV))
}
