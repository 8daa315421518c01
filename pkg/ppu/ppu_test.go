package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dmgcore/pkg/ioregs"
	"dmgcore/pkg/mmu"
)

// newTestSystem wires a PPU to its own VRAM/OAM buffers plus an MMU and
// peripheral I/O block sized like the real memory map, so DMA source reads
// and register writes behave the way they would wired into a full system.
func newTestSystem(t *testing.T) (*PPU, *mmu.MMU, *ioregs.Block, []byte, []byte, *[]uint8) {
	t.Helper()
	m := mmu.New()
	ram := make([]byte, 0x10000)
	m.MapMemoryRegion(0, 0x10000, ram, 0)

	io := ioregs.New()
	m.MapMemoryRegion(0xFF00, 256, io.Bytes(), 0)

	vram := make([]byte, 0x2000)
	m.MapMemoryRegion(0x8000, 0x2000, vram, 0)
	oam := make([]byte, 256)
	m.MapMemoryRegion(0xFE00, 256, oam, 0)

	p := &PPU{}
	pixels := &[]uint8{}
	BootPPU(p, vram, oam, func(_ any, c uint8) {
		*pixels = append(*pixels, c)
	}, nil)
	return p, m, io, vram, oam, pixels
}

func enableBasicBackground(io *ioregs.Block) {
	io.Write(ioregs.LCDC, 0x91) // LCD on, BG/window on, unsigned tile data
	io.Write(ioregs.SCX, 0)
	io.Write(ioregs.SCY, 0)
	io.Write(ioregs.BGP, 0xE4)
	io.Write(ioregs.LYC, 0xFF)
}

func tickN(p *PPU, m *mmu.MMU, io *ioregs.Block, n int) {
	for i := 0; i < n; i++ {
		TickPPU(p, m, io)
	}
}

func TestLCDOffHoldsLYZeroAndEmitsNoPixels(t *testing.T) {
	p, m, io, _, _, pixels := newTestSystem(t)
	io.Write(ioregs.LCDC, 0x00)

	tickN(p, m, io, 1000)

	assert.Equal(t, uint8(0), io.Read(ioregs.LY))
	assert.Empty(t, *pixels)
	assert.Equal(t, uint8(0), io.Read(ioregs.STAT)&0x03)
}

func TestEnablingLCDStartsAtObjectFetchOnLine0(t *testing.T) {
	p, m, io, _, _, _ := newTestSystem(t)
	enableBasicBackground(io)

	TickPPU(p, m, io)

	assert.Equal(t, uint8(0), io.Read(ioregs.LY))
	assert.Equal(t, uint8(2), io.Read(ioregs.STAT)&0x03) // ObjectFetch
}

func TestScanlineEmitsExactly160PixelsThenAdvances(t *testing.T) {
	p, m, io, vram, _, pixels := newTestSystem(t)
	enableBasicBackground(io)
	vram[0] = 1 // tile map entry at 0x9800: tile #1, so row reads aren't all-zero

	tickN(p, m, io, dotsPerScanline)

	assert.Equal(t, 160, len(*pixels))
	assert.Equal(t, uint8(1), io.Read(ioregs.LY))
}

func TestFullFrameReachesVBlankAndRaisesInterrupt(t *testing.T) {
	p, m, io, _, _, pixels := newTestSystem(t)
	enableBasicBackground(io)
	io.Write(ioregs.IF, 0)

	tickN(p, m, io, dotsPerScanline*144)

	assert.Equal(t, uint8(144), io.Read(ioregs.LY))
	assert.Equal(t, uint8(1), io.Read(ioregs.STAT)&0x03) // VBlank
	assert.NotZero(t, io.Read(ioregs.IF)&ioregs.IntVBlank)
	assert.Equal(t, 144*160, len(*pixels))
}

func TestFrameWrapsBackToLine0After154Lines(t *testing.T) {
	p, m, io, _, _, _ := newTestSystem(t)
	enableBasicBackground(io)

	tickN(p, m, io, dotsPerScanline*154)

	assert.Equal(t, uint8(0), io.Read(ioregs.LY))
	assert.Equal(t, uint8(2), io.Read(ioregs.STAT)&0x03) // back to ObjectFetch
}

func TestLYCCoincidenceSetsSTATBitAndRequestsInterruptWhenEnabled(t *testing.T) {
	p, m, io, _, _, _ := newTestSystem(t)
	enableBasicBackground(io)
	io.Write(ioregs.LYC, 1)
	io.Write(ioregs.STAT, io.Read(ioregs.STAT)|0x40) // select LYC interrupt
	io.Write(ioregs.IF, 0)

	tickN(p, m, io, dotsPerScanline) // advance from line 0 to line 1

	assert.NotZero(t, io.Read(ioregs.STAT)&0x04)
	assert.NotZero(t, io.Read(ioregs.IF)&ioregs.IntSTAT)
}

func TestWindowActivationSwitchesFetcherAndAdvancesWindowLineCounter(t *testing.T) {
	p, m, io, _, _, _ := newTestSystem(t)
	enableBasicBackground(io)
	io.Write(ioregs.LCDC, io.Read(ioregs.LCDC)|0x20) // enable window
	io.Write(ioregs.WY, 0)
	io.Write(ioregs.WX, 7) // window covers the whole line

	tickN(p, m, io, dotsPerScanline)

	assert.Equal(t, uint8(1), p.windowLineCounter)
}

func TestOAMDMACopiesExactly160BytesInExactly640Dots(t *testing.T) {
	oam := make([]byte, 256)
	p := &PPU{}
	BootPPU(p, make([]byte, 0x2000), oam, func(_ any, _ uint8) {}, nil)

	m := mmu.New()
	src := make([]byte, 0x10000)
	m.MapMemoryRegion(0, 0x10000, src, 0)
	io := ioregs.New()
	m.MapMemoryRegion(0xFF00, 256, io.Bytes(), 0)
	for i := 0; i < 160; i++ {
		src[0xC000+i] = byte(i + 1)
	}
	io.Write(ioregs.LCDC, 0x00) // keep the scanline state machine idle

	io.WriteOAMDMA(0xC0)

	tickN(p, m, io, 639)
	assert.Equal(t, byte(0), oam[159], "transfer should not have completed a dot early")

	TickPPU(p, m, io)

	for i := 0; i < 160; i++ {
		assert.Equal(t, byte(i+1), oam[i])
	}
	assert.Equal(t, uint8(0), io.Read(ioregs.OAMDMA))
}

func TestOAMDMALocksVRAMWRAMAndOAMDuringTransferButNotHRAM(t *testing.T) {
	p, m, io, _, _, _ := newTestSystem(t)
	io.Write(ioregs.LCDC, 0x00)
	io.WriteOAMDMA(0x00)

	TickPPU(p, m, io) // arms and runs the first dot of the transfer

	assert.NotZero(t, m.SegmentFlags(0x8000)&mmu.DMALock)
	assert.NotZero(t, m.SegmentFlags(0xC000)&mmu.DMALock)
	assert.NotZero(t, m.SegmentFlags(0xFE00)&mmu.DMALock)
	assert.Zero(t, m.SegmentFlags(0xFF80)&mmu.DMALock)

	tickN(p, m, io, 639)

	assert.Zero(t, m.SegmentFlags(0x8000)&mmu.DMALock)
	assert.Zero(t, m.SegmentFlags(0xFE00)&mmu.DMALock)
}

func TestOAMDMALocksEchoRAMAliasAlongsideBaseWRAM(t *testing.T) {
	m := mmu.New()
	wram := make([]byte, 0x2000)
	m.MapMemoryRegion(0xC000, 0x1E00, wram, 0)
	m.MapMemoryRegion(0xE000, 0x1E00, wram, 0) // echo alias, independent segment flags

	io := ioregs.New()
	m.MapMemoryRegion(0xFF00, 256, io.Bytes(), 0)
	oam := make([]byte, 256)
	p := &PPU{}
	BootPPU(p, make([]byte, 0x2000), oam, func(_ any, _ uint8) {}, nil)
	io.Write(ioregs.LCDC, 0x00)
	io.WriteOAMDMA(0x00)

	TickPPU(p, m, io)

	assert.NotZero(t, m.SegmentFlags(0xE000)&mmu.DMALock)

	tickN(p, m, io, 639)

	assert.Zero(t, m.SegmentFlags(0xE000)&mmu.DMALock)
}

func TestOAMAndVRAMUnmapDuringAccessOnModeTransitions(t *testing.T) {
	p, m, io, _, _, _ := newTestSystem(t)
	enableBasicBackground(io)

	// Freshly enabled: mode 2 (ObjectFetch) starts immediately, OAM locked,
	// VRAM still open to the CPU.
	TickPPU(p, m, io)
	assert.NotZero(t, m.SegmentFlags(0xFE00)&mmu.DMALock, "OAM locked during ObjectFetch")
	assert.Zero(t, m.SegmentFlags(0x8000)&mmu.DMALock, "VRAM open during ObjectFetch")

	tickN(p, m, io, 79)
	assert.Equal(t, ModePixelFetch, p.mode)
	assert.Zero(t, m.SegmentFlags(0xFE00)&mmu.DMALock, "OAM re-mapped once ObjectFetch ends")
	assert.NotZero(t, m.SegmentFlags(0x8000)&mmu.DMALock, "VRAM locked during PixelFetch")

	tickN(p, m, io, dotsPerScanline-80-1) // stop on the line's last dot, still in HBlank
	assert.Equal(t, ModeHBlank, p.mode)
	assert.Zero(t, m.SegmentFlags(0x8000)&mmu.DMALock, "VRAM re-mapped once PixelFetch ends")
	assert.Zero(t, m.SegmentFlags(0xFE00)&mmu.DMALock)
}

func TestCPUAccessBlockedWhileOAMOrVRAMLockedByPPUMode(t *testing.T) {
	p, m, io, _, oam, _ := newTestSystem(t)
	enableBasicBackground(io)

	TickPPU(p, m, io) // enters ObjectFetch: OAM locked, VRAM open
	assert.Equal(t, uint8(0xFF), m.Read(0xFE00), "CPU OAM read blocked during ObjectFetch")
	m.Write(0xFE00, 0x42)
	assert.NotEqual(t, uint8(0x42), oam[0], "CPU OAM write during ObjectFetch dropped")

	tickN(p, m, io, 79)
	assert.Equal(t, ModePixelFetch, p.mode)
	assert.Equal(t, uint8(0xFF), m.Read(0x8000), "CPU VRAM read blocked during PixelFetch")
	assert.Equal(t, uint8(0x00), m.Read(0xFE00), "OAM re-mapped by the time PixelFetch starts")
}

func TestNonPrioritySpriteOverwritesAnAlreadyClaimedPriorityColumn(t *testing.T) {
	p, m, io, vram, oam, pixels := newTestSystem(t)
	enableBasicBackground(io)
	io.Write(ioregs.LCDC, io.Read(ioregs.LCDC)|0x02) // enable sprites
	io.Write(ioregs.OBP0, 0xE4)
	io.Write(ioregs.OBP1, 0xE4)

	// Both sprites cover column 0, at the same X, so the scan order in
	// sprites.go fetches sprite 0 (lower OAM index) first. Sprite 0 is
	// opaque (color index 2) and carries the OBJ-to-BG "priority"
	// attribute (attr bit 7 set); sprite 1 is opaque with a different
	// color index (3) and carries no priority attribute, so it must win
	// column 0 despite losing the fetch race — only a distinguishable
	// color index per sprite can prove which one the FIFO kept.
	oam[0], oam[1], oam[2], oam[3] = 16, 8, 1, 0x80 // priority sprite, tile 1
	oam[4], oam[5], oam[6], oam[7] = 16, 8, 2, 0x00 // non-priority sprite, tile 2

	vram[0x10], vram[0x11] = 0x00, 0x80 // tile 1 row 0 col 0: color index 2
	vram[0x20], vram[0x21] = 0x80, 0x80 // tile 2 row 0 col 0: color index 3

	tickN(p, m, io, dotsPerScanline)

	assert.Equal(t, 160, len(*pixels))
	assert.Equal(t, uint8(3), (*pixels)[0], "non-priority sprite 1 must overwrite priority sprite 0's column")
}

func TestSpritePixelWinsOverTransparentBackground(t *testing.T) {
	p, m, io, vram, oam, pixels := newTestSystem(t)
	enableBasicBackground(io)
	io.Write(ioregs.LCDC, io.Read(ioregs.LCDC)|0x02) // enable sprites
	io.Write(ioregs.OBP0, 0xE4)
	// BG tile 0 (what the tile map points at by default) stays all-zero,
	// i.e. transparent. The sprite uses tile 1 instead, with a fully set
	// low bit-plane row, so its color index 1 is unambiguously its own.

	oam[0] = 16 // Y: sprite top aligned to row 0 of the screen
	oam[1] = 8  // X: sprite left edge aligned to column 0
	oam[2] = 1  // tile 1
	oam[3] = 0  // attrs: palette 0, no flips, priority over BG

	vram[0x10] = 0xFF // tile 1, row 0, low bit-plane: all 1s -> color index 1

	tickN(p, m, io, dotsPerScanline)

	assert.Equal(t, 160, len(*pixels))
	assert.Equal(t, uint8(1), (*pixels)[0])
}
