// Package ppu implements the Game Boy Picture Processing Unit (§4.5): a
// per-scanline mode state machine (ObjectFetch, PixelFetch, HBlank, VBlank)
// driving a background/window tile fetcher and a cooperative sprite
// fetcher, both feeding a pair of pixel FIFOs that are composited and
// handed to the host one pixel at a time.
//
// Ticked once per T-cycle (one dot) by the host driver, after the CPU's own
// tick, matching §5's ordering contract: the PPU and OAM DMA engine are not
// driven from inside TickCPU.
package ppu

import (
	"sort"

	"dmgcore/pkg/ioregs"
	"dmgcore/pkg/mmu"
)

// Mode mirrors STAT's 2-bit mode field.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeObjectFetch
	ModePixelFetch
)

const dotsPerScanline = 456

// spriteEntry is one OAM entry accepted for the current scanline during
// ObjectFetch.
type spriteEntry struct {
	oamIndex         uint8
	y, x, tile, attr uint8
}

// fetchState is the 4-stage background/window tile fetcher (§4.5):
// FetchTileNumber, FetchTileDataLow, FetchTileDataHigh, PushToFIFO.
type fetchState struct {
	stage      uint8
	subDot     uint8
	tileX      uint8
	tileIndex  uint8
	dataLo     uint8
	dataHi     uint8
	windowMode bool
}

const (
	stageTileNumber uint8 = iota
	stageDataLow
	stageDataHigh
	stagePush
)

// PPU is the Game Boy graphics processor. VRAM and OAM are host-owned
// buffers bound at BootPPU, not copied in: the PPU reads/writes them
// directly, and OAM DMA writes straight into the same backing array the
// host mapped into the MMU at 0xFE00.
type PPU struct {
	vram []byte
	oam  []byte

	pixelWrite func(userData any, color uint8)
	userData   any

	mode       Mode
	dot        uint16
	ly         uint8
	wasEnabled bool

	windowLineCounter       uint8
	windowTriggeredThisLine bool

	scanlineSprites []spriteEntry
	spriteQueue     []spriteEntry

	fetch        fetchState
	bg, spr      pixelFIFO
	xPos         uint8
	discardCount uint8

	dmaActive     bool
	dmaSrcHigh    uint8
	dmaByteIdx    uint16
	dmaDotCounter uint8
}

// BootPPU resets the PPU and binds its VRAM/OAM buffers and pixel callback
// (§6). vram must be 8 KiB ($8000-$9FFF), oam 256 bytes ($FE00-$FEFF, only
// the first 160 used). pixelWriteFn is called once per emitted pixel with
// a 2-bit shade already resolved through BGP/OBP0/OBP1 — the host owns the
// mapping from shade to an actual display color.
func BootPPU(p *PPU, vram []byte, oam []byte, pixelWriteFn func(userData any, color uint8), userData any) {
	*p = PPU{
		vram:       vram,
		oam:        oam,
		pixelWrite: pixelWriteFn,
		userData:   userData,
		mode:       ModeHBlank,
	}
}

// TickPPU advances the PPU and the OAM DMA engine by one T-cycle (one dot).
func TickPPU(p *PPU, m *mmu.MMU, io *ioregs.Block) {
	p.tickDMA(m, io)

	lc := lcdc{io}
	if !lc.enabled() {
		p.wasEnabled = false
		p.dot = 0
		p.ly = 0
		io.Write(ioregs.LY, 0)
		p.mode = ModeHBlank
		stat{io}.setMode(0)
		p.refreshOAMLock(m)
		p.refreshVRAMLock(m)
		return
	}
	if !p.wasEnabled {
		p.wasEnabled = true
		p.dot = 0
		p.ly = 0
		io.Write(ioregs.LY, 0)
		p.windowLineCounter = 0
		p.mode = ModeObjectFetch
		stat{io}.setMode(2)
		p.refreshOAMLock(m)
		p.refreshVRAMLock(m)
	}

	switch p.mode {
	case ModeObjectFetch:
		p.tickObjectFetch(m, io, lc)
	case ModePixelFetch:
		p.tickPixelFetch(m, io, lc)
	case ModeHBlank, ModeVBlank:
		p.tickIdleDot(m, io)
	}
}

func (p *PPU) tickObjectFetch(m *mmu.MMU, io *ioregs.Block, lc lcdc) {
	if p.dot == 0 {
		p.scanlineSprites = p.scanlineSprites[:0]
	}
	if p.dot%2 == 0 {
		idx := p.dot / 2
		if idx < 40 {
			p.examineOAMEntry(uint8(idx), lc)
		}
	}
	p.dot++
	if p.dot == 80 {
		p.mode = ModePixelFetch
		stat{io}.setMode(3)
		p.refreshOAMLock(m)
		p.refreshVRAMLock(m)
		p.beginPixelFetch(io)
	}
}

func (p *PPU) tickIdleDot(m *mmu.MMU, io *ioregs.Block) {
	p.dot++
	if p.dot == dotsPerScanline {
		p.advanceScanline(m, io)
	}
}

func (p *PPU) beginPixelFetch(io *ioregs.Block) {
	p.bg = pixelFIFO{}
	p.spr = pixelFIFO{}
	p.xPos = 0
	p.fetch = fetchState{}
	p.discardCount = io.Read(ioregs.SCX) % 8
	p.windowTriggeredThisLine = false

	p.spriteQueue = append(p.spriteQueue[:0], p.scanlineSprites...)
	sort.Slice(p.spriteQueue, func(a, b int) bool {
		if p.spriteQueue[a].x != p.spriteQueue[b].x {
			return p.spriteQueue[a].x < p.spriteQueue[b].x
		}
		return p.spriteQueue[a].oamIndex < p.spriteQueue[b].oamIndex
	})
}

// tickPixelFetch runs one dot of PixelFetch: window activation check,
// cooperative sprite fetch when due, one fetcher step, and an output pixel
// whenever the background FIFO has one ready. A sprite fetch is merged
// within the same dot and does not delay the pixel.
func (p *PPU) tickPixelFetch(m *mmu.MMU, io *ioregs.Block, lc lcdc) {
	p.dot++

	if lc.windowEnabled() && !p.fetch.windowMode &&
		p.ly >= io.Read(ioregs.WY) && uint16(p.xPos)+7 >= uint16(io.Read(ioregs.WX)) {
		p.fetch = fetchState{windowMode: true}
		p.bg = pixelFIFO{}
		p.windowTriggeredThisLine = true
	}

	for lc.objEnabled() && len(p.spriteQueue) > 0 && p.spriteQueue[0].x <= p.xPos+8 {
		p.fetchAndMergeSprite(p.spriteQueue[0], lc)
		p.spriteQueue = p.spriteQueue[1:]
	}

	p.stepFetcher(io, lc)

	if p.bg.empty() {
		return
	}

	bgColor, _, _ := p.bg.pop()
	hasSprite := !p.spr.empty()
	sprColor, sprPriority, sprPalette := uint8(0), false, uint8(0)
	if hasSprite {
		sprColor, sprPriority, sprPalette = p.spr.pop()
	}

	if p.discardCount > 0 {
		p.discardCount--
		return
	}

	shade := resolvePixel(io, bgColor, lc.bgWindowEnabled(), hasSprite, sprColor, sprPriority, sprPalette)
	p.pixelWrite(p.userData, shade)
	p.xPos++
	if p.xPos == 160 {
		p.mode = ModeHBlank
		stat{io}.setMode(0)
		p.refreshVRAMLock(m)
		if (stat{io}).hblankIntEnabled() {
			requestSTAT(io)
		}
	}
}

func (p *PPU) advanceScanline(m *mmu.MMU, io *ioregs.Block) {
	p.dot = 0
	p.ly++

	if p.windowTriggeredThisLine {
		p.windowLineCounter++
	}

	switch {
	case p.ly == 144:
		p.mode = ModeVBlank
		stat{io}.setMode(1)
		io.Write(ioregs.IF, io.Read(ioregs.IF)|ioregs.IntVBlank)
		if (stat{io}).vblankIntEnabled() {
			requestSTAT(io)
		}
	case p.ly == 154:
		p.ly = 0
		p.windowLineCounter = 0
		p.mode = ModeObjectFetch
		stat{io}.setMode(2)
		p.refreshOAMLock(m)
		if (stat{io}).oamIntEnabled() {
			requestSTAT(io)
		}
	case p.ly < 144:
		p.mode = ModeObjectFetch
		stat{io}.setMode(2)
		p.refreshOAMLock(m)
		if (stat{io}).oamIntEnabled() {
			requestSTAT(io)
		}
	}

	io.Write(ioregs.LY, p.ly)
	coincidence := p.ly == io.Read(ioregs.LYC)
	stat{io}.setCoincidence(coincidence)
	if coincidence && (stat{io}).lycIntEnabled() {
		requestSTAT(io)
	}
}

func (p *PPU) vramByte(addr uint16) uint8 {
	return p.vram[addr-0x8000]
}
