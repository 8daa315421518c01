// Package system wires the CPU, MMU, PPU, and cartridge together into a
// runnable core (§6), the way andrewthecodertx-go-nes-emulator's pkg/nes
// binds its 6502 CPU, bus, PPU, and cartridge into one struct the host
// drives one step at a time. Nothing here is NES-specific: WRAM, VRAM, and
// OAM are host-owned buffers mapped into the MMU exactly as §6's external
// interfaces describe, and the per-T-cycle ordering follows §5 verbatim —
// CPU sub-ticks and its own MMU traffic first, then the PPU and OAM DMA,
// ticked once per T-cycle from here rather than from inside TickCPU.
package system

import (
	"dmgcore/pkg/cartridge"
	"dmgcore/pkg/cpu"
	"dmgcore/pkg/ioregs"
	"dmgcore/pkg/mmu"
	"dmgcore/pkg/ppu"
)

// Fixed memory regions this package owns the backing storage for (§3, §6).
// ROM, external cartridge RAM, and the peripheral I/O block are mapped by
// the cartridge and the CPU respectively.
const (
	wramBase, wramSize = 0xC000, 0x2000
	echoBase, echoSize = 0xE000, 0x1E00 // mirrors wram (§8 scenario 4)
	vramBase, vramSize = 0x8000, 0x2000
	oamBase, oamSize   = 0xFE00, 0x100
)

// System is the assembled core plus the host-owned buffers the external
// interfaces (§6) require: WRAM (not named as a collaborator buffer in §6,
// but needed somewhere to back 0xC000-0xDFFF), VRAM, and OAM.
type System struct {
	CPU  *cpu.CPU
	MMU  *mmu.MMU
	PPU  *ppu.PPU
	Cart *cartridge.Cartridge

	wram []byte
	vram []byte
	oam  []byte

	TCycles uint64
}

// New allocates a System with a fresh CPU, MMU, PPU, and the host-owned
// WRAM/VRAM/OAM buffers. Boot must be called before ticking it, matching
// andrewthecodertx-go-nes-emulator's New-then-Reset split in pkg/nes.
func New() *System {
	return &System{
		CPU:  cpu.New(),
		MMU:  mmu.New(),
		PPU:  &ppu.PPU{},
		wram: make([]byte, wramSize),
		vram: make([]byte, vramSize),
		oam:  make([]byte, oamSize),
	}
}

// Boot resets the CPU and PPU (§6's BootCPU/BootPPU), installs cart's
// initial bank selection if cart is non-nil, and maps WRAM, its echo, VRAM,
// OAM, and the peripheral I/O block into the MMU. If bootROM is non-empty
// it is loaded and overlaid at 0x0000-0x00FF (redirected) until the CPU's
// first non-zero write to BOOT_CTRL; an empty bootROM bypasses the overlay
// entirely (initBootCtrl=1), matching §6's BootCPU default-argument note.
func Boot(s *System, cart *cartridge.Cartridge, bootROM []byte, initSP, initPC uint16, pixelWriteFn func(userData any, color uint8), userData any) {
	s.Cart = cart
	s.TCycles = 0

	var initBootCtrl uint8
	if len(bootROM) == 0 {
		initBootCtrl = 1
	}
	cpu.BootCPU(s.CPU, bootROM, initSP, initPC, initBootCtrl)
	ppu.BootPPU(s.PPU, s.vram, s.oam, pixelWriteFn, userData)

	s.MMU.MapMemoryRegion(wramBase, wramSize, s.wram, 0)
	s.MMU.MapMemoryRegion(echoBase, echoSize, s.wram, 0)
	s.MMU.MapMemoryRegion(vramBase, vramSize, s.vram, 0)
	s.MMU.MapMemoryRegion(oamBase, oamSize, s.oam, 0)
	cpu.MapPeripheralIOMemory(s.CPU, s.MMU)

	if cart != nil {
		cart.MapInto(s.MMU)
	}
	if len(bootROM) > 0 {
		s.MMU.RedirectZeroSegment(s.CPU.BootROM())
	}
}

// TickT advances the whole system by exactly one T-cycle: the CPU (and its
// timer), then the cartridge's view of any ROM-space write the CPU just
// made, then the PPU and its OAM DMA engine — §5's fixed intra-T-cycle
// ordering.
func TickT(s *System) {
	cpu.TickCPU(s.CPU, s.MMU, 1)

	if s.Cart != nil && s.MMU.LastRW == mmu.Write && s.MMU.LastAddr < 0x8000 {
		s.Cart.ObserveWrite(s.MMU, s.MMU.LastAddr, s.MMU.LastData)
	}

	ppu.TickPPU(s.PPU, s.MMU, s.CPU.IO)
	s.TCycles++
}

// TickTN advances the system by n T-cycles, calling TickT n times — a
// convenience for host loops that think in batches (§8 scenario 1's "1000
// T-cycle batches of 4") without ever ticking the PPU less than once per
// T-cycle, the one ordering rule TickCPU's own nTCycles parameter cannot be
// used to satisfy on its own.
func TickTN(s *System, n int) {
	for i := 0; i < n; i++ {
		TickT(s)
	}
}

// RunFrame ticks the system until LY has wrapped from 153 back to 0, i.e.
// one full frame (154 scanlines) has been traced through, mirroring
// andrewthecodertx-go-nes-emulator's RunFrame loop against IsFrameComplete.
func RunFrame(s *System) {
	prevLY := s.CPU.IO.Read(ioregs.LY)
	for {
		TickT(s)
		ly := s.CPU.IO.Read(ioregs.LY)
		if prevLY == 153 && ly == 0 {
			return
		}
		prevLY = ly
	}
}
