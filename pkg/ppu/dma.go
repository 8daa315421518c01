package ppu

import (
	"dmgcore/pkg/ioregs"
	"dmgcore/pkg/mmu"
)

// OAM DMA's locked regions (§4.5): VRAM, WRAM plus its echo, and OAM itself
// go dark to the CPU for the transfer's duration; HRAM stays reachable so
// the canonical "wait for DMA" routine can still run from there.
const (
	dmaVRAMBase, dmaVRAMSize = 0x8000, 0x2000
	dmaWRAMBase, dmaWRAMSize = 0xC000, 0x1E00
	dmaEchoBase, dmaEchoSize = 0xE000, 0x1E00 // the echo alias is a separate segment range, locked independently
	dmaOAMBase, dmaOAMSize   = 0xFE00, 0x100
)

// tickDMA advances the OAM DMA engine by one dot, adapted from
// andrewthecodertx-go-nes-emulator's pkg/bus dmaTransfer state machine:
// CPU-cycle-driven 513/514-cycle page copy there becomes a PPU-dot-driven
// 640-dot copy here, one byte every 4 dots instead of one byte every 2 CPU
// cycles.
func (p *PPU) tickDMA(m *mmu.MMU, io *ioregs.Block) {
	if !p.dmaActive {
		src, ok := io.TakeDMARequest()
		if !ok {
			return
		}
		p.dmaActive = true
		p.dmaSrcHigh = src
		p.dmaByteIdx = 0
		p.dmaDotCounter = 0
		m.SetDMALock(dmaWRAMBase, dmaWRAMSize, true)
		m.SetDMALock(dmaEchoBase, dmaEchoSize, true)
		p.refreshVRAMLock(m)
		p.refreshOAMLock(m)
	}

	p.dmaDotCounter++
	if p.dmaDotCounter < 4 {
		return
	}
	p.dmaDotCounter = 0

	src := (uint16(p.dmaSrcHigh) << 8) + p.dmaByteIdx
	p.oam[p.dmaByteIdx] = m.ReadBypassLock(src)
	p.dmaByteIdx++

	if p.dmaByteIdx == 160 {
		p.dmaActive = false
		m.SetDMALock(dmaWRAMBase, dmaWRAMSize, false)
		m.SetDMALock(dmaEchoBase, dmaEchoSize, false)
		p.refreshVRAMLock(m)
		p.refreshOAMLock(m)
		io.Write(ioregs.OAMDMA, 0)
	}
}

// refreshOAMLock and refreshVRAMLock recompute OAM/VRAM's DMA-lock flag from
// every source that wants the CPU shut out of them: OAM DMA in flight
// (§4.5, this file) and the PPU's own ObjectFetch/PixelFetch modes (§5
// "unmap-during-access ordering", ppu.go). Recomputing from current state
// on every transition, rather than toggling the shared flag bit directly,
// keeps the two sources from undoing each other's lock when one ends while
// the other is still active.
func (p *PPU) refreshOAMLock(m *mmu.MMU) {
	m.SetDMALock(dmaOAMBase, dmaOAMSize, p.dmaActive || p.mode == ModeObjectFetch)
}

func (p *PPU) refreshVRAMLock(m *mmu.MMU) {
	m.SetDMALock(dmaVRAMBase, dmaVRAMSize, p.dmaActive || p.mode == ModePixelFetch)
}
