package cartridge

import "dmgcore/pkg/mmu"

// NoMBC is cartridge type 0x00/0x08/0x09: a bare 32 KB ROM with no bank
// switching, optionally paired with a single 8 KB external RAM bank.
// Adapted from andrewthecodertx-go-nes-emulator's Mapper0 (NROM), which is
// likewise the no-bank-switching case for its platform.
type NoMBC struct {
	rom []byte
	ram []byte
}

// NewNoMBC returns a NoMBC wrapping rom (exactly 32 KB) and ram (0 or 8 KB).
func NewNoMBC(rom, ram []byte) *NoMBC {
	return &NoMBC{rom: rom, ram: ram}
}

func (c *NoMBC) MapInto(m *mmu.MMU) {
	m.MapMemoryRegion(0x0000, 0x8000, c.rom[:0x8000], mmu.ReadOnly)
	if len(c.ram) > 0 {
		m.MapMemoryRegion(0xA000, 0x2000, c.ram[:0x2000], 0)
	}
}

// HandleROMWrite is a no-op: NoMBC has no registers, so a ROM-space write
// is simply dropped, same as real hardware.
func (c *NoMBC) HandleROMWrite(m *mmu.MMU, addr uint16, value uint8) {}
