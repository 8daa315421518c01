package cartridge

import "dmgcore/pkg/mmu"

// MBC1 is cartridge type 0x01/0x02/0x03: switchable 16 KB ROM banks and up
// to four 8 KB external RAM banks, selected by writes to four fixed
// address ranges in ROM space rather than the NES MMC1's 5-write serial
// shift register — the Game Boy's MBC1 write protocol just isn't
// that elaborate, so there is no shift register to carry over, only the
// bank-register-on-write shape.
type MBC1 struct {
	rom []byte
	ram []byte

	ramEnabled  bool
	romBank     uint8 // 5 bits, written at 0x2000-0x3FFF; 0 reads back as 1
	ramBank     uint8 // 2 bits, written at 0x4000-0x5FFF
	bankingMode uint8 // 0: ramBank extends the ROM bank; 1: ramBank selects the RAM bank

	romBanks uint8
	ramBanks uint8
}

// NewMBC1 returns an MBC1 wrapping rom (a multiple of 16 KB) and ram (0 to
// four 8 KB banks).
func NewMBC1(rom, ram []byte) *MBC1 {
	return &MBC1{
		rom:      rom,
		ram:      ram,
		romBank:  1,
		romBanks: uint8(len(rom) / 0x4000),
		ramBanks: uint8(len(ram) / 0x2000),
	}
}

func (c *MBC1) MapInto(m *mmu.MMU) {
	m.MapMemoryRegion(0x0000, 0x4000, c.rom[:0x4000], mmu.ReadOnly)
	c.remapROMBank(m)
	c.remapRAMBank(m)
}

func (c *MBC1) HandleROMWrite(m *mmu.MMU, addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		c.ramEnabled = value&0x0F == 0x0A
		c.remapRAMBank(m)
	case addr < 0x4000:
		c.romBank = value & 0x1F
		c.remapROMBank(m)
	case addr < 0x6000:
		c.ramBank = value & 0x03
		c.remapROMBank(m)
		c.remapRAMBank(m)
	default:
		c.bankingMode = value & 0x01
		c.remapROMBank(m)
		c.remapRAMBank(m)
	}
}

// effectiveROMBank applies the "bank 0 reads as bank 1" quirk and, in mode
// 0, folds ramBank's two bits in as the ROM bank's bits 5-6 for carts with
// more than 32 banks.
func (c *MBC1) effectiveROMBank() uint8 {
	bank := c.romBank & 0x1F
	if bank == 0 {
		bank = 1
	}
	if c.bankingMode == 0 {
		bank |= (c.ramBank & 0x03) << 5
	}
	if c.romBanks > 0 && bank >= c.romBanks {
		bank %= c.romBanks
	}
	return bank
}

func (c *MBC1) remapROMBank(m *mmu.MMU) {
	bank := c.effectiveROMBank()
	off := int(bank) * 0x4000
	m.MapMemoryRegion(0x4000, 0x4000, c.rom[off:off+0x4000], mmu.ReadOnly)
}

func (c *MBC1) remapRAMBank(m *mmu.MMU) {
	if !c.ramEnabled || c.ramBanks == 0 {
		m.UnmapMemoryRegion(0xA000, 0x2000)
		return
	}
	bank := uint8(0)
	if c.bankingMode == 1 {
		bank = c.ramBank & 0x03
	}
	if bank >= c.ramBanks {
		bank = 0
	}
	off := int(bank) * 0x2000
	m.MapMemoryRegion(0xA000, 0x2000, c.ram[off:off+0x2000], 0)
}
