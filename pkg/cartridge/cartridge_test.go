package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgcore/pkg/mmu"
)

// buildROM returns a minimal header-sized-or-larger ROM image with the
// given cartridge type, ROM size code, and RAM size code set at their
// header offsets, and romSize total bytes, each 16KB bank tagged with its
// bank number in byte 0 so bank-switching tests can tell banks apart.
func buildROM(title string, cartType, romSizeCode, ramSizeCode uint8, romSize int) []byte {
	rom := make([]byte, romSize)
	copy(rom[titleStart:titleEnd], title)
	rom[cartTypeOff] = cartType
	rom[romSizeOff] = romSizeCode
	rom[ramSizeOff] = ramSizeCode
	for bank := 0; bank*0x4000 < romSize; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	return rom
}

func TestLoadFromBytesParsesTitleAndRejectsUnknownCartType(t *testing.T) {
	rom := buildROM("TESTGAME", 0x00, 0x00, 0x00, 0x8000)
	c, err := LoadFromBytes(rom)
	require.NoError(t, err)
	assert.Equal(t, "TESTGAME", c.Title)
	assert.False(t, c.HasBattery())

	rom[cartTypeOff] = 0xFF
	_, err = LoadFromBytes(rom)
	assert.Error(t, err)
}

func TestLoadFromBytesRejectsTruncatedROM(t *testing.T) {
	rom := buildROM("SHORT", 0x00, 0x01, 0x00, 0x10000) // declares 64KB
	_, err := LoadFromBytes(rom[:0x8000])               // but only 32KB present
	assert.Error(t, err)
}

func TestNoMBCMapsFlatROMWithNoBankSwitching(t *testing.T) {
	rom := buildROM("FLAT", 0x00, 0x00, 0x00, 0x8000)
	c, err := LoadFromBytes(rom)
	require.NoError(t, err)

	m := mmu.New()
	c.MapInto(m)

	assert.Equal(t, uint8(0), m.Read(0x0000))
	assert.Equal(t, uint8(1), m.Read(0x4000))

	c.ObserveWrite(m, 0x2000, 0x01) // NoMBC has no registers; this is a no-op
	assert.Equal(t, uint8(1), m.Read(0x4000))
}

func TestMBC1SwitchesROMBankOnWrite(t *testing.T) {
	rom := buildROM("BANKS", 0x01, 0x02, 0x00, 0x20000) // 128KB, 8 banks
	c, err := LoadFromBytes(rom)
	require.NoError(t, err)

	m := mmu.New()
	c.MapInto(m)

	assert.Equal(t, uint8(0), m.Read(0x0000)) // fixed bank 0
	assert.Equal(t, uint8(1), m.Read(0x4000)) // default switchable bank 1

	c.ObserveWrite(m, 0x2000, 0x05) // select ROM bank 5
	assert.Equal(t, uint8(5), m.Read(0x4000))

	c.ObserveWrite(m, 0x2000, 0x00) // bank 0 written here reads back as bank 1
	assert.Equal(t, uint8(1), m.Read(0x4000))
}

func TestMBC1RAMEnableGatesExternalRAMAccess(t *testing.T) {
	rom := buildROM("RAMBANK", 0x03, 0x00, 0x02, 0x8000) // MBC1+RAM+BATTERY, 8KB RAM
	c, err := LoadFromBytes(rom)
	require.NoError(t, err)
	assert.True(t, c.HasBattery())

	m := mmu.New()
	c.MapInto(m)

	assert.Equal(t, uint8(0xFF), m.Read(0xA000), "RAM starts disabled")

	c.ObserveWrite(m, 0x0000, 0x0A) // enable RAM
	m.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), m.Read(0xA000))

	c.ObserveWrite(m, 0x0000, 0x00) // disable RAM
	assert.Equal(t, uint8(0xFF), m.Read(0xA000))
}

func TestObserveWriteIgnoresNonROMAddresses(t *testing.T) {
	rom := buildROM("IGNORE", 0x01, 0x00, 0x00, 0x8000)
	c, err := LoadFromBytes(rom)
	require.NoError(t, err)

	m := mmu.New()
	c.MapInto(m)

	c.ObserveWrite(m, 0x8000, 0x05) // VRAM-range address, not ROM space
	assert.Equal(t, uint8(1), m.Read(0x4000), "bank selection must be unaffected")
}
