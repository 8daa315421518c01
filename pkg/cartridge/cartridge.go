package cartridge

import (
	"fmt"
	"os"
	"strings"

	"dmgcore/pkg/mmu"
)

const (
	headerSize  = 0x0150
	titleStart  = 0x0134
	titleEnd    = 0x0144
	cartTypeOff = 0x0147
	romSizeOff  = 0x0148
	ramSizeOff  = 0x0149
)

// Cartridge is a loaded Game Boy ROM image plus whatever external RAM its
// header declares, bound to an MMU through its Mapper (§4.6).
type Cartridge struct {
	Title      string
	mapper     Mapper
	cartType   uint8
	hasBattery bool
}

// LoadFromFile reads filename and parses it as a Game Boy ROM image,
// read-then-parse the way andrewthecodertx-go-nes-emulator's cartridge
// loader does.
func LoadFromFile(filename string) (*Cartridge, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a Game Boy ROM image from a byte slice.
func LoadFromBytes(data []byte) (*Cartridge, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("file too small to contain a cartridge header")
	}

	header := parseHeader(data)
	romSize := 0x8000 << header.romSizeCode
	if len(data) < romSize {
		return nil, fmt.Errorf("file too small for declared ROM size: want %d bytes, got %d", romSize, len(data))
	}
	rom := data[:romSize]

	var ram []byte
	if header.ramSizeBytes > 0 {
		ram = make([]byte, header.ramSizeBytes)
	}

	mapper, err := createMapper(header.cartType, rom, ram)
	if err != nil {
		return nil, err
	}

	return &Cartridge{
		Title:      header.title,
		mapper:     mapper,
		cartType:   header.cartType,
		hasBattery: header.hasBattery,
	}, nil
}

// cartHeader is the parsed subset of the 0x0100-0x014F cartridge header.
type cartHeader struct {
	title        string
	cartType     uint8
	romSizeCode  uint8
	ramSizeBytes int
	hasBattery   bool
}

// parseHeader extracts the fields this core's mapper support needs from the
// cartridge header. Logo/checksum verification is left to tooling outside
// the core, matching §1's "ROM file I/O" being an external collaborator.
func parseHeader(data []byte) cartHeader {
	title := strings.TrimRight(string(data[titleStart:titleEnd]), "\x00")
	cartType := data[cartTypeOff]

	ramSizes := map[uint8]int{
		0x00: 0,
		0x01: 2 * 1024,
		0x02: 8 * 1024,
		0x03: 32 * 1024,
		0x04: 128 * 1024,
		0x05: 64 * 1024,
	}

	return cartHeader{
		title:        title,
		cartType:     cartType,
		romSizeCode:  data[romSizeOff],
		ramSizeBytes: ramSizes[data[ramSizeOff]],
		hasBattery:   cartType == 0x03 || cartType == 0x09,
	}
}

// createMapper instantiates the mapper for the given cartridge type byte.
// Only the two simplest real MBC chips are supported (§4.6, "described for
// completeness"); any other type is rejected rather than silently treated
// as ROM-only.
func createMapper(cartType uint8, rom, ram []byte) (Mapper, error) {
	switch cartType {
	case 0x00:
		return NewNoMBC(rom, nil), nil
	case 0x08, 0x09:
		return NewNoMBC(rom, ram), nil
	case 0x01:
		return NewMBC1(rom, nil), nil
	case 0x02, 0x03:
		return NewMBC1(rom, ram), nil
	default:
		return nil, fmt.Errorf("unsupported cartridge type: 0x%02X", cartType)
	}
}

// MapInto installs the cartridge's initial bank selection into m.
func (c *Cartridge) MapInto(m *mmu.MMU) {
	c.mapper.MapInto(m)
}

// ObserveWrite forwards addr/value to the mapper if addr fell in ROM space
// (§4.6), for the host loop to call after every MMU write with the MMU's
// own last-address/last-rw latches. Writes outside 0x0000-0x7FFF are not
// the cartridge's concern and are ignored.
func (c *Cartridge) ObserveWrite(m *mmu.MMU, addr uint16, value uint8) {
	if addr >= 0x8000 {
		return
	}
	c.mapper.HandleROMWrite(m, addr, value)
}

// HasBattery reports whether the cartridge's external RAM is battery-backed.
func (c *Cartridge) HasBattery() bool {
	return c.hasBattery
}

// CartType returns the raw cartridge type byte from the header.
func (c *Cartridge) CartType() uint8 {
	return c.cartType
}
