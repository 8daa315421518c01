// Package cartridge implements Game Boy cartridge ROM loading and the
// handful of memory bank controllers (MBCs) described for completeness by
// §4.6: the MMU itself knows nothing about cartridges, it only exposes the
// map/unmap calls and the last-address/last-data/last-rw latches a mapper
// needs to react to a write that landed in ROM space.
package cartridge

import "dmgcore/pkg/mmu"

// Mapper is the interface a cartridge's bank controller presents to the
// host loop driving the core. Unlike the MMU, CPU, and PPU, nothing in
// pkg/system calls into a Mapper on every tick: the host calls
// HandleROMWrite only when it observes (via m.LastAddr/m.LastRW) that the
// just-completed MMU write landed in 0x0000-0x7FFF, matching §4.6's "on
// any MMU write whose address falls in ROM space" trigger.
type Mapper interface {
	// MapInto installs the mapper's initial bank selection (ROM bank 0,
	// the current switchable bank, and external RAM if present) into m.
	MapInto(m *mmu.MMU)

	// HandleROMWrite updates the mapper's bank-select state for a write
	// observed at addr (which the caller has already confirmed fell in
	// 0x0000-0x7FFF) and remaps m's switchable-bank and external-RAM
	// segments (0x4000-0x7FFF, 0xA000-0xBFFF) to match.
	HandleROMWrite(m *mmu.MMU, addr uint16, value uint8)
}
