package ppu

// examineOAMEntry inspects one of the 40 OAM entries during ObjectFetch,
// accepting it into this scanline's sprite list (up to 10) if its vertical
// extent covers the current line — the same scan-then-accept shape as
// andrewthecodertx-go-nes-emulator's spriteEvaluation, generalized from the
// NES's 64-sprite/8-per-line secondary OAM to the Game Boy's
// 40-sprite/10-per-line model and
// without a secondary OAM buffer, since the accepted list is consumed
// directly by the fetcher later in the same scanline.
func (p *PPU) examineOAMEntry(i uint8, lc lcdc) {
	if len(p.scanlineSprites) >= 10 {
		return
	}

	base := int(i) * 4
	y := p.oam[base]
	x := p.oam[base+1]
	tile := p.oam[base+2]
	attr := p.oam[base+3]

	height := 8
	if lc.objSize16() {
		height = 16
	}

	top := int(y)
	line := int(p.ly) + 16
	if line >= top && line < top+height {
		p.scanlineSprites = append(p.scanlineSprites, spriteEntry{i, y, x, tile, attr})
	}
}

// fetchAndMergeSprite reads a sprite's tile row out of VRAM and merges it
// into the sprite FIFO at the current pixel column, applying Y flip, X
// flip, and (for 8x16 sprites) tile-pair selection.
func (p *PPU) fetchAndMergeSprite(s spriteEntry, lc lcdc) {
	height := uint16(8)
	if lc.objSize16() {
		height = 16
	}

	row := uint16(p.ly) + 16 - uint16(s.y)
	if s.attr&0x40 != 0 { // Y flip
		row = height - 1 - row
	}

	tile := s.tile
	if lc.objSize16() {
		tile &^= 1
		if row >= 8 {
			tile |= 1
			row -= 8
		}
	}

	addr := 0x8000 + uint16(tile)*16 + row*2
	lo := p.vramByte(addr)
	hi := p.vramByte(addr + 1)
	if s.attr&0x20 != 0 { // X flip
		lo, hi = reverseByte(lo), reverseByte(hi)
	}

	skip := uint8(0)
	if s.x < 8 {
		skip = 8 - s.x
	}

	priorityOverBG := s.attr&0x80 == 0
	paletteSelect := (s.attr >> 4) & 1
	p.spr.mergeSprite(lo, hi, priorityOverBG, paletteSelect, skip)
}

// reverseByte reverses the bits in a byte, for horizontally flipped sprite
// tile rows.
func reverseByte(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
