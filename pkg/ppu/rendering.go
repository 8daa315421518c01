package ppu

import "dmgcore/pkg/ioregs"

// stepFetcher advances the background/window fetcher by one dot. Each of
// the first three stages takes 2 dots; the fetcher stalls at PushToFIFO
// (and everywhere else) whenever the background FIFO still holds pixels
// from the previous tile, the same back-pressure FetchTileNumber's
// re-entry would see on real hardware.
func (p *PPU) stepFetcher(io *ioregs.Block, lc lcdc) {
	if !p.bg.empty() {
		return
	}

	switch p.fetch.stage {
	case stageTileNumber:
		p.fetch.subDot++
		if p.fetch.subDot >= 2 {
			p.fetch.subDot = 0
			p.fetch.tileIndex = p.fetchTileNumber(io, lc)
			p.fetch.stage = stageDataLow
		}
	case stageDataLow:
		p.fetch.subDot++
		if p.fetch.subDot >= 2 {
			p.fetch.subDot = 0
			p.fetch.dataLo = p.fetchTileData(io, lc, p.fetch.tileIndex, false)
			p.fetch.stage = stageDataHigh
		}
	case stageDataHigh:
		p.fetch.subDot++
		if p.fetch.subDot >= 2 {
			p.fetch.subDot = 0
			p.fetch.dataHi = p.fetchTileData(io, lc, p.fetch.tileIndex, true)
			p.fetch.stage = stagePush
		}
	case stagePush:
		p.bg.push8(p.fetch.dataLo, p.fetch.dataHi)
		p.fetch.tileX++
		p.fetch.stage = stageTileNumber
	}
}

// fetchTileNumber reads the tile index byte from the active background or
// window tile map.
func (p *PPU) fetchTileNumber(io *ioregs.Block, lc lcdc) uint8 {
	mapBase := uint16(0x9800)
	var row uint16
	var col uint8

	if p.fetch.windowMode {
		if lc.windowTileMapHigh() {
			mapBase = 0x9C00
		}
		row = uint16(p.windowLineCounter/8) * 32
		col = p.fetch.tileX
	} else {
		if lc.bgTileMapHigh() {
			mapBase = 0x9C00
		}
		y := io.Read(ioregs.SCY) + p.ly
		row = uint16(y/8) * 32
		col = (io.Read(ioregs.SCX)/8 + p.fetch.tileX) & 0x1F
	}

	return p.vramByte(mapBase + row + uint16(col))
}

// fetchTileData reads one byte (low or high bit-plane) of a tile's pixel
// row from the tile data area selected by LCDC.4: unsigned indexing from
// 0x8000, or signed indexing from 0x9000.
func (p *PPU) fetchTileData(io *ioregs.Block, lc lcdc, tileIndex uint8, high bool) uint8 {
	var base, tileNum uint16
	if lc.tileDataUnsigned() {
		base = 0x8000
		tileNum = uint16(tileIndex)
	} else {
		base = 0x9000
		tileNum = uint16(int16(int8(tileIndex)))
	}

	var rowInTile uint8
	if p.fetch.windowMode {
		rowInTile = p.windowLineCounter % 8
	} else {
		rowInTile = (io.Read(ioregs.SCY) + p.ly) % 8
	}

	addr := base + tileNum*16 + uint16(rowInTile)*2
	if high {
		addr++
	}
	return p.vramByte(addr)
}
