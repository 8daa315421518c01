package ppu

import "dmgcore/pkg/ioregs"

// lcdc wraps LCDC (0xFF40), named the way
// andrewthecodertx-go-nes-emulator's PPUControl wraps PPUCTRL: a thin
// accessor over a raw byte with named bit getters, except
// LCDC lives in the shared peripheral I/O block rather than PPU-private
// state, since the CPU can read/write it too.
type lcdc struct{ io *ioregs.Block }

func (l lcdc) raw() uint8              { return l.io.Read(ioregs.LCDC) }
func (l lcdc) enabled() bool           { return l.raw()&0x80 != 0 }
func (l lcdc) windowTileMapHigh() bool { return l.raw()&0x40 != 0 }
func (l lcdc) windowEnabled() bool     { return l.raw()&0x20 != 0 }
func (l lcdc) tileDataUnsigned() bool  { return l.raw()&0x10 != 0 }
func (l lcdc) bgTileMapHigh() bool     { return l.raw()&0x08 != 0 }
func (l lcdc) objSize16() bool         { return l.raw()&0x04 != 0 }
func (l lcdc) objEnabled() bool        { return l.raw()&0x02 != 0 }
func (l lcdc) bgWindowEnabled() bool   { return l.raw()&0x01 != 0 }

// stat wraps STAT (0xFF41): mode bits 0-1, LYC coincidence bit 2, and the
// four interrupt-select bits 3-6.
type stat struct{ io *ioregs.Block }

func (s stat) setMode(m uint8) {
	v := s.io.Read(ioregs.STAT)
	v = (v &^ 0x03) | (m & 0x03)
	s.io.Write(ioregs.STAT, v)
}

func (s stat) setCoincidence(eq bool) {
	v := s.io.Read(ioregs.STAT)
	if eq {
		v |= 0x04
	} else {
		v &^= 0x04
	}
	s.io.Write(ioregs.STAT, v)
}

func (s stat) hblankIntEnabled() bool { return s.io.Read(ioregs.STAT)&0x08 != 0 }
func (s stat) vblankIntEnabled() bool { return s.io.Read(ioregs.STAT)&0x10 != 0 }
func (s stat) oamIntEnabled() bool    { return s.io.Read(ioregs.STAT)&0x20 != 0 }
func (s stat) lycIntEnabled() bool    { return s.io.Read(ioregs.STAT)&0x40 != 0 }

func requestSTAT(io *ioregs.Block) {
	io.Write(ioregs.IF, io.Read(ioregs.IF)|ioregs.IntSTAT)
}
