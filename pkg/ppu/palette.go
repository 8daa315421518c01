package ppu

import "dmgcore/pkg/ioregs"

// applyPalette maps a 2-bit tile color index through a DMG palette register
// (BGP/OBP0/OBP1), each of which packs four 2-bit shade values.
func applyPalette(io *ioregs.Block, reg uint8, colorIndex uint8) uint8 {
	pal := io.Read(reg)
	return (pal >> (colorIndex * 2)) & 0x03
}

// resolvePixel composites the background and sprite pixels popped this dot
// into the final 2-bit shade handed to the pixel callback (§6: the core
// resolves BGP/OBP, the host maps the resulting shade to a display color).
func resolvePixel(io *ioregs.Block, bgColor uint8, bgWindowEnabled bool, hasSprite bool, sprColor uint8, sprPriorityOverBG bool, sprPalette uint8) uint8 {
	if !bgWindowEnabled {
		bgColor = 0
	}
	if hasSprite && sprColor != 0 && (sprPriorityOverBG || bgColor == 0) {
		reg := uint8(ioregs.OBP0)
		if sprPalette != 0 {
			reg = ioregs.OBP1
		}
		return applyPalette(io, reg, sprColor)
	}
	return applyPalette(io, ioregs.BGP, bgColor)
}
