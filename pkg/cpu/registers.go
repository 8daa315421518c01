package cpu

import "dmgcore/pkg/regs"

// registerFile holds the seven 16-bit pairs (§3), keyed by regs.Reg16 the
// same way pkg/mcycle's tables name operands — so a decoded M-cycle's
// Src/Dest fields index straight into this array with no translation layer.
type registerFile [regs.NumReg16]uint16

// Load16 returns the current value of a pair.
func (r *registerFile) Load16(pair regs.Reg16) uint16 {
	return r[pair]
}

// Store16 writes a pair.
func (r *registerFile) Store16(pair regs.Reg16, v uint16) {
	r[pair] = v
}

// Load8 reads one addressable half (§4.4 T2_1's operand fetch).
func (r *registerFile) Load8(half regs.Reg8) uint8 {
	switch half {
	case regs.SPHi:
		return uint8(r[regs.SP] >> 8)
	case regs.SPLo:
		return uint8(r[regs.SP])
	case regs.PCHi:
		return uint8(r[regs.PC] >> 8)
	case regs.PCLo:
		return uint8(r[regs.PC])
	}
	pair := r[regs.PairOf(half)]
	if regs.IsHigh(half) {
		return uint8(pair >> 8)
	}
	return uint8(pair)
}

// Store8 writes one addressable half. Writes to F always mask the low
// nibble to zero (§4.4 "flag-register fixup" — F's bits 0-3 are never
// settable, whether the write comes from the ALU or from POP AF/LD A,F
// style indirect writes).
func (r *registerFile) Store8(half regs.Reg8, v uint8) {
	switch half {
	case regs.SPHi:
		r[regs.SP] = uint16(v)<<8 | r[regs.SP]&0xFF
		return
	case regs.SPLo:
		r[regs.SP] = r[regs.SP]&0xFF00 | uint16(v)
		return
	case regs.PCHi:
		r[regs.PC] = uint16(v)<<8 | r[regs.PC]&0xFF
		return
	case regs.PCLo:
		r[regs.PC] = r[regs.PC]&0xFF00 | uint16(v)
		return
	case regs.F:
		v &= 0xF0
	}
	pair := regs.PairOf(half)
	if regs.IsHigh(half) {
		r[pair] = uint16(v)<<8 | r[pair]&0xFF
	} else {
		r[pair] = r[pair]&0xFF00 | uint16(v)
	}
}
