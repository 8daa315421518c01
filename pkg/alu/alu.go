// Package alu implements the SM83 8-bit ALU and 16-bit IDU as stateless
// transforms. No package-level mutable state: every operation is a pure
// function of its inputs, grounded on the switch-dispatched instruction
// execution in oisee/z80-optimizer's pkg/cpu/exec.go, adapted from the Z80's
// S/Z/5/H/3/V/N/C flag layout down to the SM83's four-flag Z/N/H/C register.
package alu

// Flag bit positions within F. Bits 0-3 are always zero (§3 invariant).
const (
	FlagC uint8 = 1 << 4
	FlagH uint8 = 1 << 5
	FlagN uint8 = 1 << 6
	FlagZ uint8 = 1 << 7
)

// Op identifies an 8-bit ALU operation (§4.1).
type Op uint8

const (
	Add Op = iota
	Adc
	Sub
	Cp
	Sbc
	And
	Xor
	Or
	Inc
	Dec
	Rl
	Rr
	Rlc
	Rrc
	Sla
	Sra
	Srl
	Swap
	Bit
	Res
	Set
	Da
	Scf
	Ccf
	Cpl
	AddKeepZ
	AdcKeepZ
	Adjust
	Nop
)

func setZ(f *uint8, z bool) {
	if z {
		*f |= FlagZ
	} else {
		*f &^= FlagZ
	}
}

func setC(f *uint8, c bool) {
	if c {
		*f |= FlagC
	} else {
		*f &^= FlagC
	}
}

func setH(f *uint8, h bool) {
	if h {
		*f |= FlagH
	} else {
		*f &^= FlagH
	}
}

func setN(f *uint8, n bool) {
	if n {
		*f |= FlagN
	} else {
		*f &^= FlagN
	}
}

// Exec runs op against operands a (the accumulator side of the binary ops)
// and b (the second operand of binary ops, and the sole operand of the
// unary, shift, bit and flag ops, which ignore a). bit selects
// the bit index for Bit/Res/Set (0-7). flagsIn carries the prior F register
// for ops that read C/H/N/Z on input. Returns the result byte and the new F
// register, with bits 0-3 always clear.
func Exec(op Op, flagsIn, a, b, bit uint8) (result, flagsOut uint8) {
	f := flagsIn & 0xF0
	switch op {
	case Add:
		r := uint16(a) + uint16(b)
		setC(&f, r > 0xFF)
		setH(&f, (a&0xF)+(b&0xF) > 0xF)
		setN(&f, false)
		setZ(&f, uint8(r) == 0)
		result = uint8(r)

	case AddKeepZ:
		r := uint16(a) + uint16(b)
		setC(&f, r > 0xFF)
		setH(&f, (a&0xF)+(b&0xF) > 0xF)
		setN(&f, false)
		result = uint8(r)

	case Adc:
		carryIn := uint16(0)
		if flagsIn&FlagC != 0 {
			carryIn = 1
		}
		r := uint16(a) + uint16(b) + carryIn
		setC(&f, r > 0xFF)
		setH(&f, (a&0xF)+(b&0xF)+uint8(carryIn) > 0xF)
		setN(&f, false)
		setZ(&f, uint8(r) == 0)
		result = uint8(r)

	case AdcKeepZ:
		carryIn := uint16(0)
		if flagsIn&FlagC != 0 {
			carryIn = 1
		}
		r := uint16(a) + uint16(b) + carryIn
		setC(&f, r > 0xFF)
		setH(&f, (a&0xF)+(b&0xF)+uint8(carryIn) > 0xF)
		setN(&f, false)
		result = uint8(r)

	case Sub, Cp:
		r := int16(a) - int16(b)
		setC(&f, r < 0)
		setH(&f, int16(a&0xF)-int16(b&0xF) < 0)
		setN(&f, true)
		setZ(&f, uint8(r) == 0)
		result = uint8(r)
		if op == Cp {
			result = a
		}

	case Sbc:
		borrowIn := int16(0)
		if flagsIn&FlagC != 0 {
			borrowIn = 1
		}
		r := int16(a) - int16(b) - borrowIn
		setC(&f, r < 0)
		setH(&f, int16(a&0xF)-int16(b&0xF)-borrowIn < 0)
		setN(&f, true)
		setZ(&f, uint8(r) == 0)
		result = uint8(r)

	case And:
		result = a & b
		setC(&f, false)
		setH(&f, true)
		setN(&f, false)
		setZ(&f, result == 0)

	case Xor:
		result = a ^ b
		setC(&f, false)
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Or:
		result = a | b
		setC(&f, false)
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Inc:
		result = b + 1
		setH(&f, b&0xF == 0xF)
		setN(&f, false)
		setZ(&f, result == 0)

	case Dec:
		result = b - 1
		setH(&f, b&0xF == 0x0)
		setN(&f, true)
		setZ(&f, result == 0)

	case Rl:
		carryIn := uint8(0)
		if flagsIn&FlagC != 0 {
			carryIn = 1
		}
		setC(&f, b&0x80 != 0)
		result = (b << 1) | carryIn
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Rr:
		carryIn := uint8(0)
		if flagsIn&FlagC != 0 {
			carryIn = 0x80
		}
		setC(&f, b&0x01 != 0)
		result = (b >> 1) | carryIn
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Rlc:
		setC(&f, b&0x80 != 0)
		result = (b << 1) | (b >> 7)
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Rrc:
		setC(&f, b&0x01 != 0)
		result = (b >> 1) | (b << 7)
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Sla:
		setC(&f, b&0x80 != 0)
		result = b << 1
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Sra:
		setC(&f, b&0x01 != 0)
		result = (b >> 1) | (b & 0x80)
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Srl:
		setC(&f, b&0x01 != 0)
		result = b >> 1
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Swap:
		result = (b << 4) | (b >> 4)
		setC(&f, false)
		setH(&f, false)
		setN(&f, false)
		setZ(&f, result == 0)

	case Bit:
		result = b
		setH(&f, true)
		setN(&f, false)
		setZ(&f, b&(1<<bit) == 0)

	case Res:
		result = b &^ (1 << bit)

	case Set:
		result = b | (1 << bit)

	case Da:
		result = daa(flagsIn, b, &f)

	case Scf:
		result = b
		setC(&f, true)
		setH(&f, false)
		setN(&f, false)

	case Ccf:
		result = b
		setC(&f, flagsIn&FlagC == 0)
		setH(&f, false)
		setN(&f, false)

	case Cpl:
		result = ^b
		setH(&f, true)
		setN(&f, true)

	case Adjust:
		// handled by the IDU; never reached as an ALU op
		result = b

	case Nop:
		result = b
		return result, flagsIn

	default:
		result = b
	}
	return result, f
}

// daa applies the canonical BCD correction (§4.1).
func daa(flagsIn, b uint8, f *uint8) uint8 {
	result := b
	carry := flagsIn&FlagC != 0
	half := flagsIn&FlagH != 0
	if flagsIn&FlagN == 0 {
		if carry || result > 0x99 {
			result += 0x60
			carry = true
		}
		if half || result&0x0F > 0x09 {
			result += 0x06
		}
	} else {
		if carry {
			result -= 0x60
		}
		if half {
			result -= 0x06
		}
	}
	setC(f, carry)
	setH(f, false)
	setZ(f, result == 0)
	return result
}
