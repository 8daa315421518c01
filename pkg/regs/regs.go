// Package regs names the SM83 register file so that pkg/mcycle can describe
// M-cycles without importing pkg/cpu, and pkg/cpu can build its register
// file around the same identifiers.
package regs

// Reg16 identifies one of the seven 16-bit register pairs (§3).
type Reg16 uint8

const (
	BC Reg16 = iota
	DE
	HL
	AF
	SP
	PC
	WZ
	NumReg16
	NoReg16 Reg16 = 0xFF
)

var reg16Names = [NumReg16]string{"BC", "DE", "HL", "AF", "SP", "PC", "WZ"}

func (r Reg16) String() string {
	if int(r) < int(NumReg16) {
		return reg16Names[r]
	}
	return "-"
}

// Reg8 identifies one of the fourteen 8-bit register halves. SPHi/SPLo/
// PCHi/PCLo address SP and PC byte-wise for the M-cycles that push, pop or
// add into them; they have no halfOf entry, so PairOf/IsHigh do not
// describe them.
type Reg8 uint8

const (
	B Reg8 = iota
	C
	D
	E
	H
	L
	A
	F
	W
	Z
	SPHi
	SPLo
	PCHi
	PCLo
	NumReg8
	NoReg8 Reg8 = 0xFF
)

var reg8Names = [NumReg8]string{
	"B", "C", "D", "E", "H", "L", "A", "F", "W", "Z", "SPHi", "SPLo", "PCHi", "PCLo",
}

func (r Reg8) String() string {
	if int(r) < int(NumReg8) {
		return reg8Names[r]
	}
	return "-"
}

// halfOf describes which pair a Reg8 belongs to, and whether it is the
// pair's high or low byte. Byte ordering is little-endian within the pair:
// the low byte occupies the lower conceptual address, matching §9's
// "preserve the little-endian packing" note.
type half struct {
	pair Reg16
	hi   bool
}

var halfOf = [NumReg8]half{
	B: {BC, true}, C: {BC, false},
	D: {DE, true}, E: {DE, false},
	H: {HL, true}, L: {HL, false},
	A: {AF, true}, F: {AF, false},
	W: {WZ, true}, Z: {WZ, false},
}

// PairOf returns the 16-bit pair a register half belongs to.
func PairOf(r Reg8) Reg16 {
	return halfOf[r].pair
}

// IsHigh returns true if r is the high byte of its pair.
func IsHigh(r Reg8) bool {
	return halfOf[r].hi
}

// PushPopOrder enumerates the four architectural push/pop register pairs (§9
// Open Question: PUSH/POP is per-pair, not a reused-BC-operand bug).
var PushPopOrder = [4]Reg16{BC, DE, HL, AF}
