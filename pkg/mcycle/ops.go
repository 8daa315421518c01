package mcycle

import "dmgcore/pkg/regs"

// AluOp values, mirrored from alu.Op in the same iota order so a mcycle.AluOp
// can be cast directly to alu.Op by the decoder that consumes these tables.
const (
	opAdd AluOp = iota
	opAdc
	opSub
	opCp
	opSbc
	opAnd
	opXor
	opOr
	opInc
	opDec
	opRl
	opRr
	opRlc
	opRrc
	opSla
	opSra
	opSrl
	opSwap
	opBit
	opRes
	opSet
	opDa
	opScf
	opCcf
	opCpl
	opAddKeepZ
	opAdcKeepZ
	opAdjust
	opNop
)

const (
	iduInc IduOp = iota
	iduDec
	iduAdjust
	iduNop
)

// reg8ByIndex maps the 3-bit register field used throughout the opcode map
// (bits 2-0, or bits 5-3 for an ALU-dest encoding) to a register half.
// Index 6 is "(HL)" and is never used to index this array directly — every
// builder checks for 6 first and emits a real memory access instead.
var reg8ByIndex = [8]regs.Reg8{regs.B, regs.C, regs.D, regs.E, regs.H, regs.L, regs.NoReg8, regs.A}

// wideByIndex maps the 2-bit wide-register field (bits 5-4) to a pair, for
// the LD rr,nn / INC rr / DEC rr / ADD HL,rr families.
var wideByIndex = [4]regs.Reg16{regs.BC, regs.DE, regs.HL, regs.SP}

// halves returns (high, low) Reg8 for the four pairs that have ordinary
// register halves (BC, DE, HL, AF). SP and WZ use their dedicated
// SPHi/SPLo/W/Z identifiers directly and don't go through this table.
func halves(pair regs.Reg16) (hi, lo regs.Reg8) {
	switch pair {
	case regs.BC:
		return regs.B, regs.C
	case regs.DE:
		return regs.D, regs.E
	case regs.HL:
		return regs.H, regs.L
	case regs.AF:
		return regs.A, regs.F
	default:
		return regs.NoReg8, regs.NoReg8
	}
}

// rotateOpByIndex maps the CB group-0 sub-opcode (bits 5-3) to its ALU op.
var rotateOpByIndex = [8]AluOp{opRlc, opRrc, opRl, opRr, opSla, opSra, opSwap, opSrl}
var rotateNameByIndex = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

// aluOpByIndex maps the quadrant-2/3 ALU sub-opcode (bits 5-3) to its op.
var aluOpByIndex = [8]AluOp{opAdd, opAdc, opSub, opSbc, opAnd, opXor, opOr, opCp}
var aluNameByIndex = [8]string{"ADD", "ADC", "SUB", "SBC", "AND", "XOR", "OR", "CP"}

// seq assembles an Instruction from a hand-written list of "real" cycles,
// applying the fetch-fusion convention used throughout these tables: the
// final cycle must leave MemOp vacant so it can fall through to
// FETCH_MCYCLE. If the caller's last cycle already performs a real memory
// access, seq appends a fully vacant trailing cycle to carry the fusion
// instead, so IR is always refreshed exactly once per instruction.
func seq(cycles ...MCycle) Instruction {
	if len(cycles) == 0 {
		cycles = []MCycle{{}}
	}
	last := &cycles[len(cycles)-1]
	if last.Mem.Active {
		cycles = append(cycles, MCycle{MiscBits: MiscLastCycle})
	} else {
		last.MiscBits |= MiscLastCycle
	}
	var inst Instruction
	inst.Count = uint8(len(cycles))
	copy(inst.Cycles[:], cycles)
	return inst
}

// readPC reads the byte at PC into dest and advances PC, the shared shape
// used by every immediate-operand fetch.
func readPC(dest regs.Reg8) MCycle {
	return MCycle{
		Mem: MemOp{Active: true, Data: dest, Addr: regs.PC},
		Idu: IduInfo{Active: true, Op: iduInc, Src: regs.PC, Dest: regs.PC},
	}
}

// Signed-displacement adds (JR e8, JR cc,e8, ADD SP,e8, LD HL,SP+e8) split
// across two cycles: an 8-bit ALU add of the displacement into a pair's low
// byte, then an IDU Adjust of the high byte. The ALU add's carry-out and the
// displacement's sign bit (latched the moment it's read into Z) don't live
// in any addressable register between those two cycles — the decoder carries
// them in a transient, per-instruction opflags value (alu.OpflagHasCarry /
// alu.OpflagSignBitHigh). Every ALU cycle latches its carry-out there; a
// MiscALUKeepFlags cycle (JR) additionally leaves F itself untouched.
