package mcycle

import "dmgcore/pkg/regs"

// buildQuadrant1 fills 0x40-0x7F: LD r,r' for every (dst,src) pair, with
// (HL) standing in for a real memory access on either side, and 0x76 (which
// would otherwise be "LD (HL),(HL)") reserved for HALT.
func buildQuadrant1() {
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		dstIdx := (opcode >> 3) & 0x7
		srcIdx := opcode & 0x7

		if dstIdx == 6 && srcIdx == 6 {
			defaultTable[opcode] = seq(MCycle{MiscBits: MiscHalt})
			defaultNames[opcode] = "HALT"
			continue
		}

		switch {
		case dstIdx == 6:
			src := reg8ByIndex[srcIdx]
			defaultTable[opcode] = seq(MCycle{Mem: MemOp{Active: true, Write: true, Data: src, Addr: regs.HL}})
			defaultNames[opcode] = "LD (HL)," + src.String()

		case srcIdx == 6:
			dst := reg8ByIndex[dstIdx]
			defaultTable[opcode] = seq(MCycle{Mem: MemOp{Active: true, Data: dst, Addr: regs.HL}})
			defaultNames[opcode] = "LD " + dst.String() + ",(HL)"

		default:
			dst, src := reg8ByIndex[dstIdx], reg8ByIndex[srcIdx]
			defaultTable[opcode] = seq(MCycle{Alu: AluInfo{Active: true, Op: opNop, SrcB: src, Dest: dst}})
			defaultNames[opcode] = "LD " + dst.String() + "," + src.String()
		}
	}
}
