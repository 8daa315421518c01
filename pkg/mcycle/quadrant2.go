package mcycle

import "dmgcore/pkg/regs"

// buildQuadrant2 fills 0x80-0xBF: ALU A,r for the eight operations
// Add/Adc/Sub/Sbc/And/Xor/Or/Cp, with (HL) routed through the Z temp.
func buildQuadrant2() {
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		aluIdx := (opcode >> 3) & 0x7
		srcIdx := opcode & 0x7
		op := aluOpByIndex[aluIdx]
		name := aluNameByIndex[aluIdx]

		if srcIdx == 6 {
			defaultTable[opcode] = seq(
				MCycle{Mem: MemOp{Active: true, Data: regs.Z, Addr: regs.HL}},
				MCycle{Alu: AluInfo{Active: true, Op: op, SrcA: regs.A, SrcB: regs.Z, Dest: regs.A}},
			)
			defaultNames[opcode] = name + " A,(HL)"
			continue
		}

		src := reg8ByIndex[srcIdx]
		defaultTable[opcode] = seq(MCycle{Alu: AluInfo{Active: true, Op: op, SrcA: regs.A, SrcB: src, Dest: regs.A}})
		defaultNames[opcode] = name + " A," + src.String()
	}
}
