package mcycle

import "dmgcore/pkg/regs"

// buildCBTable fills cbTable and cbNames. Every CB opcode decomposes as
// group:bits7-6, sub:bits5-3, reg:bits2-0 — the most regular corner of the
// instruction set, so the whole table is nested loops over those three
// fields with no hand-written exceptions.
func buildCBTable() {
	for opcode := 0; opcode < 256; opcode++ {
		group := (opcode >> 6) & 0x3
		sub := (opcode >> 3) & 0x7
		regIdx := opcode & 0x7

		if regIdx == 6 {
			buildCBIndirect(uint8(opcode), group, sub)
			continue
		}
		reg := reg8ByIndex[regIdx]

		switch group {
		case 0: // rotate/shift/swap on a register
			op := rotateOpByIndex[sub]
			cbTable[opcode] = seq(MCycle{Alu: AluInfo{Active: true, Op: op, SrcB: reg, Dest: reg}})
			cbNames[opcode] = rotateNameByIndex[sub] + " " + reg.String()

		case 1: // BIT n,r
			cbTable[opcode] = seq(MCycle{Alu: AluInfo{Active: true, Op: opBit, SrcB: reg, Dest: reg, Bit: uint8(sub)}})
			cbNames[opcode] = bitName("BIT", sub, reg.String())

		case 2: // RES n,r
			cbTable[opcode] = seq(MCycle{Alu: AluInfo{Active: true, Op: opRes, SrcB: reg, Dest: reg, Bit: uint8(sub)}})
			cbNames[opcode] = bitName("RES", sub, reg.String())

		case 3: // SET n,r
			cbTable[opcode] = seq(MCycle{Alu: AluInfo{Active: true, Op: opSet, SrcB: reg, Dest: reg, Bit: uint8(sub)}})
			cbNames[opcode] = bitName("SET", sub, reg.String())
		}
	}
}

// buildCBIndirect handles the eight opcodes per group operating on (HL):
// they need a real read, an internal compute cycle, and (for everything but
// BIT) a real write back.
func buildCBIndirect(opcode uint8, group, sub int) {
	readHL := MCycle{Mem: MemOp{Active: true, Data: regs.Z, Addr: regs.HL}}

	switch group {
	case 0:
		op := rotateOpByIndex[sub]
		compute := MCycle{Alu: AluInfo{Active: true, Op: op, SrcB: regs.Z, Dest: regs.Z}}
		write := MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.Z, Addr: regs.HL}}
		cbTable[opcode] = seq(readHL, compute, write)
		cbNames[opcode] = rotateNameByIndex[sub] + " (HL)"

	case 1:
		compute := MCycle{Alu: AluInfo{Active: true, Op: opBit, SrcB: regs.Z, Dest: regs.Z, Bit: uint8(sub)}}
		cbTable[opcode] = seq(readHL, compute)
		cbNames[opcode] = bitName("BIT", sub, "(HL)")

	case 2:
		compute := MCycle{Alu: AluInfo{Active: true, Op: opRes, SrcB: regs.Z, Dest: regs.Z, Bit: uint8(sub)}}
		write := MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.Z, Addr: regs.HL}}
		cbTable[opcode] = seq(readHL, compute, write)
		cbNames[opcode] = bitName("RES", sub, "(HL)")

	case 3:
		compute := MCycle{Alu: AluInfo{Active: true, Op: opSet, SrcB: regs.Z, Dest: regs.Z, Bit: uint8(sub)}}
		write := MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.Z, Addr: regs.HL}}
		cbTable[opcode] = seq(readHL, compute, write)
		cbNames[opcode] = bitName("SET", sub, "(HL)")
	}
}

func bitName(mnemonic string, bit int, operand string) string {
	digits := "01234567"
	return mnemonic + " " + digits[bit:bit+1] + "," + operand
}
