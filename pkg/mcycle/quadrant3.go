package mcycle

import "dmgcore/pkg/regs"

// buildQuadrant3 fills 0xC0-0xFF: conditional and unconditional control
// flow, PUSH/POP, the ALU-A,n8 immediates, RST, and the handful of
// miscellaneous opcodes (DI/EI/PREFIX CB/LDH/LD (C),A family/16-bit SP
// moves), plus the eleven opcodes real hardware leaves undefined.
func buildQuadrant3() {
	buildPushPop()
	buildAluImmediateAndRST()

	defaultTable[0xC0], defaultNames[0xC0] = condRET(MiscCondNZ), "RET NZ"
	defaultTable[0xD0], defaultNames[0xD0] = condRET(MiscCondNC), "RET NC"
	defaultTable[0xC8], defaultNames[0xC8] = condRET(MiscCondZ), "RET Z"
	defaultTable[0xD8], defaultNames[0xD8] = condRET(MiscCondC), "RET C"

	defaultTable[0xC2], defaultNames[0xC2] = condJP(MiscCondNZ), "JP NZ,a16"
	defaultTable[0xD2], defaultNames[0xD2] = condJP(MiscCondNC), "JP NC,a16"
	defaultTable[0xCA], defaultNames[0xCA] = condJP(MiscCondZ), "JP Z,a16"
	defaultTable[0xDA], defaultNames[0xDA] = condJP(MiscCondC), "JP C,a16"

	defaultTable[0xC4], defaultNames[0xC4] = condCALL(MiscCondNZ), "CALL NZ,a16"
	defaultTable[0xD4], defaultNames[0xD4] = condCALL(MiscCondNC), "CALL NC,a16"
	defaultTable[0xCC], defaultNames[0xCC] = condCALL(MiscCondZ), "CALL Z,a16"
	defaultTable[0xDC], defaultNames[0xDC] = condCALL(MiscCondC), "CALL C,a16"

	defaultTable[0xC3], defaultNames[0xC3] = uncondJP(), "JP a16"
	defaultTable[0xCD], defaultNames[0xCD] = uncondCALL(), "CALL a16"
	defaultTable[0xC9], defaultNames[0xC9] = uncondRET(false), "RET"
	defaultTable[0xD9], defaultNames[0xD9] = uncondRET(true), "RETI"

	defaultTable[0xE9] = seq(MCycle{Idu: IduInfo{Active: true, Op: iduNop, Src: regs.HL, Dest: regs.PC}})
	defaultNames[0xE9] = "JP HL"

	defaultTable[0xF9] = seq(MCycle{Idu: IduInfo{Active: true, Op: iduNop, Src: regs.HL, Dest: regs.SP}}, MCycle{})
	defaultNames[0xF9] = "LD SP,HL"

	defaultTable[0xE0] = seq(readPC(regs.Z), MCycle{Mem: MemOp{Active: true, Write: true, Offset: true, Data: regs.A, Addr: regs.WZ}})
	defaultNames[0xE0] = "LDH (a8),A"
	defaultTable[0xF0] = seq(readPC(regs.Z), MCycle{Mem: MemOp{Active: true, Offset: true, Data: regs.A, Addr: regs.WZ}})
	defaultNames[0xF0] = "LDH A,(a8)"

	defaultTable[0xE2] = seq(MCycle{Mem: MemOp{Active: true, Write: true, Offset: true, Data: regs.A, Addr: regs.BC}})
	defaultNames[0xE2] = "LD (C),A"
	defaultTable[0xF2] = seq(MCycle{Mem: MemOp{Active: true, Offset: true, Data: regs.A, Addr: regs.BC}})
	defaultNames[0xF2] = "LD A,(C)"

	defaultTable[0xEA] = seq(readPC(regs.Z), readPC(regs.W), MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.A, Addr: regs.WZ}})
	defaultNames[0xEA] = "LD (a16),A"
	defaultTable[0xFA] = seq(readPC(regs.Z), readPC(regs.W), MCycle{Mem: MemOp{Active: true, Data: regs.A, Addr: regs.WZ}})
	defaultNames[0xFA] = "LD A,(a16)"

	defaultTable[0xF3] = seq(MCycle{MiscBits: MiscDisableInterrupts})
	defaultNames[0xF3] = "DI"
	defaultTable[0xFB] = seq(MCycle{MiscBits: MiscEnableInterrupts})
	defaultNames[0xFB] = "EI"

	defaultTable[0xCB] = seq(MCycle{MiscBits: MiscPrefixCB})
	defaultNames[0xCB] = "PREFIX CB"

	defaultTable[0xE8] = seq(
		MCycle{Mem: MemOp{Active: true, Data: regs.Z, Addr: regs.PC}, Idu: IduInfo{Active: true, Op: iduInc, Src: regs.PC, Dest: regs.PC}},
		MCycle{
			Alu:      AluInfo{Active: true, Op: opAdd, SrcA: regs.SPLo, SrcB: regs.Z, Dest: regs.SPLo},
			MiscBits: MiscALUClearZero,
		},
		MCycle{Idu: IduInfo{Active: true, Op: iduAdjust, Src: regs.SP, Dest: regs.SP}},
		MCycle{},
	)
	defaultNames[0xE8] = "ADD SP,e8"

	defaultTable[0xF8] = seq(
		MCycle{Mem: MemOp{Active: true, Data: regs.Z, Addr: regs.PC}, Idu: IduInfo{Active: true, Op: iduInc, Src: regs.PC, Dest: regs.PC}},
		MCycle{
			Alu:      AluInfo{Active: true, Op: opAdd, SrcA: regs.SPLo, SrcB: regs.Z, Dest: regs.L},
			MiscBits: MiscALUClearZero,
		},
		MCycle{Idu: IduInfo{Active: true, Op: iduAdjust, Src: regs.SP, Dest: regs.HL}},
	)
	defaultNames[0xF8] = "LD HL,SP+e8"

	for _, opcode := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		defaultTable[opcode] = seq(MCycle{MiscBits: MiscLockup})
		defaultNames[opcode] = "???"
	}
}

// buildPushPop fills the four PUSH rr / POP rr opcodes per pkg/regs'
// architectural push/pop order (BC, DE, HL, AF).
func buildPushPop() {
	names := [4]string{"BC", "DE", "HL", "AF"}
	for i, pair := range regs.PushPopOrder {
		hi, lo := halves(pair)
		pushOp := uint8(0xC5 + i*0x10)
		popOp := uint8(0xC1 + i*0x10)

		defaultTable[pushOp] = seq(
			MCycle{Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}},
			MCycle{Mem: MemOp{Active: true, Write: true, Data: hi, Addr: regs.SP}, Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}},
			MCycle{Mem: MemOp{Active: true, Write: true, Data: lo, Addr: regs.SP}},
		)
		defaultNames[pushOp] = "PUSH " + names[i]

		defaultTable[popOp] = seq(
			MCycle{Mem: MemOp{Active: true, Data: lo, Addr: regs.SP}, Idu: IduInfo{Active: true, Op: iduInc, Src: regs.SP, Dest: regs.SP}},
			MCycle{Mem: MemOp{Active: true, Data: hi, Addr: regs.SP}, Idu: IduInfo{Active: true, Op: iduInc, Src: regs.SP, Dest: regs.SP}},
		)
		defaultNames[popOp] = "POP " + names[i]
	}
}

// buildAluImmediateAndRST fills the eight ALU-A,n8 opcodes (0xC6 step 8) and
// the eight RST vectors (0xC7 step 8); both families share the same 3-bit
// selector placement as quadrant 2/3's register form.
func buildAluImmediateAndRST() {
	for i := 0; i < 8; i++ {
		aluOpcode := uint8(0xC6 + i*8)
		defaultTable[aluOpcode] = seq(readPC(regs.Z), MCycle{Alu: AluInfo{Active: true, Op: aluOpByIndex[i], SrcA: regs.A, SrcB: regs.Z, Dest: regs.A}})
		defaultNames[aluOpcode] = aluNameByIndex[i] + " A,n8"

		rstOpcode := uint8(0xC7 + i*8)
		vector := uint16(i * 8)
		defaultTable[rstOpcode] = seq(
			MCycle{Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}},
			MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.PCHi, Addr: regs.SP}, Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}},
			MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.PCLo, Addr: regs.SP}, MiscBits: MiscWriteImmToWide, OptReg: regs.PC, OptValue: vector},
		)
		defaultNames[rstOpcode] = "RST " + hex2(uint8(vector)) + "H"
	}
}

func hex2(v uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[v>>4], digits[v&0xF]})
}

// condRET builds RET cond: the condition is checked on an internal cycle
// (2 M-cycles if false); if true, one more internal cycle then the two
// stack reads and a final settle cycle bring it to 5.
func condRET(cond Misc) Instruction {
	var inst Instruction
	inst.Count = 6
	inst.Cycles[0] = MCycle{MiscBits: cond, OptValue: 2}
	inst.Cycles[1] = MCycle{MiscBits: MiscLastCycle}
	inst.Cycles[2] = MCycle{}
	inst.Cycles[3] = MCycle{
		Mem: MemOp{Active: true, Data: regs.PCLo, Addr: regs.SP},
		Idu: IduInfo{Active: true, Op: iduInc, Src: regs.SP, Dest: regs.SP},
	}
	inst.Cycles[4] = MCycle{
		Mem: MemOp{Active: true, Data: regs.PCHi, Addr: regs.SP},
		Idu: IduInfo{Active: true, Op: iduInc, Src: regs.SP, Dest: regs.SP},
	}
	inst.Cycles[5] = MCycle{MiscBits: MiscLastCycle}
	return inst
}

// uncondRET builds RET/RETI (RETI also re-enables interrupts on its first
// cycle).
func uncondRET(reenableInterrupts bool) Instruction {
	first := MCycle{
		Mem: MemOp{Active: true, Data: regs.PCLo, Addr: regs.SP},
		Idu: IduInfo{Active: true, Op: iduInc, Src: regs.SP, Dest: regs.SP},
	}
	if reenableInterrupts {
		first.MiscBits |= MiscEnableInterrupts
	}
	return seq(
		first,
		MCycle{Mem: MemOp{Active: true, Data: regs.PCHi, Addr: regs.SP}, Idu: IduInfo{Active: true, Op: iduInc, Src: regs.SP, Dest: regs.SP}},
		MCycle{},
	)
}

// condJP builds JP cond,a16: both address bytes are always read (3
// M-cycles if not taken); if taken, one more internal settle cycle loads
// WZ into PC (4 total).
func condJP(cond Misc) Instruction {
	var inst Instruction
	inst.Count = 5
	inst.Cycles[0] = readPC(regs.Z)
	inst.Cycles[1] = MCycle{
		Mem:      MemOp{Active: true, Data: regs.W, Addr: regs.PC},
		Idu:      IduInfo{Active: true, Op: iduInc, Src: regs.PC, Dest: regs.PC},
		MiscBits: cond,
		OptValue: 3,
	}
	inst.Cycles[2] = MCycle{MiscBits: MiscLastCycle}
	inst.Cycles[3] = MCycle{MiscBits: MiscWriteWZToWide, OptReg: regs.PC}
	inst.Cycles[4] = MCycle{MiscBits: MiscLastCycle}
	return inst
}

func uncondJP() Instruction {
	return seq(readPC(regs.Z), readPC(regs.W), MCycle{MiscBits: MiscWriteWZToWide, OptReg: regs.PC}, MCycle{})
}

// condCALL builds CALL cond,a16: 3 M-cycles if not taken, 6 if taken (one
// internal settle cycle, then the two pushes, the second of which also
// loads WZ into PC).
func condCALL(cond Misc) Instruction {
	var inst Instruction
	inst.Count = 7
	inst.Cycles[0] = readPC(regs.Z)
	inst.Cycles[1] = MCycle{
		Mem:      MemOp{Active: true, Data: regs.W, Addr: regs.PC},
		Idu:      IduInfo{Active: true, Op: iduInc, Src: regs.PC, Dest: regs.PC},
		MiscBits: cond,
		OptValue: 3,
	}
	inst.Cycles[2] = MCycle{MiscBits: MiscLastCycle}
	inst.Cycles[3] = MCycle{Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}}
	inst.Cycles[4] = MCycle{
		Mem: MemOp{Active: true, Write: true, Data: regs.PCHi, Addr: regs.SP},
		Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP},
	}
	inst.Cycles[5] = MCycle{
		Mem:      MemOp{Active: true, Write: true, Data: regs.PCLo, Addr: regs.SP},
		MiscBits: MiscWriteWZToWide,
		OptReg:   regs.PC,
	}
	inst.Cycles[6] = MCycle{MiscBits: MiscLastCycle}
	return inst
}

func uncondCALL() Instruction {
	return seq(
		readPC(regs.Z), readPC(regs.W),
		MCycle{Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}},
		MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.PCHi, Addr: regs.SP}, Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}},
		MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.PCLo, Addr: regs.SP}, MiscBits: MiscWriteWZToWide, OptReg: regs.PC},
	)
}
