package mcycle

import "dmgcore/pkg/regs"

// buildQuadrant0 fills 0x00-0x3F. Four rows (base 0x00/0x10/0x20/0x30) share
// a regular column layout for twelve of their sixteen columns (+1 LD rr,nn,
// +2/+A LD (rr),A / LD A,(rr) with HL+/HL- on rows 2/3, +3 INC rr, +9 ADD
// HL,rr, +0xB DEC rr, +0xC/+0xD/+0xE the row's low register, and +4/+5/+6
// the row's high register, with row 3 routing through (HL) instead of a
// register). The remaining columns (+0,+7,+8,+F) differ in shape per row
// and are written out individually.
func buildQuadrant0() {
	highRegByRow := [4]regs.Reg8{regs.B, regs.D, regs.H, regs.NoReg8}
	lowRegByRow := [4]regs.Reg8{regs.C, regs.E, regs.L, regs.A}
	addrByRow := [4]regs.Reg16{regs.BC, regs.DE, regs.HL, regs.HL}

	for row := 0; row < 4; row++ {
		base := uint8(row << 4)
		pair := wideByIndex[row]
		hi, lo := halvesOf(pair)

		// +0x1 LD rr,nn
		defaultTable[base+0x01] = seq(readPC(lo), readPC(hi))
		defaultNames[base+0x01] = "LD " + pair.String() + ",n16"

		// +0x3 INC rr (internal only, no flags)
		defaultTable[base+0x03] = seq(
			MCycle{Idu: IduInfo{Active: true, Op: iduInc, Src: pair, Dest: pair}},
			MCycle{},
		)
		defaultNames[base+0x03] = "INC " + pair.String()

		// +0xB DEC rr
		defaultTable[base+0x0B] = seq(
			MCycle{Idu: IduInfo{Active: true, Op: iduDec, Src: pair, Dest: pair}},
			MCycle{},
		)
		defaultNames[base+0x0B] = "DEC " + pair.String()

		// +0x9 ADD HL,rr (16-bit add via two 8-bit ALU passes; Z unaffected)
		hHi, hLo := regs.H, regs.L
		defaultTable[base+0x09] = seq(
			MCycle{Alu: AluInfo{Active: true, Op: opAddKeepZ, SrcA: hLo, SrcB: lo, Dest: hLo}},
			MCycle{Alu: AluInfo{Active: true, Op: opAdcKeepZ, SrcA: hHi, SrcB: hi, Dest: hHi}},
		)
		defaultNames[base+0x09] = "ADD HL," + pair.String()

		// +0x2 LD (addr),A ; +0xA LD A,(addr) with HL auto inc/dec on rows 2/3
		var idu IduInfo
		switch row {
		case 2:
			idu = IduInfo{Active: true, Op: iduInc, Src: regs.HL, Dest: regs.HL}
		case 3:
			idu = IduInfo{Active: true, Op: iduDec, Src: regs.HL, Dest: regs.HL}
		}
		defaultTable[base+0x02] = seq(MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.A, Addr: addrByRow[row]}, Idu: idu})
		defaultTable[base+0x0A] = seq(MCycle{Mem: MemOp{Active: true, Data: regs.A, Addr: addrByRow[row]}, Idu: idu})
		switch row {
		case 0:
			defaultNames[base+0x02], defaultNames[base+0x0A] = "LD (BC),A", "LD A,(BC)"
		case 1:
			defaultNames[base+0x02], defaultNames[base+0x0A] = "LD (DE),A", "LD A,(DE)"
		case 2:
			defaultNames[base+0x02], defaultNames[base+0x0A] = "LD (HL+),A", "LD A,(HL+)"
		case 3:
			defaultNames[base+0x02], defaultNames[base+0x0A] = "LD (HL-),A", "LD A,(HL-)"
		}

		// +0x4/+0x5/+0x6 INC r / DEC r / LD r,n on the row's high register
		buildIncDecLoad(base+0x04, base+0x05, base+0x06, highRegByRow[row], row == 3)
		// +0xC/+0xD/+0xE INC r / DEC r / LD r,n on the row's low register
		buildIncDecLoad(base+0x0C, base+0x0D, base+0x0E, lowRegByRow[row], false)
	}

	buildQuadrant0Irregular()
}

// halvesOf returns the high/low Reg8 pair for any wide register, including
// SP (which has no ordinary register halves of its own).
func halvesOf(pair regs.Reg16) (hi, lo regs.Reg8) {
	if pair == regs.SP {
		return regs.SPHi, regs.SPLo
	}
	return halves(pair)
}

// buildIncDecLoad fills the INC r/DEC r/LD r,n triple for one register,
// or for "(HL)" when indirect is true.
func buildIncDecLoad(incOp, decOp, ldOp uint8, reg regs.Reg8, indirect bool) {
	if indirect {
		defaultTable[incOp] = seq(
			MCycle{Mem: MemOp{Active: true, Data: regs.Z, Addr: regs.HL}},
			MCycle{Alu: AluInfo{Active: true, Op: opInc, SrcB: regs.Z, Dest: regs.Z}},
			MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.Z, Addr: regs.HL}},
		)
		defaultNames[incOp] = "INC (HL)"

		defaultTable[decOp] = seq(
			MCycle{Mem: MemOp{Active: true, Data: regs.Z, Addr: regs.HL}},
			MCycle{Alu: AluInfo{Active: true, Op: opDec, SrcB: regs.Z, Dest: regs.Z}},
			MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.Z, Addr: regs.HL}},
		)
		defaultNames[decOp] = "DEC (HL)"

		defaultTable[ldOp] = seq(readPC(regs.Z), MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.Z, Addr: regs.HL}})
		defaultNames[ldOp] = "LD (HL),n8"
		return
	}

	defaultTable[incOp] = seq(MCycle{Alu: AluInfo{Active: true, Op: opInc, SrcB: reg, Dest: reg}})
	defaultNames[incOp] = "INC " + reg.String()

	defaultTable[decOp] = seq(MCycle{Alu: AluInfo{Active: true, Op: opDec, SrcB: reg, Dest: reg}})
	defaultNames[decOp] = "DEC " + reg.String()

	defaultTable[ldOp] = seq(readPC(reg))
	defaultNames[ldOp] = "LD " + reg.String() + ",n8"
}

// buildQuadrant0Irregular fills the columns that differ in shape per row:
// +0x0, +0x7, +0x8, +0xF, plus NOP/STOP themselves.
func buildQuadrant0Irregular() {
	defaultTable[0x00] = seq(MCycle{})
	defaultNames[0x00] = "NOP"

	defaultTable[0x10] = seq(MCycle{MiscBits: MiscStop})
	defaultNames[0x10] = "STOP"

	defaultTable[0x20] = condJR(MiscCondNZ)
	defaultNames[0x20] = "JR NZ,e8"
	defaultTable[0x30] = condJR(MiscCondNC)
	defaultNames[0x30] = "JR NC,e8"

	// +0x7: accumulator rotates force Z=0, DAA, SCF
	defaultTable[0x07] = seq(MCycle{Alu: AluInfo{Active: true, Op: opRlc, SrcB: regs.A, Dest: regs.A}, MiscBits: MiscALUClearZero})
	defaultNames[0x07] = "RLCA"
	defaultTable[0x17] = seq(MCycle{Alu: AluInfo{Active: true, Op: opRl, SrcB: regs.A, Dest: regs.A}, MiscBits: MiscALUClearZero})
	defaultNames[0x17] = "RLA"
	defaultTable[0x27] = seq(MCycle{Alu: AluInfo{Active: true, Op: opDa, SrcB: regs.A, Dest: regs.A}})
	defaultNames[0x27] = "DAA"
	defaultTable[0x37] = seq(MCycle{Alu: AluInfo{Active: true, Op: opScf, SrcB: regs.A, Dest: regs.A}})
	defaultNames[0x37] = "SCF"

	// +0x8: LD (a16),SP ; JR e ; JR Z,e ; JR C,e
	defaultTable[0x08] = seq(
		readPC(regs.Z), readPC(regs.W),
		MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.SPLo, Addr: regs.WZ}, Idu: IduInfo{Active: true, Op: iduInc, Src: regs.WZ, Dest: regs.WZ}},
		MCycle{Mem: MemOp{Active: true, Write: true, Data: regs.SPHi, Addr: regs.WZ}},
	)
	defaultNames[0x08] = "LD (a16),SP"

	defaultTable[0x18] = seq(
		MCycle{Mem: MemOp{Active: true, Data: regs.Z, Addr: regs.PC}, Idu: IduInfo{Active: true, Op: iduInc, Src: regs.PC, Dest: regs.PC}},
		MCycle{Alu: AluInfo{Active: true, Op: opAdd, SrcA: regs.PCLo, SrcB: regs.Z, Dest: regs.PCLo}, MiscBits: MiscALUKeepFlags},
		MCycle{Idu: IduInfo{Active: true, Op: iduAdjust, Src: regs.PC, Dest: regs.PC}},
	)
	defaultNames[0x18] = "JR e8"

	defaultTable[0x28] = condJR(MiscCondZ)
	defaultNames[0x28] = "JR Z,e8"
	defaultTable[0x38] = condJR(MiscCondC)
	defaultNames[0x38] = "JR C,e8"

	// +0xF: accumulator rotates force Z=0, CPL, CCF
	defaultTable[0x0F] = seq(MCycle{Alu: AluInfo{Active: true, Op: opRrc, SrcB: regs.A, Dest: regs.A}, MiscBits: MiscALUClearZero})
	defaultNames[0x0F] = "RRCA"
	defaultTable[0x1F] = seq(MCycle{Alu: AluInfo{Active: true, Op: opRr, SrcB: regs.A, Dest: regs.A}, MiscBits: MiscALUClearZero})
	defaultNames[0x1F] = "RRA"
	defaultTable[0x2F] = seq(MCycle{Alu: AluInfo{Active: true, Op: opCpl, SrcB: regs.A, Dest: regs.A}})
	defaultNames[0x2F] = "CPL"
	defaultTable[0x3F] = seq(MCycle{Alu: AluInfo{Active: true, Op: opCcf, SrcB: regs.A, Dest: regs.A}})
	defaultNames[0x3F] = "CCF"
}

// condJR builds a conditional JR cond,e8: the condition is evaluated on the
// cycle that reads the displacement; on failure the instruction ends there
// (2 M-cycles total), on success it falls through to the low-byte add and
// high-byte correction (3 M-cycles total).
func condJR(cond Misc) Instruction {
	var inst Instruction
	inst.Count = 4
	inst.Cycles[0] = MCycle{
		Mem:      MemOp{Active: true, Data: regs.Z, Addr: regs.PC},
		Idu:      IduInfo{Active: true, Op: iduInc, Src: regs.PC, Dest: regs.PC},
		MiscBits: cond,
		OptValue: 2,
	}
	inst.Cycles[1] = MCycle{MiscBits: MiscLastCycle}
	inst.Cycles[2] = MCycle{
		Alu:      AluInfo{Active: true, Op: opAdd, SrcA: regs.PCLo, SrcB: regs.Z, Dest: regs.PCLo},
		MiscBits: MiscALUKeepFlags,
	}
	inst.Cycles[3] = MCycle{
		Idu:      IduInfo{Active: true, Op: iduAdjust, Src: regs.PC, Dest: regs.PC},
		MiscBits: MiscLastCycle,
	}
	return inst
}
