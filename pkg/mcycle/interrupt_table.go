package mcycle

import "dmgcore/pkg/regs"

// buildInterruptTable fills the 5-entry interrupt dispatch table: disable
// IME, decrement SP on its own cycle (so the following write lands on the
// post-decrement address, matching buildPushPop's convention), push PC high
// then low (predecrementing SP again before the second write), and load the
// vector into PC on the same cycle that pushes the low byte.
func buildInterruptTable() {
	for i, vector := range interruptVec {
		interruptTab[i] = seq(
			MCycle{MiscBits: MiscDisableInterrupts},
			MCycle{Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP}},
			MCycle{
				Mem: MemOp{Active: true, Write: true, Data: regs.PCHi, Addr: regs.SP},
				Idu: IduInfo{Active: true, Op: iduDec, Src: regs.SP, Dest: regs.SP},
			},
			MCycle{
				Mem:      MemOp{Active: true, Write: true, Data: regs.PCLo, Addr: regs.SP},
				MiscBits: MiscWriteImmToWide,
				OptReg:   regs.PC,
				OptValue: vector,
			},
		)
	}
}
