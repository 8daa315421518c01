// Package mcycle builds the three immutable instruction tables (default,
// CB-prefixed, interrupt) that drive the CPU decoder (§4.2). Each table
// entry is an M-cycle descriptor (§3): an ALU op, an IDU op, a memory op,
// and a Misc control bit-set. Tables are computed once, grounded on
// oisee/z80-optimizer's pkg/inst (opcode-indexed metadata array built
// alongside a parallel mnemonic table) and built with nested loops over the
// register-index encoding for the regular opcode families, matching how the
// real hardware's bit fields work.
package mcycle

import "dmgcore/pkg/regs"

// AluOp mirrors alu.Op without importing pkg/alu, keeping this package
// dependency-free of the datapath it describes.
type AluOp = uint8

// IduOp mirrors alu.IduOp for the same reason.
type IduOp = uint8

// Misc is the per-cycle control bit-set (§3).
type Misc uint16

const (
	MiscWriteWZToWide Misc = 1 << iota
	MiscStop
	MiscHalt
	MiscWriteImmToWide
	MiscEnableInterrupts
	MiscDisableInterrupts
	MiscALUKeepFlags
	MiscLastCycle
	MiscCondZ
	MiscCondNZ
	MiscCondC
	MiscCondNC
	MiscPrefixCB
	MiscALUClearZero
	// MiscLockup marks one of the eleven invalid opcodes (§7): the decoder
	// parks on this M-cycle forever rather than silently treating it as a
	// NOP, matching real hardware's undefined-opcode lockup more closely.
	MiscLockup
)

// AluInfo describes the ALU half of an M-cycle. Active distinguishes "no ALU
// work this cycle" from an explicit op targeting B (Dest's zero value),
// the same way MemOp.Active and IduInfo.Active disambiguate their own
// vacant slots.
type AluInfo struct {
	Active     bool
	Op         AluOp
	SrcA, SrcB regs.Reg8
	Dest       regs.Reg8
	Bit        uint8 // operand for Bit/Res/Set
}

// IduInfo describes the IDU half of an M-cycle. Active distinguishes "no IDU
// work this cycle" from an explicit IduInc (both have zero value otherwise),
// the same way MemOp.Active disambiguates a vacant memory slot.
//
// For IduAdjust, Src supplies the base high byte to correct (usually the
// pair whose low byte an earlier cycle's ALU add just wrote)
// and Dest receives the corrected pair; the low byte of the written result
// is always taken from Dest's current value, not Src's, so a low byte an
// earlier cycle already computed into Dest is never clobbered. When Src and
// Dest are the same register (JR, ADD SP,e) this degenerates to a plain
// high-byte correction in place.
type IduInfo struct {
	Active bool
	Op     IduOp
	Src    regs.Reg16
	Dest   regs.Reg16
}

// MemOp describes the memory access half of an M-cycle (§3).
type MemOp struct {
	Active bool
	Write  bool
	Offset bool // address is 0xFF00 + low byte of AddrReg, not AddrReg itself
	Data   regs.Reg8
	Addr   regs.Reg16
}

// MCycle is one immutable M-cycle descriptor (§3). OptReg/OptValue are a
// side channel independent of Alu/Idu/Mem, with three mutually exclusive
// meanings selected by which Misc bit accompanies them:
//   - MiscWriteWZToWide: the decoder copies WZ into OptReg at the end of the
//     cycle (JP/CALL landing on their resolved address).
//   - MiscWriteImmToWide: the decoder writes the literal OptValue into
//     OptReg (RST and interrupt dispatch loading a fixed vector into PC).
//   - a condition Misc bit (CondZ/CondNZ/CondC/CondNC): when it evaluates
//     true, the decoder jumps to the M-cycle index named by OptValue instead
//     of advancing sequentially, implementing the taken/not-taken fork for
//     JR/JP/CALL/RET cc.
type MCycle struct {
	Alu      AluInfo
	Idu      IduInfo
	Mem      MemOp
	MiscBits Misc
	OptReg   regs.Reg16
	OptValue uint16
}

// Instruction is an ordered tuple of up to 8 M-cycles (§3). Count records how
// many of Cycles are populated. For instructions whose length depends on a
// condition (conditional JR/JP/CALL/RET run fewer M-cycles when the
// condition fails), Count also includes the not-taken Last-cycle marker
// (§4.4 T3_0), so it is one more than the taken path's M-cycle count.
type Instruction struct {
	Cycles [8]MCycle
	Count  uint8
}

// TableID selects which of the three instruction tables an opcode indexes
// into (§3).
type TableID uint8

const (
	TableDefault TableID = iota
	TableCB
	TableInterrupt
)

// FETCH_MCYCLE (§4.2 overlap contract): the canonical fetch cycle that the
// final M-cycle of any instruction fuses with when it leaves IDU/MemOp
// fields vacant. PC is incremented (IDU Inc on PC) while the opcode byte
// is read into IR.
var FetchMCycle = MCycle{
	Idu: IduInfo{Active: true, Op: alu_IduInc, Src: regs.PC, Dest: regs.PC},
	Mem: MemOp{Active: true, Write: false, Data: regs.NoReg8, Addr: regs.PC},
}

// alu_IduInc avoids importing pkg/alu (IduOp is a plain uint8 alias here)
// while keeping the numeric value identical to alu.IduInc's zero value.
const alu_IduInc IduOp = 0
