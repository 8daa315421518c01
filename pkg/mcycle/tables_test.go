package mcycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryDefaultEntryHasAtLeastOneCycle(t *testing.T) {
	table := Default()
	for opcode, inst := range table {
		require.Greaterf(t, inst.Count, uint8(0), "opcode %#02x has zero cycles", opcode)
		require.LessOrEqualf(t, int(inst.Count), 8, "opcode %#02x exceeds 8 cycles", opcode)
	}
}

func TestEveryCBEntryHasAtLeastOneCycle(t *testing.T) {
	table := CBPrefixed()
	for opcode, inst := range table {
		require.Greaterf(t, inst.Count, uint8(0), "CB opcode %#02x has zero cycles", opcode)
	}
}

func TestInvalidOpcodesCarryLockup(t *testing.T) {
	table := Default()
	for _, opcode := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		assert.NotZero(t, table[opcode].Cycles[0].MiscBits&MiscLockup, "opcode %#02x should be marked invalid", opcode)
	}
}

func TestInterruptTableCoversAllFiveVectors(t *testing.T) {
	table := Interrupt()
	vectors := []uint16{0x40, 0x48, 0x50, 0x58, 0x60}
	for i, v := range vectors {
		assert.Equal(t, i, InterruptIndex(v))
		assert.Equal(t, v, InterruptVector(i))
		require.Greater(t, table[i].Count, uint8(0))
	}
}

func TestGetOpcodeNameIsPopulated(t *testing.T) {
	assert.Equal(t, "NOP", GetOpcodeName(TableDefault, 0x00))
	assert.Equal(t, "HALT", GetOpcodeName(TableDefault, 0x76))
	assert.Equal(t, "INT", GetOpcodeName(TableInterrupt, 0))
	for opcode := 0; opcode < 256; opcode++ {
		assert.NotEmptyf(t, GetOpcodeName(TableCB, uint8(opcode)), "CB opcode %#02x missing a name", opcode)
	}
}

func TestCBRotateFamilyCoversAllEightRegisters(t *testing.T) {
	table := CBPrefixed()
	// RLC B..A is opcodes 0x00-0x07.
	for opcode := 0; opcode < 8; opcode++ {
		require.NotZero(t, table[opcode].Count)
	}
}

func TestPushPopCycleCountsForEachPair(t *testing.T) {
	table := Default()
	pushOpcodes := []uint8{0xC5, 0xD5, 0xE5, 0xF5}
	popOpcodes := []uint8{0xC1, 0xD1, 0xE1, 0xF1}
	for i := range pushOpcodes {
		assert.Equal(t, uint8(4), table[pushOpcodes[i]].Count)
		assert.Equal(t, uint8(3), table[popOpcodes[i]].Count)
	}
}

func TestConditionalBranchesForkOnOptValue(t *testing.T) {
	inst := Default()[0x20] // JR NZ,e8
	require.NotZero(t, inst.Cycles[0].MiscBits&MiscCondNZ)
	assert.Equal(t, uint16(2), inst.Cycles[0].OptValue)
}
