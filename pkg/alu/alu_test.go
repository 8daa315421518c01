package alu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsLowNibbleAlwaysZero(t *testing.T) {
	ops := []Op{Add, Adc, Sub, Cp, Sbc, And, Xor, Or, Inc, Dec, Rl, Rr, Rlc,
		Rrc, Sla, Sra, Srl, Swap, Bit, Res, Set, Da, Scf, Ccf, Cpl}
	for _, op := range ops {
		for a := 0; a < 256; a += 17 {
			for b := 0; b < 256; b += 23 {
				_, f := Exec(op, 0, uint8(a), uint8(b), 3)
				require.Zerof(t, f&0x0F, "op=%v a=%d b=%d produced nonzero low nibble %#x", op, a, b, f)
			}
		}
	}
}

func TestDAAAfterBCDAddition(t *testing.T) {
	// LD A,0x45; LD B,0x38; ADD A,B; DAA  (spec.md §8 scenario 3)
	sum, f := Exec(Add, 0, 0x45, 0x38, 0)
	assert.Equal(t, uint8(0x7D), sum)
	result, f := Exec(Da, f, 0, sum, 0)
	assert.Equal(t, uint8(0x83), result)
	assert.Zero(t, f&FlagC)
	assert.Zero(t, f&FlagH)
	assert.Zero(t, f&FlagN)
	assert.Zero(t, f&FlagZ)
}

func TestSwapIsInvolution(t *testing.T) {
	for v := 0; v < 256; v++ {
		once, _ := Exec(Swap, 0, 0, uint8(v), 0)
		twice, _ := Exec(Swap, 0, 0, once, 0)
		assert.Equal(t, uint8(v), twice)
	}
}

func TestCplIsInvolution(t *testing.T) {
	for v := 0; v < 256; v++ {
		once, f1 := Exec(Cpl, 0, 0, uint8(v), 0)
		twice, f2 := Exec(Cpl, f1, 0, once, 0)
		assert.Equal(t, uint8(v), twice)
		assert.NotZero(t, f1&FlagH)
		assert.NotZero(t, f1&FlagN)
		assert.NotZero(t, f2&FlagH)
		assert.NotZero(t, f2&FlagN)
	}
}

func TestIncDecRoundTrip(t *testing.T) {
	for v := 0; v < 0x10000; v += 97 {
		inc := ExecIDU(IduInc, uint16(v), 0)
		dec := ExecIDU(IduDec, inc, 0)
		assert.Equal(t, uint16(v), dec)
	}
}

func TestBitClearsZeroWhenSet(t *testing.T) {
	_, f := Exec(Bit, 0, 0, 0x80, 7)
	assert.Zero(t, f&FlagZ)
	_, f = Exec(Bit, 0, 0, 0x00, 7)
	assert.NotZero(t, f&FlagZ)
}
