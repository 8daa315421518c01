package mcycle

// buildDefaultTable constructs the 256-entry unprefixed opcode table by
// quadrant: 0x00-0x3F is the irregular grab-bag (buildQuadrant0), 0x40-0x7F
// is the fully regular LD r,r' grid (buildQuadrant1), 0x80-0xBF is the
// fully regular ALU-A,r grid (buildQuadrant2), and 0xC0-0xFF mixes regular
// families (PUSH/POP, ALU-A,n8, RST) with one-off control flow
// (buildQuadrant3).
func buildDefaultTable() {
	buildQuadrant0()
	buildQuadrant1()
	buildQuadrant2()
	buildQuadrant3()
}
