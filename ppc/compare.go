package ppc

// Compare instructions. cmpi/cmpli distinguish word/doubleword via the L
// bit (bit10), which this package bakes into the pattern/mask rather than
// storing as an operand, so "cmpwi" and "cmpdi" are two distinct table
// entries the way the mnemonics already are in assembly text.

func cmpiForm(name string, major, l uint32) *OpcodeDef {
	pattern := major<<26 | l<<21
	mask := uint32(0xFC200000)
	return defOp(name, major, pattern, mask, DialectClassic, operandBF, operandRA, operandSIMM)
}

func cmpliForm(name string, major, l uint32) *OpcodeDef {
	pattern := major<<26 | l<<21
	mask := uint32(0xFC200000)
	return defOp(name, major, pattern, mask, DialectClassic, operandBF, operandRA, operandUIMM)
}

var (
	opCmpwi = cmpiForm("cmpwi", 11, 0)
	opCmpdi = cmpiForm("cmpdi", 11, 1)

	opCmplwi = cmpliForm("cmplwi", 10, 0)
	opCmpldi = cmpliForm("cmpldi", 10, 1)
)

func cmpXForm(name string, l uint32) *OpcodeDef {
	pattern := uint32(31)<<26 | l<<21
	mask := uint32(0xFC2007FE)
	return defOp(name, 31, pattern, mask, DialectClassic, operandBF, operandRA, operandRB)
}

func cmplXForm(name string, l uint32) *OpcodeDef {
	pattern := uint32(31)<<26 | 32<<1 | l<<21
	mask := uint32(0xFC2007FE)
	return defOp(name, 31, pattern, mask, DialectClassic, operandBF, operandRA, operandRB)
}

var (
	opCmpw = cmpXForm("cmpw", 0)
	opCmpd = cmpXForm("cmpd", 1)

	opCmplw = cmplXForm("cmplw", 0)
	opCmpld = cmplXForm("cmpld", 1)
)
