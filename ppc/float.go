package ppc

// Floating-point A-form arithmetic (major 59 single-precision, major 63
// double-precision) and the X-form single-operand/compare ops living in
// major 63 alongside them.

func aForm(major uint32, name string, xop uint32, useC, useB bool) *OpcodeDef {
	pattern := major<<26 | xop<<1
	mask := uint32(0xFC00003E)
	operands := []*OperandDesc{operandFRT, operandFRA}
	if useC {
		operands = append(operands, operandFRC)
	}
	if useB {
		operands = append(operands, operandFRB)
	}
	return defOp(name, major, pattern, mask, DialectClassic, operands...)
}

var (
	opFdivs = aForm(59, "fdivs", 18, false, true)
	opFsubs = aForm(59, "fsubs", 20, false, true)
	opFadds = aForm(59, "fadds", 21, false, true)
	opFmuls = aForm(59, "fmuls", 25, true, false)

	opFdiv = aForm(63, "fdiv", 18, false, true)
	opFsub = aForm(63, "fsub", 20, false, true)
	opFadd = aForm(63, "fadd", 21, false, true)
	opFmul = aForm(63, "fmul", 25, true, false)
)

// fmaForm covers the four fused multiply-add variants, all A-form with
// all four register operands: frD, frA, frC, frB.
func fmaForm(major uint32, name string, xop uint32) *OpcodeDef {
	pattern := major<<26 | xop<<1
	mask := uint32(0xFC00003E)
	return defOp(name, major, pattern, mask, DialectClassic, operandFRT, operandFRA, operandFRC, operandFRB)
}

var (
	opFmadd  = fmaForm(63, "fmadd", 29)
	opFmsub  = fmaForm(63, "fmsub", 28)
	opFnmsub = fmaForm(63, "fnmsub", 30)
	opFnmadd = fmaForm(63, "fnmadd", 31)

	opFmadds  = fmaForm(59, "fmadds", 29)
	opFmsubs  = fmaForm(59, "fmsubs", 28)
	opFnmsubs = fmaForm(59, "fnmsubs", 30)
	opFnmadds = fmaForm(59, "fnmadds", 31)
)

func fxForm(name string, xop uint32, operands ...*OperandDesc) *OpcodeDef {
	pattern := uint32(63)<<26 | xop<<1
	mask := uint32(0xFC0007FE)
	return defOp(name, 63, pattern, mask, DialectClassic, operands...)
}

var (
	opFabs   = fxForm("fabs", 264, operandFRT, operandFRB)
	opFneg   = fxForm("fneg", 40, operandFRT, operandFRB)
	opFnabs  = fxForm("fnabs", 136, operandFRT, operandFRB)
	opFrsp   = fxForm("frsp", 12, operandFRT, operandFRB)
	opFctiwz = fxForm("fctiwz", 15, operandFRT, operandFRB)
	opFctidz = fxForm("fctidz", 815, operandFRT, operandFRB)
	opFcfid  = fxForm("fcfid", 846, operandFRT, operandFRB)
	opFmr    = fxForm("fmr", 72, operandFRT, operandFRB)
	opFsqrt  = fxForm("fsqrt", 22, operandFRT, operandFRB)

	opMffs = fxForm("mffs", 583, operandFRT)

	opFcmpu = fxForm("fcmpu", 0, operandBF, operandFRA, operandFRB)
	opFcmpo = fxForm("fcmpo", 32, operandBF, operandFRA, operandFRB)
)

var operandFM = &OperandDesc{Name: "fm", Shift: 17, Mask: 0xFF}

var opMtfsf = defOp("mtfsf", 63, 63<<26|711<<1, 0xFC0007FE, DialectClassic, operandFM, operandFRB)
