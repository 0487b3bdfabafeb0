package ppc

// D-form and XO-form integer arithmetic. Operand order for the D-form
// immediate ops is [RT, RA, SIMM/UIMM] — RA is stored even when zero; the
// "addi/addis with RA=0 means literal SIMM" special case is interpreted by
// the recompiler, not hidden here.

var (
	opTWI     = defOp("twi", 3, 3<<26, 0xFC000000, DialectClassic, operandBO, operandRA, operandSIMM)
	opMulli   = defOp("mulli", 7, 7<<26, 0xFC000000, DialectClassic, operandRT, operandRA, operandSIMM)
	opSubfic  = defOp("subfic", 8, 8<<26, 0xFC000000, DialectClassic, operandRT, operandRA, operandSIMM)
	opAddic   = defOp("addic", 12, 12<<26, 0xFC000000, DialectClassic, operandRT, operandRA, operandSIMM)
	opAddicRc = defOp("addic.", 13, 13<<26, 0xFC000000, DialectClassic, operandRT, operandRA, operandSIMM)
	opAddi    = defOp("addi", 14, 14<<26, 0xFC000000, DialectClassic, operandRT, operandRA, operandSIMM)
	opAddis   = defOp("addis", 15, 15<<26, 0xFC000000, DialectClassic, operandRT, operandRA, operandSIMM)
)

// xoForm builds the pattern/mask for a 31-space XO-form instruction:
// major(6) RT(5) RA(5) RB(5) OE(1) XO(9) Rc(1). The OE bit is part of the
// mask and clear in the pattern, so only the non-overflow (OE=0) form
// matches these entries; Rc stays free so the record-form (".") variant
// shares the same entry.
func xoForm(name string, xop uint32, operands ...*OperandDesc) *OpcodeDef {
	pattern := uint32(31)<<26 | xop<<1
	mask := uint32(0xFC0007FE)
	return defOp(name, 31, pattern, mask, DialectClassic, operands...)
}

var (
	opAddc  = xoForm("addc", 10, operandRT, operandRA, operandRB)
	opAdde  = xoForm("adde", 138, operandRT, operandRA, operandRB)
	opAdd   = xoForm("add", 266, operandRT, operandRA, operandRB)
	opSubfc = xoForm("subfc", 8, operandRT, operandRA, operandRB)
	opSubfe = xoForm("subfe", 136, operandRT, operandRA, operandRB)
	opSubf  = xoForm("subf", 40, operandRT, operandRA, operandRB)
	opNeg   = xoForm("neg", 104, operandRT, operandRA)

	opMulhw  = xoForm("mulhw", 75, operandRT, operandRA, operandRB)
	opMulhwu = xoForm("mulhwu", 11, operandRT, operandRA, operandRB)
	opMullw  = xoForm("mullw", 235, operandRT, operandRA, operandRB)
	opDivw   = xoForm("divw", 491, operandRT, operandRA, operandRB)
	opDivwu  = xoForm("divwu", 459, operandRT, operandRA, operandRB)

	opMulhd  = xoForm("mulhd", 73, operandRT, operandRA, operandRB)
	opMulhdu = xoForm("mulhdu", 9, operandRT, operandRA, operandRB)
	opMulld  = xoForm("mulld", 233, operandRT, operandRA, operandRB)
	opDivd   = xoForm("divd", 489, operandRT, operandRA, operandRB)
	opDivdu  = xoForm("divdu", 457, operandRT, operandRA, operandRB)
)
