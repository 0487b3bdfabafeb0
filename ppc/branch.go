package ppc

// Branch instructions. Operand order [BO, BI, BD] for bc and [LI] for b
// matches spec §8's explicit round-trip example (word 0x40820008 decodes
// to "bc 4, 2, loc_10008" with operands [4, 2, 0x10008]).

var (
	opBc  = defOp("bc", 16, 16<<26, 0xFC000001, DialectClassic, operandBO, operandBI, operandBD)
	opBcl = defOp("bcl", 16, 16<<26|1, 0xFC000001, DialectClassic, operandBO, operandBI, operandBD)
)

var (
	opB  = defOp("b", 18, 18<<26, 0xFC000003, DialectClassic, operandLI)
	opBl = defOp("bl", 18, 18<<26|1, 0xFC000003, DialectClassic, operandLI)
)

var opSc = defOp("sc", 17, 17<<26|2, 0xFC000003, DialectClassic)

// bclrForm / bcctrForm cover the link-register and count-register branch
// family (major 19, xop 16 / 528). BH (branch-prediction hint) bits are
// left unmodeled; they don't affect control-flow semantics here. LK is part
// of the mask, so the linking forms match only bclrl/bcctrl below.
func bclrForm(name string, xop uint32) *OpcodeDef {
	pattern := uint32(19)<<26 | xop<<1
	mask := uint32(0xFC0007FF)
	return defOp(name, 19, pattern, mask, DialectClassic, operandBO, operandBI)
}

var (
	opBclr   = bclrForm("bclr", 16)
	opBcctr  = bclrForm("bcctr", 528)
	opBclrl  = defOp("bclrl", 19, 19<<26|16<<1|1, 0xFC0007FF, DialectClassic, operandBO, operandBI)
	opBcctrl = defOp("bcctrl", 19, 19<<26|528<<1|1, 0xFC0007FF, DialectClassic, operandBO, operandBI)
)

var opIsync = defOp("isync", 19, 19<<26|150<<1, 0xFC0007FE, DialectClassic)
var opRfid = defOp("rfid", 19, 19<<26|18<<1, 0xFC0007FE, DialectPPC64)

// Condition-register logical ops (crand, cror, crxor, ...), VX-form over
// three CR bit indices.
func crLogicalForm(name string, xop uint32) *OpcodeDef {
	pattern := uint32(19)<<26 | xop<<1
	mask := uint32(0xFC0007FE)
	return defOp(name, 19, pattern, mask, DialectClassic, operandCrbD, operandCrbA, operandCrbB)
}

var (
	opCrand  = crLogicalForm("crand", 257)
	opCror   = crLogicalForm("cror", 449)
	opCrxor  = crLogicalForm("crxor", 193)
	opCrnand = crLogicalForm("crnand", 225)
	opCrnor  = crLogicalForm("crnor", 33)
	opCreqv  = crLogicalForm("creqv", 289)
	opCrandc = crLogicalForm("crandc", 129)
	opCrorc  = crLogicalForm("crorc", 417)
)

var opMcrf = defOp("mcrf", 19, 19<<26, 0xFC0007FE, DialectClassic, operandBF, operandBFA)
