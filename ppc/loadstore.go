package ppc

// Scalar loads and stores. D-form operand order is [RT, D, RA] so
// renderOperands's adjacent-pairing rule prints "D(RA)"; this also matches
// spec §8's lwz example, which decodes "lwz r4, 0x10(r3)" from
// 80 83 00 10 with RT=4, D=0x10, RA=3.

func dForm(name string, major uint32, rt *OperandDesc) *OpcodeDef {
	pattern := major << 26
	mask := uint32(0xFC000000)
	return defOp(name, major, pattern, mask, DialectClassic, rt, operandD, operandRAOpt)
}

var (
	opLwz  = dForm("lwz", 32, operandRT)
	opLwzu = dForm("lwzu", 33, operandRT)
	opLbz  = dForm("lbz", 34, operandRT)
	opLbzu = dForm("lbzu", 35, operandRT)
	opStw  = dForm("stw", 36, operandRT)
	opStwu = dForm("stwu", 37, operandRT)
	opStb  = dForm("stb", 38, operandRT)
	opStbu = dForm("stbu", 39, operandRT)
	opLhz  = dForm("lhz", 40, operandRT)
	opLhzu = dForm("lhzu", 41, operandRT)
	opLha  = dForm("lha", 42, operandRT)
	opLhau = dForm("lhau", 43, operandRT)
	opSth  = dForm("sth", 44, operandRT)
	opSthu = dForm("sthu", 45, operandRT)
	opLmw  = dForm("lmw", 46, operandRT)
	opStmw = dForm("stmw", 47, operandRT)

	opLfs  = dForm("lfs", 48, operandFRT)
	opLfsu = dForm("lfsu", 49, operandFRT)
	opLfd  = dForm("lfd", 50, operandFRT)
	opLfdu = dForm("lfdu", 51, operandFRT)
	opStfs = dForm("stfs", 52, operandFRT)
	opStfsu = dForm("stfsu", 53, operandFRT)
	opStfd = dForm("stfd", 54, operandFRT)
	opStfdu = dForm("stfdu", 55, operandFRT)
)

// dsForm builds a DS-form entry (ld/ldu/lwa, std/stdu): a 14-bit
// pre-shifted displacement with a 2-bit sub-opcode in the low bits.
func dsForm(name string, major, xo uint32, rt *OperandDesc) *OpcodeDef {
	pattern := major<<26 | xo
	mask := uint32(0xFC000003)
	return defOp(name, major, pattern, mask, DialectPPC64, rt, operandDS, operandRAOpt)
}

var (
	opLd   = dsForm("ld", 58, 0, operandRT)
	opLdu  = dsForm("ldu", 58, 1, operandRT)
	opLwa  = dsForm("lwa", 58, 2, operandRT)
	opStd  = dsForm("std", 62, 0, operandRT)
	opStdu = dsForm("stdu", 62, 1, operandRT)
)

// xLoadStoreForm builds an X-form indexed load/store (major 31): operand
// order [RT, RA, RB], RA again stored even when zero.
func xLoadStoreForm(name string, xop uint32, rt *OperandDesc) *OpcodeDef {
	pattern := uint32(31)<<26 | xop<<1
	mask := uint32(0xFC0007FE)
	return defOp(name, 31, pattern, mask, DialectClassic, rt, operandRAOpt, operandRB)
}

var (
	opLwzx  = xLoadStoreForm("lwzx", 23, operandRT)
	opLwzux = xLoadStoreForm("lwzux", 55, operandRT)
	opLbzx  = xLoadStoreForm("lbzx", 87, operandRT)
	opLbzux = xLoadStoreForm("lbzux", 119, operandRT)
	opStwx  = xLoadStoreForm("stwx", 151, operandRT)
	opStwux = xLoadStoreForm("stwux", 183, operandRT)
	opStbx  = xLoadStoreForm("stbx", 215, operandRT)
	opStbux = xLoadStoreForm("stbux", 247, operandRT)
	opLhzx  = xLoadStoreForm("lhzx", 279, operandRT)
	opLhzux = xLoadStoreForm("lhzux", 311, operandRT)
	opLhax  = xLoadStoreForm("lhax", 343, operandRT)
	opLhaux = xLoadStoreForm("lhaux", 375, operandRT)
	opSthx  = xLoadStoreForm("sthx", 407, operandRT)
	opSthux = xLoadStoreForm("sthux", 439, operandRT)
	opLdx   = xLoadStoreForm("ldx", 21, operandRT)
	opLdux  = xLoadStoreForm("ldux", 53, operandRT)
	opStdx  = xLoadStoreForm("stdx", 149, operandRT)
	opStdux = xLoadStoreForm("stdux", 181, operandRT)

	opLfsx  = xLoadStoreForm("lfsx", 535, operandFRT)
	opLfdx  = xLoadStoreForm("lfdx", 599, operandFRT)
	opStfsx = xLoadStoreForm("stfsx", 663, operandFRT)
	opStfdx = xLoadStoreForm("stfdx", 727, operandFRT)
)

// Reservation pair: lwarx / stwcx. (spec §4.3.1's "reservation pair"
// contract). stwcx. always sets Rc, so it's baked into the pattern.
var (
	opLwarx  = xLoadStoreForm("lwarx", 20, operandRT)
	opLdarx  = xLoadStoreForm("ldarx", 84, operandRT)
	opStwcxRc = defOp("stwcx.", 31, 31<<26|150<<1|1, 0xFC0007FF, DialectClassic, operandRT, operandRAOpt, operandRB)
	opStdcxRc = defOp("stdcx.", 31, 31<<26|214<<1|1, 0xFC0007FF, DialectClassic, operandRT, operandRAOpt, operandRB)
)
