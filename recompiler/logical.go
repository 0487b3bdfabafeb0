package recompiler

import "github.com/xenonrecomp/recomp/ppc"

func init() {
	register("ori", emitOri)
	register("oris", emitOris)
	register("xori", emitXori)
	register("xoris", emitXoris)
	register("andi.", emitAndiRc)
	register("andis.", emitAndisRc)

	register("and", emitAnd)
	register("or", emitOr)
	register("xor", emitXor)
	register("nand", emitNand)
	register("nor", emitNor)
	register("andc", emitAndc)
	register("orc", emitOrc)
	register("eqv", emitEqv)

	register("extsb", emitExtsb)
	register("extsh", emitExtsh)
	register("extsw", emitExtsw)
	register("cntlzw", emitCntlzw)
	register("cntlzd", emitCntlzd)

	register("slw", emitSlw)
	register("srw", emitSrw)
	register("sraw", emitSraw)
	register("srawi", emitSrawi)
	register("sld", emitSld)
	register("srd", emitSrd)
	register("srad", emitSrad)
}

// logImm3 reads the [RA(dest), RT(source), UIMM] operand order the
// immediate logical forms share: PowerPC asm syntax is "ori RA,RS,UIMM"
// with RA as the destination, unlike the arithmetic D-forms.
func logImm3(inst *ppc.Instruction) (ra, rt uint32, uimm int64) {
	return uint32(inst.Operands[0]), uint32(inst.Operands[1]), inst.Operands[2]
}

func emitOri(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt, uimm := logImm3(inst)
	fc.emit("%s.u64 = %s.u64 | %s;", fc.r(ra), fc.r(rt), itoa(uimm))
}

func emitOris(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt, uimm := logImm3(inst)
	fc.emit("%s.u64 = %s.u64 | %s;", fc.r(ra), fc.r(rt), itoa(uimm<<16))
}

func emitXori(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt, uimm := logImm3(inst)
	fc.emit("%s.u64 = %s.u64 ^ %s;", fc.r(ra), fc.r(rt), itoa(uimm))
}

func emitXoris(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt, uimm := logImm3(inst)
	fc.emit("%s.u64 = %s.u64 ^ %s;", fc.r(ra), fc.r(rt), itoa(uimm<<16))
}

func emitAndiRc(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt, uimm := logImm3(inst)
	fc.emit("%s.u64 = %s.u64 & %s;", fc.r(ra), fc.r(rt), itoa(uimm))
	emitCompareRc(fc, fc.r(ra)+".s32")
}

func emitAndisRc(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt, uimm := logImm3(inst)
	fc.emit("%s.u64 = %s.u64 & %s;", fc.r(ra), fc.r(rt), itoa(uimm<<16))
	emitCompareRc(fc, fc.r(ra)+".s32")
}

// logXO3 reads the [RA(dest), RS, RB] order of the XO-form logical ops.
func logXO3(inst *ppc.Instruction) (ra, rs, rb uint32) {
	return uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
}

func emitAnd(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = %s.u64 & %s.u64;", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitOr(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = %s.u64 | %s.u64;", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitXor(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = %s.u64 ^ %s.u64;", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitNand(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = ~(%s.u64 & %s.u64);", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitNor(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = ~(%s.u64 | %s.u64);", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitAndc(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = %s.u64 & ~%s.u64;", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitOrc(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = %s.u64 | ~%s.u64;", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitEqv(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = ~(%s.u64 ^ %s.u64);", fc.r(ra), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

// logX2 reads the [RA(dest), RT(source)] order shared by the extend/count
// forms.
func logX2(inst *ppc.Instruction) (ra, rt uint32) {
	return uint32(inst.Operands[0]), uint32(inst.Operands[1])
}

func emitExtsb(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt := logX2(inst)
	fc.emit("%s.s64 = %s.s8;", fc.r(ra), fc.r(rt))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitExtsh(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt := logX2(inst)
	fc.emit("%s.s64 = %s.s16;", fc.r(ra), fc.r(rt))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitExtsw(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt := logX2(inst)
	fc.emit("%s.s64 = %s.s32;", fc.r(ra), fc.r(rt))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitCntlzw(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt := logX2(inst)
	fc.emit("%s.u64 = %s.u32 == 0 ? 32 : __builtin_clz(%s.u32);", fc.r(ra), fc.r(rt), fc.r(rt))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitCntlzd(fc *funcCtx, inst *ppc.Instruction) {
	ra, rt := logX2(inst)
	fc.emit("%s.u64 = %s.u64 == 0 ? 64 : __builtin_clzll(%s.u64);", fc.r(ra), fc.r(rt), fc.r(rt))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitSlw(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = (%s.u32 & 0x3F) >= 32 ? 0 : %s.u32 << (%s.u32 & 0x3F);", fc.r(ra), fc.r(rb), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitSrw(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = (%s.u32 & 0x3F) >= 32 ? 0 : %s.u32 >> (%s.u32 & 0x3F);", fc.r(ra), fc.r(rb), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitSraw(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	t := fc.temp()
	fc.emit("%s.u32 = %s.u32 & 0x3F;", t, fc.r(rb))
	fc.emit("%s.ca = %s.s32 < 0 && (%s >= 32 || (%s.u32 & ((1u << %s) - 1)) != 0);", fc.xer(), fc.r(rs), t, fc.r(rs), t)
	fc.emit("%s.s64 = %s >= 32 ? (%s.s32 < 0 ? -1 : 0) : %s.s32 >> %s;", fc.r(ra), t, fc.r(rs), fc.r(rs), t)
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitSrawi(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	sh := inst.Operands[2]
	fc.emit("%s.ca = %s.s32 < 0 && (%s.u32 & %s) != 0;", fc.xer(), fc.r(rs), fc.r(rs), itoa((int64(1)<<uint(sh))-1))
	fc.emit("%s.s64 = %s.s32 >> %s;", fc.r(ra), fc.r(rs), itoa(sh))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitSld(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = (%s.u32 & 0x7F) >= 64 ? 0 : %s.u64 << (%s.u32 & 0x7F);", fc.r(ra), fc.r(rb), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s64")
	}
}

func emitSrd(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	fc.emit("%s.u64 = (%s.u32 & 0x7F) >= 64 ? 0 : %s.u64 >> (%s.u32 & 0x7F);", fc.r(ra), fc.r(rb), fc.r(rs), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s64")
	}
}

func emitSrad(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := logXO3(inst)
	t := fc.temp()
	fc.emit("%s.u32 = %s.u32 & 0x7F;", t, fc.r(rb))
	fc.emit("%s.ca = %s.s64 < 0 && (%s >= 64 || (%s.u64 & ((1ull << %s) - 1)) != 0);", fc.xer(), fc.r(rs), t, fc.r(rs), t)
	fc.emit("%s.s64 = %s >= 64 ? (%s.s64 < 0 ? -1 : 0) : %s.s64 >> %s;", fc.r(ra), t, fc.r(rs), fc.r(rs), t)
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s64")
	}
}
