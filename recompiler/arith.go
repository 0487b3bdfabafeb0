package recompiler

import "github.com/xenonrecomp/recomp/ppc"

func init() {
	register("addi", emitAddi)
	register("addis", emitAddis)
	register("addic", emitAddic)
	register("addic.", emitAddicRc)
	register("subfic", emitSubfic)
	register("mulli", emitMulli)

	register("add", emitAdd)
	register("addc", emitAddc)
	register("adde", emitAdde)
	register("subf", emitSubf)
	register("subfc", emitSubfc)
	register("subfe", emitSubfe)
	register("neg", emitNeg)
	register("mulhw", emitMulhw)
	register("mulhwu", emitMulhwu)
	register("mullw", emitMullw)
	register("divw", emitDivw)
	register("divwu", emitDivwu)
	register("mulld", emitMulld)
	register("mulhd", emitMulhd)
	register("mulhdu", emitMulhdu)
	register("divd", emitDivd)
	register("divdu", emitDivdu)
}

func emitAddi(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	simm := inst.Operands[2]
	if ra == 0 {
		fc.emit("%s.s64 = %s;", fc.r(rt), itoa(simm))
		return
	}
	fc.emit("%s.s64 = %s;", fc.r(rt), fmtAdd(fc.r(ra)+".s64", simm))
}

func emitAddis(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	simm := inst.Operands[2] << 16
	if ra == 0 {
		fc.emit("%s.s64 = %s;", fc.r(rt), itoa(simm))
		return
	}
	fc.emit("%s.s64 = %s;", fc.r(rt), fmtAdd(fc.r(ra)+".s64", simm))
}

// emitAddic covers both addic and the record-form addic., which get
// dedicated dispatch entries since the record bit sits in
// opcode-identifying space for this D-form, not a free XO-form bit.
func emitAddic(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	simm := inst.Operands[2]
	fc.emit("%s.u64 = uint64_t(%s.u32) + uint64_t(int32_t(%s));", fc.r(rt), fc.r(ra), itoa(simm))
	fc.emit("%s.ca = %s.u32 < %s.u32;", fc.xer(), fc.r(rt), fc.r(ra))
}

func emitAddicRc(fc *funcCtx, inst *ppc.Instruction) {
	emitAddic(fc, inst)
	emitCompareRc(fc, fc.r(uint32(inst.Operands[0]))+".s32")
}

func emitSubfic(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	simm := inst.Operands[2]
	fc.emit("%s.u64 = uint64_t(~%s.u32) + uint64_t(int32_t(%s)) + 1;", fc.r(rt), fc.r(ra), itoa(simm))
	fc.emit("%s.ca = %s.u32 >= %s.u32;", fc.xer(), itoa(simm), fc.r(ra))
}

func emitMulli(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	simm := inst.Operands[2]
	fc.emit("%s.s64 = %s.s64 * %s;", fc.r(rt), fc.r(ra), itoa(simm))
}

func xo3(inst *ppc.Instruction) (rt, ra, rb uint32) {
	return uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
}

func emitAdd(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = %s.s64 + %s.s64;", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitAddc(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.u64 = uint64_t(%s.u32) + uint64_t(%s.u32);", fc.r(rt), fc.r(ra), fc.r(rb))
	fc.emit("%s.ca = %s.u32 < %s.u32;", fc.xer(), fc.r(rt), fc.r(ra))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

// emitAdde mirrors addc's per-operand carry test but folds in the incoming
// xer.ca as a second addend, using a temp to hold the pre-carry partial
// sum since the final carry-out depends on both stages (spec.md's
// two-stage carry contract).
func emitAdde(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	t := fc.temp()
	fc.emit("%s.u32 = %s.u32 + %s.u32;", t, fc.r(ra), fc.r(rb))
	fc.emit("%s.u64 = uint64_t(%s.u32) + uint64_t(%s.ca);", fc.r(rt), t, fc.xer())
	fc.emit("%s.ca = (%s.u32 < %s.u32) | (%s.u32 < %s.ca);", fc.xer(), t, fc.r(ra), fc.r(rt), fc.xer())
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitSubf(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = %s.s64 - %s.s64;", fc.r(rt), fc.r(rb), fc.r(ra))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitSubfc(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.u64 = uint64_t(~%s.u32) + uint64_t(%s.u32) + 1;", fc.r(rt), fc.r(ra), fc.r(rb))
	fc.emit("%s.ca = %s.u32 >= %s.u32;", fc.xer(), fc.r(rb), fc.r(ra))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

// emitSubfe mirrors emitAdde's two-stage carry test with RA's ones'
// complement in place of RA itself, per DESIGN.md's Open Question
// decision: "identical in spirit to adde, inverted".
func emitSubfe(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	t := fc.temp()
	notA := "~" + fc.r(ra) + ".u32"
	fc.emit("%s.u32 = (%s) + %s.u32;", t, notA, fc.r(rb))
	fc.emit("%s.u64 = uint64_t(%s.u32) + uint64_t(%s.ca);", fc.r(rt), t, fc.xer())
	fc.emit("%s.ca = (%s.u32 < (%s)) | (%s.u32 < %s.ca);", fc.xer(), t, notA, fc.r(rt), fc.xer())
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitNeg(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	fc.emit("%s.s64 = -%s.s64;", fc.r(rt), fc.r(ra))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitMulhw(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = (int64_t(%s.s32) * int64_t(%s.s32)) >> 32;", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitMulhwu(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.u64 = (uint64_t(%s.u32) * uint64_t(%s.u32)) >> 32;", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitMullw(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = int32_t(%s.s32 * %s.s32);", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitMulld(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = %s.s64 * %s.s64;", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitMulhd(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = int64_t((__int128(%s.s64) * __int128(%s.s64)) >> 64);", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitMulhdu(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.u64 = uint64_t((unsigned __int128(%s.u64) * unsigned __int128(%s.u64)) >> 64);", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

// emitDivw leaves integer-divide-by-zero as the host's own silent
// behavior, per DESIGN.md's Open Question decision.
func emitDivw(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = %s.s32 / %s.s32;", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

// emitDivwu clamps a zero divisor to a zero result instead of the host's
// division-by-zero trap, per DESIGN.md's Open Question decision.
func emitDivwu(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.u64 = %s.u32 == 0 ? 0 : %s.u32 / %s.u32;", fc.r(rt), fc.r(rb), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitDivd(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.s64 = %s.s64 / %s.s64;", fc.r(rt), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}

func emitDivdu(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := xo3(inst)
	fc.emit("%s.u64 = %s.u64 == 0 ? 0 : %s.u64 / %s.u64;", fc.r(rt), fc.r(rb), fc.r(ra), fc.r(rb))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(rt)+".s32")
	}
}
