package recompiler

import "github.com/xenonrecomp/recomp/ppc"

func init() {
	register("cmpwi", emitCmpwi)
	register("cmpdi", emitCmpdi)
	register("cmplwi", emitCmplwi)
	register("cmpldi", emitCmpldi)
	register("cmpw", emitCmpw)
	register("cmpd", emitCmpd)
	register("cmplw", emitCmplw)
	register("cmpld", emitCmpld)

	register("crand", emitCrand)
	register("cror", emitCror)
	register("crxor", emitCrxor)
	register("crnand", emitCrnand)
	register("crnor", emitCrnor)
	register("creqv", emitCreqv)
	register("crandc", emitCrandc)
	register("crorc", emitCrorc)
	register("mcrf", emitMcrf)
}

func emitCmpwi(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, simm := uint32(inst.Operands[0]), uint32(inst.Operands[1]), inst.Operands[2]
	emitCompare(fc, bf, "int32_t", fc.r(ra)+".s32", itoa(simm))
}

func emitCmpdi(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, simm := uint32(inst.Operands[0]), uint32(inst.Operands[1]), inst.Operands[2]
	emitCompare(fc, bf, "int64_t", fc.r(ra)+".s64", itoa(simm))
}

func emitCmplwi(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, uimm := uint32(inst.Operands[0]), uint32(inst.Operands[1]), inst.Operands[2]
	emitCompare(fc, bf, "uint32_t", fc.r(ra)+".u32", itoa(uimm))
}

func emitCmpldi(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, uimm := uint32(inst.Operands[0]), uint32(inst.Operands[1]), inst.Operands[2]
	emitCompare(fc, bf, "uint64_t", fc.r(ra)+".u64", itoa(uimm))
}

func emitCmpw(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	emitCompare(fc, bf, "int32_t", fc.r(ra)+".s32", fc.r(rb)+".s32")
}

func emitCmpd(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	emitCompare(fc, bf, "int64_t", fc.r(ra)+".s64", fc.r(rb)+".s64")
}

func emitCmplw(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	emitCompare(fc, bf, "uint32_t", fc.r(ra)+".u32", fc.r(rb)+".u32")
}

func emitCmpld(fc *funcCtx, inst *ppc.Instruction) {
	bf, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	emitCompare(fc, bf, "uint64_t", fc.r(ra)+".u64", fc.r(rb)+".u64")
}

// crBit spells the individual-bit accessor for a 5-bit CR-bit index: the
// CR field is idx/4, and condName maps idx%4 to its lt/gt/eq/so name.
func crBit(fc *funcCtx, idx uint32) string {
	return fc.cr(idx/4) + "." + condName(idx%4)
}

func crOperands(inst *ppc.Instruction) (d, a, b uint32) {
	return uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
}

func emitCrand(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = %s && %s;", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitCror(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = %s || %s;", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitCrxor(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = %s != %s;", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitCrnand(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = !(%s && %s);", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitCrnor(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = !(%s || %s);", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitCreqv(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = %s == %s;", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitCrandc(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = %s && !%s;", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitCrorc(fc *funcCtx, inst *ppc.Instruction) {
	d, a, b := crOperands(inst)
	fc.emit("%s = %s || !%s;", crBit(fc, d), crBit(fc, a), crBit(fc, b))
}

func emitMcrf(fc *funcCtx, inst *ppc.Instruction) {
	bf, bfa := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	fc.emit("%s = %s;", fc.cr(bf), fc.cr(bfa))
}
