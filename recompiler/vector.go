package recompiler

import "github.com/xenonrecomp/recomp/ppc"

// Vector instructions are emitted as calls into a small set of
// whole-register helper functions (VectorAdd, VectorPerm, ...) rather than
// inlined per-lane arithmetic: PowerPC's vector registers are opaque
// 128-bit values to the surrounding scalar code, and expressing a SIMD
// shuffle or saturating pack by hand in emitted text would just be a
// worse reimplementation of what the helper already does once, in C++,
// for every caller.
func init() {
	register("vaddfp", vxBinary("VectorAdd"))
	register("vsubfp", vxBinary("VectorSub"))
	register("vand", vxBinary("VectorAnd"))
	register("vandc", vxBinary("VectorAndc"))
	register("vor", vxBinary("VectorOr"))
	register("vxor", vxBinary("VectorXor"))
	register("vnor", vxBinary("VectorNor"))

	register("vspltw", emitVspltw)
	register("vspltisw", emitVspltisw)

	register("vperm", emitVperm)
	register("vsldoi", emitVsldoi)
	register("vmaddfp", emitVmaddfp)
	register("vnmsubfp", emitVnmsubfp)
	register("vsel", emitVsel)

	register("vaddfp128", vxBinary("VectorAdd"))
	register("vsubfp128", vxBinary("VectorSub"))
	register("vmulfp128", vxBinary("VectorMul"))
	register("vand128", vxBinary("VectorAnd"))
	register("vor128", vxBinary("VectorOr"))
	register("vxor128", vxBinary("VectorXor"))
	register("vmaddfp128", emitVmaddfp128)
	register("vperm128", emitVperm128)
	register("vsldoi128", emitVsldoi128)
	register("vrlimi128", emitVrlimi128)
	register("vmsum3fp128", vxBinary("VectorMsum3"))
	register("vmsum4fp128", vxBinary("VectorMsum4"))
	register("vpkd3d128", emitVpkd3d128)

	register("lvx", emitLvxCommon)
	register("stvx", emitStvxCommon)
	register("lvlx", emitLvxCommon)
	register("lvrx", emitLvxCommon)
	register("lvx128", emitLvxCommon)
	register("stvx128", emitStvxCommon)
	register("lvlx128", emitLvxCommon)
	register("lvrx128", emitLvxCommon)
}

func vxOperands(inst *ppc.Instruction) (vd, va, vb uint32) {
	return uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
}

func vxBinary(fn string) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureVMX()
		vd, va, vb := vxOperands(inst)
		fc.emit("%s = %s(%s, %s);", fc.v(vd), fn, fc.v(va), fc.v(vb))
	}
}

func emitVspltw(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, uimm, vb := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
	fc.emit("%s = VectorSplatW(%s, %s);", fc.v(vd), fc.v(vb), itoa(uimm))
}

func emitVspltisw(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, simm := uint32(inst.Operands[0]), inst.Operands[1]
	fc.emit("%s = VectorSplatImmW(%s);", fc.v(vd), itoa(simm))
}

func emitVperm(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vb, vc := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
	fc.emit("%s = VectorPerm(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vb), fc.v(vc))
}

func emitVsldoi(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vb, shift := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), inst.Operands[3]
	fc.emit("%s = VectorShiftLeftDouble(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vb), itoa(shift))
}

// emitVmaddfp reads the [VD, VA, VC, VB] operand order vmaddfp actually
// uses (VC and VB swapped relative to the arithmetically natural A, B, C
// grouping).
func emitVmaddfp(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vc, vb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
	fc.emit("%s = VectorMaddfp(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vc), fc.v(vb))
}

func emitVnmsubfp(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vc, vb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
	fc.emit("%s = VectorNmsubfp(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vc), fc.v(vb))
}

func emitVsel(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vb, vc := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
	fc.emit("%s = VectorSelect(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vb), fc.v(vc))
}

func emitVmaddfp128(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vc, vb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
	fc.emit("%s = VectorMaddfp(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vc), fc.v(vb))
}

func emitVperm128(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vb, vc := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
	fc.emit("%s = VectorPerm(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vb), fc.v(vc))
}

func emitVsldoi128(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, va, vb, shift := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), inst.Operands[3]
	fc.emit("%s = VectorShiftLeftDouble(%s, %s, %s);", fc.v(vd), fc.v(va), fc.v(vb), itoa(shift))
}

// emitVrlimi128 uses the direct N -> rotate-by-N reading of the 2-bit
// rotate-count field (see ppc.extractVRLIMI128ShiftCount and DESIGN.md's
// decision record for the Open Question this resolves).
func emitVrlimi128(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, vb, rot := uint32(inst.Operands[0]), uint32(inst.Operands[1]), inst.Operands[2]
	fc.emit("%s = VectorRotateLeftImmediate(%s, %s);", fc.v(vd), fc.v(vb), itoa(rot))
}

func emitVpkd3d128(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, vb, variant, shift := uint32(inst.Operands[0]), uint32(inst.Operands[1]), inst.Operands[2], inst.Operands[3]
	fc.emit("%s = VectorPackD3D(%s, %s, %s);", fc.v(vd), fc.v(vb), itoa(variant), itoa(shift))
}

func emitLvxCommon(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	addr := eaX(fc, ra, rb)
	fc.emit("%s = PPC_LOAD_VECTOR128((%s) & ~0xF);", fc.v(vd), addr)
}

func emitStvxCommon(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureVMX()
	vd, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	addr := eaX(fc, ra, rb)
	fc.emit("PPC_STORE_VECTOR128((%s) & ~0xF, %s);", addr, fc.v(vd))
}
