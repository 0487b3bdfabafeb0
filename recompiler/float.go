package recompiler

import (
	"fmt"

	"github.com/xenonrecomp/recomp/ppc"
)

func init() {
	register("lfs", floatDform(4))
	register("lfsu", floatDformU(4))
	register("lfd", floatDform(8))
	register("lfdu", floatDformU(8))
	register("lfsx", floatXform(4))
	register("lfsux", floatXformU(4))
	register("lfdx", floatXform(8))
	register("lfdux", floatXformU(8))

	register("stfs", floatStoreDform(4))
	register("stfsu", floatStoreDformU(4))
	register("stfd", floatStoreDform(8))
	register("stfdu", floatStoreDformU(8))
	register("stfsx", floatStoreXform(4))
	register("stfsux", floatStoreXformU(4))
	register("stfdx", floatStoreXform(8))
	register("stfdux", floatStoreXformU(8))

	register("fadd", faBinary("+", false))
	register("fadds", faBinary("+", true))
	register("fsub", faBinary("-", false))
	register("fsubs", faBinary("-", true))
	register("fmul", faBinary("*", false))
	register("fmuls", faBinary("*", true))
	register("fdiv", faBinary("/", false))
	register("fdivs", faBinary("/", true))

	register("fmadd", fma(false, false))
	register("fmadds", fma(false, true))
	register("fmsub", fma(true, false))
	register("fmsubs", fma(true, true))
	register("fnmsub", fnma(true, false))
	register("fnmsubs", fnma(true, true))
	register("fnmadd", fnma(false, false))
	register("fnmadds", fnma(false, true))

	register("fabs", emitFabs)
	register("fneg", emitFneg)
	register("fnabs", emitFnabs)
	register("frsp", emitFrsp)
	register("fctiwz", emitFctiwz)
	register("fctidz", emitFctidz)
	register("fcfid", emitFcfid)
	register("fmr", emitFmr)
	register("fsqrt", emitFsqrt)
	register("mffs", emitMffs)
	register("mtfsf", emitMtfsf)
	register("fcmpu", emitFcmpu)
	register("fcmpo", emitFcmpo)
}

func floatDform(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, d)
		emitFloatLoad(fc, frt, addr, width)
	}
}

func floatDformU(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, d)
		emitFloatLoad(fc, frt, addr, width)
		fc.emit("%s.u64 = %s;", fc.r(ra), addr)
	}
}

func floatXform(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
		addr := eaX(fc, ra, rb)
		emitFloatLoad(fc, frt, addr, width)
	}
}

func floatXformU(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
		addr := eaX(fc, ra, rb)
		emitFloatLoad(fc, frt, addr, width)
		fc.emit("%s.u64 = %s;", fc.r(ra), addr)
	}
}

func emitFloatLoad(fc *funcCtx, frt uint32, addr string, width int) {
	if width == 4 {
		fc.emit("%s.f64 = PPC_LOAD_F32(%s);", fc.f(frt), addr)
		return
	}
	fc.emit("%s.f64 = PPC_LOAD_F64(%s);", fc.f(frt), addr)
}

func floatStoreDform(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, d)
		emitFloatStore(fc, frt, addr, width, fc.nextWordIsEieio(inst.Addr))
	}
}

func floatStoreDformU(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, d)
		emitFloatStore(fc, frt, addr, width, false)
		fc.emit("%s.u64 = %s;", fc.r(ra), addr)
	}
}

func floatStoreXform(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
		addr := eaX(fc, ra, rb)
		emitFloatStore(fc, frt, addr, width, fc.nextWordIsEieio(inst.Addr))
	}
}

func floatStoreXformU(width int) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
		addr := eaX(fc, ra, rb)
		emitFloatStore(fc, frt, addr, width, false)
		fc.emit("%s.u64 = %s;", fc.r(ra), addr)
	}
}

func emitFloatStore(fc *funcCtx, frt uint32, addr string, width int, mmio bool) {
	if width == 4 {
		if mmio {
			fc.emit("PPC_MM_STORE_F32(%s, %s.f64);", addr, fc.f(frt))
			return
		}
		fc.emit("PPC_STORE_F32(%s, %s.f64);", addr, fc.f(frt))
		return
	}
	if mmio {
		fc.emit("PPC_MM_STORE_F64(%s, %s.f64);", addr, fc.f(frt))
		return
	}
	fc.emit("PPC_STORE_F64(%s, %s.f64);", addr, fc.f(frt))
}

// faBinary builds fadd/fsub/fmul/fdiv and their single-precision
// variants, which all share the [FRT, FRA, operand] shape regardless of
// whether the ppc decoder pulled the second operand from the FRC or FRB
// field.
func faBinary(op string, single bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, fra, frb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
		expr := fmt.Sprintf("%s.f64 %s %s.f64", fc.f(fra), op, fc.f(frb))
		if single {
			expr = fmt.Sprintf("float(%s)", expr)
		}
		fc.emit("%s.f64 = %s;", fc.f(frt), expr)
	}
}

func fma(subtract, single bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, fra, frc, frb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
		op := "+"
		if subtract {
			op = "-"
		}
		expr := fmt.Sprintf("(%s.f64 * %s.f64) %s %s.f64", fc.f(fra), fc.f(frc), op, fc.f(frb))
		if single {
			expr = fmt.Sprintf("float(%s)", expr)
		}
		fc.emit("%s.f64 = %s;", fc.f(frt), expr)
	}
}

func fnma(subtract, single bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		fc.ensureFPU()
		frt, fra, frc, frb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2]), uint32(inst.Operands[3])
		op := "+"
		if subtract {
			op = "-"
		}
		expr := fmt.Sprintf("-((%s.f64 * %s.f64) %s %s.f64)", fc.f(fra), fc.f(frc), op, fc.f(frb))
		if single {
			expr = fmt.Sprintf("float(%s)", expr)
		}
		fc.emit("%s.f64 = %s;", fc.f(frt), expr)
	}
}

func fxOperands(inst *ppc.Instruction) (frt, frb uint32) {
	return uint32(inst.Operands[0]), uint32(inst.Operands[1])
}

func emitFabs(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.f64 = fabs(%s.f64);", fc.f(frt), fc.f(frb))
}

func emitFneg(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.f64 = -%s.f64;", fc.f(frt), fc.f(frb))
}

func emitFnabs(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.f64 = -fabs(%s.f64);", fc.f(frt), fc.f(frb))
}

func emitFrsp(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.f64 = float(%s.f64);", fc.f(frt), fc.f(frb))
}

func emitFctiwz(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.s64 = (%s.f64 > double(INT_MAX)) ? INT_MAX : int32_t(%s.f64);", fc.f(frt), fc.f(frb), fc.f(frb))
}

func emitFctidz(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.s64 = (%s.f64 > double(LLONG_MAX)) ? LLONG_MAX : int64_t(%s.f64);", fc.f(frt), fc.f(frb), fc.f(frb))
}

func emitFcfid(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.f64 = double(%s.s64);", fc.f(frt), fc.f(frb))
}

func emitFmr(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.f64 = %s.f64;", fc.f(frt), fc.f(frb))
}

func emitFsqrt(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt, frb := fxOperands(inst)
	fc.emit("%s.f64 = sqrt(%s.f64);", fc.f(frt), fc.f(frb))
}

func emitMffs(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	frt := uint32(inst.Operands[0])
	fc.emit("%s.u64 = ctx.fpscr.asInteger();", fc.f(frt))
}

func emitMtfsf(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	fm, frb := inst.Operands[0], uint32(inst.Operands[1])
	fc.emit("ctx.fpscr.setMasked(%s, %s.u64);", itoa(fm), fc.f(frb))
}

func emitFcmpu(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	bf, fra, frb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	emitCompare(fc, bf, "double", fc.f(fra)+".f64", fc.f(frb)+".f64")
}

func emitFcmpo(fc *funcCtx, inst *ppc.Instruction) {
	fc.ensureFPU()
	bf, fra, frb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	emitCompare(fc, bf, "double", fc.f(fra)+".f64", fc.f(frb)+".f64")
}
