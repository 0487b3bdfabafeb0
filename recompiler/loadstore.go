package recompiler

import "github.com/xenonrecomp/recomp/ppc"

func init() {
	register("lwz", dform(4, false, false))
	register("lwzu", dform(4, false, true))
	register("lbz", dform(1, false, false))
	register("lbzu", dform(1, false, true))
	register("lhz", dform(2, false, false))
	register("lhzu", dform(2, false, true))
	register("lha", dformSigned(2, false))
	register("lhau", dformSigned(2, true))

	register("lwzx", xform(4, false, false))
	register("lwzux", xform(4, false, true))
	register("lbzx", xform(1, false, false))
	register("lbzux", xform(1, false, true))
	register("lhzx", xform(2, false, false))
	register("lhzux", xform(2, false, true))
	register("lhax", xformSigned(2, false))
	register("lhaux", xformSigned(2, true))

	register("ld", dsform(false))
	register("ldu", dsform(true))
	register("lwa", dsformSigned())

	register("stw", storeDform(4, false))
	register("stwu", storeDform(4, true))
	register("stb", storeDform(1, false))
	register("stbu", storeDform(1, true))
	register("sth", storeDform(2, false))
	register("sthu", storeDform(2, true))

	register("stwx", storeXform(4, false))
	register("stwux", storeXform(4, true))
	register("stbx", storeXform(1, false))
	register("stbux", storeXform(1, true))
	register("sthx", storeXform(2, false))
	register("sthux", storeXform(2, true))

	register("std", storeDsform(false))
	register("stdu", storeDsform(true))

	register("lwarx", emitLwarx)
	register("ldarx", emitLdarx)
	register("stwcx.", emitStwcx)
	register("stdcx.", emitStdcx)

	register("lmw", emitLmw)
	register("stmw", emitStmw)
}

func loadMacro(width int, signed bool) string {
	switch width {
	case 1:
		if signed {
			return "PPC_LOAD_S8"
		}
		return "PPC_LOAD_U8"
	case 2:
		if signed {
			return "PPC_LOAD_S16"
		}
		return "PPC_LOAD_U16"
	case 4:
		if signed {
			return "PPC_LOAD_S32"
		}
		return "PPC_LOAD_U32"
	default:
		return "PPC_LOAD_U64"
	}
}

// storeMacro picks the plain or MMIO-qualified store macro for width. mmio
// is set when the instruction immediately following this store is eieio,
// which the MMIO-qualified macro accounts for by forcing the write through
// without host-side reordering.
func storeMacro(width int, mmio bool) string {
	switch width {
	case 1:
		if mmio {
			return "PPC_MM_STORE_U8"
		}
		return "PPC_STORE_U8"
	case 2:
		if mmio {
			return "PPC_MM_STORE_U16"
		}
		return "PPC_STORE_U16"
	case 4:
		if mmio {
			return "PPC_MM_STORE_U32"
		}
		return "PPC_STORE_U32"
	default:
		if mmio {
			return "PPC_MM_STORE_U64"
		}
		return "PPC_STORE_U64"
	}
}

func loadField(signed bool) string {
	if signed {
		return "s64"
	}
	return "u64"
}

// dform builds a D-form [RT, D, RA] load handler for the given
// width/signedness, optionally writing the computed effective address
// back into RA (the "u" update forms).
func dform(width int, signed, update bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		rt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, d)
		fc.emit("%s.%s = %s(%s);", fc.r(rt), loadField(signed), loadMacro(width, signed), addr)
		if update {
			fc.emit("%s.u64 = %s;", fc.r(ra), addr)
		}
	}
}

func dformSigned(update bool) handlerFunc { return dform(2, true, update) }

func xform(width int, signed, update bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		rt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
		addr := eaX(fc, ra, rb)
		fc.emit("%s.%s = %s(%s);", fc.r(rt), loadField(signed), loadMacro(width, signed), addr)
		if update {
			fc.emit("%s.u64 = %s;", fc.r(ra), addr)
		}
	}
}

func xformSigned(update bool) handlerFunc { return xform(2, true, update) }

// dsform builds the DS-form [RT, DS, RA] handler ld/ldu share; DS is
// already the pre-scaled byte displacement by the time it reaches
// Operands, so it is treated exactly like a D-form displacement here.
func dsform(update bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		rt, ds, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, ds)
		fc.emit("%s.u64 = %s(%s);", fc.r(rt), loadMacro(8, false), addr)
		if update {
			fc.emit("%s.u64 = %s;", fc.r(ra), addr)
		}
	}
}

func dsformSigned() handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		rt, ds, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, ds)
		fc.emit("%s.s64 = %s(%s);", fc.r(rt), loadMacro(4, true), addr)
	}
}

// mmioStore reports whether the store at inst.Addr should use the
// MMIO-qualified macro: only the non-update store forms check, matching
// the original tool, since the update forms never did.
func mmioStore(fc *funcCtx, inst *ppc.Instruction, update bool) bool {
	return !update && fc.nextWordIsEieio(inst.Addr)
}

func storeDform(width int, update bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		rt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, d)
		fc.emit("%s(%s, %s.u32);", storeMacro(width, mmioStore(fc, inst, update)), addr, fc.r(rt))
		if update {
			fc.emit("%s.u64 = %s;", fc.r(ra), addr)
		}
	}
}

func storeXform(width int, update bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		rt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
		addr := eaX(fc, ra, rb)
		fc.emit("%s(%s, %s.u32);", storeMacro(width, mmioStore(fc, inst, update)), addr, fc.r(rt))
		if update {
			fc.emit("%s.u64 = %s;", fc.r(ra), addr)
		}
	}
}

func storeDsform(update bool) handlerFunc {
	return func(fc *funcCtx, inst *ppc.Instruction) {
		rt, ds, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
		addr := ea(fc, ra, ds)
		fc.emit("%s(%s, %s.u64);", storeMacro(8, mmioStore(fc, inst, update)), addr, fc.r(rt))
		if update {
			fc.emit("%s.u64 = %s;", fc.r(ra), addr)
		}
	}
}

// emitLwarx stores the raw (non-byteswapped) loaded word into the
// reservation register and byteswaps a copy into RT, matching the CAS in
// stwcx. comparing against the same raw bytes it reserved.
func emitLwarx(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	addr := eaX(fc, ra, rb)
	fc.emit("%s.u32 = *(uint32_t*)(base + %s);", fc.reserved(), addr)
	fc.emit("%s.u64 = __builtin_bswap32(%s.u32);", fc.r(rt), fc.reserved())
}

func emitLdarx(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	addr := eaX(fc, ra, rb)
	fc.emit("%s.u64 = *(uint64_t*)(base + %s);", fc.reserved(), addr)
	fc.emit("%s.u64 = __builtin_bswap64(%s.u64);", fc.r(rt), fc.reserved())
}

// emitStwcx performs the real compare-and-swap: the byteswapped RT value is
// only written if the memory still holds what lwarx reserved.
func emitStwcx(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	addr := eaX(fc, ra, rb)
	fc.emit("%s.lt = 0;", fc.cr(0))
	fc.emit("%s.gt = 0;", fc.cr(0))
	fc.emit("%s.eq = __sync_bool_compare_and_swap(reinterpret_cast<uint32_t*>(base + %s), %s.s32, __builtin_bswap32(%s.s32));",
		fc.cr(0), addr, fc.reserved(), fc.r(rt))
	fc.emit("%s.so = %s.so;", fc.cr(0), fc.xer())
}

func emitStdcx(fc *funcCtx, inst *ppc.Instruction) {
	rt, ra, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	addr := eaX(fc, ra, rb)
	fc.emit("%s.lt = 0;", fc.cr(0))
	fc.emit("%s.gt = 0;", fc.cr(0))
	fc.emit("%s.eq = __sync_bool_compare_and_swap(reinterpret_cast<uint64_t*>(base + %s), %s.s64, __builtin_bswap64(%s.s64));",
		fc.cr(0), addr, fc.reserved(), fc.r(rt))
	fc.emit("%s.so = %s.so;", fc.cr(0), fc.xer())
}

// emitLmw unrolls the multi-word load into one statement per register
// from RT through r31, since the register count is a decode-time
// constant.
func emitLmw(fc *funcCtx, inst *ppc.Instruction) {
	rt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
	base := ea(fc, ra, d)
	for i := rt; i <= 31; i++ {
		fc.emit("%s.u64 = PPC_LOAD_U32(%s);", fc.r(i), fmtAdd(base, int64(i-rt)*4))
	}
}

func emitStmw(fc *funcCtx, inst *ppc.Instruction) {
	rt, d, ra := uint32(inst.Operands[0]), inst.Operands[1], uint32(inst.Operands[2])
	base := ea(fc, ra, d)
	for i := rt; i <= 31; i++ {
		fc.emit("PPC_STORE_U32(%s, %s.u32);", fmtAdd(base, int64(i-rt)*4), fc.r(i))
	}
}
