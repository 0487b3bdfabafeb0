package recompiler

import (
	"fmt"

	"github.com/xenonrecomp/recomp/ppc"
)

func init() {
	register("rlwinm", emitRlwinm)
	register("rlwimi", emitRlwimi)
	register("rlwnm", emitRlwnm)
	register("rldicl", emitRldicl)
}

// rotateMask duplicates ppc's unexported computeMask (bitfields.go):
// trivial bit arithmetic not worth exporting across the package boundary
// for a single caller.
func rotateMask(mstart, mstop uint) uint64 {
	var value uint64
	if mstop >= 63 {
		value = 0xFFFFFFFFFFFFFFFF >> mstart
	} else {
		value = (0xFFFFFFFFFFFFFFFF >> mstart) ^ (0xFFFFFFFFFFFFFFFF >> (mstop + 1))
	}
	if mstart <= mstop {
		return value
	}
	return ^value
}

// word32Mask maps a 32-bit rlwinm-family MB/ME pair (0..31, PowerPC
// MSB-first numbering) onto the 64-bit mask that applies after the 32-bit
// value has been duplicated into both halves of a 64-bit word, which is
// the trick used to implement the 32-bit rotate with a 64-bit rotate
// builtin.
func word32Mask(mb, me uint32) uint64 {
	return rotateMask(uint(mb)+32, uint(me)+32)
}

func hexLit(v uint64) string {
	return fmt.Sprintf("0x%X", v)
}

// emitRlwinm reads the [RA(dest), RS, SHIFT, MB, ME] shape shared by
// rlwinm/rlwimi/rlwnm, where SHIFT is either an immediate or a register
// operand depending on the caller.
func emitRlwinm(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	sh := inst.Operands[2]
	mb, me := uint32(inst.Operands[3]), uint32(inst.Operands[4])
	mask := word32Mask(mb, me)
	fc.emit("%s.u64 = __builtin_rotateleft64(%s.u32 | (%s.u64 << 32), %s) & %s;",
		fc.r(ra), fc.r(rs), fc.r(rs), itoa(sh), hexLit(mask))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

// emitRlwimi preserves the bits word32Mask excludes, merging the rotated
// source into the destination's untouched field.
func emitRlwimi(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	sh := inst.Operands[2]
	mb, me := uint32(inst.Operands[3]), uint32(inst.Operands[4])
	mask := word32Mask(mb, me)
	fc.emit("%s.u64 = (%s.u64 & %s) | (__builtin_rotateleft64(%s.u32 | (%s.u64 << 32), %s) & %s);",
		fc.r(ra), fc.r(ra), hexLit(^mask), fc.r(rs), fc.r(rs), itoa(sh), hexLit(mask))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitRlwnm(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs, rb := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	mb, me := uint32(inst.Operands[3]), uint32(inst.Operands[4])
	mask := word32Mask(mb, me)
	fc.emit("%s.u64 = __builtin_rotateleft64(%s.u32 | (%s.u64 << 32), %s.u32 & 0x1F) & %s;",
		fc.r(ra), fc.r(rs), fc.r(rs), fc.r(rb), hexLit(mask))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s32")
	}
}

func emitRldicl(fc *funcCtx, inst *ppc.Instruction) {
	ra, rs := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	sh := inst.Operands[2]
	mb := uint32(inst.Operands[3])
	mask := rotateMask(uint(mb), 63)
	fc.emit("%s.u64 = __builtin_rotateleft64(%s.u64, %s) & %s;", fc.r(ra), fc.r(rs), itoa(sh), hexLit(mask))
	if isRecordForm(inst) {
		emitCompareRc(fc, fc.r(ra)+".s64")
	}
}
