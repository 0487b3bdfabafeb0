package recompiler

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/xenonrecomp/recomp/ppc"
)

func init() {
	register("mfspr", emitMfspr)
	register("mtspr", emitMtspr)
	register("mfcr", emitMfcr)
	register("mfocrf", emitMfocrf)
	register("mtcrf", emitMtcrf)
	register("mfmsr", emitMfmsr)
	register("mtmsrd", emitMtmsrd)
}

func emitMfspr(fc *funcCtx, inst *ppc.Instruction) {
	rt, spr := uint32(inst.Operands[0]), inst.Operands[1]
	switch spr {
	case 1:
		fc.emit("%s.u64 = %s.u64;", fc.r(rt), fc.xer())
	case 8:
		fc.emit("%s.u64 = ctx.lr;", fc.r(rt))
	case 9:
		fc.emit("%s.u64 = %s.u64;", fc.r(rt), fc.ctr())
	default:
		fc.rc.emitter.diagnostic("mfspr of unrecognized spr %d at 0x%08X", spr, inst.Addr)
		fc.emit("%s.u64 = 0; // unrecognized spr %s", fc.r(rt), itoa(spr))
	}
}

func emitMtspr(fc *funcCtx, inst *ppc.Instruction) {
	spr, rt := inst.Operands[0], uint32(inst.Operands[1])
	switch spr {
	case 1:
		fc.emit("%s.u64 = %s.u64;", fc.xer(), fc.r(rt))
	case 8:
		fc.emit("ctx.lr = %s.u32;", fc.r(rt))
	case 9:
		fc.emit("%s.u64 = %s.u64;", fc.ctr(), fc.r(rt))
	default:
		fc.rc.emitter.diagnostic("mtspr of unrecognized spr %d at 0x%08X", spr, inst.Addr)
		fc.emit("// unrecognized spr %s", itoa(spr))
	}
}

// packCR builds the expression that lays every CR field's four condition
// bits into their architected bit positions of a 32-bit word, for mfcr.
func packCR(fc *funcCtx) string {
	var parts []string
	for i := 0; i < 8; i++ {
		base := 31 - 4*i
		cr := fc.cr(uint32(i))
		parts = append(parts,
			fmt.Sprintf("(%s.lt << %d)", cr, base),
			fmt.Sprintf("(%s.gt << %d)", cr, base-1),
			fmt.Sprintf("(%s.eq << %d)", cr, base-2),
			fmt.Sprintf("(%s.so << %d)", cr, base-3),
		)
	}
	return strings.Join(parts, " | ")
}

func emitMfcr(fc *funcCtx, inst *ppc.Instruction) {
	rt := uint32(inst.Operands[0])
	fc.emit("%s.u64 = %s;", fc.r(rt), packCR(fc))
}

func emitMfocrf(fc *funcCtx, inst *ppc.Instruction) {
	rt := uint32(inst.Operands[0])
	fxm := uint64(inst.Operands[1])
	field := 7 - bits.TrailingZeros64(fxm)
	base := 31 - 4*field
	cr := fc.cr(uint32(field))
	fc.emit("%s.u64 = (%s.lt << %d) | (%s.gt << %d) | (%s.eq << %d) | (%s.so << %d);",
		fc.r(rt), cr, base, cr, base-1, cr, base-2, cr, base-3)
}

func emitMtcrf(fc *funcCtx, inst *ppc.Instruction) {
	crm, rt := uint64(inst.Operands[0]), uint32(inst.Operands[1])
	for i := 0; i < 8; i++ {
		if crm&(1<<uint(7-i)) == 0 {
			continue
		}
		base := 31 - 4*i
		cr := fc.cr(uint32(i))
		fc.emit("%s.lt = (%s.u32 >> %d) & 1;", cr, fc.r(rt), base)
		fc.emit("%s.gt = (%s.u32 >> %d) & 1;", cr, fc.r(rt), base-1)
		fc.emit("%s.eq = (%s.u32 >> %d) & 1;", cr, fc.r(rt), base-2)
		fc.emit("%s.so = (%s.u32 >> %d) & 1;", cr, fc.r(rt), base-3)
	}
}

// emitMfmsr and emitMtmsrd both drop out entirely when SkipMSR is set,
// since machine-state-register emulation is explicitly out of scope for
// configurations that never read hardware MSR bits.
func emitMfmsr(fc *funcCtx, inst *ppc.Instruction) {
	if fc.rc.Config.SkipMSR {
		return
	}
	rt := uint32(inst.Operands[0])
	fc.emit("%s.u64 = ctx.msr;", fc.r(rt))
}

func emitMtmsrd(fc *funcCtx, inst *ppc.Instruction) {
	if fc.rc.Config.SkipMSR {
		return
	}
	rt := uint32(inst.Operands[0])
	fc.emit("ctx.msr = %s.u64;", fc.r(rt))
}
