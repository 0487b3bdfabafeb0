package recompiler

import (
	"fmt"
	"strings"

	"github.com/xenonrecomp/recomp/ppc"
)

func init() {
	register("b", emitB)
	register("bl", emitBl)
	register("bc", emitBc)
	register("bcl", emitBcl)
	register("bclr", emitBclr)
	register("bclrl", emitBclrl)
	register("bcctr", emitBcctr)
	register("bcctrl", emitBcctrl)
	register("sc", emitSc)
	register("isync", emitNoop)
	register("sync", emitNoop)
	register("eieio", emitNoop)
	register("rfid", emitRfid)
}

// branchCond builds the boolean expression a conditional branch tests,
// decomposing BO per ppc's BOCRIgnored/BOCondTrue/BOCTRIgnored/BOCtrZero
// helpers. Only called once BOBranchAlways has ruled out the unconditional
// case.
func branchCond(fc *funcCtx, bo, bi uint32) string {
	var parts []string
	if !ppc.BOCTRIgnored(bo) {
		if ppc.BOCtrZero(bo) {
			parts = append(parts, fc.ctr()+".u64 == 0")
		} else {
			parts = append(parts, fc.ctr()+".u64 != 0")
		}
	}
	if !ppc.BOCRIgnored(bo) {
		bit := crBit(fc, bi)
		if ppc.BOCondTrue(bo) {
			parts = append(parts, bit)
		} else {
			parts = append(parts, "!"+bit)
		}
	}
	return strings.Join(parts, " && ")
}

func decrementCtr(fc *funcCtx, bo uint32) {
	if !ppc.BOCTRIgnored(bo) {
		fc.emit("%s.u64 = %s.u64 - 1;", fc.ctr(), fc.ctr())
	}
}

func emitB(fc *funcCtx, inst *ppc.Instruction) {
	target := uint32(inst.Operands[0])
	if fc.inRange(target) {
		fc.emit("goto %s;", label(target))
		return
	}
	fc.emitCall(target)
	fc.emit("return;")
}

func emitBl(fc *funcCtx, inst *ppc.Instruction) {
	target := uint32(inst.Operands[0])
	setLR(fc, inst.Addr+4)
	fc.emitCall(target)
	fc.resetCSR()
}

func setLR(fc *funcCtx, ret uint32) {
	if !fc.rc.Config.SkipLR {
		fc.emit("ctx.lr = 0x%X;", ret)
	}
}

func callStmt(fc *funcCtx, target uint32) string {
	r := fc.rc.resolveCall(fc, target)
	if r.isError {
		fc.rc.emitter.diagnostic("unresolved call target 0x%08X in %s", target, fc.rc.functionName(fc.fn.Base))
	}
	return r.text
}

func emitBc(fc *funcCtx, inst *ppc.Instruction) {
	bo, bi, bd := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	decrementCtr(fc, bo)
	if ppc.BOBranchAlways(bo) {
		if fc.inRange(bd) {
			fc.emit("goto %s;", label(bd))
		} else {
			fc.emitCall(bd)
			fc.emit("return;")
		}
		return
	}
	cond := branchCond(fc, bo, bi)
	if fc.inRange(bd) {
		fc.emit("if (%s) goto %s;", cond, label(bd))
		return
	}
	fc.emit("if (%s) { %s return; }", cond, callStmt(fc, bd))
}

func emitBcl(fc *funcCtx, inst *ppc.Instruction) {
	bo, bi, bd := uint32(inst.Operands[0]), uint32(inst.Operands[1]), uint32(inst.Operands[2])
	decrementCtr(fc, bo)
	retAddr := inst.Addr + 4
	var lrStmt string
	if !fc.rc.Config.SkipLR {
		lrStmt = fmt.Sprintf("ctx.lr = 0x%X; ", retAddr)
	}
	if ppc.BOBranchAlways(bo) {
		fc.emit("%s%s", lrStmt, callStmt(fc, bd))
		fc.resetCSR()
		return
	}
	cond := branchCond(fc, bo, bi)
	fc.emit("if (%s) { %s%s }", cond, lrStmt, callStmt(fc, bd))
	fc.resetCSR()
}

func emitBclr(fc *funcCtx, inst *ppc.Instruction) {
	bo, bi := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	decrementCtr(fc, bo)
	if ppc.BOBranchAlways(bo) {
		fc.emit("return;")
		return
	}
	cond := branchCond(fc, bo, bi)
	fc.emit("if (%s) return;", cond)
}

// emitBclrl models the rare branch-and-link-through-LR form as an
// indirect call through the value LR held before this instruction
// overwrote it. Approximated: no captured original-source text covers
// this path, since it almost never appears in compiler output.
func emitBclrl(fc *funcCtx, inst *ppc.Instruction) {
	bo, bi := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	decrementCtr(fc, bo)
	retAddr := inst.Addr + 4
	target := fc.temp()
	fc.emit("%s.u64 = ctx.lr;", target)
	call := fmt.Sprintf("PPC_CALL_INDIRECT_FUNC(%s.u32)(ctx, base);", target)
	var lrStmt string
	if !fc.rc.Config.SkipLR {
		lrStmt = fmt.Sprintf("ctx.lr = 0x%X; ", retAddr)
	}
	if ppc.BOBranchAlways(bo) {
		fc.emit("%s%s", lrStmt, call)
		fc.resetCSR()
		return
	}
	cond := branchCond(fc, bo, bi)
	fc.emit("if (%s) { %s%s }", cond, lrStmt, call)
	fc.resetCSR()
}

func emitBcctr(fc *funcCtx, inst *ppc.Instruction) {
	bo, bi := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	decrementCtr(fc, bo)
	if ppc.BOBranchAlways(bo) {
		if fc.switchTable != nil {
			emitSwitch(fc, fc.switchTable.R, fc.switchTable.Labels)
			return
		}
		fc.emit("PPC_CALL_INDIRECT_FUNC(%s.u32)(ctx, base);", fc.ctr())
		fc.emit("return;")
		return
	}
	cond := branchCond(fc, bo, bi)
	if fc.switchTable != nil {
		fc.emit("if (%s) {", cond)
		emitSwitch(fc, fc.switchTable.R, fc.switchTable.Labels)
		fc.emit("}")
		return
	}
	fc.emit("if (%s) { PPC_CALL_INDIRECT_FUNC(%s.u32)(ctx, base); return; }", cond, fc.ctr())
}

func emitBcctrl(fc *funcCtx, inst *ppc.Instruction) {
	bo, bi := uint32(inst.Operands[0]), uint32(inst.Operands[1])
	decrementCtr(fc, bo)
	call := fmt.Sprintf("PPC_CALL_INDIRECT_FUNC(%s.u32)(ctx, base);", fc.ctr())
	if ppc.BOBranchAlways(bo) {
		fc.emit("%s", call)
		fc.resetCSR()
		return
	}
	cond := branchCond(fc, bo, bi)
	fc.emit("if (%s) { %s }", cond, call)
	fc.resetCSR()
}

// emitSwitch emits the dense jump-table dispatch form spec.md's bctr
// scenario expects: one case per resolved label, falling back to
// __builtin_unreachable() for out-of-range indices. A label outside the
// current function has no goto target to land on (computeLabels only
// registers in-function labels), so that arm emits an error comment and
// returns instead of a dangling goto.
func emitSwitch(fc *funcCtx, r uint32, labels []uint32) {
	var b strings.Builder
	fmt.Fprintf(&b, "switch (%s.u64) { ", fc.r(r))
	for i, l := range labels {
		if fc.inRange(l) {
			fmt.Fprintf(&b, "case %d: goto %s; ", i, label(l))
			continue
		}
		fmt.Fprintf(&b, "case %d: // ERROR 0x%08X\n\treturn; ", i, l)
		fc.rc.emitter.diagnostic("switch case %d at 0x%08X targets out-of-function address 0x%08X", i, fc.fn.Base, l)
	}
	b.WriteString("default: __builtin_unreachable(); }")
	fc.emit("%s", b.String())
}

func emitSc(fc *funcCtx, inst *ppc.Instruction) {
	fc.emit("PPC_SYSCALL(ctx, base);")
}

func emitNoop(fc *funcCtx, inst *ppc.Instruction) {
	fc.emit("// %s", inst.Mnemonic())
}

func emitRfid(fc *funcCtx, inst *ppc.Instruction) {
	fc.emit("return;")
}
