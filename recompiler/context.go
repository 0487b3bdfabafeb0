package recompiler

import (
	"fmt"
	"strings"

	"github.com/xenonrecomp/recomp/analysis"
	"github.com/xenonrecomp/recomp/config"
	"github.com/xenonrecomp/recomp/ppc"
)

// funcCtx is the per-function state threaded through one function's
// instruction walk: the register namer and its accumulated
// LocalVariables, the label set computed by the pre-scan, and the CSR
// shadow-state machine.
type funcCtx struct {
	rc  *Recompiler
	fn  *analysis.Function
	n   *registerNamer
	loc *LocalVariables

	// code is fn's raw instruction bytes, kept around so store handlers can
	// peek at the word right after the current one without consuming it.
	code []byte

	labels map[uint32]bool
	csr    CSRState

	allRecompiled bool

	// switchTable is set for the current instruction's address when it
	// names a resolved bctr jump table.
	switchTable *config.SwitchTable

	// out is the scratch buffer the current function's body is assembled
	// into before the Emitter's shared batch buffer receives it.
	out *strings.Builder
}

func (fc *funcCtx) inRange(addr uint32) bool {
	return addr >= fc.fn.Base && addr < fc.fn.Base+fc.fn.Size
}

// nextWordIsEieio reports whether the word immediately following addr
// (which must be the currently-handled instruction's address) is the
// eieio memory-barrier encoding, without consuming it: eieio still gets
// decoded and emitted as its own no-op instruction.
func (fc *funcCtx) nextWordIsEieio(addr uint32) bool {
	off := addr - fc.fn.Base + 4
	if off+4 > fc.fn.Size {
		return false
	}
	return beWord(fc.code, off) == eieio
}

func (fc *funcCtx) r(i uint32) string        { return fc.n.r(i) }
func (fc *funcCtx) f(i uint32) string        { return fc.n.f(i) }
func (fc *funcCtx) v(i uint32) string        { return fc.n.v(i) }
func (fc *funcCtx) cr(i uint32) string       { return fc.n.cr(i) }
func (fc *funcCtx) ctr() string              { return fc.n.ctr() }
func (fc *funcCtx) xer() string              { return fc.n.xer() }
func (fc *funcCtx) reserved() string         { return fc.n.reserved() }
func (fc *funcCtx) temp() string             { return fc.n.temp() }
func (fc *funcCtx) vTemp() string            { return fc.n.vTemp() }
func (fc *funcCtx) env() string              { return fc.n.env() }
func (fc *funcCtx) ea() string               { return fc.n.ea() }

// emit appends one indented statement line to the current function's
// scratch output buffer.
func (fc *funcCtx) emit(format string, args ...any) {
	fc.out.WriteByte('\t')
	fmt.Fprintf(fc.out, format, args...)
	fc.out.WriteByte('\n')
}

// label formats the goto-target spelling for a guest address.
func label(addr uint32) string {
	return fmt.Sprintf("loc_%X", addr)
}

// computeLabels pre-scans a function's instructions to collect every
// address a goto must be able to target: in-function branch destinations,
// switch-table case labels, and mid-asm-hook jump targets.
func computeLabels(rc *Recompiler, fn *analysis.Function) map[uint32]bool {
	labels := make(map[uint32]bool)
	code := rc.Image.Find(fn.Base)
	for off := uint32(0); off+4 <= fn.Size; off += 4 {
		addr := fn.Base + off
		word := beWord(code, off)
		inst := ppc.Decode(word, addr)
		if inst.Unrecognized() {
			continue
		}
		switch inst.Mnemonic() {
		case "b":
			target := uint32(inst.Operands[0])
			if fn.Base <= target && target < fn.Base+fn.Size {
				labels[target] = true
			}
		case "bc", "bcl":
			target := uint32(inst.Operands[2])
			if fn.Base <= target && target < fn.Base+fn.Size {
				labels[target] = true
			}
		}
		if st, ok := rc.Config.SwitchTables[addr]; ok {
			for _, l := range st.Labels {
				if fn.Base <= l && l < fn.Base+fn.Size {
					labels[l] = true
				}
			}
		}
	}
	for _, hook := range rc.Config.MidAsmHooks {
		for _, target := range []uint32{hook.JumpAddress, hook.JumpAddressOnTrue, hook.JumpAddressOnFalse} {
			if target != 0 && fn.Base <= target && target < fn.Base+fn.Size {
				labels[target] = true
			}
		}
	}
	return labels
}

// hookAt pairs a configured mid-asm hook with the guest address it keys,
// since config.MidAsmHook itself doesn't carry its own address.
type hookAt struct {
	Addr uint32
	Hook config.MidAsmHook
}

// midAsmHooksIn returns every configured hook whose address falls within
// fn, for the extern-prototype pre-scan and the per-instruction call site.
func midAsmHooksIn(rc *Recompiler, fn *analysis.Function) []hookAt {
	var hooks []hookAt
	for addr, hook := range rc.Config.MidAsmHooks {
		if fn.Base <= addr && addr < fn.Base+fn.Size {
			hooks = append(hooks, hookAt{Addr: addr, Hook: hook})
		}
	}
	return hooks
}

// hookParamType guesses the host pointer type passed for a register name
// like "r3", "f1", "v2", "cr0", "ctr", "xer".
func hookParamType(reg string) string {
	switch {
	case strings.HasPrefix(reg, "r"):
		return "PPCRegister*"
	case strings.HasPrefix(reg, "f"):
		return "PPCRegister*"
	case strings.HasPrefix(reg, "v"):
		return "PPCVRegister*"
	case strings.HasPrefix(reg, "cr"):
		return "PPCCRRegister*"
	default:
		return "PPCRegister*"
	}
}

// hookAccessor resolves the promoted-or-spilled spelling for a register
// name referenced by a mid-asm hook's register list.
func (fc *funcCtx) hookAccessor(reg string) string {
	switch {
	case strings.HasPrefix(reg, "cr"):
		var idx uint32
		fmt.Sscanf(reg, "cr%d", &idx)
		return fc.cr(idx)
	case strings.HasPrefix(reg, "r"):
		var idx uint32
		fmt.Sscanf(reg, "r%d", &idx)
		return fc.r(idx)
	case strings.HasPrefix(reg, "f"):
		var idx uint32
		fmt.Sscanf(reg, "f%d", &idx)
		return fc.f(idx)
	case strings.HasPrefix(reg, "v"):
		var idx uint32
		fmt.Sscanf(reg, "v%d", &idx)
		return fc.v(idx)
	case reg == "ctr":
		return fc.ctr()
	case reg == "xer":
		return fc.xer()
	default:
		return reg
	}
}

// emitHookCall emits the call to a mid-asm hook and whatever control flow
// its Return/JumpAddress fields (exactly one group per config.MidAsmHookConflicts)
// drive.
func (fc *funcCtx) emitHookCall(hook config.MidAsmHook) {
	args := make([]string, len(hook.Registers))
	for i, reg := range hook.Registers {
		args[i] = "&" + fc.hookAccessor(reg)
	}
	call := fmt.Sprintf("%s(%s)", hook.Name, strings.Join(args, ", "))

	switch {
	case hook.Return:
		fc.emit("%s;", call)
		fc.emit("return;")
	case hook.JumpAddress != 0:
		fc.emit("%s;", call)
		fc.emit("goto %s;", label(hook.JumpAddress))
	case hook.ReturnOnTrue:
		fc.emit("if (%s) return;", call)
	case hook.ReturnOnFalse:
		fc.emit("if (!(%s)) return;", call)
	case hook.JumpAddressOnTrue != 0:
		fc.emit("if (%s) goto %s;", call, label(hook.JumpAddressOnTrue))
	case hook.JumpAddressOnFalse != 0:
		fc.emit("if (!(%s)) goto %s;", call, label(hook.JumpAddressOnFalse))
	default:
		fc.emit("%s;", call)
	}
}

func beWord(code []byte, offset uint32) uint32 {
	return uint32(code[offset])<<24 | uint32(code[offset+1])<<16 | uint32(code[offset+2])<<8 | uint32(code[offset+3])
}
