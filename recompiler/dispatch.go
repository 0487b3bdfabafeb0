package recompiler

import (
	"strconv"

	"github.com/xenonrecomp/recomp/ppc"
)

// handlerFunc emits the host-source fragment for one decoded instruction
// into fc's scratch buffer. Registered per mnemonic in dispatch, built up
// by each instruction family's own file via init().
type handlerFunc func(fc *funcCtx, inst *ppc.Instruction)

// dispatch is the opcode-id-keyed table of function pointers spec.md §9
// calls for, indexed by mnemonic rather than by the numeric opcode id
// since ppc.OpcodeDef.Name is already the stable, collision-free key (two
// mnemonics never share a table entry except where the Rc bit is
// deliberately left free — see isRecordForm).
var dispatch = map[string]handlerFunc{}

func register(name string, h handlerFunc) {
	dispatch[name] = h
}

// isRecordForm reports whether an XO-form instruction's Rc bit (the word's
// low bit) is set. XO-form opcode definitions deliberately leave Rc out of
// their dispatch mask (see ppc/arithmetic.go), so "add" and "add." decode
// to the same table entry and this is the only way to tell them apart.
func isRecordForm(inst *ppc.Instruction) bool {
	return inst.Raw&1 != 0
}

// emitCompareRc emits the record-form CR0 update every "." suffixed
// instruction performs after its primary result write.
func emitCompareRc(fc *funcCtx, result string) {
	fc.emit("%s.compare(%s, 0, %s);", fc.cr(0), result, fc.xer())
}

// emitCompare emits a typed three-argument CR compare, used directly by
// the cmp* family and by record-form updates that need an explicit type.
func emitCompare(fc *funcCtx, crIdx uint32, typ, a, b string) {
	fc.emit("%s.compare<%s>(%s, %s, %s);", fc.cr(crIdx), typ, a, b, fc.xer())
}

// ea builds the D-form effective-address expression: (ra==0 ? 0 :
// ra.u32) + disp, matching the accessor's own "optional zero" convention
// for operandRAOpt (RA=0 means "no base register", not r0 itself).
func ea(fc *funcCtx, ra uint32, disp int64) string {
	if ra == 0 {
		return itoa(disp)
	}
	return fmtAdd(fc.r(ra)+".u32", disp)
}

func fmtAdd(base string, disp int64) string {
	if disp == 0 {
		return base
	}
	if disp < 0 {
		return base + " - " + itoa(-disp)
	}
	return base + " + " + itoa(disp)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// eaX builds the X-form effective-address expression: ra.u32 + rb.u32,
// honoring the same "RA=0 means no base" convention as D-forms.
func eaX(fc *funcCtx, ra, rb uint32) string {
	if ra == 0 {
		return fc.r(rb) + ".u32"
	}
	return fc.r(ra) + ".u32 + " + fc.r(rb) + ".u32"
}
