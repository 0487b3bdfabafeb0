package ppc

import "strings"

var (
	allOpcodes     []*OpcodeDef
	opcodesByMajor map[uint32][]*OpcodeDef
	opcodeCounter  int
)

// defOp registers one decode-table entry. pattern/mask are full 32-bit
// values (matching spec §4.1's "pattern" and "mask" per opcode); major is
// redundant with pattern's top six bits but kept explicit for the
// major-opcode index, mirroring how the table is organized for a linear
// scan within one major opcode's range.
func defOp(name string, major, pattern, mask uint32, dialects Dialect, operands ...*OperandDesc) *OpcodeDef {
	opcodeCounter++
	op := &OpcodeDef{
		Name:     name,
		ID:       opcodeCounter,
		Major:    major,
		Pattern:  pattern,
		Mask:     mask,
		Dialects: dialects,
		Operands: operands,
	}
	allOpcodes = append(allOpcodes, op)
	return op
}

func init() {
	opcodesByMajor = make(map[uint32][]*OpcodeDef, 64)
	for _, op := range allOpcodes {
		opcodesByMajor[op.Major] = append(opcodesByMajor[op.Major], op)
	}
}

// Decode parses a 32-bit big-endian PowerPC instruction word at the given
// guest address into a structured GuestInstruction. It never fails: an
// encoding matching no table entry comes back as Unrecognized.
func Decode(word, addr uint32) *Instruction {
	major := (word >> 26) & 0x3F
	cands := opcodesByMajor[major]

	if inst := tryDecode(cands, word, addr, ActiveDialect); inst != nil {
		return inst
	}
	// Extended-mnemonic fallback: retry once with ANY OR'd in.
	if inst := tryDecode(cands, word, addr, ActiveDialect|DialectAny); inst != nil {
		return inst
	}
	return &Instruction{Raw: word, Addr: addr}
}

func tryDecode(cands []*OpcodeDef, word, addr uint32, dialect Dialect) *Instruction {
	for _, op := range cands {
		if word&op.Mask != op.Pattern {
			continue
		}
		if op.Dialects&dialect == 0 {
			continue
		}
		if inst, ok := buildInstruction(op, word, addr); ok {
			return inst
		}
	}
	return nil
}

func buildInstruction(op *OpcodeDef, word, addr uint32) (*Instruction, bool) {
	inst := &Instruction{Raw: word, Addr: addr, Opcode: op}
	n := 0
	for _, od := range op.Operands {
		v, invalid := od.extract(word, addr)
		if invalid {
			return nil, false
		}
		if od.Flags&FlagFake != 0 {
			continue
		}
		if n >= len(inst.Operands) {
			break
		}
		inst.Operands[n] = v
		n++
	}
	inst.NumOperand = n
	inst.OperandStr = renderOperands(op, inst)
	return inst, true
}

// renderOperands builds the debug/comment operand text following the same
// descriptor iteration used for decoding. A FlagParens operand is combined
// with the register descriptor that immediately follows it into a single
// "disp(rN)" group, per the D-form display convention every load/store
// opcode definition in this package follows (displacement operand, then
// base-register operand).
func renderOperands(op *OpcodeDef, inst *Instruction) string {
	var parts []string
	descs := nonFake(op.Operands)
	vals := inst.Operands[:inst.NumOperand]
	for i := 0; i < len(descs); i++ {
		d := descs[i]
		v := vals[i]
		switch {
		case d.Flags&FlagParens != 0 && i+1 < len(descs):
			parts = append(parts, fmtDisp(v, descs[i+1], vals[i+1]))
			i++
		case d.Flags&FlagParens != 0:
			parts = append(parts, fmtSigned(v))
		case d.Flags&(FlagRelBranch|FlagAbsBranch) != 0:
			parts = append(parts, fmtBranchTarget(v))
		case d.Flags&(FlagGPR|FlagFPR|FlagVR) != 0:
			parts = append(parts, regText(d, v))
		case d.Flags&FlagCRField != 0:
			parts = append(parts, fmtCR(d, v))
		default:
			parts = append(parts, fmtSigned(v))
		}
	}
	return strings.Join(parts, ",")
}

func nonFake(descs []*OperandDesc) []*OperandDesc {
	out := make([]*OperandDesc, 0, len(descs))
	for _, d := range descs {
		if d.Flags&FlagFake == 0 {
			out = append(out, d)
		}
	}
	return out
}
