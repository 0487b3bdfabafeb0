// Package ppc implements the decoder for 32-bit big-endian PowerPC
// instructions, including the Xenon-specific VMX128 vector forms.
package ppc

import (
	"fmt"
	"math/bits"
)

// OperandFlag describes how a decoded operand value should be interpreted
// and rendered.
type OperandFlag uint32

const (
	FlagGPR OperandFlag = 1 << iota
	FlagGPRNonZeroAtZero
	FlagFPR
	FlagVR
	FlagCRField
	FlagSigned
	FlagParens
	FlagRelBranch
	FlagAbsBranch
	FlagOptionalZero
	FlagPairedWithNext
	FlagSignOptional
	FlagDSForm
	// FlagFake marks an operand that participates in decoding (e.g. to
	// validate an encoding) but is never stored or rendered.
	FlagFake
)

// Dialect is a bitset of instruction-set extensions a decode may match
// against. Matching an opcode requires the opcode's Dialects to intersect
// the active set.
type Dialect uint32

const (
	DialectPPC64 Dialect = 1 << iota
	DialectClassic
	DialectAltivec
	DialectVMX128
	DialectCell
	// DialectAny is OR'd into the active set on the extended-mnemonic
	// fallback retry described in spec §4.1.
	DialectAny
)

// ActiveDialect is the dialect set this decoder matches against. Xenon
// needs the full stack: 64-bit base, classic 32-bit forms still present in
// the encoding space, AltiVec, VMX128, and the Cell-derived extensions.
const ActiveDialect = DialectPPC64 | DialectClassic | DialectAltivec | DialectVMX128 | DialectCell

// ExtractFunc computes an operand's value from the raw instruction word and
// its address (needed for branch operands, which are pre-resolved to
// absolute targets). It reports invalid if the encoding is one the ISA
// forbids, which rejects the candidate opcode entry during dispatch.
type ExtractFunc func(word, addr uint32) (value int64, invalid bool)

// InsertFunc packs a value into an instruction word at this operand's
// field. No operand descriptor in this package sets one, and nothing in
// the package calls it.
type InsertFunc func(word uint32, value int64) uint32

// OperandDesc describes one operand slot shared across opcodes that use the
// same field layout (RA, RT, SIMM, BD, ...). Most fields are a regular
// bitmask+shift; Extract lets a handful of irregular encodings (split
// SH6, swapped SPR halves, the VMX128 register-field splits) override the
// regular path.
type OperandDesc struct {
	Name    string
	Mask    uint32
	Shift   uint
	Extract ExtractFunc
	Insert  InsertFunc
	Flags   OperandFlag
}

func (d *OperandDesc) extract(word, addr uint32) (int64, bool) {
	if d.Extract != nil {
		return d.Extract(word, addr)
	}
	raw := (word >> d.Shift) & d.Mask
	if d.Flags&FlagSigned != 0 {
		return signExtend(raw, bits.OnesCount32(d.Mask)), false
	}
	return int64(raw), false
}

// OpcodeDef is one entry of the decode table: a mnemonic, its matching
// pattern/mask, the dialects it's valid under, and the ordered list of
// operand descriptors that make up its operand list.
type OpcodeDef struct {
	Name     string
	ID       int
	Major    uint32
	Pattern  uint32
	Mask     uint32
	Dialects Dialect
	Operands []*OperandDesc
}

// Instruction is the decoded form of one 32-bit guest instruction: the
// GuestInstruction of the spec.
type Instruction struct {
	Raw        uint32
	Addr       uint32
	Opcode     *OpcodeDef
	Operands   [6]int64
	NumOperand int
	OperandStr string
}

// Unrecognized reports whether the decoder could not match any opcode.
func (i *Instruction) Unrecognized() bool { return i.Opcode == nil }

// Mnemonic returns the opcode's name, or "" if unrecognized.
func (i *Instruction) Mnemonic() string {
	if i.Opcode == nil {
		return ""
	}
	return i.Opcode.Name
}

// String renders the debug-comment form used by the recompiler:
// "<mnemonic> <operandStr>".
func (i *Instruction) String() string {
	if i.Unrecognized() {
		return fmt.Sprintf("<unrecognized 0x%08X>", i.Raw)
	}
	if i.OperandStr == "" {
		return i.Opcode.Name
	}
	return i.Opcode.Name + " " + i.OperandStr
}
