package ppc

// This file is the `operands[]` table of spec §4.1. Each descriptor is
// shared by every opcode whose encoding places that field at the same bit
// position — an OpcodeDef's Operands slice holds pointers into this table
// rather than duplicating the bit math, which is the Go equivalent of the
// spec's "ordered operand descriptor indices".

var (
	operandRT = &OperandDesc{Name: "rt", Shift: 21, Mask: 0x1F, Flags: FlagGPR}
	operandRA = &OperandDesc{Name: "ra", Shift: 16, Mask: 0x1F, Flags: FlagGPR}
	operandRB = &OperandDesc{Name: "rb", Shift: 11, Mask: 0x1F, Flags: FlagGPR}
	operandRC = &OperandDesc{Name: "rc", Shift: 6, Mask: 0x1F, Flags: FlagGPR}

	// operandRAOpt is RA in a D/X-form memory operand, where RA=0 means
	// "no base register" rather than naming r0.
	operandRAOpt = &OperandDesc{Name: "ra", Shift: 16, Mask: 0x1F, Flags: FlagGPR | FlagGPRNonZeroAtZero | FlagOptionalZero}

	operandFRT = &OperandDesc{Name: "frt", Shift: 21, Mask: 0x1F, Flags: FlagFPR}
	operandFRA = &OperandDesc{Name: "fra", Shift: 16, Mask: 0x1F, Flags: FlagFPR}
	operandFRB = &OperandDesc{Name: "frb", Shift: 11, Mask: 0x1F, Flags: FlagFPR}
	operandFRC = &OperandDesc{Name: "frc", Shift: 6, Mask: 0x1F, Flags: FlagFPR}

	operandVD = &OperandDesc{Name: "vd", Shift: 21, Mask: 0x1F, Flags: FlagVR}
	operandVA = &OperandDesc{Name: "va", Shift: 16, Mask: 0x1F, Flags: FlagVR}
	operandVB = &OperandDesc{Name: "vb", Shift: 11, Mask: 0x1F, Flags: FlagVR}
	operandVC = &OperandDesc{Name: "vc", Shift: 6, Mask: 0x1F, Flags: FlagVR}

	operandVD128 = &OperandDesc{Name: "vd128", Extract: extractVD128, Flags: FlagVR}
	operandVA128 = &OperandDesc{Name: "va128", Extract: extractVA128, Flags: FlagVR}
	operandVB128 = &OperandDesc{Name: "vb128", Extract: extractVB128, Flags: FlagVR}
	operandVC128 = &OperandDesc{Name: "vc128", Extract: extractVC128, Flags: FlagVR}

	operandVPERMShift = &OperandDesc{Name: "shb", Shift: 6, Mask: 0xF, Flags: 0}
	operandVRLIMIRot  = &OperandDesc{Name: "rot", Extract: extractVRLIMI128ShiftCount}

	operandSIMM = &OperandDesc{Name: "simm", Shift: 0, Mask: 0xFFFF, Flags: FlagSigned}
	operandUIMM = &OperandDesc{Name: "uimm", Shift: 0, Mask: 0xFFFF}

	// operandD is the D-form load/store displacement: same bit position
	// as SIMM, but rendered parenthesized after the base register.
	operandD = &OperandDesc{Name: "d", Shift: 0, Mask: 0xFFFF, Flags: FlagSigned | FlagParens}

	operandDS = &OperandDesc{Name: "ds", Extract: extractDS, Flags: FlagSigned | FlagParens | FlagDSForm}

	operandBF  = &OperandDesc{Name: "bf", Shift: 23, Mask: 0x7, Flags: FlagCRField}
	operandBFA = &OperandDesc{Name: "bfa", Shift: 18, Mask: 0x7, Flags: FlagCRField}
	operandL   = &OperandDesc{Name: "l", Shift: 21, Mask: 0x1}

	operandBO = &OperandDesc{Name: "bo", Extract: extractBO}
	operandBI = &OperandDesc{Name: "bi", Shift: 16, Mask: 0x1F}

	operandBD = &OperandDesc{Name: "bd", Extract: extractBD, Flags: FlagRelBranch}
	operandLI = &OperandDesc{Name: "li", Extract: extractLI, Flags: FlagRelBranch | FlagAbsBranch}

	operandSH  = &OperandDesc{Name: "sh", Shift: 11, Mask: 0x1F}
	operandSH6 = &OperandDesc{Name: "sh", Extract: extractSH6}
	operandMB  = &OperandDesc{Name: "mb", Extract: extractMB}
	operandME  = &OperandDesc{Name: "me", Extract: extractME}

	operandSPR = &OperandDesc{Name: "spr", Extract: extractSPR}
	operandFXM = &OperandDesc{Name: "fxm", Extract: extractFXM}
	operandCRM = &OperandDesc{Name: "crm", Shift: 12, Mask: 0xFF}

	operandCrbD = &OperandDesc{Name: "crbd", Extract: extractCRField(21), Flags: FlagCRField}
	operandCrbA = &OperandDesc{Name: "crba", Extract: extractCRField(16), Flags: FlagCRField}
	operandCrbB = &OperandDesc{Name: "crbb", Extract: extractCRField(11), Flags: FlagCRField}

	// operandUIMM5 / operandSIMM5 are the 5-bit vector-immediate fields
	// shared by vsplt*/vspltis* (same bit position as RA).
	operandUIMM5 = &OperandDesc{Name: "uimm", Shift: 16, Mask: 0x1F}
	operandSIMM5 = &OperandDesc{Name: "simm", Shift: 16, Mask: 0x1F, Flags: FlagSigned}
)

// extractDS decodes the DS-form displacement used by ld/std: a 14-bit
// field, pre-shifted left two bits. The low two bits of the word are not
// part of the displacement: they are the DS-form sub-opcode the table
// entries match on.
func extractDS(word, _ uint32) (int64, bool) {
	raw := (word >> 2) & 0x3FFF
	return signExtend(raw<<2, 16), false
}
