package ppc

// signExtend sign-extends the low width bits of raw.
func signExtend(raw uint32, width int) int64 {
	shift := uint(32 - width)
	return int64(int32(raw<<shift) >> shift)
}

// computeMask returns the 64-bit contiguous mask PowerPC's rotate/mask
// forms use, honoring the wrap-around rule when mstart > mstop. Mirrors
// spec §4.3.1's rlwinm contract.
func computeMask(mstart, mstop uint) uint64 {
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

// extractSH6 pulls the 6-bit shift amount used by rldicl/rldicr/rlwinm's
// 64-bit cousins: bit 30 of the word is joined as the MSB onto the
// classic 5-bit SH field at bits 16..20.
func extractSH6(word, _ uint32) (int64, bool) {
	lo := (word >> 11) & 0x1F
	hi := (word >> 1) & 0x1
	return int64((hi << 5) | lo), false
}

// extractSPR decodes the SPR field, whose two 5-bit halves are swapped
// relative to their natural order in the instruction word.
func extractSPR(word, _ uint32) (int64, bool) {
	raw := (word >> 11) & 0x3FF
	lo := raw & 0x1F
	hi := (raw >> 5) & 0x1F
	return int64((lo << 5) | hi), false
}

// extractFXM decodes the field mask used by mfocrf. Power4's
// single-field form requires exactly one bit set; any other encoding is
// rejected, and since no other entry matches such a word (mfcr requires
// bit 20 clear), it is left unrecognized.
func extractFXM(word, _ uint32) (int64, bool) {
	fxm := (word >> 12) & 0xFF
	if fxm == 0 || fxm&(fxm-1) != 0 {
		return 0, true
	}
	return int64(fxm), false
}

// extractBO validates the BO field of a conditional branch. All 32
// encodings are architecturally legal (some merely duplicate the "always"
// case), so this never rejects; it exists to keep the operand's own slot
// symmetrical with the other bc-family descriptors. The BO bits themselves
// are interpreted by the BO* helpers below, which the recompiler and
// analyzer call.
func extractBO(word, _ uint32) (int64, bool) {
	return int64((word >> 21) & 0x1F), false
}

// BOBranchAlways reports whether the given BO field value unconditionally
// takes the branch, ignoring both CR and CTR.
func BOBranchAlways(bo uint32) bool {
	return bo&0x14 == 0x14
}

// BOCRIgnored reports whether BO says the CR test should be skipped.
func BOCRIgnored(bo uint32) bool {
	return bo&0x10 != 0
}

// BOCTRIgnored reports whether BO says the CTR test should be skipped
// (the 0x04 bit of BO cleared means CTR is decremented and tested, so
// "ignored" is that bit set).
func BOCTRIgnored(bo uint32) bool {
	return bo&0x04 != 0
}

// BOCondTrue reports which CR polarity takes the branch when the CR test
// isn't ignored: true means "branch if the bit is set", false means
// "branch if the bit is clear". Meaningless when BOCRIgnored is true.
func BOCondTrue(bo uint32) bool {
	return bo&0x08 != 0
}

// BOCtrZero reports which CTR polarity takes the branch when the CTR test
// isn't ignored: true means "branch if CTR == 0 after decrement", false
// means "branch if CTR != 0". Meaningless when BOCTRIgnored is true.
func BOCtrZero(bo uint32) bool {
	return bo&0x02 != 0
}

// extractMB extracts the 5-bit MB field of an M-form instruction.
func extractMB(word, _ uint32) (int64, bool) {
	return int64((word >> 6) & 0x1F), false
}

// extractME extracts the 5-bit ME field of an M-form instruction.
func extractME(word, _ uint32) (int64, bool) {
	return int64((word >> 1) & 0x1F), false
}

// extractBD extracts the 14-bit branch displacement of a bc-form
// instruction, sign-extended and resolved to an absolute target address.
// The low two bits are always zero (word-aligned displacement).
func extractBD(word, addr uint32) (int64, bool) {
	raw := word & 0xFFFC
	disp := int32(int16(raw<<2)) >> 2
	return int64(int64(addr) + int64(disp)), false
}

// extractLI extracts the 24-bit branch displacement of a b-form
// instruction, sign-extended and resolved to an absolute target, unless
// AA (absolute addressing) is set, in which case the sign-extended field is
// returned as is. The b/bl table entries require AA clear, so an AA word
// never decodes as b/bl; the analyzer has no separate AA check.
func extractLI(word, addr uint32) (int64, bool) {
	raw := word & 0x03FFFFFC
	disp := int32(raw<<6) >> 6
	if word&0x2 != 0 { // AA
		return int64(disp), false
	}
	return int64(int64(addr) + int64(disp)), false
}

// extractCRField extracts a 5-bit CR-bit index (crbA/crbB/crbD of the
// cr-logical instructions).
func extractCRField(shift uint) ExtractFunc {
	return func(word, _ uint32) (int64, bool) {
		return int64((word >> shift) & 0x1F), false
	}
}

// extractOptionalZeroGPR implements the "optional, omit if zero" GPR
// operand convention used for RA in D-form loads/stores, where RA=0 means
// "no base register" rather than naming r0.
func extractOptionalZeroGPR(shift uint) ExtractFunc {
	return func(word, _ uint32) (int64, bool) {
		return int64((word >> shift) & 0x1F), false
	}
}

// extractVD128 / extractVA128 / extractVB128 decode the VMX128 split
// vector-register encodings: the 5-bit register field plus one extension
// bit taken from a non-adjacent position, giving a 6-bit index (registers
// 0-63). Registers 64-127 are not reachable through these fields.
func extractVD128(word, _ uint32) (int64, bool) {
	vd := (word >> 21) & 0x1F
	// The extension bit widening VD to a 6-bit index is carried in bit 10
	// of the word in the Xenon VMX128 encoding.
	ext := (word >> 10) & 0x1
	return int64(vd | (ext << 5)), false
}

func extractVA128(word, _ uint32) (int64, bool) {
	va := (word >> 16) & 0x1F
	ext := (word >> 2) & 0x1
	return int64(va | (ext << 5)), false
}

func extractVB128(word, _ uint32) (int64, bool) {
	vb := (word >> 11) & 0x1F
	ext := (word >> 1) & 0x1
	return int64(vb | (ext << 5)), false
}

// extractVC128 decodes the VC128 field used by vperm128, which is
// restricted to the low 32 vector registers (no high-register extension
// bit exists for this operand in the Xenon encoding).
func extractVC128(word, _ uint32) (int64, bool) {
	return int64((word >> 6) & 0x1F), false
}

// extractVRLIMI128ShiftCount decodes the 2-bit rotate-count field of
// vrlimi128. The mapping of the field to an actual element rotation is a
// documented Open Question (spec §9); this uses the direct N -> rotate-by-N
// mapping. See DESIGN.md for the decision record.
func extractVRLIMI128ShiftCount(word, _ uint32) (int64, bool) {
	return int64((word >> 6) & 0x3), false
}
