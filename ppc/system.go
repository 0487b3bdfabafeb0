package ppc

// Special-purpose and condition register moves, plus the classic-form
// fixed-encoding system instructions.

var (
	opMfspr = xForm("mfspr", 339, operandRT, operandSPR)
	opMtspr = defOp("mtspr", 31, 31<<26|467<<1, 0xFC0007FE, DialectClassic, operandSPR, operandRT)

	// mfcr and the Power4 mfocrf single-field form share xop 19; bit20 of
	// the word (the "select one field" flag) distinguishes them, so both
	// table entries require it explicitly rather than relying on scan
	// order to prefer one over the other.
	opMfcr   = defOp("mfcr", 31, 31<<26|19<<1, 0xFC1007FE, DialectClassic, operandRT)
	opMfocrf = defOp("mfocrf", 31, 31<<26|19<<1|0x100000, 0xFC1007FE, DialectCell, operandRT, operandFXM)
	opMtcrf  = defOp("mtcrf", 31, 31<<26|144<<1, 0xFC0007FE, DialectClassic, operandCRM, operandRT)

	opMfmsr  = xForm("mfmsr", 83, operandRT)
	opMtmsrd = xForm("mtmsrd", 178, operandRT)

	opSync  = defOp("sync", 31, 31<<26|598<<1, 0xFC0007FE, DialectClassic)
	opEieio = defOp("eieio", 31, 31<<26|854<<1, 0xFC0007FE, DialectClassic)
)
