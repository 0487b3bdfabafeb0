package ppc

// M-form rotate/mask instructions. Operand order [RA, RS, SH, MB, ME]
// matches spec §4.3.1's rlwinm contract exactly (destination RA, source
// RS, then the three mask-shape fields).

func mForm(name string, major uint32, extra ...*OperandDesc) *OpcodeDef {
	pattern := major << 26
	mask := uint32(0xFC000000)
	operands := append([]*OperandDesc{operandRA, operandRT, operandSH}, extra...)
	return defOp(name, major, pattern, mask, DialectClassic, operands...)
}

var (
	opRlwimi = mForm("rlwimi", 20, operandMB, operandME)
	opRlwinm = mForm("rlwinm", 21, operandMB, operandME)
	opRlwnm  = defOp("rlwnm", 23, 23<<26, 0xFC000000, DialectClassic, operandRA, operandRT, operandRB, operandMB, operandME)
)

// MD/MDS-form 64-bit rotates (rldicl family). Kept minimal: only the
// clear-left form used by the recompiler's rlwinm-on-64-bit-value path is
// modeled, since the guest programs this targets are 32-bit ABI code that
// rarely emits the others directly.
var opRldicl = defOp("rldicl", 30, 30<<26|0<<2, 0xFC00001C, DialectPPC64,
	operandRA, operandRT, operandSH6, operandMB)
