package ppc

import "fmt"

func regText(d *OperandDesc, v int64) string {
	switch {
	case d.Flags&FlagGPR != 0:
		return fmt.Sprintf("r%d", v)
	case d.Flags&FlagFPR != 0:
		return fmt.Sprintf("f%d", v)
	case d.Flags&FlagVR != 0:
		return fmt.Sprintf("v%d", v)
	default:
		return fmt.Sprintf("%d", v)
	}
}

func fmtDisp(disp int64, baseDesc *OperandDesc, baseVal int64) string {
	return fmt.Sprintf("%d(%s)", disp, regText(baseDesc, baseVal))
}

func fmtSigned(v int64) string {
	return fmt.Sprintf("%d", v)
}

func fmtBranchTarget(v int64) string {
	return fmt.Sprintf("0x%X", uint32(v))
}

func fmtCR(d *OperandDesc, v int64) string {
	if len(d.Name) >= 3 && d.Name[:3] == "crb" {
		return fmt.Sprintf("crb%d", v)
	}
	return fmt.Sprintf("cr%d", v)
}
