package recompiler

import "fmt"

// LocalVariables tracks which registers and scratch variables a function
// body actually referenced by name, so the envelope only declares the ones
// that are used. Mirrors the promotion bookkeeping spec.md §4.3.2
// describes: one bool per promotable slot, set the first time an accessor
// hands out the local-variable spelling instead of the ctx.<field> one.
type LocalVariables struct {
	Ctr      bool
	Xer      bool
	Reserved bool
	Cr       [8]bool
	R        [32]bool
	F        [32]bool
	V        [128]bool
	Env      bool
	Temp     bool
	VTemp    bool
	Ea       bool
}

// registerNamer produces the textual spelling a guest register reference
// should use in emitted source: either the canonical ctx.<reg> spill or a
// promoted function-local variable, per Config's promotion policy.
type registerNamer struct {
	cfg   *promotionPolicy
	local *LocalVariables
}

// promotionPolicy mirrors the subset of config.Config that governs local
// promotion, kept narrow so the Emitter doesn't need to import config for
// every helper call.
type promotionPolicy struct {
	CtrAsLocal         bool
	XerAsLocal         bool
	ReservedAsLocal    bool
	CrAsLocal          bool
	NonArgumentAsLocal bool
	NonVolatileAsLocal bool
}

// r returns the spelling for GPR index.
func (n *registerNamer) r(index uint32) string {
	if (n.cfg.NonArgumentAsLocal && (index == 0 || index == 2 || index == 11 || index == 12)) ||
		(n.cfg.NonVolatileAsLocal && index >= 14 && index <= 31) {
		n.local.R[index] = true
		return fmt.Sprintf("r%d", index)
	}
	return fmt.Sprintf("ctx.r%d", index)
}

// f returns the spelling for FPR index.
func (n *registerNamer) f(index uint32) string {
	if (n.cfg.NonArgumentAsLocal && index == 0) ||
		(n.cfg.NonVolatileAsLocal && index >= 14 && index <= 31) {
		n.local.F[index] = true
		return fmt.Sprintf("f%d", index)
	}
	return fmt.Sprintf("ctx.f%d", index)
}

// v returns the spelling for vector register index (0..127, VMX128 range).
func (n *registerNamer) v(index uint32) string {
	if (n.cfg.NonArgumentAsLocal && index >= 32 && index <= 63) ||
		(n.cfg.NonVolatileAsLocal && ((index >= 14 && index <= 31) || (index >= 64 && index <= 127))) {
		n.local.V[index] = true
		return fmt.Sprintf("v%d", index)
	}
	return fmt.Sprintf("ctx.v%d", index)
}

// cr returns the spelling for condition register field index (0..7).
func (n *registerNamer) cr(index uint32) string {
	if n.cfg.CrAsLocal {
		n.local.Cr[index] = true
		return fmt.Sprintf("cr%d", index)
	}
	return fmt.Sprintf("ctx.cr%d", index)
}

func (n *registerNamer) ctr() string {
	if n.cfg.CtrAsLocal {
		n.local.Ctr = true
		return "ctr"
	}
	return "ctx.ctr"
}

func (n *registerNamer) xer() string {
	if n.cfg.XerAsLocal {
		n.local.Xer = true
		return "xer"
	}
	return "ctx.xer"
}

func (n *registerNamer) reserved() string {
	if n.cfg.ReservedAsLocal {
		n.local.Reserved = true
		return "reserved"
	}
	return "ctx.reserved"
}

func (n *registerNamer) temp() string {
	n.local.Temp = true
	return "temp"
}

func (n *registerNamer) vTemp() string {
	n.local.VTemp = true
	return "vTemp"
}

func (n *registerNamer) env() string {
	n.local.Env = true
	return "env"
}

func (n *registerNamer) ea() string {
	n.local.Ea = true
	return "ea"
}

// condName maps a CR field's 2-bit sub-index (BI % 4) to its textual
// condition name.
func condName(bit uint32) string {
	switch bit % 4 {
	case 0:
		return "lt"
	case 1:
		return "gt"
	case 2:
		return "eq"
	default:
		return "so"
	}
}
