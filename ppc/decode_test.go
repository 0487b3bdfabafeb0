package ppc

import "testing"

func TestBranchConditionalSignRule(t *testing.T) {
	inst := Decode(0x40820008, 0x10000)
	if inst.Unrecognized() {
		t.Fatalf("0x40820008 did not decode")
	}
	if inst.Mnemonic() != "bc" {
		t.Fatalf("got mnemonic %q, want bc", inst.Mnemonic())
	}
	want := []int64{4, 2, 0x10008}
	if inst.NumOperand != len(want) {
		t.Fatalf("got %d operands, want %d", inst.NumOperand, len(want))
	}
	for i, w := range want {
		if inst.Operands[i] != w {
			t.Errorf("operand %d: got %#x, want %#x", i, inst.Operands[i], w)
		}
	}
}

func TestComputeMask(t *testing.T) {
	tests := []struct {
		mstart, mstop uint
		want          uint64
	}{
		{0, 0, 0x8000000000000000},
		{0, 63, 0xFFFFFFFFFFFFFFFF},
		{63, 0, ^(^uint64(0) >> 1) | 1},
		{3, 5, 0x1C00000000000000},
	}
	for _, tt := range tests {
		if got := computeMask(tt.mstart, tt.mstop); got != tt.want {
			t.Errorf("computeMask(%d,%d) = %#x, want %#x", tt.mstart, tt.mstop, got, tt.want)
		}
	}
}

func TestRlwinmDecode(t *testing.T) {
	// rlwinm r3, r4, 1, 0, 30
	inst := Decode(0x5483083C, 0x82000000)
	if inst.Mnemonic() != "rlwinm" {
		t.Fatalf("got mnemonic %q, want rlwinm", inst.Mnemonic())
	}
	want := []int64{3, 4, 1, 0, 30}
	if inst.NumOperand != len(want) {
		t.Fatalf("got %d operands, want %d: %v", inst.NumOperand, len(want), inst.Operands[:inst.NumOperand])
	}
	for i, w := range want {
		if inst.Operands[i] != w {
			t.Errorf("operand %d: got %d, want %d", i, inst.Operands[i], w)
		}
	}
}

func TestLwzDisplacementForm(t *testing.T) {
	// lwz r4, 0x10(r3)
	inst := Decode(0x80830010, 0x82000000)
	if inst.Mnemonic() != "lwz" {
		t.Fatalf("got mnemonic %q, want lwz", inst.Mnemonic())
	}
	want := []int64{4, 0x10, 3}
	for i, w := range want {
		if inst.Operands[i] != w {
			t.Errorf("operand %d: got %#x, want %#x", i, inst.Operands[i], w)
		}
	}
}

func TestAddiLiForm(t *testing.T) {
	// addi r3, r0, 1 (li r3, 1 is the RA=0 special case of the same encoding)
	inst := Decode(0x38600001, 0x82000000)
	if inst.Mnemonic() != "addi" {
		t.Fatalf("got mnemonic %q, want addi", inst.Mnemonic())
	}
	want := []int64{3, 0, 1}
	for i, w := range want {
		if inst.Operands[i] != w {
			t.Errorf("operand %d: got %d, want %d", i, inst.Operands[i], w)
		}
	}
}

func TestBlr(t *testing.T) {
	inst := Decode(0x4E800020, 0x82000004)
	if inst.Mnemonic() != "bclr" {
		t.Fatalf("got mnemonic %q, want bclr", inst.Mnemonic())
	}
	if inst.Operands[0] != 20 || inst.Operands[1] != 0 {
		t.Errorf("got BO=%d BI=%d, want BO=20 BI=0", inst.Operands[0], inst.Operands[1])
	}
}

func TestCmpwiAndBeq(t *testing.T) {
	cmp := Decode(0x2C030000, 0x82000000)
	if cmp.Mnemonic() != "cmpwi" {
		t.Fatalf("got mnemonic %q, want cmpwi", cmp.Mnemonic())
	}
	beq := Decode(0x41820008, 0x82000004)
	if beq.Mnemonic() != "bc" {
		t.Fatalf("got mnemonic %q, want bc", beq.Mnemonic())
	}
	if beq.Operands[2] != 0x8200000C {
		t.Errorf("got branch target %#x, want %#x", beq.Operands[2], 0x8200000C)
	}
}

func TestUnrecognizedWordRoundTrips(t *testing.T) {
	inst := Decode(0x00000000, 0)
	if !inst.Unrecognized() {
		t.Fatalf("expected 0x00000000 to be unrecognized, got %s", inst.Mnemonic())
	}
	if inst.Mnemonic() != "" {
		t.Errorf("Mnemonic() on unrecognized instruction = %q, want empty", inst.Mnemonic())
	}
}

// TestDecodeMatchesPatternMask is the generic decoder contract: whatever
// comes back (recognized or not) must satisfy pattern == word & mask for a
// recognized result, covering the property spec's first disassembler rule
// names directly rather than through one hand-picked word.
func TestDecodeMatchesPatternMask(t *testing.T) {
	words := []uint32{
		0x40820008, 0x5483083C, 0x80830010, 0x38600001,
		0x4E800020, 0x2C030000, 0x41820008, 0x7C0802A6,
		0x10000000 + 4<<26, 0xFC000090,
	}
	for _, w := range words {
		inst := Decode(w, 0)
		if inst.Unrecognized() {
			continue
		}
		if w&inst.Opcode.Mask != inst.Opcode.Pattern {
			t.Errorf("word %#08x matched %s but pattern %#08x != word&mask %#08x",
				w, inst.Opcode.Name, inst.Opcode.Pattern, w&inst.Opcode.Mask)
		}
	}
}

func TestVectorOpcodesDecodeWithinVMX128Dispatch(t *testing.T) {
	tests := []struct {
		name string
		op   *OpcodeDef
	}{
		{"vaddfp128", opVaddfp128},
		{"vperm128", opVperm128},
		{"vrlimi128", opVrlimi128},
		{"vpkd3d128", opVpkd3d128},
		{"lvx128", opLvx128},
	}
	for _, tt := range tests {
		word := tt.op.Pattern
		inst := Decode(word, 0)
		if inst.Unrecognized() {
			t.Fatalf("%s: pattern word %#08x failed to decode", tt.name, word)
		}
		if inst.Mnemonic() != tt.name {
			t.Errorf("%s: pattern word decoded as %s instead", tt.name, inst.Mnemonic())
		}
	}
}

// TestVMX128RegisterExtensionBitsDoNotAffectDispatch guards the mask fix in
// vmx128Form: the high-register extension bits for VA128/VB128 share a byte
// with nothing, but sit directly below the xop field, so a naive mask could
// easily have swallowed them and broken decoding for vector registers 32-63.
func TestVMX128RegisterExtensionBitsDoNotAffectDispatch(t *testing.T) {
	word := opVaddfp128.Pattern | 0x1<<2 | 0x1<<1 // set VA128/VB128 high-register bits
	inst := Decode(word, 0)
	if inst.Unrecognized() || inst.Mnemonic() != "vaddfp128" {
		t.Fatalf("setting register-extension bits broke dispatch: got %s", inst.Mnemonic())
	}
}
