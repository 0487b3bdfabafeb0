package recompiler

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/xenonrecomp/recomp/analysis"
	"github.com/xenonrecomp/recomp/config"
	"github.com/xenonrecomp/recomp/image"
)

func beBytes(words ...uint32) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = append(out, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return out
}

// newTestRecompiler builds a Recompiler over a single section of code
// starting at base, plus whatever extra sections the caller supplies (e.g.
// to make an out-of-function call target resolvable).
func newTestRecompiler(cfg *config.Config, base uint32, code []byte, extra ...image.Section) *Recompiler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	img := &image.Image{
		Sections:  append([]image.Section{{Name: ".text", Base: base, Size: uint32(len(code)), Data: code}}, extra...),
		EntryPoint: base,
	}
	return New(img, cfg, "")
}

func (rc *Recompiler) recompileAndDump(fn *analysis.Function) string {
	rc.RecompileFunction(fn)
	return rc.emitter.buf.String()
}

func TestRecompileAddiBlr(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x38600001, 0x4E800020) // addi r3, r0, 1; blr
	rc := newTestRecompiler(nil, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	if !strings.Contains(out, "ctx.r3.s64 = 1;") {
		t.Errorf("missing addi assignment, got:\n%s", out)
	}
	if !strings.Contains(out, "return;") {
		t.Errorf("missing blr return, got:\n%s", out)
	}
}

func TestRecompileLwzBlr(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x80830010, 0x4E800020) // lwz r4, 0x10(r3); blr
	rc := newTestRecompiler(nil, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	want := "ctx.r4.u64 = PPC_LOAD_U32(ctx.r3.u32 + 16);"
	if !strings.Contains(out, want) {
		t.Errorf("got:\n%s\nwant substring %q", out, want)
	}
	if !strings.Contains(out, "return;") {
		t.Errorf("missing blr return, got:\n%s", out)
	}
}

// TestRecompileCmpwiBeqSkipsFirstArm exercises cmpwi/beq/li/blr/li/blr with
// a correctly targeted branch (loc_X lands on the second li/blr pair) under
// a promotion policy that keeps cr0 and xer as function locals, so the
// emitted compare and condition read exactly as cr0/xer rather than
// ctx.cr0/ctx.xer.
func TestRecompileCmpwiBeqSkipsFirstArm(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(
		0x2C030000, // cmpwi cr0, r3, 0
		0x4182000C, // beq cr0, loc_(base+16)
		0x38600001, // li r3, 1
		0x4E800020, // blr
		0x38600002, // li r3, 2
		0x4E800020, // blr
	)
	cfg := &config.Config{CrAsLocal: true, XerAsLocal: true}
	rc := newTestRecompiler(cfg, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)

	if !strings.Contains(out, "cr0.compare<int32_t>(ctx.r3.s32, 0, xer);") {
		t.Errorf("missing typed compare, got:\n%s", out)
	}
	target := label(base + 16)
	if !strings.Contains(out, "if (cr0.eq) goto "+target+";") {
		t.Errorf("missing conditional goto to %s, got:\n%s", target, out)
	}
	if strings.Count(out, "ctx.r3.s64 = 1;") != 1 || strings.Count(out, "ctx.r3.s64 = 2;") != 1 {
		t.Errorf("expected exactly one of each li body, got:\n%s", out)
	}
	if strings.Count(out, "return;") != 2 {
		t.Errorf("expected two returns, got:\n%s", out)
	}
	if !strings.Contains(out, target+":") {
		t.Errorf("missing label %s:, got:\n%s", target, out)
	}
}

// TestRecompileBlResetsCSR covers a registered-symbol bl and confirms the
// CSR shadow state drops to Unknown afterward: a floating-point op right
// after the call re-emits the flush-mode transition even though one was
// already emitted right before the call.
func TestRecompileBlResetsCSR(t *testing.T) {
	base := uint32(0x82000000)
	target := uint32(0x82001000)
	code := beBytes(
		0xFC22182A, // fadd f1, f2, f3
		0x48000FFD, // bl foo (target 0x82001000)
		0xFC22182A, // fadd f1, f2, f3
		0x4E800020, // blr
	)
	rc := newTestRecompiler(nil, base, code, image.Section{
		Name: ".text2", Base: target, Size: 4, Data: beBytes(0x4E800020),
	})
	rc.Image.Symbols.Insert(image.Symbol{Address: target, Type: image.SymbolFunction, Name: "foo"})
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)

	wantLR := fmt.Sprintf("ctx.lr = 0x%X;", base+8)
	if !strings.Contains(out, wantLR) {
		t.Errorf("missing link-register update, got:\n%s", out)
	}
	if !strings.Contains(out, "foo(ctx, base);") {
		t.Errorf("missing call to resolved symbol, got:\n%s", out)
	}
	if n := strings.Count(out, "ctx.fpscr.disableFlushMode();"); n != 2 {
		t.Errorf("expected the flush-mode transition to re-emit after the call (CSR reset), got %d occurrences in:\n%s", n, out)
	}
}

func TestRecompileRlwinm(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x5483083C) // rlwinm r3, r4, 1, 0, 30
	rc := newTestRecompiler(nil, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	want := "ctx.r3.u64 = __builtin_rotateleft64(ctx.r4.u32 | (ctx.r4.u64 << 32), 1) & 0xFFFFFFFE;"
	if !strings.Contains(out, want) {
		t.Errorf("got:\n%s\nwant substring %q", out, want)
	}
}

func TestRecompileBctrSwitchTable(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x4E800420, 0x60000000, 0x60000000, 0x60000000) // bctr; nop; nop; nop
	l0, l1, l2 := base+4, base+8, base+12
	cfg := &config.Config{
		SwitchTables: map[uint32]config.SwitchTable{
			base: {R: 3, Labels: []uint32{l0, l1, l2}},
		},
	}
	rc := newTestRecompiler(cfg, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	want := "switch (ctx.r3.u64) { case 0: goto " + label(l0) + "; case 1: goto " + label(l1) + "; case 2: goto " + label(l2) + "; default: __builtin_unreachable(); }"
	if !strings.Contains(out, want) {
		t.Errorf("got:\n%s\nwant substring %q", out, want)
	}
}

func TestRecompileSwitchOutOfRangeLabel(t *testing.T) {
	base := uint32(0x82000000)
	outside := uint32(0x82009000)
	code := beBytes(0x4E800420, 0x60000000) // bctr; nop
	cfg := &config.Config{
		SwitchTables: map[uint32]config.SwitchTable{
			base: {R: 3, Labels: []uint32{base + 4, outside}},
		},
	}
	rc := newTestRecompiler(cfg, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	if !strings.Contains(out, fmt.Sprintf("case 0: goto %s;", label(base+4))) {
		t.Errorf("missing in-range case, got:\n%s", out)
	}
	want := fmt.Sprintf("case 1: // ERROR 0x%08X\n\treturn;", outside)
	if !strings.Contains(out, want) {
		t.Errorf("got:\n%s\nwant substring %q", out, want)
	}
	if len(rc.Diagnostics()) == 0 {
		t.Errorf("expected a diagnostic for the out-of-range switch label")
	}
}

func TestRecompileLwarxStwcxReservation(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x7C602028, 0x7CA0212D, 0x4E800020) // lwarx r3,0,r4; stwcx. r5,0,r4; blr
	rc := newTestRecompiler(nil, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	for _, want := range []string{
		"ctx.reserved.u32 = *(uint32_t*)(base + ctx.r4.u32);",
		"ctx.r3.u64 = __builtin_bswap32(ctx.reserved.u32);",
		"ctx.cr0.eq = __sync_bool_compare_and_swap(reinterpret_cast<uint32_t*>(base + ctx.r4.u32), ctx.reserved.s32, __builtin_bswap32(ctx.r5.s32));",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("got:\n%s\nwant substring %q", out, want)
		}
	}
}

func TestRecompileStoreFollowedByEieioUsesMMIOMacro(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x90640000, 0x7C0006AC, 0x4E800020) // stw r3,0(r4); eieio; blr
	rc := newTestRecompiler(nil, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	if !strings.Contains(out, "PPC_MM_STORE_U32(ctx.r4.u32, ctx.r3.u32);") {
		t.Errorf("expected MMIO-qualified store, got:\n%s", out)
	}
	if !strings.Contains(out, "// eieio") {
		t.Errorf("expected eieio to still emit its own no-op, got:\n%s", out)
	}
}

func TestRecompileStoreWithoutEieioUsesPlainMacro(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x90640000, 0x4E800020) // stw r3,0(r4); blr
	rc := newTestRecompiler(nil, base, code)
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	out := rc.recompileAndDump(fn)
	if !strings.Contains(out, "PPC_STORE_U32(ctx.r4.u32, ctx.r3.u32);") {
		t.Errorf("expected plain store macro, got:\n%s", out)
	}
	if strings.Contains(out, "PPC_MM_STORE") {
		t.Errorf("did not expect an MMIO-qualified store, got:\n%s", out)
	}
}

func TestRecompileOutputDeduplication(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x38600001, 0x4E800020)
	dir := t.TempDir()
	fn := &analysis.Function{Base: base, Size: uint32(len(code))}

	rc := newTestRecompiler(nil, base, code)
	rc.emitter.outDir = dir
	rc.RecompileFunction(fn)
	if err := rc.emitter.SaveCurrentOutData(); err != nil {
		t.Fatalf("first save: %v", err)
	}

	path := dir + "/ppc_recomp.0.cpp"
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat after first save: %v", err)
	}

	rc2 := newTestRecompiler(nil, base, code)
	rc2.emitter.outDir = dir
	rc2.RecompileFunction(fn)
	if err := rc2.emitter.SaveCurrentOutData(); err != nil {
		t.Fatalf("second save: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat after second save: %v", err)
	}
	if !before.ModTime().Equal(after.ModTime()) {
		t.Errorf("rewriting identical content perturbed the file's mtime: %v -> %v", before.ModTime(), after.ModTime())
	}
}
