package recompiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xenonrecomp/recomp/analysis"
	"github.com/xenonrecomp/recomp/config"
)

func TestRecompileHeaderWritesSupportFiles(t *testing.T) {
	base := uint32(0x82000000)
	code := beBytes(0x38600001, 0x4E800020) // addi r3, r0, 1; blr
	dir := t.TempDir()

	ctxHeader := filepath.Join(dir, "ppc_context.h")
	if err := os.WriteFile(ctxHeader, []byte("struct PPCContext { /* ... */ };\n"), 0o644); err != nil {
		t.Fatalf("writing fixture context header: %v", err)
	}

	outDir := filepath.Join(dir, "out")
	cfg := &config.Config{SkipMSR: true}
	rc := newTestRecompiler(cfg, base, code)
	rc.emitter.outDir = outDir

	fn := &analysis.Function{Base: base, Size: uint32(len(code))}
	rc.RecompileFunction(fn)
	if err := rc.emitter.SaveCurrentOutData(); err != nil {
		t.Fatalf("SaveCurrentOutData: %v", err)
	}
	if err := rc.RecompileHeader(ctxHeader); err != nil {
		t.Fatalf("RecompileHeader: %v", err)
	}

	copied, err := os.ReadFile(filepath.Join(outDir, "ppc_context.h"))
	if err != nil {
		t.Fatalf("reading copied context header: %v", err)
	}
	if !strings.Contains(string(copied), "struct PPCContext") {
		t.Errorf("context header wasn't copied verbatim, got:\n%s", copied)
	}

	configHdr, err := os.ReadFile(filepath.Join(outDir, "ppc_config.h"))
	if err != nil {
		t.Fatalf("reading ppc_config.h: %v", err)
	}
	if !strings.Contains(string(configHdr), "#define PPC_CODE_BASE 0x82000000") {
		t.Errorf("missing PPC_CODE_BASE define, got:\n%s", configHdr)
	}
	if !strings.Contains(string(configHdr), "#define PPC_SKIP_MSR") {
		t.Errorf("missing PPC_SKIP_MSR define for enabled option, got:\n%s", configHdr)
	}

	shared, err := os.ReadFile(filepath.Join(outDir, "ppc_recomp_shared.h"))
	if err != nil {
		t.Fatalf("reading ppc_recomp_shared.h: %v", err)
	}
	name := rc.functionName(base)
	if !strings.Contains(string(shared), "PPC_EXTERN_FUNC("+name+");") {
		t.Errorf("missing extern decl for %s, got:\n%s", name, shared)
	}

	mapping, err := os.ReadFile(filepath.Join(outDir, "ppc_func_mapping.cpp"))
	if err != nil {
		t.Fatalf("reading ppc_func_mapping.cpp: %v", err)
	}
	if !strings.Contains(string(mapping), "0x82000000, "+name) {
		t.Errorf("missing mapping entry for %s, got:\n%s", name, mapping)
	}
	if !strings.Contains(string(mapping), "{ 0, nullptr },") {
		t.Errorf("missing sentinel entry, got:\n%s", mapping)
	}
}
