// Package recompiler walks discovered functions and emits, for each guest
// instruction, a fragment of host C-family source that operates on a
// modeled PowerPC context and a flat guest memory base pointer.
package recompiler

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xenonrecomp/recomp/analysis"
	"github.com/xenonrecomp/recomp/config"
	"github.com/xenonrecomp/recomp/image"
	"github.com/xenonrecomp/recomp/ppc"
)

// Recompiler owns the full state of one translation run: the loaded image,
// its resolved configuration, the functions discovered by Analyse in
// ascending base-address order, and the Emitter the run writes through.
type Recompiler struct {
	Image  *image.Image
	Config *config.Config

	Functions []*analysis.Function

	emitter *Emitter
	policy  *promotionPolicy
}

// New creates a Recompiler ready to Analyse and then recompile img under
// cfg, writing batched output under outDir.
func New(img *image.Image, cfg *config.Config, outDir string) *Recompiler {
	return &Recompiler{
		Image:  img,
		Config: cfg,
		emitter: NewEmitter(outDir),
		policy: &promotionPolicy{
			CtrAsLocal:         cfg.CtrAsLocal,
			XerAsLocal:         cfg.XerAsLocal,
			ReservedAsLocal:    cfg.ReservedAsLocal,
			CrAsLocal:          cfg.CrAsLocal,
			NonArgumentAsLocal: cfg.NonArgumentAsLocal,
			NonVolatileAsLocal: cfg.NonVolatileAsLocal,
		},
	}
}

// trampolineNames maps each of the eight mandatory save/restore addresses
// to the symbol name the recompiler synthesizes a function for.
func (rc *Recompiler) trampolineNames() map[uint32]string {
	c := rc.Config
	return map[uint32]string{
		c.RestGpr14Address: "__restgprlr_14",
		c.SaveGpr14Address: "__savegprlr_14",
		c.RestFpr14Address: "__restfpr_14",
		c.SaveFpr14Address: "__savefpr_14",
		c.RestVmx14Address: "__restvmx_14",
		c.SaveVmx14Address: "__savevmx_14",
		c.RestVmx64Address: "__restvmx_64",
		c.SaveVmx64Address: "__savevmx_64",
	}
}

func (rc *Recompiler) isTrampolineSkippable(name string) bool {
	if !rc.Config.NonVolatileAsLocal {
		return false
	}
	switch name {
	case "__restgprlr_14", "__savegprlr_14", "__restfpr_14", "__savefpr_14",
		"__restvmx_14", "__savevmx_14", "__restvmx_64", "__savevmx_64":
		return true
	}
	return false
}

// Analyse discovers every function reachable from the image's entry point,
// the forced config.Functions entries, and any named function symbol
// already present in the image, plus the eight save/restore trampolines a
// recompiled image always calls. Executable-container concerns (walking a
// PE/XEX exception table) are out of scope here: the Image interface is
// assumed already populated with whatever function symbols its loader
// recovered, and Analyse supplements those with what it can discover by
// following `bl` targets.
func (rc *Recompiler) Analyse() {
	seen := make(map[uint32]bool)
	queue := []uint32{rc.Image.EntryPoint}

	for addr, size := range rc.Config.Functions {
		seen[addr] = true
		rc.Functions = append(rc.Functions, &analysis.Function{Base: addr, Size: size})
	}
	for addr, name := range rc.trampolineNames() {
		if addr == 0 || seen[addr] {
			continue
		}
		seen[addr] = true
		rc.Image.Symbols.Insert(image.Symbol{Address: addr, Type: image.SymbolFunction, Name: name})
		queue = append(queue, addr)
	}
	for _, sym := range rc.Image.Symbols.All() {
		if sym.Type == image.SymbolFunction && !seen[sym.Address] {
			queue = append(queue, sym.Address)
		}
	}

	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		if seen[addr] {
			continue
		}
		seen[addr] = true

		code := rc.Image.Find(addr)
		if code == nil {
			continue
		}
		fn := analysis.Analyze(code, uint32(len(code)), addr)
		if fn.Size == 0 {
			continue
		}
		rc.Functions = append(rc.Functions, fn)

		for off := uint32(0); off+4 <= fn.Size; off += 4 {
			word := beWord(code, off)
			inst := ppc.Decode(word, addr+off)
			if inst.Unrecognized() {
				continue
			}
			if inst.Mnemonic() == "bl" {
				target := uint32(inst.Operands[0])
				if rc.Image.Contains(target) && !seen[target] {
					queue = append(queue, target)
				}
			}
		}
	}

	sort.Slice(rc.Functions, func(i, j int) bool { return rc.Functions[i].Base < rc.Functions[j].Base })
}

var invalidIdentChar = regexp.MustCompile(`[^A-Za-z0-9_]`)

func sanitizeSymbol(name string) string {
	return invalidIdentChar.ReplaceAllString(name, "_")
}

func (rc *Recompiler) functionName(addr uint32) string {
	if sym := rc.Image.Symbols.Find(addr); sym != nil && sym.Type == image.SymbolFunction && sym.Name != "" {
		return sanitizeSymbol(sym.Name)
	}
	return fmt.Sprintf("sub_%08X", addr)
}

// callResult is what resolveCall decides an out-of-line branch or bl
// should emit: either a full call statement, a diagnostic comment standing
// in for one, or nothing at all (a trampoline call elided because its
// registers are already locals in this function).
type callResult struct {
	skip    bool
	text    string
	isError bool
}

// resolveCall decides how a call to target should be emitted: setjmp/longjmp
// if target matches the configured addresses, an elided no-op if target is
// a save/restore trampoline made redundant by register promotion, a direct
// call to the resolved symbol, or an UnsupportedInstruction-style comment
// if target resolves to nothing at all.
func (rc *Recompiler) resolveCall(fc *funcCtx, target uint32) callResult {
	if rc.Config.SetJmpAddress != 0 && target == rc.Config.SetJmpAddress {
		return callResult{text: fmt.Sprintf("%s.s64 = setjmp(*reinterpret_cast<jmp_buf*>(base + %s.u32));", fc.r(3), fc.r(3))}
	}
	if rc.Config.LongJmpAddress != 0 && target == rc.Config.LongJmpAddress {
		return callResult{text: fmt.Sprintf("longjmp(*reinterpret_cast<jmp_buf*>(base + %s.u32), %s.s32);", fc.r(3), fc.r(4))}
	}
	if name, ok := rc.trampolineNames()[target]; ok && rc.isTrampolineSkippable(name) {
		return callResult{skip: true}
	}
	if !rc.Image.Contains(target) {
		return callResult{isError: true, text: fmt.Sprintf("// ERROR could not resolve call target 0x%08X", target)}
	}
	return callResult{text: fmt.Sprintf("%s(ctx, base);", rc.functionName(target))}
}

// emitCall appends the statement resolveCall decides on, logging an
// UnresolvedCall diagnostic when the target couldn't be resolved.
func (fc *funcCtx) emitCall(target uint32) {
	res := fc.rc.resolveCall(fc, target)
	if res.skip {
		return
	}
	fc.emit("%s", res.text)
	if res.isError {
		fc.rc.emitter.diagnostic("unresolved call target 0x%08X in function at 0x%08X", target, fc.fn.Base)
	}
}

// resetCSR drops the CSR shadow state to Unknown, as every label crossing
// and every call does.
func (fc *funcCtx) resetCSR() { fc.csr = CSRUnknown }

// ensureFPU emits the flush-mode transition for scalar floating-point
// instructions, once per contiguous run.
func (fc *funcCtx) ensureFPU() {
	if fc.csr != CSRFPU {
		fc.emit("ctx.fpscr.disableFlushMode();")
		fc.csr = CSRFPU
	}
}

// ensureVMX emits the flush-mode transition for vector instructions, once
// per contiguous run.
func (fc *funcCtx) ensureVMX() {
	if fc.csr != CSRVMX {
		fc.emit("ctx.fpscr.enableFlushMode();")
		fc.csr = CSRVMX
	}
}

// RecompileFunction emits one function's body, following the envelope:
// label pre-scan and hook externs, PPC_FUNC prologue, per-instruction
// comment/hook/body emission with CSR and label-crossing resets, closing
// brace and weak-alias wrapper, and finally the local-variable declaration
// block prepended before the body. The body is assembled into a scratch
// buffer first (mirroring the original tool's swap-the-output-string
// trick) so the declaration block, known only once the whole body has been
// walked, can be written before it in the shared batch buffer.
func (rc *Recompiler) RecompileFunction(fn *analysis.Function) {
	var scratch strings.Builder
	code := rc.Image.Find(fn.Base)
	fc := &funcCtx{
		rc:     rc,
		fn:     fn,
		n:      &registerNamer{cfg: rc.policy, local: &LocalVariables{}},
		loc:    &LocalVariables{},
		code:   code,
		labels: computeLabels(rc, fn),
		csr:    CSRUnknown,
		out:    &scratch,
	}
	fc.n.local = fc.loc

	hooks := midAsmHooksIn(rc, fn)
	for _, h := range hooks {
		params := make([]string, len(h.Hook.Registers))
		for i, reg := range h.Hook.Registers {
			params[i] = hookParamType(reg)
		}
		rc.emitter.println("extern void %s(%s);", h.Hook.Name, strings.Join(params, ", "))
	}

	name := rc.functionName(fn.Base)
	fmt.Fprintf(&scratch, "PPC_FUNC_IMPL(void, __imp__%s(PPCContext& ctx, uint8_t* base))\n{\n\tPPC_FUNC_PROLOGUE();\n", name)

	for off := uint32(0); off+4 <= fn.Size; off += 4 {
		addr := fn.Base + off
		word := beWord(code, off)

		if fc.labels[addr] {
			fmt.Fprintf(&scratch, "%s:\n", label(addr))
			fc.resetCSR()
		}

		inst := ppc.Decode(word, addr)

		if inst.Unrecognized() {
			fmt.Fprintf(&scratch, "\t// %s\n", inst.String())
			rc.emitter.diagnostic("unable to decode instruction 0x%08X at 0x%08X", word, addr)
			continue
		}

		fmt.Fprintf(&scratch, "\t// %s\n", inst.String())

		for _, h := range hooks {
			if h.Addr == addr && !h.Hook.AfterInstruction {
				fc.emitHook(h.Hook)
			}
		}

		fc.switchTable = nil
		if s, ok := rc.Config.SwitchTables[addr]; ok {
			fc.switchTable = &s
		}

		if handler, ok := dispatch[inst.Mnemonic()]; ok {
			handler(fc, inst)
		} else {
			fmt.Fprintf(&scratch, "\t// ERROR unsupported instruction: %s\n", inst.Mnemonic())
			rc.emitter.diagnostic("unrecognized instruction at 0x%08X: %s", addr, inst.Mnemonic())
			fc.allRecompiled = false
		}

		for _, h := range hooks {
			if h.Addr == addr && h.Hook.AfterInstruction {
				fc.emitHook(h.Hook)
			}
		}
	}

	scratch.WriteString("}\n")
	fmt.Fprintf(&scratch, "PPC_WEAK_FUNC(%s, __imp__%s);\n\n", name, name)

	var decls strings.Builder
	emitLocalDecls(&decls, fc.loc)

	rc.emitter.print("%s", decls.String())
	rc.emitter.print("%s", scratch.String())
	rc.emitter.noteFunctionEmitted(name, fn.Base)
}

func (fc *funcCtx) emitHook(h config.MidAsmHook) { fc.emitHookCall(h) }

// emitLocalDecls writes one declaration per promoted register or scratch
// variable the just-emitted body actually referenced.
func emitLocalDecls(w *strings.Builder, loc *LocalVariables) {
	if loc.Ctr {
		w.WriteString("\tPPCRegister ctr{};\n")
	}
	if loc.Xer {
		w.WriteString("\tPPCXERRegister xer{};\n")
	}
	if loc.Reserved {
		w.WriteString("\tPPCRegister reserved{};\n")
	}
	for i, used := range loc.Cr {
		if used {
			fmt.Fprintf(w, "\tPPCCRRegister cr%d{};\n", i)
		}
	}
	for i, used := range loc.R {
		if used {
			fmt.Fprintf(w, "\tPPCRegister r%d{};\n", i)
		}
	}
	for i, used := range loc.F {
		if used {
			fmt.Fprintf(w, "\tPPCRegister f%d{};\n", i)
		}
	}
	for i, used := range loc.V {
		if used {
			fmt.Fprintf(w, "\tPPCVRegister v%d{};\n", i)
		}
	}
	if loc.Ea {
		w.WriteString("\tuint32_t ea{};\n")
	}
	if loc.Temp {
		w.WriteString("\tPPCRegister temp{};\n")
	}
	if loc.VTemp {
		w.WriteString("\tPPCVRegister vTemp{};\n")
	}
	if loc.Env {
		w.WriteString("\tvoid* env{};\n")
	}
}

// Diagnostics returns every recoverable-error line accumulated while
// recompiling, in emission order.
func (rc *Recompiler) Diagnostics() []string { return rc.emitter.Diagnostics }

// Run recompiles every discovered function in base-address order and
// flushes the final partial batch.
func (rc *Recompiler) Run() error {
	for _, fn := range rc.Functions {
		rc.RecompileFunction(fn)
	}
	return rc.emitter.SaveCurrentOutData()
}
