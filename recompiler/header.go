package recompiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RecompileHeader writes the four support files that accompany the batched
// ppc_recomp.<N>.cpp output: a verbatim copy of the caller-supplied
// ppc_context.h, ppc_config.h's image-bounds and enabled-option #defines,
// ppc_recomp_shared.h's extern declarations, and ppc_func_mapping.cpp's
// address table. Call it once after every function has been recompiled,
// since the mapping and extern list depend on the full emitted set.
func (rc *Recompiler) RecompileHeader(contextHeaderPath string) error {
	if err := rc.copyContextHeader(contextHeaderPath); err != nil {
		return err
	}
	if err := rc.writeConfigHeader(); err != nil {
		return err
	}
	if err := rc.writeSharedHeader(); err != nil {
		return err
	}
	return rc.writeFuncMapping()
}

func (rc *Recompiler) copyContextHeader(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("recompiler: reading context header %s: %w", path, err)
	}
	return writeContentHashed(filepath.Join(rc.emitter.outDir, "ppc_context.h"), data)
}

// imageBounds returns the address range spanning every loaded section.
func (rc *Recompiler) imageBounds() (base, size uint32) {
	secs := rc.Image.Sections
	if len(secs) == 0 {
		return 0, 0
	}
	lo, hi := secs[0].Base, secs[0].Base+secs[0].Size
	for _, s := range secs[1:] {
		if s.Base < lo {
			lo = s.Base
		}
		if end := s.Base + s.Size; end > hi {
			hi = end
		}
	}
	return lo, hi - lo
}

// codeBounds returns the ".text" section's range, falling back to the full
// image range if the image carries no section by that name.
func (rc *Recompiler) codeBounds() (base, size uint32) {
	if sec := rc.Image.FindSection(".text"); sec != nil {
		return sec.Base, sec.Size
	}
	return rc.imageBounds()
}

func (rc *Recompiler) enabledOptionDefines() []string {
	c := rc.Config
	var defs []string
	if c.SkipLR {
		defs = append(defs, "PPC_SKIP_LR")
	}
	if c.SkipMSR {
		defs = append(defs, "PPC_SKIP_MSR")
	}
	if c.CtrAsLocal {
		defs = append(defs, "PPC_CTR_AS_LOCAL")
	}
	if c.XerAsLocal {
		defs = append(defs, "PPC_XER_AS_LOCAL")
	}
	if c.ReservedAsLocal {
		defs = append(defs, "PPC_RESERVED_AS_LOCAL")
	}
	if c.CrAsLocal {
		defs = append(defs, "PPC_CR_AS_LOCAL")
	}
	if c.NonArgumentAsLocal {
		defs = append(defs, "PPC_NON_ARGUMENT_AS_LOCAL")
	}
	if c.NonVolatileAsLocal {
		defs = append(defs, "PPC_NON_VOLATILE_AS_LOCAL")
	}
	return defs
}

func (rc *Recompiler) writeConfigHeader() error {
	imgBase, imgSize := rc.imageBounds()
	codeBase, codeSize := rc.codeBounds()

	var b strings.Builder
	b.WriteString("#pragma once\n\n")
	fmt.Fprintf(&b, "#define PPC_IMAGE_BASE 0x%08X\n", imgBase)
	fmt.Fprintf(&b, "#define PPC_IMAGE_SIZE 0x%08X\n", imgSize)
	fmt.Fprintf(&b, "#define PPC_CODE_BASE 0x%08X\n", codeBase)
	fmt.Fprintf(&b, "#define PPC_CODE_SIZE 0x%08X\n", codeSize)
	for _, d := range rc.enabledOptionDefines() {
		fmt.Fprintf(&b, "#define %s\n", d)
	}
	return writeContentHashed(filepath.Join(rc.emitter.outDir, "ppc_config.h"), []byte(b.String()))
}

func (rc *Recompiler) writeSharedHeader() error {
	var b strings.Builder
	b.WriteString("#pragma once\n\n#include \"ppc_context.h\"\n\n")
	for _, name := range rc.emitter.EmittedFunctionNames {
		fmt.Fprintf(&b, "PPC_EXTERN_FUNC(%s);\n", name)
	}
	return writeContentHashed(filepath.Join(rc.emitter.outDir, "ppc_recomp_shared.h"), []byte(b.String()))
}

func (rc *Recompiler) writeFuncMapping() error {
	var b strings.Builder
	b.WriteString("#include \"ppc_recomp_shared.h\"\n\n")
	b.WriteString("PPCFuncMapping PPCFuncMappings[] = {\n")
	for i, name := range rc.emitter.EmittedFunctionNames {
		fmt.Fprintf(&b, "\t{ 0x%08X, %s },\n", rc.emitter.emittedAddresses[i], name)
	}
	b.WriteString("\t{ 0, nullptr },\n")
	b.WriteString("};\n")
	return writeContentHashed(filepath.Join(rc.emitter.outDir, "ppc_func_mapping.cpp"), []byte(b.String()))
}
