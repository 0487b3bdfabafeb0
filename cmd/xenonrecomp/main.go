// Command xenonrecomp translates a Xenon PowerPC code image into host
// C-family source, driven by a TOML configuration.
package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/xenonrecomp/recomp/config"
	"github.com/xenonrecomp/recomp/image"
	"github.com/xenonrecomp/recomp/recompiler"
)

var (
	configPath    = flag.String("config", "", "Path to the TOML recompiler configuration.")
	contextHeader = flag.String("context-header", "", "Path to the ppc_context.h runtime header to copy into the output directory.")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if *configPath == "" {
		log.Println("Usage: xenonrecomp -config <path.toml> [-context-header <ppc_context.h>]")
		flag.PrintDefaults()
		log.Fatal("missing -config")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	for _, warning := range config.MidAsmHookConflicts(cfg) {
		log.Printf("warning: %s", warning)
	}

	img, err := image.LoadFlat(resolvePath(cfg.DirectoryPath, cfg.FilePath), image.DefaultBase)
	if err != nil {
		log.Fatalf("loading image: %v", err)
	}
	img.Symbols.RenameEntryPoint(img.EntryPoint)

	rc := recompiler.New(img, cfg, resolvePath(cfg.DirectoryPath, cfg.OutDirectoryPath))
	rc.Analyse()
	log.Printf("discovered %d functions", len(rc.Functions))

	if err := rc.Run(); err != nil {
		log.Fatalf("recompiling: %v", err)
	}
	if *contextHeader != "" {
		if err := rc.RecompileHeader(*contextHeader); err != nil {
			log.Fatalf("writing support headers: %v", err)
		}
	}

	for _, d := range rc.Diagnostics() {
		log.Printf("warning: %s", d)
	}
	log.Printf("wrote %d functions to %s", len(rc.Functions), cfg.OutDirectoryPath)
}

// resolvePath resolves p against dir unless p is already absolute or empty.
func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
