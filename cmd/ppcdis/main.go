// Command ppcdis disassembles a flat PowerPC code image into a textual
// instruction listing, one line per 32-bit word.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/xenonrecomp/recomp/image"
	"github.com/xenonrecomp/recomp/ppc"
)

var baseAddress = flag.Uint64("base", image.DefaultBase, "Load address of the image.")

func main() {
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <inputfile> [outputfile]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	inputFile := flag.Arg(0)
	var outputFile string
	if flag.NArg() == 2 {
		outputFile = flag.Arg(1)
	}

	code, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	listing := disassemble(code, uint32(*baseAddress))

	if outputFile == "" {
		fmt.Println(listing)
		return
	}
	if err := os.WriteFile(outputFile, []byte(listing), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Disassembly written to %s\n", outputFile)
}

// disassemble decodes code word by word from base, one "addr: word  text"
// line per instruction.
func disassemble(code []byte, base uint32) string {
	var b bytes.Buffer
	for off := 0; off+4 <= len(code); off += 4 {
		addr := base + uint32(off)
		word := binary.BigEndian.Uint32(code[off:])
		inst := ppc.Decode(word, addr)
		fmt.Fprintf(&b, "%08X: %08X  %s\n", addr, word, inst.String())
	}
	return b.String()
}
