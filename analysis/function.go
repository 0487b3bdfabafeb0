// Package analysis discovers a function's basic-block structure by walking
// its instructions from an entry address, following intra-procedural
// branches until the function's extent is fully covered.
package analysis

import (
	"github.com/xenonrecomp/recomp/ppc"
)

// noProjection is the "unknown" sentinel for Block.ProjectedSize.
const noProjection = ^uint32(0)

// Block is a basic block of a function, expressed as an offset/size pair
// relative to the owning Function's base.
type Block struct {
	Base uint32
	Size uint32

	// ProjectedSize is scratch state used only during discovery: the
	// expected maximum size of this block, used to truncate a fallthrough
	// block before it overruns a branch target known to land inside it.
	ProjectedSize uint32

	// Parent records the block this one was split from; populated only
	// for debugging, never consulted by Analyze itself.
	Parent uint32
}

// Function is the discovered control-flow shape of one guest function: a
// base address, a total byte size, and an address-ordered set of blocks.
type Function struct {
	Base   uint32
	Size   uint32
	Blocks []Block
}

// shiftedPtrTailCallMarker is the byte pattern of `b +0x04000048` as it
// appears pre-byteswap at the second word of a function that is actually a
// shifted-pointer tail-call thunk: such a "function" is exactly 8 bytes and
// analysis stops immediately rather than chasing the branch.
const shiftedPtrTailCallMarker = 0x04000048

// SearchBlock returns the index of the block covering addr, or -1 if none
// does. A freshly pushed block with Base==Size matches only the exact
// address it starts at.
func (fn *Function) SearchBlock(addr uint32) int {
	if addr < fn.Base {
		return -1
	}
	for i, b := range fn.Blocks {
		begin := fn.Base + b.Base
		end := begin + b.Size
		if begin != end {
			if addr >= begin && addr < end {
				return i
			}
		} else if addr == begin {
			return i
		}
	}
	return -1
}

// Analyze discovers the basic-block structure of the function starting at
// base within code, a byte window guaranteed to outlive the call and to
// cover every address the function could reach. code is decoded in 4-byte
// big-endian words; size bounds how far the worklist is allowed to read.
func Analyze(code []byte, size, base uint32) *Function {
	fn := &Function{Base: base}

	// This check is against the raw in-memory bytes, not the byteswapped
	// instruction word used everywhere else: the marker is a byte pattern,
	// not a decoded guest instruction.
	if size >= 8 && leWord(code, 4) == shiftedPtrTailCallMarker {
		fn.Size = 8
		return fn
	}

	fn.Blocks = make([]Block, 0, 8)
	fn.Blocks = append(fn.Blocks, Block{ProjectedSize: noProjection})

	blockStack := make([]int, 0, 32)
	blockStack = append(blockStack, 0)

	// offset is the cursor's position relative to base, in bytes.
	var offset uint32
	restoreCursor := func() {
		if len(blockStack) == 0 {
			return
		}
		b := fn.Blocks[blockStack[len(blockStack)-1]]
		offset = b.Base + b.Size
	}

	for offset+4 <= size {
		if len(blockStack) == 0 {
			break
		}

		curIdx := blockStack[len(blockStack)-1]
		cur := &fn.Blocks[curIdx]
		addr := base + offset
		word := beWord(code, offset)

		if cur.ProjectedSize != noProjection && cur.Size >= cur.ProjectedSize {
			blockStack = blockStack[:len(blockStack)-1]
			restoreCursor()
			continue
		}

		inst := ppc.Decode(word, addr)

		cur.Size += 4

		switch {
		case isConditionalBranch(inst):
			cur.ProjectedSize = noProjection
			blockStack = blockStack[:len(blockStack)-1]

			fallthroughBase := offset + 4
			takenBase := uint32(inst.Operands[2]) - base

			lBlock := fn.SearchBlock(base + fallthroughBase)
			if lBlock == -1 {
				fn.Blocks = append(fn.Blocks, Block{Base: fallthroughBase, ProjectedSize: takenBase - fallthroughBase})
				lBlock = len(fn.Blocks) - 1
				fn.Blocks[lBlock].Parent = cur.Base
				blockStack = append(blockStack, lBlock)
			}

			rBlock := fn.SearchBlock(base + takenBase)
			if rBlock == -1 {
				fn.Blocks = append(fn.Blocks, Block{Base: takenBase, ProjectedSize: noProjection})
				rBlock = len(fn.Blocks) - 1
				fn.Blocks[rBlock].Parent = cur.Base
				blockStack = append(blockStack, rBlock)
			}

			restoreCursor()

		case isUnconditionalBranch(inst) || word == 0 || isCtrOrLinkTerminator(inst):
			blockStack = blockStack[:len(blockStack)-1]

			if isUnconditionalBranch(inst) {
				branchDest := uint32(inst.Operands[0])
				if branchDest < base {
					restoreCursor()
					continue
				}

				branchBase := branchDest - base
				branchBlock := fn.SearchBlock(branchDest)

				isContinuous := branchBase == cur.Base+cur.Size
				sizeProjection := noProjection
				if cur.ProjectedSize != noProjection && isContinuous {
					sizeProjection = cur.ProjectedSize - cur.Size
				}

				if branchBlock == -1 {
					fn.Blocks = append(fn.Blocks, Block{Base: branchBase, ProjectedSize: sizeProjection, Parent: cur.Base})
					blockStack = append(blockStack, len(fn.Blocks)-1)
					restoreCursor()
					continue
				}
			} else if isCtrOrLinkTerminator(inst) {
				bo := uint32(inst.Operands[0])
				conditional := bo&0x10 == 0
				if conditional {
					lBase := offset + 4
					lBlock := fn.SearchBlock(base + lBase)
					if lBlock == -1 {
						fn.Blocks = append(fn.Blocks, Block{Base: lBase, ProjectedSize: noProjection, Parent: cur.Base})
						lBlock = len(fn.Blocks) - 1
						blockStack = append(blockStack, lBlock)
						restoreCursor()
						continue
					}
				}
			}

			restoreCursor()

		case inst.Unrecognized():
			blockStack = blockStack[:len(blockStack)-1]
			restoreCursor()

		default:
			offset += 4
		}
	}

	sortAndTrimBlocks(fn)

	fn.Size = 0
	for _, b := range fn.Blocks {
		if end := b.Base + b.Size; end > fn.Size {
			fn.Size = end
		}
	}
	return fn
}

func isConditionalBranch(inst *ppc.Instruction) bool {
	return !inst.Unrecognized() && inst.Mnemonic() == "bc"
}

func isUnconditionalBranch(inst *ppc.Instruction) bool {
	return !inst.Unrecognized() && inst.Mnemonic() == "b"
}

// isCtrOrLinkTerminator reports the branch-to-counter/link-register family
// (blr/bctr and their conditional forms). The link-register-setting call
// forms bclrl/bcctrl decode to distinct mnemonics and are deliberately not
// matched here: a call doesn't terminate the block, it just falls through
// to the next instruction like any other non-terminating opcode.
func isCtrOrLinkTerminator(inst *ppc.Instruction) bool {
	if inst.Unrecognized() {
		return false
	}
	switch inst.Mnemonic() {
	case "bclr", "bcctr":
		return true
	default:
		return false
	}
}

// sortAndTrimBlocks orders blocks by Base and discards any block from the
// first address gap onward: a gap means the tail is unreachable from the
// entry and doesn't belong to this function.
func sortAndTrimBlocks(fn *Function) {
	if len(fn.Blocks) <= 1 {
		return
	}
	blocks := fn.Blocks
	for i := 1; i < len(blocks); i++ {
		b := blocks[i]
		j := i - 1
		for j >= 0 && blocks[j].Base > b.Base {
			blocks[j+1] = blocks[j]
			j--
		}
		blocks[j+1] = b
	}

	discontinuity := -1
	for i := 0; i < len(blocks)-1; i++ {
		if blocks[i].Base+blocks[i].Size >= blocks[i+1].Base {
			continue
		}
		discontinuity = i + 1
		break
	}
	if discontinuity != -1 {
		fn.Blocks = blocks[:discontinuity]
	}
}

func beWord(code []byte, offset uint32) uint32 {
	return uint32(code[offset])<<24 | uint32(code[offset+1])<<16 | uint32(code[offset+2])<<8 | uint32(code[offset+3])
}

func leWord(code []byte, offset uint32) uint32 {
	return uint32(code[offset]) | uint32(code[offset+1])<<8 | uint32(code[offset+2])<<16 | uint32(code[offset+3])<<24
}
