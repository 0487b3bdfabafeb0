// Package image models a loaded executable image: its sections, its
// address-ordered symbol table, and the entry point the recompiler starts
// analysis from.
package image

import (
	"fmt"
	"os"
	"sort"
)

// DefaultBase is the conventional Xenon image load address used when a
// container's own header isn't parsed for one. XEX/PE container parsing is
// out of scope; LoadFlat treats the whole file as a single ".text" section
// the way run68's ".bin" case loads a flat binary at a caller-given address.
const DefaultBase = 0x82000000

// SymbolType distinguishes what a Symbol names. Function is the only kind
// the recompiler itself consumes; others are carried through for
// completeness of the symbol table.
type SymbolType int

const (
	SymbolFunction SymbolType = iota
	SymbolData
)

// Symbol is a named, sized, typed range of guest address space.
type Symbol struct {
	Address uint32
	Size    uint32
	Type    SymbolType
	Name    string
}

// Section is one loaded region of the image: its guest base address, its
// backing bytes, and the flags the original container recorded for it
// (executable, writable, and so on — opaque to this package).
type Section struct {
	Name  string
	Base  uint32
	Size  uint32
	Flags uint32
	Data  []byte
}

// contains reports whether addr falls within the section's address range.
func (s *Section) contains(addr uint32) bool {
	return addr >= s.Base && addr < s.Base+s.Size
}

// SymbolTable holds Symbols in address order. Ties at the same address are
// broken by latest-insertion-wins: Insert replaces rather than appends when
// a symbol already occupies the exact address, matching spec.md §4.4's
// rename-the-entry-point-symbol behavior.
type SymbolTable struct {
	entries []Symbol
}

// Insert adds sym in address order. If a symbol already sits at the same
// address, it is replaced rather than duplicated.
func (t *SymbolTable) Insert(sym Symbol) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Address >= sym.Address
	})
	if i < len(t.entries) && t.entries[i].Address == sym.Address {
		t.entries[i] = sym
		return
	}
	t.entries = append(t.entries, Symbol{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = sym
}

// Find returns the symbol whose range contains addr, preferring an exact
// address match, or nil if none covers it. Only function symbols have a
// range; any other symbol matches only its exact address.
func (t *SymbolTable) Find(addr uint32) *Symbol {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Address > addr
	})
	// i is the first entry strictly past addr; the candidate containing
	// addr, if any, is the one immediately before it.
	if i == 0 {
		return nil
	}
	sym := &t.entries[i-1]
	if sym.Address == addr {
		return sym
	}
	if sym.Type == SymbolFunction && addr < sym.Address+sym.Size {
		return sym
	}
	return nil
}

// FindByName returns the first symbol with the given name, or nil.
func (t *SymbolTable) FindByName(name string) *Symbol {
	for i := range t.entries {
		if t.entries[i].Name == name {
			return &t.entries[i]
		}
	}
	return nil
}

// RenameEntryPoint renames the symbol covering entryPoint to "_xstart",
// matching the original tool's behavior of marking the real entry point
// distinctly from whatever name the container's symbol table gave it.
func (t *SymbolTable) RenameEntryPoint(entryPoint uint32) {
	if sym := t.Find(entryPoint); sym != nil {
		sym.Name = "_xstart"
	}
}

// Len reports the number of symbols in the table.
func (t *SymbolTable) Len() int { return len(t.entries) }

// All returns the symbols in address order. The caller must not mutate the
// returned slice's backing array.
func (t *SymbolTable) All() []Symbol { return t.entries }

// Image is a read-only facade over a loaded executable: its sections, its
// symbol table, and its entry point.
type Image struct {
	Sections   []Section
	Symbols    SymbolTable
	EntryPoint uint32
}

// Find returns a pointer into the section data backing addr, or nil if no
// section covers it.
func (img *Image) Find(addr uint32) []byte {
	for i := range img.Sections {
		s := &img.Sections[i]
		if s.contains(addr) {
			return s.Data[addr-s.Base:]
		}
	}
	return nil
}

// FindSection returns the section named name, or nil.
func (img *Image) FindSection(name string) *Section {
	for i := range img.Sections {
		if img.Sections[i].Name == name {
			return &img.Sections[i]
		}
	}
	return nil
}

// Contains reports whether addr falls within any loaded section.
func (img *Image) Contains(addr uint32) bool {
	for i := range img.Sections {
		if img.Sections[i].contains(addr) {
			return true
		}
	}
	return false
}

// LoadFlat reads the file at path as a single raw, already-linked code
// image and wraps it in an Image with one ".text" section based at base.
// The entry point is set to base; function symbols are left for the caller
// to add (e.g. from config.Functions forced entries) since a flat file
// carries no header of its own to recover them from.
func LoadFlat(path string, base uint32) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image: reading %s: %w", path, err)
	}
	return &Image{
		Sections: []Section{
			{Name: ".text", Base: base, Size: uint32(len(data)), Data: data},
		},
		EntryPoint: base,
	}, nil
}
