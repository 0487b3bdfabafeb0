package image

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSymbolTableInsertOrdersByAddress(t *testing.T) {
	var tbl SymbolTable
	tbl.Insert(Symbol{Address: 0x2000, Name: "b"})
	tbl.Insert(Symbol{Address: 0x1000, Name: "a"})
	tbl.Insert(Symbol{Address: 0x3000, Name: "c"})

	all := tbl.All()
	if len(all) != 3 {
		t.Fatalf("got %d symbols, want 3", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].Name != want {
			t.Errorf("entry %d: got %q, want %q", i, all[i].Name, want)
		}
	}
}

func TestSymbolTableInsertSameAddressLatestWins(t *testing.T) {
	var tbl SymbolTable
	tbl.Insert(Symbol{Address: 0x1000, Name: "old"})
	tbl.Insert(Symbol{Address: 0x1000, Name: "new"})

	if tbl.Len() != 1 {
		t.Fatalf("got %d symbols, want 1 (later insert should replace)", tbl.Len())
	}
	if got := tbl.Find(0x1000); got == nil || got.Name != "new" {
		t.Errorf("got %+v, want name=new", got)
	}
}

func TestSymbolTableFindExactAndContaining(t *testing.T) {
	var tbl SymbolTable
	tbl.Insert(Symbol{Address: 0x1000, Size: 0x40, Type: SymbolFunction, Name: "fn"})

	if got := tbl.Find(0x1000); got == nil || got.Name != "fn" {
		t.Errorf("exact match: got %+v", got)
	}
	if got := tbl.Find(0x1020); got == nil || got.Name != "fn" {
		t.Errorf("containing match: got %+v", got)
	}
	if got := tbl.Find(0x1040); got != nil {
		t.Errorf("past the end of the function: got %+v, want nil", got)
	}
	if got := tbl.Find(0x0FFF); got != nil {
		t.Errorf("before the symbol: got %+v, want nil", got)
	}
}

func TestSymbolTableFindDataSymbolHasNoRange(t *testing.T) {
	var tbl SymbolTable
	tbl.Insert(Symbol{Address: 0x2000, Size: 0x100, Type: SymbolData, Name: "g_table"})
	if got := tbl.Find(0x2010); got != nil {
		t.Errorf("data symbols match only at their exact address: got %+v", got)
	}
	if got := tbl.Find(0x2000); got == nil {
		t.Errorf("exact address should still match: got nil")
	}
}

func TestSymbolTableFindByName(t *testing.T) {
	var tbl SymbolTable
	tbl.Insert(Symbol{Address: 0x1000, Name: "sub_1000"})
	if got := tbl.FindByName("sub_1000"); got == nil || got.Address != 0x1000 {
		t.Errorf("got %+v", got)
	}
	if got := tbl.FindByName("missing"); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestRenameEntryPoint(t *testing.T) {
	var tbl SymbolTable
	tbl.Insert(Symbol{Address: 0x82000000, Size: 0x20, Type: SymbolFunction, Name: "sub_82000000"})
	tbl.RenameEntryPoint(0x82000000)
	if got := tbl.Find(0x82000000); got == nil || got.Name != "_xstart" {
		t.Errorf("got %+v, want name=_xstart", got)
	}
}

func TestRenameEntryPointNoCoveringSymbolIsNoop(t *testing.T) {
	var tbl SymbolTable
	tbl.Insert(Symbol{Address: 0x1000, Name: "fn"})
	tbl.RenameEntryPoint(0x9000) // nothing covers this address
	if got := tbl.Find(0x1000); got == nil || got.Name != "fn" {
		t.Errorf("unrelated symbol should be untouched: got %+v", got)
	}
}

func TestImageFindReturnsSectionOffsetSlice(t *testing.T) {
	img := &Image{
		Sections: []Section{
			{Name: ".text", Base: 0x82000000, Size: 0x10, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		},
	}
	data := img.Find(0x82000004)
	if len(data) == 0 || data[0] != 5 {
		t.Fatalf("got %v, want slice starting at byte 5", data)
	}
	if img.Find(0x81FFFFFF) != nil {
		t.Errorf("address before any section should miss")
	}
	if img.Find(0x82000010) != nil {
		t.Errorf("address past the section's end should miss")
	}
}

func TestImageFindSection(t *testing.T) {
	img := &Image{Sections: []Section{{Name: ".text", Base: 0x1000, Size: 0x10}, {Name: ".data", Base: 0x2000, Size: 0x10}}}
	if s := img.FindSection(".data"); s == nil || s.Base != 0x2000 {
		t.Errorf("got %+v", s)
	}
	if img.FindSection(".bss") != nil {
		t.Errorf("want nil for missing section")
	}
}

func TestLoadFlatWrapsFileAsSingleTextSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.bin")
	data := []byte{0x38, 0x60, 0x00, 0x01, 0x4E, 0x80, 0x00, 0x20}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	img, err := LoadFlat(path, 0x82000000)
	if err != nil {
		t.Fatalf("LoadFlat: %v", err)
	}
	if img.EntryPoint != 0x82000000 {
		t.Errorf("got entry point 0x%08X, want 0x82000000", img.EntryPoint)
	}
	sec := img.FindSection(".text")
	if sec == nil {
		t.Fatalf("missing .text section")
	}
	if sec.Base != 0x82000000 || sec.Size != uint32(len(data)) {
		t.Errorf("got base=0x%08X size=%d, want base=0x82000000 size=%d", sec.Base, sec.Size, len(data))
	}
	if got := img.Find(0x82000004); len(got) == 0 || got[0] != 0x4E {
		t.Errorf("got %v, want slice starting at byte 0x4E", got)
	}
}

func TestLoadFlatMissingFileReturnsError(t *testing.T) {
	if _, err := LoadFlat(filepath.Join(t.TempDir(), "missing.bin"), 0x82000000); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestImageContains(t *testing.T) {
	img := &Image{Sections: []Section{{Name: ".text", Base: 0x1000, Size: 0x10}}}
	if !img.Contains(0x1008) {
		t.Errorf("expected 0x1008 to be within the section")
	}
	if img.Contains(0x2000) {
		t.Errorf("expected 0x2000 to be outside any section")
	}
}
