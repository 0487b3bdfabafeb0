package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadMainTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[main]
file_path = "game.xex"
out_directory_path = "out"
skip_lr = true
ctr_as_local = true
restgprlr_14_address = 0x82010000
savegprlr_14_address = 0x82010100
restfpr_14_address = 0x82010200
savefpr_14_address = 0x82010300
restvmx_14_address = 0x82010400
savevmx_14_address = 0x82010500
restvmx_64_address = 0x82010600
savevmx_64_address = 0x82010700

[[main.functions]]
address = 0x82020000
size = 0x40

[[main.invalid_instructions]]
data = 0xDEADBEEF
size = 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FilePath != "game.xex" || cfg.OutDirectoryPath != "out" {
		t.Errorf("got FilePath=%q OutDirectoryPath=%q", cfg.FilePath, cfg.OutDirectoryPath)
	}
	if !cfg.SkipLR || !cfg.CtrAsLocal {
		t.Errorf("got SkipLR=%v CtrAsLocal=%v, want both true", cfg.SkipLR, cfg.CtrAsLocal)
	}
	if cfg.RestGpr14Address != 0x82010000 {
		t.Errorf("got RestGpr14Address=%#x", cfg.RestGpr14Address)
	}
	if size, ok := cfg.Functions[0x82020000]; !ok || size != 0x40 {
		t.Errorf("got forced function entry %v, %v", size, ok)
	}
	if size, ok := cfg.InvalidInstructions[0xDEADBEEF]; !ok || size != 4 {
		t.Errorf("got invalid instruction entry %v, %v", size, ok)
	}
}

func TestLoadSwitchTableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "switches.toml", `
[[switch]]
base = 0x82030000
r = 11
labels = [0x82030100, 0x82030200, 0x82030300]
`)
	path := writeFile(t, dir, "config.toml", `
[main]
switch_table_file_path = "switches.toml"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	st, ok := cfg.SwitchTables[0x82030000]
	if !ok {
		t.Fatalf("switch table not loaded")
	}
	if st.R != 11 || len(st.Labels) != 3 || st.Labels[1] != 0x82030200 {
		t.Errorf("got %+v", st)
	}
}

func TestLoadMidAsmHooks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[[midasm_hook]]
name = "OnEnemyDeath"
address = 0x82040000
registers = ["r3", "r4"]
return = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	hook, ok := cfg.MidAsmHooks[0x82040000]
	if !ok {
		t.Fatalf("mid-asm hook not loaded")
	}
	if hook.Name != "OnEnemyDeath" || !hook.Return || len(hook.Registers) != 2 {
		t.Errorf("got %+v", hook)
	}
}

func TestValidateReportsAllMissingAddressesAtOnce(t *testing.T) {
	cfg := &Config{}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected an error for an empty config")
	}
	for _, name := range []string{"__restgprlr_14", "__savevmx_64"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q missing mention of %s", err.Error(), name)
		}
	}
}

func TestValidatePassesWithAllMandatoryAddresses(t *testing.T) {
	cfg := &Config{
		RestGpr14Address: 1, SaveGpr14Address: 1,
		RestFpr14Address: 1, SaveFpr14Address: 1,
		RestVmx14Address: 1, SaveVmx14Address: 1,
		RestVmx64Address: 1, SaveVmx64Address: 1,
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMidAsmHookConflictsReturnAndJump(t *testing.T) {
	cfg := &Config{MidAsmHooks: map[uint32]MidAsmHook{
		0x1000: {Name: "bad", Return: true, JumpAddress: 0x2000},
	}}
	problems := MidAsmHookConflicts(cfg)
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
}

func TestMidAsmHookConflictsMixedDirectAndConditional(t *testing.T) {
	cfg := &Config{MidAsmHooks: map[uint32]MidAsmHook{
		0x1000: {Name: "bad", Return: true, ReturnOnTrue: true},
	}}
	problems := MidAsmHookConflicts(cfg)
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
}

func TestMidAsmHookNoConflict(t *testing.T) {
	cfg := &Config{MidAsmHooks: map[uint32]MidAsmHook{
		0x1000: {Name: "fine", ReturnOnTrue: true, JumpAddressOnFalse: 0x2000},
	}}
	if problems := MidAsmHookConflicts(cfg); len(problems) != 0 {
		t.Errorf("got %v, want none", problems)
	}
}

