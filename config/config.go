// Package config loads and validates the TOML configuration that drives a
// recompile run: the image path, emission options, save/restore trampoline
// addresses, forced function entries, switch tables, and mid-asm hooks.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// SwitchTable describes a resolved jump table for one indirect-branch
// instruction: the register whose value selects the case, and the ordered
// list of absolute targets it can select among.
type SwitchTable struct {
	R      uint32
	Labels []uint32
}

// MidAsmHook describes a host-side callback to inject at a guest address.
// An unconditional action (Return or JumpAddress) and a conditional one
// (ReturnOnTrue/False, JumpAddressOnTrue/False) are meant to be mutually
// exclusive; MidAsmHookConflicts flags it when they aren't, while Validate
// does not check it and loading is not refused — the original tool only
// logs and proceeds.
type MidAsmHook struct {
	Name      string
	Registers []string

	Return        bool
	ReturnOnTrue  bool
	ReturnOnFalse bool

	JumpAddress        uint32
	JumpAddressOnTrue  uint32
	JumpAddressOnFalse uint32

	AfterInstruction bool
}

// Config is the fully resolved configuration for one recompile run.
type Config struct {
	// DirectoryPath is the directory the config file was loaded from;
	// relative paths elsewhere in the config are resolved against it.
	DirectoryPath string

	FilePath            string
	PatchFilePath       string
	PatchedFilePath     string
	OutDirectoryPath    string
	SwitchTableFilePath string

	SkipLR bool
	SkipMSR bool

	CtrAsLocal             bool
	XerAsLocal             bool
	ReservedAsLocal        bool
	CrAsLocal              bool
	NonArgumentAsLocal     bool
	NonVolatileAsLocal     bool

	RestGpr14Address  uint32
	SaveGpr14Address  uint32
	RestFpr14Address  uint32
	SaveFpr14Address  uint32
	RestVmx14Address  uint32
	SaveVmx14Address  uint32
	RestVmx64Address  uint32
	SaveVmx64Address  uint32

	LongJmpAddress uint32
	SetJmpAddress  uint32

	// Functions forces entries at address with the given size, bypassing
	// analysis for them.
	Functions map[uint32]uint32

	// InvalidInstructions maps a 32-bit word pattern to a run length (in
	// bytes) to skip over wherever that exact word is encountered, used to
	// step past compiler-emitted non-code data embedded in a text section.
	InvalidInstructions map[uint32]uint32

	SwitchTables map[uint32]SwitchTable
	MidAsmHooks  map[uint32]MidAsmHook
}

// fileConfig mirrors the on-disk TOML shape; Load copies it into the public
// Config with zero-value defaults and address-keyed maps, matching the
// original tool's field-by-field `value_or` defaulting.
type fileConfig struct {
	Main struct {
		FilePath            string `toml:"file_path"`
		PatchFilePath       string `toml:"patch_file_path"`
		PatchedFilePath     string `toml:"patched_file_path"`
		OutDirectoryPath    string `toml:"out_directory_path"`
		SwitchTableFilePath string `toml:"switch_table_file_path"`

		SkipLR bool `toml:"skip_lr"`
		SkipMSR bool `toml:"skip_msr"`

		CtrAsLocal         bool `toml:"ctr_as_local"`
		XerAsLocal         bool `toml:"xer_as_local"`
		ReservedAsLocal    bool `toml:"reserved_as_local"`
		CrAsLocal          bool `toml:"cr_as_local"`
		NonArgumentAsLocal bool `toml:"non_argument_as_local"`
		NonVolatileAsLocal bool `toml:"non_volatile_as_local"`

		RestGpr14Address uint32 `toml:"restgprlr_14_address"`
		SaveGpr14Address uint32 `toml:"savegprlr_14_address"`
		RestFpr14Address uint32 `toml:"restfpr_14_address"`
		SaveFpr14Address uint32 `toml:"savefpr_14_address"`
		RestVmx14Address uint32 `toml:"restvmx_14_address"`
		SaveVmx14Address uint32 `toml:"savevmx_14_address"`
		RestVmx64Address uint32 `toml:"restvmx_64_address"`
		SaveVmx64Address uint32 `toml:"savevmx_64_address"`

		LongJmpAddress uint32 `toml:"longjmp_address"`
		SetJmpAddress  uint32 `toml:"setjmp_address"`

		Functions []struct {
			Address uint32 `toml:"address"`
			Size    uint32 `toml:"size"`
		} `toml:"functions"`

		InvalidInstructions []struct {
			Data uint32 `toml:"data"`
			Size uint32 `toml:"size"`
		} `toml:"invalid_instructions"`
	} `toml:"main"`

	MidAsmHook []struct {
		Name      string   `toml:"name"`
		Registers []string `toml:"registers"`

		Return        bool `toml:"return"`
		ReturnOnTrue  bool `toml:"return_on_true"`
		ReturnOnFalse bool `toml:"return_on_false"`

		JumpAddress        uint32 `toml:"jump_address"`
		JumpAddressOnTrue  uint32 `toml:"jump_address_on_true"`
		JumpAddressOnFalse uint32 `toml:"jump_address_on_false"`

		AfterInstruction bool `toml:"after_instruction"`

		Address uint32 `toml:"address"`
	} `toml:"midasm_hook"`
}

type switchFileConfig struct {
	Switch []struct {
		Base   uint32   `toml:"base"`
		R      uint32   `toml:"r"`
		Labels []uint32 `toml:"labels"`
	} `toml:"switch"`
}

// Load reads and parses the configuration at path, resolving
// SwitchTableFilePath (if set) relative to path's directory.
func Load(path string) (*Config, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	dir := filepath.Dir(path) + string(filepath.Separator)
	cfg := &Config{
		DirectoryPath:       dir,
		FilePath:            fc.Main.FilePath,
		PatchFilePath:       fc.Main.PatchFilePath,
		PatchedFilePath:     fc.Main.PatchedFilePath,
		OutDirectoryPath:    fc.Main.OutDirectoryPath,
		SwitchTableFilePath: fc.Main.SwitchTableFilePath,

		SkipLR:  fc.Main.SkipLR,
		SkipMSR: fc.Main.SkipMSR,

		CtrAsLocal:         fc.Main.CtrAsLocal,
		XerAsLocal:         fc.Main.XerAsLocal,
		ReservedAsLocal:    fc.Main.ReservedAsLocal,
		CrAsLocal:          fc.Main.CrAsLocal,
		NonArgumentAsLocal: fc.Main.NonArgumentAsLocal,
		NonVolatileAsLocal: fc.Main.NonVolatileAsLocal,

		RestGpr14Address: fc.Main.RestGpr14Address,
		SaveGpr14Address: fc.Main.SaveGpr14Address,
		RestFpr14Address: fc.Main.RestFpr14Address,
		SaveFpr14Address: fc.Main.SaveFpr14Address,
		RestVmx14Address: fc.Main.RestVmx14Address,
		SaveVmx14Address: fc.Main.SaveVmx14Address,
		RestVmx64Address: fc.Main.RestVmx64Address,
		SaveVmx64Address: fc.Main.SaveVmx64Address,

		LongJmpAddress: fc.Main.LongJmpAddress,
		SetJmpAddress:  fc.Main.SetJmpAddress,

		Functions:           make(map[uint32]uint32, len(fc.Main.Functions)),
		InvalidInstructions: make(map[uint32]uint32, len(fc.Main.InvalidInstructions)),
		SwitchTables:        make(map[uint32]SwitchTable),
		MidAsmHooks:         make(map[uint32]MidAsmHook, len(fc.MidAsmHook)),
	}

	for _, f := range fc.Main.Functions {
		cfg.Functions[f.Address] = f.Size
	}
	for _, inv := range fc.Main.InvalidInstructions {
		cfg.InvalidInstructions[inv.Data] = inv.Size
	}

	if cfg.SwitchTableFilePath != "" {
		var sfc switchFileConfig
		switchPath := dir + cfg.SwitchTableFilePath
		if _, err := toml.DecodeFile(switchPath, &sfc); err != nil {
			return nil, fmt.Errorf("config: parsing switch table %s: %w", switchPath, err)
		}
		for _, s := range sfc.Switch {
			labels := make([]uint32, len(s.Labels))
			copy(labels, s.Labels)
			cfg.SwitchTables[s.Base] = SwitchTable{R: s.R, Labels: labels}
		}
	}

	for _, h := range fc.MidAsmHook {
		hook := MidAsmHook{
			Name:               h.Name,
			Registers:          append([]string(nil), h.Registers...),
			Return:             h.Return,
			ReturnOnTrue:       h.ReturnOnTrue,
			ReturnOnFalse:      h.ReturnOnFalse,
			JumpAddress:        h.JumpAddress,
			JumpAddressOnTrue:  h.JumpAddressOnTrue,
			JumpAddressOnFalse: h.JumpAddressOnFalse,
			AfterInstruction:   h.AfterInstruction,
		}
		cfg.MidAsmHooks[h.Address] = hook
	}

	return cfg, nil
}

// Validate collects every missing mandatory save/restore trampoline
// address into one error, rather than reporting them one at a time the way
// the original tool's field-by-field checks do. A nil return means the
// configuration is usable for a recompile run; this is the hard
// ConfigurationError path and the caller should abort before any emission.
func Validate(cfg *Config) error {
	var problems []string

	required := []struct {
		name string
		addr uint32
	}{
		{"__restgprlr_14", cfg.RestGpr14Address},
		{"__savegprlr_14", cfg.SaveGpr14Address},
		{"__restfpr_14", cfg.RestFpr14Address},
		{"__savefpr_14", cfg.SaveFpr14Address},
		{"__restvmx_14", cfg.RestVmx14Address},
		{"__savevmx_14", cfg.SaveVmx14Address},
		{"__restvmx_64", cfg.RestVmx64Address},
		{"__savevmx_64", cfg.SaveVmx64Address},
	}
	for _, r := range required {
		if r.addr == 0 {
			problems = append(problems, fmt.Sprintf("%s address is unspecified", r.name))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("config: %s", strings.Join(problems, "; "))
}

// MidAsmHookConflicts reports every mid-asm hook whose action fields are
// ambiguous (both return and jump set, or a direct and conditional form
// mixed). These are MidAsmHookConflict diagnostics, not configuration
// errors: the caller logs them and proceeds, using whichever field was
// declared first, matching the original tool's behavior.
func MidAsmHookConflicts(cfg *Config) []string {
	var problems []string
	for addr, hook := range cfg.MidAsmHooks {
		if (hook.Return && hook.JumpAddress != 0) ||
			(hook.ReturnOnTrue && hook.JumpAddressOnTrue != 0) ||
			(hook.ReturnOnFalse && hook.JumpAddressOnFalse != 0) {
			problems = append(problems, fmt.Sprintf("midasm hook %q at %#08x: can't return and jump at the same time", hook.Name, addr))
		}
		if (hook.Return || hook.JumpAddress != 0) &&
			(hook.ReturnOnFalse || hook.ReturnOnTrue || hook.JumpAddressOnFalse != 0 || hook.JumpAddressOnTrue != 0) {
			problems = append(problems, fmt.Sprintf("midasm hook %q at %#08x: can't mix direct and conditional return/jump", hook.Name, addr))
		}
	}
	return problems
}
