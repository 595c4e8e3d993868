package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/types"
)

// Option configures campaign loading.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger that receives validation warnings.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.Named("loader")
	return o
}

// ParseCampaign decodes and validates a JSON campaign document. Fatal
// problems are returned together as a *ValidationError; warnings are
// logged.
func ParseCampaign(data []byte, opts ...Option) (types.Campaign, error) {
	var raw rawCampaign
	if err := decode("campaign", data, &raw); err != nil {
		return types.Campaign{}, err
	}
	return finish(raw, buildOptions(opts))
}

// ParseCharacter decodes a JSON character sheet. Every field is required.
func ParseCharacter(data []byte) (types.Character, error) {
	var raw rawCharacter
	if err := decode("character", data, &raw); err != nil {
		return types.Character{}, err
	}
	ve := &ValidationError{}
	c := compileCharacter(raw, ve)
	if ve.HasErrors() {
		return types.Character{}, ve
	}
	return c, nil
}

// LoadCampaign reads a campaign from disk. A .json path is parsed as a
// document; a .lua path or a directory of .lua files is executed in a
// sandboxed Lua VM that is discarded after loading.
func LoadCampaign(path string, opts ...Option) (types.Campaign, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.Campaign{}, fmt.Errorf("reading campaign: %w", err)
	}

	if info.IsDir() {
		return loadLuaDir(path, buildOptions(opts))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return types.Campaign{}, fmt.Errorf("reading campaign %s: %w", path, err)
		}
		return ParseCampaign(data, opts...)
	case ".lua":
		return loadLua([]string{path}, buildOptions(opts))
	default:
		return types.Campaign{}, fmt.Errorf("campaign %s: unsupported file type %q", path, filepath.Ext(path))
	}
}

// LoadCharacter reads a JSON character sheet from disk.
func LoadCharacter(path string) (types.Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Character{}, fmt.Errorf("reading character %s: %w", path, err)
	}
	return ParseCharacter(data)
}

func loadLuaDir(dir string, o options) (types.Campaign, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return types.Campaign{}, fmt.Errorf("reading campaign directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return types.Campaign{}, fmt.Errorf("no .lua files found in %s", dir)
	}

	paths := make([]string, 0, len(luaFiles))
	for _, f := range sortedLuaFiles(luaFiles) {
		paths = append(paths, filepath.Join(dir, f))
	}
	return loadLua(paths, o)
}

// loadLua executes the files in order in one sandboxed VM and compiles
// what they declared.
func loadLua(paths []string, o options) (types.Campaign, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, p := range paths {
		if err := L.DoFile(p); err != nil {
			return types.Campaign{}, fmt.Errorf("executing %s: %w", filepath.Base(p), err)
		}
	}

	raw, err := coll.campaign()
	if err != nil {
		return types.Campaign{}, fmt.Errorf("compiling campaign: %w", err)
	}
	return finish(raw, o)
}

// finish compiles and validates a raw campaign, logging warnings.
func finish(raw rawCampaign, o options) (types.Campaign, error) {
	ve := &ValidationError{}
	c := compileCampaign(raw, ve)
	validate(&c, ve)

	for _, w := range ve.Warnings {
		o.logger.Warn("campaign warning", zap.String("campaign", c.ID), zap.String("detail", w))
	}
	if ve.HasErrors() {
		return types.Campaign{}, ve
	}
	o.logger.Debug("campaign loaded",
		zap.String("campaign", c.ID),
		zap.Int("nodes", len(c.Nodes)),
		zap.Int("warnings", len(ve.Warnings)))
	return c, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Campaign content must not touch the RNG seed.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

// sortedLuaFiles returns .lua files with campaign.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var head string
	var others []string
	for _, f := range files {
		if f == "campaign.lua" {
			head = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if head != "" {
		return append([]string{head}, others...)
	}
	return others
}
