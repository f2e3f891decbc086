package luahost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/modelpath-ai/sdk/plugin"
	"github.com/modelpath-ai/sdk/schema"
)

// ModulePrefix namespaces the synthesized module names returned by LoadDir.
const ModulePrefix = "modelpath_plugin_"

// ErrScriptClosed is returned by hook callbacks whose backing interpreter
// has been closed.
var ErrScriptClosed = errors.New("plugin script interpreter closed")

// Registrar receives the plugins that discovered scripts register.
// *manager.Manager satisfies this.
type Registrar interface {
	RegisterPlugin(ctx context.Context, p plugin.Plugin, config map[string]any) error
}

// Loader discovers Lua plugin scripts and executes them so they can
// self-register. It owns one interpreter per loaded script; the interpreters
// stay alive for the lifetime of the loader because registered hook
// callbacks run inside them.
type Loader struct {
	logger    *slog.Logger
	registrar Registrar

	mu      sync.Mutex
	scripts []*script
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a custom logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader that hands registered plugins to the registrar.
func NewLoader(registrar Registrar, opts ...LoaderOption) *Loader {
	l := &Loader{registrar: registrar}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// LoadDir scans dir (non-recursively) and loads every eligible plugin:
// .lua files, and directories containing a plugin.yaml manifest. Entries
// whose name starts with an underscore are skipped. A missing directory is
// not an error.
//
// Returns the synthesized module names of the loaded units. A script that
// fails to load aborts the scan; units loaded before the failure remain
// registered.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan plugins directory %s: %w", dir, err)
	}

	var discovered []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "_") {
			continue
		}

		if entry.IsDir() {
			manifestPath := filepath.Join(dir, name, ManifestFile)
			if _, err := os.Stat(manifestPath); err != nil {
				continue
			}
			manifest, err := LoadManifest(manifestPath)
			if err != nil {
				return discovered, err
			}
			if err := l.loadScript(ctx, manifest.EntryPath(filepath.Join(dir, name)), manifest); err != nil {
				return discovered, err
			}
			discovered = append(discovered, ModulePrefix+name)
			continue
		}

		if filepath.Ext(name) != ".lua" {
			continue
		}
		if err := l.loadScript(ctx, filepath.Join(dir, name), nil); err != nil {
			return discovered, err
		}
		discovered = append(discovered, ModulePrefix+strings.TrimSuffix(name, ".lua"))
	}

	return discovered, nil
}

// loadScript executes one script in a fresh sandboxed interpreter. The
// injected modelpath.register function hands plugins to the registrar as a
// side effect of execution.
func (l *Loader) loadScript(ctx context.Context, path string, manifest *Manifest) error {
	s := newScript(path)

	registered := 0
	s.L.SetGlobal("modelpath", s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"register": l.registerFn(ctx, s, manifest, &registered),
	}))

	if err := s.L.DoFile(path); err != nil {
		s.close()
		return fmt.Errorf("load plugin script %s: %w", path, err)
	}

	if registered == 0 {
		l.logger.Warn("plugin script registered no plugins", slog.String("path", path))
	}

	l.mu.Lock()
	l.scripts = append(l.scripts, s)
	l.mu.Unlock()

	l.logger.Info("plugin script loaded",
		slog.String("path", path),
		slog.Int("plugins", registered),
	)
	return nil
}

// registerFn builds the Lua-facing register function for one script.
func (l *Loader) registerFn(ctx context.Context, s *script, manifest *Manifest, registered *int) lua.LGFunction {
	return func(L *lua.LState) int {
		tbl := L.CheckTable(1)

		p, err := buildScriptPlugin(s, tbl, manifest)
		if err != nil {
			L.RaiseError("register plugin: %v", err)
			return 0
		}

		if err := l.registrar.RegisterPlugin(ctx, p, nil); err != nil {
			L.RaiseError("register plugin %s: %v", p.Name(), err)
			return 0
		}

		*registered++
		return 0
	}
}

// Close shuts down every script interpreter. Hook callbacks of plugins
// registered from those scripts return ErrScriptClosed afterwards.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.scripts {
		s.close()
	}
	l.scripts = nil
	return nil
}

// script wraps one interpreter. gopher-lua states are not goroutine safe,
// so every call into the state takes the mutex.
type script struct {
	path string

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

func newScript(path string) *script {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Only side-effect-free libraries are opened. io, os, debug, and
	// package stay closed.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	return &script{path: path, L: L}
}

func (s *script) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// hookFunc bridges a Lua function into a plugin.HookFunc. The Lua function
// receives the record as a table and must return a table.
func (s *script) hookFunc(fn *lua.LFunction) plugin.HookFunc {
	return func(ctx context.Context, rec plugin.Record) (plugin.Record, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed {
			return rec, fmt.Errorf("%s: %w", s.path, ErrScriptClosed)
		}

		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, recordToLua(s.L, rec)); err != nil {
			return rec, fmt.Errorf("lua hook in %s: %w", s.path, err)
		}

		ret := s.L.Get(-1)
		s.L.Pop(1)

		t, ok := ret.(*lua.LTable)
		if !ok {
			return rec, fmt.Errorf("lua hook in %s must return a record table, got %s", s.path, ret.Type())
		}
		return luaToRecord(t), nil
	}
}

// lifecycleFunc bridges a no-argument Lua function into an init or shutdown
// callback.
func (s *script) lifecycleFunc(fn *lua.LFunction) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed {
			return fmt.Errorf("%s: %w", s.path, ErrScriptClosed)
		}

		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
			return fmt.Errorf("lua lifecycle in %s: %w", s.path, err)
		}
		return nil
	}
}

// buildScriptPlugin turns a register() table into a Plugin. Manifest values
// fill fields the table omits.
func buildScriptPlugin(s *script, tbl *lua.LTable, manifest *Manifest) (plugin.Plugin, error) {
	cfg := plugin.DefaultConfig()
	b := plugin.NewBuilder()

	if manifest != nil {
		b.SetName(manifest.Name).SetVersion(manifest.Version)
		cfg.Priority = manifest.Priority
		cfg.When = manifest.When
		if manifest.Enabled != nil {
			cfg.Enabled = *manifest.Enabled
		}
		if len(manifest.Settings) > 0 {
			cfg.Extra = make(map[string]any, len(manifest.Settings))
			for k, v := range manifest.Settings {
				cfg.Extra[k] = v
			}
		}
	}

	if name, ok := tbl.RawGetString("name").(lua.LString); ok {
		b.SetName(string(name))
	}
	if version, ok := tbl.RawGetString("version").(lua.LString); ok {
		b.SetVersion(string(version))
	}
	if priority, ok := tbl.RawGetString("priority").(lua.LNumber); ok {
		cfg.Priority = int(priority)
	}
	if enabled, ok := tbl.RawGetString("enabled").(lua.LBool); ok {
		cfg.Enabled = bool(enabled)
	}
	if when, ok := tbl.RawGetString("when").(lua.LString); ok {
		cfg.When = string(when)
	}

	if settings, ok := tbl.RawGetString("config").(*lua.LTable); ok {
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]any)
		}
		settings.ForEach(func(k, v lua.LValue) {
			cfg.Extra[lua.LVAsString(k)] = luaToGo(v, make(map[*lua.LTable]bool))
		})
	}
	b.SetConfig(cfg)

	if extensions, ok := tbl.RawGetString("schema").(*lua.LTable); ok {
		extensions.ForEach(func(model, fields lua.LValue) {
			fieldTbl, ok := fields.(*lua.LTable)
			if !ok {
				return
			}
			fieldTbl.ForEach(func(field, spec lua.LValue) {
				specTbl, ok := spec.(*lua.LTable)
				if !ok {
					return
				}
				b.AddSchemaExtension(lua.LVAsString(model), lua.LVAsString(field), fieldSpecFromLua(specTbl))
			})
		})
	}

	if hooks, ok := tbl.RawGetString("hooks").(*lua.LTable); ok {
		for _, h := range plugin.Hooks() {
			if fn, ok := hooks.RawGetString(h.String()).(*lua.LFunction); ok {
				b.SetHookFunc(h, s.hookFunc(fn))
			}
		}
	}

	if fn, ok := tbl.RawGetString("initialize").(*lua.LFunction); ok {
		b.SetInitFunc(s.lifecycleFunc(fn))
	}
	if fn, ok := tbl.RawGetString("shutdown").(*lua.LFunction); ok {
		b.SetShutdownFunc(s.lifecycleFunc(fn))
	}

	return b.Build()
}

// fieldSpecFromLua maps a Lua field specification table onto schema.FieldSpec.
func fieldSpecFromLua(t *lua.LTable) schema.FieldSpec {
	spec := schema.FieldSpec{}

	if typ, ok := t.RawGetString("type").(lua.LString); ok {
		spec.Type = string(typ)
	}
	if desc, ok := t.RawGetString("description").(lua.LString); ok {
		spec.Description = string(desc)
	}
	if def := t.RawGetString("default"); def != lua.LNil {
		spec.Default = luaToGo(def, make(map[*lua.LTable]bool))
	}
	if req, ok := t.RawGetString("required").(lua.LBool); ok {
		spec.Required = bool(req)
	}
	if enum, ok := t.RawGetString("enum").(*lua.LTable); ok {
		if values, isArr := luaToGo(enum, make(map[*lua.LTable]bool)).([]any); isArr {
			spec.Enum = values
		}
	}
	return spec
}
