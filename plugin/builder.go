package plugin

import (
	"context"
	"fmt"

	"github.com/modelpath-ai/sdk/schema"
)

// HookFunc handles one hook invocation for a plugin built from closures.
type HookFunc func(ctx context.Context, rec Record) (Record, error)

// InitFunc is called to initialize a built plugin.
type InitFunc func(ctx context.Context) error

// ShutdownFunc is called to gracefully shut down a built plugin.
type ShutdownFunc func(ctx context.Context) error

// Builder assembles a Plugin from functions. Create one with NewBuilder,
// configure it with the setter methods, then call Build.
//
// The Lua loader uses a Builder to turn discovered scripts into plugins;
// hosts and tests can use it to define plugins without declaring a type.
type Builder struct {
	name       string
	version    string
	config     *Config
	hooks      map[Hook]HookFunc
	initFunc   InitFunc
	shutdown   ShutdownFunc
	extensions map[string]map[string]schema.FieldSpec
}

// NewBuilder creates a Builder with default values: no hooks, no-op
// lifecycle, default configuration.
func NewBuilder() *Builder {
	return &Builder{
		config: DefaultConfig(),
		hooks:  make(map[Hook]HookFunc),
	}
}

// SetName sets the plugin name. Required.
func (b *Builder) SetName(name string) *Builder {
	b.name = name
	return b
}

// SetVersion sets the plugin's semantic version. Required.
func (b *Builder) SetVersion(version string) *Builder {
	b.version = version
	return b
}

// SetConfig replaces the plugin configuration. A nil config restores the
// default.
func (b *Builder) SetConfig(cfg *Config) *Builder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	b.config = cfg
	return b
}

// SetHookFunc installs the callback for a hook. Hooks without a callback
// keep identity behavior.
func (b *Builder) SetHookFunc(h Hook, fn HookFunc) *Builder {
	b.hooks[h] = fn
	return b
}

// SetInitFunc installs the initialization function.
func (b *Builder) SetInitFunc(fn InitFunc) *Builder {
	b.initFunc = fn
	return b
}

// SetShutdownFunc installs the shutdown function.
func (b *Builder) SetShutdownFunc(fn ShutdownFunc) *Builder {
	b.shutdown = fn
	return b
}

// AddSchemaExtension declares a field this plugin contributes to the named
// host model. Repeated calls for the same model accumulate fields.
func (b *Builder) AddSchemaExtension(model, field string, spec schema.FieldSpec) *Builder {
	if b.extensions == nil {
		b.extensions = make(map[string]map[string]schema.FieldSpec)
	}
	if b.extensions[model] == nil {
		b.extensions[model] = make(map[string]schema.FieldSpec)
	}
	b.extensions[model][field] = spec
	return b
}

// Build validates the builder and returns the assembled plugin.
func (b *Builder) Build() (Plugin, error) {
	if b.name == "" {
		return nil, fmt.Errorf("plugin name is required")
	}
	if b.version == "" {
		return nil, fmt.Errorf("plugin version is required")
	}

	hooks := make(map[Hook]HookFunc, len(b.hooks))
	for h, fn := range b.hooks {
		hooks[h] = fn
	}

	return &funcPlugin{
		name:       b.name,
		version:    b.version,
		config:     b.config,
		hooks:      hooks,
		initFunc:   b.initFunc,
		shutdown:   b.shutdown,
		extensions: b.extensions,
	}, nil
}

// funcPlugin is the private Plugin implementation backing Builder.
type funcPlugin struct {
	name       string
	version    string
	config     *Config
	hooks      map[Hook]HookFunc
	initFunc   InitFunc
	shutdown   ShutdownFunc
	extensions map[string]map[string]schema.FieldSpec
}

func (p *funcPlugin) Name() string    { return p.name }
func (p *funcPlugin) Version() string { return p.version }
func (p *funcPlugin) Config() *Config { return p.config }

func (p *funcPlugin) SchemaExtensions() map[string]map[string]schema.FieldSpec {
	return p.extensions
}

func (p *funcPlugin) invoke(ctx context.Context, h Hook, rec Record) (Record, error) {
	if fn, ok := p.hooks[h]; ok {
		return fn(ctx, rec)
	}
	return rec, nil
}

func (p *funcPlugin) OnAgentInit(ctx context.Context, rec Record) (Record, error) {
	return p.invoke(ctx, HookAgentInit, rec)
}

func (p *funcPlugin) OnGenerateRequest(ctx context.Context, rec Record) (Record, error) {
	return p.invoke(ctx, HookGenerateRequest, rec)
}

func (p *funcPlugin) OnGenerateResponse(ctx context.Context, rec Record) (Record, error) {
	return p.invoke(ctx, HookGenerateResponse, rec)
}

func (p *funcPlugin) OnChatMessage(ctx context.Context, rec Record) (Record, error) {
	return p.invoke(ctx, HookChatMessage, rec)
}

func (p *funcPlugin) Initialize(ctx context.Context) error {
	if p.initFunc != nil {
		return p.initFunc(ctx)
	}
	return nil
}

func (p *funcPlugin) Shutdown(ctx context.Context) error {
	if p.shutdown != nil {
		return p.shutdown(ctx)
	}
	return nil
}
