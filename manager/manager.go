package manager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/modelpath-ai/sdk/luahost"
	"github.com/modelpath-ai/sdk/plugin"
	"github.com/modelpath-ai/sdk/registry"
	"github.com/modelpath-ai/sdk/store"
)

// Default locations under the user's home directory.
const (
	defaultConfigDir  = ".modelpath"
	defaultConfigFile = "plugins.json"
	defaultPluginsDir = "plugins"
)

// PluginInfo is a point-in-time summary of one registered plugin.
type PluginInfo = registry.PluginInfo

// Manager coordinates plugin registration, persisted configuration, and
// script discovery. It implements luahost.Registrar so discovered scripts
// register through the same path as compiled-in plugins.
type Manager struct {
	logger     *slog.Logger
	registry   *registry.Registry
	store      store.ConfigStore
	loader     *luahost.Loader
	pluginsDir string

	mu      sync.Mutex
	configs store.Configs
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a custom logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRegistry sets the registry the manager wraps. If not provided, a
// fresh registry is created.
func WithRegistry(r *registry.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithStore sets the configuration store. If not provided, a file store at
// ~/.modelpath/plugins.json is used.
func WithStore(s store.ConfigStore) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// WithConfigPath sets the path of the default file store. Ignored when
// WithStore is also given.
func WithConfigPath(path string) Option {
	return func(m *Manager) {
		if m.store == nil {
			m.store = store.NewFileStore(path)
		}
	}
}

// WithPluginsDir sets the directory DiscoverPlugins scans. If not provided,
// ~/.modelpath/plugins is used.
func WithPluginsDir(dir string) Option {
	return func(m *Manager) {
		m.pluginsDir = dir
	}
}

// New creates a manager. Defaults that depend on the user's home directory
// are resolved here, so New fails if the home directory cannot be
// determined and no explicit store and plugins directory were given.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{configs: store.Configs{}}
	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.registry == nil {
		m.registry = registry.New(registry.WithLogger(m.logger))
	}

	if m.store == nil || m.pluginsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		if m.store == nil {
			m.store = store.NewFileStore(filepath.Join(home, defaultConfigDir, defaultConfigFile))
		}
		if m.pluginsDir == "" {
			m.pluginsDir = filepath.Join(home, defaultConfigDir, defaultPluginsDir)
		}
	}

	m.loader = luahost.NewLoader(m, luahost.WithLogger(m.logger))
	return m, nil
}

// Registry exposes the wrapped registry for hosts that need direct access.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// LoadConfig reads persisted plugin configuration into memory. A missing
// backing file yields an empty configuration, not an error. Loaded values
// are applied to plugins as they register; plugins already registered keep
// their current configuration.
func (m *Manager) LoadConfig(ctx context.Context) error {
	cfgs, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if cfgs == nil {
		cfgs = store.Configs{}
	}

	m.mu.Lock()
	m.configs = cfgs
	m.mu.Unlock()

	m.logger.Debug("plugin configuration loaded", slog.Int("plugins", len(cfgs)))
	return nil
}

// SaveConfig writes the current plugin configuration to the store. Entries
// for plugins that never registered this run are preserved. The snapshot
// copies each entry so the store serializes it outside the manager lock.
func (m *Manager) SaveConfig(ctx context.Context) error {
	m.mu.Lock()
	snapshot := make(store.Configs, len(m.configs))
	for name, values := range m.configs {
		entry := make(map[string]any, len(values))
		for k, v := range values {
			entry[k] = v
		}
		snapshot[name] = entry
	}
	m.mu.Unlock()

	return m.store.Save(ctx, snapshot)
}

// RegisterPlugin registers a plugin, applying configuration first. An
// explicit config overrides persisted values entirely and replaces the
// persisted entry as supplied, keys the plugin does not expose included;
// otherwise persisted values for the plugin's name are applied over its
// defaults. This is the path discovered scripts register through.
func (m *Manager) RegisterPlugin(ctx context.Context, p plugin.Plugin, config map[string]any) error {
	name := p.Name()

	m.mu.Lock()
	if config != nil {
		p.Config().Apply(config)
	} else if persisted, ok := m.configs[name]; ok {
		p.Config().Apply(persisted)
	}
	m.mu.Unlock()

	if err := m.registry.Register(p); err != nil {
		return err
	}

	m.mu.Lock()
	if config != nil {
		entry := make(map[string]any, len(config))
		for k, v := range config {
			entry[k] = v
		}
		m.configs[name] = entry
	} else {
		m.configs[name] = p.Config().Values()
	}
	m.mu.Unlock()
	return nil
}

// Register registers a plugin with no explicit configuration.
func (m *Manager) Register(ctx context.Context, p plugin.Plugin) error {
	return m.RegisterPlugin(ctx, p, nil)
}

// Unregister removes a plugin from the registry. Its persisted
// configuration entry is kept so a later registration restores its state.
func (m *Manager) Unregister(name string) {
	m.registry.Unregister(name)
}

// DiscoverPlugins scans the plugins directory and loads every eligible
// script; loaded scripts self-register through RegisterPlugin. Returns the
// synthesized module names of the loaded units. A missing directory is not
// an error.
func (m *Manager) DiscoverPlugins(ctx context.Context) ([]string, error) {
	return m.loader.LoadDir(ctx, m.pluginsDir)
}

// EnablePlugin enables a plugin and persists the change immediately.
// Unknown names are a no-op.
func (m *Manager) EnablePlugin(ctx context.Context, name string) error {
	return m.setEnabled(ctx, name, true)
}

// DisablePlugin disables a plugin and persists the change immediately. The
// plugin stays registered; its hook callbacks are skipped. Unknown names
// are a no-op.
func (m *Manager) DisablePlugin(ctx context.Context, name string) error {
	return m.setEnabled(ctx, name, false)
}

func (m *Manager) setEnabled(ctx context.Context, name string, enabled bool) error {
	if !m.registry.SetEnabled(name, enabled) {
		return nil
	}

	m.mu.Lock()
	entry := m.configs[name]
	if entry == nil {
		entry = map[string]any{}
		m.configs[name] = entry
	}
	entry["enabled"] = enabled
	m.mu.Unlock()

	return m.SaveConfig(ctx)
}

// SetPluginPriority updates a plugin's priority, re-sorting hook chains so
// the new order takes effect immediately, and persists the change. Unknown
// names are a no-op.
func (m *Manager) SetPluginPriority(ctx context.Context, name string, priority int) error {
	if !m.registry.SetPriority(name, priority) {
		return nil
	}

	m.mu.Lock()
	entry := m.configs[name]
	if entry == nil {
		entry = map[string]any{}
		m.configs[name] = entry
	}
	entry["priority"] = priority
	m.mu.Unlock()

	return m.SaveConfig(ctx)
}

// ListPlugins summarizes the registered plugins in registration order.
func (m *Manager) ListPlugins() []PluginInfo {
	return m.registry.Infos()
}

// ProcessAgentConfig runs the agent initialization hook chain.
func (m *Manager) ProcessAgentConfig(ctx context.Context, rec plugin.Record) (plugin.Record, error) {
	return m.registry.ExecuteHook(ctx, plugin.HookAgentInit, rec)
}

// ProcessGenerateRequest runs the generation request hook chain.
func (m *Manager) ProcessGenerateRequest(ctx context.Context, rec plugin.Record) (plugin.Record, error) {
	return m.registry.ExecuteHook(ctx, plugin.HookGenerateRequest, rec)
}

// ProcessGenerateResponse runs the generation response hook chain.
func (m *Manager) ProcessGenerateResponse(ctx context.Context, rec plugin.Record) (plugin.Record, error) {
	return m.registry.ExecuteHook(ctx, plugin.HookGenerateResponse, rec)
}

// ProcessChatMessage runs the chat message hook chain.
func (m *Manager) ProcessChatMessage(ctx context.Context, rec plugin.Record) (plugin.Record, error) {
	return m.registry.ExecuteHook(ctx, plugin.HookChatMessage, rec)
}

// ProcessHook runs the chain for a hook identified by its wire name.
// Unrecognized names return the record unchanged.
func (m *Manager) ProcessHook(ctx context.Context, hook string, rec plugin.Record) (plugin.Record, error) {
	return m.registry.ExecuteHookName(ctx, hook, rec)
}

// InitializeAll initializes every enabled plugin. The first failure aborts
// and propagates.
func (m *Manager) InitializeAll(ctx context.Context) error {
	return m.registry.InitializeAll(ctx)
}

// ShutdownAll shuts down every registered plugin, then closes the script
// interpreters and the configuration store. Individual plugin failures are
// logged and do not stop the others from shutting down.
func (m *Manager) ShutdownAll(ctx context.Context) {
	m.registry.ShutdownAll(ctx)

	if err := m.loader.Close(); err != nil {
		m.logger.Error("script loader close failed", slog.String("error", err.Error()))
	}
	if err := m.store.Close(); err != nil {
		m.logger.Error("config store close failed", slog.String("error", err.Error()))
	}
}
