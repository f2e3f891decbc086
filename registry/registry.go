package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/modelpath-ai/sdk/plugin"
	"github.com/modelpath-ai/sdk/schema"
)

// instrumentationName identifies this package to OpenTelemetry providers.
const instrumentationName = "github.com/modelpath-ai/sdk/registry"

// Sentinel errors returned by registry operations.
var (
	// ErrDuplicatePlugin indicates a plugin with the same name is already
	// registered.
	ErrDuplicatePlugin = errors.New("plugin already registered")
)

// chainEntry pairs a plugin with the priority it carried when the chain was
// last sorted.
type chainEntry struct {
	priority int
	plugin   plugin.Plugin
}

// invocation captures, under the registry lock, everything the hook loop
// needs from a chain entry so plugin configuration is never read while a
// concurrent SetEnabled or SetPriority writes it.
type invocation struct {
	plugin  plugin.Plugin
	enabled bool
	when    string
}

// PluginInfo is a point-in-time summary of one registered plugin.
type PluginInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Enabled  bool   `json:"enabled"`
	Priority int    `json:"priority"`
}

// Registry is the central table of registered plugins.
//
// The zero value is not usable; create instances with New.
type Registry struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *hookMetrics
	conditions *conditionCache

	mu         sync.RWMutex
	plugins    map[string]plugin.Plugin
	order      []string
	chains     map[plugin.Hook][]chainEntry
	extensions map[string]map[string]schema.FieldSpec
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets a custom logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for hook execution spans.
// If not provided, the globally registered tracer provider is used.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for hook execution metrics.
// If not provided, the globally registered meter provider is used.
func WithMeter(meter metric.Meter) Option {
	return func(r *Registry) {
		r.metrics = newHookMetrics(meter)
	}
}

// New creates an empty registry with chains for every recognized hook.
func New(opts ...Option) *Registry {
	r := &Registry{
		plugins:    make(map[string]plugin.Plugin),
		chains:     make(map[plugin.Hook][]chainEntry),
		extensions: make(map[string]map[string]schema.FieldSpec),
		conditions: newConditionCache(),
	}
	for _, h := range plugin.Hooks() {
		r.chains[h] = nil
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(instrumentationName)
	}
	if r.metrics == nil {
		r.metrics = newHookMetrics(otel.Meter(instrumentationName))
	}
	return r
}

// Register adds a plugin to the registry.
//
// Registration inserts the plugin into the name index, merges its schema
// extensions into the global extension map (field-level, last registration
// wins), and appends it to every hook chain tagged with its current priority.
// Each chain is then re-sorted descending by priority; ties keep registration
// order.
//
// Returns ErrDuplicatePlugin if a plugin with the same name is present.
func (r *Registry) Register(p plugin.Plugin) error {
	name := p.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}

	r.plugins[name] = p
	r.order = append(r.order, name)

	for model, fields := range p.SchemaExtensions() {
		if r.extensions[model] == nil {
			r.extensions[model] = make(map[string]schema.FieldSpec)
		}
		for field, spec := range fields {
			r.extensions[model][field] = spec
		}
	}

	priority := p.Config().Priority
	for h := range r.chains {
		r.chains[h] = append(r.chains[h], chainEntry{priority: priority, plugin: p})
		sortChain(r.chains[h])
	}

	r.logger.Info("plugin registered",
		slog.String("name", name),
		slog.String("version", p.Version()),
		slog.Int("priority", priority),
	)
	return nil
}

// Unregister removes a plugin from the name index and purges it from every
// hook chain. Removal from chains is by plugin identity, not by name, so a
// stale entry for a different instance is never removed by mistake.
// Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.plugins[name]
	if !exists {
		return
	}

	delete(r.plugins, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	for h, chain := range r.chains {
		kept := chain[:0]
		for _, entry := range chain {
			if entry.plugin != p {
				kept = append(kept, entry)
			}
		}
		r.chains[h] = kept
	}

	r.logger.Info("plugin unregistered", slog.String("name", name))
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (plugin.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	return p, ok
}

// List returns the names of all registered plugins in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SchemaExtensions returns all field specifications contributed for the named
// model. The result is a copy; it is empty (non-nil) for models without
// extensions.
func (r *Registry) SchemaExtensions(model string) map[string]schema.FieldSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := r.extensions[model]
	out := make(map[string]schema.FieldSpec, len(fields))
	for name, spec := range fields {
		out[name] = spec
	}
	return out
}

// SetPriority updates the plugin's live priority and re-sorts every hook
// chain so execution order tracks the new value immediately. Ties keep their
// current relative order. Returns false for unknown names, which are
// otherwise a no-op.
func (r *Registry) SetPriority(name string, priority int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.plugins[name]
	if !exists {
		return false
	}

	p.Config().Priority = priority
	for h, chain := range r.chains {
		for i := range chain {
			if chain[i].plugin == p {
				chain[i].priority = priority
			}
		}
		sortChain(chain)
		r.chains[h] = chain
	}

	r.logger.Info("plugin priority changed",
		slog.String("name", name),
		slog.Int("priority", priority),
	)
	return true
}

// SetEnabled updates the plugin's live enabled flag. All mutation of a
// registered plugin's configuration goes through the registry lock; callers
// must not write Config fields directly once a plugin is registered, or the
// hook path would observe torn state. Returns false for unknown names, which
// are otherwise a no-op.
func (r *Registry) SetEnabled(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.plugins[name]
	if !exists {
		return false
	}

	p.Config().Enabled = enabled

	r.logger.Info("plugin enabled state changed",
		slog.String("name", name),
		slog.Bool("enabled", enabled),
	)
	return true
}

// ExecuteHookName executes the chain for a hook identified by its wire name.
// Unrecognized names return the record unchanged; this is deliberate, so
// hosts built against a newer hook vocabulary keep working.
func (r *Registry) ExecuteHookName(ctx context.Context, name string, rec plugin.Record) (plugin.Record, error) {
	h, ok := plugin.ParseHook(name)
	if !ok {
		r.logger.Debug("ignoring unrecognized hook", slog.String("hook", name))
		return rec, nil
	}
	return r.ExecuteHook(ctx, h, rec)
}

// ExecuteHook runs the chain for the given hook. Enabled plugins are invoked
// sequentially in priority order, each fed the previous plugin's output; the
// final record is returned. Disabled plugins, and plugins whose activation
// condition evaluates to false for this record, are skipped without their
// callback being invoked. An empty chain returns the input unchanged.
//
// A callback error aborts the chain; mutations applied by earlier plugins in
// the chain are lost with the aborted record.
func (r *Registry) ExecuteHook(ctx context.Context, h plugin.Hook, rec plugin.Record) (plugin.Record, error) {
	r.mu.RLock()
	chain, known := r.chains[h]
	snapshot := make([]invocation, len(chain))
	for i, entry := range chain {
		cfg := entry.plugin.Config()
		snapshot[i] = invocation{
			plugin:  entry.plugin,
			enabled: cfg.Enabled,
			when:    cfg.When,
		}
	}
	r.mu.RUnlock()

	if !known {
		return rec, nil
	}

	execID := uuid.New().String()
	ctx, span := r.tracer.Start(ctx, "registry.execute_hook", trace.WithAttributes(
		attribute.String("hook", h.String()),
		attribute.String("execution_id", execID),
		attribute.Int("chain_length", len(snapshot)),
	))
	defer span.End()

	start := time.Now()
	result := rec
	for _, entry := range snapshot {
		if !entry.enabled {
			continue
		}

		if entry.when != "" {
			active, err := r.conditions.eval(entry.when, result)
			if err != nil {
				return result, fmt.Errorf("plugin %s: activation condition: %w", entry.plugin.Name(), err)
			}
			if !active {
				r.metrics.recordSkip(ctx, h, entry.plugin.Name())
				continue
			}
		}

		var err error
		result, err = r.invokePlugin(ctx, entry.plugin, h, result)
		if err != nil {
			span.RecordError(err)
			r.metrics.recordExecution(ctx, h, time.Since(start), true)
			return result, fmt.Errorf("plugin %s: hook %s: %w", entry.plugin.Name(), h, err)
		}
	}

	r.metrics.recordExecution(ctx, h, time.Since(start), false)
	r.logger.Debug("hook chain executed",
		slog.String("hook", h.String()),
		slog.String("execution_id", execID),
		slog.Int("plugins", len(snapshot)),
	)
	return result, nil
}

// invokePlugin runs a single plugin callback inside its own span.
func (r *Registry) invokePlugin(ctx context.Context, p plugin.Plugin, h plugin.Hook, rec plugin.Record) (plugin.Record, error) {
	ctx, span := r.tracer.Start(ctx, "registry.invoke_plugin", trace.WithAttributes(
		attribute.String("plugin", p.Name()),
		attribute.String("hook", h.String()),
	))
	defer span.End()

	return plugin.Invoke(ctx, p, h, rec)
}

// Infos summarizes the registered plugins in registration order. The enabled
// flag and priority are read under the registry lock, so the summary is
// consistent with concurrent SetEnabled and SetPriority calls.
func (r *Registry) Infos() []PluginInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]PluginInfo, 0, len(r.order))
	for _, name := range r.order {
		p := r.plugins[name]
		cfg := p.Config()
		infos = append(infos, PluginInfo{
			Name:     p.Name(),
			Version:  p.Version(),
			Enabled:  cfg.Enabled,
			Priority: cfg.Priority,
		})
	}
	return infos
}

// InitializeAll initializes every enabled plugin in registration order.
// The first failure aborts the operation and propagates; there is no
// per-plugin isolation during initialization.
func (r *Registry) InitializeAll(ctx context.Context) error {
	r.mu.RLock()
	enabled := make([]plugin.Plugin, 0, len(r.order))
	for _, name := range r.order {
		if p := r.plugins[name]; p.Config().Enabled {
			enabled = append(enabled, p)
		}
	}
	r.mu.RUnlock()

	for _, p := range enabled {
		if err := p.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
	}
	return nil
}

// ShutdownAll shuts down every registered plugin regardless of enabled
// state. Failures are logged per plugin and do not stop the loop, so one
// failing plugin cannot prevent the others from releasing their resources.
func (r *Registry) ShutdownAll(ctx context.Context) {
	for _, p := range r.snapshotPlugins() {
		if err := p.Shutdown(ctx); err != nil {
			r.logger.Error("plugin shutdown failed",
				slog.String("name", p.Name()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// snapshotPlugins returns the registered plugins in registration order
// without holding the lock during lifecycle callbacks.
func (r *Registry) snapshotPlugins() []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plugin.Plugin, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.plugins[name])
	}
	return out
}

// sortChain sorts a chain descending by priority. The sort is stable so
// plugins with equal priority keep their existing relative order.
func sortChain(chain []chainEntry) {
	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].priority > chain[j].priority
	})
}
