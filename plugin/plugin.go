package plugin

import (
	"context"

	"github.com/modelpath-ai/sdk/schema"
)

// Plugin is the interface implemented by modelpath plugins.
//
// Name must be unique within a registry; it keys both the registered-plugin
// index and the persisted configuration file. The four hook callbacks each
// receive the output of the previous plugin in the chain and must return a
// record (possibly the same instance) for the next plugin. Initialize and
// Shutdown are called once each by the manager's bulk lifecycle operations
// and may block on I/O; both receive the caller's context.
type Plugin interface {
	// Name returns the unique identifier for the plugin.
	Name() string

	// Version returns the semantic version of the plugin.
	Version() string

	// Config returns the plugin's live configuration. The returned pointer
	// is the plugin's own state; the manager mutates it on enable/disable
	// and priority changes.
	Config() *Config

	// SchemaExtensions declares fields this plugin wants visible on named
	// host data models, keyed by model name then field name.
	SchemaExtensions() map[string]map[string]schema.FieldSpec

	// OnAgentInit may rewrite the agent configuration record.
	OnAgentInit(ctx context.Context, rec Record) (Record, error)

	// OnGenerateRequest may rewrite generation request parameters.
	OnGenerateRequest(ctx context.Context, rec Record) (Record, error)

	// OnGenerateResponse may rewrite or annotate a generation response.
	OnGenerateResponse(ctx context.Context, rec Record) (Record, error)

	// OnChatMessage may rewrite or filter a chat message.
	OnChatMessage(ctx context.Context, rec Record) (Record, error)

	// Initialize prepares the plugin's resources. Called once after
	// registration when the manager brings the plugin set up.
	Initialize(ctx context.Context) error

	// Shutdown releases the plugin's resources. Called once during manager
	// teardown; failures are isolated per plugin.
	Shutdown(ctx context.Context) error
}

// Base provides default behavior for the optional parts of the Plugin
// contract: identity hook callbacks, no-op lifecycle, no schema extensions,
// and a lazily created default configuration. Embedders supply Name and
// Version.
type Base struct {
	config *Config
}

// NewBase returns a Base carrying the given configuration. A nil config is
// replaced with DefaultConfig.
func NewBase(cfg *Config) Base {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return Base{config: cfg}
}

// Config returns the plugin configuration, creating the default one on first
// use for zero-value embedders.
func (b *Base) Config() *Config {
	if b.config == nil {
		b.config = DefaultConfig()
	}
	return b.config
}

// SchemaExtensions returns no extensions.
func (b *Base) SchemaExtensions() map[string]map[string]schema.FieldSpec {
	return nil
}

// OnAgentInit returns the record unchanged.
func (b *Base) OnAgentInit(ctx context.Context, rec Record) (Record, error) {
	return rec, nil
}

// OnGenerateRequest returns the record unchanged.
func (b *Base) OnGenerateRequest(ctx context.Context, rec Record) (Record, error) {
	return rec, nil
}

// OnGenerateResponse returns the record unchanged.
func (b *Base) OnGenerateResponse(ctx context.Context, rec Record) (Record, error) {
	return rec, nil
}

// OnChatMessage returns the record unchanged.
func (b *Base) OnChatMessage(ctx context.Context, rec Record) (Record, error) {
	return rec, nil
}

// Initialize is a no-op.
func (b *Base) Initialize(ctx context.Context) error { return nil }

// Shutdown is a no-op.
func (b *Base) Shutdown(ctx context.Context) error { return nil }
