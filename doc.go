// Package sdk provides the plugin SDK for the modelpath AI command line.
//
// The SDK lets plugins observe and rewrite the records the host passes
// through its processing pipeline: agent configuration at startup,
// generation requests and responses, and chat messages. Plugins also
// contribute schema extensions, configuration fields the host merges into
// its own models.
//
// # Core Concepts
//
// The SDK is organized around a small set of concepts:
//
//   - Plugins: named extensions carrying hook callbacks and configuration
//   - Hooks: the pipeline stages plugins can intercept
//   - Registry: the ordered table that executes hook chains
//   - Manager: the host-facing facade adding persistence and discovery
//   - Schema extensions: fields plugins add to host configuration models
//
// # Getting Started
//
// Most hosts use the process-wide manager:
//
//	import "github.com/modelpath-ai/sdk"
//
//	m, err := sdk.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := m.DiscoverPlugins(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.ShutdownAll(context.Background())
//
// # Plugin Development
//
// Declare a type embedding plugin.Base and override the hooks you need:
//
//	type Redactor struct {
//	    plugin.Base
//	}
//
//	func (r *Redactor) Name() string    { return "redactor" }
//	func (r *Redactor) Version() string { return "1.0.0" }
//
//	func (r *Redactor) OnGenerateRequest(ctx context.Context, rec plugin.Record) (plugin.Record, error) {
//	    // rewrite the outgoing request
//	    return rec, nil
//	}
//
// Or build one from functions with plugin.NewBuilder. Plugins written in
// Lua are discovered from the plugins directory; see package luahost.
//
// # Error Handling
//
// The SDK uses sentinel errors and a structured error type:
//
//	if errors.Is(err, sdk.ErrPluginNotFound) {
//	    // handle missing plugin
//	}
//
// # Observability
//
// Hook execution is traced and measured through OpenTelemetry; the registry
// uses the globally registered providers unless one is injected.
//
// # Thread Safety
//
// Registry and Manager methods are safe for concurrent use. Once a plugin is
// registered its configuration must be changed only through those methods,
// not by writing Config fields directly. Plugin implementations must ensure
// their own hook callbacks are safe for concurrent use.
package sdk
