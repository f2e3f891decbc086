package sdk

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelpath-ai/sdk/manager"
	"github.com/modelpath-ai/sdk/plugin"
	"github.com/modelpath-ai/sdk/registry"
)

var (
	defaultMu      sync.Mutex
	defaultManager *manager.Manager
)

// Default returns the process-wide plugin manager, creating it on first use.
// Creation resolves the default configuration and plugins paths under the
// user's home directory and loads persisted plugin configuration.
//
// Hosts that need isolation, tests in particular, should create their own
// manager with manager.New and install it with SetDefault.
func Default() (*manager.Manager, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager != nil {
		return defaultManager, nil
	}

	m, err := manager.New()
	if err != nil {
		return nil, NewConfigurationError("sdk.Default", err)
	}
	if err := m.LoadConfig(context.Background()); err != nil {
		return nil, NewConfigurationError("sdk.Default", err)
	}

	defaultManager = m
	return m, nil
}

// SetDefault replaces the process-wide manager. Passing nil resets it so
// the next Default call creates a fresh one.
func SetDefault(m *manager.Manager) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = m
}

// DefaultRegistry returns the registry backing the process-wide manager.
func DefaultRegistry() (*registry.Registry, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.Registry(), nil
}

// RegisterPlugin registers a plugin with the process-wide manager. Persisted
// configuration for the plugin's name is applied before registration.
func RegisterPlugin(ctx context.Context, p plugin.Plugin) error {
	m, err := Default()
	if err != nil {
		return err
	}
	if err := m.Register(ctx, p); err != nil {
		return NewValidationError("sdk.RegisterPlugin", err)
	}
	return nil
}

// GetPlugin retrieves a plugin from the process-wide manager by name.
// Returns ErrPluginNotFound if no plugin with that name is registered.
func GetPlugin(name string) (plugin.Plugin, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}

	p, ok := m.Registry().Get(name)
	if !ok {
		return nil, NewNotFoundError("sdk.GetPlugin", fmt.Errorf("%w: %s", ErrPluginNotFound, name))
	}
	return p, nil
}

// ProcessHook runs the named hook chain on the process-wide manager.
// Unrecognized hook names return the record unchanged.
func ProcessHook(ctx context.Context, hook string, rec plugin.Record) (plugin.Record, error) {
	m, err := Default()
	if err != nil {
		return rec, err
	}
	return m.ProcessHook(ctx, hook, rec)
}
