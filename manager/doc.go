// Package manager ties the plugin registry, the persisted configuration
// store, and script discovery into one host-facing facade.
//
// A Manager owns a registry.Registry and a store.ConfigStore. Persisted
// configuration is loaded once with LoadConfig and applied to plugins as
// they register; explicit configuration passed at registration time takes
// precedence over persisted values. Enable, disable, and priority changes
// persist immediately.
//
// Typical host wiring:
//
//	m, err := manager.New()
//	if err != nil {
//	    return err
//	}
//	if err := m.LoadConfig(ctx); err != nil {
//	    return err
//	}
//	if _, err := m.DiscoverPlugins(ctx); err != nil {
//	    return err
//	}
//	if err := m.InitializeAll(ctx); err != nil {
//	    return err
//	}
//	defer m.ShutdownAll(context.Background())
//
//	req, err := m.ProcessGenerateRequest(ctx, req)
package manager
