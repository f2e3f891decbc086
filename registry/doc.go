// Package registry provides the central table of registered plugins and the
// hook execution pipeline.
//
// The registry maintains one priority-ordered invocation chain per recognized
// hook. Registering a plugin inserts it into the name index, merges its schema
// extensions into the global extension map, and appends it to every chain;
// unregistering purges it from all of them. ExecuteHook runs a chain
// sequentially, feeding each enabled plugin's output record to the next
// plugin, and returns the final record.
//
// Registration and unregistration are expected during setup and teardown
// phases. The registry serializes them against hook execution with an
// internal lock, so hosts that execute hooks concurrently across independent
// requests can still (de)register safely, at the cost of brief contention.
//
// Hook execution emits OpenTelemetry spans and metrics when a tracer or
// meter provider is installed globally or via options; without one the
// instrumentation is a no-op.
package registry
