// Package store persists per-plugin configuration.
//
// The persisted shape is a single JSON document keyed by plugin name, each
// value a flat object merged into that plugin's configuration when it is
// registered. FileStore is the default backend and writes the document to a
// path under the user's application directory; RedisStore keeps the same
// document in a Redis key so several hosts can share plugin state.
//
// Loading from a backend that has never been written returns an empty map,
// not an error. Save failures always surface to the caller; silently losing
// plugin state is worse than a visible failure.
package store
