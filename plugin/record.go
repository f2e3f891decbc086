package plugin

// Record is the mutable keyed record handed through a hook chain. Each plugin
// in the chain receives the previous plugin's output and may read, add,
// remove, or replace keys before returning the record for the next plugin.
//
// The SDK attaches no meaning to the keys; what a "request" or "response"
// contains is owned entirely by the host.
type Record map[string]any

// Clone returns a shallow copy of the record. Nested values are shared with
// the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
