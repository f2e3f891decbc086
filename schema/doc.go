// Package schema defines field specifications used by plugin schema extensions.
//
// A FieldSpec describes a single field a plugin wants added to one of the
// host's data models: its type, default value, and documentation. The SDK
// treats field specifications as descriptive metadata only; it never validates
// or coerces record values against them. Hosts that construct extensible
// models query the registry for the extensions targeting their model name and
// fold the returned specifications into their own field set before running
// their normal validation.
//
// Constructors mirror JSON Schema primitive types:
//
//	ext := map[string]schema.FieldSpec{
//	    "temperature_boost": schema.Number().WithDefault(0.0),
//	    "cache_ttl":         schema.IntWithDesc("seconds to cache responses"),
//	}
package schema
