package plugin

import "encoding/json"

// Config is a plugin's runtime configuration. Beyond the fields every plugin
// carries, plugins may attach arbitrary typed settings of their own; those
// live in the Extra side-table and survive JSON round-trips, so persisted
// configuration written by a newer plugin version is not silently dropped.
type Config struct {
	// Enabled controls whether the plugin participates in hook execution.
	// Disabled plugins are skipped in chains but remain registered.
	Enabled bool

	// Priority governs execution order within a hook chain. Higher values
	// execute earlier; ties run in registration order.
	Priority int

	// When is an optional CEL expression evaluated against each record.
	// When it evaluates to false the plugin is skipped for that record.
	// Empty means the plugin always participates.
	When string

	// Extra holds plugin-defined settings beyond the base shape.
	Extra map[string]any
}

// DefaultConfig returns a configuration with the default values: enabled,
// priority zero, no activation condition.
func DefaultConfig() *Config {
	return &Config{Enabled: true}
}

// Apply merges persisted values onto the configuration. A value is applied
// only if the configuration already exposes the key: the base fields, or an
// Extra key the plugin declared at construction time. Unknown keys are
// ignored, so configuration written by another plugin version does not
// inject fields the running plugin never defined.
func (c *Config) Apply(values map[string]any) {
	for key, value := range values {
		switch key {
		case "enabled":
			if b, ok := value.(bool); ok {
				c.Enabled = b
			}
		case "priority":
			if n, ok := asInt(value); ok {
				c.Priority = n
			}
		case "when":
			if s, ok := value.(string); ok {
				c.When = s
			}
		default:
			if c.Extra == nil {
				continue
			}
			if _, declared := c.Extra[key]; declared {
				c.Extra[key] = value
			}
		}
	}
}

// Values returns the configuration flattened into a single map, the shape
// persisted to the configuration file.
func (c *Config) Values() map[string]any {
	values := make(map[string]any, len(c.Extra)+3)
	for k, v := range c.Extra {
		values[k] = v
	}
	values["enabled"] = c.Enabled
	values["priority"] = c.Priority
	if c.When != "" {
		values["when"] = c.When
	}
	return values
}

// MarshalJSON flattens the base fields and the Extra side-table into one
// JSON object.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Values())
}

// UnmarshalJSON splits a flat JSON object into the base fields and the Extra
// side-table. All keys outside the base shape are preserved in Extra.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = *DefaultConfig()
	for key, value := range raw {
		switch key {
		case "enabled":
			if b, ok := value.(bool); ok {
				c.Enabled = b
			}
		case "priority":
			if n, ok := asInt(value); ok {
				c.Priority = n
			}
		case "when":
			if s, ok := value.(string); ok {
				c.When = s
			}
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[key] = value
		}
	}
	return nil
}

// asInt coerces the numeric representations seen across JSON, YAML, and Lua
// decoding into an int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
