package plugin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Enabled)
	assert.Zero(t, cfg.Priority)
	assert.Empty(t, cfg.When)
}

func TestConfigJSONRoundTripPreservesExtraKeys(t *testing.T) {
	cfg := &Config{
		Enabled:  false,
		Priority: 7,
		When:     `record.model == "large"`,
		Extra: map[string]any{
			"cache_ttl": 300,
			"backend":   "disk",
		},
	}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Enabled)
	assert.Equal(t, 7, decoded.Priority)
	assert.Equal(t, `record.model == "large"`, decoded.When)
	assert.EqualValues(t, 300, decoded.Extra["cache_ttl"])
	assert.Equal(t, "disk", decoded.Extra["backend"])
}

func TestConfigUnmarshalKeepsUnknownKeys(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"enabled":true,"priority":2,"mystery":"yes"}`), &cfg))

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.Priority)
	assert.Equal(t, "yes", cfg.Extra["mystery"])
}

func TestApplyOnlyTouchesExposedFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extra = map[string]any{"cache_ttl": 60}

	cfg.Apply(map[string]any{
		"enabled":   false,
		"priority":  float64(9), // JSON numbers decode as float64
		"cache_ttl": float64(120),
		"unknown":   "dropped",
	})

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 9, cfg.Priority)
	assert.EqualValues(t, 120, cfg.Extra["cache_ttl"])
	_, present := cfg.Extra["unknown"]
	assert.False(t, present)
}

func TestApplyIgnoresWrongTypes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(map[string]any{
		"enabled":  "not-a-bool",
		"priority": "not-a-number",
	})

	assert.True(t, cfg.Enabled)
	assert.Zero(t, cfg.Priority)
}

func TestValuesFlattensConfig(t *testing.T) {
	cfg := &Config{Enabled: true, Priority: 3, Extra: map[string]any{"backend": "redis"}}

	values := cfg.Values()
	assert.Equal(t, true, values["enabled"])
	assert.Equal(t, 3, values["priority"])
	assert.Equal(t, "redis", values["backend"])
	_, hasWhen := values["when"]
	assert.False(t, hasWhen)
}
