package luahost

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name that marks a directory as a plugin.
const ManifestFile = "plugin.yaml"

// Manifest describes a directory-shaped Lua plugin. The manifest supplies
// identity and configuration defaults; the script it points at registers the
// hook callbacks. Fields the script's own register call provides take
// precedence over manifest values.
type Manifest struct {
	// Name is the plugin's unique identifier.
	Name string `yaml:"name"`

	// Version is the plugin's semantic version.
	Version string `yaml:"version"`

	// Description is informational.
	Description string `yaml:"description,omitempty"`

	// Main is the entry script relative to the plugin directory.
	// Defaults to init.lua.
	Main string `yaml:"main,omitempty"`

	// Priority is the initial execution priority.
	Priority int `yaml:"priority,omitempty"`

	// Enabled is the initial enabled state. Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// When is an optional CEL activation condition.
	When string `yaml:"when,omitempty"`

	// Settings seeds the plugin's extra configuration fields.
	Settings map[string]any `yaml:"settings,omitempty"`
}

// LoadManifest reads and validates a plugin.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the manifest for required fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	return nil
}

// EntryPath returns the absolute path of the manifest's entry script within
// the given plugin directory.
func (m *Manifest) EntryPath(dir string) string {
	main := m.Main
	if main == "" {
		main = "init.lua"
	}
	return filepath.Join(dir, main)
}
