package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Configs is the persisted configuration document: plugin name to the flat
// key/value object merged into that plugin's configuration.
type Configs = map[string]map[string]any

// ConfigStore reads and writes the persisted plugin configuration document.
type ConfigStore interface {
	// Load reads the document. A backend that has never been written
	// returns an empty map and a nil error.
	Load(ctx context.Context) (Configs, error)

	// Save writes the complete document, replacing the previous contents.
	Save(ctx context.Context, configs Configs) error

	// Close releases backend resources.
	Close() error
}

// FileStore persists the document as an indented JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path. The file and its
// parent directories are created lazily on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path backing this store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the JSON document. A missing file is not an error.
func (s *FileStore) Load(ctx context.Context) (Configs, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Configs{}, nil
		}
		return nil, fmt.Errorf("read plugin config %s: %w", s.path, err)
	}

	configs := Configs{}
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parse plugin config %s: %w", s.path, err)
	}
	return configs, nil
}

// Save writes the document, creating parent directories as needed.
func (s *FileStore) Save(ctx context.Context, configs Configs) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plugin config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write plugin config %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for file-backed stores.
func (s *FileStore) Close() error { return nil }
