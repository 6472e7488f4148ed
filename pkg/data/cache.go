package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileCache stores raw API responses as JSON blobs on disk, one file per
// key. It makes fetching idempotent: a re-run over a warm cache triggers no
// network I/O and reproduces the exact same inputs.
type FileCache struct {
	dir string
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string {
	return c.dir
}

// path maps a key to a filesystem-safe file name.
func (c *FileCache) path(key string) string {
	replacer := strings.NewReplacer("/", "_", "?", "_", "&", "_")
	return filepath.Join(c.dir, replacer.Replace(key)+".json")
}

// Get unmarshals a cached entry into out. The second return is false on a
// cache miss.
func (c *FileCache) Get(key string, out any) (bool, error) {
	raw, err := os.ReadFile(c.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set writes a cache entry.
func (c *FileCache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0644)
}
