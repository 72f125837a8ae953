package notes

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Cache stores generated text on disk, keyed by a hash of the request, so
// that uploading the same document twice costs one generation call.
type Cache struct {
	dir   string
	scope string
	mu    sync.RWMutex
}

// NewCache creates dir if needed. scope is mixed into every key; callers pass
// the provider and model so that switching models does not serve stale text.
func NewCache(dir, scope string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, scope: scope}, nil
}

// Get returns the stored text for an operation and prompt.
func (c *Cache) Get(op, prompt string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(op, prompt))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores text, replacing the file atomically.
func (c *Cache) Set(op, prompt, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dst := c.path(op, prompt)
	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (c *Cache) path(op, prompt string) string {
	return filepath.Join(c.dir, c.key(op, prompt)+".txt")
}

func (c *Cache) key(op, prompt string) string {
	data, _ := json.Marshal(map[string]string{
		"scope":  c.scope,
		"op":     op,
		"prompt": prompt,
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
