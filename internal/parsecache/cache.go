// Package parsecache memoizes parser results on disk under content-addressed
// keys. A key embeds a hash of the exact help text, so stale hits are
// structurally impossible: changed help text simply misses.
package parsecache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/cmdsaw/cmdsaw/internal/schema"
)

// keyPrefixLen is how much of the key hash is used as the filename.
const keyPrefixLen = 32

// Cache is a one-file-per-key store. There is no index: existence of the
// filename is the lookup. Entries are never evicted.
type Cache struct {
	root string
}

// DefaultRoot returns the per-user cache directory.
func DefaultRoot() string {
	return filepath.Join(xdg.CacheHome, "cmdsaw")
}

// New opens (creating if needed) a cache rooted at root. An empty root
// selects the per-user default. A non-writable root is a configuration
// error and fails here rather than during the crawl.
func New(root string) (*Cache, error) {
	if root == "" {
		root = DefaultRoot()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root %s: %w", root, err)
	}
	return &Cache{root: root}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// keyPath derives the storage path for one composite key. Identical
// (path, version, model, helpText) always map to the same file.
func (c *Cache) keyPath(commandPath, version, model, helpHash string) string {
	if version == "" {
		version = "none"
	}
	base := commandPath + "|" + version + "|" + model + "|" + helpHash
	sum := sha256.Sum256([]byte(base))
	return filepath.Join(c.root, hex.EncodeToString(sum[:])[:keyPrefixLen]+".json")
}

func hashHelpText(helpText string) string {
	sum := sha256.Sum256([]byte(helpText))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a cached doc. A missing entry returns (nil, false, nil);
// any other I/O failure propagates, since the cache directory being
// unreadable is not a transient fault.
func (c *Cache) Get(commandPath, version, model, helpText string) (*schema.CommandDoc, bool, error) {
	path := c.keyPath(commandPath, version, model, hashHelpText(helpText))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	var doc schema.CommandDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", path, err)
	}
	return &doc, true, nil
}

// Set stores a doc under its composite key. The entry is written to a
// temporary file and renamed into place so concurrent readers never see a
// partial entry.
func (c *Cache) Set(commandPath, version, model, helpText string, doc *schema.CommandDoc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	path := c.keyPath(commandPath, version, model, hashHelpText(helpText))
	tmp, err := os.CreateTemp(c.root, ".entry-*")
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}
