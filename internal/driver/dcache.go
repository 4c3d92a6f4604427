package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ember/internal/manifest"
)

// Current schema version - increment when cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// DiskCache stores emitted kernel dumps by manifest digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema      uint16
	Name        string
	Dump        string
	CreatedUnix int64
}

// OpenDiskCache initializes a disk cache at the standard user location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key manifest.Digest) string {
	return filepath.Join(c.dir, "kernels", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a kernel dump to the cache, atomically.
func (c *DiskCache) Put(key manifest.Digest, name, dump string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&cachePayload{
		Schema:      cacheSchemaVersion,
		Name:        name,
		Dump:        dump,
		CreatedUnix: time.Now().Unix(),
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a cached kernel dump. ok=false means a miss (including a
// schema mismatch, which is treated as a miss).
func (c *DiskCache) Get(key manifest.Digest) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return "", false, fmt.Errorf("driver: corrupt cache entry: %w", err)
	}
	if payload.Schema != cacheSchemaVersion {
		return "", false, nil
	}
	return payload.Dump, true, nil
}
