package repcache

import (
	"crypto/sha256"
	"encoding/hex"
	goerrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hostbridge/modcompat/errors"
	"github.com/hostbridge/modcompat/rewrite"
)

// Current schema version - increment when the payload format changes.
const cacheSchemaVersion uint16 = 1

// Cache stores rewrite reports on disk, keyed by module content and delta
// table fingerprint. A hit answers the loader's disposition question for
// previously seen content; actually mutating a module still requires a
// real pipeline run.
//
// Thread-safe for concurrent access.
type Cache struct {
	mu     sync.RWMutex
	dir    string
	maxAge time.Duration
}

// payload is the on-disk report entry.
type payload struct {
	Schema  uint16
	Phrases []string
	Results []uint8
	SavedAt time.Time
}

// Open initializes a cache at the standard location for the given app
// name, honoring XDG_CACHE_HOME with a ~/.cache fallback.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseCache, errors.KindInvalidInput, err, "resolve cache dir")
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, app, "reports"))
}

// OpenAt initializes a cache rooted at an explicit directory.
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.PhaseCache, errors.KindInvalidInput, err, "create cache dir")
	}
	return &Cache{dir: dir}, nil
}

// SetMaxAge bounds entry lifetime: entries stored longer ago than d are
// treated as misses and evicted on the next Load. Zero, the default,
// keeps entries indefinitely. Call before the cache is in use.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.maxAge = d
}

// Key derives the cache key for a module's encoded bytes under the given
// fingerprints. Callers must pass every input the report depends on
// beyond the module itself, at minimum the rewrite configuration
// fingerprint and a digest per registered host module. Any change to any
// part yields a new key.
func Key(encodedModule []byte, fingerprints ...string) string {
	h := sha256.New()
	h.Write(encodedModule)
	for _, fp := range fingerprints {
		h.Write([]byte{0})
		h.Write([]byte(fp))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store saves a report under the given key.
func (c *Cache) Store(key string, report *rewrite.Report) error {
	entry := payload{
		Schema:  cacheSchemaVersion,
		Phrases: report.Phrases,
		SavedAt: time.Now().UTC(),
	}
	for _, o := range report.Results.List() {
		entry.Results = append(entry.Results, uint8(o))
	}

	data, err := msgpack.Marshal(entry)
	if err != nil {
		return errors.Wrap(errors.PhaseCache, errors.KindInvalidData, err, "marshal report")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseCache, errors.KindInvalidInput, err, "write report")
	}
	return nil
}

// Load returns the cached report for a key. A missing entry, a schema
// mismatch, an expired entry, or a corrupt file is a miss, not an error;
// stale entries are removed on sight.
func (c *Cache) Load(key string) (*rewrite.Report, bool, error) {
	c.mu.RLock()
	data, err := os.ReadFile(c.path(key))
	c.mu.RUnlock()
	if err != nil {
		if goerrors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.PhaseCache, errors.KindInvalidInput, err, "read report")
	}

	var entry payload
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		c.evict(key)
		return nil, false, nil
	}
	if entry.Schema != cacheSchemaVersion {
		c.evict(key)
		return nil, false, nil
	}
	if c.maxAge > 0 && time.Since(entry.SavedAt) > c.maxAge {
		c.evict(key)
		return nil, false, nil
	}

	report := rewrite.NewReport()
	report.Phrases = entry.Phrases
	for _, o := range entry.Results {
		report.Results.Add(rewrite.Outcome(o))
	}
	return report, true, nil
}

// evict removes a stale or corrupt entry.
func (c *Cache) evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = os.Remove(c.path(key))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".rep")
}
