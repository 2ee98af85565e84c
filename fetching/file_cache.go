package fetching

import (
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/id-translation/translation"
)

// CacheMetadata describes the contents and provenance of a FileCache's data
// file: the hierarchical cache keys that identify the configuration it was
// built from, the placeholders known per source at write time, and the
// write timestamp used for max-age expiry. Persisted as YAML alongside the
// gob-encoded data file. Grounded on fetching._cache.CacheMetadata in the
// original implementation.
type CacheMetadata struct {
	CacheKeys    []string            `yaml:"cache_keys"`
	Placeholders map[string][]string `yaml:"placeholders"`
	WrittenAt    time.Time           `yaml:"written_at"`
}

// FileCache is a disk-backed CacheAccess: entries are gob-encoded into a
// single data file, with a YAML sidecar recording CacheMetadata used to
// invalidate the cache when the caller's configuration (CacheKeys) changes
// or MaxAge elapses. Grounded on fetching._cache.CacheAccess
// (metadata.json + data.pkl) in the original implementation, adapted from
// pickle to gob and from JSON to YAML metadata to match this module's
// serialization choices elsewhere (translator.Store/Restore, the teacher's
// own preference for yaml.v3 over encoding/json).
type FileCache struct {
	dir       string
	cacheKeys []string
	maxAge    time.Duration

	mu sync.Mutex
}

// NewFileCache creates a FileCache rooted at dir. cacheKeys identifies the
// configuration this cache was built for (a typical key is a config file
// name and its content hash); a mismatch against the metadata already on
// disk is treated as a cache miss rather than an error. maxAge <= 0 means
// the cache never expires by age alone.
func NewFileCache(dir string, cacheKeys []string, maxAge time.Duration) *FileCache {
	return &FileCache{dir: dir, cacheKeys: append([]string{}, cacheKeys...), maxAge: maxAge}
}

func (c *FileCache) metadataPath() string { return filepath.Join(c.dir, "metadata.yaml") }
func (c *FileCache) dataPath() string     { return filepath.Join(c.dir, "data.gob") }

// Load implements CacheAccess.
func (c *FileCache) Load(_ context.Context, instr FetchInstruction) (*translation.PlaceholderTranslations, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta, ok, err := c.readMetadata()
	if err != nil || !ok {
		return nil, false, err
	}
	if !c.isValid(meta) {
		return nil, false, nil
	}

	entries, ok, err := c.readEntries()
	if err != nil || !ok {
		return nil, false, err
	}
	pt, ok := entries[cacheKey(instr)]
	return pt, ok, nil
}

// Store implements CacheAccess.
func (c *FileCache) Store(_ context.Context, instr FetchInstruction, translations *translation.PlaceholderTranslations) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	meta, ok, err := c.readMetadata()
	if err != nil {
		return err
	}
	valid := ok && c.isValid(meta)
	if !valid {
		meta = CacheMetadata{CacheKeys: c.cacheKeys, Placeholders: map[string][]string{}}
	}

	entries, ok, err := c.readEntries()
	if err != nil {
		return err
	}
	if !ok || !valid {
		entries = map[string]*translation.PlaceholderTranslations{}
	}
	entries[cacheKey(instr)] = translations
	if err := c.writeEntries(entries); err != nil {
		return err
	}

	meta.Placeholders[instr.Source] = translations.Placeholders
	meta.WrittenAt = time.Now()
	return c.writeMetadata(meta)
}

// Clear removes both the data file and the metadata sidecar.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := removeIfExists(c.dataPath()); err != nil {
		return err
	}
	return removeIfExists(c.metadataPath())
}

func (c *FileCache) isValid(meta CacheMetadata) bool {
	if !stringSlicesEqual(meta.CacheKeys, c.cacheKeys) {
		return false
	}
	if c.maxAge > 0 && time.Since(meta.WrittenAt) > c.maxAge {
		return false
	}
	return true
}

func (c *FileCache) readMetadata() (CacheMetadata, bool, error) {
	b, err := os.ReadFile(c.metadataPath())
	if errors.Is(err, os.ErrNotExist) {
		return CacheMetadata{}, false, nil
	}
	if err != nil {
		return CacheMetadata{}, false, err
	}
	var meta CacheMetadata
	if err := yaml.Unmarshal(b, &meta); err != nil {
		return CacheMetadata{}, false, err
	}
	return meta, true, nil
}

func (c *FileCache) writeMetadata(meta CacheMetadata) error {
	b, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(c.metadataPath(), b, 0o644)
}

func (c *FileCache) readEntries() (map[string]*translation.PlaceholderTranslations, bool, error) {
	f, err := os.Open(c.dataPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	entries := map[string]*translation.PlaceholderTranslations{}
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *FileCache) writeEntries(entries map[string]*translation.PlaceholderTranslations) error {
	f, err := os.Create(c.dataPath())
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(entries)
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
