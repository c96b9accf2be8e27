package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"envault/internal/crypto"
	"envault/internal/fsutil"
	"envault/internal/logging"
)

// CacheFileName is the encrypted snapshot file inside the state directory.
const CacheFileName = "cache.encrypted"

// Store persists cache snapshots to a single encrypted file. The key is
// derived from the active session token (crypto.DeriveKey), so any holder of
// a token hashing to the same key can reopen the blob across restarts, and a
// lost token makes the blob unrecoverable.
type Store struct {
	path   string
	logger *logging.Logger
}

// NewStore creates a persistence store writing to dir/cache.encrypted.
func NewStore(dir string, logger *logging.Logger) *Store {
	return &Store{
		path:   filepath.Join(dir, CacheFileName),
		logger: logger,
	}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Save serializes the snapshot to JSON, encrypts it with key and writes it
// atomically. Serialization, encryption and write failures all propagate:
// a save must never silently lose data.
func (s *Store) Save(snapshot map[string]map[string]interface{}, key []byte) error {
	serialized, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	encrypted, err := crypto.Encrypt(string(serialized), key)
	if err != nil {
		return fmt.Errorf("failed to encrypt cache: %w", err)
	}

	if err := fsutil.AtomicWriteFile(s.path, encrypted); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	s.logger.Info("cache.saved", "Cache snapshot saved to disk", map[string]interface{}{
		"path": s.path,
	})
	return nil
}

// Load reads, decrypts and deserializes the cache file. Loading is
// best-effort: a missing file, a wrong key, tampered bytes or malformed JSON
// all yield an empty snapshot rather than an error, so a cold or corrupt
// cache never blocks startup.
func (s *Store) Load(key []byte) map[string]map[string]interface{} {
	empty := map[string]map[string]interface{}{}

	if err := fsutil.EnsureDirectory(filepath.Dir(s.path)); err != nil {
		s.logger.Warn("cache.load_failed", "Could not ensure cache directory", map[string]interface{}{
			"error": err.Error(),
		})
		return empty
	}

	encrypted, err := fsutil.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("cache.load_failed", "Could not read cache file", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return empty
	}

	serialized, err := crypto.Decrypt(encrypted, key)
	if err != nil {
		s.logger.Warn("cache.load_failed", "Could not decrypt cache file", map[string]interface{}{
			"error": err.Error(),
		})
		return empty
	}

	var snapshot map[string]map[string]interface{}
	if err := json.Unmarshal([]byte(serialized), &snapshot); err != nil {
		s.logger.Warn("cache.load_failed", "Cache file contents are malformed", map[string]interface{}{
			"error": err.Error(),
		})
		return empty
	}

	s.logger.Info("cache.loaded", "Cache snapshot loaded from disk", map[string]interface{}{
		"namespaces": len(snapshot),
	})
	return snapshot
}

// DeleteCacheFile removes the cache file. An absent file is a no-op, not an
// error.
func (s *Store) DeleteCacheFile() error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	s.logger.Info("cache.deleted", "Cache file deleted", map[string]interface{}{
		"path": s.path,
	})
	return nil
}
