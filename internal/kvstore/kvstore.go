// Package kvstore persists small JSON documents as individual files under a
// single directory, one file per key. Reads are forgiving: a missing,
// unreadable, expired or syntactically broken file is reported as absent,
// and broken files are removed so the next read starts clean. Callers fall
// back to defaults instead of seeing an error.
package kvstore

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBadKey is returned for keys that are empty or could escape the store
// directory.
var ErrBadKey = errors.New("kvstore: invalid key")

// Store is a directory of JSON documents. maxAge of zero means entries never
// expire; otherwise Get treats older files as absent and Sweep removes them.
type Store struct {
	dir    string
	maxAge time.Duration
}

// New creates the backing directory if needed and returns a store over it.
func New(dir string, maxAge time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, maxAge: maxAge}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// path maps a key to a file path, rejecting anything that could climb out of
// the store directory.
func (s *Store) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", ErrBadKey
	}
	clean := filepath.Join(s.dir, key+".json")
	prefix := filepath.Clean(s.dir) + string(os.PathSeparator)
	if !strings.HasPrefix(clean, prefix) {
		return "", ErrBadKey
	}
	return clean, nil
}

// Get unmarshals the document stored under key into v and reports whether a
// usable document was found. Corrupted and expired files are deleted on the
// way out.
func (s *Store) Get(key string, v any) bool {
	path, err := s.path(key)
	if err != nil {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if s.maxAge > 0 && time.Since(info.ModTime()) > s.maxAge {
		log.Printf("Removing expired store entry %s (age %v)", path, time.Since(info.ModTime()))
		os.Remove(path)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read store entry %s: %v", path, err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Removing corrupted store entry %s: %v", path, err)
		os.Remove(path)
		return false
	}
	return true
}

// Set marshals v and writes it under key, replacing any previous document.
func (s *Store) Set(key string, v any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Delete removes the document under key. Deleting an absent key is not an
// error.
func (s *Store) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeletePrefix removes every document whose key starts with prefix and
// returns how many were removed.
func (s *Store) DeletePrefix(prefix string) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), ".json")
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			log.Printf("Failed to remove store entry %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Sweep removes documents older than the store's max age and returns how
// many were removed. A store without a max age never sweeps anything.
func (s *Store) Sweep() (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Printf("Failed to stat store entry %s: %v", entry.Name(), err)
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove old store entry %s: %v", path, err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}
