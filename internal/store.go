package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const lockTimeout = 5 * time.Second

// ChannelStore persists the channel listing cache as a single JSON file:
// a top-level object keyed by channel URL. The file is guarded by an
// advisory lock for the store's lifetime and every save goes through a
// temp file and rename.
type ChannelStore struct {
	path string
	lock *FileLock
	mu   sync.Mutex
}

// OpenChannelStore opens (creating directories as needed) the channel
// cache at path and acquires its file lock.
func OpenChannelStore(path string) (*ChannelStore, error) {
	lock, err := openStoreLock(path)
	if err != nil {
		return nil, err
	}
	return &ChannelStore{path: path, lock: lock}, nil
}

// Path returns the cache file location.
func (s *ChannelStore) Path() string { return s.path }

// Load reads the whole cache. A missing or empty file yields an empty
// store and no error; an unreadable or corrupt file yields an empty store
// and a *CacheReadError so callers can warn and continue.
func (s *ChannelStore) Load() (CacheStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := CacheStore{}
	err := loadJSONFile(s.path, &store)
	if err != nil {
		return CacheStore{}, &CacheReadError{Path: s.path, Err: err}
	}
	return store, nil
}

// Save writes the whole cache back to disk. Failures are reported as
// *CacheWriteError; the on-disk file is either the old or the new
// content, never a partial write.
func (s *ChannelStore) Save(store CacheStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := saveJSONFile(s.path, store); err != nil {
		return &CacheWriteError{Path: s.path, Err: err}
	}
	return nil
}

// Close releases the store's file lock.
func (s *ChannelStore) Close() error {
	return s.lock.Release()
}

// TranscriptStore persists video transcripts as a single JSON file keyed
// by video ID.
type TranscriptStore struct {
	path string
	lock *FileLock
	mu   sync.Mutex
}

// OpenTranscriptStore opens (creating directories as needed) the
// transcript cache at path and acquires its file lock.
func OpenTranscriptStore(path string) (*TranscriptStore, error) {
	lock, err := openStoreLock(path)
	if err != nil {
		return nil, err
	}
	return &TranscriptStore{path: path, lock: lock}, nil
}

// Path returns the cache file location.
func (s *TranscriptStore) Path() string { return s.path }

// Lookup returns the cached transcript for videoID. A missing or corrupt
// cache file reads as empty.
func (s *TranscriptStore) Lookup(videoID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache := TranscriptCache{}
	if err := loadJSONFile(s.path, &cache); err != nil {
		return "", false
	}
	text, ok := cache[videoID]
	return text, ok
}

// Put stores the transcript for videoID, rewriting the whole cache file.
func (s *TranscriptStore) Put(videoID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache := TranscriptCache{}
	// A corrupt cache is dropped rather than blocking new transcripts.
	_ = loadJSONFile(s.path, &cache)
	cache[videoID] = text
	if err := saveJSONFile(s.path, cache); err != nil {
		return &CacheWriteError{Path: s.path, Err: err}
	}
	return nil
}

// Close releases the store's file lock.
func (s *TranscriptStore) Close() error {
	return s.lock.Release()
}

func openStoreLock(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	lock, err := AcquireFileLock(path+".lock", lockTimeout)
	if err != nil {
		return nil, fmt.Errorf("acquiring store lock: %w", err)
	}
	return lock, nil
}

func loadJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	return nil
}

func saveJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	return writeFileAtomic(path, data, 0o644)
}

// writeFileAtomic writes data to path via a temp file in the same
// directory, syncing before rename so readers never observe a partial
// file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
