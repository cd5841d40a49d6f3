package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileFormatVersion is written into the metadata of every store file
const FileFormatVersion = "1.0"

const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// fileDocument is the on-disk layout: one JSON object holding every entry
type fileDocument struct {
	Entries  map[string]json.RawMessage `json:"entries"`
	Metadata Metadata                   `json:"metadata"`
}

// FileOption configures the file backend
type FileOption func(*fileKV)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) FileOption {
	return func(s *fileKV) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) FileOption {
	return func(s *fileKV) {
		s.lockFactory = factory
	}
}

// WithTimeFunc sets the clock used for metadata timestamps
func WithTimeFunc(fn func() time.Time) FileOption {
	return func(s *fileKV) {
		s.timeFunc = fn
	}
}

// fileKV keeps all entries in a single JSON file. Every operation takes the
// cross-process lock and re-reads the file, so several processes can share
// one store; writes go to a temp file that is renamed into place.
type fileKV struct {
	path        string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock
	timeFunc    func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewFileKV opens (or lazily creates) the store file at path. Values must be
// valid JSON.
func NewFileKV(path string, opts ...FileOption) (KV, error) {
	s := &fileKV{
		path:     path,
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = OSFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = FlockFactory{}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	s.fileLock = s.lockFactory.New(path + ".lock")

	// fail early on an unreadable file
	if err := s.withLock(func() error {
		_, err := s.load()
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return s, nil
}

func (s *fileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	err := s.withLock(func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}
		raw, ok := doc.Entries[key]
		if !ok {
			return nil
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("corrupt entry %q: %w", key, err)
		}
		value, found = buf.Bytes(), true
		return nil
	})
	return value, found, err
}

func (s *fileKV) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	return s.withLock(func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}
		doc.Entries[key] = json.RawMessage(cloneBytes(value))
		return s.save(doc)
	})
}

func (s *fileKV) Delete(_ context.Context, key string) error {
	return s.withLock(func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}
		if _, ok := doc.Entries[key]; !ok {
			return nil
		}
		delete(doc.Entries, key)
		return s.save(doc)
	})
}

func (s *fileKV) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := s.withLock(func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}
		keys = make([]string, 0, len(doc.Entries))
		for k := range doc.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil
	})
	return keys, err
}

// Close marks the store closed. The lock file stays on disk since other
// processes may be waiting on it.
func (s *fileKV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return nil
}

// withLock serializes fn within the process and across processes
func (s *fileKV) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()
	return fn()
}

func (s *fileKV) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

// load reads the store file; a missing or empty file is an empty store.
// Caller must hold the lock.
func (s *fileKV) load() (*fileDocument, error) {
	now := s.timeFunc()
	empty := &fileDocument{
		Entries:  make(map[string]json.RawMessage),
		Metadata: Metadata{Version: FileFormatVersion, CreatedAt: now, UpdatedAt: now},
	}

	if _, err := s.fs.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return empty, nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]json.RawMessage)
	}
	return &doc, nil
}

// save writes the document atomically. Caller must hold the lock.
func (s *fileKV) save(doc *fileDocument) error {
	doc.Metadata.UpdatedAt = s.timeFunc()
	if doc.Metadata.Version == "" {
		doc.Metadata.Version = FileFormatVersion
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := s.fs.WriteFile(tmpFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := s.fs.Rename(tmpFile, s.path); err != nil {
		_ = s.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
