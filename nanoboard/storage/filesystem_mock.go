package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests. Setting one of the
// error fields makes the matching call fail.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string]mockFile

	ReadFileError  error
	WriteFileError error
	RenameError    error

	// Writes counts successful WriteFile calls
	Writes int
}

type mockFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

type mockFileInfo struct {
	name string
	file mockFile
}

func (fi mockFileInfo) Name() string       { return fi.name }
func (fi mockFileInfo) Size() int64        { return int64(len(fi.file.content)) }
func (fi mockFileInfo) Mode() fs.FileMode  { return fi.file.mode }
func (fi mockFileInfo) ModTime() time.Time { return fi.file.modTime }
func (fi mockFileInfo) IsDir() bool        { return false }
func (fi mockFileInfo) Sys() any           { return nil }

// NewMockFileSystem creates an empty mock file system
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{files: make(map[string]mockFile)}
}

func (m *MockFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return mockFileInfo{name: filepath.Base(name), file: f}, nil
}

func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileError != nil {
		return nil, m.ReadFileError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return cloneBytes(f.content), nil
}

func (m *MockFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if m.WriteFileError != nil {
		return m.WriteFileError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = mockFile{content: cloneBytes(data), mode: perm, modTime: time.Now()}
	m.Writes++
	return nil
}

func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if m.RenameError != nil {
		return m.RenameError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[oldpath]
	if !ok {
		return os.ErrNotExist
	}
	m.files[newpath] = f
	delete(m.files, oldpath)
	return nil
}

func (m *MockFileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return os.ErrNotExist
	}
	delete(m.files, name)
	return nil
}

func (m *MockFileSystem) MkdirAll(string, fs.FileMode) error {
	return nil
}

// FileExists reports whether name is present
func (m *MockFileSystem) FileExists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok
}

// SetFile seeds a file's content
func (m *MockFileSystem) SetFile(name string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = mockFile{content: cloneBytes(content), mode: 0o644, modTime: time.Now()}
}

// GetFileContent returns a copy of a file's content
func (m *MockFileSystem) GetFileContent(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[name]
	if !ok {
		return nil, false
	}
	return cloneBytes(f.content), true
}
