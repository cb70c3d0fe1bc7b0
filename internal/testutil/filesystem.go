package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"photocat/internal/catalog"
)

// MockFile represents a file or directory in the mock filesystem.
type MockFile struct {
	Content     []byte
	ModTime     time.Time
	IsDirectory bool
	Inode       uint64
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Adding a file creates its parent directories.
type MockFilesystemManager struct {
	files     map[string]*MockFile
	nextInode uint64

	// ListCalls counts ListFiles invocations.
	ListCalls int

	// MoveErr, when set, is returned by every Move.
	MoveErr error
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
	}
}

// AddFile adds a file with the current time as modification time.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.AddFileWithModTime(path, content, time.Now())
}

// AddFileWithModTime adds a file with an explicit modification time.
func (m *MockFilesystemManager) AddFileWithModTime(path string, content []byte, modTime time.Time) {
	path = filepath.Clean(path)
	m.AddDirectory(filepath.Dir(path))
	m.nextInode++
	m.files[path] = &MockFile{
		Content: content,
		ModTime: modTime,
		Inode:   m.nextInode,
	}
}

// AddDirectory adds a directory and all of its parents.
func (m *MockFilesystemManager) AddDirectory(path string) {
	path = filepath.Clean(path)
	for {
		if f, ok := m.files[path]; ok && f.IsDirectory {
			return
		}
		m.nextInode++
		m.files[path] = &MockFile{
			ModTime:     time.Now(),
			IsDirectory: true,
			Inode:       m.nextInode,
		}
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

// HasFile reports whether a regular file exists at path.
func (m *MockFilesystemManager) HasFile(path string) bool {
	f, ok := m.files[filepath.Clean(path)]
	return ok && !f.IsDirectory
}

// HasDirectory reports whether a directory exists at path.
func (m *MockFilesystemManager) HasDirectory(path string) bool {
	f, ok := m.files[filepath.Clean(path)]
	return ok && f.IsDirectory
}

func (m *MockFilesystemManager) ListFiles(root string, extensions []string, excluded []string) ([]*catalog.FileRecord, error) {
	m.ListCalls++

	root = filepath.Clean(root)
	if !m.HasDirectory(root) {
		return nil, fmt.Errorf("directory not found: %s", root)
	}

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var records []*catalog.FileRecord
	for _, p := range paths {
		f := m.files[p]
		if f.IsDirectory {
			continue
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if inExcluded(rel, excluded) || !hasExtension(p, extensions) {
			continue
		}
		records = append(records, &catalog.FileRecord{Path: p, ModTime: f.ModTime, Inode: f.Inode})
	}
	return records, nil
}

func inExcluded(rel string, excluded []string) bool {
	dirs := strings.Split(filepath.Dir(rel), string(filepath.Separator))
	for _, d := range dirs {
		if slices.Contains(excluded, d) {
			return true
		}
	}
	return false
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func (m *MockFilesystemManager) Move(src, dst string) error {
	if m.MoveErr != nil {
		return m.MoveErr
	}
	src, dst = filepath.Clean(src), filepath.Clean(dst)

	f, ok := m.files[src]
	if !ok || f.IsDirectory {
		return fmt.Errorf("file not found: %s", src)
	}
	if !m.HasDirectory(filepath.Dir(dst)) {
		return fmt.Errorf("destination folder not found: %s", filepath.Dir(dst))
	}
	if _, exists := m.files[dst]; exists {
		return fmt.Errorf("destination already exists: %s", dst)
	}

	delete(m.files, src)
	m.files[dst] = f
	return nil
}

func (m *MockFilesystemManager) CreateFolder(path string) error {
	path = filepath.Clean(path)
	if f, ok := m.files[path]; ok && !f.IsDirectory {
		return fmt.Errorf("not a directory: %s", path)
	}
	m.AddDirectory(path)
	return nil
}

func (m *MockFilesystemManager) IsFolderEmpty(path string) (bool, error) {
	path = filepath.Clean(path)
	if !m.HasDirectory(path) {
		return false, fmt.Errorf("directory not found: %s", path)
	}
	for p := range m.files {
		if p != path && filepath.Dir(p) == path {
			return false, nil
		}
	}
	return true, nil
}

func (m *MockFilesystemManager) RemoveFolder(path string) error {
	empty, err := m.IsFolderEmpty(path)
	if err != nil {
		return err
	}
	if !empty {
		return fmt.Errorf("directory not empty: %s", path)
	}
	delete(m.files, filepath.Clean(path))
	return nil
}

func (m *MockFilesystemManager) Exists(path string) (bool, error) {
	_, ok := m.files[filepath.Clean(path)]
	return ok, nil
}

func (m *MockFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	path = filepath.Clean(path)
	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s: %w", path, fs.ErrNotExist)
	}

	mode := fs.FileMode(0644)
	if f.IsDirectory {
		mode = fs.ModeDir | 0755
	}
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(f.Content)),
		mode:    mode,
		modTime: f.ModTime,
		file:    f,
	}, nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	file    *MockFile
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return i.size }
func (i *mockFileInfo) Mode() fs.FileMode  { return i.mode }
func (i *mockFileInfo) ModTime() time.Time { return i.modTime }
func (i *mockFileInfo) IsDir() bool        { return i.file.IsDirectory }
func (i *mockFileInfo) Sys() any           { return i.file }

// Compile-time check
var _ catalog.FilesystemManager = (*MockFilesystemManager)(nil)
