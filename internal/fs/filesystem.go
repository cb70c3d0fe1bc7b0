package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"photocat/internal/catalog"
)

// OSFilesystemManager is the real filesystem implementation of catalog.FilesystemManager.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
}

// NewOSFilesystemManager creates a filesystem manager that skips paths
// matching ignorePatterns in every listing.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{
		ignore: NewIgnoreMatcher(append([]string{IgnoreFileName}, ignorePatterns...)),
	}
}

// ListFiles walks root and returns regular files with a matching extension.
// Directories named in excluded, and paths matched by the ignore patterns or
// by root's ignore file, are skipped. Results are in lexical path order.
func (m *OSFilesystemManager) ListFiles(root string, extensions []string, excluded []string) ([]*catalog.FileRecord, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	filePatterns, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	matcher := m.ignore.With(filePatterns)

	var records []*catalog.FileRecord
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", p, err)
		}

		if d.IsDir() {
			if slices.Contains(excluded, d.Name()) || matcher.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || matcher.Match(rel) || !hasExtension(d.Name(), extensions) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		records = append(records, &catalog.FileRecord{
			Path:    p,
			ModTime: info.ModTime(),
			Inode:   inodeOf(info),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return records, nil
}

func hasExtension(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Move renames src to dst, copying across filesystems when a rename is not possible.
func (m *OSFilesystemManager) Move(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source is not a regular file: %s", src)
	}

	parent, err := os.Stat(filepath.Dir(dst))
	if err != nil {
		return fmt.Errorf("stat destination folder: %w", err)
	}
	if !parent.IsDir() {
		return fmt.Errorf("destination parent is not a directory: %s", filepath.Dir(dst))
	}

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("destination already exists: %s", dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat destination: %w", err)
	}

	err = os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("renaming: %w", err)
	}

	if err := copyFile(src, dst, info); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}
	return nil
}

// copyFile copies src to dst, preserving permissions and modification time.
func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("closing destination: %w", err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("setting file times: %w", err)
	}
	return nil
}

// CreateFolder creates path and any missing parents.
func (m *OSFilesystemManager) CreateFolder(path string) error {
	return os.MkdirAll(path, 0755)
}

// IsFolderEmpty reports whether the directory at path has no entries.
func (m *OSFilesystemManager) IsFolderEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// RemoveFolder removes an empty directory.
func (m *OSFilesystemManager) RemoveFolder(path string) error {
	return os.Remove(path)
}

// Exists reports whether anything exists at path.
func (m *OSFilesystemManager) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Compile-time check that OSFilesystemManager implements catalog.FilesystemManager interface
var _ catalog.FilesystemManager = (*OSFilesystemManager)(nil)
