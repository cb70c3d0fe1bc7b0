package catalog

import (
	"io/fs"
	"time"
)

// FileRecord is a single regular file found by FilesystemManager.ListFiles.
type FileRecord struct {
	Path    string // absolute path
	ModTime time.Time
	Inode   uint64 // 0 where the platform does not expose one
}

// FilesystemManager provides the filesystem primitives the catalog needs.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// ListFiles recursively finds regular files under root whose extension
	// matches one of extensions (case-insensitive). Directories whose name
	// appears in excluded are skipped entirely.
	ListFiles(root string, extensions []string, excluded []string) ([]*FileRecord, error)

	// Move moves a file. It fails if src is missing, if the parent of dst
	// does not exist, or if dst already exists.
	Move(src, dst string) error

	// CreateFolder creates path and any missing parents. Idempotent.
	CreateFolder(path string) error

	// IsFolderEmpty reports whether the directory has no entries.
	IsFolderEmpty(path string) (bool, error)

	// RemoveFolder removes an empty directory.
	RemoveFolder(path string) error

	// Exists reports whether anything exists at path.
	Exists(path string) (bool, error)

	// Stat returns fresh file info for a path.
	Stat(path string) (fs.FileInfo, error)
}

// MetadataExtractor reads embedded metadata (EXIF) from an image file.
// It returns an error when the file carries no readable metadata.
type MetadataExtractor interface {
	ExtractMetadata(path string) (*Metadata, error)
}

// ImageProber decodes just enough of an image to report its dimensions.
type ImageProber interface {
	ProbeDimensions(path string) (width, height int, err error)
}

// RenditionProducer writes a resized copy of src to dst.
type RenditionProducer interface {
	Render(src, dst string, dim DimensionSpec) error
}
