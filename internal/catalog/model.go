package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCollectionID is the collection identifier used when none is configured.
// It also serves as the UUID namespace for photo identities.
const DefaultCollectionID = "427e8cdc-2275-4b54-942c-3295b2e300e2"

// CacheExtension is the file extension of every cached rendition.
const CacheExtension = ".jpg"

// Collection is the single logical grouping of all photos served by one storage instance.
type Collection struct {
	ID          string
	Name        string
	Enabled     bool
	Description string
}

// Entry is the on-disk record of one image file.
// Entries are built during an index scan and never mutated afterwards.
type Entry struct {
	ID           string
	FileName     string
	RelativeDir  string // relative to the scanned root, trailing separator, "" at the root
	ModifiedAt   time.Time
	CollectionID string
	Inode        uint64
}

// RelativePath returns the path of the file relative to the scanned root.
func (e *Entry) RelativePath() string {
	return e.RelativeDir + e.FileName
}

// Dir returns the directory holding the file when placed under base.
func (e *Entry) Dir(base string) string {
	return filepath.Join(base, e.RelativeDir)
}

// FullPath returns the absolute path of the file when placed under base.
func (e *Entry) FullPath(base string) string {
	return filepath.Join(base, e.RelativeDir, e.FileName)
}

// Metadata is what a MetadataExtractor reads from an image file.
// A zero value (apart from dimensions) is used when the file has none.
type Metadata struct {
	Width       int
	Height      int
	Orientation int
	CapturedAt  *time.Time
	CameraBrand string
	CameraModel string
}

// Photo is the hydrated, caller-facing record of a cataloged image.
type Photo struct {
	ID           string
	CollectionID string
	Width        int
	Height       int
	Orientation  int
	CapturedAt   *time.Time // from embedded metadata, nil when absent
	ModifiedAt   time.Time  // file modification time, always present
	AddedAt      time.Time
	CameraBrand  string
	CameraModel  string
}

// EffectiveDate is the capture time if known, otherwise the modification time.
func (p *Photo) EffectiveDate() time.Time {
	if p.CapturedAt != nil {
		return *p.CapturedAt
	}
	return p.ModifiedAt
}

// NewPhoto builds a Photo from an entry and its metadata. It performs no I/O.
func NewPhoto(entry *Entry, meta *Metadata, addedAt time.Time) *Photo {
	p := &Photo{
		ID:           entry.ID,
		CollectionID: entry.CollectionID,
		Width:        meta.Width,
		Height:       meta.Height,
		Orientation:  meta.Orientation,
		ModifiedAt:   entry.ModifiedAt,
		AddedAt:      addedAt,
		CameraBrand:  meta.CameraBrand,
		CameraModel:  meta.CameraModel,
	}
	if meta.CapturedAt != nil {
		t := *meta.CapturedAt
		p.CapturedAt = &t
	}
	return p
}

// DimensionSpec names a target size for a cached rendition.
// A zero Width or Height leaves that side unconstrained.
type DimensionSpec struct {
	ID     string
	Width  int
	Height int
	Crop   bool // fill the box exactly, cropping the overflow
}

// Validate checks that the spec can address a cache directory.
func (d DimensionSpec) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: dimension spec has no id", ErrInvalidInput)
	}
	if d.ID == "." || d.ID == ".." || strings.ContainsAny(d.ID, `/\`) {
		return fmt.Errorf("%w: dimension spec id %q is not a plain name", ErrInvalidInput, d.ID)
	}
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("%w: dimension spec %q has negative size", ErrInvalidInput, d.ID)
	}
	return nil
}

// Quantity is the number of photos in one year, month or day bucket.
type Quantity struct {
	Label string // "2022", "03", "07"
	Value int
	Count int
}
