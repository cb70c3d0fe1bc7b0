package catalog

import (
	"fmt"
	"path/filepath"
)

// index holds entries and photos keyed by identity plus the build order.
type index struct {
	entries map[string]*Entry
	photos  map[string]*Photo
	order   []string
}

func newIndex(size int) *index {
	return &index{
		entries: make(map[string]*Entry, size),
		photos:  make(map[string]*Photo, size),
		order:   make([]string, 0, size),
	}
}

// add records an entry and, for the live index, its photo.
func (idx *index) add(entry *Entry, photo *Photo) {
	if _, ok := idx.entries[entry.ID]; !ok {
		idx.order = append(idx.order, entry.ID)
	}
	idx.entries[entry.ID] = entry
	if photo != nil {
		idx.photos[entry.ID] = photo
	}
}

// ordered returns the photos in build order.
func (idx *index) ordered() []*Photo {
	photos := make([]*Photo, 0, len(idx.order))
	for _, id := range idx.order {
		photos = append(photos, idx.photos[id])
	}
	return photos
}

// ensureBuilt builds the live index on first use. Later calls are no-ops.
func (s *FileStorage) ensureBuilt() error {
	if s.built {
		return nil
	}

	idx, err := s.buildIndex()
	if err != nil {
		return err
	}

	s.idx = idx
	s.built = true
	s.logger.Info("catalog index built", "root", s.root, "photos", len(idx.order))
	return nil
}

// Reload drops the index so the next operation rescans the collection root.
func (s *FileStorage) Reload() {
	s.built = false
	s.idx = nil
}

func (s *FileStorage) buildIndex() (*index, error) {
	records, err := s.fsmgr.ListFiles(s.root, s.extensions, []string{s.trashDir})
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrIOFailure, s.root, err)
	}

	addedAt := s.clock.Now()
	idx := newIndex(len(records))
	for _, rec := range records {
		entry, err := s.newEntry(rec, s.root)
		if err != nil {
			return nil, err
		}

		meta, err := s.readMetadata(entry.FullPath(s.root))
		if err != nil {
			return nil, err
		}

		idx.add(entry, NewPhoto(entry, meta, addedAt))
	}

	return idx, nil
}

// buildTrashIndex scans the trash subtree into a fresh, entries-only index.
func (s *FileStorage) buildTrashIndex() (*index, error) {
	exists, err := s.fsmgr.Exists(s.trashRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: checking trash %s: %w", ErrIOFailure, s.trashRoot, err)
	}
	if !exists {
		return newIndex(0), nil
	}

	records, err := s.fsmgr.ListFiles(s.trashRoot, s.extensions, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrIOFailure, s.trashRoot, err)
	}

	idx := newIndex(len(records))
	for _, rec := range records {
		entry, err := s.newEntry(rec, s.trashRoot)
		if err != nil {
			return nil, err
		}
		idx.add(entry, nil)
	}
	return idx, nil
}

// newEntry builds the entry for a listed file relative to base.
func (s *FileStorage) newEntry(rec *FileRecord, base string) (*Entry, error) {
	id, err := s.ids.Generate(rec.Path)
	if err != nil {
		return nil, err
	}

	rel, ok := within(base, rec.Path)
	if !ok {
		return nil, fmt.Errorf("%w: %s is outside %s", ErrInvalidInput, rec.Path, base)
	}
	dir, name := filepath.Split(rel)

	return &Entry{
		ID:           id,
		FileName:     name,
		RelativeDir:  dir,
		ModifiedAt:   rec.ModTime,
		CollectionID: s.collection.ID,
		Inode:        rec.Inode,
	}, nil
}

// readMetadata extracts embedded metadata, falling back to the probed image
// dimensions when the file has none.
func (s *FileStorage) readMetadata(path string) (*Metadata, error) {
	meta, err := s.extractor.ExtractMetadata(path)
	if err == nil {
		return meta, nil
	}
	s.logger.Debug("no readable metadata, probing dimensions", "path", path, "error", err)

	width, height, err := s.prober.ProbeDimensions(path)
	if err != nil {
		return nil, fmt.Errorf("%w: probing %s: %w", ErrIOFailure, path, err)
	}
	return &Metadata{Width: width, Height: height}, nil
}
