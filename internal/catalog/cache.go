package catalog

import (
	"fmt"
	"path/filepath"
)

// ResolveCachePath returns where the rendition of id at dim lives:
// <cacheRoot>/<collectionID>/<dim.ID>/<id>.jpg. The file is not checked or created.
func (s *FileStorage) ResolveCachePath(id string, dim DimensionSpec) (string, error) {
	if s.cacheRoot == "" {
		return "", fmt.Errorf("%w: no cache root configured", ErrInvalidInput)
	}
	if err := dim.Validate(); err != nil {
		return "", err
	}

	if err := s.ensureBuilt(); err != nil {
		return "", err
	}
	if _, ok := s.idx.entries[id]; !ok {
		return "", fmt.Errorf("%w: no photo with id %s", ErrNotFound, id)
	}

	return s.cachePath(id, dim), nil
}

func (s *FileStorage) cachePath(id string, dim DimensionSpec) string {
	return filepath.Join(s.cacheRoot, s.collection.ID, dim.ID, id+CacheExtension)
}

// ResolvePhotoPath returns the cache path of a rendition, asking the
// RenditionProducer to create it first when it does not exist yet.
func (s *FileStorage) ResolvePhotoPath(id string, dim DimensionSpec) (string, error) {
	path, err := s.ResolveCachePath(id, dim)
	if err != nil {
		return "", err
	}

	exists, err := s.fsmgr.Exists(path)
	if err != nil {
		return "", fmt.Errorf("%w: checking %s: %w", ErrIOFailure, path, err)
	}
	if exists {
		return path, nil
	}

	if s.renderer == nil {
		return "", fmt.Errorf("%w: rendition %s is not cached and no renderer is configured", ErrNotFound, path)
	}

	src := s.idx.entries[id].FullPath(s.root)
	if err := s.renderer.Render(src, path, dim); err != nil {
		return "", fmt.Errorf("%w: rendering %s: %w", ErrIOFailure, src, err)
	}

	s.logger.Info("rendition cached", "id", id, "dimension", dim.ID, "path", path)
	return path, nil
}
