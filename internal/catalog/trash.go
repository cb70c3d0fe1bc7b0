package catalog

import (
	"fmt"
	"path/filepath"
)

// SoftDelete moves a live photo into the trash mirror, keeping its relative
// path, and removes any directories the move left empty.
//
// The steps are not atomic. A failure part way leaves earlier steps in place.
// The in-memory index is not updated; the photo stays visible until Reload.
func (s *FileStorage) SoftDelete(id string) error {
	if err := s.ensureBuilt(); err != nil {
		return err
	}

	entry, ok := s.idx.entries[id]
	if !ok {
		return fmt.Errorf("%w: no photo with id %s", ErrNotFound, id)
	}

	if err := s.relocate(entry, s.root, s.trashRoot); err != nil {
		return err
	}

	s.logger.Info("photo moved to trash", "id", id, "path", entry.RelativePath())
	return nil
}

// UndoSoftDelete moves a trashed photo back to its original relative path
// under the collection root and removes trash directories left empty.
func (s *FileStorage) UndoSoftDelete(id string) error {
	if err := s.ensureBuilt(); err != nil {
		return err
	}

	trashed, err := s.buildTrashIndex()
	if err != nil {
		return err
	}

	entry, ok := trashed.entries[id]
	if !ok {
		return fmt.Errorf("%w: no trashed photo with id %s", ErrNotFound, id)
	}

	if err := s.relocate(entry, s.trashRoot, s.root); err != nil {
		return err
	}

	s.logger.Info("photo restored from trash", "id", id, "path", entry.RelativePath())
	return nil
}

// ListTrashed returns the entries currently in the trash, in listing order.
// Their paths are relative to the trash root.
func (s *FileStorage) ListTrashed() ([]*Entry, error) {
	trashed, err := s.buildTrashIndex()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(trashed.order))
	for _, id := range trashed.order {
		entries = append(entries, trashed.entries[id])
	}
	return entries, nil
}

// relocate moves entry from one root to the mirrored location under the
// other, then prunes empty directories left behind under the source root.
func (s *FileStorage) relocate(entry *Entry, fromRoot, toRoot string) error {
	destDir := entry.Dir(toRoot)
	if err := s.fsmgr.CreateFolder(destDir); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrIOFailure, destDir, err)
	}

	src := entry.FullPath(fromRoot)
	dst := entry.FullPath(toRoot)
	if err := s.fsmgr.Move(src, dst); err != nil {
		return fmt.Errorf("%w: moving %s to %s: %w", ErrIOFailure, src, dst, err)
	}

	if err := s.pruneEmptyFolders(entry.Dir(fromRoot), fromRoot); err != nil {
		return fmt.Errorf("%w: pruning below %s: %w", ErrIOFailure, fromRoot, err)
	}
	return nil
}

// pruneEmptyFolders removes dir and then each ancestor while it is empty.
// It stops at the first non-empty directory and never removes boundary or
// anything outside it.
func (s *FileStorage) pruneEmptyFolders(dir, boundary string) error {
	for {
		if _, ok := within(boundary, dir); !ok {
			return nil
		}

		empty, err := s.fsmgr.IsFolderEmpty(dir)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}

		if err := s.fsmgr.RemoveFolder(dir); err != nil {
			return err
		}
		s.logger.Debug("removed empty folder", "path", dir)

		dir = filepath.Dir(dir)
	}
}
