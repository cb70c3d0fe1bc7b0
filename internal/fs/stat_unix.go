//go:build unix

package fs

import (
	"errors"
	"io/fs"
	"syscall"
)

// inodeOf returns the inode number recorded in info, or 0.
func inodeOf(info fs.FileInfo) uint64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return uint64(stat.Ino)
}

// isCrossDevice reports whether a rename failed because source and
// destination are on different filesystems.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
