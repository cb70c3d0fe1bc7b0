//go:build !unix

package fs

import "io/fs"

func inodeOf(fs.FileInfo) uint64 { return 0 }

func isCrossDevice(error) bool { return false }
