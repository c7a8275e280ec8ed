// Package fs provides the filesystem seam used by the archiver.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the archiver needs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] and atomic renames
//   - [Injected]: test wrapper that fails chosen operations on chosen paths
//   - [Locker]: flock-based exclusive locks on top of an [FS]
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("TODO.md")
//	if err != nil && !errors.Is(err, os.ErrNotExist) {
//	    return err
//	}
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File]. [Locker] needs Fd for flock and
// Stat for the inode check.
type File interface {
	io.ReadWriteCloser

	// Fd returns the file descriptor. See [os.File.Fd].
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations used to read and rewrite documents.
//
// All methods mirror their [os] package equivalents but can be intercepted
// in tests.
type FS interface {
	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces the file at path with data.
	// Readers see either the old or the new content, never a partial write.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)
}

// Compile-time interface checks.
var (
	_ File = (*os.File)(nil)
	_ FS   = (*Real)(nil)
	_ FS   = (*Injected)(nil)
)
