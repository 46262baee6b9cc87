package filesystem

import (
	"io"
	"io/fs"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// File is an open file. It is a pep263.Stream that must be closed.
type File interface {
	pep263.Stream
	io.Closer
}

// FileSystemProvider gives access to directories and files.
type FileSystemProvider interface {
	// ReadDir returns the entries of the directory at path in the order the
	// backing store lists them. Entries are not followed: a symbolic link is
	// reported as a link, not as its target.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)

	// ReadFile reads a specific file at the given path.
	ReadFile(path string) ([]byte, error)

	// OpenFile opens a regular file for reading, or for reading and writing
	// when writable is true. Opening a directory fails with pep263.ErrIsADirectory.
	OpenFile(path string, writable bool) (File, error)
}

// PathError records a failed operation on a path together with the pep263
// sentinel that classifies it.
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return e.Op + " " + e.Path + ": " + e.Kind.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the classifying sentinel and the underlying error.
func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newPathError(op, path string, kind error) error {
	return &PathError{Op: op, Path: path, Kind: kind}
}
