package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// OSFileSystem implements FileSystemProvider for the OS filesystem
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadDir lists path without sorting, so the order is whatever the operating
// system returns and may differ between platforms and runs.
func (p *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, classify("open", path, err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, classify("readdir", path, err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Removed between listing and stat.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), classify("stat", path, err))
		}
		result = append(result, info)
	}

	return result, nil
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, classify("stat", path, err)
	}
	return info, nil
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify("read", path, err)
	}
	return data, nil
}

func (p *OSFileSystem) OpenFile(path string, writable bool) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, classify("open", path, err)
	}
	if info.IsDir() {
		return nil, newPathError("open", path, pep263.ErrIsADirectory)
	}

	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, classify("open", path, err)
	}
	return f, nil
}

// classify wraps err in a PathError carrying the matching pep263 sentinel.
// Errors that match no sentinel are returned unchanged.
func classify(op, path string, err error) error {
	var kind error
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = pep263.ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = pep263.ErrPermissionDenied
	case errors.Is(err, syscall.EISDIR):
		kind = pep263.ErrIsADirectory
	case errors.Is(err, syscall.ENOTDIR):
		kind = pep263.ErrNotADirectory
	default:
		return err
	}
	return &PathError{Op: op, Path: path, Kind: kind, Err: err}
}

// Verify OSFileSystem implements the interface at compile time
var _ FileSystemProvider = (*OSFileSystem)(nil)
