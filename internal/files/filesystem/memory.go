package filesystem

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// memoryFileInfo implements fs.FileInfo for in-memory entries
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	content *[]byte
	mode    fs.FileMode
	modTime time.Time
	target  string
}

func (e *memoryEntry) info(name string) FileInfo {
	var size int64
	if e.content != nil {
		size = int64(len(*e.content))
	}
	return &memoryFileInfo{name: name, size: size, mode: e.mode, modTime: e.modTime}
}

// MemoryFileSystem implements FileSystemProvider in memory. Permission bits
// set through Chmod are enforced so that unreadable directories and
// read-only files behave as they would on disk for an unprivileged user.
type MemoryFileSystem struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	root    string
}

// NewMemoryFileSystem creates a new in-memory filesystem containing only root.
// Paths are normalized to forward slashes.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryEntry),
		root:    root,
	}
	mfs.entries[root] = &memoryEntry{mode: 0o755 | fs.ModeDir, modTime: time.Now()}
	return mfs
}

// Root returns the normalized root path.
func (mfs *MemoryFileSystem) Root() string {
	return mfs.root
}

// Path resolves p against the root and returns the normalized absolute path.
func (mfs *MemoryFileSystem) Path(p string) string {
	return mfs.resolve(p)
}

func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if !path.IsAbs(p) && !strings.HasPrefix(p, mfs.root) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// AddFile adds a regular file with mode 0644.
func (mfs *MemoryFileSystem) AddFile(p string, content string) {
	mfs.AddFileWithTime(p, content, time.Now())
}

// AddFileWithTime adds a regular file with a specific modification time.
func (mfs *MemoryFileSystem) AddFileWithTime(p string, content string, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(p)
	data := []byte(content)
	mfs.entries[abs] = &memoryEntry{content: &data, mode: 0o644, modTime: modTime}
	mfs.ensureParents(abs)
}

// AddDir adds an empty directory and any missing parents.
func (mfs *MemoryFileSystem) AddDir(p string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(p)
	if _, ok := mfs.entries[abs]; !ok {
		mfs.entries[abs] = &memoryEntry{mode: 0o755 | fs.ModeDir, modTime: time.Now()}
	}
	mfs.ensureParents(abs)
}

// AddSymlink adds a symbolic link at p pointing to target. Links are never
// followed by ReadDir.
func (mfs *MemoryFileSystem) AddSymlink(p, target string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(p)
	mfs.entries[abs] = &memoryEntry{mode: 0o777 | fs.ModeSymlink, modTime: time.Now(), target: target}
	mfs.ensureParents(abs)
}

// Chmod replaces the permission bits of p, keeping its type bits.
func (mfs *MemoryFileSystem) Chmod(p string, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(p)
	e, ok := mfs.entries[abs]
	if !ok {
		return newPathError("chmod", abs, pep263.ErrNotFound)
	}
	e.mode = e.mode.Type() | perm.Perm()
	return nil
}

// Remove deletes p and everything beneath it.
func (mfs *MemoryFileSystem) Remove(p string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.resolve(p)
	prefix := abs + "/"
	for key := range mfs.entries {
		if key == abs || strings.HasPrefix(key, prefix) {
			delete(mfs.entries, key)
		}
	}
}

// Content returns the bytes of the file at p.
func (mfs *MemoryFileSystem) Content(p string) (string, bool) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	e, ok := mfs.entries[mfs.resolve(p)]
	if !ok || e.content == nil {
		return "", false
	}
	return string(*e.content), true
}

func (mfs *MemoryFileSystem) ensureParents(abs string) {
	for dir := path.Dir(abs); dir != abs; abs, dir = dir, path.Dir(dir) {
		if _, ok := mfs.entries[dir]; ok {
			return
		}
		mfs.entries[dir] = &memoryEntry{mode: 0o755 | fs.ModeDir, modTime: time.Now()}
	}
}

// ReadDir lists the direct children of p sorted by name.
func (mfs *MemoryFileSystem) ReadDir(p string) ([]FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	abs := mfs.resolve(p)
	dir, ok := mfs.entries[abs]
	switch {
	case !ok:
		return nil, newPathError("open", abs, pep263.ErrNotFound)
	case !dir.mode.IsDir():
		return nil, newPathError("readdir", abs, pep263.ErrNotADirectory)
	case dir.mode.Perm()&0o400 == 0:
		return nil, newPathError("open", abs, pep263.ErrPermissionDenied)
	}

	prefix := abs + "/"
	if abs == "/" {
		prefix = "/"
	}
	var result []FileInfo
	for key, e := range mfs.entries {
		if key == abs || !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		if strings.Contains(name, "/") {
			continue
		}
		result = append(result, e.info(name))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

// Stat returns information about p. Symbolic links are resolved one level.
func (mfs *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	abs := mfs.resolve(p)
	e, ok := mfs.entries[abs]
	if !ok {
		return nil, newPathError("stat", abs, pep263.ErrNotFound)
	}
	if e.mode&fs.ModeSymlink != 0 {
		target := e.target
		if !path.IsAbs(target) {
			target = path.Join(path.Dir(abs), target)
		}
		if e, ok = mfs.entries[path.Clean(target)]; !ok {
			return nil, newPathError("stat", abs, pep263.ErrNotFound)
		}
	}
	return e.info(path.Base(abs)), nil
}

func (mfs *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	abs := mfs.resolve(p)
	e, err := mfs.regular("read", abs)
	if err != nil {
		return nil, err
	}
	if e.mode.Perm()&0o400 == 0 {
		return nil, newPathError("read", abs, pep263.ErrPermissionDenied)
	}
	out := make([]byte, len(*e.content))
	copy(out, *e.content)
	return out, nil
}

// OpenFile returns a MemoryStream sharing the file's storage, so writes
// through the stream are visible to later reads of the filesystem.
func (mfs *MemoryFileSystem) OpenFile(p string, writable bool) (File, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	abs := mfs.resolve(p)
	e, err := mfs.regular("open", abs)
	if err != nil {
		return nil, err
	}
	need := fs.FileMode(0o400)
	if writable {
		need |= 0o200
	}
	if e.mode.Perm()&need != need {
		return nil, newPathError("open", abs, pep263.ErrPermissionDenied)
	}
	return &MemoryStream{buf: e.content, readOnly: !writable}, nil
}

func (mfs *MemoryFileSystem) regular(op, abs string) (*memoryEntry, error) {
	e, ok := mfs.entries[abs]
	switch {
	case !ok:
		return nil, newPathError(op, abs, pep263.ErrNotFound)
	case e.mode.IsDir():
		return nil, newPathError(op, abs, pep263.ErrIsADirectory)
	case e.content == nil:
		return nil, newPathError(op, abs, pep263.ErrNotFound)
	}
	return e, nil
}

// Verify MemoryFileSystem implements the interface at compile time
var _ FileSystemProvider = (*MemoryFileSystem)(nil)
