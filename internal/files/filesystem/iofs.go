package filesystem

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// FSProvider adapts a read-only fs.FS, such as an embed.FS or fstest.MapFS,
// to FileSystemProvider. Paths are resolved beneath root. Opening a file for
// writing fails with pep263.ErrPermissionDenied.
type FSProvider struct {
	fsys  fs.FS
	root  string
	mount string
}

// NewFSProvider wraps fsys, treating root as the directory that "." and
// relative paths resolve against.
func NewFSProvider(fsys fs.FS, root string) *FSProvider {
	return &FSProvider{fsys: fsys, root: path.Clean(root)}
}

// NewDirFSProvider serves the tree under dir read-only through os.DirFS.
// It accepts the same OS paths OSFileSystem does, as long as they lie
// under dir.
func NewDirFSProvider(dir string) *FSProvider {
	mount := filepath.Clean(dir)
	return &FSProvider{fsys: os.DirFS(mount), root: ".", mount: mount}
}

func (p *FSProvider) resolve(name string) string {
	if p.mount != "" {
		if rel, err := filepath.Rel(p.mount, filepath.Clean(name)); err == nil && rel != ".." &&
			!strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			name = rel
		}
	}
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." {
		return p.root
	}
	if name == p.root || strings.HasPrefix(name, p.root+"/") {
		return path.Clean(name)
	}
	return path.Join(p.root, name)
}

func (p *FSProvider) ReadDir(name string) ([]FileInfo, error) {
	abs := p.resolve(name)
	entries, err := fs.ReadDir(p.fsys, abs)
	if err != nil {
		return nil, classify("readdir", abs, err)
	}
	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, classify("stat", path.Join(abs, entry.Name()), err)
		}
		result = append(result, info)
	}
	return result, nil
}

func (p *FSProvider) Stat(name string) (FileInfo, error) {
	abs := p.resolve(name)
	info, err := fs.Stat(p.fsys, abs)
	if err != nil {
		return nil, classify("stat", abs, err)
	}
	return info, nil
}

func (p *FSProvider) ReadFile(name string) ([]byte, error) {
	abs := p.resolve(name)
	data, err := fs.ReadFile(p.fsys, abs)
	if err != nil {
		return nil, classify("read", abs, err)
	}
	return data, nil
}

// OpenFile loads the file into a read-only MemoryStream.
func (p *FSProvider) OpenFile(name string, writable bool) (File, error) {
	abs := p.resolve(name)
	info, err := fs.Stat(p.fsys, abs)
	if err != nil {
		return nil, classify("open", abs, err)
	}
	if info.IsDir() {
		return nil, newPathError("open", abs, pep263.ErrIsADirectory)
	}
	if writable {
		return nil, newPathError("open", abs, pep263.ErrPermissionDenied)
	}
	data, err := fs.ReadFile(p.fsys, abs)
	if err != nil {
		return nil, classify("open", abs, err)
	}
	return &MemoryStream{buf: &data, readOnly: true}, nil
}

// Verify FSProvider implements the interface at compile time
var _ FileSystemProvider = (*FSProvider)(nil)
