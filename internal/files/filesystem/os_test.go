package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pep263/pkg/pep263"
)

func TestOSFileSystem_ReadDirAndOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pkg"), 0o755))

	p := NewOSFileSystem()
	entries, err := p.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	f, err := p.OpenFile(filepath.Join(dir, "a.py"), true)
	require.NoError(t, err)
	_, err = f.Write([]byte("y"))
	require.NoError(t, err)
	require.NoError(t, f.Truncate(1))
	require.NoError(t, f.Close())

	data, err := p.ReadFile(filepath.Join(dir, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(data))
}

func TestOSFileSystem_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	p := NewOSFileSystem()

	_, err := p.ReadDir(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, pep263.ErrNotFound)

	_, err = p.Stat(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, pep263.ErrNotFound)

	_, err = p.OpenFile(dir, false)
	assert.ErrorIs(t, err, pep263.ErrIsADirectory)

	_, err = p.ReadDir(file)
	assert.ErrorIs(t, err, pep263.ErrNotADirectory)
}

func TestOSFileSystem_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := NewOSFileSystem().ReadDir(locked)
	assert.ErrorIs(t, err, pep263.ErrPermissionDenied)
}
