package fsutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile_CreatesParentsAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "start.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\necho hi\n"), 0o755))

	dst := filepath.Join(dir, "out", "nested", "start.sh")
	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", string(data))
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing.json"), filepath.Join(dir, "out.json"))
	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "open", fsErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCopyFile_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(dir, filepath.Join(t.TempDir(), "x"))
	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "copy", fsErr.Op)
}

func TestCopyDir_CopiesTopLevelFiles(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "start.sh"), []byte("a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "start.bat"), []byte("b"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "skip.txt"), []byte("c"), 0o644))

	dst := filepath.Join(t.TempDir(), "server")
	names, err := CopyDir(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"start.bat", "start.sh"}, names)

	assert.FileExists(t, filepath.Join(dst, "start.sh"))
	assert.FileExists(t, filepath.Join(dst, "start.bat"))
	assert.NoFileExists(t, filepath.Join(dst, "sub", "skip.txt"))
}

func TestCopyDir_MissingSource(t *testing.T) {
	_, err := CopyDir(context.Background(), filepath.Join(t.TempDir(), "scripts"), t.TempDir())
	var fsErr *FilesystemError
	assert.ErrorAs(t, err, &fsErr)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "eula.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("eula=true\n"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("eula=true\n#again\n"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "eula=true\n#again\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_RenameFailureCleansUp(t *testing.T) {
	orig := osRename
	osRename = func(string, string) error { return errors.New("boom") }
	t.Cleanup(func() { osRename = orig })

	dir := t.TempDir()
	err := WriteFileAtomic(filepath.Join(dir, "x.txt"), []byte("x"), 0o644)
	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "rename", fsErr.Op)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")
	require.NoError(t, AppendFile(path, []byte("a=1\n"), 0o644))
	require.NoError(t, AppendFile(path, []byte("b=2\n"), 0o644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a=1\nb=2\n", string(data))
}

func TestRename_RefusesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "server")
	dst := filepath.Join(dir, "survival")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.Mkdir(dst, 0o755))

	err := Rename(src, dst)
	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.DirExists(t, src)
}

func TestRename_MovesDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "server")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "eula.txt"), []byte("eula=true\n"), 0o644))

	dst := filepath.Join(dir, "survival")
	require.NoError(t, Rename(src, dst))
	assert.NoDirExists(t, src)
	assert.FileExists(t, filepath.Join(dst, "eula.txt"))
}
