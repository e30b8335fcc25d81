// Package fsutil copies and writes files for server staging.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// FilesystemError reports a failed filesystem operation on Path.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf(messages.FilesystemErrorFmt, e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// CopyFile copies src to dst, creating dst's parent directories and keeping src's mode bits.
func CopyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &FilesystemError{Op: "open", Path: src, Err: err}
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return &FilesystemError{Op: "stat", Path: src, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &FilesystemError{Op: "copy", Path: src, Err: errors.New(messages.FilesystemNotRegular)}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &FilesystemError{Op: "create", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return &FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &FilesystemError{Op: "close", Path: dst, Err: err}
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return &FilesystemError{Op: "chmod", Path: dst, Err: err}
	}
	return nil
}

// CopyDir copies every regular file directly inside srcDir into dstDir concurrently.
// It returns the copied file names, sorted. Subdirectories are not descended into.
func CopyDir(ctx context.Context, srcDir string, dstDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, &FilesystemError{Op: "read dir", Path: srcDir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return CopyFile(filepath.Join(srcDir, name), filepath.Join(dstDir, name))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}

// WriteFileAtomic writes data to a temp file beside path and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	tmp, err := osCreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &FilesystemError{Op: "create temp", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &FilesystemError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &FilesystemError{Op: "sync", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &FilesystemError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return &FilesystemError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := osRename(tmpName, path); err != nil {
		return &FilesystemError{Op: "rename", Path: path, Err: err}
	}
	committed = true
	return nil
}

// AppendFile appends data to path, creating it with perm if needed.
func AppendFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, perm)
	if err != nil {
		return &FilesystemError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return &FilesystemError{Op: "append", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FilesystemError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// Rename moves src to dst, refusing to replace an existing dst.
func Rename(src string, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &FilesystemError{Op: "rename", Path: dst, Err: fmt.Errorf(messages.FilesystemExistsFmt, dst)}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &FilesystemError{Op: "stat", Path: dst, Err: err}
	}
	if err := osRename(src, dst); err != nil {
		return &FilesystemError{Op: "rename", Path: src, Err: err}
	}
	return nil
}
