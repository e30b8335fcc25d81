package modpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// Source loads descriptors by package name.
type Source interface {
	Load(name string) (*Descriptor, error)
}

// Loader reads descriptors from a registry directory.
type Loader struct {
	dir  string
	fsys fs.FS
}

// NewLoader returns a Loader over the registry directory dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, fsys: os.DirFS(dir)}
}

// NewLoaderFS returns a Loader over fsys; dir is only used in error messages.
func NewLoaderFS(fsys fs.FS, dir string) *Loader {
	return &Loader{dir: dir, fsys: fsys}
}

// Dir returns the registry directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Load reads and parses the descriptor for name.
func (l *Loader) Load(name string) (*Descriptor, error) {
	file := name + Extension
	path := filepath.Join(l.dir, file)
	if name == "" || strings.ContainsAny(name, `/\`) || !fs.ValidPath(file) {
		return nil, &DescriptorNotFoundError{Package: name, Path: path}
	}

	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DescriptorNotFoundError{Package: name, Path: path}
		}
		return nil, fmt.Errorf(messages.ModpackReadFailedFmt, name, path, err)
	}

	desc, err := ParseDescriptor(name, data)
	if err != nil {
		return nil, &DescriptorParseError{Package: name, Path: path, Err: err}
	}
	return desc, nil
}

// List returns the names of every package in the registry, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf(messages.ModpackListFailedFmt, l.dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}
