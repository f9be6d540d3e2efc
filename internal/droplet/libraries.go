// SPDX-License-Identifier: MPL-2.0

package droplet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/types"
)

// Libraries is the ordered set of additional library paths the buildpack
// adds to an application's classpath. The zero value and a nil pointer are
// both empty.
type Libraries struct {
	paths []types.FilesystemPath
}

// NewLibraries creates a collection from paths, dropping duplicates.
func NewLibraries(paths ...types.FilesystemPath) *Libraries {
	l := &Libraries{}
	for _, p := range paths {
		l.Add(p)
	}
	return l
}

// Add appends p unless it is already present.
func (l *Libraries) Add(p types.FilesystemPath) {
	if slices.Contains(l.paths, p) {
		return
	}
	l.paths = append(l.paths, p)
}

// Len returns the number of libraries.
func (l *Libraries) Len() int {
	if l == nil {
		return 0
	}
	return len(l.paths)
}

// Paths returns the libraries in insertion order.
func (l *Libraries) Paths() []types.FilesystemPath {
	if l == nil {
		return nil
	}
	return slices.Clone(l.paths)
}

// Sorted returns the libraries in lexical order.
func (l *Libraries) Sorted() []types.FilesystemPath {
	sorted := l.Paths()
	slices.Sort(sorted)
	return sorted
}

// RelativePathFrom returns each library, in insertion order, relative to
// base with forward slashes.
func (l *Libraries) RelativePathFrom(base types.FilesystemPath) ([]string, error) {
	paths := l.Paths()
	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := relativeTo(base, p)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// LinkTo creates a relative symlink in dir for every library, named after
// the library's base name. dir is created if missing and links left by an
// earlier run are replaced, so calling LinkTo twice is harmless.
func (l *Libraries) LinkTo(dir types.FilesystemPath) error {
	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return fmt.Errorf("creating library directory %s: %w", dir, err)
	}

	for _, p := range l.Paths() {
		link := fspath.JoinStr(dir, fspath.Base(p))
		target, err := relativeTo(dir, p)
		if err != nil {
			return err
		}
		if err := replaceLink(link); err != nil {
			return err
		}
		if err := os.Symlink(filepath.FromSlash(target), string(link)); err != nil {
			return fmt.Errorf("linking %s to %s: %w", link, p, err)
		}
	}
	return nil
}

// relativeTo relativizes target against base after making both absolute,
// so mixed relative and absolute inputs still produce a usable path.
func relativeTo(base, target types.FilesystemPath) (string, error) {
	absBase, err := fspath.Abs(base)
	if err != nil {
		return "", err
	}
	absTarget, err := fspath.Abs(target)
	if err != nil {
		return "", err
	}
	return fspath.Rel(absBase, absTarget)
}

// replaceLink removes an existing symlink at path. Anything else occupying
// the name is an error.
func replaceLink(path types.FilesystemPath) error {
	info, err := os.Lstat(string(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return fmt.Errorf("cannot link library: %s already exists and is not a symlink", path)
	}
	if err := os.Remove(string(path)); err != nil {
		return fmt.Errorf("removing stale link %s: %w", path, err)
	}
	return nil
}
