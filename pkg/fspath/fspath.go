// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath and os.Stat
// that accept and return types.FilesystemPath, so droplet code can pass
// typed paths around without converting at every call site.
package fspath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dropletkit/jbp/pkg/types"
)

// Join wraps filepath.Join for FilesystemPath segments.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr joins a typed base with literal segments such as "lib" or
// "META-INF/MANIFEST.MF". Slash-separated segments are converted to the
// OS separator.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	for _, e := range elem {
		parts = append(parts, filepath.FromSlash(e))
	}
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base wraps filepath.Base for FilesystemPath.
func Base(p types.FilesystemPath) string {
	return filepath.Base(string(p))
}

// Rel returns target expressed relative to base, using forward slashes so the
// result can be embedded in shell scripts and classpaths.
func Rel(base, target types.FilesystemPath) (string, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("relativizing %s against %s: %w", target, base, err)
	}
	return filepath.ToSlash(rel), nil
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// IsDir reports whether p exists and is a directory. A missing path is not an
// error; any other stat failure is.
func IsDir(p types.FilesystemPath) (bool, error) {
	info, err := os.Stat(string(p))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspecting %s: %w", p, err)
	}
	return info.IsDir(), nil
}

// IsFile reports whether p exists and is a regular file (symlinks followed).
func IsFile(p types.FilesystemPath) (bool, error) {
	info, err := os.Stat(string(p))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspecting %s: %w", p, err)
	}
	return info.Mode().IsRegular(), nil
}
