// SPDX-License-Identifier: MPL-2.0

// Package libdir locates an application's dependency library directory.
//
// Candidates are probed in a fixed order and the first match wins:
//
//  1. the Spring-Boot-Lib manifest attribute, used without an existence
//     check and with a trailing separator appended
//  2. BOOT-INF/lib
//  3. WEB-INF/lib
//  4. lib
//
// Results are never cached: libraries may be added between calls.
package libdir

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dropletkit/jbp/internal/manifest"
	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/types"
)

// Rules that can select a library directory.
const (
	RuleManifest Rule = "manifest"
	RuleBootInf  Rule = "BOOT-INF/lib"
	RuleWebInf   Rule = "WEB-INF/lib"
	RuleLib      Rule = "lib"
)

// ErrNoLibraryDirectory is the sentinel error wrapped by
// NoLibraryDirectoryError.
var ErrNoLibraryDirectory = errors.New("no library directory")

// candidates are the on-disk probes in priority order. The rule value is
// also the slash-separated path relative to the root.
var candidates = []Rule{RuleBootInf, RuleWebInf, RuleLib}

type (
	// Rule names the priority rule that selected a directory.
	Rule string

	// Directory is a resolved library directory.
	Directory struct {
		Path types.FilesystemPath
		Rule Rule
	}

	// NoLibraryDirectoryError is returned when no candidate exists and the
	// manifest declares no override.
	NoLibraryDirectoryError struct {
		Root types.FilesystemPath
	}

	// Resolver resolves library directories. The zero value is ready to use.
	Resolver struct{}
)

// Error implements the error interface.
func (e *NoLibraryDirectoryError) Error() string {
	return fmt.Sprintf("no library directory found under %s (tried %s=..., %s, %s, %s)",
		e.Root, manifest.SpringBootLib, RuleBootInf, RuleWebInf, RuleLib)
}

// Unwrap returns ErrNoLibraryDirectory so callers can use errors.Is.
func (e *NoLibraryDirectoryError) Unwrap() error { return ErrNoLibraryDirectory }

// Resolve reads <root>/META-INF/MANIFEST.MF (if any) and resolves the
// library directory of root.
func (r Resolver) Resolve(root types.FilesystemPath) (Directory, error) {
	m, err := manifest.ForApplication(root)
	if err != nil {
		return Directory{}, err
	}
	return r.ResolveWithManifest(root, m)
}

// ResolveWithManifest resolves the library directory of root using m for
// the override. A nil manifest means no override.
func (Resolver) ResolveWithManifest(root types.FilesystemPath, m *manifest.Manifest) (Directory, error) {
	if m != nil {
		if override, ok := m.Get(manifest.SpringBootLib); ok && strings.TrimSpace(override) != "" {
			path := string(fspath.JoinStr(root, strings.TrimSpace(override)))
			if !strings.HasSuffix(path, string(os.PathSeparator)) {
				path += string(os.PathSeparator)
			}
			slog.Debug("library directory from manifest", "root", root, "path", path)
			return Directory{Path: types.FilesystemPath(path), Rule: RuleManifest}, nil
		}
	}

	for _, rule := range candidates {
		path := fspath.JoinStr(root, string(rule))
		ok, err := fspath.IsDir(path)
		if err != nil {
			return Directory{}, err
		}
		if ok {
			slog.Debug("library directory found", "root", root, "rule", rule)
			return Directory{Path: path, Rule: rule}, nil
		}
	}

	return Directory{}, &NoLibraryDirectoryError{Root: root}
}

// String renders the directory path.
func (d Directory) String() string { return string(d.Path) }
