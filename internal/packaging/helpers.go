// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"archive/zip"
	"fmt"
	"os"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dropletkit/jbp/internal/droplet"
	"github.com/dropletkit/jbp/internal/libdir"
	"github.com/dropletkit/jbp/internal/manifest"
	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/types"
)

const (
	// playJarGlob finds the Play framework jar in a lib directory, both the
	// 2.0/2.1 name (play_2.9.1-2.0.4.jar) and the 2.2+ one
	// (com.typesafe.play.play_2.10-2.2.0.jar).
	playJarGlob = "*play_*-*.jar"

	// springBootJarGlob finds the versioned Spring Boot core jar.
	springBootJarGlob = "spring-boot-[0-9]*.jar"

	springLoaderPackage = "org.springframework.boot.loader."
)

var (
	playJarPattern       = regexp.MustCompile(`.*play_.*-(.*)\.jar`)
	springBootJarPattern = regexp.MustCompile(`^spring-boot-(.*)\.jar$`)
)

// metaInf holds archive metadata and never counts as a dist directory.
const metaInf = "META-INF"

// singleDirectory returns the only non-hidden directory directly below app,
// ignoring META-INF.
func singleDirectory(app types.FilesystemPath) (types.FilesystemPath, bool, error) {
	entries, err := os.ReadDir(string(app))
	if err != nil {
		return "", false, fmt.Errorf("listing %s: %w", app, err)
	}

	var dirs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || e.Name() == metaInf {
			continue
		}
		if ok, err := fspath.IsDir(fspath.JoinStr(app, e.Name())); err != nil {
			return "", false, err
		} else if ok {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) != 1 {
		return "", false, nil
	}
	return fspath.JoinStr(app, dirs[0]), true, nil
}

// globIn matches pattern below dir, returning slash-separated relative
// paths in lexical order. A missing dir yields no matches.
func globIn(dir types.FilesystemPath, pattern string) ([]string, error) {
	ok, err := fspath.IsDir(dir)
	if err != nil || !ok {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(string(dir)), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("searching %s for %s: %w", dir, pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

// playJarVersion extracts the framework version from the Play jar in lib.
func playJarVersion(lib types.FilesystemPath) (string, bool, error) {
	matches, err := globIn(lib, playJarGlob)
	if err != nil {
		return "", false, err
	}
	for _, m := range matches {
		if sub := playJarPattern.FindStringSubmatch(m); sub != nil && sub[1] != "" {
			return sub[1], true, nil
		}
	}
	return "", false, nil
}

// springBootJarVersion extracts the version from a spring-boot-<v>.jar name.
func springBootJarVersion(name string) (string, bool) {
	sub := springBootJarPattern.FindStringSubmatch(path.Base(name))
	if sub == nil {
		return "", false
	}
	return sub[1], true
}

// springBootJarVersionIn looks for spring-boot-<v>.jar directly in dir.
func springBootJarVersionIn(dir types.FilesystemPath) (string, bool, error) {
	matches, err := globIn(dir, springBootJarGlob)
	if err != nil || len(matches) == 0 {
		return "", false, err
	}
	v, ok := springBootJarVersion(matches[0])
	return v, ok, nil
}

// isLauncher reports whether mainClass is a Spring Boot loader launcher,
// covering both the pre-3.2 and the org.springframework.boot.loader.launch
// packages.
func isLauncher(mainClass string) bool {
	return strings.HasPrefix(mainClass, springLoaderPackage) && strings.HasSuffix(mainClass, "Launcher")
}

// hasSpringBootMarker reports whether m identifies a Spring Boot application.
func hasSpringBootMarker(m *manifest.Manifest) bool {
	return m.Has(manifest.SpringBootVersion) || isLauncher(m.Value(manifest.MainClass))
}

// springVersion reads Spring-Boot-Version from m, falling back to the
// spring-boot jar in the library directory of root.
func springVersion(k Kind, root types.FilesystemPath, m *manifest.Manifest) (string, error) {
	if v := strings.TrimSpace(m.Value(manifest.SpringBootVersion)); v != "" {
		return v, nil
	}
	dir, err := libdir.Resolver{}.ResolveWithManifest(root, m)
	if err == nil {
		if v, ok, err := springBootJarVersionIn(dir.Path); err != nil {
			return "", err
		} else if ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s application at %s", ErrUnknownVersion, k, root)
}

// archiveEntries lists the entry names of a zip archive.
func archiveEntries(archive types.FilesystemPath) ([]string, error) {
	zr, err := zip.OpenReader(string(archive))
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archive, err)
	}
	defer func() { _ = zr.Close() }() // Read-only archive; close error non-critical

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// linkLibraries links the droplet's additional libraries into dir.
func linkLibraries(d *droplet.Droplet, dir types.FilesystemPath) error {
	if err := d.Libraries.LinkTo(dir); err != nil {
		return fmt.Errorf("linking additional libraries: %w", err)
	}
	return nil
}
