// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dropletkit/jbp/internal/droplet"
	"github.com/dropletkit/jbp/internal/libdir"
	"github.com/dropletkit/jbp/internal/manifest"
	"github.com/dropletkit/jbp/internal/thincache"
	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/types"
)

// stagedGlob finds the Spring Boot jar of staged (lib/) and dist
// (<name>/lib/) layouts.
const stagedGlob = "**/lib/" + springBootJarGlob

// ErrMissingJavaHome is returned when a thin application is augmented
// without a Java home.
var ErrMissingJavaHome = errors.New("thin dependency caching needs a Java home")

// ErrUnexplodedArchive is returned when additional libraries are wired into
// a fat jar or war that was not exploded.
var ErrUnexplodedArchive = errors.New("additional libraries need an exploded archive")

type (
	// SpringBootThin is a thin jar whose dependencies are resolved by the
	// thin launcher. Augmenting pre-caches them.
	SpringBootThin struct {
		cache ThinCacher
	}

	// SpringBootExploded is an exploded jar or war whose root manifest
	// identifies Spring Boot.
	SpringBootExploded struct{}

	// SpringBootFatJar is a single unexploded jar or war at the
	// application root.
	SpringBootFatJar struct{}

	// SpringBootStaged is a staged or dist layout with lib/spring-boot-*.jar.
	SpringBootStaged struct{}

	// UnexplodedArchiveError reports libraries that a launcher reading only
	// nested archive entries would never see.
	UnexplodedArchiveError struct {
		Archive   types.FilesystemPath
		Libraries int
	}
)

// Error implements the error interface.
func (e *UnexplodedArchiveError) Error() string {
	return fmt.Sprintf("%d additional libraries cannot reach the classpath of unexploded archive %s", e.Libraries, e.Archive)
}

// Unwrap returns ErrUnexplodedArchive so callers can use errors.Is.
func (e *UnexplodedArchiveError) Unwrap() error { return ErrUnexplodedArchive }

// markerManifest reads the root manifest for detection. A manifest that
// does not parse carries no marker; I/O failures are still returned.
func markerManifest(app types.FilesystemPath) (*manifest.Manifest, error) {
	m, err := manifest.ForApplication(app)
	if errors.Is(err, manifest.ErrMalformed) {
		slog.Debug("ignoring unparseable manifest", "app", app, "error", err)
		return manifest.Empty(), nil
	}
	return m, err
}

// IsThin reports whether app is a Spring Boot thin application.
func IsThin(app types.FilesystemPath) (bool, error) {
	m, err := markerManifest(app)
	if err != nil {
		return false, err
	}
	return m.Value(manifest.MainClass) == thincache.WrapperClass, nil
}

// NewSpringBootThin creates the thin strategy. A nil cache runs the thin
// launcher on the host.
func NewSpringBootThin(cache ThinCacher) SpringBootThin {
	if cache == nil {
		cache = thincache.New(nil)
	}
	return SpringBootThin{cache: cache}
}

// Kind implements Strategy.
func (SpringBootThin) Kind() Kind { return KindSpringBootThin }

// AppliesTo implements Strategy.
func (SpringBootThin) AppliesTo(app types.FilesystemPath) (bool, error) {
	return IsThin(app)
}

// Version implements Strategy.
func (s SpringBootThin) Version(app types.FilesystemPath) (string, error) {
	m, err := s.manifest(app)
	if err != nil {
		return "", err
	}
	return springVersion(s.Kind(), app, m)
}

// LibraryDirectory implements Strategy.
func (s SpringBootThin) LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error) {
	m, err := s.manifest(app)
	if err != nil {
		return libdir.Directory{}, err
	}
	return libdir.Resolver{}.ResolveWithManifest(app, m)
}

// AugmentClasspath implements Strategy. Thin applications resolve their
// classpath at boot, so augmenting means filling the dependency cache.
func (s SpringBootThin) AugmentClasspath(ctx context.Context, d *droplet.Droplet) error {
	if _, err := s.manifest(d.Root); err != nil {
		return err
	}
	if d.JavaHome == nil {
		return ErrMissingJavaHome
	}
	if d.Libraries.Len() > 0 {
		slog.Debug("thin application: additional libraries are not linked", "count", d.Libraries.Len())
	}
	cache := s.cache
	if cache == nil {
		cache = thincache.New(nil)
	}
	return cache.Dependencies(ctx, d.JavaHome.Root, d.Root, d.ThinCacheDir())
}

func (s SpringBootThin) manifest(app types.FilesystemPath) (*manifest.Manifest, error) {
	m, err := manifest.ForApplication(app)
	if err != nil {
		return nil, err
	}
	if m.Value(manifest.MainClass) != thincache.WrapperClass {
		return nil, notApplicable(s.Kind(), app)
	}
	return m, nil
}

// Kind implements Strategy.
func (SpringBootExploded) Kind() Kind { return KindSpringBootExploded }

// AppliesTo implements Strategy.
func (SpringBootExploded) AppliesTo(app types.FilesystemPath) (bool, error) {
	m, err := markerManifest(app)
	if err != nil {
		return false, err
	}
	return hasSpringBootMarker(m), nil
}

// Version implements Strategy.
func (s SpringBootExploded) Version(app types.FilesystemPath) (string, error) {
	m, err := s.manifest(app)
	if err != nil {
		return "", err
	}
	return springVersion(s.Kind(), app, m)
}

// LibraryDirectory implements Strategy.
func (s SpringBootExploded) LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error) {
	m, err := s.manifest(app)
	if err != nil {
		return libdir.Directory{}, err
	}
	return libdir.Resolver{}.ResolveWithManifest(app, m)
}

// AugmentClasspath implements Strategy.
func (s SpringBootExploded) AugmentClasspath(_ context.Context, d *droplet.Droplet) error {
	dir, err := s.LibraryDirectory(d.Root)
	if err != nil {
		return err
	}
	return linkLibraries(d, dir.Path)
}

func (s SpringBootExploded) manifest(app types.FilesystemPath) (*manifest.Manifest, error) {
	m, err := manifest.ForApplication(app)
	if err != nil {
		return nil, err
	}
	if !hasSpringBootMarker(m) {
		return nil, notApplicable(s.Kind(), app)
	}
	return m, nil
}

// archive returns the single jar or war at the application root and its
// manifest, when that manifest identifies Spring Boot.
func (s SpringBootFatJar) archive(app types.FilesystemPath) (types.FilesystemPath, *manifest.Manifest, bool, error) {
	entries, err := os.ReadDir(string(app))
	if err != nil {
		return "", nil, false, fmt.Errorf("listing %s: %w", app, err)
	}
	var archives []types.FilesystemPath
	for _, e := range entries {
		ext := strings.ToLower(path.Ext(e.Name()))
		if !e.IsDir() && (ext == ".jar" || ext == ".war") {
			archives = append(archives, fspath.JoinStr(app, e.Name()))
		}
	}
	if len(archives) != 1 {
		return "", nil, false, nil
	}

	m, err := manifest.ReadArchive(archives[0])
	if err != nil {
		slog.Debug("skipping unreadable archive", "archive", archives[0], "error", err)
		return "", nil, false, nil
	}
	if !hasSpringBootMarker(m) {
		return "", nil, false, nil
	}
	return archives[0], m, true, nil
}

func (s SpringBootFatJar) located(app types.FilesystemPath) (types.FilesystemPath, *manifest.Manifest, error) {
	archive, m, ok, err := s.archive(app)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, notApplicable(s.Kind(), app)
	}
	return archive, m, nil
}

// Kind implements Strategy.
func (SpringBootFatJar) Kind() Kind { return KindSpringBootFatJar }

// AppliesTo implements Strategy.
func (s SpringBootFatJar) AppliesTo(app types.FilesystemPath) (bool, error) {
	_, _, ok, err := s.archive(app)
	return ok, err
}

// Version implements Strategy. Without Spring-Boot-Version in the archive
// manifest, the nested spring-boot jar name is used.
func (s SpringBootFatJar) Version(app types.FilesystemPath) (string, error) {
	archive, m, err := s.located(app)
	if err != nil {
		return "", err
	}
	if v := strings.TrimSpace(m.Value(manifest.SpringBootVersion)); v != "" {
		return v, nil
	}
	names, err := archiveEntries(archive)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if ok, _ := doublestar.Match("**/"+springBootJarGlob, name); !ok {
			continue
		}
		if v, ok := springBootJarVersion(name); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownVersion, archive)
}

// LibraryDirectory implements Strategy. The override comes from the
// archive's manifest.
func (s SpringBootFatJar) LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error) {
	_, m, err := s.located(app)
	if err != nil {
		return libdir.Directory{}, err
	}
	return libdir.Resolver{}.ResolveWithManifest(app, m)
}

// AugmentClasspath implements Strategy. The launcher only reads entries
// nested in the archive, so libraries linked beside it would be ignored.
// Any additional library is an error; the archive must be exploded first.
func (s SpringBootFatJar) AugmentClasspath(_ context.Context, d *droplet.Droplet) error {
	archive, _, err := s.located(d.Root)
	if err != nil {
		return err
	}
	if d.Libraries.Len() == 0 {
		slog.Debug("no additional libraries for archive", "archive", archive)
		return nil
	}
	return &UnexplodedArchiveError{Archive: archive, Libraries: d.Libraries.Len()}
}

// stagedRoot returns the directory holding the lib/ with the Spring Boot jar.
func (s SpringBootStaged) stagedRoot(app types.FilesystemPath) (types.FilesystemPath, string, bool, error) {
	matches, err := globIn(app, stagedGlob)
	if err != nil {
		return "", "", false, err
	}
	best := ""
	for _, m := range matches {
		if isArchiveLayout(m) {
			continue
		}
		// Shallowest wins, so lib/ beats <dist>/lib/.
		if best == "" || strings.Count(m, "/") < strings.Count(best, "/") {
			best = m
		}
	}
	if best == "" {
		return "", "", false, nil
	}
	root := fspath.JoinStr(app, path.Dir(path.Dir(best)))
	return root, path.Base(best), true, nil
}

// isArchiveLayout reports whether a match lives inside an exploded jar or
// war layout, which belongs to SpringBootExploded.
func isArchiveLayout(match string) bool {
	for _, dir := range strings.Split(match, "/") {
		if dir == "BOOT-INF" || dir == "WEB-INF" {
			return true
		}
	}
	return false
}

// Kind implements Strategy.
func (SpringBootStaged) Kind() Kind { return KindSpringBootStaged }

// AppliesTo implements Strategy.
func (s SpringBootStaged) AppliesTo(app types.FilesystemPath) (bool, error) {
	_, _, ok, err := s.stagedRoot(app)
	return ok, err
}

// Version implements Strategy.
func (s SpringBootStaged) Version(app types.FilesystemPath) (string, error) {
	_, jar, ok, err := s.stagedRoot(app)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", notApplicable(s.Kind(), app)
	}
	v, _ := springBootJarVersion(jar)
	return v, nil
}

// LibraryDirectory implements Strategy.
func (s SpringBootStaged) LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error) {
	root, _, ok, err := s.stagedRoot(app)
	if err != nil {
		return libdir.Directory{}, err
	}
	if !ok {
		return libdir.Directory{}, notApplicable(s.Kind(), app)
	}
	return libdir.Resolver{}.Resolve(root)
}

// AugmentClasspath implements Strategy.
func (s SpringBootStaged) AugmentClasspath(_ context.Context, d *droplet.Droplet) error {
	dir, err := s.LibraryDirectory(d.Root)
	if err != nil {
		return err
	}
	return linkLibraries(d, dir.Path)
}
