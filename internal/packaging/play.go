// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dropletkit/jbp/internal/droplet"
	"github.com/dropletkit/jbp/internal/libdir"
	"github.com/dropletkit/jbp/internal/startscript"
	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/tokver"
	"github.com/dropletkit/jbp/pkg/types"
)

// play20Prefix selects link-based wiring for the oldest dist generation.
const play20Prefix = "2.0"

// play22 is the first version packaged by sbt native packager.
var play22 = tokver.MustParse("2.2.0")

type (
	// playLayout is a located Play dist.
	playLayout struct {
		root    types.FilesystemPath
		script  types.FilesystemPath
		lib     types.FilesystemPath
		version string
	}

	// PlayDist20 is a Play 2.0.x dist. Its start script walks lib/, so
	// additional libraries are linked there.
	PlayDist20 struct{}

	// PlayDist21 is a Play 2.1.x dist. Additional libraries are prepended
	// to the classpath="..." line of the start script.
	PlayDist21 struct{}

	// PlayDist22 is a Play 2.2+ dist built by sbt native packager.
	// Additional libraries are prepended to declare -r app_classpath="...".
	PlayDist22 struct{}
)

// legacyLayout locates a pre-2.2 dist: the single directory below app
// holding a start script and lib/ with a Play jar.
func legacyLayout(app types.FilesystemPath) (playLayout, bool, error) {
	root, ok, err := singleDirectory(app)
	if err != nil || !ok {
		return playLayout{}, false, err
	}
	script := fspath.JoinStr(root, "start")
	if ok, err := fspath.IsFile(script); err != nil || !ok {
		return playLayout{}, false, err
	}
	lib := fspath.JoinStr(root, "lib")
	version, ok, err := playJarVersion(lib)
	if err != nil || !ok {
		return playLayout{}, false, err
	}
	return playLayout{root: root, script: script, lib: lib, version: version}, true, nil
}

// modernLayout locates a 2.2+ dist, either at app itself or in the single
// directory below it.
func modernLayout(app types.FilesystemPath) (playLayout, bool, error) {
	root := app
	if ok, err := hasBinAndLib(app); err != nil {
		return playLayout{}, false, err
	} else if !ok {
		single, found, err := singleDirectory(app)
		if err != nil || !found {
			return playLayout{}, false, err
		}
		if ok, err := hasBinAndLib(single); err != nil || !ok {
			return playLayout{}, false, err
		}
		root = single
	}

	script, ok, err := launcherScript(fspath.JoinStr(root, "bin"))
	if err != nil || !ok {
		return playLayout{}, false, err
	}
	lib := fspath.JoinStr(root, "lib")
	version, ok, err := playJarVersion(lib)
	if err != nil || !ok {
		return playLayout{}, false, err
	}
	parsed, err := tokver.Parse(version)
	if err != nil {
		slog.Debug("ignoring unparseable Play version", "version", version, "error", err)
		return playLayout{}, false, nil
	}
	if parsed.Less(play22) {
		return playLayout{}, false, nil
	}
	return playLayout{root: root, script: script, lib: lib, version: version}, true, nil
}

func hasBinAndLib(dir types.FilesystemPath) (bool, error) {
	for _, sub := range []string{"bin", "lib"} {
		if ok, err := fspath.IsDir(fspath.JoinStr(dir, sub)); err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// launcherScript returns the only non-.bat file in bin.
func launcherScript(bin types.FilesystemPath) (types.FilesystemPath, bool, error) {
	entries, err := os.ReadDir(string(bin))
	if err != nil {
		return "", false, fmt.Errorf("listing %s: %w", bin, err)
	}
	var scripts []types.FilesystemPath
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".bat") {
			continue
		}
		scripts = append(scripts, fspath.JoinStr(bin, e.Name()))
	}
	if len(scripts) != 1 {
		return "", false, nil
	}
	return scripts[0], true, nil
}

func legacyFor(k Kind, app types.FilesystemPath, want func(version string) bool) (playLayout, error) {
	layout, ok, err := legacyLayout(app)
	if err != nil {
		return playLayout{}, err
	}
	if !ok || !want(layout.version) {
		return playLayout{}, notApplicable(k, app)
	}
	return layout, nil
}

func isPlay20(version string) bool { return strings.HasPrefix(version, play20Prefix) }

func isPlay21(version string) bool { return !isPlay20(version) }

func playLibraryDirectory(layout playLayout) libdir.Directory {
	return libdir.Directory{Path: layout.lib, Rule: libdir.RuleLib}
}

// Kind implements Strategy.
func (PlayDist20) Kind() Kind { return KindPlayDist20 }

// AppliesTo implements Strategy.
func (s PlayDist20) AppliesTo(app types.FilesystemPath) (bool, error) {
	layout, ok, err := legacyLayout(app)
	return ok && isPlay20(layout.version), err
}

// Version implements Strategy.
func (s PlayDist20) Version(app types.FilesystemPath) (string, error) {
	layout, err := legacyFor(s.Kind(), app, isPlay20)
	return layout.version, err
}

// LibraryDirectory implements Strategy.
func (s PlayDist20) LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error) {
	layout, err := legacyFor(s.Kind(), app, isPlay20)
	if err != nil {
		return libdir.Directory{}, err
	}
	return playLibraryDirectory(layout), nil
}

// AugmentClasspath implements Strategy.
func (s PlayDist20) AugmentClasspath(_ context.Context, d *droplet.Droplet) error {
	layout, err := legacyFor(s.Kind(), d.Root, isPlay20)
	if err != nil {
		return err
	}
	return linkLibraries(d, layout.lib)
}

// Kind implements Strategy.
func (PlayDist21) Kind() Kind { return KindPlayDist21 }

// AppliesTo implements Strategy.
func (s PlayDist21) AppliesTo(app types.FilesystemPath) (bool, error) {
	layout, ok, err := legacyLayout(app)
	return ok && isPlay21(layout.version), err
}

// Version implements Strategy.
func (s PlayDist21) Version(app types.FilesystemPath) (string, error) {
	layout, err := legacyFor(s.Kind(), app, isPlay21)
	return layout.version, err
}

// LibraryDirectory implements Strategy.
func (s PlayDist21) LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error) {
	layout, err := legacyFor(s.Kind(), app, isPlay21)
	if err != nil {
		return libdir.Directory{}, err
	}
	return playLibraryDirectory(layout), nil
}

// AugmentClasspath implements Strategy.
func (s PlayDist21) AugmentClasspath(_ context.Context, d *droplet.Droplet) error {
	layout, err := legacyFor(s.Kind(), d.Root, isPlay21)
	if err != nil {
		return err
	}
	return startscript.Augment(layout.script, startscript.ClasspathAnchor, d.Libraries)
}

func (s PlayDist22) layout(app types.FilesystemPath) (playLayout, error) {
	layout, ok, err := modernLayout(app)
	if err != nil {
		return playLayout{}, err
	}
	if !ok {
		return playLayout{}, notApplicable(s.Kind(), app)
	}
	return layout, nil
}

// Kind implements Strategy.
func (PlayDist22) Kind() Kind { return KindPlayDist22 }

// AppliesTo implements Strategy.
func (PlayDist22) AppliesTo(app types.FilesystemPath) (bool, error) {
	_, ok, err := modernLayout(app)
	return ok, err
}

// Version implements Strategy.
func (s PlayDist22) Version(app types.FilesystemPath) (string, error) {
	layout, err := s.layout(app)
	return layout.version, err
}

// LibraryDirectory implements Strategy.
func (s PlayDist22) LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error) {
	layout, err := s.layout(app)
	if err != nil {
		return libdir.Directory{}, err
	}
	return playLibraryDirectory(layout), nil
}

// AugmentClasspath implements Strategy.
func (s PlayDist22) AugmentClasspath(_ context.Context, d *droplet.Droplet) error {
	layout, err := s.layout(d.Root)
	if err != nil {
		return err
	}
	return startscript.Augment(layout.script, startscript.AppClasspathAnchor, d.Libraries)
}
