// SPDX-License-Identifier: MPL-2.0

// Package javahome models the JAVA_HOME used by a droplet.
//
// A JavaHome is created once per application by whoever owns the build and is
// handed by pointer to every component that needs runtime facts. Its Root and
// Version fields are deliberately writable: the JRE component fills them in
// once the runtime is installed, and every holder sees the update. There is
// no locking; a build is single-threaded and concurrent builds each own
// their own JavaHome.
package javahome

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/platform"
	"github.com/dropletkit/jbp/pkg/tokver"
	"github.com/dropletkit/jbp/pkg/types"
)

// releaseFile is the metadata file every JDK/JRE image carries at its root.
const releaseFile = "release"

var (
	version8  = tokver.MustParse("1.8.0")
	version9  = tokver.MustParse("9.0.0")
	version10 = tokver.MustParse("10.0.0")
)

// ErrNoReleaseVersion is returned by Refine when the release file has no
// JAVA_VERSION entry.
var ErrNoReleaseVersion = errors.New("release file has no JAVA_VERSION")

// JavaHome is the droplet's JAVA_HOME and the version installed there.
type JavaHome struct {
	// Root is the JAVA_HOME directory.
	Root types.FilesystemPath
	// Version is the installed runtime version.
	Version tokver.Version
}

// New creates a JavaHome.
func New(root types.FilesystemPath, version tokver.Version) *JavaHome {
	return &JavaHome{Root: root, Version: version}
}

// Java8OrLater reports whether the version is 1.8.0 or later.
func (h *JavaHome) Java8OrLater() bool {
	return h.Version.GreaterOrEqual(version8)
}

// Java9OrLater reports whether the version is 9.0.0 or later.
func (h *JavaHome) Java9OrLater() bool {
	return h.Version.GreaterOrEqual(version9)
}

// Java10OrLater reports whether the version is 10.0.0 or later.
func (h *JavaHome) Java10OrLater() bool {
	return h.Version.GreaterOrEqual(version10)
}

// Java returns the path of the java launcher under Root.
func (h *JavaHome) Java() types.FilesystemPath {
	return fspath.JoinStr(h.Root, "bin", platform.HostExecutableName("java"))
}

// Refine reads JAVA_VERSION from <Root>/release and stores it in Version.
func (h *JavaHome) Refine() error {
	path := fspath.JoinStr(h.Root, releaseFile)
	data, err := os.ReadFile(string(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no release file in %s: %w", h.Root, err)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	raw, ok := releaseValue(data, "JAVA_VERSION")
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNoReleaseVersion)
	}

	v, err := tokver.Parse(normalizeJavaVersion(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("refined java home version", "root", h.Root, "from", h.Version.String(), "to", v.String())
	h.Version = v
	return nil
}

// releaseValue returns the unquoted value of KEY="value" in a release file.
func releaseValue(data []byte, key string) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		name, value, found := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !found || strings.TrimSpace(name) != key {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"'`), true
	}
	return "", false
}

// normalizeJavaVersion pads short release versions ("9", "11.0") to three
// components while leaving any update qualifier in place. Components past
// the third ("17.0.4.1") move into the qualifier ("17.0.4-1").
func normalizeJavaVersion(raw string) string {
	numeric, qualifier := raw, ""
	if i := strings.IndexAny(raw, "_-+"); i >= 0 {
		numeric, qualifier = raw[:i], raw[i:]
	}
	if numeric == "" {
		return raw
	}
	// JDK 9+ uses "+" for the build number; tokver reserves "+" for wildcards.
	if strings.HasPrefix(qualifier, "+") {
		qualifier = "-" + qualifier[1:]
	}
	if parts := strings.Split(numeric, "."); len(parts) > 3 {
		numeric = strings.Join(parts[:3], ".")
		extra := strings.Join(parts[3:], ".")
		if qualifier == "" {
			qualifier = "-" + extra
		} else {
			qualifier = qualifier[:1] + extra + "." + qualifier[1:]
		}
	}
	for strings.Count(numeric, ".") < 2 {
		numeric += ".0"
	}
	return numeric + qualifier
}
