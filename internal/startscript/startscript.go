// SPDX-License-Identifier: MPL-2.0

// Package startscript prepends additional libraries to the classpath
// assignment of a generated start script.
package startscript

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/dropletkit/jbp/internal/droplet"
	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/types"
)

// separator joins classpath entries.
const separator = ":"

var (
	// ErrMissingAnchor is returned when a script has no line assigning the
	// anchor variable.
	ErrMissingAnchor = errors.New("start script classpath anchor not found")

	// ErrInvalidScript is returned when a rewrite would turn a parseable
	// script into one that no longer parses.
	ErrInvalidScript = errors.New("rewritten start script is not valid shell")

	// ClasspathAnchor is the assignment written by Play 2.1 dist start scripts.
	ClasspathAnchor = Anchor{Name: "classpath", Prefix: "$scriptdir"}

	// AppClasspathAnchor is the assignment written by Play 2.2+ (sbt native
	// packager) bash launchers.
	AppClasspathAnchor = Anchor{Name: "declare -r app_classpath", Prefix: "$app_home"}
)

type (
	// Anchor identifies the classpath line of a script: the text before
	// `="` and the shell variable holding the script's own directory.
	Anchor struct {
		Name   string
		Prefix string
	}

	// MissingAnchorError reports the anchor that was not found.
	MissingAnchorError struct {
		Anchor Anchor
	}

	// InvalidScriptError carries the parse failure of a rewritten script.
	InvalidScriptError struct {
		Path types.FilesystemPath
		Err  error
	}
)

// Error implements the error interface.
func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("start script has no %s=\"...\" line", e.Anchor.Name)
}

// Unwrap returns ErrMissingAnchor so callers can use errors.Is.
func (e *MissingAnchorError) Unwrap() error { return ErrMissingAnchor }

// Error implements the error interface.
func (e *InvalidScriptError) Error() string {
	return fmt.Sprintf("rewritten start script %s does not parse: %v", e.Path, e.Err)
}

// Unwrap returns ErrInvalidScript so callers can use errors.Is.
func (e *InvalidScriptError) Unwrap() error { return ErrInvalidScript }

func (a Anchor) pattern() *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(a.Name) + `="(.*)"$`)
}

// Entries renders script-relative library paths as classpath entries,
// e.g. "lib/a.jar" becomes "$scriptdir/lib/a.jar".
func (a Anchor) Entries(rels []string) []string {
	entries := make([]string, len(rels))
	for i, rel := range rels {
		entries[i] = a.Prefix + "/" + rel
	}
	return entries
}

// Rewrite prepends entries to the value of the first anchor assignment in
// content, keeping the existing value verbatim as the suffix. Entries the
// value already contains are skipped; if none remain content is returned
// unchanged, so rewriting twice is the same as rewriting once.
func Rewrite(content string, anchor Anchor, entries []string) (string, error) {
	loc := anchor.pattern().FindStringSubmatchIndex(content)
	if loc == nil {
		return "", &MissingAnchorError{Anchor: anchor}
	}
	valueStart, valueEnd := loc[2], loc[3]
	existing := content[valueStart:valueEnd]

	present := make(map[string]bool)
	for _, e := range strings.Split(existing, separator) {
		present[e] = true
	}
	var fresh []string
	for _, e := range entries {
		if !present[e] {
			fresh = append(fresh, e)
			present[e] = true
		}
	}
	if len(fresh) == 0 {
		return content, nil
	}

	value := strings.Join(fresh, separator)
	if existing != "" {
		value += separator + existing
	}
	return content[:valueStart] + value + content[valueEnd:], nil
}

// Augment rewrites the script at path in place so its classpath starts with
// libs, sorted, each relative to the script's directory. The file mode is
// kept. If the original script parsed as shell the result must parse too.
func Augment(path types.FilesystemPath, anchor Anchor, libs *droplet.Libraries) error {
	info, err := os.Stat(string(path))
	if err != nil {
		return fmt.Errorf("reading start script: %w", err)
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		return fmt.Errorf("reading start script: %w", err)
	}

	rels, err := droplet.NewLibraries(libs.Sorted()...).RelativePathFrom(fspath.Dir(path))
	if err != nil {
		return err
	}

	original := string(data)
	rewritten, err := Rewrite(original, anchor, anchor.Entries(rels))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if rewritten == original {
		slog.Debug("start script already augmented", "path", path)
		return nil
	}

	if parses(original, path) == nil {
		if err := parses(rewritten, path); err != nil {
			return &InvalidScriptError{Path: path, Err: err}
		}
	}

	if err := os.WriteFile(string(path), []byte(rewritten), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing start script: %w", err)
	}
	slog.Debug("start script augmented", "path", path, "anchor", anchor.Name, "entries", len(rels))
	return nil
}

func parses(script string, path types.FilesystemPath) error {
	_, err := syntax.NewParser().Parse(strings.NewReader(script), string(path))
	return err
}
