// SPDX-License-Identifier: MPL-2.0

// Package report records what jbp found out about an application as TOML,
// so later build steps can read the packaging convention without probing
// the application again.
package report

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/dropletkit/jbp/internal/droplet"
	"github.com/dropletkit/jbp/internal/libdir"
	"github.com/dropletkit/jbp/internal/packaging"
	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/tokver"
	"github.com/dropletkit/jbp/pkg/types"
)

// DefaultPath is the report location relative to the application root.
const DefaultPath types.FilesystemPath = ".jbp/packaging.toml"

type (
	// Report is the packaging metadata of one application.
	Report struct {
		Application string     `toml:"application"`
		Convention  string     `toml:"convention"`
		Version     string     `toml:"version,omitempty"`
		Thin        bool       `toml:"thin"`
		Libraries   Libraries  `toml:"libraries"`
		Java        *JavaEntry `toml:"java,omitempty"`
	}

	// Libraries describes the library directory and the libraries jbp adds.
	Libraries struct {
		Directory  string   `toml:"directory,omitempty"`
		Rule       string   `toml:"rule,omitempty"`
		Additional []string `toml:"additional,omitempty"`
	}

	// JavaEntry describes the runtime the application is staged with.
	JavaEntry struct {
		Home    string `toml:"home"`
		Version string `toml:"version,omitempty"`
	}
)

// Build collects the report for the strategy selected for d. A missing
// version or library directory leaves the field empty.
func Build(s packaging.Strategy, d *droplet.Droplet) (*Report, error) {
	r := &Report{
		Application: d.Root.String(),
		Convention:  s.Kind().String(),
		Thin:        s.Kind() == packaging.KindSpringBootThin,
	}

	for _, p := range d.Libraries.Paths() {
		r.Libraries.Additional = append(r.Libraries.Additional, p.String())
	}

	version, err := s.Version(d.Root)
	switch {
	case err == nil:
		r.Version = version
	case errors.Is(err, packaging.ErrUnknownVersion):
	default:
		return nil, fmt.Errorf("reading %s version: %w", s.Kind(), err)
	}

	dir, err := s.LibraryDirectory(d.Root)
	switch {
	case err == nil:
		r.Libraries.Directory = dir.Path.String()
		r.Libraries.Rule = string(dir.Rule)
	case errors.Is(err, libdir.ErrNoLibraryDirectory):
	default:
		return nil, fmt.Errorf("resolving %s library directory: %w", s.Kind(), err)
	}

	if d.JavaHome != nil && d.JavaHome.Root != "" {
		r.Java = &JavaEntry{Home: d.JavaHome.Root.String()}
		if d.JavaHome.Version != (tokver.Version{}) {
			r.Java.Version = d.JavaHome.Version.String()
		}
	}
	return r, nil
}

// Marshal renders r as TOML.
func Marshal(r *Report) ([]byte, error) {
	data, err := toml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return data, nil
}

// Write stores r at path, creating parent directories as needed.
func Write(path types.FilesystemPath, r *Report) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	dir := fspath.Dir(path)
	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path types.FilesystemPath) (*Report, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	var r Report
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}

// PathFor returns DefaultPath below the application root.
func PathFor(app types.FilesystemPath) types.FilesystemPath {
	return fspath.Join(app, DefaultPath)
}
