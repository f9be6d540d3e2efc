// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the main section of JAR manifests
// (META-INF/MANIFEST.MF), either from an exploded application directory or
// from inside a jar/war archive.
package manifest

import (
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/types"
)

// Path is the manifest location relative to an application or archive root.
const Path = "META-INF/MANIFEST.MF"

// Attribute names read by the packaging conventions.
const (
	MainClass         = "Main-Class"
	StartClass        = "Start-Class"
	SpringBootVersion = "Spring-Boot-Version"
	SpringBootLib     = "Spring-Boot-Lib"
	SpringBootClasses = "Spring-Boot-Classes"
)

// maxSize bounds how much of a manifest is read.
const maxSize = 1 << 20

// ErrMalformed is returned for manifest lines that are neither attributes,
// continuations nor section breaks.
var ErrMalformed = errors.New("malformed manifest")

// Manifest holds main-section attributes. Lookups are exact and
// case-sensitive, as the buildpack has always treated them.
type Manifest struct {
	attrs map[string]string
	order []string
}

// Empty returns a manifest with no attributes.
func Empty() *Manifest {
	return &Manifest{attrs: map[string]string{}}
}

// Parse parses manifest text. Only the main section (up to the first blank
// line) is kept.
func Parse(r io.Reader) (*Manifest, error) {
	m := Empty()
	scanner := bufio.NewScanner(io.LimitReader(r, maxSize))
	last := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case line == "":
			if len(m.order) > 0 {
				return m, nil
			}
		case strings.HasPrefix(line, " "):
			if last == "" {
				return nil, fmt.Errorf("%w: line %d: continuation without attribute", ErrMalformed, lineNo)
			}
			m.attrs[last] += line[1:]
		default:
			name, value, found := strings.Cut(line, ":")
			if !found || name == "" {
				return nil, fmt.Errorf("%w: line %d: %q", ErrMalformed, lineNo, line)
			}
			value = strings.TrimPrefix(value, " ")
			if _, seen := m.attrs[name]; !seen {
				m.order = append(m.order, name)
			}
			m.attrs[name] = value
			last = name
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	return m, nil
}

// ReadFile parses the manifest at path.
func ReadFile(path types.FilesystemPath) (*Manifest, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ForApplication returns the manifest of an exploded application, or an
// empty manifest when the application has none.
func ForApplication(root types.FilesystemPath) (*Manifest, error) {
	m, err := ReadFile(fspath.JoinStr(root, Path))
	if errors.Is(err, fs.ErrNotExist) {
		return Empty(), nil
	}
	return m, err
}

// ReadArchive parses META-INF/MANIFEST.MF inside a jar or war. An archive
// without a manifest yields an empty manifest.
func ReadArchive(archive types.FilesystemPath) (*Manifest, error) {
	zr, err := zip.OpenReader(string(archive))
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archive, err)
	}
	defer func() { _ = zr.Close() }() // Read-only archive; close error non-critical

	f, err := zr.Open(Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s in %s: %w", Path, archive, err)
	}
	defer func() { _ = f.Close() }()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s!%s: %w", archive, Path, err)
	}
	return m, nil
}

// Get returns the value of an attribute.
func (m *Manifest) Get(name string) (string, bool) {
	v, ok := m.attrs[name]
	return v, ok
}

// Value returns the value of an attribute, or "" when absent.
func (m *Manifest) Value(name string) string {
	return m.attrs[name]
}

// Has reports whether the attribute is present.
func (m *Manifest) Has(name string) bool {
	_, ok := m.attrs[name]
	return ok
}

// Names returns attribute names in file order.
func (m *Manifest) Names() []string {
	return append([]string(nil), m.order...)
}

// Len returns the number of attributes.
func (m *Manifest) Len() int { return len(m.order) }
